package practice

// SchedulerState is the phase of the analysis trigger state machine.
type SchedulerState int

const (
	StateIdle           SchedulerState = iota // Nothing pending or running
	StatePending                              // Waiting for quiescence; token identifies the timer
	StateInFlight                             // One request running
	StateInFlightQueued                       // One request running, another wanted after it
)

func (s SchedulerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateInFlight:
		return "in-flight"
	case StateInFlightQueued:
		return "in-flight+queued"
	}
	return "unknown"
}

// Scheduler debounces analysis triggers and serializes requests: at most one
// is in flight, and any number of triggers during a flight coalesce into a
// single follow-up. It holds no timers; callers arm a timer for the token
// it hands out and report back through Fire.
type Scheduler struct {
	state SchedulerState
	token uint64
}

// State returns the current phase.
func (s *Scheduler) State() SchedulerState { return s.state }

// Token returns the token of the most recently armed timer.
func (s *Scheduler) Token() uint64 { return s.token }

// InFlight reports whether a request is running.
func (s *Scheduler) InFlight() bool {
	return s.state == StateInFlight || s.state == StateInFlightQueued
}

// Trigger records a request for analysis. When arm is true the caller must
// start a quiescence timer for token; any earlier timer is now stale.
func (s *Scheduler) Trigger() (token uint64, arm bool) {
	switch s.state {
	case StateIdle, StatePending:
		s.state = StatePending
		return s.next(), true
	case StateInFlight:
		s.state = StateInFlightQueued
	}
	return 0, false
}

// Fire reports that the timer for token expired. It returns true when the
// caller should start a request now. Stale tokens are ignored.
func (s *Scheduler) Fire(token uint64) bool {
	if s.state != StatePending || token != s.token {
		return false
	}
	s.state = StateInFlight
	return true
}

// Complete reports that the running request finished. When a follow-up was
// queued the scheduler becomes pending again and the caller must arm a timer
// for token.
func (s *Scheduler) Complete() (token uint64, arm bool) {
	switch s.state {
	case StateInFlight:
		s.state = StateIdle
	case StateInFlightQueued:
		s.state = StatePending
		return s.next(), true
	}
	return 0, false
}

// Reset drops pending and queued work. A request already in flight stays
// accounted for until Complete.
func (s *Scheduler) Reset() {
	switch s.state {
	case StatePending:
		s.state = StateIdle
		s.token++
	case StateInFlightQueued:
		s.state = StateInFlight
	}
}

func (s *Scheduler) next() uint64 {
	s.token++
	return s.token
}
