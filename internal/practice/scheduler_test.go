package practice

import "testing"

func TestScheduler_DebounceRestarts(t *testing.T) {
	var s Scheduler

	t1, arm := s.Trigger()
	if !arm || s.State() != StatePending {
		t.Fatalf("expected pending with armed timer, got %v arm=%v", s.State(), arm)
	}
	t2, arm := s.Trigger()
	if !arm || t2 == t1 {
		t.Fatalf("expected a fresh token, got %d after %d", t2, t1)
	}

	if s.Fire(t1) {
		t.Fatal("stale token must not fire")
	}
	if s.State() != StatePending {
		t.Fatalf("stale fire changed state to %v", s.State())
	}
	if !s.Fire(t2) {
		t.Fatal("current token should fire")
	}
	if s.State() != StateInFlight {
		t.Fatalf("expected in-flight, got %v", s.State())
	}
}

func TestScheduler_SerializesAndCoalesces(t *testing.T) {
	var s Scheduler
	tok, _ := s.Trigger()
	s.Fire(tok)

	for range 5 {
		if _, arm := s.Trigger(); arm {
			t.Fatal("no timer should be armed while in flight")
		}
	}
	if s.State() != StateInFlightQueued {
		t.Fatalf("expected queued, got %v", s.State())
	}
	if s.Fire(tok) {
		t.Fatal("fire during flight must not start another request")
	}

	next, arm := s.Complete()
	if !arm || s.State() != StatePending {
		t.Fatalf("expected one follow-up, got %v arm=%v", s.State(), arm)
	}
	if !s.Fire(next) {
		t.Fatal("follow-up should fire")
	}
	if _, arm := s.Complete(); arm {
		t.Fatal("nothing else was queued")
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %v", s.State())
	}
}

func TestScheduler_Reset(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Scheduler)
		want  SchedulerState
	}{
		{"idle", func(*Scheduler) {}, StateIdle},
		{"pending", func(s *Scheduler) { s.Trigger() }, StateIdle},
		{"in flight", func(s *Scheduler) {
			tok, _ := s.Trigger()
			s.Fire(tok)
		}, StateInFlight},
		{"queued", func(s *Scheduler) {
			tok, _ := s.Trigger()
			s.Fire(tok)
			s.Trigger()
		}, StateInFlight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Scheduler
			tt.setup(&s)
			s.Reset()
			if s.State() != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, s.State())
			}
		})
	}
}

func TestScheduler_ResetInvalidatesPendingToken(t *testing.T) {
	var s Scheduler
	tok, _ := s.Trigger()
	s.Reset()
	if s.Fire(tok) {
		t.Fatal("token from before reset must not fire")
	}
}

func TestScheduler_CompleteWhenIdle(t *testing.T) {
	var s Scheduler
	if _, arm := s.Complete(); arm {
		t.Fatal("complete on idle must not arm")
	}
	if s.State() != StateIdle {
		t.Fatalf("expected idle, got %v", s.State())
	}
}
