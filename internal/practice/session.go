// Package practice drives one practice session: the selected target, the
// stroke capture, when to analyze, and the latest feedback.
package practice

import (
	"fmt"
	"time"

	"github.com/abhisek/scribe/internal/analysis"
	"github.com/abhisek/scribe/internal/script"
	"github.com/abhisek/scribe/internal/stroke"
)

// DefaultQuiescence is how long input must be idle before an analysis.
const DefaultQuiescence = 300 * time.Millisecond

// Options configures a Session.
type Options struct {
	Language   string
	Level      string
	Quiescence time.Duration
	Viewport   stroke.Viewport
}

// Job is one analysis to run: a snapshot of the attempt at trigger time.
type Job struct {
	Epoch     uint64
	Language  script.Language
	Level     script.Level
	Character string
	Strokes   []stroke.Stroke
}

// Target returns the request target for the job.
func (j Job) Target() analysis.Target {
	return analysis.TargetFor(j.Language, j.Level, j.Character)
}

// Completion is what running a Job produced.
type Completion struct {
	Epoch   uint64
	Outcome analysis.Outcome
	Err     error
}

// Session owns all mutable practice state. It is not safe for concurrent
// use: a single event loop calls every method and acts on the returned
// events.
type Session struct {
	catalog    *script.Catalog
	language   script.Language
	level      script.Level
	index      int
	quiescence time.Duration

	capture *stroke.Capture
	sched   Scheduler

	// epoch increments whenever the canvas is emptied or the selection
	// changes; completions from an older epoch are discarded.
	epoch         uint64
	inFlightEpoch uint64

	last     *analysis.Result
	outcome  *analysis.Outcome
	lastErr  error
	recorder *eventRecorder
}

// eventRecorder collects capture notifications as events.
type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) StrokesChanged(strokes []stroke.Stroke) {
	r.events = append(r.events, StrokesChanged{Strokes: strokes})
}

func (r *eventRecorder) DrawingChanged(drawing bool) {
	r.events = append(r.events, DrawingChanged{Drawing: drawing})
}

func (r *eventRecorder) drain() []Event {
	out := r.events
	r.events = nil
	return out
}

// NewSession starts a session on the first character of the given
// language and level.
func NewSession(catalog *script.Catalog, opts Options) (*Session, error) {
	lang, level, err := lookup(catalog, opts.Language, opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Quiescence == 0 {
		opts.Quiescence = DefaultQuiescence
	}
	rec := &eventRecorder{}
	return &Session{
		catalog:    catalog,
		language:   lang,
		level:      level,
		quiescence: opts.Quiescence,
		capture:    stroke.NewCapture(opts.Viewport, rec),
		recorder:   rec,
	}, nil
}

func lookup(catalog *script.Catalog, langKey, levelKey string) (script.Language, script.Level, error) {
	lang, ok := catalog.Language(langKey)
	if !ok {
		return script.Language{}, script.Level{}, fmt.Errorf("unknown language %q", langKey)
	}
	level, err := catalog.Level(langKey, levelKey)
	if err != nil {
		return script.Language{}, script.Level{}, err
	}
	return lang, level, nil
}

// Language returns the selected language.
func (s *Session) Language() script.Language { return s.language }

// Level returns the selected level.
func (s *Session) Level() script.Level { return s.level }

// Character returns the character being practised.
func (s *Session) Character() string { return s.level.Characters[s.index] }

// Index returns the position of the character within the level.
func (s *Session) Index() int { return s.index }

// Tips returns the guidance for the current selection.
func (s *Session) Tips() []string {
	return s.catalog.Tips(s.language.Key, s.level.Key)
}

// Strokes returns the committed strokes.
func (s *Session) Strokes() []stroke.Stroke { return s.capture.Strokes() }

// Snapshot returns the committed strokes plus any open stroke.
func (s *Session) Snapshot() []stroke.Stroke { return s.capture.Snapshot() }

// Drawing reports whether a stroke is open.
func (s *Session) Drawing() bool { return s.capture.Drawing() }

// Analyzing reports whether a request for the current selection is running.
func (s *Session) Analyzing() bool {
	return s.sched.InFlight() && s.inFlightEpoch == s.epoch
}

// Scheduler exposes the trigger state for inspection.
func (s *Session) Scheduler() SchedulerState { return s.sched.State() }

// Result returns the last successfully parsed result, or nil.
func (s *Session) Result() *analysis.Result { return s.last }

// LastOutcome returns the most recent completed outcome, parsed or not.
func (s *Session) LastOutcome() *analysis.Outcome { return s.outcome }

// LastError returns the error of the most recent failed analysis, cleared
// by the next success.
func (s *Session) LastError() error { return s.lastErr }

// SetViewport updates the client-to-canvas mapping.
func (s *Session) SetViewport(v stroke.Viewport) { s.capture.SetViewport(v) }

// Viewport returns the client-to-canvas mapping.
func (s *Session) Viewport() stroke.Viewport { return s.capture.Viewport() }

// Down handles pointer-down at client coordinates.
func (s *Session) Down(x, y float64) []Event {
	s.capture.Down(x, y)
	return s.recorder.drain()
}

// Move handles pointer movement.
func (s *Session) Move(x, y float64) []Event {
	s.capture.Move(x, y)
	return s.recorder.drain()
}

// Up handles pointer release. Releasing with strokes on the canvas triggers
// an analysis.
func (s *Session) Up() []Event {
	if !s.capture.Drawing() {
		return nil
	}
	s.capture.Up()
	return s.maybeTrigger(s.recorder.drain())
}

// Leave handles the pointer leaving the canvas.
func (s *Session) Leave() []Event {
	return s.Up()
}

// Undo removes the last stroke. With strokes left and no stroke open, the
// updated history triggers an analysis. Undoing the last stroke retires any
// analysis in flight.
func (s *Session) Undo() []Event {
	s.capture.Undo()
	events := s.recorder.drain()
	if len(events) == 0 {
		return events
	}
	if len(s.capture.Strokes()) == 0 {
		s.epoch++
	}
	if s.capture.Drawing() {
		return events
	}
	return s.maybeTrigger(events)
}

// Clear empties the canvas, drops any pending analysis and retires the one
// in flight.
func (s *Session) Clear() []Event {
	s.capture.Clear()
	s.sched.Reset()
	s.epoch++
	return s.recorder.drain()
}

// AnalyzeNow requests an immediate analysis of the current strokes.
func (s *Session) AnalyzeNow() []Event {
	if len(s.capture.Strokes()) == 0 {
		return nil
	}
	token, arm := s.sched.Trigger()
	if !arm {
		return nil
	}
	return s.Fire(token)
}

// Select switches language and level, starting at the first character.
func (s *Session) Select(langKey, levelKey string) ([]Event, error) {
	lang, level, err := lookup(s.catalog, langKey, levelKey)
	if err != nil {
		return nil, err
	}
	s.language = lang
	s.level = level
	return s.reset(0), nil
}

// SetCharacter switches to the character at index within the level,
// wrapping around at either end.
func (s *Session) SetCharacter(index int) []Event {
	n := len(s.level.Characters)
	return s.reset(((index % n) + n) % n)
}

// NextCharacter moves to the next character.
func (s *Session) NextCharacter() []Event { return s.SetCharacter(s.index + 1) }

// PrevCharacter moves to the previous character.
func (s *Session) PrevCharacter() []Event { return s.SetCharacter(s.index - 1) }

// reset clears all per-attempt state for a new target.
func (s *Session) reset(index int) []Event {
	s.index = index
	s.capture.Reset()
	s.sched.Reset()
	s.epoch++
	s.last = nil
	s.outcome = nil
	s.lastErr = nil
	return []Event{
		StrokesChanged{Strokes: nil},
		DrawingChanged{Drawing: false},
		SelectionChanged{
			Language:  s.language.Key,
			Level:     s.level.Key,
			Character: s.Character(),
			Index:     s.index,
		},
	}
}

// Fire reports that the quiescence timer for token expired. A timer that
// expires while a stroke is open is ignored; the release re-arms it.
func (s *Session) Fire(token uint64) []Event {
	strokes := s.capture.Strokes()
	if len(strokes) == 0 {
		s.sched.Reset()
		return nil
	}
	if s.capture.Drawing() {
		return nil
	}
	if !s.sched.Fire(token) {
		return nil
	}
	s.inFlightEpoch = s.epoch
	return []Event{AnalysisStarted{Job: Job{
		Epoch:     s.epoch,
		Language:  s.language,
		Level:     s.level,
		Character: s.Character(),
		Strokes:   strokes,
	}}}
}

// Complete records the end of a running analysis. Completions for an
// earlier selection are discarded.
func (s *Session) Complete(c Completion) []Event {
	var events []Event
	if token, arm := s.sched.Complete(); arm {
		events = append(events, TimerArmed{Token: token, After: s.quiescence})
	}
	if c.Epoch != s.epoch {
		return events
	}

	if c.Err != nil {
		s.lastErr = c.Err
		return append(events, AnalysisFailed{Err: c.Err})
	}

	out := c.Outcome
	s.outcome = &out
	s.lastErr = nil
	if out.Parsed {
		r := out.Result
		s.last = &r
	}
	return append(events, AnalysisCompleted{Outcome: out})
}

func (s *Session) maybeTrigger(events []Event) []Event {
	if len(s.capture.Strokes()) == 0 {
		return events
	}
	if token, arm := s.sched.Trigger(); arm {
		events = append(events, TimerArmed{Token: token, After: s.quiescence})
	}
	return events
}
