package practice

import (
	"time"

	"github.com/abhisek/scribe/internal/analysis"
	"github.com/abhisek/scribe/internal/stroke"
)

// Event is a state change the presentation layer reacts to.
type Event interface {
	event()
}

// StrokesChanged carries the full committed history after a change.
type StrokesChanged struct {
	Strokes []stroke.Stroke
}

// DrawingChanged reports a pen-down or pen-up transition.
type DrawingChanged struct {
	Drawing bool
}

// SelectionChanged reports a new practice target. The history has been
// reset.
type SelectionChanged struct {
	Language  string
	Level     string
	Character string
	Index     int
}

// TimerArmed asks the host to call Fire(Token) after After elapses.
type TimerArmed struct {
	Token uint64
	After time.Duration
}

// AnalysisStarted asks the host to run Job off the event loop and hand the
// Completion back.
type AnalysisStarted struct {
	Job Job
}

// AnalysisCompleted reports a finished analysis for the current selection.
// Outcome.Parsed is false when the reply could not be understood; the last
// successful result is kept in that case.
type AnalysisCompleted struct {
	Outcome analysis.Outcome
}

// AnalysisFailed reports a failed analysis for the current selection.
type AnalysisFailed struct {
	Err error
}

func (StrokesChanged) event()    {}
func (DrawingChanged) event()    {}
func (SelectionChanged) event()  {}
func (TimerArmed) event()        {}
func (AnalysisStarted) event()   {}
func (AnalysisCompleted) event() {}
func (AnalysisFailed) event()    {}
