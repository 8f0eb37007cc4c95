package practice

import (
	sess "github.com/abhisek/scribe/internal/practice"
)

// quiescedMsg is sent when a quiescence timer expires.
type quiescedMsg struct {
	Token uint64
}

// analysisDoneMsg carries a finished analysis back onto the loop.
type analysisDoneMsg struct {
	Completion sess.Completion
}
