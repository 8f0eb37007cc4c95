// Package analysis turns a rasterized attempt into a model request and the
// model's free-text reply into a structured Result.
package analysis

// Score is a 0..100 rating with the bullet lines it was derived from.
type Score struct {
	Value   int
	Details []string
}

// Mistakes pairs each mistake the model named with a derived improvement.
type Mistakes struct {
	Mistakes     []string
	Improvements []string
}

// Reported holds percentages the model stated itself, as opposed to scores
// computed from keywords. Nil means the model did not report one.
type Reported struct {
	Overall   *int
	Formation *int
}

// Field marks which parts of a Result a parser actually populated.
type Field uint8

const (
	FieldStrokeQuality Field = 1 << iota
	FieldFormation
	FieldNextStrokes
	FieldMistakes
	FieldOverall
	FieldFormationPercent
)

// Result is the parsed feedback for one attempt. Each analysis produces a
// fresh Result; results are never merged.
type Result struct {
	StrokeQuality Score
	Formation     Score
	NextStrokes   []string
	Mistakes      Mistakes
	Reported      Reported

	// Fields records which of the above were present in the reply.
	Fields Field

	// Parser names the parser that produced the result.
	Parser string
}

// Has reports whether f was populated.
func (r Result) Has(f Field) bool { return r.Fields&f != 0 }

// Empty reports whether nothing was recognized.
func (r Result) Empty() bool { return r.Fields == 0 }

// Parser turns model text into a Result. Parsers never fail: text they do
// not understand yields an empty Result.
type Parser interface {
	Name() string
	Parse(text string) Result
}
