package analysis

import (
	"math"
	"sort"
	"strings"
)

// Section headers the prompt asks for and the parsers dispatch on.
const (
	HeaderStrokeQuality    = "Current Stroke Quality"
	HeaderFormation        = "Letter Formation"
	HeaderNextStrokes      = "Next Expected Strokes"
	HeaderMistakes         = "Common Mistakes to Avoid"
	HeaderOverall          = "Overall Quality Score (%)"
	HeaderFormationPercent = "Formation Score (%)"
)

// Headers lists the section headers in prompt order.
var Headers = []string{
	HeaderStrokeQuality,
	HeaderFormation,
	HeaderNextStrokes,
	HeaderMistakes,
	HeaderOverall,
	HeaderFormationPercent,
}

// Keyword is a positive indicator and its weight in (0,1].
type Keyword struct {
	Word   string
	Weight float64
}

// Rules is the swappable table data behind the parsers, so that drift in
// the model's wording can be absorbed by configuration.
type Rules struct {
	StrokeHeader           string
	FormationHeader        string
	NextStrokesHeader      string
	MistakesHeader         string
	OverallHeader          string
	FormationPercentHeader string

	StrokeKeywords    []Keyword
	FormationKeywords []Keyword

	// StripPrefixes are removed from the start of a mistake, in order,
	// before ImprovementPrefix is prepended.
	StripPrefixes     []string
	ImprovementPrefix string

	// NeutralScore is used when a section has no keyword matches.
	NeutralScore int

	// Line labels read by the labelled-text parser. Matching is
	// case-insensitive and accepts a trailing "s".
	ImprovementsLabel string
	StrokeOrderLabel  string
	MistakesLabel     string
}

// DefaultRules returns the built-in tables.
func DefaultRules() Rules {
	return Rules{
		StrokeHeader:           HeaderStrokeQuality,
		FormationHeader:        HeaderFormation,
		NextStrokesHeader:      HeaderNextStrokes,
		MistakesHeader:         HeaderMistakes,
		OverallHeader:          HeaderOverall,
		FormationPercentHeader: HeaderFormationPercent,
		StrokeKeywords: []Keyword{
			{"good", 1},
			{"smooth", 0.8},
			{"consistent", 0.8},
			{"accurate", 0.9},
			{"precise", 0.9},
		},
		FormationKeywords: []Keyword{
			{"well-formed", 1},
			{"clear", 0.8},
			{"distinct", 0.8},
			{"correct", 0.9},
			{"natural", 0.8},
			{"flowing", 0.7},
			{"good", 0.8},
		},
		StripPrefixes:     []string{"Avoid ", "Watch out for "},
		ImprovementPrefix: "Improve: ",
		NeutralScore:      50,
		ImprovementsLabel: "Improvement",
		StrokeOrderLabel:  "Stroke order",
		MistakesLabel:     "Common mistake",
	}
}

// KeywordsFromMap converts a word→weight table into a Keyword list in a
// stable order.
func KeywordsFromMap(m map[string]float64) []Keyword {
	out := make([]Keyword, 0, len(m))
	for w, weight := range m {
		out = append(out, Keyword{Word: w, Weight: weight})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })
	return out
}

// KeywordScore averages the weights of every keyword found in every bullet.
// A keyword counts once per bullet it appears in. With no matches the
// neutral score is returned.
func (r Rules) KeywordScore(bullets []string, keywords []Keyword) int {
	var sum float64
	count := 0
	for _, b := range bullets {
		lower := strings.ToLower(b)
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw.Word)) {
				sum += kw.Weight
				count++
			}
		}
	}
	if count == 0 {
		return r.NeutralScore
	}
	return int(math.Round(sum / float64(count) * 100))
}

// Improvements derives one suggestion per mistake.
func (r Rules) Improvements(mistakes []string) []string {
	if len(mistakes) == 0 {
		return nil
	}
	out := make([]string, len(mistakes))
	for i, m := range mistakes {
		s := m
		for _, p := range r.StripPrefixes {
			s = strings.TrimPrefix(s, p)
		}
		out[i] = r.ImprovementPrefix + s
	}
	return out
}

func clampPercent(v int) int {
	return max(0, min(100, v))
}
