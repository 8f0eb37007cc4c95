package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	blankLine  = regexp.MustCompile(`\n[ \t]*\n`)
	percentage = regexp.MustCompile(`(\d+)%`)
)

// BlockParser reads the paragraph-shaped reply variant: blank-line separated
// blocks that each start with a literal "**Header**". Both quality scores
// take the reply's overall percentage, and a reply without one scores 0.
// Replies without any known block are not recognized.
// Results carry Parser "blocks" so that 0 is never mistaken for the
// keyword path's neutral score.
type BlockParser struct {
	Rules Rules
}

// NewBlockParser returns a BlockParser using rules.
func NewBlockParser(rules Rules) *BlockParser {
	return &BlockParser{Rules: rules}
}

func (p *BlockParser) Name() string { return "blocks" }

func (p *BlockParser) Parse(text string) Result {
	res := Result{Parser: p.Name()}
	blocks := blankLine.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1)

	find := func(header string) (string, bool) {
		title := boldMarker + header + boldMarker
		for _, b := range blocks {
			b = strings.TrimLeft(b, " \t\n")
			if strings.HasPrefix(b, title) {
				return strings.TrimSpace(strings.TrimPrefix(b, title)), true
			}
		}
		return "", false
	}

	r := p.Rules
	found := false
	for _, h := range []string{r.StrokeHeader, r.FormationHeader, r.NextStrokesHeader, r.MistakesHeader, r.OverallHeader} {
		if _, ok := find(h); ok {
			found = true
			break
		}
	}
	// Without a known block a stray percentage is not a reply.
	if !found {
		return res
	}

	overall, hasOverallBlock := find(r.OverallHeader)
	scope := text
	if hasOverallBlock {
		scope = overall
	}
	score := 0
	if m := percentage.FindStringSubmatch(scope); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			score = clampPercent(v)
		} else {
			score = 100
		}
		res.Reported.Overall = &score
		res.Fields |= FieldOverall
	}

	if body, ok := find(r.StrokeHeader); ok {
		res.StrokeQuality = Score{Value: score, Details: []string{body}}
		res.Fields |= FieldStrokeQuality
	}
	if body, ok := find(r.FormationHeader); ok {
		res.Formation = Score{Value: score, Details: []string{body}}
		res.Fields |= FieldFormation
	}
	if body, ok := find(r.NextStrokesHeader); ok {
		res.NextStrokes = blockLines(body)
		res.Fields |= FieldNextStrokes
	}
	if body, ok := find(r.MistakesHeader); ok {
		var mistakes []string
		for _, part := range strings.Split(body, "*") {
			if t := strings.TrimSpace(part); t != "" {
				mistakes = append(mistakes, t)
			}
		}
		res.Mistakes = Mistakes{Mistakes: mistakes, Improvements: r.Improvements(mistakes)}
		res.Fields |= FieldMistakes
	}
	return res
}

// blockLines returns the non-blank lines of body with any bullet marker
// removed.
func blockLines(body string) []string {
	var out []string
	for _, l := range strings.Split(body, "\n") {
		t := strings.TrimSpace(l)
		t = strings.TrimSpace(strings.TrimPrefix(t, "*"))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
