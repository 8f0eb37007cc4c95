package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

const boldMarker = "**"

var firstInt = regexp.MustCompile(`\d+`)

// SectionParser reads replies laid out as bold headers each followed by
// "* " bullet lines.
type SectionParser struct {
	Rules Rules
}

// NewSectionParser returns a SectionParser using rules.
func NewSectionParser(rules Rules) *SectionParser {
	return &SectionParser{Rules: rules}
}

func (p *SectionParser) Name() string { return "sections" }

type section struct {
	header  string
	bullets []string
	body    []string
}

// Parse splits text on "**". Bold spans become headers and the text up to
// the next marker is that header's body. Text before the first bold span is
// a section of its own. Text without any marker yields an empty Result.
func (p *SectionParser) Parse(text string) Result {
	res := Result{Parser: p.Name()}
	if !strings.Contains(text, boldMarker) {
		return res
	}

	for _, s := range splitSections(text) {
		p.apply(&res, s)
	}
	return res
}

func splitSections(text string) []section {
	frags := strings.Split(text, boldMarker)
	var out []section

	if s, ok := readSection(frags[0]); ok {
		out = append(out, s)
	}
	for i := 1; i < len(frags); i += 2 {
		header := frags[i]
		body := ""
		if i+1 < len(frags) {
			body = frags[i+1]
		}
		if strings.TrimSpace(header) == "" {
			if s, ok := readSection(body); ok {
				out = append(out, s)
			}
			continue
		}
		if s, ok := readSection(header + "\n" + body); ok {
			out = append(out, s)
		}
	}
	return out
}

// readSection takes the first non-blank line as the header and the
// remaining lines starting with "*" as bullets.
func readSection(frag string) (section, bool) {
	var lines []string
	for _, l := range strings.Split(frag, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) == 0 {
		return section{}, false
	}

	s := section{
		header: strings.ToLower(strings.TrimSpace(lines[0])),
		body:   lines[1:],
	}
	for _, l := range lines[1:] {
		t := strings.TrimSpace(l)
		if !strings.HasPrefix(t, "*") {
			continue
		}
		t = strings.TrimPrefix(t, "* ")
		s.bullets = append(s.bullets, strings.TrimSpace(t))
	}
	return s, true
}

func (p *SectionParser) apply(res *Result, s section) {
	r := p.Rules
	switch s.header {
	case strings.ToLower(r.StrokeHeader):
		res.StrokeQuality = Score{Value: r.KeywordScore(s.bullets, r.StrokeKeywords), Details: s.bullets}
		res.Fields |= FieldStrokeQuality
	case strings.ToLower(r.FormationHeader):
		res.Formation = Score{Value: r.KeywordScore(s.bullets, r.FormationKeywords), Details: s.bullets}
		res.Fields |= FieldFormation
	case strings.ToLower(r.NextStrokesHeader):
		res.NextStrokes = s.bullets
		res.Fields |= FieldNextStrokes
	case strings.ToLower(r.MistakesHeader):
		res.Mistakes = Mistakes{Mistakes: s.bullets, Improvements: r.Improvements(s.bullets)}
		res.Fields |= FieldMistakes
	case strings.ToLower(r.OverallHeader):
		if v, ok := percentIn(strings.Join(s.body, "\n")); ok {
			res.Reported.Overall = &v
			res.Fields |= FieldOverall
		}
	case strings.ToLower(r.FormationPercentHeader):
		if v, ok := percentIn(strings.Join(s.body, "\n")); ok {
			res.Reported.Formation = &v
			res.Fields |= FieldFormationPercent
		}
	}
}

// percentIn returns the first integer in text, clamped to 0..100.
func percentIn(text string) (int, bool) {
	m := firstInt.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		// Too many digits to fit an int.
		return 100, true
	}
	return clampPercent(v), true
}
