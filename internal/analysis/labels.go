package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var itemNumber = regexp.MustCompile(`^\d+[.)]\s*`)

// LabelParser reads plain replies that list feedback under line labels
// such as "Improvements:", "Stroke order:" and "Common mistakes:". A list
// runs until a blank line or a line starting with a letter. Items are split
// on line breaks and on dash bullets. The first percentage in the reply is
// the score, but only once a label has been found.
type LabelParser struct {
	Rules Rules
}

// NewLabelParser returns a LabelParser using rules.
func NewLabelParser(rules Rules) *LabelParser {
	return &LabelParser{Rules: rules}
}

func (p *LabelParser) Name() string { return "labels" }

func (p *LabelParser) Parse(text string) Result {
	res := Result{Parser: p.Name()}
	r := p.Rules
	lists := labelLists(text, []string{r.ImprovementsLabel, r.StrokeOrderLabel, r.MistakesLabel})
	if len(lists) == 0 {
		return res
	}

	if order := lists[strings.ToLower(r.StrokeOrderLabel)]; len(order) > 0 {
		res.NextStrokes = order
		res.Fields |= FieldNextStrokes
	}
	mistakes := lists[strings.ToLower(r.MistakesLabel)]
	improvements := lists[strings.ToLower(r.ImprovementsLabel)]
	if len(mistakes) > 0 || len(improvements) > 0 {
		res.Mistakes = Mistakes{Mistakes: mistakes, Improvements: improvements}
		res.Fields |= FieldMistakes
	}

	if m := percentage.FindStringSubmatch(text); m != nil {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			v = 100
		}
		v = clampPercent(v)
		res.StrokeQuality.Value = v
		res.Formation.Value = v
		res.Reported.Overall = &v
		res.Fields |= FieldOverall | FieldStrokeQuality | FieldFormation
	}
	return res
}

// labelLists collects the items under each label, keyed by the lower-cased
// label. The first occurrence of a label wins.
func labelLists(text string, labels []string) map[string][]string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := map[string][]string{}
	for i := 0; i < len(lines); i++ {
		label, rest, ok := matchLabel(lines[i], labels)
		if !ok {
			continue
		}
		if _, seen := out[label]; seen {
			continue
		}
		items := splitItems(rest)
		for i+1 < len(lines) && continuesList(lines[i+1], labels) {
			i++
			items = append(items, splitItems(lines[i])...)
		}
		out[label] = items
	}
	return out
}

// matchLabel reports whether line opens a labelled list, ignoring bold and
// heading markup, and returns the text after the colon.
func matchLabel(line string, labels []string) (label, rest string, ok bool) {
	t := strings.TrimLeft(line, " \t*#_")
	for _, l := range labels {
		key := strings.ToLower(l)
		if key == "" || len(t) < len(key) || !strings.EqualFold(t[:len(key)], key) {
			continue
		}
		after := t[len(key):]
		if strings.HasPrefix(after, "s") || strings.HasPrefix(after, "S") {
			after = after[1:]
		}
		after = strings.TrimLeft(after, " \t*_")
		if after != "" && !strings.HasPrefix(after, ":") {
			continue
		}
		after = strings.TrimLeft(strings.TrimPrefix(after, ":"), " \t*_")
		return key, after, true
	}
	return "", "", false
}

func continuesList(line string, labels []string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}
	if _, _, ok := matchLabel(line, labels); ok {
		return false
	}
	return !unicode.IsLetter([]rune(t)[0])
}

// splitItems splits a list line on dash bullets and strips bullet and
// numbering markers. Hyphens inside words are kept.
func splitItems(line string) []string {
	var out []string
	for _, part := range strings.Split(" "+line, " - ") {
		t := strings.TrimSpace(part)
		t = strings.TrimLeft(t, "-*•· \t")
		t = itemNumber.ReplaceAllString(t, "")
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
