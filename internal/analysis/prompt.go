package analysis

import (
	"fmt"
	"strings"
	"unicode"
)

const systemPrompt = `You are a handwriting teacher reviewing a learner's attempt at a single character drawn on a white canvas.

Rules:
- Judge only what is drawn. The drawing may be unfinished.
- Answer under exactly the requested section headers, written in bold (**Header**) and in the given order.
- Put each point on its own line starting with "* ".
- Use short, concrete sentences a learner can act on.
- Do not add an introduction or a closing remark.`

// Target identifies what the learner was asked to write.
type Target struct {
	Character string
	Language  string // display name, e.g. "Telugu"
	Script    string // e.g. "Telugu script"
	Level     string // display name of the proficiency level
	Focus     []string
	Features  []string // script traits to check, e.g. "baseline"
}

// buildPrompt states the target and fixes the six-section reply contract.
func buildPrompt(t Target) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this handwritten %s character %q.\n", t.Language, t.Character)
	if t.Script != "" {
		fmt.Fprintf(&b, "Script: %s\n", t.Script)
	}
	fmt.Fprintf(&b, "Learner level: %s\n", t.Level)

	if len(t.Focus) > 0 {
		b.WriteString("\nConsider:\n")
		for i, f := range t.Focus {
			fmt.Fprintf(&b, "%d. %s\n", i+1, f)
		}
	}

	if len(t.Features) > 0 {
		names := make([]string, len(t.Features))
		for i, f := range t.Features {
			names[i] = featureName(f)
		}
		fmt.Fprintf(&b, "\nPay attention to: %s.\n", strings.Join(names, ", "))
	}

	b.WriteString("\nRespond with these sections, each header in bold and followed by bullet points:\n\n")
	for _, h := range Headers {
		fmt.Fprintf(&b, "**%s**\n* ...\n\n", h)
	}

	b.WriteString("Under " + HeaderOverall + " give one overall quality percentage from 0 to 100, for example \"* 75%\".\n")
	b.WriteString("Under " + HeaderFormationPercent + " give one letter formation percentage from 0 to 100.")

	return b.String()
}

// featureName spells a catalog identifier such as "strokeOrder" as
// "stroke order".
func featureName(id string) string {
	var b strings.Builder
	for _, r := range id {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
