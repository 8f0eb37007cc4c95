package analysis

import (
	"fmt"
	"strings"
)

// Outcome is the tagged result of parsing: either a recognized Result or
// the raw text nothing could make sense of.
type Outcome struct {
	Result Result
	Raw    string
	Parsed bool
}

// Classify wraps r as Parsed when any field was populated, otherwise as
// Unrecognized carrying raw.
func Classify(r Result, raw string) Outcome {
	if r.Empty() {
		return Outcome{Result: r, Raw: raw}
	}
	return Outcome{Result: r, Raw: raw, Parsed: true}
}

// Chain tries parsers in order and keeps the first recognized result.
type Chain struct {
	parsers []Parser
}

// NewChain builds a chain from parsers.
func NewChain(parsers ...Parser) *Chain {
	return &Chain{parsers: parsers}
}

// DefaultOrder is the parser order used when none is configured.
var DefaultOrder = []string{"sections", "json", "labels", "blocks"}

// ChainFor builds a chain from parser names, all sharing rules.
func ChainFor(order []string, rules Rules) (*Chain, error) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	parsers := make([]Parser, 0, len(order))
	for _, name := range order {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "sections":
			parsers = append(parsers, NewSectionParser(rules))
		case "blocks":
			parsers = append(parsers, NewBlockParser(rules))
		case "json":
			parsers = append(parsers, JSONParser{})
		case "labels":
			parsers = append(parsers, NewLabelParser(rules))
		default:
			return nil, fmt.Errorf("unknown parser %q", name)
		}
	}
	return NewChain(parsers...), nil
}

// Parse runs each parser until one recognizes text. When none does the
// outcome is Unrecognized.
func (c *Chain) Parse(text string) Outcome {
	for _, p := range c.parsers {
		if out := Classify(p.Parse(text), text); out.Parsed {
			return out
		}
	}
	return Outcome{Raw: text}
}

// Names lists the parsers in order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.parsers))
	for i, p := range c.parsers {
		names[i] = p.Name()
	}
	return names
}
