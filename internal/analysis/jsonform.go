package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// jsonObject matches from the first "{" to the last "}".
var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// replySchema describes the JSON reply shape
// {score, improvements, strokeOrder, commonMistakes}.
var replySchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"score": map[string]any{
			"type":    "number",
			"minimum": 0,
			"maximum": 100,
		},
		"improvements": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"strokeOrder": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"commonMistakes": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"anyOf": []any{
		map[string]any{"required": []any{"score"}},
		map[string]any{"required": []any{"improvements"}},
		map[string]any{"required": []any{"strokeOrder"}},
		map[string]any{"required": []any{"commonMistakes"}},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// replyValidator returns the compiled reply schema, compiling it once.
func replyValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go literals.
		raw, err := json.Marshal(replySchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://handwriting-reply.json"
		if err := c.AddResource(url, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

type jsonReply struct {
	Score          *float64 `json:"score"`
	Improvements   []string `json:"improvements"`
	StrokeOrder    []string `json:"strokeOrder"`
	CommonMistakes []string `json:"commonMistakes"`
}

// JSONParser reads replies that embed a JSON object with score,
// improvements, strokeOrder and commonMistakes.
type JSONParser struct{}

func (JSONParser) Name() string { return "json" }

func (p JSONParser) Parse(text string) Result {
	res := Result{Parser: p.Name()}
	reply, err := decodeReply(text)
	if err != nil {
		return res
	}

	if reply.Score != nil {
		v := clampPercent(int(math.Round(*reply.Score)))
		res.StrokeQuality.Value = v
		res.Formation.Value = v
		res.Reported.Overall = &v
		res.Fields |= FieldOverall | FieldStrokeQuality | FieldFormation
	}
	if len(reply.StrokeOrder) > 0 {
		res.NextStrokes = reply.StrokeOrder
		res.Fields |= FieldNextStrokes
	}
	if len(reply.CommonMistakes) > 0 || len(reply.Improvements) > 0 {
		res.Mistakes = Mistakes{Mistakes: reply.CommonMistakes, Improvements: reply.Improvements}
		res.Fields |= FieldMistakes
	}
	return res
}

func decodeReply(text string) (*jsonReply, error) {
	obj := jsonObject.FindString(text)
	if obj == "" {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var doc any
	if err := json.Unmarshal([]byte(obj), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := replyValidator()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var reply jsonReply
	if err := json.Unmarshal([]byte(obj), &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
