package analysis

import (
	"github.com/abhisek/scribe/internal/llm"
	"github.com/abhisek/scribe/internal/raster"
	"github.com/abhisek/scribe/internal/script"
)

// DefaultGeneration is the fixed sampling configuration for analyses.
func DefaultGeneration() llm.Generation {
	return llm.Generation{
		Temperature:     0.4,
		TopK:            32,
		TopP:            1.0,
		MaxOutputTokens: 1024,
	}
}

// BuildRequest packages the image and the instruction prompt into a single
// user message, image first.
func BuildRequest(t Target, img raster.Payload, gen llm.Generation) llm.Request {
	return llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			llm.UserMessage(buildPrompt(t), llm.Image{
				MIMEType: img.MIMEType,
				Data:     img.Bytes,
			}),
		},
		Generation: gen,
	}
}

// TargetFor describes char at level of lang, with the language's focus
// points and script features.
func TargetFor(lang script.Language, level script.Level, char string) Target {
	return Target{
		Character: char,
		Language:  lang.Name,
		Script:    lang.Script,
		Level:     level.Name,
		Focus:     lang.Focus,
		Features:  lang.Features,
	}
}
