// Package config loads the TOML settings file and layers it with
// environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// File represents the TOML configuration file. Pointer fields distinguish
// "unset" from zero values.
type File struct {
	LLM        LLMSection        `toml:"llm"`
	Generation GenerationSection `toml:"generation"`
	Practice   PracticeSection   `toml:"practice"`
	Parser     ParserSection     `toml:"parser"`
	Log        LogSection        `toml:"log"`
}

// LLMSection maps model provider settings. API keys are only read from the
// environment.
type LLMSection struct {
	Provider    *string   `toml:"provider"`
	Model       *string   `toml:"model"`
	BaseURL     *string   `toml:"base_url"`
	Timeout     *Duration `toml:"timeout"`
	MaxAttempts *int      `toml:"max_attempts"`
}

// GenerationSection maps sampling parameters.
type GenerationSection struct {
	Temperature     *float64 `toml:"temperature"`
	TopK            *int     `toml:"top_k"`
	TopP            *float64 `toml:"top_p"`
	MaxOutputTokens *int     `toml:"max_output_tokens"`
}

// PracticeSection maps practice session settings.
type PracticeSection struct {
	Language   *string   `toml:"language"`
	Level      *string   `toml:"level"`
	Canvas     *int      `toml:"canvas"`
	LineWidth  *float64  `toml:"line_width"`
	Quiescence *Duration `toml:"quiescence"`
}

// ParserSection maps response parser tables.
type ParserSection struct {
	Order             []string           `toml:"order"`
	NeutralScore      *int               `toml:"neutral_score"`
	StrokeKeywords    map[string]float64 `toml:"stroke_keywords"`
	FormationKeywords map[string]float64 `toml:"formation_keywords"`
	StripPrefixes     []string           `toml:"strip_prefixes"`
	ImprovementPrefix *string            `toml:"improvement_prefix"`
	Headers           HeadersSection     `toml:"headers"`
	Labels            LabelsSection      `toml:"labels"`
}

// HeadersSection renames the section headers the parsers dispatch on.
type HeadersSection struct {
	StrokeQuality    *string `toml:"stroke_quality"`
	Formation        *string `toml:"formation"`
	NextStrokes      *string `toml:"next_strokes"`
	Mistakes         *string `toml:"mistakes"`
	Overall          *string `toml:"overall"`
	FormationPercent *string `toml:"formation_percent"`
}

// LabelsSection renames the line labels of plain-text replies.
type LabelsSection struct {
	Improvements *string `toml:"improvements"`
	StrokeOrder  *string `toml:"stroke_order"`
	Mistakes     *string `toml:"mistakes"`
}

// LogSection maps diagnostics logging.
type LogSection struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// Duration decodes TOML strings such as "300ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (File, error) {
	if path == "" {
		return File{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg File
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return File{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return File{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
