package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/abhisek/scribe/internal/analysis"
	"github.com/abhisek/scribe/internal/llm"
	"github.com/abhisek/scribe/internal/raster"
)

// Settings is the fully resolved configuration.
type Settings struct {
	LLM        llm.Config
	Generation llm.Generation
	Practice   Practice
	Parser     Parser
	Log        Log

	// ProviderExplicit is set when the provider came from the file, the
	// environment or a flag rather than the default.
	ProviderExplicit bool
}

// Practice holds practice session settings.
type Practice struct {
	Language   string
	Level      string
	Canvas     int
	LineWidth  float64
	Quiescence time.Duration
}

// Parser holds the parser order and tables.
type Parser struct {
	Order []string
	Rules analysis.Rules
}

// Log holds diagnostics logging settings.
type Log struct {
	Level slog.Level
	File  string
}

// Overrides carries command-line flags. Empty values are ignored.
type Overrides struct {
	Provider string
	Model    string
	Language string
	Level    string
}

// Defaults returns settings with every value at its default.
func Defaults() Settings {
	return Settings{
		LLM:        llm.DefaultConfig(),
		Generation: analysis.DefaultGeneration(),
		Practice: Practice{
			Language:   "english",
			Level:      "beginner",
			Canvas:     raster.DefaultSize,
			LineWidth:  raster.DefaultLineWidth,
			Quiescence: 300 * time.Millisecond,
		},
		Parser: Parser{
			Order: append([]string(nil), analysis.DefaultOrder...),
			Rules: analysis.DefaultRules(),
		},
		Log: Log{
			Level: slog.LevelInfo,
			File:  DefaultLogPath(),
		},
	}
}

// Resolve layers defaults, the file, the environment and flags, in that
// order of increasing precedence, then validates the result.
func Resolve(file File, flags Overrides) (Settings, error) {
	s := Defaults()
	if err := s.applyFile(file); err != nil {
		return Settings{}, err
	}

	s.LLM.ApplyEnv()
	if os.Getenv("SCRIBE_LLM_PROVIDER") != "" {
		s.ProviderExplicit = true
	}

	if flags.Provider != "" {
		s.LLM.Provider = flags.Provider
		s.ProviderExplicit = true
	}
	if flags.Model != "" {
		setModel(&s.LLM, s.LLM.Provider, flags.Model)
	}
	if flags.Language != "" {
		s.Practice.Language = flags.Language
	}
	if flags.Level != "" {
		s.Practice.Level = flags.Level
	}

	s.LLM.Discover(s.ProviderExplicit)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) applyFile(f File) error {
	if f.LLM.Provider != nil {
		s.LLM.Provider = *f.LLM.Provider
		s.ProviderExplicit = true
	}
	if f.LLM.Model != nil {
		setModel(&s.LLM, s.LLM.Provider, *f.LLM.Model)
	}
	if f.LLM.BaseURL != nil {
		setBaseURL(&s.LLM, s.LLM.Provider, *f.LLM.BaseURL)
	}
	if f.LLM.Timeout != nil {
		s.LLM.Timeout = f.LLM.Timeout.Duration
	}
	if f.LLM.MaxAttempts != nil {
		s.LLM.Retry.MaxAttempts = *f.LLM.MaxAttempts
	}

	g := f.Generation
	if g.Temperature != nil {
		s.Generation.Temperature = *g.Temperature
	}
	if g.TopK != nil {
		s.Generation.TopK = *g.TopK
	}
	if g.TopP != nil {
		s.Generation.TopP = *g.TopP
	}
	if g.MaxOutputTokens != nil {
		s.Generation.MaxOutputTokens = *g.MaxOutputTokens
	}

	p := f.Practice
	if p.Language != nil {
		s.Practice.Language = *p.Language
	}
	if p.Level != nil {
		s.Practice.Level = *p.Level
	}
	if p.Canvas != nil {
		s.Practice.Canvas = *p.Canvas
	}
	if p.LineWidth != nil {
		s.Practice.LineWidth = *p.LineWidth
	}
	if p.Quiescence != nil {
		s.Practice.Quiescence = p.Quiescence.Duration
	}

	if len(f.Parser.Order) > 0 {
		s.Parser.Order = f.Parser.Order
	}
	if f.Parser.NeutralScore != nil {
		s.Parser.Rules.NeutralScore = *f.Parser.NeutralScore
	}
	if len(f.Parser.StrokeKeywords) > 0 {
		s.Parser.Rules.StrokeKeywords = analysis.KeywordsFromMap(f.Parser.StrokeKeywords)
	}
	if len(f.Parser.FormationKeywords) > 0 {
		s.Parser.Rules.FormationKeywords = analysis.KeywordsFromMap(f.Parser.FormationKeywords)
	}
	if f.Parser.StripPrefixes != nil {
		s.Parser.Rules.StripPrefixes = f.Parser.StripPrefixes
	}
	if f.Parser.ImprovementPrefix != nil {
		s.Parser.Rules.ImprovementPrefix = *f.Parser.ImprovementPrefix
	}
	applyHeaders(&s.Parser.Rules, f.Parser.Headers, f.Parser.Labels)

	if f.Log.Level != nil {
		if err := s.Log.Level.UnmarshalText([]byte(*f.Log.Level)); err != nil {
			return fmt.Errorf("log level: %w", err)
		}
	}
	if f.Log.File != nil {
		s.Log.File = *f.Log.File
	}
	return nil
}

// Validate checks ranges the rest of the program relies on.
func (s Settings) Validate() error {
	if err := s.LLM.Validate(); err != nil {
		return err
	}
	if s.Practice.Canvas < 16 {
		return fmt.Errorf("canvas must be at least 16 pixels, got %d", s.Practice.Canvas)
	}
	if s.Practice.LineWidth <= 0 {
		return fmt.Errorf("line width must be positive, got %g", s.Practice.LineWidth)
	}
	if s.Practice.Quiescence < 0 {
		return fmt.Errorf("quiescence must not be negative")
	}
	if s.Generation.MaxOutputTokens <= 0 {
		return fmt.Errorf("max output tokens must be positive, got %d", s.Generation.MaxOutputTokens)
	}
	r := s.Parser.Rules
	for _, h := range []string{r.StrokeHeader, r.FormationHeader, r.NextStrokesHeader,
		r.MistakesHeader, r.OverallHeader, r.FormationPercentHeader,
		r.ImprovementsLabel, r.StrokeOrderLabel, r.MistakesLabel} {
		if strings.TrimSpace(h) == "" {
			return fmt.Errorf("parser headers and labels must not be empty")
		}
	}
	if n := s.Parser.Rules.NeutralScore; n < 0 || n > 100 {
		return fmt.Errorf("neutral score must be within 0..100, got %d", n)
	}
	for _, kw := range append(append([]analysis.Keyword(nil), s.Parser.Rules.StrokeKeywords...), s.Parser.Rules.FormationKeywords...) {
		if kw.Weight <= 0 || kw.Weight > 1 {
			return fmt.Errorf("keyword %q: weight must be in (0,1], got %g", kw.Word, kw.Weight)
		}
	}
	if _, err := analysis.ChainFor(s.Parser.Order, s.Parser.Rules); err != nil {
		return fmt.Errorf("parser order: %w", err)
	}
	return nil
}

// Chain builds the configured parser chain.
func (s Settings) Chain() *analysis.Chain {
	c, err := analysis.ChainFor(s.Parser.Order, s.Parser.Rules)
	if err != nil {
		// Validate rejects unknown parser names.
		panic(err)
	}
	return c
}

// RasterOptions returns rasterizer options for the configured canvas.
func (s Settings) RasterOptions() raster.Options {
	opts := raster.DefaultOptions()
	opts.Size = s.Practice.Canvas
	opts.LineWidth = s.Practice.LineWidth
	return opts
}

func setModel(cfg *llm.Config, provider, model string) {
	switch strings.ToLower(provider) {
	case llm.ProviderGemini, llm.ProviderGeminiSDK:
		cfg.Gemini.Model = model
	case llm.ProviderAnthropic:
		cfg.Anthropic.Model = model
	case llm.ProviderOpenAI:
		cfg.OpenAI.Model = model
	case llm.ProviderOpenRouter:
		cfg.OpenRouter.Model = model
	}
}

func setBaseURL(cfg *llm.Config, provider, url string) {
	switch strings.ToLower(provider) {
	case llm.ProviderGemini, llm.ProviderGeminiSDK:
		cfg.Gemini.BaseURL = url
	case llm.ProviderAnthropic:
		cfg.Anthropic.BaseURL = url
	case llm.ProviderOpenAI:
		cfg.OpenAI.BaseURL = url
	case llm.ProviderOpenRouter:
		cfg.OpenRouter.BaseURL = url
	}
}

func applyHeaders(r *analysis.Rules, h HeadersSection, l LabelsSection) {
	for _, o := range []struct {
		from *string
		to   *string
	}{
		{h.StrokeQuality, &r.StrokeHeader},
		{h.Formation, &r.FormationHeader},
		{h.NextStrokes, &r.NextStrokesHeader},
		{h.Mistakes, &r.MistakesHeader},
		{h.Overall, &r.OverallHeader},
		{h.FormationPercent, &r.FormationPercentHeader},
		{l.Improvements, &r.ImprovementsLabel},
		{l.StrokeOrder, &r.StrokeOrderLabel},
		{l.Mistakes, &r.MistakesLabel},
	} {
		if o.from != nil {
			*o.to = *o.from
		}
	}
}
