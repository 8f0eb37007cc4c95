package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/scribe/internal/analysis"
	"github.com/abhisek/scribe/internal/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SCRIBE_LLM_PROVIDER", "SCRIBE_GEMINI_API_KEY", "SCRIBE_GEMINI_MODEL",
		"SCRIBE_GEMINI_BASE_URL", "SCRIBE_ANTHROPIC_API_KEY", "SCRIBE_ANTHROPIC_MODEL",
		"SCRIBE_OPENAI_API_KEY", "SCRIBE_OPENAI_MODEL", "SCRIBE_OPENAI_BASE_URL",
		"SCRIBE_OPENROUTER_API_KEY", "SCRIBE_OPENROUTER_MODEL",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.LLM.Provider)
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "[practice]\ncolour = \"red\"\n"))
	assert.ErrorContains(t, err, "practice.colour")
}

func TestLoadConfig_AllSections(t *testing.T) {
	path := writeConfig(t, `
[llm]
provider = "anthropic"
model = "claude-sonnet"
timeout = "45s"
max_attempts = 3

[generation]
temperature = 0.2
top_k = 16
top_p = 0.9
max_output_tokens = 512

[practice]
language = "telugu"
level = "advanced"
canvas = 256
line_width = 3.5
quiescence = "500ms"

[parser]
order = ["blocks", "sections"]
neutral_score = 40

[parser.stroke_keywords]
steady = 0.9

[log]
level = "debug"
file = "/tmp/scribe.log"
`)
	file, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, file.LLM.Timeout)
	assert.Equal(t, 45*time.Second, file.LLM.Timeout.Duration)

	clearEnv(t)
	s, err := Resolve(file, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderAnthropic, s.LLM.Provider)
	assert.True(t, s.ProviderExplicit)
	assert.Equal(t, "claude-sonnet", s.LLM.Anthropic.Model)
	assert.Equal(t, 45*time.Second, s.LLM.Timeout)
	assert.Equal(t, 3, s.LLM.Retry.MaxAttempts)

	assert.Equal(t, llm.Generation{Temperature: 0.2, TopK: 16, TopP: 0.9, MaxOutputTokens: 512}, s.Generation)

	assert.Equal(t, Practice{
		Language:   "telugu",
		Level:      "advanced",
		Canvas:     256,
		LineWidth:  3.5,
		Quiescence: 500 * time.Millisecond,
	}, s.Practice)

	assert.Equal(t, []string{"blocks", "sections"}, s.Parser.Order)
	assert.Equal(t, 40, s.Parser.Rules.NeutralScore)
	require.Len(t, s.Parser.Rules.StrokeKeywords, 1)
	assert.Equal(t, "steady", s.Parser.Rules.StrokeKeywords[0].Word)

	assert.Equal(t, "/tmp/scribe.log", s.Log.File)
	assert.Equal(t, "DEBUG", s.Log.Level.String())
	assert.Equal(t, []string{"blocks", "sections"}, s.Chain().Names())
	assert.Equal(t, 256, s.RasterOptions().Size)
}

func TestResolve_Defaults(t *testing.T) {
	clearEnv(t)
	s, err := Resolve(File{}, Overrides{})
	require.NoError(t, err)

	assert.Equal(t, llm.ProviderGemini, s.LLM.Provider)
	assert.False(t, s.ProviderExplicit)
	assert.Equal(t, 300*time.Millisecond, s.Practice.Quiescence)
	assert.Equal(t, 400, s.Practice.Canvas)
	assert.Equal(t, 0.4, s.Generation.Temperature)
	assert.Equal(t, 1024, s.Generation.MaxOutputTokens)
	assert.Equal(t, 50, s.Parser.Rules.NeutralScore)
}

func TestResolve_Precedence(t *testing.T) {
	provider := "openai"
	model := "gpt-4o"
	file := File{LLM: LLMSection{Provider: &provider, Model: &model}}

	t.Run("env beats file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SCRIBE_LLM_PROVIDER", "gemini")
		t.Setenv("SCRIBE_GEMINI_MODEL", "gemini-pro")
		s, err := Resolve(file, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, llm.ProviderGemini, s.LLM.Provider)
		assert.Equal(t, "gemini-pro", s.LLM.Gemini.Model)
	})

	t.Run("flags beat env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SCRIBE_LLM_PROVIDER", "gemini")
		s, err := Resolve(file, Overrides{Provider: "mock", Language: "japanese", Level: "intermediate"})
		require.NoError(t, err)
		assert.Equal(t, llm.ProviderMock, s.LLM.Provider)
		assert.Equal(t, "japanese", s.Practice.Language)
		assert.Equal(t, "intermediate", s.Practice.Level)
	})

	t.Run("flag model applies to final provider", func(t *testing.T) {
		clearEnv(t)
		s, err := Resolve(file, Overrides{Model: "gpt-4.1-mini"})
		require.NoError(t, err)
		assert.Equal(t, "gpt-4.1-mini", s.LLM.OpenAI.Model)
	})

	t.Run("explicit provider is not switched by discovery", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GEMINI_API_KEY", "g")
		s, err := Resolve(file, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, llm.ProviderOpenAI, s.LLM.Provider)
		assert.False(t, s.LLM.HasCredential())
	})
}

func TestResolve_Invalid(t *testing.T) {
	bad := func(f func(*File)) File {
		var file File
		f(&file)
		return file
	}
	intp := func(v int) *int { return &v }
	strp := func(v string) *string { return &v }

	tests := []struct {
		name string
		file File
	}{
		{"unknown provider", bad(func(f *File) { f.LLM.Provider = strp("fax") })},
		{"zero attempts", bad(func(f *File) { f.LLM.MaxAttempts = intp(0) })},
		{"tiny canvas", bad(func(f *File) { f.Practice.Canvas = intp(4) })},
		{"neutral out of range", bad(func(f *File) { f.Parser.NeutralScore = intp(101) })},
		{"unknown parser", bad(func(f *File) { f.Parser.Order = []string{"magic"} })},
		{"bad weight", bad(func(f *File) { f.Parser.FormationKeywords = map[string]float64{"neat": 2} })},
		{"bad log level", bad(func(f *File) { f.Log.Level = strp("loud") })},
		{"empty header", bad(func(f *File) { f.Parser.Headers.Mistakes = strp(" ") })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Resolve(tt.file, Overrides{})
			assert.Error(t, err)
		})
	}
}

func TestResolve_ParserTables(t *testing.T) {
	path := writeConfig(t, `
[parser]
strip_prefixes = ["Never "]
improvement_prefix = "Try: "

[parser.headers]
stroke_quality = "Stroke Quality"
mistakes = "Mistakes"

[parser.labels]
stroke_order = "Order"
`)
	file, err := LoadConfig(path)
	require.NoError(t, err)

	clearEnv(t)
	s, err := Resolve(file, Overrides{})
	require.NoError(t, err)

	r := s.Parser.Rules
	assert.Equal(t, "Stroke Quality", r.StrokeHeader)
	assert.Equal(t, "Mistakes", r.MistakesHeader)
	assert.Equal(t, analysis.HeaderFormation, r.FormationHeader)
	assert.Equal(t, "Order", r.StrokeOrderLabel)
	assert.Equal(t, analysis.DefaultRules().MistakesLabel, r.MistakesLabel)

	out := s.Chain().Parse("**Stroke Quality**\n* smooth\n\n**Mistakes**\n* Never lift the pen")
	require.True(t, out.Parsed)
	assert.Equal(t, 80, out.Result.StrokeQuality.Value)
	assert.Equal(t, []string{"Try: lift the pen"}, out.Result.Mistakes.Improvements)
}

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, "/cfg/scribe/config.toml", DefaultConfigPath())
	assert.Equal(t, "/state/scribe/scribe.log", DefaultLogPath())
}
