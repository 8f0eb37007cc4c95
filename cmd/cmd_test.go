package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/scribe/internal/geometry"
)

const strokeFile = `[
	{"points": [[100, 300], [200, 100]], "timestamp": 1700000000000},
	{"points": [[200, 100], [300, 300]], "timestamp": 1700000000500},
	{"points": [[150, 200], [250, 200]], "timestamp": 1700000001000}
]`

// execute runs the root command with args and returns its stdout. Flags
// are reset first because the command tree is package state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	t.Setenv("SCRIBE_DB", filepath.Join(dir, "journal.db"))

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRenderCommand(t *testing.T) {
	in := writeFile(t, "a.json", strokeFile)
	out := filepath.Join(t.TempDir(), "a.png")

	stdout, err := execute(t, "render", in, "-o", out, "--size", "128")
	require.NoError(t, err)
	assert.Contains(t, stdout, "3 strokes")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
	assert.Equal(t, 128, img.Bounds().Dy())
}

func TestRenderCommand_BadInput(t *testing.T) {
	in := writeFile(t, "bad.json", `{"points": 1}`)
	_, err := execute(t, "render", in, "-o", filepath.Join(t.TempDir(), "x.png"))
	assert.Error(t, err)
}

func TestMetricsCommand(t *testing.T) {
	in := writeFile(t, "a.json", strokeFile)

	stdout, err := execute(t, "metrics", in, "--ideal", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Strokes:       3")
	assert.Contains(t, stdout, "Similarity:       100.0%")
}

func TestMetricsCommand_Empty(t *testing.T) {
	in := writeFile(t, "empty.json", `[]`)

	stdout, err := execute(t, "metrics", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(no points)")
	assert.NotContains(t, stdout, "Similarity")
}

func TestMetricsCommand_EmptyWithIdeal(t *testing.T) {
	empty := writeFile(t, "empty.json", `[]`)
	ideal := writeFile(t, "ideal.json", strokeFile)

	stdout, err := execute(t, "metrics", empty, "--ideal", ideal)
	require.ErrorIs(t, err, geometry.ErrEmptyInput)
	assert.NotContains(t, stdout, "Similarity")
}

func TestParseCommand(t *testing.T) {
	reply := writeFile(t, "reply.txt", `**Current Stroke Quality**
* Smooth lines

**Common Mistakes to Avoid**
* Uneven spacing between strokes

**Overall Quality Score (%)**
64%
`)
	stdout, err := execute(t, "parse", reply)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Parser:          sections")
	assert.Contains(t, stdout, "Reported overall:   64%")
	assert.Contains(t, stdout, "Uneven spacing between strokes")
}

func TestParseCommand_Unrecognized(t *testing.T) {
	reply := writeFile(t, "reply.txt", "I cannot see an image.")
	stdout, err := execute(t, "parse", reply)
	require.NoError(t, err)
	assert.Contains(t, stdout, "No parser recognized the reply")
}

func TestLanguagesCommand(t *testing.T) {
	stdout, err := execute(t, "languages")
	require.NoError(t, err)
	for _, want := range []string{"English (english)", "Telugu (telugu)", "beginner", "A B C D"} {
		assert.Contains(t, stdout, want)
	}
}

func TestAnalyzeCommand_Mock(t *testing.T) {
	in := writeFile(t, "a.json", strokeFile)

	stdout, err := execute(t, "analyze", in, "--provider", "mock", "--lang", "english", "--level", "beginner", "--char", "A")
	require.NoError(t, err)
	assert.Contains(t, stdout, `Analyzing "A"`)
	assert.Contains(t, stdout, "Reported overall:   70%")
	assert.Contains(t, stdout, "Tips")
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	in := writeFile(t, "a.json", strokeFile)

	_, err := execute(t, "analyze", in, "--provider", "mock", "--lang", "klingon")
	assert.Error(t, err)

	empty := writeFile(t, "empty.json", `[]`)
	_, err = execute(t, "analyze", empty, "--provider", "mock")
	assert.ErrorContains(t, err, "no strokes")
}

func TestStatsCommand_AfterAnalyze(t *testing.T) {
	in := writeFile(t, "a.json", strokeFile)
	db := filepath.Join(t.TempDir(), "journal.db")

	_, err := execute(t, "analyze", in, "--db", db, "--provider", "mock", "--lang", "english", "--level", "beginner")
	require.NoError(t, err)

	stdout, err := execute(t, "stats", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "english")
	assert.Contains(t, stdout, "overall 70%")

	stdout, err = execute(t, "llm", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, stdout, "analysis")
	assert.True(t, strings.Contains(stdout, "mock"))
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "scribe "))
}
