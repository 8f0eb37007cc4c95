package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/scribe/internal/config"
	"github.com/abhisek/scribe/internal/llm"
	"github.com/abhisek/scribe/internal/practice"
	"github.com/abhisek/scribe/internal/store"
)

// env holds the resolved settings and the wired pipeline for one command.
type env struct {
	settings config.Settings
	store    *store.Store // nil with --no-journal
	provider llm.Provider
	analyzer *practice.Analyzer
	closers  []io.Closer
}

// envOptions tweak how newEnv wires the pipeline.
type envOptions struct {
	// LogFile sends logs to the configured file instead of stderr, for when
	// the terminal belongs to the UI.
	LogFile bool

	// RawObserver, if set, sees every raw provider body.
	RawObserver llm.RawObserver
}

func newEnv(cmd *cobra.Command, opts envOptions) (*env, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	e := &env{settings: s}

	if err := e.setupLogging(opts.LogFile); err != nil {
		return nil, err
	}

	if off, _ := cmd.Flags().GetBool("no-journal"); !off {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open journal: %w", err)
		}
		e.store = st
		e.closers = append(e.closers, st)
	}

	var rec llm.Recorder
	var analyses practice.AnalysisRecorder
	if e.store != nil {
		rec = e.store.EventRepo()
		analyses = e.store.EventRepo()
	}

	provider, err := llm.NewProvider(cmdContext(cmd), s.LLM, rec)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("create provider: %w", err)
	}
	if opts.RawObserver != nil {
		provider = llm.WithRawObserver(provider, opts.RawObserver)
	}
	e.provider = provider

	if !s.LLM.HasCredential() {
		slog.Warn("no API key configured", "provider", s.LLM.Provider, "hint", s.LLM.CredentialHint())
	}

	e.analyzer = practice.NewAnalyzer(provider, s.Chain(), practice.AnalyzerConfig{
		Raster:     s.RasterOptions(),
		Generation: s.Generation,
		Timeout:    s.LLM.Timeout,
		Recorder:   analyses,
		Logger:     slog.Default(),
	})
	return e, nil
}

func (e *env) setupLogging(toFile bool) error {
	var w io.Writer = os.Stderr
	if toFile {
		if err := os.MkdirAll(filepath.Dir(e.settings.Log.File), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(e.settings.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		e.closers = append(e.closers, f)
		w = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: e.settings.Log.Level})))
	return nil
}

// requireCredential fails early for one-shot commands that cannot work
// without a key.
func (e *env) requireCredential() error {
	if e.settings.LLM.HasCredential() {
		return nil
	}
	return fmt.Errorf("%w for provider %q: set %s",
		llm.ErrMissingCredential, e.settings.LLM.Provider, e.settings.LLM.CredentialHint())
}

// status is the short provider description shown in the UI header.
func (e *env) status() string {
	if !e.settings.LLM.HasCredential() {
		return e.settings.LLM.Provider + " (no API key)"
	}
	return e.provider.ModelID()
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i].Close()
	}
}

// cmdContext returns the command context, or Background when run outside
// Execute (as in tests).
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
