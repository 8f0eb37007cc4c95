package practice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/scribe/internal/analysis"
	"github.com/abhisek/scribe/internal/llm"
	"github.com/abhisek/scribe/internal/raster"
	"github.com/abhisek/scribe/internal/store"
)

// Purpose labels analysis requests in the request journal.
const Purpose = "analysis"

// AnalysisRecorder persists analysis attempts.
type AnalysisRecorder interface {
	AppendAnalysis(ctx context.Context, data store.AnalysisEventData) error
}

// AnalyzerConfig configures an Analyzer.
type AnalyzerConfig struct {
	Raster     raster.Options
	Generation llm.Generation
	Timeout    time.Duration

	// Recorder, if set, receives one event per attempt.
	Recorder AnalysisRecorder

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Analyzer runs the pipeline for a Job: rasterize, build the request, call
// the model and parse the reply.
type Analyzer struct {
	provider llm.Provider
	chain    *analysis.Chain
	cfg      AnalyzerConfig
	logger   *slog.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(provider llm.Provider, chain *analysis.Chain, cfg AnalyzerConfig) *Analyzer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Generation == (llm.Generation{}) {
		cfg.Generation = analysis.DefaultGeneration()
	}
	return &Analyzer{provider: provider, chain: chain, cfg: cfg, logger: logger}
}

// Run executes job. It never panics on model failures; errors are returned
// in the Completion.
func (a *Analyzer) Run(ctx context.Context, job Job) Completion {
	attemptID := uuid.NewString()
	start := time.Now()

	out, err := a.analyze(ctx, job)
	c := Completion{Epoch: job.Epoch, Outcome: out, Err: err}

	a.record(ctx, attemptID, job, c, time.Since(start))
	if err != nil {
		a.logger.Warn("analysis failed",
			"attempt", attemptID,
			"language", job.Language.Key,
			"character", job.Character,
			"err", err)
	} else if !out.Parsed {
		a.logger.Warn("model reply not recognized",
			"attempt", attemptID,
			"chars", len(out.Raw))
	}
	return c
}

func (a *Analyzer) analyze(ctx context.Context, job Job) (analysis.Outcome, error) {
	payload, err := raster.Rasterize(job.Strokes, a.cfg.Raster)
	if err != nil {
		return analysis.Outcome{}, fmt.Errorf("rasterize: %w", err)
	}
	req := analysis.BuildRequest(job.Target(), payload, a.cfg.Generation)

	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}
	resp, err := a.provider.Generate(llm.WithPurpose(ctx, Purpose), req)
	if err != nil {
		return analysis.Outcome{}, fmt.Errorf("generate: %w", err)
	}
	return a.chain.Parse(resp.Text), nil
}

func (a *Analyzer) record(ctx context.Context, attemptID string, job Job, c Completion, latency time.Duration) {
	if a.cfg.Recorder == nil {
		return
	}
	data := store.AnalysisEventData{
		AttemptID:   attemptID,
		Language:    job.Language.Key,
		Level:       job.Level.Key,
		Character:   job.Character,
		StrokeCount: len(job.Strokes),
		LatencyMs:   latency.Milliseconds(),
	}
	if c.Err != nil {
		data.ErrorMessage = c.Err.Error()
	} else {
		r := c.Outcome.Result
		data.Parser = r.Parser
		data.Recognized = c.Outcome.Parsed
		if c.Outcome.Parsed {
			if r.Has(analysis.FieldStrokeQuality) {
				data.StrokeScore = &r.StrokeQuality.Value
			}
			if r.Has(analysis.FieldFormation) {
				data.FormationScore = &r.Formation.Value
			}
			data.OverallScore = r.Reported.Overall
		}
	}
	if err := a.cfg.Recorder.AppendAnalysis(context.WithoutCancel(ctx), data); err != nil {
		a.logger.Warn("failed to record analysis event", "err", err)
	}
}
