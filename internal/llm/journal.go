package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/scribe/internal/store"
)

// Recorder persists request events.
type Recorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// JournalProvider is a decorator that records every request as an event.
type JournalProvider struct {
	inner    Provider
	provider string
	recorder Recorder
}

// WithJournal wraps a Provider with event recording. providerName is the
// configured provider key (e.g. "gemini").
func WithJournal(p Provider, providerName string, rec Recorder) Provider {
	return &JournalProvider{inner: p, provider: providerName, recorder: rec}
}

func (j *JournalProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := j.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    j.provider,
		Model:       j.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Raw)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		if raw := rawFromError(err); raw != "" {
			data.ResponseBody = raw
		}
	}

	// Record the event but don't fail the request if recording fails.
	if recErr := j.recorder.AppendLLMRequest(context.WithoutCancel(ctx), data); recErr != nil {
		slog.Warn("failed to record LLM request event", "err", recErr)
	}

	return resp, err
}

func (j *JournalProvider) ModelID() string {
	return j.inner.ModelID()
}

// RawObserver receives the untouched provider body of every response that
// had one, before any parsing.
type RawObserver func(model string, raw json.RawMessage)

type observedProvider struct {
	inner    Provider
	observer RawObserver
}

// WithRawObserver forwards raw bodies to fn. Bodies of UnexpectedShapeError
// failures are forwarded too.
func WithRawObserver(p Provider, fn RawObserver) Provider {
	return &observedProvider{inner: p, observer: fn}
}

func (o *observedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := o.inner.Generate(ctx, req)
	switch {
	case resp != nil && len(resp.Raw) > 0:
		o.observer(resp.Model, resp.Raw)
	case err != nil:
		var shape *UnexpectedShapeError
		if errors.As(err, &shape) && len(shape.Raw) > 0 {
			o.observer(o.inner.ModelID(), shape.Raw)
		}
	}
	return resp, err
}

func (o *observedProvider) ModelID() string {
	return o.inner.ModelID()
}

func rawFromError(err error) string {
	var shape *UnexpectedShapeError
	if errors.As(err, &shape) {
		return string(shape.Raw)
	}
	var te *TransportError
	if errors.As(err, &te) {
		return te.Body
	}
	return ""
}

// serializeRequest builds a readable representation of the request. Image
// bytes are summarized, not stored.
func serializeRequest(req Request) string {
	var b strings.Builder

	g := req.Generation
	fmt.Fprintf(&b, "[generation] temperature=%g topK=%d topP=%g maxOutputTokens=%d\n\n",
		g.Temperature, g.TopK, g.TopP, g.MaxOutputTokens)

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		for _, img := range m.Images {
			fmt.Fprintf(&b, "<image %s, %d bytes>\n", img.MIMEType, len(img.Data))
		}
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	return b.String()
}
