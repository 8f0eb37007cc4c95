package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/scribe/internal/store"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "first", Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Text: "second", Raw: json.RawMessage(`{"custom":true}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{UserMessage("a")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp1.Text != "first" {
		t.Fatalf("expected 'first', got %q", resp1.Text)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if !json.Valid(resp1.Raw) {
		t.Fatalf("synthesized raw body is not JSON: %s", resp1.Raw)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{UserMessage("b")}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Raw) != `{"custom":true}` {
		t.Fatalf("expected custom raw, got %s", resp2.Raw)
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got: %T", err)
	}
}

func TestMockProvider_Fallback(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "queued"})
	mock.SetFallback(MockResponse{Text: "fallback"})

	for i, want := range []string{"queued", "fallback", "fallback"} {
		resp, err := mock.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if resp.Text != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, resp.Text)
		}
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "x"})

	req := Request{
		System:   "sys",
		Messages: []Message{UserMessage("hello")},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_CancelledContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, "analysis")
	if p := PurposeFrom(ctx); p != "analysis" {
		t.Fatalf("expected 'analysis', got %q", p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"gemini without key is still valid", func(c *Config) { c.Provider = ProviderGemini }, false},
		{"mock", func(c *Config) { c.Provider = ProviderMock }, false},
		{"unknown provider", func(c *Config) { c.Provider = "unknown" }, true},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func clearVendorEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"SCRIBE_LLM_PROVIDER", "SCRIBE_GEMINI_API_KEY", "SCRIBE_GEMINI_MODEL",
		"SCRIBE_GEMINI_BASE_URL", "SCRIBE_OPENAI_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearVendorEnv(t)
	t.Setenv("SCRIBE_LLM_PROVIDER", "gemini-sdk")
	t.Setenv("SCRIBE_GEMINI_API_KEY", "g-key")
	t.Setenv("SCRIBE_GEMINI_MODEL", "gemini-pro")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderGeminiSDK {
		t.Fatalf("unexpected provider %q", cfg.Provider)
	}
	if cfg.Gemini.APIKey != "g-key" || cfg.Gemini.Model != "gemini-pro" {
		t.Fatalf("unexpected gemini config %+v", cfg.Gemini)
	}
	if cfg.Retry.MaxAttempts != 2 {
		t.Fatalf("expected default of 2 attempts, got %d", cfg.Retry.MaxAttempts)
	}
}

func TestConfig_Discover(t *testing.T) {
	t.Run("vendor key for selected provider", func(t *testing.T) {
		clearVendorEnv(t)
		t.Setenv("GEMINI_API_KEY", "g")
		cfg := DefaultConfig()
		if !cfg.Discover(false) {
			t.Fatal("expected credential")
		}
		if cfg.Provider != ProviderGemini || cfg.Gemini.APIKey != "g" {
			t.Fatalf("unexpected config %+v", cfg)
		}
	})

	t.Run("switches provider when not explicit", func(t *testing.T) {
		clearVendorEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "a")
		cfg := DefaultConfig()
		if !cfg.Discover(false) {
			t.Fatal("expected credential")
		}
		if cfg.Provider != ProviderAnthropic || cfg.Anthropic.APIKey != "a" {
			t.Fatalf("unexpected config %+v", cfg)
		}
	})

	t.Run("explicit provider is kept", func(t *testing.T) {
		clearVendorEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "a")
		cfg := DefaultConfig()
		if cfg.Discover(true) {
			t.Fatal("expected no credential")
		}
		if cfg.Provider != ProviderGemini {
			t.Fatalf("provider changed to %q", cfg.Provider)
		}
	})
}

type memRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (m *memRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
	return m.err
}

func TestJournal_RecordsSuccess(t *testing.T) {
	rec := &memRecorder{}
	mock := NewMockProvider(MockResponse{Text: "ok", Usage: Usage{InputTokens: 12, OutputTokens: 3}})
	p := WithJournal(mock, ProviderMock, rec)

	ctx := WithPurpose(context.Background(), "analysis")
	if _, err := p.Generate(ctx, analysisRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	ev := rec.events[0]
	if ev.Provider != "mock" || ev.Purpose != "analysis" || !ev.Success {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.InputTokens != 12 || ev.OutputTokens != 3 {
		t.Fatalf("unexpected tokens %+v", ev)
	}
	if !strings.Contains(ev.RequestBody, "<image image/png, 4 bytes>") {
		t.Fatalf("image not summarized: %q", ev.RequestBody)
	}
	if !strings.Contains(ev.ResponseBody, "ok") {
		t.Fatalf("response body missing: %q", ev.ResponseBody)
	}
}

func TestJournal_RecordsFailureAndSurvivesRecorderError(t *testing.T) {
	rec := &memRecorder{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Err: &TransportError{StatusCode: 500, Body: "boom"}})
	p := WithJournal(mock, ProviderMock, rec)

	_, err := p.Generate(context.Background(), analysisRequest())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected the provider error, got %v", err)
	}
	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	if rec.events[0].Success || rec.events[0].ResponseBody != "boom" {
		t.Fatalf("unexpected event %+v", rec.events[0])
	}
}

func TestRawObserver(t *testing.T) {
	var seen []string
	obs := func(model string, raw json.RawMessage) { seen = append(seen, string(raw)) }

	mock := NewMockProvider(
		MockResponse{Text: "a", Raw: json.RawMessage(`{"n":1}`)},
		MockResponse{Err: &UnexpectedShapeError{Raw: json.RawMessage(`{"n":2}`), Err: errors.New("no text")}},
		MockResponse{Err: &TransportError{StatusCode: 500}},
	)
	p := WithRawObserver(mock, obs)
	for range 3 {
		p.Generate(context.Background(), Request{})
	}

	if len(seen) != 2 || seen[0] != `{"n":1}` || seen[1] != `{"n":2}` {
		t.Fatalf("unexpected observed bodies %v", seen)
	}
}

func TestNewProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("unexpected model %q", p.ModelID())
	}

	cfg.Provider = "carrier-pigeon"
	if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.0-flash")
	if c == nil {
		t.Fatal("expected pricing for gemini-2.0-flash")
	}
	if got := c.Cost(1_000_000, 1_000_000); got < 0.4999 || got > 0.5001 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if LookupCost("google/gemini-2.0-flash-001") == nil {
		t.Fatal("expected OpenRouter IDs to resolve")
	}
	if LookupCost("nope") != nil {
		t.Fatal("expected nil for unknown model")
	}
}

func TestDemoProviderAlwaysAnswers(t *testing.T) {
	p := NewDemoProvider()
	for i := 0; i < 3; i++ {
		resp, err := p.Generate(context.Background(), Request{})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if resp.Text != demoReply {
			t.Fatalf("call %d: unexpected text %q", i, resp.Text)
		}
	}
	if p.CallCount() != 3 {
		t.Errorf("CallCount = %d, want 3", p.CallCount())
	}
}
