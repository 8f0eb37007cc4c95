package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Text  string
	Raw   json.RawMessage
	Usage Usage
	Err   error
}

// MockProvider is a deterministic Provider for tests and offline demos.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	fallback  *MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// Generate returns the next canned response. Once the queue is drained it
// returns the fallback response if one is set, otherwise a TransportError.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Err: err}
	}

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.fallback != nil:
		resp = *m.fallback
	default:
		return nil, &TransportError{Err: errors.New("mock: no responses queued")}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	raw := resp.Raw
	if raw == nil {
		raw, _ = json.Marshal(map[string]string{"text": resp.Text})
	}
	return &Response{
		Text:       resp.Text,
		Raw:        raw,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// SetFallback sets the response returned after the queue is drained.
func (m *MockProvider) SetFallback(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &resp
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// demoReply is the fallback of the configured mock provider so the app can
// be tried without an API key.
const demoReply = `**Current Stroke Quality**
* Smooth and consistent lines
* Confident pen movement

**Letter Formation**
* Proportions look balanced

**Next Expected Strokes**
* Compare your strokes with the printed form

**Common Mistakes to Avoid**
* Strokes drawn in the wrong order

**Overall Quality Score (%)**
70%

**Formation Score (%)**
65%
`

// NewDemoProvider returns a MockProvider that answers every request with a
// fixed sample analysis.
func NewDemoProvider() *MockProvider {
	m := NewMockProvider()
	m.SetFallback(MockResponse{Text: demoReply})
	return m
}
