package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 64 << 10

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

// GeminiProvider calls the Gemini generateContent REST endpoint directly,
// passing the API key as a query parameter.
type GeminiProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewGeminiProvider creates a Gemini REST provider. An empty API key is
// accepted; Generate then fails with ErrMissingCredential.
func NewGeminiProvider(cfg GeminiConfig, httpClient *http.Client) *GeminiProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &GeminiProvider{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      resolveModel(cfg.Model, geminiModels),
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
	Text       *string           `json:"text,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
	ModelVersion string `json:"modelVersion"`
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if p.apiKey == "" {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(buildGeminiRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: scrubKey(err, p.apiKey)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			RetryAfter: parseRetryAfter(resp.Header),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	return p.decode(raw)
}

func (p *GeminiProvider) decode(raw []byte) (*Response, error) {
	var gr geminiResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return nil, &UnexpectedShapeError{Raw: raw, Err: fmt.Errorf("decode body: %w", err)}
	}
	if len(gr.Candidates) == 0 {
		return nil, &UnexpectedShapeError{Raw: raw, Err: errors.New("no candidates")}
	}
	cand := gr.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return nil, &UnexpectedShapeError{Raw: raw, Err: errors.New("candidate has no content parts")}
	}

	var text strings.Builder
	found := false
	for _, part := range cand.Content.Parts {
		if part.Text != nil {
			text.WriteString(*part.Text)
			found = true
		}
	}
	if !found {
		return nil, &UnexpectedShapeError{Raw: raw, Err: errors.New("content parts carry no text")}
	}

	model := gr.ModelVersion
	if model == "" {
		model = p.model
	}
	return &Response{
		Text: text.String(),
		Raw:  raw,
		Usage: Usage{
			InputTokens:  gr.UsageMetadata.PromptTokenCount,
			OutputTokens: gr.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  gr.UsageMetadata.TotalTokenCount,
		},
		Model:      model,
		StopReason: mapGeminiFinishReason(cand.FinishReason),
	}, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

// buildGeminiRequest lays out each message as inline images followed by the
// text part. The system prompt, if any, leads the first user message.
func buildGeminiRequest(req Request) geminiRequest {
	out := geminiRequest{
		GenerationConfig: geminiGenerationConfig{
			Temperature:     req.Generation.Temperature,
			TopK:            req.Generation.TopK,
			TopP:            req.Generation.TopP,
			MaxOutputTokens: req.Generation.MaxOutputTokens,
		},
	}
	system := req.System
	for _, m := range req.Messages {
		c := geminiContent{}
		if m.Role == RoleAssistant {
			c.Role = "model"
		}
		for _, img := range m.Images {
			c.Parts = append(c.Parts, geminiPart{InlineData: &geminiInlineData{
				MIMEType: img.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			}})
		}
		text := m.Content
		if system != "" && m.Role != RoleAssistant {
			text = system + "\n\n" + text
			system = ""
		}
		c.Parts = append(c.Parts, geminiPart{Text: &text})
		out.Contents = append(out.Contents, c)
	}
	return out
}

func mapGeminiFinishReason(reason string) string {
	if reason == "MAX_TOKENS" {
		return "max_tokens"
	}
	return "end"
}

// scrubKey removes the API key from error text, since url.Error includes the
// full request URL.
func scrubKey(err error, key string) error {
	msg := err.Error()
	if key == "" {
		return err
	}
	scrubbed := strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED")
	scrubbed = strings.ReplaceAll(scrubbed, key, "REDACTED")
	if scrubbed == msg {
		return err
	}
	return &scrubbedError{msg: scrubbed, err: err}
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }
