package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GenAIProvider implements Provider using the Google Gen AI SDK.
type GenAIProvider struct {
	client *genai.Client
	model  string
}

// NewGenAIProvider creates a Gemini provider backed by the SDK. With no API
// key the provider is created without a client and Generate fails with
// ErrMissingCredential.
func NewGenAIProvider(ctx context.Context, cfg GeminiConfig) (*GenAIProvider, error) {
	p := &GenAIProvider{model: resolveModel(cfg.Model, geminiModels)}
	if cfg.APIKey == "" {
		return p, nil
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	p.client = client
	return p, nil
}

func (p *GenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if p.client == nil {
		return nil, ErrMissingCredential
	}

	g := req.Generation
	temp := float32(g.Temperature)
	topK := float32(g.TopK)
	topP := float32(g.TopP)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		TopK:            &topK,
		TopP:            &topP,
		MaxOutputTokens: int32(g.MaxOutputTokens),
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, buildGenAIContents(req.Messages), config)
	if err != nil {
		return nil, mapGenAIError(err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		raw = nil
	}
	text := result.Text()
	if len(result.Candidates) == 0 || text == "" {
		return nil, &UnexpectedShapeError{Raw: raw, Err: errors.New("no text in candidates")}
	}

	resp := &Response{
		Text:       text,
		Raw:        raw,
		Model:      p.model,
		StopReason: mapGenAIStopReason(result),
	}
	if result.ModelVersion != "" {
		resp.Model = result.ModelVersion
	}
	if result.UsageMetadata != nil {
		resp.Usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}

func (p *GenAIProvider) ModelID() string {
	return p.model
}

func buildGenAIContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, len(msgs))
	for i, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		parts := make([]*genai.Part, 0, len(m.Images)+1)
		for _, img := range m.Images {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
			})
		}
		parts = append(parts, &genai.Part{Text: m.Content})
		out[i] = &genai.Content{Role: role, Parts: parts}
	}
	return out
}

func mapGenAIStopReason(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		return "max_tokens"
	}
	return "end"
}

func mapGenAIError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &TransportError{StatusCode: apiErr.Code, Body: apiErr.Message, Err: err}
	}
	return &TransportError{Err: err}
}
