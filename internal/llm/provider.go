package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for vision-model interaction.
// Each Generate call issues exactly one outbound request; retry policy
// belongs to the caller (see WithRetry).
type Provider interface {
	// Generate sends the request and returns the model's text output along
	// with the untouched provider body.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is an optional system prompt. Providers without a separate
	// system channel prepend it to the first user message.
	System string

	// Messages is the conversation. Analysis requests carry one user
	// message holding the image and the instruction prompt.
	Messages []Message

	// Generation holds the sampling parameters.
	Generation Generation
}

// Generation holds fixed sampling configuration.
type Generation struct {
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string

	// Images are sent before Content, in order.
	Images []Image
}

// Image is an inline image attachment.
type Image struct {
	MIMEType string
	Data     []byte
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Response holds the model's output.
type Response struct {
	// Text is the generated text extracted from the provider body.
	Text string

	// Raw is the provider's response body as received (or, for SDK
	// providers, as the SDK decoded it).
	Raw json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserMessage builds a single user message with optional images.
func UserMessage(text string, images ...Image) Message {
	return Message{Role: RoleUser, Content: text, Images: images}
}
