package groq

import "github.com/sashabaranov/go-openai"

const (
	DefaultURL                 = "https://api.groq.com/openai/v1/chat/completions"
	DefaultModel               = "meta-llama/llama-4-scout-17b-16e-instruct"
	DefaultMaxCompletionTokens = 1024
	DefaultTemperature         = 0.7
	DefaultTopP                = 1
)

// ChatCompletionRequest is the body posted to the chat completions endpoint.
// Stream is always serialized so the provider never falls back to streaming.
type ChatCompletionRequest struct {
	Model               string    `json:"model"`
	Messages            []Message `json:"messages"`
	MaxCompletionTokens int       `json:"max_completion_tokens"`
	Temperature         float64   `json:"temperature"`
	TopP                float64   `json:"top_p"`
	Stream              bool      `json:"stream"`
}

// Message carries either a plain string or a list of content parts
// ([]any holding a TextPart followed by an image openai.ChatMessagePart).
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// TextPart is the text half of a multimodal message. "text" is written even
// when empty; providers reject a text part without it.
type TextPart struct {
	Type openai.ChatMessagePartType `json:"type"`
	Text string                     `json:"text"`
}
