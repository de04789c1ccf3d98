package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"

	"github.com/dskvich/vision-webchat/pkg/domain"
	"github.com/dskvich/vision-webchat/pkg/logger"
)

const decommissionedMarker = "decommissioned"

type Config struct {
	APIKey              string
	URL                 string
	Model               string
	MaxCompletionTokens int
	// Temperature and TopP are pointers so that an explicit 0 is kept;
	// nil selects the default.
	Temperature *float64
	TopP        *float64
}

func (c Config) withDefaults() Config {
	c.URL = lo.Ternary(c.URL == "", DefaultURL, c.URL)
	c.Model = lo.Ternary(c.Model == "", DefaultModel, c.Model)
	c.MaxCompletionTokens = lo.Ternary(c.MaxCompletionTokens <= 0, DefaultMaxCompletionTokens, c.MaxCompletionTokens)
	c.Temperature = lo.ToPtr(lo.FromPtrOr(c.Temperature, DefaultTemperature))
	c.TopP = lo.ToPtr(lo.FromPtrOr(c.TopP, float64(DefaultTopP)))
	return c
}

type client struct {
	cfg Config
	hc  *http.Client
}

// NewClient creates a client for an OpenAI compatible chat completions
// endpoint. The HTTP client has no timeout of its own.
func NewClient(cfg Config) (*client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is empty")
	}
	return &client{
		cfg: cfg.withDefaults(),
		hc:  &http.Client{},
	}, nil
}

// BuildPayload turns the prior history plus the turn being sent into a
// request. Prior turns are always sent as plain text; only current may carry
// an image, and only when imagePath points to an existing file. An empty
// model selects the configured one.
func (c *client) BuildPayload(prior domain.History, current domain.Turn, imagePath, model string) (*ChatCompletionRequest, error) {
	messages := lo.Map(prior, func(t domain.Turn, _ int) Message {
		return Message{Role: t.Role, Content: t.Content}
	})

	last, err := buildMessage(current, imagePath)
	if err != nil {
		return nil, err
	}
	messages = append(messages, last)

	return &ChatCompletionRequest{
		Model:               lo.Ternary(model == "", c.cfg.Model, model),
		Messages:            messages,
		MaxCompletionTokens: c.cfg.MaxCompletionTokens,
		Temperature:         *c.cfg.Temperature,
		TopP:                *c.cfg.TopP,
		Stream:              false,
	}, nil
}

func buildMessage(turn domain.Turn, imagePath string) (Message, error) {
	if imagePath == "" {
		return Message{Role: turn.Role, Content: turn.Content}, nil
	}

	if _, err := os.Stat(imagePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Message{Role: turn.Role, Content: turn.Content}, nil
		}
		return Message{}, fmt.Errorf("checking image: %w", err)
	}

	dataURL, err := EncodeImage(imagePath)
	if err != nil {
		return Message{}, err
	}

	return Message{
		Role: domain.MessageRoleUser,
		Content: []any{
			TextPart{Type: openai.ChatMessagePartTypeText, Text: turn.Content},
			openai.ChatMessagePart{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL}},
		},
	}, nil
}

// Send posts the request and classifies the outcome. It never returns an
// error: every failure is reported through the returned Completion.
func (c *client) Send(ctx context.Context, request *ChatCompletionRequest) domain.Completion {
	slog.InfoContext(ctx, "Sending chat completion request", "model", request.Model, "messagesCount", len(request.Messages))

	body, err := json.Marshal(request)
	if err != nil {
		return domain.CompletionTransportFailure(fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return domain.CompletionTransportFailure(fmt.Errorf("creating HTTP request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		slog.ErrorContext(ctx, "Executing chat completion request", logger.Err(err))
		return domain.CompletionTransportFailure(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Reading chat completion response", logger.Err(err))
		return domain.CompletionTransportFailure(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyFailure(ctx, resp.StatusCode, respBody)
	}

	var completion openai.ChatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		slog.ErrorContext(ctx, "Decoding chat completion response", logger.Err(err))
		return domain.CompletionTransportFailure(fmt.Errorf("decoding response: %w", err))
	}
	if len(completion.Choices) == 0 {
		return domain.CompletionTransportFailure(errors.New("no choices in response"))
	}

	return domain.CompletionReply(completion.Choices[0].Message.Content)
}

func classifyFailure(ctx context.Context, statusCode int, body []byte) domain.Completion {
	var errResp openai.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		slog.ErrorContext(ctx, "Chat completion request failed",
			"status", statusCode,
			"type", errResp.Error.Type,
			"code", fmt.Sprint(errResp.Error.Code),
			"message", errResp.Error.Message,
		)
	} else {
		slog.ErrorContext(ctx, "Chat completion request failed", "status", statusCode, "body", string(body))
	}

	if bytes.Contains(body, []byte(decommissionedMarker)) {
		return domain.CompletionDecommissioned(statusCode)
	}
	return domain.CompletionHTTPFailure(statusCode)
}

// Complete builds, sends and converts the outcome to the text stored as the
// assistant turn.
func (c *client) Complete(ctx context.Context, prior domain.History, current domain.Turn, imagePath, model string) string {
	request, err := c.BuildPayload(prior, current, imagePath, model)
	if err != nil {
		slog.ErrorContext(ctx, "Building chat completion request", logger.Err(err))
		return domain.CompletionTransportFailure(err).Text()
	}

	completion := c.Send(ctx, request)
	if completion.Kind != domain.CompletionOK {
		slog.WarnContext(ctx, "Chat completion failed", "kind", completion.Kind.String())
	}
	return completion.Text()
}
