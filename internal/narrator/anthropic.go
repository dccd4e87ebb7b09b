package narrator

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
)

// Defaults for the Anthropic-backed narrator.
const (
	DefaultModel       = string(anthropic.ModelClaudeSonnet4_5)
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.9
)

// Client narrates through the Anthropic Messages API, carrying the running
// conversation so the model keeps story continuity. It is not safe for
// concurrent use; the session layer serialises turns.
type Client struct {
	api         anthropic.Client
	model       anthropic.Model
	maxTokens   int64
	temperature float64
	system      string
	history     []anthropic.MessageParam
	logger      *zap.Logger
}

// ClientConfig tunes the Anthropic narrator.
type ClientConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// NewClient builds a narrator bound to one story. The system prompt fixes
// the world, plot, and party for the length of the conversation.
func NewClient(cfg ClientConfig, system string, logger *zap.Logger) *Client {
	model := anthropic.Model(cfg.Model)
	if cfg.Model == "" {
		model = anthropic.Model(DefaultModel)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	return &Client{
		api:         anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		system:      system,
		logger:      logger,
	}
}

// Narrate sends the turn with its hidden context appended and returns the
// model's prose. The exchange is recorded in the conversation history only
// when the call succeeds.
func (c *Client) Narrate(ctx context.Context, turn TurnContext) (string, error) {
	userTurn := anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Inject()))
	messages := append(append([]anthropic.MessageParam{}, c.history...), userTurn)

	resp, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		System:      []anthropic.TextBlockParam{{Text: c.system}},
		Messages:    messages,
	})
	if err != nil {
		c.logger.Warn("narration request failed", zap.Error(err))
		return "", fmt.Errorf("narrator: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("narrator: empty response")
	}

	c.history = append(c.history, userTurn, resp.ToParam())
	c.logger.Debug("narration received",
		zap.Int("history_turns", len(c.history)),
		zap.Int("chars", len(text)),
	)
	return text, nil
}
