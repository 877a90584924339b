package llm

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/heypico/waypoint/internal/observability"
)

// historyLimit bounds how many prior conversation turns are replayed to the
// model. Older context costs tokens without improving intent extraction.
const historyLimit = 5

// Reply is the outcome of one assistant exchange.
type Reply struct {
	Intent *Intent
	Raw    string
}

// Service runs the intent-extraction conversation against a Driver.
type Service struct {
	Driver      Driver
	Model       string
	Temperature float64
	MaxTokens   int
	Logger      *zap.Logger
}

// NewService wires a Service with defaults applied.
func NewService(driver Driver, model string) *Service {
	return &Service{
		Driver:      driver,
		Model:       model,
		Temperature: 0.7,
		MaxTokens:   1024,
		Logger:      zap.NewNop(),
	}
}

// GenerateReply sends the user message (plus bounded history) to the model
// and parses the structured intent out of the reply.
func (s *Service) GenerateReply(ctx context.Context, userMessage string, history []Message) (*Reply, error) {
	if s == nil || s.Driver == nil {
		return nil, errors.New("llm service is not configured")
	}

	messages := make([]Message, 0, historyLimit+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	for _, msg := range history {
		role := msg.Role
		if role != "assistant" {
			role = "user"
		}
		messages = append(messages, Message{Role: role, Content: msg.Content})
	}

	messages = append(messages, Message{Role: "user", Content: userMessage})

	resp, err := s.Driver.Complete(ctx, &Request{
		Model:       s.Model,
		Messages:    messages,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	})
	if err != nil {
		observability.LLMRequestsTotal.WithLabelValues("error").Inc()
		s.logger().Warn("llm completion failed",
			zap.String("driver", s.Driver.Name()),
			zap.Error(err))
		return nil, err
	}

	observability.LLMRequestsTotal.WithLabelValues("ok").Inc()

	raw := strings.TrimSpace(resp.Content)
	return &Reply{Intent: ParseIntent(raw), Raw: raw}, nil
}

// CheckHealth reports driver reachability.
func (s *Service) CheckHealth(ctx context.Context) error {
	if s == nil || s.Driver == nil {
		return errors.New("llm service is not configured")
	}
	return s.Driver.CheckHealth(ctx)
}

func (s *Service) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
