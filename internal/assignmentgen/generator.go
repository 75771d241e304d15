// Package assignmentgen writes assignment text for a topic with a chat
// completion model and packages it as a Word document.
package assignmentgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/patric-chuzhbe/studydesk/internal/logger"
)

const (
	// ErrorPrefix starts the text produced in place of a failed generation.
	ErrorPrefix = "Error generating assignment: "

	systemPrompt = "You are a helpful assistant who writes detailed assignments."
	userPrompt   = "Write a detailed assignment on the topic: %s."

	maxTokens   = 500
	temperature = 0.7

	defaultRateLimit = 1.0
	defaultBurst     = 3
)

var (
	ErrNoAPIKey      = errors.New("OpenAI API key is not configured")
	ErrEmptyResponse = errors.New("no completion choices returned")
)

type completer interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Generator struct {
	client  completer
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

type Option func(*Generator)

func WithCompleter(client completer) Option {
	return func(g *Generator) {
		g.client = client
	}
}

func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(g *Generator) {
		g.limiter = rate.NewLimiter(limit, burst)
	}
}

// New builds a generator backed by the OpenAI API. With an empty apiKey and no
// WithCompleter option every generation yields the error placeholder.
func New(apiKey, model string, timeout time.Duration, opts ...Option) *Generator {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	g := &Generator{
		model:   model,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
	}
	if apiKey != "" {
		g.client = openai.NewClient(apiKey)
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns the assignment text for topic. It never fails: any error is
// turned into a placeholder text that ends up in the document.
func (g *Generator) Generate(ctx context.Context, topic string) string {
	text, err := g.complete(ctx, topic)
	if err != nil {
		logger.Log.Warnw("assignment generation failed", "topic", topic, "error", err)
		return ErrorPrefix + err.Error()
	}

	return text
}

func (g *Generator) complete(ctx context.Context, topic string) (string, error) {
	if g.client == nil {
		return "", ErrNoAPIKey
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	response, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPrompt, topic)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
