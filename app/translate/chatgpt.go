package translate

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/exp/slog"
)

//go:embed data/prompt.tmpl
var prompt string

var promptTmpl = template.Must(template.New("prompt").Parse(prompt))

//go:generate moq -out mock_openai_client.go . OpenAIClient

// OpenAIClient is interface for OpenAI client with the possibility to mock it
type OpenAIClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatGPT translates texts with OpenAI chat completions.
type ChatGPT struct {
	log       *slog.Logger
	cl        OpenAIClient
	model     string
	maxTokens int
}

// NewChatGPT creates new ChatGPT translator.
func NewChatGPT(lg *slog.Logger, cl *http.Client, token, model string, maxTokens int) *ChatGPT {
	config := openai.DefaultConfig(token)
	config.HTTPClient = cl

	client := openai.NewClientWithConfig(config)

	if model == "" {
		model = openai.GPT3Dot5Turbo
	}

	return &ChatGPT{
		log:       lg,
		cl:        &loggingClient{log: lg, cl: client},
		model:     model,
		maxTokens: maxTokens,
	}
}

// ErrNoChoices is returned when OpenAI responded without any completion.
var ErrNoChoices = errors.New("no choices in response")

// Translate translates text.
func (s *ChatGPT) Translate(ctx context.Context, text, from, to string) (string, error) {
	buf := &strings.Builder{}

	err := promptTmpl.Execute(buf, struct{ From, To, Text string }{From: from, To: to, Text: text})
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buf.String()},
		},
	}

	resp, err := s.cl.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"«»`), nil
}

type loggingClient struct {
	log *slog.Logger
	cl  OpenAIClient
}

func (l *loggingClient) CreateChatCompletion(
	ctx context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	l.log.DebugCtx(ctx, "sending request to chatGPT")
	resp, err := l.cl.CreateChatCompletion(ctx, req)
	l.log.DebugCtx(ctx, "response received from chatGPT")
	return resp, err
}
