package generator

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	openai "github.com/sashabaranov/go-openai"
)

// LLMClient is the interface every generative-service client satisfies.
// Complete is a single blocking text round-trip; CompleteWithImage adds
// one inline base64 image to the request. No retries and no timeouts:
// a call either completes or fails outright.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithImage(ctx context.Context, prompt string, imageBase64 string, mediaType string) (string, error)
	ModelName() string
}

const (
	generateMaxTokens = 450
	gradeMaxTokens    = 1024
	temperature       = 0.85
)

// NewClientFromEnv selects a client from the environment: mock for local
// dev, Mistral when MISTRAL_API_KEY is set, Anthropic when
// ANTHROPIC_API_KEY is set. Returns nil when no provider is configured;
// callers degrade to the fallback bank for generation and surface an
// auth failure for grading.
func NewClientFromEnv() LLMClient {
	if os.Getenv("MOCK_GENERATOR") == "true" {
		log.Println("Generator using mock data")
		return NewMockClient()
	}
	if key := os.Getenv("MISTRAL_API_KEY"); key != "" {
		client := NewMistralClient(key)
		log.Println("Generator using Mistral API:", client.textModel)
		return client
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		model := os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-20250514"
		}
		log.Println("Generator using Anthropic API:", model)
		return NewAnthropicClient(model)
	}
	log.Println("Generator: no API key configured, serving fallback bank only")
	return nil
}

// ── AnthropicClient — Anthropic SDK ────────────────────────

type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicClient(model string) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &AnthropicClient{client: &client, model: model}
}

func (c *AnthropicClient) ModelName() string {
	return c.model
}

func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   generateMaxTokens,
		Temperature: param.NewOpt(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	return c.call(ctx, params)
}

func (c *AnthropicClient) CompleteWithImage(ctx context.Context, prompt string, imageBase64 string, mediaType string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: gradeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
				anthropic.NewImageBlockBase64(mediaType, imageBase64),
			),
		},
	}
	return c.call(ctx, params)
}

func (c *AnthropicClient) call(ctx context.Context, params anthropic.MessageNewParams) (string, error) {
	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in API response")
}

// ── MistralClient — OpenAI-compatible API ──────────────────

const mistralBaseURL = "https://api.mistral.ai/v1"

// MistralClient talks to the Mistral API through its OpenAI-compatible
// surface. Text generation uses a large text model; image grading uses
// the Pixtral vision model.
type MistralClient struct {
	api         *openai.Client
	textModel   string
	visionModel string
}

func NewMistralClient(apiKey string) *MistralClient {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = mistralBaseURL

	textModel := os.Getenv("MISTRAL_TEXT_MODEL")
	if textModel == "" {
		textModel = "mistral-large-latest"
	}
	visionModel := os.Getenv("MISTRAL_VISION_MODEL")
	if visionModel == "" {
		visionModel = "pixtral-12b-2409"
	}

	return &MistralClient{
		api:         openai.NewClientWithConfig(config),
		textModel:   textModel,
		visionModel: visionModel,
	}
}

// ModelName reports the vision model, which is the identifier echoed in
// grading results.
func (c *MistralClient) ModelName() string {
	return c.visionModel
}

func (c *MistralClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.textModel,
		Temperature: temperature,
		MaxTokens:   generateMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("mistral API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("mistral API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *MistralClient) CompleteWithImage(ctx context.Context, prompt string, imageBase64 string, mediaType string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: fmt.Sprintf("data:%s;base64,%s", mediaType, imageBase64),
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("mistral API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("mistral API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) ModelName() string {
	return "mock"
}

func (m *MockClient) Complete(ctx context.Context, prompt string) (string, error) {
	return "```json\n" + `{
  "question": "[Mock] 解 $2x+4=12$",
  "options": {"A": "x=2", "B": "x=3", "C": "x=4", "D": "x=6"},
  "answer": "C",
  "latex_steps": "$$2x=8$$$$x=4$$",
  "difficulty": "medium"
}` + "\n```", nil
}

func (m *MockClient) CompleteWithImage(ctx context.Context, prompt string, imageBase64 string, mediaType string) (string, error) {
	return `{
  "extracted": "[Mock] x=2, x=3",
  "score": 100,
  "isCorrect": true,
  "feedback": "[Mock] 答案正確",
  "correctAnswer": "x=2, x=3"
}`, nil
}
