package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/config"
	"github.com/Abdulraqib20/ai-health-and-fitness-planner/internal/shared"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	groqModel   = "llama-3.3-70b-versatile"
)

// groqClient talks to the Groq API through its OpenAI-compatible endpoint.
type groqClient struct {
	client openai.Client
}

// NewGroqClient creates a new Groq API client.
func NewGroqClient(cfg *config.Config) TextGenerator {
	client := openai.NewClient(
		option.WithAPIKey(cfg.GroqAPIKey),
		option.WithBaseURL(groqBaseURL),
	)
	return &groqClient{client: client}
}

// GenerateContent sends a prompt to the Groq model and returns the generated text.
func (c *groqClient) GenerateContent(ctx context.Context, prompt string, instructions []string) (ContentResponse, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if len(instructions) > 0 {
		messages = append(messages, openai.SystemMessage(strings.Join(instructions, "\n")))
	}
	messages = append(messages, openai.UserMessage(prompt))

	chat, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    groqModel,
		Messages: messages,
	})
	if err != nil {
		return ContentResponse{}, &BackendError{Backend: "groq", Err: err}
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return ContentResponse{}, &BackendError{Backend: "groq", Err: fmt.Errorf("no content generated")}
	}

	return ContentResponse{
		Content: chat.Choices[0].Message.Content,
		Usage: shared.TokenUsage{
			PromptTokens:     int(chat.Usage.PromptTokens),
			CompletionTokens: int(chat.Usage.CompletionTokens),
			TotalTokens:      int(chat.Usage.TotalTokens),
			Model:            groqModel,
		},
	}, nil
}
