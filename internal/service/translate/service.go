package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/smart-bharat/backend/internal/config"
	"github.com/smart-bharat/backend/internal/model/feed"
)

var (
	ErrNotConfigured = errors.New("translate: API key is not configured")
	ErrMissingInput  = errors.New("translate: text and target language are required")
)

// Service translates text through an OpenAI-compatible chat-completions
// endpoint (DeepSeek in production).
type Service struct {
	client  openai.Client
	model   string
	enabled bool
}

// NewService builds the translation service. With no API key configured the
// service stays disabled and every call returns ErrNotConfigured.
func NewService(cfg config.TranslateConfig) *Service {
	if !cfg.Enabled() {
		return &Service{}
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	)
	return &Service{client: client, model: cfg.Model, enabled: true}
}

// Enabled reports whether translation calls can be made.
func (s *Service) Enabled() bool {
	return s.enabled
}

// Translate returns text rendered in targetLanguage.
func (s *Service) Translate(ctx context.Context, text, targetLanguage string) (feed.Translation, error) {
	if !s.enabled {
		return feed.Translation{}, ErrNotConfigured
	}
	if strings.TrimSpace(text) == "" || strings.TrimSpace(targetLanguage) == "" {
		return feed.Translation{}, ErrMissingInput
	}

	prompt := fmt.Sprintf(
		"Translate the following text to %s. Only return the translated text without any explanations or additional content: %q",
		targetLanguage, text,
	)

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(s.model),
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(1000),
	})
	if err != nil {
		return feed.Translation{}, fmt.Errorf("translate: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return feed.Translation{}, errors.New("translate: no choices in response")
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		// Mirror the product behavior of returning the input untranslated
		// rather than failing the widget.
		translated = text
	}

	return feed.Translation{
		TranslatedText: translated,
		SourceLanguage: "auto",
		TargetLanguage: targetLanguage,
	}, nil
}
