// Package translation normalizes user text to English for retrieval and
// search. Translation is best-effort: when the provider is missing or
// errors, the original text passes through unchanged.
package translation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/domain"
)

const translatePrompt = `Translate the following Nepali text to English. Focus on agricultural and farming context. Only provide the English translation, nothing else:

Nepali text: %s

English translation:`

// Service translates Nepali input to English through a low-temperature
// completion.
type Service struct {
	completer domain.Completer // nil when no provider is configured
	logger    *zap.Logger
}

// New creates a translation service.
func New(completer domain.Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

// Available reports whether a translation provider is configured.
func (s *Service) Available() bool {
	return s.completer != nil
}

// ToEnglish returns the English form of text. English input, a missing
// provider, and provider errors all yield the input unchanged.
func (s *Service) ToEnglish(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if domain.DetectLanguage(text) == domain.LanguageEnglish {
		return text
	}
	if s.completer == nil {
		s.logger.Warn("translation provider not configured, keeping original text")
		return text
	}

	out, err := s.completer.Complete(ctx, []domain.Message{
		{Role: domain.MessageRoleUser, Content: fmt.Sprintf(translatePrompt, text)},
	})
	if err != nil {
		s.logger.Error("translation failed, keeping original text", zap.Error(err))
		return text
	}

	translated := strings.TrimSpace(out)
	if translated == "" {
		return text
	}

	s.logger.Debug("translated query",
		zap.String("from", truncate(text, 50)),
		zap.String("to", truncate(translated, 50)))
	return translated
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
