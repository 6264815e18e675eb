// Package prompt assembles the message list sent to the chat model: system
// prompt (with optional document and live-search sections), a bounded
// history window, and the current user turn.
package prompt

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/domain"
	"github.com/krishisathi/sathi/internal/metrics"
)

const docSectionHeader = `### Reference Documents

Ground your answer in these excerpts from trusted agricultural guides when they are relevant. Do not invent sources.`

// tokenEncoding is used only for the prompt size metric.
const tokenEncoding = "cl100k_base"

// Composer builds chat prompts from a fixed variant and history window.
type Composer struct {
	variant       Variant
	historyWindow int
	encoder       *tiktoken.Tiktoken // nil when the encoding is unavailable
	logger        *zap.Logger
}

// NewComposer resolves the prompt variant and prepares the token estimator.
// An unknown variant is a startup error; a missing token encoding only
// disables the size metric.
func NewComposer(variantName string, historyWindow int, logger *zap.Logger) (*Composer, error) {
	variant, err := ResolveVariant(variantName)
	if err != nil {
		return nil, err
	}

	encoder, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		logger.Warn("token encoding unavailable, prompt size metric disabled",
			zap.Error(err))
		encoder = nil
	}

	return &Composer{
		variant:       variant,
		historyWindow: historyWindow,
		encoder:       encoder,
		logger:        logger,
	}, nil
}

// Variant returns the active prompt variant name.
func (c *Composer) Variant() string {
	return c.variant.Name
}

// Compose builds the message list: system first, then up to historyWindow
// prior turns oldest first, then the current user message last. Document and
// search sections are appended to the system message only when non-empty.
func (c *Composer) Compose(history []domain.Turn, current, docContext, searchContext string) []domain.Message {
	system := c.variant.System
	if docContext != "" {
		system += "\n\n" + docSectionHeader + "\n\n" + docContext
	}
	if searchContext != "" {
		system += "\n\n" + searchContext
	}

	window := history
	if c.historyWindow > 0 && len(window) > c.historyWindow {
		window = window[len(window)-c.historyWindow:]
	}

	messages := make([]domain.Message, 0, len(window)+2)
	messages = append(messages, domain.Message{
		Role:    domain.MessageRoleSystem,
		Content: system,
	})
	for _, turn := range window {
		role := domain.MessageRoleUser
		if turn.Role == domain.RoleAssistant {
			role = domain.MessageRoleAssistant
		}
		messages = append(messages, domain.Message{Role: role, Content: turn.Text})
	}
	messages = append(messages, domain.Message{
		Role:    domain.MessageRoleUser,
		Content: current,
	})

	c.observeSize(messages)
	return messages
}

func (c *Composer) observeSize(messages []domain.Message) {
	if c.encoder == nil {
		return
	}
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(m.Content)
		b.WriteByte('\n')
	}
	tokens := c.encoder.Encode(b.String(), nil, nil)
	metrics.PromptTokensEstimate.Observe(float64(len(tokens)))
}
