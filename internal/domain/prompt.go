package domain

// MessageRole tags a prompt message for the LLM.
type MessageRole string

const (
	// MessageRoleSystem carries the behavioral template.
	MessageRoleSystem MessageRole = "system"
	// MessageRoleUser carries a user turn.
	MessageRoleUser MessageRole = "user"
	// MessageRoleAssistant carries a prior assistant turn.
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is one role-tagged entry of a composed prompt. Prompts are built
// fresh per request and never cached, since they embed request-specific
// context blocks.
type Message struct {
	Role    MessageRole
	Content string
}
