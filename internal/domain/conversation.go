package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleUser marks a turn written by the farmer.
	RoleUser Role = "user"
	// RoleAssistant marks a turn produced by the advisor.
	RoleAssistant Role = "assistant"
)

// Conversation is a persisted chat session with its ordered turns.
type Conversation struct {
	ID        string
	CreatedAt time.Time
	Turns     []Turn
}

// Turn is one ordered (role, text) pair within a conversation.
type Turn struct {
	ID        string
	Role      Role
	Text      string
	CreatedAt time.Time
}
