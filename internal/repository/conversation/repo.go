// Package conversation persists chat sessions and their turns in hash keys.
// Layout: <prefix>conv:<id> holds session metadata with a turn counter,
// <prefix>conv:<id>:turn:<seq> holds one turn. The counter makes turn
// ordering explicit and append race-free.
package conversation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/krishisathi/sathi/internal/db"
	"github.com/krishisathi/sathi/internal/domain"
)

// Repo stores conversations in a db.HashStore.
type Repo struct {
	db        db.HashStore
	keyPrefix string
}

// New creates a conversation repository.
func New(store db.HashStore, keyPrefix string) *Repo {
	return &Repo{db: store, keyPrefix: keyPrefix}
}

// Create starts a new empty conversation.
func (r *Repo) Create(ctx context.Context) (domain.Conversation, error) {
	conv := domain.Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}

	err := r.db.HSet(ctx, r.convKey(conv.ID), map[string]string{
		"id":         conv.ID,
		"created_at": conv.CreatedAt.Format(time.RFC3339Nano),
		"turns":      "0",
	})
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// Get loads a conversation with all its turns in chronological order.
func (r *Repo) Get(ctx context.Context, id string) (domain.Conversation, error) {
	meta, err := r.db.HGetAll(ctx, r.convKey(id))
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("read conversation: %w", err)
	}
	if len(meta) == 0 {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}

	conv, err := parseConv(meta)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("parse conversation: %w", err)
	}

	turns, err := strconv.Atoi(meta["turns"])
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("parse turn count: %w", err)
	}
	if turns == 0 {
		return conv, nil
	}

	keys := make([]string, turns)
	for i := 0; i < turns; i++ {
		keys[i] = r.turnKey(id, i+1)
	}

	rows, err := r.db.HGetAllMulti(ctx, keys)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("read turns: %w", err)
	}

	conv.Turns = make([]domain.Turn, 0, len(rows))
	for _, fields := range rows {
		if len(fields) == 0 {
			continue
		}
		turn, err := parseTurn(fields)
		if err != nil {
			return domain.Conversation{}, fmt.Errorf("parse turn: %w", err)
		}
		conv.Turns = append(conv.Turns, turn)
	}
	return conv, nil
}

// Exists reports whether the conversation is known.
func (r *Repo) Exists(ctx context.Context, id string) (bool, error) {
	return r.db.Exists(ctx, r.convKey(id))
}

// AppendTurn adds one turn to the conversation and returns it with its
// assigned identity.
func (r *Repo) AppendTurn(ctx context.Context, convID string, role domain.Role, text string) (domain.Turn, error) {
	exists, err := r.db.Exists(ctx, r.convKey(convID))
	if err != nil {
		return domain.Turn{}, fmt.Errorf("check conversation: %w", err)
	}
	if !exists {
		return domain.Turn{}, domain.ErrConversationNotFound
	}

	seq, err := r.db.HIncrBy(ctx, r.convKey(convID), "turns", 1)
	if err != nil {
		return domain.Turn{}, fmt.Errorf("advance turn counter: %w", err)
	}

	turn := domain.Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	err = r.db.HSet(ctx, r.turnKey(convID, int(seq)), map[string]string{
		"id":         turn.ID,
		"role":       string(turn.Role),
		"text":       turn.Text,
		"created_at": turn.CreatedAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return domain.Turn{}, fmt.Errorf("write turn: %w", err)
	}
	return turn, nil
}

func (r *Repo) convKey(id string) string {
	return r.keyPrefix + "conv:" + id
}

func (r *Repo) turnKey(id string, seq int) string {
	return fmt.Sprintf("%sconv:%s:turn:%d", r.keyPrefix, id, seq)
}

func parseConv(fields map[string]string) (domain.Conversation, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("created_at: %w", err)
	}
	return domain.Conversation{
		ID:        fields["id"],
		CreatedAt: createdAt,
	}, nil
}

func parseTurn(fields map[string]string) (domain.Turn, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return domain.Turn{}, fmt.Errorf("created_at: %w", err)
	}
	return domain.Turn{
		ID:        fields["id"],
		Role:      domain.Role(fields["role"]),
		Text:      fields["text"],
		CreatedAt: createdAt,
	}, nil
}
