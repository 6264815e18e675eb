package conversation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/krishisathi/sathi/internal/domain"
)

func TestCreateAndGet(t *testing.T) {
	repo := New(newMemStore(), "sathi:")
	ctx := context.Background()

	conv, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if conv.ID == "" {
		t.Fatal("empty conversation ID")
	}

	got, err := repo.Get(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != conv.ID {
		t.Errorf("ID = %q, want %q", got.ID, conv.ID)
	}
	if len(got.Turns) != 0 {
		t.Errorf("new conversation has %d turns", len(got.Turns))
	}
}

func TestGetUnknown(t *testing.T) {
	repo := New(newMemStore(), "sathi:")

	_, err := repo.Get(context.Background(), "missing-id")
	if !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestAppendTurnOrdering(t *testing.T) {
	repo := New(newMemStore(), "sathi:")
	ctx := context.Background()

	conv, err := repo.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 5; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		if _, err := repo.AppendTurn(ctx, conv.ID, role, fmt.Sprintf("turn %d", i)); err != nil {
			t.Fatalf("AppendTurn %d: %v", i, err)
		}
	}

	got, err := repo.Get(ctx, conv.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Turns) != 5 {
		t.Fatalf("got %d turns, want 5", len(got.Turns))
	}
	for i, turn := range got.Turns {
		if turn.Text != fmt.Sprintf("turn %d", i) {
			t.Errorf("turn %d text = %q, order broken", i, turn.Text)
		}
		wantRole := domain.RoleUser
		if i%2 == 1 {
			wantRole = domain.RoleAssistant
		}
		if turn.Role != wantRole {
			t.Errorf("turn %d role = %q, want %q", i, turn.Role, wantRole)
		}
		if turn.ID == "" {
			t.Errorf("turn %d has empty ID", i)
		}
	}
}

func TestAppendTurnUnknownConversation(t *testing.T) {
	repo := New(newMemStore(), "sathi:")

	_, err := repo.AppendTurn(context.Background(), "missing-id", domain.RoleUser, "hello")
	if !errors.Is(err, domain.ErrConversationNotFound) {
		t.Fatalf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestConversationsAreIsolated(t *testing.T) {
	repo := New(newMemStore(), "sathi:")
	ctx := context.Background()

	a, _ := repo.Create(ctx)
	b, _ := repo.Create(ctx)

	if _, err := repo.AppendTurn(ctx, a.ID, domain.RoleUser, "for a"); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	gotB, err := repo.Get(ctx, b.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(gotB.Turns) != 0 {
		t.Errorf("conversation b has %d turns, want 0", len(gotB.Turns))
	}
}
