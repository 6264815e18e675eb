package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/krishisathi/sathi/internal/domain"
)

func TestRespondFullPipeline(t *testing.T) {
	composer := &mockComposer{}
	retriever := &mockRetriever{
		contextFn: func(_ context.Context, _ string, maxDocs int) domain.RetrievalResult {
			if maxDocs != 3 {
				t.Errorf("maxDocs = %d, want 3", maxDocs)
			}
			return domain.RetrievalResult{Kind: domain.Retrieved, Context: "doc block"}
		},
	}
	searcher := &mockSearcher{
		contextFn: func(context.Context, string) string { return "search block" },
	}
	svc := newTestService(&mockCompleter{}, retriever, searcher, composer)

	history := []domain.Turn{{Role: domain.RoleUser, Text: "earlier"}}
	got := svc.Respond(context.Background(), "how to store rice", history)

	if got != "llm answer" {
		t.Errorf("got %q, want llm answer", got)
	}
	if composer.gotDoc != "doc block" {
		t.Errorf("composer doc context = %q", composer.gotDoc)
	}
	if composer.gotSearch != "search block" {
		t.Errorf("composer search context = %q", composer.gotSearch)
	}
	if composer.gotCurrent != "how to store rice" {
		t.Errorf("composer current = %q", composer.gotCurrent)
	}
	if len(composer.gotHistory) != 1 {
		t.Errorf("composer history length = %d, want 1", len(composer.gotHistory))
	}
}

func TestRespondMockWithoutLLM(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	got := svc.Respond(context.Background(), "के गर्ने?", nil)

	want := "This is a mock response to: 'के गर्ने?'. Please configure an LLM API key for actual AI responses."
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestRespondApologyOnLLMError(t *testing.T) {
	svc := newTestService(&mockCompleter{
		completeFn: func(context.Context, []domain.Message) (string, error) {
			return "", errors.New("rate limited")
		},
	}, nil, nil, nil)

	got := svc.Respond(context.Background(), "question", nil)

	if !strings.HasPrefix(got, "I apologize, but I encountered an error processing your message. Error: ") {
		t.Errorf("got %q, want apology prefix", got)
	}
	if !strings.Contains(got, "rate limited") {
		t.Errorf("apology does not carry error detail: %q", got)
	}
}

func TestRespondDegradesOnRetrievalFailure(t *testing.T) {
	composer := &mockComposer{}
	retriever := &mockRetriever{
		contextFn: func(context.Context, string, int) domain.RetrievalResult {
			return domain.RetrievalResult{Kind: domain.Failed, Err: errors.New("store down")}
		},
	}
	svc := newTestService(&mockCompleter{}, retriever, nil, composer)

	got := svc.Respond(context.Background(), "question", nil)

	if got != "llm answer" {
		t.Errorf("got %q, retrieval failure must not break the reply", got)
	}
	if composer.gotDoc != "" {
		t.Errorf("doc context = %q, want empty on failure", composer.gotDoc)
	}
}
