package chihttp

import (
	"time"

	"github.com/krishisathi/sathi/internal/domain"
)

type chatResponse struct {
	ChatID    string    `json:"chat_id"`
	CreatedAt time.Time `json:"created_at"`
}

type messageResponse struct {
	MessageID string    `json:"message_id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type messageListResponse struct {
	ChatID   string            `json:"chat_id"`
	Messages []messageResponse `json:"messages"`
}

type sendMessageRequest struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

type sendMessageResponse struct {
	UserMessage      messageResponse `json:"user_message"`
	AssistantMessage messageResponse `json:"assistant_message"`
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

type searchHit struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	File   string  `json:"file"`
	Page   int     `json:"page"`
	Score  float64 `json:"score"`
}

type searchResponse struct {
	Query string      `json:"query"`
	Hits  []searchHit `json:"hits"`
}

type rebuildRequest struct {
	Force bool `json:"force"`
}

type rebuildResponse struct {
	State          string    `json:"state"`
	DocumentCount  int       `json:"document_count"`
	EmbeddingModel string    `json:"embedding_model"`
	BuiltAt        time.Time `json:"built_at"`
}

type statusResponse struct {
	State               string `json:"state"`
	DocumentCount       int    `json:"document_count"`
	EmbeddingsAvailable bool   `json:"embeddings_available"`
	EmbeddingModel      string `json:"embedding_model,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func turnToMessage(t domain.Turn) messageResponse {
	return messageResponse{
		MessageID: t.ID,
		Role:      string(t.Role),
		Message:   t.Text,
		CreatedAt: t.CreatedAt,
	}
}

func hitsToResponse(query string, hits []domain.ScoredChunk) searchResponse {
	out := searchResponse{Query: query, Hits: make([]searchHit, len(hits))}
	for i, h := range hits {
		out.Hits[i] = searchHit{
			Text:   h.Chunk.Text,
			Source: h.Chunk.Source,
			File:   h.Chunk.File,
			Page:   h.Chunk.Page,
			Score:  h.Score,
		}
	}
	return out
}
