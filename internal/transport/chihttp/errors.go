package chihttp

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/krishisathi/sathi/internal/domain"
)

// Stable machine-readable error codes for API clients.
const (
	codeBadRequest           = "bad_request"
	codeConversationNotFound = "conversation_not_found"
	codeRebuildInProgress    = "rebuild_in_progress"
	codeCorpusEmpty          = "corpus_empty"
	codeModelMismatch        = "model_mismatch"
	codeEmbedderUnavailable  = "embedder_unavailable"
	codeEmbeddingProviderErr = "embedding_provider_error"
	codeLLMProviderErr       = "llm_provider_error"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// sentinelStatus maps domain sentinels to HTTP status and error code.
var sentinelStatus = []struct {
	sentinel error
	status   int
	code     string
}{
	{domain.ErrConversationNotFound, http.StatusNotFound, codeConversationNotFound},
	{domain.ErrRebuildInProgress, http.StatusConflict, codeRebuildInProgress},
	{domain.ErrCorpusEmpty, http.StatusUnprocessableEntity, codeCorpusEmpty},
	{domain.ErrModelMismatch, http.StatusConflict, codeModelMismatch},
	{domain.ErrEmbedderUnavailable, http.StatusServiceUnavailable, codeEmbedderUnavailable},
	{domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderErr},
	{domain.ErrLLMProviderError, http.StatusBadGateway, codeLLMProviderErr},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// writeDomainError maps a usecase error onto the wire without exposing
// internals for unknown errors.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	for _, m := range sentinelStatus {
		if errors.Is(err, m.sentinel) {
			writeError(w, m.status, m.code, m.sentinel.Error())
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
