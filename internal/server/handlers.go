package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goalsmith/goalsmith/internal/embedding"
	"github.com/goalsmith/goalsmith/internal/index"
	"github.com/goalsmith/goalsmith/internal/models"
)

// retrieveResponse is the payload for POST /api/v1/retrieve: the formatted
// context block plus the raw per-category results.
type retrieveResponse struct {
	Context   string                   `json:"context"`
	Career    []models.RetrievalResult `json:"career"`
	Standards []models.RetrievalResult `json:"standards"`
	Examples  []models.RetrievalResult `json:"examples"`
	QueryTime int64                    `json:"query_time_ms"`
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var profile models.StudentProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := profile.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("retrieve request", zap.String("name", profile.Name), zap.String("interests", profile.Interests))

	startTime := time.Now()
	_, retriever := s.current()
	sc, err := retriever.RetrieveForStudent(r.Context(), &profile)
	if err != nil {
		s.logger.Error("retrieval failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, &retrieveResponse{
		Context:   retriever.FormatContext(sc),
		Career:    sc.Career,
		Standards: sc.Standards,
		Examples:  sc.Examples,
		QueryTime: time.Since(startTime).Milliseconds(),
	})
}

// Rebuild builds a fresh index from the knowledge base, persists the
// artifacts, and swaps it in. Queries keep hitting the old index until the
// swap.
func (s *Server) Rebuild(ctx context.Context) error {
	idx, err := s.builder.BuildAndSave(ctx)
	if err != nil {
		return err
	}
	s.swapIndex(idx)
	return nil
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("index rebuild requested")
	if err := s.Rebuild(r.Context()); err != nil {
		s.logger.Error("rebuild failed", zap.Error(err))
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	idx, _ := s.current()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "rebuilt",
		"chunks": idx.Size(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idx, _ := s.current()
	resp := map[string]interface{}{
		"index_ready":      idx.Ready(),
		"index_size":       idx.Size(),
		"index_dimensions": idx.Dimensions(),
		"config": map[string]interface{}{
			"embedding_provider": s.cfg.Embedding.Provider,
			"embedding_model":    s.cfg.Embedding.Model,
			"chunk_size":         s.cfg.Retrieval.ChunkSize,
			"chunk_overlap":      s.cfg.Retrieval.ChunkOverlap,
			"top_k":              s.cfg.Retrieval.TopK,
		},
	}
	if s.storage != nil {
		docCount, err := s.storage.CountDocuments(ctx)
		if err != nil {
			s.logger.Error("status: count documents failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		chunkCount, err := s.storage.CountChunks(ctx)
		if err != nil {
			s.logger.Error("status: count chunks failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		bySource, err := s.storage.CountChunksBySource(ctx)
		if err != nil {
			s.logger.Error("status: count chunks by source failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["documents"] = docCount
		resp["chunks"] = chunkCount
		resp["chunks_by_source"] = bySource
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForError maps retrieval failures to HTTP status codes: unavailable
// backend and unbuilt index are 503 (retryable), everything else is 500.
func statusForError(err error) int {
	if errors.Is(err, index.ErrIndexNotReady) || errors.Is(err, embedding.ErrModelUnavailable) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, index.ErrEmptyCorpus) || errors.Is(err, index.ErrCorruptIndex) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
