package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/answer"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/session"
	"github.com/hyperjump/kotae/internal/storage"
)

type askRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("ask request", zap.String("session_id", req.SessionID))
	result, err := s.answers.Ask(r.Context(), req.SessionID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, answer.ErrEmptyQuestion):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, session.ErrInvalidSessionID):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case result != nil:
			// The failed entry is recorded and returned so the client can
			// show the attempt alongside the failure.
			s.logger.Error("ask failed", zap.Error(err))
			s.respondJSON(w, http.StatusBadGateway, result)
		default:
			s.logger.Error("ask failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSessionHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	entries, err := s.answers.History(id)
	if err != nil {
		if errors.Is(err, session.ErrInvalidSessionID) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("history failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"entries":    entries,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("refresh request")
	n, err := s.pipeline.Refresh(r.Context())
	if err != nil {
		s.logger.Error("refresh failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "refreshed",
		"files_ingested": n,
	})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 100)
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	files, err := s.manifest.ListSourceFiles(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list files failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.manifest.CountSourceFiles(r.Context())
	if err != nil {
		s.logger.Error("count files failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if files == nil {
		files = []*models.SourceFile{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"files":  files,
		"total":  total,
		"offset": offset,
		"limit":  limit,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fileCount, err := s.manifest.CountSourceFiles(ctx)
	if err != nil {
		s.logger.Error("status: count files failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	chunkCount, err := s.manifest.CountChunks(ctx)
	if err != nil {
		s.logger.Error("status: count chunks failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"files":             fileCount,
		"chunks":            chunkCount,
		"vector_index_size": s.index.Size(),
	}
	configInfo := map[string]interface{}{
		"embed_model":    s.index.ModelName(),
		"generate_model": s.config.Ollama.GenerateModel,
		"dimensions":     s.index.Dimensions(),
		"chunk_size":     s.config.Chunking.Size,
		"chunk_overlap":  s.config.Chunking.Overlap,
		"corpus_dir":     s.config.Corpus.Directory,
		"database_path":  s.config.Storage.DatabasePath,
		"index_path":     s.config.Storage.IndexPath,
	}
	diskBytes, err := storage.DiskUsageBytes(
		s.config.Storage.DatabasePath,
		s.config.Storage.IndexPath,
		s.config.Storage.SessionsDir,
	)
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	resp["config"] = configInfo
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
