package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/notewell/techou/internal/format"
	"github.com/notewell/techou/internal/models"
	"github.com/notewell/techou/internal/storage"
)

// searchRequest is the body of POST /api/v1/search: a query plus the
// notebook it runs against (by ID, or by name when ID is empty).
type searchRequest struct {
	NotebookID   string `json:"notebook_id,omitempty"`
	NotebookName string `json:"notebook,omitempty"`
	// RankByOccurrences shadows the embedded query field with a pointer so
	// an absent key falls back to the server's rank_keyword_results config.
	RankByOccurrences *bool `json:"rank_by_occurrences,omitempty"`
	models.SearchQuery
}

type searchResponse struct {
	Matches   []format.MatchView `json:"matches"`
	Total     int                `json:"total"`
	QueryTime int64              `json:"query_time_ms"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request",
		zap.String("mode", string(req.Mode)),
		zap.String("text", req.Text),
		zap.String("notebook", req.NotebookID+req.NotebookName),
	)

	req.SearchQuery.RankByOccurrences = s.config != nil && s.config.Search.RankKeywordResults
	if req.RankByOccurrences != nil {
		req.SearchQuery.RankByOccurrences = *req.RankByOccurrences
	}

	nb, err := s.resolveNotebook(r, req.NotebookID, req.NotebookName)
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	pages, err := s.storage.ListPages(r.Context(), nb.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	start := time.Now()
	matches, err := s.engine.Search(r.Context(), &req.SearchQuery, pages)
	if err != nil {
		// An invalid query is the caller's error and is never folded into
		// an empty result.
		switch {
		case errors.Is(err, models.ErrEmptyQuery), errors.Is(err, models.ErrInvalidPattern):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrPatternTimeout):
			s.respondError(w, http.StatusRequestTimeout, err.Error())
		default:
			s.logger.Error("search failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.respondJSON(w, http.StatusOK, searchResponse{
		Matches:   s.formatter.FormatMatches(matches),
		Total:     len(matches),
		QueryTime: time.Since(start).Milliseconds(),
	})
}

type notebookInput struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateNotebook(w http.ResponseWriter, r *http.Request) {
	var input notebookInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	nb := &models.Notebook{ID: uuid.NewString(), Name: input.Name}
	if err := s.storage.CreateNotebook(r.Context(), nb); err != nil {
		s.respondStorageError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, nb)
}

func (s *Server) handleListNotebooks(w http.ResponseWriter, r *http.Request) {
	notebooks, err := s.storage.ListNotebooks(r.Context())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if notebooks == nil {
		notebooks = []*models.Notebook{}
	}
	s.respondJSON(w, http.StatusOK, notebooks)
}

func (s *Server) handleGetNotebook(w http.ResponseWriter, r *http.Request) {
	nb, err := s.storage.GetNotebook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, nb)
}

func (s *Server) handleRenameNotebook(w http.ResponseWriter, r *http.Request) {
	var input notebookInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := s.storage.RenameNotebook(r.Context(), chi.URLParam(r, "id"), input.Name); err != nil {
		s.respondStorageError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

func (s *Server) handleDeleteNotebook(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.DeleteNotebook(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondStorageError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleNotebookStats(w http.ResponseWriter, r *http.Request) {
	nb, err := s.storage.GetNotebook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	pages, err := s.storage.ListPages(r.Context(), nb.ID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	result := s.counter.CountPages(pages, s.weights)
	top := s.counter.TopWords(result, s.topN(r))
	s.respondJSON(w, http.StatusOK, s.formatter.FormatCount("notebook: "+nb.Name, result, top))
}

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	var input models.PageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Name == "" {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	nb, err := s.storage.GetNotebook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	page := &models.Page{
		ID:         uuid.NewString(),
		NotebookID: nb.ID,
		Name:       input.Name,
		Text:       input.Text,
	}
	if err := s.storage.CreatePage(r.Context(), page); err != nil {
		s.respondStorageError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, page)
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.storage.ListPages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pages == nil {
		pages = []*models.Page{}
	}
	s.respondJSON(w, http.StatusOK, pages)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.storage.GetPage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, page)
}

// pageUpdate uses pointers so a request can rename, edit the body, or both;
// omitted fields are left alone.
type pageUpdate struct {
	Name *string `json:"name,omitempty"`
	Text *string `json:"text,omitempty"`
}

func (s *Server) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	var input pageUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Name == nil && input.Text == nil {
		s.respondError(w, http.StatusBadRequest, "name or text is required")
		return
	}
	id := chi.URLParam(r, "id")
	if input.Name != nil {
		if err := s.storage.RenamePage(r.Context(), id, *input.Name); err != nil {
			s.respondStorageError(w, err)
			return
		}
	}
	if input.Text != nil {
		if err := s.storage.UpdatePageText(r.Context(), id, *input.Text); err != nil {
			s.respondStorageError(w, err)
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.DeletePage(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondStorageError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handlePageStats(w http.ResponseWriter, r *http.Request) {
	page, err := s.storage.GetPage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStorageError(w, err)
		return
	}
	result := s.counter.CountPage(page, s.weights)
	top := s.counter.TopWords(result, s.topN(r))
	s.respondJSON(w, http.StatusOK, s.formatter.FormatCount("page: "+page.Name, result, top))
}

func (s *Server) handleGetWeights(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.weights.Snapshot())
}

type weightInput struct {
	Weight float64 `json:"weight"`
}

func (s *Server) handleSetWeight(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	var input weightInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.weights.Set(word, input.Weight); err != nil {
		if errors.Is(err, models.ErrInvalidWeight) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.storage.SetWeight(r.Context(), word, input.Weight); err != nil {
		s.logger.Error("failed to persist weight", zap.String("word", word), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"word": word, "weight": input.Weight})
}

func (s *Server) handleDeleteWeight(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	s.weights.Delete(word)
	if err := s.storage.DeleteWeight(r.Context(), word); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	notebooks, err := s.storage.CountNotebooks(ctx)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	pages, err := s.storage.CountPages(ctx)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"notebooks": notebooks,
		"pages":     pages,
		"weights":   s.weights.Len(),
	}
	if s.config != nil {
		if diskBytes, err := storage.DiskUsageBytes(s.config.Storage.DatabasePath); err == nil {
			resp["disk_usage_bytes"] = diskBytes
		}
		resp["config"] = map[string]interface{}{
			"database_path":    s.config.Storage.DatabasePath,
			"context_size":     s.config.Search.ContextSize,
			"regex_timeout_ms": s.config.Search.RegexTimeoutMs,
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// resolveNotebook finds the target notebook by ID, then by name.
func (s *Server) resolveNotebook(r *http.Request, id, name string) (*models.Notebook, error) {
	if id != "" {
		return s.storage.GetNotebook(r.Context(), id)
	}
	if name != "" {
		return s.storage.GetNotebookByName(r.Context(), name)
	}
	return nil, errors.New("notebook_id or notebook is required")
}

func (s *Server) topN(r *http.Request) int {
	if v := r.URL.Query().Get("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	if s.config != nil && s.config.Count.DefaultTopWords > 0 {
		return s.config.Count.DefaultTopWords
	}
	return 10
}

func (s *Server) respondStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrDuplicateName):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		s.respondError(w, http.StatusBadRequest, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
