// ABOUTME: Handlers for the article API routes
// ABOUTME: Maps service and view errors onto HTTP status codes with {"error": msg} bodies

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/harper/newsdesk/internal/articles"
	"github.com/harper/newsdesk/internal/models"
	"github.com/harper/newsdesk/internal/view"
)

type successResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type editRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"store":  s.svc.StoreName(),
		"source": s.svc.SourceName(),
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Load(r.Context(), r.URL.Query().Get("topic"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	saved, err := s.svc.SaveJSON(r.Context(), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Count: len(saved)})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	restored, err := s.svc.Restore(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Count: len(restored)})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Clear(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	key, err := view.ParseSortKey(q.Get("sort"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pageSize, err := intParam(q.Get("page_size"), s.viewPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.collection(r.Context(), q.Get("topic"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	m := view.New(list, view.WithPageSize(pageSize))
	m.SetFilter(q.Get("q"))
	if err := m.SetSort(key); err != nil {
		s.writeError(w, r, err)
		return
	}
	m.SetPage(page)
	writeJSON(w, http.StatusOK, m.View())
}

// collection returns the session collection, or a fresh load when a topic is named.
func (s *Server) collection(ctx context.Context, topic string) ([]models.Article, error) {
	if topic != "" {
		return s.svc.Load(ctx, topic)
	}
	return s.svc.Session(ctx)
}

// handleEdit applies one field edit to the current collection and saves it.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: index must be an integer", view.ErrIndexOutOfRange))
		return
	}

	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req editRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", articles.ErrInvalidPayload, err))
		return
	}
	field, err := models.ParseField(req.Field)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", view.ErrUnknownField, err))
		return
	}

	list, err := s.svc.Session(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m := view.New(list)
	if err := m.EditField(index, field, req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Save(r.Context(), m.Articles()); err != nil {
		s.writeError(w, r, err)
		return
	}

	edited, _ := m.Article(index)
	writeJSON(w, http.StatusOK, view.Row{Index: index, Article: edited})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("%w: read body: %v", articles.ErrInvalidPayload, err)
	}
	return body, nil
}

var errBodyTooLarge = errors.New("request body too large")

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", errBadParam, raw)
	}
	return n, nil
}

var errBadParam = errors.New("bad query parameter")

// StatusFor maps an error to the HTTP status the API reports for it.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, articles.ErrInvalidPayload),
		errors.Is(err, errBadParam),
		errors.Is(err, view.ErrIndexOutOfRange),
		errors.Is(err, view.ErrUnknownField),
		errors.Is(err, view.ErrUnknownSortKey):
		return http.StatusBadRequest
	case errors.Is(err, articles.ErrNoSnapshotAvailable):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
