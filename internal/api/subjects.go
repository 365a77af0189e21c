package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Optimiser/internal/broker"
	"github.com/MikeSquared-Agency/Optimiser/internal/scoring"
	"github.com/MikeSquared-Agency/Optimiser/internal/store"
)

type SubjectsHandler struct {
	broker *broker.Broker
	store  store.Store
	logger *slog.Logger
}

func NewSubjectsHandler(b *broker.Broker, s store.Store, logger *slog.Logger) *SubjectsHandler {
	return &SubjectsHandler{broker: b, store: s, logger: logger}
}

type AnalyzeRequest struct {
	Contexts   []string `json:"contexts,omitempty"`
	Operations []string `json:"operations,omitempty"`
	Force      bool     `json:"force,omitempty"`
}

func (h *SubjectsHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok {
		return
	}
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	res, err := h.broker.Analyze(r.Context(), broker.Request{
		SubjectID:  id,
		Contexts:   req.Contexts,
		Operations: req.Operations,
		Force:      req.Force,
	})
	if err != nil {
		h.writeAnalyzeError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *SubjectsHandler) writeAnalyzeError(w http.ResponseWriter, id int64, err error) {
	switch {
	case errors.Is(err, scoring.ErrInvalidSubject),
		errors.Is(err, scoring.ErrUnknownContext),
		errors.Is(err, scoring.ErrUnknownOperation):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, scoring.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "subject not found"})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "analysis timed out"})
	default:
		h.logger.Error("analysis failed", "subject_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "analysis failed"})
	}
}

func (h *SubjectsHandler) Score(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok || !h.requireStore(w) {
		return
	}
	snap, err := h.store.LatestScore(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if snap == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no stored analysis"})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *SubjectsHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	id, ok := subjectID(w, r)
	if !ok || !h.requireStore(w) {
		return
	}
	rec, err := h.store.GetAnalysis(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no stored analysis"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// List returns stored analyses, lowest score first.
func (h *SubjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	q := r.URL.Query()
	filter := store.AnalysisFilter{}
	if v := q.Get("max_score"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max_score must be between 0 and 1"})
			return
		}
		filter.MaxScore = &f
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
			return
		}
		*dst = n
	}

	recs, err := h.store.ListAnalyses(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []*store.AnalysisRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *SubjectsHandler) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no store configured"})
		return false
	}
	return true
}

func subjectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid subject id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
