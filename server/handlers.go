package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"railstatus/engine"
	"railstatus/models"
)

type handlers struct {
	resolver Resolver
	prober   StatusProber
}

type rootResponse struct {
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
	Timestamp string            `json:"timestamp"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Upstream  string `json:"upstream"`
	Timestamp string `json:"timestamp"`
}

type sourcesResponse struct {
	Sources   map[string]bool `json:"sources"`
	CheckedAt string          `json:"checked_at"`
}

type notFoundResponse struct {
	Error        string   `json:"error"`
	TrainNo      string   `json:"train_no"`
	Message      string   `json:"message"`
	DatesTried   []string `json:"dates_tried"`
	SourcesTried []string `json:"sources_tried"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", slog.Any("error", err))
	}
}

func (h *handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message: "Train running status API",
		Status:  "online",
		Endpoints: map[string]string{
			"status":  "/status/{trainNo}",
			"health":  "/health",
			"sources": "/sources/status",
			"metrics": "/metrics",
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	trainNo := chi.URLParam(r, "trainNo")
	slog.Info("status request",
		slog.String("train_no", trainNo),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	record, err := h.resolver.Resolve(r.Context(), trainNo)
	if err == nil {
		writeJSON(w, http.StatusOK, record)
		return
	}

	var nf *models.NotFoundError
	switch {
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, notFoundResponse{
			Error:        "Train data not found",
			TrainNo:      nf.TrainNo,
			Message:      "No source returned data for the dates tried",
			DatesTried:   nf.DatesTried,
			SourcesTried: nf.SourcesTried,
		})
	case errors.Is(err, engine.ErrEmptyTrainNo):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Train number is required"})
	default:
		slog.Error("status lookup failed",
			slog.String("train_no", trainNo),
			slog.Any("error", err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Status lookup failed"})
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Upstream:  h.prober.Primary(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handlers) sources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sourcesResponse{
		Sources:   h.prober.All(r.Context()),
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
