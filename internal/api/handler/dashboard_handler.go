package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/logger"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
	logger    *logger.Logger
}

func NewDashboardHandler(dashboard *service.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    log.Component("handler/dashboard"),
	}
}

func (h *DashboardHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/requests", h.ListRequests)
	r.Get("/requests/recent", h.RecentRequests)
	r.Get("/stats", h.Stats)
	r.Get("/teams", h.Teams)
	r.Get("/calendar", h.Calendar)
	r.Post("/reload", h.Reload)

	return r
}

func (h *DashboardHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	view, err := h.dashboard.Requests(r.Context(), criteria)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, view, h.logger)
}

func (h *DashboardHandler) RecentRequests(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	recent, err := h.dashboard.Recent(r.Context(), criteria, limit)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"requests": recent}, h.logger)
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	stats, err := h.dashboard.Stats(r.Context(), criteria)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats, h.logger)
}

func (h *DashboardHandler) Teams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.dashboard.Teams(r.Context())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}
	if teams == nil {
		teams = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"teams": teams}, h.logger)
}

func (h *DashboardHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	// month defaults to the current one
	now := time.Now()
	year, month := now.Year(), now.Month()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			h.logger.Warn("invalid month parameter", "month", raw)
			http.Error(w, "month must look like 2006-01", http.StatusBadRequest)
			return
		}
		year, month = parsed.Year(), parsed.Month()
	}

	days, err := h.dashboard.Calendar(r.Context(), criteria, year, month)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"days": days}, h.logger)
}

func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	view, err := h.dashboard.Reload(r.Context())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	h.logger.Info("collection reloaded", "records", view.Total)
	writeJSON(w, http.StatusOK, view, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}
