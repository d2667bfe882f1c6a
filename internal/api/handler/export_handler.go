package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/export"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/logger"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/service"
)

type ExportHandler struct {
	dashboard *service.DashboardService
	logger    *logger.Logger
}

func NewExportHandler(dashboard *service.DashboardService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		dashboard: dashboard,
		logger:    log.Component("handler/export"),
	}
}

func (h *ExportHandler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/csv", h.ExportCSV)
	r.Get("/json", h.ExportJSON)

	return r
}

// ExportCSV downloads the filtered collection as CSV. The same filter
// query parameters as the list endpoint apply, so what you see is what
// you export.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	view, err := h.filteredView(r)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="exclusion-requests.csv"`)
	if err := export.WriteCSV(w, view.Requests); err != nil {
		h.logger.Error("failed to write csv export", "error", err)
	}
}

// ExportJSON downloads the filtered collection as a JSON document;
// include_stats=true attaches the aggregated statistics.
func (h *ExportHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	view, err := h.filteredView(r)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	var stats *domain.Stats
	if r.URL.Query().Get("include_stats") == "true" {
		computed := service.ComputeStats(view.Requests, time.Now())
		stats = &computed
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="exclusion-requests.json"`)
	if err := export.WriteJSON(w, view.Requests, stats, time.Now()); err != nil {
		h.logger.Error("failed to write json export", "error", err)
	}
}

func (h *ExportHandler) filteredView(r *http.Request) (*service.FilteredView, error) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return h.dashboard.Requests(r.Context(), criteria)
}
