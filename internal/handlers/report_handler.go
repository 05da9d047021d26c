package handlers

import (
	"context"
	"net/http"
	"time"

	"hgl-backend/internal/services"
	"hgl-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// GetCSV handles GET /api/reports/{kind}/csv?q=
func (h *ReportHandler) GetCSV(w http.ResponseWriter, r *http.Request) {
	kind, err := services.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	doc, err := h.Service.CSV(ctx, kind, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.serve(w, doc)
}

// GetPDF handles GET /api/reports/{kind}/pdf?q=
func (h *ReportHandler) GetPDF(w http.ResponseWriter, r *http.Request) {
	kind, err := services.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	doc, err := h.Service.PDF(ctx, kind, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.serve(w, doc)
}

// GetBundle handles GET /api/reports/bundle?q=
// Returns a ZIP file containing both CSV sheets and both PDF reports
func (h *ReportHandler) GetBundle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	doc, err := h.Service.Bundle(ctx, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.serve(w, doc)
}

func (h *ReportHandler) serve(w http.ResponseWriter, doc *services.Document) {
	utils.MarkDegraded(w, doc.Degraded)
	utils.File(w, doc.Filename, doc.ContentType, doc.Data)
}
