package handlers

import (
	"net/http"

	"hgl-backend/internal/models"
	"hgl-backend/internal/services"
	"hgl-backend/pkg/utils"
)

type RecordHandler struct {
	Service *services.RecordService
}

func NewRecordHandler(s *services.RecordService) *RecordHandler {
	return &RecordHandler{Service: s}
}

// Dashboard handles GET /api/records/dashboard
func (h *RecordHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d := h.Service.Dashboard(r.Context())
	utils.MarkDegraded(w, d.Degraded)
	utils.JSON(w, http.StatusOK, d)
}

// ClearAll handles DELETE /api/records. The caller must pass confirm=yes,
// mirroring the confirmation prompt of the reset command.
func (h *RecordHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "yes" {
		utils.FieldError(w, http.StatusBadRequest, "confirm", "pass confirm=yes to delete every record")
		return
	}

	if err := h.Service.ClearAll(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Catalog handles GET /api/catalog
func (h *RecordHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, models.NewCatalog())
}
