package handlers

import (
	"net/http"

	"hgl-backend/internal/models"
	"hgl-backend/internal/services"
	"hgl-backend/pkg/utils"
)

type IntakeHandler struct {
	Service *services.IntakeService
	Records *services.RecordService
}

func NewIntakeHandler(s *services.IntakeService, records *services.RecordService) *IntakeHandler {
	return &IntakeHandler{Service: s, Records: records}
}

// CreateIntake handles POST /api/intake
func (h *IntakeHandler) CreateIntake(w http.ResponseWriter, r *http.Request) {
	var req models.CreateIntakeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rec, err := h.Service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusCreated, models.NewIntakeView(*rec))
}

// ListIntake handles GET /api/intake?q=
func (h *IntakeHandler) ListIntake(w http.ResponseWriter, r *http.Request) {
	page := h.Records.BrowseIntake(r.Context(), r.URL.Query().Get("q"))
	utils.MarkDegraded(w, page.Degraded)
	utils.JSON(w, http.StatusOK, page)
}
