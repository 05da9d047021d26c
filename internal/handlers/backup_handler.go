package handlers

import (
	"context"
	"net/http"
	"time"

	"hgl-backend/internal/services"
	"hgl-backend/pkg/utils"
)

type BackupHandler struct {
	Service *services.BackupService
}

func NewBackupHandler(s *services.BackupService) *BackupHandler {
	return &BackupHandler{Service: s}
}

// CreateBackup handles POST /api/backups
func (h *BackupHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	key, err := h.Service.Upload(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, map[string]string{"key": key})
}

// ListBackups handles GET /api/backups
func (h *BackupHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	objects, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{"backups": objects})
}

type restoreRequest struct {
	Key string `json:"key"`
}

// RestoreBackup handles POST /api/backups/restore
// An empty key restores the most recent snapshot.
func (h *BackupHandler) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	snap, err := h.Service.Restore(ctx, req.Key)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"restored":  true,
		"createdAt": snap.CreatedAt,
	})
}
