package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"hgl-backend/internal/middleware"
	"hgl-backend/internal/services"
	"hgl-backend/pkg/utils"
)

// maxBodyBytes bounds form submissions.
const maxBodyBytes = 64 << 10

// writeServiceError maps service errors to HTTP statuses: validation 400,
// not found 404, storage 503.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.FieldError(w, http.StatusBadRequest, ve.Field, ve.Message)
	case errors.Is(err, services.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		utils.Error(w, http.StatusServiceUnavailable, "Could not reach local storage, please retry")
	case errors.Is(err, services.ErrBackupDisabled):
		utils.Error(w, http.StatusNotImplemented, err.Error())
	default:
		log.Printf("[HTTP] %s %s id=%s: %v", r.Method, r.URL.Path, middleware.RequestID(r.Context()), err)
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// parseJobNo accepts a bare job number or its display form (HGL00007).
func parseJobNo(raw, prefix string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if prefix != "" && len(raw) > len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix) {
		raw = raw[len(prefix):]
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
