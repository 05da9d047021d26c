package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// DegradedHeader is set on responses built from an unreadable collection.
const DegradedHeader = "X-Store-Degraded"

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] failed to encode response: %v", err)
	}
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, ErrorBody{Error: msg})
}

func FieldError(w http.ResponseWriter, status int, field, msg string) {
	JSON(w, status, ErrorBody{Error: msg, Field: field})
}

// MarkDegraded flags the response when degraded is true.
func MarkDegraded(w http.ResponseWriter, degraded bool) {
	if degraded {
		w.Header().Set(DegradedHeader, "1")
	}
}

// File writes a download with an attachment disposition.
func File(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
