package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"locket-backend/internal/apperr"

	"github.com/rs/zerolog/log"
)

// Response is the envelope every endpoint returns
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, statusCode int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// respondSuccess sends a 200 envelope
func respondSuccess(w http.ResponseWriter, message string, data interface{}) {
	respondJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// respondError maps a domain error to its HTTP status. Unclassified errors
// are logged and surfaced as a generic failure.
func respondError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	respondJSON(w, status, Response{Success: false, Message: apperr.ClientMessage(err)})
}

// respondBadRequest reports a malformed request body or parameter
func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, Response{Success: false, Message: message})
}

// pageParams reads page/limit query parameters with the given defaults
func pageParams(r *http.Request) (int, int) {
	page, limit := 1, 20
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return page, limit
}
