// Package handlers implements the HTTP surface: recipe catalog pages, toggle
// relations, the shopping-list download, and auth.
package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/foodgram/v2/pkg/errors"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// writeJSON serializes a payload with the given status
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps an error to its structured JSON response
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr := apperrors.Wrap(err, "request failed")
	if appErr.StatusCode() >= http.StatusInternalServerError {
		logger.Error("Request error",
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(appErr),
		)
	}
	writeJSON(w, appErr.StatusCode(), apperrors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context())))
}

// successResponse is the toggle relation response body
type successResponse struct {
	Success bool `json:"success"`
}
