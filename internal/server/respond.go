package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type successEnvelope struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

type errorEnvelope struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// apiError is an error with a client-safe message and an HTTP status
type apiError struct {
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *apiError) Error() string { return e.Message }

func (e *apiError) Unwrap() error { return e.Cause }

func notFound(resource string) *apiError {
	return &apiError{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: resource + " not found"}
}

func catalogLoading() *apiError {
	return &apiError{Status: http.StatusServiceUnavailable, Code: "CATALOG_LOADING", Message: "catalog is still loading"}
}

func catalogUnavailable(cause error) *apiError {
	return &apiError{Status: http.StatusServiceUnavailable, Code: "CATALOG_UNAVAILABLE", Message: "failed to load catalog", Cause: cause}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func ok(w http.ResponseWriter, data any, meta any) {
	writeJSON(w, http.StatusOK, successEnvelope{Data: data, Meta: meta})
}

// fail writes err as a JSON error; anything that is not an apiError becomes a 500
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		apiErr = &apiError{Status: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal server error", Cause: err}
	}

	if apiErr.Status >= 500 {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", apiErr.Code),
			zap.Error(apiErr.Cause),
		)
	}

	writeJSON(w, apiErr.Status, errorEnvelope{Error: apiErr.Message, Code: apiErr.Code})
}
