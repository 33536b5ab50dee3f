package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Gthulhu/smoothtask/domain"
	"github.com/Gthulhu/smoothtask/pkg/logger"
	"go.uber.org/fx"
)

const (
	serviceName = "SmoothTask Scheduling Daemon"
	apiVersion  = "1.0.0"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse wraps a payload in the common envelope
type SuccessResponse[T any] struct {
	Success   bool   `json:"success"`
	Timestamp string `json:"timestamp"`
	Data      *T     `json:"data,omitempty"`
}

func NewSuccessResponse[T any](data *T) SuccessResponse[T] {
	return SuccessResponse[T]{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	}
}

type Params struct {
	fx.In
	Svc domain.Service
}

func NewHandler(params Params) (*Handler, error) {
	return &Handler{
		Svc: params.Svc,
	}, nil
}

type Handler struct {
	Svc domain.Service
}

func (h *Handler) JSONResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		logger.Logger(ctx).Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}

func (h *Handler) ErrorResponse(ctx context.Context, w http.ResponseWriter, status int, errMsg string, err error) {
	if err != nil {
		logger.Logger(ctx).Debug().Err(err).Msg(errMsg)
	}
	resp := ErrorResponse{
		Success: false,
		Error:   errMsg,
	}
	h.JSONResponse(ctx, w, status, resp)
}

// HandleError maps service errors to HTTP statuses.
func (h *Handler) HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNoSnapshot):
		h.ErrorResponse(ctx, w, http.StatusServiceUnavailable, "No scheduling cycle has completed yet", err)
	default:
		logger.Logger(ctx).Error().Err(err).Msg("request failed")
		h.ErrorResponse(ctx, w, http.StatusInternalServerError, "Internal Server Error", err)
	}
}

func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message":   serviceName,
		"version":   apiVersion,
		"endpoints": "/api/v1/decisions (GET), /api/v1/adjustments (GET), /api/v1/classes (GET), /api/v1/hysteresis (GET), /metrics (GET), /health (GET)",
	}
	h.JSONResponse(r.Context(), w, http.StatusOK, response)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	}
	h.JSONResponse(r.Context(), w, http.StatusOK, response)
}
