package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/services"
)

// StatusUpdater defines the interface that the status-update service must
// implement.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// StatusRequest represents the JSON body for a status update
// swagger:model StatusRequest
type StatusRequest struct {
	// New status, e.g. Active, Suspended, Banned
	// required: true
	// default: Active
	Status string `json:"status"`
}

// StatusResponse represents the status-update acknowledgment
// swagger:model StatusResponse
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewUpdateStatusHandler returns an HTTP handler for the admin status
// update of a target user.
// @Summary Update user status
// @Tags user
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Param statusRequest body handlers.StatusRequest true "New status"
// @Success 200 {object} handlers.StatusResponse "Status updated"
// @Failure 400 {object} handlers.StatusResponse "Missing status"
// @Failure 404 {object} handlers.StatusResponse "Unknown id"
// @Router /status/{id} [put]
func NewUpdateStatusHandler(svc StatusUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(StatusResponse{
				Message: "No user found with the provided ID",
			})
			return
		}

		var req StatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(StatusResponse{
				Message: "Please provide status",
			})
			return
		}

		if err := svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(StatusResponse{
					Message: "No user found with the provided ID",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(StatusResponse{
					Message: "Error in updating user status",
					Error:   err.Error(),
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(StatusResponse{
			Success: true,
			Message: "User status updated successfully",
		})
	}
}
