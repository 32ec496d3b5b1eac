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

// Deleter defines the interface that the delete service must implement.
type Deleter interface {
	Delete(ctx context.Context, id int64) error
}

// DeleteResponse represents the delete acknowledgment
// swagger:model DeleteResponse
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewDeleteUserHandler returns an HTTP handler for the admin hard delete of
// a target user.
// @Summary Delete a user
// @Tags user
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} handlers.DeleteResponse "User deleted"
// @Failure 404 {object} handlers.DeleteResponse "Unknown id"
// @Router /delete/{id} [delete]
func NewDeleteUserHandler(svc Deleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(DeleteResponse{
				Message: "No user found with the provided ID",
			})
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(DeleteResponse{
					Message: "No user found with the provided ID",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(DeleteResponse{
					Message: "Error in deleting user",
					Error:   err.Error(),
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DeleteResponse{
			Success: true,
			Message: "User deleted successfully",
		})
	}
}
