package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/models"
	"github.com/ecom-backend/user-service/internal/services"
)

// Getter defines the interface that the single-user service must implement.
type Getter interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
}

// GetUserResponse represents a single-user response
// swagger:model GetUserResponse
type GetUserResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    *models.UserDB `json:"data,omitempty"`
}

// GetUserErrorResponse represents an error response for single-user fetch
// swagger:model GetUserErrorResponse
type GetUserErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewGetUserHandler returns an HTTP handler fetching one user by id.
// @Summary Get a user by id
// @Tags user
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} handlers.GetUserResponse "User record"
// @Failure 404 {object} handlers.GetUserErrorResponse "Unknown id"
// @Failure 500 {object} handlers.GetUserErrorResponse "Internal error"
// @Router /{id} [get]
func NewGetUserHandler(svc Getter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(GetUserErrorResponse{
				Message: "No user found",
			})
			return
		}

		user, err := svc.GetByID(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(GetUserErrorResponse{
					Message: "No user found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(GetUserErrorResponse{
					Message: "Error in getting user",
					Error:   err.Error(),
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(GetUserResponse{
			Success: true,
			Message: "Get Single User by ID",
			Data:    user,
		})
	}
}
