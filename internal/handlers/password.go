package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/middlewares"
	"github.com/ecom-backend/user-service/internal/services"
)

// PasswordChanger defines the interface that the password-change service
// must implement.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error
}

// ChangePasswordRequest represents the JSON body for a password change
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	// Current password
	// required: true
	OldPassword string `json:"old_password"`

	// New password
	// required: true
	NewPassword string `json:"new_password"`
}

// ChangePasswordResponse represents the password-change acknowledgment
// swagger:model ChangePasswordResponse
type ChangePasswordResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewChangePasswordHandler returns an HTTP handler for changing the
// authenticated user's password. The stored hash is re-fetched at
// verification time.
// @Summary Change password
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param changePasswordRequest body handlers.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} handlers.ChangePasswordResponse "Password updated"
// @Failure 400 {object} handlers.ChangePasswordResponse "Missing fields"
// @Failure 403 {object} handlers.ChangePasswordResponse "Old password incorrect"
// @Router /password-change [put]
func NewChangePasswordHandler(svc PasswordChanger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ChangePasswordResponse{
				Message: "You are not logged in",
			})
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ChangePasswordResponse{
				Message: "Please provide old_password & new_password",
			})
			return
		}

		if err := svc.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
			switch {
			case errors.Is(err, services.ErrPasswordMismatch):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(ChangePasswordResponse{
					Message: "Old password is incorrect",
				})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ChangePasswordResponse{
					Message: "No user found with the provided ID",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ChangePasswordResponse{
					Message: "Error in updating password",
					Error:   err.Error(),
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ChangePasswordResponse{
			Success: true,
			Message: "Password updated successfully",
		})
	}
}
