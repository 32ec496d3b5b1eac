package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/services"
)

// ResetRequester starts a password-reset flow.
type ResetRequester interface {
	Request(ctx context.Context, email string) error
}

// ResetConfirmer exchanges a reset token for a new password.
type ResetConfirmer interface {
	Confirm(ctx context.Context, token, newPassword string) error
}

// ResetRequest represents the JSON body starting a password reset
// swagger:model ResetRequest
type ResetRequest struct {
	// Account email
	// required: true
	Email string `json:"email"`
}

// ResetConfirmRequest represents the JSON body completing a password reset
// swagger:model ResetConfirmRequest
type ResetConfirmRequest struct {
	// Token from the reset email
	// required: true
	Token string `json:"token"`

	// New password
	// required: true
	NewPassword string `json:"new_password"`
}

// ResetResponse represents a password-reset acknowledgment
// swagger:model ResetResponse
type ResetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewResetRequestHandler returns an HTTP handler starting a password reset.
// The response is the same whether or not the email belongs to an account.
// @Summary Request a password reset
// @Tags user
// @Accept json
// @Produce json
// @Param resetRequest body handlers.ResetRequest true "Account email"
// @Success 200 {object} handlers.ResetResponse "Acknowledged"
// @Failure 400 {object} handlers.ResetResponse "Missing email"
// @Router /password-reset [post]
func NewResetRequestHandler(svc ResetRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req ResetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ResetResponse{
				Message: "Please provide email",
			})
			return
		}

		if err := svc.Request(r.Context(), req.Email); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ResetResponse{
				Message: "Error in requesting password reset",
				Error:   err.Error(),
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ResetResponse{
			Success: true,
			Message: "If the email exists, a reset link has been sent",
		})
	}
}

// NewResetConfirmHandler returns an HTTP handler completing a password
// reset. Tokens are one-shot and expire on their own.
// @Summary Confirm a password reset
// @Tags user
// @Accept json
// @Produce json
// @Param resetConfirmRequest body handlers.ResetConfirmRequest true "Token and new password"
// @Success 200 {object} handlers.ResetResponse "Password reset"
// @Failure 400 {object} handlers.ResetResponse "Missing fields"
// @Failure 403 {object} handlers.ResetResponse "Invalid or expired token"
// @Router /password-reset/confirm [post]
func NewResetConfirmHandler(svc ResetConfirmer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req ResetConfirmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" || req.NewPassword == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ResetResponse{
				Message: "Please provide token & new_password",
			})
			return
		}

		if err := svc.Confirm(r.Context(), req.Token, req.NewPassword); err != nil {
			switch {
			case errors.Is(err, services.ErrResetTokenInvalid):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(ResetResponse{
					Message: "Reset token is invalid or expired",
				})
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ResetResponse{
					Message: "No user found with the provided ID",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ResetResponse{
					Message: "Error in resetting password",
					Error:   err.Error(),
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ResetResponse{
			Success: true,
			Message: "Password has been reset successfully",
		})
	}
}
