package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/middlewares"
	"github.com/ecom-backend/user-service/internal/models"
	"github.com/ecom-backend/user-service/internal/services"
)

// ProfileUpdater defines the interface that the profile-update service must
// implement.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, current *models.UserDB, firstName, lastName, phoneNumber, dateOfBirth, gender string) error
}

// UpdateProfileRequest represents the JSON body for a profile update. Any
// subset of the fields may be supplied; omitted fields keep their stored
// values.
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
}

// UpdateProfileResponse represents the profile-update acknowledgment
// swagger:model UpdateProfileResponse
type UpdateProfileResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewUpdateProfileHandler returns an HTTP handler for partial profile
// updates of the authenticated user.
// @Summary Update own profile
// @Description Partial update; omitted fields keep their previous values.
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param updateRequest body handlers.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} handlers.UpdateProfileResponse "Profile updated"
// @Failure 500 {object} handlers.UpdateProfileResponse "Update failed"
// @Router /update [put]
func NewUpdateProfileHandler(svc ProfileUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(UpdateProfileResponse{
				Message: "You are not logged in",
			})
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(UpdateProfileResponse{
				Message: "Error in updating user",
				Error:   err.Error(),
			})
			return
		}

		err := svc.UpdateProfile(r.Context(), user, req.FirstName, req.LastName, req.PhoneNumber, req.DateOfBirth, req.Gender)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrNothingUpdated):
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(UpdateProfileResponse{
					Message: "Error in updating user",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(UpdateProfileResponse{
					Message: "Error in updating user",
					Error:   err.Error(),
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(UpdateProfileResponse{
			Success: true,
			Message: "User updated successfully",
		})
	}
}
