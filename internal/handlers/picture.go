package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/middlewares"
	"github.com/ecom-backend/user-service/internal/uploads"
)

// PictureUpdater defines the interface that the picture-update service must
// implement.
type PictureUpdater interface {
	UpdatePicture(ctx context.Context, id int64, pictureURL string) error
}

// Uploader validates and stores a multipart upload and derives its public
// URL.
type Uploader interface {
	SaveFromRequest(r *http.Request, field string) (string, error)
	URL(storedName string) string
}

// PictureResponse represents the picture-update response
// swagger:model PictureResponse
type PictureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewChangePictureHandler returns an HTTP handler replacing the profile
// picture of the authenticated user. Only png/jpg/jpeg/pdf up to 5MB are
// accepted; rejected uploads never reach the update.
// @Summary Change profile picture
// @Tags user
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Picture file (png/jpg/jpeg/pdf, max 5MB)"
// @Success 200 {object} handlers.PictureResponse "Picture updated, derived URL returned"
// @Failure 400 {object} handlers.PictureResponse "Missing, oversized or unsupported file"
// @Router /change-profile-picture [put]
func NewChangePictureHandler(svc PictureUpdater, uploader Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(PictureResponse{
				Message: "You are not logged in",
			})
			return
		}

		storedName, err := uploader.SaveFromRequest(r, "image")
		if err != nil {
			switch {
			case errors.Is(err, uploads.ErrMissingFile),
				errors.Is(err, uploads.ErrFileTooLarge),
				errors.Is(err, uploads.ErrUnsupportedType):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(PictureResponse{
					Message: "Error in uploading file",
					Error:   err.Error(),
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(PictureResponse{
					Message: "Error in updating profile picture",
					Error:   err.Error(),
				})
			}
			return
		}

		pictureURL := uploader.URL(storedName)

		if err := svc.UpdatePicture(r.Context(), user.ID, pictureURL); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(PictureResponse{
				Message: "Error in updating profile picture",
				Error:   err.Error(),
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(PictureResponse{
			Success: true,
			Message: "Profile picture updated successfully",
			URL:     pictureURL,
		})
	}
}
