package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ecom-backend/user-service/internal/middlewares"
)

// NewMeHandler returns an HTTP handler for the current authenticated user.
// The record was loaded by the auth middleware; the handler only serializes
// it.
// @Summary Get current user
// @Description Returns the record of the user the bearer token belongs to.
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserDB "Current user record"
// @Failure 401 {object} handlers.LoginErrorResponse "Not logged in"
// @Router /me [get]
func NewMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		user := middlewares.UserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "You are not logged in",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(user)
	}
}
