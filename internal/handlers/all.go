package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ecom-backend/user-service/internal/logger"
	"github.com/ecom-backend/user-service/internal/models"
)

// Default pagination values when the query parameters are absent or not
// numeric.
const (
	defaultPage  = 1
	defaultLimit = 20
)

// Lister defines the interface that the listing service must implement.
type Lister interface {
	List(ctx context.Context, page, limit int, status string) ([]models.UserDB, int64, error)
}

// Pagination describes the returned page.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	Limit       int   `json:"limit"`
}

// ListResponse represents the user listing response
// swagger:model ListResponse
type ListResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	TotalUsers int64           `json:"totalUsers,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
	Data       []models.UserDB `json:"data"`
}

// ListErrorResponse represents an error response for the listing
// swagger:model ListErrorResponse
type ListErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NewAllUsersHandler returns an HTTP handler listing users with pagination
// and an optional status substring filter.
// @Summary List users
// @Description Admin listing. page defaults to 1 and limit to 20; status filters by substring match.
// @Tags user
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Param status query string false "Status substring filter"
// @Success 200 {object} handlers.ListResponse "Page of users with total count"
// @Failure 500 {object} handlers.ListErrorResponse "Internal error"
// @Router /all [get]
func NewAllUsersHandler(svc Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		page := intQueryParam(r, "page", defaultPage)
		limit := intQueryParam(r, "limit", defaultLimit)
		status := r.URL.Query().Get("status")

		users, total, err := svc.List(r.Context(), page, limit, status)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ListErrorResponse{
				Message: "Error in Get All Users",
				Error:   err.Error(),
			})
			return
		}

		if len(users) == 0 {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(ListResponse{
				Success: true,
				Message: "No users found",
				Data:    []models.UserDB{},
			})
			return
		}

		totalPages := (total + int64(limit) - 1) / int64(limit)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ListResponse{
			Success:    true,
			Message:    "Get All Users",
			TotalUsers: total,
			Pagination: &Pagination{
				CurrentPage: page,
				TotalPages:  totalPages,
				Limit:       limit,
			},
			Data: users,
		})
	}
}

// intQueryParam parses a positive integer query parameter, falling back to
// def when absent or not numeric.
func intQueryParam(r *http.Request, name string, def int) int {
	val, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || val < 1 {
		return def
	}
	return val
}
