package handlers

import (
	"net/http"

	"hockey-pool-go/middleware"
	"hockey-pool-go/services"
)

// UserHandler exposes profile and per-league identity updates
type UserHandler struct {
	authService   *services.AuthService
	leagueService *services.LeagueService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *services.AuthService, leagueService *services.LeagueService) *UserHandler {
	return &UserHandler{
		authService:   authService,
		leagueService: leagueService,
	}
}

type updateProfileRequest struct {
	Name            string `json:"name"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type updateDisplayNameRequest struct {
	DisplayName string `json:"displayName"`
}

// UpdateMe handles PUT /api/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := middleware.UserFromContext(r.Context())

	updated, err := h.authService.UpdateProfile(r.Context(), user.ID, req.Name, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated.ToSafeUser())
}

// UpdateDisplayName handles PUT /api/users/leagues/{leagueId}/displayName
func (h *UserHandler) UpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathObjectID(w, r, "leagueId")
	if !ok {
		return
	}

	var req updateDisplayNameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := middleware.UserFromContext(r.Context())

	league, err := h.leagueService.UpdateDisplayName(r.Context(), user.ID, leagueID, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, league)
}
