package handlers

import (
	"net/http"

	"hockey-pool-go/middleware"
	"hockey-pool-go/models"
	"hockey-pool-go/services"
)

// LeagueHandler exposes league lifecycle and membership
type LeagueHandler struct {
	leagueService *services.LeagueService
}

// NewLeagueHandler creates a new league handler
func NewLeagueHandler(leagueService *services.LeagueService) *LeagueHandler {
	return &LeagueHandler{leagueService: leagueService}
}

type createLeagueRequest struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type joinLeagueRequest struct {
	Name        string `json:"name"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type updateLeagueRequest struct {
	Name         string               `json:"name"`
	Password     string               `json:"password"`
	ScoringRules *models.ScoringRules `json:"scoringRules"`
}

// Create handles POST /api/leagues
func (h *LeagueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLeagueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := middleware.UserFromContext(r.Context())
	displayName := req.DisplayName
	if displayName == "" {
		displayName = user.Name
	}

	league, err := h.leagueService.CreateLeague(r.Context(), user.ID, req.Name, req.Password, displayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, league)
}

// Join handles POST /api/leagues/join
func (h *LeagueHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinLeagueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := middleware.UserFromContext(r.Context())

	league, err := h.leagueService.JoinLeague(r.Context(), user.ID, req.Name, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, league)
}

// List handles GET /api/leagues
func (h *LeagueHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	leagues, err := h.leagueService.ListLeaguesForUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if leagues == nil {
		leagues = []*models.League{}
	}
	writeJSON(w, http.StatusOK, leagues)
}

// Get handles GET /api/leagues/{id}
func (h *LeagueHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathObjectID(w, r, "id")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())

	league, err := h.leagueService.GetLeague(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, league)
}

// Update handles PUT /api/leagues/{id} (creator only)
func (h *LeagueHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathObjectID(w, r, "id")
	if !ok {
		return
	}

	var req updateLeagueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := middleware.UserFromContext(r.Context())

	league, err := h.leagueService.UpdateLeague(r.Context(), user.ID, id, req.Name, req.Password, req.ScoringRules)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, league)
}

// RemoveMember handles DELETE /api/leagues/{id}/members/{userId} (creator only)
func (h *LeagueHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathObjectID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathObjectID(w, r, "userId")
	if !ok {
		return
	}

	caller := middleware.UserFromContext(r.Context())

	if err := h.leagueService.RemoveMember(r.Context(), caller.ID, id, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "member removed"})
}
