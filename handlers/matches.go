package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hockey-pool-go/middleware"
	"hockey-pool-go/models"
	"hockey-pool-go/services"
)

// MatchHandler exposes match queries and admin match management
type MatchHandler struct {
	matchService  *services.MatchService
	resultService *services.ResultService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *services.MatchService, resultService *services.ResultService) *MatchHandler {
	return &MatchHandler{
		matchService:  matchService,
		resultService: resultService,
	}
}

// createMatchRequest is the admin payload for registering a fixture
type createMatchRequest struct {
	MatchID      string `json:"matchId"`
	HomeTeam     string `json:"homeTeam"`
	AwayTeam     string `json:"awayTeam"`
	HomeTeamFlag string `json:"homeTeamFlag"`
	AwayTeamFlag string `json:"awayTeamFlag"`
	Stage        string `json:"stage"`
	Group        string `json:"group"`
	StartTime    string `json:"startTime"`
}

// resultRequest is the admin payload for a manual result
type resultRequest struct {
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
	EndingType string `json:"endingType"`
}

// List handles GET /api/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matchService.ListMatches(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// Get handles GET /api/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathObjectID(w, r, "id")
	if !ok {
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// ListByStage handles GET /api/matches/stage/{stage}
func (h *MatchHandler) ListByStage(w http.ResponseWriter, r *http.Request) {
	stage := models.Stage(mux.Vars(r)["stage"])

	matches, err := h.matchService.ListMatchesByStage(r.Context(), stage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// ListByGroup handles GET /api/matches/group/{group}
func (h *MatchHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	group := mux.Vars(r)["group"]

	matches, err := h.matchService.ListMatchesByGroup(r.Context(), group)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// Create handles POST /api/matches (admin)
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "startTime must be RFC 3339"})
		return
	}

	match := &models.Match{
		ExternalID:   req.MatchID,
		HomeTeam:     req.HomeTeam,
		AwayTeam:     req.AwayTeam,
		HomeTeamFlag: req.HomeTeamFlag,
		AwayTeamFlag: req.AwayTeamFlag,
		Stage:        models.Stage(req.Stage),
		Group:        req.Group,
		StartTime:    startTime,
	}

	if err := h.matchService.CreateMatch(r.Context(), match); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, match)
}

// SetResult handles PUT /api/matches/{id}/result (admin)
func (h *MatchHandler) SetResult(w http.ResponseWriter, r *http.Request) {
	id, ok := pathObjectID(w, r, "id")
	if !ok {
		return
	}

	var req resultRequest
	if !decodeBody(w, r, &req) {
		return
	}

	admin := middleware.UserFromContext(r.Context())

	match, err := h.resultService.SetManualResult(r.Context(), id,
		req.HomeScore, req.AwayScore, models.EndingType(req.EndingType), admin.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// pathObjectID parses a path variable as an ObjectID
func pathObjectID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseObjectID parses an ObjectID from a request body field
func parseObjectID(w http.ResponseWriter, hex, field string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: field + " must be a valid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}
