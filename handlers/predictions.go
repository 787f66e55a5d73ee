package handlers

import (
	"net/http"

	"hockey-pool-go/middleware"
	"hockey-pool-go/models"
	"hockey-pool-go/services"
)

// PredictionHandler exposes prediction submission and queries
type PredictionHandler struct {
	predictionService *services.PredictionService
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionService *services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

type submitPredictionRequest struct {
	MatchID    string `json:"matchId"`
	LeagueID   string `json:"leagueId"`
	HomeScore  int    `json:"homeScore"`
	AwayScore  int    `json:"awayScore"`
	EndingType string `json:"endingType"`
}

// Submit handles POST /api/predictions
func (h *PredictionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitPredictionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	matchID, ok := parseObjectID(w, req.MatchID, "matchId")
	if !ok {
		return
	}
	leagueID, ok := parseObjectID(w, req.LeagueID, "leagueId")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())

	prediction, err := h.predictionService.SubmitPrediction(r.Context(), user.ID, matchID, leagueID,
		req.HomeScore, req.AwayScore, models.EndingType(req.EndingType))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

// ListForLeague handles GET /api/predictions/league/{leagueId} and returns
// the caller's own predictions within the league
func (h *PredictionHandler) ListForLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathObjectID(w, r, "leagueId")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())

	predictions, err := h.predictionService.GetUserPredictions(r.Context(), user.ID, leagueID)
	if err != nil {
		writeError(w, err)
		return
	}
	if predictions == nil {
		predictions = []*models.Prediction{}
	}
	writeJSON(w, http.StatusOK, predictions)
}

// ListForMember handles GET /api/predictions/user/{userId}/league/{leagueId}
func (h *PredictionHandler) ListForMember(w http.ResponseWriter, r *http.Request) {
	targetID, ok := pathObjectID(w, r, "userId")
	if !ok {
		return
	}
	leagueID, ok := pathObjectID(w, r, "leagueId")
	if !ok {
		return
	}

	caller := middleware.UserFromContext(r.Context())

	predictions, err := h.predictionService.GetMemberPredictions(r.Context(), caller.ID, targetID, leagueID)
	if err != nil {
		writeError(w, err)
		return
	}
	if predictions == nil {
		predictions = []*models.Prediction{}
	}
	writeJSON(w, http.StatusOK, predictions)
}

// ListForMatch handles GET /api/predictions/match/{matchId}/league/{leagueId}
func (h *PredictionHandler) ListForMatch(w http.ResponseWriter, r *http.Request) {
	matchID, ok := pathObjectID(w, r, "matchId")
	if !ok {
		return
	}
	leagueID, ok := pathObjectID(w, r, "leagueId")
	if !ok {
		return
	}

	user := middleware.UserFromContext(r.Context())

	predictions, err := h.predictionService.GetMatchPredictions(r.Context(), user.ID, matchID, leagueID)
	if err != nil {
		writeError(w, err)
		return
	}
	if predictions == nil {
		predictions = []*models.Prediction{}
	}
	writeJSON(w, http.StatusOK, predictions)
}
