package handlers

import (
	"net/http"

	"hockey-pool-go/models"
	"hockey-pool-go/services"
)

// AdminHandler exposes account administration and maintenance operations
type AdminHandler struct {
	authService   *services.AuthService
	resultService *services.ResultService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *services.AuthService, resultService *services.ResultService) *AdminHandler {
	return &AdminHandler{
		authService:   authService,
		resultService: resultService,
	}
}

type setAdminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	safe := make([]models.User, 0, len(users))
	for _, u := range users {
		safe = append(safe, u.ToSafeUser())
	}
	writeJSON(w, http.StatusOK, safe)
}

// SetAdmin handles PUT /api/admin/users/{id}/admin
func (h *AdminHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathObjectID(w, r, "id")
	if !ok {
		return
	}

	var req setAdminRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.authService.SetAdmin(r.Context(), id, req.IsAdmin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user.ToSafeUser())
}

// TriggerSync handles POST /api/admin/sync and runs one feed sync pass
func (h *AdminHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	if err := h.resultService.SyncResults(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "sync complete"})
}

// TriggerEvaluation handles POST /api/admin/evaluate and re-runs evaluation
// for every finished match
func (h *AdminHandler) TriggerEvaluation(w http.ResponseWriter, r *http.Request) {
	if err := h.resultService.EvaluateAllFinished(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "evaluation complete"})
}
