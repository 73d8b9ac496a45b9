package handler

import (
	"net/http"

	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/service"
)

// ClubHandler handles club HTTP requests
type ClubHandler struct {
	svc *service.ClubService
}

// NewClubHandler creates a new club handler
func NewClubHandler(svc *service.ClubService) *ClubHandler {
	return &ClubHandler{svc: svc}
}

// List handles GET /v1/clubs - list all clubs
func (h *ClubHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if middleware.GetUserID(ctx) == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	clubs, err := h.svc.ListClubs(ctx)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, clubs, nil)
}

// Create handles POST /v1/clubs - create a new club
func (h *ClubHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateClubRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	club, err := h.svc.CreateClub(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, club, nil)
}

// Get handles GET /v1/clubs/{clubId} - get club details with roster
func (h *ClubHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if middleware.GetUserID(ctx) == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	clubData, err := h.svc.GetClub(ctx, clubID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, clubData, nil)
}

// Update handles PATCH /v1/clubs/{clubId} - update club details
func (h *ClubHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	var req model.UpdateClubRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	club, err := h.svc.UpdateClub(ctx, userID, clubID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, club, nil)
}

// Delete handles DELETE /v1/clubs/{clubId} - delete a club
func (h *ClubHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	if err := h.svc.DeleteClub(ctx, userID, clubID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Join handles POST /v1/clubs/{clubId}/join - join a club
func (h *ClubHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	membership, err := h.svc.JoinClub(ctx, userID, clubID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, membership, nil)
}

// Leave handles POST /v1/clubs/{clubId}/leave - leave a club
func (h *ClubHandler) Leave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	if err := h.svc.LeaveClub(ctx, userID, clubID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// GetMembers handles GET /v1/clubs/{clubId}/members - list the club roster
func (h *ClubHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}

	// Roster access requires membership
	if _, err := h.svc.GetMembership(ctx, userID, clubID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	clubData, err := h.svc.GetClub(ctx, clubID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, clubData.Members, nil)
}

// UpdateMemberRole handles PATCH /v1/clubs/{clubId}/members/{userId}/role
func (h *ClubHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}
	targetUserID := r.PathValue("userId")
	if targetUserID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	var req model.UpdateMemberRoleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	if err := h.svc.UpdateMemberRole(ctx, userID, clubID, targetUserID, req.Role); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, map[string]string{"role": string(req.Role)}, nil)
}

// RemoveMember handles DELETE /v1/clubs/{clubId}/members/{userId}
func (h *ClubHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	clubID := r.PathValue("clubId")
	if clubID == "" {
		WriteError(w, model.NewBadRequestError("club ID required"))
		return
	}
	targetUserID := r.PathValue("userId")
	if targetUserID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	if err := h.svc.RemoveMember(ctx, userID, clubID, targetUserID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
