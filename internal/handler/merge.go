package handler

import (
	"context"
	"net/http"

	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/service"
)

// MergeCoordinator is the merge service surface the handler depends on
type MergeCoordinator interface {
	Propose(ctx context.Context, actorID, clubID, targetClubID string) (*model.MergeRequest, error)
	Respond(ctx context.Context, actorID, clubID string, approved bool) (*service.MergeOutcome, error)
	Withdraw(ctx context.Context, actorID, clubID string) error
	Status(ctx context.Context, actorID, clubID string) ([]*model.MergeStatus, error)
}

// MergeHandler handles club merge HTTP requests
type MergeHandler struct {
	svc MergeCoordinator
}

// NewMergeHandler creates a new merge handler
func NewMergeHandler(svc MergeCoordinator) *MergeHandler {
	return &MergeHandler{svc: svc}
}

// Propose handles POST /v1/clubs/{clubId}/merge - propose merging with another club
func (h *MergeHandler) Propose(w http.ResponseWriter, r *http.Request) {
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

	var req model.ProposeMergeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	request, err := h.svc.Propose(ctx, userID, clubID, req.TargetClubID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, request, nil)
}

// Respond handles POST /v1/clubs/{clubId}/merge/respond - accept or decline
// the pending merge request. Accepting as the second club executes the merge
// and returns the merged club.
func (h *MergeHandler) Respond(w http.ResponseWriter, r *http.Request) {
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

	var req model.RespondToMergeRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	outcome, err := h.svc.Respond(ctx, userID, clubID, req.Approved)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, outcome, nil)
}

// Withdraw handles DELETE /v1/clubs/{clubId}/merge - withdraw the pending request
func (h *MergeHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
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

	if err := h.svc.Withdraw(ctx, userID, clubID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// Status handles GET /v1/clubs/{clubId}/merge - list merge requests for the club
func (h *MergeHandler) Status(w http.ResponseWriter, r *http.Request) {
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

	statuses, err := h.svc.Status(ctx, userID, clubID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, statuses, nil)
}
