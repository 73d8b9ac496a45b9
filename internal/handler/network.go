package handler

import (
	"net/http"
	"strconv"

	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/service"
)

// NetworkHandler handles connection and network profile HTTP requests
type NetworkHandler struct {
	svc *service.NetworkService
}

// NewNetworkHandler creates a new network handler
func NewNetworkHandler(svc *service.NetworkService) *NetworkHandler {
	return &NetworkHandler{svc: svc}
}

// SendRequest handles POST /v1/connections - request a connection
func (h *NetworkHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.SendConnectionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	conn, err := h.svc.SendRequest(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, conn, nil)
}

// Respond handles POST /v1/connections/{connectionId}/respond - accept or block
func (h *NetworkHandler) Respond(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	connectionID := r.PathValue("connectionId")
	if connectionID == "" {
		WriteError(w, model.NewBadRequestError("connection ID required"))
		return
	}

	var req model.RespondToConnectionRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	conn, err := h.svc.Respond(ctx, userID, connectionID, req.Status)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, conn, nil)
}

// List handles GET /v1/connections?status= - list the caller's connections
func (h *NetworkHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var status *model.ConnectionStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.ConnectionStatus(raw)
		if s != model.ConnectionPending && s != model.ConnectionAccepted && s != model.ConnectionBlocked {
			WriteError(w, model.NewValidationError([]model.FieldError{
				{Field: "status", Message: "status must be 'pending', 'accepted', or 'blocked'"},
			}))
			return
		}
		status = &s
	}

	connections, err := h.svc.ListConnections(ctx, userID, status)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, connections, nil)
}

// Remove handles DELETE /v1/connections/{connectionId}
func (h *NetworkHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	connectionID := r.PathValue("connectionId")
	if connectionID == "" {
		WriteError(w, model.NewBadRequestError("connection ID required"))
		return
	}

	if err := h.svc.RemoveConnection(ctx, userID, connectionID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// GetMyProfile handles GET /v1/network/profile - the caller's network profile
func (h *NetworkHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	profile, err := h.svc.GetProfile(ctx, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, profile, nil)
}

// GetUserProfile handles GET /v1/users/{userId}/network-profile
func (h *NetworkHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if middleware.GetUserID(ctx) == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	targetUserID := r.PathValue("userId")
	if targetUserID == "" {
		WriteError(w, model.NewBadRequestError("user ID required"))
		return
	}

	profile, err := h.svc.GetProfile(ctx, targetUserID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, profile, nil)
}

// UpdateProfile handles PATCH /v1/network/profile - create or update the profile
func (h *NetworkHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.UpdateNetworkProfileRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	profile, err := h.svc.UpdateProfile(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, profile, nil)
}

// GetSuggestions handles GET /v1/network/suggestions?limit= - ranked candidates
func (h *NetworkHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, model.NewValidationError([]model.FieldError{
				{Field: "limit", Message: "limit must be a non-negative integer"},
			}))
			return
		}
		limit = parsed
	}

	suggestions, err := h.svc.GetSuggestions(ctx, userID, limit)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, suggestions, nil)
}
