package handler

import (
	"net/http"

	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/service"
)

// DocumentHandler handles document manager and document HTTP requests
type DocumentHandler struct {
	svc *service.DocumentService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// CreateManager handles POST /v1/document-managers
func (h *DocumentHandler) CreateManager(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateDocumentManagerRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	manager, err := h.svc.CreateManager(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, manager, nil)
}

// GetManager handles GET /v1/document-managers/{managerId}
func (h *DocumentHandler) GetManager(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	managerID := r.PathValue("managerId")
	if managerID == "" {
		WriteError(w, model.NewBadRequestError("manager ID required"))
		return
	}

	manager, err := h.svc.GetManager(ctx, userID, managerID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, manager, nil)
}

// ListMyManagers handles GET /v1/document-managers - the caller's managers
func (h *DocumentHandler) ListMyManagers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	managers, err := h.svc.ListUserManagers(ctx, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, managers, nil)
}

// ListClubManagers handles GET /v1/clubs/{clubId}/document-managers
func (h *DocumentHandler) ListClubManagers(w http.ResponseWriter, r *http.Request) {
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

	managers, err := h.svc.ListClubManagers(ctx, userID, clubID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, managers, nil)
}

// DeleteManager handles DELETE /v1/document-managers/{managerId}
func (h *DocumentHandler) DeleteManager(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	managerID := r.PathValue("managerId")
	if managerID == "" {
		WriteError(w, model.NewBadRequestError("manager ID required"))
		return
	}

	if err := h.svc.DeleteManager(ctx, userID, managerID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// AddDocument handles POST /v1/documents
func (h *DocumentHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateDocumentRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	doc, err := h.svc.AddDocument(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, doc, nil)
}

// ListDocuments handles GET /v1/document-managers/{managerId}/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	managerID := r.PathValue("managerId")
	if managerID == "" {
		WriteError(w, model.NewBadRequestError("manager ID required"))
		return
	}

	docs, err := h.svc.ListDocuments(ctx, userID, managerID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, docs, nil)
}

// RemoveDocument handles DELETE /v1/documents/{documentId}
func (h *DocumentHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	documentID := r.PathValue("documentId")
	if documentID == "" {
		WriteError(w, model.NewBadRequestError("document ID required"))
		return
	}

	if err := h.svc.RemoveDocument(ctx, userID, documentID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
