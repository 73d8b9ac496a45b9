package handler

import (
	"net/http"

	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/service"
)

// CalendarHandler handles calendar and meeting HTTP requests
type CalendarHandler struct {
	svc *service.CalendarService
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{svc: svc}
}

// CreateCalendar handles POST /v1/calendars - create a club or personal calendar
func (h *CalendarHandler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateCalendarRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	calendar, err := h.svc.CreateCalendar(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, calendar, nil)
}

// GetCalendar handles GET /v1/calendars/{calendarId}
func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	calendarID := r.PathValue("calendarId")
	if calendarID == "" {
		WriteError(w, model.NewBadRequestError("calendar ID required"))
		return
	}

	calendar, err := h.svc.GetCalendar(ctx, userID, calendarID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, calendar, nil)
}

// ListMyCalendars handles GET /v1/calendars - the caller's calendars, mirrors included
func (h *CalendarHandler) ListMyCalendars(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	calendars, err := h.svc.ListUserCalendars(ctx, userID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, calendars, nil)
}

// ListClubCalendars handles GET /v1/clubs/{clubId}/calendars
func (h *CalendarHandler) ListClubCalendars(w http.ResponseWriter, r *http.Request) {
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

	calendars, err := h.svc.ListClubCalendars(ctx, userID, clubID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, calendars, nil)
}

// RenameCalendar handles PATCH /v1/calendars/{calendarId}
func (h *CalendarHandler) RenameCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	calendarID := r.PathValue("calendarId")
	if calendarID == "" {
		WriteError(w, model.NewBadRequestError("calendar ID required"))
		return
	}

	var req model.UpdateCalendarRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	calendar, err := h.svc.RenameCalendar(ctx, userID, calendarID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, calendar, nil)
}

// DeleteCalendar handles DELETE /v1/calendars/{calendarId}
func (h *CalendarHandler) DeleteCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	calendarID := r.PathValue("calendarId")
	if calendarID == "" {
		WriteError(w, model.NewBadRequestError("calendar ID required"))
		return
	}

	if err := h.svc.DeleteCalendar(ctx, userID, calendarID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// CreateMeeting handles POST /v1/meetings - add a meeting to a calendar.
// Meetings on club calendars fan out to member mirrors; mirrors that could
// not be reached are reported as warnings alongside the created meeting.
func (h *CalendarHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	var req model.CreateMeetingRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	result, err := h.svc.CreateMeeting(ctx, userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, result, nil)
}

// GetMeeting handles GET /v1/meetings/{meetingId}
func (h *CalendarHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	meetingID := r.PathValue("meetingId")
	if meetingID == "" {
		WriteError(w, model.NewBadRequestError("meeting ID required"))
		return
	}

	meeting, err := h.svc.GetMeeting(ctx, userID, meetingID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, meeting, nil)
}

// ListMeetings handles GET /v1/calendars/{calendarId}/meetings
func (h *CalendarHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	calendarID := r.PathValue("calendarId")
	if calendarID == "" {
		WriteError(w, model.NewBadRequestError("calendar ID required"))
		return
	}

	meetings, err := h.svc.ListMeetings(ctx, userID, calendarID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, meetings, nil)
}

// UpdateMeeting handles PATCH /v1/meetings/{meetingId}
func (h *CalendarHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	meetingID := r.PathValue("meetingId")
	if meetingID == "" {
		WriteError(w, model.NewBadRequestError("meeting ID required"))
		return
	}

	var req model.UpdateMeetingRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}
	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, model.NewValidationError(fieldErrors))
		return
	}

	result, err := h.svc.UpdateMeeting(ctx, userID, meetingID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusOK, result, nil)
}

// DeleteMeeting handles DELETE /v1/meetings/{meetingId}. Mirror copies are
// removed as part of the delete; unreachable mirrors surface as warnings.
func (h *CalendarHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	meetingID := r.PathValue("meetingId")
	if meetingID == "" {
		WriteError(w, model.NewBadRequestError("meeting ID required"))
		return
	}

	warnings, err := h.svc.DeleteMeeting(ctx, userID, meetingID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	if len(warnings) > 0 {
		WriteData(w, http.StatusOK, map[string]interface{}{"warnings": warnings}, nil)
		return
	}
	WriteNoContent(w)
}
