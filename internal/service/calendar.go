package service

import (
	"context"

	"github.com/campushub/api/internal/model"
)

// MirrorPropagator fans source meeting changes out to mirror calendars.
// Implemented by MirrorService; warnings describe mirrors that could not
// be reached, never a failure of the source mutation itself.
type MirrorPropagator interface {
	OnMeetingCreated(ctx context.Context, meeting *model.Meeting) []string
	OnMeetingUpdated(ctx context.Context, meeting *model.Meeting) []string
	OnMeetingDeleted(ctx context.Context, meeting *model.Meeting) []string
}

// CalendarService handles calendar and meeting operations
type CalendarService struct {
	calendarRepo   CalendarRepository
	meetingRepo    MeetingRepository
	clubRepo       ClubRepository
	membershipRepo MembershipRepository
	propagator     MirrorPropagator
	eventHub       *EventHub
}

// NewCalendarService creates a new calendar service
func NewCalendarService(calendarRepo CalendarRepository, meetingRepo MeetingRepository, clubRepo ClubRepository, membershipRepo MembershipRepository, propagator MirrorPropagator, eventHub *EventHub) *CalendarService {
	return &CalendarService{
		calendarRepo:   calendarRepo,
		meetingRepo:    meetingRepo,
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		propagator:     propagator,
		eventHub:       eventHub,
	}
}

// MeetingResult pairs a mutated meeting with mirror propagation warnings
type MeetingResult struct {
	Meeting  *model.Meeting `json:"meeting"`
	Warnings []string       `json:"warnings,omitempty"`
}

// CreateCalendar creates a calendar owned by a club or by the caller.
// Club calendars require the organizer role.
func (s *CalendarService) CreateCalendar(ctx context.Context, userID string, req *model.CreateCalendarRequest) (*model.Calendar, error) {
	var owner model.Owner
	if req.ClubID != "" {
		if err := s.requireOrganizer(ctx, userID, req.ClubID); err != nil {
			return nil, err
		}
		owner = model.ClubOwner(req.ClubID)
	} else {
		owner = model.UserOwner(userID)
	}

	calendar := &model.Calendar{
		Name:  req.Name,
		Owner: owner,
	}
	if err := s.calendarRepo.Create(ctx, calendar); err != nil {
		return nil, err
	}
	return calendar, nil
}

// GetCalendar retrieves a calendar readable by the user
func (s *CalendarService) GetCalendar(ctx context.Context, userID, calendarID string) (*model.Calendar, error) {
	calendar, err := s.calendarRepo.GetByID(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if calendar == nil {
		return nil, ErrCalendarNotFound
	}
	if err := s.requireReadAccess(ctx, userID, calendar); err != nil {
		return nil, err
	}
	return calendar, nil
}

// ListClubCalendars retrieves a club's calendars. Member access required.
func (s *CalendarService) ListClubCalendars(ctx context.Context, userID, clubID string) ([]*model.Calendar, error) {
	membership, err := s.membershipRepo.GetByUserAndClub(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotClubMember
	}
	return s.calendarRepo.GetForClub(ctx, clubID)
}

// ListUserCalendars retrieves the caller's own calendars, mirrors included
func (s *CalendarService) ListUserCalendars(ctx context.Context, userID string) ([]*model.Calendar, error) {
	return s.calendarRepo.GetForUser(ctx, userID)
}

// RenameCalendar renames a calendar. Mirror calendars are maintained by
// propagation and cannot be edited directly.
func (s *CalendarService) RenameCalendar(ctx context.Context, userID, calendarID string, req *model.UpdateCalendarRequest) (*model.Calendar, error) {
	calendar, err := s.writableCalendar(ctx, userID, calendarID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := s.calendarRepo.Rename(ctx, calendarID, *req.Name); err != nil {
			return nil, err
		}
		calendar.Name = *req.Name
	}
	return calendar, nil
}

// DeleteCalendar deletes a calendar and its meetings. Mirror calendars
// cannot be deleted directly; they disappear when the member leaves.
func (s *CalendarService) DeleteCalendar(ctx context.Context, userID, calendarID string) error {
	if _, err := s.writableCalendar(ctx, userID, calendarID); err != nil {
		return err
	}
	return s.calendarRepo.Delete(ctx, calendarID)
}

// CreateMeeting adds a meeting to a calendar. A calendar holds at most one
// meeting per timestamp; meetings on club calendars fan out to every
// member's mirror calendar.
func (s *CalendarService) CreateMeeting(ctx context.Context, userID string, req *model.CreateMeetingRequest) (*MeetingResult, error) {
	calendar, err := s.writableCalendar(ctx, userID, req.CalendarID)
	if err != nil {
		return nil, err
	}

	conflict, err := s.meetingRepo.FindAtDate(ctx, calendar.ID, req.Date)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, ErrMeetingConflict
	}

	meeting := &model.Meeting{
		CalendarID:  calendar.ID,
		Date:        req.Date,
		Description: req.Description,
		Kind:        model.MeetingSource,
	}
	if err := s.meetingRepo.Create(ctx, meeting); err != nil {
		return nil, err
	}

	var warnings []string
	if s.propagator != nil {
		warnings = s.propagator.OnMeetingCreated(ctx, meeting)
	}

	s.publishMeetingEvent(EventMeetingCreated, calendar, meeting)
	return &MeetingResult{Meeting: meeting, Warnings: warnings}, nil
}

// GetMeeting retrieves a meeting readable by the user
func (s *CalendarService) GetMeeting(ctx context.Context, userID, meetingID string) (*model.Meeting, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if meeting == nil {
		return nil, ErrMeetingNotFound
	}

	calendar, err := s.calendarRepo.GetByID(ctx, meeting.CalendarID)
	if err != nil {
		return nil, err
	}
	if calendar == nil {
		return nil, ErrCalendarNotFound
	}
	if err := s.requireReadAccess(ctx, userID, calendar); err != nil {
		return nil, err
	}
	return meeting, nil
}

// ListMeetings retrieves all meetings on a calendar, ordered by date
func (s *CalendarService) ListMeetings(ctx context.Context, userID, calendarID string) ([]*model.Meeting, error) {
	calendar, err := s.calendarRepo.GetByID(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if calendar == nil {
		return nil, ErrCalendarNotFound
	}
	if err := s.requireReadAccess(ctx, userID, calendar); err != nil {
		return nil, err
	}
	return s.meetingRepo.GetForCalendar(ctx, calendarID)
}

// UpdateMeeting changes a meeting's date or description. Date changes are
// checked against the calendar's one-meeting-per-timestamp rule, and the
// new state is pushed to every mirror copy.
func (s *CalendarService) UpdateMeeting(ctx context.Context, userID, meetingID string, req *model.UpdateMeetingRequest) (*MeetingResult, error) {
	meeting, _, err := s.writableMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil && !req.Date.Equal(meeting.Date) {
		conflict, err := s.meetingRepo.FindAtDate(ctx, meeting.CalendarID, *req.Date)
		if err != nil {
			return nil, err
		}
		if conflict != nil && conflict.ID != meeting.ID {
			return nil, ErrMeetingConflict
		}
		meeting.Date = *req.Date
	}
	if req.Description != nil {
		meeting.Description = *req.Description
	}

	if err := s.meetingRepo.Update(ctx, meeting); err != nil {
		return nil, err
	}

	var warnings []string
	if s.propagator != nil {
		warnings = s.propagator.OnMeetingUpdated(ctx, meeting)
	}

	calendar, err := s.calendarRepo.GetByID(ctx, meeting.CalendarID)
	if err == nil && calendar != nil {
		s.publishMeetingEvent(EventMeetingUpdated, calendar, meeting)
	}
	return &MeetingResult{Meeting: meeting, Warnings: warnings}, nil
}

// DeleteMeeting removes a meeting and all its mirror copies
func (s *CalendarService) DeleteMeeting(ctx context.Context, userID, meetingID string) ([]string, error) {
	meeting, calendar, err := s.writableMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	if err := s.meetingRepo.Delete(ctx, meetingID); err != nil {
		return nil, err
	}

	var warnings []string
	if s.propagator != nil {
		warnings = s.propagator.OnMeetingDeleted(ctx, meeting)
	}

	s.publishMeetingEvent(EventMeetingDeleted, calendar, meeting)
	return warnings, nil
}

// writableCalendar loads a calendar and verifies the user may mutate it.
// Mirror calendars are rejected outright: only propagation writes them.
func (s *CalendarService) writableCalendar(ctx context.Context, userID, calendarID string) (*model.Calendar, error) {
	calendar, err := s.calendarRepo.GetByID(ctx, calendarID)
	if err != nil {
		return nil, err
	}
	if calendar == nil {
		return nil, ErrCalendarNotFound
	}
	if calendar.IsMirror() {
		return nil, ErrMirrorReadOnly
	}

	switch {
	case calendar.Owner.IsClub():
		if err := s.requireOrganizer(ctx, userID, calendar.Owner.ID); err != nil {
			return nil, err
		}
	case calendar.Owner.IsUser():
		if calendar.Owner.ID != userID {
			return nil, ErrNotCalendarOwner
		}
	default:
		return nil, ErrNotCalendarOwner
	}
	return calendar, nil
}

// writableMeeting loads a meeting and its calendar, applying the same
// mutation rules as writableCalendar plus the mirror-meeting rejection.
func (s *CalendarService) writableMeeting(ctx context.Context, userID, meetingID string) (*model.Meeting, *model.Calendar, error) {
	meeting, err := s.meetingRepo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, nil, err
	}
	if meeting == nil {
		return nil, nil, ErrMeetingNotFound
	}
	if meeting.IsMirror() {
		return nil, nil, ErrMirrorReadOnly
	}

	calendar, err := s.writableCalendar(ctx, userID, meeting.CalendarID)
	if err != nil {
		return nil, nil, err
	}
	return meeting, calendar, nil
}

// requireReadAccess checks the user may see a calendar: their own calendars
// and mirrors, or any calendar of a club they belong to.
func (s *CalendarService) requireReadAccess(ctx context.Context, userID string, calendar *model.Calendar) error {
	if calendar.Owner.IsUser() {
		if calendar.Owner.ID != userID {
			return ErrNotCalendarOwner
		}
		return nil
	}

	membership, err := s.membershipRepo.GetByUserAndClub(ctx, userID, calendar.Owner.ID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNotClubMember
	}
	return nil
}

func (s *CalendarService) requireOrganizer(ctx context.Context, userID, clubID string) error {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return err
	}
	if club == nil {
		return ErrClubNotFound
	}

	membership, err := s.membershipRepo.GetByUserAndClub(ctx, userID, clubID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNotClubMember
	}
	if !membership.Role.IsOrganizer() {
		return ErrNotOrganizer
	}
	return nil
}

func (s *CalendarService) publishMeetingEvent(eventType EventType, calendar *model.Calendar, meeting *model.Meeting) {
	if s.eventHub == nil || !calendar.Owner.IsClub() {
		return
	}
	s.eventHub.Publish(&Event{
		Type:   eventType,
		ClubID: calendar.Owner.ID,
		Data: map[string]interface{}{
			"meeting_id":  meeting.ID,
			"calendar_id": meeting.CalendarID,
			"date":        meeting.Date,
		},
	})
}
