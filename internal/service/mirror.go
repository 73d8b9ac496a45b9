package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/campushub/api/internal/model"
)

// CalendarRepository defines the interface for calendar storage
type CalendarRepository interface {
	Create(ctx context.Context, calendar *model.Calendar) error
	GetByID(ctx context.Context, id string) (*model.Calendar, error)
	GetForClub(ctx context.Context, clubID string) ([]*model.Calendar, error)
	GetForUser(ctx context.Context, userID string) ([]*model.Calendar, error)
	GetMirrorForUser(ctx context.Context, userID, clubID string) (*model.Calendar, error)
	GetMirrorsForClub(ctx context.Context, clubID string) ([]*model.Calendar, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// MeetingRepository defines the interface for meeting storage
type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	GetByID(ctx context.Context, id string) (*model.Meeting, error)
	GetForCalendar(ctx context.Context, calendarID string) ([]*model.Meeting, error)
	FindAtDate(ctx context.Context, calendarID string, date time.Time) (*model.Meeting, error)
	GetMirrorsOfSource(ctx context.Context, sourceMeetingID string) ([]*model.Meeting, error)
	GetMirrorOnCalendar(ctx context.Context, calendarID, sourceMeetingID string) (*model.Meeting, error)
	Update(ctx context.Context, meeting *model.Meeting) error
	Delete(ctx context.Context, id string) error
	DeleteMirrorsOfSource(ctx context.Context, sourceMeetingID string) error
}

// MirrorService keeps member mirror calendars in sync with club calendars.
// It is the only writer of mirror calendars and mirror meetings; all entry
// points are explicit calls from ClubService and CalendarService.
type MirrorService struct {
	clubRepo     ClubRepository
	calendarRepo CalendarRepository
	meetingRepo  MeetingRepository
	logger       *slog.Logger
}

// NewMirrorService creates a new mirror service
func NewMirrorService(clubRepo ClubRepository, calendarRepo CalendarRepository, meetingRepo MeetingRepository, logger *slog.Logger) *MirrorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MirrorService{
		clubRepo:     clubRepo,
		calendarRepo: calendarRepo,
		meetingRepo:  meetingRepo,
		logger:       logger,
	}
}

// OnMemberJoin creates the member's mirror calendar for the club and
// backfills it with a mirror of every meeting currently on the club's
// calendars. Backfill errors fail the join; a half-mirrored calendar is
// worse than a failed join the user can retry.
func (s *MirrorService) OnMemberJoin(ctx context.Context, userID, clubID string) error {
	existing, err := s.calendarRepo.GetMirrorForUser(ctx, userID, clubID)
	if err != nil {
		return err
	}
	if existing != nil {
		// Re-join after an incomplete teardown; start clean
		if err := s.calendarRepo.Delete(ctx, existing.ID); err != nil {
			return err
		}
	}

	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return err
	}
	if club == nil {
		return ErrClubNotFound
	}

	mirror := &model.Calendar{
		Name:         club.Name,
		Owner:        model.UserOwner(userID),
		IsClubMirror: true,
		SourceClubID: clubID,
	}
	if err := s.calendarRepo.Create(ctx, mirror); err != nil {
		return err
	}

	calendars, err := s.calendarRepo.GetForClub(ctx, clubID)
	if err != nil {
		return err
	}

	for _, calendar := range calendars {
		meetings, err := s.meetingRepo.GetForCalendar(ctx, calendar.ID)
		if err != nil {
			return err
		}
		for _, meeting := range meetings {
			if meeting.IsMirror() {
				continue
			}
			// Two club calendars can hold meetings at the same instant;
			// the member's single mirror calendar only has room for one.
			occupied, err := s.meetingRepo.FindAtDate(ctx, mirror.ID, meeting.Date)
			if err != nil {
				return fmt.Errorf("backfill meeting %s: %w", meeting.ID, err)
			}
			if occupied != nil {
				s.logger.Warn("mirror backfill: timestamp occupied, meeting skipped",
					"user_id", userID, "club_id", clubID,
					"meeting_id", meeting.ID, "source_calendar_id", calendar.ID)
				continue
			}
			mirrored := &model.Meeting{
				CalendarID:      mirror.ID,
				Date:            meeting.Date,
				Description:     model.MirrorDescription(calendar.Name, meeting.Description),
				Kind:            model.MeetingMirror,
				SourceMeetingID: meeting.ID,
			}
			if err := s.meetingRepo.Create(ctx, mirrored); err != nil {
				return fmt.Errorf("backfill meeting %s: %w", meeting.ID, err)
			}
		}
	}

	return nil
}

// OnMemberLeave deletes the member's mirror calendar for the club along
// with all its mirror meetings.
func (s *MirrorService) OnMemberLeave(ctx context.Context, userID, clubID string) error {
	mirror, err := s.calendarRepo.GetMirrorForUser(ctx, userID, clubID)
	if err != nil {
		return err
	}
	if mirror == nil {
		return nil
	}
	return s.calendarRepo.Delete(ctx, mirror.ID)
}

// OnMeetingCreated fans a new club meeting out to every mirror calendar of
// the club. Failures on individual mirrors are logged and collected as
// warnings; the remaining mirrors still receive their copy.
func (s *MirrorService) OnMeetingCreated(ctx context.Context, meeting *model.Meeting) []string {
	calendar, ok := s.sourceCalendar(ctx, meeting)
	if !ok {
		return nil
	}

	mirrors, err := s.calendarRepo.GetMirrorsForClub(ctx, calendar.Owner.ID)
	if err != nil {
		s.logger.Error("mirror fan-out: listing mirrors failed",
			"meeting_id", meeting.ID, "club_id", calendar.Owner.ID, "error", err)
		return []string{fmt.Sprintf("mirror sync failed for club %s", calendar.Owner.ID)}
	}

	description := model.MirrorDescription(calendar.Name, meeting.Description)

	var warnings []string
	for _, mirror := range mirrors {
		occupied, err := s.meetingRepo.FindAtDate(ctx, mirror.ID, meeting.Date)
		if err != nil {
			s.logger.Warn("mirror fan-out: conflict lookup failed",
				"meeting_id", meeting.ID, "mirror_calendar_id", mirror.ID, "error", err)
			warnings = append(warnings, fmt.Sprintf("mirror sync failed for calendar %s", mirror.ID))
			continue
		}
		if occupied != nil {
			s.logger.Warn("mirror fan-out: timestamp occupied",
				"meeting_id", meeting.ID, "mirror_calendar_id", mirror.ID,
				"occupied_by", occupied.ID)
			warnings = append(warnings, fmt.Sprintf("mirror sync failed for calendar %s", mirror.ID))
			continue
		}
		mirrored := &model.Meeting{
			CalendarID:      mirror.ID,
			Date:            meeting.Date,
			Description:     description,
			Kind:            model.MeetingMirror,
			SourceMeetingID: meeting.ID,
		}
		if err := s.meetingRepo.Create(ctx, mirrored); err != nil {
			s.logger.Warn("mirror fan-out: create failed",
				"meeting_id", meeting.ID, "mirror_calendar_id", mirror.ID, "error", err)
			warnings = append(warnings, fmt.Sprintf("mirror sync failed for calendar %s", mirror.ID))
		}
	}
	return warnings
}

// OnMeetingUpdated pushes a source meeting's new date and description to
// every mirror copy, with the same per-target isolation as creation.
func (s *MirrorService) OnMeetingUpdated(ctx context.Context, meeting *model.Meeting) []string {
	calendar, ok := s.sourceCalendar(ctx, meeting)
	if !ok {
		return nil
	}

	copies, err := s.meetingRepo.GetMirrorsOfSource(ctx, meeting.ID)
	if err != nil {
		s.logger.Error("mirror update: listing copies failed",
			"meeting_id", meeting.ID, "error", err)
		return []string{fmt.Sprintf("mirror sync failed for meeting %s", meeting.ID)}
	}

	description := model.MirrorDescription(calendar.Name, meeting.Description)

	var warnings []string
	for _, mirrored := range copies {
		occupied, err := s.meetingRepo.FindAtDate(ctx, mirrored.CalendarID, meeting.Date)
		if err != nil {
			s.logger.Warn("mirror update: conflict lookup failed",
				"meeting_id", meeting.ID, "mirror_meeting_id", mirrored.ID, "error", err)
			warnings = append(warnings, fmt.Sprintf("mirror sync failed for calendar %s", mirrored.CalendarID))
			continue
		}
		if occupied != nil && occupied.ID != mirrored.ID {
			s.logger.Warn("mirror update: timestamp occupied",
				"meeting_id", meeting.ID, "mirror_meeting_id", mirrored.ID,
				"occupied_by", occupied.ID)
			warnings = append(warnings, fmt.Sprintf("mirror sync failed for calendar %s", mirrored.CalendarID))
			continue
		}
		mirrored.Date = meeting.Date
		mirrored.Description = description
		if err := s.meetingRepo.Update(ctx, mirrored); err != nil {
			s.logger.Warn("mirror update: update failed",
				"meeting_id", meeting.ID, "mirror_meeting_id", mirrored.ID, "error", err)
			warnings = append(warnings, fmt.Sprintf("mirror sync failed for calendar %s", mirrored.CalendarID))
		}
	}
	return warnings
}

// OnMeetingDeleted removes every mirror copy of a deleted source meeting
func (s *MirrorService) OnMeetingDeleted(ctx context.Context, meeting *model.Meeting) []string {
	if _, ok := s.sourceCalendar(ctx, meeting); !ok {
		return nil
	}

	if err := s.meetingRepo.DeleteMirrorsOfSource(ctx, meeting.ID); err != nil {
		s.logger.Error("mirror delete: removing copies failed",
			"meeting_id", meeting.ID, "error", err)
		return []string{fmt.Sprintf("mirror sync failed for meeting %s", meeting.ID)}
	}
	return nil
}

// sourceCalendar applies the propagation guards: mirror meetings never
// propagate, and only meetings on club-owned calendars fan out. Returns
// the meeting's calendar when propagation should proceed.
func (s *MirrorService) sourceCalendar(ctx context.Context, meeting *model.Meeting) (*model.Calendar, bool) {
	if meeting.IsMirror() {
		return nil, false
	}

	calendar, err := s.calendarRepo.GetByID(ctx, meeting.CalendarID)
	if err != nil || calendar == nil {
		if err != nil {
			s.logger.Error("mirror guard: calendar lookup failed",
				"calendar_id", meeting.CalendarID, "error", err)
		}
		return nil, false
	}
	if !calendar.Owner.IsClub() || calendar.IsClubMirror {
		return nil, false
	}
	return calendar, true
}
