package repository

import (
	"context"
	"errors"
	"time"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// MeetingRepository handles meeting data access
type MeetingRepository struct {
	db database.Database
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db database.Database) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Create creates a new meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	kind := meeting.Kind
	if kind == "" {
		kind = model.MeetingSource
	}

	query := `
		CREATE meeting CONTENT {
			calendar: type::record($calendar_id),
			date: <datetime> $date,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			kind: $kind,
			source_meeting: IF $source_meeting_id IS NOT NULL THEN type::record($source_meeting_id) ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"calendar_id":       meeting.CalendarID,
		"date":              meeting.Date.UTC().Format(time.RFC3339),
		"description":       nilIfEmpty(meeting.Description),
		"kind":              kind,
		"source_meeting_id": nilIfEmpty(meeting.SourceMeetingID),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	meeting.ID = created.ID
	meeting.Kind = kind
	meeting.CreatedOn = created.CreatedOn
	meeting.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a meeting by ID
func (r *MeetingRepository) GetByID(ctx context.Context, id string) (*model.Meeting, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	meeting, err := parseMeetingResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return meeting, nil
}

// GetForCalendar retrieves all meetings on a calendar ordered by date
func (r *MeetingRepository) GetForCalendar(ctx context.Context, calendarID string) ([]*model.Meeting, error) {
	query := `SELECT * FROM meeting WHERE calendar = type::record($calendar_id) ORDER BY date ASC`
	vars := map[string]interface{}{"calendar_id": calendarID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseMeetingList(results), nil
}

// FindAtDate retrieves a meeting on a calendar at an exact timestamp
func (r *MeetingRepository) FindAtDate(ctx context.Context, calendarID string, date time.Time) (*model.Meeting, error) {
	query := `
		SELECT * FROM meeting
		WHERE calendar = type::record($calendar_id) AND date = <datetime> $date
		LIMIT 1
	`
	vars := map[string]interface{}{
		"calendar_id": calendarID,
		"date":        date.UTC().Format(time.RFC3339),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	meeting, err := parseMeetingResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return meeting, nil
}

// GetMirrorsOfSource retrieves every mirror copy of a source meeting
func (r *MeetingRepository) GetMirrorsOfSource(ctx context.Context, sourceMeetingID string) ([]*model.Meeting, error) {
	query := `
		SELECT * FROM meeting
		WHERE kind = 'mirror' AND source_meeting = type::record($source_id)
	`
	vars := map[string]interface{}{"source_id": sourceMeetingID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseMeetingList(results), nil
}

// GetMirrorOnCalendar retrieves the mirror copy of a source meeting on one calendar
func (r *MeetingRepository) GetMirrorOnCalendar(ctx context.Context, calendarID, sourceMeetingID string) (*model.Meeting, error) {
	query := `
		SELECT * FROM meeting
		WHERE calendar = type::record($calendar_id)
		AND kind = 'mirror' AND source_meeting = type::record($source_id)
		LIMIT 1
	`
	vars := map[string]interface{}{
		"calendar_id": calendarID,
		"source_id":   sourceMeetingID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	meeting, err := parseMeetingResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return meeting, nil
}

// Update updates a meeting's date and description
func (r *MeetingRepository) Update(ctx context.Context, meeting *model.Meeting) error {
	query := `
		UPDATE type::record($id) SET
			date = <datetime> $date,
			description = IF $description IS NOT NULL THEN $description ELSE NONE END,
			updated_on = time::now()
	`
	vars := map[string]interface{}{
		"id":          meeting.ID,
		"date":        meeting.Date.UTC().Format(time.RFC3339),
		"description": nilIfEmpty(meeting.Description),
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete deletes a meeting
func (r *MeetingRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// DeleteMirrorsOfSource removes every mirror copy of a source meeting
func (r *MeetingRepository) DeleteMirrorsOfSource(ctx context.Context, sourceMeetingID string) error {
	query := `DELETE meeting WHERE kind = 'mirror' AND source_meeting = type::record($source_id)`
	vars := map[string]interface{}{"source_id": sourceMeetingID}

	return r.db.Execute(ctx, query, vars)
}

func parseMeetingResult(result interface{}) (*model.Meeting, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return decodeMeeting(data)
}

func parseMeetingList(results []interface{}) []*model.Meeting {
	meetings := make([]*model.Meeting, 0)
	for _, data := range unwrapRecords(results) {
		m, err := decodeMeeting(data)
		if err != nil {
			continue
		}
		meetings = append(meetings, m)
	}
	return meetings
}

func decodeMeeting(data map[string]interface{}) (*model.Meeting, error) {
	meeting := &model.Meeting{
		ID:          convertSurrealID(data["id"]),
		CalendarID:  convertSurrealID(data["calendar"]),
		Description: getString(data, "description"),
		Kind:        model.MeetingKind(getString(data, "kind")),
	}
	if v, ok := data["source_meeting"]; ok && v != nil {
		meeting.SourceMeetingID = convertSurrealID(v)
	}
	if t := getTime(data, "date"); t != nil {
		meeting.Date = *t
	}
	if t := getTime(data, "created_on"); t != nil {
		meeting.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		meeting.UpdatedOn = *t
	}
	return meeting, nil
}
