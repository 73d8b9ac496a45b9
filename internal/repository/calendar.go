package repository

import (
	"context"
	"errors"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// CalendarRepository handles calendar data access
type CalendarRepository struct {
	db database.Database
}

// NewCalendarRepository creates a new calendar repository
func NewCalendarRepository(db database.Database) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// Create creates a new calendar
func (r *CalendarRepository) Create(ctx context.Context, calendar *model.Calendar) error {
	query := `
		CREATE calendar CONTENT {
			name: $name,
			owner_kind: $owner_kind,
			owner: type::record($owner_id),
			is_club_mirror: $is_club_mirror,
			source_club: IF $source_club_id IS NOT NULL THEN type::record($source_club_id) ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":           calendar.Name,
		"owner_kind":     calendar.Owner.Kind,
		"owner_id":       calendar.Owner.ID,
		"is_club_mirror": calendar.IsClubMirror,
		"source_club_id": nilIfEmpty(calendar.SourceClubID),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	calendar.ID = created.ID
	calendar.CreatedOn = created.CreatedOn
	calendar.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a calendar by ID
func (r *CalendarRepository) GetByID(ctx context.Context, id string) (*model.Calendar, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	calendar, err := parseCalendarResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return calendar, nil
}

// GetForClub retrieves all calendars owned by a club
func (r *CalendarRepository) GetForClub(ctx context.Context, clubID string) ([]*model.Calendar, error) {
	query := `
		SELECT * FROM calendar
		WHERE owner_kind = 'club' AND owner = type::record($club_id)
		ORDER BY name ASC
	`
	vars := map[string]interface{}{"club_id": clubID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseCalendarList(results), nil
}

// GetForUser retrieves all calendars owned by a user, mirrors included
func (r *CalendarRepository) GetForUser(ctx context.Context, userID string) ([]*model.Calendar, error) {
	query := `
		SELECT * FROM calendar
		WHERE owner_kind = 'user' AND owner = type::record($user_id)
		ORDER BY name ASC
	`
	vars := map[string]interface{}{"user_id": userID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseCalendarList(results), nil
}

// GetMirrorForUser retrieves a user's mirror calendar for a given club
func (r *CalendarRepository) GetMirrorForUser(ctx context.Context, userID, clubID string) (*model.Calendar, error) {
	query := `
		SELECT * FROM calendar
		WHERE owner_kind = 'user' AND owner = type::record($user_id)
		AND is_club_mirror = true AND source_club = type::record($club_id)
		LIMIT 1
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"club_id": clubID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	calendar, err := parseCalendarResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return calendar, nil
}

// GetMirrorsForClub retrieves every mirror calendar shadowing a club
func (r *CalendarRepository) GetMirrorsForClub(ctx context.Context, clubID string) ([]*model.Calendar, error) {
	query := `
		SELECT * FROM calendar
		WHERE is_club_mirror = true AND source_club = type::record($club_id)
	`
	vars := map[string]interface{}{"club_id": clubID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseCalendarList(results), nil
}

// Rename updates a calendar's name
func (r *CalendarRepository) Rename(ctx context.Context, id, name string) error {
	query := `UPDATE type::record($id) SET name = $name, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":   id,
		"name": name,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete deletes a calendar and its meetings
func (r *CalendarRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE meeting WHERE calendar = type::record($calendar_id)`, map[string]interface{}{
		"calendar_id": id,
	})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{
		"id": id,
	})
	return batch.Execute(ctx, r.db)
}

func parseCalendarResult(result interface{}) (*model.Calendar, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return decodeCalendar(data)
}

func parseCalendarList(results []interface{}) []*model.Calendar {
	calendars := make([]*model.Calendar, 0)
	for _, data := range unwrapRecords(results) {
		c, err := decodeCalendar(data)
		if err != nil {
			continue
		}
		calendars = append(calendars, c)
	}
	return calendars
}

func decodeCalendar(data map[string]interface{}) (*model.Calendar, error) {
	calendar := &model.Calendar{
		ID:           convertSurrealID(data["id"]),
		Name:         getString(data, "name"),
		IsClubMirror: getBool(data, "is_club_mirror"),
		Owner: model.Owner{
			Kind: model.OwnerKind(getString(data, "owner_kind")),
			ID:   convertSurrealID(data["owner"]),
		},
	}
	if v, ok := data["source_club"]; ok && v != nil {
		calendar.SourceClubID = convertSurrealID(v)
	}
	if t := getTime(data, "created_on"); t != nil {
		calendar.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		calendar.UpdatedOn = *t
	}
	return calendar, nil
}
