package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// ClubRepository handles club data access
type ClubRepository struct {
	db database.Database
}

// NewClubRepository creates a new club repository
func NewClubRepository(db database.Database) *ClubRepository {
	return &ClubRepository{db: db}
}

// Create creates a new club
func (r *ClubRepository) Create(ctx context.Context, club *model.Club) error {
	query := `
		CREATE club CONTENT {
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			summary: IF $summary IS NOT NULL THEN $summary ELSE NONE END,
			links: $links,
			video_embed: IF $video_embed IS NOT NULL THEN $video_embed ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":        club.Name,
		"description": nilIfEmpty(club.Description),
		"summary":     nilIfEmpty(club.Summary),
		"links":       club.Links,
		"video_embed": nilIfEmpty(club.VideoEmbed),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: club name already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	club.ID = created.ID
	club.CreatedOn = created.CreatedOn
	club.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a club by ID
func (r *ClubRepository) GetByID(ctx context.Context, id string) (*model.Club, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	club, err := parseClubResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return club, nil
}

// GetByName retrieves a club by exact name
func (r *ClubRepository) GetByName(ctx context.Context, name string) (*model.Club, error) {
	query := `SELECT * FROM club WHERE name = $name LIMIT 1`
	vars := map[string]interface{}{"name": name}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	club, err := parseClubResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return club, nil
}

// List retrieves all clubs ordered by name
func (r *ClubRepository) List(ctx context.Context) ([]*model.Club, error) {
	query := `SELECT * FROM club ORDER BY name ASC`

	results, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	clubs := make([]*model.Club, 0)
	for _, data := range unwrapRecords(results) {
		club, err := decodeRecord[model.Club](data, "id")
		if err != nil {
			continue
		}
		clubs = append(clubs, club)
	}
	return clubs, nil
}

// Update updates a club
func (r *ClubRepository) Update(ctx context.Context, club *model.Club) error {
	query := `
		UPDATE type::record($id) SET
			name = $name,
			description = IF $description IS NOT NULL THEN $description ELSE NONE END,
			summary = IF $summary IS NOT NULL THEN $summary ELSE NONE END,
			links = $links,
			video_embed = IF $video_embed IS NOT NULL THEN $video_embed ELSE NONE END,
			updated_on = time::now()
	`

	vars := map[string]interface{}{
		"id":          club.ID,
		"name":        club.Name,
		"description": nilIfEmpty(club.Description),
		"summary":     nilIfEmpty(club.Summary),
		"links":       club.Links,
		"video_embed": nilIfEmpty(club.VideoEmbed),
	}

	err := r.db.Execute(ctx, query, vars)
	if err != nil && isUniqueConstraintError(err) {
		return fmt.Errorf("%w: club name already exists", database.ErrDuplicate)
	}
	return err
}

// Delete deletes a club and its memberships
func (r *ClubRepository) Delete(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE membership WHERE club = type::record($club_id)`, map[string]interface{}{
		"club_id": id,
	})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{
		"id": id,
	})
	return batch.Execute(ctx, r.db)
}

func parseClubResult(result interface{}) (*model.Club, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return decodeRecord[model.Club](data, "id")
}
