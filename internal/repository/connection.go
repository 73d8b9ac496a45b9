package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// ConnectionRepository handles user connection and network profile data access
type ConnectionRepository struct {
	db database.Database
}

// NewConnectionRepository creates a new connection repository
func NewConnectionRepository(db database.Database) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// Create creates a pending connection request
func (r *ConnectionRepository) Create(ctx context.Context, conn *model.Connection) error {
	query := `
		CREATE connection CONTENT {
			from_user: type::record($from_id),
			to_user: type::record($to_id),
			status: $status,
			message: IF $message IS NOT NULL THEN $message ELSE NONE END,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"from_id": conn.FromUserID,
		"to_id":   conn.ToUserID,
		"status":  conn.Status,
		"message": nilIfEmpty(conn.Message),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: connection already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	conn.ID = created.ID
	conn.CreatedOn = created.CreatedOn
	conn.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a connection by ID
func (r *ConnectionRepository) GetByID(ctx context.Context, id string) (*model.Connection, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeConnection(data), nil
}

// GetBetween retrieves the connection between two users in either direction
func (r *ConnectionRepository) GetBetween(ctx context.Context, userAID, userBID string) (*model.Connection, error) {
	query := `
		SELECT * FROM connection
		WHERE (from_user = type::record($a) AND to_user = type::record($b))
		OR (from_user = type::record($b) AND to_user = type::record($a))
		LIMIT 1
	`
	vars := map[string]interface{}{
		"a": userAID,
		"b": userBID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeConnection(data), nil
}

// GetForUser retrieves connections involving a user, optionally filtered by status
func (r *ConnectionRepository) GetForUser(ctx context.Context, userID string, status *model.ConnectionStatus) ([]*model.Connection, error) {
	query := `
		SELECT * FROM connection
		WHERE (from_user = type::record($user_id) OR to_user = type::record($user_id))
	`
	vars := map[string]interface{}{"user_id": userID}

	if status != nil {
		query += ` AND status = $status`
		vars["status"] = *status
	}
	query += ` ORDER BY created_on DESC`

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	connections := make([]*model.Connection, 0)
	for _, data := range unwrapRecords(results) {
		connections = append(connections, decodeConnection(data))
	}
	return connections, nil
}

// UpdateStatus changes a connection's status
func (r *ConnectionRepository) UpdateStatus(ctx context.Context, id string, status model.ConnectionStatus) error {
	query := `UPDATE type::record($id) SET status = $status, updated_on = time::now()`
	vars := map[string]interface{}{
		"id":     id,
		"status": status,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a connection
func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// GetProfile retrieves a user's network profile
func (r *ConnectionRepository) GetProfile(ctx context.Context, userID string) (*model.NetworkProfile, error) {
	query := `SELECT * FROM network_profile WHERE user = type::record($user_id) LIMIT 1`
	vars := map[string]interface{}{"user_id": userID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeProfile(data), nil
}

// UpsertProfile creates or updates a user's network profile
func (r *ConnectionRepository) UpsertProfile(ctx context.Context, profile *model.NetworkProfile) error {
	query := `
		UPSERT network_profile
		SET
			user = type::record($user_id),
			bio = $bio,
			skills = $skills,
			interests = $interests,
			linkedin_url = $linkedin_url,
			github_url = $github_url,
			updated_on = time::now(),
			created_on = created_on OR time::now()
		WHERE user = type::record($user_id)
	`
	vars := map[string]interface{}{
		"user_id":      profile.UserID,
		"bio":          profile.Bio,
		"skills":       profile.Skills,
		"interests":    profile.Interests,
		"linkedin_url": profile.LinkedInURL,
		"github_url":   profile.GitHubURL,
	}

	return r.db.Execute(ctx, query, vars)
}

// GetSuggestions finds users who share clubs with the given user, excluding
// users they already have a connection with, ranked by shared club count.
func (r *ConnectionRepository) GetSuggestions(ctx context.Context, userID string, limit int) ([]*model.ConnectionSuggestion, error) {
	query := `
		SELECT user.* AS user, count() AS shared_clubs FROM membership
		WHERE club IN (SELECT VALUE club FROM membership WHERE user = type::record($user_id))
		AND user != type::record($user_id)
		AND user NOT IN (
			SELECT VALUE to_user FROM connection WHERE from_user = type::record($user_id)
		)
		AND user NOT IN (
			SELECT VALUE from_user FROM connection WHERE to_user = type::record($user_id)
		)
		GROUP BY user
		ORDER BY shared_clubs DESC
		LIMIT $limit
	`
	vars := map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	suggestions := make([]*model.ConnectionSuggestion, 0)
	for _, data := range unwrapRecords(results) {
		userData, ok := data["user"].(map[string]interface{})
		if !ok {
			continue
		}
		suggestions = append(suggestions, &model.ConnectionSuggestion{
			User: model.UserSummary{
				ID:   convertSurrealID(userData["id"]),
				Name: getString(userData, "name"),
				Bio:  getString(userData, "bio"),
			},
			SharedClubs: getInt(data, "shared_clubs"),
		})
	}
	return suggestions, nil
}

func decodeConnection(data map[string]interface{}) *model.Connection {
	conn := &model.Connection{
		ID:         convertSurrealID(data["id"]),
		FromUserID: convertSurrealID(data["from_user"]),
		ToUserID:   convertSurrealID(data["to_user"]),
		Status:     model.ConnectionStatus(getString(data, "status")),
		Message:    getString(data, "message"),
	}
	if t := getTime(data, "created_on"); t != nil {
		conn.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		conn.UpdatedOn = *t
	}
	return conn
}

func decodeProfile(data map[string]interface{}) *model.NetworkProfile {
	profile := &model.NetworkProfile{
		ID:          convertSurrealID(data["id"]),
		UserID:      convertSurrealID(data["user"]),
		Bio:         getString(data, "bio"),
		Skills:      getStringSlice(data, "skills"),
		Interests:   getStringSlice(data, "interests"),
		LinkedInURL: getString(data, "linkedin_url"),
		GitHubURL:   getString(data, "github_url"),
	}
	if t := getTime(data, "created_on"); t != nil {
		profile.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		profile.UpdatedOn = *t
	}
	return profile
}
