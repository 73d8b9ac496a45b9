package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// MergeRepository handles club merge request data access
type MergeRepository struct {
	db database.Database
}

// NewMergeRepository creates a new merge repository
func NewMergeRepository(db database.Database) *MergeRepository {
	return &MergeRepository{db: db}
}

// Create creates a new merge request. The proposing club is always club_1
// and its acceptance flag is set up front.
func (r *MergeRepository) Create(ctx context.Context, req *model.MergeRequest) error {
	query := `
		CREATE merge_request CONTENT {
			club_1: type::record($club_1_id),
			club_2: type::record($club_2_id),
			accepted_1: $accepted_1,
			accepted_2: $accepted_2,
			created: false,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"club_1_id":  req.Club1ID,
		"club_2_id":  req.Club2ID,
		"accepted_1": req.Accepted1,
		"accepted_2": req.Accepted2,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: merge already requested for this pair", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	req.ID = created.ID
	req.Created = false
	req.CreatedOn = created.CreatedOn
	req.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a merge request by ID
func (r *MergeRepository) GetByID(ctx context.Context, id string) (*model.MergeRequest, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	req, err := parseMergeResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// GetByPair retrieves the merge request between two clubs regardless of
// which side proposed it.
func (r *MergeRepository) GetByPair(ctx context.Context, clubAID, clubBID string) (*model.MergeRequest, error) {
	query := `
		SELECT * FROM merge_request
		WHERE (club_1 = type::record($a) AND club_2 = type::record($b))
		OR (club_1 = type::record($b) AND club_2 = type::record($a))
		LIMIT 1
	`
	vars := map[string]interface{}{
		"a": clubAID,
		"b": clubBID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	req, err := parseMergeResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

// HasCompletedInvolving reports whether a club has already been through a
// completed merge, either as a party or as the merged product itself.
func (r *MergeRepository) HasCompletedInvolving(ctx context.Context, clubID string) (bool, error) {
	query := `
		SELECT * FROM merge_request
		WHERE created = true
		AND (club_1 = type::record($club_id)
			OR club_2 = type::record($club_id)
			OR merged_club = type::record($club_id))
		LIMIT 1
	`
	vars := map[string]interface{}{"club_id": clubID}

	_, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetForClub retrieves every merge request a club is party to
func (r *MergeRepository) GetForClub(ctx context.Context, clubID string) ([]*model.MergeRequest, error) {
	query := `
		SELECT * FROM merge_request
		WHERE club_1 = type::record($club_id) OR club_2 = type::record($club_id)
		ORDER BY created_on DESC
	`
	vars := map[string]interface{}{"club_id": clubID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	requests := make([]*model.MergeRequest, 0)
	for _, data := range unwrapRecords(results) {
		req, err := decodeMergeRequest(data)
		if err != nil {
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// SetAccepted records one side's approval on a pending merge request
func (r *MergeRepository) SetAccepted(ctx context.Context, id string, side int, accepted bool) error {
	field := "accepted_1"
	if side == 2 {
		field = "accepted_2"
	}

	query := fmt.Sprintf(`UPDATE type::record($id) SET %s = $accepted, updated_on = time::now()`, field)
	vars := map[string]interface{}{
		"id":       id,
		"accepted": accepted,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a merge request
func (r *MergeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

// DeleteStalePending removes pending merge requests that have not been
// touched since the cutoff. Completed requests are never removed.
func (r *MergeRepository) DeleteStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	query := `
		DELETE merge_request
		WHERE created = false AND updated_on < $cutoff
		RETURN BEFORE
	`
	vars := map[string]interface{}{"cutoff": cutoff}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return 0, err
	}
	return len(unwrapRecords(results)), nil
}

// CompleteMerge executes the merge in a single transaction: it creates the
// merged club under a caller-assigned ID, copies the combined roster, and
// flips the request's created flag. A THROW guard inside the transaction
// rejects a request that was already completed, so the merged club can only
// ever be produced once even under concurrent calls.
func (r *MergeRepository) CompleteMerge(ctx context.Context, mergeID string, mergedClub *model.Club, roster []*model.Membership) error {
	tb := database.NewTxBuilder()

	tb.Add(`LET $merge_req = (SELECT * FROM ONLY type::record($merge_id))`, map[string]interface{}{
		"merge_id": mergeID,
	})
	tb.AddRaw(`IF $merge_req.created THEN { THROW "merge already completed" } END`)

	tb.Add(`
		CREATE type::record($new_club_id) CONTENT {
			name: $name,
			description: IF $description IS NOT NULL THEN $description ELSE NONE END,
			summary: IF $summary IS NOT NULL THEN $summary ELSE NONE END,
			links: $links,
			created_on: time::now(),
			updated_on: time::now()
		}
	`, map[string]interface{}{
		"new_club_id": mergedClub.ID,
		"name":        mergedClub.Name,
		"description": nilIfEmpty(mergedClub.Description),
		"summary":     nilIfEmpty(mergedClub.Summary),
		"links":       mergedClub.Links,
	})

	for _, m := range roster {
		tb.Add(`
			CREATE membership CONTENT {
				user: type::record($user_id),
				club: type::record($club_id),
				role: $role,
				joined_on: time::now()
			}
		`, map[string]interface{}{
			"user_id": m.UserID,
			"club_id": mergedClub.ID,
			"role":    m.Role,
		})
	}

	tb.Add(`
		UPDATE type::record($merge_id) SET
			created = true,
			merged_club = type::record($new_club_id),
			updated_on = time::now()
	`, map[string]interface{}{
		"merge_id":    mergeID,
		"new_club_id": mergedClub.ID,
	})

	_, err := database.ExecuteTransaction(ctx, r.db, tb)
	if err != nil {
		if strings.Contains(err.Error(), "merge already completed") {
			return fmt.Errorf("%w: merge already completed", database.ErrDuplicate)
		}
		return err
	}
	return nil
}

func parseMergeResult(result interface{}) (*model.MergeRequest, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return decodeMergeRequest(data)
}

func decodeMergeRequest(data map[string]interface{}) (*model.MergeRequest, error) {
	req := &model.MergeRequest{
		ID:        convertSurrealID(data["id"]),
		Club1ID:   convertSurrealID(data["club_1"]),
		Club2ID:   convertSurrealID(data["club_2"]),
		Accepted1: getBool(data, "accepted_1"),
		Accepted2: getBool(data, "accepted_2"),
		Created:   getBool(data, "created"),
	}
	if v, ok := data["merged_club"]; ok && v != nil {
		req.MergedClubID = convertSurrealID(v)
	}
	if t := getTime(data, "created_on"); t != nil {
		req.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		req.UpdatedOn = *t
	}
	return req, nil
}
