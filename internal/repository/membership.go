package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// MembershipRepository handles club membership data access
type MembershipRepository struct {
	db database.Database
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db database.Database) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create adds a user to a club with a role
func (r *MembershipRepository) Create(ctx context.Context, membership *model.Membership) error {
	role := membership.Role
	if role == "" {
		role = model.RoleMember
	}

	query := `
		CREATE membership CONTENT {
			user: type::record($user_id),
			club: type::record($club_id),
			role: $role,
			joined_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user_id": membership.UserID,
		"club_id": membership.ClubID,
		"role":    role,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: user is already a member", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	membership.ID = created.ID
	membership.Role = role
	return nil
}

// GetByUserAndClub retrieves the membership linking a user to a club
func (r *MembershipRepository) GetByUserAndClub(ctx context.Context, userID, clubID string) (*model.Membership, error) {
	query := `
		SELECT * FROM membership
		WHERE user = type::record($user_id) AND club = type::record($club_id)
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

	membership, err := parseMembershipResult(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return membership, nil
}

// GetForClub retrieves all memberships of a club
func (r *MembershipRepository) GetForClub(ctx context.Context, clubID string) ([]*model.Membership, error) {
	query := `SELECT * FROM membership WHERE club = type::record($club_id) ORDER BY joined_on ASC`
	vars := map[string]interface{}{"club_id": clubID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseMembershipList(results), nil
}

// GetForUser retrieves all memberships of a user
func (r *MembershipRepository) GetForUser(ctx context.Context, userID string) ([]*model.Membership, error) {
	query := `SELECT * FROM membership WHERE user = type::record($user_id) ORDER BY joined_on ASC`
	vars := map[string]interface{}{"user_id": userID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseMembershipList(results), nil
}

// CountForClub counts members in a club
func (r *MembershipRepository) CountForClub(ctx context.Context, clubID string) (int, error) {
	query := `SELECT count() AS count FROM membership WHERE club = type::record($club_id) GROUP ALL`
	vars := map[string]interface{}{"club_id": clubID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

// CountOrganizers counts members with organizer privileges in a club
func (r *MembershipRepository) CountOrganizers(ctx context.Context, clubID string) (int, error) {
	query := `
		SELECT count() AS count FROM membership
		WHERE club = type::record($club_id) AND role IN ['organizer', 'admin']
		GROUP ALL
	`
	vars := map[string]interface{}{"club_id": clubID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

// UpdateRole changes a member's role
func (r *MembershipRepository) UpdateRole(ctx context.Context, membershipID string, role model.MembershipRole) error {
	query := `UPDATE type::record($id) SET role = $role`
	vars := map[string]interface{}{
		"id":   membershipID,
		"role": role,
	}

	return r.db.Execute(ctx, query, vars)
}

// Delete removes a membership
func (r *MembershipRepository) Delete(ctx context.Context, membershipID string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": membershipID}

	return r.db.Execute(ctx, query, vars)
}

// CountSharedClubs counts clubs two users are both members of
func (r *MembershipRepository) CountSharedClubs(ctx context.Context, userID, otherUserID string) (int, error) {
	query := `
		SELECT count() AS count FROM membership
		WHERE user = type::record($user_id)
		AND club IN (SELECT VALUE club FROM membership WHERE user = type::record($other_id))
		GROUP ALL
	`
	vars := map[string]interface{}{
		"user_id":  userID,
		"other_id": otherUserID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

func parseMembershipResult(result interface{}) (*model.Membership, error) {
	data, err := unwrapRecord(result)
	if err != nil {
		return nil, err
	}
	return decodeMembership(data)
}

func parseMembershipList(results []interface{}) []*model.Membership {
	memberships := make([]*model.Membership, 0)
	for _, data := range unwrapRecords(results) {
		m, err := decodeMembership(data)
		if err != nil {
			continue
		}
		memberships = append(memberships, m)
	}
	return memberships
}

func decodeMembership(data map[string]interface{}) (*model.Membership, error) {
	// Record links come back under their field names; remap to the
	// *_id fields the model expects.
	if v, ok := data["user"]; ok {
		data["user_id"] = convertSurrealID(v)
	}
	if v, ok := data["club"]; ok {
		data["club_id"] = convertSurrealID(v)
	}
	return decodeRecord[model.Membership](data, "id")
}
