package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/campushub/api/internal/model"
)

// ClubRepository defines the interface for club storage
type ClubRepository interface {
	Create(ctx context.Context, club *model.Club) error
	GetByID(ctx context.Context, id string) (*model.Club, error)
	GetByName(ctx context.Context, name string) (*model.Club, error)
	List(ctx context.Context) ([]*model.Club, error)
	Update(ctx context.Context, club *model.Club) error
	Delete(ctx context.Context, id string) error
}

// MembershipRepository defines the interface for membership storage
type MembershipRepository interface {
	Create(ctx context.Context, membership *model.Membership) error
	GetByUserAndClub(ctx context.Context, userID, clubID string) (*model.Membership, error)
	GetForClub(ctx context.Context, clubID string) ([]*model.Membership, error)
	GetForUser(ctx context.Context, userID string) ([]*model.Membership, error)
	CountForClub(ctx context.Context, clubID string) (int, error)
	CountOrganizers(ctx context.Context, clubID string) (int, error)
	UpdateRole(ctx context.Context, membershipID string, role model.MembershipRole) error
	Delete(ctx context.Context, membershipID string) error
	CountSharedClubs(ctx context.Context, userID, otherUserID string) (int, error)
}

// MirrorSyncer propagates club membership changes into member mirror calendars
type MirrorSyncer interface {
	OnMemberJoin(ctx context.Context, userID, clubID string) error
	OnMemberLeave(ctx context.Context, userID, clubID string) error
}

// ClubService handles club and membership operations
type ClubService struct {
	clubRepo       ClubRepository
	membershipRepo MembershipRepository
	calendarRepo   CalendarRepository
	documentRepo   DocumentRepository
	mirrors        MirrorSyncer
	eventHub       *EventHub
}

// NewClubService creates a new club service
func NewClubService(clubRepo ClubRepository, membershipRepo MembershipRepository, calendarRepo CalendarRepository, documentRepo DocumentRepository, mirrors MirrorSyncer, eventHub *EventHub) *ClubService {
	return &ClubService{
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		calendarRepo:   calendarRepo,
		documentRepo:   documentRepo,
		mirrors:        mirrors,
		eventHub:       eventHub,
	}
}

// CreateClub creates a club with the creator as its first organizer.
// Every club is provisioned with a default calendar and document manager.
func (s *ClubService) CreateClub(ctx context.Context, creatorID string, req *model.CreateClubRequest) (*model.Club, error) {
	name := strings.TrimSpace(req.Name)

	existing, err := s.clubRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrClubNameExists
	}

	club := &model.Club{
		Name:        name,
		Description: req.Description,
		Summary:     req.Summary,
		Links:       req.Links,
		VideoEmbed:  req.VideoEmbed,
	}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		return nil, err
	}

	membership := &model.Membership{
		UserID: creatorID,
		ClubID: club.ID,
		Role:   model.RoleOrganizer,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, err
	}

	// Default resources every club starts with
	calendar := &model.Calendar{
		Name:  club.Name,
		Owner: model.ClubOwner(club.ID),
	}
	if err := s.calendarRepo.Create(ctx, calendar); err != nil {
		return nil, err
	}
	manager := &model.DocumentManager{
		Name:  club.Name,
		Owner: model.ClubOwner(club.ID),
	}
	if err := s.documentRepo.CreateManager(ctx, manager); err != nil {
		return nil, err
	}

	if s.mirrors != nil {
		if err := s.mirrors.OnMemberJoin(ctx, creatorID, club.ID); err != nil {
			return nil, err
		}
	}

	return club, nil
}

// GetClub retrieves a club with its member roster
func (s *ClubService) GetClub(ctx context.Context, clubID string) (*model.ClubData, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if club == nil {
		return nil, ErrClubNotFound
	}

	members, err := s.membershipRepo.GetForClub(ctx, clubID)
	if err != nil {
		return nil, err
	}

	memberships := make([]model.Membership, 0, len(members))
	for _, m := range members {
		memberships = append(memberships, *m)
	}

	return &model.ClubData{
		Club:        *club,
		Members:     memberships,
		MemberCount: len(memberships),
	}, nil
}

// ListClubs retrieves all clubs
func (s *ClubService) ListClubs(ctx context.Context) ([]*model.Club, error) {
	return s.clubRepo.List(ctx)
}

// UpdateClub updates club details. Organizer role required.
func (s *ClubService) UpdateClub(ctx context.Context, userID, clubID string, req *model.UpdateClubRequest) (*model.Club, error) {
	club, err := s.requireOrganizer(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != club.Name {
			existing, err := s.clubRepo.GetByName(ctx, name)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrClubNameExists
			}
			club.Name = name
		}
	}
	if req.Description != nil {
		club.Description = *req.Description
	}
	if req.Summary != nil {
		club.Summary = *req.Summary
	}
	if req.Links != nil {
		club.Links = *req.Links
	}
	if req.VideoEmbed != nil {
		club.VideoEmbed = *req.VideoEmbed
	}

	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, err
	}
	return club, nil
}

// DeleteClub deletes a club. Organizer role required.
func (s *ClubService) DeleteClub(ctx context.Context, userID, clubID string) error {
	members, err := s.membershipRepo.GetForClub(ctx, clubID)
	if err != nil {
		return err
	}

	if _, err := s.requireOrganizer(ctx, userID, clubID); err != nil {
		return err
	}

	// Tear down member mirrors before the club disappears. A stray mirror
	// calendar is harmless next to a failed delete, so failures are logged
	// and the delete proceeds.
	if s.mirrors != nil {
		for _, m := range members {
			if err := s.mirrors.OnMemberLeave(ctx, m.UserID, clubID); err != nil {
				slog.Warn("club delete: mirror teardown failed",
					"club_id", clubID, "user_id", m.UserID, "error", err)
			}
		}
	}

	return s.clubRepo.Delete(ctx, clubID)
}

// JoinClub adds a user to a club as a regular member
func (s *ClubService) JoinClub(ctx context.Context, userID, clubID string) (*model.Membership, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if club == nil {
		return nil, ErrClubNotFound
	}

	existing, err := s.membershipRepo.GetByUserAndClub(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	membership := &model.Membership{
		UserID: userID,
		ClubID: clubID,
		Role:   model.RoleMember,
	}
	if err := s.membershipRepo.Create(ctx, membership); err != nil {
		return nil, err
	}

	if s.mirrors != nil {
		if err := s.mirrors.OnMemberJoin(ctx, userID, clubID); err != nil {
			return nil, err
		}
	}

	if s.eventHub != nil {
		s.eventHub.Publish(&Event{
			Type:   EventMemberJoined,
			ClubID: clubID,
			Data:   map[string]interface{}{"user_id": userID},
		})
	}

	return membership, nil
}

// LeaveClub removes a user from a club. The club's only organizer cannot
// leave until another member holds the organizer role.
func (s *ClubService) LeaveClub(ctx context.Context, userID, clubID string) error {
	membership, err := s.membershipRepo.GetByUserAndClub(ctx, userID, clubID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNotClubMember
	}

	if membership.Role.IsOrganizer() {
		organizers, err := s.membershipRepo.CountOrganizers(ctx, clubID)
		if err != nil {
			return err
		}
		memberCount, err := s.membershipRepo.CountForClub(ctx, clubID)
		if err != nil {
			return err
		}
		if organizers <= 1 && memberCount > 1 {
			return ErrLastOrganizer
		}
	}

	if err := s.membershipRepo.Delete(ctx, membership.ID); err != nil {
		return err
	}

	if s.mirrors != nil {
		if err := s.mirrors.OnMemberLeave(ctx, userID, clubID); err != nil {
			return err
		}
	}

	if s.eventHub != nil {
		s.eventHub.Publish(&Event{
			Type:   EventMemberLeft,
			ClubID: clubID,
			Data:   map[string]interface{}{"user_id": userID},
		})
	}

	return nil
}

// UpdateMemberRole changes another member's role. Organizer role required,
// and organizers cannot change their own role.
func (s *ClubService) UpdateMemberRole(ctx context.Context, actorID, clubID, targetUserID string, role model.MembershipRole) error {
	if actorID == targetUserID {
		return ErrCannotChangeOwnRole
	}
	if _, err := s.requireOrganizer(ctx, actorID, clubID); err != nil {
		return err
	}

	target, err := s.membershipRepo.GetByUserAndClub(ctx, targetUserID, clubID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMembershipNotFound
	}

	// Demoting the last organizer would orphan the club
	if target.Role.IsOrganizer() && !role.IsOrganizer() {
		organizers, err := s.membershipRepo.CountOrganizers(ctx, clubID)
		if err != nil {
			return err
		}
		if organizers <= 1 {
			return ErrLastOrganizer
		}
	}

	return s.membershipRepo.UpdateRole(ctx, target.ID, role)
}

// RemoveMember removes another member from the club. Organizer role
// required; organizers leave via LeaveClub rather than removing themselves.
func (s *ClubService) RemoveMember(ctx context.Context, actorID, clubID, targetUserID string) error {
	if actorID == targetUserID {
		return ErrCannotChangeOwnRole
	}
	if _, err := s.requireOrganizer(ctx, actorID, clubID); err != nil {
		return err
	}

	target, err := s.membershipRepo.GetByUserAndClub(ctx, targetUserID, clubID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMembershipNotFound
	}

	// Removing the last organizer would orphan the club
	if target.Role.IsOrganizer() {
		organizers, err := s.membershipRepo.CountOrganizers(ctx, clubID)
		if err != nil {
			return err
		}
		if organizers <= 1 {
			return ErrLastOrganizer
		}
	}

	if err := s.membershipRepo.Delete(ctx, target.ID); err != nil {
		return err
	}

	if s.mirrors != nil {
		if err := s.mirrors.OnMemberLeave(ctx, targetUserID, clubID); err != nil {
			return err
		}
	}

	if s.eventHub != nil {
		s.eventHub.Publish(&Event{
			Type:   EventMemberLeft,
			ClubID: clubID,
			Data:   map[string]interface{}{"user_id": targetUserID},
		})
	}

	return nil
}

// GetMembership returns a user's membership in a club, or ErrNotClubMember
func (s *ClubService) GetMembership(ctx context.Context, userID, clubID string) (*model.Membership, error) {
	membership, err := s.membershipRepo.GetByUserAndClub(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotClubMember
	}
	return membership, nil
}

// IsMember reports whether the user belongs to the club.
// Satisfies middleware.ClubMembershipChecker.
func (s *ClubService) IsMember(ctx context.Context, userID, clubID string) (bool, error) {
	membership, err := s.membershipRepo.GetByUserAndClub(ctx, userID, clubID)
	if err != nil {
		return false, err
	}
	return membership != nil, nil
}

// requireOrganizer loads the club and verifies the user holds an organizer role
func (s *ClubService) requireOrganizer(ctx context.Context, userID, clubID string) (*model.Club, error) {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if club == nil {
		return nil, ErrClubNotFound
	}

	membership, err := s.membershipRepo.GetByUserAndClub(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotClubMember
	}
	if !membership.Role.IsOrganizer() {
		return nil, ErrNotOrganizer
	}
	return club, nil
}
