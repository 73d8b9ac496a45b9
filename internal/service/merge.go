package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
	"github.com/google/uuid"
)

// MergeRepository defines the interface for merge request storage
type MergeRepository interface {
	Create(ctx context.Context, req *model.MergeRequest) error
	GetByID(ctx context.Context, id string) (*model.MergeRequest, error)
	GetByPair(ctx context.Context, clubAID, clubBID string) (*model.MergeRequest, error)
	HasCompletedInvolving(ctx context.Context, clubID string) (bool, error)
	GetForClub(ctx context.Context, clubID string) ([]*model.MergeRequest, error)
	SetAccepted(ctx context.Context, id string, side int, accepted bool) error
	Delete(ctx context.Context, id string) error
	DeleteStalePending(ctx context.Context, cutoff time.Time) (int, error)
	CompleteMerge(ctx context.Context, mergeID string, mergedClub *model.Club, roster []*model.Membership) error
}

// MergeService coordinates the two-party club merge workflow
type MergeService struct {
	mergeRepo      MergeRepository
	clubRepo       ClubRepository
	membershipRepo MembershipRepository
	mirrors        MirrorSyncer
	eventHub       *EventHub
}

// NewMergeService creates a new merge service
func NewMergeService(mergeRepo MergeRepository, clubRepo ClubRepository, membershipRepo MembershipRepository, mirrors MirrorSyncer, eventHub *EventHub) *MergeService {
	return &MergeService{
		mergeRepo:      mergeRepo,
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		mirrors:        mirrors,
		eventHub:       eventHub,
	}
}

// MergeOutcome reports the result of a Respond call. Warnings lists members
// whose mirror calendars could not be provisioned; the merge itself stands.
type MergeOutcome struct {
	Request    *model.MergeRequest `json:"request"`
	MergedClub *model.Club         `json:"merged_club,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
}

// Propose creates a merge request from one club to another. The proposer's
// side is accepted immediately; the counterparty decides via Respond.
func (s *MergeService) Propose(ctx context.Context, actorID, clubID, targetClubID string) (*model.MergeRequest, error) {
	if clubID == targetClubID {
		return nil, ErrMergeWithSelf
	}

	if err := s.requireOrganizer(ctx, actorID, clubID); err != nil {
		return nil, err
	}

	target, err := s.clubRepo.GetByID(ctx, targetClubID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrClubNotFound
	}

	// Merged clubs cannot be re-merged, and a club that already completed
	// a merge is retired from further merging.
	for _, id := range []string{clubID, targetClubID} {
		merged, err := s.mergeRepo.HasCompletedInvolving(ctx, id)
		if err != nil {
			return nil, err
		}
		if merged {
			return nil, ErrClubAlreadyMerged
		}
	}

	existing, err := s.mergeRepo.GetByPair(ctx, clubID, targetClubID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Created {
			return nil, ErrMergeAlreadyDone
		}
		return nil, ErrMergeAlreadyExists
	}

	req := &model.MergeRequest{
		Club1ID:   clubID,
		Club2ID:   targetClubID,
		Accepted1: true,
		Accepted2: false,
	}
	if err := s.mergeRepo.Create(ctx, req); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrMergeAlreadyExists
		}
		return nil, err
	}
	return req, nil
}

// Respond records a club's acceptance of a pending merge request. When the
// second side accepts, the merge itself executes: a new club named after
// both parties, carrying the union of both rosters. The merge runs exactly
// once; responding again after completion returns the already-merged club.
func (s *MergeService) Respond(ctx context.Context, actorID, clubID string, approved bool) (*MergeOutcome, error) {
	if err := s.requireOrganizer(ctx, actorID, clubID); err != nil {
		return nil, err
	}

	req, err := s.pendingForClub(ctx, clubID)
	if err != nil {
		return nil, err
	}

	if req.Created {
		return s.completedOutcome(ctx, req)
	}

	if !approved {
		// Declining withdraws the request entirely
		if err := s.mergeRepo.Delete(ctx, req.ID); err != nil {
			return nil, err
		}
		return &MergeOutcome{Request: req}, nil
	}

	side := 1
	if req.Club2ID == clubID {
		side = 2
	}
	if !req.AcceptedBy(clubID) {
		if err := s.mergeRepo.SetAccepted(ctx, req.ID, side, true); err != nil {
			return nil, err
		}
		if side == 1 {
			req.Accepted1 = true
		} else {
			req.Accepted2 = true
		}
	}

	if !req.BothAccepted() {
		return &MergeOutcome{Request: req}, nil
	}

	return s.performMerge(ctx, req)
}

// Withdraw removes a pending merge request involving the club. A completed
// merge cannot be withdrawn; the merged club already exists.
func (s *MergeService) Withdraw(ctx context.Context, actorID, clubID string) error {
	if err := s.requireOrganizer(ctx, actorID, clubID); err != nil {
		return err
	}

	req, err := s.pendingForClub(ctx, clubID)
	if err != nil {
		return err
	}
	if req.Created {
		return ErrMergeAlreadyDone
	}

	return s.mergeRepo.Delete(ctx, req.ID)
}

// Status returns every merge request the club is party to, with the phase
// derived from the club's own perspective.
func (s *MergeService) Status(ctx context.Context, actorID, clubID string) ([]*model.MergeStatus, error) {
	membership, err := s.membershipRepo.GetByUserAndClub(ctx, actorID, clubID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotClubMember
	}

	requests, err := s.mergeRepo.GetForClub(ctx, clubID)
	if err != nil {
		return nil, err
	}

	statuses := make([]*model.MergeStatus, 0, len(requests))
	for _, req := range requests {
		status := &model.MergeStatus{
			Request:      *req,
			Phase:        req.PhaseFor(clubID),
			MergedClubID: req.MergedClubID,
		}

		otherID := req.OtherClub(clubID)
		other, err := s.clubRepo.GetByID(ctx, otherID)
		if err != nil {
			return nil, err
		}
		if other != nil {
			count, err := s.membershipRepo.CountForClub(ctx, otherID)
			if err != nil {
				return nil, err
			}
			status.OtherClub = model.ClubSummary{
				ID:          other.ID,
				Name:        other.Name,
				Summary:     other.Summary,
				MemberCount: count,
			}
		}

		statuses = append(statuses, status)
	}
	return statuses, nil
}

// performMerge executes a fully-accepted merge request. The merged club's
// roster is the union of both rosters, club_1 first, keeping the role from
// whichever club listed the user first.
func (s *MergeService) performMerge(ctx context.Context, req *model.MergeRequest) (*MergeOutcome, error) {
	club1, err := s.clubRepo.GetByID(ctx, req.Club1ID)
	if err != nil {
		return nil, err
	}
	club2, err := s.clubRepo.GetByID(ctx, req.Club2ID)
	if err != nil {
		return nil, err
	}
	if club1 == nil || club2 == nil {
		return nil, ErrClubNotFound
	}

	roster1, err := s.membershipRepo.GetForClub(ctx, req.Club1ID)
	if err != nil {
		return nil, err
	}
	roster2, err := s.membershipRepo.GetForClub(ctx, req.Club2ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	roster := make([]*model.Membership, 0, len(roster1)+len(roster2))
	for _, m := range append(roster1, roster2...) {
		if seen[m.UserID] {
			continue
		}
		seen[m.UserID] = true
		roster = append(roster, m)
	}

	merged := &model.Club{
		ID:          "club:" + uuid.NewString(),
		Name:        model.MergedClubName(club1.Name, club2.Name),
		Description: fmt.Sprintf("Partnership of %s and %s", club1.Name, club2.Name),
	}

	if err := s.mergeRepo.CompleteMerge(ctx, req.ID, merged, roster); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// Lost the race; the other Respond produced the club
			fresh, ferr := s.mergeRepo.GetByID(ctx, req.ID)
			if ferr != nil {
				return nil, ferr
			}
			if fresh != nil && fresh.Created {
				return s.completedOutcome(ctx, fresh)
			}
			return nil, ErrMergeAlreadyDone
		}
		return nil, err
	}

	req.Created = true
	req.MergedClubID = merged.ID

	// Provision mirrors for the merged roster; propagation failures do not
	// undo a committed merge.
	var warnings []string
	if s.mirrors != nil {
		for _, m := range roster {
			if err := s.mirrors.OnMemberJoin(ctx, m.UserID, merged.ID); err != nil {
				slog.Warn("merge: mirror provisioning failed",
					"merge_request_id", req.ID, "merged_club_id", merged.ID,
					"user_id", m.UserID, "error", err)
				warnings = append(warnings, fmt.Sprintf("mirror sync failed for member %s", m.UserID))
			}
		}
	}

	if s.eventHub != nil {
		for _, clubID := range []string{req.Club1ID, req.Club2ID} {
			s.eventHub.Publish(&Event{
				Type:   EventClubMerged,
				ClubID: clubID,
				Data: map[string]interface{}{
					"merge_request_id": req.ID,
					"merged_club_id":   merged.ID,
				},
			})
		}
	}

	return &MergeOutcome{Request: req, MergedClub: merged, Warnings: warnings}, nil
}

// completedOutcome loads the merged club for an already-completed request
func (s *MergeService) completedOutcome(ctx context.Context, req *model.MergeRequest) (*MergeOutcome, error) {
	merged, err := s.clubRepo.GetByID(ctx, req.MergedClubID)
	if err != nil {
		return nil, err
	}
	return &MergeOutcome{Request: req, MergedClub: merged}, nil
}

// pendingForClub finds the club's open merge request. Propose dedups per
// pair, not per club, so a club can be party to several requests at once;
// the pending one takes priority so it stays reachable, and the newest
// completed request serves the idempotent-read path when nothing is open.
func (s *MergeService) pendingForClub(ctx context.Context, clubID string) (*model.MergeRequest, error) {
	requests, err := s.mergeRepo.GetForClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	for _, req := range requests {
		if !req.Created {
			return req, nil
		}
	}
	if len(requests) == 0 {
		return nil, ErrMergeRequestNotFound
	}
	return requests[0], nil
}

// ExpireStale removes pending merge requests untouched for longer than
// maxAge. Completed requests are kept as a record of the merge.
func (s *MergeService) ExpireStale(ctx context.Context, maxAge time.Duration) (int, error) {
	return s.mergeRepo.DeleteStalePending(ctx, time.Now().Add(-maxAge))
}

// requireOrganizer verifies the actor holds an organizer role in the club
func (s *MergeService) requireOrganizer(ctx context.Context, actorID, clubID string) error {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return err
	}
	if club == nil {
		return ErrClubNotFound
	}

	membership, err := s.membershipRepo.GetByUserAndClub(ctx, actorID, clubID)
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
