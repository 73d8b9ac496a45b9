package model

import "time"

// MergeRequest represents a pending or completed agreement to merge two
// clubs. Exactly one request may exist per unordered club pair; the
// proposing club's acceptance flag is set on creation and the other club's
// on approval. Created is flipped exactly once, when the merge executes.
type MergeRequest struct {
	ID        string    `json:"id"`
	Club1ID   string    `json:"club_1_id"`
	Club2ID   string    `json:"club_2_id"`
	Accepted1 bool      `json:"accepted_1"`
	Accepted2 bool      `json:"accepted_2"`
	Created   bool      `json:"created"` // merged club has been produced
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`

	// MergedClubID is set once Created is true
	MergedClubID string `json:"merged_club_id,omitempty"`
}

// InvolvesClub returns true if the club is one of the two parties
func (m *MergeRequest) InvolvesClub(clubID string) bool {
	return m.Club1ID == clubID || m.Club2ID == clubID
}

// OtherClub returns the counterparty for the given club, or "" if the
// club is not a party to the request.
func (m *MergeRequest) OtherClub(clubID string) string {
	switch clubID {
	case m.Club1ID:
		return m.Club2ID
	case m.Club2ID:
		return m.Club1ID
	default:
		return ""
	}
}

// AcceptedBy returns the acceptance flag for the given club's side
func (m *MergeRequest) AcceptedBy(clubID string) bool {
	switch clubID {
	case m.Club1ID:
		return m.Accepted1
	case m.Club2ID:
		return m.Accepted2
	default:
		return false
	}
}

// BothAccepted returns true once both clubs have approved the merge
func (m *MergeRequest) BothAccepted() bool {
	return m.Accepted1 && m.Accepted2
}

// MergePhase describes a merge request from one club's perspective
type MergePhase string

const (
	MergeAwaitingUs   MergePhase = "awaiting_us"   // counterparty proposed, our approval pending
	MergeAwaitingThem MergePhase = "awaiting_them" // we proposed, counterparty approval pending
	MergeReady        MergePhase = "ready"         // both approved, merge not yet executed
	MergeCompleted    MergePhase = "completed"     // merged club exists
)

// PhaseFor derives the request's phase as seen from the given club
func (m *MergeRequest) PhaseFor(clubID string) MergePhase {
	switch {
	case m.Created:
		return MergeCompleted
	case m.BothAccepted():
		return MergeReady
	case m.AcceptedBy(clubID):
		return MergeAwaitingThem
	default:
		return MergeAwaitingUs
	}
}

// MergeStatus is the view of a merge request returned to one of the two
// clubs, with the phase computed for that club's side.
type MergeStatus struct {
	Request      MergeRequest `json:"request"`
	Phase        MergePhase   `json:"phase"`
	OtherClub    ClubSummary  `json:"other_club"`
	MergedClubID string       `json:"merged_club_id,omitempty"`
}

// ClubSummary provides minimal club info for display
type ClubSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Summary     string `json:"summary,omitempty"`
	MemberCount int    `json:"member_count,omitempty"`
}

// MergedClubName builds the canonical name of the club produced by a
// merge: the two names joined by " x ", proposer first.
func MergedClubName(name1, name2 string) string {
	return name1 + " x " + name2
}

// ProposeMergeRequest represents a request to propose merging with another club
type ProposeMergeRequest struct {
	TargetClubID string `json:"target_club_id"`
}

// Validate checks if the propose request is valid
func (r *ProposeMergeRequest) Validate() []FieldError {
	var errors []FieldError

	if r.TargetClubID == "" {
		errors = append(errors, FieldError{Field: "target_club_id", Message: "target_club_id is required"})
	}

	return errors
}

// RespondToMergeRequest represents approval or rejection of a proposed merge
type RespondToMergeRequest struct {
	Approved bool `json:"approved"`
}
