package model

import "time"

// Club represents a student club with members and shared resources
type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	Links       []string  `json:"links,omitempty"`
	VideoEmbed  string    `json:"video_embed,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// MembershipRole represents a user's role within a club
type MembershipRole string

const (
	RoleMember    MembershipRole = "member"    // Default - can participate
	RoleOrganizer MembershipRole = "organizer" // Can manage the club, merges, calendars, documents
	RoleAdmin     MembershipRole = "admin"     // Full club management
)

// IsOrganizer returns true if the role carries organizer privileges (includes admin)
func (r MembershipRole) IsOrganizer() bool {
	return r == RoleOrganizer || r == RoleAdmin
}

// IsValid returns true if the role is a valid membership role
func (r MembershipRole) IsValid() bool {
	switch r {
	case RoleMember, RoleOrganizer, RoleAdmin:
		return true
	default:
		return false
	}
}

// Membership links a user to a club with a role.
// Unique per (user, club) pair.
type Membership struct {
	ID       string         `json:"id"`
	UserID   string         `json:"user_id"`
	ClubID   string         `json:"club_id"`
	Role     MembershipRole `json:"role"`
	JoinedOn time.Time      `json:"joined_on"`
}

// ClubData is a complete club with its member roster
type ClubData struct {
	Club        Club         `json:"club"`
	Members     []Membership `json:"members"`
	MemberCount int          `json:"member_count"`
}

// Business constraints
const (
	MaxClubNameLength = 100
	MaxClubDescLength = 2000
)

// CreateClubRequest represents a request to create a club
type CreateClubRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Summary     string   `json:"summary,omitempty"`
	Links       []string `json:"links,omitempty"`
	VideoEmbed  string   `json:"video_embed,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateClubRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxClubNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
	}
	if len(r.Description) > MaxClubDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 2000 characters or less"})
	}

	return errors
}

// UpdateClubRequest represents a request to update a club
type UpdateClubRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Summary     *string   `json:"summary,omitempty"`
	Links       *[]string `json:"links,omitempty"`
	VideoEmbed  *string   `json:"video_embed,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateClubRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if *r.Name == "" {
			errors = append(errors, FieldError{Field: "name", Message: "name cannot be empty"})
		} else if len(*r.Name) > MaxClubNameLength {
			errors = append(errors, FieldError{Field: "name", Message: "name must be 100 characters or less"})
		}
	}
	if r.Description != nil && len(*r.Description) > MaxClubDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 2000 characters or less"})
	}

	return errors
}

// UpdateMemberRoleRequest represents a request to change a member's role
type UpdateMemberRoleRequest struct {
	Role MembershipRole `json:"role"`
}

// Validate checks if the role change request is valid
func (r *UpdateMemberRoleRequest) Validate() []FieldError {
	var errors []FieldError

	if !r.Role.IsValid() {
		errors = append(errors, FieldError{Field: "role", Message: "role must be 'member', 'organizer', or 'admin'"})
	}

	return errors
}
