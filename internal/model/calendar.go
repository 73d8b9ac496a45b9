package model

import "time"

// OwnerKind discriminates who owns a calendar or document manager.
// Every calendar belongs to exactly one club or exactly one user, never both.
type OwnerKind string

const (
	OwnerClub OwnerKind = "club"
	OwnerUser OwnerKind = "user"
)

// Owner is the tagged ownership variant shared by calendars and document
// managers. Exclusivity is structural: there is a single ID field and the
// kind says what it points at.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	ID   string    `json:"id"`
}

// ClubOwner returns an Owner pointing at a club
func ClubOwner(clubID string) Owner {
	return Owner{Kind: OwnerClub, ID: clubID}
}

// UserOwner returns an Owner pointing at a user
func UserOwner(userID string) Owner {
	return Owner{Kind: OwnerUser, ID: userID}
}

// IsClub returns true if the owner is a club
func (o Owner) IsClub() bool { return o.Kind == OwnerClub }

// IsUser returns true if the owner is a user
func (o Owner) IsUser() bool { return o.Kind == OwnerUser }

// IsValid returns true if the owner has a known kind and a non-empty ID
func (o Owner) IsValid() bool {
	return (o.Kind == OwnerClub || o.Kind == OwnerUser) && o.ID != ""
}

// Calendar holds meetings for a club or a user. A mirror calendar is a
// user-owned projection of one club's calendars, maintained by propagation
// and read-only to everyone else.
type Calendar struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Owner Owner  `json:"owner"`

	// Mirror calendar fields. A mirror calendar is always user-owned and
	// always names the club it shadows.
	IsClubMirror bool      `json:"is_club_mirror,omitempty"`
	SourceClubID string    `json:"source_club_id,omitempty"`
	CreatedOn    time.Time `json:"created_on"`
	UpdatedOn    time.Time `json:"updated_on"`
}

// IsMirror returns true if the calendar is a club mirror
func (c *Calendar) IsMirror() bool {
	return c.IsClubMirror
}

// MeetingKind discriminates authored meetings from mirror copies
type MeetingKind string

const (
	MeetingSource MeetingKind = "source"
	MeetingMirror MeetingKind = "mirror"
)

// Meeting is a dated entry on a calendar. Mirror meetings carry a reference
// to the source meeting they shadow; source meetings never do, so a mirror
// can never itself be mirrored.
type Meeting struct {
	ID          string      `json:"id"`
	CalendarID  string      `json:"calendar_id"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description,omitempty"`
	Kind        MeetingKind `json:"kind"`
	// SourceMeetingID is set exactly when Kind == MeetingMirror
	SourceMeetingID string    `json:"source_meeting_id,omitempty"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}

// IsMirror returns true if the meeting is a mirror copy
func (m *Meeting) IsMirror() bool {
	return m.Kind == MeetingMirror
}

// Constraints
const (
	MaxCalendarNameLength = 50
	MaxMeetingDescLength  = 1000
)

// MirrorDescription builds the description carried by a mirror meeting:
// the source calendar's name in brackets, then the source description.
// The prefix survives even when the source description is empty so the
// reader can always tell which club calendar the entry came from.
func MirrorDescription(calendarName, sourceDescription string) string {
	return "[" + calendarName + "] " + sourceDescription
}

// CreateCalendarRequest represents a request to create a calendar
type CreateCalendarRequest struct {
	Name   string `json:"name"`
	ClubID string `json:"club_id,omitempty"` // club-owned when set, else owned by the caller
}

// Validate checks if the create request is valid
func (r *CreateCalendarRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxCalendarNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 50 characters or less"})
	}

	return errors
}

// UpdateCalendarRequest represents a request to rename a calendar
type UpdateCalendarRequest struct {
	Name *string `json:"name,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateCalendarRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if *r.Name == "" {
			errors = append(errors, FieldError{Field: "name", Message: "name cannot be empty"})
		} else if len(*r.Name) > MaxCalendarNameLength {
			errors = append(errors, FieldError{Field: "name", Message: "name must be 50 characters or less"})
		}
	}

	return errors
}

// CreateMeetingRequest represents a request to create a meeting
type CreateMeetingRequest struct {
	CalendarID  string    `json:"calendar_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateMeetingRequest) Validate() []FieldError {
	var errors []FieldError

	if r.CalendarID == "" {
		errors = append(errors, FieldError{Field: "calendar_id", Message: "calendar_id is required"})
	}
	if r.Date.IsZero() {
		errors = append(errors, FieldError{Field: "date", Message: "date is required"})
	}
	if len(r.Description) > MaxMeetingDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 1000 characters or less"})
	}

	return errors
}

// UpdateMeetingRequest represents a request to update a meeting
type UpdateMeetingRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateMeetingRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Date != nil && r.Date.IsZero() {
		errors = append(errors, FieldError{Field: "date", Message: "date cannot be empty"})
	}
	if r.Description != nil && len(*r.Description) > MaxMeetingDescLength {
		errors = append(errors, FieldError{Field: "description", Message: "description must be 1000 characters or less"})
	}

	return errors
}
