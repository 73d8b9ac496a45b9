package model

import "time"

// ConnectionStatus represents the state of a user-to-user connection
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"  // Awaiting response from recipient
	ConnectionAccepted ConnectionStatus = "accepted" // Both users are connected
	ConnectionBlocked  ConnectionStatus = "blocked"  // Recipient blocked the sender
)

// Connection represents a directed connection request between two users.
// Unique per (from, to) pair.
type Connection struct {
	ID         string           `json:"id"`
	FromUserID string           `json:"from_user_id"`
	ToUserID   string           `json:"to_user_id"`
	Status     ConnectionStatus `json:"status"`
	Message    string           `json:"message,omitempty"`
	CreatedOn  time.Time        `json:"created_on"`
	UpdatedOn  time.Time        `json:"updated_on"`
}

// NetworkProfile holds the networking-facing details a user chooses to share
type NetworkProfile struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Bio         string    `json:"bio,omitempty"`
	Skills      []string  `json:"skills,omitempty"`
	Interests   []string  `json:"interests,omitempty"`
	LinkedInURL string    `json:"linkedin_url,omitempty"`
	GitHubURL   string    `json:"github_url,omitempty"`
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// ConnectionSuggestion pairs a candidate user with the evidence behind
// the suggestion: how many clubs they share with the requester.
type ConnectionSuggestion struct {
	User        UserSummary `json:"user"`
	SharedClubs int         `json:"shared_clubs"`
}

// Constraints
const (
	MaxConnectionMessage = 500
	MaxProfileBioLength  = 500
	MaxProfileListItems  = 20
)

// SendConnectionRequest represents a request to connect with another user
type SendConnectionRequest struct {
	ToUserID string `json:"to_user_id"`
	Message  string `json:"message,omitempty"`
}

// Validate checks if the connection request is valid
func (r *SendConnectionRequest) Validate() []FieldError {
	var errors []FieldError

	if r.ToUserID == "" {
		errors = append(errors, FieldError{Field: "to_user_id", Message: "to_user_id is required"})
	}
	if len(r.Message) > MaxConnectionMessage {
		errors = append(errors, FieldError{Field: "message", Message: "message must be 500 characters or less"})
	}

	return errors
}

// RespondToConnectionRequest accepts or blocks a pending connection
type RespondToConnectionRequest struct {
	Status ConnectionStatus `json:"status"`
}

// Validate checks if the response is valid
func (r *RespondToConnectionRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Status != ConnectionAccepted && r.Status != ConnectionBlocked {
		errors = append(errors, FieldError{Field: "status", Message: "status must be 'accepted' or 'blocked'"})
	}

	return errors
}

// UpdateNetworkProfileRequest represents a request to update a network profile
type UpdateNetworkProfileRequest struct {
	Bio         *string   `json:"bio,omitempty"`
	Skills      *[]string `json:"skills,omitempty"`
	Interests   *[]string `json:"interests,omitempty"`
	LinkedInURL *string   `json:"linkedin_url,omitempty"`
	GitHubURL   *string   `json:"github_url,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateNetworkProfileRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Bio != nil && len(*r.Bio) > MaxProfileBioLength {
		errors = append(errors, FieldError{Field: "bio", Message: "bio must be 500 characters or less"})
	}
	if r.Skills != nil && len(*r.Skills) > MaxProfileListItems {
		errors = append(errors, FieldError{Field: "skills", Message: "maximum 20 skills allowed"})
	}
	if r.Interests != nil && len(*r.Interests) > MaxProfileListItems {
		errors = append(errors, FieldError{Field: "interests", Message: "maximum 20 interests allowed"})
	}

	return errors
}
