package model

import "time"

// UserRole represents the role of a user in the system
type UserRole string

const (
	UserRoleUser  UserRole = "user"  // Default role
	UserRoleAdmin UserRole = "admin" // Full access including system settings
)

// User represents a user account
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Bio       string     `json:"bio,omitempty"`
	Hash      *string    `json:"-"` // Never expose password hash
	Role      UserRole   `json:"role"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
	LoginOn   *time.Time `json:"login_on,omitempty"`
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// UserSummary provides minimal user info for display
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

// ToSummary converts a User to its summary representation
func (u *User) ToSummary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Bio: u.Bio}
}

// TokenClaims represents extracted JWT claims
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// Constraints
const (
	MaxUserNameLength = 50
	MaxUserBioLength  = 300
	MinPasswordLength = 8
)

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Bio      string `json:"bio,omitempty"`
}

// Validate checks if the registration request is valid
func (r *RegisterRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Email == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	}
	if r.Name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxUserNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 50 characters or less"})
	}
	if len(r.Password) < MinPasswordLength {
		errors = append(errors, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if len(r.Bio) > MaxUserBioLength {
		errors = append(errors, FieldError{Field: "bio", Message: "bio must be 300 characters or less"})
	}

	return errors
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks if the login request is valid
func (r *LoginRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Email == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	}
	if r.Password == "" {
		errors = append(errors, FieldError{Field: "password", Message: "password is required"})
	}

	return errors
}

// ChangePasswordRequest represents a request to change the account password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Validate checks if the change password request is valid
func (r *ChangePasswordRequest) Validate() []FieldError {
	var errors []FieldError

	if r.NewPassword == "" {
		errors = append(errors, FieldError{Field: "new_password", Message: "new_password is required"})
	}

	return errors
}

// AuthResponse carries the issued token and the authenticated user
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresOn time.Time `json:"expires_on"`
	User      User      `json:"user"`
}

// UpdateUserRequest represents a request to update an account
type UpdateUserRequest struct {
	Name *string `json:"name,omitempty"`
	Bio  *string `json:"bio,omitempty"`
}

// Validate checks if the update request is valid
func (r *UpdateUserRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name != nil {
		if *r.Name == "" {
			errors = append(errors, FieldError{Field: "name", Message: "name cannot be empty"})
		} else if len(*r.Name) > MaxUserNameLength {
			errors = append(errors, FieldError{Field: "name", Message: "name must be 50 characters or less"})
		}
	}
	if r.Bio != nil && len(*r.Bio) > MaxUserBioLength {
		errors = append(errors, FieldError{Field: "bio", Message: "bio must be 300 characters or less"})
	}

	return errors
}
