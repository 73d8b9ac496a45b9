package model

import "time"

// DocumentManager is a named container for documents, owned by either a
// club or a single user. Ownership uses the same tagged variant as
// calendars.
type DocumentManager struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     Owner     `json:"owner"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Document is an uploaded file tracked under a document manager
type Document struct {
	ID          string    `json:"id"`
	ManagerID   string    `json:"manager_id"`
	Title       string    `json:"title"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type,omitempty"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
	UploadedOn  time.Time `json:"uploaded_on"`
}

// Constraints
const (
	MaxManagerNameLength   = 50
	MaxDocumentTitleLength = 200
)

// CreateDocumentManagerRequest represents a request to create a document manager
type CreateDocumentManagerRequest struct {
	Name   string `json:"name"`
	ClubID string `json:"club_id,omitempty"` // club-owned when set, else owned by the caller
}

// Validate checks if the create request is valid
func (r *CreateDocumentManagerRequest) Validate() []FieldError {
	var errors []FieldError

	if r.Name == "" {
		errors = append(errors, FieldError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > MaxManagerNameLength {
		errors = append(errors, FieldError{Field: "name", Message: "name must be 50 characters or less"})
	}

	return errors
}

// CreateDocumentRequest represents a request to register a document
type CreateDocumentRequest struct {
	ManagerID   string `json:"manager_id"`
	Title       string `json:"title"`
	StorageKey  string `json:"storage_key"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
}

// Validate checks if the create request is valid
func (r *CreateDocumentRequest) Validate() []FieldError {
	var errors []FieldError

	if r.ManagerID == "" {
		errors = append(errors, FieldError{Field: "manager_id", Message: "manager_id is required"})
	}
	if r.Title == "" {
		errors = append(errors, FieldError{Field: "title", Message: "title is required"})
	} else if len(r.Title) > MaxDocumentTitleLength {
		errors = append(errors, FieldError{Field: "title", Message: "title must be 200 characters or less"})
	}
	if r.StorageKey == "" {
		errors = append(errors, FieldError{Field: "storage_key", Message: "storage_key is required"})
	}

	return errors
}
