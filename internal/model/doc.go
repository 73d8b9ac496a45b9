// Package model defines domain entities and data structures for the CampusHub API.
//
// The model package contains all struct definitions for domain objects, request/response
// types, and error definitions. Models are used across all layers of the application.
//
// # Domain Entities
//
// Core domain entities include:
//
//   - User: Application user with authentication credentials
//   - Club: Student club with members and shared resources
//   - Membership: Club membership linking users to clubs with roles
//   - Calendar: Meeting container owned by a club or a user
//   - Meeting: Dated entry on a calendar, either authored or mirrored
//   - MergeRequest: Two-party agreement to merge a pair of clubs
//
// # JSON Serialization
//
// All models use json struct tags for API serialization:
//
//	type Club struct {
//	    ID          string `json:"id"`
//	    Name        string `json:"name"`
//	    Description string `json:"description,omitempty"`
//	}
//
// # Validation Constants
//
// The package defines validation constants:
//
//	const (
//	    MaxClubNameLength     = 100
//	    MaxClubDescLength     = 2000
//	    MaxCalendarNameLength = 50
//	)
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go:
//
//	type ProblemDetails struct {
//	    Type    string    `json:"type"`
//	    Title   string    `json:"title"`
//	    Status  int       `json:"status"`
//	    Detail  string    `json:"detail"`
//	}
package model
