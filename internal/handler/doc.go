// Package handler provides HTTP request handlers for the CampusHub API.
//
// The handler package contains all HTTP endpoint implementations organized by domain.
// Each handler struct encapsulates the dependencies needed to serve requests for a
// specific feature area (authentication, clubs, merges, calendars, etc.).
//
// # Handler Pattern
//
// All handlers follow a consistent pattern:
//
//   - Constructor function (NewXxxHandler) accepts the service it fronts
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details via MapServiceError
//
// # Response Format
//
// Handlers use standardized response functions:
//
//   - WriteData: Single resource with optional HATEOAS links
//   - WriteCollection: Paginated list of resources
//   - WriteJSON: Raw JSON response
//   - WriteError: RFC 9457 Problem Details error response
//
// Mutations that trigger mirror propagation (meeting create/update/delete)
// return the mutated resource together with per-mirror warnings; a warning
// never changes the response status.
//
// # Authentication
//
// Most handlers require authentication via JWT tokens. The auth middleware
// extracts the user ID and makes it available via middleware.GetUserID.
//
// # Example Usage
//
//	handler := NewClubHandler(clubService)
//	mux.Handle("GET /v1/clubs", authMiddleware(http.HandlerFunc(handler.List)))
//	mux.Handle("POST /v1/clubs", authMiddleware(http.HandlerFunc(handler.Create)))
package handler
