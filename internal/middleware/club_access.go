package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campushub/api/internal/model"
)

// ClubMembershipChecker defines the interface for checking club membership
type ClubMembershipChecker interface {
	IsMember(ctx context.Context, userID, clubID string) (bool, error)
}

// ClubIDKey is the context key for club ID
const ClubIDKey contextKey = "clubID"

// GetClubID extracts the club ID from context
func GetClubID(ctx context.Context) string {
	if id, ok := ctx.Value(ClubIDKey).(string); ok {
		return id
	}
	return ""
}

// ClubAccess returns a middleware that validates club membership
// It expects the club ID to be in the URL path parameter
func ClubAccess(checker ClubMembershipChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get user ID from auth context
			userID := GetUserID(r.Context())
			if userID == "" {
				model.NewUnauthorizedError("authentication required").WriteJSON(w)
				return
			}

			// Extract club ID from URL path
			clubID := extractClubID(r.URL.Path)
			if clubID == "" {
				model.NewBadRequestError("invalid club ID").WriteJSON(w)
				return
			}

			// Check membership
			isMember, err := checker.IsMember(r.Context(), userID, clubID)
			if err != nil {
				// Log error but return 404 to not leak information
				model.NewNotFoundError("club").WriteJSON(w)
				return
			}

			if !isMember {
				// Return 404 instead of 403 to not leak club existence
				model.NewNotFoundError("club").WriteJSON(w)
				return
			}

			// Add club ID to context
			ctx := context.WithValue(r.Context(), ClubIDKey, clubID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractClubID extracts the club ID from URL path
// Expected formats:
// - /v1/clubs/{clubId}
// - /v1/clubs/{clubId}/members
// - /v1/clubs/{clubId}/members/{userId}/role
// etc.
func extractClubID(path string) string {
	parts := strings.Split(path, "/")

	// Find "clubs" in path and get the next segment
	for i, part := range parts {
		if part == "clubs" && i+1 < len(parts) {
			clubID := parts[i+1]
			// Validate it looks like an ID (not empty, not a sub-resource name)
			if clubID != "" && clubID != "members" && clubID != "merge" && clubID != "calendars" && clubID != "document-managers" && clubID != "events" {
				return clubID
			}
		}
	}

	return ""
}
