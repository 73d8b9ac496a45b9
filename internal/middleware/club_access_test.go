package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ============================================================================
// Mock ClubMembershipChecker
// ============================================================================

type mockClubMembershipChecker struct {
	isMemberFunc func(ctx context.Context, userID, clubID string) (bool, error)
}

func (m *mockClubMembershipChecker) IsMember(ctx context.Context, userID, clubID string) (bool, error) {
	return m.isMemberFunc(ctx, userID, clubID)
}

// successMembershipChecker always returns true (is a member)
func successMembershipChecker() *mockClubMembershipChecker {
	return &mockClubMembershipChecker{
		isMemberFunc: func(ctx context.Context, userID, clubID string) (bool, error) {
			return true, nil
		},
	}
}

// notMemberChecker always returns false (not a member)
func notMemberChecker() *mockClubMembershipChecker {
	return &mockClubMembershipChecker{
		isMemberFunc: func(ctx context.Context, userID, clubID string) (bool, error) {
			return false, nil
		},
	}
}

// errorMembershipChecker returns an error
func errorMembershipChecker(err error) *mockClubMembershipChecker {
	return &mockClubMembershipChecker{
		isMemberFunc: func(ctx context.Context, userID, clubID string) (bool, error) {
			return false, err
		},
	}
}

// ============================================================================
// ClubAccess Middleware Tests
// ============================================================================

func TestClubAccess_NoUserID_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	checker := successMembershipChecker()
	middleware := ClubAccess(checker)
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/clubs/club:123", nil)
	// No user ID in context
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
}

func TestClubAccess_InvalidClubID_ReturnsBadRequest(t *testing.T) {
	t.Parallel()
	checker := successMembershipChecker()
	middleware := ClubAccess(checker)
	handler := &captureHandler{}

	// Path without club ID
	req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
	ctx := context.WithValue(req.Context(), UserIDKey, "user:123")
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
}

func TestClubAccess_MembershipCheckError_ReturnsNotFound(t *testing.T) {
	t.Parallel()
	checker := errorMembershipChecker(errors.New("database error"))
	middleware := ClubAccess(checker)
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/clubs/club:123", nil)
	ctx := context.WithValue(req.Context(), UserIDKey, "user:123")
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	// Returns 404 to not leak information about errors
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
}

func TestClubAccess_NotMember_ReturnsNotFound(t *testing.T) {
	t.Parallel()
	checker := notMemberChecker()
	middleware := ClubAccess(checker)
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/clubs/club:123", nil)
	ctx := context.WithValue(req.Context(), UserIDKey, "user:123")
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	// Returns 404 instead of 403 to not leak club existence
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if handler.called {
		t.Error("handler should not have been called")
	}
}

func TestClubAccess_IsMember_ProceedsWithClubID(t *testing.T) {
	t.Parallel()
	checker := successMembershipChecker()
	middleware := ClubAccess(checker)
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/clubs/club:123/events", nil)
	ctx := context.WithValue(req.Context(), UserIDKey, "user:456")
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !handler.called {
		t.Error("handler should have been called")
	}

	// Check club ID in context
	clubID := GetClubID(handler.ctx)
	if clubID != "club:123" {
		t.Errorf("expected club ID 'club:123', got %q", clubID)
	}
}

func TestClubAccess_PassesCorrectIDsToChecker(t *testing.T) {
	t.Parallel()
	var receivedUserID, receivedClubID string
	checker := &mockClubMembershipChecker{
		isMemberFunc: func(ctx context.Context, userID, clubID string) (bool, error) {
			receivedUserID = userID
			receivedClubID = clubID
			return true, nil
		},
	}
	middleware := ClubAccess(checker)
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/v1/clubs/club:abc/members/user:xyz/role", nil)
	ctx := context.WithValue(req.Context(), UserIDKey, "user:def")
	req = req.WithContext(ctx)
	rr := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rr, req)

	if receivedUserID != "user:def" {
		t.Errorf("expected userID 'user:def', got %q", receivedUserID)
	}
	if receivedClubID != "club:abc" {
		t.Errorf("expected clubID 'club:abc', got %q", receivedClubID)
	}
}

// ============================================================================
// extractClubID Tests
// ============================================================================

func TestExtractClubID_BasicPath_ExtractsID(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"clubs with ID", "/v1/clubs/club:123", "club:123"},
		{"clubs with members", "/v1/clubs/club:abc/members", "club:abc"},
		{"clubs with member role", "/v1/clubs/club:xyz/members/user:456/role", "club:xyz"},
		{"clubs with merge", "/v1/clubs/club:789/merge", "club:789"},
		{"clubs with merge respond", "/v1/clubs/club:789/merge/respond", "club:789"},
		{"clubs with calendars", "/v1/clubs/club:101/calendars", "club:101"},
		{"clubs with document managers", "/v1/clubs/club:202/document-managers", "club:202"},
		{"clubs with events", "/v1/clubs/club:303/events", "club:303"},
		{"simple ID", "/clubs/abc123", "abc123"},
		{"no v1 prefix", "/clubs/test-club-id/members", "test-club-id"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := extractClubID(tt.path)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestExtractClubID_SkipsSubResourceNames(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"clubs followed by members", "/v1/clubs/members", ""},
		{"clubs followed by merge", "/v1/clubs/merge", ""},
		{"clubs followed by calendars", "/v1/clubs/calendars", ""},
		{"clubs followed by document-managers", "/v1/clubs/document-managers", ""},
		{"clubs followed by events", "/v1/clubs/events", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := extractClubID(tt.path)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestExtractClubID_InvalidPaths_ReturnsEmpty(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		path string
	}{
		{"no clubs segment", "/v1/users/me"},
		{"clubs at end", "/v1/clubs"},
		{"clubs with trailing slash", "/v1/clubs/"},
		{"empty path", ""},
		{"root path", "/"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := extractClubID(tt.path)
			if result != "" {
				t.Errorf("expected empty string, got %q", result)
			}
		})
	}
}

// ============================================================================
// Context Helper Tests
// ============================================================================

func TestGetClubID_Present_ReturnsValue(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), ClubIDKey, "club:999")

	result := GetClubID(ctx)

	if result != "club:999" {
		t.Errorf("expected 'club:999', got %q", result)
	}
}

func TestGetClubID_Missing_ReturnsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	result := GetClubID(ctx)

	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestGetClubID_WrongType_ReturnsEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.WithValue(context.Background(), ClubIDKey, 12345) // Wrong type

	result := GetClubID(ctx)

	if result != "" {
		t.Errorf("expected empty string for wrong type, got %q", result)
	}
}
