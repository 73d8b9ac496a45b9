// Package helpers provides test utility functions for the CampusHub API.
//
// The helpers package contains request builders, response assertions,
// JWT token generation, and pointer helpers shared by acceptance tests.
//
// # Request Building
//
// Build authenticated HTTP requests fluently:
//
//	req := helpers.NewRequest(t, "POST", "/v1/clubs").
//	    WithBody(map[string]string{"name": "Chess Club"}).
//	    WithAuth(jwtHelper, user).
//	    Build()
//
// # JWT Helpers
//
// Generate test tokens signed with an ephemeral RSA key:
//
//	jwtHelper := helpers.NewJWTHelper(t)
//	token := jwtHelper.GenerateToken(user)
//	expired := jwtHelper.GenerateExpiredToken(user)
//
// # Assertion Helpers
//
// Assert on responses and database state:
//
//	helpers.AssertStatus(t, resp, http.StatusCreated)
//	helpers.AssertProblemDetails(t, resp, 404, model.ErrCodeNotFound)
//	helpers.AssertRecordExists(t, db, "club", clubID)
//
// # Pointer Helpers
//
// Create pointers to literal values:
//
//	name := helpers.StringPtr("test")
//	count := helpers.IntPtr(42)
package helpers
