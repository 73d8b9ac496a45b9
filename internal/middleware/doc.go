// Package middleware provides HTTP middleware for the CampusHub API.
//
// The middleware package contains reusable middleware components for
// authentication, authorization, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and user extraction
//   - RateLimit: Request rate limiting per user/IP
//   - Idempotency: Idempotent request handling
//   - ClubAccess: Club membership verification
//
// # Authentication
//
// The auth middleware validates JWT tokens and extracts user information:
//
//	mux.Handle("GET /v1/clubs", authMiddleware(http.HandlerFunc(handler.List)))
//
// After authentication, handlers can access user info:
//
//	userID := middleware.GetUserID(r.Context())
//
// # Rate Limiting
//
// Rate limiting protects against abuse:
//
//	handler = middleware.RateLimit(limiter)(handler)
//
// Limits apply per authenticated user, falling back to client IP.
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetUserID(ctx): Returns authenticated user ID
//   - GetClubID(ctx): Returns club ID from path
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
