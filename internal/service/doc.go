// Package service implements the business logic layer for the CampusHub API.
//
// The service package contains all domain logic, authorization rules, and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts repository dependencies
//   - Methods implement business operations with proper authorization checks
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Cross-Service Propagation
//
// Club membership changes and club calendar mutations propagate into
// member mirror calendars. The propagation surface is split into two
// small interfaces so callers depend only on what they invoke:
//
//   - MirrorSyncer (OnMemberJoin, OnMemberLeave) used by ClubService
//     and MergeService
//   - MirrorPropagator (OnMeetingCreated/Updated/Deleted) used by
//     CalendarService
//
// Both are implemented by MirrorService, the sole writer of mirror
// calendars and mirror meetings.
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrClubNotFound  = errors.New("club not found")
//	    ErrNotClubMember = errors.New("not a member of this club")
//	)
package service
