package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// ===== Club Errors =====
var (
	ErrClubNotFound        = errors.New("club not found")
	ErrClubNameExists      = errors.New("a club with this name already exists")
	ErrNotClubMember       = errors.New("not a member of this club")
	ErrNotOrganizer        = errors.New("organizer role required for this action")
	ErrAlreadyMember       = errors.New("already a member of this club")
	ErrMembershipNotFound  = errors.New("membership not found")
	ErrLastOrganizer       = errors.New("cannot remove the club's only organizer")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
)

// ===== Merge Errors =====
var (
	ErrMergeRequestNotFound = errors.New("merge request not found")
	ErrMergeAlreadyExists   = errors.New("merge already requested for this pair")
	ErrMergeAlreadyDone     = errors.New("merge already completed")
	ErrMergeNotReady        = errors.New("both clubs must accept before merging")
	ErrMergeWithSelf        = errors.New("cannot merge a club with itself")
	ErrMergeNotParty        = errors.New("club is not a party to this merge request")
	ErrClubAlreadyMerged    = errors.New("club has already been part of a completed merge")
)

// ===== Calendar Errors =====
var (
	ErrCalendarNotFound = errors.New("calendar not found")
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrMeetingConflict  = errors.New("a meeting already exists at this time")
	ErrMirrorReadOnly   = errors.New("mirror calendars cannot be edited directly")
	ErrNotCalendarOwner = errors.New("not authorized to modify this calendar")
)

// ===== Document Errors =====
var (
	ErrManagerNotFound  = errors.New("document manager not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrNotManagerOwner  = errors.New("not authorized to modify this document manager")
)

// ===== Networking Errors =====
var (
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionExists   = errors.New("connection already exists")
	ErrCannotConnectSelf  = errors.New("cannot connect with yourself")
	ErrConnectionBlocked  = errors.New("connection is blocked")
	ErrNotConnectionParty = errors.New("not a party to this connection")
	ErrProfileNotFound    = errors.New("network profile not found")
)
