package service

import (
	"context"

	"github.com/campushub/api/internal/model"
)

// ConnectionRepository defines the interface for connection and profile storage
type ConnectionRepository interface {
	Create(ctx context.Context, conn *model.Connection) error
	GetByID(ctx context.Context, id string) (*model.Connection, error)
	GetBetween(ctx context.Context, userAID, userBID string) (*model.Connection, error)
	GetForUser(ctx context.Context, userID string, status *model.ConnectionStatus) ([]*model.Connection, error)
	UpdateStatus(ctx context.Context, id string, status model.ConnectionStatus) error
	Delete(ctx context.Context, id string) error
	GetProfile(ctx context.Context, userID string) (*model.NetworkProfile, error)
	UpsertProfile(ctx context.Context, profile *model.NetworkProfile) error
	GetSuggestions(ctx context.Context, userID string, limit int) ([]*model.ConnectionSuggestion, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id, hash string) error
	TouchLogin(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

const defaultSuggestionLimit = 10

// NetworkService handles user-to-user connections, network profiles, and
// shared-club connection suggestions
type NetworkService struct {
	connectionRepo ConnectionRepository
	userRepo       UserRepository
}

// NewNetworkService creates a new network service
func NewNetworkService(connectionRepo ConnectionRepository, userRepo UserRepository) *NetworkService {
	return &NetworkService{
		connectionRepo: connectionRepo,
		userRepo:       userRepo,
	}
}

// SendRequest creates a pending connection request to another user
func (s *NetworkService) SendRequest(ctx context.Context, fromUserID string, req *model.SendConnectionRequest) (*model.Connection, error) {
	if fromUserID == req.ToUserID {
		return nil, ErrCannotConnectSelf
	}

	target, err := s.userRepo.GetByID(ctx, req.ToUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.connectionRepo.GetBetween(ctx, fromUserID, req.ToUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == model.ConnectionBlocked {
			return nil, ErrConnectionBlocked
		}
		return nil, ErrConnectionExists
	}

	conn := &model.Connection{
		FromUserID: fromUserID,
		ToUserID:   req.ToUserID,
		Status:     model.ConnectionPending,
		Message:    req.Message,
	}
	if err := s.connectionRepo.Create(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Respond accepts or blocks a pending connection request. Only the
// recipient decides.
func (s *NetworkService) Respond(ctx context.Context, userID, connectionID string, status model.ConnectionStatus) (*model.Connection, error) {
	conn, err := s.connectionRepo.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, ErrConnectionNotFound
	}
	if conn.ToUserID != userID {
		return nil, ErrNotConnectionParty
	}

	if err := s.connectionRepo.UpdateStatus(ctx, connectionID, status); err != nil {
		return nil, err
	}
	conn.Status = status
	return conn, nil
}

// ListConnections retrieves the user's connections, optionally filtered by status
func (s *NetworkService) ListConnections(ctx context.Context, userID string, status *model.ConnectionStatus) ([]*model.Connection, error) {
	return s.connectionRepo.GetForUser(ctx, userID, status)
}

// RemoveConnection deletes a connection either party created. Blocked
// connections can only be removed by the user who blocked.
func (s *NetworkService) RemoveConnection(ctx context.Context, userID, connectionID string) error {
	conn, err := s.connectionRepo.GetByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn == nil {
		return ErrConnectionNotFound
	}

	switch {
	case conn.Status == model.ConnectionBlocked:
		if conn.ToUserID != userID {
			return ErrNotConnectionParty
		}
	case conn.FromUserID != userID && conn.ToUserID != userID:
		return ErrNotConnectionParty
	}

	return s.connectionRepo.Delete(ctx, connectionID)
}

// GetProfile retrieves a user's network profile
func (s *NetworkService) GetProfile(ctx context.Context, userID string) (*model.NetworkProfile, error) {
	profile, err := s.connectionRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpdateProfile creates or updates the caller's network profile
func (s *NetworkService) UpdateProfile(ctx context.Context, userID string, req *model.UpdateNetworkProfileRequest) (*model.NetworkProfile, error) {
	profile, err := s.connectionRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &model.NetworkProfile{UserID: userID}
	}

	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Skills != nil {
		profile.Skills = *req.Skills
	}
	if req.Interests != nil {
		profile.Interests = *req.Interests
	}
	if req.LinkedInURL != nil {
		profile.LinkedInURL = *req.LinkedInURL
	}
	if req.GitHubURL != nil {
		profile.GitHubURL = *req.GitHubURL
	}

	if err := s.connectionRepo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetSuggestions returns connection candidates ranked by shared club count,
// excluding users the caller is already connected to
func (s *NetworkService) GetSuggestions(ctx context.Context, userID string, limit int) ([]*model.ConnectionSuggestion, error) {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}
	return s.connectionRepo.GetSuggestions(ctx, userID, limit)
}
