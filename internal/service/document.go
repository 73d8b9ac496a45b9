package service

import (
	"context"

	"github.com/campushub/api/internal/model"
)

// DocumentRepository defines the interface for document storage
type DocumentRepository interface {
	CreateManager(ctx context.Context, manager *model.DocumentManager) error
	GetManagerByID(ctx context.Context, id string) (*model.DocumentManager, error)
	GetManagersForClub(ctx context.Context, clubID string) ([]*model.DocumentManager, error)
	GetManagersForUser(ctx context.Context, userID string) ([]*model.DocumentManager, error)
	DeleteManager(ctx context.Context, id string) error
	CreateDocument(ctx context.Context, doc *model.Document) error
	GetDocumentByID(ctx context.Context, id string) (*model.Document, error)
	GetDocumentsForManager(ctx context.Context, managerID string) ([]*model.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentService handles document manager and document operations
type DocumentService struct {
	documentRepo   DocumentRepository
	clubRepo       ClubRepository
	membershipRepo MembershipRepository
}

// NewDocumentService creates a new document service
func NewDocumentService(documentRepo DocumentRepository, clubRepo ClubRepository, membershipRepo MembershipRepository) *DocumentService {
	return &DocumentService{
		documentRepo:   documentRepo,
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
	}
}

// CreateManager creates a document manager owned by a club or by the
// caller. Club-owned managers require the organizer role.
func (s *DocumentService) CreateManager(ctx context.Context, userID string, req *model.CreateDocumentManagerRequest) (*model.DocumentManager, error) {
	var owner model.Owner
	if req.ClubID != "" {
		if err := s.requireOrganizer(ctx, userID, req.ClubID); err != nil {
			return nil, err
		}
		owner = model.ClubOwner(req.ClubID)
	} else {
		owner = model.UserOwner(userID)
	}

	manager := &model.DocumentManager{
		Name:  req.Name,
		Owner: owner,
	}
	if err := s.documentRepo.CreateManager(ctx, manager); err != nil {
		return nil, err
	}
	return manager, nil
}

// GetManager retrieves a document manager readable by the user
func (s *DocumentService) GetManager(ctx context.Context, userID, managerID string) (*model.DocumentManager, error) {
	manager, err := s.documentRepo.GetManagerByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, ErrManagerNotFound
	}
	if err := s.requireReadAccess(ctx, userID, manager); err != nil {
		return nil, err
	}
	return manager, nil
}

// ListClubManagers retrieves a club's document managers. Member access required.
func (s *DocumentService) ListClubManagers(ctx context.Context, userID, clubID string) ([]*model.DocumentManager, error) {
	membership, err := s.membershipRepo.GetByUserAndClub(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNotClubMember
	}
	return s.documentRepo.GetManagersForClub(ctx, clubID)
}

// ListUserManagers retrieves the caller's own document managers
func (s *DocumentService) ListUserManagers(ctx context.Context, userID string) ([]*model.DocumentManager, error) {
	return s.documentRepo.GetManagersForUser(ctx, userID)
}

// DeleteManager deletes a document manager along with its documents
func (s *DocumentService) DeleteManager(ctx context.Context, userID, managerID string) error {
	manager, err := s.documentRepo.GetManagerByID(ctx, managerID)
	if err != nil {
		return err
	}
	if manager == nil {
		return ErrManagerNotFound
	}
	if err := s.requireWriteAccess(ctx, userID, manager); err != nil {
		return err
	}
	return s.documentRepo.DeleteManager(ctx, managerID)
}

// AddDocument registers an uploaded document under a manager
func (s *DocumentService) AddDocument(ctx context.Context, userID string, req *model.CreateDocumentRequest) (*model.Document, error) {
	manager, err := s.documentRepo.GetManagerByID(ctx, req.ManagerID)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, ErrManagerNotFound
	}
	if err := s.requireWriteAccess(ctx, userID, manager); err != nil {
		return nil, err
	}

	doc := &model.Document{
		ManagerID:   req.ManagerID,
		Title:       req.Title,
		StorageKey:  req.StorageKey,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	}
	if err := s.documentRepo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments retrieves all documents under a manager
func (s *DocumentService) ListDocuments(ctx context.Context, userID, managerID string) ([]*model.Document, error) {
	manager, err := s.documentRepo.GetManagerByID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, ErrManagerNotFound
	}
	if err := s.requireReadAccess(ctx, userID, manager); err != nil {
		return nil, err
	}
	return s.documentRepo.GetDocumentsForManager(ctx, managerID)
}

// RemoveDocument removes a document record
func (s *DocumentService) RemoveDocument(ctx context.Context, userID, documentID string) error {
	doc, err := s.documentRepo.GetDocumentByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	manager, err := s.documentRepo.GetManagerByID(ctx, doc.ManagerID)
	if err != nil {
		return err
	}
	if manager == nil {
		return ErrManagerNotFound
	}
	if err := s.requireWriteAccess(ctx, userID, manager); err != nil {
		return err
	}
	return s.documentRepo.DeleteDocument(ctx, documentID)
}

// requireReadAccess checks the user may see a manager: their own, or any
// manager of a club they belong to
func (s *DocumentService) requireReadAccess(ctx context.Context, userID string, manager *model.DocumentManager) error {
	if manager.Owner.IsUser() {
		if manager.Owner.ID != userID {
			return ErrNotManagerOwner
		}
		return nil
	}

	membership, err := s.membershipRepo.GetByUserAndClub(ctx, userID, manager.Owner.ID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNotClubMember
	}
	return nil
}

// requireWriteAccess checks the user may mutate a manager: their own, or a
// club manager where they hold the organizer role
func (s *DocumentService) requireWriteAccess(ctx context.Context, userID string, manager *model.DocumentManager) error {
	if manager.Owner.IsUser() {
		if manager.Owner.ID != userID {
			return ErrNotManagerOwner
		}
		return nil
	}
	return s.requireOrganizer(ctx, userID, manager.Owner.ID)
}

func (s *DocumentService) requireOrganizer(ctx context.Context, userID, clubID string) error {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return err
	}
	if club == nil {
		return ErrClubNotFound
	}

	membership, err := s.membershipRepo.GetByUserAndClub(ctx, userID, clubID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrNotClubMember
	}
	if !membership.Role.IsOrganizer() {
		return ErrNotOrganizer
	}
	return nil
}
