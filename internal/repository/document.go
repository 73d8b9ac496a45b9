package repository

import (
	"context"
	"errors"

	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/model"
)

// DocumentRepository handles document manager and document data access
type DocumentRepository struct {
	db database.Database
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db database.Database) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// CreateManager creates a new document manager
func (r *DocumentRepository) CreateManager(ctx context.Context, manager *model.DocumentManager) error {
	query := `
		CREATE document_manager CONTENT {
			name: $name,
			owner_kind: $owner_kind,
			owner: type::record($owner_id),
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"name":       manager.Name,
		"owner_kind": manager.Owner.Kind,
		"owner_id":   manager.Owner.ID,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	manager.ID = created.ID
	manager.CreatedOn = created.CreatedOn
	manager.UpdatedOn = created.UpdatedOn
	return nil
}

// GetManagerByID retrieves a document manager by ID
func (r *DocumentRepository) GetManagerByID(ctx context.Context, id string) (*model.DocumentManager, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeManager(data), nil
}

// GetManagersForClub retrieves all document managers owned by a club
func (r *DocumentRepository) GetManagersForClub(ctx context.Context, clubID string) ([]*model.DocumentManager, error) {
	query := `
		SELECT * FROM document_manager
		WHERE owner_kind = 'club' AND owner = type::record($club_id)
		ORDER BY name ASC
	`
	vars := map[string]interface{}{"club_id": clubID}

	return r.queryManagers(ctx, query, vars)
}

// GetManagersForUser retrieves all document managers owned by a user
func (r *DocumentRepository) GetManagersForUser(ctx context.Context, userID string) ([]*model.DocumentManager, error) {
	query := `
		SELECT * FROM document_manager
		WHERE owner_kind = 'user' AND owner = type::record($user_id)
		ORDER BY name ASC
	`
	vars := map[string]interface{}{"user_id": userID}

	return r.queryManagers(ctx, query, vars)
}

func (r *DocumentRepository) queryManagers(ctx context.Context, query string, vars map[string]interface{}) ([]*model.DocumentManager, error) {
	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	managers := make([]*model.DocumentManager, 0)
	for _, data := range unwrapRecords(results) {
		managers = append(managers, decodeManager(data))
	}
	return managers, nil
}

// DeleteManager deletes a document manager and its documents
func (r *DocumentRepository) DeleteManager(ctx context.Context, id string) error {
	batch := database.NewAtomicBatch()
	batch.Add(`DELETE document WHERE manager = type::record($manager_id)`, map[string]interface{}{
		"manager_id": id,
	})
	batch.Add(`DELETE type::record($id)`, map[string]interface{}{
		"id": id,
	})
	return batch.Execute(ctx, r.db)
}

// CreateDocument registers an uploaded document under a manager
func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *model.Document) error {
	query := `
		CREATE document CONTENT {
			manager: type::record($manager_id),
			title: $title,
			storage_key: $storage_key,
			content_type: IF $content_type IS NOT NULL THEN $content_type ELSE NONE END,
			size_bytes: $size_bytes,
			uploaded_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"manager_id":   doc.ManagerID,
		"title":        doc.Title,
		"storage_key":  doc.StorageKey,
		"content_type": nilIfEmpty(doc.ContentType),
		"size_bytes":   doc.SizeBytes,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	doc.ID = created.ID
	return nil
}

// GetDocumentByID retrieves a document by ID
func (r *DocumentRepository) GetDocumentByID(ctx context.Context, id string) (*model.Document, error) {
	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return decodeDocument(data), nil
}

// GetDocumentsForManager retrieves all documents under a manager
func (r *DocumentRepository) GetDocumentsForManager(ctx context.Context, managerID string) ([]*model.Document, error) {
	query := `SELECT * FROM document WHERE manager = type::record($manager_id) ORDER BY uploaded_on DESC`
	vars := map[string]interface{}{"manager_id": managerID}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	docs := make([]*model.Document, 0)
	for _, data := range unwrapRecords(results) {
		docs = append(docs, decodeDocument(data))
	}
	return docs, nil
}

// DeleteDocument removes a document record
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id string) error {
	query := `DELETE type::record($id)`
	vars := map[string]interface{}{"id": id}

	return r.db.Execute(ctx, query, vars)
}

func decodeManager(data map[string]interface{}) *model.DocumentManager {
	manager := &model.DocumentManager{
		ID:   convertSurrealID(data["id"]),
		Name: getString(data, "name"),
		Owner: model.Owner{
			Kind: model.OwnerKind(getString(data, "owner_kind")),
			ID:   convertSurrealID(data["owner"]),
		},
	}
	if t := getTime(data, "created_on"); t != nil {
		manager.CreatedOn = *t
	}
	if t := getTime(data, "updated_on"); t != nil {
		manager.UpdatedOn = *t
	}
	return manager
}

func decodeDocument(data map[string]interface{}) *model.Document {
	doc := &model.Document{
		ID:          convertSurrealID(data["id"]),
		ManagerID:   convertSurrealID(data["manager"]),
		Title:       getString(data, "title"),
		StorageKey:  getString(data, "storage_key"),
		ContentType: getString(data, "content_type"),
		SizeBytes:   int64(getInt(data, "size_bytes")),
	}
	if t := getTime(data, "uploaded_on"); t != nil {
		doc.UploadedOn = *t
	}
	return doc
}
