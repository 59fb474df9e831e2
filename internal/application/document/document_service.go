package document

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trackle/backend/internal/domain/document"
	"github.com/trackle/backend/internal/domain/identity"
	"github.com/trackle/backend/internal/domain/project"
	"github.com/trackle/backend/internal/domain/shared"
)

// FileStorage is the storage backend for uploaded document files.
// Implemented by the infrastructure layer (local disk, S3).
type FileStorage interface {
	// Save writes the file content under the given key and returns the
	// stored path.
	Save(ctx context.Context, key string, r io.Reader) (string, error)

	// Open returns a reader for the stored file.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a stored file. Deleting a missing file is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Exists checks whether a file is stored under the key.
	Exists(ctx context.Context, key string) (bool, error)
}

// FileUpload is an incoming file from a multipart request
type FileUpload struct {
	Reader   io.Reader
	FileName string
	MimeType string
	Size     int64
}

// DocumentService handles document operations
type DocumentService struct {
	docRepo     document.DocumentRepository
	projectRepo project.ProjectRepository
	storage     FileStorage
	guard       *document.AccessGuard
	logger      *zap.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo document.DocumentRepository,
	projectRepo project.ProjectRepository,
	storage FileStorage,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		docRepo:     docRepo,
		projectRepo: projectRepo,
		storage:     storage,
		guard:       document.NewAccessGuard(),
		logger:      logger,
	}
}

// List returns the page of documents visible to the requester. Total is
// counted against the predicate; documents whose project reference no
// longer resolves are dropped afterwards, so Count may be lower.
func (s *DocumentService) List(ctx context.Context, req identity.Requester, q ListDocumentsRequest) (*ListDocumentsResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	query := document.ListQuery{
		RequesterID: req.ID,
		Privileged:  req.Role.IsPrivileged(),
		Category:    document.Category(q.Category),
		Status:      document.Status(q.Status),
		FileType:    q.FileType,
		UploadedBy:  q.UploadedBy,
		ProjectID:   q.ProjectID,
		Search:      q.Search,
		Page:        q.Page,
		Limit:       q.Limit,
		OrderBy:     q.OrderBy,
		OrderDir:    q.OrderDir,
	}

	// Without an explicit project the listing is scoped to live projects,
	// so documents of soft-deleted projects do not leak.
	if query.ProjectID == nil {
		activeIDs, err := s.projectRepo.FindActiveIDs(ctx)
		if err != nil {
			return nil, err
		}
		query.ActiveProjectIDs = activeIDs
	}

	total, err := s.docRepo.CountMatching(ctx, query)
	if err != nil {
		return nil, err
	}

	docs, err := s.docRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	projects, err := s.resolveProjects(ctx, docs)
	if err != nil {
		return nil, err
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		var summary *ProjectSummary
		if doc.ProjectID != nil {
			p, ok := projects[*doc.ProjectID]
			if !ok {
				// Dangling project reference: drop the row but keep it
				// in the reported total.
				continue
			}
			summary = &ProjectSummary{ID: p.ID, Name: p.Name}
		}
		responses = append(responses, toDocumentResponse(doc, summary))
	}

	return &ListDocumentsResult{
		Documents: responses,
		Total:     total,
		Count:     len(responses),
		Page:      q.Page,
		Limit:     q.Limit,
	}, nil
}

// Get returns one document if the requester may read it
func (s *DocumentService) Get(ctx context.Context, req identity.Requester, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckView(req, doc); err != nil {
		return nil, err
	}

	var summary *ProjectSummary
	if doc.ProjectID != nil {
		if p, perr := s.projectRepo.FindByID(ctx, *doc.ProjectID); perr == nil && !p.Deleted {
			summary = &ProjectSummary{ID: p.ID, Name: p.Name}
		}
	}

	resp := toDocumentResponse(doc, summary)
	return &resp, nil
}

// Create stores the uploaded file and its document record
func (s *DocumentService) Create(ctx context.Context, req identity.Requester, input CreateDocumentRequest, upload FileUpload) (*DocumentResponse, error) {
	doc, err := document.NewDocument(input.Name, document.Category(input.Category), req.ID)
	if err != nil {
		return nil, err
	}
	doc.Description = input.Description

	if input.ProjectID != nil {
		p, perr := s.projectRepo.FindByID(ctx, *input.ProjectID)
		if perr != nil {
			return nil, perr
		}
		if p.Deleted {
			return nil, shared.NewDomainError("PROJECT_DELETED", "Cannot attach documents to a deleted project")
		}
		doc.AssignProject(p.ID)
	}

	key := doc.ID.String() + filepath.Ext(upload.FileName)
	path, err := s.storage.Save(ctx, key, upload.Reader)
	if err != nil {
		return nil, err
	}
	doc.AttachFile(path, upload.FileName, upload.MimeType, upload.Size)

	if err := s.docRepo.Save(ctx, doc); err != nil {
		if derr := s.storage.Delete(ctx, path); derr != nil {
			s.logger.Warn("Failed to remove orphaned upload", zap.String("path", path), zap.Error(derr))
		}
		return nil, err
	}

	if doc.ProjectID != nil {
		ref := project.NewProjectRef(*doc.ProjectID, project.RefTypeDocument, doc.ID)
		if err := s.projectRepo.AddRef(ctx, ref); err != nil {
			s.logger.Warn("Failed to record project document reference",
				zap.String("document_id", doc.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Document created",
		zap.String("document_id", doc.ID.String()),
		zap.String("uploaded_by", req.ID.String()))

	resp := toDocumentResponse(doc, nil)
	return &resp, nil
}

// Update changes document metadata and optionally replaces the stored file
func (s *DocumentService) Update(ctx context.Context, req identity.Requester, id uuid.UUID, input UpdateDocumentRequest, upload *FileUpload) (*DocumentResponse, error) {
	doc, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckModify(req, doc); err != nil {
		return nil, err
	}

	if input.Name != nil {
		doc.Name = *input.Name
	}
	if input.Description != nil {
		doc.Description = *input.Description
	}
	if input.Category != nil {
		category := document.Category(*input.Category)
		if !category.IsValid() {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown document category")
		}
		doc.Category = category
	}

	if input.ProjectID != nil && (doc.ProjectID == nil || *doc.ProjectID != *input.ProjectID) {
		p, perr := s.projectRepo.FindByID(ctx, *input.ProjectID)
		if perr != nil {
			return nil, perr
		}
		if p.Deleted {
			return nil, shared.NewDomainError("PROJECT_DELETED", "Cannot attach documents to a deleted project")
		}
		if doc.ProjectID != nil {
			if rerr := s.projectRepo.RemoveRef(ctx, *doc.ProjectID, project.RefTypeDocument, doc.ID); rerr != nil {
				s.logger.Warn("Failed to remove stale project reference", zap.Error(rerr))
			}
		}
		doc.AssignProject(p.ID)
		ref := project.NewProjectRef(p.ID, project.RefTypeDocument, doc.ID)
		if rerr := s.projectRepo.AddRef(ctx, ref); rerr != nil {
			s.logger.Warn("Failed to record project document reference", zap.Error(rerr))
		}
	}

	if upload != nil {
		oldPath := doc.FilePath
		key := doc.ID.String() + filepath.Ext(upload.FileName)
		path, serr := s.storage.Save(ctx, key, upload.Reader)
		if serr != nil {
			return nil, serr
		}
		doc.AttachFile(path, upload.FileName, upload.MimeType, upload.Size)

		// The previous file may already be gone; that is fine.
		if oldPath != "" && oldPath != path {
			if derr := s.storage.Delete(ctx, oldPath); derr != nil {
				s.logger.Warn("Failed to delete replaced file", zap.String("path", oldPath), zap.Error(derr))
			}
		}
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, err
	}

	resp := toDocumentResponse(doc, nil)
	return &resp, nil
}

// Delete soft-deletes a document
func (s *DocumentService) Delete(ctx context.Context, req identity.Requester, id uuid.UUID) error {
	doc, err := s.findLive(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.CheckModify(req, doc); err != nil {
		return err
	}

	doc.MarkDeleted()
	if err := s.docRepo.Save(ctx, doc); err != nil {
		return err
	}

	if doc.ProjectID != nil {
		if rerr := s.projectRepo.RemoveRef(ctx, *doc.ProjectID, project.RefTypeDocument, doc.ID); rerr != nil {
			s.logger.Warn("Failed to remove project reference on delete", zap.Error(rerr))
		}
	}

	s.logger.Info("Document deleted",
		zap.String("document_id", doc.ID.String()),
		zap.String("deleted_by", req.ID.String()))
	return nil
}

// Share grants read access to the given users
func (s *DocumentService) Share(ctx context.Context, req identity.Requester, id uuid.UUID, input ShareDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckModify(req, doc); err != nil {
		return nil, err
	}

	for _, userID := range input.UserIDs {
		if doc.IsSharedWith(userID) {
			continue
		}
		share := document.NewDocumentShare(doc.ID, userID, req.ID)
		if err := s.docRepo.AddShare(ctx, share); err != nil {
			return nil, err
		}
		doc.Shares = append(doc.Shares, *share)
	}

	resp := toDocumentResponse(doc, nil)
	return &resp, nil
}

// Unshare revokes read access for the given users
func (s *DocumentService) Unshare(ctx context.Context, req identity.Requester, id uuid.UUID, input ShareDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckModify(req, doc); err != nil {
		return nil, err
	}

	for _, userID := range input.UserIDs {
		if err := s.docRepo.RemoveShare(ctx, doc.ID, userID); err != nil {
			return nil, err
		}
	}

	remaining := doc.Shares[:0]
	for _, share := range doc.Shares {
		revoked := false
		for _, userID := range input.UserIDs {
			if share.UserID == userID {
				revoked = true
				break
			}
		}
		if !revoked {
			remaining = append(remaining, share)
		}
	}
	doc.Shares = remaining

	resp := toDocumentResponse(doc, nil)
	return &resp, nil
}

// CategoryCounts returns per-category counts of the documents visible to
// the requester, under the same scoping as List.
func (s *DocumentService) CategoryCounts(ctx context.Context, req identity.Requester) (map[document.Category]int64, error) {
	query := document.ListQuery{
		RequesterID: req.ID,
		Privileged:  req.Role.IsPrivileged(),
	}
	activeIDs, err := s.projectRepo.FindActiveIDs(ctx)
	if err != nil {
		return nil, err
	}
	query.ActiveProjectIDs = activeIDs

	return s.docRepo.CountByCategory(ctx, query)
}

// Download resolves the stored file for a document the requester may read
func (s *DocumentService) Download(ctx context.Context, req identity.Requester, id uuid.UUID) (*DownloadResult, error) {
	doc, err := s.findLive(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckView(req, doc); err != nil {
		return nil, err
	}
	if doc.FilePath == "" {
		return nil, shared.ErrNotFound
	}
	return &DownloadResult{
		FilePath: doc.FilePath,
		FileName: doc.FileName,
		MimeType: doc.MimeType,
	}, nil
}

// OpenFile opens the stored content for streaming
func (s *DocumentService) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.storage.Open(ctx, path)
}

// findLive loads a document, treating soft-deleted ones as missing.
// Existence resolves before any permission check.
func (s *DocumentService) findLive(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	doc, err := s.docRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Deleted {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}

func (s *DocumentService) resolveProjects(ctx context.Context, docs []document.Document) (map[uuid.UUID]*project.Project, error) {
	idSet := make(map[uuid.UUID]struct{})
	for i := range docs {
		if docs[i].ProjectID != nil {
			idSet[*docs[i].ProjectID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return map[uuid.UUID]*project.Project{}, nil
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	projects, err := s.projectRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	resolved := make(map[uuid.UUID]*project.Project, len(projects))
	for i := range projects {
		if projects[i].Deleted {
			continue
		}
		resolved[projects[i].ID] = &projects[i]
	}
	return resolved, nil
}
