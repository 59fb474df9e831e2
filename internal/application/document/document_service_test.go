package document

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trackle/backend/internal/domain/document"
	"github.com/trackle/backend/internal/domain/identity"
	"github.com/trackle/backend/internal/domain/project"
	"github.com/trackle/backend/internal/domain/shared"
)

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, query document.ListQuery) ([]document.Document, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]document.Document), args.Error(1)
}

func (m *MockDocumentRepository) CountMatching(ctx context.Context, query document.ListQuery) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) AddShare(ctx context.Context, share *document.DocumentShare) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}

func (m *MockDocumentRepository) RemoveShare(ctx context.Context, documentID, userID uuid.UUID) error {
	args := m.Called(ctx, documentID, userID)
	return args.Error(0)
}

func (m *MockDocumentRepository) CountByCategory(ctx context.Context, query document.ListQuery) (map[document.Category]int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(map[document.Category]int64), args.Error(1)
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]project.Project, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]project.Project, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) AddRef(ctx context.Context, ref *project.ProjectRef) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

func (m *MockProjectRepository) RemoveRef(ctx context.Context, projectID uuid.UUID, refType project.RefType, refID uuid.UUID) error {
	args := m.Called(ctx, projectID, refType, refID)
	return args.Error(0)
}

// MockFileStorage is a mock implementation of FileStorage
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	args := m.Called(ctx, key, r)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockFileStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type serviceMocks struct {
	docRepo     *MockDocumentRepository
	projectRepo *MockProjectRepository
	storage     *MockFileStorage
}

func newService() (*DocumentService, serviceMocks) {
	m := serviceMocks{
		docRepo:     new(MockDocumentRepository),
		projectRepo: new(MockProjectRepository),
		storage:     new(MockFileStorage),
	}
	svc := NewDocumentService(m.docRepo, m.projectRepo, m.storage, zap.NewNop())
	return svc, m
}

func requester(role identity.Role) identity.Requester {
	return identity.Requester{ID: uuid.New(), Role: role}
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("missing document is not found, not forbidden", func(t *testing.T) {
		svc, m := newService()
		id := uuid.New()
		m.docRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Get(ctx, requester(identity.RoleMember), id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("soft-deleted document reads as not found", func(t *testing.T) {
		svc, m := newService()
		owner := requester(identity.RoleMember)
		doc, err := document.NewDocument("Old NDA", document.CategoryLegal, owner.ID)
		require.NoError(t, err)
		doc.MarkDeleted()
		m.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

		_, err = svc.Get(ctx, owner, doc.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unrelated member is forbidden", func(t *testing.T) {
		svc, m := newService()
		owner := requester(identity.RoleMember)
		doc, err := document.NewDocument("Budget", document.CategoryFinancial, owner.ID)
		require.NoError(t, err)
		m.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

		_, err = svc.Get(ctx, requester(identity.RoleMember), doc.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("total keeps predicate count while dangling projects drop rows", func(t *testing.T) {
		svc, m := newService()
		req := requester(identity.RoleAdmin)

		liveProject, err := project.NewProject("Atlas", "", req.ID)
		require.NoError(t, err)
		goneProjectID := uuid.New()

		docA, err := document.NewDocument("Plan", document.CategoryGeneral, req.ID)
		require.NoError(t, err)
		docA.AssignProject(liveProject.ID)
		docB, err := document.NewDocument("Orphan", document.CategoryGeneral, req.ID)
		require.NoError(t, err)
		docB.AssignProject(goneProjectID)

		m.projectRepo.On("FindActiveIDs", ctx).Return([]uuid.UUID{liveProject.ID}, nil)
		m.docRepo.On("CountMatching", ctx, mock.Anything).Return(int64(2), nil)
		m.docRepo.On("List", ctx, mock.Anything).Return([]document.Document{*docA, *docB}, nil)
		m.projectRepo.On("FindByIDs", ctx, mock.Anything).Return([]project.Project{*liveProject}, nil)

		result, err := svc.List(ctx, req, ListDocumentsRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Total)
		assert.Equal(t, 1, result.Count)
		require.Len(t, result.Documents, 1)
		assert.Equal(t, "Plan", result.Documents[0].Name)
	})

	t.Run("explicit project skips the active-project lookup", func(t *testing.T) {
		svc, m := newService()
		req := requester(identity.RoleMember)
		projectID := uuid.New()

		m.docRepo.On("CountMatching", ctx, mock.MatchedBy(func(q document.ListQuery) bool {
			return q.ProjectID != nil && *q.ProjectID == projectID && len(q.ActiveProjectIDs) == 0
		})).Return(int64(0), nil)
		m.docRepo.On("List", ctx, mock.Anything).Return([]document.Document{}, nil)

		result, err := svc.List(ctx, req, ListDocumentsRequest{ProjectID: &projectID})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
		m.projectRepo.AssertNotCalled(t, "FindActiveIDs", mock.Anything)
	})

	t.Run("member queries are never privileged", func(t *testing.T) {
		svc, m := newService()
		req := requester(identity.RoleMember)

		m.projectRepo.On("FindActiveIDs", ctx).Return([]uuid.UUID{}, nil)
		m.docRepo.On("CountMatching", ctx, mock.MatchedBy(func(q document.ListQuery) bool {
			return !q.Privileged && q.RequesterID == req.ID
		})).Return(int64(0), nil)
		m.docRepo.On("List", ctx, mock.Anything).Return([]document.Document{}, nil)

		_, err := svc.List(ctx, req, ListDocumentsRequest{Search: "report"})
		require.NoError(t, err)
		m.docRepo.AssertExpectations(t)
	})
}

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("replacing the file deletes the old one", func(t *testing.T) {
		svc, m := newService()
		owner := requester(identity.RoleMember)

		doc, err := document.NewDocument("Contract", document.CategoryLegal, owner.ID)
		require.NoError(t, err)
		doc.AttachFile("documents/old.pdf", "old.pdf", "application/pdf", 100)

		m.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		m.storage.On("Save", ctx, mock.Anything, mock.Anything).Return("documents/new.pdf", nil)
		m.storage.On("Delete", ctx, "documents/old.pdf").Return(nil)
		m.docRepo.On("Save", ctx, doc).Return(nil)

		upload := &FileUpload{Reader: bytes.NewReader([]byte("new")), FileName: "new.pdf", MimeType: "application/pdf", Size: 3}
		resp, err := svc.Update(ctx, owner, doc.ID, UpdateDocumentRequest{}, upload)
		require.NoError(t, err)
		assert.Equal(t, "new.pdf", resp.FileName)
		m.storage.AssertExpectations(t)
	})

	t.Run("a missing old file does not fail the update", func(t *testing.T) {
		svc, m := newService()
		owner := requester(identity.RoleMember)

		doc, err := document.NewDocument("Contract", document.CategoryLegal, owner.ID)
		require.NoError(t, err)
		doc.AttachFile("documents/gone.pdf", "gone.pdf", "application/pdf", 100)

		m.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
		m.storage.On("Save", ctx, mock.Anything, mock.Anything).Return("documents/new.pdf", nil)
		m.storage.On("Delete", ctx, "documents/gone.pdf").Return(assert.AnError)
		m.docRepo.On("Save", ctx, doc).Return(nil)

		upload := &FileUpload{Reader: bytes.NewReader([]byte("new")), FileName: "new.pdf", MimeType: "application/pdf", Size: 3}
		_, err = svc.Update(ctx, owner, doc.ID, UpdateDocumentRequest{}, upload)
		require.NoError(t, err)
	})

	t.Run("sharee cannot update", func(t *testing.T) {
		svc, m := newService()
		owner := requester(identity.RoleMember)
		sharee := requester(identity.RoleMember)

		doc, err := document.NewDocument("Contract", document.CategoryLegal, owner.ID)
		require.NoError(t, err)
		doc.Shares = append(doc.Shares, *document.NewDocumentShare(doc.ID, sharee.ID, owner.ID))
		m.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

		name := "Renamed"
		_, err = svc.Update(ctx, sharee, doc.ID, UpdateDocumentRequest{Name: &name}, nil)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestDocumentService_Share(t *testing.T) {
	ctx := context.Background()
	svc, m := newService()
	owner := requester(identity.RoleMember)

	doc, err := document.NewDocument("Roadmap", document.CategoryGeneral, owner.ID)
	require.NoError(t, err)

	userA := uuid.New()
	m.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)
	m.docRepo.On("AddShare", ctx, mock.MatchedBy(func(s *document.DocumentShare) bool {
		return s.DocumentID == doc.ID && s.UserID == userA
	})).Return(nil).Once()

	resp, err := svc.Share(ctx, owner, doc.ID, ShareDocumentRequest{UserIDs: []uuid.UUID{userA}})
	require.NoError(t, err)
	assert.Contains(t, resp.SharedWith, userA)

	t.Run("sharing twice is a no-op", func(t *testing.T) {
		resp, err := svc.Share(ctx, owner, doc.ID, ShareDocumentRequest{UserIDs: []uuid.UUID{userA}})
		require.NoError(t, err)
		assert.Len(t, resp.SharedWith, 1)
		m.docRepo.AssertExpectations(t)
	})
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("read access is required", func(t *testing.T) {
		svc, m := newService()
		owner := requester(identity.RoleMember)
		doc, err := document.NewDocument("Ledger", document.CategoryFinancial, owner.ID)
		require.NoError(t, err)
		doc.AttachFile("documents/ledger.xlsx", "ledger.xlsx", "application/vnd.ms-excel", 2048)
		m.docRepo.On("FindByID", ctx, doc.ID).Return(doc, nil)

		_, err = svc.Download(ctx, requester(identity.RoleMember), doc.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)

		result, err := svc.Download(ctx, owner, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, "documents/ledger.xlsx", result.FilePath)
		assert.Equal(t, "ledger.xlsx", result.FileName)
	})
}
