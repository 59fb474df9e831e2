package docscope

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/trackle/backend/internal/domain/document"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&document.Document{}, &document.DocumentShare{}))
	return db
}

func seedDocument(t *testing.T, db *gorm.DB, name, description string, category document.Category, owner uuid.UUID, projectID *uuid.UUID) *document.Document {
	doc, err := document.NewDocument(name, category, owner)
	require.NoError(t, err)
	doc.Description = description
	if projectID != nil {
		doc.AssignProject(*projectID)
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func listIDs(t *testing.T, db *gorm.DB, q document.ListQuery) []uuid.UUID {
	var docs []document.Document
	require.NoError(t, Apply(db.Model(&document.Document{}), q).Find(&docs).Error)
	ids := make([]uuid.UUID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestApply_Visibility(t *testing.T) {
	db := setupDB(t)
	alice := uuid.New()
	bob := uuid.New()

	aliceDoc := seedDocument(t, db, "Alice notes", "", document.CategoryGeneral, alice, nil)
	bobDoc := seedDocument(t, db, "Bob notes", "", document.CategoryGeneral, bob, nil)
	sharedDoc := seedDocument(t, db, "Shared plan", "", document.CategoryGeneral, bob, nil)
	require.NoError(t, db.Create(document.NewDocumentShare(sharedDoc.ID, alice, bob)).Error)

	t.Run("member sees own and shared only", func(t *testing.T) {
		ids := listIDs(t, db, document.ListQuery{RequesterID: alice})
		assert.ElementsMatch(t, []uuid.UUID{aliceDoc.ID, sharedDoc.ID}, ids)
	})

	t.Run("privileged requester sees everything", func(t *testing.T) {
		ids := listIDs(t, db, document.ListQuery{RequesterID: alice, Privileged: true})
		assert.ElementsMatch(t, []uuid.UUID{aliceDoc.ID, bobDoc.ID, sharedDoc.ID}, ids)
	})

	t.Run("share grants are per user", func(t *testing.T) {
		carol := uuid.New()
		ids := listIDs(t, db, document.ListQuery{RequesterID: carol})
		assert.Empty(t, ids)
	})
}

func TestApply_SearchDoesNotWidenAccess(t *testing.T) {
	db := setupDB(t)
	alice := uuid.New()
	bob := uuid.New()

	mine := seedDocument(t, db, "Quarterly report", "", document.CategoryFinancial, alice, nil)
	seedDocument(t, db, "Quarterly report draft", "", document.CategoryFinancial, bob, nil)
	seedDocument(t, db, "Unrelated memo", "", document.CategoryGeneral, alice, nil)

	t.Run("search is ANDed with visibility", func(t *testing.T) {
		ids := listIDs(t, db, document.ListQuery{RequesterID: alice, Search: "quarterly"})
		assert.Equal(t, []uuid.UUID{mine.ID}, ids)
	})

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		ids := listIDs(t, db, document.ListQuery{RequesterID: alice, Search: "QUARTERLY"})
		assert.Equal(t, []uuid.UUID{mine.ID}, ids)
	})

	t.Run("search matches description", func(t *testing.T) {
		withDesc := seedDocument(t, db, "Attachment", "budget forecast spreadsheet", document.CategoryFinancial, alice, nil)
		ids := listIDs(t, db, document.ListQuery{RequesterID: alice, Search: "forecast"})
		assert.Equal(t, []uuid.UUID{withDesc.ID}, ids)
	})

	t.Run("privileged search spans all documents", func(t *testing.T) {
		ids := listIDs(t, db, document.ListQuery{RequesterID: alice, Privileged: true, Search: "quarterly"})
		assert.Len(t, ids, 2)
	})
}

func TestApply_ProjectScoping(t *testing.T) {
	db := setupDB(t)
	owner := uuid.New()
	liveProject := uuid.New()
	deadProject := uuid.New()

	inLive := seedDocument(t, db, "Live doc", "", document.CategoryGeneral, owner, &liveProject)
	seedDocument(t, db, "Dead doc", "", document.CategoryGeneral, owner, &deadProject)
	unowned := seedDocument(t, db, "Floating doc", "", document.CategoryGeneral, owner, nil)

	t.Run("default scope hides deleted-project documents", func(t *testing.T) {
		ids := listIDs(t, db, document.ListQuery{
			RequesterID:      owner,
			ActiveProjectIDs: []uuid.UUID{liveProject},
		})
		assert.ElementsMatch(t, []uuid.UUID{inLive.ID, unowned.ID}, ids)
	})

	t.Run("explicit project overrides the live-project scope", func(t *testing.T) {
		ids := listIDs(t, db, document.ListQuery{RequesterID: owner, ProjectID: &liveProject})
		assert.Equal(t, []uuid.UUID{inLive.ID}, ids)
	})

	t.Run("no live projects leaves only unowned documents", func(t *testing.T) {
		ids := listIDs(t, db, document.ListQuery{
			RequesterID:      owner,
			ActiveProjectIDs: []uuid.UUID{},
		})
		assert.Equal(t, []uuid.UUID{unowned.ID}, ids)
	})
}

func TestApply_ScalarFilters(t *testing.T) {
	db := setupDB(t)
	owner := uuid.New()

	tax := seedDocument(t, db, "Tax filing", "", document.CategoryTax, owner, nil)
	seedDocument(t, db, "General note", "", document.CategoryGeneral, owner, nil)

	t.Run("category filter", func(t *testing.T) {
		ids := listIDs(t, db, document.ListQuery{RequesterID: owner, Category: document.CategoryTax})
		assert.Equal(t, []uuid.UUID{tax.ID}, ids)
	})

	t.Run("unknown category matches nothing", func(t *testing.T) {
		ids := listIDs(t, db, document.ListQuery{RequesterID: owner, Category: document.Category("bogus")})
		assert.Empty(t, ids)
	})

	t.Run("file type filter", func(t *testing.T) {
		pdf := seedDocument(t, db, "Scan", "", document.CategoryGeneral, owner, nil)
		pdf.AttachFile("documents/scan.pdf", "scan.pdf", "application/pdf", 10)
		require.NoError(t, db.Save(pdf).Error)

		ids := listIDs(t, db, document.ListQuery{RequesterID: owner, FileType: "application/pdf"})
		assert.Equal(t, []uuid.UUID{pdf.ID}, ids)
	})

	t.Run("soft-deleted documents are excluded", func(t *testing.T) {
		gone := seedDocument(t, db, "Gone", "", document.CategoryGeneral, owner, nil)
		gone.MarkDeleted()
		require.NoError(t, db.Save(gone).Error)

		ids := listIDs(t, db, document.ListQuery{RequesterID: owner})
		assert.NotContains(t, ids, gone.ID)
	})
}
