package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackle/backend/internal/domain/identity"
)

func requester(role identity.Role) identity.Requester {
	return identity.Requester{ID: uuid.New(), Role: role}
}

func TestAccessGuard_CanView(t *testing.T) {
	guard := NewAccessGuard()
	owner := requester(identity.RoleMember)

	doc, err := NewDocument("Q3 invoice", CategoryFinancial, owner.ID)
	require.NoError(t, err)

	t.Run("uploader can view", func(t *testing.T) {
		assert.True(t, guard.CanView(owner, doc))
	})

	t.Run("admin can view", func(t *testing.T) {
		assert.True(t, guard.CanView(requester(identity.RoleAdmin), doc))
	})

	t.Run("manager can view", func(t *testing.T) {
		assert.True(t, guard.CanView(requester(identity.RoleManager), doc))
	})

	t.Run("unrelated member cannot view", func(t *testing.T) {
		assert.False(t, guard.CanView(requester(identity.RoleMember), doc))
	})

	t.Run("sharee can view", func(t *testing.T) {
		sharee := requester(identity.RoleMember)
		doc.Shares = append(doc.Shares, *NewDocumentShare(doc.ID, sharee.ID, owner.ID))
		assert.True(t, guard.CanView(sharee, doc))
	})
}

func TestAccessGuard_CanModify(t *testing.T) {
	guard := NewAccessGuard()
	owner := requester(identity.RoleMember)

	doc, err := NewDocument("NDA", CategoryLegal, owner.ID)
	require.NoError(t, err)

	sharee := requester(identity.RoleMember)
	doc.Shares = append(doc.Shares, *NewDocumentShare(doc.ID, sharee.ID, owner.ID))

	t.Run("uploader can modify", func(t *testing.T) {
		assert.True(t, guard.CanModify(owner, doc))
	})

	t.Run("share grants read only", func(t *testing.T) {
		assert.True(t, guard.CanView(sharee, doc))
		assert.False(t, guard.CanModify(sharee, doc))
	})

	t.Run("manager can modify", func(t *testing.T) {
		assert.True(t, guard.CanModify(requester(identity.RoleManager), doc))
	})

	t.Run("check modify returns forbidden", func(t *testing.T) {
		err := guard.CheckModify(requester(identity.RoleMember), doc)
		assert.Error(t, err)
	})
}
