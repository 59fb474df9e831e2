package document

import (
	"github.com/trackle/backend/internal/domain/identity"
	"github.com/trackle/backend/internal/domain/shared"
)

// AccessGuard decides what a requester may do with a single document.
// Existence is always checked before access: a missing document yields
// not-found, never forbidden.
type AccessGuard struct{}

// NewAccessGuard creates an access guard
func NewAccessGuard() *AccessGuard {
	return &AccessGuard{}
}

// CanView reports whether the requester may read the document. Admins
// and managers may always read; otherwise only the uploader and users
// the document was shared with.
func (g *AccessGuard) CanView(req identity.Requester, doc *Document) bool {
	if req.Role.IsPrivileged() {
		return true
	}
	if doc.UploadedBy == req.ID {
		return true
	}
	return doc.IsSharedWith(req.ID)
}

// CanModify reports whether the requester may update, share, or delete
// the document. Shares grant read access only.
func (g *AccessGuard) CanModify(req identity.Requester, doc *Document) bool {
	if req.Role.IsPrivileged() {
		return true
	}
	return doc.UploadedBy == req.ID
}

// CheckView returns ErrForbidden unless the requester may read the document
func (g *AccessGuard) CheckView(req identity.Requester, doc *Document) error {
	if !g.CanView(req, doc) {
		return shared.ErrForbidden
	}
	return nil
}

// CheckModify returns ErrForbidden unless the requester may change the document
func (g *AccessGuard) CheckModify(req identity.Requester, doc *Document) error {
	if !g.CanModify(req, doc) {
		return shared.ErrForbidden
	}
	return nil
}
