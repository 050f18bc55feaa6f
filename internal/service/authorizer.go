package service

import "strings"

// Permission names a capability checked by an Authorizer.
type Permission string

const (
	// PermissionManageDocuments allows uploading, listing and deleting documents.
	PermissionManageDocuments Permission = "manage_documents"
)

// Authorizer decides whether a user holds a permission.
type Authorizer interface {
	Can(userID string, permission Permission) bool
}

// AdminAuthorizer grants every permission to a fixed set of admin users.
// User ids are compared case-insensitively after trimming.
type AdminAuthorizer struct {
	admins map[string]struct{}
}

// NewAdminAuthorizer creates an authorizer for the given admin ids. Blank ids are ignored.
func NewAdminAuthorizer(admins []string) *AdminAuthorizer {
	a := &AdminAuthorizer{admins: make(map[string]struct{}, len(admins))}
	for _, id := range admins {
		if id = normalizeUserID(id); id != "" {
			a.admins[id] = struct{}{}
		}
	}
	return a
}

// Can reports whether userID is an admin.
func (a *AdminAuthorizer) Can(userID string, _ Permission) bool {
	id := normalizeUserID(userID)
	if id == "" {
		return false
	}
	_, ok := a.admins[id]
	return ok
}

func normalizeUserID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
