package photos

import (
	"fmt"

	"github.com/migueltorresd/gallery/internal/common"
	"github.com/migueltorresd/gallery/internal/models"
)

// namespace is the per-user partition of storage keys and filenames. Both
// parts derive deterministically from the user id, so galleries of users
// sharing a device can never collide.
type namespace struct {
	storageKey string
	filePrefix string
}

func namespaceFor(u *models.User) namespace {
	return namespace{
		storageKey: fmt.Sprintf("photos_user_%d", u.ID),
		filePrefix: fmt.Sprintf("user_%d_", u.ID),
	}
}

// resolveNamespace is the boundary check every user-scoped operation goes
// through: no authenticated user, no namespace.
func (s *Store) resolveNamespace() (namespace, error) {
	user := s.identity.CurrentUser()
	if user == nil {
		return namespace{}, common.ErrNotAuthenticated
	}
	return namespaceFor(user), nil
}
