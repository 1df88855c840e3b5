// internal/app/policy/collabpolicy/collabpolicy.go
package collabpolicy

import (
	"context"
	"errors"

	"github.com/dalemusser/collabhub/internal/app/store/domains"
	"github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// ManagerFunc decides whether actor counts as a manager of the collaboration.
// The rule set is deliberately pluggable: deployments can substitute their
// own resolution (LDAP groups, role services) without touching the engine.
// Returns an error only when the decision itself could not be made, allowing
// callers to distinguish "not a manager" (false, nil) from a lookup failure.
type ManagerFunc func(ctx context.Context, actor models.Tuple, c *models.Collaboration) (bool, error)

// Default resolves managers the standard way:
//   - the collaboration creator always is
//   - platform admins always are
//   - administrators of any domain the collaboration belongs to are
//
// Everyone else is not a manager.
func Default(users *userstore.Store, domains *domainstore.Store) ManagerFunc {
	return func(ctx context.Context, actor models.Tuple, c *models.Collaboration) (bool, error) {
		if c.IsCreator(actor) {
			return true, nil
		}

		uid, ok := actor.UserID()
		if !ok {
			// Only user principals can hold manager authority.
			return false, nil
		}

		u, err := users.GetByID(ctx, uid)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return false, nil
			}
			return false, err
		}
		if u.Role == models.RoleAdmin {
			return true, nil
		}

		return domains.AdministratorOfAny(ctx, c.DomainIDs, uid)
	}
}
