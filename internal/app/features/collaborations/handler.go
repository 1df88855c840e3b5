// internal/app/features/collaborations/handler.go
package collaborations

import (
	"github.com/dalemusser/collabhub/internal/app/core/membership"
	"github.com/dalemusser/collabhub/internal/app/core/registry"
	"github.com/dalemusser/collabhub/internal/app/core/usersearch"
	collabstore "github.com/dalemusser/collabhub/internal/app/store/collaborations"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the collaborations feature.
// The membership service drives all state transitions; the stores back the
// read-side listings and the invitable-people search.
type Handler struct {
	Registry *registry.Registry
	Service  *membership.Service
	Collabs  *collabstore.Store
	Users    *userstore.Store
	Finder   *usersearch.Finder
	Log      *zap.Logger
}

// NewHandler constructs a collaborations Handler. It is typically called
// from the bootstrap BuildHandler function.
func NewHandler(reg *registry.Registry, svc *membership.Service, collabs *collabstore.Store, users *userstore.Store, finder *usersearch.Finder, logger *zap.Logger) *Handler {
	return &Handler{
		Registry: reg,
		Service:  svc,
		Collabs:  collabs,
		Users:    users,
		Finder:   finder,
		Log:      logger,
	}
}
