// internal/app/features/people/handler.go

// Package people serves the domain-scoped user listing and search API used
// by pickers and invite UIs.
package people

import (
	"github.com/dalemusser/collabhub/internal/app/core/usersearch"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the people feature.
type Handler struct {
	Finder *usersearch.Finder
	Log    *zap.Logger
}

// NewHandler constructs a people Handler.
func NewHandler(finder *usersearch.Finder, logger *zap.Logger) *Handler {
	return &Handler{
		Finder: finder,
		Log:    logger,
	}
}
