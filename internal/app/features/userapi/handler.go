// internal/app/features/userapi/handler.go

// Package userapi serves the signed-in user's own resources: the
// collaborations they belong to and the activity streams those map to.
package userapi

import (
	"github.com/dalemusser/collabhub/internal/app/core/registry"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the userapi feature.
type Handler struct {
	Registry *registry.Registry
	Log      *zap.Logger
}

// NewHandler constructs a userapi Handler.
func NewHandler(reg *registry.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		Registry: reg,
		Log:      logger,
	}
}
