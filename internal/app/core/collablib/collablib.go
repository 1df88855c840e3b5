// internal/app/core/collablib/collablib.go

// Package collablib is the query-side registry binding for core
// collaborations: per-user lookups and activity-stream descriptors built on
// the collaboration store and the permission rules.
package collablib

import (
	"context"

	"github.com/dalemusser/collabhub/internal/app/core/collaberr"
	"github.com/dalemusser/collabhub/internal/app/core/permission"
	"github.com/dalemusser/collabhub/internal/app/core/registry"
	collabstore "github.com/dalemusser/collabhub/internal/app/store/collaborations"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lib answers per-user collaboration queries for one registered object type.
type Lib struct {
	store *collabstore.Store
}

var _ registry.Lib = (*Lib)(nil)

// New binds the lib to its backing store.
func New(store *collabstore.Store) *Lib {
	return &Lib{store: store}
}

// GetCollaborationsForUser returns the collaborations the user belongs to,
// optionally narrowed by domain and title and filtered down to writable ones.
func (l *Lib) GetCollaborationsForUser(ctx context.Context, userID primitive.ObjectID, opts registry.QueryOptions) ([]models.Collaboration, error) {
	user := models.UserTuple(userID)
	cs, err := l.store.Find(ctx, registry.Filter{
		Member:   &user,
		DomainID: opts.DomainID,
		Title:    opts.Title,
	})
	if err != nil {
		return nil, collaberr.WrapStorage("find collaborations for user", err)
	}
	if opts.Writable {
		cs = permission.FilterWritable(cs, user)
	}
	return cs, nil
}

// GetStreamsForUser maps the user's collaborations to their activity-stream
// descriptors.
func (l *Lib) GetStreamsForUser(ctx context.Context, userID primitive.ObjectID, opts registry.QueryOptions) ([]registry.Stream, error) {
	cs, err := l.GetCollaborationsForUser(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	streams := make([]registry.Stream, 0, len(cs))
	for _, c := range cs {
		streams = append(streams, registry.Stream{
			UUID: c.ActivityStreamUUID,
			Target: registry.StreamTarget{
				ObjectType:  c.ObjectType,
				ID:          c.ID.Hex(),
				DisplayName: c.Title,
			},
		})
	}
	return streams, nil
}
