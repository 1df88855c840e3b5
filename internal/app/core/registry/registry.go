// internal/app/core/registry/registry.go

// Package registry maps an object-type tag ("collaboration" and
// application-defined subtypes) to its backing persistence handle and its
// query/permission implementation, so several collaboration kinds share one
// membership engine. Registration happens once at startup; re-registering a
// tag overwrites the previous binding (last writer wins).
package registry

import (
	"context"

	"github.com/dalemusser/collabhub/internal/app/core/collaberr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter narrows a collaboration lookup. Zero-valued fields are ignored.
type Filter struct {
	Member   *models.Tuple      // members contains this tuple
	DomainID primitive.ObjectID // scoped to this domain
	Title    string             // exact title match
}

// Store is the storage-provider capability a collaboration kind binds to the
// registry. Mutating operations are atomic conditional updates: the guard is
// part of the storage-level filter, and the boolean result reports whether
// the guarded update matched.
type Store interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Collaboration, error)
	Find(ctx context.Context, f Filter) ([]models.Collaboration, error)

	// AddMember appends member to the member list unless already present.
	// Any pending membership request for the same user is removed in the
	// same update, keeping members and requests disjoint.
	AddMember(ctx context.Context, id primitive.ObjectID, member models.Tuple) (bool, error)

	// RemoveMember pulls member from the member list if present.
	RemoveMember(ctx context.Context, id primitive.ObjectID, member models.Tuple) (bool, error)

	// AddMembershipRequest appends a pending entry for userID unless the
	// user already has one or is already a member. The inserted entry is
	// returned; nil means the guard rejected the update.
	AddMembershipRequest(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID, workflow string) (*models.MembershipRequest, error)

	// RemoveMembershipRequest pulls the pending entry for userID and
	// returns how many entries were removed (0 is not an error).
	RemoveMembershipRequest(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) (int64, error)

	// ApproveMembershipRequest atomically moves userID from the pending
	// list into the member list.
	ApproveMembershipRequest(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) (bool, error)
}

// StreamTarget describes the resource behind an activity stream.
type StreamTarget struct {
	ObjectType  string `json:"objectType"`
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Stream is an activity-stream descriptor for one collaboration.
type Stream struct {
	UUID   string       `json:"uuid"`
	Target StreamTarget `json:"target"`
}

// QueryOptions narrows the per-user lookups a Lib serves.
type QueryOptions struct {
	DomainID primitive.ObjectID
	Title    string
	Writable bool // keep only collaborations the user may write into
}

// Lib is the query/permission implementation bound per object type.
type Lib interface {
	GetStreamsForUser(ctx context.Context, userID primitive.ObjectID, opts QueryOptions) ([]Stream, error)
	GetCollaborationsForUser(ctx context.Context, userID primitive.ObjectID, opts QueryOptions) ([]models.Collaboration, error)
}

// Registry holds the objectType bindings. The zero value is not usable; call
// New. Process-wide usage goes through the package-level default registry.
type Registry struct {
	// Bindings happen during single-threaded startup and are read-only
	// afterwards, so plain maps without a mutex match the usage; tests that
	// rebind do so before spawning readers.
	stores map[string]Store
	libs   map[string]Lib
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{
		stores: make(map[string]Store),
		libs:   make(map[string]Lib),
	}
}

// RegisterModel binds objectType to a persistence handle, overwriting any
// previous binding.
func (r *Registry) RegisterModel(objectType string, s Store) {
	r.stores[objectType] = s
}

// RegisterLib binds objectType to a query/permission implementation,
// overwriting any previous binding.
func (r *Registry) RegisterLib(objectType string, l Lib) {
	r.libs[objectType] = l
}

// Model returns the persistence handle bound to objectType.
func (r *Registry) Model(objectType string) (Store, bool) {
	s, ok := r.stores[objectType]
	return s, ok
}

// Lib returns the query implementation bound to objectType.
func (r *Registry) Lib(objectType string) (Lib, bool) {
	l, ok := r.libs[objectType]
	return l, ok
}

// Query dispatches a filtered lookup to the store registered for objectType.
// Empty results are normalized to an empty slice, never nil; lookup failures
// are wrapped as storage errors; an unregistered objectType is a not-found
// error.
func (r *Registry) Query(ctx context.Context, objectType string, f Filter) ([]models.Collaboration, error) {
	s, ok := r.Model(objectType)
	if !ok {
		return nil, collaberr.NewNotFound("no model registered for object type %q", objectType)
	}
	out, err := s.Find(ctx, f)
	if err != nil {
		return nil, collaberr.WrapStorage("query "+objectType, err)
	}
	if out == nil {
		out = []models.Collaboration{}
	}
	return out, nil
}

// Default is the process-wide registry populated at startup.
var Default = New()

// RegisterModel binds objectType on the default registry.
func RegisterModel(objectType string, s Store) { Default.RegisterModel(objectType, s) }

// RegisterLib binds objectType on the default registry.
func RegisterLib(objectType string, l Lib) { Default.RegisterLib(objectType, l) }

// Query runs a lookup against the default registry.
func Query(ctx context.Context, objectType string, f Filter) ([]models.Collaboration, error) {
	return Default.Query(ctx, objectType, f)
}
