// internal/app/core/usersearch/usersearch.go

// Package usersearch answers "users in these domains, optionally excluding
// everyone already attached to collaboration X" — the listing behind member
// pickers and invitable-people endpoints.
package usersearch

import (
	"context"

	"github.com/dalemusser/collabhub/internal/app/core/collaberr"
	"github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/search"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Finder combines the user store with a pluggable search provider.
type Finder struct {
	users    *userstore.Store
	provider search.Provider
}

// New constructs a Finder.
func New(users *userstore.Store, provider search.Provider) *Finder {
	return &Finder{users: users, provider: provider}
}

// ListOptions controls GetUsersList.
type ListOptions struct {
	Limit  int
	Offset int
	// NotInCollaboration excludes every user who is a member of, or has a
	// pending membership request on, the given collaboration.
	NotInCollaboration *models.Collaboration
}

// SearchOptions controls GetUsersSearch.
type SearchOptions struct {
	Search             string
	Limit              int
	Offset             int
	NotInCollaboration *models.Collaboration
}

// GetUsersList returns the users belonging to any of the supplied domains,
// in stable _id order, plus the pre-pagination total. An empty domain list
// fails fast with a validation error before any store call.
func (f *Finder) GetUsersList(ctx context.Context, domainIDs []primitive.ObjectID, opts ListOptions) ([]models.User, int64, error) {
	if len(domainIDs) == 0 {
		return nil, 0, collaberr.NewValidation("at least one domain is required")
	}
	list, total, err := f.users.ListByDomains(ctx, domainIDs, userstore.ListOptions{
		Limit:  opts.Limit,
		Offset: opts.Offset,
		NotIn:  ExcludedUserIDs(opts.NotInCollaboration),
	})
	if err != nil {
		return nil, 0, collaberr.WrapStorage("list users by domains", err)
	}
	return list, total, nil
}

// GetUsersSearch returns the users of the supplied domains matching the
// query, ranked by the search provider, plus the pre-pagination match count.
func (f *Finder) GetUsersSearch(ctx context.Context, domainIDs []primitive.ObjectID, opts SearchOptions) ([]models.User, int64, error) {
	if len(domainIDs) == 0 {
		return nil, 0, collaberr.NewValidation("at least one domain is required")
	}
	ids, total, err := f.provider.Search(ctx, domainIDs, opts.Search, opts.Limit, opts.Offset,
		ExcludedUserIDs(opts.NotInCollaboration))
	if err != nil {
		return nil, 0, collaberr.WrapSearch("user search", err)
	}

	// Hydrate in provider order so relevance ranking survives.
	list, err := f.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, collaberr.WrapStorage("load searched users", err)
	}
	return list, total, nil
}

// ExcludedUserIDs collects the user ids attached to a collaboration: every
// user-tuple member plus every pending requester, regardless of workflow.
// A nil collaboration yields nil (no exclusion).
func ExcludedUserIDs(c *models.Collaboration) []primitive.ObjectID {
	if c == nil {
		return nil
	}
	seen := make(map[primitive.ObjectID]struct{})
	var out []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, m := range c.Members {
		if uid, ok := m.Member.UserID(); ok {
			add(uid)
		}
	}
	for _, r := range c.MembershipRequests {
		add(r.User)
	}
	return out
}
