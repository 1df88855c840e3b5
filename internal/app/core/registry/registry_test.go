// internal/app/core/registry/registry_test.go

package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/collabhub/internal/app/core/collaberr"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore records the filters it receives and replays canned results.
type fakeStore struct {
	name    string
	results []models.Collaboration
	err     error
	gotFind []Filter
}

func (f *fakeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Collaboration, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) Find(ctx context.Context, filter Filter) ([]models.Collaboration, error) {
	f.gotFind = append(f.gotFind, filter)
	return f.results, f.err
}

func (f *fakeStore) AddMember(ctx context.Context, id primitive.ObjectID, member models.Tuple) (bool, error) {
	return false, errors.New("not implemented")
}

func (f *fakeStore) RemoveMember(ctx context.Context, id primitive.ObjectID, member models.Tuple) (bool, error) {
	return false, errors.New("not implemented")
}

func (f *fakeStore) AddMembershipRequest(ctx context.Context, id, userID primitive.ObjectID, workflow string) (*models.MembershipRequest, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) RemoveMembershipRequest(ctx context.Context, id, userID primitive.ObjectID) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeStore) ApproveMembershipRequest(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	return false, errors.New("not implemented")
}

func TestRegisterModelAndLookup(t *testing.T) {
	reg := New()
	store := &fakeStore{name: "first"}

	reg.RegisterModel("community", store)

	got, ok := reg.Model("community")
	if !ok {
		t.Fatal("Model(community) not found after RegisterModel")
	}
	if got.(*fakeStore).name != "first" {
		t.Errorf("Model returned store %q, want %q", got.(*fakeStore).name, "first")
	}

	if _, ok := reg.Model("project"); ok {
		t.Error("Model(project) found, want missing")
	}
}

func TestRegisterModelOverwrites(t *testing.T) {
	reg := New()
	reg.RegisterModel("community", &fakeStore{name: "first"})
	reg.RegisterModel("community", &fakeStore{name: "second"})

	got, ok := reg.Model("community")
	if !ok {
		t.Fatal("Model(community) not found")
	}
	if name := got.(*fakeStore).name; name != "second" {
		t.Errorf("Model returned store %q, want last-registered %q", name, "second")
	}
}

func TestQueryUnregisteredType(t *testing.T) {
	reg := New()

	_, err := reg.Query(context.Background(), "unknown", Filter{})
	if err == nil {
		t.Fatal("Query(unknown) returned nil error, want not-found")
	}
	if !collaberr.IsNotFound(err) {
		t.Errorf("Query(unknown) error = %v, want not-found", err)
	}
}

func TestQueryNormalizesNilResult(t *testing.T) {
	reg := New()
	reg.RegisterModel("community", &fakeStore{results: nil})

	out, err := reg.Query(context.Background(), "community", Filter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if out == nil {
		t.Error("Query returned nil slice, want empty slice")
	}
	if len(out) != 0 {
		t.Errorf("Query returned %d results, want 0", len(out))
	}
}

func TestQueryWrapsStoreError(t *testing.T) {
	reg := New()
	reg.RegisterModel("community", &fakeStore{err: errors.New("connection reset")})

	_, err := reg.Query(context.Background(), "community", Filter{})
	if err == nil {
		t.Fatal("Query returned nil error, want storage error")
	}
	if !collaberr.IsStorage(err) {
		t.Errorf("Query error = %v, want storage", err)
	}
}

func TestQueryPassesFilterThrough(t *testing.T) {
	reg := New()
	store := &fakeStore{results: []models.Collaboration{{Title: "ops"}}}
	reg.RegisterModel("community", store)

	member := models.UserTuple(primitive.NewObjectID())
	f := Filter{Member: &member, Title: "ops"}

	out, err := reg.Query(context.Background(), "community", f)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(out) != 1 || out[0].Title != "ops" {
		t.Errorf("Query results = %+v, want the store's canned result", out)
	}
	if len(store.gotFind) != 1 {
		t.Fatalf("store received %d Find calls, want 1", len(store.gotFind))
	}
	if store.gotFind[0].Title != "ops" || store.gotFind[0].Member == nil {
		t.Errorf("store received filter %+v, want the caller's filter", store.gotFind[0])
	}
}
