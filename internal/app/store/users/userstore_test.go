// internal/app/store/users/userstore_test.go

package userstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/collabhub/internal/app/system/indexes"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/collabhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreateNormalizesFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	u, err := store.Create(ctx, models.User{
		FullName: "  René Dubois ",
		Email:    " RENE@Example.COM ",
	}, "s3cret")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.FullName != "René Dubois" {
		t.Errorf("FullName = %q, want trimmed %q", u.FullName, "René Dubois")
	}
	if u.FullNameCI != "rene dubois" {
		t.Errorf("FullNameCI = %q, want folded %q", u.FullNameCI, "rene dubois")
	}
	if u.Email != "rene@example.com" {
		t.Errorf("Email = %q, want %q", u.Email, "rene@example.com")
	}
	if u.Role != models.RoleUser {
		t.Errorf("Role = %q, want default %q", u.Role, models.RoleUser)
	}
	if u.Status != "active" {
		t.Errorf("Status = %q, want %q", u.Status, "active")
	}
	if len(u.PasswordHash) == 0 {
		t.Error("password not hashed on create")
	}
}

func TestCreateValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	if _, err := store.Create(ctx, models.User{FullName: "No Email"}, ""); err == nil {
		t.Error("Create without email succeeded, want error")
	}
	if _, err := store.Create(ctx, models.User{Email: "a@b.c", Role: "owner"}, ""); err == nil {
		t.Error("Create with unknown role succeeded, want error")
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	store := New(db)

	if _, err := store.Create(ctx, models.User{Email: "dup@example.com"}, ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Same address with different case collides on the normalized form.
	_, err := store.Create(ctx, models.User{Email: "DUP@example.com"}, "")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("Create duplicate error = %v, want ErrDuplicateEmail", err)
	}
}

func TestGetByEmailCaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	created, err := store.Create(ctx, models.User{Email: "casey@example.com"}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.GetByEmail(ctx, "Casey@Example.COM")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByEmail returned %s, want %s", got.ID.Hex(), created.ID.Hex())
	}

	if _, err := store.GetByEmail(ctx, "nobody@example.com"); err != mongo.ErrNoDocuments {
		t.Errorf("GetByEmail(unknown) error = %v, want ErrNoDocuments", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	u, err := store.Create(ctx, models.User{Email: "pw@example.com"}, "correct horse")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !store.VerifyPassword(&u, "correct horse") {
		t.Error("VerifyPassword rejected the right password")
	}
	if store.VerifyPassword(&u, "wrong") {
		t.Error("VerifyPassword accepted the wrong password")
	}

	nopw, err := store.Create(ctx, models.User{Email: "nopw@example.com"}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if store.VerifyPassword(&nopw, "") {
		t.Error("VerifyPassword accepted an empty password for a user without one")
	}
}

func TestGetByIDsPreservesOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	a, err := store.Create(ctx, models.User{Email: "a@example.com"}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := store.Create(ctx, models.User{Email: "b@example.com"}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err := store.GetByIDs(ctx, []primitive.ObjectID{b.ID, primitive.NewObjectID(), a.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("GetByIDs returned %d users, want 2", len(out))
	}
	if out[0].ID != b.ID || out[1].ID != a.ID {
		t.Error("GetByIDs did not preserve the requested order")
	}

	empty, err := store.GetByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("GetByIDs(nil): %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("GetByIDs(nil) = %v, want empty slice", empty)
	}
}

func TestListByDomains(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	fx := testutil.NewFixtures(t, db)
	dom := fx.CreateDomain(ctx, "acme")
	other := fx.CreateDomain(ctx, "globex")

	inDomain := make([]models.User, 0, 3)
	for _, name := range []string{"Ann", "Bob", "Cat"} {
		inDomain = append(inDomain, fx.CreateUser(ctx, name, dom.ID))
	}
	fx.CreateUser(ctx, "Outsider", other.ID)

	users, total, err := store.ListByDomains(ctx, []primitive.ObjectID{dom.ID}, ListOptions{})
	if err != nil {
		t.Fatalf("ListByDomains: %v", err)
	}
	if total != 3 || len(users) != 3 {
		t.Errorf("total = %d, page = %d; want 3, 3", total, len(users))
	}

	// Exclusion shrinks both the page and the total.
	users, total, err = store.ListByDomains(ctx, []primitive.ObjectID{dom.ID}, ListOptions{
		NotIn: []primitive.ObjectID{inDomain[0].ID, inDomain[2].ID},
	})
	if err != nil {
		t.Fatalf("ListByDomains (excluded): %v", err)
	}
	if total != 1 || len(users) != 1 {
		t.Fatalf("total = %d, page = %d; want 1, 1", total, len(users))
	}
	if users[0].ID != inDomain[1].ID {
		t.Errorf("remaining user = %s, want the non-excluded one", users[0].ID.Hex())
	}

	// Paging is deterministic across calls.
	first, total, err := store.ListByDomains(ctx, []primitive.ObjectID{dom.ID}, ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListByDomains (page 1): %v", err)
	}
	second, _, err := store.ListByDomains(ctx, []primitive.ObjectID{dom.ID}, ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListByDomains (page 2): %v", err)
	}
	if total != 3 || len(first) != 2 || len(second) != 1 {
		t.Errorf("paging: total=%d first=%d second=%d; want 3, 2, 1", total, len(first), len(second))
	}
	seen := map[primitive.ObjectID]bool{}
	for _, u := range append(first, second...) {
		if seen[u.ID] {
			t.Errorf("user %s appears on both pages", u.ID.Hex())
		}
		seen[u.ID] = true
	}
}

func TestAddToDomain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	u, err := store.Create(ctx, models.User{Email: "d@example.com"}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	domID := primitive.NewObjectID()

	if err := store.AddToDomain(ctx, u.ID, domID); err != nil {
		t.Fatalf("AddToDomain: %v", err)
	}
	if err := store.AddToDomain(ctx, u.ID, domID); err != nil {
		t.Fatalf("AddToDomain (repeat): %v", err)
	}

	loaded, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	count := 0
	for _, id := range loaded.DomainIDs {
		if id == domID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("domain appears %d times on the user, want 1", count)
	}
}
