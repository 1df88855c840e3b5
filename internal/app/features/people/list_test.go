// internal/app/features/people/list_test.go

package people

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/collabhub/internal/app/core/usersearch"
	userstore "github.com/dalemusser/collabhub/internal/app/store/users"
	"github.com/dalemusser/collabhub/internal/app/system/search"
	"github.com/dalemusser/collabhub/internal/testutil"
	"go.uber.org/zap"
)

func TestServePeopleRequiresDomain(t *testing.T) {
	h := NewHandler(nil, zap.NewNop())

	for _, target := range []string{"/", "/?domain_id=zzz", "/?domain_id="} {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		h.ServePeople(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, w.Code)
		}
	}
}

func TestServePeopleListAndSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	dom := fx.CreateDomain(ctx, "acme")
	ada := fx.CreateUser(ctx, "Ada Lovelace", dom.ID)
	fx.CreateUser(ctx, "Grace Hopper", dom.ID)

	h := NewHandler(usersearch.New(userstore.New(db), search.NewMongoProvider(db)), zap.NewNop())

	// Listing without a query returns the whole domain.
	r := httptest.NewRequest(http.MethodGet, "/?domain_id="+dom.ID.Hex(), nil)
	w := httptest.NewRecorder()
	h.ServePeople(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Total-Count"); got != "2" {
		t.Errorf("X-Total-Count = %q, want %q", got, "2")
	}

	// A query narrows through the search provider.
	r = httptest.NewRequest(http.MethodGet, "/?domain_id="+dom.ID.Hex()+"&query=lovelace", nil)
	w = httptest.NewRecorder()
	h.ServePeople(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	var people []personView
	if err := json.Unmarshal(w.Body.Bytes(), &people); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(people) != 1 || people[0].ID != ada.ID.Hex() {
		t.Errorf("search result = %+v, want only Ada", people)
	}
}

func TestServePeopleOtherDomainInvisible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	dom := fx.CreateDomain(ctx, "acme")
	other := fx.CreateDomain(ctx, "globex")
	fx.CreateUser(ctx, "In Scope", dom.ID)
	fx.CreateUser(ctx, "Out Of Scope", other.ID)

	h := NewHandler(usersearch.New(userstore.New(db), search.NewMongoProvider(db)), zap.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/?domain_id="+dom.ID.Hex(), nil)
	w := httptest.NewRecorder()
	h.ServePeople(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var people []personView
	if err := json.Unmarshal(w.Body.Bytes(), &people); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(people) != 1 || people[0].FullName != "In Scope" {
		t.Errorf("people = %+v, want only the in-scope user", people)
	}
}
