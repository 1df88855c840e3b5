// internal/app/core/collablib/collablib_test.go

package collablib

import (
	"testing"

	"github.com/dalemusser/collabhub/internal/app/core/registry"
	collabstore "github.com/dalemusser/collabhub/internal/app/store/collaborations"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/collabhub/internal/testutil"
)

func TestGetCollaborationsForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	dom := fx.CreateDomain(ctx, "acme")
	other := fx.CreateDomain(ctx, "globex")
	user := fx.CreateUser(ctx, "Member", dom.ID)
	creator := fx.CreateUser(ctx, "Creator", dom.ID)

	mine := fx.CreateCollaboration(ctx, "Mine", models.CollaborationTypeOpen, models.UserTuple(user.ID), dom.ID)
	joined := fx.CreateCollaboration(ctx, "Joined", models.CollaborationTypeRestricted, models.UserTuple(creator.ID), dom.ID)
	fx.AddMember(ctx, joined.ID, models.UserTuple(user.ID))
	fx.CreateCollaboration(ctx, "NotMine", models.CollaborationTypeOpen, models.UserTuple(creator.ID), dom.ID)
	elsewhere := fx.CreateCollaboration(ctx, "Elsewhere", models.CollaborationTypeOpen, models.UserTuple(user.ID), other.ID)

	lib := New(collabstore.New(db))

	cs, err := lib.GetCollaborationsForUser(ctx, user.ID, registry.QueryOptions{})
	if err != nil {
		t.Fatalf("GetCollaborationsForUser: %v", err)
	}
	if len(cs) != 3 {
		t.Fatalf("got %d collaborations, want 3 memberships", len(cs))
	}

	cs, err = lib.GetCollaborationsForUser(ctx, user.ID, registry.QueryOptions{DomainID: other.ID})
	if err != nil {
		t.Fatalf("GetCollaborationsForUser (domain): %v", err)
	}
	if len(cs) != 1 || cs[0].ID != elsewhere.ID {
		t.Errorf("domain filter returned %d results, want only %q", len(cs), "Elsewhere")
	}

	cs, err = lib.GetCollaborationsForUser(ctx, user.ID, registry.QueryOptions{Title: "Mine"})
	if err != nil {
		t.Fatalf("GetCollaborationsForUser (title): %v", err)
	}
	if len(cs) != 1 || cs[0].ID != mine.ID {
		t.Errorf("title filter returned %d results, want only %q", len(cs), "Mine")
	}
}

func TestGetCollaborationsForUserWritable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	dom := fx.CreateDomain(ctx, "acme")
	user := fx.CreateUser(ctx, "Member", dom.ID)

	// Membership makes every tier writable, so the writable filter keeps all
	// of the user's collaborations regardless of visibility.
	fx.CreateCollaboration(ctx, "Open", models.CollaborationTypeOpen, models.UserTuple(user.ID), dom.ID)
	fx.CreateCollaboration(ctx, "Confidential", models.CollaborationTypeConfidential, models.UserTuple(user.ID), dom.ID)

	lib := New(collabstore.New(db))
	cs, err := lib.GetCollaborationsForUser(ctx, user.ID, registry.QueryOptions{Writable: true})
	if err != nil {
		t.Fatalf("GetCollaborationsForUser: %v", err)
	}
	if len(cs) != 2 {
		t.Errorf("writable filter kept %d of the user's collaborations, want 2", len(cs))
	}
}

func TestGetStreamsForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	dom := fx.CreateDomain(ctx, "acme")
	user := fx.CreateUser(ctx, "Member", dom.ID)
	c := fx.CreateCollaboration(ctx, "Team", models.CollaborationTypeOpen, models.UserTuple(user.ID), dom.ID)

	lib := New(collabstore.New(db))
	streams, err := lib.GetStreamsForUser(ctx, user.ID, registry.QueryOptions{})
	if err != nil {
		t.Fatalf("GetStreamsForUser: %v", err)
	}
	if len(streams) != 1 {
		t.Fatalf("got %d streams, want 1", len(streams))
	}
	s := streams[0]
	if s.UUID != c.ActivityStreamUUID {
		t.Errorf("stream UUID = %q, want %q", s.UUID, c.ActivityStreamUUID)
	}
	if s.Target.ObjectType != c.ObjectType || s.Target.ID != c.ID.Hex() || s.Target.DisplayName != "Team" {
		t.Errorf("stream target = %+v, want the collaboration's descriptor", s.Target)
	}
}

func TestGetStreamsForUserEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	dom := fx.CreateDomain(ctx, "acme")
	loner := fx.CreateUser(ctx, "Loner", dom.ID)

	lib := New(collabstore.New(db))
	streams, err := lib.GetStreamsForUser(ctx, loner.ID, registry.QueryOptions{})
	if err != nil {
		t.Fatalf("GetStreamsForUser: %v", err)
	}
	if streams == nil || len(streams) != 0 {
		t.Errorf("streams = %v, want empty non-nil slice", streams)
	}
}
