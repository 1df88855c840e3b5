package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateDomain creates a test domain with the given name.
func (f *Fixtures) CreateDomain(ctx context.Context, name string) models.Domain {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Domain{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		CompanyName: name + " Inc",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("domains").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test domain: %v", err)
	}
	return d
}

// CreateUser creates a test user belonging to the given domains.
func (f *Fixtures) CreateUser(ctx context.Context, fullName string, domainIDs ...primitive.ObjectID) models.User {
	return f.createUser(ctx, fullName, models.RoleUser, domainIDs)
}

// CreateAdmin creates a test user with the platform admin role.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName string, domainIDs ...primitive.ObjectID) models.User {
	return f.createUser(ctx, fullName, models.RoleAdmin, domainIDs)
}

func (f *Fixtures) createUser(ctx context.Context, fullName, role string, domainIDs []primitive.ObjectID) models.User {
	f.t.Helper()

	if domainIDs == nil {
		domainIDs = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	id := primitive.NewObjectID()
	u := models.User{
		ID:         id,
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      fmt.Sprintf("%s@test.example", id.Hex()),
		Role:       role,
		Status:     "active",
		DomainIDs:  domainIDs,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// MakeDomainAdministrator appends the user to the domain's administrator list.
func (f *Fixtures) MakeDomainAdministrator(ctx context.Context, domainID, userID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("domains").UpdateOne(ctx,
		bson.M{"_id": domainID},
		bson.M{"$push": bson.M{"administrators": models.DomainAdministrator{
			UserID:  userID,
			AddedAt: time.Now().UTC(),
		}}})
	if err != nil {
		f.t.Fatalf("failed to add domain administrator: %v", err)
	}
}

// CreateCollaboration creates a collaboration of the given type with the
// creator already in the member list.
func (f *Fixtures) CreateCollaboration(ctx context.Context, title, collabType string, creator models.Tuple, domainIDs ...primitive.ObjectID) models.Collaboration {
	f.t.Helper()

	if domainIDs == nil {
		domainIDs = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	c := models.Collaboration{
		ID:                 primitive.NewObjectID(),
		ObjectType:         models.ObjectTypeCollaboration,
		Title:              title,
		TitleCI:            text.Fold(title),
		Type:               collabType,
		Creator:            creator,
		DomainIDs:          domainIDs,
		Members:            []models.Member{{Member: creator, AddedAt: now}},
		MembershipRequests: []models.MembershipRequest{},
		ActivityStreamUUID: uuid.NewString(),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if _, err := f.db.Collection("collaborations").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test collaboration: %v", err)
	}
	return c
}

// AddMember appends a member tuple directly, bypassing the state machine.
func (f *Fixtures) AddMember(ctx context.Context, collabID primitive.ObjectID, member models.Tuple) {
	f.t.Helper()

	_, err := f.db.Collection("collaborations").UpdateOne(ctx,
		bson.M{"_id": collabID},
		bson.M{"$push": bson.M{"members": models.Member{
			Member:  member,
			AddedAt: time.Now().UTC(),
		}}})
	if err != nil {
		f.t.Fatalf("failed to add member: %v", err)
	}
}

// AddMembershipRequest appends a pending entry directly, bypassing the state
// machine.
func (f *Fixtures) AddMembershipRequest(ctx context.Context, collabID, userID primitive.ObjectID, workflow string) {
	f.t.Helper()

	_, err := f.db.Collection("collaborations").UpdateOne(ctx,
		bson.M{"_id": collabID},
		bson.M{"$push": bson.M{"membership_requests": models.MembershipRequest{
			User:      userID,
			Workflow:  workflow,
			CreatedAt: time.Now().UTC(),
		}}})
	if err != nil {
		f.t.Fatalf("failed to add membership request: %v", err)
	}
}
