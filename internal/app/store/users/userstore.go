// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/collabhub/internal/app/system/normalize"
	"github.com/dalemusser/collabhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "admin" or "user"`)
	errMissingEmail   = errors.New("email is required")
)

// Create inserts a new user after normalizing and validating fields.
// A non-empty password is hashed with bcrypt before storage.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	if u.Email == "" {
		return models.User{}, errMissingEmail
	}

	if u.Role == "" {
		u.Role = models.RoleUser
	}
	switch u.Role {
	case models.RoleAdmin, models.RoleUser:
		// ok
	default:
		return models.User{}, errBadRole
	}

	if u.Status == "" {
		u.Status = "active"
	}
	if u.DomainIDs == nil {
		u.DomainIDs = []primitive.ObjectID{}
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		u.PasswordHash = hash
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func (s *Store) VerifyPassword(u *models.User, password string) bool {
	if len(u.PasswordHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// GetByIDs loads the given users and returns them in the order of ids.
// Missing ids are skipped, not an error.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byID := make(map[primitive.ObjectID]models.User, len(ids))
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		byID[u.ID] = u
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// ListOptions narrows a domain-scoped listing.
type ListOptions struct {
	Limit  int
	Offset int
	NotIn  []primitive.ObjectID // user ids to exclude
}

// ListByDomains returns the users belonging to any of the given domains,
// ordered by _id so offset/limit paging is deterministic, plus the total
// count before pagination.
func (s *Store) ListByDomains(ctx context.Context, domainIDs []primitive.ObjectID, opts ListOptions) ([]models.User, int64, error) {
	filter := bson.M{"domain_ids": bson.M{"$in": domainIDs}}
	if len(opts.NotIn) > 0 {
		filter["_id"] = bson.M{"$nin": opts.NotIn}
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cur, err := s.c.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// AddToDomain appends domainID to the user's domain list if absent.
func (s *Store) AddToDomain(ctx context.Context, userID, domainID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"domain_ids": domainID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}
