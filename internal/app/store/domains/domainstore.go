// internal/app/store/domains/domainstore.go
package domainstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("domains")}
}

var errMissingName = errors.New("domain name is required")

// Create inserts a new domain.
func (s *Store) Create(ctx context.Context, d models.Domain) (models.Domain, error) {
	if d.Name == "" {
		return models.Domain{}, errMissingName
	}
	d.ID = primitive.NewObjectID()
	d.NameCI = text.Fold(d.Name)
	if d.Admins == nil {
		d.Admins = []models.DomainAdministrator{}
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Domain{}, err
	}
	return d, nil
}

// GetByID loads a domain by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Domain, error) {
	var d models.Domain
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// AddAdministrator appends userID to the domain's administrator list if not
// already present.
func (s *Store) AddAdministrator(ctx context.Context, domainID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": domainID, "administrators.user_id": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{"administrators": models.DomainAdministrator{
				UserID:  userID,
				AddedAt: time.Now().UTC(),
			}},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		})
	return err
}

// IsAdministrator reports whether userID administers domainID.
func (s *Store) IsAdministrator(ctx context.Context, domainID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"_id":                    domainID,
		"administrators.user_id": userID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AdministratorOfAny reports whether userID administers at least one of the
// given domains.
func (s *Store) AdministratorOfAny(ctx context.Context, domainIDs []primitive.ObjectID, userID primitive.ObjectID) (bool, error) {
	if len(domainIDs) == 0 {
		return false, nil
	}
	n, err := s.c.CountDocuments(ctx, bson.M{
		"_id":                    bson.M{"$in": domainIDs},
		"administrators.user_id": userID,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
