// internal/app/system/search/search.go

// Package search defines the search-provider boundary for the user directory.
// Production deployments plug an Elasticsearch-backed Provider in; the engine
// only depends on the interface (total count + ordered id list) and never on
// the ranking algorithm. MongoProvider is the default implementation, doing
// folded substring matching over the CI companion fields.
package search

import (
	"context"
	"regexp"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Provider answers free-text user searches scoped to a set of domains.
// Result ordering must be stable for identical inputs (relevance first is
// the provider's business, the id tiebreak is the contract); total is the
// match count before limit/offset are applied.
type Provider interface {
	Search(ctx context.Context, domainIDs []primitive.ObjectID, query string, limit, offset int, exclude []primitive.ObjectID) (ids []primitive.ObjectID, total int64, err error)
}

// MongoProvider matches every whitespace-separated term of the query against
// the folded full name or the email address. All terms must match.
type MongoProvider struct {
	users *mongo.Collection
}

// NewMongoProvider builds the default provider over the users collection.
func NewMongoProvider(db *mongo.Database) *MongoProvider {
	return &MongoProvider{users: db.Collection("users")}
}

var _ Provider = (*MongoProvider)(nil)

// Search implements Provider. Ordering is folded-name then _id, which keeps
// offset/limit paging well-defined.
func (p *MongoProvider) Search(ctx context.Context, domainIDs []primitive.ObjectID, query string, limit, offset int, exclude []primitive.ObjectID) ([]primitive.ObjectID, int64, error) {
	filter := bson.M{"domain_ids": bson.M{"$in": domainIDs}}
	if len(exclude) > 0 {
		filter["_id"] = bson.M{"$nin": exclude}
	}

	var terms []bson.M
	for _, term := range strings.Fields(text.Fold(query)) {
		quoted := regexp.QuoteMeta(term)
		terms = append(terms, bson.M{"$or": bson.A{
			bson.M{"full_name_ci": bson.M{"$regex": quoted}},
			bson.M{"email": bson.M{"$regex": quoted}},
		}})
	}
	if len(terms) > 0 {
		filter["$and"] = terms
	}

	total, err := p.users.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1})
	if offset > 0 {
		findOpts.SetSkip(int64(offset))
	}
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}

	cur, err := p.users.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, 0, err
		}
		ids = append(ids, row.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}
	return ids, total, nil
}
