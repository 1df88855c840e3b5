// internal/domain/models/tuple.go
package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tuple object types. A tuple references a principal (user, email address,
// group) without owning it; equality is structural on objectType+id.
const (
	TupleObjectTypeUser  = "user"
	TupleObjectTypeEmail = "email"
	TupleObjectTypeGroup = "group"
)

// Tuple is the canonical (objectType, id) identity reference used for
// membership comparisons and event payloads.
type Tuple struct {
	ObjectType string `bson:"objectType" json:"objectType"`
	ID         string `bson:"id" json:"id"`
}

// UserTuple builds a user tuple from a user ObjectID.
func UserTuple(id primitive.ObjectID) Tuple {
	return Tuple{ObjectType: TupleObjectTypeUser, ID: id.Hex()}
}

// EmailTuple builds an email tuple from an address.
func EmailTuple(address string) Tuple {
	return Tuple{ObjectType: TupleObjectTypeEmail, ID: address}
}

// GroupTuple builds a group tuple from a group identifier.
func GroupTuple(id string) Tuple {
	return Tuple{ObjectType: TupleObjectTypeGroup, ID: id}
}

// Equal reports structural equality (objectType and id both match).
func (t Tuple) Equal(o Tuple) bool {
	return t.ObjectType == o.ObjectType && t.ID == o.ID
}

// IsUser reports whether the tuple references a user principal.
func (t Tuple) IsUser() bool { return t.ObjectType == TupleObjectTypeUser }

// UserID returns the referenced user's ObjectID. ok is false when the tuple
// is not a user tuple or carries a malformed id.
func (t Tuple) UserID() (primitive.ObjectID, bool) {
	if !t.IsUser() {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

var (
	errTupleObjectType = errors.New("tuple objectType is required")
	errTupleID         = errors.New("tuple id is required")
)

// Validate checks that both halves of the identity are present.
func (t Tuple) Validate() error {
	if t.ObjectType == "" {
		return errTupleObjectType
	}
	if t.ID == "" {
		return errTupleID
	}
	return nil
}
