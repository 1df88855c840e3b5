// internal/domain/models/domain.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DomainAdministrator marks a user as an administrator of a domain.
// Domain administrators count as managers for every collaboration scoped to
// that domain (pluggable via the manager policy).
type DomainAdministrator struct {
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	AddedAt time.Time          `bson:"added_at" json:"added_at"`
}

// Domain scopes users and collaborations. A collaboration may belong to
// several domains, which enables cross-domain membership search.
type Domain struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	Name        string                `bson:"name" json:"name"`
	NameCI      string                `bson:"name_ci" json:"-"`
	CompanyName string                `bson:"company_name" json:"company_name"`
	Admins      []DomainAdministrator `bson:"administrators" json:"administrators"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdministrator reports whether userID administers this domain.
func (d *Domain) IsAdministrator(userID primitive.ObjectID) bool {
	for _, a := range d.Admins {
		if a.UserID == userID {
			return true
		}
	}
	return false
}
