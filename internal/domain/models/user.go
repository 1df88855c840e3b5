// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. Admins are platform administrators and pass every manager
// check; regular users derive authority from collaboration creatorship or
// domain administratorship.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account in the directory. A user may belong to several
// domains; domain scoping drives the "users in domains D" search surface.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Role       string             `bson:"role" json:"role"`
	Status     string             `bson:"status,omitempty" json:"status,omitempty"`

	DomainIDs []primitive.ObjectID `bson:"domain_ids" json:"domain_ids"`

	PasswordHash []byte `bson:"password_hash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
