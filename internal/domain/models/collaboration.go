// internal/domain/models/collaboration.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectTypeCollaboration is the registry tag for the base collaboration kind.
// Application-defined subtypes (communities, projects) register their own tag
// and share the same engine.
const ObjectTypeCollaboration = "collaboration"

// Collaboration visibility tiers. Open and restricted are readable by any
// authenticated principal; private and confidential only by members and the
// creator.
const (
	CollaborationTypeOpen         = "open"
	CollaborationTypeRestricted   = "restricted"
	CollaborationTypePrivate      = "private"
	CollaborationTypeConfidential = "confidential"
)

// CollaborationTypeIsValid reports whether t is one of the visibility tiers.
func CollaborationTypeIsValid(t string) bool {
	switch t {
	case CollaborationTypeOpen, CollaborationTypeRestricted,
		CollaborationTypePrivate, CollaborationTypeConfidential:
		return true
	}
	return false
}

// Membership request workflows: provenance of a pending entry.
const (
	WorkflowInvitation = "invitation" // manager-initiated
	WorkflowRequest    = "request"    // self-initiated
)

// Member is one entry of the embedded, insertion-ordered member list.
// A tuple appears at most once (enforced by the store's update guards).
type Member struct {
	Member  Tuple     `bson:"member" json:"member"`
	AddedAt time.Time `bson:"added_at" json:"added_at"`
}

// MembershipRequest is a pending invitation or join request. At most one
// pending entry exists per user.
type MembershipRequest struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Workflow  string             `bson:"workflow" json:"workflow"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Collaboration is the generalized group/community aggregate whose membership
// and visibility the engine governs. members and membership_requests are
// mutated exclusively through the membership state machine's conditional
// updates, never via ad hoc field writes.
type Collaboration struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ObjectType  string             `bson:"object_type" json:"objectType"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped
	Description string             `bson:"description" json:"description"`
	Type        string             `bson:"type" json:"type"`

	Creator   Tuple                `bson:"creator" json:"creator"`
	DomainIDs []primitive.ObjectID `bson:"domain_ids" json:"domain_ids"`

	Members            []Member            `bson:"members" json:"-"`
	MembershipRequests []MembershipRequest `bson:"membership_requests" json:"-"`

	// ActivityStreamUUID identifies the collaboration's stream for the
	// activity-stream descriptor exposed to stream consumers.
	ActivityStreamUUID string `bson:"activity_stream_uuid" json:"activity_stream_uuid"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsMember reports whether t is in the member list (structural comparison).
func (c *Collaboration) IsMember(t Tuple) bool {
	for _, m := range c.Members {
		if m.Member.Equal(t) {
			return true
		}
	}
	return false
}

// IsCreator reports whether t is the originating manager.
func (c *Collaboration) IsCreator(t Tuple) bool {
	return c.Creator.Equal(t)
}

// PendingRequest returns the pending membership request for userID, or nil.
func (c *Collaboration) PendingRequest(userID primitive.ObjectID) *MembershipRequest {
	for i := range c.MembershipRequests {
		if c.MembershipRequests[i].User == userID {
			return &c.MembershipRequests[i]
		}
	}
	return nil
}
