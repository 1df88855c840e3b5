// internal/app/store/collaborations/collaborationstore.go
package collabstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/collabhub/internal/app/core/registry"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists collaborations. Member and request lists are embedded on the
// document and every mutation is a single conditional update: the existence
// guard lives in the filter, so two racing transitions can never both match
// and double-insert.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("collaborations")}
}

// The store satisfies the registry's storage-provider capability.
var _ registry.Store = (*Store)(nil)

var (
	errBadType      = errors.New(`type must be "open"|"restricted"|"private"|"confidential"`)
	errMissingTitle = errors.New("title is required")
	errBadCreator   = errors.New("creator must be a valid tuple")
)

// strict strips all markup from user-provided text fields.
var strict = bluemonday.StrictPolicy()

// Create inserts a new collaboration after sanitizing and validating fields.
// Member and request lists start empty; all later mutation goes through the
// transition methods below.
func (s *Store) Create(ctx context.Context, c models.Collaboration) (models.Collaboration, error) {
	c.ID = primitive.NewObjectID()
	if c.ObjectType == "" {
		c.ObjectType = models.ObjectTypeCollaboration
	}
	c.Title = strict.Sanitize(c.Title)
	c.TitleCI = text.Fold(c.Title)
	c.Description = strict.Sanitize(c.Description)
	if c.Title == "" {
		return models.Collaboration{}, errMissingTitle
	}
	if c.Type == "" {
		c.Type = models.CollaborationTypeOpen
	}
	if !models.CollaborationTypeIsValid(c.Type) {
		return models.Collaboration{}, errBadType
	}
	if err := c.Creator.Validate(); err != nil {
		return models.Collaboration{}, errBadCreator
	}
	if c.ActivityStreamUUID == "" {
		c.ActivityStreamUUID = uuid.NewString()
	}
	if c.Members == nil {
		c.Members = []models.Member{}
	}
	if c.MembershipRequests == nil {
		c.MembershipRequests = []models.MembershipRequest{}
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Collaboration{}, err
	}
	return c, nil
}

// FindByID loads a collaboration by ObjectID.
func (s *Store) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Collaboration, error) {
	var c models.Collaboration
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByStreamUUID loads the collaboration backing an activity stream.
func (s *Store) FindByStreamUUID(ctx context.Context, streamUUID string) (*models.Collaboration, error) {
	var c models.Collaboration
	if err := s.c.FindOne(ctx, bson.M{"activity_stream_uuid": streamUUID}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Find returns the collaborations matching the filter, sorted by folded title
// then _id for stable ordering.
func (s *Store) Find(ctx context.Context, f registry.Filter) ([]models.Collaboration, error) {
	q := bson.M{}
	if f.Member != nil {
		q["members"] = bson.M{"$elemMatch": bson.M{
			"member.objectType": f.Member.ObjectType,
			"member.id":         f.Member.ID,
		}}
	}
	if f.DomainID != primitive.NilObjectID {
		q["domain_ids"] = f.DomainID
	}
	if f.Title != "" {
		q["title"] = f.Title
	}

	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Collaboration
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func memberGuard(t models.Tuple) bson.M {
	return bson.M{"$not": bson.M{"$elemMatch": bson.M{
		"member.objectType": t.ObjectType,
		"member.id":         t.ID,
	}}}
}

// AddMember appends member unless it is already present. When the tuple is a
// user, any pending membership request for that user is pulled in the same
// update so the member and request lists stay disjoint. Returns false when
// the guard did not match (already a member, or the document is gone).
func (s *Store) AddMember(ctx context.Context, id primitive.ObjectID, member models.Tuple) (bool, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$push": bson.M{"members": models.Member{Member: member, AddedAt: now}},
		"$set":  bson.M{"updated_at": now},
	}
	if uid, ok := member.UserID(); ok {
		update["$pull"] = bson.M{"membership_requests": bson.M{"user": uid}}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "members": memberGuard(member)}, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// RemoveMember pulls member from the member list. Returns false when member
// was not present.
func (s *Store) RemoveMember(ctx context.Context, id primitive.ObjectID, member models.Tuple) (bool, error) {
	filter := bson.M{"_id": id, "members": bson.M{"$elemMatch": bson.M{
		"member.objectType": member.ObjectType,
		"member.id":         member.ID,
	}}}
	update := bson.M{
		"$pull": bson.M{"members": bson.M{
			"member.objectType": member.ObjectType,
			"member.id":         member.ID,
		}},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// AddMembershipRequest appends a pending entry for userID with the given
// workflow and returns the inserted entry. The guard rejects the update when
// the user already has a pending entry or is already a member, so a duplicate
// can never be inserted even under concurrent calls; a rejected update
// returns nil.
func (s *Store) AddMembershipRequest(ctx context.Context, id, userID primitive.ObjectID, workflow string) (*models.MembershipRequest, error) {
	if workflow != models.WorkflowInvitation && workflow != models.WorkflowRequest {
		return nil, errors.New(`workflow must be "invitation" or "request"`)
	}
	// BSON datetimes carry millisecond precision; truncate so the returned
	// entry matches what a later read sees.
	entry := models.MembershipRequest{
		User:      userID,
		Workflow:  workflow,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	filter := bson.M{
		"_id":                      id,
		"membership_requests.user": bson.M{"$ne": userID},
		"members":                  memberGuard(models.UserTuple(userID)),
	}
	update := bson.M{
		"$push": bson.M{"membership_requests": entry},
		"$set":  bson.M{"updated_at": entry.CreatedAt},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return &entry, nil
}

// RemoveMembershipRequest pulls the pending entry for userID and reports how
// many entries were removed. Absence is not an error; the caller decides
// whether zero is meaningful.
func (s *Store) RemoveMembershipRequest(ctx context.Context, id, userID primitive.ObjectID) (int64, error) {
	filter := bson.M{"_id": id, "membership_requests.user": userID}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$pull": bson.M{"membership_requests": bson.M{"user": userID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// ApproveMembershipRequest atomically moves userID from the pending list into
// the member list. The filter requires a pending entry AND the absence of a
// member entry, so of two concurrent approvals only one can match.
func (s *Store) ApproveMembershipRequest(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	member := models.UserTuple(userID)
	now := time.Now().UTC()
	filter := bson.M{
		"_id":                      id,
		"membership_requests.user": userID,
		"members":                  memberGuard(member),
	}
	update := bson.M{
		"$pull": bson.M{"membership_requests": bson.M{"user": userID}},
		"$push": bson.M{"members": models.Member{Member: member, AddedAt: now}},
		"$set":  bson.M{"updated_at": now},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// UpdateType changes the visibility tier. Manager authorization is the
// caller's responsibility.
func (s *Store) UpdateType(ctx context.Context, id primitive.ObjectID, newType string) error {
	if !models.CollaborationTypeIsValid(newType) {
		return errBadType
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"type": newType, "updated_at": time.Now().UTC()},
	})
	return err
}

// UpdateInfo changes title and description after sanitization.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, title, description string) error {
	title = strict.Sanitize(title)
	if title == "" {
		return errMissingTitle
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"title":       title,
			"title_ci":    text.Fold(title),
			"description": strict.Sanitize(description),
			"updated_at":  time.Now().UTC(),
		},
	})
	return err
}

// ListMembers returns a page of the member list in insertion order, plus the
// total count. offset past the end yields an empty page.
func (s *Store) ListMembers(ctx context.Context, id primitive.ObjectID, limit, offset int) ([]models.Member, int64, error) {
	c, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return pageOf(c.Members, limit, offset), int64(len(c.Members)), nil
}

// ListMembershipRequests returns a page of the pending requests in insertion
// order, plus the total count.
func (s *Store) ListMembershipRequests(ctx context.Context, id primitive.ObjectID, limit, offset int) ([]models.MembershipRequest, int64, error) {
	c, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return pageOf(c.MembershipRequests, limit, offset), int64(len(c.MembershipRequests)), nil
}

func pageOf[T any](all []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]T, end-offset)
	copy(out, all[offset:end])
	return out
}
