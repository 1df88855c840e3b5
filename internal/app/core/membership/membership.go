// internal/app/core/membership/membership.go

// Package membership is the state machine governing how a principal joins,
// requests, is invited to, and leaves a collaboration. Every transition is a
// guarded storage-level update resolved through the registry, followed by
// post-commit notification: events describe only state changes that actually
// persisted.
package membership

import (
	"context"
	"errors"

	"github.com/dalemusser/collabhub/internal/app/core/collaberr"
	"github.com/dalemusser/collabhub/internal/app/core/registry"
	"github.com/dalemusser/collabhub/internal/app/policy/collabpolicy"
	"github.com/dalemusser/collabhub/internal/app/system/pubsub"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Topics published after successful transitions. Decline/cancel and
// cancel/refuse are dyads: the mutation is identical but the topic encodes
// who acted (the pending user or a manager), and downstream notification
// builders depend on that distinction.
const (
	TopicJoin    = "collaboration:join"
	TopicLeave   = "collaboration:leave"
	TopicInvite  = "collaboration:membership:invite"
	TopicRequest = "collaboration:membership:request"
	TopicAccept  = "collaboration:membership:accept"

	TopicInvitationDecline = "collaboration:membership:invitation:decline"
	TopicInvitationCancel  = "collaboration:membership:invitation:cancel"
	TopicRequestCancel     = "collaboration:membership:request:cancel"
	TopicRequestRefuse     = "collaboration:membership:request:refuse"
)

// Transition describes one committed state change, as handed to post-commit
// hooks and published on the bus.
type Transition struct {
	Topic         string
	Author        models.Tuple
	Target        models.Tuple
	Collaboration pubsub.Ref
	Workflow      string
}

// Hook runs synchronously after a transition has been persisted (search
// reindexing, audit trails). Hooks must not mutate the collaboration.
type Hook func(ctx context.Context, t Transition)

// Service executes membership transitions for every registered collaboration
// kind.
type Service struct {
	reg       *registry.Registry
	bus       *pubsub.Bus
	isManager collabpolicy.ManagerFunc
	log       *zap.Logger
	hooks     []Hook
}

// New constructs the membership service.
func New(reg *registry.Registry, bus *pubsub.Bus, isManager collabpolicy.ManagerFunc, logger *zap.Logger) *Service {
	return &Service{
		reg:       reg,
		bus:       bus,
		isManager: isManager,
		log:       logger,
	}
}

// AddHook registers a post-commit hook. Wire hooks at startup, before the
// service handles traffic.
func (s *Service) AddHook(h Hook) {
	s.hooks = append(s.hooks, h)
}

// Load resolves (objectType, id) to the stored collaboration document.
func (s *Service) Load(ctx context.Context, objectType string, id primitive.ObjectID) (*models.Collaboration, error) {
	store, err := s.resolve(objectType)
	if err != nil {
		return nil, err
	}
	c, err := store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, collaberr.NewNotFound("collaboration %s/%s not found", objectType, id.Hex())
		}
		return nil, collaberr.WrapStorage("load collaboration", err)
	}
	return c, nil
}

// IsManager reports whether actor counts as a manager of the collaboration
// under the configured policy.
func (s *Service) IsManager(ctx context.Context, actor models.Tuple, c *models.Collaboration) (bool, error) {
	ok, err := s.isManager(ctx, actor, c)
	if err != nil {
		return false, collaberr.WrapStorage("resolve manager", err)
	}
	return ok, nil
}

// Join adds the actor to an open collaboration directly, with no request
// phase. Join is strictly self-service; managers use AddMemberWithoutInvite.
func (s *Service) Join(ctx context.Context, objectType string, id primitive.ObjectID, actor, target models.Tuple) error {
	if err := validateTuples(actor, target); err != nil {
		return err
	}
	if !actor.Equal(target) {
		return collaberr.NewAuthorization("join is self-service; only the target can join")
	}

	store, err := s.resolve(objectType)
	if err != nil {
		return err
	}
	c, err := s.Load(ctx, objectType, id)
	if err != nil {
		return err
	}
	if c.Type != models.CollaborationTypeOpen {
		return collaberr.NewAuthorization("collaboration is not open to direct join")
	}
	if c.IsMember(target) {
		return collaberr.NewConflict("user is already member of the collaboration")
	}

	ok, err := store.AddMember(ctx, id, target)
	if err != nil {
		return collaberr.WrapStorage("add member", err)
	}
	if !ok {
		return collaberr.NewConflict("user is already member of the collaboration")
	}

	s.notify(ctx, TopicJoin, actor, target, c, "")
	return nil
}

// RequestMembership records a self-initiated join request. If the user
// already has a pending entry the existing one is returned unchanged; a new
// entry is never duplicated.
func (s *Service) RequestMembership(ctx context.Context, objectType string, id primitive.ObjectID, actor models.Tuple, userID primitive.ObjectID) (*models.MembershipRequest, error) {
	target := models.UserTuple(userID)
	if err := validateTuples(actor, target); err != nil {
		return nil, err
	}
	if !actor.Equal(target) {
		return nil, collaberr.NewAuthorization("only the user can request membership for themself")
	}
	return s.appendRequest(ctx, objectType, id, actor, userID, models.WorkflowRequest, TopicRequest)
}

// Invite records a manager-initiated invitation for the target user. Like
// RequestMembership, inviting an already-pending user returns the existing
// entry.
func (s *Service) Invite(ctx context.Context, objectType string, id primitive.ObjectID, actor models.Tuple, userID primitive.ObjectID) (*models.MembershipRequest, error) {
	if err := validateTuples(actor, models.UserTuple(userID)); err != nil {
		return nil, err
	}
	c, err := s.Load(ctx, objectType, id)
	if err != nil {
		return nil, err
	}
	mgr, err := s.IsManager(ctx, actor, c)
	if err != nil {
		return nil, err
	}
	if !mgr {
		return nil, collaberr.NewAuthorization("only a manager can invite users")
	}
	return s.appendRequest(ctx, objectType, id, actor, userID, models.WorkflowInvitation, TopicInvite)
}

func (s *Service) appendRequest(ctx context.Context, objectType string, id primitive.ObjectID, actor models.Tuple, userID primitive.ObjectID, workflow, topic string) (*models.MembershipRequest, error) {
	store, err := s.resolve(objectType)
	if err != nil {
		return nil, err
	}
	c, err := s.Load(ctx, objectType, id)
	if err != nil {
		return nil, err
	}
	target := models.UserTuple(userID)
	if c.IsMember(target) {
		return nil, collaberr.NewConflict("user is already member of the collaboration")
	}
	if pending := c.PendingRequest(userID); pending != nil {
		return pending, nil
	}

	entry, err := store.AddMembershipRequest(ctx, id, userID, workflow)
	if err != nil {
		return nil, collaberr.WrapStorage("add membership request", err)
	}
	if entry == nil {
		// A concurrent transition won the race; report the current state.
		c, err = s.Load(ctx, objectType, id)
		if err != nil {
			return nil, err
		}
		if pending := c.PendingRequest(userID); pending != nil {
			return pending, nil
		}
		return nil, collaberr.NewConflict("user is already member of the collaboration")
	}

	s.notify(ctx, topic, actor, target, c, workflow)
	return entry, nil
}

// Accept resolves a pending entry into membership. A manager accepts
// self-initiated requests; the invited user accepts invitations.
func (s *Service) Accept(ctx context.Context, objectType string, id primitive.ObjectID, actor models.Tuple, userID primitive.ObjectID) error {
	target := models.UserTuple(userID)
	if err := validateTuples(actor, target); err != nil {
		return err
	}
	store, err := s.resolve(objectType)
	if err != nil {
		return err
	}
	c, err := s.Load(ctx, objectType, id)
	if err != nil {
		return err
	}
	pending := c.PendingRequest(userID)
	if pending == nil {
		return collaberr.NewConflict("user has no pending membership request")
	}

	switch pending.Workflow {
	case models.WorkflowRequest:
		mgr, err := s.IsManager(ctx, actor, c)
		if err != nil {
			return err
		}
		if !mgr {
			return collaberr.NewAuthorization("only a manager can accept a membership request")
		}
	case models.WorkflowInvitation:
		if !actor.Equal(target) {
			return collaberr.NewAuthorization("only the invited user can accept the invitation")
		}
	default:
		return collaberr.NewValidation("unknown workflow %q", pending.Workflow)
	}

	ok, err := store.ApproveMembershipRequest(ctx, id, userID)
	if err != nil {
		return collaberr.WrapStorage("approve membership request", err)
	}
	if !ok {
		return collaberr.NewConflict("membership request was already resolved")
	}

	s.notify(ctx, TopicAccept, actor, target, c, pending.Workflow)
	s.notify(ctx, TopicJoin, actor, target, c, pending.Workflow)
	return nil
}

// CancelRequest withdraws a pending entry without granting membership. The
// published topic depends on who acts and on the workflow:
//
//	invitation + invited user  → invitation:decline
//	invitation + manager       → invitation:cancel
//	request    + requesting user → request:cancel
//	request    + manager       → request:refuse
//
// Absence of a pending entry is an idempotent success: nothing is pulled and
// no event is published.
func (s *Service) CancelRequest(ctx context.Context, objectType string, id primitive.ObjectID, actor models.Tuple, userID primitive.ObjectID) error {
	target := models.UserTuple(userID)
	if err := validateTuples(actor, target); err != nil {
		return err
	}
	store, err := s.resolve(objectType)
	if err != nil {
		return err
	}
	c, err := s.Load(ctx, objectType, id)
	if err != nil {
		return err
	}

	self := actor.Equal(target)
	if !self {
		mgr, err := s.IsManager(ctx, actor, c)
		if err != nil {
			return err
		}
		if !mgr {
			return collaberr.NewAuthorization("only the pending user or a manager can withdraw a request")
		}
	}

	pending := c.PendingRequest(userID)
	if pending == nil {
		return nil
	}

	pulled, err := store.RemoveMembershipRequest(ctx, id, userID)
	if err != nil {
		return collaberr.WrapStorage("remove membership request", err)
	}
	if pulled == 0 {
		// Lost a race with another withdraw or an approval; both leave the
		// request gone, which is the requested outcome.
		return nil
	}

	var topic string
	if pending.Workflow == models.WorkflowInvitation {
		topic = TopicInvitationCancel
		if self {
			topic = TopicInvitationDecline
		}
	} else {
		topic = TopicRequestRefuse
		if self {
			topic = TopicRequestCancel
		}
	}
	s.notify(ctx, topic, actor, target, c, pending.Workflow)
	return nil
}

// AddMemberWithoutInvite is the manager override: the target becomes a member
// immediately, skipping the request phase. A pending request, if any, is
// absorbed by the same update; its absence is not an error.
func (s *Service) AddMemberWithoutInvite(ctx context.Context, objectType string, id primitive.ObjectID, actor, target models.Tuple) error {
	if err := validateTuples(actor, target); err != nil {
		return err
	}
	store, err := s.resolve(objectType)
	if err != nil {
		return err
	}
	c, err := s.Load(ctx, objectType, id)
	if err != nil {
		return err
	}
	mgr, err := s.IsManager(ctx, actor, c)
	if err != nil {
		return err
	}
	if !mgr {
		return collaberr.NewAuthorization("only a manager can add members directly")
	}
	if c.IsMember(target) {
		return collaberr.NewConflict("user is already member of the collaboration")
	}

	ok, err := store.AddMember(ctx, id, target)
	if err != nil {
		return collaberr.WrapStorage("add member", err)
	}
	if !ok {
		return collaberr.NewConflict("user is already member of the collaboration")
	}

	s.notify(ctx, TopicJoin, actor, target, c, "")
	return nil
}

// RemoveMember removes a member, either self-initiated (leave) or by a
// manager. The creator cannot leave while no other manager-capable member
// remains; that would orphan the collaboration.
func (s *Service) RemoveMember(ctx context.Context, objectType string, id primitive.ObjectID, actor, target models.Tuple) error {
	if err := validateTuples(actor, target); err != nil {
		return err
	}
	store, err := s.resolve(objectType)
	if err != nil {
		return err
	}
	c, err := s.Load(ctx, objectType, id)
	if err != nil {
		return err
	}

	self := actor.Equal(target)
	if !self {
		mgr, err := s.IsManager(ctx, actor, c)
		if err != nil {
			return err
		}
		if !mgr {
			return collaberr.NewAuthorization("only the member themself or a manager can remove a member")
		}
	}

	if !c.IsMember(target) {
		return collaberr.NewConflict("user is not a member of the collaboration")
	}

	if self && c.IsCreator(target) {
		other, err := s.hasOtherManager(ctx, c, target)
		if err != nil {
			return err
		}
		if !other {
			return collaberr.NewConflict("creator cannot leave while no other manager exists")
		}
	}

	ok, err := store.RemoveMember(ctx, id, target)
	if err != nil {
		return collaberr.WrapStorage("remove member", err)
	}
	if !ok {
		return collaberr.NewConflict("user is not a member of the collaboration")
	}

	s.notify(ctx, TopicLeave, actor, target, c, "")
	return nil
}

// GetMembershipRequest returns the pending entry for userID, or nil when
// there is none.
func (s *Service) GetMembershipRequest(ctx context.Context, objectType string, id primitive.ObjectID, userID primitive.ObjectID) (*models.MembershipRequest, error) {
	c, err := s.Load(ctx, objectType, id)
	if err != nil {
		return nil, err
	}
	return c.PendingRequest(userID), nil
}

func (s *Service) hasOtherManager(ctx context.Context, c *models.Collaboration, excluding models.Tuple) (bool, error) {
	for _, m := range c.Members {
		if m.Member.Equal(excluding) {
			continue
		}
		mgr, err := s.IsManager(ctx, m.Member, c)
		if err != nil {
			return false, err
		}
		if mgr {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) resolve(objectType string) (registry.Store, error) {
	store, ok := s.reg.Model(objectType)
	if !ok {
		return nil, collaberr.NewNotFound("no model registered for object type %q", objectType)
	}
	return store, nil
}

func (s *Service) notify(ctx context.Context, topic string, author, target models.Tuple, c *models.Collaboration, workflow string) {
	t := Transition{
		Topic:  topic,
		Author: author,
		Target: target,
		Collaboration: pubsub.Ref{
			ObjectType: c.ObjectType,
			ID:         c.ID.Hex(),
		},
		Workflow: workflow,
	}
	if s.bus != nil {
		s.bus.Publish(topic, pubsub.Event{
			Author:        t.Author,
			Target:        t.Target,
			Collaboration: t.Collaboration,
			Workflow:      t.Workflow,
		})
	}
	for _, h := range s.hooks {
		h(ctx, t)
	}
	if s.log != nil {
		s.log.Debug("membership transition",
			zap.String("topic", topic),
			zap.String("collaboration", t.Collaboration.ID),
			zap.String("target", target.ID))
	}
}

func validateTuples(tuples ...models.Tuple) error {
	for _, t := range tuples {
		if err := t.Validate(); err != nil {
			return collaberr.NewValidation("invalid tuple: %v", err)
		}
	}
	return nil
}
