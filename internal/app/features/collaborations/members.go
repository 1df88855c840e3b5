// internal/app/features/collaborations/members.go
package collaborations

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/collabhub/internal/app/core/collaberr"
	"github.com/dalemusser/collabhub/internal/app/core/permission"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type memberView struct {
	ObjectType string    `json:"objectType"`
	ID         string    `json:"id"`
	AddedAt    time.Time `json:"added_at"`
}

// ServeMembers handles GET /api/collaborations/{objectType}/{id}/members.
// Readable collaborations expose their member list with stable paging.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	objectType, id, err := collabParams(r)
	if err != nil {
		writeBadRequest(w, "invalid collaboration id")
		return
	}
	viewer, ok := authz.UserTuple(r)
	if !ok {
		writeForbidden(w, "no valid user in session")
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.Service.Load(ctx, objectType, id)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	readable, err := permission.CanRead(c, viewer)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if !readable {
		writeForbidden(w, "collaboration is not visible to this user")
		return
	}

	members, total, err := h.Collabs.ListMembers(ctx, id, page.Limit, page.Offset)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	out := make([]memberView, 0, len(members))
	for _, m := range members {
		out = append(out, memberView{
			ObjectType: m.Member.ObjectType,
			ID:         m.Member.ID,
			AddedAt:    m.AddedAt,
		})
	}
	paging.SetTotalCount(w, total)
	writeJSON(w, http.StatusOK, out)
}

// HandleAddMember handles PUT /api/collaborations/{objectType}/{id}/members/{userID}.
// With the withoutInvite flag a manager adds the user directly. Otherwise,
// when the user has a pending entry this resolves it (a manager accepts a
// request, the invited user accepts an invitation); with no pending entry it
// is self-service join of an open collaboration.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	objectType, id, err := collabParams(r)
	if err != nil {
		writeBadRequest(w, "invalid collaboration id")
		return
	}
	userID, err := userIDParam(r)
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}
	actor, ok := authz.UserTuple(r)
	if !ok {
		writeForbidden(w, "no valid user in session")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	target, err := h.targetUserTuple(ctx, userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	switch {
	case query.Get(r, "withoutInvite") == "true":
		err = h.Service.AddMemberWithoutInvite(ctx, objectType, id, actor, target)
	default:
		var pending *models.MembershipRequest
		pending, err = h.Service.GetMembershipRequest(ctx, objectType, id, userID)
		if err == nil {
			if pending != nil {
				err = h.Service.Accept(ctx, objectType, id, actor, userID)
			} else {
				err = h.Service.Join(ctx, objectType, id, actor, target)
			}
		}
	}
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemoveMember handles DELETE /api/collaborations/{objectType}/{id}/members/{userID}.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	objectType, id, err := collabParams(r)
	if err != nil {
		writeBadRequest(w, "invalid collaboration id")
		return
	}
	userID, err := userIDParam(r)
	if err != nil {
		writeBadRequest(w, "invalid user id")
		return
	}
	actor, ok := authz.UserTuple(r)
	if !ok {
		writeForbidden(w, "no valid user in session")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	target, err := h.targetUserTuple(ctx, userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	if err := h.Service.RemoveMember(ctx, objectType, id, actor, target); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// targetUserTuple verifies the target user exists before a transition runs,
// so unknown users surface as NotFound instead of silently entering the
// member list.
func (h *Handler) targetUserTuple(ctx context.Context, userID primitive.ObjectID) (models.Tuple, error) {
	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Tuple{}, collaberr.NewNotFound("user %s not found", userID.Hex())
		}
		return models.Tuple{}, collaberr.WrapStorage("load user", err)
	}
	return models.UserTuple(userID), nil
}
