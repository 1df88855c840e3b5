// internal/app/features/collaborations/membershiprequests.go
package collaborations

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

type membershipRequestView struct {
	User      string    `json:"user"`
	Workflow  string    `json:"workflow"`
	CreatedAt time.Time `json:"created_at"`
}

func requestViewOf(req *models.MembershipRequest) membershipRequestView {
	return membershipRequestView{
		User:      req.User.Hex(),
		Workflow:  req.Workflow,
		CreatedAt: req.CreatedAt,
	}
}

// ServeMembershipRequests handles GET /api/collaborations/{objectType}/{id}/membership.
// The pending list is manager-only.
func (h *Handler) ServeMembershipRequests(w http.ResponseWriter, r *http.Request) {
	objectType, id, err := collabParams(r)
	if err != nil {
		writeBadRequest(w, "invalid collaboration id")
		return
	}
	actor, ok := authz.UserTuple(r)
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
	mgr, err := h.Service.IsManager(ctx, actor, c)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if !mgr {
		writeForbidden(w, "only a manager can list membership requests")
		return
	}

	reqs, total, err := h.Collabs.ListMembershipRequests(ctx, id, page.Limit, page.Offset)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	out := make([]membershipRequestView, 0, len(reqs))
	for i := range reqs {
		out = append(out, requestViewOf(&reqs[i]))
	}
	paging.SetTotalCount(w, total)
	writeJSON(w, http.StatusOK, out)
}

// ServeMembershipRequest handles GET /api/collaborations/{objectType}/{id}/membership/{userID}.
// The pending user or a manager may look up a single entry.
func (h *Handler) ServeMembershipRequest(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if !actor.Equal(models.UserTuple(userID)) {
		c, err := h.Service.Load(ctx, objectType, id)
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		mgr, err := h.Service.IsManager(ctx, actor, c)
		if err != nil {
			writeError(w, h.Log, err)
			return
		}
		if !mgr {
			writeForbidden(w, "only the pending user or a manager can read the request")
			return
		}
	}

	pending, err := h.Service.GetMembershipRequest(ctx, objectType, id, userID)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if pending == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
			Code:    http.StatusNotFound,
			Message: "no pending membership request",
		}})
		return
	}
	writeJSON(w, http.StatusOK, requestViewOf(pending))
}

// HandleCreateMembershipRequest handles PUT /api/collaborations/{objectType}/{id}/membership/{userID}.
// Acting on yourself records a self-initiated request; a manager acting on
// another user records an invitation. Repeating the call while an entry is
// pending returns the existing entry unchanged.
func (h *Handler) HandleCreateMembershipRequest(w http.ResponseWriter, r *http.Request) {
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

	if _, err := h.targetUserTuple(ctx, userID); err != nil {
		writeError(w, h.Log, err)
		return
	}

	var pending *models.MembershipRequest
	if actor.Equal(models.UserTuple(userID)) {
		pending, err = h.Service.RequestMembership(ctx, objectType, id, actor, userID)
	} else {
		pending, err = h.Service.Invite(ctx, objectType, id, actor, userID)
	}
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, requestViewOf(pending))
}

// HandleWithdrawMembershipRequest handles DELETE /api/collaborations/{objectType}/{id}/membership/{userID}.
// Decline, cancel, and refuse are the same removal, distinguished by who
// acts; withdrawing an absent request succeeds without effect.
func (h *Handler) HandleWithdrawMembershipRequest(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Service.CancelRequest(ctx, objectType, id, actor, userID); err != nil {
		writeError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
