// internal/app/features/collaborations/invitablepeople.go
package collaborations

import (
	"context"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/core/usersearch"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
)

type personView struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

func peopleViews(users []models.User) []personView {
	out := make([]personView, 0, len(users))
	for _, u := range users {
		out = append(out, personView{
			ID:       u.ID.Hex(),
			FullName: u.FullName,
			Email:    u.Email,
		})
	}
	return out
}

// ServeInvitablePeople handles GET /api/collaborations/{objectType}/{id}/invitablepeople.
// Managers get the users of the collaboration's domains who are neither
// members nor pending, ready to be invited. An optional search query narrows
// the list.
func (h *Handler) ServeInvitablePeople(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
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
		writeForbidden(w, "only a manager can list invitable people")
		return
	}

	var users []models.User
	var total int64
	if q := query.Get(r, "search"); q != "" {
		users, total, err = h.Finder.GetUsersSearch(ctx, c.DomainIDs, usersearch.SearchOptions{
			Search:             q,
			Limit:              page.Limit,
			Offset:             page.Offset,
			NotInCollaboration: c,
		})
	} else {
		users, total, err = h.Finder.GetUsersList(ctx, c.DomainIDs, usersearch.ListOptions{
			Limit:              page.Limit,
			Offset:             page.Offset,
			NotInCollaboration: c,
		})
	}
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	paging.SetTotalCount(w, total)
	writeJSON(w, http.StatusOK, peopleViews(users))
}
