// internal/app/features/people/list.go
package people

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dalemusser/collabhub/internal/app/core/collaberr"
	"github.com/dalemusser/collabhub/internal/app/core/usersearch"
	"github.com/dalemusser/collabhub/internal/app/system/paging"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type personView struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ServePeople handles GET /api/people?domain_id=...&query=...&limit&offset.
// Without a query it lists the domains' users in stable order; with one it
// ranks them through the search provider. At least one domain_id is
// required.
func (h *Handler) ServePeople(w http.ResponseWriter, r *http.Request) {
	domainIDs, err := domainIDParams(r)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var users []models.User
	var total int64
	if q := query.Get(r, "query"); q != "" {
		users, total, err = h.Finder.GetUsersSearch(ctx, domainIDs, usersearch.SearchOptions{
			Search: q,
			Limit:  page.Limit,
			Offset: page.Offset,
		})
	} else {
		users, total, err = h.Finder.GetUsersList(ctx, domainIDs, usersearch.ListOptions{
			Limit:  page.Limit,
			Offset: page.Offset,
		})
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]personView, 0, len(users))
	for _, u := range users {
		out = append(out, personView{
			ID:       u.ID.Hex(),
			FullName: u.FullName,
			Email:    u.Email,
		})
	}
	paging.SetTotalCount(w, total)
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case collaberr.IsValidation(err):
		writeStatus(w, http.StatusBadRequest, err.Error())
	case collaberr.IsSearch(err):
		if h.Log != nil {
			h.Log.Error("search provider error", zap.Error(err))
		}
		writeStatus(w, http.StatusBadGateway, "search provider unavailable")
	default:
		if h.Log != nil {
			h.Log.Error("people lookup failed", zap.Error(err))
		}
		writeStatus(w, http.StatusInternalServerError, "internal error")
	}
}

// domainIDParams parses the repeatable domain_id query parameter.
func domainIDParams(r *http.Request) ([]primitive.ObjectID, error) {
	raw := r.URL.Query()["domain_id"]
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, collaberr.NewValidation("invalid domain_id %q", s)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, collaberr.NewValidation("at least one domain_id is required")
	}
	return ids, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: status, Message: msg}})
}
