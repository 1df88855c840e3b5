// internal/app/features/userapi/collaborations.go
package userapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/core/collaberr"
	"github.com/dalemusser/collabhub/internal/app/core/registry"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type collaborationSummary struct {
	ID          string `json:"id"`
	ObjectType  string `json:"objectType"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	MemberCount int    `json:"member_count"`
}

// ServeCollaborations handles GET /api/user/collaborations.
// Optional parameters: objectType (defaults to "collaboration"), domain_id,
// title, and writable=1 to keep only collaborations the user can write into.
func (h *Handler) ServeCollaborations(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		writeStatus(w, http.StatusForbidden, "no valid user in session")
		return
	}
	opts, objectType, err := queryOptions(r)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cs, err := h.collaborationsFor(ctx, objectType, userID, opts)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]collaborationSummary, 0, len(cs))
	for _, c := range cs {
		out = append(out, collaborationSummary{
			ID:          c.ID.Hex(),
			ObjectType:  c.ObjectType,
			Title:       c.Title,
			Type:        c.Type,
			MemberCount: len(c.Members),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ServeActivityStreams handles GET /api/user/activitystreams.
// Returns the stream descriptors of the user's collaborations.
func (h *Handler) ServeActivityStreams(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		writeStatus(w, http.StatusForbidden, "no valid user in session")
		return
	}
	opts, objectType, err := queryOptions(r)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	lib, ok := h.Registry.Lib(objectType)
	if !ok {
		writeStatus(w, http.StatusNotFound, "unknown object type")
		return
	}
	streams, err := lib.GetStreamsForUser(ctx, userID, opts)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, streams)
}

func (h *Handler) collaborationsFor(ctx context.Context, objectType string, userID primitive.ObjectID, opts registry.QueryOptions) ([]models.Collaboration, error) {
	lib, ok := h.Registry.Lib(objectType)
	if !ok {
		return nil, collaberr.NewNotFound("no lib registered for object type %q", objectType)
	}
	return lib.GetCollaborationsForUser(ctx, userID, opts)
}

func queryOptions(r *http.Request) (registry.QueryOptions, string, error) {
	opts := registry.QueryOptions{
		Title:    query.Get(r, "title"),
		Writable: query.Get(r, "writable") == "1" || query.Get(r, "writable") == "true",
	}
	if s := query.Get(r, "domain_id"); s != "" {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return opts, "", collaberr.NewValidation("invalid domain_id %q", s)
		}
		opts.DomainID = id
	}
	objectType := query.Get(r, "objectType")
	if objectType == "" {
		objectType = models.ObjectTypeCollaboration
	}
	return opts, objectType, nil
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case collaberr.IsValidation(err):
		writeStatus(w, http.StatusBadRequest, err.Error())
	case collaberr.IsNotFound(err):
		writeStatus(w, http.StatusNotFound, err.Error())
	default:
		if h.Log != nil {
			h.Log.Error("user collaborations lookup failed", zap.Error(err))
		}
		writeStatus(w, http.StatusInternalServerError, "internal error")
	}
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: status, Message: msg}})
}
