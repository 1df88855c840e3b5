// internal/app/features/collaborations/read.go
package collaborations

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/collabhub/internal/app/core/permission"
	"github.com/dalemusser/collabhub/internal/app/system/authz"
	"github.com/dalemusser/collabhub/internal/app/system/timeouts"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

// collaborationView is the read-side JSON shape. The raw member and pending
// lists stay server-side; list endpoints page over them.
type collaborationView struct {
	ID                 string       `json:"id"`
	ObjectType         string       `json:"objectType"`
	Title              string       `json:"title"`
	Description        string       `json:"description,omitempty"`
	Type               string       `json:"type"`
	Creator            models.Tuple `json:"creator"`
	DomainIDs          []string     `json:"domain_ids"`
	ActivityStreamUUID string       `json:"activity_stream_uuid"`
	MemberCount        int          `json:"member_count"`
	Member             bool         `json:"member"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

func viewOf(c *models.Collaboration, viewer models.Tuple) collaborationView {
	domains := make([]string, 0, len(c.DomainIDs))
	for _, d := range c.DomainIDs {
		domains = append(domains, d.Hex())
	}
	return collaborationView{
		ID:                 c.ID.Hex(),
		ObjectType:         c.ObjectType,
		Title:              c.Title,
		Description:        c.Description,
		Type:               c.Type,
		Creator:            c.Creator,
		DomainIDs:          domains,
		ActivityStreamUUID: c.ActivityStreamUUID,
		MemberCount:        len(c.Members),
		Member:             c.IsMember(viewer),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// ServeCollaboration handles GET /api/collaborations/{objectType}/{id}.
// Visibility rules gate the read: private and confidential collaborations are
// only visible to their members and creator.
func (h *Handler) ServeCollaboration(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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

	writeJSON(w, http.StatusOK, viewOf(c, viewer))
}
