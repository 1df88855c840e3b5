// internal/app/core/permission/permission.go

// Package permission decides read and write access for a collaboration and a
// requesting tuple. Decisions are pure functions over the loaded document;
// they do no I/O.
package permission

import (
	"github.com/dalemusser/collabhub/internal/app/core/collaberr"
	"github.com/dalemusser/collabhub/internal/domain/models"
)

// CanRead reports whether t may read the collaboration.
// Open and restricted collaborations are readable by any authenticated
// principal; private and confidential only by members and the creator.
func CanRead(c *models.Collaboration, t models.Tuple) (bool, error) {
	if err := validate(c, t); err != nil {
		return false, err
	}
	switch c.Type {
	case models.CollaborationTypeOpen, models.CollaborationTypeRestricted:
		return true, nil
	case models.CollaborationTypePrivate, models.CollaborationTypeConfidential:
		return c.IsMember(t) || c.IsCreator(t), nil
	}
	return false, collaberr.NewValidation("unknown collaboration type %q", c.Type)
}

// CanWrite reports whether t may post into the collaboration's stream.
// Only current members may write; the creator counts as a member here.
func CanWrite(c *models.Collaboration, t models.Tuple) (bool, error) {
	if err := validate(c, t); err != nil {
		return false, err
	}
	return c.IsMember(t) || c.IsCreator(t), nil
}

// FilterWritable returns the subset of collaborations t may write into,
// preserving input order. A failed individual check (malformed document)
// filters that entry out rather than aborting the batch; an empty input
// yields an empty, non-nil result.
func FilterWritable(cs []models.Collaboration, t models.Tuple) []models.Collaboration {
	out := make([]models.Collaboration, 0, len(cs))
	for i := range cs {
		ok, err := CanWrite(&cs[i], t)
		if err != nil || !ok {
			continue
		}
		out = append(out, cs[i])
	}
	return out
}

func validate(c *models.Collaboration, t models.Tuple) error {
	if c == nil {
		return collaberr.NewValidation("collaboration is required")
	}
	if err := t.Validate(); err != nil {
		return collaberr.NewValidation("invalid tuple: %v", err)
	}
	return nil
}
