package service

import (
	"github.com/snapgather/snapgather-backend/internal/models"
)

// OperationKind names a guarded operation for audit and deny mapping.
type OperationKind string

const (
	OpView     OperationKind = "view"
	OpUpdate   OperationKind = "update"
	OpPublish  OperationKind = "publish"
	OpDelete   OperationKind = "delete"
	OpModerate OperationKind = "moderate"
	OpExport   OperationKind = "export"
)

// Guard encodes the ownership and role rules. Rules run in order, first
// match wins: admin is a full superset; owners are allowed subject to
// state-machine legality, which the lifecycles enforce separately; a
// suspended host is denied host-scoped access before ownership is
// considered.
type Guard struct {
	events EventStore
}

func NewGuard(events EventStore) *Guard {
	return &Guard{events: events}
}

// CheckEvent returns nil for allow, or a typed deny reason.
func (g *Guard) CheckEvent(actor *models.Actor, op OperationKind, event *models.Event) error {
	if actor.IsAdmin {
		return nil
	}
	if actor.Suspended() {
		return models.ErrHostSuspended
	}
	if actor.HostID() != 0 && actor.HostID() == event.HostID {
		return nil
	}
	return models.ErrNotOwner
}

// CheckPhoto authorizes through the photo's owning event; photos have no
// independent ownership. The owning event is looked up explicitly and
// returned so callers do not re-fetch it.
func (g *Guard) CheckPhoto(actor *models.Actor, op OperationKind, photo *models.Photos) (*models.Event, error) {
	event, err := g.events.GetByID(photo.EventID)
	if err != nil {
		return nil, err
	}
	if err := g.CheckEvent(actor, op, event); err != nil {
		return nil, err
	}
	return event, nil
}
