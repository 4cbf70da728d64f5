package service

import (
	"errors"

	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/pkg/bcrypt"
)

// ShareAccessGate evaluates public-visitor access through a share token,
// independent of any actor identity. Draft, suspended and deleted events
// all deny with the same reason so visitors cannot tell them apart, and
// a granted view exposes approved photos only.
type ShareAccessGate struct {
	events EventStore
	photos PhotoStore
}

func NewShareAccessGate(events EventStore, photos PhotoStore) *ShareAccessGate {
	return &ShareAccessGate{
		events: events,
		photos: photos,
	}
}

// resolve maps unknown tokens and every non-active state to the uniform
// public deny.
func (g *ShareAccessGate) resolve(shareToken string) (*models.Event, error) {
	event, err := g.events.GetByShareToken(shareToken)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNotAvailable
	}
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventActive {
		return nil, models.ErrNotAvailable
	}
	return event, nil
}

// Evaluate admits or denies a visitor. The password gate covers both
// viewing and uploading for password-protected events.
func (g *ShareAccessGate) Evaluate(shareToken, suppliedPassword string) (*models.Event, error) {
	event, err := g.resolve(shareToken)
	if err != nil {
		return nil, err
	}

	if event.HasPassword() {
		if err := bcrypt.ComparePassword(event.PasswordHash, suppliedPassword); err != nil {
			return nil, models.ErrWrongPassword
		}
	}
	return event, nil
}

// EventInfo is the pre-password teaser: enough for the visitor page to
// render a title and prompt for the password when one is set.
func (g *ShareAccessGate) EventInfo(shareToken string) (*models.PublicEventResponse, error) {
	event, err := g.resolve(shareToken)
	if err != nil {
		return nil, err
	}

	count, err := g.photos.CountApprovedByEventID(event.ID)
	if err != nil {
		return nil, err
	}

	return &models.PublicEventResponse{
		Title:         event.Title,
		Description:   event.Description,
		CoverImageRef: event.CoverImageRef,
		HasPassword:   event.HasPassword(),
		PhotoCount:    count,
	}, nil
}

// ApprovedPhotos lists the granted view. Pending and rejected photos are
// never reachable through this path, password or not.
func (g *ShareAccessGate) ApprovedPhotos(shareToken, suppliedPassword string, page, pageSize int) ([]models.Photos, int64, error) {
	event, err := g.Evaluate(shareToken, suppliedPassword)
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	return g.photos.ListApprovedByEventID(event.ID, offset, pageSize)
}

// VerifyPassword lets the visitor page check a password before the
// photo fetch. Events without a password always pass.
func (g *ShareAccessGate) VerifyPassword(shareToken, suppliedPassword string) error {
	_, err := g.Evaluate(shareToken, suppliedPassword)
	return err
}
