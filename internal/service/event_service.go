package service

import (
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/pkg/audit"
	"github.com/snapgather/snapgather-backend/pkg/bcrypt"
	"github.com/snapgather/snapgather-backend/pkg/storage"
	"github.com/snapgather/snapgather-backend/pkg/utils"
)

const shareTokenLength = 10

// EventService owns the event lifecycle: draft -> active -> suspended ->
// active, any non-deleted state -> deleted. Deleted is terminal and is
// checked before ownership so probing a deleted event reveals nothing
// beyond not-found.
type EventService struct {
	events   EventStore
	photos   PhotoStore
	guard    *Guard
	objects  storage.ObjectStorage
	imgStore storage.ImageService
	auditor  *audit.Publisher
	logger   *zap.Logger
}

func NewEventService(
	events EventStore,
	photos PhotoStore,
	guard *Guard,
	objects storage.ObjectStorage,
	imgStore storage.ImageService,
	auditor *audit.Publisher,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		events:   events,
		photos:   photos,
		guard:    guard,
		objects:  objects,
		imgStore: imgStore,
		auditor:  auditor,
		logger:   logger,
	}
}

func (s *EventService) CreateEvent(actor *models.Actor, req models.CreateEventRequest) (*models.Event, error) {
	if actor.Suspended() && !actor.IsAdmin {
		return nil, models.ErrHostSuspended
	}

	token, err := s.newShareToken()
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		HostID:      actor.HostID(),
		Title:       req.Title,
		Description: req.Description,
		Status:      models.EventDraft,
		ShareToken:  token,
	}

	if req.Password != "" {
		hash, err := bcrypt.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		event.PasswordHash = hash
	}

	created, err := s.events.Create(event)
	if err != nil {
		return nil, err
	}

	s.logger.Info("event created",
		zap.Uint("event_id", created.ID), zap.Uint("host_id", created.HostID))
	return created, nil
}

// newShareToken retries on the unlikely collision; the unique index on
// share_token is the final arbiter either way.
func (s *EventService) newShareToken() (string, error) {
	for i := 0; i < 3; i++ {
		token := utils.GenerateShareToken(shareTokenLength)
		exists, err := s.events.ShareTokenExists(token)
		if err != nil {
			return "", err
		}
		if !exists {
			return token, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique share token")
}

// load fetches an event, mapping the terminal state to the right error:
// deleted rows are blocked before any ownership decision.
func (s *EventService) load(id uint) (*models.Event, error) {
	event, err := s.events.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventDeleted {
		return nil, models.ErrIllegalState
	}
	return event, nil
}

func (s *EventService) GetEvent(actor *models.Actor, id uint) (*models.Event, error) {
	event, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckEvent(actor, OpView, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) GetHostEvents(actor *models.Actor) ([]models.Event, error) {
	if actor.Suspended() && !actor.IsAdmin {
		return nil, models.ErrHostSuspended
	}
	all, err := s.events.GetByHostID(actor.HostID())
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(all))
	for _, e := range all {
		if e.Status != models.EventDeleted {
			events = append(events, e)
		}
	}
	return events, nil
}

func (s *EventService) PhotoCount(eventID uint) (int64, error) {
	return s.photos.CountByEventID(eventID)
}

// UpdateEvent mutates metadata. Allowed in draft, active and suspended;
// deleted rows were already rejected by load.
func (s *EventService) UpdateEvent(actor *models.Actor, id uint, req models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckEvent(actor, OpUpdate, event); err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Password != nil {
		if *req.Password == "" {
			event.PasswordHash = ""
		} else {
			hash, err := bcrypt.HashPassword(*req.Password)
			if err != nil {
				return nil, err
			}
			event.PasswordHash = hash
		}
	}

	if err := s.events.Save(event); err != nil {
		return nil, err
	}
	return event, nil
}

// Publish moves a draft live. Owner trigger; the conditional update is
// what serializes a concurrent double-publish down to one winner.
func (s *EventService) Publish(actor *models.Actor, id uint) (*models.Event, error) {
	event, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckEvent(actor, OpPublish, event); err != nil {
		return nil, err
	}

	ok, err := s.events.UpdateStatusIf(id, models.EventDraft, models.EventActive)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrIllegalState
	}

	event.Status = models.EventActive
	s.emit(actor, "event.publish", id, "ok")
	return event, nil
}

// Suspend is an admin-only moderation action on an active event.
func (s *EventService) Suspend(actor *models.Actor, id uint) (*models.Event, error) {
	if !actor.IsAdmin {
		return nil, models.ErrNotOwner
	}
	event, err := s.load(id)
	if err != nil {
		return nil, err
	}

	ok, err := s.events.UpdateStatusIf(id, models.EventActive, models.EventSuspended)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrIllegalState
	}

	event.Status = models.EventSuspended
	s.emit(actor, "event.suspend", id, "ok")
	return event, nil
}

// Reactivate is admin-only and only valid from suspended.
func (s *EventService) Reactivate(actor *models.Actor, id uint) (*models.Event, error) {
	if !actor.IsAdmin {
		return nil, models.ErrNotOwner
	}
	event, err := s.load(id)
	if err != nil {
		return nil, err
	}

	ok, err := s.events.UpdateStatusIf(id, models.EventSuspended, models.EventActive)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrIllegalState
	}

	event.Status = models.EventActive
	s.emit(actor, "event.reactivate", id, "ok")
	return event, nil
}

// Delete soft-deletes. Photo rows stay behind but become unreachable
// through every read path.
func (s *EventService) Delete(actor *models.Actor, id uint) error {
	event, err := s.load(id)
	if err != nil {
		return err
	}
	if err := s.guard.CheckEvent(actor, OpDelete, event); err != nil {
		return err
	}

	ok, err := s.events.MarkDeleted(id)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrIllegalState
	}

	s.emit(actor, "event.delete", id, "ok")
	return nil
}

// ForceDelete is the admin hard delete: the event row and every photo
// row and blob go away. Storage cleanup is best effort; orphaned blobs
// are cheaper than blocked deletions.
func (s *EventService) ForceDelete(actor *models.Actor, id uint) error {
	if !actor.IsAdmin {
		return models.ErrNotOwner
	}

	event, err := s.events.GetByID(id)
	if err != nil {
		return err
	}

	photos, err := s.photos.AllByEventID(event.ID)
	if err != nil {
		return err
	}
	for _, photo := range photos {
		if photo.StorageRef != "" {
			if err := s.objects.Delete(photo.StorageRef); err != nil {
				s.logger.Warn("photo blob cleanup failed",
					zap.Uint("photo_id", photo.ID), zap.Error(err))
			}
		}
		if photo.ImageID != "" {
			if err := s.imgStore.Delete(photo.ImageID); err != nil {
				s.logger.Warn("image variant cleanup failed",
					zap.Uint("photo_id", photo.ID), zap.Error(err))
			}
		}
	}

	if err := s.photos.DeleteByEventID(event.ID); err != nil {
		return err
	}
	if err := s.events.Delete(event.ID); err != nil {
		return err
	}

	s.emit(actor, "event.force_delete", id, "ok")
	return nil
}

// BulkAction applies the requested transition per event. Partial
// success is the contract: each item carries its own outcome and no
// item can abort the rest.
func (s *EventService) BulkAction(actor *models.Actor, req models.EventBulkRequest) ([]models.BulkOutcome, error) {
	apply := func(id uint) error {
		switch req.Action {
		case models.BulkPublish:
			_, err := s.Publish(actor, id)
			return err
		case models.BulkSuspend:
			_, err := s.Suspend(actor, id)
			return err
		case models.BulkReactivate:
			_, err := s.Reactivate(actor, id)
			return err
		case models.BulkDelete:
			return s.Delete(actor, id)
		default:
			return fmt.Errorf("unknown action %q", req.Action)
		}
	}

	outcomes := make([]models.BulkOutcome, 0, len(req.EventIDs))
	for _, id := range req.EventIDs {
		if err := apply(id); err != nil {
			outcomes = append(outcomes, models.BulkOutcome{ID: id, OK: false, Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, models.BulkOutcome{ID: id, OK: true})
	}
	return outcomes, nil
}

// UploadCover stores a new cover image and records its ref.
func (s *EventService) UploadCover(actor *models.Actor, id uint, file *multipart.FileHeader) (*models.Event, error) {
	event, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckEvent(actor, OpUpdate, event); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	key := fmt.Sprintf("events/%d/cover/%s", event.ID, file.Filename)
	if err := s.objects.Upload(key, src); err != nil {
		return nil, err
	}

	event.CoverImageRef = key
	if err := s.events.Save(event); err != nil {
		_ = s.objects.Delete(key)
		return nil, err
	}
	return event, nil
}

func (s *EventService) emit(actor *models.Actor, action string, eventID uint, outcome string) {
	role := "host"
	if actor.IsAdmin {
		role = "admin"
	}
	s.auditor.Emit(audit.Entry{
		ActorID:   actor.HostID(),
		ActorRole: role,
		Action:    action,
		Target:    fmt.Sprintf("event:%d", eventID),
		Outcome:   outcome,
	})
}
