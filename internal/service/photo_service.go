package service

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/pkg/audit"
	"github.com/snapgather/snapgather-backend/pkg/storage"
)

const maxPhotoSize = 10 * 1024 * 1024

// PhotoService owns moderation: pending -> approved/rejected, approved
// <-> rejected, and removal. Every transition is authorized through the
// photo's owning event and applied as a conditional update so two
// concurrent moderators cannot both win from the same observed state.
type PhotoService struct {
	photos   PhotoStore
	events   EventStore
	users    UserStore
	guard    *Guard
	objects  storage.ObjectStorage
	imgStore storage.ImageService
	notifier Notifier
	auditor  *audit.Publisher
	logger   *zap.Logger
}

func NewPhotoService(
	photos PhotoStore,
	events EventStore,
	users UserStore,
	guard *Guard,
	objects storage.ObjectStorage,
	imgStore storage.ImageService,
	notifier Notifier,
	auditor *audit.Publisher,
	logger *zap.Logger,
) *PhotoService {
	return &PhotoService{
		photos:   photos,
		events:   events,
		users:    users,
		guard:    guard,
		objects:  objects,
		imgStore: imgStore,
		notifier: notifier,
		auditor:  auditor,
		logger:   logger,
	}
}

// loadForModeration resolves the photo and authorizes the actor against
// the owning event. A deleted owning event blocks moderation outright; a
// suspended one does not.
func (s *PhotoService) loadForModeration(actor *models.Actor, photoID uint) (*models.Photos, *models.Event, error) {
	photo, err := s.photos.GetByID(photoID)
	if err != nil {
		return nil, nil, err
	}

	event, err := s.guard.CheckPhoto(actor, OpModerate, photo)
	if err != nil {
		return nil, nil, err
	}
	if event.Status == models.EventDeleted {
		return nil, nil, models.ErrIllegalState
	}
	return photo, event, nil
}

func legalTransition(from, to models.ApprovalStatus) bool {
	switch to {
	case models.PhotoApproved:
		return from == models.PhotoPending || from == models.PhotoRejected
	case models.PhotoRejected:
		return from == models.PhotoPending || from == models.PhotoApproved
	}
	return false
}

func (s *PhotoService) moderate(actor *models.Actor, photoID uint, to models.ApprovalStatus) (*models.Photos, error) {
	photo, event, err := s.loadForModeration(actor, photoID)
	if err != nil {
		return nil, err
	}

	if !legalTransition(photo.Status, to) {
		return nil, models.ErrIllegalState
	}

	now := time.Now().UTC()
	// CAS on the state the moderator observed: losing the race to a
	// concurrent approve/reject/remove surfaces as a stale-state error.
	ok, err := s.photos.UpdateStatusIf(photo.ID, photo.Status, to, actor.HostID(), now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrIllegalState
	}

	photo.Status = to
	moderator := actor.HostID()
	photo.ModeratedBy = &moderator
	photo.ModeratedAt = &now

	if host, err := s.users.GetByID(event.HostID); err == nil {
		switch to {
		case models.PhotoApproved:
			go s.notifier.SendPhotoApproved(host.Email, host.DisplayName, event.Title)
		case models.PhotoRejected:
			go s.notifier.SendPhotoRejected(host.Email, host.DisplayName, event.Title)
		}
	}

	s.emit(actor, "photo."+string(to), photo.ID, "ok")
	return photo, nil
}

func (s *PhotoService) Approve(actor *models.Actor, photoID uint) (*models.Photos, error) {
	return s.moderate(actor, photoID, models.PhotoApproved)
}

func (s *PhotoService) Reject(actor *models.Actor, photoID uint) (*models.Photos, error) {
	return s.moderate(actor, photoID, models.PhotoRejected)
}

func (s *PhotoService) UpdateCaption(actor *models.Actor, photoID uint, caption string) (*models.Photos, error) {
	photo, _, err := s.loadForModeration(actor, photoID)
	if err != nil {
		return nil, err
	}

	if err := s.photos.UpdateCaption(photo.ID, caption); err != nil {
		return nil, err
	}
	photo.Caption = caption
	return photo, nil
}

// Remove hard-deletes the photo; the row ceases to exist and the
// moderation stamp is left alone. Blob cleanup happens before the row
// goes so a failed storage delete never strands an invisible row.
func (s *PhotoService) Remove(actor *models.Actor, photoID uint) error {
	photo, _, err := s.loadForModeration(actor, photoID)
	if err != nil {
		return err
	}

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

	if err := s.photos.Delete(photo.ID); err != nil {
		return err
	}

	s.emit(actor, "photo.remove", photoID, "ok")
	return nil
}

// BulkRemove resolves and removes each photo independently; ids that do
// not exist or fail authorization report their own outcome and never
// abort the remaining deletions.
func (s *PhotoService) BulkRemove(actor *models.Actor, photoIDs []uint) []models.BulkOutcome {
	outcomes := make([]models.BulkOutcome, 0, len(photoIDs))
	for _, id := range photoIDs {
		if err := s.Remove(actor, id); err != nil {
			outcomes = append(outcomes, models.BulkOutcome{ID: id, OK: false, Error: err.Error()})
			continue
		}
		outcomes = append(outcomes, models.BulkOutcome{ID: id, OK: true})
	}
	return outcomes
}

// ListEventPhotos is the host/admin view: all moderation states.
func (s *PhotoService) ListEventPhotos(actor *models.Actor, eventID uint, page, pageSize int) ([]models.Photos, int64, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, 0, err
	}
	if event.Status == models.EventDeleted {
		return nil, 0, models.ErrIllegalState
	}
	if err := s.guard.CheckEvent(actor, OpView, event); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	return s.photos.ListByEventID(eventID, offset, pageSize)
}

// CreatePublicPhoto stores an anonymous visitor's upload against an
// event the share gate already admitted. Every upload starts pending.
func (s *PhotoService) CreatePublicPhoto(event *models.Event, file *multipart.FileHeader, caption string) (*models.Photos, error) {
	if file.Size > maxPhotoSize {
		return nil, fmt.Errorf("file size too large")
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	key := fmt.Sprintf("events/%d/%s-%s", event.ID, uuid.NewString(), file.Filename)
	if err := s.objects.Upload(key, src); err != nil {
		return nil, err
	}

	if _, err := src.Seek(0, 0); err != nil {
		_ = s.objects.Delete(key)
		return nil, err
	}
	imageID, variants, err := s.imgStore.Upload(src, file.Filename)
	if err != nil {
		_ = s.objects.Delete(key)
		return nil, err
	}

	photo := &models.Photos{
		EventID:     event.ID,
		StorageRef:  key,
		ImageID:     imageID,
		Variants:    variants,
		Caption:     caption,
		Status:      models.PhotoPending,
		FileSize:    file.Size,
		MimeType:    file.Header.Get("Content-Type"),
		UploaderTag: uuid.NewString(),
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.photos.Create(photo); err != nil {
		_ = s.objects.Delete(key)
		_ = s.imgStore.Delete(imageID)
		return nil, err
	}
	return photo, nil
}

func (s *PhotoService) emit(actor *models.Actor, action string, photoID uint, outcome string) {
	role := "host"
	if actor.IsAdmin {
		role = "admin"
	}
	s.auditor.Emit(audit.Entry{
		ActorID:   actor.HostID(),
		ActorRole: role,
		Action:    action,
		Target:    fmt.Sprintf("photo:%d", photoID),
		Outcome:   outcome,
	})
}
