package service

import (
	"context"
	"time"

	"github.com/snapgather/snapgather-backend/internal/models"
)

// Store interfaces are satisfied by the gorm repositories and by the
// in-memory fakes the unit tests use.

type UserStore interface {
	GetByID(id uint) (*models.User, error)
	GetOrCreateBySubjectID(user *models.User) (*models.User, bool, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, int64, error)
	Count() (int64, error)
}

type EventStore interface {
	Create(event *models.Event) (*models.Event, error)
	GetByID(id uint) (*models.Event, error)
	GetByShareToken(token string) (*models.Event, error)
	GetByHostID(hostID uint) ([]models.Event, error)
	Save(event *models.Event) error
	UpdateStatusIf(id uint, from, to models.EventStatus) (bool, error)
	MarkDeleted(id uint) (bool, error)
	Delete(id uint) error
	List(offset, limit int) ([]models.Event, int64, error)
	Count() (int64, error)
	CountByHostID(hostID uint) (int64, error)
	ShareTokenExists(token string) (bool, error)
}

type PhotoStore interface {
	Create(photo *models.Photos) error
	GetByID(id uint) (*models.Photos, error)
	ListByEventID(eventID uint, offset, limit int) ([]models.Photos, int64, error)
	ListApprovedByEventID(eventID uint, offset, limit int) ([]models.Photos, int64, error)
	AllByEventID(eventID uint) ([]models.Photos, error)
	UpdateStatusIf(id uint, from, to models.ApprovalStatus, moderatorID uint, at time.Time) (bool, error)
	UpdateCaption(id uint, caption string) error
	Delete(id uint) error
	DeleteByEventID(eventID uint) error
	CountByEventID(eventID uint) (int64, error)
	CountApprovedByEventID(eventID uint) (int64, error)
	Count() (int64, error)
	SumFileSize() (int64, error)
	Recent(offset, limit int) ([]models.Photos, int64, error)
}

type JobStore interface {
	Put(ctx context.Context, job *models.ExportJob) error
	Get(ctx context.Context, id string) (*models.ExportJob, error)
}

// Notifier carries the fire-and-forget signals the core emits. Delivery
// and templating live behind it.
type Notifier interface {
	SendHostWelcomed(toEmail, name string)
	SendPhotoApproved(toEmail, name, eventTitle string)
	SendPhotoRejected(toEmail, name, eventTitle string)
	SendExportReady(toEmail, name, eventTitle, downloadURL string)
}
