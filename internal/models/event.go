package models

import (
	"time"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventActive    EventStatus = "active"
	EventSuspended EventStatus = "suspended"
	// EventDeleted is terminal. Rows stay behind for the soft-delete
	// path; only an admin force-delete removes them.
	EventDeleted EventStatus = "deleted"
)

type Event struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	HostID        uint        `json:"host_id" gorm:"not null;index"`
	Title         string      `json:"title" gorm:"not null"`
	Description   string      `json:"description"`
	Status        EventStatus `json:"status" gorm:"not null;default:draft;index"`
	PasswordHash  string      `json:"-" gorm:"type:varchar(255)"`
	ShareToken    string      `json:"share_token" gorm:"uniqueIndex;not null"`
	CoverImageRef string      `json:"cover_image_ref"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// HasPassword reports whether public access is password gated.
func (e *Event) HasPassword() bool {
	return e.PasswordHash != ""
}

type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Password    string `json:"password" validate:"omitempty,min=4"`
}

type UpdateEventRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Password    *string `json:"password"`
}

// EventBulkAction names a bulk lifecycle action over a set of event ids.
type EventBulkAction string

const (
	BulkPublish    EventBulkAction = "publish"
	BulkSuspend    EventBulkAction = "suspend"
	BulkReactivate EventBulkAction = "reactivate"
	BulkDelete     EventBulkAction = "delete"
)

type EventBulkRequest struct {
	Action   EventBulkAction `json:"action" validate:"required"`
	EventIDs []uint          `json:"event_ids" validate:"required,min=1"`
}

// BulkOutcome is the per-item result of a bulk action. Bulk operations
// are partial-success by contract: one illegal transition never aborts
// the rest of the batch.
type BulkOutcome struct {
	ID    uint   `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type EventResponse struct {
	ID            uint        `json:"id"`
	HostID        uint        `json:"host_id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Status        EventStatus `json:"status"`
	HasPassword   bool        `json:"has_password"`
	ShareToken    string      `json:"share_token"`
	CoverImageRef string      `json:"cover_image_ref,omitempty"`
	PhotoCount    int64       `json:"photo_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func NewEventResponse(e *Event, photoCount int64) EventResponse {
	return EventResponse{
		ID:            e.ID,
		HostID:        e.HostID,
		Title:         e.Title,
		Description:   e.Description,
		Status:        e.Status,
		HasPassword:   e.HasPassword(),
		ShareToken:    e.ShareToken,
		CoverImageRef: e.CoverImageRef,
		PhotoCount:    photoCount,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// PublicEventResponse is the gate-filtered view exposed through a share
// token. It never leaks lifecycle state beyond "available".
type PublicEventResponse struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	CoverImageRef string `json:"cover_image_ref,omitempty"`
	HasPassword   bool   `json:"has_password"`
	PhotoCount    int64  `json:"photo_count"`
}

type EventPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}
