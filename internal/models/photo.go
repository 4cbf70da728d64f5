package models

import (
	"time"
)

// ApprovalStatus is the moderation state of a photo.
type ApprovalStatus string

const (
	PhotoPending  ApprovalStatus = "pending"
	PhotoApproved ApprovalStatus = "approved"
	PhotoRejected ApprovalStatus = "rejected"
)

// Photos are owned by their event only. Uploaders are anonymous; the
// uploader tag exists for dedup/abuse tooling, not ownership.
type Photos struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	EventID     uint           `json:"event_id" gorm:"not null;index"`
	StorageRef  string         `json:"storage_ref" gorm:"not null"`
	ImageID     string         `json:"image_id"`
	Variants    []string       `json:"variants" gorm:"type:json;serializer:json"`
	Caption     string         `json:"caption"`
	Status      ApprovalStatus `json:"approval_status" gorm:"column:approval_status;not null;default:pending;index"`
	FileSize    int64          `json:"file_size"`
	MimeType    string         `json:"mime_type"`
	UploaderTag string         `json:"uploader_tag"`
	UploadedAt  time.Time      `json:"uploaded_at"`
	ModeratedBy *uint          `json:"moderated_by"`
	ModeratedAt *time.Time     `json:"moderated_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type UpdatePhotoRequest struct {
	Caption *string `json:"caption" validate:"omitempty,max=255"`
}

// PublicUploadRequest is assembled from the multipart form of an
// anonymous guest upload.
type PublicUploadRequest struct {
	Caption  string `validate:"max=255"`
	MimeType string `validate:"required,supported_image"`
}

type BulkDeletePhotosRequest struct {
	PhotoIDs []uint `json:"photo_ids" validate:"required,min=1"`
}

type BulkDownloadPhotosRequest struct {
	PhotoIDs []uint `json:"photo_ids" validate:"required,min=1"`
}

type PhotoResponse struct {
	ID           uint           `json:"id"`
	EventID      uint           `json:"event_id"`
	PublicURL    string         `json:"public_url"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	Caption      string         `json:"caption,omitempty"`
	Status       ApprovalStatus `json:"approval_status"`
	FileSize     int64          `json:"file_size"`
	UploadedAt   time.Time      `json:"uploaded_at"`
	ModeratedBy  *uint          `json:"moderated_by,omitempty"`
	ModeratedAt  *time.Time     `json:"moderated_at,omitempty"`
}

type PhotoListResponse struct {
	Photos   []PhotoResponse `json:"photos"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	HasMore  bool            `json:"has_more"`
}
