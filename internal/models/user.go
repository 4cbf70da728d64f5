package models

import (
	"time"
)

// HostStatus is the account state of a registered host.
type HostStatus string

const (
	HostActive    HostStatus = "active"
	HostSuspended HostStatus = "suspended"
)

// User is a registered host account. Rows are keyed by the identity
// provider's subject id, so resolving the same identity twice always
// lands on the same row.
type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	SubjectID   string     `json:"subject_id" gorm:"uniqueIndex;not null"`
	Email       string     `json:"email" gorm:"index;not null"`
	DisplayName string     `json:"display_name"`
	Status      HostStatus `json:"status" gorm:"not null;default:active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

type UserProfileResponse struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Status      HostStatus `json:"status"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
}
