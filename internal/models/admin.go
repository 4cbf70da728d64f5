package models

import "time"

// OverviewStats is the admin dashboard headline numbers.
type OverviewStats struct {
	TotalEvents  int64   `json:"total_events"`
	TotalHosts   int64   `json:"total_hosts"`
	TotalPhotos  int64   `json:"total_photos"`
	StorageBytes int64   `json:"storage_bytes"`
	StorageGB    float64 `json:"storage_gb"`
}

// AdminEventResponse extends the host view with owner details.
type AdminEventResponse struct {
	EventResponse
	Host *UserProfileResponse `json:"host,omitempty"`
}

type AdminHostResponse struct {
	ID          uint       `json:"id"`
	SubjectID   string     `json:"subject_id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Status      HostStatus `json:"status"`
	EventCount  int64      `json:"event_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

type HostStatusRequest struct {
	Suspended bool `json:"suspended"`
}

type EventStatusRequest struct {
	// Suspended true moves an active event to suspended; false moves a
	// suspended event back to active.
	Suspended bool `json:"suspended"`
}

// RecentUpload is a photo plus the email of the event's host, for the
// admin moderation feed.
type RecentUpload struct {
	PhotoResponse
	HostEmail string `json:"host_email,omitempty"`
}
