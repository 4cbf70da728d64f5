package models

import "time"

// JobStatus is the lifecycle of an asynchronous export job.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// ExportRequest narrows an event export to a photo selection. An empty
// list means every approved photo.
type ExportRequest struct {
	PhotoIDs []uint `json:"photo_ids"`
}

// ExportJob tracks a background archive build. Submit returns the id;
// callers poll until done and then follow ResultRef.
type ExportJob struct {
	ID          string    `json:"id"`
	EventID     uint      `json:"event_id,omitempty"`
	RequestedBy uint      `json:"requested_by"`
	Status      JobStatus `json:"status"`
	ResultRef   string    `json:"result_ref,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
