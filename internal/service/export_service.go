package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/pkg/storage"
)

// ExportService runs archive builds behind a submit/poll contract. Jobs
// are decoupled from the moderation state machine: a job snapshots the
// photo set at start and later transitions do not affect a running build.
type ExportService struct {
	jobs     JobStore
	events   EventStore
	photos   PhotoStore
	users    UserStore
	guard    *Guard
	objects  storage.ObjectStorage
	notifier Notifier
	logger   *zap.Logger
}

func NewExportService(
	jobs JobStore,
	events EventStore,
	photos PhotoStore,
	users UserStore,
	guard *Guard,
	objects storage.ObjectStorage,
	notifier Notifier,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		jobs:     jobs,
		events:   events,
		photos:   photos,
		users:    users,
		guard:    guard,
		objects:  objects,
		notifier: notifier,
		logger:   logger,
	}
}

// SubmitEventExport starts an archive of an event's photos: the listed
// ids, or every approved photo when none are given.
func (s *ExportService) SubmitEventExport(ctx context.Context, actor *models.Actor, eventID uint, photoIDs []uint) (*models.ExportJob, error) {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventDeleted {
		return nil, models.ErrIllegalState
	}
	if err := s.guard.CheckEvent(actor, OpExport, event); err != nil {
		return nil, err
	}

	job := &models.ExportJob{
		ID:          uuid.NewString(),
		EventID:     event.ID,
		RequestedBy: actor.HostID(),
		Status:      models.JobPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.Put(ctx, job); err != nil {
		return nil, err
	}

	go s.runEventExport(*job, *event, photoIDs)
	return job, nil
}

// GetJob serves polls. Jobs are visible to their requester and admins.
func (s *ExportService) GetJob(ctx context.Context, actor *models.Actor, jobID string) (*models.ExportJob, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && job.RequestedBy != actor.HostID() {
		return nil, models.ErrNotOwner
	}
	return job, nil
}

func (s *ExportService) runEventExport(job models.ExportJob, event models.Event, photoIDs []uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	s.setStatus(ctx, &job, models.JobRunning, "", "")

	photos, err := s.selectPhotos(event.ID, photoIDs)
	if err != nil {
		s.fail(ctx, &job, err)
		return
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, photo := range photos {
		if photo.StorageRef == "" {
			continue
		}
		src, err := s.objects.Download(photo.StorageRef)
		if err != nil {
			s.logger.Warn("export skipping unreadable photo",
				zap.Uint("photo_id", photo.ID), zap.Error(err))
			continue
		}
		entry, err := zw.Create(fmt.Sprintf("%d-%s", photo.ID, path.Base(photo.StorageRef)))
		if err == nil {
			_, err = io.Copy(entry, src)
		}
		src.Close()
		if err != nil {
			s.fail(ctx, &job, err)
			return
		}
	}
	if err := zw.Close(); err != nil {
		s.fail(ctx, &job, err)
		return
	}

	key := fmt.Sprintf("exports/%d/%s.zip", event.ID, job.ID)
	if err := s.objects.Upload(key, bytes.NewReader(buf.Bytes())); err != nil {
		s.fail(ctx, &job, err)
		return
	}

	s.setStatus(ctx, &job, models.JobDone, key, "")
	s.logger.Info("export finished",
		zap.String("job_id", job.ID), zap.Uint("event_id", event.ID), zap.Int("photos", len(photos)))

	if host, err := s.users.GetByID(job.RequestedBy); err == nil {
		go s.notifier.SendExportReady(host.Email, host.DisplayName, event.Title, s.objects.PublicURL(key))
	}
}

func (s *ExportService) selectPhotos(eventID uint, photoIDs []uint) ([]models.Photos, error) {
	if len(photoIDs) == 0 {
		all, err := s.photos.AllByEventID(eventID)
		if err != nil {
			return nil, err
		}
		approved := make([]models.Photos, 0, len(all))
		for _, p := range all {
			if p.Status == models.PhotoApproved {
				approved = append(approved, p)
			}
		}
		return approved, nil
	}

	selected := make([]models.Photos, 0, len(photoIDs))
	for _, id := range photoIDs {
		photo, err := s.photos.GetByID(id)
		if err != nil || photo.EventID != eventID {
			continue
		}
		selected = append(selected, *photo)
	}
	return selected, nil
}

// SubmitSystemExport is the admin metadata snapshot: every host, event
// and photo record as JSON, archived to object storage.
func (s *ExportService) SubmitSystemExport(ctx context.Context, actor *models.Actor) (*models.ExportJob, error) {
	if !actor.IsAdmin {
		return nil, models.ErrNotOwner
	}

	job := &models.ExportJob{
		ID:          uuid.NewString(),
		RequestedBy: actor.HostID(),
		Status:      models.JobPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.jobs.Put(ctx, job); err != nil {
		return nil, err
	}

	go s.runSystemExport(*job)
	return job, nil
}

func (s *ExportService) runSystemExport(job models.ExportJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	s.setStatus(ctx, &job, models.JobRunning, "", "")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name string, load func() (interface{}, error)) error {
		data, err := load()
		if err != nil {
			return err
		}
		entry, err := zw.Create(name)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(entry)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	err := write("hosts.json", func() (interface{}, error) {
		hosts, _, err := s.users.List(0, 1<<20)
		return hosts, err
	})
	if err == nil {
		err = write("events.json", func() (interface{}, error) {
			events, _, err := s.events.List(0, 1<<20)
			return events, err
		})
	}
	if err == nil {
		err = write("photos.json", func() (interface{}, error) {
			photos, _, err := s.photos.Recent(0, 1<<20)
			return photos, err
		})
	}
	if err == nil {
		err = zw.Close()
	}
	if err != nil {
		s.fail(ctx, &job, err)
		return
	}

	key := fmt.Sprintf("exports/system/%s.zip", job.ID)
	if err := s.objects.Upload(key, bytes.NewReader(buf.Bytes())); err != nil {
		s.fail(ctx, &job, err)
		return
	}

	s.setStatus(ctx, &job, models.JobDone, key, "")

	if host, err := s.users.GetByID(job.RequestedBy); err == nil {
		go s.notifier.SendExportReady(host.Email, host.DisplayName, "system export", s.objects.PublicURL(key))
	}
}

func (s *ExportService) setStatus(ctx context.Context, job *models.ExportJob, status models.JobStatus, resultRef, errMsg string) {
	job.Status = status
	job.ResultRef = resultRef
	job.Error = errMsg
	if err := s.jobs.Put(ctx, job); err != nil {
		s.logger.Error("job status update failed",
			zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (s *ExportService) fail(ctx context.Context, job *models.ExportJob, cause error) {
	s.logger.Warn("export failed", zap.String("job_id", job.ID), zap.Error(cause))
	s.setStatus(ctx, job, models.JobFailed, "", cause.Error())
}
