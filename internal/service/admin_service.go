package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/pkg/audit"
)

// AdminService is the oversight surface: system-wide listings and the
// host/event moderation switches. Every entry point re-checks the admin
// axis; routing alone is not trusted.
type AdminService struct {
	users     UserStore
	events    EventStore
	photos    PhotoStore
	lifecycle *EventService
	auditor   *audit.Publisher
	logger    *zap.Logger
}

func NewAdminService(
	users UserStore,
	events EventStore,
	photos PhotoStore,
	lifecycle *EventService,
	auditor *audit.Publisher,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		users:     users,
		events:    events,
		photos:    photos,
		lifecycle: lifecycle,
		auditor:   auditor,
		logger:    logger,
	}
}

func (s *AdminService) requireAdmin(actor *models.Actor) error {
	if !actor.IsAdmin {
		return models.ErrNotOwner
	}
	return nil
}

func (s *AdminService) Overview(actor *models.Actor) (*models.OverviewStats, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	totalEvents, err := s.events.Count()
	if err != nil {
		return nil, err
	}
	totalHosts, err := s.users.Count()
	if err != nil {
		return nil, err
	}
	totalPhotos, err := s.photos.Count()
	if err != nil {
		return nil, err
	}
	storageBytes, err := s.photos.SumFileSize()
	if err != nil {
		return nil, err
	}

	return &models.OverviewStats{
		TotalEvents:  totalEvents,
		TotalHosts:   totalHosts,
		TotalPhotos:  totalPhotos,
		StorageBytes: storageBytes,
		StorageGB:    float64(storageBytes) / (1 << 30),
	}, nil
}

func (s *AdminService) ListEvents(actor *models.Actor, page, pageSize int) ([]models.AdminEventResponse, int64, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, 0, err
	}

	events, total, err := s.events.List((page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]models.AdminEventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, s.adminEventResponse(&events[i]))
	}
	return responses, total, nil
}

func (s *AdminService) GetEvent(actor *models.Actor, id uint) (*models.AdminEventResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(id)
	if err != nil {
		return nil, err
	}
	resp := s.adminEventResponse(event)
	return &resp, nil
}

func (s *AdminService) adminEventResponse(event *models.Event) models.AdminEventResponse {
	count, _ := s.photos.CountByEventID(event.ID)
	resp := models.AdminEventResponse{
		EventResponse: models.NewEventResponse(event, count),
	}
	if host, err := s.users.GetByID(event.HostID); err == nil {
		resp.Host = &models.UserProfileResponse{
			ID:          host.ID,
			Email:       host.Email,
			DisplayName: host.DisplayName,
			Status:      host.Status,
			CreatedAt:   host.CreatedAt,
		}
	}
	return resp
}

// SetEventSuspended drives the admin-only suspend/reactivate pair.
func (s *AdminService) SetEventSuspended(actor *models.Actor, id uint, suspended bool) (*models.Event, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if suspended {
		return s.lifecycle.Suspend(actor, id)
	}
	return s.lifecycle.Reactivate(actor, id)
}

func (s *AdminService) ForceDeleteEvent(actor *models.Actor, id uint) error {
	if err := s.requireAdmin(actor); err != nil {
		return err
	}
	return s.lifecycle.ForceDelete(actor, id)
}

func (s *AdminService) ListHosts(actor *models.Actor, page, pageSize int) ([]models.AdminHostResponse, int64, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, 0, err
	}

	users, total, err := s.users.List((page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]models.AdminHostResponse, 0, len(users))
	for i := range users {
		responses = append(responses, s.adminHostResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *AdminService) GetHost(actor *models.Actor, id uint) (*models.AdminHostResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	host, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	resp := s.adminHostResponse(host)
	return &resp, nil
}

func (s *AdminService) adminHostResponse(host *models.User) models.AdminHostResponse {
	count, _ := s.events.CountByHostID(host.ID)
	return models.AdminHostResponse{
		ID:          host.ID,
		SubjectID:   host.SubjectID,
		Email:       host.Email,
		DisplayName: host.DisplayName,
		Status:      host.Status,
		EventCount:  count,
		CreatedAt:   host.CreatedAt,
	}
}

// SetHostSuspended flips the host account axis. An admin's own host row
// can be suspended here without touching their admin capabilities.
func (s *AdminService) SetHostSuspended(actor *models.Actor, id uint, suspended bool) (*models.User, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}

	host, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}

	if suspended {
		host.Status = models.HostSuspended
	} else {
		host.Status = models.HostActive
	}
	if err := s.users.Update(host); err != nil {
		return nil, err
	}

	action := "host.reactivate"
	if suspended {
		action = "host.suspend"
	}
	s.auditor.Emit(audit.Entry{
		ActorID:   actor.HostID(),
		ActorRole: "admin",
		Action:    action,
		Target:    fmt.Sprintf("host:%d", id),
		Outcome:   "ok",
	})
	return host, nil
}

// RecentUploads is the cross-event moderation feed.
func (s *AdminService) RecentUploads(actor *models.Actor, page, pageSize int) ([]models.Photos, int64, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	return s.photos.Recent((page-1)*pageSize, pageSize)
}

// HostEmailForEvent resolves the host email shown in the uploads feed.
func (s *AdminService) HostEmailForEvent(eventID uint) string {
	event, err := s.events.GetByID(eventID)
	if err != nil {
		return ""
	}
	host, err := s.users.GetByID(event.HostID)
	if err != nil {
		return ""
	}
	return host.Email
}
