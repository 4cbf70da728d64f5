package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/snapgather/snapgather-backend/internal/models"
)

// ActorResolver turns a verified identity claim into the local actor for
// the request: admin status from the allow-list, host record attached or
// created on first sight.
type ActorResolver struct {
	users       UserStore
	adminEmails map[string]bool
	notifier    Notifier
	logger      *zap.Logger
}

// NewActorResolver takes the allow-list as injected configuration; it is
// resolved once at startup and read-only afterwards.
func NewActorResolver(users UserStore, adminEmails map[string]bool, notifier Notifier, logger *zap.Logger) *ActorResolver {
	return &ActorResolver{
		users:       users,
		adminEmails: adminEmails,
		notifier:    notifier,
		logger:      logger,
	}
}

// Resolve is idempotent: the unique subject_id index guarantees the same
// identity always lands on the same host row. A suspended host record
// does not fail resolution; host-scoped operations deny later, and the
// admin axis is untouched either way.
func (r *ActorResolver) Resolve(identity *models.VerifiedIdentity) (*models.Actor, error) {
	isAdmin := r.adminEmails[strings.ToLower(identity.Email)]

	host, created, err := r.users.GetOrCreateBySubjectID(&models.User{
		SubjectID:   identity.SubjectID,
		Email:       identity.Email,
		DisplayName: identity.Name,
		Status:      models.HostActive,
	})
	if err != nil {
		return nil, err
	}

	if created {
		r.logger.Info("host registered",
			zap.Uint("host_id", host.ID), zap.String("email", host.Email))
		go r.notifier.SendHostWelcomed(host.Email, host.DisplayName)
	}

	return &models.Actor{Host: host, IsAdmin: isAdmin}, nil
}

// Profile returns the actor's own profile view.
func (r *ActorResolver) Profile(actor *models.Actor) models.UserProfileResponse {
	return models.UserProfileResponse{
		ID:          actor.Host.ID,
		Email:       actor.Host.Email,
		DisplayName: actor.Host.DisplayName,
		Status:      actor.Host.Status,
		IsAdmin:     actor.IsAdmin,
		CreatedAt:   actor.Host.CreatedAt,
	}
}

// UpdateProfile changes the host's display name. Suspended hosts cannot
// mutate anything host-scoped.
func (r *ActorResolver) UpdateProfile(actor *models.Actor, req models.UpdateProfileRequest) (*models.User, error) {
	if actor.Suspended() && !actor.IsAdmin {
		return nil, models.ErrHostSuspended
	}

	actor.Host.DisplayName = req.DisplayName
	if err := r.users.Update(actor.Host); err != nil {
		return nil, err
	}
	return actor.Host, nil
}
