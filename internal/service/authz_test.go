package service

import (
	"errors"
	"testing"

	"github.com/snapgather/snapgather-backend/internal/models"
)

func TestGuardCheckEvent(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	other := f.host("other@example.com")
	admin := f.admin()

	event := f.activeEvent(owner, "")

	tests := []struct {
		name  string
		actor *models.Actor
		want  error
	}{
		{"owner allowed", owner, nil},
		{"admin allowed on foreign event", admin, nil},
		{"non-owner denied", other, models.ErrNotOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.guard.CheckEvent(tt.actor, OpUpdate, event)
			if !errors.Is(got, tt.want) {
				t.Errorf("CheckEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuardSuspendedHostDeniedBeforeOwnership(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	event := f.activeEvent(owner, "")

	owner.Host.Status = models.HostSuspended

	if err := f.guard.CheckEvent(owner, OpUpdate, event); !errors.Is(err, models.ErrHostSuspended) {
		t.Errorf("suspended owner: got %v, want ErrHostSuspended", err)
	}
}

func TestGuardAdminUnaffectedByHostSuspension(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	admin := f.admin()
	event := f.activeEvent(owner, "")

	// The two authority axes are independent: suspending the admin's
	// host account does not remove admin capability.
	admin.Host.Status = models.HostSuspended

	if err := f.guard.CheckEvent(admin, OpDelete, event); err != nil {
		t.Errorf("suspended admin: got %v, want nil", err)
	}
}

func TestGuardCheckPhotoResolvesOwningEvent(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	other := f.host("other@example.com")
	event := f.activeEvent(owner, "")
	photo := f.pendingPhoto(event.ID)

	got, err := f.guard.CheckPhoto(owner, OpModerate, photo)
	if err != nil {
		t.Fatalf("CheckPhoto(owner) error: %v", err)
	}
	if got.ID != event.ID {
		t.Errorf("owning event = %d, want %d", got.ID, event.ID)
	}

	if _, err := f.guard.CheckPhoto(other, OpModerate, photo); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("CheckPhoto(other) = %v, want ErrNotOwner", err)
	}
}
