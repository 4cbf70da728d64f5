package service

import (
	"errors"
	"testing"

	"github.com/snapgather/snapgather-backend/internal/models"
)

func TestAdminSurfaceDeniedForHosts(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")

	if _, err := f.adminSvc.Overview(owner); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("Overview() = %v, want ErrNotOwner", err)
	}
	if _, _, err := f.adminSvc.ListHosts(owner, 1, 20); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("ListHosts() = %v, want ErrNotOwner", err)
	}
	if _, err := f.adminSvc.SetHostSuspended(owner, owner.HostID(), true); !errors.Is(err, models.ErrNotOwner) {
		t.Errorf("SetHostSuspended() = %v, want ErrNotOwner", err)
	}
}

func TestOverviewCountsInventory(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	admin := f.admin()

	event := f.activeEvent(owner, "")
	f.pendingPhoto(event.ID)
	f.pendingPhoto(event.ID)

	stats, err := f.adminSvc.Overview(admin)
	if err != nil {
		t.Fatalf("Overview() error: %v", err)
	}
	if stats.TotalEvents != 1 {
		t.Errorf("TotalEvents = %d, want 1", stats.TotalEvents)
	}
	if stats.TotalHosts != 2 {
		t.Errorf("TotalHosts = %d, want 2 (owner and admin)", stats.TotalHosts)
	}
	if stats.TotalPhotos != 2 {
		t.Errorf("TotalPhotos = %d, want 2", stats.TotalPhotos)
	}
	if stats.StorageBytes != 2048 {
		t.Errorf("StorageBytes = %d, want 2048", stats.StorageBytes)
	}
}

func TestSetHostSuspendedBlocksHostWrites(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	admin := f.admin()
	event := f.activeEvent(owner, "")

	host, err := f.adminSvc.SetHostSuspended(admin, owner.HostID(), true)
	if err != nil {
		t.Fatalf("SetHostSuspended() error: %v", err)
	}
	if host.Status != models.HostSuspended {
		t.Errorf("host status = %q, want suspended", host.Status)
	}

	// The next resolve picks up the suspension; a fresh actor cannot
	// create or touch events, but the existing active event stays live
	// for visitors.
	suspendedActor := f.host("owner@example.com")
	if !suspendedActor.Suspended() {
		t.Fatal("re-resolved actor should carry the suspension")
	}
	if _, err := f.eventSvc.CreateEvent(suspendedActor, models.CreateEventRequest{Title: "X"}); !errors.Is(err, models.ErrHostSuspended) {
		t.Errorf("CreateEvent() = %v, want ErrHostSuspended", err)
	}
	if _, err := f.shareGate.Evaluate(event.ShareToken, ""); err != nil {
		t.Errorf("public access after host suspension = %v, want nil", err)
	}

	reinstated, err := f.adminSvc.SetHostSuspended(admin, owner.HostID(), false)
	if err != nil {
		t.Fatalf("reinstate error: %v", err)
	}
	if reinstated.Status != models.HostActive {
		t.Errorf("host status = %q, want active", reinstated.Status)
	}
}

func TestAdminEventModerationDelegation(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	admin := f.admin()
	event := f.activeEvent(owner, "")

	suspended, err := f.adminSvc.SetEventSuspended(admin, event.ID, true)
	if err != nil {
		t.Fatalf("SetEventSuspended(true) error: %v", err)
	}
	if suspended.Status != models.EventSuspended {
		t.Errorf("status = %q, want suspended", suspended.Status)
	}

	reactivated, err := f.adminSvc.SetEventSuspended(admin, event.ID, false)
	if err != nil {
		t.Fatalf("SetEventSuspended(false) error: %v", err)
	}
	if reactivated.Status != models.EventActive {
		t.Errorf("status = %q, want active", reactivated.Status)
	}
}
