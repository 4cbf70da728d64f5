package service

import (
	"errors"
	"testing"

	"github.com/snapgather/snapgather-backend/internal/models"
)

func TestShareGateUniformDeny(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	admin := f.admin()

	draft, _ := f.eventSvc.CreateEvent(owner, models.CreateEventRequest{Title: "Draft"})

	suspended := f.activeEvent(owner, "")
	if _, err := f.eventSvc.Suspend(admin, suspended.ID); err != nil {
		t.Fatalf("Suspend() error: %v", err)
	}

	deleted := f.activeEvent(owner, "")
	if err := f.eventSvc.Delete(owner, deleted.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	// A visitor cannot distinguish unknown, draft, suspended and
	// deleted: every one denies with the same reason.
	tokens := map[string]string{
		"unknown token":   "no-such-token",
		"draft event":     draft.ShareToken,
		"suspended event": suspended.ShareToken,
		"deleted event":   deleted.ShareToken,
	}
	for name, token := range tokens {
		if _, err := f.shareGate.Evaluate(token, ""); !errors.Is(err, models.ErrNotAvailable) {
			t.Errorf("%s: Evaluate() = %v, want ErrNotAvailable", name, err)
		}
		if _, err := f.shareGate.EventInfo(token); !errors.Is(err, models.ErrNotAvailable) {
			t.Errorf("%s: EventInfo() = %v, want ErrNotAvailable", name, err)
		}
	}
}

func TestShareGatePasswordFlow(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	event := f.activeEvent(owner, "hunter2")

	if _, err := f.shareGate.Evaluate(event.ShareToken, "wrong"); !errors.Is(err, models.ErrWrongPassword) {
		t.Errorf("wrong password: Evaluate() = %v, want ErrWrongPassword", err)
	}
	if _, err := f.shareGate.Evaluate(event.ShareToken, ""); !errors.Is(err, models.ErrWrongPassword) {
		t.Errorf("empty password: Evaluate() = %v, want ErrWrongPassword", err)
	}
	if _, err := f.shareGate.Evaluate(event.ShareToken, "hunter2"); err != nil {
		t.Errorf("correct password: Evaluate() = %v, want nil", err)
	}

	// The teaser works without the password and says one is required.
	info, err := f.shareGate.EventInfo(event.ShareToken)
	if err != nil {
		t.Fatalf("EventInfo() error: %v", err)
	}
	if !info.HasPassword {
		t.Error("teaser should flag the password requirement")
	}
}

func TestShareGateOpenEventNeedsNoPassword(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	event := f.activeEvent(owner, "")

	if _, err := f.shareGate.Evaluate(event.ShareToken, ""); err != nil {
		t.Errorf("Evaluate() = %v, want nil", err)
	}
	if err := f.shareGate.VerifyPassword(event.ShareToken, "anything"); err != nil {
		t.Errorf("VerifyPassword() on open event = %v, want nil", err)
	}
}

func TestApprovedPhotosExcludesPendingAndRejected(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	event := f.activeEvent(owner, "")

	f.pendingPhoto(event.ID)
	approved := f.pendingPhoto(event.ID)
	rejected := f.pendingPhoto(event.ID)
	if _, err := f.photoSvc.Approve(owner, approved.ID); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if _, err := f.photoSvc.Reject(owner, rejected.ID); err != nil {
		t.Fatalf("Reject() error: %v", err)
	}

	photos, total, err := f.shareGate.ApprovedPhotos(event.ShareToken, "", 1, 50)
	if err != nil {
		t.Fatalf("ApprovedPhotos() error: %v", err)
	}
	if total != 1 || len(photos) != 1 {
		t.Fatalf("got %d/%d photos, want exactly the approved one", len(photos), total)
	}
	if photos[0].ID != approved.ID {
		t.Errorf("got photo %d, want %d", photos[0].ID, approved.ID)
	}

	info, err := f.shareGate.EventInfo(event.ShareToken)
	if err != nil {
		t.Fatalf("EventInfo() error: %v", err)
	}
	if info.PhotoCount != 1 {
		t.Errorf("public photo count = %d, want 1", info.PhotoCount)
	}
}

func TestApprovalIsRevocableFromPublicView(t *testing.T) {
	f := newFixture()
	owner := f.host("owner@example.com")
	event := f.activeEvent(owner, "")

	photo := f.pendingPhoto(event.ID)
	if _, err := f.photoSvc.Approve(owner, photo.ID); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}
	if _, err := f.photoSvc.Reject(owner, photo.ID); err != nil {
		t.Fatalf("Reject() error: %v", err)
	}

	_, total, err := f.shareGate.ApprovedPhotos(event.ShareToken, "", 1, 50)
	if err != nil {
		t.Fatalf("ApprovedPhotos() error: %v", err)
	}
	if total != 0 {
		t.Errorf("rejected photo still publicly visible, count = %d", total)
	}
}
