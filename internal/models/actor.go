package models

import "time"

// VerifiedIdentity is the claim set extracted from an externally issued
// bearer credential after signature and expiry checks.
type VerifiedIdentity struct {
	SubjectID     string
	Email         string
	EmailVerified bool
	Name          string
	IssuedAt      time.Time
	Expiry        time.Time
}

// Actor is the locally authorized caller of a request. Admin is not a
// stored role: IsAdmin comes from allow-list membership at resolve time,
// while Host (the User row) carries ownership. The two axes are
// independent, so an actor can be both.
type Actor struct {
	Host    *User
	IsAdmin bool
}

// HostID returns the actor's host row id, or 0 when no host is attached.
func (a Actor) HostID() uint {
	if a.Host == nil {
		return 0
	}
	return a.Host.ID
}

// Suspended reports whether the actor's host account is suspended.
// Admin capabilities are unaffected by this.
func (a Actor) Suspended() bool {
	return a.Host != nil && a.Host.Status == HostSuspended
}
