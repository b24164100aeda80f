package domain

import "time"

// VerificationCode proves control of an email address during registration.
// Only the most recently issued code for a user is considered valid.
type VerificationCode struct {
	UserId    UserId
	Code      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (c *VerificationCode) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

// AdminInvitation is a pending promotion for an email that has not yet
// registered. Consumed when the invitee verifies or is promoted directly.
type AdminInvitation struct {
	Email     string
	InvitedBy UserId
	CreatedAt time.Time
}
