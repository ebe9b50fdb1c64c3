package invitelink

import (
	"fmt"
	"time"
)

// InviteLink tracks one single-use channel invite issued to a user. Old
// links are revoked whenever a fresh one is issued so a lapsed user cannot
// re-enter through a stale URL.
type InviteLink struct {
	id        uint
	userID    int64
	url       string
	expiresAt time.Time
	revokedAt *time.Time
	createdAt time.Time
}

func NewInviteLink(userID int64, url string, expiresAt, now time.Time) (*InviteLink, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if url == "" {
		return nil, fmt.Errorf("invite URL is required")
	}
	return &InviteLink{
		userID:    userID,
		url:       url,
		expiresAt: expiresAt,
		createdAt: now,
	}, nil
}

// ReconstructInviteLink reconstructs an invite link from persistence
func ReconstructInviteLink(id uint, userID int64, url string, expiresAt time.Time, revokedAt *time.Time, createdAt time.Time) *InviteLink {
	return &InviteLink{
		id:        id,
		userID:    userID,
		url:       url,
		expiresAt: expiresAt,
		revokedAt: revokedAt,
		createdAt: createdAt,
	}
}

func (l *InviteLink) ID() uint {
	return l.id
}

// SetID writes back the database-generated ID after insert.
func (l *InviteLink) SetID(id uint) {
	l.id = id
}

func (l *InviteLink) UserID() int64 {
	return l.userID
}

func (l *InviteLink) URL() string {
	return l.url
}

func (l *InviteLink) ExpiresAt() time.Time {
	return l.expiresAt
}

func (l *InviteLink) RevokedAt() *time.Time {
	return l.revokedAt
}

func (l *InviteLink) CreatedAt() time.Time {
	return l.createdAt
}

// Revoke marks the link unusable. Revoking twice keeps the first timestamp.
func (l *InviteLink) Revoke(now time.Time) {
	if l.revokedAt != nil {
		return
	}
	l.revokedAt = &now
}

// IsUsableAt reports whether the link can still admit its user.
func (l *InviteLink) IsUsableAt(now time.Time) bool {
	return l.revokedAt == nil && l.expiresAt.After(now)
}
