package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubgate/clubgate/internal/domain/invitelink"
	"github.com/clubgate/clubgate/internal/domain/subscription"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

// InstrumentInfo carries a reusable instrument confirmed saved by the
// provider.
type InstrumentInfo struct {
	Ref string
}

// AccessGranter performs the full grant sequence after a verified
// successful charge: reset the access window, readmit the user and hand
// them a fresh single-use invite link. Both the webhook path and the stale
// payment reaper go through it, so a grant looks the same no matter which
// side won the race.
type AccessGranter struct {
	subRepo    subscription.Repository
	linkRepo   invitelink.Repository
	membership Membership
	notifier   Notifier
	logger     logger.Interface
}

func NewAccessGranter(
	subRepo subscription.Repository,
	linkRepo invitelink.Repository,
	membership Membership,
	notifier Notifier,
	logger logger.Interface,
) *AccessGranter {
	return &AccessGranter{
		subRepo:    subRepo,
		linkRepo:   linkRepo,
		membership: membership,
		notifier:   notifier,
		logger:     logger,
	}
}

// Grant activates the user's access window and readmits them to the
// channel. A non-nil instrument enables automatic renewal.
func (g *AccessGranter) Grant(ctx context.Context, userID int64, duration time.Duration, instrument *InstrumentInfo, now time.Time) (time.Time, error) {
	sub, err := g.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return time.Time{}, fmt.Errorf("failed to load subscription: %w", err)
		}
		sub, err = subscription.NewSubscription(userID, now, duration)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to create subscription: %w", err)
		}
	} else {
		sub.Activate(now, duration)
	}

	if instrument != nil {
		if err := sub.EnableAutoRenewal(instrument.Ref, now); err != nil {
			g.logger.Warnw("failed to enable auto renewal", "user_id", userID, "error", err)
		}
	}

	if err := g.subRepo.Upsert(ctx, sub); err != nil {
		return time.Time{}, fmt.Errorf("failed to persist subscription: %w", err)
	}

	g.readmit(ctx, userID, sub.ExpiresAt(), now)

	return sub.ExpiresAt(), nil
}

// readmit lifts the ban, rotates the invite link and messages the user.
// Telegram failures are logged rather than propagated: the paid window is
// already persisted and the next poll pass can repair membership.
func (g *AccessGranter) readmit(ctx context.Context, userID int64, expiresAt, now time.Time) {
	if err := g.membership.UnbanChatMember(ctx, userID); err != nil {
		g.logger.Errorw("failed to unban user", "user_id", userID, "error", err)
	}

	g.revokeOldLinks(ctx, userID, now)

	// A failed link still produces the activation message. The empty URL
	// tells the notifier to apologize instead of linking.
	linkURL, err := g.membership.CreateMemberInviteLink(ctx, expiresAt)
	if err != nil {
		g.logger.Errorw("failed to create invite link", "user_id", userID, "error", err)
		linkURL = ""
	}

	if linkURL != "" {
		link, err := invitelink.NewInviteLink(userID, linkURL, expiresAt, now)
		if err == nil {
			if err := g.linkRepo.Create(ctx, link); err != nil {
				g.logger.Warnw("failed to persist invite link", "user_id", userID, "error", err)
			}
		}
	}

	if err := g.notifier.NotifyActivated(ctx, userID, linkURL, expiresAt); err != nil {
		g.logger.Warnw("failed to send activation message", "user_id", userID, "error", err)
	}
}

func (g *AccessGranter) revokeOldLinks(ctx context.Context, userID int64, now time.Time) {
	links, err := g.linkRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		g.logger.Warnw("failed to list invite links", "user_id", userID, "error", err)
		return
	}

	for _, link := range links {
		if err := g.membership.RevokeChatInviteLink(ctx, link.URL()); err != nil {
			g.logger.Warnw("failed to revoke invite link", "user_id", userID, "error", err)
		}
		link.Revoke(now)
		if err := g.linkRepo.Update(ctx, link); err != nil {
			g.logger.Warnw("failed to mark invite link revoked", "user_id", userID, "error", err)
		}
	}
}
