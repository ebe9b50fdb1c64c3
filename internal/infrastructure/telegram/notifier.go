package telegram

import (
	"context"
	"time"

	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
)

// Notifier sends subscription lifecycle messages through the bot. Blocked
// bots (403) are reported to callers, who treat delivery as best effort.
type Notifier struct {
	bot *BotService
}

func NewNotifier(bot *BotService) *Notifier {
	return &Notifier{bot: bot}
}

func (n *Notifier) NotifyActivated(ctx context.Context, userID int64, inviteURL string, expiresAt time.Time) error {
	return n.bot.SendMessage(ctx, userID, FormatPaymentSuccess(inviteURL, expiresAt))
}

func (n *Notifier) NotifyPaymentCanceled(ctx context.Context, userID int64, category vo.CancellationCategory) error {
	return n.bot.SendMessage(ctx, userID, FormatPaymentCanceled(category))
}

func (n *Notifier) NotifyRenewalFailed(ctx context.Context, userID int64) error {
	return n.bot.SendMessage(ctx, userID, MsgRenewalFailed)
}

func (n *Notifier) NotifyRenewalExhausted(ctx context.Context, userID int64) error {
	return n.bot.SendMessage(ctx, userID, MsgRenewalExhausted)
}

func (n *Notifier) NotifyAccessRevoked(ctx context.Context, userID int64, refunded vo.Money) error {
	return n.bot.SendMessage(ctx, userID, FormatAccessRevoked(refunded))
}

func (n *Notifier) NotifyExpiringSoon(ctx context.Context, userID int64, expiresAt time.Time, autoRenewal bool) error {
	return n.bot.SendMessage(ctx, userID, FormatExpiringSoon(expiresAt, autoRenewal))
}

func (n *Notifier) NotifyExpired(ctx context.Context, userID int64, expiredAt time.Time) error {
	return n.bot.SendMessage(ctx, userID, FormatExpired(expiredAt))
}
