package subscription

import (
	"context"
	"time"

	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
)

// Membership controls who is inside the gated channel. Implementations
// must tolerate repeated calls: banning an absent user and unbanning a
// never-banned user both succeed.
type Membership interface {
	BanChatMember(ctx context.Context, userID int64) error
	UnbanChatMember(ctx context.Context, userID int64) error
	CreateMemberInviteLink(ctx context.Context, expireAt time.Time) (string, error)
	RevokeChatInviteLink(ctx context.Context, inviteLink string) error
}

// Notifier delivers lifecycle messages to users. Implementations own the
// wording and formatting.
type Notifier interface {
	NotifyActivated(ctx context.Context, userID int64, inviteURL string, expiresAt time.Time) error
	NotifyPaymentCanceled(ctx context.Context, userID int64, category vo.CancellationCategory) error
	NotifyRenewalFailed(ctx context.Context, userID int64) error
	NotifyRenewalExhausted(ctx context.Context, userID int64) error
	NotifyAccessRevoked(ctx context.Context, userID int64, refunded vo.Money) error
	NotifyExpiringSoon(ctx context.Context, userID int64, expiresAt time.Time, autoRenewal bool) error
	NotifyExpired(ctx context.Context, userID int64, expiredAt time.Time) error
}

// AdminAlerts delivers operational alerts to the channel administrator.
type AdminAlerts interface {
	Enabled() bool
	SendRefundAlert(userID int64, providerPaymentID string, when time.Time) error
	SendRenewalExhaustedAlert(userID int64, attempts int) error
}
