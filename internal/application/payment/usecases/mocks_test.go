package usecases

import (
	"context"
	"io"
	"log/slog"
	"time"

	apppayment "github.com/clubgate/clubgate/internal/application/payment"
	"github.com/clubgate/clubgate/internal/domain/event"
	"github.com/clubgate/clubgate/internal/domain/invitelink"
	"github.com/clubgate/clubgate/internal/domain/payment"
	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
	"github.com/clubgate/clubgate/internal/domain/subscription"
	"github.com/clubgate/clubgate/internal/domain/user"
	"github.com/clubgate/clubgate/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type mockEventRepository struct {
	RecordFunc func(ctx context.Context, e *event.ProcessedEvent) error
	HasFunc    func(ctx context.Context, ledgerID string) (bool, error)

	recorded []string
}

func (m *mockEventRepository) Record(ctx context.Context, e *event.ProcessedEvent) error {
	m.recorded = append(m.recorded, e.LedgerID())
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, e)
	}
	return nil
}

func (m *mockEventRepository) Has(ctx context.Context, ledgerID string) (bool, error) {
	if m.HasFunc != nil {
		return m.HasFunc(ctx, ledgerID)
	}
	return false, nil
}

type mockPaymentRepository struct {
	CreateFunc           func(ctx context.Context, p *payment.Payment) error
	UpdateFunc           func(ctx context.Context, p *payment.Payment) error
	GetByProviderIDFunc  func(ctx context.Context, providerID string) (*payment.Payment, error)
	FindStalePendingFunc func(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error)

	updated []*payment.Payment
}

func (m *mockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	return nil
}

func (m *mockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	m.updated = append(m.updated, p)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *mockPaymentRepository) GetByProviderID(ctx context.Context, providerID string) (*payment.Payment, error) {
	if m.GetByProviderIDFunc != nil {
		return m.GetByProviderIDFunc(ctx, providerID)
	}
	return nil, payment.ErrPaymentNotFound
}

func (m *mockPaymentRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error) {
	if m.FindStalePendingFunc != nil {
		return m.FindStalePendingFunc(ctx, cutoff, limit)
	}
	return nil, nil
}

type mockSubscriptionRepository struct {
	UpsertFunc              func(ctx context.Context, sub *subscription.Subscription) error
	GetByUserIDFunc         func(ctx context.Context, userID int64) (*subscription.Subscription, error)
	FindExpiredFunc         func(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error)
	FindExpiringBetweenFunc func(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error)
	DeleteFunc              func(ctx context.Context, userID int64) error

	upserted []*subscription.Subscription
}

func (m *mockSubscriptionRepository) Upsert(ctx context.Context, sub *subscription.Subscription) error {
	m.upserted = append(m.upserted, sub)
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*subscription.Subscription, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, subscription.ErrSubscriptionNotFound
}

func (m *mockSubscriptionRepository) FindExpired(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	if m.FindExpiredFunc != nil {
		return m.FindExpiredFunc(ctx, now, limit)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) FindExpiringBetween(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error) {
	if m.FindExpiringBetweenFunc != nil {
		return m.FindExpiringBetweenFunc(ctx, from, to)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) Delete(ctx context.Context, userID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID)
	}
	return nil
}

type mockInviteLinkRepository struct {
	CreateFunc             func(ctx context.Context, link *invitelink.InviteLink) error
	UpdateFunc             func(ctx context.Context, link *invitelink.InviteLink) error
	FindActiveByUserIDFunc func(ctx context.Context, userID int64) ([]*invitelink.InviteLink, error)
}

func (m *mockInviteLinkRepository) Create(ctx context.Context, link *invitelink.InviteLink) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, link)
	}
	return nil
}

func (m *mockInviteLinkRepository) Update(ctx context.Context, link *invitelink.InviteLink) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, link)
	}
	return nil
}

func (m *mockInviteLinkRepository) FindActiveByUserID(ctx context.Context, userID int64) ([]*invitelink.InviteLink, error) {
	if m.FindActiveByUserIDFunc != nil {
		return m.FindActiveByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

type mockUserRepository struct {
	UpsertFunc          func(ctx context.Context, u *user.User) error
	GetByTelegramIDFunc func(ctx context.Context, telegramID int64) (*user.User, error)
}

func (m *mockUserRepository) Upsert(ctx context.Context, u *user.User) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, u)
	}
	return nil
}

func (m *mockUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	if m.GetByTelegramIDFunc != nil {
		return m.GetByTelegramIDFunc(ctx, telegramID)
	}
	return nil, user.ErrUserNotFound
}

type mockGateway struct {
	CreateCheckoutChargeFunc func(ctx context.Context, params apppayment.ChargeParams) (*apppayment.ChargeInfo, error)
	CreateAutoChargeFunc     func(ctx context.Context, params apppayment.AutoChargeParams) (*apppayment.ChargeInfo, error)
	GetChargeFunc            func(ctx context.Context, providerID string) (*apppayment.ChargeInfo, error)

	getChargeCalls int
}

func (m *mockGateway) CreateCheckoutCharge(ctx context.Context, params apppayment.ChargeParams) (*apppayment.ChargeInfo, error) {
	if m.CreateCheckoutChargeFunc != nil {
		return m.CreateCheckoutChargeFunc(ctx, params)
	}
	return &apppayment.ChargeInfo{ProviderID: "pm-1", Status: apppayment.ChargeStatusPending}, nil
}

func (m *mockGateway) CreateAutoCharge(ctx context.Context, params apppayment.AutoChargeParams) (*apppayment.ChargeInfo, error) {
	if m.CreateAutoChargeFunc != nil {
		return m.CreateAutoChargeFunc(ctx, params)
	}
	return &apppayment.ChargeInfo{ProviderID: "pm-1", Status: apppayment.ChargeStatusPending}, nil
}

func (m *mockGateway) GetCharge(ctx context.Context, providerID string) (*apppayment.ChargeInfo, error) {
	m.getChargeCalls++
	if m.GetChargeFunc != nil {
		return m.GetChargeFunc(ctx, providerID)
	}
	return &apppayment.ChargeInfo{ProviderID: providerID, Status: apppayment.ChargeStatusPending}, nil
}

type mockMembership struct {
	BanFunc        func(ctx context.Context, userID int64) error
	UnbanFunc      func(ctx context.Context, userID int64) error
	CreateLinkFunc func(ctx context.Context, expireAt time.Time) (string, error)
	RevokeLinkFunc func(ctx context.Context, inviteLink string) error

	banned   []int64
	unbanned []int64
	revoked  []string
}

func (m *mockMembership) BanChatMember(ctx context.Context, userID int64) error {
	m.banned = append(m.banned, userID)
	if m.BanFunc != nil {
		return m.BanFunc(ctx, userID)
	}
	return nil
}

func (m *mockMembership) UnbanChatMember(ctx context.Context, userID int64) error {
	m.unbanned = append(m.unbanned, userID)
	if m.UnbanFunc != nil {
		return m.UnbanFunc(ctx, userID)
	}
	return nil
}

func (m *mockMembership) CreateMemberInviteLink(ctx context.Context, expireAt time.Time) (string, error) {
	if m.CreateLinkFunc != nil {
		return m.CreateLinkFunc(ctx, expireAt)
	}
	return "https://t.me/+abc", nil
}

func (m *mockMembership) RevokeChatInviteLink(ctx context.Context, inviteLink string) error {
	m.revoked = append(m.revoked, inviteLink)
	if m.RevokeLinkFunc != nil {
		return m.RevokeLinkFunc(ctx, inviteLink)
	}
	return nil
}

type mockNotifier struct {
	activated          []int64
	paymentCanceled    []int64
	canceledCategories []vo.CancellationCategory
	renewalFailed      []int64
	renewalExhausted   []int64
	accessRevoked      []int64
	refundedAmounts    []vo.Money
	expiringSoon       []int64
	expired            []int64
}

func (m *mockNotifier) NotifyActivated(ctx context.Context, userID int64, inviteURL string, expiresAt time.Time) error {
	m.activated = append(m.activated, userID)
	return nil
}

func (m *mockNotifier) NotifyPaymentCanceled(ctx context.Context, userID int64, category vo.CancellationCategory) error {
	m.paymentCanceled = append(m.paymentCanceled, userID)
	m.canceledCategories = append(m.canceledCategories, category)
	return nil
}

func (m *mockNotifier) NotifyRenewalFailed(ctx context.Context, userID int64) error {
	m.renewalFailed = append(m.renewalFailed, userID)
	return nil
}

func (m *mockNotifier) NotifyRenewalExhausted(ctx context.Context, userID int64) error {
	m.renewalExhausted = append(m.renewalExhausted, userID)
	return nil
}

func (m *mockNotifier) NotifyAccessRevoked(ctx context.Context, userID int64, refunded vo.Money) error {
	m.accessRevoked = append(m.accessRevoked, userID)
	m.refundedAmounts = append(m.refundedAmounts, refunded)
	return nil
}

func (m *mockNotifier) NotifyExpiringSoon(ctx context.Context, userID int64, expiresAt time.Time, autoRenewal bool) error {
	m.expiringSoon = append(m.expiringSoon, userID)
	return nil
}

func (m *mockNotifier) NotifyExpired(ctx context.Context, userID int64, expiredAt time.Time) error {
	m.expired = append(m.expired, userID)
	return nil
}

type mockAdminAlerts struct {
	enabled bool

	refundAlerts    []int64
	exhaustedAlerts []int64
}

func (m *mockAdminAlerts) Enabled() bool {
	return m.enabled
}

func (m *mockAdminAlerts) SendRefundAlert(userID int64, providerPaymentID string, when time.Time) error {
	m.refundAlerts = append(m.refundAlerts, userID)
	return nil
}

func (m *mockAdminAlerts) SendRenewalExhaustedAlert(userID int64, attempts int) error {
	m.exhaustedAlerts = append(m.exhaustedAlerts, userID)
	return nil
}
