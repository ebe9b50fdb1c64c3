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
	"github.com/clubgate/clubgate/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type mockEventRepository struct {
	recorded []string
}

func (m *mockEventRepository) Record(ctx context.Context, e *event.ProcessedEvent) error {
	m.recorded = append(m.recorded, e.LedgerID())
	return nil
}

func (m *mockEventRepository) Has(ctx context.Context, ledgerID string) (bool, error) {
	return false, nil
}

type mockPaymentRepository struct {
	GetByProviderIDFunc func(ctx context.Context, providerID string) (*payment.Payment, error)

	created []*payment.Payment
	updated []*payment.Payment
}

func (m *mockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	m.created = append(m.created, p)
	return nil
}

func (m *mockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	m.updated = append(m.updated, p)
	return nil
}

func (m *mockPaymentRepository) GetByProviderID(ctx context.Context, providerID string) (*payment.Payment, error) {
	if m.GetByProviderIDFunc != nil {
		return m.GetByProviderIDFunc(ctx, providerID)
	}
	for _, p := range m.created {
		if p.ProviderID() == providerID {
			return p, nil
		}
	}
	return nil, payment.ErrPaymentNotFound
}

func (m *mockPaymentRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*payment.Payment, error) {
	return nil, nil
}

type mockSubscriptionRepository struct {
	FindExpiredFunc         func(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error)
	FindExpiringBetweenFunc func(ctx context.Context, from, to time.Time) ([]*subscription.Subscription, error)
	GetByUserIDFunc         func(ctx context.Context, userID int64) (*subscription.Subscription, error)

	upserted []*subscription.Subscription
}

func (m *mockSubscriptionRepository) Upsert(ctx context.Context, sub *subscription.Subscription) error {
	m.upserted = append(m.upserted, sub)
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
	return nil
}

type mockInviteLinkRepository struct {
	FindActiveByUserIDFunc func(ctx context.Context, userID int64) ([]*invitelink.InviteLink, error)
}

func (m *mockInviteLinkRepository) Create(ctx context.Context, link *invitelink.InviteLink) error {
	return nil
}

func (m *mockInviteLinkRepository) Update(ctx context.Context, link *invitelink.InviteLink) error {
	return nil
}

func (m *mockInviteLinkRepository) FindActiveByUserID(ctx context.Context, userID int64) ([]*invitelink.InviteLink, error) {
	if m.FindActiveByUserIDFunc != nil {
		return m.FindActiveByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

type mockGateway struct {
	CreateAutoChargeFunc func(ctx context.Context, params apppayment.AutoChargeParams) (*apppayment.ChargeInfo, error)
	GetChargeFunc        func(ctx context.Context, providerID string) (*apppayment.ChargeInfo, error)

	autoCharges []apppayment.AutoChargeParams
}

func (m *mockGateway) CreateCheckoutCharge(ctx context.Context, params apppayment.ChargeParams) (*apppayment.ChargeInfo, error) {
	return &apppayment.ChargeInfo{ProviderID: "pm-checkout", Status: apppayment.ChargeStatusPending}, nil
}

func (m *mockGateway) CreateAutoCharge(ctx context.Context, params apppayment.AutoChargeParams) (*apppayment.ChargeInfo, error) {
	m.autoCharges = append(m.autoCharges, params)
	if m.CreateAutoChargeFunc != nil {
		return m.CreateAutoChargeFunc(ctx, params)
	}
	return &apppayment.ChargeInfo{ProviderID: "pm-auto", Status: apppayment.ChargeStatusPending}, nil
}

func (m *mockGateway) GetCharge(ctx context.Context, providerID string) (*apppayment.ChargeInfo, error) {
	if m.GetChargeFunc != nil {
		return m.GetChargeFunc(ctx, providerID)
	}
	return &apppayment.ChargeInfo{ProviderID: providerID, Status: apppayment.ChargeStatusPending}, nil
}

type mockMembership struct {
	banned   []int64
	unbanned []int64
	revoked  []string
}

func (m *mockMembership) BanChatMember(ctx context.Context, userID int64) error {
	m.banned = append(m.banned, userID)
	return nil
}

func (m *mockMembership) UnbanChatMember(ctx context.Context, userID int64) error {
	m.unbanned = append(m.unbanned, userID)
	return nil
}

func (m *mockMembership) CreateMemberInviteLink(ctx context.Context, expireAt time.Time) (string, error) {
	return "https://t.me/+fresh", nil
}

func (m *mockMembership) RevokeChatInviteLink(ctx context.Context, inviteLink string) error {
	m.revoked = append(m.revoked, inviteLink)
	return nil
}

type mockNotifier struct {
	ExpiringSoonFunc func(ctx context.Context, userID int64, expiresAt time.Time, autoRenewal bool) error

	activated        []int64
	paymentCanceled  []int64
	renewalFailed    []int64
	renewalExhausted []int64
	accessRevoked    []int64
	expiringSoon     []int64
	expired          []int64
}

func (m *mockNotifier) NotifyActivated(ctx context.Context, userID int64, inviteURL string, expiresAt time.Time) error {
	m.activated = append(m.activated, userID)
	return nil
}

func (m *mockNotifier) NotifyPaymentCanceled(ctx context.Context, userID int64, category vo.CancellationCategory) error {
	m.paymentCanceled = append(m.paymentCanceled, userID)
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
	return nil
}

func (m *mockNotifier) NotifyExpiringSoon(ctx context.Context, userID int64, expiresAt time.Time, autoRenewal bool) error {
	if m.ExpiringSoonFunc != nil {
		if err := m.ExpiringSoonFunc(ctx, userID, expiresAt, autoRenewal); err != nil {
			return err
		}
	}
	m.expiringSoon = append(m.expiringSoon, userID)
	return nil
}

func (m *mockNotifier) NotifyExpired(ctx context.Context, userID int64, expiredAt time.Time) error {
	m.expired = append(m.expired, userID)
	return nil
}

type mockAdminAlerts struct{}

func (m *mockAdminAlerts) Enabled() bool { return false }

func (m *mockAdminAlerts) SendRefundAlert(userID int64, providerPaymentID string, when time.Time) error {
	return nil
}

func (m *mockAdminAlerts) SendRenewalExhaustedAlert(userID int64, attempts int) error {
	return nil
}
