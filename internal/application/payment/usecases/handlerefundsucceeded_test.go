package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubgate/clubgate/internal/domain/invitelink"
	"github.com/clubgate/clubgate/internal/domain/payment"
	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
	"github.com/clubgate/clubgate/internal/domain/subscription"
)

type refundFixture struct {
	uc         *HandleRefundSucceededUseCase
	events     *mockEventRepository
	payments   *mockPaymentRepository
	subs       *mockSubscriptionRepository
	links      *mockInviteLinkRepository
	membership *mockMembership
	notifier   *mockNotifier
	alerts     *mockAdminAlerts
}

func newRefundFixture(t *testing.T) *refundFixture {
	t.Helper()

	f := &refundFixture{
		events:     &mockEventRepository{},
		payments:   &mockPaymentRepository{},
		subs:       &mockSubscriptionRepository{},
		links:      &mockInviteLinkRepository{},
		membership: &mockMembership{},
		notifier:   &mockNotifier{},
		alerts:     &mockAdminAlerts{enabled: true},
	}
	f.uc = NewHandleRefundSucceededUseCase(
		f.events, f.payments, f.subs, f.links, f.membership, f.notifier, f.alerts, testLogger(),
	)
	return f
}

func TestHandleRefundSucceededUseCase_Execute_RevokesAccess(t *testing.T) {
	f := newRefundFixture(t)
	now := time.Now().UTC()

	p := pendingCheckoutPayment(t, 42, "pm-1", 30)
	require.NoError(t, p.MarkAsSucceeded(now))

	sub, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		UserID:    42,
		StartsAt:  now.Add(-24 * time.Hour),
		ExpiresAt: now.Add(29 * 24 * time.Hour),
		CreatedAt: now.Add(-24 * time.Hour),
		UpdatedAt: now,
	})
	require.NoError(t, err)

	link, err := invitelink.NewInviteLink(42, "https://t.me/+old", now.Add(time.Hour), now)
	require.NoError(t, err)

	f.payments.GetByProviderIDFunc = func(ctx context.Context, providerID string) (*payment.Payment, error) {
		require.Equal(t, "pm-1", providerID)
		return p, nil
	}
	f.subs.GetByUserIDFunc = func(ctx context.Context, userID int64) (*subscription.Subscription, error) {
		return sub, nil
	}
	f.links.FindActiveByUserIDFunc = func(ctx context.Context, userID int64) ([]*invitelink.InviteLink, error) {
		return []*invitelink.InviteLink{link}, nil
	}

	err = f.uc.Execute(context.Background(), HandleRefundSucceededCommand{
		RefundID:          "rf-1",
		ProviderPaymentID: "pm-1",
		AmountKopecks:     49900,
		Currency:          "RUB",
	})
	require.NoError(t, err)

	require.Len(t, f.subs.upserted, 1)
	assert.False(t, f.subs.upserted[0].IsActiveAt(time.Now().UTC().Add(time.Second)))
	assert.False(t, f.subs.upserted[0].AutoRenewalEnabled())

	assert.Equal(t, []int64{42}, f.membership.banned)
	assert.Equal(t, []string{"https://t.me/+old"}, f.membership.revoked)
	assert.NotNil(t, link.RevokedAt())
	assert.Equal(t, []int64{42}, f.notifier.accessRevoked)
	require.Len(t, f.notifier.refundedAmounts, 1)
	assert.Equal(t, vo.NewMoney(49900, "RUB"), f.notifier.refundedAmounts[0])
	assert.Equal(t, []int64{42}, f.alerts.refundAlerts)
	assert.Equal(t, []string{"refund.succeeded:rf-1"}, f.events.recorded)
}

func TestHandleRefundSucceededUseCase_Execute_UnknownPayment(t *testing.T) {
	f := newRefundFixture(t)

	require.NoError(t, f.uc.Execute(context.Background(), HandleRefundSucceededCommand{
		RefundID:          "rf-2",
		ProviderPaymentID: "pm-9",
	}))

	assert.Empty(t, f.membership.banned)
	assert.Empty(t, f.events.recorded)
}

func TestHandleRefundSucceededUseCase_Execute_DuplicateDelivery(t *testing.T) {
	f := newRefundFixture(t)
	f.events.HasFunc = func(ctx context.Context, ledgerID string) (bool, error) {
		return true, nil
	}

	require.NoError(t, f.uc.Execute(context.Background(), HandleRefundSucceededCommand{
		RefundID:          "rf-1",
		ProviderPaymentID: "pm-1",
	}))

	assert.Empty(t, f.subs.upserted)
	assert.Empty(t, f.membership.banned)
}
