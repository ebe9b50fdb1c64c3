package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubgate/clubgate/internal/application/billing"
	apppayment "github.com/clubgate/clubgate/internal/application/payment"
	payusecases "github.com/clubgate/clubgate/internal/application/payment/usecases"
	appsub "github.com/clubgate/clubgate/internal/application/subscription"
	"github.com/clubgate/clubgate/internal/domain/promo"
	"github.com/clubgate/clubgate/internal/domain/subscription"
	sharedConfig "github.com/clubgate/clubgate/internal/shared/config"
)

type mockPromoRepository struct {
	window *promo.Window
}

func (m *mockPromoRepository) Get(ctx context.Context) (*promo.Window, error) {
	if m.window == nil {
		return nil, promo.ErrWindowNotFound
	}
	return m.window, nil
}

func (m *mockPromoRepository) Save(ctx context.Context, w *promo.Window) error {
	m.window = w
	return nil
}

type processExpiredFixture struct {
	uc         *ProcessExpiredUseCase
	events     *mockEventRepository
	payments   *mockPaymentRepository
	subs       *mockSubscriptionRepository
	gateway    *mockGateway
	membership *mockMembership
	notifier   *mockNotifier
}

func newProcessExpiredFixture(t *testing.T) *processExpiredFixture {
	t.Helper()

	f := &processExpiredFixture{
		events:     &mockEventRepository{},
		payments:   &mockPaymentRepository{},
		subs:       &mockSubscriptionRepository{},
		gateway:    &mockGateway{},
		membership: &mockMembership{},
		notifier:   &mockNotifier{},
	}

	pricing, err := billing.NewPricingService(&mockPromoRepository{}, sharedConfig.BillingConfig{
		Currency:             "RUB",
		StandardPrice:        49900,
		StandardDurationDays: 30,
		PromoPrice:           19900,
		PromoDurationDays:    30,
		PromoWindowDays:      7,
	}, testLogger())
	require.NoError(t, err)

	links := &mockInviteLinkRepository{}
	granter := appsub.NewAccessGranter(f.subs, links, f.membership, f.notifier, testLogger())
	succeeded := payusecases.NewHandlePaymentSucceededUseCase(
		f.events, f.payments, f.gateway, granter, pricing, testLogger(),
	)
	canceled := payusecases.NewHandlePaymentCanceledUseCase(
		f.events, f.payments, f.subs, links, f.membership, f.notifier, &mockAdminAlerts{}, testLogger(), 3,
	)

	f.uc = NewProcessExpiredUseCase(
		f.subs, f.payments, links, pricing, f.gateway, f.membership, f.notifier,
		succeeded, canceled, testLogger(),
		ProcessExpiredConfig{
			MaxAttempts:    3,
			RetryInterval:  2 * time.Hour,
			Cooldown:       2 * time.Minute,
			CooldownMaxIDs: 100,
		},
	)
	return f
}

func expiredSub(t *testing.T, userID int64, mutate func(p *subscription.SubscriptionReconstructParams)) *subscription.Subscription {
	t.Helper()

	now := time.Now().UTC()
	params := subscription.SubscriptionReconstructParams{
		UserID:    userID,
		StartsAt:  now.Add(-31 * 24 * time.Hour),
		ExpiresAt: now.Add(-time.Minute),
		CreatedAt: now.Add(-31 * 24 * time.Hour),
		UpdatedAt: now,
	}
	if mutate != nil {
		mutate(&params)
	}
	sub, err := subscription.ReconstructSubscription(params)
	require.NoError(t, err)
	return sub
}

func TestProcessExpiredUseCase_Execute_ChargesSavedInstrument(t *testing.T) {
	f := newProcessExpiredFixture(t)
	ref := "card-ref"
	sub := expiredSub(t, 42, func(p *subscription.SubscriptionReconstructParams) {
		p.AutoRenewalEnabled = true
		p.SavedInstrumentRef = &ref
	})

	f.subs.FindExpiredFunc = func(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
		return []*subscription.Subscription{sub}, nil
	}
	f.subs.GetByUserIDFunc = func(ctx context.Context, userID int64) (*subscription.Subscription, error) {
		return sub, nil
	}
	f.gateway.CreateAutoChargeFunc = func(ctx context.Context, params apppayment.AutoChargeParams) (*apppayment.ChargeInfo, error) {
		return &apppayment.ChargeInfo{
			ProviderID:      "pm-auto",
			Status:          apppayment.ChargeStatusSucceeded,
			Paid:            true,
			InstrumentSaved: true,
			InstrumentRef:   "card-ref",
		}, nil
	}
	f.gateway.GetChargeFunc = func(ctx context.Context, providerID string) (*apppayment.ChargeInfo, error) {
		return &apppayment.ChargeInfo{
			ProviderID:      providerID,
			Status:          apppayment.ChargeStatusSucceeded,
			Paid:            true,
			AmountKopecks:   49900,
			InstrumentSaved: true,
			InstrumentRef:   "card-ref",
		}, nil
	}

	require.NoError(t, f.uc.Execute(context.Background()))

	// The charge uses the standard plan regardless of any promo.
	require.Len(t, f.gateway.autoCharges, 1)
	assert.Equal(t, int64(49900), f.gateway.autoCharges[0].AmountKopecks)
	assert.Equal(t, "card-ref", f.gateway.autoCharges[0].InstrumentRef)

	require.Len(t, f.payments.created, 1)
	assert.True(t, f.payments.created[0].Purpose().IsAutoRenewal())

	assert.True(t, sub.IsActiveAt(time.Now().UTC().Add(time.Minute)))
	assert.Zero(t, sub.AutoRenewalAttempts())
	assert.Equal(t, []int64{42}, f.membership.unbanned)
	assert.Empty(t, f.membership.banned)
}

func TestProcessExpiredUseCase_Execute_DeclineCountsFailure(t *testing.T) {
	f := newProcessExpiredFixture(t)
	ref := "card-ref"
	sub := expiredSub(t, 42, func(p *subscription.SubscriptionReconstructParams) {
		p.AutoRenewalEnabled = true
		p.SavedInstrumentRef = &ref
	})

	f.subs.FindExpiredFunc = func(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
		return []*subscription.Subscription{sub}, nil
	}
	f.subs.GetByUserIDFunc = func(ctx context.Context, userID int64) (*subscription.Subscription, error) {
		return sub, nil
	}
	f.gateway.CreateAutoChargeFunc = func(ctx context.Context, params apppayment.AutoChargeParams) (*apppayment.ChargeInfo, error) {
		return &apppayment.ChargeInfo{
			ProviderID:         "pm-auto",
			Status:             apppayment.ChargeStatusCanceled,
			CancellationReason: "insufficient_funds",
		}, nil
	}

	require.NoError(t, f.uc.Execute(context.Background()))

	assert.Equal(t, 1, sub.AutoRenewalAttempts())
	assert.True(t, sub.AutoRenewalEnabled())
	assert.Equal(t, []int64{42}, f.notifier.renewalFailed)
	assert.Empty(t, f.membership.banned)
}

func TestProcessExpiredUseCase_Execute_ExhaustedAttemptsNoFourthCharge(t *testing.T) {
	f := newProcessExpiredFixture(t)
	ref := "card-ref"
	lastAttempt := time.Now().UTC().Add(-3 * time.Hour)
	sub := expiredSub(t, 42, func(p *subscription.SubscriptionReconstructParams) {
		p.AutoRenewalEnabled = true
		p.SavedInstrumentRef = &ref
		p.AutoRenewalAttempts = 3
		p.LastRenewalAttemptAt = &lastAttempt
	})

	f.subs.FindExpiredFunc = func(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
		return []*subscription.Subscription{sub}, nil
	}

	require.NoError(t, f.uc.Execute(context.Background()))

	assert.Empty(t, f.gateway.autoCharges)
	assert.Equal(t, []int64{42}, f.membership.banned)
	assert.Equal(t, []int64{42}, f.notifier.expired)
	assert.True(t, sub.ExpiredNotified())
}

func TestProcessExpiredUseCase_Execute_ExhaustionIsTheOnlyTerminalNotice(t *testing.T) {
	f := newProcessExpiredFixture(t)
	// No cooldown so the second pass reaches the same user immediately.
	f.uc.cooldown = newCooldownTracker(100, 0)

	ref := "card-ref"
	lastAttempt := time.Now().UTC().Add(-3 * time.Hour)
	sub := expiredSub(t, 42, func(p *subscription.SubscriptionReconstructParams) {
		p.AutoRenewalEnabled = true
		p.SavedInstrumentRef = &ref
		p.AutoRenewalAttempts = 2
		p.LastRenewalAttemptAt = &lastAttempt
	})

	f.subs.FindExpiredFunc = func(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
		return []*subscription.Subscription{sub}, nil
	}
	f.subs.GetByUserIDFunc = func(ctx context.Context, userID int64) (*subscription.Subscription, error) {
		return sub, nil
	}
	f.gateway.CreateAutoChargeFunc = func(ctx context.Context, params apppayment.AutoChargeParams) (*apppayment.ChargeInfo, error) {
		return &apppayment.ChargeInfo{
			ProviderID:         "pm-last",
			Status:             apppayment.ChargeStatusCanceled,
			CancellationReason: "insufficient_funds",
		}, nil
	}

	require.NoError(t, f.uc.Execute(context.Background()))

	// The third decline exhausts the ceiling and closes the episode.
	assert.Equal(t, []int64{42}, f.notifier.renewalExhausted)
	assert.Equal(t, []int64{42}, f.membership.banned)
	assert.True(t, sub.ExpiredNotified())

	require.NoError(t, f.uc.Execute(context.Background()))

	// The next pass finds the episode already notified: no expiry
	// message on top of the exhaustion one, no second expulsion.
	assert.Empty(t, f.notifier.expired)
	assert.Equal(t, []int64{42}, f.membership.banned)
	assert.Equal(t, []int64{42}, f.notifier.renewalExhausted)
}

func TestProcessExpiredUseCase_Execute_RetryIntervalThrottlesCharge(t *testing.T) {
	f := newProcessExpiredFixture(t)
	ref := "card-ref"
	lastAttempt := time.Now().UTC().Add(-30 * time.Minute)
	sub := expiredSub(t, 42, func(p *subscription.SubscriptionReconstructParams) {
		p.AutoRenewalEnabled = true
		p.SavedInstrumentRef = &ref
		p.AutoRenewalAttempts = 1
		p.LastRenewalAttemptAt = &lastAttempt
	})

	f.subs.FindExpiredFunc = func(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
		return []*subscription.Subscription{sub}, nil
	}

	require.NoError(t, f.uc.Execute(context.Background()))

	// Attempt 2 is due two hours after attempt 1, not thirty minutes.
	// Renewal is still pending so the user is not expelled either.
	assert.Empty(t, f.gateway.autoCharges)
	assert.Empty(t, f.membership.banned)
	assert.Empty(t, f.notifier.expired)
}

func TestProcessExpiredUseCase_Execute_NonRenewableExpelledOnce(t *testing.T) {
	f := newProcessExpiredFixture(t)
	sub := expiredSub(t, 42, nil)

	f.subs.FindExpiredFunc = func(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
		return []*subscription.Subscription{sub}, nil
	}

	require.NoError(t, f.uc.Execute(context.Background()))

	assert.Equal(t, []int64{42}, f.membership.banned)
	assert.Equal(t, []int64{42}, f.notifier.expired)
	assert.True(t, sub.ExpiredNotified())
	require.Len(t, f.subs.upserted, 1)
}

func TestProcessExpiredUseCase_Execute_PersistedFlagSilencesSecondRun(t *testing.T) {
	f := newProcessExpiredFixture(t)
	sub := expiredSub(t, 42, func(p *subscription.SubscriptionReconstructParams) {
		p.ExpiredNotified = true
	})

	f.subs.FindExpiredFunc = func(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
		return []*subscription.Subscription{sub}, nil
	}

	require.NoError(t, f.uc.Execute(context.Background()))

	assert.Empty(t, f.membership.banned)
	assert.Empty(t, f.notifier.expired)
	assert.Empty(t, f.subs.upserted)
}

func TestProcessExpiredUseCase_Execute_CooldownSkipsSameUser(t *testing.T) {
	f := newProcessExpiredFixture(t)
	sub := expiredSub(t, 42, nil)

	calls := 0
	f.subs.FindExpiredFunc = func(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
		calls++
		return []*subscription.Subscription{sub}, nil
	}

	require.NoError(t, f.uc.Execute(context.Background()))
	require.NoError(t, f.uc.Execute(context.Background()))

	assert.Equal(t, 2, calls)
	assert.Equal(t, []int64{42}, f.membership.banned)
	assert.Equal(t, []int64{42}, f.notifier.expired)
}
