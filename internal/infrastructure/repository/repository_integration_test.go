package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clubgate/clubgate/internal/domain/event"
	"github.com/clubgate/clubgate/internal/domain/invitelink"
	"github.com/clubgate/clubgate/internal/domain/payment"
	vo "github.com/clubgate/clubgate/internal/domain/payment/valueobjects"
	"github.com/clubgate/clubgate/internal/domain/promo"
	"github.com/clubgate/clubgate/internal/domain/subscription"
	"github.com/clubgate/clubgate/internal/domain/user"
	"github.com/clubgate/clubgate/internal/infrastructure/persistence/models"
	"github.com/clubgate/clubgate/internal/shared/db"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.SubscriptionModel{},
		&models.PaymentModel{},
		&models.InviteLinkModel{},
		&models.ProcessedEventModel{},
		&models.PromoWindowModel{},
	)
	require.NoError(t, err)

	return db
}

func TestSubscriptionRepository_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("insert then load", func(t *testing.T) {
		sub, err := subscription.NewSubscription(100, now, 30*24*time.Hour)
		require.NoError(t, err)

		require.NoError(t, repo.Upsert(ctx, sub))

		found, err := repo.GetByUserID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(100), found.UserID())
		assert.True(t, found.ExpiresAt().Equal(sub.ExpiresAt()))
		assert.False(t, found.AutoRenewalEnabled())
	})

	t.Run("second upsert updates in place", func(t *testing.T) {
		sub, err := subscription.NewSubscription(101, now, 30*24*time.Hour)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, sub))

		require.NoError(t, sub.EnableAutoRenewal("pm-ref-1", now))
		sub.Activate(now.Add(24*time.Hour), 30*24*time.Hour)
		require.NoError(t, repo.Upsert(ctx, sub))

		found, err := repo.GetByUserID(ctx, 101)
		require.NoError(t, err)
		assert.True(t, found.AutoRenewalEnabled())
		require.NotNil(t, found.SavedInstrumentRef())
		assert.Equal(t, "pm-ref-1", *found.SavedInstrumentRef())
		assert.True(t, found.ExpiresAt().Equal(now.Add(31*24*time.Hour)))
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := repo.GetByUserID(ctx, 999)
		assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)
	})
}

func TestSubscriptionRepository_FindExpired(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	expired, err := subscription.NewSubscription(200, now.Add(-40*24*time.Hour), 30*24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, expired))

	active, err := subscription.NewSubscription(201, now, 30*24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, active))

	list, err := repo.FindExpired(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(200), list[0].UserID())
}

func TestSubscriptionRepository_FindExpiringBetween(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	soon, err := subscription.NewSubscription(300, now.Add(-30*24*time.Hour).Add(2*time.Hour), 30*24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, soon))

	later, err := subscription.NewSubscription(301, now, 30*24*time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, later))

	list, err := repo.FindExpiringBetween(ctx, now.Add(time.Hour), now.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(300), list[0].UserID())
}

func TestPaymentRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPaymentRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("create then load by provider id", func(t *testing.T) {
		p, err := payment.NewPayment(100, vo.NewMoney(49900, "RUB"), vo.PaymentPurposeCheckout, now)
		require.NoError(t, err)
		p.Metadata()["duration_days"] = 30
		require.NoError(t, p.AttachProviderInfo("pm-abc", "https://pay.example/abc", now))

		require.NoError(t, repo.Create(ctx, p))
		assert.NotZero(t, p.ID())

		found, err := repo.GetByProviderID(ctx, "pm-abc")
		require.NoError(t, err)
		assert.Equal(t, int64(100), found.UserID())
		assert.Equal(t, int64(49900), found.Amount().AmountInKopecks())
		assert.Equal(t, vo.PaymentStatusPending, found.Status())
		assert.EqualValues(t, 30, found.Metadata()["duration_days"])
	})

	t.Run("update persists status transition", func(t *testing.T) {
		p, err := payment.NewPayment(101, vo.NewMoney(49900, "RUB"), vo.PaymentPurposeCheckout, now)
		require.NoError(t, err)
		require.NoError(t, p.AttachProviderInfo("pm-def", "", now))
		require.NoError(t, repo.Create(ctx, p))

		require.NoError(t, p.MarkAsSucceeded(now.Add(time.Minute)))
		require.NoError(t, repo.Update(ctx, p))

		found, err := repo.GetByProviderID(ctx, "pm-def")
		require.NoError(t, err)
		assert.Equal(t, vo.PaymentStatusSucceeded, found.Status())
		require.NotNil(t, found.PaidAt())
	})

	t.Run("unknown provider id", func(t *testing.T) {
		_, err := repo.GetByProviderID(ctx, "pm-missing")
		assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	})

	t.Run("stale pending excludes settled and fresh payments", func(t *testing.T) {
		stale, err := payment.NewPayment(102, vo.NewMoney(49900, "RUB"), vo.PaymentPurposeCheckout, now.Add(-time.Hour))
		require.NoError(t, err)
		require.NoError(t, stale.AttachProviderInfo("pm-stale", "", now.Add(-time.Hour)))
		require.NoError(t, repo.Create(ctx, stale))

		fresh, err := payment.NewPayment(103, vo.NewMoney(49900, "RUB"), vo.PaymentPurposeCheckout, now)
		require.NoError(t, err)
		require.NoError(t, fresh.AttachProviderInfo("pm-fresh", "", now))
		require.NoError(t, repo.Create(ctx, fresh))

		list, err := repo.FindStalePending(ctx, now.Add(-10*time.Minute), 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "pm-stale", list[0].ProviderID())
	})
}

func TestProcessedEventRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProcessedEventRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	e, err := event.NewProcessedEvent("payment.succeeded", "pm-abc", now)
	require.NoError(t, err)

	require.NoError(t, repo.Record(ctx, e))

	has, err := repo.Has(ctx, e.LedgerID())
	require.NoError(t, err)
	assert.True(t, has)

	dup, err := event.NewProcessedEvent("payment.succeeded", "pm-abc", now.Add(time.Minute))
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Record(ctx, dup), event.ErrEventAlreadyProcessed)

	has, err = repo.Has(ctx, "payment.succeeded:pm-other")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestInviteLinkRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewInviteLinkRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	link, err := invitelink.NewInviteLink(100, "https://t.me/+abc", now.Add(30*24*time.Hour), now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, link))

	active, err := repo.FindActiveByUserID(ctx, 100)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "https://t.me/+abc", active[0].URL())

	link.Revoke(now.Add(time.Hour))
	require.NoError(t, repo.Update(ctx, link))

	active, err = repo.FindActiveByUserID(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestPromoWindowRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPromoWindowRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, promo.ErrWindowNotFound)

	w, err := promo.NewWindow(now.Add(72*time.Hour), now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, w))

	found, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, found.EndsAt().Equal(now.Add(72*time.Hour)))

	require.NoError(t, w.ResetFrom(now.Add(100*time.Hour), 72*time.Hour))
	require.NoError(t, repo.Save(ctx, w))

	found, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.True(t, found.EndsAt().Equal(now.Add(172*time.Hour)))
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	gdb := setupTestDB(t)
	txMgr := db.NewTransactionManager(gdb)
	subRepo := NewSubscriptionRepository(gdb)
	linkRepo := NewInviteLinkRepository(gdb)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	err := txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		sub, err := subscription.NewSubscription(100, now, 30*24*time.Hour)
		require.NoError(t, err)
		if err := subRepo.Upsert(txCtx, sub); err != nil {
			return err
		}

		link, err := invitelink.NewInviteLink(100, "https://t.me/+abc", now.Add(30*24*time.Hour), now)
		require.NoError(t, err)
		if err := linkRepo.Create(txCtx, link); err != nil {
			return err
		}

		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, err = subRepo.GetByUserID(ctx, 100)
	assert.ErrorIs(t, err, subscription.ErrSubscriptionNotFound)

	links, err := linkRepo.FindActiveByUserID(ctx, 100)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	u, err := user.NewUser(100, "alice", now)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, u))

	updated, err := user.NewUser(100, "alice_renamed", now.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, updated))

	found, err := repo.GetByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, "alice_renamed", found.Handle())

	_, err = repo.GetByTelegramID(ctx, 999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
