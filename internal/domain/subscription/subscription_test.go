package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubscription(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("creates activated subscription", func(t *testing.T) {
		sub, err := NewSubscription(42, now, 30*24*time.Hour)
		require.NoError(t, err)

		assert.Equal(t, int64(42), sub.UserID())
		assert.Equal(t, now, sub.StartsAt())
		assert.Equal(t, now.Add(30*24*time.Hour), sub.ExpiresAt())
		assert.False(t, sub.AutoRenewalEnabled())
		assert.Nil(t, sub.SavedInstrumentRef())
		assert.Equal(t, 0, sub.AutoRenewalAttempts())
		assert.False(t, sub.ExpiredNotified())
	})

	t.Run("rejects zero user ID", func(t *testing.T) {
		_, err := NewSubscription(0, now, time.Hour)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		_, err := NewSubscription(42, now, 0)
		assert.Error(t, err)
	})
}

func TestSubscription_Activate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("resets window from now without stacking", func(t *testing.T) {
		sub, err := NewSubscription(42, now, 30*24*time.Hour)
		require.NoError(t, err)

		// renew ten days in with plenty of time left
		later := now.Add(10 * 24 * time.Hour)
		sub.Activate(later, 30*24*time.Hour)

		assert.Equal(t, later, sub.StartsAt())
		assert.Equal(t, later.Add(30*24*time.Hour), sub.ExpiresAt())
	})

	t.Run("clears failure counter and notified flag", func(t *testing.T) {
		sub, err := NewSubscription(42, now, time.Hour)
		require.NoError(t, err)

		sub.RecordRenewalFailure(now.Add(2 * time.Hour))
		sub.RecordRenewalFailure(now.Add(4 * time.Hour))
		sub.MarkExpiredNotified(now.Add(5 * time.Hour))

		sub.Activate(now.Add(6*time.Hour), time.Hour)

		assert.Equal(t, 0, sub.AutoRenewalAttempts())
		assert.False(t, sub.ExpiredNotified())
	})
}

func TestSubscription_AutoRenewal(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("enable stores instrument reference", func(t *testing.T) {
		sub, err := NewSubscription(42, now, time.Hour)
		require.NoError(t, err)

		err = sub.EnableAutoRenewal("pm_abc", now)
		require.NoError(t, err)

		assert.True(t, sub.AutoRenewalEnabled())
		require.NotNil(t, sub.SavedInstrumentRef())
		assert.Equal(t, "pm_abc", *sub.SavedInstrumentRef())
	})

	t.Run("enable rejects empty instrument reference", func(t *testing.T) {
		sub, err := NewSubscription(42, now, time.Hour)
		require.NoError(t, err)

		err = sub.EnableAutoRenewal("", now)
		assert.Error(t, err)
	})

	t.Run("disable clears instrument reference", func(t *testing.T) {
		sub, err := NewSubscription(42, now, time.Hour)
		require.NoError(t, err)
		require.NoError(t, sub.EnableAutoRenewal("pm_abc", now))

		sub.DisableAutoRenewal(now)

		assert.False(t, sub.AutoRenewalEnabled())
		assert.Nil(t, sub.SavedInstrumentRef())
	})
}

func TestSubscription_CanAttemptRenewal(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	retryInterval := 2 * time.Hour

	newSub := func(t *testing.T) *Subscription {
		sub, err := NewSubscription(42, base, time.Hour)
		require.NoError(t, err)
		require.NoError(t, sub.EnableAutoRenewal("pm_abc", base))
		return sub
	}

	t.Run("eligible when enabled with instrument", func(t *testing.T) {
		sub := newSub(t)
		assert.True(t, sub.CanAttemptRenewal(base.Add(time.Hour), DefaultMaxRenewalAttempts, retryInterval))
	})

	t.Run("ineligible when renewal disabled", func(t *testing.T) {
		sub := newSub(t)
		sub.DisableAutoRenewal(base)
		assert.False(t, sub.CanAttemptRenewal(base.Add(time.Hour), DefaultMaxRenewalAttempts, retryInterval))
	})

	t.Run("ineligible once failure ceiling reached", func(t *testing.T) {
		sub := newSub(t)
		sub.RecordRenewalFailure(base.Add(1 * time.Hour))
		sub.RecordRenewalFailure(base.Add(4 * time.Hour))
		sub.RecordRenewalFailure(base.Add(7 * time.Hour))
		assert.False(t, sub.CanAttemptRenewal(base.Add(20*time.Hour), DefaultMaxRenewalAttempts, retryInterval))
	})

	t.Run("throttled inside retry interval", func(t *testing.T) {
		sub := newSub(t)
		sub.RecordRenewalFailure(base.Add(time.Hour))

		assert.False(t, sub.CanAttemptRenewal(base.Add(2*time.Hour), DefaultMaxRenewalAttempts, retryInterval))
		assert.True(t, sub.CanAttemptRenewal(base.Add(3*time.Hour+time.Minute), DefaultMaxRenewalAttempts, retryInterval))
	})
}

func TestSubscription_IsActiveAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sub, err := NewSubscription(42, now, time.Hour)
	require.NoError(t, err)

	assert.True(t, sub.IsActiveAt(now))
	assert.True(t, sub.IsActiveAt(now.Add(59*time.Minute)))
	assert.False(t, sub.IsActiveAt(now.Add(time.Hour)))
	assert.False(t, sub.IsActiveAt(now.Add(2*time.Hour)))
}

func TestReconstructSubscription(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ref := "pm_abc"
	attemptAt := now.Add(-time.Hour)

	t.Run("restores all fields", func(t *testing.T) {
		sub, err := ReconstructSubscription(SubscriptionReconstructParams{
			UserID:               42,
			StartsAt:             now.Add(-48 * time.Hour),
			ExpiresAt:            now.Add(-time.Hour),
			AutoRenewalEnabled:   true,
			SavedInstrumentRef:   &ref,
			AutoRenewalAttempts:  2,
			LastRenewalAttemptAt: &attemptAt,
			ExpiredNotified:      true,
			CreatedAt:            now.Add(-48 * time.Hour),
			UpdatedAt:            now,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(42), sub.UserID())
		assert.True(t, sub.AutoRenewalEnabled())
		assert.Equal(t, 2, sub.AutoRenewalAttempts())
		assert.True(t, sub.ExpiredNotified())
		require.NotNil(t, sub.LastRenewalAttemptAt())
		assert.Equal(t, attemptAt, *sub.LastRenewalAttemptAt())
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		_, err := ReconstructSubscription(SubscriptionReconstructParams{
			UserID:    42,
			StartsAt:  now,
			ExpiresAt: now.Add(-time.Hour),
			CreatedAt: now,
			UpdatedAt: now,
		})
		assert.Error(t, err)
	})
}
