package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/hydration-system/internal/gamification"
	"github.com/mmeshcher/hydration-system/internal/model"
)

func TestWithRetry_RetriesSerializationFailure(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), []time.Duration{time.Millisecond, time.Millisecond}, func() error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: pgerrcode.SerializationFailure}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_GivesUpAfterDelays(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), []time.Duration{time.Millisecond}, func() error {
		calls++
		return &pgconn.PgError{Code: pgerrcode.DeadlockDetected}
	})

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_DoesNotRetryDomainErrors(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), []time.Duration{time.Millisecond}, func() error {
		calls++
		return ErrProfileNotFound
	})

	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withRetry(ctx, []time.Duration{time.Hour}, func() error {
		calls++
		return errors.New("dial tcp: connection refused")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func newTestRepository(t *testing.T) *PostgresRepository {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	repo, err := NewPostgresRepository(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestPostgresRepository_RecordIntake(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	profile, err := repo.CreateProfile(ctx, model.Profile{
		UserID:      uuid.New(),
		FullName:    "Test User",
		DailyGoalMl: 1000,
		Timezone:    "Europe/Lisbon",
	})
	require.NoError(t, err)

	_, err = repo.CreateProfile(ctx, profile)
	assert.ErrorIs(t, err, ErrProfileExists)

	loggedAt := time.Now().UTC().Truncate(time.Second)
	record := func(amount int64) model.Progress {
		ev := model.IntakeEvent{
			ID:       uuid.New(),
			UserID:   profile.UserID,
			AmountMl: amount,
			LoggedAt: loggedAt,
			Method:   model.MethodManual,
		}
		progress, err := repo.RecordIntake(ctx, ev, func(p model.Profile, previous int64) (model.Progress, error) {
			return gamification.Evaluate(p, previous, ev)
		})
		require.NoError(t, err)
		return progress
	}

	first := record(600)
	assert.Equal(t, int64(600), first.DailyTotal)
	assert.False(t, first.GoalReached)

	second := record(600)
	assert.Equal(t, int64(1200), second.DailyTotal)
	assert.True(t, second.GoalReached)
	assert.Equal(t, int64(1), second.Profile.StreakDays)

	stored, err := repo.GetProfile(ctx, profile.UserID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.StreakDays)
	assert.Equal(t, int64(100), stored.TotalPoints)

	events, err := repo.ListIntakes(ctx, profile.UserID, loggedAt.Add(-time.Hour), loggedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 2)

	achievements, err := repo.ListAchievements(ctx, profile.UserID, loggedAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, achievements, 3)
}

func TestPostgresRepository_ProfileNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProfileNotFound)

	_, err = repo.UpdateProfileSettings(context.Background(), uuid.New(), model.ProfileSettings{DailyGoalMl: 1500})
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestPostgresRepository_ListReminderCandidatesSkipsInactive(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	inactive, err := repo.CreateProfile(ctx, model.Profile{
		UserID:      uuid.New(),
		DailyGoalMl: 100,
		Timezone:    "UTC",
	})
	require.NoError(t, err)

	active, err := repo.CreateProfile(ctx, model.Profile{
		UserID:      uuid.New(),
		DailyGoalMl: 100,
		Timezone:    "UTC",
	})
	require.NoError(t, err)

	ev := model.IntakeEvent{
		ID:       uuid.New(),
		UserID:   active.UserID,
		AmountMl: 250,
		LoggedAt: time.Now().UTC(),
		Method:   model.MethodManual,
	}
	_, err = repo.RecordIntake(ctx, ev, func(p model.Profile, previous int64) (model.Progress, error) {
		return gamification.Evaluate(p, previous, ev)
	})
	require.NoError(t, err)

	var ids []uuid.UUID
	after := uuid.Nil
	for {
		batch, err := repo.ListReminderCandidates(ctx, after, 100)
		require.NoError(t, err)
		if len(batch) == 0 {
			break
		}
		for _, p := range batch {
			assert.GreaterOrEqual(t, p.StreakDays, MinReminderStreak)
			ids = append(ids, p.UserID)
		}
		after = batch[len(batch)-1].UserID
	}

	assert.Contains(t, ids, active.UserID)
	assert.NotContains(t, ids, inactive.UserID)
}
