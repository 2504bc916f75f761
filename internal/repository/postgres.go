// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/hydration-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrProfileExists возвращается при попытке создать профиль повторно.
	ErrProfileExists = errors.New("profile already exists")
	// ErrProfileNotFound возвращается, если профиль не найден.
	ErrProfileNotFound = errors.New("profile not found")
)

// EvaluateFunc вычисляет следующий снимок профиля по заблокированному профилю
// и объёму, выпитому за день до новой записи.
type EvaluateFunc func(profile model.Profile, previousDailyTotal int64) (model.Progress, error)

// MinReminderStreak — минимальная серия, при которой пользователь получает напоминания.
const MinReminderStreak int64 = 1

var retryDelays = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func withRetry(ctx context.Context, delays []time.Duration, fn func() error) error {
	var err error
	for i := 0; i <= len(delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(delays) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[i]):
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	// Упрощенная проверка на ошибки соединения
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

const profileColumns = `user_id, full_name, daily_goal_ml, timezone, streak_days, total_points, created_at, updated_at`

func scanProfile(row pgx.Row) (model.Profile, error) {
	var p model.Profile
	err := row.Scan(&p.UserID, &p.FullName, &p.DailyGoalMl, &p.Timezone, &p.StreakDays, &p.TotalPoints, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateProfile создаёт профиль пользователя.
func (r *PostgresRepository) CreateProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	created, err := scanProfile(r.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, full_name, daily_goal_ml, timezone)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+profileColumns,
		p.UserID, p.FullName, p.DailyGoalMl, p.Timezone,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Profile{}, fmt.Errorf("%w: %s", ErrProfileExists, p.UserID)
		}
		return model.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return created, nil
}

// GetProfile возвращает профиль пользователя.
func (r *PostgresRepository) GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`,
		userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// UpdateProfileSettings изменяет имя, цель и часовой пояс. Серия и баллы не меняются.
func (r *PostgresRepository) UpdateProfileSettings(ctx context.Context, userID uuid.UUID, s model.ProfileSettings) (model.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx,
		`UPDATE profiles
		 SET full_name = $2, daily_goal_ml = $3, timezone = $4, updated_at = now()
		 WHERE user_id = $1
		 RETURNING `+profileColumns,
		userID, s.FullName, s.DailyGoalMl, s.Timezone,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// ListReminderCandidates возвращает активные профили (серия не короче
// MinReminderStreak) для рассылки напоминаний, начиная после afterID.
func (r *PostgresRepository) ListReminderCandidates(ctx context.Context, afterID uuid.UUID, limit int) ([]model.Profile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles
		 WHERE user_id > $1 AND streak_days >= $2
		 ORDER BY user_id
		 LIMIT $3`,
		afterID, MinReminderStreak, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select reminder candidates: %w", err)
	}
	defer rows.Close()

	var res []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		res = append(res, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// ListIntakes возвращает записи пользователя в полуинтервале [from, to) по возрастанию времени.
func (r *PostgresRepository) ListIntakes(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.IntakeEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, amount_ml, logged_at, method, mood, notes
		 FROM hydration_logs
		 WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3
		 ORDER BY logged_at, id`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("select intakes: %w", err)
	}
	defer rows.Close()

	var res []model.IntakeEvent
	for rows.Next() {
		var (
			ev     model.IntakeEvent
			method string
		)
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.AmountMl, &ev.LoggedAt, &method, &ev.Mood, &ev.Notes); err != nil {
			return nil, fmt.Errorf("scan intake: %w", err)
		}
		ev.Method = model.Method(method)
		res = append(res, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// DailyTotal возвращает суммарный объём записей пользователя в полуинтервале [from, to).
func (r *PostgresRepository) DailyTotal(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error) {
	return dailyTotal(ctx, r.pool, userID, from, to)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func dailyTotal(ctx context.Context, q queryRower, userID uuid.UUID, from, to time.Time) (int64, error) {
	var total int64
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_ml), 0)
		 FROM hydration_logs
		 WHERE user_id = $1 AND logged_at >= $2 AND logged_at < $3`,
		userID, from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum intakes: %w", err)
	}
	return total, nil
}

// ListAchievements возвращает достижения пользователя, полученные начиная с since, от новых к старым.
func (r *PostgresRepository) ListAchievements(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.Achievement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, description, icon, points, category, earned_at
		 FROM achievements
		 WHERE user_id = $1 AND earned_at >= $2
		 ORDER BY earned_at DESC, points DESC`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("select achievements: %w", err)
	}
	defer rows.Close()

	var res []model.Achievement
	for rows.Next() {
		var a model.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Icon, &a.Points, &a.Category, &a.EarnedAt); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		res = append(res, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// RecordIntake сохраняет запись и результат её оценки в одной транзакции.
// Строка профиля блокируется, поэтому записи одного пользователя обрабатываются последовательно.
// Дневной объём до записи считается в пределах местного календарного дня события.
func (r *PostgresRepository) RecordIntake(ctx context.Context, ev model.IntakeEvent, evaluate EvaluateFunc) (model.Progress, error) {
	var progress model.Progress
	err := withRetry(ctx, retryDelays, func() error {
		var err error
		progress, err = r.recordIntake(ctx, ev, evaluate)
		return err
	})
	return progress, err
}

func (r *PostgresRepository) recordIntake(ctx context.Context, ev model.IntakeEvent, evaluate EvaluateFunc) (model.Progress, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Progress{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	profile, err := scanProfile(tx.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = $1 FOR UPDATE`,
		ev.UserID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Progress{}, ErrProfileNotFound
		}
		return model.Progress{}, fmt.Errorf("lock profile for update: %w", err)
	}

	dayStart, dayEnd := model.DayBounds(ev.LoggedAt, profile.Location())
	previous, err := dailyTotal(ctx, tx, ev.UserID, dayStart, dayEnd)
	if err != nil {
		return model.Progress{}, err
	}

	progress, err := evaluate(profile, previous)
	if err != nil {
		return model.Progress{}, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO hydration_logs (id, user_id, amount_ml, logged_at, method, mood, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ev.ID, ev.UserID, ev.AmountMl, ev.LoggedAt, string(ev.Method), ev.Mood, ev.Notes,
	)
	if err != nil {
		return model.Progress{}, fmt.Errorf("insert intake: %w", err)
	}

	for _, a := range progress.Achievements {
		_, err = tx.Exec(ctx,
			`INSERT INTO achievements (id, user_id, title, description, icon, points, category, earned_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			a.ID, a.UserID, a.Title, a.Description, a.Icon, a.Points, a.Category, a.EarnedAt,
		)
		if err != nil {
			return model.Progress{}, fmt.Errorf("insert achievement: %w", err)
		}
	}

	// Счётчики профиля только растут.
	if progress.Profile.StreakDays != profile.StreakDays || progress.Profile.TotalPoints != profile.TotalPoints {
		err = tx.QueryRow(ctx,
			`UPDATE profiles
			 SET streak_days = GREATEST(streak_days, $2), total_points = GREATEST(total_points, $3), updated_at = now()
			 WHERE user_id = $1
			 RETURNING updated_at`,
			ev.UserID, progress.Profile.StreakDays, progress.Profile.TotalPoints,
		).Scan(&progress.Profile.UpdatedAt)
		if err != nil {
			return model.Progress{}, fmt.Errorf("update profile counters: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Progress{}, fmt.Errorf("commit tx: %w", err)
	}

	return progress, nil
}
