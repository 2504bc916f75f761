// Package service реализует бизнес-логику сервиса учёта потребления воды.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/hydration-system/internal/analytics"
	"github.com/mmeshcher/hydration-system/internal/gamification"
	"github.com/mmeshcher/hydration-system/internal/model"
	"github.com/mmeshcher/hydration-system/internal/reminder"
	"github.com/mmeshcher/hydration-system/internal/repository"
	"github.com/mmeshcher/hydration-system/internal/validation"
	"github.com/mmeshcher/hydration-system/internal/voice"
	"github.com/mmeshcher/hydration-system/internal/weather"
)

// ErrAmountNotRecognized возвращается, если в расшифровке не найден объём.
var ErrAmountNotRecognized = errors.New("amount not recognized")

const reminderBatchSize = 100

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	CreateProfile(ctx context.Context, p model.Profile) (model.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	UpdateProfileSettings(ctx context.Context, userID uuid.UUID, s model.ProfileSettings) (model.Profile, error)
	ListIntakes(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.IntakeEvent, error)
	DailyTotal(ctx context.Context, userID uuid.UUID, from, to time.Time) (int64, error)
	ListAchievements(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.Achievement, error)
	ListReminderCandidates(ctx context.Context, afterID uuid.UUID, limit int) ([]model.Profile, error)
	RecordIntake(ctx context.Context, ev model.IntakeEvent, evaluate repository.EvaluateFunc) (model.Progress, error)
}

// WeatherClient описывает источник текущей погоды.
type WeatherClient interface {
	Configured() bool
	Current(ctx context.Context, city string) (*weather.Conditions, int, time.Duration, error)
}

// Notifier доставляет содержимое напоминания пользователю.
type Notifier interface {
	Notify(ctx context.Context, profile model.Profile, content reminder.Content) error
}

// TodayStats описывает прогресс пользователя за текущий местный день.
type TodayStats struct {
	Total     int64
	Goal      int64
	Progress  int64
	Remaining int64
	Logs      []model.IntakeEvent
}

// WeeklyReport объединяет недельную сводку и достижения за неделю.
type WeeklyReport struct {
	Summary      analytics.WeeklySummary
	Achievements []model.Achievement
}

// CoachMessage — сообщение тренера с поводом, по которому оно выбрано.
type CoachMessage struct {
	Context reminder.CoachContext
	Message string
}

// Service содержит бизнес-логику сервиса учёта потребления воды.
type Service struct {
	repo     Repository
	weather  WeatherClient
	city     string
	notifier Notifier
	logger   *zap.Logger

	now  func() time.Time
	pick func(n int) int

	// Используется только горутиной рассылки.
	weatherPausedUntil time.Time
}

// NewService создаёт новый сервис. weatherClient может быть не настроен,
// тогда напоминания классифицируются без учёта погоды.
func NewService(repo Repository, weatherClient WeatherClient, city string, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &Service{
		repo:     repo,
		weather:  weatherClient,
		city:     city,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		pick:     rand.IntN,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// CreateProfile создаёт профиль нового пользователя.
func (s *Service) CreateProfile(ctx context.Context, settings model.ProfileSettings) (model.Profile, error) {
	settings = withDefaults(settings)
	if err := settings.Validate(); err != nil {
		return model.Profile{}, err
	}

	return s.repo.CreateProfile(ctx, model.Profile{
		UserID:      uuid.New(),
		FullName:    settings.FullName,
		DailyGoalMl: settings.DailyGoalMl,
		Timezone:    settings.Timezone,
	})
}

// GetProfile возвращает профиль пользователя.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile изменяет настройки профиля.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, settings model.ProfileSettings) (model.Profile, error) {
	settings = withDefaults(settings)
	if err := settings.Validate(); err != nil {
		return model.Profile{}, err
	}
	return s.repo.UpdateProfileSettings(ctx, userID, settings)
}

func withDefaults(s model.ProfileSettings) model.ProfileSettings {
	if s.DailyGoalMl == 0 {
		s.DailyGoalMl = model.DefaultDailyGoalMl
	}
	if s.Timezone == "" {
		s.Timezone = model.DefaultTimezone
	}
	return s
}

// LogIntake записывает порцию, начисляет серию и достижения.
func (s *Service) LogIntake(ctx context.Context, userID uuid.UUID, in model.NewIntake) (model.IntakeResult, error) {
	now := s.now()
	in, err := validation.NormalizeIntake(in, now)
	if err != nil {
		return model.IntakeResult{}, err
	}

	loggedAt := in.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = now
	}

	ev := model.IntakeEvent{
		ID:       uuid.New(),
		UserID:   userID,
		AmountMl: in.AmountMl,
		LoggedAt: loggedAt.UTC(),
		Method:   in.Method,
		Mood:     in.Mood,
		Notes:    in.Notes,
	}

	progress, err := s.repo.RecordIntake(ctx, ev, func(profile model.Profile, previous int64) (model.Progress, error) {
		p, err := gamification.Evaluate(profile, previous, ev)
		if err != nil {
			return p, err
		}
		if today, _ := model.DayBounds(now, profile.Location()); ev.LoggedAt.Before(today) {
			p = withoutStreak(p, profile)
		}
		return p, nil
	})
	if err != nil {
		return model.IntakeResult{}, err
	}

	res := model.IntakeResult{
		Intake:       ev,
		Profile:      progress.Profile,
		DailyTotal:   progress.DailyTotal,
		Achievements: progress.Achievements,
		GoalReached:  progress.GoalReached,
	}
	if progress.GoalReached {
		res.CoachMessage = reminder.FallbackMessage(reminder.CoachGoalReached, s.pick)
		s.logger.Info("daily goal reached",
			zap.String("user_id", userID.String()),
			zap.Int64("streak_days", progress.Profile.StreakDays),
		)
	}

	return res, nil
}

// withoutStreak отменяет прирост серии и баллов для записи за прошедший день.
// Достижения за объём сохраняются.
func withoutStreak(p model.Progress, profile model.Profile) model.Progress {
	p.GoalReached = false
	p.Profile.StreakDays = profile.StreakDays
	p.Profile.TotalPoints = profile.TotalPoints
	return p
}

// ExtractAmount возвращает объём, распознанный в расшифровке; 0 означает, что нужно переспросить.
func (s *Service) ExtractAmount(transcript string) int64 {
	return voice.Extract(transcript)
}

// LogVoice распознаёт объём в расшифровке и записывает порцию со способом voice.
func (s *Service) LogVoice(ctx context.Context, userID uuid.UUID, transcript, mood string) (model.IntakeResult, error) {
	amount := voice.Extract(transcript)
	if amount == 0 {
		return model.IntakeResult{}, ErrAmountNotRecognized
	}

	return s.LogIntake(ctx, userID, model.NewIntake{
		AmountMl: amount,
		Method:   model.MethodVoice,
		Mood:     mood,
		Notes:    truncate(transcript, validation.MaxNotesLen),
	})
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Today возвращает записи и прогресс за текущий местный день пользователя.
func (s *Service) Today(ctx context.Context, userID uuid.UUID) (TodayStats, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return TodayStats{}, err
	}

	from, to := model.DayBounds(s.now(), profile.Location())
	logs, err := s.repo.ListIntakes(ctx, userID, from, to)
	if err != nil {
		return TodayStats{}, err
	}

	total := analytics.TotalAmount(logs)
	return TodayStats{
		Total:     total,
		Goal:      profile.DailyGoalMl,
		Progress:  int64(math.Round(reminder.ProgressPercent(total, profile.DailyGoalMl))),
		Remaining: max(profile.DailyGoalMl-total, 0),
		Logs:      logs,
	}, nil
}

// Analytics строит аналитический отчёт за окно period.
func (s *Service) Analytics(ctx context.Context, userID uuid.UUID, period string) (*analytics.Report, error) {
	p, err := model.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, to := p.Range(s.now())
	events, err := s.repo.ListIntakes(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	achievements, err := s.repo.ListAchievements(ctx, userID, from)
	if err != nil {
		return nil, err
	}

	return analytics.BuildReport(analytics.ReportInput{
		Profile:      profile,
		Period:       p,
		Events:       inLocation(events, profile.Location()),
		Achievements: achievements,
	})
}

// WeeklySummary строит сводку за последние семь дней.
func (s *Service) WeeklySummary(ctx context.Context, userID uuid.UUID) (WeeklyReport, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return WeeklyReport{}, err
	}

	from, to := model.Period7d.Range(s.now())
	events, err := s.repo.ListIntakes(ctx, userID, from, to)
	if err != nil {
		return WeeklyReport{}, err
	}

	achievements, err := s.repo.ListAchievements(ctx, userID, from)
	if err != nil {
		return WeeklyReport{}, err
	}

	return WeeklyReport{
		Summary:      analytics.Summarize(inLocation(events, profile.Location()), profile),
		Achievements: achievements,
	}, nil
}

// Achievements возвращает достижения, полученные за окно period.
func (s *Service) Achievements(ctx context.Context, userID uuid.UUID, period string) ([]model.Achievement, error) {
	p, err := model.ParsePeriod(period)
	if err != nil {
		return nil, err
	}
	from, _ := p.Range(s.now())
	return s.repo.ListAchievements(ctx, userID, from)
}

// Coach возвращает сообщение тренера. Если повод не задан, он выбирается
// по прогрессу текущего дня и длине серии.
func (s *Service) Coach(ctx context.Context, userID uuid.UUID, coachContext string) (CoachMessage, error) {
	if coachContext != "" {
		c, err := reminder.ParseCoachContext(coachContext)
		if err != nil {
			return CoachMessage{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
		}
		return CoachMessage{Context: c, Message: reminder.FallbackMessage(c, s.pick)}, nil
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return CoachMessage{}, err
	}

	now := s.now().In(profile.Location())
	from, to := model.DayBounds(now, profile.Location())
	total, err := s.repo.DailyTotal(ctx, userID, from, to)
	if err != nil {
		return CoachMessage{}, err
	}

	c := reminder.ChooseContext(reminder.ProgressPercent(total, profile.DailyGoalMl), now.Hour(), profile.StreakDays)
	return CoachMessage{Context: c, Message: reminder.FallbackMessage(c, s.pick)}, nil
}

func inLocation(events []model.IntakeEvent, loc *time.Location) []model.IntakeEvent {
	res := make([]model.IntakeEvent, len(events))
	for i, e := range events {
		e.LoggedAt = e.LoggedAt.In(loc)
		res[i] = e
	}
	return res
}
