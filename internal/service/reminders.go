package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/hydration-system/internal/model"
	"github.com/mmeshcher/hydration-system/internal/reminder"
)

// StartReminderSweep запускает фоновую рассылку напоминаний с периодом interval.
func (s *Service) StartReminderSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.processReminderBatch(ctx)
			}
		}
	}()
}

// processReminderBatch обходит профили и отправляет напоминания тем, кто не достиг цели.
// Возвращает число отправленных напоминаний.
func (s *Service) processReminderBatch(ctx context.Context) int {
	temperature := s.currentTemperature(ctx)

	sent := 0
	after := uuid.Nil
	for {
		profiles, err := s.repo.ListReminderCandidates(ctx, after, reminderBatchSize)
		if err != nil {
			s.logger.Error("list reminder candidates", zap.Error(err))
			return sent
		}

		for _, p := range profiles {
			if ctx.Err() != nil {
				return sent
			}
			if s.remind(ctx, p, temperature) {
				sent++
			}
		}

		if len(profiles) < reminderBatchSize {
			return sent
		}
		after = profiles[len(profiles)-1].UserID
	}
}

func (s *Service) remind(ctx context.Context, p model.Profile, temperature *float64) bool {
	loc := p.Location()
	now := s.now().In(loc)
	from, to := model.DayBounds(now, loc)

	total, err := s.repo.DailyTotal(ctx, p.UserID, from, to)
	if err != nil {
		s.logger.Error("daily total for reminder", zap.Error(err), zap.String("user_id", p.UserID.String()))
		return false
	}

	if !reminder.ShouldRemind(total, p.DailyGoalMl) {
		return false
	}

	kind := reminder.Classify(now.Hour(), reminder.ProgressPercent(total, p.DailyGoalMl), temperature)
	content := reminder.Compose(kind, reminder.Facts{
		Name:         p.FullName,
		TodayTotal:   total,
		DailyGoal:    p.DailyGoalMl,
		Streak:       p.StreakDays,
		TemperatureC: temperature,
	})

	if err := s.notifier.Notify(ctx, p, content); err != nil {
		s.logger.Error("send reminder", zap.Error(err), zap.String("user_id", p.UserID.String()))
		return false
	}
	return true
}

// currentTemperature возвращает nil, если погода недоступна.
func (s *Service) currentTemperature(ctx context.Context) *float64 {
	if s.weather == nil || !s.weather.Configured() || s.city == "" {
		return nil
	}
	if s.now().Before(s.weatherPausedUntil) {
		return nil
	}

	cond, statusCode, retryAfter, err := s.weather.Current(ctx, s.city)
	if err != nil {
		s.logger.Warn("weather request failed", zap.Error(err))
		return nil
	}
	if statusCode == http.StatusTooManyRequests {
		s.logger.Warn("weather rate limited", zap.Duration("retry_after", retryAfter))
		s.weatherPausedUntil = s.now().Add(retryAfter)
		return nil
	}
	if cond == nil {
		return nil
	}

	t := cond.TemperatureC
	return &t
}
