// Package model содержит доменные сущности сервиса учёта потребления воды.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidInput возвращается, если входные данные отклонены до начала вычислений.
var ErrInvalidInput = errors.New("invalid input")

// DefaultDailyGoalMl — дневная цель нового профиля, мл.
const DefaultDailyGoalMl int64 = 2000

// DefaultTimezone используется, если у профиля не задан часовой пояс.
const DefaultTimezone = "UTC"

// Method описывает способ, которым была записана порция.
type Method string

const (
	MethodManual Method = "manual"
	MethodVoice  Method = "voice"
	MethodPhoto  Method = "photo"
	MethodImport Method = "import"
)

// Valid сообщает, является ли способ одним из поддерживаемых.
func (m Method) Valid() bool {
	switch m {
	case MethodManual, MethodVoice, MethodPhoto, MethodImport:
		return true
	}
	return false
}

// IntakeEvent описывает одну запись о выпитой жидкости. Запись неизменяема.
type IntakeEvent struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	AmountMl int64
	LoggedAt time.Time
	Method   Method
	Mood     string
	Notes    string
}

// Profile описывает агрегированное состояние пользователя.
type Profile struct {
	UserID      uuid.UUID
	FullName    string
	DailyGoalMl int64
	Timezone    string
	StreakDays  int64
	TotalPoints int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location возвращает часовой пояс профиля; при ошибке разбора используется UTC.
func (p Profile) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DayBounds возвращает начало и конец календарного дня момента t в часовом поясе loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Achievement описывает полученное пользователем достижение. Запись создаётся один раз.
type Achievement struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Icon        string
	Points      int64
	Category    string
	EarnedAt    time.Time
}

// Progress — результат обработки новой порции оценщиком серий и достижений.
type Progress struct {
	// Profile — следующий снимок профиля.
	Profile      Profile
	DailyTotal   int64
	Achievements []Achievement
	GoalReached  bool
}

// IntakeResult возвращается клиенту после записи порции.
type IntakeResult struct {
	Intake       IntakeEvent
	Profile      Profile
	DailyTotal   int64
	Achievements []Achievement
	GoalReached  bool
	CoachMessage string
}

// NewIntake описывает запрос на запись порции.
type NewIntake struct {
	AmountMl int64
	Method   Method
	Mood     string
	Notes    string
	LoggedAt time.Time
}

// ProfileSettings описывает изменяемые пользователем поля профиля.
type ProfileSettings struct {
	FullName    string
	DailyGoalMl int64
	Timezone    string
}

// Validate проверяет настройки профиля.
func (s ProfileSettings) Validate() error {
	if s.DailyGoalMl <= 0 {
		return fmt.Errorf("%w: daily goal must be positive", ErrInvalidInput)
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("%w: unknown timezone %q", ErrInvalidInput, s.Timezone)
		}
	}
	return nil
}

// Period описывает окно аналитики.
type Period string

const (
	Period24h Period = "24h"
	Period7d  Period = "7d"
	Period30d Period = "30d"
)

// ParsePeriod разбирает окно аналитики; пустая строка означает 7d.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return Period7d, nil
	case Period24h, Period7d, Period30d:
		return Period(s), nil
	}
	return "", fmt.Errorf("%w: unsupported period %q", ErrInvalidInput, s)
}

// Days возвращает число дней в окне.
func (p Period) Days() int {
	switch p {
	case Period24h:
		return 1
	case Period30d:
		return 30
	default:
		return 7
	}
}

// Range возвращает границы окна, заканчивающегося в момент now.
func (p Period) Range(now time.Time) (time.Time, time.Time) {
	if p == Period24h {
		return now.Add(-24 * time.Hour), now
	}
	return now.AddDate(0, 0, -p.Days()), now
}
