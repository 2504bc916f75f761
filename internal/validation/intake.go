// Package validation содержит функции валидации входных данных.
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mmeshcher/hydration-system/internal/model"
)

const (
	// MaxIntakeMl ограничивает объём одной записи.
	MaxIntakeMl int64 = 10000

	maxMoodLen  = 32
	// MaxNotesLen ограничивает длину заметки в рунах.
	MaxNotesLen = 500
)

// MaxClockSkew — допустимое опережение времени записи относительно часов сервера.
const MaxClockSkew = 5 * time.Minute

// IsValidAmount проверяет, что объём порции положителен и не превышает MaxIntakeMl.
func IsValidAmount(amount int64) bool {
	return amount > 0 && amount <= MaxIntakeMl
}

// IsValidMood проверяет метку настроения: пустая допустима, иначе только буквы, цифры, пробел, '-' и '_'.
func IsValidMood(mood string) bool {
	if utf8.RuneCountInString(mood) > maxMoodLen {
		return false
	}
	for _, r := range mood {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}

// NormalizeIntake приводит запрос к каноническому виду и проверяет его.
// Запись из будущего (позже now с учётом MaxClockSkew) отклоняется.
func NormalizeIntake(in model.NewIntake, now time.Time) (model.NewIntake, error) {
	in.Mood = strings.ToLower(strings.TrimSpace(in.Mood))
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Method == "" {
		in.Method = model.MethodManual
	}

	if !IsValidAmount(in.AmountMl) {
		return in, fmt.Errorf("%w: amount %d out of range", model.ErrInvalidInput, in.AmountMl)
	}
	if !in.Method.Valid() {
		return in, fmt.Errorf("%w: unknown method %q", model.ErrInvalidInput, in.Method)
	}
	if !IsValidMood(in.Mood) {
		return in, fmt.Errorf("%w: malformed mood", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.Notes) > MaxNotesLen {
		return in, fmt.Errorf("%w: notes too long", model.ErrInvalidInput)
	}
	if !in.LoggedAt.IsZero() && in.LoggedAt.After(now.Add(MaxClockSkew)) {
		return in, fmt.Errorf("%w: logged_at is in the future", model.ErrInvalidInput)
	}

	return in, nil
}
