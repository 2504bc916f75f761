// Package handler содержит HTTP-обработчики API сервиса учёта потребления воды.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/hydration-system/internal/analytics"
	"github.com/mmeshcher/hydration-system/internal/middleware"
	"github.com/mmeshcher/hydration-system/internal/model"
	"github.com/mmeshcher/hydration-system/internal/repository"
	"github.com/mmeshcher/hydration-system/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	CreateProfile(ctx context.Context, settings model.ProfileSettings) (model.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, settings model.ProfileSettings) (model.Profile, error)
	LogIntake(ctx context.Context, userID uuid.UUID, in model.NewIntake) (model.IntakeResult, error)
	ExtractAmount(transcript string) int64
	LogVoice(ctx context.Context, userID uuid.UUID, transcript, mood string) (model.IntakeResult, error)
	Today(ctx context.Context, userID uuid.UUID) (service.TodayStats, error)
	Analytics(ctx context.Context, userID uuid.UUID, period string) (*analytics.Report, error)
	WeeklySummary(ctx context.Context, userID uuid.UUID) (service.WeeklyReport, error)
	Achievements(ctx context.Context, userID uuid.UUID, period string) ([]model.Achievement, error)
	Coach(ctx context.Context, userID uuid.UUID, coachContext string) (service.CoachMessage, error)
}

// Handler реализует HTTP-обработчики API сервиса учёта потребления воды.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

type profileRequest struct {
	FullName  string `json:"full_name"`
	DailyGoal int64  `json:"daily_goal"`
	Timezone  string `json:"timezone"`
}

func (r profileRequest) settings() model.ProfileSettings {
	return model.ProfileSettings{
		FullName:    r.FullName,
		DailyGoalMl: r.DailyGoal,
		Timezone:    r.Timezone,
	}
}

// CreateProfile создаёт профиль и выдаёт cookie с идентификатором пользователя.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), req.settings())
	if err != nil {
		h.fail(w, err, "create profile error")
		return
	}

	h.authMiddleware.SetAuthCookie(w, profile.UserID)
	h.writeJSON(w, http.StatusCreated, newProfileResponse(profile))
}

// GetProfile возвращает профиль текущего пользователя.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.fail(w, err, "get profile error", zap.String("userID", userID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, newProfileResponse(profile))
}

// UpdateProfile изменяет имя, дневную цель и часовой пояс текущего пользователя.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, req.settings())
	if err != nil {
		h.fail(w, err, "update profile error", zap.String("userID", userID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, newProfileResponse(profile))
}

type intakeRequest struct {
	Amount   int64      `json:"amount"`
	Method   string     `json:"method"`
	Mood     string     `json:"mood"`
	Notes    string     `json:"notes"`
	LoggedAt *time.Time `json:"logged_at,omitempty"`
}

// LogIntake записывает порцию текущего пользователя.
func (h *Handler) LogIntake(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req intakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	in := model.NewIntake{
		AmountMl: req.Amount,
		Method:   model.Method(req.Method),
		Mood:     req.Mood,
		Notes:    req.Notes,
	}
	if req.LoggedAt != nil {
		in.LoggedAt = *req.LoggedAt
	}

	res, err := h.service.LogIntake(r.Context(), userID, in)
	if err != nil {
		h.fail(w, err, "log intake error", zap.String("userID", userID.String()))
		return
	}

	h.writeJSON(w, http.StatusCreated, newIntakeResultResponse(res))
}

// Today возвращает записи и прогресс текущего пользователя за сегодня.
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	stats, err := h.service.Today(r.Context(), userID)
	if err != nil {
		h.fail(w, err, "get today error", zap.String("userID", userID.String()))
		return
	}

	resp := todayResponse{
		Total:     stats.Total,
		Goal:      stats.Goal,
		Progress:  stats.Progress,
		Remaining: stats.Remaining,
		Logs:      make([]intakeResponse, 0, len(stats.Logs)),
	}
	for _, e := range stats.Logs {
		resp.Logs = append(resp.Logs, newIntakeResponse(e))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

type voiceRequest struct {
	Transcript string `json:"transcript"`
	Mood       string `json:"mood"`
}

// ExtractAmount возвращает объём, распознанный в расшифровке, без записи порции.
func (h *Handler) ExtractAmount(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, amountResponse{Amount: h.service.ExtractAmount(req.Transcript)})
}

// LogVoice распознаёт объём в расшифровке и записывает порцию.
func (h *Handler) LogVoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	res, err := h.service.LogVoice(r.Context(), userID, req.Transcript, req.Mood)
	if err != nil {
		h.fail(w, err, "log voice intake error", zap.String("userID", userID.String()))
		return
	}

	h.writeJSON(w, http.StatusCreated, newIntakeResultResponse(res))
}

// Analytics возвращает аналитический отчёт за окно из параметра period.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	report, err := h.service.Analytics(r.Context(), userID, r.URL.Query().Get("period"))
	if err != nil {
		h.fail(w, err, "build analytics error", zap.String("userID", userID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, reportResponse{
		Report:       report,
		Achievements: newAchievementResponses(report.Achievements),
	})
}

// WeeklySummary возвращает недельную сводку текущего пользователя.
func (h *Handler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	report, err := h.service.WeeklySummary(r.Context(), userID)
	if err != nil {
		h.fail(w, err, "weekly summary error", zap.String("userID", userID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, weeklyResponse{
		WeeklySummary: report.Summary,
		Achievements:  newAchievementResponses(report.Achievements),
	})
}

// Achievements возвращает достижения за окно из параметра period.
func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	achievements, err := h.service.Achievements(r.Context(), userID, r.URL.Query().Get("period"))
	if err != nil {
		h.fail(w, err, "get achievements error", zap.String("userID", userID.String()))
		return
	}

	if len(achievements) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.writeJSON(w, http.StatusOK, newAchievementResponses(achievements))
}

// Coach возвращает сообщение тренера для повода из параметра context.
func (h *Handler) Coach(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	msg, err := h.service.Coach(r.Context(), userID, r.URL.Query().Get("context"))
	if err != nil {
		h.fail(w, err, "coach message error", zap.String("userID", userID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, coachResponse{
		Context: string(msg.Context),
		Message: msg.Message,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrProfileExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrAmountNotRecognized):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail отвечает статусом, соответствующим ошибке; внутренние ошибки пишутся в журнал.
func (h *Handler) fail(w http.ResponseWriter, err error, msg string, fields ...zap.Field) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(msg, append(fields, zap.Error(err))...)
	}
	http.Error(w, http.StatusText(status), status)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}
