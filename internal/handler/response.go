package handler

import (
	"time"

	"github.com/mmeshcher/hydration-system/internal/analytics"
	"github.com/mmeshcher/hydration-system/internal/model"
)

type profileResponse struct {
	UserID      string `json:"user_id"`
	FullName    string `json:"full_name"`
	DailyGoal   int64  `json:"daily_goal"`
	Timezone    string `json:"timezone"`
	StreakDays  int64  `json:"streak_days"`
	TotalPoints int64  `json:"total_points"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

func newProfileResponse(p model.Profile) profileResponse {
	return profileResponse{
		UserID:      p.UserID.String(),
		FullName:    p.FullName,
		DailyGoal:   p.DailyGoalMl,
		Timezone:    p.Timezone,
		StreakDays:  p.StreakDays,
		TotalPoints: p.TotalPoints,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

type intakeResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	LoggedAt string `json:"logged_at"`
	Method   string `json:"method"`
	Mood     string `json:"mood,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

func newIntakeResponse(e model.IntakeEvent) intakeResponse {
	return intakeResponse{
		ID:       e.ID.String(),
		Amount:   e.AmountMl,
		LoggedAt: formatTime(e.LoggedAt),
		Method:   string(e.Method),
		Mood:     e.Mood,
		Notes:    e.Notes,
	}
}

type achievementResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Points      int64  `json:"points"`
	Category    string `json:"category"`
	EarnedAt    string `json:"earned_at"`
}

func newAchievementResponses(achievements []model.Achievement) []achievementResponse {
	resp := make([]achievementResponse, 0, len(achievements))
	for _, a := range achievements {
		resp = append(resp, achievementResponse{
			ID:          a.ID.String(),
			Title:       a.Title,
			Description: a.Description,
			Icon:        a.Icon,
			Points:      a.Points,
			Category:    a.Category,
			EarnedAt:    formatTime(a.EarnedAt),
		})
	}
	return resp
}

type intakeResultResponse struct {
	Intake       intakeResponse        `json:"intake"`
	Profile      profileResponse       `json:"profile"`
	DailyTotal   int64                 `json:"daily_total"`
	Achievements []achievementResponse `json:"achievements"`
	GoalReached  bool                  `json:"goal_reached"`
	CoachMessage string                `json:"coach_message,omitempty"`
}

func newIntakeResultResponse(res model.IntakeResult) intakeResultResponse {
	return intakeResultResponse{
		Intake:       newIntakeResponse(res.Intake),
		Profile:      newProfileResponse(res.Profile),
		DailyTotal:   res.DailyTotal,
		Achievements: newAchievementResponses(res.Achievements),
		GoalReached:  res.GoalReached,
		CoachMessage: res.CoachMessage,
	}
}

type todayResponse struct {
	Total     int64            `json:"total"`
	Goal      int64            `json:"goal"`
	Progress  int64            `json:"progress"`
	Remaining int64            `json:"remaining"`
	Logs      []intakeResponse `json:"logs"`
}

type amountResponse struct {
	Amount int64 `json:"amount"`
}

type reportResponse struct {
	*analytics.Report
	Achievements []achievementResponse `json:"achievements"`
}

type weeklyResponse struct {
	analytics.WeeklySummary
	Achievements []achievementResponse `json:"achievements"`
}

type coachResponse struct {
	Context string `json:"context"`
	Message string `json:"message"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
