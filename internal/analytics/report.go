package analytics

import (
	"errors"
	"fmt"

	"github.com/mmeshcher/hydration-system/internal/model"
)

// PeriodComparison сравнивает окно с целью.
type PeriodComparison struct {
	VsGoal int64          `json:"vs_goal"`
	Trend  TrendDirection `json:"trend"`
}

// Overview — общие показатели за окно.
type Overview struct {
	TotalIntake         int64            `json:"total_intake"`
	DailyAverage        int64            `json:"daily_average"`
	GoalAchievementRate int              `json:"goal_achievement_rate"`
	CurrentStreak       int64            `json:"current_streak"`
	TotalPoints         int64            `json:"total_points"`
	PeriodComparison    PeriodComparison `json:"period_comparison"`
}

// Report — аналитический отчёт, пересчитываемый на каждый запрос.
type Report struct {
	Period          model.Period        `json:"period"`
	Overview        Overview            `json:"overview"`
	Timeline        [24]int64           `json:"timeline"`
	Patterns        Patterns            `json:"patterns"`
	Predictions     Projection          `json:"predictions"`
	Recommendations []Recommendation    `json:"recommendations"`
	MoodCorrelation *MoodCorrelation    `json:"mood_correlation"`
	Achievements    []model.Achievement `json:"-"`
}

// ReportInput — данные, загруженные вызывающей стороной для построения отчёта.
type ReportInput struct {
	Profile model.Profile
	Period  model.Period
	// Events упорядочены по времени и переведены в часовой пояс пользователя.
	Events       []model.IntakeEvent
	Achievements []model.Achievement
}

// BuildReport строит полный отчёт.
func BuildReport(in ReportInput) (*Report, error) {
	if in.Profile.DailyGoalMl <= 0 {
		return nil, fmt.Errorf("%w: daily goal must be positive", model.ErrInvalidInput)
	}

	days := in.Period.Days()
	goal := in.Profile.DailyGoalMl
	agg := Aggregate(in.Events)

	rate, err := GoalAchievementRate(agg.Daily, goal, days)
	if err != nil {
		return nil, err
	}

	trend, err := Trend(in.Events)
	if err != nil {
		if !errors.Is(err, ErrDivisionUndefined) {
			return nil, err
		}
		trend = TrendInsufficientData
	}

	projection, err := Project(in.Events, goal, in.Profile.StreakDays)
	if err != nil {
		return nil, err
	}

	dailyAverage := float64(agg.Total) / float64(days)
	patterns := AnalyzePatterns(agg)

	return &Report{
		Period: in.Period,
		Overview: Overview{
			TotalIntake:         agg.Total,
			DailyAverage:        round(dailyAverage),
			GoalAchievementRate: rate,
			CurrentStreak:       in.Profile.StreakDays,
			TotalPoints:         in.Profile.TotalPoints,
			PeriodComparison: PeriodComparison{
				VsGoal: round(dailyAverage / float64(goal) * 100),
				Trend:  trend,
			},
		},
		Timeline:    CumulativeTimeline(agg.Hourly),
		Patterns:    patterns,
		Predictions: projection,
		Recommendations: Recommend(RecommendationInput{
			DailyAverage: dailyAverage,
			DailyGoal:    goal,
			Gaps:         patterns.Gaps,
			Methods:      agg.Methods,
		}),
		MoodCorrelation: CorrelateMood(in.Events),
		Achievements:    in.Achievements,
	}, nil
}
