package analysis

import (
	"github.com/flybeeper/track-analyzer/internal/models"
)

// Report представление результата для JSON/protobuf ответов и CLI.
// Нечисловые значения (Inf, NaN) передаются как null.
type Report struct {
	*Result
	Summary SummaryReport `json:"summary"`
}

// SummaryReport сводка с безопасными для JSON полями и человекочитаемыми длительностями
type SummaryReport struct {
	models.TripSummary
	AverageSpeed   *float64 `json:"average_speed_kmh"`
	TotalTimeText  string   `json:"total_time_text"`
	MovingTimeText string   `json:"moving_time_text"`
	PauseTimeText  string   `json:"pause_time_text"`
}

// NewReport строит отчет по результату анализа
func NewReport(result *Result) *Report {
	s := result.Summary
	return &Report{
		Result: result,
		Summary: SummaryReport{
			TripSummary:    s,
			AverageSpeed:   finiteOrNil(s.AverageSpeed),
			TotalTimeText:  FormatDuration(s.TotalTime),
			MovingTimeText: FormatDuration(s.MovingTime),
			PauseTimeText:  FormatDuration(s.PauseTime),
		},
	}
}

func finiteOrNil(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}
