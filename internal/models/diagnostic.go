package models

import "fmt"

// DiagnosticKind категория диагностического события
type DiagnosticKind string

const (
	DiagnosticMADOutlier        DiagnosticKind = "mad_outlier"
	DiagnosticAccelViolation    DiagnosticKind = "acceleration_violation"
	DiagnosticInsufficientData  DiagnosticKind = "insufficient_data"
	DiagnosticInsufficientPoint DiagnosticKind = "insufficient_points"
	DiagnosticDroppedPoint      DiagnosticKind = "dropped_point"
	DiagnosticNonFinite         DiagnosticKind = "non_finite"
)

// Diagnostic предупреждение, зафиксированное в ходе анализа. Никогда не прерывает конвейер.
type Diagnostic struct {
	Stage    string         `json:"stage"`
	Kind     DiagnosticKind `json:"kind"`
	Index    int            `json:"index"`
	Value    float64        `json:"value"`
	Replaced float64        `json:"replaced"`
	Message  string         `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s/%s[%d]: %s", d.Stage, d.Kind, d.Index, d.Message)
}
