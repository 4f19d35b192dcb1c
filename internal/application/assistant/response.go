package assistant

import (
	"github.com/shopspring/decimal"

	"github.com/ministock/backend/internal/application/analytics"
)

// ChartKind identifies the visualization attached to a response.
type ChartKind string

const (
	ChartPie     ChartKind = "pie"
	ChartBar     ChartKind = "bar"
	ChartLine    ChartKind = "line"
	ChartSummary ChartKind = "summary"
)

// Point is one labelled value of a pie or bar chart.
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// SummaryValues backs a summary chart.
type SummaryValues struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// ChartDescriptor is the typed payload a renderer turns into a chart.
// Pie and bar charts use Series, line charts use Monthly and summary charts
// use Summary.
type ChartDescriptor struct {
	Kind    ChartKind              `json:"kind"`
	Title   string                 `json:"title"`
	Series  []Point                `json:"series,omitempty"`
	Monthly []analytics.MonthPoint `json:"monthly,omitempty"`
	Summary *SummaryValues         `json:"summary,omitempty"`
}

// Response is what the assistant shows for one utterance.
type Response struct {
	Text  string           `json:"text"`
	Chart *ChartDescriptor `json:"chart,omitempty"`
}

// HasChart reports whether a chart is attached.
func (r Response) HasChart() bool {
	return r.Chart != nil
}
