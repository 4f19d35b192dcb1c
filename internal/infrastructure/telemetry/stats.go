package telemetry

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// IntentCount is the number of turns answered by one intent.
type IntentCount struct {
	Intent string
	Turns  int64
}

// TurnStats summarizes the assistant instruments since process start.
type TurnStats struct {
	Turns       int64
	Charts      int64
	MeanLatency time.Duration
	ByIntent    []IntentCount
}

// Snapshot collects the assistant instruments from the manual reader.
// ByIntent is ordered by turns, most frequent first, then by name.
func (p *Provider) Snapshot(ctx context.Context) (TurnStats, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return TurnStats{}, fmt.Errorf("failed to collect metrics: %w", err)
	}

	var stats TurnStats
	byIntent := make(map[string]int64)
	var latencySum float64
	var latencyCount uint64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case MetricTurns:
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					continue
				}
				for _, dp := range sum.DataPoints {
					intent, _ := dp.Attributes.Value(AttrIntent)
					byIntent[intent.AsString()] += dp.Value
					stats.Turns += dp.Value
				}
			case MetricCharts:
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					continue
				}
				for _, dp := range sum.DataPoints {
					stats.Charts += dp.Value
				}
			case MetricTurnDuration:
				hist, ok := m.Data.(metricdata.Histogram[float64])
				if !ok {
					continue
				}
				for _, dp := range hist.DataPoints {
					latencySum += dp.Sum
					latencyCount += dp.Count
				}
			}
		}
	}

	if latencyCount > 0 {
		stats.MeanLatency = time.Duration(latencySum / float64(latencyCount) * float64(time.Second))
	}
	for intent, n := range byIntent {
		stats.ByIntent = append(stats.ByIntent, IntentCount{Intent: intent, Turns: n})
	}
	sort.Slice(stats.ByIntent, func(i, j int) bool {
		a, b := stats.ByIntent[i], stats.ByIntent[j]
		if a.Turns != b.Turns {
			return a.Turns > b.Turns
		}
		return a.Intent < b.Intent
	})
	return stats, nil
}
