package stepdag

import (
	"context"
	"fmt"

	"poultryqa/internal/domain"
)

// PerfStore is the subset of perfstore.Client the orchestrator's step
// handlers depend on.
type PerfStore interface {
	Query(ctx context.Context, q domain.PerfQuery) (domain.PerfResult, error)
}

func (o *Orchestrator) basePerformance(ctx context.Context, p *domain.BasePerformanceParams) (map[string]any, error) {
	metrics := p.Metrics
	if len(metrics) == 0 {
		metrics = []string{"weight", "fcr", "feed_intake"}
	}
	result, err := o.perf.Query(ctx, domain.PerfQuery{Line: p.Line, Sex: p.Sex, AgeDays: &p.AgeDays, Metrics: metrics})
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	for _, r := range result.Rows {
		switch r.Metric {
		case "weight", "body_weight":
			out["weight_g"] = r.Value
		case "fcr", "feed_conversion_ratio":
			out["fcr"] = r.Value
		case "feed_intake":
			out["intake_g"] = r.Value
		}
	}
	return out, nil
}

func flockCalculationWithMortality(base map[string]any, p *domain.FlockCalculationMortalityParams) map[string]any {
	surviving := int(float64(p.FlockSize) * (1 - p.MortalityPercent/100))
	dead := p.FlockSize - surviving

	weightPerBird, _ := base["weight_g"].(float64)
	intakePerBird, _ := base["intake_g"].(float64)
	fcr, _ := base["fcr"].(float64)

	return map[string]any{
		"flock_size_initial":    p.FlockSize,
		"surviving_birds":       surviving,
		"dead_birds":            dead,
		"mortality_pct":         p.MortalityPercent,
		"total_live_weight_kg":  (weightPerBird * float64(surviving)) / 1000,
		"total_feed_consumed_kg": (intakePerBird * float64(p.FlockSize)) / 1000,
		"avg_fcr":               fcr,
	}
}

const defaultScenarioFlockSize = 1000

func (o *Orchestrator) calculateScenario(ctx context.Context, line string, sex domain.Sex, ageDays int) (map[string]any, error) {
	base, err := o.basePerformance(ctx, &domain.BasePerformanceParams{Line: line, Sex: sex, AgeDays: ageDays})
	if err != nil {
		return nil, err
	}
	return flockCalculationWithMortality(base, &domain.FlockCalculationMortalityParams{
		FlockSize: defaultScenarioFlockSize, MortalityPercent: 0,
	}), nil
}

func compareScenarios(scenario1, scenario2 map[string]any) map[string]any {
	w1, _ := scenario1["total_live_weight_kg"].(float64)
	w2, _ := scenario2["total_live_weight_kg"].(float64)
	f1, _ := scenario1["total_feed_consumed_kg"].(float64)
	f2, _ := scenario2["total_feed_consumed_kg"].(float64)

	return map[string]any{
		"scenario_1": scenario1,
		"scenario_2": scenario2,
		"differences": map[string]any{
			"weight_diff_kg": w2 - w1,
			"feed_diff_kg":   f2 - f1,
		},
	}
}

func (o *Orchestrator) calculateMetric(ctx context.Context, p *domain.MetricCalculationParams) (map[string]any, error) {
	scenario, err := o.calculateScenario(ctx, p.Line, sexOrDefault(p.Sex), p.AgeDays)
	if err != nil {
		return nil, err
	}
	value := 0.0
	switch p.Metric {
	case "weight":
		value, _ = scenario["total_live_weight_kg"].(float64)
	case "feed":
		value, _ = scenario["total_feed_consumed_kg"].(float64)
	case "fcr":
		value, _ = scenario["avg_fcr"].(float64)
	}
	return map[string]any{"metric": p.Metric, "value": value}, nil
}

func aggregateResults(sources []map[string]any) map[string]any {
	metrics := make([]any, len(sources))
	for i, s := range sources {
		metrics[i] = s
	}
	return map[string]any{"total_metrics": len(sources), "metrics": metrics}
}

const optimizationAgeMin, optimizationAgeMax = 1, 70

// runOptimization scans the performance table across the full age range for
// the named objective metric and returns whichever age is best for it
// (minimal for fcr, maximal for weight).
func (o *Orchestrator) runOptimization(ctx context.Context, p *domain.SingleOptimizationParams) (map[string]any, error) {
	result, err := o.perf.Query(ctx, domain.PerfQuery{
		Line: p.Line, Sex: sexOrDefault(p.Sex),
		AgeRange: &domain.AgeRange{Min: optimizationAgeMin, Max: optimizationAgeMax},
		Metrics:  []string{p.Objective},
	})
	if err != nil {
		return nil, err
	}
	if len(result.Rows) == 0 {
		return map[string]any{"error": fmt.Sprintf("no data for objective %s", p.Objective)}, nil
	}

	minimize := p.Objective == "fcr"
	best := result.Rows[0]
	for _, r := range result.Rows[1:] {
		if (minimize && r.Value < best.Value) || (!minimize && r.Value > best.Value) {
			best = r
		}
	}
	return map[string]any{"objective": p.Objective, "optimal_age": best.AgeDays, "optimal_value": best.Value}, nil
}

func findCompromise(optimizationResults []map[string]any) map[string]any {
	sum, count := 0, 0
	for _, r := range optimizationResults {
		if age, ok := r["optimal_age"].(int); ok {
			sum += age
			count++
		}
	}
	if count == 0 {
		return map[string]any{"error": "no compromise could be found across optimization results"}
	}
	return map[string]any{
		"compromise_age":      sum / count,
		"individual_optimals": optimizationResults,
	}
}
