package stepdag

import (
	"context"
	"testing"

	"poultryqa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePerfStore struct {
	rows []domain.PerfRow
	err  error
}

func (f fakePerfStore) Query(ctx context.Context, q domain.PerfQuery) (domain.PerfResult, error) {
	if f.err != nil {
		return domain.PerfResult{}, f.err
	}
	return domain.PerfResult{Rows: f.rows, Confidence: 1}, nil
}

func TestDecompose_MortalityKeywordSelectsMortalityTemplate(t *testing.T) {
	steps := Decompose("10000 Ross 308 with 5% mortality at 42 days", domain.ExtractedEntities{Breed: "Ross 308"})
	require.Len(t, steps, 2)
	assert.Equal(t, domain.StepBasePerformance, steps[0].StepType)
	assert.Equal(t, domain.StepFlockCalculationMortality, steps[1].StepType)
	assert.Equal(t, []int{1}, steps[1].Dependencies)
	assert.Equal(t, 10000, steps[1].Parameters.FlockCalculationMortality.FlockSize)
	assert.Equal(t, 5.0, steps[1].Parameters.FlockCalculationMortality.MortalityPercent)
}

func TestDecompose_ScenarioKeywordSelectsScenarioTemplate(t *testing.T) {
	steps := Decompose("if i change to female at 35 days, what happens", domain.ExtractedEntities{Breed: "Cobb 500"})
	require.Len(t, steps, 3)
	assert.Equal(t, domain.StepBaseScenario, steps[0].StepType)
	assert.Equal(t, domain.StepModifiedScenario, steps[1].StepType)
	assert.Equal(t, domain.StepScenarioComparison, steps[2].StepType)
	assert.Equal(t, []int{1, 2}, steps[2].Dependencies)
	assert.Equal(t, domain.SexFemale, steps[1].Parameters.ModifiedScenario.Sex)
	assert.Equal(t, 35, steps[1].Parameters.ModifiedScenario.AgeDays)
}

func TestDecompose_AggregationKeywordOneStepPerMetric(t *testing.T) {
	steps := Decompose("total weight and feed for the flock", domain.ExtractedEntities{})
	require.Len(t, steps, 3) // weight, feed, then aggregate
	assert.Equal(t, domain.StepMetricCalculation, steps[0].StepType)
	assert.Equal(t, domain.StepMetricCalculation, steps[1].StepType)
	assert.Equal(t, domain.StepAggregateResults, steps[2].StepType)
	assert.Equal(t, []int{1, 2}, steps[2].Dependencies)
}

func TestDecompose_NoPatternMatchFallsBackToDefault(t *testing.T) {
	steps := Decompose("what is the weight at 35 days", domain.ExtractedEntities{})
	require.Len(t, steps, 1)
	assert.Equal(t, domain.StepBasePerformance, steps[0].StepType)
}

func TestRun_MortalityZeroPercentTotalsEqualPerBirdTimesFlockSize(t *testing.T) {
	perf := fakePerfStore{rows: []domain.PerfRow{
		{Line: "Ross 308", Sex: domain.SexAsHatched, AgeDays: 42, Metric: "weight", Value: 2.5},
	}}
	o := New(perf)
	result := o.Run(context.Background(), "10000 Ross 308 with 0% mortality at 42 days", domain.ExtractedEntities{Breed: "Ross 308"})

	require.True(t, result.Success)
	require.Equal(t, 2, result.StepsExecuted)
	totalWeight, ok := result.FinalResult["total_live_weight_kg"].(float64)
	require.True(t, ok)
	assert.InDelta(t, 2.5*10000/1000, totalWeight, 1e-9)
}

func TestRun_MortalityAdjustsSurvivingBirds(t *testing.T) {
	perf := fakePerfStore{rows: []domain.PerfRow{
		{Line: "Ross 308", Sex: domain.SexAsHatched, AgeDays: 42, Metric: "weight", Value: 2.5},
	}}
	o := New(perf)
	result := o.Run(context.Background(), "10000 Ross 308 with 10% mortality at 42 days", domain.ExtractedEntities{Breed: "Ross 308"})

	require.True(t, result.Success)
	surviving, ok := result.FinalResult["surviving_birds"].(int)
	require.True(t, ok)
	assert.Equal(t, 9000, surviving)
}

func TestRun_AggregationCombinesAllMetricSteps(t *testing.T) {
	perf := fakePerfStore{rows: []domain.PerfRow{
		{Line: "Cobb 500", Sex: domain.SexAsHatched, AgeDays: 42, Metric: "weight", Value: 2.4},
	}}
	o := New(perf)
	result := o.Run(context.Background(), "total weight and feed for the flock", domain.ExtractedEntities{Breed: "Cobb 500"})

	require.True(t, result.Success)
	assert.Equal(t, 3, result.StepsExecuted)
	totalMetrics, ok := result.FinalResult["total_metrics"].(int)
	require.True(t, ok)
	assert.Equal(t, 2, totalMetrics)
}

func TestRun_FailedDependencySkipsDownstreamStep(t *testing.T) {
	perf := fakePerfStore{err: assertErr{"perf store unavailable"}}
	o := New(perf)
	result := o.Run(context.Background(), "10000 Ross 308 with 5% mortality at 42 days", domain.ExtractedEntities{Breed: "Ross 308"})

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.StepsExecuted)
	assert.Len(t, result.Results, 1) // only step 1 attempted and failed; step 2's dependency never met, so it's skipped entirely
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }
