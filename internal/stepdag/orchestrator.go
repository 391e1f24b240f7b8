package stepdag

import (
	"context"
	"fmt"
	"time"

	"poultryqa/internal/domain"

	"github.com/rs/zerolog/log"
)

// Orchestrator decomposes a complex query into a step DAG and executes it
// strictly in step-number order — never in parallel, since later steps
// depend on the merged results of earlier ones and determinism outranks
// latency here.
type Orchestrator struct {
	perf PerfStore
}

// New builds an Orchestrator over the performance store.
func New(perf PerfStore) *Orchestrator {
	return &Orchestrator{perf: perf}
}

// Run decomposes query and executes the resulting steps, returning the
// aggregated OrchestrationResult. It never returns a non-nil error itself —
// per-step failures are recorded in the result instead, so a caller always
// gets back whatever partial progress was made.
func (o *Orchestrator) Run(ctx context.Context, query string, entities domain.ExtractedEntities) domain.OrchestrationResult {
	start := time.Now()
	steps := Decompose(query, entities)

	results := map[int]map[string]any{}
	var stepResults []domain.StepResult
	success := true
	var firstErr error
	maxStep := 0

	for _, step := range steps {
		depsMet := true
		for _, dep := range step.Dependencies {
			if _, ok := results[dep]; !ok {
				depsMet = false
				break
			}
		}
		if !depsMet {
			log.Error().Int("step", step.StepNumber).Msg("dependencies not satisfied, skipping step")
			continue
		}

		data, err := o.executeStep(ctx, step, results)
		stepResults = append(stepResults, domain.StepResult{StepNumber: step.StepNumber, Data: data, Err: err})
		if err != nil {
			success = false
			if firstErr == nil {
				firstErr = err
			}
			log.Error().Int("step", step.StepNumber).Err(err).Msg("step execution failed")
			continue
		}

		results[step.StepNumber] = data
		if step.StepNumber > maxStep {
			maxStep = step.StepNumber
		}
	}

	finalResult := map[string]any{}
	if r, ok := results[maxStep]; ok {
		finalResult = r
	}
	if !success && firstErr != nil {
		finalResult = map[string]any{"error": firstErr.Error()}
	}

	return domain.OrchestrationResult{
		Success:       success,
		StepsExecuted: len(results),
		Results:       stepResults,
		FinalResult:   finalResult,
		ExecutionTime: time.Since(start),
		Err:           firstErr,
	}
}

// executeStep dispatches by step type. A step that depends on earlier steps
// reads their results from results by step number; nothing is merged into
// Parameters, since StepParameters is typed.
func (o *Orchestrator) executeStep(ctx context.Context, step domain.QueryStep, results map[int]map[string]any) (map[string]any, error) {
	p := step.Parameters

	switch step.StepType {
	case domain.StepBasePerformance:
		return o.basePerformance(ctx, p.BasePerformance)

	case domain.StepFlockCalculationMortality:
		base, ok := results[firstDep(step.Dependencies)]
		if !ok {
			return nil, fmt.Errorf("missing base-performance dependency result")
		}
		return flockCalculationWithMortality(base, p.FlockCalculationMortality), nil

	case domain.StepBaseScenario:
		return o.calculateScenario(ctx, p.BaseScenario.Line, p.BaseScenario.Sex, p.BaseScenario.AgeDays)

	case domain.StepModifiedScenario:
		return o.calculateScenario(ctx, p.ModifiedScenario.Line, p.ModifiedScenario.Sex, p.ModifiedScenario.AgeDays)

	case domain.StepScenarioComparison:
		s1, ok1 := results[p.ScenarioComparison.BaseStep]
		s2, ok2 := results[p.ScenarioComparison.ModifiedStep]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("missing scenario dependency results")
		}
		return compareScenarios(s1, s2), nil

	case domain.StepMetricCalculation:
		return o.calculateMetric(ctx, p.MetricCalculation)

	case domain.StepAggregateResults:
		sources := make([]map[string]any, 0, len(p.AggregateResults.SourceSteps))
		for _, n := range p.AggregateResults.SourceSteps {
			r, ok := results[n]
			if !ok {
				return nil, fmt.Errorf("missing aggregation source step %d", n)
			}
			sources = append(sources, r)
		}
		return aggregateResults(sources), nil

	case domain.StepSingleOptimization:
		return o.runOptimization(ctx, p.SingleOptimization)

	case domain.StepMultiObjectiveCompromise:
		sources := make([]map[string]any, 0, len(p.MultiObjectiveCompromise.SourceSteps))
		for _, n := range p.MultiObjectiveCompromise.SourceSteps {
			r, ok := results[n]
			if !ok {
				return nil, fmt.Errorf("missing optimization source step %d", n)
			}
			sources = append(sources, r)
		}
		return findCompromise(sources), nil

	default:
		return nil, fmt.Errorf("unknown step type: %s", step.StepType)
	}
}

func firstDep(deps []int) int {
	if len(deps) == 0 {
		return 0
	}
	return deps[0]
}
