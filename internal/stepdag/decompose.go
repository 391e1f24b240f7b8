// Package stepdag implements the multi-step query orchestrator: it
// decomposes a complex query into a dependency-ordered DAG of typed steps,
// then executes them strictly in step-number order, handing each
// dependency's result to the steps that depend on it.
package stepdag

import (
	"regexp"
	"strconv"
	"strings"

	"poultryqa/internal/domain"
)

var (
	flockSizeRe  = regexp.MustCompile(`\b(\d{1,3}(?:[,\s]\d{3})*|\d+)\b`)
	mortalityRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%`)
	scenarioAgeRe = regexp.MustCompile(`\b(\d+)\s*(day|days|jour|jours|week|weeks|semaine)\b`)
)

// IsMultiStep reports whether query matches one of the four non-default
// decomposition templates. The facade calls this to decide whether a query
// belongs on the orchestrator instead of the single-shot answer path —
// a query matching none of these patterns would only ever get the
// single-step default template, which the simple path already covers.
func IsMultiStep(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(q, "mortality") || strings.Contains(q, "mortalite") || strings.Contains(q, "mortalité") ||
		strings.Contains(q, "if i change") || strings.Contains(q, "si je change") || strings.Contains(q, "what if") ||
		(strings.Contains(q, "total") && (strings.Contains(query, "+") || strings.Contains(q, "and") || strings.Contains(q, "et"))) ||
		(strings.Contains(q, "optimiz") && (strings.Contains(q, "multi") || strings.Contains(q, "several") || strings.Contains(q, "plusieurs")))
}

// Decompose picks one of five templates based on keyword patterns in the
// query and builds the corresponding step DAG. A query matching none of the
// patterns gets the single-step default template.
func Decompose(query string, entities domain.ExtractedEntities) []domain.QueryStep {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "mortality") || strings.Contains(q, "mortalite") || strings.Contains(q, "mortalité"):
		return decomposeMortality(query, entities)
	case strings.Contains(q, "if i change") || strings.Contains(q, "si je change") || strings.Contains(q, "what if"):
		return decomposeScenario(query, entities)
	case strings.Contains(q, "total") && (strings.Contains(query, "+") || strings.Contains(q, "and") || strings.Contains(q, "et")):
		return decomposeAggregation(query, entities)
	case strings.Contains(q, "optimiz") && (strings.Contains(q, "multi") || strings.Contains(q, "several") || strings.Contains(q, "plusieurs")):
		return decomposeOptimization(query, entities)
	default:
		return decomposeDefault(entities)
	}
}

func decomposeMortality(query string, entities domain.ExtractedEntities) []domain.QueryStep {
	age := 42
	if entities.AgeDays != nil {
		age = *entities.AgeDays
	}
	return []domain.QueryStep{
		{
			StepNumber:  1,
			Description: "fetch per-bird base performance",
			StepType:    domain.StepBasePerformance,
			Parameters: domain.StepParameters{BasePerformance: &domain.BasePerformanceParams{
				Line: entities.Breed, Sex: sexOrDefault(entities.Sex), AgeDays: age,
			}},
		},
		{
			StepNumber:  2,
			Description: "apply flock-level mortality adjustment",
			StepType:    domain.StepFlockCalculationMortality,
			Parameters: domain.StepParameters{FlockCalculationMortality: &domain.FlockCalculationMortalityParams{
				FlockSize:        extractFlockSize(query, entities),
				MortalityPercent: extractMortalityPct(query, entities),
			}},
			Dependencies: []int{1},
		},
	}
}

func decomposeScenario(query string, entities domain.ExtractedEntities) []domain.QueryStep {
	age := 42
	if entities.AgeDays != nil {
		age = *entities.AgeDays
	}
	base := domain.BaseScenarioParams{Line: entities.Breed, Sex: sexOrDefault(entities.Sex), AgeDays: age}
	modified := extractScenarioModifications(query, base)

	return []domain.QueryStep{
		{StepNumber: 1, Description: "calculate base scenario", StepType: domain.StepBaseScenario,
			Parameters: domain.StepParameters{BaseScenario: &base}},
		{StepNumber: 2, Description: "calculate modified scenario", StepType: domain.StepModifiedScenario,
			Parameters: domain.StepParameters{ModifiedScenario: &modified}},
		{StepNumber: 3, Description: "compare the two scenarios", StepType: domain.StepScenarioComparison,
			Parameters: domain.StepParameters{ScenarioComparison: &domain.ScenarioComparisonParams{BaseStep: 1, ModifiedStep: 2}},
			Dependencies: []int{1, 2}},
	}
}

func decomposeAggregation(query string, entities domain.ExtractedEntities) []domain.QueryStep {
	metrics := extractMultipleMetrics(query)
	age := 42
	if entities.AgeDays != nil {
		age = *entities.AgeDays
	}

	steps := make([]domain.QueryStep, 0, len(metrics)+1)
	deps := make([]int, 0, len(metrics))
	for i, metric := range metrics {
		n := i + 1
		steps = append(steps, domain.QueryStep{
			StepNumber:  n,
			Description: "calculate " + metric,
			StepType:    domain.StepMetricCalculation,
			Parameters: domain.StepParameters{MetricCalculation: &domain.MetricCalculationParams{
				Metric: metric, Line: entities.Breed, Sex: sexOrDefault(entities.Sex), AgeDays: age,
			}},
		})
		deps = append(deps, n)
	}
	steps = append(steps, domain.QueryStep{
		StepNumber:   len(metrics) + 1,
		Description:  "aggregate all results",
		StepType:     domain.StepAggregateResults,
		Parameters:   domain.StepParameters{AggregateResults: &domain.AggregateResultsParams{SourceSteps: deps}},
		Dependencies: deps,
	})
	return steps
}

func decomposeOptimization(query string, entities domain.ExtractedEntities) []domain.QueryStep {
	objectives := extractObjectives(query)

	steps := make([]domain.QueryStep, 0, len(objectives)+1)
	deps := make([]int, 0, len(objectives))
	for i, obj := range objectives {
		n := i + 1
		steps = append(steps, domain.QueryStep{
			StepNumber:  n,
			Description: "optimize for " + obj,
			StepType:    domain.StepSingleOptimization,
			Parameters: domain.StepParameters{SingleOptimization: &domain.SingleOptimizationParams{
				Objective: obj, Line: entities.Breed, Sex: sexOrDefault(entities.Sex),
			}},
		})
		deps = append(deps, n)
	}
	steps = append(steps, domain.QueryStep{
		StepNumber:   len(objectives) + 1,
		Description:  "find multi-objective compromise",
		StepType:     domain.StepMultiObjectiveCompromise,
		Parameters:   domain.StepParameters{MultiObjectiveCompromise: &domain.MultiObjectiveCompromiseParams{SourceSteps: deps}},
		Dependencies: deps,
	})
	return steps
}

func decomposeDefault(entities domain.ExtractedEntities) []domain.QueryStep {
	age := 42
	if entities.AgeDays != nil {
		age = *entities.AgeDays
	}
	return []domain.QueryStep{
		{
			StepNumber:  1,
			Description: "single-step equivalent of the simple path",
			StepType:    domain.StepBasePerformance,
			Parameters: domain.StepParameters{BasePerformance: &domain.BasePerformanceParams{
				Line: entities.Breed, Sex: sexOrDefault(entities.Sex), AgeDays: age,
			}},
		},
	}
}

func sexOrDefault(s domain.Sex) domain.Sex {
	if s == "" {
		return domain.SexAsHatched
	}
	return s
}

func extractFlockSize(query string, entities domain.ExtractedEntities) int {
	if entities.FlockSize != nil {
		return *entities.FlockSize
	}
	for _, m := range flockSizeRe.FindAllString(query, -1) {
		n := atoi(strings.NewReplacer(",", "", " ", "").Replace(m))
		if n > 100 {
			return n
		}
	}
	return 1000
}

func extractMortalityPct(query string, entities domain.ExtractedEntities) float64 {
	if entities.MortalityPercent != nil {
		return *entities.MortalityPercent
	}
	if m := mortalityRe.FindStringSubmatch(query); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		return v
	}
	return 0
}

// extractScenarioModifications copies the base scenario and overlays any
// breed/sex/age change the query names, so the modified scenario reflects
// only what was actually asked to change.
func extractScenarioModifications(query string, base domain.BaseScenarioParams) domain.ModifiedScenarioParams {
	q := strings.ToLower(query)
	modified := domain.ModifiedScenarioParams{Line: base.Line, Sex: base.Sex, AgeDays: base.AgeDays, Modifications: map[string]float64{}}

	switch {
	case containsWord(q, "female", "femelle", "hen", "poule"):
		modified.Sex = domain.SexFemale
	case containsWord(q, "mixed", "mixte"):
		modified.Sex = domain.SexMixed
	case containsWord(q, "male", "males", "rooster", "coq"):
		modified.Sex = domain.SexMale
	}

	if m := scenarioAgeRe.FindStringSubmatch(q); m != nil {
		age := atoi(m[1])
		if strings.HasPrefix(m[2], "week") || strings.HasPrefix(m[2], "semaine") {
			age *= 7
		}
		modified.AgeDays = age
		modified.Modifications["age_days"] = float64(age)
	}

	return modified
}

func extractMultipleMetrics(query string) []string {
	q := strings.ToLower(query)
	var metrics []string
	if strings.Contains(q, "weight") || strings.Contains(q, "poids") {
		metrics = append(metrics, "weight")
	}
	if strings.Contains(q, "feed") || strings.Contains(q, "aliment") {
		metrics = append(metrics, "feed")
	}
	if strings.Contains(q, "fcr") || strings.Contains(q, "ic") {
		metrics = append(metrics, "fcr")
	}
	if len(metrics) == 0 {
		metrics = []string{"weight"}
	}
	return metrics
}

func extractObjectives(query string) []string {
	q := strings.ToLower(query)
	var objectives []string
	if strings.Contains(q, "fcr") || strings.Contains(q, "conversion") {
		objectives = append(objectives, "fcr")
	}
	if strings.Contains(q, "weight") || strings.Contains(q, "poids") {
		objectives = append(objectives, "weight")
	}
	if len(objectives) == 0 {
		objectives = []string{"fcr"}
	}
	return objectives
}

func containsWord(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
