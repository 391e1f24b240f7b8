// Package router implements ConceptRouter (C4): a keyword-scoring model
// that picks a QueryRoute and derives a structured filter set from the
// query and its extracted entities.
package router

import (
	"regexp"
	"strings"

	"poultryqa/internal/domain"
)

// Scores holds the per-category fraction-matched scores, keyed by category
// name, plus the two derived quantitative/comparison signals.
type Scores struct {
	Performance     float64
	Nutrition       float64
	Health          float64
	Management      float64
	SpeciesSpecific float64
	LineSpecific    float64
	Quantitative    float64
	Comparison      float64
}

func (s Scores) max() float64 {
	m := s.Performance
	for _, v := range []float64{s.Nutrition, s.Health, s.Management, s.SpeciesSpecific, s.LineSpecific, s.Quantitative, s.Comparison} {
		if v > m {
			m = v
		}
	}
	return m
}

// Decision is the router's verdict.
type Decision struct {
	Route      domain.QueryRoute
	Confidence float64
	Reasoning  string
	Scores     Scores
	Filters    domain.RouteFilters
}

var quantitativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*(g|kg|lb|gram|kilo)`),
	regexp.MustCompile(`\d+\s*(day|days|week|weeks|jour|jours|semaine)`),
	regexp.MustCompile(`\d+\s*%`),
	regexp.MustCompile(`combien|how much|how many|quel.*poids|what.*weight`),
	regexp.MustCompile(`target|objectif|standard|norme|specification`),
	regexp.MustCompile(`compare|comparer|versus|vs|difference|ecart`),
}

var comparisonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`compare|comparer|comparison|comparaison`),
	regexp.MustCompile(`versus|vs|contre|against`),
	regexp.MustCompile(`difference|ecart|gap`),
	regexp.MustCompile(`meilleur|better|best|optimal`),
	regexp.MustCompile(`which|quel|lequel|quelle`),
}

var ageRe = regexp.MustCompile(`(\d+)\s*(day|days|jour|jours|week|weeks|semaine)`)

// Router implements ConceptRouter.
type Router struct{}

// New constructs a Router. Stateless: concept tables are package-level.
func New() *Router { return &Router{} }

func scoreCategory(q string, concepts map[string][]string) float64 {
	if len(concepts) == 0 {
		return 0
	}
	matched := 0
	for _, keywords := range concepts {
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(concepts))
}

func scorePatterns(q string, patterns []*regexp.Regexp, normalizeBy float64) float64 {
	matches := 0
	for _, p := range patterns {
		if p.MatchString(q) {
			matches++
		}
	}
	v := float64(matches) / normalizeBy
	if v > 1.0 {
		v = 1.0
	}
	return v
}

func (r *Router) detectConcepts(query string) Scores {
	q := strings.ToLower(query)
	return Scores{
		Performance:     scoreCategory(q, performanceConcepts),
		Nutrition:       scoreCategory(q, nutritionConcepts),
		Health:          scoreCategory(q, healthConcepts),
		Management:      scoreCategory(q, managementConcepts),
		SpeciesSpecific: scoreCategory(q, speciesIndicators),
		LineSpecific:    scoreCategory(q, lineIndicators),
		Quantitative:    scorePatterns(q, quantitativePatterns, 3),
		Comparison:      scorePatterns(q, comparisonPatterns, 2),
	}
}

// Route analyzes the query and derives the route decision plus filters
// using the scoring model and decision cascade below.
func (r *Router) Route(query string, entities domain.ExtractedEntities) Decision {
	scores := r.detectConcepts(query)
	filters := r.extractFilters(query, entities)

	switch {
	case scores.Quantitative > 0.6 && scores.Performance > 0.4:
		return Decision{Route: domain.RoutePerfStore, Confidence: 0.8, Reasoning: "quantitative performance question", Scores: scores, Filters: filters}
	case scores.SpeciesSpecific > 0.5 && scores.LineSpecific > 0.3 && scores.Performance > 0.3:
		return Decision{Route: domain.RoutePerfStore, Confidence: 0.75, Reasoning: "species+line+performance specific question", Scores: scores, Filters: filters}
	case scores.Comparison > 0.5 && scores.Quantitative > 0.4:
		return Decision{Route: domain.RouteHybrid, Confidence: 0.7, Reasoning: "comparison with quantitative data", Scores: scores, Filters: filters}
	case scores.Performance > 0.3 || scores.Nutrition > 0.3 || scores.Health > 0.3:
		return Decision{Route: domain.RouteVector, Confidence: 0.6, Reasoning: "contextual question", Scores: scores, Filters: filters}
	case scores.max() < 0.3:
		return Decision{Route: domain.RouteClarify, Confidence: 0.8, Reasoning: "ambiguous question", Scores: scores, Filters: filters}
	default:
		return Decision{Route: domain.RouteVector, Confidence: 0.4, Reasoning: "default route", Scores: scores, Filters: filters}
	}
}

// extractFilters converts the query and any already-extracted entities into
// a structured RouteFilters. Entities (when present) take precedence over
// raw keyword matches since they've already been validated by C1.
func (r *Router) extractFilters(query string, entities domain.ExtractedEntities) domain.RouteFilters {
	q := strings.ToLower(query)
	var f domain.RouteFilters

	if entities.Breed != "" {
		f.Line = entities.Breed
	} else {
		for line, keywords := range lineIndicators {
			if containsAny(q, keywords) {
				f.Line = line
				break
			}
		}
	}

	for species, keywords := range speciesIndicators {
		if containsAny(q, keywords) {
			f.Species = species
			break
		}
	}

	switch {
	case entities.Sex != "":
		f.Sex = entities.Sex
	case containsAny(q, sexMaleTerms):
		f.Sex = domain.SexMale
	case containsAny(q, sexFemaleTerms):
		f.Sex = domain.SexFemale
	}

	if entities.AgeDays != nil {
		f.AgeDays = entities.AgeDays
	} else if m := ageRe.FindStringSubmatch(q); m != nil {
		age := atoiSafe(m[1])
		if strings.HasPrefix(m[2], "week") || strings.HasPrefix(m[2], "semaine") {
			age *= 7
		}
		f.AgeDays = &age
	}

	var metrics []string
	for metric, keywords := range performanceConcepts {
		if containsAny(q, keywords) {
			metrics = append(metrics, metric)
		}
	}
	f.Metrics = metrics

	return f
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
