package entities

import (
	"strconv"
	"strings"

	"poultryqa/internal/domain"
)

// tier1 confidence: deterministic matches are trusted fully for the fields
// they populate. LLM fallback (tier 2) only fires when the *field-level*
// confidence is below the 0.6 threshold — which for a
// deterministic hit is never the case; tier 2 only ever fires for fields
// tier 1 left entirely unset.
const tier1Confidence = domain.Confidence(1.0)

// tier1Extract runs deterministic pattern matching over a single block of
// text (one turn's worth) and returns whatever critical fields it could
// find, with a full per-field confidence map.
func tier1Extract(text, language string) domain.ExtractedEntities {
	lower := strings.ToLower(text)
	e := domain.ExtractedEntities{Confidences: map[string]domain.Confidence{}}

	extractBreed(lower, language, &e)
	extractSex(lower, language, &e)
	extractFeedBase(lower, language, &e)
	extractHousingType(lower, language, &e)
	extractAntibioticRegime(lower, language, &e)
	extractSymptoms(lower, language, &e)

	if age, ok := ParseAgeDays(lower); ok {
		e.AgeDays = &age
		e.Confidences["age_days"] = tier1Confidence
	}
	if m := weightRe.FindStringSubmatch(lower); m != nil {
		w := parseFloat(m[1])
		if strings.EqualFold(m[2], "kg") {
			w *= 1000
		}
		e.TargetWeightG = &w
		e.Confidences["target_weight_g"] = tier1Confidence
	}
	if m := mortalityRe.FindStringSubmatch(lower); m != nil {
		v := parseFloat(m[1])
		e.MortalityPercent = &v
		e.Confidences["mortality_percent"] = tier1Confidence
	}
	if m := temperatureRe.FindStringSubmatch(lower); m != nil {
		v := parseFloat(m[1])
		e.TemperatureC = &v
		e.Confidences["temperature_c"] = tier1Confidence
	}
	if m := flockSizeRe.FindStringSubmatch(lower); m != nil {
		n := parseInt(strings.NewReplacer(",", "", " ", "").Replace(m[1]))
		e.FlockSize = &n
		e.Confidences["flock_size"] = tier1Confidence
	}
	if m := densityRe.FindStringSubmatch(lower); m != nil {
		v := parseFloat(m[1])
		e.DensityPerM2 = &v
		e.Confidences["density_per_m2"] = tier1Confidence
	}
	if m := fcrRe.FindStringSubmatch(lower); m != nil {
		v := parseFloat(m[1])
		e.FCR = &v
		e.Confidences["fcr"] = tier1Confidence
	}

	return e
}

func extractBreed(lower, language string, e *domain.ExtractedEntities) {
	for alias, canonical := range breedAliases {
		if strings.Contains(lower, alias) {
			e.Breed = canonical
			e.BreedType = domain.BreedSpecific
			e.Confidences["breed"] = tier1Confidence
			return
		}
	}
	for _, term := range genericTermsFor(language) {
		if strings.Contains(lower, term) {
			e.Breed = term
			e.BreedType = domain.BreedGeneric
			e.Confidences["breed"] = tier1Confidence
			return
		}
	}
}

// ParseAgeDays extracts an age in days from free text. It first tries the
// unit-bearing pattern used during extraction ("35 days", "5 weeks"),
// converting weeks to days, then falls back to a bare integer parse for
// inputs that are just a number with no unit (e.g. a clarification answer).
func ParseAgeDays(text string) (int, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if m := ageRe.FindStringSubmatch(lower); m != nil {
		age := parseInt(m[1])
		unit := strings.ToLower(m[2])
		if strings.HasPrefix(unit, "week") || unit == "sem" {
			age *= 7
		}
		return age, true
	}
	if n, err := strconv.Atoi(lower); err == nil {
		return n, true
	}
	return 0, false
}

// NormalizeBreed canonicalizes a free-text breed name into the snake_case
// identifier form carried on ExtractedEntities.Breed (e.g. "Ross 308"
// becomes "ross_308"). It is applied wherever a breed string arrives outside
// the fixed breedAliases table, which already stores canonical values.
func NormalizeBreed(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}

func genericTermsFor(language string) []string {
	if terms, ok := genericBreedTerms[language]; ok {
		return terms
	}
	return genericBreedTerms["en"]
}

func extractSex(lower, language string, e *domain.ExtractedEntities) {
	table, ok := sexTerms[language]
	if !ok {
		table = sexTerms["en"]
	}
	for key, terms := range table {
		for _, term := range terms {
			if strings.Contains(lower, term) {
				e.Sex = domain.Sex(key)
				e.Confidences["sex"] = tier1Confidence
				return
			}
		}
	}
}

func extractFeedBase(lower, language string, e *domain.ExtractedEntities) {
	for _, term := range termsFor(language, feedBaseTerms) {
		if strings.Contains(lower, term) {
			e.FeedBase = term
			e.Confidences["feed_base"] = tier1Confidence
			return
		}
	}
}

func extractHousingType(lower, language string, e *domain.ExtractedEntities) {
	for _, term := range termsFor(language, housingTypeTerms) {
		if strings.Contains(lower, term) {
			e.HousingType = term
			e.Confidences["housing_type"] = tier1Confidence
			return
		}
	}
}

func extractAntibioticRegime(lower, language string, e *domain.ExtractedEntities) {
	for _, term := range termsFor(language, antibioticRegimeTerms) {
		if strings.Contains(lower, term) {
			e.AntibioticRegime = term
			e.Confidences["antibiotic_regime"] = tier1Confidence
			return
		}
	}
}

func extractSymptoms(lower, language string, e *domain.ExtractedEntities) {
	var found []string
	for _, term := range termsFor(language, symptomTerms) {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	if len(found) > 0 {
		e.Symptoms = found
		e.Confidences["symptoms"] = tier1Confidence
	}
}

func termsFor(language string, table map[string][]string) []string {
	if terms, ok := table[language]; ok {
		return terms
	}
	return table["en"]
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
