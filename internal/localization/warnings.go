package localization

// warningTemplates maps language -> missing-field-key -> the rule-based
// warning ResponseEnhancer attaches when that field is both missing and
// judged to materially affect the answer's precision. Not every
// clarification-worthy field has a standalone warning here — "sex", for
// instance, only ever warrants a clarification question, never a warning
// on its own.
var warningTemplates = map[string]map[string]string{
	"en": {
		"breed":    "Without knowing the exact breed, this response is general — performance varies by strain.",
		"age_days": "Age is crucial for evaluating whether these parameters are normal.",
		"generic":  "This answer could not be fully verified against the question asked — treat it as provisional.",
	},
	"fr": {
		"breed":    "Sans connaître la race exacte, cette réponse est générale — les performances varient selon la souche.",
		"age_days": "L'âge est crucial pour évaluer la normalité de ces paramètres.",
		"generic":  "Cette réponse n'a pas pu être entièrement vérifiée par rapport à la question posée — à considérer comme provisoire.",
	},
}

// Warning returns the localized rule-based warning for a missing field, or
// "" if that field has no associated warning.
func Warning(language, field string) string {
	return lookup(warningTemplates, language, field, "")
}
