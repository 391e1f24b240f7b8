package localization

// clarificationTemplates maps language -> missing-field-key -> question
// text. Clarification questions are pulled from a localized template
// indexed by the missing field.
var clarificationTemplates = map[string]map[string]string{
	"en": {
		"species":     "What species are you asking about (broiler, layer, breeder, duck, turkey)?",
		"breed":       "Which commercial strain or breed is this for (e.g. Ross 308, Cobb 500, ISA Brown)?",
		"breed_generic": "You mentioned chickens generally — which specific breed or strain is this about?",
		"age_days":    "What age, in days, are the birds?",
		"sex":         "Is this for males, females, or a mixed/as-hatched flock?",
		"metrics":     "Which performance figures are you interested in (weight, feed conversion, mortality, etc.)?",
		"symptoms":    "What symptoms have you observed?",
		"housing_type": "What kind of housing is the flock in (cage, barn, free-range, litter)?",
		"generic":     "Could you give more detail — species, age, or the specific information you're looking for?",
	},
	"fr": {
		"species":     "De quelle espèce parlez-vous (poulet de chair, pondeuse, reproducteur, canard, dinde) ?",
		"breed":       "Quelle souche ou lignée commerciale (ex. Ross 308, Cobb 500, ISA Brown) ?",
		"breed_generic": "Vous mentionnez des poulets en général — de quelle souche ou lignée spécifique s'agit-il ?",
		"age_days":    "Quel âge, en jours, ont les oiseaux ?",
		"sex":         "S'agit-il de mâles, de femelles, ou d'un lot mixte/non sexé ?",
		"metrics":     "Quelles données de performance vous intéressent (poids, indice de consommation, mortalité, etc.) ?",
		"symptoms":    "Quels symptômes avez-vous observés ?",
		"housing_type": "Dans quel type de logement se trouve le lot (cage, poulailler, plein air, litière) ?",
		"generic":     "Pouvez-vous préciser : l'espèce, l'âge, ou le type d'information recherché ?",
	},
}

// ClarificationQuestion returns the localized question for a missing field.
func ClarificationQuestion(language, field string) string {
	return lookup(clarificationTemplates, language, field, clarificationTemplates[DefaultLanguage]["generic"])
}
