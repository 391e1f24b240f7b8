package entities

import (
	"strings"

	"poultryqa/internal/domain"
)

var intentKeywords = map[domain.Intent][]string{
	domain.IntentMetricQuery: {
		"weight", "poids", "fcr", "conversion", "growth", "croissance", "gain",
		"mortality", "mortalite", "target", "objectif", "standard",
	},
	domain.IntentEnvironmentSetting: {
		"temperature", "humidity", "humidite", "ventilation", "density", "densite",
		"housing", "logement", "lighting", "eclairage", "litter", "litiere",
	},
	domain.IntentProtocolQuery: {
		"protocol", "protocole", "vaccination", "vaccine", "vaccin", "schedule",
		"programme", "biosecurity", "biosecurite", "procedure",
	},
	domain.IntentDiagnosisTriage: {
		"symptom", "symptome", "disease", "maladie", "sick", "malade", "diagnosis",
		"diagnostic", "why", "pourquoi", "cause", "treatment", "traitement",
	},
	domain.IntentEconomicsCost: {
		"cost", "cout", "price", "prix", "margin", "marge", "profitability",
		"rentabilite", "economics", "economie", "budget",
	},
}

// classifyIntent scores the query against each intent's keyword list and
// returns the highest-scoring intent, defaulting to general_poultry when
// nothing scores above zero.
func classifyIntent(query string, entities domain.ExtractedEntities) domain.Intent {
	q := strings.ToLower(query)

	best := domain.IntentGeneralPoultry
	bestScore := 0
	for intent, keywords := range intentKeywords {
		score := 0
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = intent
		}
	}

	// Entity evidence nudges metric_query even without an explicit keyword
	// hit (e.g. "Ross 308 at 35 days?" names no metric word but is clearly
	// asking for a performance figure once a breed+age pair is present).
	if bestScore == 0 && entities.Breed != "" && entities.AgeDays != nil {
		return domain.IntentMetricQuery
	}

	return best
}
