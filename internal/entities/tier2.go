package entities

import (
	"context"
	"encoding/json"
	"strings"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"
)

// tier2CriticalFields are the fields worth an LLM round-trip when tier 1
// couldn't pin them down — the ones downstream routing and PerfStore
// lookups actually depend on.
var tier2CriticalFields = []string{"breed", "age_days"}

const tier2SystemPrompt = `You extract structured poultry-husbandry entities from a user question.
Respond with ONLY a single JSON object, no prose, no code fences, matching this shape:
{
  "breed": string or null,
  "breed_type": "specific" or "generic" or null,
  "sex": "male" or "female" or "mixed" or "as_hatched" or null,
  "age_days": integer or null,
  "target_weight_g": number or null,
  "fcr": number or null,
  "mortality_percent": number or null,
  "temperature_c": number or null,
  "flock_size": integer or null,
  "density_per_m2": number or null,
  "symptoms": array of strings or null,
  "housing_type": string or null,
  "feed_base": string or null,
  "antibiotic_regime": string or null
}
Use null for any field you cannot determine with confidence. Do not guess.`

type tier2Response struct {
	Breed            *string  `json:"breed"`
	BreedType        *string  `json:"breed_type"`
	Sex              *string  `json:"sex"`
	AgeDays          *int     `json:"age_days"`
	TargetWeightG    *float64 `json:"target_weight_g"`
	FCR              *float64 `json:"fcr"`
	MortalityPercent *float64 `json:"mortality_percent"`
	TemperatureC     *float64 `json:"temperature_c"`
	FlockSize        *int     `json:"flock_size"`
	DensityPerM2     *float64 `json:"density_per_m2"`
	Symptoms         []string `json:"symptoms"`
	HousingType      *string  `json:"housing_type"`
	FeedBase         *string  `json:"feed_base"`
	AntibioticRegime *string  `json:"antibiotic_regime"`
}

// needsTier2 reports whether any critical field is missing or under the
// 0.6 confidence threshold.
func needsTier2(e domain.ExtractedEntities) bool {
	for _, field := range tier2CriticalFields {
		if e.ConfidenceOf(field) < 0.6 {
			return true
		}
	}
	return false
}

// tier2Extract asks the completion provider for a strict JSON extraction
// and merges only the fields tier 1 left unset, at confidence 0.6 — high
// enough to clear the threshold that triggered the call, but kept below
// tier 1's 1.0 so a later deterministic match always wins a re-merge.
func tier2Extract(ctx context.Context, provider llm.Provider, query string, base domain.ExtractedEntities) domain.ExtractedEntities {
	if provider == nil {
		return base
	}

	msgs := []llm.Message{
		{Role: "system", Content: tier2SystemPrompt},
		{Role: "user", Content: query},
	}
	reply, err := provider.Chat(ctx, msgs, nil, "")
	if err != nil {
		return base
	}

	var parsed tier2Response
	raw := stripCodeFence(reply.Content)
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return base
	}

	const tier2Confidence = domain.Confidence(0.6)
	out := base
	if out.Confidences == nil {
		out.Confidences = map[string]domain.Confidence{}
	}

	if !out.HasField("breed") && parsed.Breed != nil && *parsed.Breed != "" {
		out.Breed = NormalizeBreed(*parsed.Breed)
		if parsed.BreedType != nil {
			out.BreedType = domain.BreedType(*parsed.BreedType)
		}
		out.Confidences["breed"] = tier2Confidence
	}
	if !out.HasField("sex") && parsed.Sex != nil {
		out.Sex = domain.Sex(*parsed.Sex)
		out.Confidences["sex"] = tier2Confidence
	}
	if !out.HasField("age_days") && parsed.AgeDays != nil {
		out.AgeDays = parsed.AgeDays
		out.Confidences["age_days"] = tier2Confidence
	}
	if !out.HasField("target_weight_g") && parsed.TargetWeightG != nil {
		out.TargetWeightG = parsed.TargetWeightG
		out.Confidences["target_weight_g"] = tier2Confidence
	}
	if !out.HasField("fcr") && parsed.FCR != nil {
		out.FCR = parsed.FCR
		out.Confidences["fcr"] = tier2Confidence
	}
	if !out.HasField("mortality_percent") && parsed.MortalityPercent != nil {
		out.MortalityPercent = parsed.MortalityPercent
		out.Confidences["mortality_percent"] = tier2Confidence
	}
	if !out.HasField("temperature_c") && parsed.TemperatureC != nil {
		out.TemperatureC = parsed.TemperatureC
		out.Confidences["temperature_c"] = tier2Confidence
	}
	if !out.HasField("flock_size") && parsed.FlockSize != nil {
		out.FlockSize = parsed.FlockSize
		out.Confidences["flock_size"] = tier2Confidence
	}
	if !out.HasField("density_per_m2") && parsed.DensityPerM2 != nil {
		out.DensityPerM2 = parsed.DensityPerM2
		out.Confidences["density_per_m2"] = tier2Confidence
	}
	if !out.HasField("symptoms") && len(parsed.Symptoms) > 0 {
		out.Symptoms = parsed.Symptoms
		out.Confidences["symptoms"] = tier2Confidence
	}
	if !out.HasField("housing_type") && parsed.HousingType != nil {
		out.HousingType = *parsed.HousingType
		out.Confidences["housing_type"] = tier2Confidence
	}
	if !out.HasField("feed_base") && parsed.FeedBase != nil {
		out.FeedBase = *parsed.FeedBase
		out.Confidences["feed_base"] = tier2Confidence
	}
	if !out.HasField("antibiotic_regime") && parsed.AntibioticRegime != nil {
		out.AntibioticRegime = *parsed.AntibioticRegime
		out.Confidences["antibiotic_regime"] = tier2Confidence
	}

	return out
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
