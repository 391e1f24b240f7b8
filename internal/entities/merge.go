package entities

import "poultryqa/internal/domain"

// mergeOverCurrent overlays fields present in current onto a baseline
// inherited from history: fields named in the current query override
// those inherited from history. Only fields the
// current turn actually set (present in its Confidences map) replace the
// baseline; everything else is inherited unchanged.
func mergeOverCurrent(baseline, current domain.ExtractedEntities) domain.ExtractedEntities {
	merged := baseline
	merged.Confidences = map[string]domain.Confidence{}
	for k, v := range baseline.Confidences {
		merged.Confidences[k] = v
	}

	if current.HasField("breed") {
		merged.Breed = current.Breed
		merged.BreedType = current.BreedType
	}
	if current.HasField("sex") {
		merged.Sex = current.Sex
	}
	if current.HasField("age_days") {
		merged.AgeDays = current.AgeDays
	}
	if current.HasField("flock_size") {
		merged.FlockSize = current.FlockSize
	}
	if current.HasField("temperature_c") {
		merged.TemperatureC = current.TemperatureC
	}
	if current.HasField("density_per_m2") {
		merged.DensityPerM2 = current.DensityPerM2
	}
	if current.HasField("target_weight_g") {
		merged.TargetWeightG = current.TargetWeightG
	}
	if current.HasField("fcr") {
		merged.FCR = current.FCR
	}
	if current.HasField("mortality_percent") {
		merged.MortalityPercent = current.MortalityPercent
	}
	if current.HasField("symptoms") {
		merged.Symptoms = current.Symptoms
	}
	if current.HasField("housing_type") {
		merged.HousingType = current.HousingType
	}
	if current.HasField("feed_base") {
		merged.FeedBase = current.FeedBase
	}
	if current.HasField("antibiotic_regime") {
		merged.AntibioticRegime = current.AntibioticRegime
	}

	for k, v := range current.Confidences {
		merged.Confidences[k] = v
	}

	return merged
}
