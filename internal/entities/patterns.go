package entities

import "regexp"

// Numeric field patterns for tier-1 deterministic extraction.
var (
	ageRe         = regexp.MustCompile(`(?i)(\d+)\s*(days?|weeks?|j|sem)\b`)
	weightRe      = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kg|g)\b`)
	mortalityRe   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%`)
	temperatureRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*°?c\b`)

	// Supplemental numeric patterns not named explicitly in the closed
	// regex set above, extracted the same way for the remaining numeric
	// entity fields.
	flockSizeRe = regexp.MustCompile(`(?i)(\d[\d,\s]*\d|\d)\s*(birds?|chickens?|oiseaux|têtes|tetes|head)\b`)
	densityRe   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:birds?|oiseaux)?\s*/\s*m[²2]`)
	fcrRe       = regexp.MustCompile(`(?i)(?:fcr|ic|indice(?: de)? consommation|feed conversion)\D{0,10}(\d\.\d+)`)
)
