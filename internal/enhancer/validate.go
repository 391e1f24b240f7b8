package enhancer

import (
	"regexp"
	"strings"

	"poultryqa/internal/domain"
	"poultryqa/internal/localization"

	"github.com/rs/zerolog/log"
)

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON pulls the first {...} block out of a completion reply,
// tolerating a surrounding code fence or stray prose the same way tier-2
// entity extraction does.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	if m := jsonBlockRe.FindString(s); m != "" {
		return m
	}
	return s
}

// clampStrings trims, drops empties, and truncates to at most max entries —
// the "max 3 non-empty clarifications / max 2 non-empty warnings"
// validation rule applied to whichever list it's given.
func clampStrings(in []string, max int) []string {
	out := make([]string, 0, max)
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}

func validCoherence(s string) domain.Coherence {
	switch domain.Coherence(s) {
	case domain.CoherenceGood, domain.CoherencePartial, domain.CoherencePoor:
		return domain.Coherence(s)
	default:
		return domain.CoherenceUnknown
	}
}

const (
	confidenceImpactLow    = "low"
	confidenceImpactMedium = "medium"
	confidenceImpactHigh   = "high"
)

func validConfidenceImpact(s string) string {
	switch s {
	case confidenceImpactLow, confidenceImpactMedium, confidenceImpactHigh:
		return s
	default:
		return confidenceImpactMedium
	}
}

// applyConfidenceImpact scales the answer's confidence down according to how
// much the missing or mismatched information is judged to affect it — "low"
// leaves it untouched, "medium" and "high" apply increasingly aggressive
// discounts. Neither the distilled spec nor the source it's grounded on
// defines the exact numeric effect of this field; these factors are this
// implementation's resolution of that point.
func applyConfidenceImpact(confidence float64, impact string) float64 {
	switch impact {
	case confidenceImpactHigh:
		return confidence * 0.65
	case confidenceImpactMedium:
		return confidence * 0.85
	default:
		return confidence
	}
}

func logCoherenceNotes(notes string, coherence domain.Coherence) {
	if notes == "" {
		return
	}
	log.Debug().Str("coherence", string(coherence)).Str("notes", notes).Msg("response enhancement coherence check")
}

// enforceCoherenceInvariant guarantees that any non-"good" coherence
// verdict always carries at least a warning or a clarification — a
// SynthesizedAnswer that merely says "poor" with nothing attached gives the
// caller no actionable signal.
func enforceCoherenceInvariant(out domain.SynthesizedAnswer, language string) domain.SynthesizedAnswer {
	if out.Coherence != domain.CoherenceGood && len(out.Warnings) == 0 && len(out.OptionalClarifications) == 0 {
		out.Warnings = []string{localization.Warning(language, "generic")}
	}
	return out
}
