package enhancer

import (
	"fmt"
	"strings"

	"poultryqa/internal/domain"
)

func systemPrompt(language string) string {
	if language == "fr" {
		return `Tu es un expert vétérinaire en aviculture spécialisé dans l'adaptation de réponses techniques.

Vérifie la cohérence entre la question enrichie et la réponse, adapte la réponse au contexte de l'utilisateur, ajoute des avertissements si des informations critiques manquent, et propose 1 à 3 questions de clarification utiles (jamais évidentes). Priorise la sécurité des animaux. Réponds UNIQUEMENT avec un objet JSON respectant exactement le schéma demandé.`
	}
	return `You are a poultry veterinary expert specialized in adapting technical responses.

Verify coherence between the enriched question and the answer, adapt the answer to the user's context, add warnings if critical information is missing, and propose 1 to 3 useful clarification questions (never obvious ones). Prioritize animal safety. Respond ONLY with a JSON object matching the exact requested schema.`
}

func enhancementPrompt(rawAnswer string, in Input) string {
	return fmt.Sprintf(`ORIGINAL QUESTION: %q

ENRICHED QUESTION: %q

RAW ANSWER:
%q

KNOWN ENTITIES: %s

MISSING CRITICAL ENTITIES: %s

CONVERSATION CONTEXT:
%s

INSTRUCTIONS:
1. Compare the enriched question with the raw answer — does it actually address what the enriched question asks?
2. Adapt the answer to the user's specific context.
3. If critical information is missing, add a warning explaining the impact.
4. Propose 1-3 relevant, non-obvious clarification questions.
5. Keep technical accuracy but make the answer accessible.

Respond in JSON:
{
  "enhanced_answer": "adapted and improved answer",
  "optional_clarifications": ["question 1?", "question 2?"],
  "warnings": ["warning if missing info affects the advice"],
  "confidence_impact": "low|medium|high",
  "coherence_check": "good|partial|poor",
  "coherence_notes": "explanation of the fit between the enriched question and the answer"
}`, in.OriginalQuery, in.EnrichedQuery, rawAnswer, formatEntities(in.Entities), missingSummary(in.MissingEntities), in.Context)
}

func formatEntities(e domain.ExtractedEntities) string {
	var parts []string
	if e.Breed != "" {
		parts = append(parts, "breed: "+e.Breed)
	}
	if e.Sex != "" {
		parts = append(parts, "sex: "+string(e.Sex))
	}
	if e.AgeDays != nil {
		parts = append(parts, fmt.Sprintf("age_days: %d", *e.AgeDays))
	}
	if e.FlockSize != nil {
		parts = append(parts, fmt.Sprintf("flock_size: %d", *e.FlockSize))
	}
	if e.MortalityPercent != nil {
		parts = append(parts, fmt.Sprintf("mortality_percent: %.1f", *e.MortalityPercent))
	}
	if len(e.Symptoms) > 0 {
		parts = append(parts, "symptoms: "+strings.Join(e.Symptoms, ", "))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "; ")
}

func missingSummary(missing []string) string {
	if len(missing) == 0 {
		return "none"
	}
	return strings.Join(missing, ", ")
}
