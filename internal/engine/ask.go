package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"poultryqa/internal/clarify"
	"poultryqa/internal/domain"
	"poultryqa/internal/enhancer"
	"poultryqa/internal/entities"
	"poultryqa/internal/stepdag"
)

// AskResult is what Ask and AnswerClarification return on success. Exactly
// one of Answer or Clarification is populated; Clarification is non-nil
// only alongside a ClarificationRequired error, so a caller that checks the
// error kind first never has to guess which field to read.
type AskResult struct {
	Answer        *domain.SynthesizedAnswer
	Clarification *domain.ClarificationRequest
}

// Ask is the entry point for endpoint 1: ask(question, language,
// conversation_id?, tenant_id?). tenantID is accepted for multi-tenant
// deployments but not yet consulted by any component in this tree.
func (e *Engine) Ask(ctx context.Context, question, language, conversationID, tenantID string) (AskResult, error) {
	if language == "" {
		language = e.DefaultLanguage
	}
	query := domain.Query{Text: question, Language: language}

	gateResult := e.Gate.Evaluate(ctx, query)
	if !gateResult.Accepted {
		return AskResult{}, domain.NewDomainRejected(domain.ComponentDomainGate, gateResult.RejectionReason)
	}

	intent, ents := e.Extractor.Extract(ctx, query)

	verdict := e.Clarifier.Evaluate(ctx, query, ents, intent)
	if !verdict.Clear {
		if conversationID != "" && e.Pending != nil {
			pending := clarify.PendingClarification{Request: *verdict.Request, Entities: ents, Intent: intent, Query: query}
			if err := e.Pending.Save(ctx, conversationID, pending); err != nil {
				log.Warn().Err(err).Str("conversation_id", conversationID).Msg("failed to persist pending clarification")
			}
		}
		return AskResult{Clarification: verdict.Request}, domain.NewClarificationRequired(domain.ComponentClarification, "additional information required before answering")
	}

	answer, err := e.answerCleared(ctx, query, intent, ents)
	if err != nil {
		return AskResult{}, err
	}

	return AskResult{Answer: &answer}, nil
}

// answerCleared runs the route/synthesize/enhance pipeline for a query that
// has already passed the domain gate and the clarification check.
func (e *Engine) answerCleared(ctx context.Context, query domain.Query, intent domain.Intent, ents domain.ExtractedEntities) (domain.SynthesizedAnswer, error) {
	var raw domain.SynthesizedAnswer
	var err error

	if stepdag.IsMultiStep(query.Text) {
		raw = narrateOrchestration(e.Orchestrator.Run(ctx, query.Text, ents))
	} else {
		raw, err = e.AgentRAG.Answer(ctx, query, ents)
	}
	if err != nil {
		return domain.SynthesizedAnswer{}, domain.NewProviderError(domain.ComponentAgentRAG, err)
	}

	final := e.Enhancer.Enhance(ctx, raw, enhancer.Input{
		Entities:        ents,
		MissingEntities: missingEntities(ents),
		OriginalQuery:   query.Text,
		EnrichedQuery:   query.Text,
		Language:        query.Language,
	})

	if final.Text == "" {
		return domain.SynthesizedAnswer{}, domain.NewProviderError(domain.ComponentResponseEnhancer, errors.New("final answer is empty"))
	}
	return final, nil
}

// AnswerClarification is endpoint 2: answer_clarification(conversation_id,
// answers). It retrieves the pending session, folds the free-text answers
// into the stored entities by the same field keys C1 uses, and resumes the
// pipeline as if the clarification had never been needed.
func (e *Engine) AnswerClarification(ctx context.Context, conversationID string, answers map[int]string) (AskResult, error) {
	if e.Pending == nil {
		return AskResult{}, domain.NewClarificationRequired(domain.ComponentClarification, "no pending-clarification store configured")
	}
	pending, ok, err := e.Pending.Load(ctx, conversationID)
	if err != nil {
		return AskResult{}, domain.NewVectorStoreError(domain.ComponentClarification, "load pending clarification", err)
	}
	if !ok {
		return AskResult{}, domain.NewClarificationRequired(domain.ComponentClarification, "no pending clarification for this conversation, or it expired")
	}

	ents := applyClarificationAnswers(pending.Entities, pending.Request, answers)

	answer, err := e.answerCleared(ctx, pending.Query, pending.Intent, ents)
	if err != nil {
		return AskResult{}, err
	}
	return AskResult{Answer: &answer}, nil
}

const userConfirmedConfidence = domain.Confidence(1.0)

// applyClarificationAnswers takes the answers in question-index order and
// gives each one to the first critical field still unresolved — breed
// (missing, or only a generic species word), then age_days, then sex — the
// same order the clarification questions are generated in, folding the
// free-text answer into Entities as a full-confidence user-confirmed value.
// An unanswered question does not shift later answers to its field, and an
// age answer that does not parse is dropped.
func applyClarificationAnswers(ents domain.ExtractedEntities, req domain.ClarificationRequest, answers map[int]string) domain.ExtractedEntities {
	if ents.Confidences == nil {
		ents.Confidences = map[string]domain.Confidence{}
	}
	for i := range req.Questions {
		text, ok := answers[i]
		if !ok || text == "" {
			continue
		}
		switch {
		case !ents.HasField("breed") || ents.BreedType == domain.BreedGeneric:
			ents.Breed = entities.NormalizeBreed(text)
			ents.BreedType = domain.BreedSpecific
			ents.Confidences["breed"] = userConfirmedConfidence
		case !ents.HasField("age_days"):
			if age, ok := entities.ParseAgeDays(text); ok {
				ents.AgeDays = &age
				ents.Confidences["age_days"] = userConfirmedConfidence
			}
		case !ents.HasField("sex"):
			ents.Sex = domain.Sex(text)
			ents.Confidences["sex"] = userConfirmedConfidence
		}
	}
	return ents
}

// missingEntities reports which of the critical fields C12 cares about
// (breed, age, sex) were never populated by either extraction tier.
func missingEntities(e domain.ExtractedEntities) []string {
	var missing []string
	for _, field := range []string{"breed", "age_days", "sex"} {
		if !e.HasField(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// narrateOrchestration turns a stepdag.OrchestrationResult into the same
// SynthesizedAnswer shape every other route produces, since C12 and the
// API layer only ever deal in that one type.
func narrateOrchestration(result domain.OrchestrationResult) domain.SynthesizedAnswer {
	confidence := 0.3
	coherence := domain.CoherencePoor
	if result.Success {
		confidence = 0.9
		coherence = domain.CoherenceGood
	}

	var warnings []string
	if !result.Success && result.Err != nil {
		warnings = []string{result.Err.Error()}
	}

	return domain.SynthesizedAnswer{
		Text:       formatFinalResult(result),
		Confidence: confidence,
		Sources:    []string{"step_orchestrator"},
		Coherence:  coherence,
		Warnings:   warnings,
	}
}

func formatFinalResult(result domain.OrchestrationResult) string {
	if len(result.FinalResult) == 0 {
		return "The multi-step calculation could not produce a result."
	}
	keys := make([]string, 0, len(result.FinalResult))
	for k := range result.FinalResult {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	text := fmt.Sprintf("Completed %d of %d steps.", result.StepsExecuted, len(result.Results))
	for _, k := range keys {
		text += fmt.Sprintf(" %s: %v.", k, result.FinalResult[k])
	}
	return text
}
