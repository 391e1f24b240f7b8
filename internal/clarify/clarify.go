// Package clarify implements ClarificationEngine (C2): decides whether the
// extracted entities are sufficient to answer, or whether the user needs to
// be asked one to three clarifying questions first.
package clarify

import (
	"context"
	"strings"

	"poultryqa/internal/domain"
	"poultryqa/internal/llm"
	"poultryqa/internal/localization"
)

const maxQuestions = 3

// Verdict is the engine's decision: either Clear, or a non-nil Request.
type Verdict struct {
	Clear   bool
	Request *domain.ClarificationRequest
}

// Engine implements ClarificationEngine. Provider may be nil — rule (d)'s
// LLM fallback then degrades to a generic clarification question.
type Engine struct {
	Provider llm.Provider
}

// New constructs an Engine.
func New(provider llm.Provider) *Engine {
	return &Engine{Provider: provider}
}

var growthWeightTerms = []string{
	"weight", "poids", "growth", "croissance", "gain", "bw", "body weight",
}

func mentionsGrowthOrWeight(query string) bool {
	q := strings.ToLower(query)
	for _, term := range growthWeightTerms {
		if strings.Contains(q, term) {
			return true
		}
	}
	return false
}

// Evaluate applies the ordered rule set below.
func (e *Engine) Evaluate(ctx context.Context, query domain.Query, entities domain.ExtractedEntities, intent domain.Intent) Verdict {
	language := query.Language
	if language == "" {
		language = localization.DefaultLanguage
	}

	// (a) generic breed mention — mandatory, rule-based, no LLM call. A bare
	// "chicken"/"poulet" doesn't pin down a strain, its growth curve, or
	// whether it's housed in a way that affects the numbers, so ask all
	// three separately rather than folding them into one combined prompt.
	if entities.BreedType == domain.BreedGeneric {
		fields := []string{"breed_generic"}
		if entities.AgeDays == nil {
			fields = append(fields, "age_days")
		}
		if entities.HousingType == "" {
			fields = append(fields, "housing_type")
		}
		return clarify(language, fields)
	}

	// (b) specific breed + known age, and the intent doesn't hinge on
	// symptoms we haven't been given — clear to proceed.
	if entities.BreedType == domain.BreedSpecific && entities.AgeDays != nil && intent != domain.IntentDiagnosisTriage {
		return Verdict{Clear: true}
	}

	// (c) metric_query about growth/weight missing breed or age.
	if intent == domain.IntentMetricQuery && mentionsGrowthOrWeight(query.Text) {
		var missing []string
		if entities.Breed == "" {
			missing = append(missing, "breed")
		}
		if entities.AgeDays == nil {
			missing = append(missing, "age_days")
		}
		if len(missing) > 0 {
			return clarify(language, missing)
		}
	}

	// (d) fall back to the completion provider.
	return e.llmFallback(ctx, query, language)
}

func clarify(language string, fields []string) Verdict {
	if len(fields) > maxQuestions {
		fields = fields[:maxQuestions]
	}
	questions := make([]string, 0, len(fields))
	for _, f := range fields {
		questions = append(questions, localization.ClarificationQuestion(language, f))
	}
	return Verdict{Clear: false, Request: &domain.ClarificationRequest{Questions: questions, Language: language}}
}

const clarifySystemPrompt = `You decide whether a poultry-husbandry question has enough information to answer directly.
Respond with ONLY the literal token CLEAR if it does.
Otherwise respond with up to three clarifying questions, one per line, and nothing else.`

func (e *Engine) llmFallback(ctx context.Context, query domain.Query, language string) Verdict {
	if e.Provider == nil {
		return clarify(language, []string{"generic"})
	}

	msgs := []llm.Message{
		{Role: "system", Content: clarifySystemPrompt},
		{Role: "user", Content: query.Text},
	}
	reply, err := e.Provider.Chat(ctx, msgs, nil, "")
	if err != nil {
		return clarify(language, []string{"generic"})
	}

	content := strings.TrimSpace(reply.Content)
	if strings.EqualFold(content, "clear") {
		return Verdict{Clear: true}
	}

	var questions []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == maxQuestions {
			break
		}
	}
	if len(questions) == 0 {
		return clarify(language, []string{"generic"})
	}
	return Verdict{Clear: false, Request: &domain.ClarificationRequest{Questions: questions, Language: language}}
}
