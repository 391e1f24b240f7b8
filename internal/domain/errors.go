package domain

import "fmt"

// Component tags the subsystem that raised an error; it appears in the
// error text. The error-to-HTTP mapping (engine.HTTPStatusFor) keys on
// Kind, not on Component.
type Component string

const (
	ComponentIntentExtractor    Component = "intent_extractor"
	ComponentClarification      Component = "clarification"
	ComponentDomainGate         Component = "domain_gate"
	ComponentConceptRouter      Component = "concept_router"
	ComponentPerfStore          Component = "perf_store"
	ComponentVectorRetriever    Component = "vector_retriever"
	ComponentExternalSources    Component = "external_sources"
	ComponentIngestion          Component = "ingestion"
	ComponentHybridSearch       Component = "hybrid_search"
	ComponentOrchestrator       Component = "orchestrator"
	ComponentAgentRAG           Component = "agent_rag"
	ComponentResponseEnhancer   Component = "response_enhancer"
)

// errKind distinguishes the five taxonomy classes: input errors
// (normal flow control), transient backend errors (retryable), data errors
// (never retried), logic errors (logged, step skipped), and cancellation.
type errKind int

const (
	kindInput errKind = iota
	kindTransient
	kindData
	kindLogic
	kindCancel
)

// Err is the single concrete error type behind every taxonomy member.
// Components construct one via the New*Error constructors below and test
// for a kind with the Is*Error helpers, never by string-matching messages.
type Err struct {
	Kind      string
	Component Component
	Message   string
	Cause     error
	kind      errKind
}

func (e *Err) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s[%s]: %s: %v", e.Kind, e.Component, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Component, e.Message)
}

func (e *Err) Unwrap() error { return e.Cause }

func newErr(kind errKind, name string, c Component, msg string, cause error) *Err {
	return &Err{Kind: name, Component: c, Message: msg, Cause: cause, kind: kind}
}

// Input errors — normal flow control, not failures.

func NewDomainRejected(c Component, reason string) *Err {
	return newErr(kindInput, "DomainRejected", c, reason, nil)
}

func NewClarificationRequired(c Component, reason string) *Err {
	return newErr(kindInput, "ClarificationRequired", c, reason, nil)
}

// Transient backend errors — retryable at component scope, bounded retries.

func NewVectorStoreError(c Component, msg string, cause error) *Err {
	return newErr(kindTransient, "VectorStoreError", c, msg, cause)
}

func NewPerfStoreBackend(c Component, msg string, cause error) *Err {
	return newErr(kindTransient, "PerfStoreBackend", c, msg, cause)
}

// NewPerfStoreEmpty is a data error, not a transient one: it is never retried.
func NewPerfStoreEmpty(c Component) *Err {
	return newErr(kindData, "PerfStoreEmpty", c, "no rows matched the filter", nil)
}

func NewSourceError(c Component, source string, cause error) *Err {
	return newErr(kindTransient, "SourceError", c, "source "+source+" failed", cause)
}

func NewEmbeddingError(c Component, cause error) *Err {
	return newErr(kindTransient, "EmbeddingError", c, "embedding call failed", cause)
}

func NewProviderError(c Component, cause error) *Err {
	return newErr(kindTransient, "ProviderError", c, "completion provider call failed", cause)
}

// Data errors — never retried; caller falls back to a rule-based path.

func NewParseError(c Component, msg string, cause error) *Err {
	return newErr(kindData, "ParseError", c, msg, cause)
}

// Logic errors — logged, step skipped, DAG continues.

func NewDependencyUnsatisfied(c Component, stepNumber int, missing int) *Err {
	return newErr(kindLogic, "DependencyUnsatisfied", c,
		fmt.Sprintf("step %d missing dependency result from step %d", stepNumber, missing), nil)
}

func NewUnknownStepType(c Component, stepType StepType) *Err {
	return newErr(kindLogic, "UnknownStepType", c, "unknown step type: "+string(stepType), nil)
}

// Cancellation — propagates upward without being logged as an error.

func NewCancelled(c Component) *Err {
	return newErr(kindCancel, "Cancelled", c, "operation cancelled", nil)
}

// IsRetryable reports whether err is one of the transient backend errors
// that a bounded-retry helper should retry.
func IsRetryable(err error) bool {
	var e *Err
	if !asErr(err, &e) {
		return false
	}
	return e.kind == kindTransient
}

// IsCancelled reports whether err represents cooperative cancellation.
func IsCancelled(err error) bool {
	var e *Err
	if !asErr(err, &e) {
		return false
	}
	return e.kind == kindCancel
}

// IsInputError reports whether err is DomainRejected or ClarificationRequired
// — normal flow control that should not be logged as a failure.
func IsInputError(err error) bool {
	var e *Err
	if !asErr(err, &e) {
		return false
	}
	return e.kind == kindInput
}

func asErr(err error, target **Err) bool {
	for err != nil {
		if e, ok := err.(*Err); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
