package models

import "fmt"

// PersistenceErrorKind classifies a failure from the persistence adapter
// (C1). Persistence errors are fatal to the current search (§7).
type PersistenceErrorKind string

const (
	PersistenceUnavailable PersistenceErrorKind = "Unavailable"
	PersistenceCorrupted   PersistenceErrorKind = "Corrupted"
	PersistenceNotFound    PersistenceErrorKind = "NotFound"
)

// PersistenceError wraps a failure reading or writing persisted data.
type PersistenceError struct {
	Kind PersistenceErrorKind
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("persistence %s (%s): %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("persistence %s (%s)", e.Kind, e.Op)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NormalizationErrorKind classifies a failure from the place normalizer
// (C4). Normalization errors short-circuit before any graph load (§7).
type NormalizationErrorKind string

const (
	NormalizationAmbiguousArea NormalizationErrorKind = "AmbiguousArea"
	NormalizationEmptyArea     NormalizationErrorKind = "EmptyArea"
)

// NormalizationError reports that a raw place string could not be
// resolved unambiguously to graph nodes.
type NormalizationError struct {
	Kind   NormalizationErrorKind
	Detail string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalization %s: %s", e.Kind, e.Detail)
}

// BudgetKind classifies why a search exhausted its resource budget
// without a provable-optimal termination. Budget is a search outcome,
// not a fatal error (§7).
type BudgetKind string

const (
	BudgetTimeExhausted       BudgetKind = "TimeExhausted"
	BudgetExpansionsExhausted BudgetKind = "ExpansionsExhausted"
)
