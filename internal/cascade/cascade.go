// Package cascade implements the cascading deletion and referential
// integrity engine: locating every document that references a root entity,
// deduplicating the result, partitioning it to fit the store's atomic batch
// cap, and committing the batches concurrently with the root mutation
// ordered last.
//
// The store offers no atomicity beyond a single bounded batch, so the engine
// provides idempotent eventual completeness rather than transactional
// deletion: a failed run leaves already-committed batches in place, and the
// documented recovery is to re-run the same operation, which locates only
// the documents that still exist.
package cascade

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// Limits carries the store's hard caps. Production code uses DefaultLimits;
// tests shrink them to exercise chunking and batch partitioning.
type Limits struct {
	// MaxBatchWrites is the maximum number of mutations in one atomic batch.
	MaxBatchWrites int
	// MaxInValues is the maximum set size of a membership ("in") filter.
	MaxInValues int
}

// DefaultLimits matches Cloud Firestore.
var DefaultLimits = Limits{MaxBatchWrites: 500, MaxInValues: 10}

var (
	// ErrPartialLocate reports that one or more locate queries failed. The
	// dependent set is incomplete, so no writes were attempted.
	ErrPartialLocate = errors.New("cascade: incomplete dependent locate")
)

// Engine wires the locator, planner and executor over one Store.
type Engine struct {
	store   Store
	limits  Limits
	logger  *logrus.Logger
	locator *Locator
	exec    *Executor
}

func NewEngine(store Store, limits Limits, logger *logrus.Logger) *Engine {
	if limits.MaxBatchWrites <= 0 {
		limits.MaxBatchWrites = DefaultLimits.MaxBatchWrites
	}
	if limits.MaxInValues <= 0 {
		limits.MaxInValues = DefaultLimits.MaxInValues
	}
	return &Engine{
		store:   store,
		limits:  limits,
		logger:  logger,
		locator: NewLocator(store, limits),
		exec:    NewExecutor(store, logger),
	}
}

// Locator exposes the engine's locator for fresh locate passes (used by the
// idempotence checks in handlers and tests).
func (e *Engine) Locator() *Locator { return e.locator }
