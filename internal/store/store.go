package store

import (
	"context"
	"errors"

	"github.com/raghavn86/TaskBuddy/internal/domain"
)

var (
	// ErrNotFound indicates the plan id does not resolve to a document.
	ErrNotFound = errors.New("plan not found")

	// ErrConflict indicates a transaction's conditional write lost a race:
	// another writer committed between this attempt's read and its write.
	ErrConflict = errors.New("write conflict")
)

// Tx is the handle a transaction callback uses to read and write plan
// documents within one attempt. Reads record the document version seen;
// writes are buffered and committed conditionally on those versions, so a
// concurrent commit between read and write surfaces as ErrConflict from
// RunTransaction and never as a partially applied state.
type Tx interface {
	Get(ctx context.Context, id string) (*domain.Plan, error)
	Set(ctx context.Context, p *domain.Plan) error
}

// PlanStore persists whole plan aggregates by id. Implementations guarantee
// that RunTransaction is atomic per document: either every buffered write of
// the callback commits, or none do.
type PlanStore interface {
	Get(ctx context.Context, id string) (*domain.Plan, error)
	Set(ctx context.Context, p *domain.Plan) error
	Update(ctx context.Context, id string, fields map[string]any) error
	List(ctx context.Context) ([]*domain.Plan, error)
	Delete(ctx context.Context, id string) error
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
