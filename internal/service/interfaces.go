package service

import (
	"context"
	"time"

	"github.com/raghavn86/TaskBuddy/internal/domain"
	"github.com/raghavn86/TaskBuddy/internal/metrics"
)

// CreatePlanRequest carries the fields for a new, empty plan.
type CreatePlanRequest struct {
	Name          string
	IsTemplate    bool
	OwnerID       string
	Collaborators []string
	WeekStart     *time.Time
}

// AddItemRequest creates an item in one day bucket. A nil At appends.
type AddItemRequest struct {
	Day  int
	Item domain.NewItemInput
	At   *int
}

// AddItemResult is the created item plus the full post-mutation day mapping.
type AddItemResult struct {
	Item *domain.Item
	Days map[int]*domain.DayBucket
}

// MoveItemRequest relocates or reorders one item. FromDay == ToDay is a
// same-day reorder; otherwise the item changes buckets. A nil At appends to
// the target bucket. Assignee, when non-nil, overrides the item's assignee
// as part of the move ("" unassigns).
type MoveItemRequest struct {
	ItemID   string
	FromDay  int
	ToDay    int
	At       *int
	Assignee *string
}

// MoveItemResult is the moved item plus the full post-mutation day mapping.
type MoveItemResult struct {
	Item *domain.Item
	Days map[int]*domain.DayBucket
}

// PlanService is the mutation engine's caller-facing surface. Every
// operation that writes runs as an atomic read-modify-write of the whole
// plan document, retried a bounded number of times on write conflict.
type PlanService interface {
	CreatePlan(ctx context.Context, req CreatePlanRequest) (*domain.Plan, error)
	ClonePlan(ctx context.Context, sourceID, name string, asTemplate bool, weekStart *time.Time) (*domain.Plan, error)
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	ListPlans(ctx context.Context) ([]*domain.Plan, error)
	DeletePlan(ctx context.Context, id string) error

	AddItem(ctx context.Context, planID string, req AddItemRequest) (*AddItemResult, error)
	UpdateItem(ctx context.Context, planID string, day int, itemID string, patch domain.ItemPatch) (*domain.Item, error)
	DeleteItem(ctx context.Context, planID string, day int, itemID string) error
	MoveItem(ctx context.Context, planID string, req MoveItemRequest) (*MoveItemResult, error)

	Metrics(ctx context.Context, planID string) (*metrics.Summary, error)
}
