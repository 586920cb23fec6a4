package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/raghavn86/TaskBuddy/internal/domain"
)

// Plan options
type PlanOption func(*domain.Plan)

func WithCollaborators(ids ...string) PlanOption {
	return func(p *domain.Plan) {
		p.Collaborators = ids
	}
}

func WithTemplate() PlanOption {
	return func(p *domain.Plan) {
		p.IsTemplate = true
	}
}

func WithWeekStart(d time.Time) PlanOption {
	return func(p *domain.Plan) {
		p.WeekStart = &d
	}
}

// NewTestPlan builds a plan with no buckets.
func NewTestPlan(name string, opts ...PlanOption) *domain.Plan {
	now := time.Now().UTC()
	p := &domain.Plan{
		ID:            uuid.New().String(),
		Name:          name,
		OwnerID:       uuid.New().String(),
		Collaborators: []string{"alice", "bob"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Item options
type ItemOption func(*domain.Item)

func WithOrder(n int) ItemOption {
	return func(it *domain.Item) {
		it.Order = domain.IntPtr(n)
	}
}

func WithoutOrder() ItemOption {
	return func(it *domain.Item) {
		it.Order = nil
	}
}

func WithAssignee(id string) ItemOption {
	return func(it *domain.Item) {
		it.Assignee = id
	}
}

func WithDuration(min int) ItemOption {
	return func(it *domain.Item) {
		it.DurationMin = min
	}
}

func WithDone() ItemOption {
	return func(it *domain.Item) {
		it.Done = true
	}
}

func WithItemID(id string) ItemOption {
	return func(it *domain.Item) {
		it.ID = id
	}
}

// NewTestTask builds a task item with a 30-minute default duration.
func NewTestTask(title string, opts ...ItemOption) *domain.Item {
	now := time.Now().UTC()
	it := &domain.Item{
		ID:          uuid.New().String(),
		Kind:        domain.ItemTask,
		Title:       title,
		DurationMin: 30,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// NewTestSection builds a section item.
func NewTestSection(title string, opts ...ItemOption) *domain.Item {
	now := time.Now().UTC()
	it := &domain.Item{
		ID:        uuid.New().String(),
		Kind:      domain.ItemSection,
		Title:     title,
		Color:     "#83a598",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// AttachItems places items in the plan's bucket for day, creating the bucket
// if needed. Items keep whatever order values their options set.
func AttachItems(p *domain.Plan, day int, items ...*domain.Item) {
	b := p.EnsureBucket(day)
	for _, it := range items {
		b.Items[it.ID] = it
	}
	p.AttachBucket(b)
}
