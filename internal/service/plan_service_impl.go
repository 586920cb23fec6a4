package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/raghavn86/TaskBuddy/internal/domain"
	"github.com/raghavn86/TaskBuddy/internal/metrics"
	"github.com/raghavn86/TaskBuddy/internal/store"
)

type planService struct {
	plans       store.PlanStore
	observer    UseCaseObserver
	maxAttempts int
	retryDelay  time.Duration
}

// Option configures a PlanService.
type Option func(*planService)

// WithObserver attaches a use-case observer.
func WithObserver(o UseCaseObserver) Option {
	return func(s *planService) { s.observer = o }
}

// WithRetry overrides the conflict-retry budget and the fixed delay between
// attempts.
func WithRetry(maxAttempts int, delay time.Duration) Option {
	return func(s *planService) {
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
		if delay >= 0 {
			s.retryDelay = delay
		}
	}
}

// NewPlanService creates the plan mutation engine on top of the given store.
func NewPlanService(plans store.PlanStore, opts ...Option) PlanService {
	s := &planService{
		plans:       plans,
		observer:    NoopUseCaseObserver{},
		maxAttempts: DefaultMaxAttempts,
		retryDelay:  DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePlan writes a document under a freshly generated uuid. No other
// writer can address that id yet, so the write skips the transaction path.
func (s *planService) CreatePlan(ctx context.Context, req CreatePlanRequest) (*domain.Plan, error) {
	now := time.Now().UTC()
	p := &domain.Plan{
		ID:            uuid.New().String(),
		Name:          req.Name,
		IsTemplate:    req.IsTemplate,
		OwnerID:       req.OwnerID,
		Collaborators: append([]string(nil), req.Collaborators...),
		WeekStart:     req.WeekStart,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.plans.Set(ctx, p); err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	return p, nil
}

func (s *planService) ClonePlan(ctx context.Context, sourceID, name string, asTemplate bool, weekStart *time.Time) (*domain.Plan, error) {
	src, err := s.getPlan(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	// The clone lands under a fresh uuid, so this write cannot contend
	// with another writer either.
	clone := domain.ClonePlan(src, uuid.New().String(), name, asTemplate, weekStart, time.Now().UTC())
	if err := s.plans.Set(ctx, clone); err != nil {
		return nil, fmt.Errorf("writing cloned plan: %w", err)
	}
	return clone, nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	return s.getPlan(ctx, id)
}

func (s *planService) ListPlans(ctx context.Context) ([]*domain.Plan, error) {
	return s.plans.List(ctx)
}

func (s *planService) DeletePlan(ctx context.Context, id string) error {
	if err := s.plans.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("plan %s: %w", id, ErrPlanNotFound)
		}
		return err
	}
	return nil
}

// AddItem inserts a new item into one day bucket. The bucket is created on
// first insertion; the insertion index defaults to append; the whole bucket
// is renormalized so order values stay dense.
func (s *planService) AddItem(ctx context.Context, planID string, req AddItemRequest) (*AddItemResult, error) {
	var result *AddItemResult
	attempts, err := s.runWithRetry(ctx, func(ctx context.Context) error {
		return s.plans.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
			p, err := s.readPlan(ctx, tx, planID)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			item := domain.NewItem(uuid.New().String(), req.Item, now)

			bucket := p.EnsureBucket(req.Day)
			items := bucket.SortedItems()
			at := domain.IntFromPtrWithDefault(len(items), req.At)
			items = domain.SpliceItem(items, item, at)
			// Splicing encodes the final positions; drop stale order values
			// before normalizing so they cannot reorder the list.
			for i, it := range items {
				it.Order = domain.IntPtr(i)
			}
			bucket.ReplaceItems(domain.Normalize(items))
			p.AttachBucket(bucket)
			p.UpdatedAt = now

			if err := tx.Set(ctx, p); err != nil {
				return err
			}
			result = &AddItemResult{Item: item, Days: p.Days}
			return nil
		})
	})
	s.observe(ctx, "add_item", planID, attempts, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateItem merges a partial patch into one item. Order and bucket
// membership are never touched, so no renormalization happens here.
func (s *planService) UpdateItem(ctx context.Context, planID string, day int, itemID string, patch domain.ItemPatch) (*domain.Item, error) {
	var updated *domain.Item
	attempts, err := s.runWithRetry(ctx, func(ctx context.Context) error {
		return s.plans.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
			p, err := s.readPlan(ctx, tx, planID)
			if err != nil {
				return err
			}
			item := p.Item(day, itemID)
			if item == nil {
				return fmt.Errorf("item %s in day %d: %w", itemID, day, ErrItemNotFound)
			}

			now := time.Now().UTC()
			patch.Apply(item, now)
			p.UpdatedAt = now

			if err := tx.Set(ctx, p); err != nil {
				return err
			}
			updated = item
			return nil
		})
	})
	s.observe(ctx, "update_item", planID, attempts, err)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteItem removes one item, pruning the bucket if it emptied. Surviving
// items keep their order values: a gap left by a bare delete is tolerated
// and closed by the next structural mutation of the bucket.
func (s *planService) DeleteItem(ctx context.Context, planID string, day int, itemID string) error {
	attempts, err := s.runWithRetry(ctx, func(ctx context.Context) error {
		return s.plans.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
			p, err := s.readPlan(ctx, tx, planID)
			if err != nil {
				return err
			}
			bucket, ok := p.Days[day]
			if !ok {
				return fmt.Errorf("item %s in day %d: %w", itemID, day, ErrItemNotFound)
			}
			if _, ok := bucket.Items[itemID]; !ok {
				return fmt.Errorf("item %s in day %d: %w", itemID, day, ErrItemNotFound)
			}
			delete(bucket.Items, itemID)
			p.PruneIfEmpty(day)
			p.UpdatedAt = time.Now().UTC()
			return tx.Set(ctx, p)
		})
	})
	s.observe(ctx, "delete_item", planID, attempts, err)
	return err
}

// MoveItem reorders an item within its day or relocates a task to another
// day. Both affected buckets are renormalized inside the same commit;
// sections are rejected before any write when the move crosses days.
func (s *planService) MoveItem(ctx context.Context, planID string, req MoveItemRequest) (*MoveItemResult, error) {
	var result *MoveItemResult
	attempts, err := s.runWithRetry(ctx, func(ctx context.Context) error {
		return s.plans.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
			p, err := s.readPlan(ctx, tx, planID)
			if err != nil {
				return err
			}
			item := p.Item(req.FromDay, req.ItemID)
			if item == nil {
				return fmt.Errorf("item %s in day %d: %w", req.ItemID, req.FromDay, ErrItemNotFound)
			}
			if req.FromDay != req.ToDay && item.Kind == domain.ItemSection {
				return fmt.Errorf("section %s: %w", req.ItemID, ErrInvalidMove)
			}

			now := time.Now().UTC()
			// Only tasks carry an assignee; a section reorder ignores the
			// override.
			if req.Assignee != nil && item.Kind == domain.ItemTask {
				item.Assignee = *req.Assignee
			}
			item.UpdatedAt = now

			source := p.Days[req.FromDay]
			remaining, _ := domain.RemoveItem(source.SortedItems(), req.ItemID)

			if req.FromDay == req.ToDay {
				at := domain.IntFromPtrWithDefault(len(remaining), req.At)
				items := domain.SpliceItem(remaining, item, at)
				for i, it := range items {
					it.Order = domain.IntPtr(i)
				}
				source.ReplaceItems(domain.Normalize(items))
			} else {
				source.ReplaceItems(domain.Normalize(remaining))
				p.PruneIfEmpty(req.FromDay)

				target := p.EnsureBucket(req.ToDay)
				items := target.SortedItems()
				at := domain.IntFromPtrWithDefault(len(items), req.At)
				items = domain.SpliceItem(items, item, at)
				for i, it := range items {
					it.Order = domain.IntPtr(i)
				}
				target.ReplaceItems(domain.Normalize(items))
				p.AttachBucket(target)
			}
			p.UpdatedAt = now

			if err := tx.Set(ctx, p); err != nil {
				return err
			}
			result = &MoveItemResult{Item: item, Days: p.Days}
			return nil
		})
	})
	s.observe(ctx, "move_item", planID, attempts, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Metrics projects per-collaborator totals from the plan's current tasks.
func (s *planService) Metrics(ctx context.Context, planID string) (*metrics.Summary, error) {
	p, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	var ownerA, ownerB string
	if len(p.Collaborators) > 0 {
		ownerA = p.Collaborators[0]
	}
	if len(p.Collaborators) > 1 {
		ownerB = p.Collaborators[1]
	}
	return metrics.Project(p.Tasks(), ownerA, ownerB), nil
}

func (s *planService) getPlan(ctx context.Context, id string) (*domain.Plan, error) {
	p, err := s.plans.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("plan %s: %w", id, ErrPlanNotFound)
		}
		return nil, err
	}
	return p, nil
}

// readPlan reads the aggregate inside a transaction, translating the store's
// not-found into the engine's PlanNotFound.
func (s *planService) readPlan(ctx context.Context, tx store.Tx, id string) (*domain.Plan, error) {
	p, err := tx.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("plan %s: %w", id, ErrPlanNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *planService) observe(ctx context.Context, name, planID string, attempts int, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:     name,
		PlanID:   planID,
		Attempts: attempts,
		Success:  err == nil,
		Err:      err,
	})
}
