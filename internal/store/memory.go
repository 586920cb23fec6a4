package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/raghavn86/TaskBuddy/internal/domain"
)

// MemoryStore is an in-process PlanStore with the same optimistic
// transaction semantics as the SQLite store. It backs tests and ephemeral
// runs.
type MemoryStore struct {
	mu      sync.Mutex
	plans   map[string]*domain.Plan
	version map[string]int64
}

// NewMemoryStore creates an empty in-memory plan store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		plans:   make(map[string]*domain.Plan),
		version: make(map[string]int64),
	}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return domain.CopyPlan(p), nil
}

func (s *MemoryStore) Set(ctx context.Context, p *domain.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = domain.CopyPlan(p)
	s.version[p.ID]++
	return nil
}

// Update merges top-level document fields by round-tripping the stored plan
// through its JSON form, mirroring a document database's partial update.
func (s *MemoryStore) Update(ctx context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	merged, err := mergeDocument(p, fields)
	if err != nil {
		return err
	}
	s.plans[id] = merged
	s.version[id]++
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*domain.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Plan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, domain.CopyPlan(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	delete(s.plans, id)
	delete(s.version, id)
	return nil
}

// RunTransaction hands fn a snapshot-reading, write-buffering handle and
// commits with compare-and-swap on every version read. A version moved by a
// concurrent commit fails the whole transaction with ErrConflict.
func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx := &memoryTx{store: s, read: make(map[string]int64)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *MemoryStore) commit(tx *memoryTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, seen := range tx.read {
		if s.version[id] != seen {
			return fmt.Errorf("plan %s: %w", id, ErrConflict)
		}
	}
	for _, p := range tx.writes {
		s.plans[p.ID] = domain.CopyPlan(p)
		s.version[p.ID]++
	}
	return nil
}

type memoryTx struct {
	store  *MemoryStore
	read   map[string]int64
	writes []*domain.Plan
}

func (tx *memoryTx) Get(ctx context.Context, id string) (*domain.Plan, error) {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	p, ok := tx.store.plans[id]
	if !ok {
		// Record the read of an absent document so a concurrent create
		// still conflicts the commit.
		tx.read[id] = tx.store.version[id]
		return nil, fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	tx.read[id] = tx.store.version[id]
	return domain.CopyPlan(p), nil
}

func (tx *memoryTx) Set(ctx context.Context, p *domain.Plan) error {
	tx.writes = append(tx.writes, domain.CopyPlan(p))
	return nil
}

// mergeDocument applies top-level field overrides to a plan via its JSON
// document form.
func mergeDocument(p *domain.Plan, fields map[string]any) (*domain.Plan, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding plan %s: %w", p.ID, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding plan %s: %w", p.ID, err)
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding merged plan %s: %w", p.ID, err)
	}
	var out domain.Plan
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, fmt.Errorf("decoding merged plan %s: %w", p.ID, err)
	}
	return &out, nil
}
