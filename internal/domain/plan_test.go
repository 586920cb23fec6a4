package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlan() *Plan {
	now := time.Now().UTC()
	return &Plan{ID: "plan-1", Name: "Week", CreatedAt: now, UpdatedAt: now}
}

func TestEnsureBucket_SynthesizesDetached(t *testing.T) {
	p := newPlan()

	b := p.EnsureBucket(3)
	assert.Equal(t, "plan-1-day3", b.ID)
	assert.Equal(t, 3, b.Day)
	assert.Empty(t, b.Items)
	assert.NotContains(t, p.Days, 3, "synthesized bucket must not attach itself")

	p.AttachBucket(b)
	assert.Same(t, b, p.Days[3])
	assert.Same(t, b, p.EnsureBucket(3))
}

func TestPruneIfEmpty(t *testing.T) {
	p := newPlan()
	b := p.EnsureBucket(2)
	it := &Item{ID: "x", Kind: ItemTask, Title: "X", Order: IntPtr(0)}
	b.Items[it.ID] = it
	p.AttachBucket(b)

	p.PruneIfEmpty(2)
	assert.Contains(t, p.Days, 2, "non-empty bucket stays")

	delete(b.Items, "x")
	p.PruneIfEmpty(2)
	assert.NotContains(t, p.Days, 2, "empty bucket is removed")

	// Pruning an absent day is a no-op.
	p.PruneIfEmpty(5)
}

func TestPlanItemLookup(t *testing.T) {
	p := newPlan()
	b := p.EnsureBucket(1)
	it := &Item{ID: "x", Kind: ItemTask, Title: "X"}
	b.Items[it.ID] = it
	p.AttachBucket(b)

	assert.Same(t, it, p.Item(1, "x"))
	assert.Nil(t, p.Item(1, "missing"))
	assert.Nil(t, p.Item(4, "x"))
}

func TestPlanTasks_ExcludesSections(t *testing.T) {
	p := newPlan()
	b := p.EnsureBucket(0)
	b.Items["t"] = &Item{ID: "t", Kind: ItemTask, Title: "task"}
	b.Items["s"] = &Item{ID: "s", Kind: ItemSection, Title: "section"}
	p.AttachBucket(b)

	tasks := p.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "task", tasks[0].Title)
}

func TestItemPatch_Apply(t *testing.T) {
	now := time.Now().UTC()
	it := &Item{
		ID:          "x",
		Kind:        ItemTask,
		Title:       "Old",
		DurationMin: 30,
		Assignee:    "alice",
		CategoryID:  "cat-1",
		Note:        "keep",
	}

	patch := ItemPatch{
		Title:       StrPtr("New"),
		DurationMin: IntPtr(45),
		Done:        BoolPtr(true),
	}
	patch.Apply(it, now)

	assert.Equal(t, "New", it.Title)
	assert.Equal(t, 45, it.DurationMin)
	assert.True(t, it.Done)
	assert.Equal(t, "alice", it.Assignee, "unpatched field untouched")
	assert.Equal(t, "keep", it.Note)
	assert.Equal(t, now, it.UpdatedAt)
}

func TestItemPatch_ClearFlags(t *testing.T) {
	it := &Item{ID: "x", Kind: ItemTask, Assignee: "bob", CategoryID: "cat-1"}

	ItemPatch{ClearAssignee: true, ClearCategory: true}.Apply(it, time.Now().UTC())

	assert.Empty(t, it.Assignee)
	assert.Empty(t, it.CategoryID)
}

func TestItemPatch_ClearBeatsOverride(t *testing.T) {
	it := &Item{ID: "x", Kind: ItemTask, Assignee: "bob"}

	// Clear takes precedence when both are set.
	ItemPatch{Assignee: StrPtr("alice"), ClearAssignee: true}.Apply(it, time.Now().UTC())
	assert.Empty(t, it.Assignee)
}

func TestNewItem_DefaultsKindTask(t *testing.T) {
	now := time.Now().UTC()
	it := NewItem("x", NewItemInput{Title: "T"}, now)

	assert.Equal(t, ItemTask, it.Kind)
	assert.Equal(t, now, it.CreatedAt)
	assert.Nil(t, it.Order, "order is assigned by the mutation, not the constructor")
}

func TestNewItem_SectionDropsTaskFields(t *testing.T) {
	it := NewItem("x", NewItemInput{
		Kind:        ItemSection,
		Title:       "Morning",
		Color:       "#fabd2f",
		DurationMin: 45,
		Assignee:    "bob",
		CategoryID:  "cat-1",
		Note:        "ignored",
	}, time.Now().UTC())

	assert.Equal(t, "#fabd2f", it.Color)
	assert.Zero(t, it.DurationMin)
	assert.Empty(t, it.Assignee)
	assert.Empty(t, it.CategoryID)
	assert.Empty(t, it.Note)
}

func TestNewItem_TaskDropsColor(t *testing.T) {
	it := NewItem("x", NewItemInput{
		Kind:        ItemTask,
		Title:       "T",
		DurationMin: 30,
		Color:       "#fabd2f",
	}, time.Now().UTC())

	assert.Equal(t, 30, it.DurationMin)
	assert.Empty(t, it.Color)
}

func TestItemPatch_SectionIgnoresTaskFields(t *testing.T) {
	it := &Item{ID: "s", Kind: ItemSection, Title: "Morning", Color: "#fabd2f"}

	ItemPatch{
		Title:       StrPtr("Renamed"),
		Done:        BoolPtr(true),
		DurationMin: IntPtr(90),
		Assignee:    StrPtr("alice"),
		Note:        StrPtr("nope"),
		Color:       StrPtr("#8ec07c"),
	}.Apply(it, time.Now().UTC())

	assert.Equal(t, "Renamed", it.Title)
	assert.Equal(t, "#8ec07c", it.Color)
	assert.False(t, it.Done)
	assert.Zero(t, it.DurationMin)
	assert.Empty(t, it.Assignee)
	assert.Empty(t, it.Note)
}

func TestItemPatch_TaskIgnoresColor(t *testing.T) {
	it := &Item{ID: "t", Kind: ItemTask, Title: "T"}

	ItemPatch{Color: StrPtr("#8ec07c"), Done: BoolPtr(true)}.Apply(it, time.Now().UTC())

	assert.Empty(t, it.Color)
	assert.True(t, it.Done)
}

func TestClonePlan_PreservesItemsAndOrder(t *testing.T) {
	now := time.Now().UTC()
	src := &Plan{
		ID:            "tmpl-1",
		Name:          "Template",
		IsTemplate:    true,
		OwnerID:       "owner",
		Collaborators: []string{"alice", "bob"},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	b := src.EnsureBucket(1)
	b.Items["a"] = &Item{ID: "a", Kind: ItemTask, Title: "A", Order: IntPtr(0)}
	b.Items["s"] = &Item{ID: "s", Kind: ItemSection, Title: "S", Order: IntPtr(1), Color: "#fabd2f"}
	src.AttachBucket(b)

	week := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	clone := ClonePlan(src, "plan-2", "Week 36", false, &week, now)

	assert.Equal(t, "plan-2", clone.ID)
	assert.Equal(t, "Week 36", clone.Name)
	assert.False(t, clone.IsTemplate)
	assert.Equal(t, "tmpl-1", clone.TemplateID)
	require.NotNil(t, clone.WeekStart)
	assert.Equal(t, week, *clone.WeekStart)

	require.Contains(t, clone.Days, 1)
	cb := clone.Days[1]
	assert.Equal(t, "plan-2-day1", cb.ID, "bucket id re-derived for the clone")
	require.Len(t, cb.Items, 2)
	assert.Equal(t, 0, cb.Items["a"].OrderValue())
	assert.Equal(t, 1, cb.Items["s"].OrderValue())

	// Deep copy: mutating the clone leaves the source alone.
	cb.Items["a"].Title = "changed"
	assert.Equal(t, "A", src.Days[1].Items["a"].Title)
}

func TestClonePlan_TemplateToTemplateKeepsNoRef(t *testing.T) {
	src := &Plan{ID: "tmpl-1", IsTemplate: true}
	clone := ClonePlan(src, "tmpl-2", "Copy", true, nil, time.Now().UTC())
	assert.True(t, clone.IsTemplate)
	assert.Empty(t, clone.TemplateID)
}

func TestCopyPlan_Independent(t *testing.T) {
	p := newPlan()
	b := p.EnsureBucket(0)
	b.Items["a"] = &Item{ID: "a", Kind: ItemTask, Title: "A", Order: IntPtr(0)}
	p.AttachBucket(b)

	cp := CopyPlan(p)
	cp.Days[0].Items["a"].Order = IntPtr(9)
	cp.Name = "other"

	assert.Equal(t, 0, p.Days[0].Items["a"].OrderValue())
	assert.Equal(t, "Week", p.Name)
}
