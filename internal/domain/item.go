package domain

import "time"

// ItemKind discriminates the two item variants a bucket holds.
type ItemKind string

const (
	// ItemTask is a schedulable unit of work with duration, assignee,
	// and completion state.
	ItemTask ItemKind = "task"
	// ItemSection is a pure grouping marker. It carries a display color
	// and nothing else beyond the envelope, and its bucket membership is
	// fixed at creation.
	ItemSection ItemKind = "section"
)

// Item is one entry in a day bucket: either a task or a section. The
// envelope fields (id, title, order, timestamps) are shared; the variant
// fields below the envelope apply only to the kind noted on their group.
type Item struct {
	ID    string   `json:"id"`
	Kind  ItemKind `json:"kind"`
	Title string   `json:"title"`

	// Order is the item's position within its bucket, 0-based and dense
	// after every structural mutation. Nil models legacy documents whose
	// items predate explicit ordering; the normalizer resolves it.
	Order *int `json:"order,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Task fields. Assignee is a collaborator id or "" for unassigned.
	DurationMin int    `json:"durationMin,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Done        bool   `json:"done,omitempty"`
	CategoryID  string `json:"categoryId,omitempty"`
	Note        string `json:"note,omitempty"`

	// Section fields.
	Color string `json:"color,omitempty"`
}

// OrderValue returns the item's order, or -1 when unset.
func (it *Item) OrderValue() int {
	if it.Order == nil {
		return -1
	}
	return *it.Order
}

// NewItemInput is the caller-supplied payload for creating an item. The
// engine assigns id, order, and timestamps.
type NewItemInput struct {
	Kind        ItemKind
	Title       string
	DurationMin int
	Assignee    string
	CategoryID  string
	Note        string
	Color       string
}

// NewItem builds an item from input. An empty kind defaults to task. Fields
// belonging to the other variant are dropped: a section never carries
// duration, assignee, completion state, category, or note, and a task never
// carries a color.
func NewItem(id string, in NewItemInput, now time.Time) *Item {
	it := &Item{
		ID:        id,
		Kind:      in.Kind,
		Title:     in.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if it.Kind == "" {
		it.Kind = ItemTask
	}
	if it.Kind == ItemSection {
		it.Color = in.Color
		return it
	}
	it.DurationMin = in.DurationMin
	it.Assignee = in.Assignee
	it.CategoryID = in.CategoryID
	it.Note = in.Note
	return it
}

// ItemPatch is a partial update applied to an existing item. Nil fields are
// left untouched. Clearing the assignee or category is distinct from
// omitting them, so each has an explicit flag.
type ItemPatch struct {
	Title       *string
	DurationMin *int
	Assignee    *string
	Done        *bool
	CategoryID  *string
	Note        *string
	Color       *string

	ClearAssignee bool
	ClearCategory bool
}

// Apply merges the patch into the item and stamps UpdatedAt. Order and
// bucket membership are never touched by a patch. Fields belonging to the
// other variant are ignored: a section accepts only title and color, a task
// everything but color.
func (p ItemPatch) Apply(it *Item, now time.Time) {
	it.Title = StrFromPtrWithDefault(it.Title, p.Title)
	it.UpdatedAt = now

	if it.Kind == ItemSection {
		it.Color = StrFromPtrWithDefault(it.Color, p.Color)
		return
	}

	it.DurationMin = IntFromPtrWithDefault(it.DurationMin, p.DurationMin)
	it.Done = BoolFromPtrWithDefault(it.Done, p.Done)
	it.Note = StrFromPtrWithDefault(it.Note, p.Note)

	switch {
	case p.ClearAssignee:
		it.Assignee = ""
	case p.Assignee != nil:
		it.Assignee = *p.Assignee
	}
	switch {
	case p.ClearCategory:
		it.CategoryID = ""
	case p.CategoryID != nil:
		it.CategoryID = *p.CategoryID
	}
}
