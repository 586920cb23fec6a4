package domain

import (
	"fmt"
	"time"
)

// DaysPerWeek is the number of day slots a plan can hold (day indices 0-6).
const DaysPerWeek = 7

// Plan is the aggregate root: the single document that is the unit of
// transactional atomicity. All mutations to any bucket within a plan go
// through one read-modify-write of the whole document.
type Plan struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	IsTemplate    bool     `json:"isTemplate"`
	OwnerID       string   `json:"ownerId"`
	Collaborators []string `json:"collaborators,omitempty"`

	// Execution instances reference the template they were created from
	// and the Monday of the ISO week they cover. Both are empty/nil on
	// templates.
	TemplateID string     `json:"templateId,omitempty"`
	WeekStart  *time.Time `json:"weekStart,omitempty"`

	// Days maps day-of-week (0-6) to its bucket. Presence encodes
	// existence: an empty bucket is never stored, its key is removed.
	Days map[int]*DayBucket `json:"days,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DayBucket is a day-scoped ordered collection of items.
type DayBucket struct {
	ID    string           `json:"id"`
	Day   int              `json:"day"`
	Items map[string]*Item `json:"items"`
}

// BucketID derives the stable identifier for a plan's day bucket.
func BucketID(planID string, day int) string {
	return fmt.Sprintf("%s-day%d", planID, day)
}

// EnsureBucket returns the plan's bucket for the given day, synthesizing an
// empty one if absent. The synthesized bucket is not attached to the plan;
// callers attach it once it holds at least one item.
func (p *Plan) EnsureBucket(day int) *DayBucket {
	if b, ok := p.Days[day]; ok {
		return b
	}
	return &DayBucket{
		ID:    BucketID(p.ID, day),
		Day:   day,
		Items: make(map[string]*Item),
	}
}

// AttachBucket stores the bucket under its day, allocating the day map on
// first use.
func (p *Plan) AttachBucket(b *DayBucket) {
	if p.Days == nil {
		p.Days = make(map[int]*DayBucket)
	}
	p.Days[b.Day] = b
}

// PruneIfEmpty removes the day's bucket from the plan when it holds no
// items. A bucket exists if and only if it contains at least one item.
func (p *Plan) PruneIfEmpty(day int) {
	if b, ok := p.Days[day]; ok && len(b.Items) == 0 {
		delete(p.Days, day)
	}
}

// Item returns the item with the given id in the given day's bucket, or nil.
func (p *Plan) Item(day int, itemID string) *Item {
	b, ok := p.Days[day]
	if !ok {
		return nil
	}
	return b.Items[itemID]
}

// Tasks returns every task item across all buckets, in no particular order.
// Sections are excluded.
func (p *Plan) Tasks() []*Item {
	var tasks []*Item
	for _, b := range p.Days {
		for _, it := range b.Items {
			if it.Kind == ItemTask {
				tasks = append(tasks, it)
			}
		}
	}
	return tasks
}
