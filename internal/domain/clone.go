package domain

import "time"

// ClonePlan deep-copies src into a new plan with a fresh identifier. Item
// and bucket contents are copied wholesale: item ids and relative order are
// preserved so an execution instance lines up with its template. When src is
// a template and the clone is not, the clone records src as its template.
func ClonePlan(src *Plan, id, name string, asTemplate bool, weekStart *time.Time, now time.Time) *Plan {
	clone := &Plan{
		ID:            id,
		Name:          name,
		IsTemplate:    asTemplate,
		OwnerID:       src.OwnerID,
		Collaborators: append([]string(nil), src.Collaborators...),
		WeekStart:     copyTime(weekStart),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if !asTemplate && src.IsTemplate {
		clone.TemplateID = src.ID
	}
	if len(src.Days) > 0 {
		clone.Days = make(map[int]*DayBucket, len(src.Days))
		for day, b := range src.Days {
			clone.Days[day] = cloneBucket(b, id)
		}
	}
	return clone
}

// CopyPlan returns a deep copy of p with the same identifier, used by stores
// to hand out snapshots that callers may mutate freely.
func CopyPlan(p *Plan) *Plan {
	cp := *p
	cp.Collaborators = append([]string(nil), p.Collaborators...)
	cp.WeekStart = copyTime(p.WeekStart)
	if p.Days != nil {
		cp.Days = make(map[int]*DayBucket, len(p.Days))
		for day, b := range p.Days {
			nb := &DayBucket{ID: b.ID, Day: b.Day, Items: make(map[string]*Item, len(b.Items))}
			for id, it := range b.Items {
				nb.Items[id] = copyItem(it)
			}
			cp.Days[day] = nb
		}
	}
	return &cp
}

func cloneBucket(b *DayBucket, planID string) *DayBucket {
	nb := &DayBucket{
		ID:    BucketID(planID, b.Day),
		Day:   b.Day,
		Items: make(map[string]*Item, len(b.Items)),
	}
	for id, it := range b.Items {
		nb.Items[id] = copyItem(it)
	}
	return nb
}

func copyItem(it *Item) *Item {
	cp := *it
	if it.Order != nil {
		cp.Order = IntPtr(*it.Order)
	}
	return &cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
