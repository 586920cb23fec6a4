package domain

import "sort"

// SortedItems returns the bucket's items ordered for display and splicing:
// items carrying an order value first, ascending, then items without one in
// map-independent (id) order. It does not modify the bucket.
func (b *DayBucket) SortedItems() []*Item {
	items := make([]*Item, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, it)
	}
	// Deterministic base order so the stable sort below is reproducible
	// regardless of map iteration.
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	sortByOrder(items)
	return items
}

// Normalize reassigns order values so they form the dense sequence 0..n-1.
// Items are first arranged by their existing order (ascending, stable), with
// items lacking an order placed after all that have one. The input slice is
// re-emitted with fresh order values; running Normalize on an already
// normalized list is a no-op.
func Normalize(items []*Item) []*Item {
	sortByOrder(items)
	for i, it := range items {
		it.Order = IntPtr(i)
	}
	return items
}

// sortByOrder stably sorts items by existing order ascending, keeping items
// without an order after those that have one and preserving their relative
// positions.
func sortByOrder(items []*Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Order, items[j].Order
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
}

// SpliceItem inserts it into items at index at, clamped to [0, len(items)].
func SpliceItem(items []*Item, it *Item, at int) []*Item {
	if at < 0 {
		at = 0
	}
	if at > len(items) {
		at = len(items)
	}
	items = append(items, nil)
	copy(items[at+1:], items[at:])
	items[at] = it
	return items
}

// RemoveItem removes the item with the given id, returning the shortened
// slice and the removed item (nil when absent).
func RemoveItem(items []*Item, id string) ([]*Item, *Item) {
	for i, it := range items {
		if it.ID == id {
			return append(items[:i], items[i+1:]...), it
		}
	}
	return items, nil
}

// ReplaceItems swaps the bucket's item map for the given items, which are
// expected to already carry normalized order values.
func (b *DayBucket) ReplaceItems(items []*Item) {
	m := make(map[string]*Item, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	b.Items = m
}
