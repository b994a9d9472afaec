package queue

// Head is the current front of one sorted list in a k-way merge.
type Head struct {
	Key  uint32 // Key is the value at the front of the list.
	List int    // List is the index of the list the key came from.
	Pos  int    // Pos is the position of Key within its list.
}

// HeadQueue is a min-heap of list heads ordered by Key, then by List.
// Value-based storage, no pointer indirection.
type HeadQueue struct {
	items []Head
}

// NewMin initializes a new head queue.
func NewMin(capacity int) *HeadQueue {
	return &HeadQueue{
		items: make([]Head, 0, capacity),
	}
}

// TopItem returns the smallest head.
func (q *HeadQueue) TopItem() (Head, bool) {
	if len(q.items) == 0 {
		return Head{}, false
	}
	return q.items[0], true
}

// PushItem inserts a head while maintaining the heap invariant.
func (q *HeadQueue) PushItem(h Head) {
	q.items = append(q.items, h)
	q.siftUp(len(q.items) - 1)
}

// PopItem removes and returns the smallest head.
func (q *HeadQueue) PopItem() (Head, bool) {
	n := len(q.items)
	if n == 0 {
		return Head{}, false
	}
	root := q.items[0]
	last := q.items[n-1]
	q.items = q.items[:n-1]
	if n-1 > 0 {
		q.items[0] = last
		q.siftDown(0)
	}
	return root, true
}

// ReplaceTop overwrites the smallest head and restores the heap invariant.
// It is cheaper than PopItem followed by PushItem.
func (q *HeadQueue) ReplaceTop(h Head) {
	q.items[0] = h
	q.siftDown(0)
}

func (q *HeadQueue) less(i, j int) bool {
	a, b := q.items[i], q.items[j]
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.List < b.List
}

func (q *HeadQueue) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.less(i, p) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *HeadQueue) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		r := l + 1
		if r < n && q.less(r, l) {
			best = r
		}
		if !q.less(best, i) {
			return
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}

// Len returns the number of heads in the queue.
func (q *HeadQueue) Len() int { return len(q.items) }
