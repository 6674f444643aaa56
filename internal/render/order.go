package render

import "sync"

// VancouverOrder maps source ids to 1-based sequence numbers in the order
// the sources first appear in one document. It is safe for concurrent use
// but must not be shared between documents.
type VancouverOrder struct {
	mu   sync.Mutex
	pos  map[string]int
	next int
}

// NewVancouverOrder returns an order seeded with ids in document order.
// A repeated id keeps its first position.
func NewVancouverOrder(ids ...string) *VancouverOrder {
	o := &VancouverOrder{pos: make(map[string]int)}
	o.Append(ids...)
	return o
}

// Append adds ids not yet numbered after the existing ones. Numbers already
// handed out never change.
func (o *VancouverOrder) Append(ids ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, id := range ids {
		o.assignLocked(id)
	}
}

// Position returns the number of id, if numbered.
func (o *VancouverOrder) Position(id string) (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	n, ok := o.pos[id]
	return n, ok
}

// Assign returns the number of id, numbering it next if it has none yet.
func (o *VancouverOrder) Assign(id string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.assignLocked(id)
}

func (o *VancouverOrder) assignLocked(id string) int {
	if o.pos == nil {
		o.pos = make(map[string]int)
	}
	if n, ok := o.pos[id]; ok {
		return n
	}
	o.next++
	o.pos[id] = o.next
	return o.next
}

// Reset forgets every number.
func (o *VancouverOrder) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pos = make(map[string]int)
	o.next = 0
}

// Len returns how many ids are numbered.
func (o *VancouverOrder) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pos)
}
