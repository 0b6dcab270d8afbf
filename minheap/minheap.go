// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package minheap provides an array-backed binary min-heap whose
// items carry a back-reference into their owning struct. Whenever an
// item moves, the heap writes the new index through the reference, so
// the owner can update or remove its item in O(log N) without a
// search. The invariant is *h[i].Ref == i for every i.
package minheap

// Item is one heap slot: a deadline in microseconds and a pointer to
// the owner's index field.
type Item struct {
	Deadline int64
	Ref      *int
}

// Heap orders items by ascending Deadline. The zero value is ready to
// use.
type Heap []Item

func parent(i int) int { return (i - 1) / 2 }

func (h Heap) up(pos int) {
	t := h[pos]
	for pos > 0 && h[parent(pos)].Deadline > t.Deadline {
		h[pos] = h[parent(pos)]
		*h[pos].Ref = pos
		pos = parent(pos)
	}
	h[pos] = t
	*h[pos].Ref = pos
}

func (h Heap) down(pos int) {
	t := h[pos]
	for {
		l, r := pos*2+1, pos*2+2
		minPos, minDeadline := -1, t.Deadline
		if l < len(h) && h[l].Deadline < minDeadline {
			minPos, minDeadline = l, h[l].Deadline
		}
		if r < len(h) && h[r].Deadline < minDeadline {
			minPos = r
		}
		if minPos == -1 {
			break
		}
		h[pos] = h[minPos]
		*h[pos].Ref = pos
		pos = minPos
	}
	h[pos] = t
	*h[pos].Ref = pos
}

// Update restores heap order after the item at pos changed its
// deadline. It is a no-op if the item is already in place.
func (h Heap) Update(pos int) {
	if pos > 0 && h[parent(pos)].Deadline > h[pos].Deadline {
		h.up(pos)
	} else {
		h.down(pos)
	}
}

// Push appends item and sifts it up. The owner's index field is
// written before Push returns.
func (h *Heap) Push(item Item) {
	*h = append(*h, item)
	h.up(len(*h) - 1)
}

// Remove takes the item at pos out of the heap by swapping in the
// last element and restoring order.
func (h *Heap) Remove(pos int) {
	a := *h
	a[pos] = a[len(a)-1]
	*h = a[:len(a)-1]
	if pos < len(*h) {
		h.Update(pos)
	}
}

// Empty reports whether the heap has no items.
func (h Heap) Empty() bool { return len(h) == 0 }

// Top returns the item with the smallest deadline. The heap must not
// be empty.
func (h Heap) Top() Item { return h[0] }
