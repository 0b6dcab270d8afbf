// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package dlist provides an intrusive circular doubly-linked list.
// A Node is embedded in the struct that needs list membership, which
// gives O(1) insertion and removal without extra allocations.
package dlist

// Node is a list link. A Node used as the anchor of a list is a
// sentinel and does not belong to any element.
type Node struct {
	prev, next *Node
}

// Init makes n an empty list (or a detached element).
func (n *Node) Init() {
	n.prev = n
	n.next = n
}

// Empty reports whether the list anchored at n has no elements.
func (n *Node) Empty() bool {
	return n.next == n
}

// Next returns the successor of n. For a sentinel this is the head.
func (n *Node) Next() *Node {
	return n.next
}

// Prev returns the predecessor of n. For a sentinel this is the tail.
func (n *Node) Prev() *Node {
	return n.prev
}

// Detach unlinks n from whatever list it is on and resets it.
func (n *Node) Detach() {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = n
	n.next = n
}

// InsertBefore links node in front of target. Inserting before a
// sentinel appends node at the tail of the list.
func InsertBefore(target, node *Node) {
	prev := target.prev
	prev.next = node
	node.prev = prev
	node.next = target
	target.prev = node
}
