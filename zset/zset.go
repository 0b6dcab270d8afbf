// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package zset provides a sorted set: a collection of weighted
// members indexed two ways at once. A hash table keyed by member name
// gives O(1) lookups, and an ordered tree keyed by (score, name)
// gives range queries and rank walks. Every member is one Node
// reachable from both indexes.
package zset

import (
	"unsafe"

	"github.com/Youmanvi/redisClone/avl"
	"github.com/Youmanvi/redisClone/hashtab"
	"github.com/cespare/xxhash/v2"
)

// Node is one member of a sorted set. It embeds both index links so
// that a member is a single allocation.
type Node struct {
	tree  avl.Node
	hnode hashtab.Node
	score float64
	name  string
}

// Name returns the member name.
func (n *Node) Name() string { return n.name }

// Score returns the member score.
func (n *Node) Score() float64 { return n.score }

func treeNodeOf(tree *avl.Node) *Node {
	return (*Node)(unsafe.Add(unsafe.Pointer(tree), -int(unsafe.Offsetof(Node{}.tree))))
}

func hashNodeOf(hnode *hashtab.Node) *Node {
	return (*Node)(unsafe.Add(unsafe.Pointer(hnode), -int(unsafe.Offsetof(Node{}.hnode))))
}

// less orders members by (score, name) ascending.
func (n *Node) less(score float64, name string) bool {
	if n.score != score {
		return n.score < score
	}
	return n.name < name
}

// Set is the dual-indexed sorted set. The zero value is an empty set.
type Set struct {
	root  *avl.Node
	index hashtab.Map
}

// Len returns the number of members.
func (s *Set) Len() int { return s.index.Len() }

func (s *Set) treeInsert(node *Node) {
	var parent *avl.Node
	from := &s.root
	for *from != nil {
		parent = *from
		p := treeNodeOf(parent)
		if node.less(p.score, p.name) {
			from = &parent.Left
		} else {
			from = &parent.Right
		}
	}
	*from = &node.tree
	node.tree.Parent = parent
	s.root = avl.Fix(&node.tree)
}

// treeDetach takes node out of the ordered tree only; the hash index
// is untouched, so the member keeps its O(1) lookup while its score
// changes.
func (s *Set) treeDetach(node *Node) {
	s.root = avl.Del(&node.tree)
	node.tree.Init()
}

// Add inserts the member or updates its score, and reports whether
// the member was newly added.
func (s *Set) Add(name string, score float64) bool {
	if node := s.Lookup(name); node != nil {
		if node.score != score {
			s.treeDetach(node)
			node.score = score
			s.treeInsert(node)
		}
		return false
	}
	node := &Node{score: score, name: name}
	node.tree.Init()
	node.hnode.HCode = xxhash.Sum64String(name)
	s.index.Insert(&node.hnode)
	s.treeInsert(node)
	return true
}

// Lookup finds a member by name, or nil.
func (s *Set) Lookup(name string) *Node {
	hnode := s.index.Lookup(xxhash.Sum64String(name), func(h *hashtab.Node) bool {
		return hashNodeOf(h).name == name
	})
	if hnode == nil {
		return nil
	}
	return hashNodeOf(hnode)
}

// Delete removes a member by name and reports whether it existed.
func (s *Set) Delete(name string) bool {
	hnode := s.index.Delete(xxhash.Sum64String(name), func(h *hashtab.Node) bool {
		return hashNodeOf(h).name == name
	})
	if hnode == nil {
		return false
	}
	node := hashNodeOf(hnode)
	s.root = avl.Del(&node.tree)
	return true
}

// SeekGE returns the smallest member whose (score, name) is greater
// than or equal to the argument, or nil.
func (s *Set) SeekGE(score float64, name string) *Node {
	var found *avl.Node
	for node := s.root; node != nil; {
		if treeNodeOf(node).less(score, name) {
			node = node.Right
		} else {
			found = node
			node = node.Left
		}
	}
	if found == nil {
		return nil
	}
	return treeNodeOf(found)
}

// Offset returns the member offset positions after node in
// (score, name) order, or nil when out of range.
func Offset(node *Node, offset int64) *Node {
	tree := avl.Offset(&node.tree, offset)
	if tree == nil {
		return nil
	}
	return treeNodeOf(tree)
}

// Clear disposes of every member. Large sets are cleared off the
// event loop by a worker, so Clear must not touch any shared state.
func (s *Set) Clear() {
	treeDispose(s.root)
	s.root = nil
	s.index.Clear()
}

func treeDispose(node *avl.Node) {
	if node == nil {
		return
	}
	treeDispose(node.Left)
	treeDispose(node.Right)
	node.Parent, node.Left, node.Right = nil, nil, nil
}
