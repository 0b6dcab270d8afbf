// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package avl provides a self-balancing ordered tree with subtree
// counts, intended to be embedded in a containing struct. The tree
// itself carries no keys: the caller attaches a new leaf at the
// position chosen by its own comparator and then calls Fix on it.
// The subtree counts make rank walks possible, see Offset.
package avl

// Node is an ordered-tree link with height and size augmentations.
type Node struct {
	Parent, Left, Right *Node
	height, cnt         uint32
}

// Init resets n to a detached single-node subtree.
func (n *Node) Init() {
	*n = Node{height: 1, cnt: 1}
}

// Height returns the height of the subtree rooted at n, zero for nil.
func Height(n *Node) uint32 {
	if n != nil {
		return n.height
	}
	return 0
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n *Node) uint32 {
	if n != nil {
		return n.cnt
	}
	return 0
}

// update restores the augmentations of n from its children.
func (n *Node) update() {
	n.height = 1 + max(Height(n.Left), Height(n.Right))
	n.cnt = 1 + Count(n.Left) + Count(n.Right)
}

func rotLeft(node *Node) *Node {
	parent := node.Parent
	newNode := node.Right
	inner := newNode.Left
	node.Right = inner
	if inner != nil {
		inner.Parent = node
	}
	newNode.Parent = parent
	newNode.Left = node
	node.Parent = newNode
	node.update()
	newNode.update()
	return newNode
}

func rotRight(node *Node) *Node {
	parent := node.Parent
	newNode := node.Left
	inner := newNode.Right
	node.Left = inner
	if inner != nil {
		inner.Parent = node
	}
	newNode.Parent = parent
	newNode.Right = node
	node.Parent = newNode
	node.update()
	newNode.update()
	return newNode
}

// fixLeft handles a left subtree that is taller by two.
func fixLeft(node *Node) *Node {
	if Height(node.Left.Left) < Height(node.Left.Right) {
		node.Left = rotLeft(node.Left)
	}
	return rotRight(node)
}

// fixRight handles a right subtree that is taller by two.
func fixRight(node *Node) *Node {
	if Height(node.Right.Right) < Height(node.Right.Left) {
		node.Right = rotRight(node.Right)
	}
	return rotLeft(node)
}

// Fix restores the augmentations and the balance invariant on the
// path from node to the root. It returns the new root. Call it after
// attaching a leaf or splicing out a node.
func Fix(node *Node) *Node {
	for {
		fixed := node
		parent := node.Parent
		node.update()
		l := Height(node.Left)
		r := Height(node.Right)
		if l == r+2 {
			fixed = fixLeft(node)
		} else if l+2 == r {
			fixed = fixRight(node)
		}
		if parent == nil {
			return fixed
		}
		if parent.Left == node {
			parent.Left = fixed
		} else {
			parent.Right = fixed
		}
		node = parent
	}
}

// delEasy splices out a node with at most one child and rebalances
// from its parent. It returns the new root.
func delEasy(node *Node) *Node {
	child := node.Left
	if child == nil {
		child = node.Right
	}
	parent := node.Parent
	if child != nil {
		child.Parent = parent
	}
	if parent == nil {
		return child
	}
	if parent.Left == node {
		parent.Left = child
	} else {
		parent.Right = child
	}
	return Fix(parent)
}

// Del detaches node from the tree and returns the new root. A node
// with two children is first swapped with its in-order successor so
// that the detach point has at most one child.
func Del(node *Node) *Node {
	if node.Left == nil || node.Right == nil {
		return delEasy(node)
	}
	victim := node.Right
	for victim.Left != nil {
		victim = victim.Left
	}
	root := delEasy(victim)
	// The successor takes over node's links and augmentations.
	*victim = *node
	if victim.Left != nil {
		victim.Left.Parent = victim
	}
	if victim.Right != nil {
		victim.Right.Parent = victim
	}
	parent := node.Parent
	if parent == nil {
		return victim
	}
	if parent.Left == node {
		parent.Left = victim
	} else {
		parent.Right = victim
	}
	return root
}

// Offset returns the node offset positions after node in tree order
// (negative offsets walk backwards), or nil when the target rank is
// out of range. It runs in O(log N) using the subtree counts.
func Offset(node *Node, offset int64) *Node {
	pos := int64(0) // rank of node relative to the starting node
	for offset != pos {
		if pos < offset && pos+int64(Count(node.Right)) >= offset {
			// the target is inside the right subtree
			node = node.Right
			pos += int64(Count(node.Left)) + 1
		} else if pos > offset && pos-int64(Count(node.Left)) <= offset {
			// the target is inside the left subtree
			node = node.Left
			pos -= int64(Count(node.Right)) + 1
		} else {
			// go to the parent
			parent := node.Parent
			if parent == nil {
				return nil
			}
			if parent.Right == node {
				pos -= int64(Count(node.Left)) + 1
			} else {
				pos += int64(Count(node.Right)) + 1
			}
			node = parent
		}
	}
	return node
}
