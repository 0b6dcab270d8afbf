// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package avl

import (
	"math/rand"
	"sort"
	"testing"
)

type intNode struct {
	val  int
	node Node
}

type tree struct {
	root  *Node
	owner map[*Node]*intNode
}

func newTree() *tree {
	return &tree{owner: make(map[*Node]*intNode)}
}

func (tr *tree) value(n *Node) int {
	return tr.owner[n].val
}

func (tr *tree) insert(val int) {
	in := &intNode{val: val}
	in.node.Init()
	tr.owner[&in.node] = in

	var parent *Node
	from := &tr.root
	for *from != nil {
		parent = *from
		if val < tr.value(parent) {
			from = &parent.Left
		} else {
			from = &parent.Right
		}
	}
	*from = &in.node
	in.node.Parent = parent
	tr.root = Fix(&in.node)
}

// del removes one node holding val and returns whether it was found.
func (tr *tree) del(val int) bool {
	cur := tr.root
	for cur != nil {
		v := tr.value(cur)
		if val == v {
			break
		}
		if val < v {
			cur = cur.Left
		} else {
			cur = cur.Right
		}
	}
	if cur == nil {
		return false
	}
	tr.root = Del(cur)
	delete(tr.owner, cur)
	return true
}

// verify checks the balance, augmentation and parent invariants and
// appends the in-order values to out.
func (tr *tree) verify(t *testing.T, node, parent *Node, out *[]int) {
	t.Helper()
	if node == nil {
		return
	}
	if node.Parent != parent {
		t.Fatalf("bad parent link at %d", tr.value(node))
	}
	tr.verify(t, node.Left, node, out)
	val := tr.value(node)
	*out = append(*out, val)
	tr.verify(t, node.Right, node, out)

	if Count(node) != 1+Count(node.Left)+Count(node.Right) {
		t.Fatalf("bad count at %d", val)
	}
	l, r := Height(node.Left), Height(node.Right)
	if Height(node) != 1+max(l, r) {
		t.Fatalf("bad height at %d", val)
	}
	diff := int(l) - int(r)
	if diff < -1 || diff > 1 {
		t.Fatalf("unbalanced at %d: left %d right %d", val, l, r)
	}
	if node.Left != nil && tr.value(node.Left) > val {
		t.Fatalf("order violated at %d", val)
	}
	if node.Right != nil && tr.value(node.Right) < val {
		t.Fatalf("order violated at %d", val)
	}
}

func (tr *tree) check(t *testing.T, want []int) {
	t.Helper()
	var got []int
	tr.verify(t, tr.root, nil, &got)
	if len(got) != len(want) {
		t.Fatalf("in-order walk has %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("in-order walk mismatch at %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSequentialInsert(t *testing.T) {
	tr := newTree()
	var want []int
	for i := 0; i < 200; i++ {
		tr.insert(i)
		want = append(want, i)
		tr.check(t, want)
	}
}

func TestRandomInsertDelete(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := newTree()
	var want []int
	for i := 0; i < 2000; i++ {
		val := rng.Intn(500)
		if rng.Intn(2) == 0 {
			tr.insert(val)
			want = append(want, val)
			sort.Ints(want)
		} else if tr.del(val) {
			pos := sort.SearchInts(want, val)
			want = append(want[:pos], want[pos+1:]...)
		}
		if i%50 == 0 {
			tr.check(t, want)
		}
	}
	tr.check(t, want)
}

func TestOffset(t *testing.T) {
	tr := newTree()
	const n = 128
	for i := 0; i < n; i++ {
		tr.insert(i)
	}
	// index every node by rank
	byRank := make([]*Node, 0, n)
	var walk func(*Node)
	walk = func(node *Node) {
		if node == nil {
			return
		}
		walk(node.Left)
		byRank = append(byRank, node)
		walk(node.Right)
	}
	walk(tr.root)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			got := Offset(byRank[i], int64(j-i))
			if got != byRank[j] {
				t.Fatalf("Offset(%d, %d) landed on %d", i, j-i, tr.value(got))
			}
		}
		if Offset(byRank[i], int64(n-i)) != nil {
			t.Fatalf("Offset(%d, %d) should be out of range", i, n-i)
		}
		if Offset(byRank[i], int64(-i-1)) != nil {
			t.Fatalf("Offset(%d, %d) should be out of range", i, -i-1)
		}
	}
}
