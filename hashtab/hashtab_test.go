// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package hashtab

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/cespare/xxhash/v2"
)

type strNode struct {
	node Node
	key  string
	val  int
}

func newStrNode(key string, val int) *strNode {
	n := &strNode{key: key, val: val}
	n.node.HCode = xxhash.Sum64String(key)
	return n
}

type index struct {
	m     Map
	owner map[*Node]*strNode
}

func newIndex() *index {
	return &index{owner: make(map[*Node]*strNode)}
}

func (ix *index) eq(key string) func(*Node) bool {
	return func(n *Node) bool { return ix.owner[n].key == key }
}

func (ix *index) insert(key string, val int) {
	n := newStrNode(key, val)
	ix.owner[&n.node] = n
	ix.m.Insert(&n.node)
}

func (ix *index) lookup(key string) (*strNode, bool) {
	n := ix.m.Lookup(xxhash.Sum64String(key), ix.eq(key))
	if n == nil {
		return nil, false
	}
	return ix.owner[n], true
}

func (ix *index) del(key string) bool {
	n := ix.m.Delete(xxhash.Sum64String(key), ix.eq(key))
	if n == nil {
		return false
	}
	delete(ix.owner, n)
	return true
}

func TestInsertLookupDelete(t *testing.T) {
	ix := newIndex()
	if _, ok := ix.lookup("missing"); ok {
		t.Fatal("lookup on empty map succeeded")
	}
	ix.insert("a", 1)
	ix.insert("b", 2)
	n, ok := ix.lookup("a")
	if !ok || n.val != 1 {
		t.Fatalf("lookup a = %v, %t", n, ok)
	}
	if !ix.del("a") {
		t.Fatal("delete a failed")
	}
	if _, ok := ix.lookup("a"); ok {
		t.Fatal("a still present after delete")
	}
	if ix.del("a") {
		t.Fatal("second delete of a succeeded")
	}
	if ix.m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", ix.m.Len())
	}
}

// TestMigration inserts enough entries to trigger several resizes,
// spot-checks after every insert that a few earlier keys are still
// found, including while the older table is still draining, and
// finally checks the count and that an absent key is not found.
func TestMigration(t *testing.T) {
	ix := newIndex()
	const n = 10000
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		ix.insert(key, i)
		// spot-check a few existing keys mid-migration
		for j := i / 2; j < i/2+3 && j <= i; j++ {
			want := fmt.Sprintf("key-%d", j)
			got, ok := ix.lookup(want)
			if !ok || got.val != j {
				t.Fatalf("after %d inserts, lookup(%q) = %v, %t", i+1, want, got, ok)
			}
		}
	}
	if ix.m.Len() != n {
		t.Fatalf("Len = %d, want %d", ix.m.Len(), n)
	}
	if _, ok := ix.lookup("key-x"); ok {
		t.Fatal("lookup of absent key succeeded")
	}
}

func TestForEachVisitsEachOnce(t *testing.T) {
	ix := newIndex()
	const n = 1000
	for i := 0; i < n; i++ {
		ix.insert(fmt.Sprintf("key-%d", i), i)
	}
	seen := make(map[string]int)
	ix.m.ForEach(func(node *Node) bool {
		seen[ix.owner[node].key]++
		return true
	})
	if len(seen) != n {
		t.Fatalf("ForEach visited %d distinct keys, want %d", len(seen), n)
	}
	for key, count := range seen {
		if count != 1 {
			t.Fatalf("key %q visited %d times", key, count)
		}
	}
}

func TestForEachStopsEarly(t *testing.T) {
	ix := newIndex()
	for i := 0; i < 100; i++ {
		ix.insert(fmt.Sprintf("key-%d", i), i)
	}
	visited := 0
	ix.m.ForEach(func(*Node) bool {
		visited++
		return visited < 10
	})
	if visited != 10 {
		t.Fatalf("visited %d nodes, want 10", visited)
	}
}

func TestRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ix := newIndex()
	ref := make(map[string]int)
	for i := 0; i < 20000; i++ {
		key := fmt.Sprintf("k%d", rng.Intn(3000))
		switch rng.Intn(3) {
		case 0:
			if _, ok := ref[key]; !ok {
				ref[key] = i
				ix.insert(key, i)
			}
		case 1:
			got, ok := ix.lookup(key)
			want, wantOK := ref[key]
			if ok != wantOK || (ok && got.val != want) {
				t.Fatalf("lookup(%q) = %v, %t; want %d, %t", key, got, ok, want, wantOK)
			}
		case 2:
			_, existed := ref[key]
			if ix.del(key) != existed {
				t.Fatalf("delete(%q) disagreed with reference", key)
			}
			delete(ref, key)
		}
	}
	if ix.m.Len() != len(ref) {
		t.Fatalf("Len = %d, want %d", ix.m.Len(), len(ref))
	}
}
