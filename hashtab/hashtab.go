// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package hashtab provides an intrusive chained hash table with
// progressive rehashing. A Node is embedded in the keyed struct; the
// table never allocates per entry and never blocks a caller for more
// than a bounded migration step.
package hashtab

const (
	// rehashingWork bounds how many entries a single operation moves
	// from the older table to the newer one.
	rehashingWork = 128
	// maxLoadFactor triggers a resize once entries exceed
	// buckets * maxLoadFactor in the active table.
	maxLoadFactor = 8
)

// Node is a hash-table link. The caller computes HCode from its key
// before inserting and keeps it stable while the node is in a Map.
type Node struct {
	next  *Node
	HCode uint64
}

// table is one fixed-size array of chained buckets. The bucket count
// is always a power of two so the mask replaces a modulo.
type table struct {
	slots []*Node
	mask  uint64
	size  int
}

func (t *table) init(n int) {
	t.slots = make([]*Node, n)
	t.mask = uint64(n - 1)
	t.size = 0
}

func (t *table) insert(node *Node) {
	pos := node.HCode & t.mask
	node.next = t.slots[pos]
	t.slots[pos] = node
	t.size++
}

// lookup returns the address of the link pointing at the matching
// node, which is what detach needs to unlink it in O(1).
func (t *table) lookup(hcode uint64, eq func(*Node) bool) **Node {
	if t.slots == nil {
		return nil
	}
	from := &t.slots[hcode&t.mask]
	for *from != nil {
		if (*from).HCode == hcode && eq(*from) {
			return from
		}
		from = &(*from).next
	}
	return nil
}

func (t *table) detach(from **Node) *Node {
	node := *from
	*from = node.next
	node.next = nil
	t.size--
	return node
}

// Map is the progressive-rehashing table. During a migration two
// tables coexist: inserts go to newer, lookups and deletes consult
// newer then older, and every operation moves a bounded batch of
// entries out of older.
type Map struct {
	newer      table
	older      table
	migratePos uint64
}

func (m *Map) helpRehashing() {
	nwork := 0
	for nwork < rehashingWork && m.older.size > 0 {
		from := &m.older.slots[m.migratePos]
		if *from == nil {
			m.migratePos++
			continue
		}
		m.newer.insert(m.older.detach(from))
		nwork++
	}
	if m.older.size == 0 && m.older.slots != nil {
		// migration done, release the older table
		m.older = table{}
		m.migratePos = 0
	}
}

func (m *Map) triggerRehashing() {
	m.older = m.newer
	m.newer = table{}
	m.newer.init(len(m.older.slots) * 2)
	m.migratePos = 0
}

// Lookup finds the node with the given hash code for which eq returns
// true, or nil.
func (m *Map) Lookup(hcode uint64, eq func(*Node) bool) *Node {
	m.helpRehashing()
	if from := m.newer.lookup(hcode, eq); from != nil {
		return *from
	}
	if from := m.older.lookup(hcode, eq); from != nil {
		return *from
	}
	return nil
}

// Insert adds node to the map. The caller must have set node.HCode
// and guarantees the key is not already present.
func (m *Map) Insert(node *Node) {
	if m.newer.slots == nil {
		m.newer.init(4)
	}
	m.newer.insert(node)
	if m.older.slots == nil && m.newer.size > len(m.newer.slots)*maxLoadFactor {
		m.triggerRehashing()
	}
	m.helpRehashing()
}

// Delete detaches and returns the matching node, or nil.
func (m *Map) Delete(hcode uint64, eq func(*Node) bool) *Node {
	m.helpRehashing()
	if from := m.newer.lookup(hcode, eq); from != nil {
		return m.newer.detach(from)
	}
	if from := m.older.lookup(hcode, eq); from != nil {
		return m.older.detach(from)
	}
	return nil
}

// Len returns the number of entries across both tables.
func (m *Map) Len() int {
	return m.newer.size + m.older.size
}

// ForEach visits every node in both tables until fn returns false.
// An entry lives in exactly one table at any instant, so each node is
// visited once even mid-migration.
func (m *Map) ForEach(fn func(*Node) bool) {
	for _, t := range []*table{&m.newer, &m.older} {
		for _, node := range t.slots {
			for ; node != nil; node = node.next {
				if !fn(node) {
					return
				}
			}
		}
	}
}

// Clear drops both tables without visiting the entries.
func (m *Map) Clear() {
	*m = Map{}
}
