// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package server

import (
	"unsafe"

	"github.com/Youmanvi/redisClone/hashtab"
	"github.com/Youmanvi/redisClone/minheap"
	"github.com/Youmanvi/redisClone/zset"
	"github.com/cespare/xxhash/v2"
)

type valueType uint8

const (
	typeStr valueType = iota
	typeZSet
)

// largeContainerSize is the member count above which a sorted set is
// destroyed by a worker instead of on the event loop.
const largeContainerSize = 1000

// Entry is one value cell of the keyspace. It is intrusively a node
// of the main index, and when it carries a TTL, heapIdx is the slot
// the TTL heap keeps up to date through its back-reference.
type Entry struct {
	node    hashtab.Node
	key     string
	typ     valueType
	str     []byte
	zset    *zset.Set
	heapIdx int // -1 when no TTL
}

func newEntry(key string, typ valueType) *Entry {
	ent := &Entry{key: key, typ: typ, heapIdx: -1}
	ent.node.HCode = xxhash.Sum64String(key)
	return ent
}

func entryOfNode(node *hashtab.Node) *Entry {
	return (*Entry)(unsafe.Add(unsafe.Pointer(node), -int(unsafe.Offsetof(Entry{}.node))))
}

func entryOfTTLRef(ref *int) *Entry {
	return (*Entry)(unsafe.Add(unsafe.Pointer(ref), -int(unsafe.Offsetof(Entry{}.heapIdx))))
}

func (s *Server) lookupEntry(key string) *Entry {
	node := s.db.Lookup(xxhash.Sum64String(key), func(n *hashtab.Node) bool {
		return entryOfNode(n).key == key
	})
	if node == nil {
		return nil
	}
	return entryOfNode(node)
}

// detachEntry removes ent from the main index. The caller still owns
// ent and must destroy it.
func (s *Server) detachEntry(ent *Entry) {
	s.db.Delete(ent.node.HCode, func(n *hashtab.Node) bool {
		return n == &ent.node
	})
}

// setTTL installs, rewrites or removes the TTL of ent. A negative
// ttlMs removes it.
func (s *Server) setTTL(ent *Entry, ttlMs int64) {
	if ttlMs < 0 {
		if ent.heapIdx != -1 {
			s.ttl.Remove(ent.heapIdx)
			ent.heapIdx = -1
		}
		return
	}
	expireAt := s.nowUs() + ttlMs*1000
	if ent.heapIdx == -1 {
		s.ttl.Push(minheap.Item{Deadline: expireAt, Ref: &ent.heapIdx})
	} else {
		s.ttl[ent.heapIdx].Deadline = expireAt
		s.ttl.Update(ent.heapIdx)
	}
}

// destroyEntry releases the value of an entry already detached from
// the main index. A large sorted set is handed to the worker pool:
// at this point it is reachable only through the queued task, so the
// workers never race the event loop.
func (s *Server) destroyEntry(ent *Entry) {
	s.setTTL(ent, -1)
	if ent.typ != typeZSet {
		return
	}
	zs := ent.zset
	ent.zset = nil
	if zs.Len() > largeContainerSize {
		s.pool.Enqueue(zs.Clear)
	} else {
		zs.Clear()
	}
}
