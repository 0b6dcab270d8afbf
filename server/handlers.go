// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package server

import (
	"fmt"
	"hash/maphash"
	"math"
	"strconv"

	"github.com/Youmanvi/redisClone/hashtab"
	"github.com/Youmanvi/redisClone/wire"
	"github.com/Youmanvi/redisClone/zset"
	"github.com/aristanetworks/gomap"
)

type command struct {
	arity int // including the verb
	fn    func(*Server, [][]byte) wire.Value
}

// commands maps a verb to its handler. Verbs are case-sensitive.
var commands = gomap.New[string, command](
	func(a, b string) bool { return a == b },
	maphash.String,
	gomap.KeyElem[string, command]{Key: "get", Elem: command{2, (*Server).cmdGet}},
	gomap.KeyElem[string, command]{Key: "set", Elem: command{3, (*Server).cmdSet}},
	gomap.KeyElem[string, command]{Key: "del", Elem: command{2, (*Server).cmdDel}},
	gomap.KeyElem[string, command]{Key: "pexpire", Elem: command{3, (*Server).cmdPexpire}},
	gomap.KeyElem[string, command]{Key: "pttl", Elem: command{2, (*Server).cmdPttl}},
	gomap.KeyElem[string, command]{Key: "zadd", Elem: command{4, (*Server).cmdZadd}},
	gomap.KeyElem[string, command]{Key: "zrem", Elem: command{3, (*Server).cmdZrem}},
	gomap.KeyElem[string, command]{Key: "zscore", Elem: command{3, (*Server).cmdZscore}},
	gomap.KeyElem[string, command]{Key: "zquery", Elem: command{6, (*Server).cmdZquery}},
	gomap.KeyElem[string, command]{Key: "keys", Elem: command{1, (*Server).cmdKeys}},
)

// doRequest executes one parsed request and returns the reply value.
// It never blocks.
func (s *Server) doRequest(args [][]byte) wire.Value {
	verb := string(args[0])
	cmd, ok := commands.Get(verb)
	if !ok {
		commandsTotal.WithLabelValues("unknown").Inc()
		return wire.Err{Code: wire.CodeUnknown, Msg: "unknown command."}
	}
	commandsTotal.WithLabelValues(verb).Inc()
	if len(args) != cmd.arity {
		return wire.Err{Code: wire.CodeBadArg,
			Msg: fmt.Sprintf("%s takes %d arguments", verb, cmd.arity-1)}
	}
	return cmd.fn(s, args)
}

func parseInt(arg []byte) (int64, bool) {
	v, err := strconv.ParseInt(string(arg), 10, 64)
	return v, err == nil
}

func parseFloat(arg []byte) (float64, bool) {
	v, err := strconv.ParseFloat(string(arg), 64)
	return v, err == nil && !math.IsNaN(v)
}

func (s *Server) cmdGet(args [][]byte) wire.Value {
	ent := s.lookupEntry(string(args[1]))
	if ent == nil {
		return wire.Nil{}
	}
	if ent.typ != typeStr {
		return wire.Err{Code: wire.CodeBadType, Msg: "not a string value"}
	}
	return wire.Str(ent.str)
}

func (s *Server) cmdSet(args [][]byte) wire.Value {
	key := string(args[1])
	if ent := s.lookupEntry(key); ent != nil {
		if ent.typ != typeStr {
			return wire.Err{Code: wire.CodeBadType, Msg: "a sorted set exists under this key"}
		}
		// args alias the incoming buffer, the value must be copied
		ent.str = append([]byte(nil), args[2]...)
		return wire.Nil{}
	}
	ent := newEntry(key, typeStr)
	ent.str = append([]byte(nil), args[2]...)
	s.db.Insert(&ent.node)
	return wire.Nil{}
}

func (s *Server) cmdDel(args [][]byte) wire.Value {
	ent := s.lookupEntry(string(args[1]))
	if ent == nil {
		return wire.Int(0)
	}
	s.detachEntry(ent)
	s.destroyEntry(ent)
	return wire.Int(1)
}

func (s *Server) cmdPexpire(args [][]byte) wire.Value {
	ttlMs, ok := parseInt(args[2])
	if !ok {
		return wire.Err{Code: wire.CodeBadArg, Msg: "expect int64"}
	}
	ent := s.lookupEntry(string(args[1]))
	if ent == nil {
		return wire.Int(0)
	}
	s.setTTL(ent, ttlMs)
	return wire.Int(1)
}

func (s *Server) cmdPttl(args [][]byte) wire.Value {
	ent := s.lookupEntry(string(args[1]))
	if ent == nil {
		return wire.Int(-2)
	}
	if ent.heapIdx == -1 {
		return wire.Int(-1)
	}
	remaining := (s.ttl[ent.heapIdx].Deadline - s.nowUs()) / 1000
	if remaining < 0 {
		remaining = 0
	}
	return wire.Int(remaining)
}

// expectZSet resolves a key to its sorted set. A missing key reads
// as an empty set; a string value is a type error.
func (s *Server) expectZSet(key string) (*zset.Set, wire.Value) {
	ent := s.lookupEntry(key)
	if ent == nil {
		return &emptyZSet, nil
	}
	if ent.typ != typeZSet {
		return nil, wire.Err{Code: wire.CodeBadType, Msg: "expect a sorted set"}
	}
	return ent.zset, nil
}

// emptyZSet backs reads of missing keys; nothing ever writes to it.
var emptyZSet zset.Set

func (s *Server) cmdZadd(args [][]byte) wire.Value {
	score, ok := parseFloat(args[2])
	if !ok {
		return wire.Err{Code: wire.CodeBadArg, Msg: "expect float"}
	}
	key := string(args[1])
	ent := s.lookupEntry(key)
	if ent == nil {
		ent = newEntry(key, typeZSet)
		ent.zset = &zset.Set{}
		s.db.Insert(&ent.node)
	} else if ent.typ != typeZSet {
		return wire.Err{Code: wire.CodeBadType, Msg: "expect a sorted set"}
	}
	if ent.zset.Add(string(args[3]), score) {
		return wire.Int(1)
	}
	return wire.Int(0)
}

func (s *Server) cmdZrem(args [][]byte) wire.Value {
	zs, errv := s.expectZSet(string(args[1]))
	if errv != nil {
		return errv
	}
	if zs.Delete(string(args[2])) {
		return wire.Int(1)
	}
	return wire.Int(0)
}

func (s *Server) cmdZscore(args [][]byte) wire.Value {
	zs, errv := s.expectZSet(string(args[1]))
	if errv != nil {
		return errv
	}
	node := zs.Lookup(string(args[2]))
	if node == nil {
		return wire.Nil{}
	}
	return wire.Dbl(node.Score())
}

func (s *Server) cmdZquery(args [][]byte) wire.Value {
	score, ok := parseFloat(args[2])
	if !ok {
		return wire.Err{Code: wire.CodeBadArg, Msg: "expect float"}
	}
	offset, ok := parseInt(args[4])
	if !ok {
		return wire.Err{Code: wire.CodeBadArg, Msg: "expect int64"}
	}
	limit, ok := parseInt(args[5])
	if !ok {
		return wire.Err{Code: wire.CodeBadArg, Msg: "expect int64"}
	}
	if limit < 0 {
		return wire.Err{Code: wire.CodeBadArg, Msg: "negative limit"}
	}
	zs, errv := s.expectZSet(string(args[1]))
	if errv != nil {
		return errv
	}
	node := zs.SeekGE(score, string(args[3]))
	if node != nil && offset != 0 {
		node = zset.Offset(node, offset)
	}
	arr := wire.Arr{}
	for n := int64(0); node != nil && n < limit; n++ {
		arr = append(arr, wire.Str(node.Name()), wire.Dbl(node.Score()))
		node = zset.Offset(node, 1)
	}
	return arr
}

func (s *Server) cmdKeys(args [][]byte) wire.Value {
	arr := make(wire.Arr, 0, s.db.Len())
	s.db.ForEach(func(n *hashtab.Node) bool {
		arr = append(arr, wire.Str(entryOfNode(n).key))
		return true
	})
	return arr
}
