// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"

	"github.com/econia-labs/econia-sub003/cache"
	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
	"github.com/econia-labs/econia-sub003/kv"
	"github.com/econia-labs/econia-sub003/stackedmap"
)

const committedCacheSize = 4096

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// key addresses one stored value: the owning account and a slot derived from
// the resource tag (and table sub-key).
type key struct {
	addr chain.Address
	slot chain.Bytes32
}

func (k key) bytes() []byte {
	b := make([]byte, 0, len(k.addr)+len(k.slot))
	b = append(b, k.addr[:]...)
	return append(b, k.slot[:]...)
}

type committed struct {
	data  []byte
	exist bool
}

// State is the ledger view used by every entry point. Writes are journaled in a
// stacked map so that they can be reverted to any checkpoint, and are flushed
// to the underlying kv store by Stage/Commit.
type State struct {
	db     kv.Store
	cache  *cache.LRU
	sm     *stackedmap.StackedMap[key, []byte]
	events []*events.Event
	marks  []int
}

// New create a state object backed by db.
func New(db kv.Store) *State {
	lru, _ := cache.NewLRU(committedCacheSize)
	s := &State{
		db:    db,
		cache: lru,
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.committedGetter)
	s.sm.Push() // base level
	s.events = nil
	s.marks = nil
}

func (s *State) committedGetter(k key) ([]byte, bool, error) {
	v, err := s.cache.GetOrLoad(k, func(any) (any, error) {
		raw, err := s.db.Get(k.bytes())
		if err != nil {
			if s.db.IsNotFound(err) {
				return committed{}, nil
			}
			return nil, err
		}
		data, err := snappy.Decode(nil, raw)
		if err != nil {
			return nil, err
		}
		return committed{data: data, exist: true}, nil
	})
	if err != nil {
		return nil, false, &Error{err}
	}
	c := v.(committed)
	return c.data, c.exist, nil
}

func (s *State) getRaw(k key) ([]byte, bool, error) {
	data, exist, err := s.sm.Get(k)
	if err != nil {
		return nil, false, err
	}
	// a nil value marks a deletion
	if !exist || data == nil {
		return nil, false, nil
	}
	return data, true, nil
}

func (s *State) has(k key) (bool, error) {
	_, exist, err := s.getRaw(k)
	return exist, err
}

func (s *State) decode(k key, v any) (bool, error) {
	data, exist, err := s.getRaw(k)
	if err != nil || !exist {
		return false, err
	}
	if err := rlp.DecodeBytes(data, v); err != nil {
		return false, &Error{err}
	}
	return true, nil
}

func (s *State) encode(k key, v any) error {
	data, err := rlp.EncodeToBytes(v)
	if err != nil {
		return &Error{err}
	}
	s.sm.Put(k, data)
	return nil
}

func (s *State) remove(k key) {
	s.sm.Put(k, nil)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	s.marks = append(s.marks, len(s.events))
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
// Value writes and events emitted after the checkpoint are discarded.
func (s *State) RevertTo(revision int) {
	if revision < 1 || revision > len(s.marks) {
		panic("state: invalid revision")
	}
	s.events = s.events[:s.marks[revision-1]]
	s.marks = s.marks[:revision-1]
	s.sm.PopTo(revision)
}

// EmitEvent implements events.Journal.
func (s *State) EmitEvent(ev *events.Event) {
	s.events = append(s.events, ev)
}

// Events returns events emitted since the last commit.
func (s *State) Events() []*events.Event {
	return append([]*events.Event(nil), s.events...)
}

// TakeEvents returns and clears the events emitted so far.
// It is meant to be called after a successful commit.
func (s *State) TakeEvents() []*events.Event {
	evs := s.events
	s.events = nil
	return evs
}

// NextGUID implements events.GUIDGenerator.
func (s *State) NextGUID(creator chain.Address) (events.GUID, error) {
	gen, _, err := guidGenerators.Get(s, creator)
	if err != nil {
		return events.GUID{}, err
	}
	if gen == nil {
		gen = &guidGenerator{}
	}
	guid := events.GUID{Creator: creator, CreationNum: gen.Next}
	gen.Next++
	if err := guidGenerators.Put(s, creator, gen); err != nil {
		return events.GUID{}, err
	}
	return guid, nil
}

type guidGenerator struct {
	Next uint64
}

var guidGenerators = NewResource[guidGenerator]("events::GUIDGenerator")
