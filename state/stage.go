// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/econia-labs/econia-sub003/chain"
)

// Stage abstracts the changes made since the last commit.
type Stage struct {
	state   *State
	changes map[key][]byte
}

// Stage collects journaled changes into a stage.
func (s *State) Stage() *Stage {
	changes := make(map[key][]byte)
	s.sm.Journal(func(k key, v []byte) bool {
		changes[k] = v
		return true
	})
	return &Stage{state: s, changes: changes}
}

// Len returns the number of changed keys.
func (st *Stage) Len() int {
	return len(st.changes)
}

// Hash computes a digest of the changes, independent of journal order.
func (st *Stage) Hash() chain.Bytes32 {
	keys := make([]key, 0, len(st.changes))
	for k := range st.changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].bytes(), keys[j].bytes()) < 0
	})

	var buf []byte
	for _, k := range keys {
		buf = append(buf, k.bytes()...)
		buf = append(buf, st.changes[k]...)
	}
	return chain.Blake2b(buf)
}

// Commit writes the changes to the store and resets the journal.
// Events are left for the caller to take.
func (st *Stage) Commit() error {
	s := st.state
	bulk := s.db.Bulk()
	for k, v := range st.changes {
		if v == nil {
			if err := bulk.Delete(k.bytes()); err != nil {
				return errors.Wrap(err, "stage delete")
			}
			continue
		}
		if err := bulk.Put(k.bytes(), snappy.Encode(nil, v)); err != nil {
			return errors.Wrap(err, "stage put")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	for k, v := range st.changes {
		s.cache.Add(k, committed{data: v, exist: v != nil})
	}
	metricCommittedKeys().Add(int64(len(st.changes)))
	reportCacheStats(s.cache)

	evs := s.events
	s.reset()
	s.events = evs
	return nil
}
