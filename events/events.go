// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/econia-labs/econia-sub003/chain"
)

// GUID globally identifies an event stream: the account that created it and
// the creation number drawn from that account's counter.
type GUID struct {
	Creator     chain.Address `json:"creator"`
	CreationNum uint64        `json:"creationNum"`
}

// Handle is an event stream embedded in a resource. Counter is the sequence
// number the next event will carry.
type Handle struct {
	GUID    GUID
	Counter uint64
}

// Event is one emitted event.
type Event struct {
	Key            GUID   `json:"key"`
	SequenceNumber uint64 `json:"sequenceNumber"`
	Type           string `json:"type"`
	Data           any    `json:"data"`
}

// GUIDGenerator allocates creation numbers per account.
type GUIDGenerator interface {
	NextGUID(creator chain.Address) (GUID, error)
}

// Journal collects events of the running transaction.
type Journal interface {
	EmitEvent(ev *Event)
}

// NewHandle creates a new event stream owned by creator.
func NewHandle(gen GUIDGenerator, creator chain.Address) (Handle, error) {
	guid, err := gen.NextGUID(creator)
	if err != nil {
		return Handle{}, err
	}
	return Handle{GUID: guid}, nil
}

// Emit appends an event to the journal and advances the handle counter.
// The caller persists the resource that embeds the handle.
func Emit(j Journal, h *Handle, typ string, data any) {
	j.EmitEvent(&Event{
		Key:            h.GUID,
		SequenceNumber: h.Counter,
		Type:           typ,
		Data:           data,
	})
	h.Counter++
}
