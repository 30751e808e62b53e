// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"encoding/json"

	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
)

// Event is a stored event. Seq is the global insertion order.
type Event struct {
	Seq            uint64          `json:"seq"`
	Key            events.GUID     `json:"key"`
	SequenceNumber uint64          `json:"sequenceNumber"`
	Type           string          `json:"type"`
	Data           json.RawMessage `json:"data"`
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// EventFilter selects events. Zero fields match everything.
type EventFilter struct {
	Type    string
	Creator *chain.Address
	// From is the first Seq considered, in the direction of Order.
	From  uint64
	Limit uint64
	Order Order
}
