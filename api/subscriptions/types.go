// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/econia-labs/econia-sub003/chain"
	"github.com/econia-labs/econia-sub003/events"
)

// EventFilter selects the events pushed to a subscriber.
type EventFilter struct {
	Type    string
	Creator *chain.Address
}

func (f *EventFilter) Match(ev *events.Event) bool {
	if f.Type != "" && ev.Type != f.Type {
		return false
	}
	if f.Creator != nil && ev.Key.Creator != *f.Creator {
		return false
	}
	return true
}

// Message is one frame of the event stream.
type Message struct {
	SubscriptionID string        `json:"subscriptionId"`
	Event          *events.Event `json:"event"`
	// Dropped counts events skipped so far because the subscriber fell behind.
	Dropped uint64 `json:"dropped"`
}
