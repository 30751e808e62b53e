// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"sync"
	"sync/atomic"
)

// Feed fans committed events out to subscribers. A subscriber whose buffer is
// full misses events rather than stalling the writer.
type Feed struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// Subscription receives events from a Feed.
type Subscription struct {
	feed    *Feed
	ch      chan *Event
	dropped atomic.Uint64
	once    sync.Once
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a subscriber with the given buffer size.
func (f *Feed) Subscribe(buffer int) *Subscription {
	sub := &Subscription{feed: f, ch: make(chan *Event, buffer)}
	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()
	return sub
}

func (f *Feed) Write(_ context.Context, evs []*Event) error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for sub := range f.subs {
		for _, ev := range evs {
			select {
			case sub.ch <- ev:
			default:
				sub.dropped.Add(1)
			}
		}
	}
	return nil
}

// Len returns the number of live subscriptions.
func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// C returns the event channel. It is closed by Unsubscribe.
func (s *Subscription) C() <-chan *Event {
	return s.ch
}

// Dropped returns how many events were skipped because the buffer was full.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Unsubscribe detaches the subscription and closes its channel.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s)
		s.feed.mu.Unlock()
		close(s.ch)
	})
}
