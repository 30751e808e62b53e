// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Sink receives the events of committed transactions.
type Sink interface {
	Write(ctx context.Context, evs []*Event) error
}

// MemSink keeps events in memory, mostly for tests.
type MemSink struct {
	mu     sync.Mutex
	events []*Event
}

func (s *MemSink) Write(_ context.Context, evs []*Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evs...)
	return nil
}

// Events returns a copy of all received events.
func (s *MemSink) Events() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Event(nil), s.events...)
}

// OfType returns received events of the given type.
func (s *MemSink) OfType(typ string) []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Event
	for _, ev := range s.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

// MultiSink writes to every sink, continuing past failures.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, evs []*Event) error {
	var firstErr error
	for _, s := range m {
		if err := s.Write(ctx, evs); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "sink %T", s)
		}
	}
	return firstErr
}
