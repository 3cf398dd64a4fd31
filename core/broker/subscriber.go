// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package broker

import (
	"sync"

	"code.vegaprotocol.io/chanex/core/events"
	"code.vegaprotocol.io/chanex/logging"
)

// StreamSubscriber buffers events in a channel for a consumer running in
// its own routine. Events are dropped when the buffer is full.
type StreamSubscriber struct {
	log     *logging.Logger
	id      int
	types   []events.Type
	ch      chan events.Event
	closed  chan struct{}
	once    sync.Once
	mu      sync.Mutex
	dropped uint64
}

func NewStreamSubscriber(log *logging.Logger, bufferSize int, types ...events.Type) *StreamSubscriber {
	return &StreamSubscriber{
		log:    log.Named("stream-subscriber"),
		types:  types,
		ch:     make(chan events.Event, bufferSize),
		closed: make(chan struct{}),
	}
}

func (s *StreamSubscriber) Push(evts ...events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.closed:
		return
	default:
	}
	for _, e := range evts {
		select {
		case s.ch <- e:
		default:
			s.dropped++
			s.log.Warn("subscriber buffer full, dropping event",
				logging.Stringer("type", e.Type()),
				logging.Uint64("dropped", s.dropped),
			)
		}
	}
}

// C returns the channel events are delivered on, closed with the subscriber.
func (s *StreamSubscriber) C() <-chan events.Event {
	return s.ch
}

func (s *StreamSubscriber) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		close(s.closed)
		close(s.ch)
		s.mu.Unlock()
	})
}

func (s *StreamSubscriber) Closed() <-chan struct{} {
	return s.closed
}

func (s *StreamSubscriber) Types() []events.Type {
	return s.types
}

func (s *StreamSubscriber) SetID(id int) {
	s.id = id
}

func (s *StreamSubscriber) ID() int {
	return s.id
}

// Dropped returns how many events did not fit in the buffer.
func (s *StreamSubscriber) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
