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
	"context"
	"sync"

	"code.vegaprotocol.io/chanex/core/events"
	"code.vegaprotocol.io/chanex/logging"
)

// Subscriber interface allows pushing values to subscribers, or closing them.
type Subscriber interface {
	Push(val ...events.Event)
	Closed() <-chan struct{}
	Types() []events.Type
	SetID(id int)
	ID() int
}

// Broker dispatches the events of the engines to the subscribers, in the
// order they were sent. Subscribers are pushed to synchronously and must not block.
type Broker struct {
	ctx context.Context
	log *logging.Logger

	mu   sync.Mutex
	seq  uint64
	subs map[int]Subscriber
	keys []int
	next int
}

// New creates a new base broker.
func New(ctx context.Context, log *logging.Logger, config Config) *Broker {
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &Broker{
		ctx:  ctx,
		log:  log,
		subs: map[int]Subscriber{},
	}
}

// Send sends an event to all subscribers.
func (b *Broker) Send(event events.Event) {
	b.SendBatch([]events.Event{event})
}

// SendBatch sends a slice of events to subscribers that can handle the events in the slice
// the events don't have to be of the same type.
func (b *Broker) SendBatch(evts []events.Event) {
	if len(evts) == 0 {
		return
	}
	select {
	case <-b.ctx.Done():
		return
	default:
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, e := range evts {
		b.seq++
		e.SetSequenceID(b.seq)
	}

	var unsub []int
	for k, sub := range b.subs {
		select {
		case <-sub.Closed():
			unsub = append(unsub, k)
			continue
		default:
		}
		if filtered := filter(sub.Types(), evts); len(filtered) > 0 {
			sub.Push(filtered...)
		}
	}
	b.rmSubs(unsub...)
}

func filter(types []events.Type, evts []events.Event) []events.Event {
	if len(types) == 0 {
		return evts
	}
	out := make([]events.Event, 0, len(evts))
	for _, e := range evts {
		for _, t := range types {
			if t == events.All || t == e.Type() {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Subscribe registers a new subscriber, returning the key.
func (b *Broker) Subscribe(s Subscriber) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := b.getKey()
	s.SetID(k)
	b.subs[k] = s
	return k
}

// Unsubscribe removes subscriber from broker
// this does not change the state of the subscriber.
func (b *Broker) Unsubscribe(k int) {
	b.mu.Lock()
	b.rmSubs(k)
	b.mu.Unlock()
}

func (b *Broker) getKey() int {
	if len(b.keys) > 0 {
		k := b.keys[0]
		b.keys = b.keys[1:] // pop first element
		return k
	}
	b.next++ // avoid zero value
	return b.next
}

func (b *Broker) rmSubs(keys ...int) {
	for _, k := range keys {
		// if the sub doesn't exist, this could be a duplicate call
		if _, ok := b.subs[k]; !ok {
			continue
		}
		delete(b.subs, k)
		b.keys = append(b.keys, k)
	}
}
