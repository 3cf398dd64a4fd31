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

package events

import (
	"context"
)

type Type int

// Base common denominator all event-bus events share.
type Base struct {
	ctx context.Context
	seq uint64
	et  Type
}

// Event - the base event interface type, the sequence ID is set by the broker once.
type Event interface {
	Type() Type
	Context() context.Context
	Sequence() uint64
	SetSequenceID(s uint64)
}

// MarketEvent is implemented by every event tied to a single market.
type MarketEvent interface {
	Event
	MarketID() string
}

const (
	// All event type -> used by subscribers to just receive all events, has no actual corresponding event payload.
	All Type = iota
	OrderEvent
	TradeEvent
	MarketCreatedEvent
	MarketUpdatedEvent
	MarketDelistedEvent
	QuoteEvent
	MarketTickEvent
	SettleMarketEvent
	DividendPayoutEvent
)

var typeNames = map[Type]string{
	All:                 "ALL",
	OrderEvent:          "OrderEvent",
	TradeEvent:          "TradeEvent",
	MarketCreatedEvent:  "MarketCreatedEvent",
	MarketUpdatedEvent:  "MarketUpdatedEvent",
	MarketDelistedEvent: "MarketDelistedEvent",
	QuoteEvent:          "QuoteEvent",
	MarketTickEvent:     "MarketTickEvent",
	SettleMarketEvent:   "SettleMarketEvent",
	DividendPayoutEvent: "DividendPayoutEvent",
}

func newBase(ctx context.Context, t Type) *Base {
	return &Base{
		ctx: ctx,
		et:  t,
	}
}

// Context returns context.
func (b Base) Context() context.Context {
	return b.ctx
}

// Sequence returns event sequence number.
func (b Base) Sequence() uint64 {
	return b.seq
}

// SetSequenceID sets the sequence number, only the first call has an effect.
func (b *Base) SetSequenceID(s uint64) {
	if b.seq != 0 {
		return
	}
	b.seq = s
}

// Type returns the event type.
func (b Base) Type() Type {
	return b.et
}

// String get string representation of event type.
func (t Type) String() string {
	s, ok := typeNames[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}

// MarketEventTypes returns the event types carrying a market id.
func MarketEventTypes() []Type {
	return []Type{
		OrderEvent,
		TradeEvent,
		MarketCreatedEvent,
		MarketUpdatedEvent,
		MarketDelistedEvent,
		QuoteEvent,
		MarketTickEvent,
		SettleMarketEvent,
		DividendPayoutEvent,
	}
}
