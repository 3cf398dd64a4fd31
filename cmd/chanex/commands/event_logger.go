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

package commands

import (
	"sync"

	"code.vegaprotocol.io/chanex/core/events"
	"code.vegaprotocol.io/chanex/logging"
)

// eventLogger is a broker subscriber writing the market events to the log.
type eventLogger struct {
	log *logging.Logger
	id  int

	mu          sync.Mutex
	trades      uint64
	settlements uint64
	closed      chan struct{}
	once        sync.Once
}

func newEventLogger(log *logging.Logger) *eventLogger {
	return &eventLogger{
		log:    log.Named("events"),
		closed: make(chan struct{}),
	}
}

func (l *eventLogger) Push(evts ...events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range evts {
		switch evt := e.(type) {
		case *events.Trade:
			l.trades++
			if l.log.IsDebug() {
				t := evt.Trade()
				l.log.Debug("trade",
					logging.MarketID(t.MarketID),
					logging.PartyID(t.Buyer.String()),
					logging.String("seller", t.Seller.String()),
					logging.Decimal("price", t.Price),
					logging.Uint64("size", t.Size),
				)
			}
		case *events.SettleMarket:
			l.settlements++
			oldFair, newFair := evt.FairPrices()
			l.log.Info("market settled",
				logging.MarketID(evt.MarketID()),
				logging.Period(evt.Period()),
				logging.Decimal("revenue", evt.Revenue()),
				logging.Decimal("pool", evt.Pool()),
				logging.Decimal("paid", evt.Paid()),
				logging.Decimal("old-fair-price", oldFair),
				logging.Decimal("new-fair-price", newFair),
			)
		case *events.MarketCreated:
			m := evt.Market()
			l.log.Info("market listed",
				logging.MarketID(m.ID),
				logging.String("name", m.Name),
				logging.Decimal("ipo-price", m.IPOPrice),
			)
		case *events.MarketDelisted:
			l.log.Info("market delisted", logging.MarketID(evt.MarketID()))
		}
	}
}

func (l *eventLogger) counts() (trades, settlements uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trades, l.settlements
}

func (l *eventLogger) Close() {
	l.once.Do(func() { close(l.closed) })
}

func (l *eventLogger) Closed() <-chan struct{} {
	return l.closed
}

func (l *eventLogger) Types() []events.Type {
	return []events.Type{
		events.TradeEvent,
		events.SettleMarketEvent,
		events.MarketCreatedEvent,
		events.MarketDelistedEvent,
	}
}

func (l *eventLogger) SetID(id int) {
	l.id = id
}

func (l *eventLogger) ID() int {
	return l.id
}
