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
	"context"
	"testing"
	"time"

	"code.vegaprotocol.io/chanex/core/broker"
	"code.vegaprotocol.io/chanex/core/events"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLoggerCounts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := broker.New(ctx, logging.NewTestLogger(), broker.NewDefaultConfig())
	l := newEventLogger(logging.NewTestLogger())
	b.Subscribe(l)

	trade := types.Trade{
		ID:       "t1",
		MarketID: "m1",
		Price:    num.MustDecimalFromString("10"),
		Size:     2,
		Buyer:    types.Trader("alice"),
		Seller:   types.MarketMaker(),
	}
	period := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	zero := num.DecimalZero()
	b.SendBatch([]events.Event{
		events.NewTradeEvent(ctx, trade),
		events.NewMarketTick(ctx, "m1", period),
		events.NewMarketSettled(ctx, "m1", period, zero, zero, zero, zero, zero),
		events.NewMarketDelistedEvent(ctx, "m1"),
	})

	trades, settlements := l.counts()
	assert.Equal(t, uint64(1), trades)
	assert.Equal(t, uint64(1), settlements)
	assert.NotContains(t, l.Types(), events.MarketTickEvent)

	l.Close()
	l.Close()
	select {
	case <-l.Closed():
	default:
		require.Fail(t, "logger should be closed")
	}

	// closed subscribers are dropped on the next send
	b.Send(events.NewTradeEvent(ctx, trade))
	trades, _ = l.counts()
	assert.Equal(t, uint64(1), trades)
}
