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

package matching

import (
	"fmt"
	"testing"
	"time"

	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"
)

type tstOB struct {
	*OrderBook
	log   *logging.Logger
	now   time.Time
	count int
}

func (t *tstOB) Finish() {
	t.log.AtExit()
}

func getTestOrderBook(_ *testing.T, market string) *tstOB {
	tob := tstOB{
		log: logging.NewTestLogger(),
		now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	cfg := NewDefaultConfig()
	// Turn on all the debug levels so we can cover more lines of code
	cfg.LogPriceLevelsDebug = true
	cfg.LogRemovedOrdersDebug = true
	tob.OrderBook = NewOrderBook(tob.log, cfg, market)
	return &tob
}

// newOrder builds a limit order one second after the previous one.
func (t *tstOB) newOrder(party types.Participant, side types.Side, price string, size uint64) *types.Order {
	t.count++
	t.now = t.now.Add(time.Second)
	return &types.Order{
		ID:        fmt.Sprintf("order-%03d", t.count),
		MarketID:  t.marketID,
		Party:     party,
		Side:      side,
		Type:      types.OrderTypeLimit,
		Price:     num.MustDecimalFromString(price),
		Size:      size,
		Remaining: size,
		CreatedAt: t.now,
	}
}

func (t *tstOB) newMarketOrder(party types.Participant, side types.Side, size uint64) *types.Order {
	o := t.newOrder(party, side, "1", size)
	o.Type = types.OrderTypeMarket
	o.Price = types.SentinelPrice(side)
	return o
}

func (b *OrderBook) getNumberOfBuyLevels() int {
	return b.buy.levels.Len()
}

func (b *OrderBook) getNumberOfSellLevels() int {
	return b.sell.levels.Len()
}

func (b *OrderBook) getVolumeAtLevel(price string, side types.Side) uint64 {
	v, _ := b.getSide(side).GetVolume(num.MustDecimalFromString(price))
	return v
}
