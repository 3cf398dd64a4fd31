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
	"time"

	"code.vegaprotocol.io/chanex/libs/num"
)

type SettleMarket struct {
	*Base
	marketID string
	period   time.Time
	revenue  num.Decimal
	pool     num.Decimal
	paid     num.Decimal
	oldFair  num.Decimal
	newFair  num.Decimal
}

func NewMarketSettled(ctx context.Context, marketID string, period time.Time, revenue, pool, paid, oldFair, newFair num.Decimal) *SettleMarket {
	return &SettleMarket{
		Base:     newBase(ctx, SettleMarketEvent),
		marketID: marketID,
		period:   period,
		revenue:  revenue,
		pool:     pool,
		paid:     paid,
		oldFair:  oldFair,
		newFair:  newFair,
	}
}

func (m SettleMarket) MarketID() string {
	return m.marketID
}

// Period returns the start of the settled period.
func (m SettleMarket) Period() time.Time {
	return m.period
}

func (m SettleMarket) Revenue() num.Decimal {
	return m.revenue
}

// Pool is the dividend pool, Paid what was actually distributed after truncation.
func (m SettleMarket) Pool() num.Decimal {
	return m.pool
}

func (m SettleMarket) Paid() num.Decimal {
	return m.paid
}

func (m SettleMarket) FairPrices() (num.Decimal, num.Decimal) {
	return m.oldFair, m.newFair
}
