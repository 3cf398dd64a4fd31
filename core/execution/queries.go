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

package execution

import (
	"time"

	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"

	"github.com/pkg/errors"
)

const daysPerPeriod = 7

// Depth returns up to levels aggregated price levels per side, best first.
func (m *Market) Depth(levels int) (types.PriceLevels, types.PriceLevels) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.Depth(levels)
}

// OpenOrders returns copies of the resting orders of the party.
func (m *Market) OpenOrders(party types.Participant) []*types.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	orders := m.book.GetOrdersForParty(party)
	out := make([]*types.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Clone())
	}
	return out
}

// Snapshot returns a copy of the market.
func (m *Market) Snapshot() types.Market {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.mkt.Clone()
}

func (m *Market) fairPrice() num.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mkt.FairPrice
}

// Info summarises the market at now. The weekly revenue estimate extrapolates
// the revenue of the running period over seven days.
func (m *Market) Info(now time.Time) types.MarketInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	period := types.PeriodStart(now)
	acc := m.mkt.AccumulatedRevenue(period)
	since := period
	if m.mkt.ListedAt.After(since) {
		since = m.mkt.ListedAt
	}
	days := int64(now.Sub(since) / (24 * time.Hour))
	if days < 1 {
		days = 1
	}

	info := types.MarketInfo{
		ID:                     m.mkt.ID,
		Name:                   m.mkt.Name,
		FairPrice:              m.mkt.FairPrice,
		IPOPrice:               m.mkt.IPOPrice,
		PriceChange:            m.mkt.PriceChange(),
		MarketCap:              m.mkt.MarketCap(),
		TotalShares:            m.mkt.TotalShares,
		DividendPct:            m.mkt.DividendPct,
		LastRevenue:            m.mkt.LastRevenue,
		AccumulatedRevenue:     acc,
		EstimatedWeeklyRevenue: acc.Div(num.DecimalFromInt64(days)).Mul(num.DecimalFromInt64(daysPerPeriod)).Round(revenueDecimals),
		DailyVolume:            m.dailyVolume(now),
		MarketMaker:            m.mkt.MarketMaker,
		LastSettledPeriod:      m.mkt.LastSettledPeriod,
	}
	if bid, err := m.book.GetBestBidPrice(); err == nil {
		info.BestBid = bid
	}
	if ask, err := m.book.GetBestAskPrice(); err == nil {
		info.BestAsk = ask
	}
	return info
}

// PriceHistory returns the trade prices since the given time, oldest first.
func (m *Market) PriceHistory(since time.Time) []types.PricePoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []types.PricePoint{}
	for _, p := range m.history {
		if !p.At.Before(since) {
			out = append(out, p)
		}
	}
	return out
}

// restore puts back the resting orders and the price history loaded from the store.
func (m *Market) restore(orders []*types.Order, prices []types.PricePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range orders {
		if err := m.book.RestoreOrder(o); err != nil {
			return errors.Wrapf(err, "restoring order %s", o.ID)
		}
	}
	m.history = append(m.history[:0], prices...)
	return nil
}
