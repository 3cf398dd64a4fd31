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

package types

import (
	"time"

	"code.vegaprotocol.io/chanex/libs/num"
)

// Market is a listed security backed by a channel.
type Market struct {
	ID          string
	Name        string
	IPOPrice    num.Decimal
	FairPrice   num.Decimal
	TotalShares uint64
	DividendPct num.Decimal
	// LastRevenue is the realised revenue of the last settled period.
	LastRevenue num.Decimal
	ListedAt    time.Time
	// LastSettledPeriod is the start of the last settled period,
	// zero until the first settlement.
	LastSettledPeriod time.Time
	// Revenue holds the unsettled accumulators keyed by period start (unix seconds).
	Revenue     map[int64]*RevenueAccumulator
	MarketMaker MarketMakerState
	// Pending is set while a settlement is being paid out.
	Pending *PendingSettlement
}

// PriceChange returns the relative change of the fair price since the IPO.
func (m *Market) PriceChange() num.Decimal {
	if m.IPOPrice.IsZero() {
		return num.DecimalZero()
	}
	return m.FairPrice.Sub(m.IPOPrice).Div(m.IPOPrice)
}

// MarketCap returns the fair price times the float.
func (m *Market) MarketCap() num.Decimal {
	return m.FairPrice.Mul(num.DecimalFromUint64(m.TotalShares))
}

// Accumulator returns the revenue accumulator of the period, creating it if needed.
func (m *Market) Accumulator(period time.Time) *RevenueAccumulator {
	if m.Revenue == nil {
		m.Revenue = map[int64]*RevenueAccumulator{}
	}
	acc, ok := m.Revenue[period.Unix()]
	if !ok {
		acc = &RevenueAccumulator{
			MarketID:    m.ID,
			Period:      period,
			Accumulated: num.DecimalZero(),
		}
		m.Revenue[period.Unix()] = acc
	}
	return acc
}

// AccumulatedRevenue returns the unsettled revenue of the period.
func (m *Market) AccumulatedRevenue(period time.Time) num.Decimal {
	if acc, ok := m.Revenue[period.Unix()]; ok {
		return acc.Accumulated
	}
	return num.DecimalZero()
}

func (m *Market) Clone() *Market {
	cpy := *m
	cpy.Revenue = make(map[int64]*RevenueAccumulator, len(m.Revenue))
	for k, v := range m.Revenue {
		acc := *v
		cpy.Revenue[k] = &acc
	}
	if m.Pending != nil {
		cpy.Pending = m.Pending.Clone()
	}
	return &cpy
}

// MarketMakerState is the market maker book keeping of one market.
// Cash and Inventory mirror the ledger at the time of the last quote.
type MarketMakerState struct {
	Cash          num.Decimal
	Inventory     uint64
	FairPrice     num.Decimal
	Volatility    float64
	LastQuoteTime time.Time
	BidOrderID    string
	AskOrderID    string
}

// RevenueAccumulator collects the activity signal of a period until it is settled.
type RevenueAccumulator struct {
	MarketID    string
	Period      time.Time
	Accumulated num.Decimal
}

// PendingSettlement freezes the outcome of a settlement while dividends are paid
// so a retry pays the remaining holders the same amounts.
type PendingSettlement struct {
	Period  time.Time
	Revenue num.Decimal
	Pool    num.Decimal
	// Paid is keyed by the participant text representation.
	Paid map[string]num.Decimal
}

func (p *PendingSettlement) Clone() *PendingSettlement {
	cpy := *p
	cpy.Paid = make(map[string]num.Decimal, len(p.Paid))
	for k, v := range p.Paid {
		cpy.Paid[k] = v
	}
	return &cpy
}

// Holding is a position of a participant in a market.
type Holding struct {
	Party    Participant
	MarketID string
	Quantity uint64
	AvgCost  num.Decimal
}

// Balance is what a participant can still commit in a market.
type Balance struct {
	Cash   num.Decimal
	Shares uint64
}
