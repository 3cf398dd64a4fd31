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

// MarketListing is the request to list a new market.
// Zero values are replaced by the configured defaults.
type MarketListing struct {
	ID          string
	Name        string
	IPOPrice    num.Decimal
	DividendPct *num.Decimal
}

// Refund is what the ledger gave back to a participant.
type Refund struct {
	Cash   num.Decimal
	Shares uint64
}

// PricePoint is one trade price of a market.
type PricePoint struct {
	At    time.Time
	Price num.Decimal
	Size  uint64
}

// MarketInfo is a read only summary of a market.
type MarketInfo struct {
	ID                     string
	Name                   string
	FairPrice              num.Decimal
	IPOPrice               num.Decimal
	PriceChange            num.Decimal
	MarketCap              num.Decimal
	TotalShares            uint64
	DividendPct            num.Decimal
	LastRevenue            num.Decimal
	AccumulatedRevenue     num.Decimal
	EstimatedWeeklyRevenue num.Decimal
	DailyVolume            uint64
	BestBid                num.Decimal
	BestAsk                num.Decimal
	MarketMaker            MarketMakerState
	LastSettledPeriod      time.Time
}

// PortfolioPosition values a holding at the fair price of its market.
type PortfolioPosition struct {
	MarketID  string
	Quantity  uint64
	AvgCost   num.Decimal
	FairPrice num.Decimal
	Value     num.Decimal
	PnL       num.Decimal
	// PnLPct is relative to the cost basis, zero when the basis is zero.
	PnLPct num.Decimal
}

// NewPortfolioPosition values the holding at the given fair price.
func NewPortfolioPosition(h Holding, fair num.Decimal) PortfolioPosition {
	qty := num.DecimalFromUint64(h.Quantity)
	value := fair.Mul(qty)
	cost := h.AvgCost.Mul(qty)
	pos := PortfolioPosition{
		MarketID:  h.MarketID,
		Quantity:  h.Quantity,
		AvgCost:   h.AvgCost,
		FairPrice: fair,
		Value:     value,
		PnL:       value.Sub(cost),
		PnLPct:    num.DecimalZero(),
	}
	if cost.IsPositive() {
		pos.PnLPct = pos.PnL.Div(cost)
	}
	return pos
}

// Settlement is the outcome of the settlement of one period of a market.
type Settlement struct {
	MarketID string
	Period   time.Time
	// Revenue is the settled revenue, measurement noise included.
	Revenue num.Decimal
	Pool    num.Decimal
	// Paid is the sum of the dividends paid, the remainder of the pool is not distributed.
	Paid           num.Decimal
	Holders        int
	OldFairPrice   num.Decimal
	NewFairPrice   num.Decimal
	Clamped        bool
	AlreadySettled bool
}
