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

	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
)

// DividendPayout is emitted for each holder paid on settlement.
type DividendPayout struct {
	*Base
	party    types.Participant
	marketID string
	period   time.Time
	shares   uint64
	amount   num.Decimal
}

func NewDividendPayout(ctx context.Context, party types.Participant, marketID string, period time.Time, shares uint64, amount num.Decimal) *DividendPayout {
	return &DividendPayout{
		Base:     newBase(ctx, DividendPayoutEvent),
		party:    party,
		marketID: marketID,
		period:   period,
		shares:   shares,
		amount:   amount,
	}
}

func (d DividendPayout) MarketID() string {
	return d.marketID
}

func (d DividendPayout) IsParty(p types.Participant) bool {
	return d.party == p
}

func (d DividendPayout) Party() types.Participant {
	return d.party
}

func (d DividendPayout) Period() time.Time {
	return d.period
}

func (d DividendPayout) Shares() uint64 {
	return d.shares
}

func (d DividendPayout) Amount() num.Decimal {
	return d.amount
}
