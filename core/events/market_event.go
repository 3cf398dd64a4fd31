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
	"fmt"

	"code.vegaprotocol.io/chanex/core/types"
)

type MarketCreated struct {
	*Base
	m types.Market
}

func NewMarketCreatedEvent(ctx context.Context, m types.Market) *MarketCreated {
	return &MarketCreated{
		Base: newBase(ctx, MarketCreatedEvent),
		m:    m,
	}
}

// MarketEvent -> is needs to be logged as a market event.
func (m MarketCreated) MarketEvent() string {
	return fmt.Sprintf("Market ID %s listed at %s", m.m.ID, m.m.IPOPrice)
}

func (m MarketCreated) MarketID() string {
	return m.m.ID
}

func (m MarketCreated) Market() types.Market {
	return m.m
}

// MarketUpdated is emitted whenever the fair price or the dividend rate of a market changes.
type MarketUpdated struct {
	*Base
	m types.Market
}

func NewMarketUpdatedEvent(ctx context.Context, m types.Market) *MarketUpdated {
	return &MarketUpdated{
		Base: newBase(ctx, MarketUpdatedEvent),
		m:    m,
	}
}

func (m MarketUpdated) MarketEvent() string {
	return fmt.Sprintf("Market ID %s updated, fair price %s", m.m.ID, m.m.FairPrice)
}

func (m MarketUpdated) MarketID() string {
	return m.m.ID
}

func (m MarketUpdated) Market() types.Market {
	return m.m
}

type MarketDelisted struct {
	*Base
	id string
}

func NewMarketDelistedEvent(ctx context.Context, id string) *MarketDelisted {
	return &MarketDelisted{
		Base: newBase(ctx, MarketDelistedEvent),
		id:   id,
	}
}

func (m MarketDelisted) MarketEvent() string {
	return fmt.Sprintf("Market ID %s delisted", m.id)
}

func (m MarketDelisted) MarketID() string {
	return m.id
}

// Quote is emitted when the market maker replaced its quotes.
type Quote struct {
	*Base
	marketID string
	state    types.MarketMakerState
	bid      types.PriceLevel
	ask      types.PriceLevel
}

func NewQuoteEvent(ctx context.Context, marketID string, state types.MarketMakerState, bid, ask types.PriceLevel) *Quote {
	return &Quote{
		Base:     newBase(ctx, QuoteEvent),
		marketID: marketID,
		state:    state,
		bid:      bid,
		ask:      ask,
	}
}

func (q Quote) MarketID() string {
	return q.marketID
}

func (q Quote) State() types.MarketMakerState {
	return q.state
}

// Bid returns the posted bid, a zero volume when the side was not quoted.
func (q Quote) Bid() types.PriceLevel {
	return q.bid
}

func (q Quote) Ask() types.PriceLevel {
	return q.ask
}
