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
	"context"
	"time"

	"code.vegaprotocol.io/chanex/core/events"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
)

//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.vegaprotocol.io/chanex/core/execution Ledger,TimeService,Broker,Store

// Ledger owns the cash and the shares of every participant. Every call is
// atomic, a failed call leaves the ledger unchanged.
type Ledger interface {
	OpenMarket(ctx context.Context, marketID string, cash num.Decimal, shares uint64) error
	CloseMarket(ctx context.Context, marketID string) error
	ReserveCash(ctx context.Context, party types.Participant, marketID string, amount num.Decimal) error
	ReserveShares(ctx context.Context, party types.Participant, marketID string, qty uint64) error
	// SettleTrade delivers the escrowed shares to the buyer and the escrowed cash to the seller,
	// buyerReserved is the price per share the buyer escrowed, the excess goes back to the buyer.
	SettleTrade(ctx context.Context, trade *types.Trade, buyerReserved num.Decimal) error
	RefundCash(ctx context.Context, party types.Participant, marketID string, amount num.Decimal) error
	RefundShares(ctx context.Context, party types.Participant, marketID string, qty uint64) error
	PayDividend(ctx context.Context, party types.Participant, marketID string, amount num.Decimal) error
	// Holdings returns the unescrowed holdings of a market.
	Holdings(ctx context.Context, marketID string) ([]types.Holding, error)
	PartyHoldings(ctx context.Context, party types.Participant) []types.Holding
	// Balance returns the free cash and shares of the party in the market.
	Balance(ctx context.Context, party types.Participant, marketID string) (types.Balance, error)
}

// TimeService is used to timestamp orders and trades and to decide which periods are due.
type TimeService interface {
	GetTimeNow() time.Time
}

// Broker receives the events produced by the markets.
type Broker interface {
	Send(event events.Event)
	SendBatch(events []events.Event)
}

// Store persists the markets, their resting orders and their trades.
type Store interface {
	SaveMarket(m *types.Market) error
	DeleteMarket(marketID string) error
	SaveOrder(o *types.Order) error
	DeleteOrder(marketID, orderID string) error
	SaveTrade(t *types.Trade) error
	LoadMarkets() ([]*types.Market, error)
	LoadOrders(marketID string) ([]*types.Order, error)
	RecentPrices(marketID string, n int) ([]types.PricePoint, error)
}

// IDGenerator gives the ids of new orders.
type IDGenerator interface {
	NextID() string
}

// Rand is the source of the settlement noise, in [0, 1).
type Rand interface {
	Float64() float64
}
