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

	"code.vegaprotocol.io/chanex/core/types"
)

// OrderStatus describes what happened to an order.
type OrderStatus string

const (
	OrderStatusActive          OrderStatus = "active"
	OrderStatusPartiallyFilled OrderStatus = "partially-filled"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusCancelled       OrderStatus = "cancelled"
	OrderStatusStopped         OrderStatus = "stopped"
)

type Order struct {
	*Base
	o      types.Order
	status OrderStatus
}

func NewOrderEvent(ctx context.Context, o *types.Order, status OrderStatus) *Order {
	return &Order{
		Base:   newBase(ctx, OrderEvent),
		o:      *o,
		status: status,
	}
}

func (o Order) IsParty(p types.Participant) bool {
	return o.o.Party == p
}

func (o Order) Party() types.Participant {
	return o.o.Party
}

func (o Order) MarketID() string {
	return o.o.MarketID
}

func (o Order) Status() OrderStatus {
	return o.status
}

// Order returns a copy of the order at the time of the event.
func (o *Order) Order() *types.Order {
	cpy := o.o
	return &cpy
}

type Trade struct {
	*Base
	t types.Trade
}

func NewTradeEvent(ctx context.Context, t types.Trade) *Trade {
	return &Trade{
		Base: newBase(ctx, TradeEvent),
		t:    t,
	}
}

func (t Trade) MarketID() string {
	return t.t.MarketID
}

func (t Trade) IsParty(p types.Participant) bool {
	return t.t.Buyer == p || t.t.Seller == p
}

func (t Trade) Trade() types.Trade {
	return t.t
}
