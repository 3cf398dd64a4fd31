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
	"fmt"
	"time"

	"code.vegaprotocol.io/chanex/libs/num"
)

// Side of an order.
type Side int32

const (
	// SideUnspecified is the default value, never valid on an order.
	SideUnspecified Side = iota
	// SideBuy is a bid.
	SideBuy
	// SideSell is an offer.
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unspecified"
	}
}

// Opposite returns the side an order of this side matches against.
func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideUnspecified
	}
}

// OrderType is either a limit or a market order.
type OrderType int32

const (
	OrderTypeUnspecified OrderType = iota
	// OrderTypeLimit rests any unfilled remainder on the book.
	OrderTypeLimit
	// OrderTypeMarket is priced at the side's sentinel and never rests.
	OrderTypeMarket
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeLimit:
		return "limit"
	case OrderTypeMarket:
		return "market"
	default:
		return "unspecified"
	}
}

var (
	// MarketBuyPrice is the reserved limit of a market buy, effectively +inf.
	MarketBuyPrice = num.MustDecimalFromString("999999.99")
	// MarketSellPrice is the reserved limit of a market sell, effectively 0.
	MarketSellPrice = num.MustDecimalFromString("0.01")
	// MinTick is the smallest price increment and the lowest valid price.
	MinTick = num.MustDecimalFromString("0.01")
)

// PriceDecimals is the number of decimals prices are rounded to.
const PriceDecimals = 2

// SentinelPrice returns the reserved market order price for the side.
func SentinelPrice(side Side) num.Decimal {
	if side == SideBuy {
		return MarketBuyPrice
	}
	return MarketSellPrice
}

// IsSentinelPrice reports whether the price is the market order sentinel of the side.
func IsSentinelPrice(side Side, price num.Decimal) bool {
	return price.Equal(SentinelPrice(side))
}

// RoundPrice rounds a price to the tick and floors it at the tick.
func RoundPrice(p num.Decimal) num.Decimal {
	return num.MaxD(p.Round(PriceDecimals), MinTick)
}

type Order struct {
	ID        string
	MarketID  string
	Party     Participant
	Side      Side
	Type      OrderType
	Price     num.Decimal
	Size      uint64
	Remaining uint64
	// CreatedAt is only used to break ties between orders at the same price.
	CreatedAt time.Time
	// Seq orders submissions sharing a timestamp.
	Seq uint64
}

// IsMarketMaker reports whether the order belongs to the market maker.
func (o *Order) IsMarketMaker() bool {
	return o.Party.IsMarketMaker()
}

// IsMarketable reports whether the order must never rest on the book.
func (o *Order) IsMarketable() bool {
	return o.Type == OrderTypeMarket || IsSentinelPrice(o.Side, o.Price)
}

// Filled returns the traded volume of the order.
func (o *Order) Filled() uint64 {
	return o.Size - o.Remaining
}

// Before reports whether o has time priority over other.
func (o *Order) Before(other *Order) bool {
	if !o.CreatedAt.Equal(other.CreatedAt) {
		return o.CreatedAt.Before(other.CreatedAt)
	}
	return o.Seq < other.Seq
}

func (o *Order) Clone() *Order {
	cpy := *o
	return &cpy
}

func (o *Order) String() string {
	return fmt.Sprintf(
		"order(id=%s market=%s party=%s side=%s type=%s price=%s size=%d remaining=%d)",
		o.ID, o.MarketID, o.Party, o.Side, o.Type, o.Price, o.Size, o.Remaining,
	)
}

type Trade struct {
	ID        string
	MarketID  string
	Price     num.Decimal
	Size      uint64
	Buyer     Participant
	Seller    Participant
	Aggressor Side
	BuyOrder  string
	SellOrder string
	Timestamp time.Time
}

// Notional returns price times size.
func (t *Trade) Notional() num.Decimal {
	return t.Price.Mul(num.DecimalFromUint64(t.Size))
}

func (t *Trade) String() string {
	return fmt.Sprintf(
		"trade(id=%s market=%s buyer=%s seller=%s price=%s size=%d)",
		t.ID, t.MarketID, t.Buyer, t.Seller, t.Price, t.Size,
	)
}

// Fill is the part of a trade reported back to the submitter of an order.
type Fill struct {
	Price        num.Decimal
	Size         uint64
	Counterparty Participant
}

// OrderConfirmation is returned by the book once an order was processed.
type OrderConfirmation struct {
	Order                 *Order
	Trades                []*Trade
	PassiveOrdersAffected []*Order
}

// Fills returns the fills of the aggressive order.
func (c *OrderConfirmation) Fills() []Fill {
	out := make([]Fill, 0, len(c.Trades))
	for _, t := range c.Trades {
		cp := t.Seller
		if c.Order.Side == SideSell {
			cp = t.Buyer
		}
		out = append(out, Fill{Price: t.Price, Size: t.Size, Counterparty: cp})
	}
	return out
}

// PriceLevel is an aggregated view of one price on a side of the book.
type PriceLevel struct {
	Price          num.Decimal
	NumberOfOrders uint64
	Volume         uint64
	MarketMaker    bool
}

type PriceLevels []*PriceLevel
