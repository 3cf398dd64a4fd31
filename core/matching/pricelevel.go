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
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
)

// FillHandler is called for every fill before the book is mutated. When it
// returns an error the fill does not happen and matching stops.
type FillHandler func(trade *types.Trade) error

// tradeFactory builds the trade for a fill of the aggressive order against a passive one.
type tradeFactory func(agg, passive *types.Order, size uint64, price num.Decimal) *types.Trade

// PriceLevel holds all the orders resting at one price, oldest first.
type PriceLevel struct {
	price  num.Decimal
	orders []*types.Order
	volume uint64
}

// NewPriceLevel instantiate a new PriceLevel.
func NewPriceLevel(price num.Decimal) *PriceLevel {
	return &PriceLevel{
		price:  price,
		orders: []*types.Order{},
	}
}

func lessPriceLevel(a, b *PriceLevel) bool {
	return a.price.LessThan(b.price)
}

func (l *PriceLevel) addOrder(o *types.Order) {
	l.volume += o.Remaining

	// orders restored from the store may come out of sequence
	i := len(l.orders)
	for i > 0 && o.Before(l.orders[i-1]) {
		i--
	}
	l.orders = append(l.orders, nil)
	copy(l.orders[i+1:], l.orders[i:])
	l.orders[i] = o
}

func (l *PriceLevel) removeOrder(index int) {
	l.volume -= l.orders[index].Remaining
	copy(l.orders[index:], l.orders[index+1:])
	l.orders[len(l.orders)-1] = nil
	l.orders = l.orders[:len(l.orders)-1]
}

// hasMarketMaker reports whether the market maker rests at this level.
func (l *PriceLevel) hasMarketMaker() bool {
	for _, o := range l.orders {
		if o.IsMarketMaker() {
			return true
		}
	}
	return false
}

// uncross fills the aggressive order against this level in time priority.
// filled is true once the aggressive order has nothing left to trade.
func (l *PriceLevel) uncross(agg *types.Order, onFill FillHandler, newTrade tradeFactory) (filled bool, trades []*types.Trade, impactedOrders []*types.Order, err error) {
	var done int
	for done < len(l.orders) && agg.Remaining > 0 {
		order := l.orders[done]
		size := min(agg.Remaining, order.Remaining)
		trade := newTrade(agg, order, size, l.price)

		if onFill != nil {
			if err = onFill(trade); err != nil {
				break
			}
		}

		agg.Remaining -= size
		order.Remaining -= size
		l.volume -= size

		trades = append(trades, trade)
		impactedOrders = append(impactedOrders, order)

		if order.Remaining == 0 {
			done++
		}
	}

	if done > 0 {
		// nil out the consumed orders so they get collected
		for i := 0; i < done; i++ {
			l.orders[i] = nil
		}
		l.orders = l.orders[done:]
	}

	return agg.Remaining == 0, trades, impactedOrders, err
}
