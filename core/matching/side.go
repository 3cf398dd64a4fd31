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
	"fmt"

	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/google/btree"
	"github.com/pkg/errors"
)

var (
	// ErrPriceNotFound signals that a price was not found on the book side.
	ErrPriceNotFound = errors.New("price-volume pair not found")
	// ErrNoOrders signals an empty side of the book.
	ErrNoOrders = errors.New("no orders on the book")
)

// OrderBookSide represent a side of the book, either Sell or Buy.
// Levels are kept in ascending price order, the best buy is the highest
// level and the best sell the lowest.
type OrderBookSide struct {
	side   types.Side
	log    *logging.Logger
	levels *btree.BTreeG[*PriceLevel]
	degree int
}

func newOrderBookSide(log *logging.Logger, side types.Side, degree int) *OrderBookSide {
	if degree < 2 {
		degree = 2
	}
	return &OrderBookSide{
		side:   side,
		log:    log,
		levels: btree.NewG[*PriceLevel](degree, lessPriceLevel),
		degree: degree,
	}
}

func (s *OrderBookSide) cleanup() {
	s.levels.Clear(false)
}

func (s *OrderBookSide) addOrder(o *types.Order) {
	s.getPriceLevel(o.Price).addOrder(o)
}

// eachBest walks the levels from the best price to the worst one
// until f returns false.
func (s *OrderBookSide) eachBest(f func(*PriceLevel) bool) {
	if s.side == types.SideBuy {
		s.levels.Descend(f)
		return
	}
	s.levels.Ascend(f)
}

func (s *OrderBookSide) best() (*PriceLevel, bool) {
	if s.side == types.SideBuy {
		return s.levels.Max()
	}
	return s.levels.Min()
}

// BestPriceAndVolume returns the top of book price and volume
// returns an error if the book is empty.
func (s *OrderBookSide) BestPriceAndVolume() (num.Decimal, uint64, error) {
	level, ok := s.best()
	if !ok {
		return num.DecimalZero(), 0, ErrNoOrders
	}
	return level.price, level.volume, nil
}

// RemoveOrder removes an order from the side and returns it.
func (s *OrderBookSide) RemoveOrder(o *types.Order) (*types.Order, error) {
	level := s.getPriceLevelIfExists(o.Price)
	if level == nil {
		return nil, types.ErrOrderNotFound
	}

	idx := -1
	for i, order := range level.orders {
		if order.ID == o.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, types.ErrOrderNotFound
	}

	order := level.orders[idx]
	level.removeOrder(idx)
	if len(level.orders) <= 0 {
		s.levels.Delete(level)
	}
	return order, nil
}

func (s *OrderBookSide) getPriceLevelIfExists(price num.Decimal) *PriceLevel {
	level, ok := s.levels.Get(&PriceLevel{price: price})
	if !ok {
		return nil
	}
	return level
}

func (s *OrderBookSide) getPriceLevel(price num.Decimal) *PriceLevel {
	if level := s.getPriceLevelIfExists(price); level != nil {
		return level
	}
	level := NewPriceLevel(price)
	s.levels.ReplaceOrInsert(level)
	return level
}

// GetVolume returns the volume at the given pricelevel.
func (s *OrderBookSide) GetVolume(price num.Decimal) (uint64, error) {
	level := s.getPriceLevelIfExists(price)
	if level == nil {
		return 0, ErrPriceNotFound
	}
	return level.volume, nil
}

// crosses reports whether an aggressive order priced at price trades with the level.
func (s *OrderBookSide) crosses(level *PriceLevel, price num.Decimal) bool {
	if s.side == types.SideSell {
		// a buy trades with sells at or below its limit
		return level.price.LessThanOrEqual(price)
	}
	return level.price.GreaterThanOrEqual(price)
}

// volumeUpTo returns the volume an aggressive order priced at price could
// trade against, stopping once size is reached, and the worst price it
// would have to trade at to get there.
func (s *OrderBookSide) volumeUpTo(price num.Decimal, size uint64) (uint64, num.Decimal) {
	var (
		volume uint64
		worst  = num.DecimalZero()
	)
	s.eachBest(func(level *PriceLevel) bool {
		if !s.crosses(level, price) {
			return false
		}
		volume += level.volume
		worst = level.price
		return volume < size
	})
	return volume, worst
}

func (s *OrderBookSide) uncross(agg *types.Order, onFill FillHandler, newTrade tradeFactory) ([]*types.Trade, []*types.Order, error) {
	var (
		trades         []*types.Trade
		impactedOrders []*types.Order
		filled         bool
		err            error
	)

	for !filled {
		level, ok := s.best()
		if !ok || !s.crosses(level, agg.Price) {
			break
		}

		var (
			ntrades []*types.Trade
			nimpact []*types.Order
		)
		filled, ntrades, nimpact, err = level.uncross(agg, onFill, newTrade)
		trades = append(trades, ntrades...)
		impactedOrders = append(impactedOrders, nimpact...)

		if len(level.orders) <= 0 {
			s.levels.Delete(level)
		}
		if err != nil {
			break
		}
	}

	if s.log.IsDebug() && len(trades) > 0 {
		s.log.Debug(fmt.Sprintf("uncrossed %d trades, remaining %d", len(trades), agg.Remaining),
			logging.OrderID(agg.ID))
	}

	return trades, impactedOrders, err
}

// depth returns up to limit aggregated levels starting from the best price,
// all of them when limit is zero.
func (s *OrderBookSide) depth(limit int) types.PriceLevels {
	out := types.PriceLevels{}
	s.eachBest(func(level *PriceLevel) bool {
		out = append(out, &types.PriceLevel{
			Price:          level.price,
			NumberOfOrders: uint64(len(level.orders)),
			Volume:         level.volume,
			MarketMaker:    level.hasMarketMaker(),
		})
		return limit <= 0 || len(out) < limit
	})
	return out
}

func (s *OrderBookSide) getOrders() []*types.Order {
	out := []*types.Order{}
	s.eachBest(func(level *PriceLevel) bool {
		out = append(out, level.orders...)
		return true
	})
	return out
}

func (s *OrderBookSide) getOrderCount() int64 {
	var orderCount int64
	s.levels.Ascend(func(level *PriceLevel) bool {
		orderCount += int64(len(level.orders))
		return true
	})
	return orderCount
}

func (s *OrderBookSide) getTotalVolume() uint64 {
	var volume uint64
	s.levels.Ascend(func(level *PriceLevel) bool {
		volume += level.volume
		return true
	})
	return volume
}
