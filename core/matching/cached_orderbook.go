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
	"code.vegaprotocol.io/chanex/logging"
)

// BookCache keeps the aggregated depth of the book between mutations.
type BookCache struct {
	valid bool
	bids  types.PriceLevels
	asks  types.PriceLevels
}

func NewBookCache() BookCache {
	return BookCache{}
}

func (c *BookCache) Invalidate() {
	c.valid = false
	c.bids, c.asks = nil, nil
}

func (c *BookCache) Get() (types.PriceLevels, types.PriceLevels, bool) {
	return c.bids, c.asks, c.valid
}

func (c *BookCache) Set(bids, asks types.PriceLevels) {
	c.bids, c.asks, c.valid = bids, asks, true
}

// CachedOrderBook serves depth queries from a cache invalidated on every
// change to the book.
type CachedOrderBook struct {
	*OrderBook
	cache BookCache
}

func NewCachedOrderBook(log *logging.Logger, config Config, market string) *CachedOrderBook {
	return &CachedOrderBook{
		OrderBook: NewOrderBook(log, config, market),
		cache:     NewBookCache(),
	}
}

func (b *CachedOrderBook) SubmitOrder(order *types.Order, onFill FillHandler) (*types.OrderConfirmation, error) {
	b.cache.Invalidate()
	return b.OrderBook.SubmitOrder(order, onFill)
}

func (b *CachedOrderBook) CancelOrder(orderID string, requester types.Participant) (*types.Order, error) {
	b.cache.Invalidate()
	return b.OrderBook.CancelOrder(orderID, requester)
}

func (b *CachedOrderBook) CancelAllOrders(party types.Participant) ([]*types.Order, error) {
	b.cache.Invalidate()
	return b.OrderBook.CancelAllOrders(party)
}

func (b *CachedOrderBook) RestoreOrder(order *types.Order) error {
	b.cache.Invalidate()
	return b.OrderBook.RestoreOrder(order)
}

func (b *CachedOrderBook) Clear() {
	b.cache.Invalidate()
	b.OrderBook.Clear()
}

// Depth returns the first levels of each side, the full depth is cached.
func (b *CachedOrderBook) Depth(levels int) (types.PriceLevels, types.PriceLevels) {
	bids, asks, ok := b.cache.Get()
	if !ok {
		bids, asks = b.OrderBook.Depth(0)
		b.cache.Set(bids, asks)
	}
	return truncateLevels(bids, levels), truncateLevels(asks, levels)
}

// truncateLevels copies at most n levels, callers never share the cached ones.
func truncateLevels(lvls types.PriceLevels, n int) types.PriceLevels {
	if n <= 0 || len(lvls) < n {
		n = len(lvls)
	}
	out := make(types.PriceLevels, 0, n)
	for _, l := range lvls[:n] {
		cpy := *l
		out = append(out, &cpy)
	}
	return out
}
