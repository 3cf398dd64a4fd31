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

	"github.com/pkg/errors"
)

// OrderBook represents the book holding all orders in the system.
// It is not safe for concurrent use, the owner of the market serialises access.
type OrderBook struct {
	Config

	log             *logging.Logger
	marketID        string
	buy             *OrderBookSide
	sell            *OrderBookSide
	ordersByID      map[string]*types.Order
	ordersPerParty  map[types.Participant]map[string]struct{}
	lastTradedPrice num.Decimal
	seq             uint64
}

// NewOrderBook create an order book with a given name.
func NewOrderBook(log *logging.Logger, config Config, marketID string) *OrderBook {
	// setup logger
	log = log.Named(namedLogger)
	log.SetLevel(config.Level.Get())

	return &OrderBook{
		log:             log,
		marketID:        marketID,
		Config:          config,
		buy:             newOrderBookSide(log, types.SideBuy, config.BTreeDegree),
		sell:            newOrderBookSide(log, types.SideSell, config.BTreeDegree),
		ordersByID:      map[string]*types.Order{},
		ordersPerParty:  map[types.Participant]map[string]struct{}{},
		lastTradedPrice: num.DecimalZero(),
	}
}

// ReloadConf is used in order to reload the internal configuration of
// the OrderBook.
func (b *OrderBook) ReloadConf(cfg Config) {
	b.log.Info("reloading configuration")
	if b.log.GetLevel() != cfg.Level.Get() {
		b.log.Info("updating log level",
			logging.String("old", b.log.GetLevelString()),
			logging.String("new", cfg.Level.String()),
		)
		b.log.SetLevel(cfg.Level.Get())
	}

	b.LogPriceLevelsDebug = cfg.LogPriceLevelsDebug
	b.LogRemovedOrdersDebug = cfg.LogRemovedOrdersDebug
}

// MarketID returns the market the book belongs to.
func (b *OrderBook) MarketID() string {
	return b.marketID
}

// LastTradedPrice returns the price of the last trade, zero before any trade.
func (b *OrderBook) LastTradedPrice() num.Decimal {
	return b.lastTradedPrice
}

func (b *OrderBook) getSide(side types.Side) *OrderBookSide {
	if side == types.SideBuy {
		return b.buy
	}
	return b.sell
}

func (b *OrderBook) getOppositeSide(side types.Side) *OrderBookSide {
	if side == types.SideBuy {
		return b.sell
	}
	return b.buy
}

func (b *OrderBook) validateOrder(order *types.Order) error {
	if order.MarketID != b.marketID {
		return errors.Wrapf(types.ErrInvalidArgument, "order for market %s submitted to %s", order.MarketID, b.marketID)
	}
	if order.Side != types.SideBuy && order.Side != types.SideSell {
		return types.ErrInvalidSide
	}
	if order.Party.IsZero() {
		return types.ErrInvalidParty
	}
	if order.Size < 1 || order.Remaining < 1 || order.Remaining > order.Size {
		return types.ErrInvalidQuantity
	}
	if !order.Price.IsPositive() {
		return types.ErrInvalidPrice
	}
	if len(order.ID) <= 0 {
		return errors.Wrap(types.ErrInvalidArgument, "missing order id")
	}
	if _, ok := b.ordersByID[order.ID]; ok {
		return errors.Wrapf(types.ErrInvalidArgument, "duplicate order id %s", order.ID)
	}
	return nil
}

// SubmitOrder matches the order against the opposite side of the book in
// price-time priority, every fill trading at the resting order's price.
// onFill is invoked for each fill before the book changes, an error from it
// stops the matching and is returned along with the fills that did happen.
// The remainder of a limit order rests on the book, the remainder of a
// marketable order is discarded.
func (b *OrderBook) SubmitOrder(order *types.Order, onFill FillHandler) (*types.OrderConfirmation, error) {
	if err := b.validateOrder(order); err != nil {
		return nil, err
	}

	b.seq++
	order.Seq = b.seq

	var tradeIdx int
	newTrade := func(agg, passive *types.Order, size uint64, price num.Decimal) *types.Trade {
		tradeIdx++
		trade := &types.Trade{
			ID:        fmt.Sprintf("%s-%010d", agg.ID, tradeIdx),
			MarketID:  b.marketID,
			Price:     price,
			Size:      size,
			Aggressor: agg.Side,
			Timestamp: agg.CreatedAt,
		}
		if agg.Side == types.SideBuy {
			trade.Buyer, trade.Seller = agg.Party, passive.Party
			trade.BuyOrder, trade.SellOrder = agg.ID, passive.ID
		} else {
			trade.Buyer, trade.Seller = passive.Party, agg.Party
			trade.BuyOrder, trade.SellOrder = passive.ID, agg.ID
		}
		return trade
	}

	trades, impactedOrders, err := b.getOppositeSide(order.Side).uncross(order, onFill, newTrade)

	for _, o := range impactedOrders {
		if o.Remaining == 0 {
			b.forget(o)
		}
	}
	if len(trades) > 0 {
		b.lastTradedPrice = trades[len(trades)-1].Price
	}

	if err == nil && order.Remaining > 0 && !order.IsMarketable() {
		b.getSide(order.Side).addOrder(order)
		b.remember(order)
	}

	if b.LogPriceLevelsDebug {
		b.PrintState("after submit")
	}

	return &types.OrderConfirmation{
		Order:                 order,
		Trades:                trades,
		PassiveOrdersAffected: impactedOrders,
	}, err
}

// CancelOrder removes a resting order on behalf of its owner.
func (b *OrderBook) CancelOrder(orderID string, requester types.Participant) (*types.Order, error) {
	order, ok := b.ordersByID[orderID]
	if !ok {
		return nil, types.ErrOrderNotFound
	}
	if order.Party != requester {
		return nil, types.ErrNotOwner
	}
	return b.removeOrder(order)
}

// CancelAllOrders removes every resting order of the party.
func (b *OrderBook) CancelAllOrders(party types.Participant) ([]*types.Order, error) {
	ids := b.ordersPerParty[party]
	cancelled := make([]*types.Order, 0, len(ids))
	for _, order := range b.GetOrdersForParty(party) {
		o, err := b.removeOrder(order)
		if err != nil {
			return cancelled, err
		}
		cancelled = append(cancelled, o)
	}
	return cancelled, nil
}

// RestoreOrder puts back a resting order loaded from a store, without matching.
func (b *OrderBook) RestoreOrder(order *types.Order) error {
	if err := b.validateOrder(order); err != nil {
		return err
	}
	if order.IsMarketable() {
		return errors.Wrap(types.ErrInvalidArgument, "marketable orders never rest")
	}
	if order.Seq > b.seq {
		b.seq = order.Seq
	}
	b.getSide(order.Side).addOrder(order)
	b.remember(order)
	return nil
}

func (b *OrderBook) removeOrder(order *types.Order) (*types.Order, error) {
	o, err := b.getSide(order.Side).RemoveOrder(order)
	if err != nil {
		return nil, err
	}
	b.forget(o)
	if b.LogRemovedOrdersDebug {
		b.log.Debug("order removed", logging.OrderID(o.ID), logging.Uint64("remaining", o.Remaining))
	}
	return o, nil
}

func (b *OrderBook) remember(order *types.Order) {
	b.ordersByID[order.ID] = order
	ids, ok := b.ordersPerParty[order.Party]
	if !ok {
		ids = map[string]struct{}{}
		b.ordersPerParty[order.Party] = ids
	}
	ids[order.ID] = struct{}{}
}

func (b *OrderBook) forget(order *types.Order) {
	delete(b.ordersByID, order.ID)
	if ids, ok := b.ordersPerParty[order.Party]; ok {
		delete(ids, order.ID)
		if len(ids) <= 0 {
			delete(b.ordersPerParty, order.Party)
		}
	}
}

// GetOrderByID returns the resting order with the given id.
func (b *OrderBook) GetOrderByID(orderID string) (*types.Order, error) {
	order, ok := b.ordersByID[orderID]
	if !ok {
		return nil, types.ErrOrderNotFound
	}
	return order, nil
}

// GetOrdersForParty returns the resting orders of the party, best price first.
func (b *OrderBook) GetOrdersForParty(party types.Participant) []*types.Order {
	ids := b.ordersPerParty[party]
	out := make([]*types.Order, 0, len(ids))
	for _, side := range []*OrderBookSide{b.buy, b.sell} {
		for _, o := range side.getOrders() {
			if _, ok := ids[o.ID]; ok {
				out = append(out, o)
			}
		}
	}
	return out
}

// Orders returns every resting order, bids first.
func (b *OrderBook) Orders() []*types.Order {
	return append(b.buy.getOrders(), b.sell.getOrders()...)
}

// AvailableVolume returns how much of size an order on the given side and
// price could fill against the book, and the worst price it would trade at.
func (b *OrderBook) AvailableVolume(side types.Side, price num.Decimal, size uint64) (uint64, num.Decimal) {
	return b.getOppositeSide(side).volumeUpTo(price, size)
}

// GetBestBidPrice returns the highest resting bid.
func (b *OrderBook) GetBestBidPrice() (num.Decimal, error) {
	price, _, err := b.buy.BestPriceAndVolume()
	return price, err
}

// GetBestAskPrice returns the lowest resting ask.
func (b *OrderBook) GetBestAskPrice() (num.Decimal, error) {
	price, _, err := b.sell.BestPriceAndVolume()
	return price, err
}

// Depth returns up to levels aggregated price levels per side, best first.
func (b *OrderBook) Depth(levels int) (bids, asks types.PriceLevels) {
	return b.buy.depth(levels), b.sell.depth(levels)
}

// GetTotalNumberOfOrders returns the number of resting orders.
func (b *OrderBook) GetTotalNumberOfOrders() int64 {
	return b.buy.getOrderCount() + b.sell.getOrderCount()
}

// GetTotalVolume returns the resting volume of both sides.
func (b *OrderBook) GetTotalVolume() uint64 {
	return b.buy.getTotalVolume() + b.sell.getTotalVolume()
}

// Clear drops every resting order, used when the market is delisted.
func (b *OrderBook) Clear() {
	b.buy.cleanup()
	b.sell.cleanup()
	b.ordersByID = map[string]*types.Order{}
	b.ordersPerParty = map[types.Participant]map[string]struct{}{}
}

// PrintState prints the actual state of the book.
// this should be use only in debug / non production environment as it
// rely a lot on logging.
func (b *OrderBook) PrintState(types string) {
	b.log.Debug("PrintState",
		logging.String("types", types))
	b.log.Debug("------------------------------------------------------------")
	b.log.Debug("                        BUY SIDE                            ")
	for _, priceLevel := range b.buy.depth(0) {
		b.log.Debug(fmt.Sprintf("priceLevel: %s volume: %d orders: %d", priceLevel.Price, priceLevel.Volume, priceLevel.NumberOfOrders))
	}
	b.log.Debug("------------------------------------------------------------")
	b.log.Debug("                        SELL SIDE                           ")
	for _, priceLevel := range b.sell.depth(0) {
		b.log.Debug(fmt.Sprintf("priceLevel: %s volume: %d orders: %d", priceLevel.Price, priceLevel.Volume, priceLevel.NumberOfOrders))
	}
	b.log.Debug("------------------------------------------------------------")
}
