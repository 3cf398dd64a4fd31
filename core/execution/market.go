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
	"sort"
	"sync"
	"time"

	"code.vegaprotocol.io/chanex/core/events"
	"code.vegaprotocol.io/chanex/core/fairvalue"
	"code.vegaprotocol.io/chanex/core/marketmaker"
	"code.vegaprotocol.io/chanex/core/matching"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"
	"code.vegaprotocol.io/chanex/metrics"

	"github.com/pkg/errors"
)

// Market owns the state of one listed market. Every operation holds the
// market lock so orders, quotes and settlements of a market never interleave.
type Market struct {
	log *logging.Logger
	cfg Config

	mu   sync.Mutex
	mkt  *types.Market
	book *matching.CachedOrderBook

	mm     *marketmaker.Engine
	fair   *fairvalue.Model
	ledger Ledger
	broker Broker
	store  Store
	ts     TimeService
	idgen  IDGenerator
	rand   Rand

	// trade prices, oldest first
	history  []types.PricePoint
	delisted bool
}

func newMarket(
	log *logging.Logger,
	cfg Config,
	mkt *types.Market,
	mm *marketmaker.Engine,
	fair *fairvalue.Model,
	ledger Ledger,
	broker Broker,
	store Store,
	ts TimeService,
	idgen IDGenerator,
	rand Rand,
) *Market {
	return &Market{
		log:    log.With(logging.MarketID(mkt.ID)),
		cfg:    cfg,
		mkt:    mkt,
		book:   matching.NewCachedOrderBook(log, cfg.Matching, mkt.ID),
		mm:     mm,
		fair:   fair,
		ledger: ledger,
		broker: broker,
		store:  store,
		ts:     ts,
		idgen:  idgen,
		rand:   rand,
	}
}

func (m *Market) reloadConf(cfg Config) {
	m.cfg = cfg
	m.book.ReloadConf(cfg.Matching)
}

func (m *Market) GetID() string {
	return m.mkt.ID
}

func (m *Market) checkListed() error {
	if m.delisted {
		return errors.Wrapf(types.ErrMarketNotFound, "market %s was delisted", m.mkt.ID)
	}
	return nil
}

// SubmitOrder reserves the funds or shares the order needs, matches it and
// refreshes the market maker quotes when it traded.
func (m *Market) SubmitOrder(ctx context.Context, sub types.OrderSubmission) (*types.OrderConfirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkListed(); err != nil {
		return nil, err
	}

	order, err := sub.IntoOrder()
	if err != nil {
		metrics.OrderCounterInc(m.mkt.ID, "false")
		return nil, err
	}
	if order.IsMarketMaker() {
		metrics.OrderCounterInc(m.mkt.ID, "false")
		return nil, errors.Wrap(types.ErrInvalidParty, "market maker orders are placed by the quoting engine")
	}
	metrics.OrderCounterInc(m.mkt.ID, "true")

	conf, err := m.submit(ctx, order)
	if conf != nil && len(conf.Trades) > 0 {
		if err := m.requote(ctx); err != nil {
			m.log.Warn("market maker requote after trade failed", logging.Error(err))
		}
	}
	return conf, err
}

// submit reserves what the order needs and matches it. Fills are settled in
// the ledger one by one before the book changes, anything reserved and not
// used by a fill or a resting remainder is refunded.
func (m *Market) submit(ctx context.Context, order *types.Order) (*types.OrderConfirmation, error) {
	now := m.ts.GetTimeNow()
	order.ID = m.idgen.NextID()
	order.MarketID = m.mkt.ID
	order.CreatedAt = now

	reservedPrice, err := m.reserve(ctx, order)
	if err != nil {
		return nil, err
	}

	onFill := func(trade *types.Trade) error {
		buyerReserved := trade.Price
		if trade.Aggressor == types.SideBuy {
			buyerReserved = reservedPrice
		}
		return m.ledger.SettleTrade(ctx, trade, buyerReserved)
	}

	conf, matchErr := m.book.SubmitOrder(order, onFill)
	if conf == nil {
		// rejected by the book before any fill
		if rerr := m.refund(ctx, order, reservedPrice, order.Remaining); rerr != nil {
			m.log.Error("could not refund rejected order", logging.OrderID(order.ID), logging.Error(rerr))
		}
		return nil, matchErr
	}

	rests := matchErr == nil && order.Remaining > 0 && !order.IsMarketable()
	if !rests && order.Remaining > 0 {
		if err := m.refund(ctx, order, reservedPrice, order.Remaining); err != nil {
			m.log.Error("could not refund unfilled remainder",
				logging.OrderID(order.ID),
				logging.Uint64("remaining", order.Remaining),
				logging.Error(err),
			)
		}
	}

	m.onTrades(ctx, conf, rests)

	if matchErr != nil {
		m.log.Error("matching stopped on a ledger failure",
			logging.OrderID(order.ID),
			logging.Int("trades", len(conf.Trades)),
			logging.Error(matchErr),
		)
		return conf, matchErr
	}
	return conf, nil
}

// reserve escrows the cash of a buy or the shares of a sell and returns the
// price per share reserved. Marketable orders are checked against the book
// first and a buy reserves the worst price it would trade at.
func (m *Market) reserve(ctx context.Context, order *types.Order) (num.Decimal, error) {
	price := order.Price
	if order.IsMarketable() {
		available, worst := m.book.AvailableVolume(order.Side, order.Price, order.Size)
		if available < order.Size {
			return num.DecimalZero(), errors.Wrapf(types.ErrInsufficientLiquidity, "%d available for %d", available, order.Size)
		}
		price = worst
	}

	if order.Side == types.SideBuy {
		amount := price.Mul(num.DecimalFromUint64(order.Size))
		return price, m.ledger.ReserveCash(ctx, order.Party, m.mkt.ID, amount)
	}
	return price, m.ledger.ReserveShares(ctx, order.Party, m.mkt.ID, order.Size)
}

func (m *Market) refund(ctx context.Context, order *types.Order, reservedPrice num.Decimal, qty uint64) error {
	if qty == 0 {
		return nil
	}
	if order.Side == types.SideBuy {
		return m.ledger.RefundCash(ctx, order.Party, m.mkt.ID, reservedPrice.Mul(num.DecimalFromUint64(qty)))
	}
	return m.ledger.RefundShares(ctx, order.Party, m.mkt.ID, qty)
}

func orderStatus(o *types.Order, rests bool) events.OrderStatus {
	switch {
	case o.Remaining == 0:
		return events.OrderStatusFilled
	case !rests:
		return events.OrderStatusStopped
	case o.Remaining < o.Size:
		return events.OrderStatusPartiallyFilled
	default:
		return events.OrderStatusActive
	}
}

// onTrades applies the consequences of a matched order: fair price nudges,
// trade history, persistence, events and metrics.
func (m *Market) onTrades(ctx context.Context, conf *types.OrderConfirmation, rests bool) {
	evts := make([]events.Event, 0, 1+len(conf.Trades)+len(conf.PassiveOrdersAffected))
	evts = append(evts, events.NewOrderEvent(ctx, conf.Order, orderStatus(conf.Order, rests)))

	var volume uint64
	for _, trade := range conf.Trades {
		m.mkt.FairPrice = m.fair.Nudge(m.mkt.FairPrice, trade.Price)
		m.recordPrice(types.PricePoint{At: trade.Timestamp, Price: trade.Price, Size: trade.Size})
		volume += trade.Size
		m.persist("save trade", m.store.SaveTrade(trade))
		evts = append(evts, events.NewTradeEvent(ctx, *trade))

		if m.log.IsDebug() {
			m.log.Debug("fill",
				logging.Stringer("buyer", trade.Buyer),
				logging.Stringer("seller", trade.Seller),
				logging.Decimal("price", trade.Price),
				logging.Uint64("size", trade.Size),
			)
		}
	}

	for _, passive := range conf.PassiveOrdersAffected {
		if passive.Remaining == 0 {
			m.persist("delete order", m.store.DeleteOrder(m.mkt.ID, passive.ID))
			m.forgetQuote(passive.ID)
		} else {
			m.persist("save order", m.store.SaveOrder(passive))
		}
		evts = append(evts, events.NewOrderEvent(ctx, passive, orderStatus(passive, passive.Remaining > 0)))
	}
	if rests {
		m.persist("save order", m.store.SaveOrder(conf.Order))
	}

	if len(conf.Trades) > 0 {
		m.persist("save market", m.store.SaveMarket(m.mkt))
		evts = append(evts, events.NewMarketUpdatedEvent(ctx, *m.mkt.Clone()))
		metrics.TradesAdd(len(conf.Trades), volume, m.mkt.ID)
		metrics.FairPriceGaugeSet(m.mkt.FairPrice.InexactFloat64(), m.mkt.ID)
	}
	metrics.RestingOrdersGaugeSet(m.book.GetTotalNumberOfOrders(), m.mkt.ID)
	m.broker.SendBatch(evts)
}

func (m *Market) forgetQuote(orderID string) {
	switch orderID {
	case m.mkt.MarketMaker.BidOrderID:
		m.mkt.MarketMaker.BidOrderID = ""
	case m.mkt.MarketMaker.AskOrderID:
		m.mkt.MarketMaker.AskOrderID = ""
	}
}

func (m *Market) recordPrice(p types.PricePoint) {
	m.history = append(m.history, p)
	if limit := m.cfg.PriceHistorySize; limit > 0 && len(m.history) > limit {
		m.history = append(m.history[:0:0], m.history[len(m.history)-limit:]...)
	}
}

func (m *Market) persist(op string, err error) {
	if err != nil {
		m.log.Error("could not persist market state", logging.String("op", op), logging.Error(err))
	}
}

// CancelOrder refunds the unexecuted part of a resting order then removes it.
func (m *Market) CancelOrder(ctx context.Context, orderID string, requester types.Participant) (types.Refund, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkListed(); err != nil {
		return types.Refund{}, err
	}

	order, err := m.book.GetOrderByID(orderID)
	if err != nil {
		return types.Refund{}, err
	}
	if order.Party != requester {
		return types.Refund{}, types.ErrNotOwner
	}

	refund := m.refundFor(order)
	if err := m.refund(ctx, order, order.Price, order.Remaining); err != nil {
		return types.Refund{}, err
	}
	if _, err := m.book.CancelOrder(orderID, requester); err != nil {
		// cannot happen while holding the lock, the order was just looked up
		m.log.Panic("resting order vanished", logging.OrderID(orderID), logging.Error(err))
	}

	m.persist("delete order", m.store.DeleteOrder(m.mkt.ID, orderID))
	m.forgetQuote(orderID)
	metrics.RestingOrdersGaugeSet(m.book.GetTotalNumberOfOrders(), m.mkt.ID)
	m.broker.Send(events.NewOrderEvent(ctx, order, events.OrderStatusCancelled))
	return refund, nil
}

func (m *Market) refundFor(order *types.Order) types.Refund {
	if order.Side == types.SideBuy {
		return types.Refund{Cash: order.Price.Mul(num.DecimalFromUint64(order.Remaining))}
	}
	return types.Refund{Cash: num.DecimalZero(), Shares: order.Remaining}
}

// Requote replaces the market maker quotes.
func (m *Market) Requote(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkListed(); err != nil {
		return err
	}
	m.broker.Send(events.NewMarketTick(ctx, m.mkt.ID, m.ts.GetTimeNow()))
	return m.requote(ctx)
}

// requote cancels the market maker orders and posts one fresh bid and one
// fresh ask. The market lock is held for the whole cancel-replace.
func (m *Market) requote(ctx context.Context) (err error) {
	timer := metrics.NewTimeCounter(m.mkt.ID, "execution", "Requote")
	defer func() {
		timer.EngineTimeCounterAdd()
		status := "ok"
		if err != nil {
			status = "failed"
			err = errors.Wrap(types.ErrMarketMakerRequoteFailed, err.Error())
		}
		metrics.RequoteCounterInc(m.mkt.ID, status)
	}()

	mm := types.MarketMaker()
	evts := []events.Event{}
	for _, o := range m.book.GetOrdersForParty(mm) {
		if err := m.refund(ctx, o, o.Price, o.Remaining); err != nil {
			return errors.Wrapf(err, "refunding quote %s", o.ID)
		}
		if _, err := m.book.CancelOrder(o.ID, mm); err != nil {
			return err
		}
		m.persist("delete order", m.store.DeleteOrder(m.mkt.ID, o.ID))
		evts = append(evts, events.NewOrderEvent(ctx, o, events.OrderStatusCancelled))
	}
	m.mkt.MarketMaker.BidOrderID, m.mkt.MarketMaker.AskOrderID = "", ""
	m.broker.SendBatch(evts)

	bal, err := m.ledger.Balance(ctx, mm, m.mkt.ID)
	if err != nil {
		return err
	}

	now := m.ts.GetTimeNow()
	quote := m.mm.Quote(marketmaker.QuoteInput{
		FairPrice:   m.mkt.FairPrice,
		Prices:      m.recentPrices(m.mm.VolatilityWindow()),
		Cash:        bal.Cash,
		Inventory:   bal.Shares,
		DailyVolume: m.dailyVolume(now),
		TotalShares: m.mkt.TotalShares,
	})

	state := &m.mkt.MarketMaker
	state.Cash = bal.Cash
	state.Inventory = bal.Shares
	state.FairPrice = m.mkt.FairPrice
	state.Volatility = quote.Volatility
	state.LastQuoteTime = now

	var bid, ask types.PriceLevel
	if quote.BidSize > 0 {
		conf, err := m.submit(ctx, &types.Order{
			Party: mm, Side: types.SideBuy, Type: types.OrderTypeLimit,
			Price: quote.Bid, Size: quote.BidSize, Remaining: quote.BidSize,
		})
		if err != nil {
			return errors.Wrap(err, "posting bid")
		}
		if conf.Order.Remaining > 0 {
			state.BidOrderID = conf.Order.ID
		}
		bid = types.PriceLevel{Price: quote.Bid, NumberOfOrders: 1, Volume: conf.Order.Remaining, MarketMaker: true}
	}
	if quote.AskSize > 0 {
		conf, err := m.submit(ctx, &types.Order{
			Party: mm, Side: types.SideSell, Type: types.OrderTypeLimit,
			Price: quote.Ask, Size: quote.AskSize, Remaining: quote.AskSize,
		})
		if err != nil {
			return errors.Wrap(err, "posting ask")
		}
		if conf.Order.Remaining > 0 {
			state.AskOrderID = conf.Order.ID
		}
		ask = types.PriceLevel{Price: quote.Ask, NumberOfOrders: 1, Volume: conf.Order.Remaining, MarketMaker: true}
	}

	m.persist("save market", m.store.SaveMarket(m.mkt))
	m.broker.Send(events.NewQuoteEvent(ctx, m.mkt.ID, *state, bid, ask))
	return nil
}

// recentPrices returns up to n of the last trade prices, oldest first.
func (m *Market) recentPrices(n int) []num.Decimal {
	start := 0
	if n > 0 && len(m.history) > n {
		start = len(m.history) - n
	}
	out := make([]num.Decimal, 0, len(m.history)-start)
	for _, p := range m.history[start:] {
		out = append(out, p.Price)
	}
	return out
}

func (m *Market) dailyVolume(now time.Time) uint64 {
	since := now.Add(-m.cfg.DailyVolumeWindow.Get())
	var vol uint64
	for i := len(m.history) - 1; i >= 0 && m.history[i].At.After(since); i-- {
		vol += m.history[i].Size
	}
	return vol
}

// AccumulateRevenue adds to the revenue of the period containing at. Revenue
// arriving for a period already settled, or being settled, goes to the next one.
func (m *Market) AccumulateRevenue(_ context.Context, at time.Time, amount num.Decimal) error {
	if amount.IsNegative() {
		return errors.Wrap(types.ErrInvalidArgument, "revenue must not be negative")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkListed(); err != nil {
		return err
	}

	period := types.PeriodStart(at)
	if closed := m.closedUpTo(); !closed.IsZero() && !period.After(closed) {
		period = types.NextPeriod(closed)
	}
	acc := m.mkt.Accumulator(period)
	acc.Accumulated = acc.Accumulated.Add(amount)
	m.persist("save market", m.store.SaveMarket(m.mkt))
	return nil
}

// closedUpTo returns the last period which no longer accepts revenue.
func (m *Market) closedUpTo() time.Time {
	if m.mkt.Pending != nil && m.mkt.Pending.Period.After(m.mkt.LastSettledPeriod) {
		return m.mkt.Pending.Period
	}
	return m.mkt.LastSettledPeriod
}

// SetDividendPct changes the fraction of the settled revenue paid as dividends.
func (m *Market) SetDividendPct(ctx context.Context, pct num.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(num.DecimalOne()) {
		return types.ErrInvalidDividendPct
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkListed(); err != nil {
		return err
	}
	m.mkt.DividendPct = pct
	m.persist("save market", m.store.SaveMarket(m.mkt))
	m.broker.Send(events.NewMarketUpdatedEvent(ctx, *m.mkt.Clone()))
	return nil
}

// DueSettlements returns the periods of the market that ended and are not settled yet.
func (m *Market) DueSettlements(now time.Time) []time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.DueSettlementPeriods(m.mkt.ListedAt, m.mkt.LastSettledPeriod, now)
}

// delist cancels every resting order, refunding the traders, and closes the market in the ledger.
func (m *Market) delist(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := m.book.Orders()
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Before(orders[j]) })
	evts := make([]events.Event, 0, len(orders)+1)
	for _, o := range orders {
		// the market maker account is closed with the market
		if !o.IsMarketMaker() {
			if err := m.refund(ctx, o, o.Price, o.Remaining); err != nil {
				return errors.Wrapf(err, "refunding order %s", o.ID)
			}
		}
		if _, err := m.book.CancelOrder(o.ID, o.Party); err != nil {
			return err
		}
		evts = append(evts, events.NewOrderEvent(ctx, o, events.OrderStatusCancelled))
	}

	if err := m.ledger.CloseMarket(ctx, m.mkt.ID); err != nil {
		return err
	}
	m.book.Clear()
	m.delisted = true
	m.persist("delete market", m.store.DeleteMarket(m.mkt.ID))
	metrics.ForgetMarket(m.mkt.ID)

	evts = append(evts, events.NewMarketDelistedEvent(ctx, m.mkt.ID))
	m.broker.SendBatch(evts)
	return nil
}
