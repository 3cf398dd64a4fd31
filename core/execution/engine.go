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
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"
	"code.vegaprotocol.io/chanex/metrics"

	"github.com/pkg/errors"
)

// ErrNoMarketID is returned when invalid (empty) market id was supplied during listing.
var ErrNoMarketID = errors.Wrap(types.ErrInvalidArgument, "no valid market id was supplied")

// Engine is the execution engine, the registry of the listed markets.
type Engine struct {
	Config
	log *logging.Logger

	mu      sync.RWMutex
	markets map[string]*Market

	mm     *marketmaker.Engine
	fair   *fairvalue.Model
	ledger Ledger
	broker Broker
	store  Store
	ts     TimeService
	idgen  IDGenerator
	rand   Rand
}

// NewEngine creates an execution engine. A nil store keeps everything in memory,
// a nil rand disables the settlement noise.
func NewEngine(
	log *logging.Logger,
	executionConfig Config,
	ts TimeService,
	ledger Ledger,
	broker Broker,
	store Store,
	idgen IDGenerator,
	rand Rand,
) *Engine {
	// setup logger
	log = log.Named(namedLogger)
	log.SetLevel(executionConfig.Level.Get())
	if store == nil {
		store = nopStore{}
	}
	return &Engine{
		log:     log,
		Config:  executionConfig,
		markets: map[string]*Market{},
		mm:      marketmaker.New(log, executionConfig.MarketMaker),
		fair:    fairvalue.New(log, executionConfig.FairValue),
		ledger:  ledger,
		broker:  broker,
		store:   store,
		ts:      ts,
		idgen:   idgen,
		rand:    rand,
	}
}

// ReloadConf updates the internal configuration of the execution
// engine and its dependencies.
func (e *Engine) ReloadConf(cfg Config) {
	e.log.Debug("reloading configuration")

	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// the quoting and pricing engines are shared, no market may run meanwhile
	mkts := e.sortedMarkets()
	for _, mkt := range mkts {
		mkt.mu.Lock()
	}
	e.Config = cfg
	e.mm.ReloadConf(cfg.MarketMaker)
	e.fair.ReloadConf(cfg.FairValue)
	for _, mkt := range mkts {
		mkt.reloadConf(cfg)
		mkt.mu.Unlock()
	}
}

func (e *Engine) sortedMarkets() []*Market {
	out := make([]*Market, 0, len(e.markets))
	for _, m := range e.markets {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetID() < out[j].GetID() })
	return out
}

func (e *Engine) market(id string) (*Market, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	mkt, ok := e.markets[id]
	if !ok {
		return nil, errors.Wrapf(types.ErrMarketNotFound, "market %s", id)
	}
	return mkt, nil
}

func (e *Engine) newMarket(mkt *types.Market) *Market {
	return newMarket(e.log, e.Config, mkt, e.mm, e.fair, e.ledger, e.broker, e.store, e.ts, e.idgen, e.rand)
}

// ListMarket lists a new market at its IPO price, seeds the market maker
// account and posts its first quotes.
func (e *Engine) ListMarket(ctx context.Context, listing types.MarketListing) (types.Market, error) {
	if len(listing.ID) <= 0 {
		return types.Market{}, ErrNoMarketID
	}
	ipo := listing.IPOPrice
	if ipo.IsZero() {
		ipo = e.DefaultIPOPrice.Get()
	}
	if !ipo.IsPositive() || !ipo.Equal(ipo.Round(types.PriceDecimals)) {
		return types.Market{}, errors.Wrapf(types.ErrInvalidPrice, "ipo price %s", ipo)
	}
	dividend := e.DefaultDividendPct.Get()
	if listing.DividendPct != nil {
		dividend = *listing.DividendPct
	}
	if dividend.IsNegative() || dividend.GreaterThan(num.DecimalOne()) {
		return types.Market{}, types.ErrInvalidDividendPct
	}
	name := listing.Name
	if len(name) <= 0 {
		name = listing.ID
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.markets[listing.ID]; ok {
		return types.Market{}, errors.Wrapf(types.ErrMarketAlreadyListed, "market %s", listing.ID)
	}

	cash, shares := e.mm.StartingAccount()
	if err := e.ledger.OpenMarket(ctx, listing.ID, cash, shares); err != nil {
		return types.Market{}, errors.Wrap(err, "could not open market in the ledger")
	}

	now := e.ts.GetTimeNow()
	mkt := &types.Market{
		ID:          listing.ID,
		Name:        name,
		IPOPrice:    ipo,
		FairPrice:   ipo,
		TotalShares: e.DefaultTotalShares,
		DividendPct: dividend,
		LastRevenue: num.DecimalZero(),
		ListedAt:    now,
		Revenue:     map[int64]*types.RevenueAccumulator{},
		MarketMaker: types.MarketMakerState{
			Cash:       cash,
			Inventory:  shares,
			FairPrice:  ipo,
			Volatility: 0,
		},
	}
	m := e.newMarket(mkt)
	e.markets[mkt.ID] = m

	// the ipo is the first point of the price history
	m.recordPrice(types.PricePoint{At: now, Price: ipo})
	m.persist("save market", e.store.SaveMarket(mkt))
	e.broker.Send(events.NewMarketCreatedEvent(ctx, *mkt.Clone()))
	metrics.FairPriceGaugeSet(ipo.InexactFloat64(), mkt.ID)

	if err := m.Requote(ctx); err != nil {
		e.log.Warn("initial market maker quotes failed", logging.MarketID(mkt.ID), logging.Error(err))
	}

	e.log.Info("market listed",
		logging.MarketID(mkt.ID),
		logging.String("name", name),
		logging.Decimal("ipo-price", ipo),
	)
	return m.Snapshot(), nil
}

// DelistMarket cancels every resting order, refunds the traders, closes the
// market in the ledger and forgets everything about it.
func (e *Engine) DelistMarket(ctx context.Context, marketID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	mkt, ok := e.markets[marketID]
	if !ok {
		return errors.Wrapf(types.ErrMarketNotFound, "market %s", marketID)
	}
	if err := mkt.delist(ctx); err != nil {
		return err
	}
	delete(e.markets, marketID)
	e.log.Info("market delisted", logging.MarketID(marketID))
	return nil
}

// SubmitOrder places an order on a market.
func (e *Engine) SubmitOrder(ctx context.Context, submission types.OrderSubmission) (*types.OrderConfirmation, error) {
	timer := metrics.NewTimeCounter(submission.MarketID, "execution", "SubmitOrder")
	defer func() {
		timer.EngineTimeCounterAdd()
	}()

	if e.log.IsDebug() {
		e.log.Debug("submit order", logging.Stringer("submission", submission))
	}

	mkt, err := e.market(submission.MarketID)
	if err != nil {
		return nil, err
	}
	return mkt.SubmitOrder(ctx, submission)
}

// CancelOrder cancels a resting order on behalf of its owner and returns what was refunded.
func (e *Engine) CancelOrder(ctx context.Context, marketID, orderID string, requester types.Participant) (types.Refund, error) {
	timer := metrics.NewTimeCounter(marketID, "execution", "CancelOrder")
	defer func() {
		timer.EngineTimeCounterAdd()
	}()

	mkt, err := e.market(marketID)
	if err != nil {
		return types.Refund{}, err
	}
	return mkt.CancelOrder(ctx, orderID, requester)
}

// RequoteMarket forces the market maker of a market to refresh its quotes.
func (e *Engine) RequoteMarket(ctx context.Context, marketID string) error {
	mkt, err := e.market(marketID)
	if err != nil {
		return err
	}
	return mkt.Requote(ctx)
}

// SettleMarket settles one period of a market. Settling a period twice is a no-op.
func (e *Engine) SettleMarket(ctx context.Context, marketID string, period time.Time) (types.Settlement, error) {
	timer := metrics.NewTimeCounter(marketID, "execution", "SettleMarket")
	defer func() {
		timer.EngineTimeCounterAdd()
	}()

	mkt, err := e.market(marketID)
	if err != nil {
		return types.Settlement{}, err
	}
	return mkt.Settle(ctx, period)
}

// DueSettlements returns the periods of the market waiting to be settled, oldest first.
func (e *Engine) DueSettlements(marketID string, now time.Time) ([]time.Time, error) {
	mkt, err := e.market(marketID)
	if err != nil {
		return nil, err
	}
	return mkt.DueSettlements(now), nil
}

// AccumulateRevenue adds a revenue increment to the running period of a market.
func (e *Engine) AccumulateRevenue(ctx context.Context, marketID string, at time.Time, amount num.Decimal) error {
	mkt, err := e.market(marketID)
	if err != nil {
		return err
	}
	return mkt.AccumulateRevenue(ctx, at, amount)
}

// SetDividendPct changes the fraction of the revenue a market pays as dividends.
func (e *Engine) SetDividendPct(ctx context.Context, marketID string, pct num.Decimal) error {
	mkt, err := e.market(marketID)
	if err != nil {
		return err
	}
	return mkt.SetDividendPct(ctx, pct)
}

// MarketExists reports whether the market is listed.
func (e *Engine) MarketExists(marketID string) bool {
	_, err := e.market(marketID)
	return err == nil
}

// GetMarket returns a copy of a listed market.
func (e *Engine) GetMarket(marketID string) (types.Market, error) {
	mkt, err := e.market(marketID)
	if err != nil {
		return types.Market{}, err
	}
	return mkt.Snapshot(), nil
}

// MarketIDs returns the ids of the listed markets, sorted.
func (e *Engine) MarketIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.markets))
	for id := range e.markets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Depth returns the aggregated book of a market, levels <= 0 uses the configured default.
func (e *Engine) Depth(marketID string, levels int) (types.PriceLevels, types.PriceLevels, error) {
	mkt, err := e.market(marketID)
	if err != nil {
		return nil, nil, err
	}
	if levels <= 0 {
		levels = e.DepthLevels
	}
	bids, asks := mkt.Depth(levels)
	return bids, asks, nil
}

// OpenOrders returns the resting orders of a party in a market.
func (e *Engine) OpenOrders(marketID string, party types.Participant) ([]*types.Order, error) {
	mkt, err := e.market(marketID)
	if err != nil {
		return nil, err
	}
	return mkt.OpenOrders(party), nil
}

// MarketInfo summarises a market.
func (e *Engine) MarketInfo(marketID string) (types.MarketInfo, error) {
	mkt, err := e.market(marketID)
	if err != nil {
		return types.MarketInfo{}, err
	}
	return mkt.Info(e.ts.GetTimeNow()), nil
}

// PriceHistory returns the trade prices of a market since the given time.
func (e *Engine) PriceHistory(marketID string, since time.Time) ([]types.PricePoint, error) {
	mkt, err := e.market(marketID)
	if err != nil {
		return nil, err
	}
	return mkt.PriceHistory(since), nil
}

// Portfolio values every holding of a party at the fair price of its market.
func (e *Engine) Portfolio(ctx context.Context, party types.Participant) []types.PortfolioPosition {
	holdings := e.ledger.PartyHoldings(ctx, party)
	out := make([]types.PortfolioPosition, 0, len(holdings))
	for _, h := range holdings {
		mkt, err := e.market(h.MarketID)
		if err != nil {
			continue
		}
		out = append(out, types.NewPortfolioPosition(h, mkt.fairPrice()))
	}
	return out
}

// Restore reloads the markets, their resting orders and their recent trade
// prices from the store. The ledger is expected to be restored already.
func (e *Engine) Restore(ctx context.Context) error {
	mkts, err := e.store.LoadMarkets()
	if err != nil {
		return errors.Wrap(err, "could not load markets")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, mkt := range mkts {
		if _, ok := e.markets[mkt.ID]; ok {
			return errors.Wrapf(types.ErrMarketAlreadyListed, "market %s", mkt.ID)
		}
		orders, err := e.store.LoadOrders(mkt.ID)
		if err != nil {
			return errors.Wrapf(err, "could not load orders of market %s", mkt.ID)
		}
		prices, err := e.store.RecentPrices(mkt.ID, e.PriceHistorySize)
		if err != nil {
			return errors.Wrapf(err, "could not load prices of market %s", mkt.ID)
		}
		if mkt.Revenue == nil {
			mkt.Revenue = map[int64]*types.RevenueAccumulator{}
		}

		m := e.newMarket(mkt)
		if err := m.restore(orders, prices); err != nil {
			return err
		}
		e.markets[mkt.ID] = m
		metrics.FairPriceGaugeSet(mkt.FairPrice.InexactFloat64(), mkt.ID)
		e.log.Info("market restored",
			logging.MarketID(mkt.ID),
			logging.Int("orders", len(orders)),
			logging.Time("last-settled-period", mkt.LastSettledPeriod),
		)
	}
	return nil
}
