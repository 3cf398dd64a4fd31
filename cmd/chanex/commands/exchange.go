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

package commands

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"code.vegaprotocol.io/chanex/config"
	"code.vegaprotocol.io/chanex/core/broker"
	"code.vegaprotocol.io/chanex/core/execution"
	"code.vegaprotocol.io/chanex/core/ledger"
	"code.vegaprotocol.io/chanex/core/revenue"
	"code.vegaprotocol.io/chanex/core/settlement"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/logging"
	"code.vegaprotocol.io/chanex/storage"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

// lockedRand is a rand source shared by the markets settling in parallel.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// exchange holds every component of a running exchange.
type exchange struct {
	log *logging.Logger
	clk clock.Clock

	store     *storage.Store
	ledger    *ledger.Ledger
	broker    *broker.Broker
	events    *eventLogger
	engine    *execution.Engine
	feed      *revenue.Feed
	scheduler *settlement.Scheduler
}

func newExchange(
	ctx context.Context,
	log *logging.Logger,
	conf config.Config,
	clk clock.Clock,
	idgen execution.IDGenerator,
	rnd execution.Rand,
) (*exchange, error) {
	store, err := storage.New(log, conf.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't open the store")
	}

	ex := &exchange{
		log:    log,
		clk:    clk,
		store:  store,
		ledger: ledger.New(log, conf.Ledger),
		broker: broker.New(ctx, log, conf.Broker),
		events: newEventLogger(log),
	}
	if err := store.LoadCheckpoint(ex.ledger); err != nil {
		_ = store.Close()
		return nil, err
	}
	ex.broker.Subscribe(ex.events)

	ex.engine = execution.NewEngine(
		log, conf.Execution, settlement.NewTimeService(clk), ex.ledger, ex.broker, store, idgen, rnd,
	)
	if err := ex.engine.Restore(ctx); err != nil {
		_ = store.Close()
		return nil, errors.Wrap(err, "couldn't restore the markets")
	}
	ex.feed = revenue.New(log, conf.Revenue, ex.engine)
	ex.scheduler = settlement.NewScheduler(log, conf.Settlement, clk, ex.engine)
	return ex, nil
}

func (ex *exchange) reloadConf(conf config.Config) {
	ex.engine.ReloadConf(conf.Execution)
	ex.ledger.ReloadConf(conf.Ledger)
	ex.feed.ReloadConf(conf.Revenue)
	ex.scheduler.ReloadConf(conf.Settlement)
	ex.store.ReloadConf(conf.Storage)
}

// listMarket lists a market described as id or id:name. Markets restored
// from the store are left as they are.
func (ex *exchange) listMarket(ctx context.Context, desc string) error {
	id, name, _ := strings.Cut(desc, ":")
	_, err := ex.engine.ListMarket(ctx, types.MarketListing{ID: id, Name: name})
	if errors.Is(err, types.ErrMarketAlreadyListed) {
		ex.log.Info("market already listed", logging.MarketID(id))
		return nil
	}
	return err
}

func (ex *exchange) delistMarket(ctx context.Context, marketID string) error {
	if err := ex.engine.DelistMarket(ctx, marketID); err != nil {
		return err
	}
	ex.feed.ForgetMarket(marketID)
	return nil
}

func (ex *exchange) checkpoint() error {
	return ex.store.SaveCheckpoint(ex.ledger)
}

// checkpointEvery saves the ledger on every tick until ctx is done.
func (ex *exchange) checkpointEvery(ctx context.Context, every time.Duration) error {
	t := ex.clk.Ticker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := ex.checkpoint(); err != nil {
				ex.log.Error("couldn't checkpoint the ledger", logging.Error(err))
			}
		}
	}
}

func (ex *exchange) close() {
	if err := ex.checkpoint(); err != nil {
		ex.log.Error("couldn't checkpoint the ledger", logging.Error(err))
	}
	if err := ex.store.Close(); err != nil {
		ex.log.Error("couldn't close the store", logging.Error(err))
	}
	ex.events.Close()
}
