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

package settlement

import (
	"context"
	"sort"
	"sync"
	"time"

	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/benbjohnson/clock"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Markets is the part of the execution engine the scheduler drives.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/markets_mock.go -package mocks code.vegaprotocol.io/chanex/core/settlement Markets
type Markets interface {
	MarketIDs() []string
	RequoteMarket(ctx context.Context, marketID string) error
	DueSettlements(marketID string, now time.Time) ([]time.Time, error)
	SettleMarket(ctx context.Context, marketID string, period time.Time) (types.Settlement, error)
}

// Scheduler forces the market makers to requote on a fixed interval and
// settles every market once per period, catching up the periods missed
// while it was not running.
type Scheduler struct {
	log *logging.Logger
	clk clock.Clock

	mu      sync.Mutex
	cfg     Config
	markets Markets
}

// NewScheduler returns a scheduler ticking on clk.
func NewScheduler(log *logging.Logger, cfg Config, clk clock.Clock, markets Markets) *Scheduler {
	// setup logger
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Scheduler{
		log:     log,
		clk:     clk,
		cfg:     cfg,
		markets: markets,
	}
}

// ReloadConf update the internal configuration of the scheduler, the new
// requote interval is picked up by the next call to Run.
func (s *Scheduler) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Scheduler) config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Run ticks until ctx is cancelled. Due settlements are caught up first.
func (s *Scheduler) Run(ctx context.Context) error {
	cfg := s.config()
	hourly := s.clk.Ticker(cfg.RequoteInterval.Get())
	defer hourly.Stop()
	weekly := s.clk.Timer(s.untilNextPeriod())
	defer weekly.Stop()

	s.TickWeekly(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hourly.C:
			s.TickHourly(ctx)
		case <-weekly.C:
			s.TickWeekly(ctx)
			weekly.Reset(s.untilNextPeriod())
		}
	}
}

func (s *Scheduler) untilNextPeriod() time.Duration {
	now := s.clk.Now().UTC()
	return types.NextPeriod(types.PeriodStart(now)).Sub(now)
}

func (s *Scheduler) newGroup(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	if n := s.config().Parallelism; n > 0 {
		g.SetLimit(n)
	}
	return g, gctx
}

// TickHourly requotes every market and returns the number of markets
// that failed to requote. Failures wait for the next trigger.
func (s *Scheduler) TickHourly(ctx context.Context) int {
	ids := s.markets.MarketIDs()
	g, gctx := s.newGroup(ctx)

	var (
		mu     sync.Mutex
		failed int
	)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := s.markets.RequoteMarket(gctx, id); err != nil {
				s.log.Warn("scheduled market maker requote failed",
					logging.MarketID(id),
					logging.Error(err),
				)
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	s.log.Debug("hourly requote done",
		logging.Int("markets", len(ids)),
		logging.Int("failed", failed),
	)
	return failed
}

// TickWeekly settles, oldest first, every period due on every market. A
// market stops at its first period that could not be settled, the others
// carry on. The settlements that happened are returned sorted by market.
func (s *Scheduler) TickWeekly(ctx context.Context) []types.Settlement {
	now := s.clk.Now().UTC()
	ids := s.markets.MarketIDs()
	g, gctx := s.newGroup(ctx)

	var (
		mu  sync.Mutex
		out []types.Settlement
	)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			res := s.catchUp(gctx, id, now)
			mu.Lock()
			out = append(out, res...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MarketID != out[j].MarketID {
			return out[i].MarketID < out[j].MarketID
		}
		return out[i].Period.Before(out[j].Period)
	})
	return out
}

func (s *Scheduler) catchUp(ctx context.Context, marketID string, now time.Time) []types.Settlement {
	due, err := s.markets.DueSettlements(marketID, now)
	if err != nil {
		s.log.Error("could not list due settlements", logging.MarketID(marketID), logging.Error(err))
		return nil
	}

	out := make([]types.Settlement, 0, len(due))
	for _, period := range due {
		res, err := s.settle(ctx, marketID, period)
		if err != nil {
			s.log.Error("settlement failed",
				logging.MarketID(marketID),
				logging.Period(period),
				logging.Error(err),
			)
			return out
		}
		if !res.AlreadySettled {
			out = append(out, res)
		}
	}
	return out
}

func (s *Scheduler) settle(ctx context.Context, marketID string, period time.Time) (types.Settlement, error) {
	var res types.Settlement
	op := func() (err error) {
		res, err = s.markets.SettleMarket(ctx, marketID, period)
		if err != nil && !errors.Is(err, types.ErrSettlementFailed) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		s.log.Warn("retrying settlement",
			logging.MarketID(marketID),
			logging.Period(period),
			logging.Duration("in", next),
			logging.Error(err),
		)
	}

	retry := s.config().Retry
	bo := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(retry.InitialInterval.Get()),
		backoff.WithMaxInterval(retry.MaxInterval.Get()),
		backoff.WithMaxElapsedTime(0),
		backoff.WithClockProvider(s.clk),
	)
	err := backoff.RetryNotifyWithTimer(
		op,
		backoff.WithContext(backoff.WithMaxRetries(bo, retry.MaxRetries), ctx),
		notify,
		&retryTimer{clk: s.clk},
	)
	return res, err
}

// retryTimer waits between settlement attempts on the scheduler clock.
type retryTimer struct {
	clk   clock.Clock
	timer *clock.Timer
}

func (t *retryTimer) Start(d time.Duration) {
	t.timer = t.clk.Timer(d)
}

func (t *retryTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *retryTimer) C() <-chan time.Time {
	return t.timer.C
}
