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
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"code.vegaprotocol.io/chanex/config"
	"code.vegaprotocol.io/chanex/core/idgeneration"
	"code.vegaprotocol.io/chanex/core/revenue"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/benbjohnson/clock"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

// ErrNotConserved is returned when a simulation created or destroyed cash or shares.
var ErrNotConserved = errors.New("cash or shares were not conserved")

type SimulateCmd struct {
	ctx context.Context

	Markets int     `long:"markets" default:"3" description:"Number of markets listed"`
	Traders int     `long:"traders" default:"20" description:"Number of simulated traders"`
	Weeks   int     `long:"weeks" default:"4" description:"Simulated duration in weeks"`
	Seed    int64   `long:"seed" default:"1" description:"Seed of the simulation"`
	Deposit float64 `long:"deposit" default:"10000" description:"Cash deposited by every trader"`
	Verbose bool    `short:"v" long:"verbose" description:"Log the events of the markets"`
}

func Simulate(ctx context.Context, parser *flags.Parser) error {
	_, err := parser.AddCommand("simulate", "Simulate trading", "Run random traders against in-memory markets on a simulated clock and report the outcome", &SimulateCmd{ctx: ctx})
	return err
}

func (opts *SimulateCmd) Execute(_ []string) error {
	conf := logging.NewDefaultConfig()
	conf.Level = logging.WarnLevel
	if opts.Verbose {
		conf.Level = logging.InfoLevel
	}
	log := logging.NewLoggerFromConfig(conf)
	defer log.AtExit()

	rep, err := simulate(opts.ctx, log, simulation{
		markets: opts.Markets,
		traders: opts.Traders,
		weeks:   opts.Weeks,
		seed:    opts.Seed,
		deposit: num.DecimalFromFloat(opts.Deposit),
	})
	if err != nil && !errors.Is(err, ErrNotConserved) {
		return err
	}
	rep.print(os.Stdout)
	return err
}

type simulation struct {
	markets int
	traders int
	weeks   int
	seed    int64
	deposit num.Decimal
}

type marketReport struct {
	id        string
	ipo       num.Decimal
	fair      num.Decimal
	revenue   num.Decimal
	mmCash    num.Decimal
	mmShares  uint64
	volume    uint64
	shares    uint64
}

type report struct {
	start, end  time.Time
	orders      int
	rejected    int
	messages    int
	trades      uint64
	settlements int
	dividends   num.Decimal
	cash        num.Decimal
	expected    num.Decimal
	markets     []marketReport
}

var simulationStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// simulate runs random traders hour by hour against in-memory markets. The
// scheduler is driven directly, the clock only moves when told to.
func simulate(ctx context.Context, log *logging.Logger, sim simulation) (report, error) {
	rep := report{start: simulationStart, dividends: num.DecimalZero()}
	if sim.markets <= 0 || sim.traders <= 0 || sim.weeks <= 0 {
		return rep, errors.Wrap(types.ErrInvalidArgument, "markets, traders and weeks must be positive")
	}

	conf := config.NewDefaultConfig()
	conf.Storage.InMemory = true
	conf.Storage.Level.Level = log.GetLevel()
	// retries wait on the mock clock, a failed period is picked up on the next week instead
	conf.Settlement.Retry.MaxRetries = 0

	clk := clock.NewMock()
	clk.Set(simulationStart)
	rnd := newLockedRand(sim.seed)

	ex, err := newExchange(ctx, log, conf, clk, idgeneration.New(fmt.Sprintf("simulation-%d", sim.seed)), rnd)
	if err != nil {
		return rep, err
	}
	defer ex.close()

	ids := make([]string, 0, sim.markets)
	for i := 1; i <= sim.markets; i++ {
		id := fmt.Sprintf("channel-%d", i)
		if err := ex.listMarket(ctx, fmt.Sprintf("%s:Channel %d", id, i)); err != nil {
			return rep, err
		}
		ids = append(ids, id)
	}
	traders := make([]types.Participant, 0, sim.traders)
	for i := 1; i <= sim.traders; i++ {
		p := types.Trader(fmt.Sprintf("trader-%d", i))
		if err := ex.ledger.Deposit(ctx, p, sim.deposit); err != nil {
			return rep, err
		}
		traders = append(traders, p)
	}
	initial := ex.ledger.TotalCash()

	for h := 0; h < sim.weeks*7*24; h++ {
		clk.Add(time.Hour)
		for _, p := range traders {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			mkt := ids[rnd.Intn(len(ids))]
			if rnd.Float64() < 0.5 {
				if _, err := ex.feed.OnMessage(ctx, randomMessage(rnd, mkt, p, clk.Now())); err != nil {
					return rep, err
				}
				rep.messages++
			}
			if rnd.Float64() < 0.3 {
				rep.orders++
				if err := submitRandomOrder(ctx, ex, rnd, mkt, p); err != nil {
					rep.rejected++
				}
			}
		}
		ex.scheduler.TickHourly(ctx)
		for _, s := range ex.scheduler.TickWeekly(ctx) {
			rep.settlements++
			rep.dividends = rep.dividends.Add(s.Paid)
		}
	}

	rep.end = clk.Now()
	rep.trades, _ = ex.events.counts()
	rep.cash = ex.ledger.TotalCash()
	rep.expected = initial.Add(rep.dividends)

	conserved := rep.cash.Equal(rep.expected)
	for _, id := range ids {
		info, err := ex.engine.MarketInfo(id)
		if err != nil {
			return rep, err
		}
		bal, err := ex.ledger.Balance(ctx, types.MarketMaker(), id)
		if err != nil {
			return rep, err
		}
		shares := ex.ledger.TotalShares(id)
		conserved = conserved && shares == info.TotalShares
		rep.markets = append(rep.markets, marketReport{
			id:        id,
			ipo:       info.IPOPrice,
			fair:      info.FairPrice,
			revenue:   info.LastRevenue,
			mmCash:    bal.Cash,
			mmShares:  bal.Shares,
			volume:    info.DailyVolume,
			shares:    shares,
		})
	}
	if !conserved {
		return rep, ErrNotConserved
	}
	return rep, nil
}

const words = "great stream lol gg hello chat what a play nice one let's go pog"

func randomMessage(rnd *lockedRand, marketID string, p types.Participant, at time.Time) revenue.Message {
	all := strings.Fields(words)
	n := 1 + rnd.Intn(12)
	text := make([]string, 0, n)
	for i := 0; i < n; i++ {
		text = append(text, all[rnd.Intn(len(all))])
	}
	return revenue.Message{
		MarketID: marketID,
		Author:   p.ID(),
		Bot:      rnd.Intn(20) == 0,
		Text:     strings.Join(text, " "),
		At:       at,
	}
}

// submitRandomOrder places a limit order within 5% of the fair price, or
// sometimes a market order. Sells never exceed the free shares.
func submitRandomOrder(ctx context.Context, ex *exchange, rnd *lockedRand, marketID string, p types.Participant) error {
	info, err := ex.engine.MarketInfo(marketID)
	if err != nil {
		return err
	}
	sub := types.OrderSubmission{
		MarketID: marketID,
		Party:    p,
		Side:     types.SideBuy,
		Type:     types.OrderTypeLimit,
		Size:     uint64(1 + rnd.Intn(20)),
	}
	if rnd.Intn(2) == 0 {
		bal, err := ex.ledger.Balance(ctx, p, marketID)
		if err != nil || bal.Shares == 0 {
			return types.ErrInsufficientShares
		}
		sub.Side = types.SideSell
		if sub.Size > bal.Shares {
			sub.Size = bal.Shares
		}
	}
	if rnd.Intn(5) == 0 {
		sub.Type = types.OrderTypeMarket
	} else {
		offset := num.DecimalFromFloat(0.95 + rnd.Float64()*0.1)
		sub.Price = types.RoundPrice(info.FairPrice.Mul(offset))
	}
	_, err = ex.engine.SubmitOrder(ctx, sub)
	return err
}

func (r report) print(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "simulated\t%s to %s\n", r.start.Format(time.RFC3339), r.end.Format(time.RFC3339))
	fmt.Fprintf(tw, "orders\t%d (%d rejected)\n", r.orders, r.rejected)
	fmt.Fprintf(tw, "messages\t%d\n", r.messages)
	fmt.Fprintf(tw, "trades\t%d\n", r.trades)
	fmt.Fprintf(tw, "settlements\t%d\n", r.settlements)
	fmt.Fprintf(tw, "dividends\t%s\n", r.dividends.StringFixed(2))
	fmt.Fprintf(tw, "cash\t%s (expected %s)\n", r.cash.StringFixed(2), r.expected.StringFixed(2))
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "market\tipo\tfair\tlast revenue\tmm cash\tmm shares\tdaily volume\tshares")
	for _, m := range r.markets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			m.id, m.ipo.StringFixed(2), m.fair.StringFixed(2), m.revenue.StringFixed(2),
			m.mmCash.StringFixed(2), m.mmShares, m.volume, m.shares)
	}
	_ = tw.Flush()
}
