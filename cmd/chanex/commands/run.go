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
	"os"
	"time"

	"code.vegaprotocol.io/chanex/config"
	"code.vegaprotocol.io/chanex/core/idgeneration"
	"code.vegaprotocol.io/chanex/logging"
	"code.vegaprotocol.io/chanex/metrics"

	"github.com/benbjohnson/clock"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"
)

type RunCmd struct {
	ctx context.Context

	HomeFlag
	Markets []string `long:"market" description:"Market to list at start up, as id or id:name (can be repeated)"`
	NoStdin bool     `long:"no-stdin" description:"Do not read requests from the standard input"`
}

func Run(ctx context.Context, parser *flags.Parser) error {
	_, err := parser.AddCommand("run", "Run the exchange", "Start the exchange of the home directory, requests are read as JSON lines from the standard input", &RunCmd{ctx: ctx})
	return err
}

func (opts *RunCmd) Execute(_ []string) error {
	home, err := opts.home()
	if err != nil {
		return err
	}
	conf, err := config.Read(home)
	if err != nil {
		return err
	}

	log := logging.NewLoggerFromConfig(conf.Logging)
	defer log.AtExit()

	ctx, cancel := context.WithCancel(opts.ctx)
	defer cancel()

	watcher, err := config.NewFromFile(ctx, log, home)
	if err != nil {
		log.Error("couldn't start the config watcher", logging.Error(err))
		return err
	}
	if err := metrics.Start(ctx, log, conf.Metrics); err != nil {
		return err
	}

	ex, err := newExchange(ctx, log, *conf, clock.New(), idgeneration.NewRandom(), newLockedRand(time.Now().UnixNano()))
	if err != nil {
		log.Error("couldn't start the exchange", logging.Error(err))
		return err
	}
	defer ex.close()
	watcher.OnConfigUpdate(ex.reloadConf)

	for _, m := range opts.Markets {
		if err := ex.listMarket(ctx, m); err != nil {
			log.Error("couldn't list market", logging.String("market", m), logging.Error(err))
			return err
		}
	}

	if !opts.NoStdin {
		// a blocked read can't be interrupted, the loop is left behind on shutdown
		go func() {
			if err := ex.serve(ctx, os.Stdin, os.Stdout); err != nil {
				log.Error("request loop stopped", logging.Error(err))
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ex.scheduler.Run(gctx)
	})
	g.Go(func() error {
		return ex.checkpointEvery(gctx, conf.Storage.CheckpointInterval.Duration)
	})

	log.Info("exchange started", logging.Strings("markets", ex.engine.MarketIDs()))
	err = g.Wait()
	log.Info("exchange stopped")
	return err
}
