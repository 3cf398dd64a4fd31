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

package revenue

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"
)

// Sink receives the revenue increments of the markets.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/sink_mock.go -package mocks code.vegaprotocol.io/chanex/core/revenue Sink
type Sink interface {
	AccumulateRevenue(ctx context.Context, marketID string, at time.Time, amount num.Decimal) error
}

// Message is a chat message posted in the channel backing a market.
type Message struct {
	MarketID string
	Author   string
	Bot      bool
	Text     string
	At       time.Time
}

type dayKey struct {
	marketID string
	author   string
	day      time.Time
}

// Feed converts chat activity into revenue increments for the markets.
type Feed struct {
	log  *logging.Logger
	cfg  Config
	sink Sink

	mu      sync.Mutex
	chars   map[dayKey]int
	lastDay time.Time
}

// New returns an activity feed pushing its increments to sink.
func New(log *logging.Logger, cfg Config, sink Sink) *Feed {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Feed{
		log:   log,
		cfg:   cfg,
		sink:  sink,
		chars: map[dayKey]int{},
	}
}

func (f *Feed) ReloadConf(cfg Config) {
	f.log.Info("reloading configuration")
	if f.log.GetLevel() != cfg.Level.Get() {
		f.log.Info("updating log level",
			logging.String("old", f.log.GetLevelString()),
			logging.String("new", cfg.Level.String()),
		)
		f.log.SetLevel(cfg.Level.Get())
	}
	f.mu.Lock()
	f.cfg = cfg
	f.mu.Unlock()
}

// OnMessage accounts for a message and returns the revenue it produced.
// Bots and empty messages produce nothing. The per day counter is only
// updated once the sink accepted the increment.
func (f *Feed) OnMessage(ctx context.Context, msg Message) (num.Decimal, error) {
	n := utf8.RuneCountInString(msg.Text)
	if msg.Bot || n <= 0 {
		return num.DecimalZero(), nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	day := msg.At.UTC().Truncate(24 * time.Hour)
	f.prune(day)

	key := dayKey{marketID: msg.MarketID, author: msg.Author, day: day}
	before := f.chars[key]
	delta := num.DecimalFromFloat(WeightedChars(before+n) - WeightedChars(before))

	if err := f.sink.AccumulateRevenue(ctx, msg.MarketID, msg.At, delta); err != nil {
		return num.DecimalZero(), err
	}
	f.chars[key] = before + n

	if f.log.IsDebug() {
		f.log.Debug("activity accounted",
			logging.MarketID(msg.MarketID),
			logging.PartyID(msg.Author),
			logging.Int("chars", before+n),
			logging.Decimal("revenue", delta),
		)
	}
	return delta, nil
}

// CharsToday returns the characters a user wrote in a market on the day of at.
func (f *Feed) CharsToday(marketID, author string, at time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chars[dayKey{marketID: marketID, author: author, day: at.UTC().Truncate(24 * time.Hour)}]
}

// ForgetMarket drops the counters of a delisted market.
func (f *Feed) ForgetMarket(marketID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k := range f.chars {
		if k.marketID == marketID {
			delete(f.chars, k)
		}
	}
}

func (f *Feed) prune(day time.Time) {
	if !day.After(f.lastDay) {
		return
	}
	f.lastDay = day
	cutoff := day.AddDate(0, 0, -f.cfg.RetainDays)
	for k := range f.chars {
		if k.day.Before(cutoff) {
			delete(f.chars, k)
		}
	}
}
