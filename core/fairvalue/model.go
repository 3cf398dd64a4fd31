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

package fairvalue

import (
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"
)

// fairDecimals bounds the precision a fair price accumulates over many nudges.
const fairDecimals = 6

// Model turns trade prices and settled revenue into a fair price.
// It keeps no per market state.
type Model struct {
	log *logging.Logger
	cfg Config
}

// New returns a new fair value model.
func New(log *logging.Logger, cfg Config) *Model {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Model{
		log: log,
		cfg: cfg,
	}
}

func (m *Model) ReloadConf(cfg Config) {
	m.log.Info("reloading configuration")
	if m.log.GetLevel() != cfg.Level.Get() {
		m.log.Info("updating log level",
			logging.String("old", m.log.GetLevelString()),
			logging.String("new", cfg.Level.String()),
		)
		m.log.SetLevel(cfg.Level.Get())
	}
	m.cfg = cfg
}

// Nudge moves the fair price toward a trade price.
func (m *Model) Nudge(fair, tradePrice num.Decimal) num.Decimal {
	return Nudge(fair, tradePrice, m.cfg.TradeImpact.Get())
}

// Reprice applies the settled revenue of a period to the fair price and
// reports whether the move was clamped.
func (m *Model) Reprice(fair, revenue, lastRevenue num.Decimal) (num.Decimal, bool) {
	newFair, clamped := Reprice(fair, revenue, lastRevenue, m.cfg.Alpha.Get(), m.cfg.MaxWeeklyMove.Get())
	if clamped {
		m.log.Debug("repricing clamped",
			logging.Decimal("fair", fair),
			logging.Decimal("new-fair", newFair),
			logging.Decimal("revenue", revenue),
			logging.Decimal("last-revenue", lastRevenue),
		)
	}
	return newFair, clamped
}

// Nudge returns fair + impact * (tradePrice - fair), floored at the tick.
func Nudge(fair, tradePrice, impact num.Decimal) num.Decimal {
	next := fair.Add(impact.Mul(tradePrice.Sub(fair))).Round(fairDecimals)
	return num.MaxD(next, types.MinTick)
}

// Reprice returns fair * (1 + alpha * (revenue/lastRevenue - 1)) bounded to
// maxMove of the current fair price in either direction and floored at the tick.
// The fair price is unchanged when there is no previous revenue to compare to.
func Reprice(fair, revenue, lastRevenue, alpha, maxMove num.Decimal) (num.Decimal, bool) {
	if !lastRevenue.IsPositive() {
		return fair, false
	}
	ratio := revenue.Div(lastRevenue)
	candidate := fair.Mul(num.DecimalOne().Add(alpha.Mul(ratio.Sub(num.DecimalOne())))).Round(fairDecimals)

	lower := fair.Mul(num.DecimalOne().Sub(maxMove))
	upper := fair.Mul(num.DecimalOne().Add(maxMove))
	next := num.ClampD(candidate, lower, upper)

	return num.MaxD(next, types.MinTick), !next.Equal(candidate)
}
