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

package marketmaker

import (
	"math"

	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"
)

// QuoteInput is what the market maker knows about a market when quoting.
type QuoteInput struct {
	FairPrice num.Decimal
	// Prices are the most recent trade prices, oldest first.
	Prices      []num.Decimal
	Cash        num.Decimal
	Inventory   uint64
	DailyVolume uint64
	TotalShares uint64
}

// Quote is a two sided quote, a zero size means the side is not quoted.
type Quote struct {
	Bid        num.Decimal
	BidSize    uint64
	Ask        num.Decimal
	AskSize    uint64
	Spread     num.Decimal
	Skew       num.Decimal
	Volatility float64
}

// Engine computes the market maker quotes.
type Engine struct {
	log *logging.Logger
	cfg Config
}

// New instantiates a market maker quoting engine.
func New(log *logging.Logger, cfg Config) *Engine {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Engine{
		log: log,
		cfg: cfg,
	}
}

func (e *Engine) ReloadConf(cfg Config) {
	e.log.Info("reloading configuration")
	if e.log.GetLevel() != cfg.Level.Get() {
		e.log.Info("updating log level",
			logging.String("old", e.log.GetLevelString()),
			logging.String("new", cfg.Level.String()),
		)
		e.log.SetLevel(cfg.Level.Get())
	}
	e.cfg = cfg
}

// VolatilityWindow returns how many trade prices the engine wants.
func (e *Engine) VolatilityWindow() int {
	return e.cfg.VolatilityWindow
}

// StartingAccount returns the cash and shares a market maker is seeded with on listing.
func (e *Engine) StartingAccount() (num.Decimal, uint64) {
	return e.cfg.StartingCash.Get(), e.cfg.StartingShares
}

// Volatility returns the population standard deviation of the log returns of
// the last window prices, floored so the spread never collapses.
func (e *Engine) Volatility(prices []num.Decimal) float64 {
	if len(prices) > e.cfg.VolatilityWindow && e.cfg.VolatilityWindow > 0 {
		prices = prices[len(prices)-e.cfg.VolatilityWindow:]
	}

	returns := make([]float64, 0, len(prices))
	for i := 1; i < len(prices); i++ {
		prev, cur := prices[i-1].InexactFloat64(), prices[i].InexactFloat64()
		if prev > 0 && cur > 0 {
			returns = append(returns, math.Log(cur/prev))
		}
	}
	if len(returns) == 0 {
		return e.cfg.DefaultVolatility
	}

	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Max(math.Sqrt(variance), e.cfg.VolatilityFloor)
}

// TargetInventory is the inventory the market maker leans toward, derived
// from the daily volume and the float of the market.
func (e *Engine) TargetInventory(dailyVolume, totalShares uint64) float64 {
	volumeTarget := e.cfg.TargetInventoryPct * float64(max(dailyVolume, e.cfg.MinTargetVolume))
	supplyTarget := e.cfg.TargetInventoryPct * float64(totalShares)
	return math.Max(volumeTarget, supplyTarget)
}

// InventoryDeviation returns how far the inventory is from target, relative to the target.
func (e *Engine) InventoryDeviation(inventory, dailyVolume, totalShares uint64) float64 {
	target := e.TargetInventory(dailyVolume, totalShares)
	return (float64(inventory) - target) / math.Max(target, 1)
}

// SpreadAndSkew returns the full quoted spread and the shift applied to both quotes.
func (e *Engine) SpreadAndSkew(fair num.Decimal, volatility float64, inventory, dailyVolume, totalShares uint64) (float64, float64) {
	f := fair.InexactFloat64()
	dev := e.InventoryDeviation(inventory, dailyVolume, totalShares)

	// thin markets weigh volatility more
	a := math.Max(1, math.Min(2, e.cfg.VolatilityWeight*(e.cfg.ReferenceVolume/math.Max(float64(dailyVolume), 1))))
	spread := e.cfg.BaseSpread*(a*volatility+e.cfg.InventoryWeight*math.Abs(dev)) + e.cfg.InventoryPenalty*dev*dev
	spread = math.Max(spread, f*e.cfg.MinSpreadPct)

	skew := -e.cfg.SkewFactor * dev * f
	return spread, skew
}

// Quote computes the bid and ask the market maker should post.
func (e *Engine) Quote(in QuoteInput) Quote {
	vol := e.Volatility(in.Prices)
	spread, skew := e.SpreadAndSkew(in.FairPrice, vol, in.Inventory, in.DailyVolume, in.TotalShares)

	f := in.FairPrice.InexactFloat64()
	tick := types.MinTick.InexactFloat64()
	bid := math.Max(f-spread/2+skew, tick)
	ask := math.Max(f+spread/2+skew, bid+tick)

	q := Quote{
		Bid:        types.RoundPrice(num.DecimalFromFloat(bid)),
		Ask:        types.RoundPrice(num.DecimalFromFloat(ask)),
		Spread:     num.DecimalFromFloat(spread),
		Skew:       num.DecimalFromFloat(skew),
		Volatility: vol,
	}
	// rounding may bring both quotes on the same tick
	if !q.Ask.GreaterThan(q.Bid) {
		q.Ask = q.Bid.Add(types.MinTick)
	}

	if in.Cash.IsPositive() {
		q.BidSize = min(e.cfg.QuoteCap, uint64(in.Cash.Div(q.Bid).Floor().IntPart()))
	}
	q.AskSize = min(e.cfg.QuoteCap, in.Inventory)

	if e.log.IsDebug() {
		e.log.Debug("market maker quote",
			logging.Decimal("fair", in.FairPrice),
			logging.Decimal("bid", q.Bid),
			logging.Uint64("bid-size", q.BidSize),
			logging.Decimal("ask", q.Ask),
			logging.Uint64("ask-size", q.AskSize),
			logging.Float64("volatility", vol),
		)
	}
	return q
}
