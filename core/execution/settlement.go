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
	"time"

	"code.vegaprotocol.io/chanex/core/events"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"
	"code.vegaprotocol.io/chanex/metrics"

	"github.com/pkg/errors"
)

const revenueDecimals = 2

// Settle settles one period of the market: the noised revenue of the period
// is frozen, dividends are paid from it, then the fair price is repriced and
// the watermark moves to the period. A failure leaves the frozen settlement
// pending so a retry pays only the holders that were not paid yet.
func (m *Market) Settle(ctx context.Context, period time.Time) (types.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkListed(); err != nil {
		return types.Settlement{}, err
	}

	period = types.PeriodStart(period)
	res := types.Settlement{
		MarketID:     m.mkt.ID,
		Period:       period,
		Revenue:      num.DecimalZero(),
		Pool:         num.DecimalZero(),
		Paid:         num.DecimalZero(),
		OldFairPrice: m.mkt.FairPrice,
		NewFairPrice: m.mkt.FairPrice,
	}

	if !m.mkt.LastSettledPeriod.IsZero() && !period.After(m.mkt.LastSettledPeriod) {
		res.AlreadySettled = true
		return res, nil
	}
	if err := m.checkDue(period); err != nil {
		return res, err
	}

	start := time.Now()
	defer metrics.ObserveSettlement(start, m.mkt.ID)

	if m.mkt.Pending == nil {
		revenue := m.mkt.AccumulatedRevenue(period).Mul(m.noiseFactor()).Round(revenueDecimals)
		m.mkt.Pending = &types.PendingSettlement{
			Period:  period,
			Revenue: revenue,
			Pool:    revenue.Mul(m.mkt.DividendPct).Round(revenueDecimals),
			Paid:    map[string]num.Decimal{},
		}
		m.persist("save market", m.store.SaveMarket(m.mkt))
	}
	pending := m.mkt.Pending
	res.Revenue, res.Pool = pending.Revenue, pending.Pool

	paid, err := m.payDividends(ctx, pending)
	if err != nil {
		metrics.SettlementCounterInc(m.mkt.ID, "failed")
		m.persist("save market", m.store.SaveMarket(m.mkt))
		m.log.Error("settlement failed, will be retried",
			logging.Period(period),
			logging.Int("holders-paid", len(pending.Paid)),
			logging.Error(err),
		)
		return res, errors.Wrap(types.ErrSettlementFailed, err.Error())
	}
	res.Holders = len(pending.Paid)
	res.Paid = num.SumD(paid...)

	newFair, clamped := m.fair.Reprice(m.mkt.FairPrice, pending.Revenue, m.mkt.LastRevenue)
	res.NewFairPrice, res.Clamped = newFair, clamped

	m.mkt.FairPrice = newFair
	m.mkt.LastRevenue = pending.Revenue
	delete(m.mkt.Revenue, period.Unix())
	m.mkt.LastSettledPeriod = period
	m.mkt.Pending = nil
	m.persist("save market", m.store.SaveMarket(m.mkt))

	metrics.SettlementCounterInc(m.mkt.ID, "ok")
	metrics.DividendsPaidAdd(res.Paid.InexactFloat64(), m.mkt.ID)
	metrics.FairPriceGaugeSet(newFair.InexactFloat64(), m.mkt.ID)
	m.broker.SendBatch([]events.Event{
		events.NewMarketSettled(ctx, m.mkt.ID, period, res.Revenue, res.Pool, res.Paid, res.OldFairPrice, newFair),
		events.NewMarketUpdatedEvent(ctx, *m.mkt.Clone()),
	})

	m.log.Info("market settled",
		logging.Period(period),
		logging.Decimal("revenue", res.Revenue),
		logging.Decimal("dividends", res.Paid),
		logging.Decimal("fair-price", newFair),
		logging.Bool("clamped", clamped),
	)

	if err := m.requote(ctx); err != nil {
		m.log.Warn("market maker requote after settlement failed", logging.Error(err))
	}
	return res, nil
}

// checkDue makes sure the period ended and every earlier period is settled.
func (m *Market) checkDue(period time.Time) error {
	if m.mkt.Pending != nil && !m.mkt.Pending.Period.Equal(period) {
		return errors.Wrapf(types.ErrInvalidArgument, "settlement of %s is pending", m.mkt.Pending.Period.Format(time.DateOnly))
	}
	due := types.DueSettlementPeriods(m.mkt.ListedAt, m.mkt.LastSettledPeriod, m.ts.GetTimeNow())
	if len(due) == 0 || !due[0].Equal(period) {
		return errors.Wrapf(types.ErrInvalidArgument, "period %s is not the next period due", period.Format(time.DateOnly))
	}
	return nil
}

func (m *Market) noiseFactor() num.Decimal {
	noise := m.cfg.RevenueNoise.Get()
	if noise.IsZero() || m.rand == nil {
		return num.DecimalOne()
	}
	// uniform in [1-noise, 1+noise)
	r := num.DecimalFromFloat(2*m.rand.Float64() - 1)
	return num.DecimalOne().Add(noise.Mul(r))
}

// payDividends pays floor(pool * held / total) to every trader holding shares
// that was not paid yet, the market maker earns nothing.
func (m *Market) payDividends(ctx context.Context, pending *types.PendingSettlement) ([]num.Decimal, error) {
	paid := make([]num.Decimal, 0, len(pending.Paid))
	for _, v := range pending.Paid {
		paid = append(paid, v)
	}
	if !pending.Pool.IsPositive() || m.mkt.TotalShares == 0 {
		return paid, nil
	}

	holdings, err := m.ledger.Holdings(ctx, m.mkt.ID)
	if err != nil {
		return paid, err
	}
	keys := make(map[types.Participant]string, len(holdings))
	for _, h := range holdings {
		b, _ := h.Party.MarshalText()
		keys[h.Party] = string(b)
	}
	sort.Slice(holdings, func(i, j int) bool { return keys[holdings[i].Party] < keys[holdings[j].Party] })

	total := num.DecimalFromUint64(m.mkt.TotalShares)
	evts := []events.Event{}
	defer func() { m.broker.SendBatch(evts) }()

	for _, h := range holdings {
		if h.Party.IsMarketMaker() || h.Quantity == 0 {
			continue
		}
		key := keys[h.Party]
		if _, ok := pending.Paid[key]; ok {
			continue
		}
		amount := pending.Pool.Mul(num.DecimalFromUint64(h.Quantity)).Div(total).Floor()
		if !amount.IsPositive() {
			continue
		}
		if err := m.ledger.PayDividend(ctx, h.Party, m.mkt.ID, amount); err != nil {
			return paid, errors.Wrapf(err, "paying %s", h.Party)
		}
		pending.Paid[key] = amount
		paid = append(paid, amount)
		evts = append(evts, events.NewDividendPayout(ctx, h.Party, m.mkt.ID, pending.Period, h.Quantity, amount))
	}
	return paid, nil
}
