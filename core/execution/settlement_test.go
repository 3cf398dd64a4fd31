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

package execution_test

import (
	"context"
	"testing"
	"time"

	"code.vegaprotocol.io/chanex/core/ledger"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/config/encoding"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	week1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	week2 = week1.AddDate(0, 0, 7)
	week3 = week1.AddDate(0, 0, 14)
	week4 = week1.AddDate(0, 0, 21)
)

const week = 7 * 24 * time.Hour

func TestSettlementPaysDividendsOnce(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithLedger(t)
	alice := types.Trader("alice")
	require.NoError(t, l.Deposit(ctx, alice, d("10000")))

	conf, err := te.SubmitOrder(ctx, market(alice, types.SideBuy, 100))
	require.NoError(t, err)
	require.Len(t, conf.Trades, 1)
	cost := conf.Trades[0].Notional()

	require.NoError(t, te.AccumulateRevenue(ctx, testMarket, listingTime, d("1000")))

	// the period did not end yet
	_, err = te.SettleMarket(ctx, testMarket, week1)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	te.advance(week)
	before, _ := te.GetMarket(testMarket)
	res, err := te.SettleMarket(ctx, testMarket, week1)
	require.NoError(t, err)
	assert.False(t, res.AlreadySettled)
	assert.Equal(t, week1, res.Period)
	assert.Equal(t, "1000", res.Revenue.String())
	assert.Equal(t, "100", res.Pool.String())
	assert.Equal(t, "10", res.Paid.String())
	assert.Equal(t, 1, res.Holders)
	// nothing to compare the first revenue to
	assert.True(t, res.NewFairPrice.Equal(before.FairPrice))
	assert.False(t, res.Clamped)

	bal, _ := l.Balance(ctx, alice, testMarket)
	assert.True(t, d("10010").Sub(cost).Equal(bal.Cash))

	mkt, _ := te.GetMarket(testMarket)
	assert.Equal(t, week1, mkt.LastSettledPeriod)
	assert.Equal(t, "1000", mkt.LastRevenue.String())
	assert.Nil(t, mkt.Pending)
	assert.True(t, mkt.AccumulatedRevenue(week1).IsZero())
	// quotes are refreshed after the settlement
	assert.Equal(t, listingTime.Add(week), mkt.MarketMaker.LastQuoteTime)

	t.Run("settling again is a no-op", func(t *testing.T) {
		res, err := te.SettleMarket(ctx, testMarket, week1)
		require.NoError(t, err)
		assert.True(t, res.AlreadySettled)
		assert.True(t, res.Paid.IsZero())

		bal, _ := l.Balance(ctx, alice, testMarket)
		assert.True(t, d("10010").Sub(cost).Equal(bal.Cash))
	})

	t.Run("late revenue goes to the next period", func(t *testing.T) {
		require.NoError(t, te.AccumulateRevenue(ctx, testMarket, listingTime, d("1000")))
		require.NoError(t, te.AccumulateRevenue(ctx, testMarket, listingTime.Add(week), d("1000")))
		mkt, _ := te.GetMarket(testMarket)
		assert.True(t, mkt.AccumulatedRevenue(week1).IsZero())
		assert.Equal(t, "2000", mkt.AccumulatedRevenue(week2).String())
	})

	t.Run("repricing is bounded", func(t *testing.T) {
		te.advance(week)
		before, _ := te.GetMarket(testMarket)
		res, err := te.SettleMarket(ctx, testMarket, week2)
		require.NoError(t, err)
		// 1 + 0.3 * (2000/1000 - 1) is clamped to 1.08
		assert.True(t, res.Clamped)
		assert.True(t, before.FairPrice.Mul(d("1.08")).Equal(res.NewFairPrice),
			"got %s from %s", res.NewFairPrice, before.FairPrice)
		assert.Equal(t, "20", res.Paid.String())

		bal, _ := l.Balance(ctx, alice, testMarket)
		assert.True(t, d("10030").Sub(cost).Equal(bal.Cash))
	})

	// dividends only move cash from outside the book to the traders
	assert.True(t, d("40030").Equal(l.TotalCash()), "total cash %s", l.TotalCash())
	assert.Equal(t, uint64(1000), l.TotalShares(testMarket))
}

func TestSettlementCatchUpInOrder(t *testing.T) {
	ctx := context.Background()
	te, _ := getTestEngineWithLedger(t)

	te.advance(3 * week)
	due, err := te.DueSettlements(testMarket, te.now)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{week1, week2, week3}, due)

	// periods settle oldest first
	_, err = te.SettleMarket(ctx, testMarket, week2)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	for _, period := range due {
		res, err := te.SettleMarket(ctx, testMarket, period)
		require.NoError(t, err)
		assert.False(t, res.AlreadySettled)
		// no revenue, no dividends, no move
		assert.True(t, res.Pool.IsZero())
		assert.True(t, res.OldFairPrice.Equal(res.NewFairPrice))
	}

	// the running period has not ended
	_, err = te.SettleMarket(ctx, testMarket, week4)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))

	due, _ = te.DueSettlements(testMarket, te.now)
	assert.Empty(t, due)
	mkt, _ := te.GetMarket(testMarket)
	assert.Equal(t, week3, mkt.LastSettledPeriod)
}

func TestSettlementRetryDoesNotPayTwice(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithMockLedger(t)
	alice, bob := types.Trader("alice"), types.Trader("bob")

	require.NoError(t, te.AccumulateRevenue(ctx, testMarket, listingTime, d("1000")))
	te.advance(week)

	holdings := []types.Holding{
		{Party: bob, MarketID: testMarket, Quantity: 200, AvgCost: d("100")},
		{Party: types.MarketMaker(), MarketID: testMarket, Quantity: 700, AvgCost: d("0")},
		{Party: alice, MarketID: testMarket, Quantity: 100, AvgCost: d("100")},
	}
	l.EXPECT().Holdings(gomock.Any(), testMarket).Return(holdings, nil).Times(2)

	payErr := errors.New("ledger unavailable")
	gomock.InOrder(
		l.EXPECT().PayDividend(gomock.Any(), alice, testMarket, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ types.Participant, _ string, amount num.Decimal) error {
				assert.Equal(t, "10", amount.String())
				return nil
			}),
		l.EXPECT().PayDividend(gomock.Any(), bob, testMarket, gomock.Any()).Return(payErr),
		l.EXPECT().PayDividend(gomock.Any(), bob, testMarket, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ types.Participant, _ string, amount num.Decimal) error {
				assert.Equal(t, "20", amount.String())
				return nil
			}),
	)

	_, err := te.SettleMarket(ctx, testMarket, week1)
	assert.True(t, errors.Is(err, types.ErrSettlementFailed))

	mkt, _ := te.GetMarket(testMarket)
	assert.True(t, mkt.LastSettledPeriod.IsZero())
	assert.Equal(t, "1000", mkt.AccumulatedRevenue(week1).String())
	require.NotNil(t, mkt.Pending)
	assert.Equal(t, week1, mkt.Pending.Period)
	assert.Len(t, mkt.Pending.Paid, 1)

	// revenue arriving meanwhile is kept for the next period
	require.NoError(t, te.AccumulateRevenue(ctx, testMarket, listingTime, d("50")))
	mkt, _ = te.GetMarket(testMarket)
	assert.Equal(t, "1000", mkt.AccumulatedRevenue(week1).String())
	assert.Equal(t, "50", mkt.AccumulatedRevenue(week2).String())

	res, err := te.SettleMarket(ctx, testMarket, week1)
	require.NoError(t, err)
	assert.Equal(t, "30", res.Paid.String())
	assert.Equal(t, 2, res.Holders)
	assert.Equal(t, "100", res.Pool.String())

	res, err = te.SettleMarket(ctx, testMarket, week1)
	require.NoError(t, err)
	assert.True(t, res.AlreadySettled)

	mkt, _ = te.GetMarket(testMarket)
	assert.Equal(t, week1, mkt.LastSettledPeriod)
	assert.Nil(t, mkt.Pending)
	assert.Equal(t, "50", mkt.AccumulatedRevenue(week2).String())
}

type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

func TestSettlementRevenueNoise(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.RevenueNoise = encoding.DecimalFromString("0.05")
	te := newTestEngineWithConfig(t, ledger.New(logging.NewTestLogger(), ledger.NewDefaultConfig()), cfg, fixedRand(0.75))
	_, err := te.ListMarket(ctx, types.MarketListing{ID: testMarket})
	require.NoError(t, err)

	require.NoError(t, te.AccumulateRevenue(ctx, testMarket, listingTime, d("1000")))
	te.advance(week)

	// 1 + 0.05 * (2*0.75 - 1)
	res, err := te.SettleMarket(ctx, testMarket, week1)
	require.NoError(t, err)
	assert.Equal(t, "1025", res.Revenue.String())
	assert.Equal(t, "102.5", res.Pool.String())
}
