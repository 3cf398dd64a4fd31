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
	"math/rand"
	"testing"
	"time"

	"code.vegaprotocol.io/chanex/core/execution/mocks"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMarket(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithLedger(t)

	mkt, err := te.GetMarket(testMarket)
	require.NoError(t, err)
	assert.Equal(t, "100", mkt.FairPrice.String())
	assert.Equal(t, "100", mkt.IPOPrice.String())
	assert.Equal(t, uint64(1000), mkt.TotalShares)
	assert.Equal(t, "0.1", mkt.DividendPct.String())
	assert.Equal(t, listingTime, mkt.ListedAt)

	t.Run("market maker quotes both sides", func(t *testing.T) {
		bids, asks, err := te.Depth(testMarket, 0)
		require.NoError(t, err)
		require.Len(t, bids, 1)
		require.Len(t, asks, 1)
		assert.True(t, bids[0].MarketMaker)
		assert.True(t, asks[0].MarketMaker)
		assert.True(t, asks[0].Price.GreaterThan(bids[0].Price))
		assert.Equal(t, uint64(100), bids[0].Volume)
		assert.Equal(t, uint64(100), asks[0].Volume)

		mkt, _ := te.GetMarket(testMarket)
		assert.NotEmpty(t, mkt.MarketMaker.BidOrderID)
		assert.NotEmpty(t, mkt.MarketMaker.AskOrderID)
		assert.Equal(t, listingTime, mkt.MarketMaker.LastQuoteTime)
	})

	t.Run("market maker account is seeded", func(t *testing.T) {
		assert.Equal(t, "30000", l.TotalCash().String())
		assert.Equal(t, uint64(1000), l.TotalShares(testMarket))
	})

	t.Run("invalid listings", func(t *testing.T) {
		_, err := te.ListMarket(ctx, types.MarketListing{ID: testMarket})
		assert.True(t, errors.Is(err, types.ErrMarketAlreadyListed))

		_, err = te.ListMarket(ctx, types.MarketListing{})
		assert.True(t, errors.Is(err, types.ErrInvalidArgument))

		pct := d("1.5")
		_, err = te.ListMarket(ctx, types.MarketListing{ID: "other", DividendPct: &pct})
		assert.True(t, errors.Is(err, types.ErrInvalidDividendPct))

		_, err = te.ListMarket(ctx, types.MarketListing{ID: "other", IPOPrice: d("-1")})
		assert.True(t, errors.Is(err, types.ErrInvalidPrice))

		assert.Equal(t, []string{testMarket}, te.MarketIDs())
	})
}

// A buy for 10 @ 101 against 5 @ 99 (older) and 5 @ 100 (newer) fills at the
// resting prices and costs 995.
func TestBuyFillsAtRestingPricesInTimePriority(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithMockLedger(t)
	alice, bob, carol := types.Trader("alice"), types.Trader("bob"), types.Trader("carol")

	l.EXPECT().ReserveShares(gomock.Any(), alice, testMarket, uint64(5)).Return(nil)
	l.EXPECT().ReserveShares(gomock.Any(), bob, testMarket, uint64(5)).Return(nil)
	_, err := te.SubmitOrder(ctx, limit(alice, types.SideSell, "99", 5))
	require.NoError(t, err)
	_, err = te.SubmitOrder(ctx, limit(bob, types.SideSell, "100", 5))
	require.NoError(t, err)

	l.EXPECT().ReserveCash(gomock.Any(), carol, testMarket, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ types.Participant, _ string, amount num.Decimal) error {
			assert.Equal(t, "1010", amount.String())
			return nil
		})
	paid, refunded := num.DecimalZero(), num.DecimalZero()
	l.EXPECT().SettleTrade(gomock.Any(), gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, trade *types.Trade, reserved num.Decimal) error {
			assert.Equal(t, carol, trade.Buyer)
			assert.Equal(t, "101", reserved.String())
			paid = paid.Add(trade.Notional())
			refunded = refunded.Add(reserved.Sub(trade.Price).Mul(num.DecimalFromUint64(trade.Size)))
			return nil
		})

	conf, err := te.SubmitOrder(ctx, limit(carol, types.SideBuy, "101", 10))
	require.NoError(t, err)

	type fill struct {
		Price        string
		Size         uint64
		Counterparty string
	}
	got := []fill{}
	for _, f := range conf.Fills() {
		got = append(got, fill{Price: f.Price.String(), Size: f.Size, Counterparty: f.Counterparty.String()})
	}
	expected := []fill{
		{Price: "99", Size: 5, Counterparty: "alice"},
		{Price: "100", Size: 5, Counterparty: "bob"},
	}
	assert.Empty(t, cmp.Diff(expected, got))
	assert.Equal(t, uint64(0), conf.Order.Remaining)
	assert.Equal(t, "995", paid.String())
	assert.Equal(t, "15", refunded.String())

	bids, asks, err := te.Depth(testMarket, 0)
	require.NoError(t, err)
	assert.Empty(t, bids)
	assert.Empty(t, asks)

	orders, err := te.OpenOrders(testMarket, carol)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestMarketOrderNeedsLiquidity(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithMockLedger(t)
	alice, bob := types.Trader("alice"), types.Trader("bob")

	l.EXPECT().ReserveShares(gomock.Any(), alice, testMarket, uint64(5)).Return(nil)
	_, err := te.SubmitOrder(ctx, limit(alice, types.SideSell, "99", 5))
	require.NoError(t, err)

	// nothing is reserved for an order the book cannot fill
	_, err = te.SubmitOrder(ctx, market(bob, types.SideBuy, 6))
	assert.True(t, errors.Is(err, types.ErrInsufficientLiquidity))

	// a market buy reserves at the worst price it trades at
	l.EXPECT().ReserveCash(gomock.Any(), bob, testMarket, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ types.Participant, _ string, amount num.Decimal) error {
			assert.Equal(t, "396", amount.String())
			return nil
		})
	l.EXPECT().SettleTrade(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, trade *types.Trade, reserved num.Decimal) error {
			assert.Equal(t, "99", reserved.String())
			return nil
		})
	conf, err := te.SubmitOrder(ctx, market(bob, types.SideBuy, 4))
	require.NoError(t, err)
	assert.Len(t, conf.Trades, 1)

	orders, _ := te.OpenOrders(testMarket, alice)
	require.Len(t, orders, 1)
	assert.Equal(t, uint64(1), orders[0].Remaining)
}

func TestLedgerFailureStopsMatching(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithMockLedger(t)
	alice, bob, carol := types.Trader("alice"), types.Trader("bob"), types.Trader("carol")

	l.EXPECT().ReserveShares(gomock.Any(), gomock.Any(), testMarket, uint64(5)).Return(nil).Times(2)
	_, err := te.SubmitOrder(ctx, limit(alice, types.SideSell, "99", 5))
	require.NoError(t, err)
	_, err = te.SubmitOrder(ctx, limit(bob, types.SideSell, "100", 5))
	require.NoError(t, err)

	ledgerErr := errors.New("ledger unavailable")
	l.EXPECT().ReserveCash(gomock.Any(), carol, testMarket, gomock.Any()).Return(nil)
	gomock.InOrder(
		l.EXPECT().SettleTrade(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		l.EXPECT().SettleTrade(gomock.Any(), gomock.Any(), gomock.Any()).Return(ledgerErr),
	)
	// the unfilled part of the reservation goes back to carol
	l.EXPECT().RefundCash(gomock.Any(), carol, testMarket, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ types.Participant, _ string, amount num.Decimal) error {
			assert.Equal(t, "505", amount.String())
			return nil
		})

	conf, err := te.SubmitOrder(ctx, limit(carol, types.SideBuy, "101", 10))
	assert.True(t, errors.Is(err, ledgerErr))
	require.NotNil(t, conf)
	require.Len(t, conf.Trades, 1)
	assert.Equal(t, uint64(5), conf.Order.Remaining)

	// carol's remainder does not rest, bob's order is untouched
	orders, _ := te.OpenOrders(testMarket, carol)
	assert.Empty(t, orders)
	orders, _ = te.OpenOrders(testMarket, bob)
	require.Len(t, orders, 1)
	assert.Equal(t, uint64(5), orders[0].Remaining)
}

func TestSubmitOrderValidation(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithLedger(t)
	alice := types.Trader("alice")
	before := l.TotalCash()

	_, err := te.SubmitOrder(ctx, limit(alice, types.SideBuy, "0", 1))
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
	_, err = te.SubmitOrder(ctx, limit(alice, types.SideBuy, "10", 0))
	assert.True(t, errors.Is(err, types.ErrInvalidQuantity))
	_, err = te.SubmitOrder(ctx, limit(types.MarketMaker(), types.SideBuy, "10", 1))
	assert.True(t, errors.Is(err, types.ErrInvalidParty))

	sub := limit(alice, types.SideBuy, "10", 1)
	sub.MarketID = "unknown"
	_, err = te.SubmitOrder(ctx, sub)
	assert.True(t, errors.Is(err, types.ErrMarketNotFound))

	// no cash
	_, err = te.SubmitOrder(ctx, limit(alice, types.SideBuy, "10", 1))
	assert.True(t, errors.Is(err, types.ErrInsufficientFunds))
	// no shares
	_, err = te.SubmitOrder(ctx, limit(alice, types.SideSell, "10", 1))
	assert.True(t, errors.Is(err, types.ErrInsufficientShares))

	orders, _ := te.OpenOrders(testMarket, alice)
	assert.Empty(t, orders)
	assert.True(t, before.Equal(l.TotalCash()))
}

func TestCancelOrder(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithLedger(t)
	alice, bob := types.Trader("alice"), types.Trader("bob")
	require.NoError(t, l.Deposit(ctx, alice, d("1000")))

	// well below the market maker bid, rests
	conf, err := te.SubmitOrder(ctx, limit(alice, types.SideBuy, "50", 5))
	require.NoError(t, err)
	require.Empty(t, conf.Trades)
	bal, _ := l.Balance(ctx, alice, testMarket)
	assert.Equal(t, "750", bal.Cash.String())

	_, err = te.CancelOrder(ctx, testMarket, conf.Order.ID, bob)
	assert.True(t, errors.Is(err, types.ErrNotOwner))
	_, err = te.CancelOrder(ctx, testMarket, "nope", alice)
	assert.True(t, errors.Is(err, types.ErrOrderNotFound))

	refund, err := te.CancelOrder(ctx, testMarket, conf.Order.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "250", refund.Cash.String())
	bal, _ = l.Balance(ctx, alice, testMarket)
	assert.Equal(t, "1000", bal.Cash.String())

	_, err = te.CancelOrder(ctx, testMarket, conf.Order.ID, alice)
	assert.True(t, errors.Is(err, types.ErrOrderNotFound))

	// traders cannot pull the market maker quotes
	mkt, _ := te.GetMarket(testMarket)
	_, err = te.CancelOrder(ctx, testMarket, mkt.MarketMaker.AskOrderID, alice)
	assert.True(t, errors.Is(err, types.ErrNotOwner))
}

func TestTradeNudgesFairPriceAndRequotes(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithLedger(t)
	alice := types.Trader("alice")
	require.NoError(t, l.Deposit(ctx, alice, d("5000")))

	_, asks, _ := te.Depth(testMarket, 1)
	require.Len(t, asks, 1)
	ask := asks[0].Price
	before, _ := te.GetMarket(testMarket)

	te.advance(time.Minute)
	conf, err := te.SubmitOrder(ctx, market(alice, types.SideBuy, 10))
	require.NoError(t, err)
	require.Len(t, conf.Trades, 1)
	assert.True(t, conf.Trades[0].Price.Equal(ask))
	assert.True(t, conf.Trades[0].Seller.IsMarketMaker())

	after, _ := te.GetMarket(testMarket)
	// fair += 0.02 * (price - fair)
	expected := before.FairPrice.Add(d("0.02").Mul(ask.Sub(before.FairPrice)))
	assert.True(t, expected.Equal(after.FairPrice), "got %s want %s", after.FairPrice, expected)

	// fresh quotes reflect the new inventory
	assert.Equal(t, listingTime.Add(time.Minute), after.MarketMaker.LastQuoteTime)
	assert.Equal(t, uint64(990), after.MarketMaker.Inventory)
	assert.NotEqual(t, before.MarketMaker.AskOrderID, after.MarketMaker.AskOrderID)

	bal, _ := l.Balance(ctx, alice, testMarket)
	assert.Equal(t, uint64(10), bal.Shares)
	assert.True(t, d("5000").Sub(ask.Mul(num.DecimalFromInt64(10))).Equal(bal.Cash))

	history, err := te.PriceHistory(testMarket, listingTime.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Price.Equal(ask))
}

func TestCashAndSharesAreConserved(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithLedger(t)
	traders := []types.Participant{types.Trader("a"), types.Trader("b"), types.Trader("c"), types.Trader("d")}
	for _, tr := range traders {
		require.NoError(t, l.Deposit(ctx, tr, d("20000")))
	}
	totalCash := l.TotalCash()

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		te.advance(time.Duration(r.Intn(600)) * time.Second)
		tr := traders[r.Intn(len(traders))]
		side := types.SideBuy
		if r.Intn(2) == 0 {
			side = types.SideSell
		}
		size := uint64(1 + r.Intn(20))

		var sub types.OrderSubmission
		if r.Intn(4) == 0 {
			sub = market(tr, side, size)
		} else {
			price := num.DecimalFromFloat(85 + r.Float64()*30).Round(2)
			sub = limit(tr, side, price.String(), size)
		}

		conf, err := te.SubmitOrder(ctx, sub)
		if err != nil {
			require.True(t,
				errors.Is(err, types.ErrInsufficientFunds) ||
					errors.Is(err, types.ErrInsufficientShares) ||
					errors.Is(err, types.ErrInsufficientLiquidity),
				"unexpected error %v", err)
			continue
		}

		var filled uint64
		for _, trade := range conf.Trades {
			filled += trade.Size
			if side == types.SideBuy {
				assert.True(t, trade.Price.LessThanOrEqual(conf.Order.Price))
			} else {
				assert.True(t, trade.Price.GreaterThanOrEqual(conf.Order.Price))
			}
		}
		assert.Equal(t, conf.Order.Size-conf.Order.Remaining, filled)

		// cancel an open order from time to time
		if r.Intn(5) == 0 {
			if orders, _ := te.OpenOrders(testMarket, tr); len(orders) > 0 {
				_, err := te.CancelOrder(ctx, testMarket, orders[0].ID, tr)
				require.NoError(t, err)
			}
		}

		require.True(t, totalCash.Equal(l.TotalCash()), "cash %s != %s at step %d", l.TotalCash(), totalCash, i)
		require.Equal(t, uint64(1000), l.TotalShares(testMarket))
	}

	for _, tr := range traders {
		orders, _ := te.OpenOrders(testMarket, tr)
		for _, o := range orders {
			assert.LessOrEqual(t, o.Remaining, o.Size)
			assert.Greater(t, o.Remaining, uint64(0))
		}
	}

	bids, asks, _ := te.Depth(testMarket, 1)
	if len(bids) > 0 && len(asks) > 0 {
		assert.True(t, bids[0].Price.LessThan(asks[0].Price))
	}
}

func TestDelistMarket(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithLedger(t)
	alice := types.Trader("alice")
	require.NoError(t, l.Deposit(ctx, alice, d("1000")))

	_, err := te.SubmitOrder(ctx, limit(alice, types.SideBuy, "50", 10))
	require.NoError(t, err)

	require.NoError(t, te.DelistMarket(ctx, testMarket))

	// alice got her reservation back, the market maker account is gone
	assert.Equal(t, "1000", l.TotalCash().String())
	_, err = te.GetMarket(testMarket)
	assert.True(t, errors.Is(err, types.ErrMarketNotFound))
	_, err = te.SubmitOrder(ctx, limit(alice, types.SideBuy, "50", 10))
	assert.True(t, errors.Is(err, types.ErrMarketNotFound))
	assert.True(t, errors.Is(te.DelistMarket(ctx, testMarket), types.ErrMarketNotFound))
	assert.Empty(t, te.MarketIDs())
}

func TestRequoteFailureIsWrapped(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	l := mocks.NewMockLedger(ctrl)
	l.EXPECT().OpenMarket(gomock.Any(), testMarket, gomock.Any(), gomock.Any()).Return(nil)
	l.EXPECT().Balance(gomock.Any(), types.MarketMaker(), testMarket).
		Return(types.Balance{}, errors.New("ledger unavailable")).AnyTimes()

	te := newTestEngine(t, l)
	// listing survives a failed first quote
	_, err := te.ListMarket(ctx, types.MarketListing{ID: testMarket})
	require.NoError(t, err)

	err = te.RequoteMarket(ctx, testMarket)
	assert.True(t, errors.Is(err, types.ErrMarketMakerRequoteFailed))
}

func TestMarketInfoAndPortfolio(t *testing.T) {
	ctx := context.Background()
	te, l := getTestEngineWithLedger(t)
	alice := types.Trader("alice")
	require.NoError(t, l.Deposit(ctx, alice, d("5000")))

	require.NoError(t, te.AccumulateRevenue(ctx, testMarket, listingTime, d("300")))
	assert.Error(t, te.AccumulateRevenue(ctx, testMarket, listingTime, d("-1")))

	// thursday, three days after the listing
	te.advance(3 * 24 * time.Hour)
	info, err := te.MarketInfo(testMarket)
	require.NoError(t, err)
	assert.Equal(t, "300", info.AccumulatedRevenue.String())
	assert.Equal(t, "700", info.EstimatedWeeklyRevenue.String())
	assert.True(t, info.BestAsk.GreaterThan(info.BestBid))
	assert.Equal(t, "100000", info.MarketCap.String())

	_, err = te.SubmitOrder(ctx, market(alice, types.SideBuy, 10))
	require.NoError(t, err)

	positions := te.Portfolio(ctx, alice)
	require.Len(t, positions, 1)
	assert.Equal(t, testMarket, positions[0].MarketID)
	assert.Equal(t, uint64(10), positions[0].Quantity)
	mkt, _ := te.GetMarket(testMarket)
	assert.True(t, positions[0].FairPrice.Equal(mkt.FairPrice))

	info, _ = te.MarketInfo(testMarket)
	assert.Equal(t, uint64(10), info.DailyVolume)
}

func TestSetDividendPct(t *testing.T) {
	ctx := context.Background()
	te, _ := getTestEngineWithLedger(t)

	require.NoError(t, te.SetDividendPct(ctx, testMarket, d("0.25")))
	mkt, _ := te.GetMarket(testMarket)
	assert.Equal(t, "0.25", mkt.DividendPct.String())

	assert.True(t, errors.Is(te.SetDividendPct(ctx, testMarket, d("1.01")), types.ErrInvalidArgument))
	assert.True(t, errors.Is(te.SetDividendPct(ctx, testMarket, d("-0.01")), types.ErrInvalidArgument))
}
