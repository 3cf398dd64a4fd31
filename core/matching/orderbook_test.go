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

package matching

import (
	"fmt"
	"testing"

	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = types.Trader("alice")
	bob   = types.Trader("bob")
	carol = types.Trader("carol")
	mm    = types.MarketMaker()
)

type fillView struct {
	Price        string
	Size         uint64
	Counterparty string
}

func viewFills(fills []types.Fill) []fillView {
	out := make([]fillView, 0, len(fills))
	for _, f := range fills {
		out = append(out, fillView{f.Price.String(), f.Size, f.Counterparty.String()})
	}
	return out
}

func TestOrderBook_SubmitOrder(t *testing.T) {
	t.Run("buy sweeps two levels at the makers prices", testBuySweepsLevelsAtMakerPrices)
	t.Run("same price fills oldest first", testSamePriceFillsOldestFirst)
	t.Run("sell fills at the resting bid price", testSellFillsAtRestingBid)
	t.Run("limit remainder rests", testLimitRemainderRests)
	t.Run("market remainder is discarded", testMarketRemainderDiscarded)
	t.Run("non crossing order rests", testNonCrossingOrderRests)
	t.Run("fill handler failure stops matching", testFillHandlerFailureStopsMatching)
	t.Run("invalid orders are rejected", testInvalidOrdersRejected)
}

func testBuySweepsLevelsAtMakerPrices(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	_, err := book.SubmitOrder(book.newOrder(bob, types.SideSell, "99", 5), nil)
	require.NoError(t, err)
	_, err = book.SubmitOrder(book.newOrder(carol, types.SideSell, "100", 5), nil)
	require.NoError(t, err)

	var settled []*types.Trade
	buy := book.newOrder(alice, types.SideBuy, "101", 10)
	conf, err := book.SubmitOrder(buy, func(tr *types.Trade) error {
		settled = append(settled, tr)
		return nil
	})
	require.NoError(t, err)

	want := []fillView{{"99", 5, "bob"}, {"100", 5, "carol"}}
	if diff := cmp.Diff(want, viewFills(conf.Fills())); diff != "" {
		t.Errorf("unexpected fills (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint64(0), buy.Remaining)
	assert.Len(t, settled, 2)

	total := num.DecimalZero()
	for _, tr := range conf.Trades {
		total = total.Add(tr.Notional())
		assert.Equal(t, alice, tr.Buyer)
		assert.Equal(t, types.SideBuy, tr.Aggressor)
	}
	assert.Equal(t, "995", total.String())
	assert.Equal(t, int64(0), book.GetTotalNumberOfOrders())
	assert.Equal(t, 0, book.getNumberOfSellLevels())
	assert.Equal(t, 0, book.getNumberOfBuyLevels())
	assert.Equal(t, "100", book.LastTradedPrice().String())
}

func testSamePriceFillsOldestFirst(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	older := book.newOrder(bob, types.SideSell, "100", 5)
	newer := book.newOrder(carol, types.SideSell, "100", 5)
	_, err := book.SubmitOrder(older, nil)
	require.NoError(t, err)
	_, err = book.SubmitOrder(newer, nil)
	require.NoError(t, err)

	conf, err := book.SubmitOrder(book.newOrder(alice, types.SideBuy, "100", 7), nil)
	require.NoError(t, err)
	require.Len(t, conf.Trades, 2)
	assert.Equal(t, bob, conf.Trades[0].Seller)
	assert.Equal(t, uint64(5), conf.Trades[0].Size)
	assert.Equal(t, carol, conf.Trades[1].Seller)
	assert.Equal(t, uint64(2), conf.Trades[1].Size)

	assert.Equal(t, uint64(3), newer.Remaining)
	assert.Equal(t, uint64(3), book.getVolumeAtLevel("100", types.SideSell))
	_, err = book.GetOrderByID(older.ID)
	assert.ErrorIs(t, err, types.ErrOrderNotFound)
}

func testSellFillsAtRestingBid(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	_, err := book.SubmitOrder(book.newOrder(bob, types.SideBuy, "102", 3), nil)
	require.NoError(t, err)

	sell := book.newOrder(alice, types.SideSell, "100", 3)
	conf, err := book.SubmitOrder(sell, nil)
	require.NoError(t, err)
	require.Len(t, conf.Trades, 1)
	assert.Equal(t, "102", conf.Trades[0].Price.String())
	assert.Equal(t, bob, conf.Trades[0].Buyer)
	assert.Equal(t, alice, conf.Trades[0].Seller)
	assert.Equal(t, types.SideSell, conf.Trades[0].Aggressor)
}

func testLimitRemainderRests(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	_, err := book.SubmitOrder(book.newOrder(bob, types.SideSell, "100", 4), nil)
	require.NoError(t, err)

	buy := book.newOrder(alice, types.SideBuy, "100", 10)
	conf, err := book.SubmitOrder(buy, nil)
	require.NoError(t, err)
	assert.Len(t, conf.Trades, 1)
	assert.Equal(t, uint64(6), buy.Remaining)

	resting, err := book.GetOrderByID(buy.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), resting.Remaining)
	assert.Equal(t, uint64(6), book.getVolumeAtLevel("100", types.SideBuy))
	assert.Len(t, book.GetOrdersForParty(alice), 1)
}

func testMarketRemainderDiscarded(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	_, err := book.SubmitOrder(book.newOrder(bob, types.SideSell, "100", 4), nil)
	require.NoError(t, err)

	buy := book.newMarketOrder(alice, types.SideBuy, 10)
	conf, err := book.SubmitOrder(buy, nil)
	require.NoError(t, err)
	assert.Len(t, conf.Trades, 1)
	assert.Equal(t, "100", conf.Trades[0].Price.String())
	assert.Equal(t, uint64(6), buy.Remaining)
	assert.Equal(t, int64(0), book.GetTotalNumberOfOrders())
	_, err = book.GetOrderByID(buy.ID)
	assert.ErrorIs(t, err, types.ErrOrderNotFound)
}

func testNonCrossingOrderRests(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	_, err := book.SubmitOrder(book.newOrder(bob, types.SideSell, "101", 4), nil)
	require.NoError(t, err)
	conf, err := book.SubmitOrder(book.newOrder(alice, types.SideBuy, "100", 4), nil)
	require.NoError(t, err)
	assert.Empty(t, conf.Trades)

	bid, err := book.GetBestBidPrice()
	require.NoError(t, err)
	ask, err := book.GetBestAskPrice()
	require.NoError(t, err)
	assert.Equal(t, "100", bid.String())
	assert.Equal(t, "101", ask.String())
}

func testFillHandlerFailureStopsMatching(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	first := book.newOrder(bob, types.SideSell, "99", 5)
	second := book.newOrder(carol, types.SideSell, "100", 5)
	_, err := book.SubmitOrder(first, nil)
	require.NoError(t, err)
	_, err = book.SubmitOrder(second, nil)
	require.NoError(t, err)

	boom := errors.New("ledger unavailable")
	calls := 0
	buy := book.newOrder(alice, types.SideBuy, "101", 10)
	conf, err := book.SubmitOrder(buy, func(*types.Trade) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, conf)
	assert.Len(t, conf.Trades, 1)
	assert.Equal(t, uint64(5), buy.Remaining)

	// the failed fill left the second maker untouched and the taker did not rest
	assert.Equal(t, uint64(5), second.Remaining)
	assert.Equal(t, uint64(5), book.getVolumeAtLevel("100", types.SideSell))
	assert.Equal(t, 0, book.getNumberOfBuyLevels())
	assert.Equal(t, int64(1), book.GetTotalNumberOfOrders())
}

func testInvalidOrdersRejected(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	o := book.newOrder(alice, types.SideBuy, "100", 1)
	o.Remaining = 2
	_, err := book.SubmitOrder(o, nil)
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)

	o = book.newOrder(alice, types.SideBuy, "0", 1)
	_, err = book.SubmitOrder(o, nil)
	assert.ErrorIs(t, err, types.ErrInvalidPrice)

	o = book.newOrder(alice, types.SideBuy, "10", 1)
	o.MarketID = "other"
	_, err = book.SubmitOrder(o, nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	o = book.newOrder(alice, types.SideBuy, "10", 1)
	_, err = book.SubmitOrder(o, nil)
	require.NoError(t, err)
	dup := book.newOrder(alice, types.SideBuy, "10", 1)
	dup.ID = o.ID
	_, err = book.SubmitOrder(dup, nil)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	assert.Equal(t, int64(1), book.GetTotalNumberOfOrders())
}

func TestOrderBook_CancelOrder(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	o := book.newOrder(alice, types.SideBuy, "100", 5)
	_, err := book.SubmitOrder(o, nil)
	require.NoError(t, err)

	t.Run("unknown order", func(t *testing.T) {
		_, err := book.CancelOrder("nope", alice)
		assert.ErrorIs(t, err, types.ErrOrderNotFound)
	})

	t.Run("not the owner", func(t *testing.T) {
		_, err := book.CancelOrder(o.ID, bob)
		assert.ErrorIs(t, err, types.ErrNotOwner)
		assert.Equal(t, int64(1), book.GetTotalNumberOfOrders())
	})

	t.Run("owner cancels", func(t *testing.T) {
		cancelled, err := book.CancelOrder(o.ID, alice)
		require.NoError(t, err)
		assert.Equal(t, uint64(5), cancelled.Remaining)
		assert.Equal(t, int64(0), book.GetTotalNumberOfOrders())
		assert.Equal(t, 0, book.getNumberOfBuyLevels())
		assert.Empty(t, book.GetOrdersForParty(alice))
	})
}

func TestOrderBook_CancelAllOrders(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	for _, p := range []string{"95", "96"} {
		_, err := book.SubmitOrder(book.newOrder(mm, types.SideBuy, p, 10), nil)
		require.NoError(t, err)
	}
	_, err := book.SubmitOrder(book.newOrder(mm, types.SideSell, "105", 10), nil)
	require.NoError(t, err)
	_, err = book.SubmitOrder(book.newOrder(alice, types.SideSell, "106", 10), nil)
	require.NoError(t, err)

	cancelled, err := book.CancelAllOrders(mm)
	require.NoError(t, err)
	assert.Len(t, cancelled, 3)
	assert.Equal(t, int64(1), book.GetTotalNumberOfOrders())

	cancelled, err = book.CancelAllOrders(bob)
	require.NoError(t, err)
	assert.Empty(t, cancelled)
}

func TestOrderBook_AvailableVolume(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	_, err := book.SubmitOrder(book.newOrder(bob, types.SideSell, "100", 5), nil)
	require.NoError(t, err)
	_, err = book.SubmitOrder(book.newOrder(bob, types.SideSell, "102", 5), nil)
	require.NoError(t, err)
	_, err = book.SubmitOrder(book.newOrder(bob, types.SideSell, "110", 5), nil)
	require.NoError(t, err)

	vol, worst := book.AvailableVolume(types.SideBuy, types.MarketBuyPrice, 7)
	assert.Equal(t, uint64(10), vol)
	assert.Equal(t, "102", worst.String())

	vol, worst = book.AvailableVolume(types.SideBuy, types.MarketBuyPrice, 100)
	assert.Equal(t, uint64(15), vol)
	assert.Equal(t, "110", worst.String())

	vol, _ = book.AvailableVolume(types.SideBuy, num.MustDecimalFromString("101"), 100)
	assert.Equal(t, uint64(5), vol)

	vol, _ = book.AvailableVolume(types.SideSell, types.MarketSellPrice, 1)
	assert.Equal(t, uint64(0), vol)
}

func TestOrderBook_Depth(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	_, err := book.SubmitOrder(book.newOrder(mm, types.SideBuy, "99", 10), nil)
	require.NoError(t, err)
	_, err = book.SubmitOrder(book.newOrder(alice, types.SideBuy, "99", 2), nil)
	require.NoError(t, err)
	_, err = book.SubmitOrder(book.newOrder(alice, types.SideBuy, "98", 1), nil)
	require.NoError(t, err)
	_, err = book.SubmitOrder(book.newOrder(bob, types.SideSell, "101", 3), nil)
	require.NoError(t, err)

	bids, asks := book.Depth(5)
	require.Len(t, bids, 2)
	require.Len(t, asks, 1)
	assert.Equal(t, "99", bids[0].Price.String())
	assert.Equal(t, uint64(12), bids[0].Volume)
	assert.Equal(t, uint64(2), bids[0].NumberOfOrders)
	assert.True(t, bids[0].MarketMaker)
	assert.Equal(t, "98", bids[1].Price.String())
	assert.False(t, bids[1].MarketMaker)
	assert.False(t, asks[0].MarketMaker)

	bids, _ = book.Depth(1)
	assert.Len(t, bids, 1)
}

func TestOrderBook_RestoreOrder(t *testing.T) {
	book := getTestOrderBook(t, "market")
	defer book.Finish()

	older := book.newOrder(bob, types.SideSell, "100", 5)
	older.Seq = 1
	newer := book.newOrder(carol, types.SideSell, "100", 5)
	newer.Seq = 2

	require.NoError(t, book.RestoreOrder(newer))
	require.NoError(t, book.RestoreOrder(older))

	conf, err := book.SubmitOrder(book.newOrder(alice, types.SideBuy, "100", 5), nil)
	require.NoError(t, err)
	require.Len(t, conf.Trades, 1)
	assert.Equal(t, bob, conf.Trades[0].Seller)
	assert.Equal(t, uint64(3), conf.Order.Seq)

	mkt := book.newMarketOrder(alice, types.SideBuy, 1)
	assert.ErrorIs(t, book.RestoreOrder(mkt), types.ErrInvalidArgument)
}

func TestCachedOrderBook_Depth(t *testing.T) {
	book := NewCachedOrderBook(getTestOrderBook(t, "market").log, NewDefaultConfig(), "market")
	o := &types.Order{
		ID: "o1", MarketID: "market", Party: alice, Side: types.SideBuy, Type: types.OrderTypeLimit,
		Price: num.DecimalFromInt64(10), Size: 2, Remaining: 2,
	}
	_, err := book.SubmitOrder(o, nil)
	require.NoError(t, err)

	bids, _ := book.Depth(0)
	require.Len(t, bids, 1)

	_, err = book.CancelOrder("o1", alice)
	require.NoError(t, err)
	bids, _ = book.Depth(0)
	assert.Empty(t, bids)
}

func TestCachedOrderBook_DepthIsACopy(t *testing.T) {
	book := NewCachedOrderBook(getTestOrderBook(t, "market").log, NewDefaultConfig(), "market")
	for i, price := range []int64{10, 9} {
		_, err := book.SubmitOrder(&types.Order{
			ID: fmt.Sprintf("o%d", i), MarketID: "market", Party: alice, Side: types.SideBuy, Type: types.OrderTypeLimit,
			Price: num.DecimalFromInt64(price), Size: 2, Remaining: 2,
		}, nil)
		require.NoError(t, err)
	}

	bids, _ := book.Depth(1)
	require.Len(t, bids, 1)
	bids[0].Volume = 1000
	bids[0].Price = num.DecimalFromInt64(99)

	all, _ := book.Depth(0)
	require.Len(t, all, 2)
	all[1].NumberOfOrders = 7

	bids, _ = book.Depth(0)
	require.Len(t, bids, 2)
	assert.Equal(t, uint64(2), bids[0].Volume)
	assert.True(t, bids[0].Price.Equal(num.DecimalFromInt64(10)))
	assert.Equal(t, uint64(1), bids[1].NumberOfOrders)
}
