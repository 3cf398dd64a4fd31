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

package ledger_test

import (
	"context"
	"testing"

	"code.vegaprotocol.io/chanex/core/ledger"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const market = "market-1"

func d(s string) num.Decimal {
	return num.MustDecimalFromString(s)
}

func getTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New(logging.NewTestLogger(), ledger.NewDefaultConfig())
	require.NoError(t, l.OpenMarket(context.Background(), market, d("30000"), 1000))
	return l
}

func TestReserveAndRefund(t *testing.T) {
	ctx := context.Background()
	l := getTestLedger(t)
	alice := types.Trader("alice")
	require.NoError(t, l.Deposit(ctx, alice, d("1000")))

	err := l.ReserveCash(ctx, alice, market, d("1000.01"))
	assert.True(t, errors.Is(err, types.ErrInsufficientFunds))

	require.NoError(t, l.ReserveCash(ctx, alice, market, d("400")))
	bal, err := l.Balance(ctx, alice, market)
	require.NoError(t, err)
	assert.Equal(t, "600", bal.Cash.String())
	assert.Equal(t, "400", l.Reserved(ctx, alice, market).Cash.String())

	require.NoError(t, l.RefundCash(ctx, alice, market, d("150")))
	bal, _ = l.Balance(ctx, alice, market)
	assert.Equal(t, "750", bal.Cash.String())

	err = l.RefundCash(ctx, alice, market, d("251"))
	assert.True(t, errors.Is(err, types.ErrInsufficientFunds))

	err = l.ReserveShares(ctx, alice, market, 1)
	assert.True(t, errors.Is(err, types.ErrInsufficientShares))

	assert.True(t, errors.Is(l.ReserveCash(ctx, alice, "unknown", d("1")), ledger.ErrMarketNotOpen))

	t.Run("traders need an id", func(t *testing.T) {
		before := l.TotalCash()
		assert.True(t, errors.Is(l.Deposit(ctx, types.Trader(""), d("10")), types.ErrInvalidParty))
		assert.True(t, errors.Is(l.ReserveCash(ctx, types.Trader(""), market, d("0")), types.ErrInvalidParty))
		assert.True(t, before.Equal(l.TotalCash()))
	})
}

func TestSettleTradeMovesEscrow(t *testing.T) {
	ctx := context.Background()
	l := getTestLedger(t)
	bob := types.Trader("bob")
	mm := types.MarketMaker()
	require.NoError(t, l.Deposit(ctx, bob, d("2000")))
	totalCash := l.TotalCash()

	// market maker offers 10, bob bids 10 at 101 and fills at 99
	require.NoError(t, l.ReserveShares(ctx, mm, market, 10))
	require.NoError(t, l.ReserveCash(ctx, bob, market, d("1010")))

	trade := &types.Trade{
		MarketID: market,
		Price:    d("99"),
		Size:     10,
		Buyer:    bob,
		Seller:   mm,
	}
	require.NoError(t, l.SettleTrade(ctx, trade, d("101")))

	bal, _ := l.Balance(ctx, bob, market)
	assert.Equal(t, "1010", bal.Cash.String())
	assert.Equal(t, uint64(10), bal.Shares)
	assert.True(t, l.Reserved(ctx, bob, market).Cash.IsZero())

	mmBal, _ := l.Balance(ctx, mm, market)
	assert.Equal(t, "30990", mmBal.Cash.String())
	assert.Equal(t, uint64(990), mmBal.Shares)

	assert.True(t, totalCash.Equal(l.TotalCash()))
	assert.Equal(t, uint64(1000), l.TotalShares(market))

	holdings := l.PartyHoldings(ctx, bob)
	require.Len(t, holdings, 1)
	assert.Equal(t, "99", holdings[0].AvgCost.String())
}

func TestSettleTradeIsAtomic(t *testing.T) {
	ctx := context.Background()
	l := getTestLedger(t)
	bob := types.Trader("bob")
	require.NoError(t, l.Deposit(ctx, bob, d("100")))
	require.NoError(t, l.ReserveCash(ctx, bob, market, d("100")))

	// seller has nothing in escrow
	trade := &types.Trade{MarketID: market, Price: d("10"), Size: 10, Buyer: bob, Seller: types.MarketMaker()}
	err := l.SettleTrade(ctx, trade, d("10"))
	assert.True(t, errors.Is(err, types.ErrInsufficientShares))

	assert.Equal(t, "100", l.Reserved(ctx, bob, market).Cash.String())
	bal, _ := l.Balance(ctx, bob, market)
	assert.Equal(t, uint64(0), bal.Shares)

	err = l.SettleTrade(ctx, trade, d("9"))
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
}

func TestAverageCost(t *testing.T) {
	ctx := context.Background()
	l := getTestLedger(t)
	bob := types.Trader("bob")
	mm := types.MarketMaker()
	require.NoError(t, l.Deposit(ctx, bob, d("10000")))

	for _, fill := range []struct {
		price string
		size  uint64
	}{{"100", 10}, {"110", 30}} {
		qty := num.DecimalFromUint64(fill.size)
		require.NoError(t, l.ReserveShares(ctx, mm, market, fill.size))
		require.NoError(t, l.ReserveCash(ctx, bob, market, d(fill.price).Mul(qty)))
		require.NoError(t, l.SettleTrade(ctx, &types.Trade{
			MarketID: market, Price: d(fill.price), Size: fill.size, Buyer: bob, Seller: mm,
		}, d(fill.price)))
	}

	holdings := l.PartyHoldings(ctx, bob)
	require.Len(t, holdings, 1)
	assert.Equal(t, uint64(40), holdings[0].Quantity)
	assert.Equal(t, "107.5", holdings[0].AvgCost.String())
}

func TestHoldingsAndDividends(t *testing.T) {
	ctx := context.Background()
	l := getTestLedger(t)
	bob := types.Trader("bob")
	mm := types.MarketMaker()
	require.NoError(t, l.Deposit(ctx, bob, d("1000")))
	require.NoError(t, l.ReserveShares(ctx, mm, market, 5))
	require.NoError(t, l.ReserveCash(ctx, bob, market, d("500")))
	require.NoError(t, l.SettleTrade(ctx, &types.Trade{MarketID: market, Price: d("100"), Size: 5, Buyer: bob, Seller: mm}, d("100")))

	holdings, err := l.Holdings(ctx, market)
	require.NoError(t, err)
	require.Len(t, holdings, 2)
	assert.True(t, holdings[0].Party.IsMarketMaker())
	assert.Equal(t, uint64(995), holdings[0].Quantity)
	assert.Equal(t, bob, holdings[1].Party)

	// escrowed shares are not reported
	require.NoError(t, l.ReserveShares(ctx, bob, market, 5))
	holdings, _ = l.Holdings(ctx, market)
	require.Len(t, holdings, 1)

	require.NoError(t, l.PayDividend(ctx, bob, market, d("12")))
	bal, _ := l.Balance(ctx, bob, market)
	assert.Equal(t, "512", bal.Cash.String())

	assert.Error(t, l.PayDividend(ctx, mm, market, d("12")))
}

func TestCloseMarket(t *testing.T) {
	ctx := context.Background()
	l := getTestLedger(t)
	require.True(t, errors.Is(l.OpenMarket(ctx, market, d("1"), 1), types.ErrMarketAlreadyListed))

	require.NoError(t, l.CloseMarket(ctx, market))
	assert.True(t, l.TotalCash().IsZero())
	assert.Equal(t, uint64(0), l.TotalShares(market))
	assert.True(t, errors.Is(l.CloseMarket(ctx, market), ledger.ErrMarketNotOpen))
}

func TestCheckpointRoundTrip(t *testing.T) {
	ctx := context.Background()
	l := getTestLedger(t)
	bob := types.Trader("bob")
	require.NoError(t, l.Deposit(ctx, bob, d("1000")))
	require.NoError(t, l.ReserveCash(ctx, bob, market, d("250")))

	data, err := l.Checkpoint()
	require.NoError(t, err)

	restored := ledger.New(logging.NewTestLogger(), ledger.NewDefaultConfig())
	require.NoError(t, restored.Load(data))

	again, err := restored.Checkpoint()
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
	assert.Equal(t, "250", restored.Reserved(ctx, bob, market).Cash.String())
	assert.True(t, l.TotalCash().Equal(restored.TotalCash()))
}
