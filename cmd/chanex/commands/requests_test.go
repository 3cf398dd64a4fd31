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
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"code.vegaprotocol.io/chanex/config"
	"code.vegaprotocol.io/chanex/core/idgeneration"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testResponse struct {
	OK     bool            `json:"ok"`
	Error  string          `json:"error"`
	Result json.RawMessage `json:"result"`
}

func newTestExchange(t *testing.T) *exchange {
	t.Helper()
	conf := config.NewDefaultConfig()
	conf.Storage.InMemory = true

	clk := clock.NewMock()
	clk.Set(time.Date(2024, time.January, 3, 12, 0, 0, 0, time.UTC))

	ex, err := newExchange(context.Background(), logging.NewTestLogger(), conf, clk, idgeneration.New("requests"), nil)
	require.NoError(t, err)
	t.Cleanup(ex.close)
	return ex
}

func serveLines(t *testing.T, ex *exchange, lines ...string) []testResponse {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, ex.serve(context.Background(), strings.NewReader(strings.Join(lines, "\n")), &out))

	var resps []testResponse
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r testResponse
		require.NoError(t, dec.Decode(&r))
		resps = append(resps, r)
	}
	return resps
}

func TestServeRequests(t *testing.T) {
	ex := newTestExchange(t)

	resps := serveLines(t, ex,
		`{"type":"deposit","party":"alice","amount":"1000"}`,
		`{"type":"list","market":"m1","name":"Channel"}`,
		`{"type":"order","market":"m1","party":"alice","side":"buy","price":"95","size":2}`,
		``,
		`{"type":"message","market":"m1","party":"alice","text":"hello"}`,
		`{"type":"portfolio","party":"alice"}`,
		`{"type":"markets"}`,
	)
	require.Len(t, resps, 6)
	for i, r := range resps {
		assert.True(t, r.OK, "request %d: %s", i, r.Error)
	}

	var fills []types.Fill
	require.NoError(t, json.Unmarshal(resps[2].Result, &fills))
	require.Len(t, fills, 1)
	assert.True(t, fills[0].Price.LessThanOrEqual(num.MustDecimalFromString("95")))
	assert.Equal(t, uint64(2), fills[0].Size)
	assert.Equal(t, types.MarketMaker(), fills[0].Counterparty)

	var revenue num.Decimal
	require.NoError(t, json.Unmarshal(resps[3].Result, &revenue))
	assert.True(t, revenue.IsPositive())

	var ids []string
	require.NoError(t, json.Unmarshal(resps[5].Result, &ids))
	assert.Equal(t, []string{"m1"}, ids)

	pf := ex.engine.Portfolio(context.Background(), types.Trader("alice"))
	require.Len(t, pf, 1)
	assert.Equal(t, uint64(2), pf[0].Quantity)
}

func TestServeRejectsBadRequests(t *testing.T) {
	ex := newTestExchange(t)

	resps := serveLines(t, ex,
		`{"type":"bogus"}`,
		`not json`,
		`{"type":"list","market":"m1"}`,
		`{"type":"order","market":"m1","party":"alice","side":"up","price":"1","size":1}`,
		`{"type":"order","market":"m1","party":"alice","side":"buy","price":"abc","size":1}`,
		`{"type":"order","market":"m1","party":"alice","side":"buy","price":"95","size":1}`,
		`{"type":"cancel","market":"m1","party":"alice","order":"nope"}`,
		`{"type":"info","market":"m2"}`,
		`{"type":"deposit","amount":"10"}`,
		`{"type":"order","market":"m1","side":"buy","price":"95","size":1}`,
	)
	require.Len(t, resps, 10)

	assert.Contains(t, resps[0].Error, "unknown request type")
	assert.Contains(t, resps[1].Error, "invalid request")
	assert.True(t, resps[2].OK)
	assert.Contains(t, resps[3].Error, types.ErrInvalidSide.Error())
	assert.Contains(t, resps[4].Error, "invalid number")
	// alice never deposited
	assert.False(t, resps[5].OK)
	assert.Contains(t, resps[6].Error, types.ErrOrderNotFound.Error())
	assert.Contains(t, resps[7].Error, types.ErrMarketNotFound.Error())
	assert.Contains(t, resps[8].Error, types.ErrInvalidParty.Error())
	assert.Contains(t, resps[9].Error, types.ErrInvalidParty.Error())
	assert.True(t, ex.ledger.TotalCash().Equal(num.MustDecimalFromString("30000")))
}

func TestListMarketTwiceIsIgnored(t *testing.T) {
	ex := newTestExchange(t)
	ctx := context.Background()

	require.NoError(t, ex.listMarket(ctx, "m1:First"))
	require.NoError(t, ex.listMarket(ctx, "m1:Second"))

	info, err := ex.engine.MarketInfo("m1")
	require.NoError(t, err)
	assert.Equal(t, "First", info.Name)

	require.NoError(t, ex.delistMarket(ctx, "m1"))
	assert.Empty(t, ex.engine.MarketIDs())
}
