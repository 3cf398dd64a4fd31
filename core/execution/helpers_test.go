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

	"code.vegaprotocol.io/chanex/core/execution"
	"code.vegaprotocol.io/chanex/core/execution/mocks"
	"code.vegaprotocol.io/chanex/core/idgeneration"
	"code.vegaprotocol.io/chanex/core/ledger"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/config/encoding"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

const testMarket = "market-1"

// monday 2024-01-01 09:00 UTC
var listingTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func d(s string) num.Decimal {
	return num.MustDecimalFromString(s)
}

type testEngine struct {
	*execution.Engine
	ctrl   *gomock.Controller
	broker *mocks.MockBroker
	now    time.Time
}

func (te *testEngine) advance(dur time.Duration) {
	te.now = te.now.Add(dur)
}

func testConfig() execution.Config {
	cfg := execution.NewDefaultConfig()
	cfg.RevenueNoise = encoding.DecimalFromString("0")
	return cfg
}

func newTestEngine(t *testing.T, l execution.Ledger) *testEngine {
	t.Helper()
	return newTestEngineWithConfig(t, l, testConfig(), nil)
}

func newTestEngineWithConfig(t *testing.T, l execution.Ledger, cfg execution.Config, rnd execution.Rand) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	te := &testEngine{
		ctrl:   ctrl,
		broker: mocks.NewMockBroker(ctrl),
		now:    listingTime,
	}
	ts := mocks.NewMockTimeService(ctrl)
	ts.EXPECT().GetTimeNow().DoAndReturn(func() time.Time { return te.now }).AnyTimes()
	te.broker.EXPECT().Send(gomock.Any()).AnyTimes()
	te.broker.EXPECT().SendBatch(gomock.Any()).AnyTimes()

	te.Engine = execution.NewEngine(
		logging.NewTestLogger(), cfg, ts, l, te.broker, nil, idgeneration.New("execution-test"), rnd,
	)
	return te
}

// getTestEngineWithLedger lists a market backed by an in memory ledger.
func getTestEngineWithLedger(t *testing.T) (*testEngine, *ledger.Ledger) {
	t.Helper()
	l := ledger.New(logging.NewTestLogger(), ledger.NewDefaultConfig())
	te := newTestEngine(t, l)
	_, err := te.ListMarket(context.Background(), types.MarketListing{ID: testMarket, Name: "test market"})
	require.NoError(t, err)
	return te, l
}

// getTestEngineWithMockLedger lists a market whose market maker has nothing to quote with.
func getTestEngineWithMockLedger(t *testing.T) (*testEngine, *mocks.MockLedger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	l := mocks.NewMockLedger(ctrl)
	l.EXPECT().OpenMarket(gomock.Any(), testMarket, gomock.Any(), gomock.Any()).Return(nil)
	l.EXPECT().Balance(gomock.Any(), types.MarketMaker(), testMarket).
		Return(types.Balance{Cash: num.DecimalZero()}, nil).AnyTimes()

	te := newTestEngine(t, l)
	_, err := te.ListMarket(context.Background(), types.MarketListing{ID: testMarket})
	require.NoError(t, err)
	return te, l
}

func limit(party types.Participant, side types.Side, price string, size uint64) types.OrderSubmission {
	return types.OrderSubmission{
		MarketID: testMarket,
		Party:    party,
		Side:     side,
		Type:     types.OrderTypeLimit,
		Price:    d(price),
		Size:     size,
	}
}

func market(party types.Participant, side types.Side, size uint64) types.OrderSubmission {
	return types.OrderSubmission{
		MarketID: testMarket,
		Party:    party,
		Side:     side,
		Type:     types.OrderTypeMarket,
		Size:     size,
	}
}
