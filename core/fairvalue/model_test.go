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

package fairvalue_test

import (
	"testing"

	"code.vegaprotocol.io/chanex/core/fairvalue"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func d(s string) num.Decimal {
	return num.MustDecimalFromString(s)
}

func getTestModel(t *testing.T) *fairvalue.Model {
	t.Helper()
	return fairvalue.New(logging.NewTestLogger(), fairvalue.NewDefaultConfig())
}

func TestReprice(t *testing.T) {
	m := getTestModel(t)

	cases := []struct {
		name        string
		fair        string
		revenue     string
		lastRevenue string
		want        string
	}{
		{"doubling revenue is capped at +8%", "100", "2000", "1000", "108"},
		{"halving revenue is capped at -8%", "100", "500", "1000", "92"},
		{"small increase is damped", "100", "1100", "1000", "103"},
		{"small decrease is damped", "100", "900", "1000", "97"},
		{"first settlement leaves the price", "100", "1000", "0", "100"},
		{"negative last revenue leaves the price", "100", "1000", "-5", "100"},
		{"zero revenue is capped", "50", "0", "10", "46"},
		{"floor at the tick", "0.01", "0", "10", "0.01"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, _ := m.Reprice(d(c.fair), d(c.revenue), d(c.lastRevenue))
			assert.True(t, got.Equal(d(c.want)), "got %s want %s", got, c.want)
		})
	}
}

func TestNudge(t *testing.T) {
	m := getTestModel(t)

	assert.Equal(t, "100.2", m.Nudge(d("100"), d("110")).String())
	assert.Equal(t, "99.8", m.Nudge(d("100"), d("90")).String())
	assert.Equal(t, "100", m.Nudge(d("100"), d("100")).String())
	assert.Equal(t, "0.01", fairvalue.Nudge(d("0.01"), d("0.01"), d("0.5")).String())
}

func TestProperty_RepriceIsBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fair := num.DecimalFromInt64(int64(rapid.IntRange(1, 1_000_000).Draw(t, "fair"))).Div(num.DecimalFromInt64(100))
		revenue := num.DecimalFromInt64(int64(rapid.IntRange(0, 1_000_000).Draw(t, "revenue")))
		last := num.DecimalFromInt64(int64(rapid.IntRange(0, 1_000_000).Draw(t, "last")))

		got, _ := fairvalue.Reprice(fair, revenue, last, d("0.3"), d("0.08"))
		if !got.IsPositive() {
			t.Fatalf("fair price %s not positive", got)
		}
		bound := fair.Mul(d("0.08"))
		if got.Sub(fair).Abs().GreaterThan(bound) && !got.Equal(d("0.01")) {
			t.Fatalf("moved from %s to %s, more than %s", fair, got, bound)
		}
	})
}
