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
	"code.vegaprotocol.io/chanex/libs/config/encoding"
	"code.vegaprotocol.io/chanex/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'api.grpc'.
const namedLogger = "marketmaker"

// Config represent the configuration of the market maker quoting.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	BaseSpread         float64 `long:"base-spread"`
	VolatilityWeight   float64 `long:"volatility-weight" description:"Reference weight of volatility in the spread, scaled by the daily volume"`
	InventoryWeight    float64 `long:"inventory-weight" description:"Linear weight of the inventory deviation in the spread"`
	InventoryPenalty   float64 `long:"inventory-penalty" description:"Quadratic weight of the inventory deviation in the spread"`
	SkewFactor         float64 `long:"skew-factor" description:"Fraction of the fair price quotes move per unit of inventory deviation"`
	TargetInventoryPct float64 `long:"target-inventory-pct"`
	MinSpreadPct       float64 `long:"min-spread-pct"`
	// ReferenceVolume is the daily volume at which volatility gets its reference weight.
	ReferenceVolume float64 `long:"reference-volume"`
	// MinTargetVolume is the daily volume assumed on quieter days when sizing the inventory target.
	MinTargetVolume uint64 `long:"min-target-volume"`

	QuoteCap          uint64  `long:"quote-cap" description:"Largest size quoted on each side"`
	VolatilityWindow  int     `long:"volatility-window" description:"Number of trade prices the volatility is computed over"`
	VolatilityFloor   float64 `long:"volatility-floor"`
	DefaultVolatility float64 `long:"default-volatility" description:"Volatility used until two trades happened"`

	StartingCash   encoding.Decimal `long:"starting-cash"`
	StartingShares uint64           `long:"starting-shares"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:              encoding.LogLevel{Level: logging.InfoLevel},
		BaseSpread:         0.8,
		VolatilityWeight:   1.5,
		InventoryWeight:    1.0,
		InventoryPenalty:   1.0,
		SkewFactor:         0.05,
		TargetInventoryPct: 0.35,
		MinSpreadPct:       0.005,
		ReferenceVolume:    350,
		MinTargetVolume:    100,
		QuoteCap:           100,
		VolatilityWindow:   20,
		VolatilityFloor:    0.001,
		DefaultVolatility:  0.01,
		StartingCash:       encoding.DecimalFromString("30000"),
		StartingShares:     1000,
	}
}
