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
	"time"

	"code.vegaprotocol.io/chanex/core/fairvalue"
	"code.vegaprotocol.io/chanex/core/marketmaker"
	"code.vegaprotocol.io/chanex/core/matching"
	"code.vegaprotocol.io/chanex/libs/config/encoding"
	"code.vegaprotocol.io/chanex/logging"
)

const (
	// namedLogger is the identifier for package and should ideally match the package name
	// this is simply emitted as a hierarchical label e.g. 'api.grpc'.
	namedLogger = "execution"
)

// Config is the configuration of the execution package.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	Matching    matching.Config    `group:"Matching"    namespace:"matching"`
	MarketMaker marketmaker.Config `group:"MarketMaker" namespace:"marketmaker"`
	FairValue   fairvalue.Config   `group:"FairValue"   namespace:"fairvalue"`

	DefaultIPOPrice    encoding.Decimal `long:"default-ipo-price"`
	DefaultTotalShares uint64           `long:"default-total-shares"`
	DefaultDividendPct encoding.Decimal `long:"default-dividend-pct"`
	// RevenueNoise is the half width of the uniform noise applied to a settled revenue.
	RevenueNoise encoding.Decimal `long:"revenue-noise" description:"Relative measurement noise applied to settled revenue"`

	DailyVolumeWindow encoding.Duration `long:"daily-volume-window"`
	PriceHistorySize  int               `long:"price-history-size" description:"Number of trade prices kept in memory per market"`
	DepthLevels       int               `long:"depth-levels" description:"Default number of levels returned by depth queries"`
}

// NewDefaultConfig creates an instance of the package specific configuration, given a
// pointer to a logger instance to be used for logging within the package.
func NewDefaultConfig() Config {
	return Config{
		Level:              encoding.LogLevel{Level: logging.InfoLevel},
		Matching:           matching.NewDefaultConfig(),
		MarketMaker:        marketmaker.NewDefaultConfig(),
		FairValue:          fairvalue.NewDefaultConfig(),
		DefaultIPOPrice:    encoding.DecimalFromString("100"),
		DefaultTotalShares: 1000,
		DefaultDividendPct: encoding.DecimalFromString("0.10"),
		RevenueNoise:       encoding.DecimalFromString("0.05"),
		DailyVolumeWindow:  encoding.Duration{Duration: 24 * time.Hour},
		PriceHistorySize:   5000,
		DepthLevels:        5,
	}
}
