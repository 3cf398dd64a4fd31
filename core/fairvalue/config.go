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

package fairvalue

import (
	"code.vegaprotocol.io/chanex/libs/config/encoding"
	"code.vegaprotocol.io/chanex/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'api.grpc'.
const namedLogger = "fairvalue"

// Config represent the configuration of the fair value model.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	TradeImpact   encoding.Decimal `long:"trade-impact" description:"Weight of a trade price in the fair price moving average"`
	Alpha         encoding.Decimal `long:"alpha" description:"Damping of the revenue ratio on settlement"`
	MaxWeeklyMove encoding.Decimal `long:"max-weekly-move" description:"Hard bound of a settlement repricing, as a fraction of the fair price"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:         encoding.LogLevel{Level: logging.InfoLevel},
		TradeImpact:   encoding.DecimalFromString("0.02"),
		Alpha:         encoding.DecimalFromString("0.3"),
		MaxWeeklyMove: encoding.DecimalFromString("0.08"),
	}
}
