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

package settlement

import (
	"time"

	"code.vegaprotocol.io/chanex/libs/config/encoding"
	"code.vegaprotocol.io/chanex/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'api.grpc'.
const namedLogger = "settlement"

// Config represent the configuration of the settlement scheduler.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	RequoteInterval encoding.Duration `long:"requote-interval" description:"Interval between two forced market maker requotes"`
	// Parallelism bounds the number of markets processed at once by a tick, 0 means no bound.
	Parallelism int `long:"parallelism"`

	Retry RetryConfig `group:"Retry" namespace:"retry"`
}

// RetryConfig controls the retries of a failed settlement within a tick.
type RetryConfig struct {
	MaxRetries      uint64            `long:"max-retries"`
	InitialInterval encoding.Duration `long:"initial-interval"`
	MaxInterval     encoding.Duration `long:"max-interval"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:           encoding.LogLevel{Level: logging.InfoLevel},
		RequoteInterval: encoding.Duration{Duration: time.Hour},
		Parallelism:     8,
		Retry: RetryConfig{
			MaxRetries:      3,
			InitialInterval: encoding.Duration{Duration: 500 * time.Millisecond},
			MaxInterval:     encoding.Duration{Duration: 10 * time.Second},
		},
	}
}
