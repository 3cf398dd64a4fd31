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

package storage

import (
	"time"

	"code.vegaprotocol.io/chanex/libs/config/encoding"
	"code.vegaprotocol.io/chanex/logging"
)

// namedLogger is the identifier for package and should ideally match the package name
// this is simply emitted as a hierarchical label e.g. 'api.grpc'.
const namedLogger = "storage"

// Config provides package level settings, configuration and logging.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`

	// Path is the leveldb directory, relative paths are resolved against the home.
	Path     string        `long:"path" description:"Directory of the leveldb store"`
	InMemory encoding.Bool `long:"in-memory" description:"Keep everything in memory, nothing survives a restart"`

	PriceCacheSize  int `long:"price-cache-size" description:"Number of markets whose recent prices are cached"`
	PriceCacheDepth int `long:"price-cache-depth" description:"Number of prices cached per market"`

	CheckpointInterval encoding.Duration `long:"checkpoint-interval" description:"How often the ledger is checkpointed"`
}

// NewDefaultConfig constructs a new Config instance with default parameters.
func NewDefaultConfig() Config {
	return Config{
		Level:           encoding.LogLevel{Level: logging.InfoLevel},
		Path:            "store",
		PriceCacheSize:  128,
		PriceCacheDepth: 5000,

		CheckpointInterval: encoding.Duration{Duration: time.Minute},
	}
}
