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

//lint:file-ignore SA5008 duplicated struct tags are ok for config

package config

import (
	"os"
	"path/filepath"

	"code.vegaprotocol.io/chanex/core/broker"
	"code.vegaprotocol.io/chanex/core/execution"
	"code.vegaprotocol.io/chanex/core/ledger"
	"code.vegaprotocol.io/chanex/core/revenue"
	"code.vegaprotocol.io/chanex/core/settlement"
	"code.vegaprotocol.io/chanex/logging"
	"code.vegaprotocol.io/chanex/metrics"
	"code.vegaprotocol.io/chanex/storage"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const configFileName = "config.toml"

// ErrEmptyConfig is returned when the configuration file holds no setting at all,
// which is what a reader sees while the file is being rewritten.
var ErrEmptyConfig = errors.New("configuration file is empty")

// Config ties together all other application configuration types.
type Config struct {
	Logging    logging.Config    `group:"Logging"    namespace:"logging"`
	Execution  execution.Config  `group:"Execution"  namespace:"execution"`
	Ledger     ledger.Config     `group:"Ledger"     namespace:"ledger"`
	Settlement settlement.Config `group:"Settlement" namespace:"settlement"`
	Revenue    revenue.Config    `group:"Revenue"    namespace:"revenue"`
	Broker     broker.Config     `group:"Broker"     namespace:"broker"`
	Storage    storage.Config    `group:"Storage"    namespace:"storage"`
	Metrics    metrics.Config    `group:"Metrics"    namespace:"metrics"`
}

// NewDefaultConfig returns a set of default configs for all chanex packages, as specified at the per package
// config level.
func NewDefaultConfig() Config {
	return Config{
		Logging:    logging.NewDefaultConfig(),
		Execution:  execution.NewDefaultConfig(),
		Ledger:     ledger.NewDefaultConfig(),
		Settlement: settlement.NewDefaultConfig(),
		Revenue:    revenue.NewDefaultConfig(),
		Broker:     broker.NewDefaultConfig(),
		Storage:    storage.NewDefaultConfig(),
		Metrics:    metrics.NewDefaultConfig(),
	}
}

// Path returns the configuration file of the home directory.
func Path(home string) string {
	return filepath.Join(home, configFileName)
}

// Read loads the configuration of the home directory over the defaults.
// A relative storage path is resolved against the home.
func Read(home string) (*Config, error) {
	cfg := NewDefaultConfig()
	md, err := toml.DecodeFile(Path(home), &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't read %s", Path(home))
	}
	if len(md.Keys()) == 0 {
		return nil, errors.Wrapf(ErrEmptyConfig, "couldn't read %s", Path(home))
	}
	if !filepath.IsAbs(cfg.Storage.Path) {
		cfg.Storage.Path = filepath.Join(home, cfg.Storage.Path)
	}
	return &cfg, nil
}

// Write saves the configuration in the home directory, which is created if needed.
func Write(home string, cfg Config) error {
	if err := os.MkdirAll(home, 0o700); err != nil {
		return errors.Wrapf(err, "couldn't create %s", home)
	}
	f, err := os.OpenFile(Path(home), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "couldn't encode configuration")
	}
	return f.Close()
}

// Decode reads a configuration from a TOML document over the defaults.
func Decode(data string) (Config, error) {
	cfg := NewDefaultConfig()
	_, err := toml.Decode(data, &cfg)
	return cfg, err
}
