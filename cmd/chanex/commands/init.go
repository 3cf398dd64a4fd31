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
	"context"
	"fmt"
	"os"

	"code.vegaprotocol.io/chanex/config"

	"github.com/jessevdk/go-flags"
)

type InitCmd struct {
	HomeFlag
	Force bool `short:"f" long:"force" description:"Erase an existing configuration"`
}

func Init(_ context.Context, parser *flags.Parser) error {
	_, err := parser.AddCommand("init", "Write the default configuration", "Generate the configuration file of a chanex home directory", &InitCmd{})
	return err
}

func (opts *InitCmd) Execute(_ []string) error {
	home, err := opts.home()
	if err != nil {
		return err
	}
	path, err := initHome(home, opts.Force)
	if err != nil {
		return err
	}
	fmt.Printf("configuration written to %s\n", path)
	return nil
}

func initHome(home string, force bool) (string, error) {
	path := config.Path(home)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("configuration already exists at `%v` please remove it first or re-run using -f", path)
	}
	if err := config.Write(home, config.NewDefaultConfig()); err != nil {
		return "", err
	}
	return path, nil
}
