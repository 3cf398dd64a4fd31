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

package ledger

import (
	"encoding/json"
	"sort"
	"strings"

	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"

	"github.com/pkg/errors"
)

const mmAccountPrefix = "mm/"

type checkpointBalance struct {
	Account  string      `json:"account"`
	Cash     num.Decimal `json:"cash"`
	Reserved num.Decimal `json:"reserved"`
}

type checkpointPosition struct {
	Market   string            `json:"market"`
	Party    types.Participant `json:"party"`
	Free     uint64            `json:"free"`
	Reserved uint64            `json:"reserved"`
	AvgCost  num.Decimal       `json:"avg_cost"`
}

type checkpoint struct {
	Markets   []string             `json:"markets"`
	Balances  []checkpointBalance  `json:"balances"`
	Positions []checkpointPosition `json:"positions"`
}

func (l *Ledger) Name() string {
	return "ledger"
}

// Checkpoint serialises the whole ledger, ordered so equal states give equal bytes.
func (l *Ledger) Checkpoint() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cp := checkpoint{
		Markets:   make([]string, 0, len(l.positions)),
		Balances:  make([]checkpointBalance, 0, len(l.accounts)),
		Positions: []checkpointPosition{},
	}
	for k, acc := range l.accounts {
		cp.Balances = append(cp.Balances, checkpointBalance{
			Account:  k,
			Cash:     acc.cash,
			Reserved: acc.reserved,
		})
	}
	for market, positions := range l.positions {
		cp.Markets = append(cp.Markets, market)
		for k, pos := range positions {
			cp.Positions = append(cp.Positions, checkpointPosition{
				Market:   market,
				Party:    l.parties[k],
				Free:     pos.free,
				Reserved: pos.reserved,
				AvgCost:  pos.avgCost,
			})
		}
	}

	sort.Strings(cp.Markets)
	sort.Slice(cp.Balances, func(i, j int) bool { return cp.Balances[i].Account < cp.Balances[j].Account })
	sort.Slice(cp.Positions, func(i, j int) bool {
		if cp.Positions[i].Market != cp.Positions[j].Market {
			return cp.Positions[i].Market < cp.Positions[j].Market
		}
		return partyKey(cp.Positions[i].Party) < partyKey(cp.Positions[j].Party)
	})
	return json.Marshal(cp)
}

// Load replaces the state of the ledger with a checkpoint.
func (l *Ledger) Load(data []byte) error {
	cp := checkpoint{}
	if err := json.Unmarshal(data, &cp); err != nil {
		return errors.Wrap(err, "invalid ledger checkpoint")
	}

	accounts := make(map[string]*account, len(cp.Balances))
	for _, b := range cp.Balances {
		if !strings.HasPrefix(b.Account, mmAccountPrefix) {
			var p types.Participant
			if err := p.UnmarshalText([]byte(b.Account)); err != nil {
				return errors.Wrap(err, "invalid account in ledger checkpoint")
			}
		}
		accounts[b.Account] = &account{cash: b.Cash, reserved: b.Reserved}
	}

	positions := make(map[string]map[string]*position, len(cp.Markets))
	for _, m := range cp.Markets {
		positions[m] = map[string]*position{}
	}
	parties := map[string]types.Participant{}
	for _, p := range cp.Positions {
		market, ok := positions[p.Market]
		if !ok {
			return errors.Errorf("position for unknown market %s in ledger checkpoint", p.Market)
		}
		k := partyKey(p.Party)
		market[k] = &position{free: p.Free, reserved: p.Reserved, avgCost: p.AvgCost}
		parties[k] = p.Party
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts = accounts
	l.positions = positions
	l.parties = parties
	return nil
}
