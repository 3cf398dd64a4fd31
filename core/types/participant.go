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

package types

import (
	"strings"

	"github.com/pkg/errors"
)

type participantKind uint8

const (
	participantTrader participantKind = iota + 1
	participantMarketMaker
)

const (
	marketMakerText = "mm"
	traderPrefix    = "t:"
)

// Participant is either a trader identified by its id or the synthetic
// market maker of a market.
type Participant struct {
	kind participantKind
	id   string
}

// Trader returns the participant for the given trader id.
func Trader(id string) Participant {
	return Participant{kind: participantTrader, id: id}
}

// MarketMaker returns the market maker participant.
func MarketMaker() Participant {
	return Participant{kind: participantMarketMaker}
}

func (p Participant) IsMarketMaker() bool {
	return p.kind == participantMarketMaker
}

func (p Participant) IsTrader() bool {
	return p.kind == participantTrader
}

// ID returns the trader id, empty for the market maker.
func (p Participant) ID() string {
	return p.id
}

func (p Participant) IsZero() bool {
	return p.kind == 0
}

// Validate rejects the zero participant and traders without an id.
func (p Participant) Validate() error {
	switch {
	case p.IsMarketMaker():
		return nil
	case p.IsTrader() && len(p.id) > 0:
		return nil
	default:
		return ErrInvalidParty
	}
}

func (p Participant) String() string {
	switch p.kind {
	case participantMarketMaker:
		return "market-maker"
	case participantTrader:
		return p.id
	default:
		return "unknown"
	}
}

func (p Participant) MarshalText() ([]byte, error) {
	switch p.kind {
	case participantMarketMaker:
		return []byte(marketMakerText), nil
	case participantTrader:
		return []byte(traderPrefix + p.id), nil
	default:
		return nil, errors.New("cannot marshal an empty participant")
	}
}

func (p *Participant) UnmarshalText(b []byte) error {
	s := string(b)
	switch {
	case s == marketMakerText:
		*p = MarketMaker()
	case strings.HasPrefix(s, traderPrefix) && len(s) > len(traderPrefix):
		*p = Trader(strings.TrimPrefix(s, traderPrefix))
	default:
		return errors.Errorf("invalid participant %q", s)
	}
	return nil
}
