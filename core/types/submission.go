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
	"fmt"

	"code.vegaprotocol.io/chanex/libs/num"

	"github.com/pkg/errors"
)

// OrderSubmission is a request to place an order on a market.
// Market orders leave the price unset, it is replaced by the side's sentinel.
type OrderSubmission struct {
	MarketID string
	Party    Participant
	Side     Side
	Type     OrderType
	Price    num.Decimal
	Size     uint64
}

// IntoOrder validates the submission and builds the order to submit.
func (s OrderSubmission) IntoOrder() (*Order, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	price := s.Price
	if s.Type == OrderTypeMarket {
		price = SentinelPrice(s.Side)
	}
	return &Order{
		MarketID:  s.MarketID,
		Party:     s.Party,
		Side:      s.Side,
		Type:      s.Type,
		Price:     price,
		Size:      s.Size,
		Remaining: s.Size,
	}, nil
}

func (s OrderSubmission) Validate() error {
	if len(s.MarketID) <= 0 {
		return errors.Wrap(ErrInvalidArgument, "missing market id")
	}
	if err := s.Party.Validate(); err != nil {
		return err
	}
	if s.Side != SideBuy && s.Side != SideSell {
		return ErrInvalidSide
	}
	if s.Size < 1 {
		return ErrInvalidQuantity
	}
	switch s.Type {
	case OrderTypeLimit:
		if !s.Price.IsPositive() {
			return ErrInvalidPrice
		}
		if !s.Price.Equal(s.Price.Round(PriceDecimals)) {
			return errors.Wrapf(ErrInvalidPrice, "price %s is not a multiple of the tick", s.Price)
		}
	case OrderTypeMarket:
	default:
		return errors.Wrap(ErrInvalidArgument, "invalid order type")
	}
	return nil
}

func (s OrderSubmission) String() string {
	return fmt.Sprintf(
		"submission(market=%s party=%s side=%s type=%s price=%s size=%d)",
		s.MarketID, s.Party, s.Side, s.Type, s.Price, s.Size,
	)
}
