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

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned for malformed requests, nothing is changed.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidPrice signals a non positive or off tick price.
	ErrInvalidPrice = errors.Wrap(ErrInvalidArgument, "price must be positive")
	// ErrInvalidQuantity signals a quantity lower than one.
	ErrInvalidQuantity = errors.Wrap(ErrInvalidArgument, "quantity must be at least 1")
	// ErrInvalidSide signals an order without side.
	ErrInvalidSide = errors.Wrap(ErrInvalidArgument, "invalid side")
	// ErrInvalidParty signals an order without a valid owner.
	ErrInvalidParty = errors.Wrap(ErrInvalidArgument, "invalid party")
	// ErrInvalidDividendPct signals a dividend fraction outside [0, 1].
	ErrInvalidDividendPct = errors.Wrap(ErrInvalidArgument, "dividend percentage must be between 0 and 1")
	// ErrInsufficientFunds is returned when cash cannot be reserved.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientShares is returned when shares cannot be reserved.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrInsufficientLiquidity is returned when a market order cannot be filled by the book.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity on the book")
	// ErrOrderNotFound is returned when cancelling an unknown order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrNotOwner is returned when cancelling someone else's order.
	ErrNotOwner = errors.New("order is not owned by the requester")
	// ErrMarketNotFound is returned for an unknown market.
	ErrMarketNotFound = errors.New("market not found")
	// ErrMarketAlreadyListed is returned when listing an existing market twice.
	ErrMarketAlreadyListed = errors.New("market already listed")
	// ErrMarketMakerRequoteFailed wraps any failure of the market maker refresh.
	ErrMarketMakerRequoteFailed = errors.New("market maker requote failed")
	// ErrSettlementFailed wraps any failure of a periodic settlement.
	ErrSettlementFailed = errors.New("settlement failed")
)
