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

import "code.vegaprotocol.io/chanex/core/types"

// nopStore is used when the engine runs without persistence.
type nopStore struct{}

func (nopStore) SaveMarket(*types.Market) error { return nil }

func (nopStore) DeleteMarket(string) error { return nil }

func (nopStore) SaveOrder(*types.Order) error { return nil }

func (nopStore) DeleteOrder(string, string) error { return nil }

func (nopStore) SaveTrade(*types.Trade) error { return nil }

func (nopStore) LoadMarkets() ([]*types.Market, error) { return nil, nil }

func (nopStore) LoadOrders(string) ([]*types.Order, error) { return nil, nil }

func (nopStore) RecentPrices(string, int) ([]types.PricePoint, error) { return nil, nil }
