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

package logging

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Binary constructs a field that carries an opaque binary blob.
func Binary(key string, val []byte) zap.Field {
	return zap.Binary(key, val)
}

// Bool constructs a field that carries a bool.
func Bool(key string, val bool) zap.Field {
	return zap.Bool(key, val)
}

// Duration constructs a field with the given key and value.
func Duration(key string, val time.Duration) zap.Field {
	return zap.Duration(key, val)
}

// Error constructs a field that lazily stores err.Error() under the key "error".
func Error(val error) zap.Field {
	return zap.Error(val)
}

// Float64 constructs a field that carries a float64.
func Float64(key string, val float64) zap.Field {
	return zap.Float64(key, val)
}

// Int constructs a field with the given key and value.
func Int(key string, val int) zap.Field {
	return zap.Int(key, val)
}

// Int64 constructs a field with the given key and value.
func Int64(key string, val int64) zap.Field {
	return zap.Int64(key, val)
}

// String constructs a field with the given key and value.
func String(key string, val string) zap.Field {
	return zap.String(key, val)
}

// Strings constructs a field that carries a slice of strings.
func Strings(key string, val []string) zap.Field {
	return zap.Strings(key, val)
}

// Time constructs a field with the given key and value.
func Time(key string, val time.Time) zap.Field {
	return zap.Time(key, val)
}

// Uint64 constructs a field with the given key and value.
func Uint64(key string, val uint64) zap.Field {
	return zap.Uint64(key, val)
}

// Decimal constructs a field with the string representation of a decimal.
func Decimal(key string, val decimal.Decimal) zap.Field {
	return zap.String(key, val.String())
}

// MarketID constructs a field with the market id.
func MarketID(id string) zap.Field {
	return zap.String("market-id", id)
}

// OrderID constructs a field with the order id.
func OrderID(id string) zap.Field {
	return zap.String("order-id", id)
}

// PartyID constructs a field with the party id.
func PartyID(id string) zap.Field {
	return zap.String("party", id)
}

// Period constructs a field with the settlement period start.
func Period(start time.Time) zap.Field {
	return zap.String("period", start.Format("2006-01-02"))
}

// Stringer constructs a field with the given key and the output of the value's String method.
func Stringer(key string, val interface{ String() string }) zap.Field {
	return zap.Stringer(key, val)
}
