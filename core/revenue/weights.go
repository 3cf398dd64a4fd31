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

package revenue

import "math"

const (
	shortLimit  = 100
	shortWeight = 1.2
	midLimit    = 500
	longLimit   = 2000
	decayRate   = 0.02
	tailWeight  = 0.01
)

// longWeights[i] is the cumulated weight of the characters from midLimit to
// midLimit+i, computed once.
var longWeights = func() []float64 {
	out := make([]float64, longLimit-midLimit+1)
	for i := midLimit; i < longLimit; i++ {
		w := tailWeight + (1-tailWeight)/(1+math.Exp(decayRate*float64(i-midLimit)))
		out[i-midLimit+1] = out[i-midLimit] + w
	}
	return out
}()

// WeightedChars returns the revenue units a user produced by writing total
// characters in a day. The first characters are worth more and long days
// bring diminishing returns.
func WeightedChars(total int) float64 {
	switch {
	case total <= 0:
		return 0
	case total <= shortLimit:
		return float64(total) * shortWeight
	case total <= midLimit:
		return shortLimit*shortWeight + float64(total-shortLimit)
	}

	base := shortLimit*shortWeight + float64(midLimit-shortLimit)
	extra := longWeights[min(total, longLimit)-midLimit]
	if total > longLimit {
		extra += float64(total-longLimit) * tailWeight
	}
	return base + extra
}
