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

import "time"

// PeriodLength is the length of a settlement period.
const PeriodLength = 7 * 24 * time.Hour

// PeriodStart returns the start of the settlement period containing t,
// periods start on Monday 00:00 UTC.
func PeriodStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	// time.Sunday is 0
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// NextPeriod returns the start of the period following the one starting at start.
func NextPeriod(start time.Time) time.Time {
	return start.AddDate(0, 0, 7)
}

// DueSettlementPeriods returns, oldest first, the starts of every period that
// ended at or before now and comes after the watermark. A zero watermark means
// nothing was ever settled and the first period is the one containing listedAt.
func DueSettlementPeriods(listedAt, watermark, now time.Time) []time.Time {
	var next time.Time
	if watermark.IsZero() {
		next = PeriodStart(listedAt)
	} else {
		next = NextPeriod(PeriodStart(watermark))
	}

	var out []time.Time
	for !NextPeriod(next).After(now) {
		out = append(out, next)
		next = NextPeriod(next)
	}
	return out
}
