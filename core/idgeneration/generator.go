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

package idgeneration

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator hands out order and trade ids. A seeded generator is
// deterministic so replays and simulations produce the same ids.
type IDGenerator struct {
	mu     sync.Mutex
	seeded bool
	next   uuid.UUID
}

// New returns a deterministic generator derived from rootID.
func New(rootID string) *IDGenerator { //revive:disable:unexported-return
	return &IDGenerator{
		seeded: true,
		next:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(rootID)),
	}
}

// NewRandom returns a generator of random (version 4) ids.
func NewRandom() *IDGenerator {
	return &IDGenerator{}
}

func (i *IDGenerator) NextID() string {
	if i == nil {
		panic("id generator instance is not initialised")
	}
	if !i.seeded {
		return uuid.NewString()
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	nextID := i.next.String()
	i.next = uuid.NewSHA1(uuid.NameSpaceOID, i.next[:])
	return nextID
}
