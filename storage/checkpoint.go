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

package storage

import (
	"code.vegaprotocol.io/chanex/logging"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// State is a component whose whole state can be saved and loaded back.
type State interface {
	Name() string
	Checkpoint() ([]byte, error)
	Load(data []byte) error
}

// SaveCheckpoint stores the current state of every component in one write.
func (s *Store) SaveCheckpoint(states ...State) error {
	batch := new(leveldb.Batch)
	for _, st := range states {
		data, err := st.Checkpoint()
		if err != nil {
			return errors.Wrapf(err, "couldn't checkpoint %s", st.Name())
		}
		batch.Put(key(checkpointPrefix, st.Name()), data)
	}
	if err := s.db.Write(batch, &opt.WriteOptions{Sync: !bool(s.InMemory)}); err != nil {
		return errors.Wrap(err, "couldn't save checkpoint")
	}
	return nil
}

// LoadCheckpoint loads the last saved state of every component. A component
// that was never saved is left untouched.
func (s *Store) LoadCheckpoint(states ...State) error {
	for _, st := range states {
		data, err := s.db.Get(key(checkpointPrefix, st.Name()), nil)
		if errors.Is(err, leveldb.ErrNotFound) {
			s.log.Info("no checkpoint found", logging.String("state", st.Name()))
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "couldn't read checkpoint of %s", st.Name())
		}
		if err := st.Load(data); err != nil {
			return errors.Wrapf(err, "couldn't load checkpoint of %s", st.Name())
		}
	}
	return nil
}
