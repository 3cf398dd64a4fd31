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
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/logging"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	lvlstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	marketPrefix     = []byte("market/")
	orderPrefix      = []byte("order/")
	tradePrefix      = []byte("trade/")
	checkpointPrefix = []byte("checkpoint/")
	tradeSeqKey      = []byte("meta/trade-seq")
)

// recentPrices is the cached tail of the trade prices of a market. all is set
// when the tail holds every trade of the market.
type recentPrices struct {
	points []types.PricePoint
	all    bool
}

// Store persists markets, resting orders and trades in leveldb.
type Store struct {
	Config
	log *logging.Logger
	db  *leveldb.DB

	mu       sync.Mutex
	tradeSeq uint64
	prices   *lru.Cache[string, *recentPrices]
}

// New opens the store described by the configuration.
func New(log *logging.Logger, cfg Config) (*Store, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	var (
		db  *leveldb.DB
		err error
	)
	if cfg.InMemory {
		db, err = leveldb.Open(lvlstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(cfg.Path, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, "couldn't open leveldb store")
	}

	size := cfg.PriceCacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, *recentPrices](size)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		Config: cfg,
		log:    log,
		db:     db,
		prices: cache,
	}
	if s.tradeSeq, err = s.loadTradeSeq(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ReloadConf(cfg Config) {
	s.log.Info("reloading configuration")
	if s.log.GetLevel() != cfg.Level.Get() {
		s.log.Info("updating log level",
			logging.String("old", s.log.GetLevel().String()),
			logging.String("new", cfg.Level.String()),
		)
		s.log.SetLevel(cfg.Level.Get())
	}

	s.mu.Lock()
	s.Config.PriceCacheDepth = cfg.PriceCacheDepth
	s.mu.Unlock()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadTradeSeq() (uint64, error) {
	b, err := s.db.Get(tradeSeqKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "couldn't read the trade sequence")
	}
	if len(b) != 8 {
		return 0, errors.Errorf("corrupted trade sequence of %d bytes", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

func key(prefix []byte, parts ...string) []byte {
	var buf bytes.Buffer
	buf.Write(prefix)
	for i, p := range parts {
		if i > 0 {
			buf.WriteByte('/')
		}
		buf.WriteString(url.PathEscape(p))
	}
	return buf.Bytes()
}

// marketScope returns the prefix of every key of a market under prefix.
func marketScope(prefix []byte, marketID string) []byte {
	return key(prefix, marketID, "")
}

func (s *Store) put(k []byte, v interface{}) error {
	buf, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "couldn't marshal %s", k)
	}
	return s.db.Put(k, buf, &opt.WriteOptions{})
}

func (s *Store) SaveMarket(m *types.Market) error {
	return s.put(key(marketPrefix, m.ID), m)
}

// DeleteMarket removes the market with its orders and trades.
func (s *Store) DeleteMarket(marketID string) error {
	batch := new(leveldb.Batch)
	batch.Delete(key(marketPrefix, marketID))
	for _, prefix := range [][]byte{marketScope(orderPrefix, marketID), marketScope(tradePrefix, marketID)} {
		iter := s.db.NewIterator(util.BytesPrefix(prefix), nil)
		for iter.Next() {
			batch.Delete(append([]byte{}, iter.Key()...))
		}
		iter.Release()
		if err := iter.Error(); err != nil {
			return errors.Wrapf(err, "couldn't list the keys of market %s", marketID)
		}
	}
	if err := s.db.Write(batch, nil); err != nil {
		return errors.Wrapf(err, "couldn't delete market %s", marketID)
	}
	s.prices.Remove(marketID)
	s.log.Debug("market deleted", logging.MarketID(marketID), logging.Int("keys", batch.Len()))
	return nil
}

func (s *Store) LoadMarkets() ([]*types.Market, error) {
	iter := s.db.NewIterator(util.BytesPrefix(marketPrefix), nil)
	defer iter.Release()

	mkts := []*types.Market{}
	for iter.Next() {
		mkt := &types.Market{}
		if err := json.Unmarshal(iter.Value(), mkt); err != nil {
			return nil, errors.Wrapf(err, "couldn't unmarshal %s", iter.Key())
		}
		mkts = append(mkts, mkt)
	}
	return mkts, iter.Error()
}

func (s *Store) SaveOrder(o *types.Order) error {
	return s.put(key(orderPrefix, o.MarketID, o.ID), o)
}

func (s *Store) DeleteOrder(marketID, orderID string) error {
	return s.db.Delete(key(orderPrefix, marketID, orderID), &opt.WriteOptions{})
}

// LoadOrders returns the resting orders of a market in time priority.
func (s *Store) LoadOrders(marketID string) ([]*types.Order, error) {
	iter := s.db.NewIterator(util.BytesPrefix(marketScope(orderPrefix, marketID)), nil)
	defer iter.Release()

	orders := []*types.Order{}
	for iter.Next() {
		o := &types.Order{}
		if err := json.Unmarshal(iter.Value(), o); err != nil {
			return nil, errors.Wrapf(err, "couldn't unmarshal %s", iter.Key())
		}
		orders = append(orders, o)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	sortOrders(orders)
	return orders, nil
}

// SaveTrade appends the trade to the trade log of its market.
func (s *Store) SaveTrade(t *types.Trade) error {
	buf, err := json.Marshal(t)
	if err != nil {
		return errors.Wrapf(err, "couldn't marshal trade %s", t.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.tradeSeq + 1
	var seqBuf [8]byte
	binary.BigEndian.PutUint64(seqBuf[:], seq)

	batch := new(leveldb.Batch)
	batch.Put(key(tradePrefix, t.MarketID, fmt.Sprintf("%020d", seq)), buf)
	batch.Put(tradeSeqKey, seqBuf[:])
	if err := s.db.Write(batch, nil); err != nil {
		return errors.Wrapf(err, "couldn't save trade %s", t.ID)
	}
	s.tradeSeq = seq

	if cached, ok := s.prices.Get(t.MarketID); ok {
		cached.points = append(cached.points, types.PricePoint{At: t.Timestamp, Price: t.Price, Size: t.Size})
		if depth := s.PriceCacheDepth; depth > 0 && len(cached.points) > depth {
			cached.points = append(cached.points[:0:0], cached.points[len(cached.points)-depth:]...)
			cached.all = false
		}
	}
	return nil
}

// RecentPrices returns up to the n last trade prices of the market, oldest first.
func (s *Store) RecentPrices(marketID string, n int) ([]types.PricePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.prices.Get(marketID); ok && (cached.all || (n > 0 && len(cached.points) >= n)) {
		return tail(cached.points, n), nil
	}

	points, err := s.loadPrices(marketID, n)
	if err != nil {
		return nil, err
	}
	if n <= s.PriceCacheDepth || s.PriceCacheDepth <= 0 {
		s.prices.Add(marketID, &recentPrices{
			points: append([]types.PricePoint{}, points...),
			all:    n <= 0 || len(points) < n,
		})
	}
	return points, nil
}

func (s *Store) loadPrices(marketID string, n int) ([]types.PricePoint, error) {
	iter := s.db.NewIterator(util.BytesPrefix(marketScope(tradePrefix, marketID)), nil)
	defer iter.Release()

	points := []types.PricePoint{}
	for ok := iter.Last(); ok && (n <= 0 || len(points) < n); ok = iter.Prev() {
		t := types.Trade{}
		if err := json.Unmarshal(iter.Value(), &t); err != nil {
			return nil, errors.Wrapf(err, "couldn't unmarshal %s", iter.Key())
		}
		points = append(points, types.PricePoint{At: t.Timestamp, Price: t.Price, Size: t.Size})
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	// newest first to oldest first
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

func sortOrders(orders []*types.Order) {
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Before(orders[j]) })
}

func tail(points []types.PricePoint, n int) []types.PricePoint {
	if n > 0 && len(points) > n {
		points = points[len(points)-n:]
	}
	return append([]types.PricePoint{}, points...)
}
