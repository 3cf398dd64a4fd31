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

package ledger

import (
	"context"
	"sort"
	"sync"

	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/pkg/errors"
)

var (
	// ErrMarketNotOpen is returned for operations on a market the ledger does not know.
	ErrMarketNotOpen = errors.New("market is not open in the ledger")
	// ErrInvalidAmount is returned for negative amounts.
	ErrInvalidAmount = errors.Wrap(types.ErrInvalidArgument, "amount must not be negative")
)

type account struct {
	cash     num.Decimal
	reserved num.Decimal
}

type position struct {
	free     uint64
	reserved uint64
	avgCost  num.Decimal
}

func (p *position) total() uint64 {
	return p.free + p.reserved
}

// Ledger is an in memory ledger. Trader cash is shared across markets, the
// market maker of each market has its own account.
type Ledger struct {
	log *logging.Logger
	cfg Config

	mu       sync.Mutex
	accounts map[string]*account
	// market id -> participant text -> position
	positions map[string]map[string]*position
	parties   map[string]types.Participant
}

// New instantiates an empty ledger.
func New(log *logging.Logger, cfg Config) *Ledger {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())
	return &Ledger{
		log:       log,
		cfg:       cfg,
		accounts:  map[string]*account{},
		positions: map[string]map[string]*position{},
		parties:   map[string]types.Participant{},
	}
}

func (l *Ledger) ReloadConf(cfg Config) {
	l.log.Info("reloading configuration")
	if l.log.GetLevel() != cfg.Level.Get() {
		l.log.Info("updating log level",
			logging.String("old", l.log.GetLevelString()),
			logging.String("new", cfg.Level.String()),
		)
		l.log.SetLevel(cfg.Level.Get())
	}
	l.cfg = cfg
}

func partyKey(party types.Participant) string {
	b, _ := party.MarshalText()
	return string(b)
}

func accountKey(party types.Participant, marketID string) string {
	if party.IsMarketMaker() {
		return mmAccountPrefix + marketID
	}
	return partyKey(party)
}

func (l *Ledger) getAccount(party types.Participant, marketID string) *account {
	k := accountKey(party, marketID)
	acc, ok := l.accounts[k]
	if !ok {
		acc = &account{cash: num.DecimalZero(), reserved: num.DecimalZero()}
		l.accounts[k] = acc
	}
	return acc
}

func (l *Ledger) getPosition(party types.Participant, marketID string) (*position, error) {
	market, ok := l.positions[marketID]
	if !ok {
		return nil, ErrMarketNotOpen
	}
	k := partyKey(party)
	pos, ok := market[k]
	if !ok {
		pos = &position{avgCost: num.DecimalZero()}
		market[k] = pos
		l.parties[k] = party
	}
	return pos, nil
}

func validParty(party types.Participant) error {
	return party.Validate()
}

// OpenMarket registers a market and seeds its market maker account.
func (l *Ledger) OpenMarket(_ context.Context, marketID string, cash num.Decimal, shares uint64) error {
	if cash.IsNegative() {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.positions[marketID]; ok {
		return errors.Wrapf(types.ErrMarketAlreadyListed, "market %s", marketID)
	}
	l.positions[marketID] = map[string]*position{}
	mm := types.MarketMaker()
	acc := l.getAccount(mm, marketID)
	acc.cash = cash
	pos, _ := l.getPosition(mm, marketID)
	pos.free = shares

	l.log.Debug("market opened",
		logging.MarketID(marketID),
		logging.Decimal("mm-cash", cash),
		logging.Uint64("mm-shares", shares),
	)
	return nil
}

// CloseMarket drops every position of the market and the market maker account.
// Reserved cash of traders must have been refunded beforehand.
func (l *Ledger) CloseMarket(_ context.Context, marketID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.positions[marketID]; !ok {
		return ErrMarketNotOpen
	}
	delete(l.positions, marketID)
	delete(l.accounts, accountKey(types.MarketMaker(), marketID))
	l.log.Debug("market closed", logging.MarketID(marketID))
	return nil
}

// Deposit credits free cash to a trader.
func (l *Ledger) Deposit(_ context.Context, party types.Participant, amount num.Decimal) error {
	if err := validParty(party); err != nil {
		return err
	}
	if party.IsMarketMaker() {
		return errors.Wrap(types.ErrInvalidParty, "market maker accounts are seeded on listing")
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	acc := l.getAccount(party, "")
	acc.cash = acc.cash.Add(amount)
	return nil
}

// ReserveCash moves amount from the free cash of the party to escrow.
func (l *Ledger) ReserveCash(_ context.Context, party types.Participant, marketID string, amount num.Decimal) error {
	if err := validParty(party); err != nil {
		return err
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.positions[marketID]; !ok {
		return ErrMarketNotOpen
	}
	acc := l.getAccount(party, marketID)
	if acc.cash.LessThan(amount) {
		return errors.Wrapf(types.ErrInsufficientFunds, "need %s, have %s", amount, acc.cash)
	}
	acc.cash = acc.cash.Sub(amount)
	acc.reserved = acc.reserved.Add(amount)
	return nil
}

// ReserveShares moves qty shares of the market from the free holding of the party to escrow.
func (l *Ledger) ReserveShares(_ context.Context, party types.Participant, marketID string, qty uint64) error {
	if err := validParty(party); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, err := l.getPosition(party, marketID)
	if err != nil {
		return err
	}
	if pos.free < qty {
		return errors.Wrapf(types.ErrInsufficientShares, "need %d, have %d", qty, pos.free)
	}
	pos.free -= qty
	pos.reserved += qty
	return nil
}

// SettleTrade delivers the shares escrowed by the seller to the buyer and the
// cash escrowed by the buyer to the seller. The buyer escrowed buyerReserved
// per share, anything above the trade price goes back to its free cash.
// Nothing is changed if any of the escrows is short.
func (l *Ledger) SettleTrade(_ context.Context, trade *types.Trade, buyerReserved num.Decimal) error {
	if trade.Size == 0 || !trade.Price.IsPositive() {
		return errors.Wrap(types.ErrInvalidArgument, "empty trade")
	}
	if buyerReserved.LessThan(trade.Price) {
		return errors.Wrapf(types.ErrInvalidArgument, "reserved price %s below trade price %s", buyerReserved, trade.Price)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.positions[trade.MarketID]; !ok {
		return ErrMarketNotOpen
	}

	qty := num.DecimalFromUint64(trade.Size)
	escrowed := buyerReserved.Mul(qty)
	notional := trade.Notional()

	buyerAcc := l.getAccount(trade.Buyer, trade.MarketID)
	sellerAcc := l.getAccount(trade.Seller, trade.MarketID)
	buyerPos, _ := l.getPosition(trade.Buyer, trade.MarketID)
	sellerPos, _ := l.getPosition(trade.Seller, trade.MarketID)

	if buyerAcc.reserved.LessThan(escrowed) {
		return errors.Wrapf(types.ErrInsufficientFunds, "buyer escrow %s below %s", buyerAcc.reserved, escrowed)
	}
	if sellerPos.reserved < trade.Size {
		return errors.Wrapf(types.ErrInsufficientShares, "seller escrow %d below %d", sellerPos.reserved, trade.Size)
	}

	buyerAcc.reserved = buyerAcc.reserved.Sub(escrowed)
	buyerAcc.cash = buyerAcc.cash.Add(escrowed.Sub(notional))
	sellerAcc.cash = sellerAcc.cash.Add(notional)

	sellerPos.reserved -= trade.Size
	held := num.DecimalFromUint64(buyerPos.total())
	buyerPos.avgCost = buyerPos.avgCost.Mul(held).Add(notional).Div(held.Add(qty))
	buyerPos.free += trade.Size
	if sellerPos.total() == 0 {
		sellerPos.avgCost = num.DecimalZero()
	}

	if l.log.IsDebug() {
		l.log.Debug("trade settled",
			logging.MarketID(trade.MarketID),
			logging.Stringer("buyer", trade.Buyer),
			logging.Stringer("seller", trade.Seller),
			logging.Decimal("price", trade.Price),
			logging.Uint64("size", trade.Size),
		)
	}
	return nil
}

// RefundCash returns escrowed cash to the free cash of the party.
func (l *Ledger) RefundCash(_ context.Context, party types.Participant, marketID string, amount num.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	acc := l.getAccount(party, marketID)
	if acc.reserved.LessThan(amount) {
		return errors.Wrapf(types.ErrInsufficientFunds, "escrow %s below refund %s", acc.reserved, amount)
	}
	acc.reserved = acc.reserved.Sub(amount)
	acc.cash = acc.cash.Add(amount)
	return nil
}

// RefundShares returns escrowed shares to the free holding of the party.
func (l *Ledger) RefundShares(_ context.Context, party types.Participant, marketID string, qty uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	pos, err := l.getPosition(party, marketID)
	if err != nil {
		return err
	}
	if pos.reserved < qty {
		return errors.Wrapf(types.ErrInsufficientShares, "escrow %d below refund %d", pos.reserved, qty)
	}
	pos.reserved -= qty
	pos.free += qty
	return nil
}

// PayDividend credits a dividend to the free cash of a trader.
func (l *Ledger) PayDividend(_ context.Context, party types.Participant, marketID string, amount num.Decimal) error {
	if !party.IsTrader() {
		return errors.Wrap(types.ErrInvalidParty, "dividends are paid to traders only")
	}
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.positions[marketID]; !ok {
		return ErrMarketNotOpen
	}
	acc := l.getAccount(party, marketID)
	acc.cash = acc.cash.Add(amount)
	return nil
}

// Holdings returns the unescrowed holdings of a market, sorted by party.
func (l *Ledger) Holdings(_ context.Context, marketID string) ([]types.Holding, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	market, ok := l.positions[marketID]
	if !ok {
		return nil, ErrMarketNotOpen
	}
	out := make([]types.Holding, 0, len(market))
	for k, pos := range market {
		if pos.free == 0 {
			continue
		}
		out = append(out, types.Holding{
			Party:    l.parties[k],
			MarketID: marketID,
			Quantity: pos.free,
			AvgCost:  pos.avgCost,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return partyKey(out[i].Party) < partyKey(out[j].Party)
	})
	return out, nil
}

// PartyHoldings returns every position of the party, escrowed shares included,
// sorted by market.
func (l *Ledger) PartyHoldings(_ context.Context, party types.Participant) []types.Holding {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := partyKey(party)
	out := []types.Holding{}
	for marketID, market := range l.positions {
		if pos, ok := market[k]; ok && pos.total() > 0 {
			out = append(out, types.Holding{
				Party:    party,
				MarketID: marketID,
				Quantity: pos.total(),
				AvgCost:  pos.avgCost,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MarketID < out[j].MarketID })
	return out
}

// Balance returns the free cash and free shares of the party in the market.
func (l *Ledger) Balance(_ context.Context, party types.Participant, marketID string) (types.Balance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bal := types.Balance{Cash: num.DecimalZero()}
	if acc, ok := l.accounts[accountKey(party, marketID)]; ok {
		bal.Cash = acc.cash
	}
	market, ok := l.positions[marketID]
	if !ok {
		return bal, ErrMarketNotOpen
	}
	if pos, ok := market[partyKey(party)]; ok {
		bal.Shares = pos.free
	}
	return bal, nil
}

// Reserved returns the escrowed cash and shares of the party in the market.
func (l *Ledger) Reserved(_ context.Context, party types.Participant, marketID string) types.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()

	bal := types.Balance{Cash: num.DecimalZero()}
	if acc, ok := l.accounts[accountKey(party, marketID)]; ok {
		bal.Cash = acc.reserved
	}
	if pos, ok := l.positions[marketID][partyKey(party)]; ok {
		bal.Shares = pos.reserved
	}
	return bal
}

// TotalCash returns all the cash held by the ledger, escrow included.
func (l *Ledger) TotalCash() num.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := num.DecimalZero()
	for _, acc := range l.accounts {
		total = total.Add(acc.cash).Add(acc.reserved)
	}
	return total
}

// TotalShares returns all the shares of the market held by the ledger, escrow included.
func (l *Ledger) TotalShares(marketID string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total uint64
	for _, pos := range l.positions[marketID] {
		total += pos.total()
	}
	return total
}
