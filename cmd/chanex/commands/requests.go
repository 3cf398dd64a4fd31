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

package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"code.vegaprotocol.io/chanex/core/revenue"
	"code.vegaprotocol.io/chanex/core/types"
	"code.vegaprotocol.io/chanex/libs/num"
	"code.vegaprotocol.io/chanex/logging"

	"github.com/pkg/errors"
)

var errUnknownRequest = errors.Wrap(types.ErrInvalidArgument, "unknown request type")

// request is one line of the request stream.
type request struct {
	Type    string `json:"type"`
	Market  string `json:"market,omitempty"`
	Name    string `json:"name,omitempty"`
	Party   string `json:"party,omitempty"`
	Bot     bool   `json:"bot,omitempty"`
	Text    string `json:"text,omitempty"`
	Side    string `json:"side,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Price   string `json:"price,omitempty"`
	Size    uint64 `json:"size,omitempty"`
	Amount  string `json:"amount,omitempty"`
	OrderID string `json:"order,omitempty"`
	Levels  int    `json:"levels,omitempty"`
}

type response struct {
	OK     bool        `json:"ok"`
	Error  string      `json:"error,omitempty"`
	Result interface{} `json:"result,omitempty"`
}

type depth struct {
	Bids types.PriceLevels `json:"bids"`
	Asks types.PriceLevels `json:"asks"`
}

// serve answers the requests read from r, one JSON document per line,
// until r is exhausted or ctx is done.
func (ex *exchange) serve(ctx context.Context, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	enc := json.NewEncoder(w)
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		if len(line) <= 0 {
			continue
		}

		var (
			req  request
			resp response
		)
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			resp.Error = errors.Wrap(err, "invalid request").Error()
		} else if res, err := ex.handle(ctx, req); err != nil {
			ex.log.Debug("request rejected", logging.String("type", req.Type), logging.Error(err))
			resp.Error = err.Error()
		} else {
			resp.OK, resp.Result = true, res
		}
		if err := enc.Encode(resp); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (ex *exchange) handle(ctx context.Context, req request) (interface{}, error) {
	switch req.Type {
	case "deposit":
		amount, err := parseDecimal(req.Amount)
		if err != nil {
			return nil, err
		}
		party, err := req.party()
		if err != nil {
			return nil, err
		}
		return nil, ex.ledger.Deposit(ctx, party, amount)
	case "list":
		desc := req.Market
		if len(req.Name) > 0 {
			desc += ":" + req.Name
		}
		if err := ex.listMarket(ctx, desc); err != nil {
			return nil, err
		}
		return ex.engine.MarketInfo(req.Market)
	case "delist":
		return nil, ex.delistMarket(ctx, req.Market)
	case "order":
		sub, err := req.submission()
		if err != nil {
			return nil, err
		}
		conf, err := ex.engine.SubmitOrder(ctx, sub)
		if err != nil {
			return nil, err
		}
		return conf.Fills(), nil
	case "cancel":
		party, err := req.party()
		if err != nil {
			return nil, err
		}
		return ex.engine.CancelOrder(ctx, req.Market, req.OrderID, party)
	case "message":
		return ex.feed.OnMessage(ctx, revenue.Message{
			MarketID: req.Market,
			Author:   req.Party,
			Bot:      req.Bot,
			Text:     req.Text,
			At:       ex.clk.Now(),
		})
	case "info":
		return ex.engine.MarketInfo(req.Market)
	case "depth":
		bids, asks, err := ex.engine.Depth(req.Market, req.Levels)
		if err != nil {
			return nil, err
		}
		return depth{Bids: bids, Asks: asks}, nil
	case "orders":
		party, err := req.party()
		if err != nil {
			return nil, err
		}
		return ex.engine.OpenOrders(req.Market, party)
	case "portfolio":
		party, err := req.party()
		if err != nil {
			return nil, err
		}
		return ex.engine.Portfolio(ctx, party), nil
	case "markets":
		return ex.engine.MarketIDs(), nil
	default:
		return nil, errors.Wrapf(errUnknownRequest, "%q", req.Type)
	}
}

// party returns the trader named by the request, the market maker can't be impersonated.
func (req request) party() (types.Participant, error) {
	p := types.Trader(req.Party)
	if err := p.Validate(); err != nil {
		return types.Participant{}, errors.Wrap(err, "missing party")
	}
	return p, nil
}

func (req request) submission() (types.OrderSubmission, error) {
	party, err := req.party()
	if err != nil {
		return types.OrderSubmission{}, err
	}
	sub := types.OrderSubmission{
		MarketID: req.Market,
		Party:    party,
		Size:     req.Size,
	}
	switch strings.ToLower(req.Side) {
	case "buy":
		sub.Side = types.SideBuy
	case "sell":
		sub.Side = types.SideSell
	default:
		return sub, types.ErrInvalidSide
	}
	switch strings.ToLower(req.Kind) {
	case "", "limit":
		sub.Type = types.OrderTypeLimit
		price, err := parseDecimal(req.Price)
		if err != nil {
			return sub, err
		}
		sub.Price = price
	case "market":
		sub.Type = types.OrderTypeMarket
	default:
		return sub, errors.Wrapf(types.ErrInvalidArgument, "unknown order kind %q", req.Kind)
	}
	return sub, nil
}

func parseDecimal(s string) (num.Decimal, error) {
	d, err := num.DecimalFromString(s)
	if err != nil {
		return num.DecimalZero(), errors.Wrapf(types.ErrInvalidArgument, "invalid number %q", s)
	}
	return d, nil
}
