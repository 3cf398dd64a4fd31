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

package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"code.vegaprotocol.io/chanex/logging"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

const namespace = "chanex"

// ErrInstrumentNotSupported signals the specified instrument is not yet supported.
var ErrInstrumentNotSupported = errors.New("instrument type unsupported")

var (
	setupOnce sync.Once
	setupErr  error
	registry  *prometheus.Registry

	engineTime         *prometheus.CounterVec
	orderCounter       *prometheus.CounterVec
	restingOrdersGauge *prometheus.GaugeVec
	tradeCounter       *prometheus.CounterVec
	tradedVolume       *prometheus.CounterVec
	fairPriceGauge     *prometheus.GaugeVec
	requoteCounter     *prometheus.CounterVec
	settlementCounter  *prometheus.CounterVec
	dividendsPaid      *prometheus.CounterVec
	settlementDuration *prometheus.HistogramVec
)

// abstract prometheus types.
type instrument int

// combine all possible prometheus options + way to differentiate between regular or vector type.
type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	counterV   *prometheus.CounterVec
	histogramV *prometheus.HistogramVec
}

// InstrumentOption - vararg for instrument options setting.
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names.
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument.
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Buckets - specific to histogram type.
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// addInstrument configures and registers a new vector instrument.
func addInstrument(reg *prometheus.Registry, t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Namespace: namespace,
			Name:      name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		ret.gaugeV = prometheus.NewGaugeVec(prometheus.GaugeOpts(opt.opts), opt.vectors)
		col = ret.gaugeV
	case Counter:
		ret.counterV = prometheus.NewCounterVec(prometheus.CounterOpts(opt.opts), opt.vectors)
		col = ret.counterV
	case Histogram:
		ret.histogramV = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opt.opts.Namespace,
			Name:      opt.opts.Name,
			Help:      opt.opts.Help,
			Buckets:   opt.buckets,
		}, opt.vectors)
		col = ret.histogramV
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := reg.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Setup creates the instruments, it is safe to call more than once.
func Setup() error {
	setupOnce.Do(func() {
		setupErr = setupMetrics()
	})
	return setupErr
}

// Start sets up the instruments and, when enabled, serves them until ctx is done.
func Start(ctx context.Context, log *logging.Logger, conf Config) error {
	log = log.Named(namedLogger)
	log.SetLevel(conf.Level.Get())

	if err := Setup(); err != nil {
		return errors.Wrap(err, "could not set up metrics")
	}
	if !conf.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(conf.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", logging.Int("port", conf.Port), logging.String("path", conf.Path))
	return nil
}

// Registry returns the registry the instruments are registered with, nil before Setup.
func Registry() *prometheus.Registry {
	return registry
}

func setupMetrics() error {
	reg := prometheus.NewRegistry()

	h, err := addInstrument(reg, Counter, "engine_seconds_total",
		Vectors("market", "engine", "fn"),
		Help("Time spent in the engines"),
	)
	if err != nil {
		return err
	}
	engineTime = h.counterV

	if h, err = addInstrument(reg, Counter, "orders_total",
		Vectors("market", "valid"),
		Help("Number of orders processed"),
	); err != nil {
		return err
	}
	orderCounter = h.counterV

	if h, err = addInstrument(reg, Gauge, "resting_orders",
		Vectors("market"),
		Help("Number of orders resting on the book"),
	); err != nil {
		return err
	}
	restingOrdersGauge = h.gaugeV

	if h, err = addInstrument(reg, Counter, "trades_total",
		Vectors("market"),
		Help("Number of trades"),
	); err != nil {
		return err
	}
	tradeCounter = h.counterV

	if h, err = addInstrument(reg, Counter, "traded_volume_total",
		Vectors("market"),
		Help("Number of shares traded"),
	); err != nil {
		return err
	}
	tradedVolume = h.counterV

	if h, err = addInstrument(reg, Gauge, "fair_price",
		Vectors("market"),
		Help("Current fair price of the market"),
	); err != nil {
		return err
	}
	fairPriceGauge = h.gaugeV

	if h, err = addInstrument(reg, Counter, "requotes_total",
		Vectors("market", "status"),
		Help("Market maker quote refreshes"),
	); err != nil {
		return err
	}
	requoteCounter = h.counterV

	if h, err = addInstrument(reg, Counter, "settlements_total",
		Vectors("market", "status"),
		Help("Weekly settlements attempted"),
	); err != nil {
		return err
	}
	settlementCounter = h.counterV

	if h, err = addInstrument(reg, Counter, "dividends_paid_total",
		Vectors("market"),
		Help("Cash distributed as dividends"),
	); err != nil {
		return err
	}
	dividendsPaid = h.counterV

	if h, err = addInstrument(reg, Histogram, "settlement_seconds",
		Vectors("market"),
		Buckets(prometheus.ExponentialBuckets(0.001, 4, 8)),
		Help("Duration of a market settlement"),
	); err != nil {
		return err
	}
	settlementDuration = h.histogramV

	registry = reg
	return nil
}

// TimeCounter holds the start time of a measured engine call.
type TimeCounter struct {
	start       time.Time
	labelValues []string
}

// NewTimeCounter starts measuring an engine call, labels are market, engine and function.
func NewTimeCounter(labelValues ...string) *TimeCounter {
	return &TimeCounter{
		start:       time.Now(),
		labelValues: labelValues,
	}
}

// EngineTimeCounterAdd adds the time elapsed since the counter was created.
func (tc *TimeCounter) EngineTimeCounterAdd() {
	if engineTime == nil {
		return
	}
	engineTime.WithLabelValues(tc.labelValues...).Add(time.Since(tc.start).Seconds())
}

// OrderCounterInc increments the order counter.
func OrderCounterInc(labelValues ...string) {
	if orderCounter == nil {
		return
	}
	orderCounter.WithLabelValues(labelValues...).Inc()
}

// RestingOrdersGaugeSet updates the number of orders on the book of a market.
func RestingOrdersGaugeSet(n int64, market string) {
	if restingOrdersGauge == nil {
		return
	}
	restingOrdersGauge.WithLabelValues(market).Set(float64(n))
}

// TradesAdd accounts for trades and their volume.
func TradesAdd(n int, volume uint64, market string) {
	if tradeCounter == nil || tradedVolume == nil {
		return
	}
	tradeCounter.WithLabelValues(market).Add(float64(n))
	tradedVolume.WithLabelValues(market).Add(float64(volume))
}

// FairPriceGaugeSet updates the fair price of a market.
func FairPriceGaugeSet(v float64, market string) {
	if fairPriceGauge == nil {
		return
	}
	fairPriceGauge.WithLabelValues(market).Set(v)
}

// RequoteCounterInc counts market maker refreshes by status.
func RequoteCounterInc(labelValues ...string) {
	if requoteCounter == nil {
		return
	}
	requoteCounter.WithLabelValues(labelValues...).Inc()
}

// SettlementCounterInc counts settlements by status.
func SettlementCounterInc(labelValues ...string) {
	if settlementCounter == nil {
		return
	}
	settlementCounter.WithLabelValues(labelValues...).Inc()
}

// DividendsPaidAdd accounts for the dividends paid in a market.
func DividendsPaidAdd(v float64, market string) {
	if dividendsPaid == nil {
		return
	}
	dividendsPaid.WithLabelValues(market).Add(v)
}

// ObserveSettlement records how long the settlement of a market took.
func ObserveSettlement(start time.Time, market string) {
	if settlementDuration == nil {
		return
	}
	settlementDuration.WithLabelValues(market).Observe(time.Since(start).Seconds())
}

// ForgetMarket drops the series of a delisted market.
func ForgetMarket(market string) {
	if registry == nil {
		return
	}
	labels := prometheus.Labels{"market": market}
	for _, v := range []interface{ DeletePartialMatch(prometheus.Labels) int }{
		engineTime, orderCounter, restingOrdersGauge, tradeCounter, tradedVolume,
		fairPriceGauge, requoteCounter, settlementCounter, dividendsPaid, settlementDuration,
	} {
		v.DeletePartialMatch(labels)
	}
}
