package provider

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/devopsext/metrics/common"
	"github.com/devopsext/utils"
	telemetry "github.com/newrelic/newrelic-telemetry-sdk-go/telemetry"
)

type NewRelicOptions struct {
	ApiKey      string
	ServiceName string
	Environment string
	Version     string
	Attributes  string
	Debug       bool
}

type NewRelicReporterOptions struct {
	NewRelicOptions
	Endpoint string
	Prefix   string
	Interval time.Duration
}

// NewRelicReporter periodically walks registry snapshots and records them
// through a telemetry harvester. Counters go out as deltas, distributions
// as summaries.
type NewRelicReporter struct {
	options   NewRelicReporterOptions
	logger    common.Logger
	harvester *telemetry.Harvester
	registry  *common.Registry
	lock      sync.Mutex
	last      map[string]int64
	done      chan struct{}
}

func (nr *NewRelicReporter) buildIdent(name common.Name, suffixes ...string) string {

	var names []string

	if !utils.IsEmpty(nr.options.Prefix) {
		names = append(names, nr.options.Prefix)
	}

	names = append(names, name.String())
	names = append(names, suffixes...)
	return strings.Join(names, ".")
}

func (nr *NewRelicReporter) count(ident string, count int64) {

	nr.lock.Lock()
	delta := count - nr.last[ident]
	nr.last[ident] = count
	nr.lock.Unlock()

	nr.harvester.RecordMetric(telemetry.Count{
		Timestamp: time.Now(),
		Name:      ident,
		Value:     float64(delta),
		Interval:  nr.options.Interval,
	})
}

func (nr *NewRelicReporter) gauge(ident string, value float64) {

	nr.harvester.RecordMetric(telemetry.Gauge{
		Timestamp: time.Now(),
		Name:      ident,
		Value:     value,
	})
}

func (nr *NewRelicReporter) summary(ident string, count int64, sum, min, max float64) {

	nr.harvester.RecordMetric(telemetry.Summary{
		Timestamp: time.Now(),
		Name:      ident,
		Count:     float64(count),
		Sum:       sum,
		Min:       min,
		Max:       max,
		Interval:  nr.options.Interval,
	})
}

// Report records one snapshot of the registry.
func (nr *NewRelicReporter) Report() {

	nr.registry.Gauges().Each(func(name common.Name, gauge common.Gauge) {
		nr.gauge(nr.buildIdent(name), gauge.Value())
	})

	nr.registry.Counters().Each(func(name common.Name, counter common.Counter) {
		nr.count(nr.buildIdent(name), counter.Count())
	})

	nr.registry.Histograms().Each(func(name common.Name, histogram common.Histogram) {
		nr.summary(nr.buildIdent(name), histogram.Count(),
			float64(histogram.Sum()), float64(histogram.Min()), float64(histogram.Max()))
	})

	nr.registry.Meters().Each(func(name common.Name, meter common.Meter) {
		nr.count(nr.buildIdent(name, "count"), meter.Count())
		nr.gauge(nr.buildIdent(name, "rate"), meter.MeanRate())
	})

	nr.registry.Timers().Each(func(name common.Name, timer common.Timer) {
		nr.summary(nr.buildIdent(name), timer.Count(),
			float64(timer.Count())*timer.Mean().Seconds(), timer.Min().Seconds(), timer.Max().Seconds())
		nr.gauge(nr.buildIdent(name, "rate"), timer.MeanRate())
	})
}

func (nr *NewRelicReporter) Start() {

	go func() {

		ticker := time.NewTicker(nr.options.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				nr.Report()
			case <-nr.done:
				return
			}
		}
	}()
}

func (nr *NewRelicReporter) Stop() {

	close(nr.done)
	nr.Report()

	if nr.harvester != nil {
		nr.harvester.HarvestNow(context.Background())
	}
}

func NewNewRelicReporter(options NewRelicReporterOptions, logger common.Logger, stdout *Stdout, registry *common.Registry) *NewRelicReporter {

	if logger == nil {
		logger = stdout
	}

	if utils.IsEmpty(options.Endpoint) {
		stdout.Debug("NewRelic reporter is disabled.")
		return nil
	}

	if options.Interval <= 0 {
		options.Interval = 10 * time.Second
	}

	attributes := make(map[string]interface{})
	for k, v := range common.GetKeyValues(options.Attributes) {
		attributes[k] = v
	}
	if !utils.IsEmpty(options.ServiceName) {
		attributes["service.name"] = options.ServiceName
	}
	if !utils.IsEmpty(options.Environment) {
		attributes["environment"] = options.Environment
	}

	var cfgs []func(*telemetry.Config)
	cfgs = append(cfgs,
		telemetry.ConfigAPIKey(options.ApiKey),
		telemetry.ConfigMetricsURLOverride(options.Endpoint),
		telemetry.ConfigCommonAttributes(attributes),
	)

	if options.Debug {
		cfgs = append(cfgs,
			telemetry.ConfigBasicErrorLogger(stdout.log.Writer()),
			telemetry.ConfigBasicDebugLogger(stdout.log.Writer()),
		)
	}

	harvester, err := telemetry.NewHarvester(cfgs...)
	if err != nil {
		stdout.Error(err)
		return nil
	}

	logger.Info("NewRelic reporter is up...")

	return &NewRelicReporter{
		options:   options,
		logger:    logger,
		harvester: harvester,
		registry:  registry,
		last:      make(map[string]int64),
		done:      make(chan struct{}),
	}
}
