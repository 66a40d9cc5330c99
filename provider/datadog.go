package provider

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/devopsext/metrics/common"
	"github.com/devopsext/utils"
)

type DataDogOptions struct {
	ServiceName string
	Environment string
	Version     string
	Tags        string
}

type DataDogReporterOptions struct {
	DataDogOptions
	AgentHost string
	AgentPort int
	Prefix    string
	Interval  time.Duration
}

// DataDogReporter periodically walks registry snapshots and pushes the
// values to a DataDog agent over statsd. Counters go out as deltas against
// the previously reported value, everything else as gauges.
type DataDogReporter struct {
	options  DataDogReporterOptions
	logger   common.Logger
	client   *statsd.Client
	registry *common.Registry
	lock     sync.Mutex
	last     map[string]int64
	done     chan struct{}
}

func (dd *DataDogReporter) getGlobalTags() []string {

	var tags []string

	for _, v := range strings.Split(dd.options.Tags, ",") {
		if !utils.IsEmpty(v) {
			tags = append(tags, strings.Replace(v, "=", ":", 1))
		}
	}

	if !utils.IsEmpty(dd.options.ServiceName) {
		tags = append(tags, fmt.Sprintf("dd.service:%s", dd.options.ServiceName))
	}
	if !utils.IsEmpty(dd.options.Version) {
		tags = append(tags, fmt.Sprintf("dd.version:%s", dd.options.Version))
	}
	if !utils.IsEmpty(dd.options.Environment) {
		tags = append(tags, fmt.Sprintf("dd.env:%s", dd.options.Environment))
	}
	return tags
}

func (dd *DataDogReporter) buildIdent(name common.Name, suffixes ...string) string {

	var names []string

	if !utils.IsEmpty(dd.options.Prefix) {
		names = append(names, dd.options.Prefix)
	}

	names = append(names, name.String())
	names = append(names, suffixes...)
	return strings.Join(names, ".")
}

func (dd *DataDogReporter) delta(ident string, count int64) int64 {

	dd.lock.Lock()
	defer dd.lock.Unlock()

	d := count - dd.last[ident]
	dd.last[ident] = count
	return d
}

func (dd *DataDogReporter) count(ident string, count int64, tags []string) {

	if err := dd.client.Count(ident, dd.delta(ident, count), tags, 1); err != nil {
		dd.logger.Error(err)
	}
}

func (dd *DataDogReporter) gauge(ident string, value float64, tags []string) {

	if err := dd.client.Gauge(ident, value, tags, 1); err != nil {
		dd.logger.Error(err)
	}
}

// Report pushes one snapshot of the registry to the agent.
func (dd *DataDogReporter) Report() {

	tags := dd.getGlobalTags()

	dd.registry.Gauges().Each(func(name common.Name, gauge common.Gauge) {
		dd.gauge(dd.buildIdent(name), gauge.Value(), tags)
	})

	dd.registry.Counters().Each(func(name common.Name, counter common.Counter) {
		dd.count(dd.buildIdent(name), counter.Count(), tags)
	})

	dd.registry.Histograms().Each(func(name common.Name, histogram common.Histogram) {
		dd.count(dd.buildIdent(name, "count"), histogram.Count(), tags)
		dd.gauge(dd.buildIdent(name, "mean"), histogram.Mean(), tags)
		dd.gauge(dd.buildIdent(name, "min"), float64(histogram.Min()), tags)
		dd.gauge(dd.buildIdent(name, "max"), float64(histogram.Max()), tags)
	})

	dd.registry.Meters().Each(func(name common.Name, meter common.Meter) {
		dd.count(dd.buildIdent(name, "count"), meter.Count(), tags)
		dd.gauge(dd.buildIdent(name, "rate"), meter.MeanRate(), tags)
	})

	dd.registry.Timers().Each(func(name common.Name, timer common.Timer) {
		dd.count(dd.buildIdent(name, "count"), timer.Count(), tags)
		dd.gauge(dd.buildIdent(name, "rate"), timer.MeanRate(), tags)
		dd.gauge(dd.buildIdent(name, "mean_ms"), float64(timer.Mean().Milliseconds()), tags)
	})
}

func (dd *DataDogReporter) Start() {

	go func() {

		ticker := time.NewTicker(dd.options.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				dd.Report()
			case <-dd.done:
				return
			}
		}
	}()
}

func (dd *DataDogReporter) Stop() {

	close(dd.done)
	dd.Report()

	if err := dd.client.Close(); err != nil {
		dd.logger.Error(err)
	}
}

func NewDataDogReporter(options DataDogReporterOptions, logger common.Logger, stdout *Stdout, registry *common.Registry) *DataDogReporter {

	if logger == nil {
		logger = stdout
	}

	if utils.IsEmpty(options.AgentHost) {
		stdout.Debug("DataDog reporter is disabled.")
		return nil
	}

	if options.Interval <= 0 {
		options.Interval = 10 * time.Second
	}

	client, err := statsd.New(fmt.Sprintf("%s:%d", options.AgentHost, options.AgentPort))
	if err != nil {
		logger.Error(err)
		return nil
	}

	logger.Info("DataDog reporter is up...")

	return &DataDogReporter{
		options:  options,
		logger:   logger,
		client:   client,
		registry: registry,
		last:     make(map[string]int64),
		done:     make(chan struct{}),
	}
}
