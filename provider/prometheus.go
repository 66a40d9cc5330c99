package provider

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/devopsext/metrics/common"
	"github.com/devopsext/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PrometheusOptions struct {
	URL     string
	Listen  string
	Version string
	Prefix  string
}

// Prometheus mirrors registry instruments into a prometheus registry as
// function collectors polling the live instruments, and serves the scrape
// endpoint. Attach it with AddListener: the subscription backfill mirrors
// everything already registered.
type Prometheus struct {
	options    PrometheusOptions
	logger     common.Logger
	registry   *prometheus.Registry
	listener   *net.Listener
	collectors *sync.Map // common.Name -> []prometheus.Collector
}

var identReplacer = strings.NewReplacer(".", "_", "-", "_", " ", "_")

func (p *Prometheus) buildIdent(name common.Name, suffixes ...string) string {

	var names []string

	if !utils.IsEmpty(p.options.Prefix) {
		names = append(names, p.options.Prefix)
	}

	names = append(names, name.Segments()...)
	names = append(names, suffixes...)
	return identReplacer.Replace(strings.Join(names, "_"))
}

func (p *Prometheus) register(name common.Name, collectors ...prometheus.Collector) {

	var registered []prometheus.Collector

	for _, c := range collectors {
		if err := p.registry.Register(c); err != nil {
			p.logger.Error(err)
			continue
		}
		registered = append(registered, c)
	}

	if len(registered) > 0 {
		p.collectors.Store(name, registered)
	}
}

func (p *Prometheus) unregister(name common.Name) {

	v, ok := p.collectors.LoadAndDelete(name)
	if !ok {
		return
	}

	for _, c := range v.([]prometheus.Collector) {
		p.registry.Unregister(c)
	}
}

func (p *Prometheus) gaugeFunc(ident string, fn func() float64) prometheus.Collector {

	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: ident,
	}, fn)
}

func (p *Prometheus) OnGaugeAdded(name common.Name, gauge common.Gauge) {
	p.register(name, p.gaugeFunc(p.buildIdent(name), gauge.Value))
}

func (p *Prometheus) OnGaugeRemoved(name common.Name) {
	p.unregister(name)
}

// Registry counters can decrease, so they surface as prometheus gauges.
func (p *Prometheus) OnCounterAdded(name common.Name, counter common.Counter) {

	p.register(name, p.gaugeFunc(p.buildIdent(name), func() float64 {
		return float64(counter.Count())
	}))
}

func (p *Prometheus) OnCounterRemoved(name common.Name) {
	p.unregister(name)
}

func (p *Prometheus) OnHistogramAdded(name common.Name, histogram common.Histogram) {

	p.register(name,
		p.gaugeFunc(p.buildIdent(name, "count"), func() float64 {
			return float64(histogram.Count())
		}),
		p.gaugeFunc(p.buildIdent(name, "sum"), func() float64 {
			return float64(histogram.Sum())
		}),
		p.gaugeFunc(p.buildIdent(name, "min"), func() float64 {
			return float64(histogram.Min())
		}),
		p.gaugeFunc(p.buildIdent(name, "max"), func() float64 {
			return float64(histogram.Max())
		}),
		p.gaugeFunc(p.buildIdent(name, "mean"), histogram.Mean),
	)
}

func (p *Prometheus) OnHistogramRemoved(name common.Name) {
	p.unregister(name)
}

func (p *Prometheus) OnMeterAdded(name common.Name, meter common.Meter) {

	p.register(name,
		p.gaugeFunc(p.buildIdent(name, "count"), func() float64 {
			return float64(meter.Count())
		}),
		p.gaugeFunc(p.buildIdent(name, "rate"), meter.MeanRate),
	)
}

func (p *Prometheus) OnMeterRemoved(name common.Name) {
	p.unregister(name)
}

func (p *Prometheus) OnTimerAdded(name common.Name, timer common.Timer) {

	p.register(name,
		p.gaugeFunc(p.buildIdent(name, "count"), func() float64 {
			return float64(timer.Count())
		}),
		p.gaugeFunc(p.buildIdent(name, "rate"), timer.MeanRate),
		p.gaugeFunc(p.buildIdent(name, "mean_seconds"), func() float64 {
			return timer.Mean().Seconds()
		}),
		p.gaugeFunc(p.buildIdent(name, "max_seconds"), func() float64 {
			return timer.Max().Seconds()
		}),
	)
}

func (p *Prometheus) OnTimerRemoved(name common.Name) {
	p.unregister(name)
}

func (p *Prometheus) Start() bool {

	p.logger.Info("Start prometheus endpoint...")

	mux := http.NewServeMux()
	mux.Handle(p.options.URL, promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))

	listener, err := net.Listen("tcp", p.options.Listen)
	if err != nil {
		p.logger.Error(err)
		return false
	}
	p.listener = &listener
	p.logger.Info("Prometheus is up. Listening...")
	err = http.Serve(listener, mux)
	if err != nil {
		p.logger.Error(err)
		return false
	}
	return true
}

func (p *Prometheus) StartInWaitGroup(wg *sync.WaitGroup) {

	wg.Add(1)

	go func(wg *sync.WaitGroup) {

		defer wg.Done()
		p.Start()
	}(wg)
}

func (p *Prometheus) Stop() {
	if p.listener != nil {
		l := *p.listener
		l.Close()
	}
}

// Gatherer exposes the mirrored collectors for custom handlers.
func (p *Prometheus) Gatherer() prometheus.Gatherer {
	return p.registry
}

func NewPrometheus(options PrometheusOptions, logger common.Logger, stdout *Stdout) *Prometheus {

	if logger == nil {
		logger = stdout
	}

	return &Prometheus{
		options:    options,
		logger:     logger,
		registry:   prometheus.NewRegistry(),
		collectors: &sync.Map{},
	}
}
