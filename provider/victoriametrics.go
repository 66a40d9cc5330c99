package provider

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/VictoriaMetrics/metrics"
	"github.com/devopsext/metrics/common"
	"github.com/devopsext/utils"
)

type VictoriaMetricsOptions struct {
	URL     string
	Listen  string
	Version string
	Prefix  string
}

// VictoriaMetrics mirrors registry instruments into a VictoriaMetrics
// metric set as callback gauges and serves them in Prometheus exposition
// format. Attach it with AddListener.
type VictoriaMetrics struct {
	options  VictoriaMetricsOptions
	logger   common.Logger
	set      *metrics.Set
	listener *net.Listener
	idents   *sync.Map // common.Name -> []string
}

func (v *VictoriaMetrics) buildIdent(name common.Name, suffixes ...string) string {

	var names []string

	if !utils.IsEmpty(v.options.Prefix) {
		names = append(names, v.options.Prefix)
	}

	names = append(names, name.Segments()...)
	names = append(names, suffixes...)
	return identReplacer.Replace(strings.Join(names, "_"))
}

func (v *VictoriaMetrics) mirror(name common.Name, gauges map[string]func() float64) {

	var idents []string

	for ident, fn := range gauges {
		v.set.GetOrCreateGauge(ident, fn)
		idents = append(idents, ident)
	}
	v.idents.Store(name, idents)
}

func (v *VictoriaMetrics) drop(name common.Name) {

	stored, ok := v.idents.LoadAndDelete(name)
	if !ok {
		return
	}

	for _, ident := range stored.([]string) {
		v.set.UnregisterMetric(ident)
	}
}

func (v *VictoriaMetrics) OnGaugeAdded(name common.Name, gauge common.Gauge) {

	v.mirror(name, map[string]func() float64{
		v.buildIdent(name): gauge.Value,
	})
}

func (v *VictoriaMetrics) OnGaugeRemoved(name common.Name) {
	v.drop(name)
}

func (v *VictoriaMetrics) OnCounterAdded(name common.Name, counter common.Counter) {

	v.mirror(name, map[string]func() float64{
		v.buildIdent(name): func() float64 {
			return float64(counter.Count())
		},
	})
}

func (v *VictoriaMetrics) OnCounterRemoved(name common.Name) {
	v.drop(name)
}

func (v *VictoriaMetrics) OnHistogramAdded(name common.Name, histogram common.Histogram) {

	v.mirror(name, map[string]func() float64{
		v.buildIdent(name, "count"): func() float64 {
			return float64(histogram.Count())
		},
		v.buildIdent(name, "sum"): func() float64 {
			return float64(histogram.Sum())
		},
		v.buildIdent(name, "mean"): histogram.Mean,
	})
}

func (v *VictoriaMetrics) OnHistogramRemoved(name common.Name) {
	v.drop(name)
}

func (v *VictoriaMetrics) OnMeterAdded(name common.Name, meter common.Meter) {

	v.mirror(name, map[string]func() float64{
		v.buildIdent(name, "count"): func() float64 {
			return float64(meter.Count())
		},
		v.buildIdent(name, "rate"): meter.MeanRate,
	})
}

func (v *VictoriaMetrics) OnMeterRemoved(name common.Name) {
	v.drop(name)
}

func (v *VictoriaMetrics) OnTimerAdded(name common.Name, timer common.Timer) {

	v.mirror(name, map[string]func() float64{
		v.buildIdent(name, "count"): func() float64 {
			return float64(timer.Count())
		},
		v.buildIdent(name, "rate"): timer.MeanRate,
		v.buildIdent(name, "mean_seconds"): func() float64 {
			return timer.Mean().Seconds()
		},
	})
}

func (v *VictoriaMetrics) OnTimerRemoved(name common.Name) {
	v.drop(name)
}

func (v *VictoriaMetrics) Start() bool {

	v.logger.Info("Start victoriametrics endpoint...")

	mux := http.NewServeMux()
	mux.HandleFunc(v.options.URL, func(w http.ResponseWriter, req *http.Request) {
		v.set.WritePrometheus(w)
	})

	listener, err := net.Listen("tcp", v.options.Listen)
	if err != nil {
		v.logger.Error(err)
		return false
	}
	v.listener = &listener
	v.logger.Info("VictoriaMetrics is up. Listening...")
	err = http.Serve(listener, mux)
	if err != nil {
		v.logger.Error(err)
		return false
	}
	return true
}

func (v *VictoriaMetrics) StartInWaitGroup(wg *sync.WaitGroup) {

	wg.Add(1)

	go func(wg *sync.WaitGroup) {

		defer wg.Done()
		v.Start()
	}(wg)
}

func (v *VictoriaMetrics) Stop() {
	if v.listener != nil {
		l := *v.listener
		l.Close()
	}
}

func NewVictoriaMetrics(options VictoriaMetricsOptions, logger common.Logger, stdout *Stdout) *VictoriaMetrics {

	if logger == nil {
		logger = stdout
	}

	return &VictoriaMetrics{
		options: options,
		logger:  logger,
		set:     metrics.NewSet(),
		idents:  &sync.Map{},
	}
}
