package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"sync"

	"github.com/devopsext/metrics/common"
	"github.com/devopsext/metrics/provider"
	"github.com/spf13/cobra"
)

var VERSION = "unknown"

var logs = common.NewLogs()
var registry = common.NewRegistry(logs)
var stdout *provider.Stdout
var mainWG sync.WaitGroup

type RootOptions struct {
	Logs      []string
	Metrics   []string
	Reporters []string
}

var rootOptions = RootOptions{

	Logs:      []string{"stdout"},
	Metrics:   []string{"prometheus"},
	Reporters: []string{},
}

var stdoutOptions = provider.StdoutOptions{

	Format:          "text",
	Level:           "info",
	Template:        "{{.file}} {{.msg}}",
	TimestampFormat: time.RFC3339Nano,
	TextColors:      true,
}

var prometheusOptions = provider.PrometheusOptions{

	URL:    "/metrics",
	Listen: "127.0.0.1:8080",
	Prefix: "metrics",
}

var victoriaMetricsOptions = provider.VictoriaMetricsOptions{

	URL:    "/metrics",
	Listen: "127.0.0.1:8081",
	Prefix: "metrics",
}

var datadogOptions = provider.DataDogOptions{
	ServiceName: "",
	Environment: "none",
	Tags:        "",
}

var datadogReporterOptions = provider.DataDogReporterOptions{
	AgentHost: "",
	AgentPort: 10518,
	Prefix:    "metrics",
	Interval:  10 * time.Second,
}

var newrelicOptions = provider.NewRelicOptions{
	ApiKey:      "",
	ServiceName: "",
	Environment: "none",
	Attributes:  "",
}

var newrelicReporterOptions = provider.NewRelicReporterOptions{
	Endpoint: "",
	Prefix:   "metrics",
	Interval: 10 * time.Second,
}

func interceptSyscall() {

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-c
		logs.Info("Exiting...")
		os.Exit(1)
	}()
}

func Execute() {

	rootCmd := &cobra.Command{
		Use:   "metrics",
		Short: "Metrics",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {

			stdoutOptions.Version = VERSION
			stdout = provider.NewStdout(stdoutOptions)
			stdout.SetCallerOffset(2)
			if common.HasElem(rootOptions.Logs, "stdout") {
				logs.Register(stdout)
			}

			logs.Info("Booting...")

			prometheusOptions.Version = VERSION
			prometheus := provider.NewPrometheus(prometheusOptions, logs, stdout)
			if common.HasElem(rootOptions.Metrics, "prometheus") {
				registry.AddListener(prometheus)
				prometheus.StartInWaitGroup(&mainWG)
			}

			victoriaMetricsOptions.Version = VERSION
			victoria := provider.NewVictoriaMetrics(victoriaMetricsOptions, logs, stdout)
			if common.HasElem(rootOptions.Metrics, "victoriametrics") {
				registry.AddListener(victoria)
				victoria.StartInWaitGroup(&mainWG)
			}

			datadogReporterOptions.DataDogOptions = datadogOptions
			datadogReporterOptions.Version = VERSION
			datadog := provider.NewDataDogReporter(datadogReporterOptions, logs, stdout, registry)
			if datadog != nil && common.HasElem(rootOptions.Reporters, "datadog") {
				datadog.Start()
			}

			newrelicReporterOptions.NewRelicOptions = newrelicOptions
			newrelicReporterOptions.Version = VERSION
			newrelic := provider.NewNewRelicReporter(newrelicReporterOptions, logs, stdout, registry)
			if newrelic != nil && common.HasElem(rootOptions.Reporters, "newrelic") {
				newrelic.Start()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {

			registry.GaugeFunc(common.BuildName("runtime", "goroutines"), func() float64 {
				return float64(runtime.NumGoroutine())
			})

			calls, err := registry.CounterOf("demo", "calls")
			if err != nil {
				logs.Error(err)
				os.Exit(1)
			}

			latency, err := registry.TimerOf("demo", "latency")
			if err != nil {
				logs.Error(err)
				os.Exit(1)
			}

			for i := 0; i < 10; i++ {

				latency.Time(func() {
					time.Sleep(time.Duration(100*i) * time.Millisecond)
				})
				calls.Inc()
				logs.Debug("Counter increment %d", i)
			}

			logs.Info("Wait until it will be interrupted...")

			mainWG.Wait()
		},
	}

	flags := rootCmd.PersistentFlags()

	flags.StringSliceVar(&rootOptions.Logs, "logs", rootOptions.Logs, "Log providers: stdout")
	flags.StringSliceVar(&rootOptions.Metrics, "metrics", rootOptions.Metrics, "Metric endpoints: prometheus, victoriametrics")
	flags.StringSliceVar(&rootOptions.Reporters, "reporters", rootOptions.Reporters, "Metric reporters: datadog, newrelic")

	flags.StringVar(&stdoutOptions.Format, "stdout-format", stdoutOptions.Format, "Stdout format: json, text, template")
	flags.StringVar(&stdoutOptions.Level, "stdout-level", stdoutOptions.Level, "Stdout level: info, warn, error, debug, panic")
	flags.StringVar(&stdoutOptions.Template, "stdout-template", stdoutOptions.Template, "Stdout template")
	flags.StringVar(&stdoutOptions.TimestampFormat, "stdout-timestamp-format", stdoutOptions.TimestampFormat, "Stdout timestamp format")
	flags.BoolVar(&stdoutOptions.TextColors, "stdout-text-colors", stdoutOptions.TextColors, "Stdout text colors")

	flags.StringVar(&prometheusOptions.URL, "prometheus-url", prometheusOptions.URL, "Prometheus endpoint url")
	flags.StringVar(&prometheusOptions.Listen, "prometheus-listen", prometheusOptions.Listen, "Prometheus listen")
	flags.StringVar(&prometheusOptions.Prefix, "prometheus-prefix", prometheusOptions.Prefix, "Prometheus prefix")

	flags.StringVar(&victoriaMetricsOptions.URL, "victoriametrics-url", victoriaMetricsOptions.URL, "VictoriaMetrics endpoint url")
	flags.StringVar(&victoriaMetricsOptions.Listen, "victoriametrics-listen", victoriaMetricsOptions.Listen, "VictoriaMetrics listen")
	flags.StringVar(&victoriaMetricsOptions.Prefix, "victoriametrics-prefix", victoriaMetricsOptions.Prefix, "VictoriaMetrics prefix")

	flags.StringVar(&datadogOptions.ServiceName, "datadog-service-name", datadogOptions.ServiceName, "DataDog service name")
	flags.StringVar(&datadogOptions.Environment, "datadog-environment", datadogOptions.Environment, "DataDog environment")
	flags.StringVar(&datadogOptions.Tags, "datadog-tags", datadogOptions.Tags, "DataDog tags")
	flags.StringVar(&datadogReporterOptions.AgentHost, "datadog-agent-host", datadogReporterOptions.AgentHost, "DataDog agent host")
	flags.IntVar(&datadogReporterOptions.AgentPort, "datadog-agent-port", datadogReporterOptions.AgentPort, "DataDog agent port")
	flags.StringVar(&datadogReporterOptions.Prefix, "datadog-prefix", datadogReporterOptions.Prefix, "DataDog metric prefix")
	flags.DurationVar(&datadogReporterOptions.Interval, "datadog-interval", datadogReporterOptions.Interval, "DataDog report interval")

	flags.StringVar(&newrelicOptions.ApiKey, "newrelic-api-key", newrelicOptions.ApiKey, "NewRelic API key")
	flags.StringVar(&newrelicOptions.ServiceName, "newrelic-service-name", newrelicOptions.ServiceName, "NewRelic service name")
	flags.StringVar(&newrelicOptions.Environment, "newrelic-environment", newrelicOptions.Environment, "NewRelic environment")
	flags.StringVar(&newrelicOptions.Attributes, "newrelic-attributes", newrelicOptions.Attributes, "NewRelic attributes")
	flags.StringVar(&newrelicReporterOptions.Endpoint, "newrelic-endpoint", newrelicReporterOptions.Endpoint, "NewRelic metrics endpoint")
	flags.StringVar(&newrelicReporterOptions.Prefix, "newrelic-prefix", newrelicReporterOptions.Prefix, "NewRelic metric prefix")
	flags.DurationVar(&newrelicReporterOptions.Interval, "newrelic-interval", newrelicReporterOptions.Interval, "NewRelic report interval")

	interceptSyscall()

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(VERSION)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		logs.Error(err)
		os.Exit(1)
	}
}
