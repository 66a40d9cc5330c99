package provider

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/devopsext/metrics/common"
)

func prometheusNewStdout() *Stdout {

	stdout := NewStdout(StdoutOptions{
		Format:          "template",
		Level:           "debug",
		Template:        "{{.msg}}",
		TimestampFormat: time.RFC3339Nano,
	})
	stdout.SetCallerOffset(1)
	return stdout
}

func scrapeMetrics(t *testing.T, url string) map[string]string {

	r, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Body.Close()

	if r.StatusCode != 200 {
		t.Fatalf("None 200 response: %d", r.StatusCode)
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatal(err)
	}

	m := make(map[string]string)
	for _, line := range strings.Split(string(content), "\n") {
		parts := strings.Split(line, " ")
		if len(parts) > 1 && !strings.HasPrefix(parts[0], "#") {

			value := parts[1]
			names := strings.Split(parts[0], "{")
			if len(names) > 0 {
				m[names[0]] = value
			}
		}
	}
	return m
}

func TestPrometheus(t *testing.T) {

	stdout := prometheusNewStdout()

	URL := "/metrics"
	port := 9999

	prometheus := NewPrometheus(PrometheusOptions{
		URL:    URL,
		Listen: fmt.Sprintf("127.0.0.1:%d", port),
		Prefix: "test",
	}, nil, stdout)
	if prometheus == nil {
		t.Fatal("Invalid prometheus")
	}

	registry := common.NewRegistry(stdout)
	registry.AddListener(prometheus)

	counter, err := registry.CounterOf("some", "calls")
	if err != nil {
		t.Fatal(err)
	}

	maxCounter := 5
	for i := 0; i < maxCounter; i++ {
		counter.Inc()
	}

	registry.GaugeFunc(common.BuildName("some", "value"), func() float64 {
		return 1.5
	})

	var wg sync.WaitGroup
	prometheus.StartInWaitGroup(&wg)
	defer prometheus.Stop()

	time.Sleep(time.Duration(1) * time.Second)

	m := scrapeMetrics(t, fmt.Sprintf("http://127.0.0.1:%d%s", port, URL))

	value := m["test_some_calls"]
	if value == "" {
		t.Fatal("No metric or value in output")
	}
	if value != strconv.Itoa(maxCounter) {
		t.Fatalf("Invalid metric value %s, expected %d", value, maxCounter)
	}

	if m["test_some_value"] != "1.5" {
		t.Fatalf("Invalid gauge value %s", m["test_some_value"])
	}

	// removal should drop the mirrored collectors
	registry.Remove(common.BuildName("some", "calls"))

	m = scrapeMetrics(t, fmt.Sprintf("http://127.0.0.1:%d%s", port, URL))
	if _, ok := m["test_some_calls"]; ok {
		t.Fatal("Removed counter should not be exposed")
	}
}

func TestPrometheusWrongListen(t *testing.T) {

	stdout := prometheusNewStdout()

	prometheus := NewPrometheus(PrometheusOptions{
		URL:    "/wrong",
		Listen: fmt.Sprintf("%s:%d", common.GetGuid(), 10000),
		Prefix: "test",
	}, nil, stdout)
	if prometheus == nil {
		t.Fatal("Invalid prometheus")
	}

	if prometheus.Start() {
		t.Fatal("Invalid startup option")
	}
}
