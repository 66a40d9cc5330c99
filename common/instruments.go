package common

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Default in-memory instruments backing the registry's get-or-create
// accessors. They keep only the running summaries their contracts expose;
// heavier statistical backends belong to providers, not to the registry.

type gaugeFunc struct {
	fn func() float64
}

// NewGauge wraps a read-only value source into a Gauge.
func NewGauge(fn func() float64) Gauge {
	return &gaugeFunc{fn: fn}
}

func (g *gaugeFunc) Kind() Kind {
	return KindGauge
}

func (g *gaugeFunc) Value() float64 {

	if g.fn == nil {
		return 0
	}
	return g.fn()
}

type counter struct {
	count atomic.Int64
}

func NewCounter() Counter {
	return &counter{}
}

func (c *counter) Kind() Kind {
	return KindCounter
}

func (c *counter) Inc() Counter {
	return c.Add(1)
}

func (c *counter) Dec() Counter {
	return c.Add(-1)
}

func (c *counter) Add(value int64) Counter {

	c.count.Add(value)
	return c
}

func (c *counter) Count() int64 {
	return c.count.Load()
}

type histogram struct {
	lock  sync.Mutex
	count int64
	sum   int64
	min   int64
	max   int64
}

func NewHistogram() Histogram {
	return &histogram{}
}

func (h *histogram) Kind() Kind {
	return KindHistogram
}

func (h *histogram) Update(value int64) Histogram {

	h.lock.Lock()
	defer h.lock.Unlock()

	if h.count == 0 || value < h.min {
		h.min = value
	}
	if h.count == 0 || value > h.max {
		h.max = value
	}
	h.count++
	h.sum += value
	return h
}

func (h *histogram) Count() int64 {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.count
}

func (h *histogram) Sum() int64 {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.sum
}

func (h *histogram) Min() int64 {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.min
}

func (h *histogram) Max() int64 {
	h.lock.Lock()
	defer h.lock.Unlock()
	return h.max
}

func (h *histogram) Mean() float64 {

	h.lock.Lock()
	defer h.lock.Unlock()

	if h.count == 0 {
		return 0
	}
	return float64(h.sum) / float64(h.count)
}

type meter struct {
	count   atomic.Int64
	started time.Time
}

func NewMeter() Meter {
	return &meter{started: time.Now()}
}

func (m *meter) Kind() Kind {
	return KindMeter
}

func (m *meter) Mark(count int64) Meter {

	m.count.Add(count)
	return m
}

func (m *meter) Count() int64 {
	return m.count.Load()
}

func (m *meter) MeanRate() float64 {

	count := m.count.Load()
	if count == 0 {
		return 0
	}

	elapsed := time.Since(m.started).Seconds()
	if elapsed <= 0 || math.IsNaN(elapsed) {
		return 0
	}
	return float64(count) / elapsed
}

type timer struct {
	meter     Meter
	durations Histogram
}

func NewTimer() Timer {
	return &timer{meter: NewMeter(), durations: NewHistogram()}
}

func (t *timer) Kind() Kind {
	return KindTimer
}

func (t *timer) Update(d time.Duration) Timer {

	if d >= 0 {
		t.meter.Mark(1)
		t.durations.Update(int64(d))
	}
	return t
}

func (t *timer) Time(fn func()) {

	started := time.Now()
	defer func() {
		t.Update(time.Since(started))
	}()
	fn()
}

func (t *timer) Count() int64 {
	return t.meter.Count()
}

func (t *timer) MeanRate() float64 {
	return t.meter.MeanRate()
}

func (t *timer) Min() time.Duration {
	return time.Duration(t.durations.Min())
}

func (t *timer) Max() time.Duration {
	return time.Duration(t.durations.Max())
}

func (t *timer) Mean() time.Duration {
	return time.Duration(t.durations.Mean())
}

// newDefaultInstrument backs the registry's get-or-create path. Gauges and
// sets have no default construction: gauges wrap caller-supplied sources,
// sets are flattened away at registration.
func newDefaultInstrument(kind Kind) Instrument {

	switch kind {
	case KindCounter:
		return NewCounter()
	case KindHistogram:
		return NewHistogram()
	case KindMeter:
		return NewMeter()
	case KindTimer:
		return NewTimer()
	}
	return nil
}
