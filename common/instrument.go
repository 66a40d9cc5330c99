package common

import "time"

// Kind is the variant tag of an Instrument. The set of storable kinds is
// closed: every instrument held by a registry is exactly one of Gauge,
// Counter, Histogram, Meter or Timer for its entire lifetime. KindSet marks
// composite instrument sets, which are flattened at registration and never
// stored.
type Kind int

const (
	KindGauge Kind = iota
	KindCounter
	KindHistogram
	KindMeter
	KindTimer
	KindSet
)

func (k Kind) String() string {

	switch k {
	case KindGauge:
		return "gauge"
	case KindCounter:
		return "counter"
	case KindHistogram:
		return "histogram"
	case KindMeter:
		return "meter"
	case KindTimer:
		return "timer"
	case KindSet:
		return "set"
	}
	return "unknown"
}

type Instrument interface {
	Kind() Kind
}

// Gauge is a caller-supplied read-only value source. The registry never
// creates gauges on its own, it only stores the ones registered explicitly.
type Gauge interface {
	Instrument
	Value() float64
}

type Counter interface {
	Instrument
	Inc() Counter
	Dec() Counter
	Add(value int64) Counter
	Count() int64
}

// Histogram records values and exposes a summary of what it has seen. The
// sampling strategy behind it is the histogram's own concern.
type Histogram interface {
	Instrument
	Update(value int64) Histogram
	Count() int64
	Sum() int64
	Min() int64
	Max() int64
	Mean() float64
}

// Meter records occurrence events and computes the mean event rate per
// second since its creation.
type Meter interface {
	Instrument
	Mark(count int64) Meter
	Count() int64
	MeanRate() float64
}

// Timer records durations, combining occurrence rates with a duration
// distribution.
type Timer interface {
	Instrument
	Update(d time.Duration) Timer
	Time(fn func())
	Count() int64
	MeanRate() float64
	Min() time.Duration
	Max() time.Duration
	Mean() time.Duration
}

// InstrumentSet is a named tree of instruments registered together. A child
// may itself be a set. Sets are consumed once at registration time: only the
// flattened leaves survive in the registry.
type InstrumentSet interface {
	Instrument
	Instruments() map[Name]Instrument
}

// Instruments is a plain map form of an InstrumentSet, convenient for
// building nested sets in place.
type Instruments map[Name]Instrument

func (i Instruments) Kind() Kind {
	return KindSet
}

func (i Instruments) Instruments() map[Name]Instrument {
	return i
}

func (i Instruments) Names() []Name {

	names := make([]Name, 0, len(i))
	for name := range i {
		names = append(names, name)
	}
	return sortNames(names)
}

// Each visits the entries in ascending name order.
func (i Instruments) Each(fn func(Name, Instrument)) {

	for _, name := range i.Names() {
		fn(name, i[name])
	}
}
