package common

// Registry owns a process-wide mapping from names to instruments plus an
// ordered list of listeners, and is the coordination point concurrent
// goroutines use to obtain or create instruments by name.
//
// The name map supports atomic insert-if-absent, so registration of a given
// name is exactly-once: at most one caller observes success, every losing
// caller observes a DuplicateNameError and re-reads, nothing is silently
// overwritten. Listener notification for an add or remove happens after the
// map mutation and is serialized, so all listeners see events in the same
// relative order. Listener callbacks run on the notifying goroutine and must
// not call mutating registry operations.

import (
	"errors"
	"sync"
)

type Registry struct {
	logger      Logger
	instruments sync.Map // Name -> Instrument
	lock        sync.Mutex
	listeners   []Listener
}

func NewRegistry(logger Logger) *Registry {
	return &Registry{logger: logger}
}

// Kind marks the registry itself as a composite set, so one registry can be
// registered into another under a prefix.
func (r *Registry) Kind() Kind {
	return KindSet
}

// Instruments returns a snapshot of the full name to instrument mapping.
func (r *Registry) Instruments() map[Name]Instrument {
	return r.All()
}

// Register binds instrument to name. An InstrumentSet is flattened into
// individual entries instead of being stored. Registering an already bound
// name fails with DuplicateNameError and leaves the bound instrument
// untouched.
func (r *Registry) Register(name Name, instrument Instrument) (Instrument, error) {

	if set, ok := instrument.(InstrumentSet); ok {
		return instrument, r.RegisterAllPrefixed(name, set)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	_, bound := r.instruments.LoadOrStore(name, instrument)
	if bound {
		return nil, &DuplicateNameError{Name: name}
	}

	if r.logger != nil {
		r.logger.Debug("Registered %s %s", instrument.Kind(), name)
	}

	for _, listener := range r.listeners {
		notifyAdded(listener, name, instrument)
	}
	return instrument, nil
}

// RegisterAll flattens the set into individual entries under no prefix.
func (r *Registry) RegisterAll(set InstrumentSet) error {
	return r.RegisterAllPrefixed(EmptyName, set)
}

// RegisterAllPrefixed flattens the set recursively, prefixing every leaf
// name. Traversal follows the set's own iteration order. A name conflict
// aborts the remaining registrations of this call; leaves registered before
// the conflict stay registered.
func (r *Registry) RegisterAllPrefixed(prefix Name, set InstrumentSet) error {

	for childName, child := range set.Instruments() {

		if childSet, ok := child.(InstrumentSet); ok {
			if err := r.RegisterAllPrefixed(JoinNames(prefix, childName), childSet); err != nil {
				return err
			}
			continue
		}

		if _, err := r.Register(JoinNames(prefix, childName), child); err != nil {
			return err
		}
	}
	return nil
}

// Counter returns the counter bound to name, creating and registering a
// default one if the name is unbound. A name bound to another kind fails
// with WrongKindError.
func (r *Registry) Counter(name Name) (Counter, error) {

	instrument, err := r.getOrCreate(name, KindCounter)
	if err != nil {
		return nil, err
	}
	return instrument.(Counter), nil
}

func (r *Registry) CounterOf(segments ...string) (Counter, error) {
	return r.Counter(BuildName(segments...))
}

// Histogram returns the histogram bound to name, creating a default one if
// the name is unbound.
func (r *Registry) Histogram(name Name) (Histogram, error) {

	instrument, err := r.getOrCreate(name, KindHistogram)
	if err != nil {
		return nil, err
	}
	return instrument.(Histogram), nil
}

func (r *Registry) HistogramOf(segments ...string) (Histogram, error) {
	return r.Histogram(BuildName(segments...))
}

// Meter returns the meter bound to name, creating a default one if the name
// is unbound.
func (r *Registry) Meter(name Name) (Meter, error) {

	instrument, err := r.getOrCreate(name, KindMeter)
	if err != nil {
		return nil, err
	}
	return instrument.(Meter), nil
}

func (r *Registry) MeterOf(segments ...string) (Meter, error) {
	return r.Meter(BuildName(segments...))
}

// Timer returns the timer bound to name, creating a default one if the name
// is unbound.
func (r *Registry) Timer(name Name) (Timer, error) {

	instrument, err := r.getOrCreate(name, KindTimer)
	if err != nil {
		return nil, err
	}
	return instrument.(Timer), nil
}

func (r *Registry) TimerOf(segments ...string) (Timer, error) {
	return r.Timer(BuildName(segments...))
}

// GaugeFunc registers fn as a gauge under name and returns it.
func (r *Registry) GaugeFunc(name Name, fn func() float64) (Gauge, error) {

	gauge := NewGauge(fn)
	if _, err := r.Register(name, gauge); err != nil {
		return nil, err
	}
	return gauge, nil
}

// getOrCreate is the race-tolerant lookup behind the kind-specific
// accessors. Losing the registration race to a concurrent creator is
// absorbed by re-reading the map; every other mismatch is a WrongKindError.
// If the winning entry is removed again between the failed insert and the
// re-read, the call fails the same way, matching a plain kind conflict.
func (r *Registry) getOrCreate(name Name, kind Kind) (Instrument, error) {

	if v, ok := r.instruments.Load(name); ok {
		instrument := v.(Instrument)
		if instrument.Kind() == kind {
			return instrument, nil
		}
		return nil, &WrongKindError{Name: name, Kind: kind}
	}

	created, err := r.Register(name, newDefaultInstrument(kind))
	if err == nil {
		return created, nil
	}

	var duplicate *DuplicateNameError
	if errors.As(err, &duplicate) {
		if v, ok := r.instruments.Load(name); ok {
			instrument := v.(Instrument)
			if instrument.Kind() == kind {
				return instrument, nil
			}
		}
	}
	return nil, &WrongKindError{Name: name, Kind: kind}
}

// Remove unbinds name, notifies listeners and reports whether anything was
// removed.
func (r *Registry) Remove(name Name) bool {

	r.lock.Lock()
	defer r.lock.Unlock()

	v, removed := r.instruments.LoadAndDelete(name)
	if !removed {
		return false
	}
	instrument := v.(Instrument)

	if r.logger != nil {
		r.logger.Debug("Removed %s %s", instrument.Kind(), name)
	}

	for _, listener := range r.listeners {
		notifyRemoved(listener, name, instrument)
	}
	return true
}

// RemoveMatching removes every entry the filter selects. The scan is weakly
// consistent: entries registered concurrently may or may not be observed,
// but no entry is removed or notified twice.
func (r *Registry) RemoveMatching(filter Filter) {

	if filter == nil {
		filter = FilterAll
	}

	for name, instrument := range r.All() {
		if filter(name, instrument) {
			r.Remove(name)
		}
	}
}

// AddListener appends the listener and synchronously replays an added
// notification for every instrument currently registered. Instruments
// registered concurrently are delivered exactly once, either by the replay
// or live.
func (r *Registry) AddListener(listener Listener) {

	r.lock.Lock()
	defer r.lock.Unlock()

	r.listeners = append(r.listeners, listener)

	r.instruments.Range(func(k, v interface{}) bool {
		notifyAdded(listener, k.(Name), v.(Instrument))
		return true
	})
}

// RemoveListener removes the listener; no further notifications reach it.
func (r *Registry) RemoveListener(listener Listener) {

	r.lock.Lock()
	defer r.lock.Unlock()

	for i, l := range r.listeners {
		if l == listener {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Names returns all currently registered names, sorted.
func (r *Registry) Names() []Name {

	var names []Name
	r.instruments.Range(func(k, v interface{}) bool {
		names = append(names, k.(Name))
		return true
	})
	return sortNames(names)
}

// All returns a snapshot of the full name to instrument mapping.
func (r *Registry) All() Instruments {

	all := Instruments{}
	r.instruments.Range(func(k, v interface{}) bool {
		all[k.(Name)] = v.(Instrument)
		return true
	})
	return all
}

// Gauges returns a snapshot of the gauges matching the given filters.
func (r *Registry) Gauges(filters ...Filter) Gauges {

	filter := mergeFilters(filters)
	gauges := Gauges{}

	r.instruments.Range(func(k, v interface{}) bool {
		name := k.(Name)
		instrument := v.(Instrument)
		if instrument.Kind() == KindGauge && filter(name, instrument) {
			gauges[name] = instrument.(Gauge)
		}
		return true
	})
	return gauges
}

// Counters returns a snapshot of the counters matching the given filters.
func (r *Registry) Counters(filters ...Filter) Counters {

	filter := mergeFilters(filters)
	counters := Counters{}

	r.instruments.Range(func(k, v interface{}) bool {
		name := k.(Name)
		instrument := v.(Instrument)
		if instrument.Kind() == KindCounter && filter(name, instrument) {
			counters[name] = instrument.(Counter)
		}
		return true
	})
	return counters
}

// Histograms returns a snapshot of the histograms matching the given
// filters.
func (r *Registry) Histograms(filters ...Filter) Histograms {

	filter := mergeFilters(filters)
	histograms := Histograms{}

	r.instruments.Range(func(k, v interface{}) bool {
		name := k.(Name)
		instrument := v.(Instrument)
		if instrument.Kind() == KindHistogram && filter(name, instrument) {
			histograms[name] = instrument.(Histogram)
		}
		return true
	})
	return histograms
}

// Meters returns a snapshot of the meters matching the given filters.
func (r *Registry) Meters(filters ...Filter) Meters {

	filter := mergeFilters(filters)
	meters := Meters{}

	r.instruments.Range(func(k, v interface{}) bool {
		name := k.(Name)
		instrument := v.(Instrument)
		if instrument.Kind() == KindMeter && filter(name, instrument) {
			meters[name] = instrument.(Meter)
		}
		return true
	})
	return meters
}

// Timers returns a snapshot of the timers matching the given filters.
func (r *Registry) Timers(filters ...Filter) Timers {

	filter := mergeFilters(filters)
	timers := Timers{}

	r.instruments.Range(func(k, v interface{}) bool {
		name := k.(Name)
		instrument := v.(Instrument)
		if instrument.Kind() == KindTimer && filter(name, instrument) {
			timers[name] = instrument.(Timer)
		}
		return true
	})
	return timers
}

func notifyAdded(listener Listener, name Name, instrument Instrument) {

	switch instrument.Kind() {
	case KindGauge:
		listener.OnGaugeAdded(name, instrument.(Gauge))
	case KindCounter:
		listener.OnCounterAdded(name, instrument.(Counter))
	case KindHistogram:
		listener.OnHistogramAdded(name, instrument.(Histogram))
	case KindMeter:
		listener.OnMeterAdded(name, instrument.(Meter))
	case KindTimer:
		listener.OnTimerAdded(name, instrument.(Timer))
	default:
		panic(&UnknownKindError{Name: name, Kind: instrument.Kind()})
	}
}

func notifyRemoved(listener Listener, name Name, instrument Instrument) {

	switch instrument.Kind() {
	case KindGauge:
		listener.OnGaugeRemoved(name)
	case KindCounter:
		listener.OnCounterRemoved(name)
	case KindHistogram:
		listener.OnHistogramRemoved(name)
	case KindMeter:
		listener.OnMeterRemoved(name)
	case KindTimer:
		listener.OnTimerRemoved(name)
	default:
		panic(&UnknownKindError{Name: name, Kind: instrument.Kind()})
	}
}
