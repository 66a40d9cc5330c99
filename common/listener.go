package common

// Listener observes instruments coming and going, one callback per kind.
// Callbacks run synchronously on the goroutine performing the registry
// operation; a slow callback blocks that caller.
type Listener interface {
	OnGaugeAdded(name Name, gauge Gauge)
	OnGaugeRemoved(name Name)
	OnCounterAdded(name Name, counter Counter)
	OnCounterRemoved(name Name)
	OnHistogramAdded(name Name, histogram Histogram)
	OnHistogramRemoved(name Name)
	OnMeterAdded(name Name, meter Meter)
	OnMeterRemoved(name Name)
	OnTimerAdded(name Name, timer Timer)
	OnTimerRemoved(name Name)
}

// ListenerBase is a no-op Listener for embedding, so implementations only
// override the callbacks they care about.
type ListenerBase struct{}

func (ListenerBase) OnGaugeAdded(Name, Gauge)         {}
func (ListenerBase) OnGaugeRemoved(Name)              {}
func (ListenerBase) OnCounterAdded(Name, Counter)     {}
func (ListenerBase) OnCounterRemoved(Name)            {}
func (ListenerBase) OnHistogramAdded(Name, Histogram) {}
func (ListenerBase) OnHistogramRemoved(Name)          {}
func (ListenerBase) OnMeterAdded(Name, Meter)         {}
func (ListenerBase) OnMeterRemoved(Name)              {}
func (ListenerBase) OnTimerAdded(Name, Timer)         {}
func (ListenerBase) OnTimerRemoved(Name)              {}
