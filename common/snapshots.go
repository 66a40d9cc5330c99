package common

// Per-kind snapshot mappings returned by the registry queries. Each is an
// immutable copy of the matching entries at scan time, traversable in
// ascending name order through Names and Each.

type Gauges map[Name]Gauge

func (g Gauges) Names() []Name {

	names := make([]Name, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	return sortNames(names)
}

func (g Gauges) Each(fn func(Name, Gauge)) {

	for _, name := range g.Names() {
		fn(name, g[name])
	}
}

type Counters map[Name]Counter

func (c Counters) Names() []Name {

	names := make([]Name, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	return sortNames(names)
}

func (c Counters) Each(fn func(Name, Counter)) {

	for _, name := range c.Names() {
		fn(name, c[name])
	}
}

type Histograms map[Name]Histogram

func (h Histograms) Names() []Name {

	names := make([]Name, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	return sortNames(names)
}

func (h Histograms) Each(fn func(Name, Histogram)) {

	for _, name := range h.Names() {
		fn(name, h[name])
	}
}

type Meters map[Name]Meter

func (m Meters) Names() []Name {

	names := make([]Name, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return sortNames(names)
}

func (m Meters) Each(fn func(Name, Meter)) {

	for _, name := range m.Names() {
		fn(name, m[name])
	}
}

type Timers map[Name]Timer

func (t Timers) Names() []Name {

	names := make([]Name, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	return sortNames(names)
}

func (t Timers) Each(fn func(Name, Timer)) {

	for _, name := range t.Names() {
		fn(name, t[name])
	}
}
