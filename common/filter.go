package common

// Filter selects (name, instrument) pairs for queries and bulk removal.
type Filter func(name Name, instrument Instrument) bool

// FilterAll matches every entry.
var FilterAll Filter = func(Name, Instrument) bool {
	return true
}

// FilterPrefix matches entries at or below the given prefix.
func FilterPrefix(prefix Name) Filter {
	return func(name Name, _ Instrument) bool {
		return name.HasPrefix(prefix)
	}
}

func mergeFilters(filters []Filter) Filter {

	if len(filters) == 0 {
		return FilterAll
	}

	return func(name Name, instrument Instrument) bool {
		for _, f := range filters {
			if f != nil && !f(name, instrument) {
				return false
			}
		}
		return true
	}
}
