package common

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Name is an immutable hierarchical instrument identifier. Two names are
// equal iff their dotted renderings are equal, and names order
// lexicographically over the same rendering, so a Name is usable directly
// as a map key and as a sort key.
type Name struct {
	key string
}

// EmptyName has no segments and is the identity element for JoinNames.
var EmptyName = Name{}

func BuildName(segments ...string) Name {

	var parts []string

	for _, s := range segments {
		if !IsEmpty(s) {
			parts = append(parts, s)
		}
	}
	return Name{key: strings.Join(parts, ".")}
}

// NameOf builds a name whose first segment is the fully qualified type
// identifier of v, followed by the given segments.
func NameOf(v interface{}, segments ...string) Name {

	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	first := ""
	if t != nil {
		if IsEmpty(t.PkgPath()) {
			first = t.Name()
		} else {
			first = fmt.Sprintf("%s.%s", t.PkgPath(), t.Name())
		}
	}
	return JoinNames(BuildName(first), BuildName(segments...))
}

// JoinNames appends name's segments to prefix's segments. Joining with
// EmptyName on either side returns the other name unchanged.
func JoinNames(prefix, name Name) Name {

	if prefix.IsEmpty() {
		return name
	}
	if name.IsEmpty() {
		return prefix
	}
	return Name{key: prefix.key + "." + name.key}
}

func (n Name) IsEmpty() bool {
	return n.key == ""
}

func (n Name) String() string {
	return n.key
}

func (n Name) Segments() []string {

	if n.IsEmpty() {
		return nil
	}
	return strings.Split(n.key, ".")
}

func (n Name) Compare(o Name) int {
	return strings.Compare(n.key, o.key)
}

// HasPrefix reports whether n equals prefix or lies below it in the
// hierarchy.
func (n Name) HasPrefix(prefix Name) bool {

	if prefix.IsEmpty() {
		return true
	}
	if n.key == prefix.key {
		return true
	}
	return strings.HasPrefix(n.key, prefix.key+".")
}

func sortNames(names []Name) []Name {

	sort.Slice(names, func(i, j int) bool {
		return names[i].Compare(names[j]) < 0
	})
	return names
}
