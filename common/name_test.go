package common

import (
	"testing"
)

type sampleOwner struct{}

func TestNameBuild(t *testing.T) {

	name := BuildName("a", "b", "c")
	if name.String() != "a.b.c" {
		t.Fatalf("Invalid name %s", name)
	}

	segments := name.Segments()
	if len(segments) != 3 || segments[0] != "a" || segments[2] != "c" {
		t.Fatalf("Invalid segments %v", segments)
	}

	if BuildName("a", "", "c").String() != "a.c" {
		t.Fatal("Empty segments should be skipped")
	}

	if !BuildName().IsEmpty() {
		t.Fatal("Name without segments should be empty")
	}

	if !EmptyName.IsEmpty() || EmptyName.Segments() != nil {
		t.Fatal("Invalid empty name")
	}
}

func TestNameEquality(t *testing.T) {

	if BuildName("a", "b") != BuildName("a", "b") {
		t.Fatal("Names with equal segments should be equal")
	}

	if BuildName("a", "b") == BuildName("a", "c") {
		t.Fatal("Names with different segments should differ")
	}
}

func TestNameJoin(t *testing.T) {

	joined := JoinNames(BuildName("a"), BuildName("b", "c"))
	if joined != BuildName("a", "b", "c") {
		t.Fatalf("Invalid joined name %s", joined)
	}

	name := BuildName("x", "y")
	if JoinNames(EmptyName, name) != name {
		t.Fatal("Joining with empty prefix should return the name unchanged")
	}
	if JoinNames(name, EmptyName) != name {
		t.Fatal("Joining with empty name should return the prefix unchanged")
	}
}

func TestNameCompare(t *testing.T) {

	if BuildName("a").Compare(BuildName("b")) >= 0 {
		t.Fatal("a should order before b")
	}
	if BuildName("a", "b").Compare(BuildName("a", "b")) != 0 {
		t.Fatal("Equal names should compare to zero")
	}
	if BuildName("b").Compare(BuildName("a", "z")) <= 0 {
		t.Fatal("b should order after a.z")
	}
}

func TestNameOf(t *testing.T) {

	name := NameOf(sampleOwner{}, "requests")
	expected := "github.com/devopsext/metrics/common.sampleOwner.requests"
	if name.String() != expected {
		t.Fatalf("Invalid name %s, expected %s", name, expected)
	}

	if NameOf(&sampleOwner{}, "requests") != name {
		t.Fatal("Pointer and value should build the same name")
	}
}

func TestNameHasPrefix(t *testing.T) {

	name := BuildName("a", "b", "c")

	if !name.HasPrefix(BuildName("a", "b")) {
		t.Fatal("a.b should prefix a.b.c")
	}
	if !name.HasPrefix(name) {
		t.Fatal("A name should prefix itself")
	}
	if !name.HasPrefix(EmptyName) {
		t.Fatal("Empty name should prefix everything")
	}
	if BuildName("ab", "c").HasPrefix(BuildName("a")) {
		t.Fatal("a should not prefix ab.c")
	}
}
