package common

import (
	"strings"
	"testing"
)

func TestUtilsIsEmpty(t *testing.T) {

	if !IsEmpty("") || !IsEmpty("   ") {
		t.Fatal("Blank strings should be empty")
	}
	if IsEmpty("x") {
		t.Fatal("Non blank string should not be empty")
	}
}

func TestUtilsHasElem(t *testing.T) {

	arr := []string{"one", "two"}
	if !HasElem(arr, "one") {
		t.Fatal("Element should be found")
	}
	if HasElem(arr, "three") {
		t.Fatal("Element should not be found")
	}
	if HasElem("not-a-slice", "one") {
		t.Fatal("Non slice should not match")
	}
}

func TestUtilsGetGuid(t *testing.T) {

	guid := GetGuid()
	if IsEmpty(guid) {
		t.Fatal("Invalid guid")
	}
	if guid == GetGuid() {
		t.Fatal("Guids should differ")
	}
}

func TestUtilsGetKeyValues(t *testing.T) {

	m := GetKeyValues("one=value1,,two = value2")
	if len(m) != 2 {
		t.Fatalf("Invalid map %v", m)
	}
	if m["one"] != "value1" || m["two"] != "value2" {
		t.Fatalf("Invalid values %v", m)
	}
}

func TestUtilsGetCallerInfo(t *testing.T) {

	function, file, line := GetCallerInfo(2)
	if IsEmpty(function) || IsEmpty(file) || line <= 0 {
		t.Fatalf("Invalid caller info %s %s %d", function, file, line)
	}
	if !strings.Contains(file, "utils_test.go") {
		t.Fatalf("Invalid caller file %s", file)
	}
}
