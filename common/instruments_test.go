package common

import (
	"testing"
	"time"
)

func TestCounter(t *testing.T) {

	counter := NewCounter()
	if counter.Kind() != KindCounter {
		t.Fatal("Invalid kind")
	}

	counter.Inc().Inc().Add(3)
	if counter.Count() != 5 {
		t.Fatalf("Invalid count %d", counter.Count())
	}

	counter.Dec()
	if counter.Count() != 4 {
		t.Fatalf("Invalid count %d", counter.Count())
	}
}

func TestGauge(t *testing.T) {

	value := 1.5
	gauge := NewGauge(func() float64 {
		return value
	})
	if gauge.Kind() != KindGauge {
		t.Fatal("Invalid kind")
	}
	if gauge.Value() != 1.5 {
		t.Fatalf("Invalid value %f", gauge.Value())
	}

	value = 2.5
	if gauge.Value() != 2.5 {
		t.Fatal("Gauge should reflect the live value")
	}

	if NewGauge(nil).Value() != 0 {
		t.Fatal("Gauge without source should read zero")
	}
}

func TestHistogram(t *testing.T) {

	histogram := NewHistogram()
	if histogram.Kind() != KindHistogram {
		t.Fatal("Invalid kind")
	}
	if histogram.Count() != 0 || histogram.Mean() != 0 {
		t.Fatal("Fresh histogram should be empty")
	}

	histogram.Update(10).Update(-2).Update(4)

	if histogram.Count() != 3 {
		t.Fatalf("Invalid count %d", histogram.Count())
	}
	if histogram.Min() != -2 || histogram.Max() != 10 {
		t.Fatalf("Invalid bounds %d %d", histogram.Min(), histogram.Max())
	}
	if histogram.Sum() != 12 {
		t.Fatalf("Invalid sum %d", histogram.Sum())
	}
	if histogram.Mean() != 4 {
		t.Fatalf("Invalid mean %f", histogram.Mean())
	}
}

func TestMeter(t *testing.T) {

	meter := NewMeter()
	if meter.Kind() != KindMeter {
		t.Fatal("Invalid kind")
	}
	if meter.MeanRate() != 0 {
		t.Fatal("Fresh meter should have zero rate")
	}

	meter.Mark(1).Mark(4)
	if meter.Count() != 5 {
		t.Fatalf("Invalid count %d", meter.Count())
	}
	if meter.MeanRate() <= 0 {
		t.Fatalf("Invalid rate %f", meter.MeanRate())
	}
}

func TestTimer(t *testing.T) {

	timer := NewTimer()
	if timer.Kind() != KindTimer {
		t.Fatal("Invalid kind")
	}

	timer.Update(10 * time.Millisecond)
	timer.Update(30 * time.Millisecond)
	timer.Update(-time.Millisecond) // negative durations are dropped

	if timer.Count() != 2 {
		t.Fatalf("Invalid count %d", timer.Count())
	}
	if timer.Min() != 10*time.Millisecond || timer.Max() != 30*time.Millisecond {
		t.Fatalf("Invalid bounds %s %s", timer.Min(), timer.Max())
	}
	if timer.Mean() != 20*time.Millisecond {
		t.Fatalf("Invalid mean %s", timer.Mean())
	}

	timer.Time(func() {
		time.Sleep(time.Millisecond)
	})
	if timer.Count() != 3 {
		t.Fatal("Time should record one duration")
	}
	if timer.Max() < time.Millisecond {
		t.Fatalf("Invalid max %s", timer.Max())
	}
	if timer.MeanRate() <= 0 {
		t.Fatalf("Invalid rate %f", timer.MeanRate())
	}
}
