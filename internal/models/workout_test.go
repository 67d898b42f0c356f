package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

var created = time.Date(2026, time.April, 14, 9, 30, 0, 0, time.UTC)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestNewRunning verifies pace = duration/distance and the label format.
func TestNewRunning(t *testing.T) {
	w, err := NewRunning("1234567890", created, Coords{39, -12}, 5.2, 24, 178)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(w.Pace, 24/5.2) {
		t.Errorf("pace = %v, want %v", w.Pace, 24/5.2)
	}
	if w.Label != "Running on April 14" {
		t.Errorf("label = %q, want %q", w.Label, "Running on April 14")
	}
	if w.Cadence != 178 || w.Speed != 0 {
		t.Errorf("cadence = %v speed = %v, want 178 and 0", w.Cadence, w.Speed)
	}
}

// TestNewCycling verifies speed = distance/(duration/60).
func TestNewCycling(t *testing.T) {
	w, err := NewCycling("1234567891", created, Coords{39, -12}, 27, 95, 523)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(w.Speed, 27/(95.0/60)) {
		t.Errorf("speed = %v, want %v", w.Speed, 27/(95.0/60))
	}
	if w.Label != "Cycling on April 14" {
		t.Errorf("label = %q", w.Label)
	}
}

// TestNewRejectsInvalid verifies that the factory refuses NaN, infinities,
// zero and negative core inputs for both variants.
func TestNewRejectsInvalid(t *testing.T) {
	bad := []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, -1}
	for _, v := range bad {
		if _, err := NewRunning("1", created, Coords{}, v, 10, 170); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("NewRunning(distance=%v) err = %v, want ErrInvalidInput", v, err)
		}
		if _, err := NewRunning("1", created, Coords{}, 5, 10, v); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("NewRunning(cadence=%v) err = %v, want ErrInvalidInput", v, err)
		}
		if _, err := NewCycling("1", created, Coords{}, 5, v, 10); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("NewCycling(duration=%v) err = %v, want ErrInvalidInput", v, err)
		}
	}
}

// TestNewUnknownType verifies that New rejects an unknown variant tag.
func TestNewUnknownType(t *testing.T) {
	if _, err := New("swimming", "1", created, Coords{}, 1, 1, 1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

// TestReplaceKeepsIdentity verifies that an edit overwrites inputs and derived
// values while ID, CreatedAt and Coords stay put.
func TestReplaceKeepsIdentity(t *testing.T) {
	w, _ := NewRunning("1234567890", created, Coords{39, -12}, 5.2, 24, 178)
	if err := w.Replace(Running, 10, 50, 160); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.ID != "1234567890" || !w.CreatedAt.Equal(created) || w.Coords != (Coords{39, -12}) {
		t.Errorf("identity changed: %+v", w)
	}
	if !approx(w.Pace, 5.0) || w.Cadence != 160 || w.Distance != 10 || w.Duration != 50 {
		t.Errorf("replace result = %+v", w)
	}
}

// TestReplaceSwitchesVariant verifies that switching running to cycling drops
// cadence and pace and computes speed.
func TestReplaceSwitchesVariant(t *testing.T) {
	w, _ := NewRunning("1234567890", created, Coords{39, -12}, 5.2, 24, 178)
	if err := w.Replace(Cycling, 30, 60, -5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Type != Cycling {
		t.Errorf("type = %q, want cycling", w.Type)
	}
	if w.Cadence != 0 || w.Pace != 0 {
		t.Errorf("running payload not cleared: cadence=%v pace=%v", w.Cadence, w.Pace)
	}
	if !approx(w.Speed, 30) || w.ElevationGain != -5 {
		t.Errorf("speed = %v elevation = %v", w.Speed, w.ElevationGain)
	}
	if w.Label != "Cycling on April 14" {
		t.Errorf("label = %q", w.Label)
	}
}

// TestReplaceInvalidLeavesRecord verifies that a failed edit changes nothing.
func TestReplaceInvalidLeavesRecord(t *testing.T) {
	w, _ := NewRunning("1234567890", created, Coords{39, -12}, 5.2, 24, 178)
	before := *w
	if err := w.Replace(Running, -1, 50, 160); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if *w != before {
		t.Errorf("record mutated on failed replace: %+v", w)
	}
}

// TestNewID verifies the ID keeps only the last 10 digits of the Unix millisecond clock.
func TestNewID(t *testing.T) {
	at := time.UnixMilli(1712345678901)
	if got := NewID(at); got != "2345678901" {
		t.Errorf("NewID = %q, want %q", got, "2345678901")
	}
}

// TestClick verifies the interaction counter.
func TestClick(t *testing.T) {
	w := &Workout{}
	w.Click()
	w.Click()
	if w.Clicks != 2 {
		t.Errorf("clicks = %d, want 2", w.Clicks)
	}
}
