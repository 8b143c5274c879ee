package eff

import (
	"testing"
)

func TestComputeComponents(t *testing.T) {
	// Cores were requested but accounting recorded no cpu time, so the cores component is a true
	// zero and is excluded from the composite: (50+80)/2, not (0+50+80)/3.
	s := Compute("u-ligaya", &Totals{
		MemoryRequested: 100,
		MemoryUsed:      50,
		CoresRequested:  100,
		CoresUsed:       0,
		TimeRequested:   100,
		TimeUsed:        80,
		Jobs:            1,
	})
	if s.Entity != "u-ligaya" {
		t.Fatalf("Bad entity %s", s.Entity)
	}
	if s.Cores != 0 {
		t.Fatalf("Expected zero cores component, got %v", s.Cores)
	}
	if s.Memory != 50 {
		t.Fatalf("Expected memory 50, got %v", s.Memory)
	}
	if s.Time != 80 {
		t.Fatalf("Expected time 80, got %v", s.Time)
	}
	if s.Total != 65 {
		t.Fatalf("Expected total 65, got %v", s.Total)
	}
}

func TestComputeAllZero(t *testing.T) {
	s := Compute("u-nobody", &Totals{})
	if s.Cores != 0 || s.Memory != 0 || s.Time != 0 || s.Total != 0 || s.CoreHours != 0 {
		t.Fatalf("Expected all-zero score, got %+v", s)
	}
}

func TestComputeCoresBorrowsTime(t *testing.T) {
	// No cpu accounting at all: both core quantities are zero and the cores component borrows the
	// time component instead of dragging the composite down.
	s := Compute("u-marit", &Totals{
		TimeRequested: 100,
		TimeUsed:      40,
		Jobs:          2,
	})
	if s.Cores != 40 {
		t.Fatalf("Expected borrowed cores 40, got %v", s.Cores)
	}
	if s.Total != 40 {
		t.Fatalf("Expected total 40, got %v", s.Total)
	}
}

func TestComputeZeroDenominator(t *testing.T) {
	// Usage without a recorded request must not produce Inf or NaN.
	s := Compute("u-odd", &Totals{MemoryUsed: 10, Jobs: 1})
	if s.Memory != 0 {
		t.Fatalf("Expected memory 0, got %v", s.Memory)
	}
	if s.Total != 0 {
		t.Fatalf("Expected total 0, got %v", s.Total)
	}
}

func TestComputeUnclamped(t *testing.T) {
	// Oversubscribed cpu: more cpu time consumed than cores were held for.  The percentage is
	// reported as is.
	s := Compute("u-busy", &Totals{CoresRequested: 100, CoresUsed: 150, Jobs: 1})
	if s.Cores != 150 {
		t.Fatalf("Expected cores 150, got %v", s.Cores)
	}
}

func TestComputeCoreHours(t *testing.T) {
	s := Compute("u-any", &Totals{CoresRequested: 10000, CoresUsed: 7200, Jobs: 1})
	if s.CoreHours != 2 {
		t.Fatalf("Expected 2 core-hours, got %v", s.CoreHours)
	}
}

func TestSumWeightsByUsage(t *testing.T) {
	// One small fully-efficient user and one large idle user.  The rollup efficiency is computed
	// from the summed quantities, 100*100/1100, not the 50 a naive mean of the two users' own
	// percentages would give.
	totals := Aggregate([]UsageRow{
		{Entity: "u-small", TimeRequested: 100, TimeUsed: 100, Jobs: 1},
		{Entity: "u-large", TimeRequested: 1000, TimeUsed: 0, Jobs: 1},
	})
	all := Sum(totals)
	s := Compute("TOTAL", &all)
	if s.Time != 100.0*100.0/1100.0 {
		t.Fatalf("Expected weighted time efficiency, got %v", s.Time)
	}
	if s.Time >= 50 {
		t.Fatalf("Rollup was not weighted by usage: %v", s.Time)
	}
}

func TestComputeAllCoversEveryEntity(t *testing.T) {
	scored := ComputeAll(Aggregate(testRows()))
	if len(scored) != 3 {
		t.Fatalf("Expected 3 scored entities, got %d", len(scored))
	}
	seen := make(map[string]bool)
	for _, s := range scored {
		seen[s.Entity] = true
		if s.Rank != 0 {
			t.Fatalf("Rank assigned prematurely for %s", s.Entity)
		}
	}
	for _, entity := range []string{"ec-pilot", "ec-wind", "ec-solar"} {
		if !seen[entity] {
			t.Fatalf("Missing entity %s", entity)
		}
	}
}
