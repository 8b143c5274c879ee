package eff

// Scored is one entity with its efficiency percentages, derived activity metrics, and its
// canonical rank.  Percentages are unclamped; a value above 100 is preserved.
type Scored struct {
	Entity    string
	Cores     float64
	Memory    float64
	Time      float64
	Total     float64
	CoreHours float64
	Jobs      int64
	Rank      int
}

// Compute turns totals into an efficiency score.
//
// Each component is 100*used/requested, with a zero denominator yielding 0.  A job population that
// never recorded cpu accounting has zero for both core quantities; the cores component then
// borrows the time component.  The composite is the sum of the nonzero components divided by
// their count, divisor at least 1.
func Compute(entity string, t *Totals) Scored {
	cores := ratio(t.CoresUsed, t.CoresRequested)
	memory := ratio(t.MemoryUsed, t.MemoryRequested)
	wall := ratio(t.TimeUsed, t.TimeRequested)
	if t.CoresUsed == 0 && t.CoresRequested == 0 {
		cores = wall
	}
	return Scored{
		Entity:    entity,
		Cores:     cores,
		Memory:    memory,
		Time:      wall,
		Total:     composite(cores, memory, wall),
		CoreHours: t.CoresUsed / 3600,
		Jobs:      t.Jobs,
	}
}

// ComputeAll scores every entity.  The result is unordered; run Rank on it.
func ComputeAll(totals map[string]*Totals) []Scored {
	scored := make([]Scored, 0, len(totals))
	for entity, t := range totals {
		scored = append(scored, Compute(entity, t))
	}
	return scored
}

// Quantities can be zero in surprising ways, so always guard divisions.
func ratio(used, requested float64) float64 {
	if requested == 0 {
		return 0
	}
	return 100 * used / requested
}

func composite(components ...float64) float64 {
	sum := 0.0
	n := 0
	for _, c := range components {
		if c != 0 {
			sum += c
			n++
		}
	}
	return sum / float64(max(1, n))
}
