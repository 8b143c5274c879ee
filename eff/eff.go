// Package eff computes resource-usage efficiency for the entities of a compute cluster: per-user
// or per-account ratios of used to requested cores, memory, and wall time, a composite score, a
// canonical ranking, and pre-display selection.
package eff

// UsageRow is one raw usage record from the row source: requested and used quantities for one
// entity over some slice of the reporting period.  The entity key is a user name or an account
// name, chosen by the query that produced the row.  Missing numeric fields must be mapped to zero
// by the producer, never to NaN.
type UsageRow struct {
	Entity string

	// GB
	MemoryRequested float64
	MemoryUsed      float64

	// Core-seconds: requested is cores held for the elapsed time, used is consumed cpu time.
	CoresRequested float64
	CoresUsed      float64

	// Seconds: requested is the time limit, used is the elapsed wall time.
	TimeRequested float64
	TimeUsed      float64

	Jobs int64
}

// Totals holds the accumulated resource quantities of one entity.  Totals are not mutated after
// the aggregation pass that created them.
type Totals struct {
	MemoryRequested float64
	MemoryUsed      float64
	CoresRequested  float64
	CoresUsed       float64
	TimeRequested   float64
	TimeUsed        float64
	Jobs            int64
}

func (t *Totals) add(r UsageRow) {
	t.MemoryRequested += r.MemoryRequested
	t.MemoryUsed += r.MemoryUsed
	t.CoresRequested += r.CoresRequested
	t.CoresUsed += r.CoresUsed
	t.TimeRequested += r.TimeRequested
	t.TimeUsed += r.TimeUsed
	t.Jobs += r.Jobs
}

// Aggregate reduces usage rows into per-entity totals.  Accumulation is order-insensitive: any
// permutation of the same rows yields the same totals.  No row is dropped.
func Aggregate(rows []UsageRow) map[string]*Totals {
	totals := make(map[string]*Totals)
	for _, r := range rows {
		t := totals[r.Entity]
		if t == nil {
			t = new(Totals)
			totals[r.Entity] = t
		}
		t.add(r)
	}
	return totals
}

// Sum rolls every entity's totals up into one, for account- or cluster-level rollups.  Efficiency
// computed from the summed totals weights every contributor by its usage, which is not the same
// thing as averaging the contributors' own percentages.
func Sum(totals map[string]*Totals) Totals {
	var sum Totals
	for _, t := range totals {
		sum.MemoryRequested += t.MemoryRequested
		sum.MemoryUsed += t.MemoryUsed
		sum.CoresRequested += t.CoresRequested
		sum.CoresUsed += t.CoresUsed
		sum.TimeRequested += t.TimeRequested
		sum.TimeUsed += t.TimeUsed
		sum.Jobs += t.Jobs
	}
	return sum
}
