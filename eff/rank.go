package eff

import (
	"cmp"
	"fmt"
	"slices"
)

// Metric selects the column a report is displayed by.
type Metric int

const (
	MetricTotal Metric = iota
	MetricCores
	MetricMemory
	MetricTime
)

func ParseMetric(name string) (Metric, error) {
	switch name {
	case "total":
		return MetricTotal, nil
	case "cores":
		return MetricCores, nil
	case "memory", "mem":
		return MetricMemory, nil
	case "time":
		return MetricTime, nil
	default:
		return MetricTotal, fmt.Errorf("Invalid sort metric %s", name)
	}
}

func (m Metric) valueOf(s *Scored) float64 {
	switch m {
	case MetricCores:
		return s.Cores
	case MetricMemory:
		return s.Memory
	case MetricTime:
		return s.Time
	default:
		return s.Total
	}
}

// Rank sorts by composite total descending and assigns dense 1-based ranks in that order.  The
// rank is canonical: it is computed once over the full population, before any selection, and does
// not change with the display metric.  Entity name breaks total ties so that ranking is
// deterministic.
func Rank(scored []Scored) {
	slices.SortStableFunc(scored, func(a, b Scored) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Entity, b.Entity)
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}
}

// SortForDisplay orders entities by the metric, ascending or descending.  Entities with equal
// metric values stay in canonical rank order, best rank first, whatever the direction.
func SortForDisplay(scored []Scored, m Metric, ascending bool) {
	slices.SortStableFunc(scored, func(a, b Scored) int {
		c := cmp.Compare(m.valueOf(&a), m.valueOf(&b))
		if !ascending {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.Rank, b.Rank)
		}
		return c
	})
}
