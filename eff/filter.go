package eff

import (
	"cmp"
	"slices"
)

// UserSelection restricts a user report to the interesting rows.  A row is kept if it is among
// the Top most active users by core-hours, or if its core-hours meet MinCoreHours when that
// threshold is positive.  With neither criterion set, every row is kept.  Rows with no jobs are
// dropped first unless IncludeEmpty is set.
type UserSelection struct {
	Top          int
	MinCoreHours float64
	IncludeEmpty bool
}

func (sel UserSelection) Apply(scored []Scored) []Scored {
	scored = dropEmpty(scored, sel.IncludeEmpty)
	if sel.Top <= 0 && sel.MinCoreHours <= 0 {
		return scored
	}
	topmost := make(map[string]bool)
	if sel.Top > 0 {
		byActivity := slices.Clone(scored)
		slices.SortStableFunc(byActivity, func(a, b Scored) int {
			if c := cmp.Compare(b.CoreHours, a.CoreHours); c != 0 {
				return c
			}
			return cmp.Compare(a.Rank, b.Rank)
		})
		for _, s := range byActivity[:min(sel.Top, len(byActivity))] {
			topmost[s.Entity] = true
		}
	}
	result := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if topmost[s.Entity] || (sel.MinCoreHours > 0 && s.CoreHours >= sel.MinCoreHours) {
			result = append(result, s)
		}
	}
	return result
}

// AccountSelection restricts an account report to rows that need attention: accounts whose
// composite score reaches MaxScore are dropped when that ceiling is positive.  Rows with no jobs
// are dropped first unless IncludeEmpty is set.
type AccountSelection struct {
	MaxScore     float64
	IncludeEmpty bool
}

func (sel AccountSelection) Apply(scored []Scored) []Scored {
	scored = dropEmpty(scored, sel.IncludeEmpty)
	if sel.MaxScore <= 0 {
		return scored
	}
	result := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if s.Total < sel.MaxScore {
			result = append(result, s)
		}
	}
	return result
}

func dropEmpty(scored []Scored, includeEmpty bool) []Scored {
	if includeEmpty {
		return scored
	}
	result := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if s.Jobs > 0 {
			result = append(result, s)
		}
	}
	return result
}
