package users

import (
	"effstat/db"
	"effstat/eff"
	"effstat/slurm"
)

// Indirect for testing.
var accountUsers = slurm.Users

// Report computes the scored rows of the report: aggregate the window's usage per user, score and
// rank the whole population, then select and order for display.  The canonical rank is assigned
// before selection so that a narrowed report still shows each user's standing among all users.

func (uc *UsersCommand) Report(source db.UsageSource) ([]eff.Scored, error) {
	rows, err := source.UserUsage(uc.Cluster, uc.FromDate, uc.ToDate, uc.Account)
	if err != nil {
		return nil, err
	}
	totals := eff.Aggregate(rows)
	if uc.IncludeEmpty {
		names, err := accountUsers(uc.Account)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if totals[name] == nil {
				totals[name] = new(eff.Totals)
			}
		}
	}
	sum := eff.Sum(totals)
	uc.population = eff.Compute("TOTAL", &sum)

	scored := eff.ComputeAll(totals)
	eff.Rank(scored)
	scored = eff.UserSelection{
		Top:          uc.Number,
		MinCoreHours: uc.MinCoreHours,
		IncludeEmpty: uc.IncludeEmpty,
	}.Apply(scored)
	eff.SortForDisplay(scored, uc.SortBy, uc.Ascending)
	return scored, nil
}
