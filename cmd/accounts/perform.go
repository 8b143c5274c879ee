package accounts

import (
	"effstat/db"
	"effstat/eff"
	"effstat/slurm"
)

// Indirect for testing.
var clusterAccounts = slurm.Accounts

// Report computes the scored rows of the report.  As for users, the canonical rank is assigned
// over the full population before the score ceiling or the empty-row policy narrows it.

func (ac *AccountsCommand) Report(source db.UsageSource) ([]eff.Scored, error) {
	rows, err := source.AccountUsage(ac.Cluster, ac.FromDate, ac.ToDate)
	if err != nil {
		return nil, err
	}
	totals := eff.Aggregate(rows)
	if ac.IncludeEmpty {
		names, err := clusterAccounts()
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
	ac.population = eff.Compute("TOTAL", &sum)

	scored := eff.ComputeAll(totals)
	eff.Rank(scored)
	scored = eff.AccountSelection{
		MaxScore:     ac.MaxScore,
		IncludeEmpty: ac.IncludeEmpty,
	}.Apply(scored)
	eff.SortForDisplay(scored, ac.SortBy, ac.Ascending)
	return scored, nil
}
