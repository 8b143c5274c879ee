// The users verb: resource usage efficiency per user, optionally scoped to one account.

package users

import (
	"errors"
	"fmt"
	"io"

	. "effstat/cmd"
	"effstat/eff"
)

type UsersCommand struct {
	ReportArgs

	// Verb flags
	Account      string
	MinCoreHours float64

	// The population rollup for -summary, set by Report
	population eff.Scored
}

var (
	_ = ReportCommand((*UsersCommand)(nil))
)

func (uc *UsersCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Print resource usage efficiency per user.

For every user with jobs ending in the selected window, relate what the
jobs requested of cores, memory, and walltime to what they actually
consumed, as scores from 0 to 100 and a composite total.  Users are
ranked by total score over the full population before any selection
narrows the report.
`)
}

func (uc *UsersCommand) Add(fs *CLI) {
	uc.ReportArgs.Add(fs)
	fs.Group("record-filter")
	fs.StringVar(&uc.Account, "account", "",
		"Count only jobs charged to this `account` [default: all]")
	fs.Group("aggregation")
	fs.Float64Var(&uc.MinCoreHours, "min-core-hours", 0,
		"Also keep users with at least `h` core-hours used, even past -number")
}

func (uc *UsersCommand) ReifyForRemote(x *ArgReifier) error {
	x.String("account", uc.Account)
	x.Float64("min-core-hours", uc.MinCoreHours)
	return uc.ReportArgs.ReifyForRemote(x)
}

func (uc *UsersCommand) Validate() error {
	var e1, e2 error
	if uc.MinCoreHours < 0 {
		e1 = errors.New("-min-core-hours cannot be negative")
	}
	// The user roster is enumerable only per account, see slurm.Users.
	if uc.IncludeEmpty && uc.Account == "" {
		e2 = errors.New("-include-empty requires -account")
	}
	return errors.Join(e1, e2, uc.ReportArgs.Validate("users"))
}
