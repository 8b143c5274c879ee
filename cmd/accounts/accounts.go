// The accounts verb: resource usage efficiency rolled up per account.

package accounts

import (
	"errors"
	"fmt"
	"io"

	. "effstat/cmd"
	"effstat/eff"
)

type AccountsCommand struct {
	ReportArgs

	// Verb flags
	MaxScore float64

	// The population rollup for -summary, set by Report
	population eff.Scored
}

var (
	_ = ReportCommand((*AccountsCommand)(nil))
)

func (ac *AccountsCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Print resource usage efficiency per account.

Jobs ending in the selected window are rolled up per account, weighting
every job by its size, and each account gets cores, memory, and walltime
scores from 0 to 100 plus a composite total.  Use -max-score to keep
only the accounts that need attention.
`)
}

func (ac *AccountsCommand) Add(fs *CLI) {
	ac.ReportArgs.Add(fs)
	fs.Group("aggregation")
	fs.Float64Var(&ac.MaxScore, "max-score", 0,
		"Print only accounts with a total score below `s` [default: all]")
}

func (ac *AccountsCommand) ReifyForRemote(x *ArgReifier) error {
	x.Float64("max-score", ac.MaxScore)
	return ac.ReportArgs.ReifyForRemote(x)
}

func (ac *AccountsCommand) Validate() error {
	var e1 error
	if ac.MaxScore < 0 {
		e1 = errors.New("-max-score cannot be negative")
	}
	return errors.Join(e1, ac.ReportArgs.Validate("accounts"))
}
