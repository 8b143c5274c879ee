// Package slurm wraps the Slurm accounting tool that effstat shells out to.  sacctmgr is the
// directory of accounts and account membership; reports consult it when zero-activity entities
// are to be included, since those never appear in the job database.
package slurm

import (
	"strings"
	"time"

	"effstat/common"
)

const sacctmgrTimeout = 30 * time.Second

// The runner is a hook so that tests can supply canned sacctmgr output.
var runSacctmgr = func(args []string) (string, error) {
	return common.RunSubprocess(sacctmgrTimeout, "sacctmgr", args)
}

// Accounts enumerates the accounts known to the cluster, in sacctmgr's order.
func Accounts() ([]string, error) {
	stdout, err := runSacctmgr([]string{"-nP", "show", "accounts", "format=Account"})
	if err != nil {
		return nil, err
	}
	return nonblankLines(stdout), nil
}

// Users enumerates the user members of the account.  An account row appears once per partition
// association, so duplicates are normal and are dropped here.
func Users(account string) ([]string, error) {
	stdout, err := runSacctmgr([]string{"-nP", "show", "assoc", "account=" + account, "format=User"})
	if err != nil {
		return nil, err
	}
	return nonblankLines(stdout), nil
}

func nonblankLines(s string) []string {
	lines := make([]string, 0)
	seen := make(map[string]bool)
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		lines = append(lines, l)
	}
	return lines
}
