package slurm

import (
	"errors"
	"slices"
	"testing"
)

func TestAccounts(t *testing.T) {
	saved := runSacctmgr
	defer func() { runSacctmgr = saved }()

	var gotArgs []string
	runSacctmgr = func(args []string) (string, error) {
		gotArgs = args
		return "root\nnn9999k\n\nnn1234x\n", nil
	}
	accounts, err := Accounts()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(accounts, []string{"root", "nn9999k", "nn1234x"}) {
		t.Fatalf("accounts %v", accounts)
	}
	if !slices.Equal(gotArgs, []string{"-nP", "show", "accounts", "format=Account"}) {
		t.Fatalf("args %v", gotArgs)
	}
}

func TestUsers(t *testing.T) {
	saved := runSacctmgr
	defer func() { runSacctmgr = saved }()

	var gotArgs []string
	runSacctmgr = func(args []string) (string, error) {
		gotArgs = args
		// One row per association: duplicates and blank rows appear in real output.
		return "alice\n\nbob\nalice\n  \ncarol\n", nil
	}
	users, err := Users("nn9999k")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(users, []string{"alice", "bob", "carol"}) {
		t.Fatalf("users %v", users)
	}
	if !slices.Equal(gotArgs, []string{"-nP", "show", "assoc", "account=nn9999k", "format=User"}) {
		t.Fatalf("args %v", gotArgs)
	}
}

func TestSacctmgrFailure(t *testing.T) {
	saved := runSacctmgr
	defer func() { runSacctmgr = saved }()

	boom := errors.New("While running sacctmgr: exit status 1")
	runSacctmgr = func(args []string) (string, error) {
		return "", boom
	}
	if _, err := Accounts(); !errors.Is(err, boom) {
		t.Fatalf("expected the subprocess error, got %v", err)
	}
	if _, err := Users("x"); !errors.Is(err, boom) {
		t.Fatalf("expected the subprocess error, got %v", err)
	}
}
