package cmd

import (
	"io"

	"effstat/db"
	"effstat/eff"
)

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Any command of any type must be able to define and validate command line args, and handle some
// developer arguments.

type Command interface {
	// Return the name of the cpu profile file, if requested
	CpuProfileFile() string

	// Return the name of the heap profile file, if requested
	MemProfileFile() string

	// Documentation, with formatting and line breaks
	Summary(out io.Writer)

	// Add all arguments including shared arguments
	Add(fs *CLI)

	// Validate all arguments including shared arguments
	Validate() error

	// The -v flag
	VerboseFlag() bool
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// A command that an effstat daemon can run on our behalf.

type RemotableCommand interface {
	Command

	// Reify all arguments including shared arguments for remote execution, with checking
	ReifyForRemote(x *ArgReifier) error

	RemotingFlags() *RemotingArgs
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// A report-generating command: users, accounts.  Report computes the scored, ranked, selected, and
// display-ordered entities from the data source; Print renders them.  The split lets the daemon
// reuse Report for its JSON API while the command line and the daemon's text bridge run both.

type ReportCommand interface {
	RemotableCommand

	// Retrieve shared arguments
	ReportFlags() *ReportArgs

	Report(source db.UsageSource) ([]eff.Scored, error)

	Print(out io.Writer, scored []eff.Scored)
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Represents a simple command that handles its own logic completely: version.

type PrimitiveCommand interface {
	Command

	Perform(in io.Reader, stdout, stderr io.Writer) error
}
