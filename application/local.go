// Application logic for running a report against a local database.

package application

import (
	"errors"
	"io"

	. "effstat/cmd"
	"effstat/db"
)

func LocalReportOperation(command ReportCommand, stdout io.Writer) error {
	args := command.ReportFlags()
	if args.Database == "" {
		return errors.New("No database specified, use -db or a default in ~/.effstat")
	}
	theDb, err := db.OpenDatabaseURI(args.Database)
	if err != nil {
		return err
	}
	defer theDb.Close()

	scored, err := command.Report(theDb)
	if err != nil {
		return err
	}
	command.Print(stdout, scored)
	return nil
}

// Dispatch on the command's type.  The daemon never comes through here, the top level runs it
// directly so that a daemon can't be mistaken for an ordinary verb.

func HandleCommand(anyCmd Command, stdin io.Reader, stdout, stderr io.Writer) error {
	switch c := anyCmd.(type) {
	case ReportCommand:
		return LocalReportOperation(c, stdout)
	case PrimitiveCommand:
		return c.Perform(stdin, stdout, stderr)
	default:
		return errors.New("Unhandled command type")
	}
}
