package application

import (
	"fmt"
	"io"

	"effstat/cmd"
	"effstat/cmd/accounts"
	"effstat/cmd/users"
	"effstat/cmd/version"
	"effstat/daemon"
)

func CommandHelp(out io.Writer) {
	fmt.Fprintf(out, "  users    - print resource usage efficiency per user\n")
	fmt.Fprintf(out, "  accounts - print resource usage efficiency per account\n")
	fmt.Fprintf(out, "  daemon   - serve reports over HTTP, optionally ingesting job data\n")
	fmt.Fprintf(out, "  version  - print information about the program\n")
	fmt.Fprintf(out, "  help     - print this message\n")
}

func ConstructCommand(verb string) (command cmd.Command, actualVerb string) {
	switch verb {
	case "user", "users":
		command = new(users.UsersCommand)
		verb = "users"
	case "account", "accounts":
		command = new(accounts.AccountsCommand)
		verb = "accounts"
	case "daemon":
		command = new(daemon.DaemonCommand)
	case "version":
		command = new(version.VersionCommand)
	}
	actualVerb = verb
	return
}
