// `effstat` -- report resource usage efficiency for Slurm clusters
//
// Run `effstat help` for brief help, `effstat help <verb>` or `effstat <verb> -h` for help about
// a verb.

package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"effstat/application"
	. "effstat/cmd"
	"effstat/common"
	"effstat/daemon"
)

func main() {
	err := effstat()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func effstat() error {
	anyCmd, verb := commandLine()

	if anyCmd.CpuProfileFile() != "" {
		f, err := os.Create(anyCmd.CpuProfileFile())
		if err != nil {
			return fmt.Errorf("Failed to create profile\n%w", err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}
	if anyCmd.MemProfileFile() != "" {
		defer func() {
			f, err := os.Create(anyCmd.MemProfileFile())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to create profile\n%v\n", err)
				return
			}
			defer f.Close()
			runtime.GC()
			pprof.WriteHeapProfile(f)
		}()
	}

	common.Log.SetVerbose(anyCmd.VerboseFlag())

	if rCmd, ok := anyCmd.(RemotableCommand); ok && rCmd.RemotingFlags().Remoting {
		return application.RemoteOperation(rCmd, verb, os.Stdout)
	}

	// The daemon is not an ordinary verb, it runs the whole show.
	if dCmd, ok := anyCmd.(*daemon.DaemonCommand); ok {
		return dCmd.RunDaemon(os.Stdin, os.Stdout, os.Stderr)
	}

	return application.HandleCommand(anyCmd, os.Stdin, os.Stdout, os.Stderr)
}

func commandLine() (Command, string) {
	out := CLIOutput()

	if len(os.Args) < 2 {
		fmt.Fprintf(out, "Required operation missing, try `effstat help`\n")
		os.Exit(2)
	}

	verb := os.Args[1]
	args := os.Args[2:]

	if verb == "help" || verb == "-h" {
		if len(args) > 0 {
			if command, actualVerb := application.ConstructCommand(args[0]); command != nil {
				fs := NewCLI(actualVerb, command, os.Args[0], true)
				command.Add(fs)
				fs.Usage()
				os.Exit(0)
			}
		}
		fmt.Fprintf(out, "Usage: %s command [options]\n", os.Args[0])
		fmt.Fprintf(out, "Commands:\n")
		application.CommandHelp(out)
		fmt.Fprintf(out, "Each command accepts -h to further explain options.\n")
		os.Exit(0)
	}

	command, actualVerb := application.ConstructCommand(verb)
	if command == nil {
		fmt.Fprintf(out, "Unknown operation `%s`, try `effstat help`\n", verb)
		os.Exit(2)
	}
	verb = actualVerb

	fs := NewCLI(verb, command, os.Args[0], true)
	command.Add(fs)
	fs.Parse(args)

	if fs.NArg() > 0 {
		fmt.Fprintf(out, "Rest arguments not accepted by `%s`.\n", verb)
		os.Exit(2)
	}

	if err := command.Validate(); err != nil {
		fmt.Fprintf(out, "Bad arguments, try -h\n%v\n", err)
		os.Exit(2)
	}

	return command, verb
}
