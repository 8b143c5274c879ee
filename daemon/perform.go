// When adding a new verb to the daemon, several points in this file have to be updated:
//
// - a new handler has to be installed in RunDaemon()
// - a new case has to be added to constructReportCommand()
// - any local-only arguments that should never be forwarded need to be added to the blacklist
//   in argOk()
//
// and the JSON flavor of the verb has to be added in api.go.

package daemon

import (
	"errors"
	"fmt"
	"io"
	"log/syslog"
	"net/http"
	"strings"
	"syscall"

	. "effstat/cmd"
	"effstat/cmd/accounts"
	"effstat/cmd/users"
	. "effstat/common"
	"effstat/db"
)

// Note, this is deliberately not called Perform(), so that a DaemonCommand can never be mistaken
// for an ordinary verb and run through the local command path.

func (dc *DaemonCommand) RunDaemon(_ io.Reader, _, stderr io.Writer) error {
	if dc.useSyslog {
		logger, err := syslog.Dial("", "", syslog.LOG_INFO|syslog.LOG_USER, logTag)
		if err != nil {
			return fmt.Errorf("FATAL ERROR: Failing to open logger: %v", err)
		}
		Log.SetUnderlying(logger)
	}

	theDb, err := db.OpenDatabaseURI(dc.Database)
	if err != nil {
		return err
	}
	defer theDb.Close()
	dc.theDb = theDb

	var stopIngest func()
	if len(dc.kafkaBrokers) > 0 {
		if err := theDb.EnsureJobsTable(); err != nil {
			return err
		}
		stopIngest, err = dc.startIngest()
		if err != nil {
			return err
		}
	}

	// Note "daemon" is not a verb here.
	mux := http.NewServeMux()
	mux.HandleFunc("/users", httpReportHandler(dc, "users"))
	mux.HandleFunc("/accounts", httpReportHandler(dc, "accounts"))
	dc.addApi(mux)

	var programFailed bool
	s := newServer(int(dc.port), mux, func(err error) {
		programFailed = true
	})
	go s.Start()

	// Wait here until we're stopped by SIGHUP (manual), SIGTERM (from the OS during shutdown), or
	// SIGINT (foreground runs).
	WaitForSignal(syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	if stopIngest != nil {
		stopIngest()
	}
	s.Stop()

	if programFailed {
		return errors.New("HTTP server failed to start, or errored out")
	}
	return nil
}

// HTTP handlers
//
// Documented behavior: the server will close the request body, we don't need to do it.
//
// I can find no documentation about needing to consume the body in case of an early (error)
// return, nor anything obvious in the net/http source code to indicate this, nor has google
// turned up anything.  So request handler code assumes it's not necessary.

func httpReportHandler(
	dc *DaemonCommand,
	verb string,
) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if dc.Verbose {
			// The header carries the authorization, don't log it.
			Log.Infof("Request from %s: %v", r.RemoteAddr, r.URL.String())
		}
		if !assertMethod(w, r, "GET", dc.Verbose) {
			return
		}
		if !authenticate(w, r, dc.getAuthenticator, authRealm, dc.Verbose) {
			return
		}

		arguments := []string{}
		for name, vs := range r.URL.Query() {
			if !argOk(name) {
				w.WriteHeader(400)
				fmt.Fprintf(w, "Bad parameter %s", name)
				if dc.Verbose {
					Log.Warningf("Bad parameter %s", name)
				}
				return
			}

			// Repeated parameters are forwarded in order; the flag machinery lets the last one
			// win.
			//
			// Go requires "=" between parameter and value for boolean params, but allows it for
			// every type, so do it uniformly.
			for _, v := range vs {
				arguments = append(arguments, "--"+name+"="+v)
			}
		}

		stdout, ok := runReport(dc, w, verb, arguments)
		if !ok {
			return
		}

		w.WriteHeader(200)
		fmt.Fprint(w, stdout)
	}
}

// Disallow argument names that are malformed or have specific names.  This is not fabulous but
// maintaining a whitelist is a lot of work.

func argOk(arg string) bool {
	// Args are alphabetic and lower-case only, except that "-" is allowed except in the first
	// position.
	for i, c := range arg {
		switch {
		case c >= 'a' && c <= 'z':
			// OK
		case c == '-' && i > 0:
			// OK
		default:
			return false
		}
	}

	// Disallow single-letter options.
	if len(arg) <= 1 {
		return false
	}

	// Specific names are excluded: the daemon supplies the data source itself, and profiling and
	// remoting make no sense on this side.
	switch arg {
	case "db":
		// DatabaseArgs
		return false
	case "remote", "auth-file":
		// RemotingArgs
		return false
	case "cpuprofile", "memprofile":
		// DevArgs
		return false
	case "v", "verbose":
		// VerboseArgs
		return false
	default:
		return true
	}
}

func constructReportCommand(verb string) ReportCommand {
	switch verb {
	case "users":
		return new(users.UsersCommand)
	case "accounts":
		return new(accounts.AccountsCommand)
	default:
		return nil
	}
}

// Parse and validate the argument vector for the verb, run the report against the daemon's
// database, and render it into a string.  All errors yield a 4xx response with the error text as
// the body, the way a command line user would see it.

func runReport(
	dc *DaemonCommand,
	w http.ResponseWriter,
	verb string,
	arguments []string,
) (stdout string, ok bool) {
	cmdName := "<effstat>"
	if dc.Verbose {
		Log.Infof("Command: %s %s %s", cmdName, verb, strings.Join(arguments, " "))
	}

	command := constructReportCommand(verb)
	if command == nil {
		errResponse(w, 400, fmt.Errorf("Bad verb in daemon-dispatched command: %s", verb), dc.Verbose)
		return
	}

	fs := NewCLI(verb, command, cmdName, false)
	command.Add(fs)
	if err := fs.Parse(arguments); err != nil {
		errResponse(w, 400, err, dc.Verbose)
		return
	}
	if err := command.Validate(); err != nil {
		errResponse(w, 400, err, dc.Verbose)
		return
	}

	scored, err := command.Report(dc.theDb)
	if err != nil {
		errResponse(w, 400, err, dc.Verbose)
		return
	}

	var stdoutBuf strings.Builder
	command.Print(&stdoutBuf, scored)
	return stdoutBuf.String(), true
}

func errResponse(w http.ResponseWriter, code int, err error, verbose bool) {
	w.WriteHeader(code)
	fmt.Fprint(w, err.Error())
	if verbose {
		Log.Warningf("ERROR: %v", err)
	}
}
