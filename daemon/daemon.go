// `effstat daemon` - HTTP server that runs effstat reports on behalf of remote clients.
//
// This server responds to GET requests carrying parameters that specify how to run a report
// against the daemon's database.  The path is the report verb, eg, `GET /users?...` will run
// `effstat users`.  Parameter names are the long option names of the verb and parameter values
// are urlencoded as necessary; boolean values are `true` or `false`.  The returned output is the
// rendered report, whether for success or error.  A successful run yields 2xx and an error yields
// 4xx or 5xx.
//
// The same reports are available as JSON under /api/v1, along with a health endpoint and
// generated OpenAPI documentation under /docs.
//
// Arguments:
//
// -db <uri>
//
//  This is a required argument (though it can come from ~/.effstat).  It is the postgres
//  connection URI for the job database that the reports run against.
//
// -port <port-number>
//
//  This is an optional argument.  It is the port number on which to listen, the default is 8087.
//
// -kafka <brokers>
//
//  This is an optional argument.  It is a comma-separated list of Kafka broker addresses to
//  consume job records from; ingestion is disabled when it is absent.  Ingestion requires
//  -cluster, which names the topic the records arrive on.
//
// -analysis-auth <filename>
// -password-file <filename>
//
//  This is an optional argument.  It names a file with username:password pairs, one per line, to
//  be matched with values in an incoming HTTP basic authentication header.  (Note, if the
//  connection is not HTTPS then the password may have been intercepted in transit.)
//
// Termination:
//
//  Sending SIGHUP, SIGTERM or SIGINT to `effstat daemon` will shut it down in an orderly manner.
//
//  The daemon is usually run in the background and exit codes are not easily examined, but when
//  the daemon exits it will deliver a non-zero exit code if an error was discovered during
//  startup or shutdown.
//
// Logging:
//
//  With -syslog the daemon logs everything to the syslog with the tag defined below ("logTag");
//  otherwise log output goes to stderr.

package daemon

import (
	"errors"
	"fmt"
	"io"
	"strings"

	. "effstat/cmd"
	. "effstat/common"
	"effstat/db"
)

const (
	defaultListenPort = 8087
	logTag            = "effstat/daemon"
	authRealm         = "effstat remote access"
)

// Immutable after Validate (no mutator operations) and thread-safe.  It *will* be accessed
// concurrently b/c every HTTP handler runs as a separate goroutine.
type DaemonCommand struct {
	DevArgs
	VerboseArgs
	DatabaseArgs
	port        uint
	kafka       string
	useSyslog   bool
	getAuthFile string

	kafkaBrokers     []string
	getAuthenticator *Authenticator
	theDb            *db.DatabaseConnection
}

func (dc *DaemonCommand) Add(fs *CLI) {
	dc.DevArgs.Add(fs)
	dc.VerboseArgs.Add(fs)
	dc.DatabaseArgs.Add(fs)
	fs.Group("daemon-configuration")
	fs.UintVar(&dc.port, "port", defaultListenPort, "Listen for connections on `port`")
	fs.StringVar(&dc.kafka, "kafka", "",
		"Ingest job records from these Kafka `brokers` (comma-separated) [default: no ingest]")
	fs.BoolVar(&dc.useSyslog, "syslog", false, "Log to the syslog instead of stderr")
	fs.StringVar(&dc.getAuthFile, "analysis-auth", "",
		"Authentication info `filename` for report access")
	fs.StringVar(&dc.getAuthFile, "password-file", "", "Alias for -analysis-auth `filename`")
}

func (dc *DaemonCommand) Summary(out io.Writer) {
	fmt.Fprint(out, `Run effstat as an HTTP server that serves the report verbs.

GET /users and GET /accounts run the corresponding verb with the query
parameters as command line options and return the rendered report.
GET /api/v1/users, /api/v1/accounts and /api/v1/health return JSON.
With -kafka, job records are also consumed from the <cluster>.job topic
and stored in the database.
`)
}

func (dc *DaemonCommand) Validate() error {
	var e1, e2, e3, e4, e5 error
	e1 = dc.DevArgs.Validate()
	e2 = dc.VerboseArgs.Validate()
	if d := DefaultsForVerb("daemon"); d != nil {
		ApplyDefault(&dc.Database, d.Database)
		ApplyDefault(&dc.Cluster, d.Cluster)
	}
	if dc.Database == "" {
		e3 = errors.New("Required -db, on the command line or in ~/.effstat")
	}
	if dc.kafka != "" {
		dc.kafkaBrokers = strings.Split(dc.kafka, ",")
		if dc.Cluster == "" {
			e4 = errors.New("-kafka requires -cluster, to name the ingest topic")
		}
	}
	if dc.getAuthFile != "" {
		dc.getAuthenticator, e5 = ReadPasswords(dc.getAuthFile)
		if e5 != nil {
			e5 = fmt.Errorf("Failed to read analysis authentication file: %w", e5)
		}
	}
	return errors.Join(e1, e2, e3, e4, e5)
}
