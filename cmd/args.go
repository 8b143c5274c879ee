package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	. "effstat/common"
	"effstat/eff"
	. "effstat/table"
)

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// DevArgs are for development and are excluded from remote execution.

type DevArgs struct {
	CpuProfile string
	MemProfile string
}

func (d *DevArgs) CpuProfileFile() string {
	return d.CpuProfile
}

func (d *DevArgs) MemProfileFile() string {
	return d.MemProfile
}

func (d *DevArgs) Add(fs *CLI) {
	fs.Group("development")
	fs.StringVar(&d.CpuProfile, "cpuprofile", "",
		"(Development) write cpu profile to `filename`")
	fs.StringVar(&d.MemProfile, "memprofile", "",
		"(Development) write heap profile to `filename` at exit")
}

func (d *DevArgs) ReifyForRemote(x *ArgReifier) error {
	if d.CpuProfile != "" || d.MemProfile != "" {
		return errors.New("-cpuprofile and -memprofile not allowed with remote execution")
	}
	return nil
}

func (d *DevArgs) Validate() error {
	return nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// You wouldn't think -v would be so complicated.

type VerboseArgs struct {
	Verbose bool
}

func (va *VerboseArgs) Add(fs *CLI) {
	fs.Group("development")
	fs.BoolVar(&va.Verbose, "v", false, "Print verbose diagnostics to stderr")
	fs.BoolVar(&va.Verbose, "verbose", false, "Print verbose diagnostics to stderr")
}

func (va *VerboseArgs) Validate() error {
	return nil
}

func (va *VerboseArgs) VerboseFlag() bool {
	return va.Verbose
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// DatabaseArgs name the postgres database and the cluster whose jobs we're reporting on.  Both can
// be defaulted from ~/.effstat, see SourceArgs.Validate.

type DatabaseArgs struct {
	Database string
	Cluster  string
}

func (da *DatabaseArgs) Add(fs *CLI) {
	fs.Group("data-source")
	fs.StringVar(&da.Database, "db", "",
		"Connect to this postgres `uri` for job data [default: from ~/.effstat]")
	fs.StringVar(&da.Cluster, "cluster", "",
		"Select the cluster `name` for which we want data [default: from ~/.effstat]")
}

func (da *DatabaseArgs) DatabaseURI() string {
	return da.Database
}

func (da *DatabaseArgs) ClusterName() string {
	return da.Cluster
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// RemotingArgs pertain to running the query against an effstat daemon instead of a local database.
// The -auth-file holds a single username:password line.

type RemotingArgs struct {
	Remote   string
	AuthFile string

	Remoting bool
}

func (ra *RemotingArgs) Add(fs *CLI) {
	fs.Group("remote-data-source")
	fs.StringVar(&ra.Remote, "remote", "",
		"Select a remote `url` to serve the query [default: none]")
	fs.StringVar(&ra.AuthFile, "auth-file", "",
		"Provide a `file` on username:password format [default: none].  For use with -remote.")
}

func (ra *RemotingArgs) Validate() error {
	if ra.Remote != "" {
		ra.Remoting = true
	}
	return nil
}

func (ra *RemotingArgs) RemotingFlags() *RemotingArgs {
	return ra
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// SourceArgs pertain to where report data come from - a postgres database locally or an effstat
// daemon remotely - plus the [from,to] window bounding the jobs considered.  The window selects
// jobs by their end time and both bounds are inclusive.

type SourceArgs struct {
	DatabaseArgs
	RemotingArgs
	FromDate time.Time
	ToDate   time.Time

	FromDateStr string
	ToDateStr   string
}

func (s *SourceArgs) Add(fs *CLI) {
	s.DatabaseArgs.Add(fs)
	s.RemotingArgs.Add(fs)
	fs.Group("record-filter")
	fs.StringVar(&s.FromDateStr, "from", "",
		"Count jobs ending at this `time` or later.  Format can be YYYY-MM-DD, or Nd or Nw\n"+
			"signifying N days or weeks ago [default: 1w, ie 1 week ago]")
	fs.StringVar(&s.FromDateStr, "f", "", "Short for -from `time`")
	fs.StringVar(&s.ToDateStr, "to", "",
		"Count jobs ending at this `time` or earlier.  Format can be YYYY-MM-DD, or Nd or Nw\n"+
			"signifying N days or weeks ago [default: now]")
	fs.StringVar(&s.ToDateStr, "t", "", "Short for -to `time`")
}

func (s *SourceArgs) ReifyForRemote(x *ArgReifier) error {
	// Validate() has already checked that Database, Remote, and AuthFile are consistent for remote
	// execution; of those only the cluster is forwarded.
	x.String("cluster", s.Cluster)
	x.String("from", s.FromDateStr)
	x.String("to", s.ToDateStr)
	return nil
}

// Command line values win over the [verb] section of ~/.effstat.  An explicit -db suppresses the
// remoting defaults and an explicit remoting setup suppresses the -db default, so that a defaults
// file can never drag a conflicting data source into the command.

func (s *SourceArgs) Validate(verb string) error {
	envAuth := os.Getenv("EFFSTAT_AUTH") != ""
	if d := DefaultsForVerb(verb); d != nil {
		switch {
		case s.Database != "":
			// no action
		case s.Remote != "" || envAuth || s.AuthFile != "":
			ApplyDefault(&s.Remote, d.Remote)
			if !envAuth {
				ApplyDefault(&s.AuthFile, d.AuthFile)
			}
		default:
			// Nothing explicit, so apply what we have, but error out if the file holds defaults
			// for both kinds of source.
			if HasDefault(d.Database) && HasDefault(d.Remote) {
				return errors.New("No data source, but defaults for both -db and -remote")
			}
			if !ApplyDefault(&s.Database, d.Database) {
				ApplyDefault(&s.Remote, d.Remote)
				if !envAuth {
					ApplyDefault(&s.AuthFile, d.AuthFile)
				}
			}
		}
		ApplyDefault(&s.Cluster, d.Cluster)
	}

	err := s.RemotingArgs.Validate()
	if err != nil {
		return err
	}
	if s.Remoting && s.Database != "" {
		return errors.New("-db may not be used with -remote")
	}
	if s.Cluster == "" {
		return errors.New("Required -cluster, on the command line or in ~/.effstat")
	}

	now := time.Now().UTC()
	fromStr := s.FromDateStr
	if fromStr == "" {
		fromStr = "1w"
	}
	s.FromDate, err = ParseRelativeDateUtc(now, fromStr, false)
	if err != nil {
		return fmt.Errorf("Invalid -from argument %s", fromStr)
	}
	if s.ToDateStr != "" {
		s.ToDate, err = ParseRelativeDateUtc(now, s.ToDateStr, true)
		if err != nil {
			return fmt.Errorf("Invalid -to argument %s", s.ToDateStr)
		}
	} else {
		s.ToDate = now
	}
	if s.FromDate.After(s.ToDate) {
		return errors.New("The -from time is greater than the -to time")
	}

	return nil
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// SortArgs pick the display order.  The canonical ranking is always by total score, best first;
// these flags only reorder what is printed.

type SortArgs struct {
	SortByStr string
	Ascending bool

	SortBy eff.Metric
}

func (sa *SortArgs) Add(fs *CLI) {
	fs.Group("printing")
	fs.StringVar(&sa.SortByStr, "sort", "total",
		"Order rows by `metric`: total, cores, memory, or time")
	fs.BoolVar(&sa.Ascending, "ascending", false, "Print worst scores first")
}

func (sa *SortArgs) ReifyForRemote(x *ArgReifier) error {
	x.String("sort", sa.SortByStr)
	x.Bool("ascending", sa.Ascending)
	return nil
}

func (sa *SortArgs) Validate() (err error) {
	sa.SortBy, err = eff.ParseMetric(sa.SortByStr)
	return
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// SelectArgs shape the reported population, after scoring but before display ordering.

type SelectArgs struct {
	NumberStr    string
	IncludeEmpty bool

	Number int
}

func (sa *SelectArgs) Add(fs *CLI) {
	fs.Group("aggregation")
	fs.StringVar(&sa.NumberStr, "number", "all",
		"Keep at most `n` entities in the report, \"all\" for no limit")
	fs.BoolVar(&sa.IncludeEmpty, "include-empty", false,
		"Include entities that ran no jobs in the window")
}

func (sa *SelectArgs) ReifyForRemote(x *ArgReifier) error {
	x.Uint("number", uint(sa.Number))
	x.Bool("include-empty", sa.IncludeEmpty)
	return nil
}

func (sa *SelectArgs) Validate() (err error) {
	sa.Number, err = ParseRowCount(sa.NumberStr)
	return
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// OutputArgs control the rendering of the report table.

type OutputArgs struct {
	WidthStr string
	Parsable bool
	NoColor  bool
	Summary  bool

	Width int
}

func (oa *OutputArgs) Add(fs *CLI) {
	fs.Group("printing")
	fs.StringVar(&oa.WidthStr, "width", "auto",
		"Fit the table to this `width`: \"none\", \"auto\", or a positive column count")
	fs.BoolVar(&oa.Parsable, "parsable", false,
		"Print |-separated fields with no padding, fitting, or color")
	fs.BoolVar(&oa.NoColor, "no-color", false, "Do not color scores even on a terminal")
	fs.BoolVar(&oa.Summary, "summary", false, "Append a TOTAL row for the whole population")
}

func (oa *OutputArgs) ReifyForRemote(x *ArgReifier) error {
	// "auto" resolves against the local terminal, so forward the resolved width.
	if oa.Width == 0 {
		x.String("width", "none")
	} else {
		x.Uint("width", uint(oa.Width))
	}
	x.Bool("parsable", oa.Parsable)
	x.Bool("no-color", oa.NoColor)
	x.Bool("summary", oa.Summary)
	return nil
}

func (oa *OutputArgs) Validate() (err error) {
	oa.Width, err = ParseWidth(oa.WidthStr)
	return
}

///////////////////////////////////////////////////////////////////////////////////////////////////
//
// Shared args for the report-generating verbs.

type ReportArgs struct {
	DevArgs
	SourceArgs
	SortArgs
	SelectArgs
	OutputArgs
	VerboseArgs
}

func (ra *ReportArgs) ReportFlags() *ReportArgs {
	return ra
}

func (ra *ReportArgs) Add(fs *CLI) {
	ra.DevArgs.Add(fs)
	ra.SourceArgs.Add(fs)
	ra.SortArgs.Add(fs)
	ra.SelectArgs.Add(fs)
	ra.OutputArgs.Add(fs)
	ra.VerboseArgs.Add(fs)
}

func (ra *ReportArgs) ReifyForRemote(x *ArgReifier) error {
	// We don't forward Verbose, it's mostly useful locally and would reveal daemon internals.
	return errors.Join(
		ra.DevArgs.ReifyForRemote(x),
		ra.SourceArgs.ReifyForRemote(x),
		ra.SortArgs.ReifyForRemote(x),
		ra.SelectArgs.ReifyForRemote(x),
		ra.OutputArgs.ReifyForRemote(x),
	)
}

func (ra *ReportArgs) Validate(verb string) error {
	return errors.Join(
		ra.DevArgs.Validate(),
		ra.SourceArgs.Validate(verb),
		ra.SortArgs.Validate(),
		ra.SelectArgs.Validate(),
		ra.OutputArgs.Validate(),
		ra.VerboseArgs.Validate(),
	)
}
