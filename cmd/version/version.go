package version

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	. "effstat/cmd"
)

type VersionCommand struct {
	DevArgs
	VerboseArgs
}

var _ = PrimitiveCommand((*VersionCommand)(nil))

func (vc *VersionCommand) Add(fs *CLI) {
	vc.DevArgs.Add(fs)
	vc.VerboseArgs.Add(fs)
}

func (vc *VersionCommand) Validate() error {
	return nil
}

func (vc *VersionCommand) Summary(out io.Writer) {
	fmt.Fprintf(out, "Display the version number.")
}

// The version data are version,description.
// They are newest-first; we always want the first line.
//
//go:embed version.csv
var versionData string

// Current returns the version number alone, for other surfaces that report it.
func Current() string {
	version := "0.0.0"
	rdr := csv.NewReader(strings.NewReader(versionData))
	rdr.FieldsPerRecord = -1 // Free form, though should not matter
	fields, err := rdr.Read()
	if err == nil && len(fields) >= 1 {
		version = fields[0]
	}
	return version
}

func (_ *VersionCommand) Perform(_ io.Reader, stdout, _ io.Writer) error {
	// Must print version on stdout.
	fmt.Fprintf(stdout, "effstat version(%s)\n", Current())
	return nil
}
