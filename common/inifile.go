package common

import (
	"errors"
	"os"
	"path"

	ini "github.com/lars-t-hansen/ini"
)

// $HOME/.effstat holds one section per verb with defaults for flags not set on the command line,
// eg:
//
//	[users]
//	db = postgres://effstat@dbhost/jobs
//	cluster = fox.educloud.no
//
// An absent file is fine; a file that does not parse is a fatal error.

// MT: Constant after initialization
var (
	p     = ini.NewParser()
	store *ini.Store

	verbDefaults = make(map[string]*VerbDefaults)

	_ = addVerb("users")
	_ = addVerb("accounts")
	_ = addVerb("daemon")
)

type VerbDefaults struct {
	Database *ini.Field
	Cluster  *ini.Field
	Remote   *ini.Field
	AuthFile *ini.Field
}

func addVerb(verb string) *VerbDefaults {
	section := p.AddSection(verb)
	v := &VerbDefaults{
		Database: section.AddString("db"),
		Cluster:  section.AddString("cluster"),
		Remote:   section.AddString("remote"),
		AuthFile: section.AddString("auth-file"),
	}
	verbDefaults[verb] = v
	return v
}

// DefaultsForVerb returns nil for verbs that have no defaults section.
func DefaultsForVerb(verb string) *VerbDefaults {
	return verbDefaults[verb]
}

func init() {
	home := os.Getenv("HOME")
	if home == "" {
		return
	}
	fn := path.Join(path.Clean(home), ".effstat")
	input, err := os.Open(fn)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			Log.Errorf("Error in trying to open %s: %s", fn, err.Error())
		}
		return
	}
	defer input.Close()
	store, err = p.Parse(input)
	if err != nil {
		Log.Criticalf("Error in trying to parse %s: %s", fn, err.Error())
		os.Exit(1)
	}
}

func HasDefault(f *ini.Field) bool {
	return store != nil && f.Present(store)
}

func ApplyDefault(sp *string, f *ini.Field) bool {
	if *sp != "" || store == nil || !f.Present(store) {
		return false
	}
	*sp = os.ExpandEnv(f.StringVal(store))
	return true
}
