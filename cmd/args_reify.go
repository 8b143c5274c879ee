// The ArgReifier is used to build a query string for remote execution from parsed and checked
// arguments.  The daemon turns each name=value pair back into a -name=value command line argument,
// so only values that survive a round trip through flag parsing may be added here.

package cmd

import (
	"fmt"
	"net/url"
)

type ArgReifier struct {
	options string
}

func NewArgReifier() ArgReifier {
	return ArgReifier{""}
}

func (r *ArgReifier) addString(name, val string) {
	if r.options != "" {
		r.options += "&"
	}
	r.options += url.QueryEscape(name)
	r.options += "="
	r.options += url.QueryEscape(val)
}

func (r *ArgReifier) Bool(n string, v bool) {
	if v {
		r.addString(n, "true")
	}
}

func (r *ArgReifier) Uint(n string, v uint) {
	if v != 0 {
		r.addString(n, fmt.Sprint(v))
	}
}

func (r *ArgReifier) Float64(n string, v float64) {
	if v != 0 {
		r.addString(n, fmt.Sprint(v))
	}
}

func (r *ArgReifier) String(n, v string) {
	if v != "" {
		r.addString(n, v)
	}
}

func (r *ArgReifier) RepeatableString(n string, vs []string) {
	for _, v := range vs {
		r.String(n, v)
	}
}

func (r *ArgReifier) EncodedArguments() string {
	return r.options
}
