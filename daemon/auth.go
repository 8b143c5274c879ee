// Authorization checking.
//
// A password file has a sequence of lines, each on the format username:password (blanks are
// significant).  Empty lines are ignored.  ReadPasswords parses such a file into an Authenticator
// that incoming basic-auth credentials can be checked against.

package daemon

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// MT: Immutable after creation.
type Authenticator struct {
	identities map[string]string
}

func ReadPasswords(filename string) (*Authenticator, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	identities := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		l := strings.TrimSpace(scanner.Text())
		if l == "" {
			continue
		}
		user, pass, ok := strings.Cut(l, ":")
		if !ok || user == "" || strings.Contains(pass, ":") {
			return nil, fmt.Errorf("Password file has the wrong format (line %d)", lineno)
		}
		if _, found := identities[user]; found {
			return nil, fmt.Errorf("Password file has duplicated user name (line %d)", lineno)
		}
		identities[user] = pass
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Authenticator{identities}, nil
}

func (a *Authenticator) Authenticate(user, pass string) bool {
	probe, found := a.identities[user]
	return found && probe == pass
}
