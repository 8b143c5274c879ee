// Application logic for running a report against a remote effstat daemon.

package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	. "effstat/cmd"
	. "effstat/common"
)

// Reports are bounded aggregations, so a stuck request means a stuck daemon; don't wait forever.
const remoteTimeout = 10 * time.Minute

func RemoteOperation(rCmd RemotableCommand, verb string, stdout io.Writer) error {
	r := NewArgReifier()
	err := rCmd.ReifyForRemote(&r)
	if err != nil {
		return err
	}

	flags := rCmd.RemotingFlags()
	username, password, err := remoteCredentials(flags.AuthFile)
	if err != nil {
		return err
	}

	url := flags.Remote + "/" + verb + "?" + r.EncodedArguments()
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("Invalid remote URL: %v", err)
	}
	if username != "" {
		req.SetBasicAuth(username, password)
	}
	if rCmd.VerboseFlag() {
		Log.Infof("GET %s", url)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("Failed to contact %s: %v", flags.Remote, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("Failed to read response from %s: %v", flags.Remote, err)
	}

	// A processing error on the remote end arrives as a 400 code carrying the text that would
	// otherwise have gone to stderr, see the daemon's text bridge.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Remote: %s", strings.TrimSpace(string(body)))
	}

	// print, not println, or we end up adding a blank line that confuses consumers
	fmt.Fprint(stdout, string(body))
	return nil
}

// Credentials come from $EFFSTAT_AUTH or from a file with a single username:password line, the
// environment winning.  Diagnostics redact the file name and its content.

func remoteCredentials(authFile string) (username, password string, err error) {
	if it := os.Getenv("EFFSTAT_AUTH"); it != "" {
		var ok bool
		username, password, ok = strings.Cut(strings.TrimSpace(it), ":")
		if !ok {
			return "", "", errors.New("Invalid EFFSTAT_AUTH syntax")
		}
		return username, password, nil
	}
	if authFile == "" {
		return "", "", nil
	}
	f, err := os.Open(authFile)
	if err != nil {
		return "", "", errors.New("Failed to open auth file")
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	lines := make([]string, 0)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", "", errors.New("Failed to read auth file")
	}
	if len(lines) != 1 {
		return "", "", errors.New("Auth file must have exactly one line")
	}
	var ok bool
	username, password, ok = strings.Cut(strings.TrimSpace(lines[0]), ":")
	if !ok {
		return "", "", errors.New("Invalid auth file syntax")
	}
	return username, password, nil
}
