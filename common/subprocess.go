package common

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// RunSubprocess runs the program with the given arguments and returns its standard output.  A
// nonzero exit or a failure to start is an error carrying the program name and whatever the
// program printed on stderr.

func RunSubprocess(timeout time.Duration, program string, args []string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	command := exec.CommandContext(ctx, program, args...)
	var stdout, stderr strings.Builder
	command.Stdout = &stdout
	command.Stderr = &stderr

	Log.Infof("Executing <%s>", command.String())

	if err := command.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("While running %s: %v: %s", program, err, msg)
		}
		return "", fmt.Errorf("While running %s: %v", program, err)
	}
	return stdout.String(), nil
}
