package common

import (
	"context"
	"testing"
)

func TestUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runs := 0
	UntilCancelled(ctx, func() {
		runs++
		if runs == 3 {
			cancel()
		}
		panic("ouch")
	})
	if runs != 3 {
		t.Errorf("Got %d runs", runs)
	}
}