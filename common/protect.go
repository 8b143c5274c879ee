package common

import "context"

// Invoke thunk repeatedly until the context is cancelled, protecting the caller against panics in
// it.  Panic messages are routed to the process log.  The outer loop is not free, so a thunk that
// loops internally will defray the cost in the common case.

func UntilCancelled(ctx context.Context, thunk func()) {
	d := func() {
		if msg := recover(); msg != nil {
			Log.Errorf("Recovered from panic: %v", msg)
		}
	}
	t2 := func() {
		defer d()
		thunk()
	}
	for ctx.Err() == nil {
		t2()
	}
}