package common

import (
	"fmt"
	"log/syslog"
	"os"
	"sync"
)

// MT: Constant after initialization; thread-safe
var Log = new(Logger)

// Logger writes leveled diagnostics to stderr until SetUnderlying redirects
// them, typically to syslog in the daemon.  Infof is chatter and is emitted
// only after SetVerbose(true); the other levels are always emitted.
type Logger struct {
	sync.Mutex
	verbose    bool
	underlying *syslog.Writer
}

func (l *Logger) SetVerbose(flag bool) {
	l.Lock()
	defer l.Unlock()
	l.verbose = flag
}

func (l *Logger) SetUnderlying(w *syslog.Writer) {
	l.Lock()
	defer l.Unlock()
	l.underlying = w
}

func (l *Logger) Infof(format string, args ...any) {
	l.Lock()
	defer l.Unlock()
	if !l.verbose {
		return
	}
	if l.underlying != nil {
		l.underlying.Info(fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(os.Stderr, "INFO: "+format+"\n", args...)
}

func (l *Logger) Warningf(format string, args ...any) {
	l.Lock()
	defer l.Unlock()
	if l.underlying != nil {
		l.underlying.Warning(fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(os.Stderr, "WARNING: "+format+"\n", args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Lock()
	defer l.Unlock()
	if l.underlying != nil {
		l.underlying.Err(fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
}

func (l *Logger) Criticalf(format string, args ...any) {
	l.Lock()
	defer l.Unlock()
	if l.underlying != nil {
		l.underlying.Crit(fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(os.Stderr, "CRITICAL: "+format+"\n", args...)
}
