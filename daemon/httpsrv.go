// A small wrapper around http.Server that ties its lifetime to the daemon's signal handling,
// plus request helpers shared by the handlers.

package daemon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	. "effstat/common"
)

const serverShutdownTimeout = 10 * time.Second

type server struct {
	srv    *http.Server
	failed func(error)
	stop   chan bool
}

func newServer(port int, handler http.Handler, failed func(error)) *server {
	return &server{
		srv:    &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: handler},
		failed: failed,
		stop:   make(chan bool),
	}
}

// Start blocks the calling goroutine until the server exits, so typical usage is `go s.Start()`.
// To stop the server in an orderly way, call s.Stop().  The server invokes s.failed if it exits
// abnormally.

func (s *server) Start() {
	Log.Infof("Listening on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		Log.Errorf("SERVER NOT RUNNING: %v", err)
		if s.failed != nil {
			s.failed(err)
		}
	}
	s.stop <- true
}

func (s *server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		Log.Warningf("%v", err)
	}
	<-s.stop
}

// Assert that the method in the request is `method`.  If not, signal a 403 response.

func assertMethod(w http.ResponseWriter, r *http.Request, method string, verbose bool) bool {
	if r.Method != method {
		w.WriteHeader(403)
		fmt.Fprintf(w, "Bad method")
		if verbose {
			Log.Warningf("Bad method: %s", r.Method)
		}
		return false
	}
	return true
}

// Apply HTTP basic authentication against the authenticator, if there is one.  On failure signal
// a 401 response carrying the realm.

func authenticate(
	w http.ResponseWriter,
	r *http.Request,
	authenticator *Authenticator,
	realm string,
	verbose bool,
) bool {
	user, pass, ok := r.BasicAuth()
	passed := (!ok && authenticator == nil) ||
		(ok && authenticator != nil && authenticator.Authenticate(user, pass))
	if !passed {
		if authenticator != nil && realm != "" {
			w.Header().Add("WWW-Authenticate", "Basic realm=\""+realm+"\", charset=\"utf-8\"")
		}
		w.WriteHeader(401)
		fmt.Fprintf(w, "Unauthorized")
		if verbose {
			Log.Warningf("Authorization failed")
		}
		return false
	}
	return true
}
