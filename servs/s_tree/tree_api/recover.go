package tree_api

import (
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// OnPanic, when set, is called with every recovered panic.
var OnPanic func(method, path string, recovered any)

// recoverer turns a handler panic into a 500 and logs it with its stack.
func recoverer(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("req_id", middleware.GetReqID(r.Context())).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")
				if OnPanic != nil {
					OnPanic(r.Method, r.URL.Path, rec)
				}
				writeError(w, http.StatusInternalServerError, "internal error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
