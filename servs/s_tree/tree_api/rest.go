package tree_api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rskv-p/htree/pkg/x_log"
	"github.com/rskv-p/htree/servs/s_tree/tree_serv"
)

// Options configures the REST surface.
type Options struct {
	JWTSecret string
	MaxBody   int64
	Log       zerolog.Logger
}

// NewRouter builds the HTTP API over store.
func NewRouter(store *tree_serv.Store, opts Options) http.Handler {
	h := &handlers{store: store, maxBody: opts.MaxBody}
	feed := newHub(store, opts.Log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoverer(opts.Log))
	r.Use(requestLogger(opts.Log))

	r.Get("/healthz", h.health)
	r.Get("/dump", h.dump)
	r.With(JWTMiddleware(opts.JWTSecret)).Get("/ws", feed.serveWS)

	r.Route("/nodes", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{key}", h.get)
		r.Get("/{key}/subtree", h.subtree)

		r.Group(func(r chi.Router) {
			r.Use(JWTMiddleware(opts.JWTSecret))
			r.Post("/", h.insert)
			r.Put("/{key}", h.set)
			r.Delete("/{key}", h.erase)
			r.Post("/{key}/move", h.move)
		})
	})
	return r
}

// requestLogger attaches a logger tagged with the request id to the request
// context and logs the outcome.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := log.With().Str("req_id", middleware.GetReqID(r.Context())).Logger()
			r = r.WithContext(x_log.WithLogger(r.Context(), &l))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			l.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Msg("request")
		})
	}
}
