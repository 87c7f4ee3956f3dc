// Package api exposes the engagement stores over a JSON HTTP interface.
// Callers identify themselves by user id; authentication is handled by an
// external layer (or absent in development) and is out of scope here.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pincoapp/pinco/internal/store"
)

// Deps holds all dependencies required to build the router.
type Deps struct {
	Pins      store.PinStoreIface
	Tags      store.TagStoreIface
	PinTags   store.PinTagStoreIface
	Bookmarks store.BookmarkStoreIface
	Likes     store.LikeStoreIface
	Users     *store.UserStore

	RequestTimeout      time.Duration
	DefaultRadiusMeters float64
}

// NewRouter creates the chi router serving the engagement API and /metrics.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if deps.RequestTimeout > 0 {
		// The timeout cancels the request context, aborting the enclosing
		// store transaction; partial writes roll back.
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}
	registerPinRoutes(r, deps)
	registerTagRoutes(r, deps)
	registerBookmarkRoutes(r, deps)
	registerLikeRoutes(r, deps)
	registerUserRoutes(r, deps)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
