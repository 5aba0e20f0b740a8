package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/urbannest/internal/logging"
	"github.com/dmitrijs2005/urbannest/internal/server/config"
	"github.com/dmitrijs2005/urbannest/internal/server/objectstore"
)

// Deps are the collaborators of the API. Limiter may be nil, which
// disables rate limiting. UploadDir is served under /uploads/ when set.
type Deps struct {
	Users      UserService
	Properties PropertyService
	Enquiries  EnquiryService
	Uploads    UploadService
	DB         Pinger
	Limiter    RateCounter
	UploadDir  string
	Log        logging.Logger
	Config     *config.Config
}

type api struct {
	Deps
	log logging.Logger
}

// NewRouter builds the chi router serving the whole API.
func NewRouter(d Deps) http.Handler {
	h := &api{Deps: d, log: d.Log.With("module", "http_api")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	if d.UploadDir != "" {
		r.Handle(objectstore.LocalURLPrefix+"*", staticUploads(d.UploadDir))
	}

	r.Route("/api", func(r chi.Router) {
		if d.Config.RequestTimeout > 0 {
			r.Use(middleware.Timeout(d.Config.RequestTimeout))
		}
		r.Use(h.loadSession)

		r.Route("/auth", func(r chi.Router) {
			r.With(h.rateLimit("auth")).Post("/signup", h.signup)
			r.With(h.rateLimit("auth")).Post("/login", h.login)
			r.Post("/logout", h.logout)
			r.Get("/me", h.me)
		})

		r.Get("/properties", h.listProperties)
		r.Get("/properties/{id}", h.getProperty)
		r.Get("/properties/{id}/similar", h.similarProperties)
		r.Post("/enquiries", h.createEnquiry)

		r.Group(func(r chi.Router) {
			r.Use(h.requireUser)

			r.Get("/my/properties", h.myProperties)
			r.Get("/my/enquiries", h.myEnquiries)
			r.Post("/properties", h.createProperty)
			r.Patch("/properties/{id}", h.updateProperty)
			r.Delete("/properties/{id}", h.deleteProperty)
			r.With(h.rateLimit("upload")).Post("/upload", h.upload)
		})
	})

	return r
}

// staticUploads serves stored images with a one-year cache lifetime.
// Directory listings are not exposed.
func staticUploads(dir string) http.Handler {
	fs := http.StripPrefix(objectstore.LocalURLPrefix, http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", objectstore.CacheControl)
		fs.ServeHTTP(w, r)
	})
}
