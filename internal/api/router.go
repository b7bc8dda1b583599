package api

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hoanghai1803/adcraft/internal/api/handlers"
)

//go:embed all:dist
var distFS embed.FS

// NewRouter creates and configures the HTTP router with all API routes and
// static file serving for the embedded form page.
func NewRouter(svc handlers.Assistant, sessions *handlers.Sessions) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS)

	// API sub-router.
	r.Route("/api", func(api chi.Router) {
		api.Get("/options", handlers.GetOptions(svc))
		api.Get("/session", handlers.GetSession(sessions))

		api.Post("/analyze", handlers.AnalyzeSite(svc, sessions))
		api.Post("/generate", handlers.Generate(svc, sessions))

		api.Post("/images/generate", handlers.GenerateImage(svc))
		api.Post("/images/load", handlers.LoadImage(svc))

		api.Get("/outputs", handlers.ListOutputs(svc))
		api.Get("/outputs/{name}", handlers.GetOutput(svc))
	})

	// Serve the single-page form from the embedded dist/ directory.
	distContent, _ := fs.Sub(distFS, "dist")
	fileServer := http.FileServer(http.FS(distContent))

	// SPA fallback: serve index.html for any non-API GET request that does
	// not match a static file.
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" {
			path = "/index.html"
		}

		f, err := distContent.Open(path[1:]) // strip leading /
		if err != nil {
			r.URL.Path = "/"
			fileServer.ServeHTTP(w, r)
			return
		}
		f.Close()

		fileServer.ServeHTTP(w, r)
	})

	return r
}
