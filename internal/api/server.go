// Package api exposes the HTTP surface: search, downloads, video info,
// and the store-backed user endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/baropoint-debug/youtube-downloader-supabase/internal/download"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/store"
	"github.com/baropoint-debug/youtube-downloader-supabase/internal/youtube"
)

// Server holds the wired components behind the HTTP handlers.
type Server struct {
	search      *youtube.Orchestrator
	fetcher     *youtube.MetadataFetcher
	provider    youtube.Provider
	coordinator *download.Coordinator
	store       store.Store

	downloadFolder string
	providerReady  bool
	log            zerolog.Logger
}

// Options configures a Server.
type Options struct {
	Search      *youtube.Orchestrator
	Fetcher     *youtube.MetadataFetcher
	Provider    youtube.Provider
	Coordinator *download.Coordinator
	Store       store.Store

	// DownloadFolder is the default destination offered to clients.
	DownloadFolder string
	// ProviderReady reports whether a real provider is configured.
	ProviderReady bool
	Logger        zerolog.Logger
}

// NewServer creates the HTTP server facade.
func NewServer(opts Options) *Server {
	return &Server{
		search:         opts.Search,
		fetcher:        opts.Fetcher,
		provider:       opts.Provider,
		coordinator:    opts.Coordinator,
		store:          opts.Store,
		downloadFolder: opts.DownloadFolder,
		providerReady:  opts.ProviderReady,
		log:            opts.Logger,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/search", s.handleSearch)
	r.Post("/download", s.handleDownload)
	r.Post("/video_info", s.handleVideoInfo)
	r.Post("/search_channels", s.handleSearchChannels)
	r.Get("/download_folders", s.handleDownloadFolders)
	r.Post("/test_folder", s.handleTestFolder)

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.Limit(100, time.Hour, httprate.WithKeyFuncs(httprate.KeyByIP)))

		r.Get("/health", s.handleHealth)
		r.Post("/user/register", s.handleRegister)
		r.Post("/user/login", s.handleLogin)
		r.Get("/user/{userID}/jobs", s.handleUserJobs)
		r.Get("/user/{userID}/history", s.handleUserHistory)
		r.Get("/user/{userID}/favorites", s.handleListFavorites)
		r.Post("/user/{userID}/favorites", s.handleAddFavorite)
		r.Delete("/user/{userID}/favorites", s.handleRemoveFavorite)
		r.Get("/job/{jobID}", s.handleJobStatus)
	})

	return r
}

// requestLogger emits one structured event per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
