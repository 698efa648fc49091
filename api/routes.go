package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xceptionalbae23/word-of-hope-ministries/internal/config"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/content"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/db"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/repository/sqlite"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/schema"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/storage"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, conn *db.DB, store storage.Store) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(conn, logger)

	validator, err := schema.New()
	if err != nil {
		return nil, fmt.Errorf("load request schemas: %w", err)
	}
	catalog, err := content.Load()
	if err != nil {
		return nil, err
	}

	// Create handlers
	systemHandler := NewSystemHandler(repo, validator)
	authHandler, err := NewAuthHandler(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash, cfg.JWTSecret, cfg.TokenDuration)
	if err != nil {
		return nil, err
	}
	contentHandler := NewContentHandler(catalog)
	contactHandler := NewContactHandler(repo, validator)
	newsletterHandler := NewNewsletterHandler(repo, validator)
	eventsHandler := NewEventsHandler(repo, catalog, validator)
	donationsHandler := NewDonationsHandler(repo, validator)
	prayerHandler := NewPrayerHandler(repo, validator, cfg.JWTSecret)
	mediaHandler := NewMediaHandler(store, cfg.Uploads)
	adminHandler := NewAdminHandler(AdminRepos{
		Contacts:      repo,
		Newsletter:    repo,
		Registrations: repo,
		Donations:     repo,
		Prayers:       repo,
		Sermons:       repo,
	}, mediaHandler)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/uploads/{file_type}/{filename}", mediaHandler.Serve).Methods("GET", "HEAD")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("", systemHandler.Root).Methods("GET")
	api.HandleFunc("/", systemHandler.Root).Methods("GET")
	api.HandleFunc("/health", systemHandler.APIHealth).Methods("GET")
	api.HandleFunc("/status", systemHandler.CreateStatusCheck).Methods("POST")
	api.HandleFunc("/status", systemHandler.ListStatusChecks).Methods("GET")

	api.HandleFunc("/ministry-info", contentHandler.MinistryInfo).Methods("GET")
	api.HandleFunc("/sermons", contentHandler.Sermons).Methods("GET")
	api.HandleFunc("/blog-posts", contentHandler.BlogPosts).Methods("GET")

	api.HandleFunc("/contact", contactHandler.Submit).Methods("POST")
	api.HandleFunc("/newsletter/subscribe", newsletterHandler.Subscribe).Methods("POST")
	api.HandleFunc("/newsletter/unsubscribe", newsletterHandler.Unsubscribe).Methods("POST")
	api.HandleFunc("/events", eventsHandler.List).Methods("GET")
	api.HandleFunc("/events/register", eventsHandler.Register).Methods("POST")
	api.HandleFunc("/donations/intent", donationsHandler.CreateIntent).Methods("POST")
	api.HandleFunc("/prayer-requests", prayerHandler.Submit).Methods("POST")
	// include_private=true is checked against the admin token inside the handler
	api.HandleFunc("/prayer-requests", prayerHandler.List).Methods("GET")
	api.HandleFunc("/admin/login", authHandler.Login).Methods("POST")

	// Admin protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	protected.HandleFunc("/contact", contactHandler.List).Methods("GET")
	protected.HandleFunc("/contact/{id}/status", contactHandler.UpdateStatus).Methods("PUT")
	protected.HandleFunc("/newsletter/subscribers", newsletterHandler.ActiveSubscribers).Methods("GET")
	protected.HandleFunc("/events/{event_id}/registrations", eventsHandler.Registrations).Methods("GET")
	protected.HandleFunc("/donations/complete", donationsHandler.Complete).Methods("POST")
	protected.HandleFunc("/donations", donationsHandler.List).Methods("GET")
	protected.HandleFunc("/donations/stats", donationsHandler.Stats).Methods("GET")
	protected.HandleFunc("/prayer-requests/{id}/status", prayerHandler.UpdateStatus).Methods("PUT")

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/dashboard", adminHandler.Dashboard).Methods("GET")
	admin.HandleFunc("/contacts", adminHandler.Contacts).Methods("GET")
	admin.HandleFunc("/donations", adminHandler.Donations).Methods("GET")
	admin.HandleFunc("/subscribers", adminHandler.Subscribers).Methods("GET")
	admin.HandleFunc("/registrations", adminHandler.Registrations).Methods("GET")
	admin.HandleFunc("/prayer-requests", adminHandler.PrayerRequests).Methods("GET")
	admin.HandleFunc("/sermons", adminHandler.Sermons).Methods("GET")
	admin.HandleFunc("/sermons", adminHandler.CreateSermon).Methods("POST")
	admin.HandleFunc("/upload/{kind:image|video|audio}", mediaHandler.Upload).Methods("POST")
	admin.HandleFunc("/uploads/{file_type}/{filename}", mediaHandler.FileInfo).Methods("GET")

	// CORS preflight for every path; CORSMiddleware answers it
	r.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r, nil
}
