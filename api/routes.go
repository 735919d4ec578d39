package api

import (
	"github.com/garnizeh/quartermaster/internal/catalog"
	"github.com/garnizeh/quartermaster/internal/config"
	"github.com/garnizeh/quartermaster/internal/db"
	"github.com/garnizeh/quartermaster/internal/ledger"
	"github.com/garnizeh/quartermaster/internal/queue"
	"github.com/garnizeh/quartermaster/internal/repository/sqlite"
	"github.com/gorilla/mux"
)

// SetupRoutes wires the repository, ledger and handlers into the router.
// board and announcer may be nil when no chat platform is configured; the
// lifecycle endpoints then run without display side-effects.
func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB, cat *catalog.Catalog, board queue.Board, announcer Announcer) (*mux.Router, error) {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository and domain services
	repo := sqlite.New(db, nil)

	led, err := ledger.New(repo, repo, repo, repo, cat, nil)
	if err != nil {
		return nil, err
	}

	labelA, labelB := cat.Materials()
	refresher, err := queue.New(led, board, labelA, labelB, nil)
	if err != nil {
		return nil, err
	}

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	requestsHandler := NewRequestsHandler(led, refresher, announcer)
	reportsHandler := NewReportsHandler(led)
	settingsHandler := NewSettingsHandler(led, refresher)
	profileHandler := NewProfileHandler(led)
	catalogHandler := NewCatalogHandler(cat)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Requisition endpoints. The fixed /requests/pending path is registered
	// before the /requests/{id} patterns so it is not captured as an id.
	apiV1.HandleFunc("/requests", requestsHandler.CreateRequest).Methods("POST")
	apiV1.HandleFunc("/requests", requestsHandler.ListRequests).Methods("GET")
	apiV1.HandleFunc("/requests/sets", requestsHandler.CreateSet).Methods("POST")
	apiV1.HandleFunc("/requests/pending", requestsHandler.ClearPending).Methods("DELETE")
	apiV1.HandleFunc("/requests/{id}", requestsHandler.GetRequest).Methods("GET")
	apiV1.HandleFunc("/requests/{id}", requestsHandler.UpdateRequest).Methods("PUT")
	apiV1.HandleFunc("/requests/{id}/claim", requestsHandler.ClaimRequest).Methods("POST")
	apiV1.HandleFunc("/requests/{id}/unclaim", requestsHandler.UnclaimRequest).Methods("POST")
	apiV1.HandleFunc("/requests/{id}/complete", requestsHandler.CompleteRequest).Methods("POST")
	apiV1.HandleFunc("/requests/{id}/cancel", requestsHandler.CancelRequest).Methods("POST")

	// Report endpoints
	apiV1.HandleFunc("/reports/completed", reportsHandler.Completed).Methods("GET")
	apiV1.HandleFunc("/reports/requesters", reportsHandler.Requesters).Methods("GET")
	apiV1.HandleFunc("/reports/crafters", reportsHandler.Crafters).Methods("GET")
	apiV1.HandleFunc("/reports/items", reportsHandler.Items).Methods("GET")
	apiV1.HandleFunc("/reports/materials", reportsHandler.Materials).Methods("GET")

	// Community settings endpoints
	apiV1.HandleFunc("/communities/{id}/settings", settingsHandler.GetSettings).Methods("GET")
	apiV1.HandleFunc("/communities/{id}/crafter-role", settingsHandler.PutCrafterRole).Methods("PUT")
	apiV1.HandleFunc("/communities/{id}/announcement-channel", settingsHandler.PutAnnouncementChannel).Methods("PUT")
	apiV1.HandleFunc("/communities/{id}/queue-channel", settingsHandler.PutQueueChannel).Methods("PUT")

	// Profile and catalog endpoints
	apiV1.HandleFunc("/users/{id}/character", profileHandler.GetCharacter).Methods("GET")
	apiV1.HandleFunc("/catalog", catalogHandler.GetCatalog).Methods("GET")
	apiV1.HandleFunc("/catalog/items", catalogHandler.ListItems).Methods("GET")
	apiV1.HandleFunc("/catalog/sets", catalogHandler.ListSets).Methods("GET")

	return r, nil
}
