/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the ledger engine server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env file, environment variables)
  2. Initialize SQLite store
  3. Wire domain services (clients, accounts, movement engine, reports)
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION:
  SERVER_PORT     HTTP server port (default: 8080)
  DB_PATH         SQLite database path (default: ./data/bank.db)
                  Use ":memory:" for an in-memory database
  GOTENBERG_URL   HTML-to-PDF service base URL; empty disables PDF
  CORS_ORIGINS    Allowed browser origins

  The -port and -db flags override SERVER_PORT and DB_PATH.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - config/config.go: Configuration loading
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlasbank/ledger-engine/api"
	"github.com/atlasbank/ledger-engine/bank"
	"github.com/atlasbank/ledger-engine/config"
	"github.com/atlasbank/ledger-engine/ledger"
	"github.com/atlasbank/ledger-engine/report"
	"github.com/atlasbank/ledger-engine/store/sqlite"
)

func main() {
	port := flag.String("port", "", "HTTP server port (overrides SERVER_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides DB_PATH)")
	flag.Parse()

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Wire domain services
	engine := ledger.NewEngine(store)
	resolver := ledger.NewResolver(store)
	clients := bank.NewClientService(store)
	accounts := bank.NewAccountService(store, store, resolver)
	reports := report.NewBuilder(store)

	renderers := report.RenderSet{
		JSON: report.JSONRenderer{},
	}
	if cfg.GotenbergURL != "" {
		converter := report.NewGotenbergConverter(cfg.GotenbergURL)
		if err := converter.Ping(context.Background()); err != nil {
			log.Printf("Warning: Gotenberg unreachable at %s: %v", cfg.GotenbergURL, err)
		}
		renderers.PDF = report.NewPDFRenderer(converter)
	}

	handler := api.NewHandler(clients, accounts, engine, reports, renderers)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.Port)
		log.Printf("API available at http://localhost:%s/api", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
