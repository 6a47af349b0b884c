/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Microlot Drop Engine server: configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (env / .env, flag overrides)
  2. Initialize the SQLite state store
  3. Wire the ledger service over the store and catalog
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -addr    HTTP listen address (overrides HTTP_ADDR)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for
  active requests, close the store, exit.

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
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

	"github.com/microlot/drop-engine/api"
	"github.com/microlot/drop-engine/catalog"
	"github.com/microlot/drop-engine/config"
	"github.com/microlot/drop-engine/ledger"
	"github.com/microlot/drop-engine/store/sqlite"
)

func main() {
	cfg := config.Load()
	addr := flag.String("addr", cfg.HTTPAddr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	st, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer st.Close()

	svc := ledger.New(st, catalog.MustLoad())
	router := api.NewRouter(api.NewHandler(svc))

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", *addr)
		log.Printf("📊 API available at http://localhost%s/api", *addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

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
