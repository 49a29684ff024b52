/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the wallet engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite statement log
  3. Optionally wrap the rate table in a Redis cache
  4. Create API handler with dependencies
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: wallets.db)
           Use ":memory:" for an in-memory database
  -redis   Redis address for the rate cache (default: disabled)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database connection
  4. Exit

EXAMPLES:
  ./server -db="./data/wallets.db"
  ./server -db=":memory:" -port=3000
  ./server -redis="localhost:6379"

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Audit trail persistence
  - rates/redis.go: Rate cache decorator
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/warp/loan-engine/api"
	"github.com/warp/loan-engine/rates"
	"github.com/warp/loan-engine/store/sqlite"
	"github.com/warp/loan-engine/wallet"
	walletstore "github.com/warp/loan-engine/wallet/store"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "wallets.db", "SQLite database path (\":memory:\" for in-memory)")
	redisAddr := flag.String("redis", "", "Redis address for the rate cache (empty disables caching)")
	flag.Parse()

	statementLog, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("[Server] Failed to open statement log: %v", err)
	}
	defer statementLog.Close()

	rateTable := walletstore.NewRateTable()
	var lookup wallet.RateLookup = rateTable
	if *redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: *redisAddr})
		lookup = rates.NewCache(client, rateTable, 24*time.Hour)
		log.Printf("[Server] Rate cache enabled via Redis at %s", *redisAddr)
	}

	handler := api.NewHandler(statementLog, rateTable, lookup)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	go func() {
		log.Printf("[Server] Listening on :%d (db: %s)", *port, *dbPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] Listen error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[Server] Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[Server] Forced shutdown: %v", err)
	}
	log.Println("[Server] Stopped")
}
