package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/carshow/cache"
	"github.com/danielhkuo/carshow/cliparse"
	"github.com/danielhkuo/carshow/db"
	"github.com/danielhkuo/carshow/middleware"
	"github.com/danielhkuo/carshow/router"
	"github.com/danielhkuo/carshow/votestatus"
)

const statusFetchTimeout = 10 * time.Second

func main() {
	var err error

	// Values already in the environment win over .env
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	// Results cache
	store, err := cache.New(cfg.RedisURL)
	if err != nil {
		slog.Error("cache setup failed", "error", err)
		os.Exit(1)
	}
	if rs, ok := store.(*cache.RedisStore); ok {
		ctx, cancel := context.WithTimeout(context.Background(), statusFetchTimeout)
		if err := rs.Ping(ctx); err != nil {
			// Reads fall back to a fresh tally until Redis is back
			slog.Warn("redis unreachable", "error", err)
		}
		cancel()
	}
	results := cache.NewResults(store, cfg.ResultsCacheTTL)
	defer results.Close()

	// Voting status comes from a remote schedule when configured,
	// otherwise from the schedule table
	var source votestatus.Source = db.NewScheduleStore(dbConn)
	if cfg.StatusSourceURL != "" {
		source = votestatus.NewHTTPSource(cfg.StatusSourceURL, statusFetchTimeout)
		slog.Info("Using remote voting schedule", "url", cfg.StatusSourceURL)
	}
	mgr := votestatus.NewManager(source, votestatus.Options{})
	mgr.StartPolling(cfg.PollInterval)
	defer mgr.StopPolling()

	// Create router
	mux := router.NewRouter(dbConn, cfg, mgr, results)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		mgr.StopPolling()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "poll_interval", cfg.PollInterval)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
