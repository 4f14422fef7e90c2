// Standalone API server binary. The biodisc CLI covers the same ground via
// "biodisc server"; this binary exists for containerized deployments that
// only ever run the API.
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

	"github.com/omicsdash/biodisc/internal/api"
	"github.com/omicsdash/biodisc/internal/config"
	"github.com/omicsdash/biodisc/internal/scheduler"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		port        = flag.Int("port", 0, "Server port (overrides config)")
		host        = flag.String("host", "", "Server host (overrides config)")
		dbPath      = flag.String("db", "", "Database path (overrides config)")
		configPath  = flag.String("config", "", "Configuration file path")
		scheduled   = flag.Bool("scheduled", false, "Enable periodic discovery sweeps")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("biodisc server %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *scheduled {
		cfg.Discovery.Scheduled = true
	}

	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("Failed to create data directories: %v", err)
	}

	srv, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	schedCtx, stopSched := context.WithCancel(context.Background())
	defer stopSched()
	if cfg.Discovery.Scheduled {
		sched := scheduler.New(srv.DiscoveryService(),
			time.Duration(cfg.Discovery.IntervalHours)*time.Hour)
		go sched.Run(schedCtx)
	}

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	stopSched()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
