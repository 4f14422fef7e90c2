package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/omicsdash/biodisc/internal/api"
	"github.com/omicsdash/biodisc/internal/scheduler"
)

var (
	serverPort       int
	serverHost       string
	serverConfigPath string
	serverScheduled  bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long: `Server starts the REST API over the local store. With --scheduled, a
background loop sweeps every disease category on the configured interval.`,
	Example: `  # Start on the default port
  biodisc server

  # Custom port with periodic discovery
  biodisc server --port 9090 --scheduled`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Port to listen on (overrides config)")
	serverCmd.Flags().StringVar(&serverHost, "host", "", "Host to bind to (overrides config)")
	serverCmd.Flags().StringVarP(&serverConfigPath, "config", "c", "", "Configuration file path")
	serverCmd.Flags().BoolVar(&serverScheduled, "scheduled", false, "Enable periodic discovery sweeps")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(serverConfigPath)
	if err != nil {
		return err
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverScheduled {
		cfg.Discovery.Scheduled = true
	}

	srv, err := api.NewServer(cfg)
	if err != nil {
		return err
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
	return nil
}
