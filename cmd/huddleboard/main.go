package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"huddleboard/internal/analysis"
	"huddleboard/internal/api"
	"huddleboard/internal/config"
	"huddleboard/internal/data"
	"huddleboard/internal/database"
	"huddleboard/internal/models"
	"huddleboard/internal/models/providers"
	"huddleboard/internal/monitoring"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "", "Path to configuration file")
	dataFile    = flag.String("data", "", "Path to the reservations dataset (overrides config)")
	templates   = flag.String("templates", "web/templates/*", "Dashboard HTML template glob")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}

	// Load and bucket the reservations dataset
	ranges, err := cfg.Ranges()
	if err != nil {
		log.Fatalf("Invalid date ranges: %v", err)
	}
	dataset, err := data.Load(cfg.DataFile)
	if err != nil {
		log.Printf("Dataset load problem (serving empty dashboard): %v", err)
	}
	buckets := data.Bucket(dataset, ranges)
	log.Printf("Loaded %d diners into %d buckets", len(dataset.Diners), len(buckets.Names))

	// Initialize database
	if err := database.InitDB(cfg.DBPath, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	// Initialize LLM
	registry := models.NewModelRegistry()
	model, err := registry.GetModel(cfg.Model)
	if err != nil {
		log.Fatalf("Failed to initialize LLM %s: %v", cfg.Model, err)
	}

	// Transcription is optional; the huddle endpoints report the missing
	// key instead of blocking startup.
	var transcriber providers.Transcriber
	whisper, err := providers.NewWhisperProvider()
	if err != nil {
		log.Printf("Transcription disabled: %v", err)
	} else {
		transcriber = whisper
	}

	monitor := monitoring.NewMonitor()
	cache := analysis.NewCache(database.GetDB())
	cache.Warm(buckets.Names)

	followupOpts := []analysis.FollowUpOption{}
	if cfg.Followup.BatchSize > 0 {
		followupOpts = append(followupOpts, analysis.WithBatchSize(cfg.Followup.BatchSize))
	}
	if cfg.Followup.MaxWorkers > 0 {
		followupOpts = append(followupOpts, analysis.WithMaxWorkers(cfg.Followup.MaxWorkers))
	}

	dashboard := api.NewDashboardAPI(api.Options{
		Buckets:    buckets,
		FollowUp:   analysis.NewFollowUpAnalyzer(model, monitor, followupOpts...),
		Huddle:     analysis.NewHuddleAnalyzer(model, transcriber),
		Cache:      cache,
		Monitor:    monitor,
		AuthSecret: cfg.AuthSecret,
		Templates:  templateGlob(*templates),
	})

	// Start metrics server
	if cfg.MetricsConfig.Enabled {
		mp := cfg.MetricsConfig.Port
		if flagWasSet("metrics-port") {
			mp = *metricsPort
		}
		go startMetricsServer(mp, cfg.MetricsConfig.Path)
	}

	// Start API server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: dashboard.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	// Start server
	log.Printf("Starting API server on port %d", *port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

// flagWasSet reports whether a flag was given on the command line, so an
// explicit value wins over the config file even when it equals the default.
func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// templateGlob returns the template glob when the files exist, so the
// server still runs headless from a bare checkout.
func templateGlob(glob string) string {
	if glob == "" {
		return ""
	}
	matches, err := filepath.Glob(glob)
	if err != nil || len(matches) == 0 {
		log.Printf("No dashboard templates at %s; HTML page disabled", glob)
		return ""
	}
	return glob
}

func startMetricsServer(port int, path string) {
	if path == "" {
		path = "/metrics"
	}
	metricsRouter := gin.Default()
	metricsRouter.GET(path, gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
