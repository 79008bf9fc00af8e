// Package main provides the ERA5 analysis HTTP server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/era5vis/era5vis/internal/adapter/cds"
	"github.com/era5vis/era5vis/internal/cache"
	"github.com/era5vis/era5vis/internal/config"
	httpHandler "github.com/era5vis/era5vis/internal/http"
	"github.com/era5vis/era5vis/internal/observability"
	"github.com/era5vis/era5vis/internal/usecase"
)

const version = "0.1.0"

func main() {
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("era5vis-server version %s\n", version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	logger.Info("starting ERA5 analysis server",
		"addr", cfg.HTTPAddr,
		"cache_dir", cfg.CacheDir,
		"download_enabled", cfg.DownloadEnabled)

	// With downloading disabled, requests must carry an explicit
	// datafile; the use case enforces that.
	var resolver usecase.Resolver
	if cfg.DownloadEnabled {
		creds, err := cds.LoadCredentials()
		if err != nil {
			logger.Error("CDS credentials not available", "error", err)
			os.Exit(1)
		}
		client := cds.NewClient(creds.URL, creds.Key, logger).
			WithPollInterval(cfg.CDSPollInterval)

		// Cross-process locking: concurrent identical requests from
		// separate API calls share one download.
		resolver = cache.New(cfg.CacheDir, client, logger, metrics).
			WithLocking(cache.NewFlockGroup(cfg.CacheDir))
	}

	analysisUC := usecase.NewAnalysisUseCase(resolver, logger, metrics)
	router := httpHandler.SetupRouter(analysisUC)

	logger.Info("server listening", "addr", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("ERA5 Analysis Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  era5vis-server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  HTTP_ADDR               Listen address (default: :8080)")
	fmt.Println("  LOG_LEVEL               debug, info, warn or error (default: info)")
	fmt.Println("  LOG_FORMAT              text or json (default: text)")
	fmt.Println("  ERA5_CACHE_DIR          Existing directory for cached NetCDF files (default: working directory)")
	fmt.Println("  ERA5_DOWNLOAD           Set to 'true' to enable CDS downloads")
	fmt.Println("  CDSAPI_URL              CDS API base URL (default: public endpoint)")
	fmt.Println("  CDSAPI_KEY              CDS API key (falls back to ~/.cdsapirc)")
	fmt.Println("  CDS_POLL_INTERVAL       Job polling interval (default: 2s)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                    Health check")
	fmt.Println("  GET /metrics                   Prometheus metrics")
	fmt.Println("  GET /v1/levels                 List available pressure levels")
	fmt.Println("  GET /v1/sections/horizontal    Scalar field plus winds at one level")
	fmt.Println("  GET /v1/sections/vertical      Vertical cross section along a line")
	fmt.Println("  GET /v1/soundings              Vertical profile at a location")
	fmt.Println()
}
