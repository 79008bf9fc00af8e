// Package main extracts ERA5 cross sections and sounding profiles from
// cached or freshly downloaded reanalysis files, printing the result as
// JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/era5vis/era5vis/internal/adapter/cds"
	"github.com/era5vis/era5vis/internal/cache"
	"github.com/era5vis/era5vis/internal/observability"
	"github.com/era5vis/era5vis/internal/usecase"
)

func main() {
	var (
		plotType  string
		parameter string
		level     int
		timeStr   string
		timeIndex int
		lat       float64
		lon       float64
		startLat  float64
		startLon  float64
		endLat    float64
		endLon    float64
		npoints   int
		step      int
		datafile  string
		cacheDir  string
		download  bool
		output    string
		logLevel  string
	)

	flag.StringVar(&plotType, "plot_type", "scalar_wind", "Plot type: scalar_wind, skewT or vert_cross")
	flag.StringVar(&parameter, "parameter", "", "Variable short name (e.g., t, z, q)")
	flag.IntVar(&level, "level", 0, "Pressure level in hPa (scalar_wind)")
	flag.StringVar(&timeStr, "time", "", "Valid time (e.g., 2025-03-02T00:00)")
	flag.IntVar(&timeIndex, "time_index", 0, "Time index, used when -time is not given")
	flag.Float64Var(&lat, "lat", 0, "Latitude in degrees (skewT)")
	flag.Float64Var(&lon, "lon", 0, "Longitude in degrees, east positive (skewT)")
	flag.Float64Var(&startLat, "start_lat", 0, "Cross-section start latitude (vert_cross)")
	flag.Float64Var(&startLon, "start_lon", 0, "Cross-section start longitude (vert_cross)")
	flag.Float64Var(&endLat, "end_lat", 0, "Cross-section end latitude (vert_cross)")
	flag.Float64Var(&endLon, "end_lon", 0, "Cross-section end longitude (vert_cross)")
	flag.IntVar(&npoints, "npoints", usecase.DefaultTransectPoints, "Samples along the cross-section line")
	flag.IntVar(&step, "step", usecase.DefaultWindStep, "Wind subsampling step (scalar_wind)")
	flag.StringVar(&datafile, "datafile", "", "Explicit NetCDF file; skips the cache")
	flag.StringVar(&cacheDir, "cache_dir", ".", "Existing directory holding cached ERA5 files")
	flag.BoolVar(&download, "download", false, "Download from the CDS API on a cache miss")
	flag.StringVar(&output, "output", "", "Write the JSON result to this file instead of stdout")
	flag.StringVar(&logLevel, "log_level", "warn", "Log level: debug, info, warn or error")
	flag.Parse()

	logger := observability.NewLogger(logLevel, "text")

	var resolver usecase.Resolver
	if datafile == "" {
		if info, err := os.Stat(cacheDir); err != nil || !info.IsDir() {
			fmt.Fprintf(os.Stderr, "cache directory %s does not exist\n", cacheDir)
			os.Exit(1)
		}
		creds, err := cds.LoadCredentials()
		if err != nil && download {
			fmt.Fprintf(os.Stderr, "CDS credentials not available: %v\n", err)
			os.Exit(1)
		}
		resolver = cache.New(cacheDir, cds.NewClient(creds.URL, creds.Key, logger), logger, nil)
	}

	uc := usecase.NewAnalysisUseCase(resolver, logger, nil)
	ctx := context.Background()

	var result any
	var err error
	switch plotType {
	case "scalar_wind":
		result, err = uc.ScalarWind(ctx, usecase.ScalarWindRequest{
			Parameter: parameter,
			Level:     level,
			Time:      timeStr,
			TimeIndex: timeIndex,
			Step:      step,
			Datafile:  datafile,
			Download:  download,
		})
	case "skewT":
		result, err = uc.SkewT(ctx, usecase.SkewTRequest{
			Lat:      lat,
			Lon:      lon,
			HasPoint: flagSet("lat") && flagSet("lon"),
			Time:     timeStr,
			Datafile: datafile,
			Download: download,
		})
	case "vert_cross":
		result, err = uc.VertCross(ctx, usecase.VertCrossRequest{
			Parameter: parameter,
			StartLat:  startLat,
			StartLon:  startLon,
			EndLat:    endLat,
			EndLon:    endLon,
			Time:      timeStr,
			TimeIndex: timeIndex,
			NPoints:   npoints,
			Datafile:  datafile,
			Download:  download,
		})
	default:
		fmt.Fprintf(os.Stderr, "unknown plot type %q; use scalar_wind, skewT or vert_cross\n", plotType)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

// flagSet reports whether the named flag was given explicitly, so that
// an explicit -lat 0 is distinguishable from an absent one.
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
