// Package usecase connects ERA5 data resolution (cache or explicit
// datafile) with validation and cross-section extraction. The datafile
// is always passed explicitly; no process-wide "current datafile"
// state exists.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/era5vis/era5vis/internal/adapter/store/era5"
	"github.com/era5vis/era5vis/internal/observability"
)

// DefaultWindStep is the subsampling step applied to wind components
// for vector plotting.
const DefaultWindStep = 9

// DefaultTransectPoints is the number of samples along a vertical
// cross-section line.
const DefaultTransectPoints = 200

// Resolver turns logical request parameters into a local NetCDF file,
// downloading on a cache miss.
type Resolver interface {
	Resolve(ctx context.Context, variables []string, levels []int, timeValue string) (string, error)
}

// AnalysisUseCase orchestrates resolve → validate → extract for the
// three analysis products.
type AnalysisUseCase struct {
	resolver Resolver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewAnalysisUseCase creates the use case. resolver may be nil, in
// which case every request must carry an explicit datafile. metrics
// may be nil.
func NewAnalysisUseCase(resolver Resolver, logger *slog.Logger, metrics *observability.Metrics) *AnalysisUseCase {
	return &AnalysisUseCase{
		resolver: resolver,
		logger:   logger,
		metrics:  metrics,
	}
}

// datafile returns the path to use: the explicit one if set, otherwise
// a cache resolution for the given request parameters.
func (uc *AnalysisUseCase) datafile(ctx context.Context, explicit string, download bool, variables []string, levels []int, timeValue string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if !download {
		return "", fmt.Errorf("no datafile provided and downloading is disabled; pass a datafile or enable download")
	}
	if uc.resolver == nil {
		return "", fmt.Errorf("no datafile provided and no downloader is configured")
	}
	return uc.resolver.Resolve(ctx, variables, levels, timeValue)
}

func (uc *AnalysisUseCase) observe(kind string, err error) {
	if uc.metrics == nil {
		return
	}
	if err != nil {
		uc.metrics.ExtractionErrors.WithLabelValues(kind).Inc()
	} else {
		uc.metrics.SectionsExtracted.WithLabelValues(kind).Inc()
	}
}

// timeSelector builds the store selector from a timestamp string and a
// fallback index, the timestamp taking precedence.
func timeSelector(timeValue string, timeIndex int) era5.TimeSelector {
	if timeValue != "" {
		return era5.TimeAt(timeValue)
	}
	return era5.TimeIndex(timeIndex)
}

// ScalarWindRequest asks for a horizontal scalar field plus thinned
// wind components at one pressure level.
type ScalarWindRequest struct {
	Parameter string
	UVar      string // zonal wind variable, default "u"
	VVar      string // meridional wind variable, default "v"
	Level     int
	Time      string // optional if TimeIndex is meant
	TimeIndex int
	Step      int // wind subsampling step, default DefaultWindStep
	Datafile  string
	Download  bool
}

// ScalarWindResult carries the extracted fields.
type ScalarWindResult struct {
	Scalar *era5.HorizontalSection `json:"scalar"`
	WindU  *era5.HorizontalSection `json:"wind_u"`
	WindV  *era5.HorizontalSection `json:"wind_v"`
}

// Validate checks the request parameters for this plot type.
func (r *ScalarWindRequest) Validate() error {
	if r.Parameter == "" {
		return fmt.Errorf("parameter is required for scalar_wind")
	}
	if r.Level == 0 {
		return fmt.Errorf("level is required for scalar_wind")
	}
	return nil
}

// ScalarWind produces a horizontal cross section of the scalar plus
// subsampled wind components.
func (uc *AnalysisUseCase) ScalarWind(ctx context.Context, req ScalarWindRequest) (result *ScalarWindResult, err error) {
	defer func() { uc.observe("scalar_wind", err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}
	if req.UVar == "" {
		req.UVar = "u"
	}
	if req.VVar == "" {
		req.VVar = "v"
	}
	if req.Step <= 0 {
		req.Step = DefaultWindStep
	}

	variables := []string{req.Parameter, req.UVar, req.VVar}
	path, err := uc.datafile(ctx, req.Datafile, req.Download, variables, []int{req.Level}, req.Time)
	if err != nil {
		return nil, err
	}

	ds, err := era5.Open(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	if err = uc.checkAvailability(ds, variables, float64(req.Level), req.Time, req.TimeIndex); err != nil {
		return nil, err
	}

	uc.logger.Info("extracting scalar_wind section",
		"parameter", req.Parameter, "level", req.Level, "datafile", path)

	sel := timeSelector(req.Time, req.TimeIndex)
	scalar, err := ds.HorizontalSection(req.Parameter, float64(req.Level), sel)
	if err != nil {
		return nil, err
	}
	windU, err := ds.HorizontalSection(req.UVar, float64(req.Level), sel)
	if err != nil {
		return nil, err
	}
	windV, err := ds.HorizontalSection(req.VVar, float64(req.Level), sel)
	if err != nil {
		return nil, err
	}

	return &ScalarWindResult{
		Scalar: scalar,
		WindU:  windU.Subsample(req.Step),
		WindV:  windV.Subsample(req.Step),
	}, nil
}

// SkewTRequest asks for a sounding profile at a location.
type SkewTRequest struct {
	Lat      float64
	Lon      float64
	HasPoint bool // distinguishes (0, 0) from an unset location
	Time     string
	Datafile string
	Download bool
}

// Validate checks the request parameters for this plot type.
func (r *SkewTRequest) Validate() error {
	if !r.HasPoint {
		return fmt.Errorf("lat and lon are required for skewT")
	}
	if r.Time == "" {
		return fmt.Errorf("time is required for skewT")
	}
	return nil
}

// SkewT produces the full-column sounding profile nearest to the
// requested location. A cache resolution requests all pressure levels.
func (uc *AnalysisUseCase) SkewT(ctx context.Context, req SkewTRequest) (s *era5.Sounding, err error) {
	defer func() { uc.observe("skewt", err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}

	vars := era5.DefaultSoundingVars()
	variables := []string{vars.Temperature, vars.Humidity, vars.WindU, vars.WindV}
	path, err := uc.datafile(ctx, req.Datafile, req.Download, variables, nil, req.Time)
	if err != nil {
		return nil, err
	}

	ds, err := era5.Open(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	for _, v := range variables {
		if err = ds.HasVariable(v); err != nil {
			return nil, err
		}
	}
	if err = ds.CheckTime(req.Time); err != nil {
		return nil, err
	}

	uc.logger.Info("extracting sounding",
		"lat", req.Lat, "lon", req.Lon, "time", req.Time, "datafile", path)

	return ds.Sounding(req.Lat, req.Lon, era5.TimeAt(req.Time), vars)
}

// VertCrossRequest asks for a vertical cross section along a line.
type VertCrossRequest struct {
	Parameter string
	StartLat  float64
	StartLon  float64
	EndLat    float64
	EndLon    float64
	Time      string
	TimeIndex int
	NPoints   int // default DefaultTransectPoints
	Datafile  string
	Download  bool
}

// Validate checks the request parameters for this plot type.
func (r *VertCrossRequest) Validate() error {
	if r.Parameter == "" {
		return fmt.Errorf("parameter is required for vert_cross")
	}
	if r.StartLat == r.EndLat && r.StartLon == r.EndLon {
		return fmt.Errorf("start and end points of the cross section must differ")
	}
	return nil
}

// VertCross produces a vertical cross section of the parameter along
// the line between the two points, at all pressure levels. A cache
// resolution therefore requests the full column.
func (uc *AnalysisUseCase) VertCross(ctx context.Context, req VertCrossRequest) (tr *era5.Transect, err error) {
	defer func() { uc.observe("vert_cross", err) }()

	if err = req.Validate(); err != nil {
		return nil, err
	}
	if req.NPoints <= 0 {
		req.NPoints = DefaultTransectPoints
	}

	path, err := uc.datafile(ctx, req.Datafile, req.Download, []string{req.Parameter}, nil, req.Time)
	if err != nil {
		return nil, err
	}

	ds, err := era5.Open(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	if err = ds.HasVariable(req.Parameter); err != nil {
		return nil, err
	}
	if req.Time != "" {
		if err = ds.CheckTime(req.Time); err != nil {
			return nil, err
		}
	} else if err = ds.CheckTimeIndex(req.TimeIndex); err != nil {
		return nil, err
	}

	uc.logger.Info("extracting vertical cross section",
		"parameter", req.Parameter,
		"start", fmt.Sprintf("%.2f,%.2f", req.StartLat, req.StartLon),
		"end", fmt.Sprintf("%.2f,%.2f", req.EndLat, req.EndLon),
		"datafile", path)

	sel := timeSelector(req.Time, req.TimeIndex)
	return ds.VerticalTransect(req.Parameter, req.StartLat, req.StartLon, req.EndLat, req.EndLon, sel, req.NPoints)
}

// checkAvailability runs the per-variable availability checks before
// extraction, mirroring what a user would hit when opening the file.
func (uc *AnalysisUseCase) checkAvailability(ds *era5.Dataset, variables []string, level float64, timeValue string, timeIndex int) error {
	for _, v := range variables {
		if err := ds.HasVariable(v); err != nil {
			return err
		}
	}
	if err := ds.CheckLevel(level); err != nil {
		return err
	}
	if timeValue != "" {
		return ds.CheckTime(timeValue)
	}
	return ds.CheckTimeIndex(timeIndex)
}
