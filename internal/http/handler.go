package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/era5vis/era5vis/internal/domain"
	"github.com/era5vis/era5vis/internal/usecase"
)

// Handler handles HTTP requests for ERA5 cross sections and soundings.
type Handler struct {
	analysisUC *usecase.AnalysisUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(analysisUC *usecase.AnalysisUseCase) *Handler {
	return &Handler{analysisUC: analysisUC}
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// GetLevels handles GET /v1/levels.
func (h *Handler) GetLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": domain.AllPressureLevels})
}

// GetHorizontalSection handles GET /v1/sections/horizontal.
func (h *Handler) GetHorizontalSection(c *gin.Context) {
	req := usecase.ScalarWindRequest{
		Parameter: c.Query("parameter"),
		UVar:      c.Query("u"),
		VVar:      c.Query("v"),
		Time:      c.Query("time"),
		Datafile:  c.Query("datafile"),
		Download:  c.Query("download") == "true",
	}

	levelStr := c.Query("level")
	if levelStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "level parameter is required"})
		return
	}
	level, err := strconv.Atoi(levelStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid level: %v", err)})
		return
	}
	req.Level = level

	if req.TimeIndex, err = intQuery(c, "time_index", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Step, err = intQuery(c, "step", usecase.DefaultWindStep); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analysisUC.ScalarWind(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetVerticalSection handles GET /v1/sections/vertical.
func (h *Handler) GetVerticalSection(c *gin.Context) {
	req := usecase.VertCrossRequest{
		Parameter: c.Query("parameter"),
		Time:      c.Query("time"),
		Datafile:  c.Query("datafile"),
		Download:  c.Query("download") == "true",
	}

	var err error
	if req.StartLat, err = floatQuery(c, "start_lat"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StartLon, err = floatQuery(c, "start_lon"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.EndLat, err = floatQuery(c, "end_lat"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.EndLon, err = floatQuery(c, "end_lon"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.NPoints, err = intQuery(c, "npoints", usecase.DefaultTransectPoints); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TimeIndex, err = intQuery(c, "time_index", 0); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transect, err := h.analysisUC.VertCross(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, transect)
}

// GetSounding handles GET /v1/soundings.
func (h *Handler) GetSounding(c *gin.Context) {
	req := usecase.SkewTRequest{
		Time:     c.Query("time"),
		Datafile: c.Query("datafile"),
		Download: c.Query("download") == "true",
	}

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr != "" && lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid latitude: %v", err)})
			return
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid longitude: %v", err)})
			return
		}
		req.Lat = lat
		req.Lon = lon
		req.HasPoint = true
	}

	sounding, err := h.analysisUC.SkewT(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sounding)
}

// writeError maps use-case errors onto HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	var downloadErr *domain.DownloadError
	switch {
	case errors.As(err, &downloadErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTimeMissing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	}
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	s := c.Query(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}

func floatQuery(c *gin.Context, name string) (float64, error) {
	s := c.Query(name)
	if s == "" {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}
