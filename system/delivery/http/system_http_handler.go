package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/0x-tools/ordersim/domain"
	"github.com/0x-tools/ordersim/domain/mvc"
	"github.com/0x-tools/ordersim/log"
)

// BlockNumberReader reads the latest block number straight from the node.
type BlockNumberReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

type SystemHandler struct {
	logger    log.Logger
	node      BlockNumberReader
	CIUsecase mvc.ChainInfoUsecase
	config    domain.Config
}

const (
	heightTolerance       = 10
	versionPlaceholder    = "version="
	whiteSpacePlaceholder = " "
)

// NewSystemHandler will initialize the /debug/ppof resources endpoint
func NewSystemHandler(e *echo.Echo, config domain.Config, logger log.Logger, node BlockNumberReader, us mvc.ChainInfoUsecase) {
	handler := &SystemHandler{
		logger:    logger,
		node:      node,
		CIUsecase: us,
		config:    config,
	}

	// if debug mod, enable additional profiles that are too intensive
	// for production.
	if !config.LoggerIsProduction {
		runtime.SetMutexProfileFraction(2)
		runtime.SetBlockProfileRate(2)
	}

	e.GET("/debug/pprof/*", echo.WrapHandler(http.DefaultServeMux))
	e.GET("/debug/pprof/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	e.GET("/debug/pprof/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	e.GET("/debug/pprof/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	e.GET("/debug/pprof/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))

	e.GET("/healthcheck", handler.GetHealthStatus)
	e.GET("/config", handler.GetConfig)
	e.GET("/version", handler.GetVersion)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// GetConfig returns the config for the order state service
func (h *SystemHandler) GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, h.config)
}

func (h *SystemHandler) GetVersion(c echo.Context) error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read build info")
	}

	for _, setting := range buildInfo.Settings {
		if setting.Key == "-ldflags" {
			version, err := extractVersion(setting.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("failed to extract version information: %v", err))
			}

			return c.JSON(http.StatusOK, version)
		}
	}

	return echo.NewHTTPError(http.StatusInternalServerError, "failed to find version information")
}

// extractVersion extracts the version string from the ldflags
func extractVersion(ldFlagsValueStr string) (string, error) {
	index := strings.Index(ldFlagsValueStr, versionPlaceholder)

	if index == -1 {
		return "", fmt.Errorf("No version string found")
	}

	substring := ldFlagsValueStr[index+len(versionPlaceholder):]

	index = strings.Index(substring, whiteSpacePlaceholder)
	if index == -1 {
		return substring, nil
	}

	return substring[:index], nil
}

// GetHealthStatus checks that the node answers and that the block number sessions pin to is fresh.
func (h *SystemHandler) GetHealthStatus(c echo.Context) error {
	ctx := c.Request().Context()

	latestChainHeight, err := h.node.BlockNumber(ctx)
	if err != nil {
		h.logger.Error("Error checking node status", zap.Error(err))
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Error connecting to the node")
	}

	// Errors if the height has not been updated for longer than the configured staleness
	latestStoreHeight, err := h.CIUsecase.GetLatestHeight(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("Failed to get latest block number: %s", err))
	}

	// If the cached block number lags too far behind, return HTTP 503
	if latestChainHeight > latestStoreHeight && latestChainHeight-latestStoreHeight > heightTolerance {
		return echo.NewHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("Block number is lagging, chain height (%d), store height (%d), tolerance (%d)", latestChainHeight, latestStoreHeight, heightTolerance))
	}

	return c.JSON(http.StatusOK, map[string]string{
		"node_status":         "running",
		"chain_latest_height": fmt.Sprint(latestChainHeight),
		"store_latest_height": fmt.Sprint(latestStoreHeight),
	})
}
