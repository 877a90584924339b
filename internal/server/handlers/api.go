// Package handlers contains the HTTP handlers for the public API surface.
package handlers

import (
	"go.uber.org/zap"

	"github.com/heypico/waypoint/internal/config"
	"github.com/heypico/waypoint/internal/llm"
	"github.com/heypico/waypoint/internal/maps"
)

// API bundles the dependencies every request handler needs.
type API struct {
	Cfg    *config.Config
	LLM    *llm.Service
	Maps   *maps.Client
	Logger *zap.Logger
}

// NewAPI wires an API handler set. A nil logger is replaced with a no-op.
func NewAPI(cfg *config.Config, llmSvc *llm.Service, mapsClient *maps.Client, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		Cfg:    cfg,
		LLM:    llmSvc,
		Maps:   mapsClient,
		Logger: logger,
	}
}
