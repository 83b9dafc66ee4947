// Package providers contains dependency injection providers for the LabDesk server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/labdeskapp/labdesk-server/internal/config"
	"github.com/labdeskapp/labdesk-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	log.Info("Starting LabDesk Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"roster_csv", cfg.Data.RosterCSVPath,
		"inventory_csv", cfg.Data.InventoryCSVPath,
	)

	return log, nil
}
