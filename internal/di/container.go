// Package di provides dependency injection configuration for the LabDesk server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/labdeskapp/labdesk-server/internal/config"
	"github.com/labdeskapp/labdesk-server/internal/di/providers"
	"github.com/labdeskapp/labdesk-server/internal/logger"
	"github.com/labdeskapp/labdesk-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideMemberService)
	do.Provide(injector, providers.ProvideTeamService)
	do.Provide(injector, providers.ProvideAssetService)

	// Workers
	do.Provide(injector, providers.ProvideRosterWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once everything is running.
// This triggers lazy initialization in dependency order.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.AuthService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.MemberService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.TeamService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.AssetService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.RosterWatcherHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
