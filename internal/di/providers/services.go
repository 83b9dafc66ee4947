package providers

import (
	"github.com/samber/do/v2"

	"github.com/labdeskapp/labdesk-server/internal/config"
	"github.com/labdeskapp/labdesk-server/internal/logger"
	"github.com/labdeskapp/labdesk-server/internal/service"
)

// ProvideAuthService provides session-based authentication.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, log.Logger, cfg.Auth.SessionDuration, cfg.Auth.LoginTimeout), nil
}

// ProvideMemberService provides the member record service.
func ProvideMemberService(i do.Injector) (*service.MemberService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMemberService(storeHandle.Store, log.Logger, cfg.Data.RosterCSVPath), nil
}

// ProvideTeamService provides the team aggregation service.
func ProvideTeamService(i do.Injector) (*service.TeamService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	members := do.MustInvoke[*service.MemberService](i)

	return service.NewTeamService(storeHandle.Store, log.Logger, members), nil
}

// ProvideAssetService provides the inventory service.
func ProvideAssetService(i do.Injector) (*service.AssetService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAssetService(storeHandle.Store, log.Logger, cfg.Data.InventoryCSVPath), nil
}
