package api

import (
	"github.com/labdeskapp/labdesk-server/internal/service"
)

// Services groups the business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth   *service.AuthService
	Member *service.MemberService
	Team   *service.TeamService
	Asset  *service.AssetService
}
