package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/labdeskapp/labdesk-server/internal/domain"
)

func (s *Server) registerTeamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTeams",
		Method:      http.MethodGet,
		Path:        "/api/v1/teams",
		Summary:     "List teams",
		Description: "Returns per-team member counters merged with the explicit team registry",
		Tags:        []string{"Teams"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTeams)

	huma.Register(s.api, huma.Operation{
		OperationID: "teamStatistics",
		Method:      http.MethodGet,
		Path:        "/api/v1/teams/stats",
		Summary:     "Derived team statistics",
		Description: "Returns team counters derived from member affiliation fields only",
		Tags:        []string{"Teams"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleTeamStatistics)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRegisteredTeams",
		Method:      http.MethodGet,
		Path:        "/api/v1/teams/registered",
		Summary:     "List registered teams",
		Description: "Returns explicitly registered team documents",
		Tags:        []string{"Teams"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRegisteredTeams)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveTeam",
		Method:      http.MethodPost,
		Path:        "/api/v1/teams",
		Summary:     "Save team",
		Description: "Registers or updates a team, keyed by its normalized name",
		Tags:        []string{"Teams"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveTeam)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTeam",
		Method:      http.MethodDelete,
		Path:        "/api/v1/teams/{name}",
		Summary:     "Delete team",
		Description: "Removes a registered team, optionally cascading to or dissociating its members",
		Tags:        []string{"Teams"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTeam)
}

// === DTOs ===

// ListTeamsInput authenticates the listing request.
type ListTeamsInput struct {
	Authorization string `header:"Authorization"`
}

// ListTeamsResponse carries aggregated team rows.
type ListTeamsResponse struct {
	Teams []domain.TeamStats `json:"teams" doc:"Aggregated team rows"`
}

// ListTeamsOutput wraps the listing for Huma.
type ListTeamsOutput struct {
	Body ListTeamsResponse
}

// ListRegisteredTeamsResponse carries explicit team documents.
type ListRegisteredTeamsResponse struct {
	Teams []*domain.Team `json:"teams" doc:"Registered team documents"`
}

// ListRegisteredTeamsOutput wraps the registry listing for Huma.
type ListRegisteredTeamsOutput struct {
	Body ListRegisteredTeamsResponse
}

// SaveTeamRequest is the request body for team registration.
type SaveTeamRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200" doc:"Team name"`
	Advisor     string `json:"advisor,omitempty" doc:"Advisor name"`
	Description string `json:"description,omitempty" doc:"Free-form description"`
	Status      string `json:"status,omitempty" doc:"Team status (Ativa or Inativa)"`
}

// SaveTeamInput wraps the registration request for Huma.
type SaveTeamInput struct {
	Authorization string `header:"Authorization"`
	Body          SaveTeamRequest
}

// SaveTeamResponse names the registered team document.
type SaveTeamResponse struct {
	Slug string `json:"slug" doc:"Normalized team key"`
}

// SaveTeamOutput wraps the registration response for Huma.
type SaveTeamOutput struct {
	Body SaveTeamResponse
}

// DeleteTeamInput names the team to delete and how to treat its members.
type DeleteTeamInput struct {
	Authorization string `header:"Authorization"`
	Name          string `path:"name" doc:"Team name"`
	Cascade       bool   `query:"cascade" doc:"Also delete every member of the team"`
	Dissociate    bool   `query:"dissociate" doc:"Strip the team from member affiliation fields"`
}

// === Handlers ===

func (s *Server) handleListTeams(ctx context.Context, input *ListTeamsInput) (*ListTeamsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	teams, err := s.services.Team.List(ctx)
	if err != nil {
		return nil, err
	}

	return &ListTeamsOutput{Body: ListTeamsResponse{Teams: teams}}, nil
}

func (s *Server) handleTeamStatistics(ctx context.Context, input *ListTeamsInput) (*ListTeamsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	stats, err := s.services.Team.DeriveTeamStatistics(ctx)
	if err != nil {
		return nil, err
	}

	return &ListTeamsOutput{Body: ListTeamsResponse{Teams: stats}}, nil
}

func (s *Server) handleListRegisteredTeams(ctx context.Context, input *ListTeamsInput) (*ListRegisteredTeamsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	teams, err := s.services.Team.ListRegistered(ctx)
	if err != nil {
		return nil, err
	}

	return &ListRegisteredTeamsOutput{Body: ListRegisteredTeamsResponse{Teams: teams}}, nil
}

func (s *Server) handleSaveTeam(ctx context.Context, input *SaveTeamInput) (*SaveTeamOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	slug, err := s.services.Team.Save(ctx, &domain.Team{
		Name:        input.Body.Name,
		Advisor:     input.Body.Advisor,
		Description: input.Body.Description,
		Status:      input.Body.Status,
	})
	if err != nil {
		return nil, err
	}

	return &SaveTeamOutput{Body: SaveTeamResponse{Slug: slug}}, nil
}

func (s *Server) handleDeleteTeam(ctx context.Context, input *DeleteTeamInput) (*struct{}, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Team.Delete(ctx, input.Name, input.Cascade, input.Dissociate); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}
