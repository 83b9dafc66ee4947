package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/labdeskapp/labdesk-server/internal/domain"
	"github.com/labdeskapp/labdesk-server/internal/service"
)

func (s *Server) registerMemberRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMembers",
		Method:      http.MethodGet,
		Path:        "/api/v1/members",
		Summary:     "List members",
		Description: "Returns all member records, seeding from the roster CSV on first use",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveMember",
		Method:      http.MethodPost,
		Path:        "/api/v1/members",
		Summary:     "Save member",
		Description: "Creates or updates a member record, merging with stored fields",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteMembers",
		Method:      http.MethodPost,
		Path:        "/api/v1/members/delete",
		Summary:     "Delete members",
		Description: "Deletes the member records named by ID",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "importMembers",
		Method:      http.MethodPost,
		Path:        "/api/v1/members/import",
		Summary:     "Import roster CSV",
		Description: "Cleans the configured roster CSV and writes every row into the store",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleImportMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "syncMembers",
		Method:      http.MethodPost,
		Path:        "/api/v1/members/sync",
		Summary:     "Synchronize members with roster",
		Description: "Reconciles stored member fields against the roster CSV export",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSyncMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "replaceMemberField",
		Method:      http.MethodPost,
		Path:        "/api/v1/members/replace-field",
		Summary:     "Replace a field value",
		Description: "Rewrites one field value across every member record that carries it",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReplaceMemberField)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeProject",
		Method:      http.MethodPost,
		Path:        "/api/v1/members/remove-project",
		Summary:     "Remove a project",
		Description: "Clears the project assignment from every member on the named project",
		Tags:        []string{"Members"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveProject)
}

// === DTOs ===

// ListMembersInput authenticates the listing request.
type ListMembersInput struct {
	Authorization string `header:"Authorization"`
}

// ListMembersResponse carries member records keyed by field name.
type ListMembersResponse struct {
	Members []domain.Record `json:"members" doc:"Member records"`
	Total   int             `json:"total" doc:"Number of records"`
}

// ListMembersOutput wraps the listing for Huma.
type ListMembersOutput struct {
	Body ListMembersResponse
}

// SaveMemberInput carries one member record. Unknown fields round-trip to the
// store untouched.
type SaveMemberInput struct {
	Authorization string `header:"Authorization"`
	Body          domain.Record
}

// SaveMemberResponse names the document the record landed in.
type SaveMemberResponse struct {
	ID string `json:"id" doc:"Member document ID"`
}

// SaveMemberOutput wraps the save response for Huma.
type SaveMemberOutput struct {
	Body SaveMemberResponse
}

// DeleteMembersRequest names the records to delete.
type DeleteMembersRequest struct {
	IDs []string `json:"ids" validate:"required,min=1" doc:"Member document IDs"`
}

// DeleteMembersInput wraps the delete request for Huma.
type DeleteMembersInput struct {
	Authorization string `header:"Authorization"`
	Body          DeleteMembersRequest
}

// DeleteMembersResponse reports how many records were removed.
type DeleteMembersResponse struct {
	Deleted int `json:"deleted" doc:"Number of records deleted"`
}

// DeleteMembersOutput wraps the delete response for Huma.
type DeleteMembersOutput struct {
	Body DeleteMembersResponse
}

// ImportMembersInput authenticates the import request.
type ImportMembersInput struct {
	Authorization string `header:"Authorization"`
}

// ImportMembersResponse reports the import outcome.
type ImportMembersResponse struct {
	Imported int `json:"imported" doc:"Number of rows written to the store"`
}

// ImportMembersOutput wraps the import response for Huma.
type ImportMembersOutput struct {
	Body ImportMembersResponse
}

// SyncMembersRequest optionally restricts the synchronized fields.
type SyncMembersRequest struct {
	Fields []string `json:"fields,omitempty" doc:"Fields to synchronize (defaults to the full schema)"`
}

// SyncMembersInput wraps the sync request for Huma.
type SyncMembersInput struct {
	Authorization string `header:"Authorization"`
	Body          SyncMembersRequest
}

// SyncMembersOutput wraps the reconciliation report for Huma.
type SyncMembersOutput struct {
	Body service.SyncResult
}

// ReplaceFieldRequest names a field rewrite.
type ReplaceFieldRequest struct {
	Field    string `json:"field" validate:"required" doc:"Field to rewrite"`
	OldValue string `json:"old_value" validate:"required" doc:"Value to replace"`
	NewValue string `json:"new_value" doc:"Replacement value"`
}

// ReplaceFieldInput wraps the rewrite request for Huma.
type ReplaceFieldInput struct {
	Authorization string `header:"Authorization"`
	Body          ReplaceFieldRequest
}

// AffectedResponse reports how many records a bulk rewrite touched.
type AffectedResponse struct {
	Affected int `json:"affected" doc:"Number of records updated"`
}

// AffectedOutput wraps the rewrite response for Huma.
type AffectedOutput struct {
	Body AffectedResponse
}

// RemoveProjectRequest names the project to clear.
type RemoveProjectRequest struct {
	Project string `json:"project" validate:"required" doc:"Project name"`
}

// RemoveProjectInput wraps the project removal request for Huma.
type RemoveProjectInput struct {
	Authorization string `header:"Authorization"`
	Body          RemoveProjectRequest
}

// === Handlers ===

func (s *Server) handleListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	members, err := s.services.Member.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &ListMembersOutput{Body: ListMembersResponse{
		Members: members,
		Total:   len(members),
	}}, nil
}

func (s *Server) handleSaveMember(ctx context.Context, input *SaveMemberInput) (*SaveMemberOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	id, err := s.services.Member.Save(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	return &SaveMemberOutput{Body: SaveMemberResponse{ID: id}}, nil
}

func (s *Server) handleDeleteMembers(ctx context.Context, input *DeleteMembersInput) (*DeleteMembersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	deleted := s.services.Member.DeleteMany(ctx, input.Body.IDs)
	return &DeleteMembersOutput{Body: DeleteMembersResponse{Deleted: deleted}}, nil
}

func (s *Server) handleImportMembers(ctx context.Context, input *ImportMembersInput) (*ImportMembersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	imported, err := s.services.Member.ImportCSV(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &ImportMembersOutput{Body: ImportMembersResponse{Imported: imported}}, nil
}

func (s *Server) handleSyncMembers(ctx context.Context, input *SyncMembersInput) (*SyncMembersOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	result, err := s.services.Member.SynchronizeFields(ctx, input.Body.Fields)
	if err != nil {
		return nil, err
	}

	return &SyncMembersOutput{Body: *result}, nil
}

func (s *Server) handleReplaceMemberField(ctx context.Context, input *ReplaceFieldInput) (*AffectedOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	affected, err := s.services.Member.ReplaceFieldValue(ctx, input.Body.Field, input.Body.OldValue, input.Body.NewValue)
	if err != nil {
		return nil, err
	}

	return &AffectedOutput{Body: AffectedResponse{Affected: affected}}, nil
}

func (s *Server) handleRemoveProject(ctx context.Context, input *RemoveProjectInput) (*AffectedOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	affected, err := s.services.Member.RemoveProjects(ctx, input.Body.Project)
	if err != nil {
		return nil, err
	}

	return &AffectedOutput{Body: AffectedResponse{Affected: affected}}, nil
}
