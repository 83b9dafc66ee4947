package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/labdeskapp/labdesk-server/internal/domain"
)

func (s *Server) registerAssetRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAssets",
		Method:      http.MethodGet,
		Path:        "/api/v1/assets",
		Summary:     "List assets",
		Description: "Returns inventory assets from the store, falling back to the inventory CSV",
		Tags:        []string{"Assets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAssets)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveAsset",
		Method:      http.MethodPost,
		Path:        "/api/v1/assets",
		Summary:     "Save asset",
		Description: "Registers or updates an inventory asset, assigning the next code when absent",
		Tags:        []string{"Assets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSaveAsset)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAssets",
		Method:      http.MethodPost,
		Path:        "/api/v1/assets/delete",
		Summary:     "Delete assets",
		Description: "Deletes the assets named by inventory code",
		Tags:        []string{"Assets"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAssets)
}

// === DTOs ===

// ListAssetsInput authenticates the listing request.
type ListAssetsInput struct {
	Authorization string `header:"Authorization"`
}

// ListAssetsResponse carries the inventory with its total estimated value.
type ListAssetsResponse struct {
	Assets     []*domain.Asset `json:"assets" doc:"Inventory assets sorted by code"`
	TotalValue float64         `json:"total_value" doc:"Sum of quantity times estimated unit price"`
}

// ListAssetsOutput wraps the listing for Huma.
type ListAssetsOutput struct {
	Body ListAssetsResponse
}

// SaveAssetRequest is the request body for asset registration.
type SaveAssetRequest struct {
	Code           string  `json:"code,omitempty" doc:"Inventory code (assigned when empty)"`
	Item           string  `json:"item" validate:"required,min=1,max=200" doc:"Item name"`
	Category       string  `json:"category,omitempty" doc:"Category"`
	Brand          string  `json:"brand,omitempty" doc:"Brand"`
	Model          string  `json:"model,omitempty" doc:"Model"`
	Quantity       int     `json:"quantity,omitempty" validate:"omitempty,gte=0" doc:"Quantity (defaults to 1)"`
	EstimatedPrice float64 `json:"estimated_price,omitempty" validate:"omitempty,gte=0" doc:"Estimated unit price"`
	Condition      string  `json:"condition,omitempty" doc:"Conservation state"`
	UsageStatus    string  `json:"usage_status,omitempty" doc:"Usage status"`
	UsefulLife     string  `json:"useful_life,omitempty" doc:"Expected useful life"`
	Location       string  `json:"location,omitempty" doc:"Storage location"`
	Notes          string  `json:"notes,omitempty" doc:"Free-form notes"`
}

// SaveAssetInput wraps the registration request for Huma.
type SaveAssetInput struct {
	Authorization string `header:"Authorization"`
	Body          SaveAssetRequest
}

// SaveAssetResponse names the stored asset.
type SaveAssetResponse struct {
	Code string `json:"code" doc:"Assigned inventory code"`
}

// SaveAssetOutput wraps the registration response for Huma.
type SaveAssetOutput struct {
	Body SaveAssetResponse
}

// DeleteAssetsRequest names the assets to delete by code.
type DeleteAssetsRequest struct {
	Codes []string `json:"codes" validate:"required,min=1" doc:"Inventory codes"`
}

// DeleteAssetsInput wraps the delete request for Huma.
type DeleteAssetsInput struct {
	Authorization string `header:"Authorization"`
	Body          DeleteAssetsRequest
}

// DeleteAssetsResponse reports how many assets were removed.
type DeleteAssetsResponse struct {
	Deleted int `json:"deleted" doc:"Number of assets deleted"`
}

// DeleteAssetsOutput wraps the delete response for Huma.
type DeleteAssetsOutput struct {
	Body DeleteAssetsResponse
}

// === Handlers ===

func (s *Server) handleListAssets(ctx context.Context, input *ListAssetsInput) (*ListAssetsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	assets, err := s.services.Asset.List(ctx)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, a := range assets {
		total += a.TotalValue()
	}

	return &ListAssetsOutput{Body: ListAssetsResponse{
		Assets:     assets,
		TotalValue: total,
	}}, nil
}

func (s *Server) handleSaveAsset(ctx context.Context, input *SaveAssetInput) (*SaveAssetOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	asset := &domain.Asset{
		Code:           input.Body.Code,
		Item:           input.Body.Item,
		Category:       input.Body.Category,
		Brand:          input.Body.Brand,
		Model:          input.Body.Model,
		Quantity:       input.Body.Quantity,
		EstimatedPrice: input.Body.EstimatedPrice,
		Condition:      input.Body.Condition,
		UsageStatus:    input.Body.UsageStatus,
		UsefulLife:     input.Body.UsefulLife,
		Location:       input.Body.Location,
		Notes:          input.Body.Notes,
	}

	// Save assigns the next free code when the request left it empty.
	if _, err := s.services.Asset.Save(ctx, asset); err != nil {
		return nil, err
	}

	return &SaveAssetOutput{Body: SaveAssetResponse{Code: asset.Code}}, nil
}

func (s *Server) handleDeleteAssets(ctx context.Context, input *DeleteAssetsInput) (*DeleteAssetsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	deleted := s.services.Asset.DeleteMany(ctx, input.Body.Codes)
	return &DeleteAssetsOutput{Body: DeleteAssetsResponse{Deleted: deleted}}, nil
}
