package service

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/labdeskapp/labdesk-server/internal/domain"
	"github.com/labdeskapp/labdesk-server/internal/errors"
	"github.com/labdeskapp/labdesk-server/internal/normalize"
	"github.com/labdeskapp/labdesk-server/internal/roster"
	"github.com/labdeskapp/labdesk-server/internal/store"
)

// AssetService manages the physical inventory. The store is authoritative;
// the inventory CSV export serves as read-only fallback while the store has
// not been seeded yet.
type AssetService struct {
	store         *store.Store
	logger        *slog.Logger
	inventoryPath string
}

// NewAssetService creates a new asset service. inventoryPath may be empty.
func NewAssetService(store *store.Store, logger *slog.Logger, inventoryPath string) *AssetService {
	return &AssetService{
		store:         store,
		logger:        logger,
		inventoryPath: inventoryPath,
	}
}

// List returns the inventory sorted by code. An empty store falls back to
// the CSV export; condition labels are migrated to the current vocabulary on
// the way out.
func (s *AssetService) List(ctx context.Context) ([]*domain.Asset, error) {
	var assets []*domain.Asset
	for asset, err := range s.store.Assets.List(ctx) {
		if err != nil {
			return nil, err
		}
		asset.Condition = domain.StandardizeCondition(asset.Condition)
		assets = append(assets, asset)
	}

	if len(assets) == 0 && s.inventoryPath != "" {
		fromCSV, err := s.loadInventoryCSV()
		if err != nil {
			s.logger.Warn("inventory CSV unreadable", "path", s.inventoryPath, "error", err)
		} else {
			assets = fromCSV
		}
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Code < assets[j].Code
	})
	return assets, nil
}

// Save registers or updates an asset. A missing code is generated as the
// numeric maximum plus one; the document ID is the code, with a UUID fallback
// when the code cannot serve as a key.
func (s *AssetService) Save(ctx context.Context, asset *domain.Asset) (string, error) {
	asset.Item = normalize.Basic(asset.Item)
	if asset.Item == "" {
		return "", errors.Validation("asset item must not be empty")
	}

	asset.Code = normalize.Basic(asset.Code)
	if asset.Code == "" {
		code, err := s.nextCode(ctx)
		if err != nil {
			return "", err
		}
		asset.Code = code
	}

	asset.Condition = domain.StandardizeCondition(asset.Condition)
	if asset.Condition == "" {
		asset.Condition = domain.AssetConditionGood
	}
	if asset.Category == "" {
		asset.Category = domain.AssetUndefined
	}
	if asset.UsageStatus == "" {
		asset.UsageStatus = domain.AssetUsageInUse
	}
	if asset.UsefulLife == "" {
		asset.UsefulLife = domain.AssetLifeIndefinite
	}
	if asset.Quantity <= 0 {
		asset.Quantity = 1
	}
	asset.UpdatedAt = normalize.Timestamp(time.Now())

	id := normalize.IdentifierKey(asset.Code)
	if id == "" {
		id = uuid.NewString()
	}

	if err := s.store.Assets.Put(ctx, id, asset); err != nil {
		return "", err
	}
	return id, nil
}

// ImportCSV loads the inventory export and persists every row, so later
// listings come from the store instead of the fallback path. Returns the
// number of assets saved.
func (s *AssetService) ImportCSV(ctx context.Context) (int, error) {
	if s.inventoryPath == "" {
		return 0, errors.SourceUnavailable("no inventory CSV configured")
	}

	assets, err := s.loadInventoryCSV()
	if err != nil {
		return 0, errors.SourceUnavailable("inventory CSV unreadable").WithCause(err)
	}

	saved := 0
	for _, asset := range assets {
		if _, err := s.Save(ctx, asset); err != nil {
			s.logger.Warn("asset import failed", "code", asset.Code, "item", asset.Item, "error", err)
			continue
		}
		saved++
	}
	return saved, nil
}

// DeleteMany removes assets by code, skipping individual failures, and
// returns the number actually deleted.
func (s *AssetService) DeleteMany(ctx context.Context, codes []string) int {
	deleted := 0
	for _, code := range codes {
		id := normalize.IdentifierKey(code)
		if id == "" {
			continue
		}
		if err := s.store.Assets.Delete(ctx, id); err != nil {
			s.logger.Warn("asset delete failed", "code", code, "error", err)
			continue
		}
		deleted++
	}
	return deleted
}

// TotalValue sums quantity times unit price over the whole inventory.
func (s *AssetService) TotalValue(ctx context.Context) (float64, error) {
	assets, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, a := range assets {
		total += a.TotalValue()
	}
	return total, nil
}

// nextCode scans existing numeric codes and returns max+1, starting at 1 for
// an empty inventory. Non-numeric legacy codes are ignored for the maximum.
func (s *AssetService) nextCode(ctx context.Context) (string, error) {
	maxCode := 0
	for asset, err := range s.store.Assets.List(ctx) {
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(asset.Code)); err == nil && n > maxCode {
			maxCode = n
		}
	}
	return strconv.Itoa(maxCode + 1), nil
}

// loadInventoryCSV parses the inventory export. Headers resolve through the
// same accent-insensitive folding as the roster, so "Preço Estimado" becomes
// preco_estimado.
func (s *AssetService) loadInventoryCSV() ([]*domain.Asset, error) {
	rows, err := roster.LoadTable(s.inventoryPath)
	if err != nil {
		return nil, err
	}

	assets := make([]*domain.Asset, 0, len(rows))
	for _, row := range rows {
		asset := &domain.Asset{
			Code:        normalize.Basic(firstValue(row, "codigo", "code")),
			Item:        normalize.Basic(firstValue(row, "item")),
			Category:    normalize.Basic(firstValue(row, "categoria", "category")),
			Brand:       normalize.Basic(firstValue(row, "marca", "brand")),
			Model:       normalize.Basic(firstValue(row, "modelo", "model")),
			Condition:   domain.StandardizeCondition(firstValue(row, "estado_de_conservacao", "condicao", "condition")),
			UsageStatus: normalize.Basic(firstValue(row, "status_de_uso", "usage_status")),
			UsefulLife:  normalize.Basic(firstValue(row, "vida_util", "useful_life")),
			Location:    normalize.Basic(firstValue(row, "localizacao", "location")),
			Notes:       normalize.Basic(firstValue(row, "observacoes", "notes")),
		}
		asset.Quantity = parseQuantity(firstValue(row, "quantidade", "quantity"))
		asset.EstimatedPrice = parsePrice(firstValue(row, "preco_estimado", "preco_estimado_(r$)", "estimated_price"))
		if asset.Item == "" {
			continue
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func firstValue(row domain.Record, fields ...string) string {
	for _, f := range fields {
		if v := row.String(f); v != "" {
			return v
		}
	}
	return ""
}

// parseQuantity tolerates decimal renderings like "2.0"; anything malformed
// counts as one unit.
func parseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64); err == nil && f > 0 {
		return int(f)
	}
	return 1
}

// parsePrice tolerates currency prefixes and comma decimal separators;
// malformed values fall back to zero.
func parsePrice(raw string) float64 {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "R$")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	// Brazilian exports write 1.234,56
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
