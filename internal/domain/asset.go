package domain

import "strings"

// Default labels for asset fields left blank on registration.
const (
	AssetUndefined      = "Indefinido"
	AssetConditionGood  = "Em bom estado"
	AssetUsageInUse     = "Em uso"
	AssetLifeIndefinite = "Indeterminado"
)

// Asset is one physical inventory item (equipment, tools, parts) tracked by
// the group, persisted to the store with the inventory CSV as fallback.
type Asset struct {
	Code           string  `json:"code"`
	Item           string  `json:"item"`
	Category       string  `json:"category"`
	Brand          string  `json:"brand"`
	Model          string  `json:"model"`
	Quantity       int     `json:"quantity"`
	EstimatedPrice float64 `json:"estimated_price"`
	Condition      string  `json:"condition"`
	UsageStatus    string  `json:"usage_status"`
	UsefulLife     string  `json:"useful_life"`
	Location       string  `json:"location"`
	UpdatedAt      string  `json:"updated_at"`
	Notes          string  `json:"notes"`
}

// TotalValue is quantity times estimated unit price.
func (a *Asset) TotalValue() float64 {
	return float64(a.Quantity) * a.EstimatedPrice
}

// StandardizeCondition maps historical free-form condition labels onto the
// current vocabulary. Legacy spreadsheets recorded worn-but-working items
// under several spellings.
func StandardizeCondition(value string) string {
	cleaned := strings.Join(strings.Fields(value), " ")
	if cleaned == "" {
		return ""
	}
	key := strings.ToLower(strings.ReplaceAll(cleaned, ",", ""))
	switch key {
	case "usado", "desgastado mas funcional":
		return "Desgastado, mas funcional"
	}
	return cleaned
}
