package roster

import (
	"math"
	"time"

	"github.com/labdeskapp/labdesk-server/internal/normalize"
)

// SanitizeValue converts a raw field value into its storable form: timestamps
// become date or datetime strings, nil and NaN become the empty string, and
// lists/mappings pass through unchanged. Already-sanitized scalars come back
// as-is, which is what makes the reconciler's value comparisons meaningful.
func SanitizeValue(value any) any {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 {
			return normalize.Date(v)
		}
		return normalize.Timestamp(v)
	case *time.Time:
		if v == nil {
			return ""
		}
		return SanitizeValue(*v)
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		return v
	case float32:
		if math.IsNaN(float64(v)) {
			return ""
		}
		return v
	default:
		return v
	}
}

// SanitizeRecord applies SanitizeValue to every field of a record, in place.
func SanitizeRecord(rec map[string]any) {
	for k, v := range rec {
		rec[k] = SanitizeValue(v)
	}
}
