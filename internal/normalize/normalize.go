// Package normalize provides canonicalization helpers for the free-text
// fields that arrive from roster spreadsheets and manual dashboard input.
//
// Display-oriented helpers (Basic, TitleIfText) preserve accents; the
// comparison-oriented helpers (ASCIILower, IdentifierKey) strip them and are
// only ever used to build matching keys, never to render values back to users.
package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Portuguese connective words that stay lowercase in title-cased names.
// They stay lowercase even as the leading token ("da Silva" style input
// produces "da Silva", not "Da Silva").
//
//nolint:gochecknoglobals // Static lookup table
var lowercaseConnectives = map[string]bool{
	"da": true, "de": true, "do": true,
	"das": true, "dos": true, "e": true,
}

// Basic trims the string and collapses internal whitespace runs to a single
// space. Returns "" for empty or all-whitespace input.
func Basic(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ASCIILower applies Basic, strips diacritics via unicode decomposition, and
// lowercases. The result is a comparison key, not a display value.
func ASCIILower(s string) string {
	s = norm.NFKD.String(Basic(s))

	// Drop combining marks and anything else outside ASCII.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)

	return strings.ToLower(s)
}

// TitleIfText applies Basic, then title-cases each token except the
// connective stoplist, which remains lowercase regardless of position.
func TitleIfText(s string) string {
	s = Basic(s)
	if s == "" {
		return s
	}

	parts := strings.Split(strings.ToLower(s), " ")
	for i, p := range parts {
		if lowercaseConnectives[p] {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

// IdentifierKey derives the equality key used to match records across data
// sources. Matching on tax IDs, enrollment numbers, and emails is insensitive
// to punctuation, spacing, accents, and case: "123.456.789-00" and
// "12345678900" produce the same key.
func IdentifierKey(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') {
			return r
		}
		return -1
	}, ASCIILower(s))
}

// Year coerces spreadsheet year cells to a plain integer string.
// "2024.0" and "2024,0" both become "2024". Values that cannot be parsed
// numerically come back basic-normalized, unchanged otherwise.
func Year(s string) string {
	cleaned := Basic(s)
	if cleaned == "" {
		return ""
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(cleaned, ",", "."), 64)
	if err != nil {
		return cleaned
	}
	return strconv.FormatInt(int64(f), 10)
}

// Date renders a timestamp as a date-only string.
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}

// Timestamp renders a timestamp with second precision.
func Timestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
