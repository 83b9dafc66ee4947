package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Team status vocabulary. Teams default to inactive until enough active
// members justify otherwise.
const (
	TeamStatusActive   = "Ativa"
	TeamStatusInactive = "Inativa"
)

// ActiveMemberThreshold is the minimum number of active members for a team
// to count as active. Fixed business rule, not configurable.
const ActiveMemberThreshold = 2

// Team is an explicitly registered project team. Teams may also exist only
// implicitly, derived from member affiliation fields, in which case no Team
// document exists for them.
type Team struct {
	Name         string `json:"name"`
	Advisor      string `json:"advisor"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	RegisteredAt string `json:"registered_at"`
}

// TeamStats is one row of the aggregated team view: derived member counters
// merged with the explicit registry.
type TeamStats struct {
	Name            string `json:"name"`
	ActiveMembers   int    `json:"active_members"`
	InactiveMembers int    `json:"inactive_members"`
	Total           int    `json:"total"`
	Status          string `json:"status"`
	Advisors        string `json:"advisors"`
}

var (
	slugInvalid = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
)

// TeamSlug derives the storage key for a team from its display name:
// case-folded, accent-stripped, non-alphanumeric replaced by hyphens.
// Deterministic by construction; two differently spelled names that
// normalize to the same slug collide on purpose, which is what deduplicates
// re-registered teams.
func TeamSlug(name string) string {
	s := strings.Join(strings.Fields(name), " ")
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	return strings.ToLower(strings.Trim(s, "-"))
}

// NormalizeTeamStatus maps free-form status input onto the team vocabulary,
// falling back to inactive.
func NormalizeTeamStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "ativa":
		return TeamStatusActive
	default:
		return TeamStatusInactive
	}
}
