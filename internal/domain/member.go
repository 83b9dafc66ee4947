// Package domain defines the entities managed by the LabDesk server: research
// group members, project teams, inventory assets, and dashboard users.
package domain

import (
	"strings"
)

// Member field names. Member documents are flat field mappings rather than a
// fixed struct: the roster spreadsheet grows columns over time and the store
// must round-trip fields it does not understand.
const (
	FieldRegisteredAt  = "registered_at"
	FieldName          = "name"
	FieldTaxID         = "tax_id"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldLattes        = "lattes"
	FieldEnrollmentID  = "enrollment_id"
	FieldShirtSize     = "shirt_size"
	FieldBirthDate     = "birth_date"
	FieldTeam          = "team"
	FieldAdvisor       = "advisor"
	FieldGrade         = "grade"
	FieldYear          = "year"
	FieldEducation     = "education_level"
	FieldCourse        = "course"
	FieldCourseStatus  = "course_status"
	FieldInterestAreas = "interest_areas"
	FieldRank          = "rank"
	FieldMemberType    = "member_type"
	FieldStatus        = "status"
	FieldProject       = "project"
)

// StandardFields is the full member schema in roster column order. The
// reconciler synchronizes exactly these fields unless told otherwise.
//
//nolint:gochecknoglobals // Static schema definition
var StandardFields = []string{
	FieldRegisteredAt,
	FieldName,
	FieldTaxID,
	FieldEmail,
	FieldPhone,
	FieldLattes,
	FieldEnrollmentID,
	FieldShirtSize,
	FieldBirthDate,
	FieldTeam,
	FieldAdvisor,
	FieldGrade,
	FieldYear,
	FieldEducation,
	FieldCourse,
	FieldCourseStatus,
	FieldInterestAreas,
	FieldRank,
	FieldMemberType,
	FieldStatus,
	FieldProject,
}

// Member status vocabulary. Unrecognized input defaults to pending.
const (
	StatusActive   = "Ativo"
	StatusInactive = "Inativo"
	StatusPending  = "Pendente"
)

// NormalizeMemberStatus maps free-form status input onto the member
// vocabulary, falling back to pending.
func NormalizeMemberStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "ativo":
		return StatusActive
	case "inativo":
		return StatusInactive
	default:
		return StatusPending
	}
}

// Canonical member types. Other values pass through title-cased.
const (
	MemberTypeStudent   = "Discente"
	MemberTypeProfessor = "Professor"
)

// TeamDelimiter separates multiple team names inside the team field.
const TeamDelimiter = ";"

// Record is a flat member document as stored and exchanged with the roster
// CSV. Values are scalars (strings after cleaning) but raw imports may carry
// numbers, times, or nils until sanitized.
type Record map[string]any

// String returns the field as a string, or "" when absent or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// SplitTeams splits a team affiliation field into individual team names,
// trimming whitespace and dropping empty entries. "Alpha;Beta" declares
// membership in both Alpha and Beta.
func SplitTeams(value string) []string {
	if value == "" {
		return nil
	}
	var teams []string
	for _, part := range strings.Split(value, TeamDelimiter) {
		if t := strings.TrimSpace(part); t != "" {
			teams = append(teams, t)
		}
	}
	return teams
}

// JoinTeams is the inverse of SplitTeams.
func JoinTeams(teams []string) string {
	return strings.Join(teams, TeamDelimiter)
}

// Extras holds names typed into dashboard forms during the current session
// that are not yet persisted anywhere. It is owned by the calling session
// layer and passed explicitly into cleaning and listing so those functions
// stay pure: newly typed advisor names participate in clustering, and newly
// typed teams and projects appear in pick lists before their first save.
type Extras struct {
	Teams    []string
	Projects []string
	Advisors []string
}
