// Package roster implements the member-record cleaning pipeline and the CSV
// ingestion boundary: the authoritative roster extract is loaded into
// canonical-cased records, normalized field by field, advisor names are
// clustered into canonical spellings, and duplicate rows are dropped.
package roster

import (
	"sort"
	"strings"

	"github.com/labdeskapp/labdesk-server/internal/cluster"
	"github.com/labdeskapp/labdesk-server/internal/domain"
	"github.com/labdeskapp/labdesk-server/internal/normalize"
)

// statusByKey maps accent-stripped lowercase status input onto the member
// status vocabulary. Anything else defaults to pending.
//
//nolint:gochecknoglobals // Static lookup table
var statusByKey = map[string]string{
	"ativo":    domain.StatusActive,
	"inativo":  domain.StatusInactive,
	"pendente": domain.StatusPending,
}

// memberTypeByKey maps the synonyms found in historical spreadsheets onto
// canonical member types. Unlike status, unrecognized non-empty values are
// kept (title-cased) rather than forced into a default.
//
//nolint:gochecknoglobals // Static lookup table
var memberTypeByKey = map[string]string{
	"discente":  domain.MemberTypeStudent,
	"aluno":     domain.MemberTypeStudent,
	"estudante": domain.MemberTypeStudent,
	"professor": domain.MemberTypeProfessor,
	"docente":   domain.MemberTypeProfessor,
}

// titleCasedFields are the person/affiliation name fields rendered in title
// case for display.
//
//nolint:gochecknoglobals // Static schema definition
var titleCasedFields = []string{
	domain.FieldName,
	domain.FieldAdvisor,
	domain.FieldCourse,
	domain.FieldTeam,
	domain.FieldProject,
}

// CleanBatch normalizes an imported batch of member records. It is a pure
// function over the batch: no store access, input records are not mutated.
//
// Per record: the project field is ensured, every string field is
// whitespace-normalized, emails are lowercased, name-like fields are
// title-cased, status and member type go through their vocabularies, and the
// year field is coerced to a plain integer string. Advisor names are then
// clustered across the whole batch (plus any session extras) so near-duplicate
// spellings collapse to one canonical form. Finally the batch is deduplicated
// by tax ID, or by email when no record carries a tax ID, keeping the first
// occurrence after a stable sort.
//
// Cleaning is idempotent: a second pass over its own output changes nothing.
func CleanBatch(records []domain.Record, extras *domain.Extras) []domain.Record {
	if len(records) == 0 {
		return nil
	}

	cleaned := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		out := rec.Clone()

		if _, ok := out[domain.FieldProject]; !ok {
			out[domain.FieldProject] = ""
		}

		for field, value := range out {
			if s, ok := value.(string); ok {
				out[field] = normalize.Basic(s)
			}
		}

		if email, ok := out[domain.FieldEmail].(string); ok {
			out[domain.FieldEmail] = strings.ToLower(email)
		}

		for _, field := range titleCasedFields {
			if s, ok := out[field].(string); ok {
				out[field] = normalize.TitleIfText(s)
			}
		}

		out[domain.FieldStatus] = cleanStatus(out.String(domain.FieldStatus))

		if s, ok := out[domain.FieldMemberType].(string); ok {
			out[domain.FieldMemberType] = cleanMemberType(s)
		}

		if s, ok := out[domain.FieldYear].(string); ok {
			out[domain.FieldYear] = normalize.Year(s)
		}

		cleaned = append(cleaned, out)
	}

	remapAdvisors(cleaned, extras)

	return dedupeByIdentifier(cleaned)
}

func cleanStatus(value string) string {
	if status, ok := statusByKey[normalize.ASCIILower(value)]; ok {
		return status
	}
	return domain.StatusPending
}

func cleanMemberType(value string) string {
	if memberType, ok := memberTypeByKey[normalize.ASCIILower(value)]; ok {
		return memberType
	}
	return normalize.TitleIfText(value)
}

// remapAdvisors clusters the batch's distinct advisor spellings (plus names
// typed during the current session) and rewrites each record's advisor field
// to its cluster's canonical form.
func remapAdvisors(records []domain.Record, extras *domain.Extras) {
	var values []string
	for _, rec := range records {
		if v := rec.String(domain.FieldAdvisor); v != "" {
			values = append(values, v)
		}
	}
	if extras != nil {
		for _, v := range extras.Advisors {
			if t := normalize.TitleIfText(v); t != "" {
				values = append(values, t)
			}
		}
	}
	if len(values) == 0 {
		return
	}

	canonical := cluster.BuildCanonicalMap(values, cluster.DefaultThreshold)
	for _, rec := range records {
		v, ok := rec[domain.FieldAdvisor].(string)
		if !ok {
			continue
		}
		if canon, found := canonical[v]; found {
			rec[domain.FieldAdvisor] = canon
		} else {
			rec[domain.FieldAdvisor] = normalize.TitleIfText(v)
		}
	}
}

// dedupeByIdentifier keeps the first record per identifier after a stable
// sort, discarding later duplicates silently. Identifier comparison goes
// through IdentifierKey so punctuation variants of the same tax ID collide.
func dedupeByIdentifier(records []domain.Record) []domain.Record {
	field := domain.FieldTaxID
	if !anyRecordHas(records, field) {
		field = domain.FieldEmail
		if !anyRecordHas(records, field) {
			return records
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].String(field) < records[j].String(field)
	})

	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, rec := range records {
		key := normalize.IdentifierKey(rec.String(field))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

func anyRecordHas(records []domain.Record, field string) bool {
	for _, rec := range records {
		if _, ok := rec[field]; ok {
			return true
		}
	}
	return false
}
