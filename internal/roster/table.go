package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labdeskapp/labdesk-server/internal/domain"
	"github.com/labdeskapp/labdesk-server/internal/normalize"
)

// columnAliases maps accent-stripped lowercase roster headers onto canonical
// field names. Exports have drifted between header spellings over the years;
// resolution happens once at load time so the rest of the pipeline only ever
// sees canonical-cased columns.
//
//nolint:gochecknoglobals // Static lookup table
var columnAliases = map[string]string{
	"data cadastro":      domain.FieldRegisteredAt,
	"nome":               domain.FieldName,
	"cpf":                domain.FieldTaxID,
	"email":              domain.FieldEmail,
	"e-mail":             domain.FieldEmail,
	"contato":            domain.FieldPhone,
	"lattes":             domain.FieldLattes,
	"matricula":          domain.FieldEnrollmentID,
	"tamanho camiseta":   domain.FieldShirtSize,
	"data nascimento":    domain.FieldBirthDate,
	"equipe de projeto":  domain.FieldTeam,
	"orientador":         domain.FieldAdvisor,
	"serie":              domain.FieldGrade,
	"ano":                domain.FieldYear,
	"nivel escolaridade": domain.FieldEducation,
	"curso":              domain.FieldCourse,
	"status curso":       domain.FieldCourseStatus,
	"areas de interesse": domain.FieldInterestAreas,
	"rank gp":            domain.FieldRank,
	"tipo membro":        domain.FieldMemberType,
	"status":             domain.FieldStatus,
	"projeto atual":      domain.FieldProject,
}

// ResolveColumn maps a raw CSV header to its canonical field name. Matching
// is insensitive to case, accents, and surrounding whitespace; canonical
// field names resolve to themselves. Unknown headers are kept, lowercased
// with spaces folded to underscores, so extra spreadsheet columns round-trip.
func ResolveColumn(header string) string {
	key := normalize.ASCIILower(header)
	if key == "" {
		return ""
	}
	if field, ok := columnAliases[key]; ok {
		return field
	}
	for _, field := range domain.StandardFields {
		if strings.ReplaceAll(key, "_", " ") == strings.ReplaceAll(field, "_", " ") {
			return field
		}
	}
	return strings.ReplaceAll(key, " ", "_")
}

// LoadTable reads the roster CSV at path into canonical-cased records.
// Callers that can proceed without the CSV (the reconciler) treat any error
// as an empty table.
func LoadTable(path string) ([]domain.Record, error) {
	f, err := os.Open(path) //#nosec G304 -- CSV path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open roster csv: %w", err)
	}
	defer f.Close()

	return ReadTable(f)
}

// ReadTable parses CSV data into records, resolving headers once up front.
func ReadTable(r io.Reader) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	fields := make([]string, len(headers))
	for i, h := range headers {
		fields[i] = ResolveColumn(h)
	}

	var records []domain.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		rec := make(domain.Record, len(fields))
		for i, field := range fields {
			if field == "" {
				continue
			}
			if i < len(row) {
				rec[field] = row[i]
			} else {
				rec[field] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}
