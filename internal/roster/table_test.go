package roster

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labdeskapp/labdesk-server/internal/domain"
)

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{"NOME", domain.FieldName},
		{"nome", domain.FieldName},
		{"Nome", domain.FieldName},
		{"CPF", domain.FieldTaxID},
		{"MATRÍCULA", domain.FieldEnrollmentID},
		{"matricula", domain.FieldEnrollmentID},
		{"EQUIPE DE PROJETO", domain.FieldTeam},
		{"PROJETO ATUAL", domain.FieldProject},
		{" Status ", domain.FieldStatus},
		// Canonical names resolve to themselves.
		{"tax_id", domain.FieldTaxID},
		{"ENROLLMENT_ID", domain.FieldEnrollmentID},
		// Unknown headers are kept in a canonical shape.
		{"Coluna Nova", "coluna_nova"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveColumn(tt.header))
		})
	}
}

func TestReadTable(t *testing.T) {
	csvData := "NOME,CPF,Email,STATUS\n" +
		"Ana Lima,123.456.789-00,ana@x.com,ativo\n" +
		"Bruno Dias,987,bruno@x.com,inativo\n"

	records, err := ReadTable(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Ana Lima", records[0].String(domain.FieldName))
	assert.Equal(t, "123.456.789-00", records[0].String(domain.FieldTaxID))
	assert.Equal(t, "ana@x.com", records[0].String(domain.FieldEmail))
	assert.Equal(t, "ativo", records[0].String(domain.FieldStatus))
}

func TestReadTable_ShortRowsArePadded(t *testing.T) {
	csvData := "NOME,CPF,EMAIL\nAna,123\n"

	records, err := ReadTable(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)

	v, ok := records[0][domain.FieldEmail]
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestReadTable_Empty(t *testing.T) {
	records, err := ReadTable(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadTable_MissingFile(t *testing.T) {
	_, err := LoadTable("/nonexistent/roster.csv")
	assert.Error(t, err)
}

func TestSanitizeValue(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2024, 3, 15, 10, 30, 5, 0, time.UTC)

	assert.Equal(t, "", SanitizeValue(nil))
	assert.Equal(t, "2024-03-15", SanitizeValue(date))
	assert.Equal(t, "2024-03-15 10:30:05", SanitizeValue(stamp))
	assert.Equal(t, "abc", SanitizeValue("abc"))
	assert.Equal(t, 2.5, SanitizeValue(2.5))
	assert.Equal(t, "", SanitizeValue(math.NaN()))

	list := []any{"a", "b"}
	assert.Equal(t, list, SanitizeValue(list))
}
