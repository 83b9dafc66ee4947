package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labdeskapp/labdesk-server/internal/domain"
)

func TestCleanBatch_StatusVocabulary(t *testing.T) {
	batch := []domain.Record{
		{domain.FieldTaxID: "1", domain.FieldStatus: "ativo"},
		{domain.FieldTaxID: "2", domain.FieldStatus: "INATIVO"},
		{domain.FieldTaxID: "3", domain.FieldStatus: "xyz"},
		{domain.FieldTaxID: "4", domain.FieldStatus: ""},
	}

	cleaned := CleanBatch(batch, nil)
	require.Len(t, cleaned, 4)

	statuses := make(map[string]string)
	for _, rec := range cleaned {
		statuses[rec.String(domain.FieldTaxID)] = rec.String(domain.FieldStatus)
	}

	assert.Equal(t, domain.StatusActive, statuses["1"])
	assert.Equal(t, domain.StatusInactive, statuses["2"])
	assert.Equal(t, domain.StatusPending, statuses["3"])
	assert.Equal(t, domain.StatusPending, statuses["4"])
}

func TestCleanBatch_MemberType(t *testing.T) {
	batch := []domain.Record{
		{domain.FieldTaxID: "1", domain.FieldMemberType: "aluno"},
		{domain.FieldTaxID: "2", domain.FieldMemberType: "DOCENTE"},
		{domain.FieldTaxID: "3", domain.FieldMemberType: "voluntário externo"},
	}

	cleaned := CleanBatch(batch, nil)

	types := make(map[string]string)
	for _, rec := range cleaned {
		types[rec.String(domain.FieldTaxID)] = rec.String(domain.FieldMemberType)
	}

	assert.Equal(t, domain.MemberTypeStudent, types["1"])
	assert.Equal(t, domain.MemberTypeProfessor, types["2"])
	// Unrecognized types are kept title-cased, not forced into a default.
	assert.Equal(t, "Voluntário Externo", types["3"])
}

func TestCleanBatch_YearCoercion(t *testing.T) {
	batch := []domain.Record{
		{domain.FieldTaxID: "1", domain.FieldYear: "2024.0"},
		{domain.FieldTaxID: "2", domain.FieldYear: "2023,0"},
		{domain.FieldTaxID: "3", domain.FieldYear: "abc"},
		{domain.FieldTaxID: "4", domain.FieldYear: ""},
	}

	cleaned := CleanBatch(batch, nil)

	years := make(map[string]string)
	for _, rec := range cleaned {
		years[rec.String(domain.FieldTaxID)] = rec.String(domain.FieldYear)
	}

	assert.Equal(t, "2024", years["1"])
	assert.Equal(t, "2023", years["2"])
	assert.Equal(t, "abc", years["3"])
	assert.Equal(t, "", years["4"])
}

func TestCleanBatch_AdvisorClustering(t *testing.T) {
	batch := []domain.Record{
		{domain.FieldTaxID: "1", domain.FieldAdvisor: "Anderson Seixas"},
		{domain.FieldTaxID: "2", domain.FieldAdvisor: "anderson seixas "},
		{domain.FieldTaxID: "3", domain.FieldAdvisor: "Ana Lima"},
	}

	cleaned := CleanBatch(batch, nil)
	require.Len(t, cleaned, 3)

	advisors := make(map[string]string)
	for _, rec := range cleaned {
		advisors[rec.String(domain.FieldTaxID)] = rec.String(domain.FieldAdvisor)
	}

	assert.Equal(t, advisors["1"], advisors["2"],
		"near-duplicate advisor spellings must collapse to one canonical form")
	assert.Equal(t, "Ana Lima", advisors["3"])
}

func TestCleanBatch_EmailAndTitleCasing(t *testing.T) {
	batch := []domain.Record{{
		domain.FieldTaxID: "1",
		domain.FieldEmail: "  Maria.Silva@UFX.EDU.BR ",
		domain.FieldName:  "maria DA silva",
		domain.FieldTeam:  " equipe alpha ",
	}}

	cleaned := CleanBatch(batch, nil)
	require.Len(t, cleaned, 1)

	assert.Equal(t, "maria.silva@ufx.edu.br", cleaned[0].String(domain.FieldEmail))
	assert.Equal(t, "Maria da Silva", cleaned[0].String(domain.FieldName))
	assert.Equal(t, "Equipe Alpha", cleaned[0].String(domain.FieldTeam))
	// Project field is always present after cleaning.
	assert.Equal(t, "", cleaned[0].String(domain.FieldProject))
}

func TestCleanBatch_DedupByTaxID(t *testing.T) {
	batch := []domain.Record{
		{domain.FieldTaxID: "123.456.789-00", domain.FieldName: "First"},
		{domain.FieldTaxID: "12345678900", domain.FieldName: "Second"},
		{domain.FieldTaxID: "999", domain.FieldName: "Other"},
	}

	cleaned := CleanBatch(batch, nil)
	require.Len(t, cleaned, 2)

	seen := make(map[string]bool)
	for _, rec := range cleaned {
		key := rec.String(domain.FieldTaxID)
		assert.False(t, seen[key], "duplicate identifier %q survived cleaning", key)
		seen[key] = true
	}
}

func TestCleanBatch_DedupFallsBackToEmail(t *testing.T) {
	batch := []domain.Record{
		{domain.FieldEmail: "a@b.com"},
		{domain.FieldEmail: "A@B.COM"},
		{domain.FieldEmail: "c@d.com"},
	}

	cleaned := CleanBatch(batch, nil)
	assert.Len(t, cleaned, 2)
}

func TestCleanBatch_Idempotent(t *testing.T) {
	batch := []domain.Record{
		{
			domain.FieldTaxID:      "111.222.333-44",
			domain.FieldName:       "  ana   maria DE souza ",
			domain.FieldEmail:      "Ana@X.COM",
			domain.FieldStatus:     "ATIVO",
			domain.FieldMemberType: "estudante",
			domain.FieldYear:       "2024.0",
			domain.FieldAdvisor:    "josé silva",
		},
		{
			domain.FieldTaxID:   "555",
			domain.FieldStatus:  "inválido",
			domain.FieldAdvisor: "Jose Silva",
		},
	}

	once := CleanBatch(batch, nil)
	twice := CleanBatch(once, nil)

	require.Equal(t, len(once), len(twice))
	for i := range once {
		assert.Equal(t, once[i], twice[i])
	}
}

func TestCleanBatch_ExtrasJoinAdvisorClustering(t *testing.T) {
	// A session-typed spelling that is more frequent should not change
	// batch values, but a near-duplicate batch value must still land on a
	// canonical form drawn from the combined input.
	batch := []domain.Record{
		{domain.FieldTaxID: "1", domain.FieldAdvisor: "Pedro Rocha"},
	}
	extras := &domain.Extras{Advisors: []string{"pedro rocha", "pedro rocha"}}

	cleaned := CleanBatch(batch, extras)
	require.Len(t, cleaned, 1)
	assert.Equal(t, "Pedro Rocha", cleaned[0].String(domain.FieldAdvisor))
}

func TestCleanBatch_Empty(t *testing.T) {
	assert.Nil(t, CleanBatch(nil, nil))
	assert.Nil(t, CleanBatch([]domain.Record{}, nil))
}
