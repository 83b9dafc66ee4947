package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labdeskapp/labdesk-server/internal/domain"
	"github.com/labdeskapp/labdesk-server/internal/store"
)

func setupTestTeams(t *testing.T) (*TeamService, *MemberService, *store.Store) {
	t.Helper()

	testStore, err := store.New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { testStore.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	members := NewMemberService(testStore, logger, "")
	return NewTeamService(testStore, logger, members), members, testStore
}

func saveMember(t *testing.T, members *MemberService, taxID, name, team, status, advisor string) {
	t.Helper()
	_, err := members.Save(context.Background(), domain.Record{
		domain.FieldTaxID:   taxID,
		domain.FieldName:    name,
		domain.FieldTeam:    team,
		domain.FieldStatus:  status,
		domain.FieldAdvisor: advisor,
	})
	require.NoError(t, err)
}

func TestDeriveTeamStatistics_FanOut(t *testing.T) {
	svc, members, _ := setupTestTeams(t)
	ctx := context.Background()

	// Member A belongs to both Alpha and Beta; member B only to Alpha.
	saveMember(t, members, "111", "A", "Alpha;Beta", domain.StatusActive, "Carlos Pereira")
	saveMember(t, members, "222", "B", "Alpha", domain.StatusInactive, "Ana Lima")

	stats, err := svc.DeriveTeamStatistics(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byName := map[string]domain.TeamStats{}
	for _, st := range stats {
		byName[st.Name] = st
	}

	alpha := byName["Alpha"]
	assert.Equal(t, 1, alpha.ActiveMembers)
	assert.Equal(t, 1, alpha.InactiveMembers)
	assert.Equal(t, 2, alpha.Total)
	assert.Equal(t, domain.TeamStatusInactive, alpha.Status, "one active member is below the threshold")
	assert.Equal(t, "Ana Lima, Carlos Pereira", alpha.Advisors)

	beta := byName["Beta"]
	assert.Equal(t, 1, beta.ActiveMembers)
	assert.Equal(t, 0, beta.InactiveMembers)
	assert.Equal(t, 1, beta.Total)
	assert.Equal(t, domain.TeamStatusInactive, beta.Status)
}

func TestDeriveTeamStatistics_ActiveThreshold(t *testing.T) {
	svc, members, _ := setupTestTeams(t)

	saveMember(t, members, "111", "A", "Drones", domain.StatusActive, "")
	saveMember(t, members, "222", "B", "Drones", domain.StatusActive, "")
	saveMember(t, members, "333", "C", "Drones", domain.StatusPending, "")

	stats, err := svc.DeriveTeamStatistics(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)

	drones := stats[0]
	assert.Equal(t, 2, drones.ActiveMembers)
	assert.Equal(t, 0, drones.InactiveMembers, "pending members count in neither bucket")
	assert.Equal(t, 3, drones.Total)
	assert.Equal(t, domain.TeamStatusActive, drones.Status, "two active members meet the threshold")
}

func TestDeriveTeamStatistics_NormalizesRawStatuses(t *testing.T) {
	svc, members, _ := setupTestTeams(t)

	// Saves bypass the roster cleaner, so statuses arrive as typed.
	saveMember(t, members, "111", "A", "Drones", "ativo", "")
	saveMember(t, members, "222", "B", "Drones", " ATIVO ", "")
	saveMember(t, members, "333", "C", "Drones", "Inativo", "")
	saveMember(t, members, "444", "D", "Drones", "afastado", "")

	stats, err := svc.DeriveTeamStatistics(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 1)

	drones := stats[0]
	assert.Equal(t, 2, drones.ActiveMembers)
	assert.Equal(t, 1, drones.InactiveMembers)
	assert.Equal(t, 4, drones.Total, "unrecognized statuses count as pending")
	assert.Equal(t, domain.TeamStatusActive, drones.Status)
}

func TestDeriveTeamStatistics_SortOrder(t *testing.T) {
	svc, members, _ := setupTestTeams(t)

	saveMember(t, members, "111", "A", "Small", domain.StatusActive, "")
	saveMember(t, members, "222", "B", "Big", domain.StatusActive, "")
	saveMember(t, members, "333", "C", "Big", domain.StatusActive, "")
	saveMember(t, members, "444", "D", "Crowded", domain.StatusActive, "")
	saveMember(t, members, "555", "E", "Crowded", domain.StatusInactive, "")
	saveMember(t, members, "666", "F", "Crowded", domain.StatusInactive, "")

	stats, err := svc.DeriveTeamStatistics(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 3)

	// Active count descending, then total descending.
	assert.Equal(t, "Big", stats[0].Name)
	assert.Equal(t, "Crowded", stats[1].Name)
	assert.Equal(t, "Small", stats[2].Name)
}

func TestTeamService_List_MergesRegistry(t *testing.T) {
	svc, members, _ := setupTestTeams(t)
	ctx := context.Background()

	saveMember(t, members, "111", "A", "Alpha", domain.StatusActive, "Carlos Pereira")

	// Explicit registration overrides the derived status; the registered
	// advisor must not displace the derived one.
	_, err := svc.Save(ctx, &domain.Team{
		Name:    "Alpha",
		Advisor: "Outro Orientador",
		Status:  domain.TeamStatusActive,
	})
	require.NoError(t, err)

	// A registered team without members appears zeroed.
	_, err = svc.Save(ctx, &domain.Team{Name: "Gamma", Advisor: "Ana Lima"})
	require.NoError(t, err)

	stats, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byName := map[string]domain.TeamStats{}
	for _, st := range stats {
		byName[st.Name] = st
	}

	alpha := byName["Alpha"]
	assert.Equal(t, domain.TeamStatusActive, alpha.Status, "explicit status overrides")
	assert.Equal(t, "Carlos Pereira", alpha.Advisors, "derived advisors win when present")
	assert.Equal(t, 1, alpha.Total)

	gamma := byName["Gamma"]
	assert.Equal(t, 0, gamma.Total)
	assert.Equal(t, domain.TeamStatusInactive, gamma.Status)
	assert.Equal(t, "Ana Lima", gamma.Advisors)
}

func TestTeamService_Save_NormalizesAndSlugs(t *testing.T) {
	svc, _, testStore := setupTestTeams(t)
	ctx := context.Background()

	slug, err := svc.Save(ctx, &domain.Team{
		Name:    "  Robótica   Móvel ",
		Advisor: "carlos pereira",
		Status:  "ATIVA",
	})
	require.NoError(t, err)
	assert.Equal(t, "robotica-movel", slug)

	team, err := testStore.Teams.Get(ctx, slug)
	require.NoError(t, err)
	assert.Equal(t, "Robótica Móvel", team.Name)
	assert.Equal(t, "Carlos Pereira", team.Advisor)
	assert.Equal(t, domain.TeamStatusActive, team.Status)
	assert.NotEmpty(t, team.RegisteredAt)
}

func TestTeamService_Delete_Dissociate(t *testing.T) {
	svc, members, testStore := setupTestTeams(t)
	ctx := context.Background()

	saveMember(t, members, "111", "A", "Alpha;Beta", domain.StatusActive, "")
	_, err := svc.Save(ctx, &domain.Team{Name: "Alpha"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "Alpha", false, true))

	_, err = testStore.Teams.Get(ctx, "alpha")
	assert.Error(t, err)

	rec, err := testStore.Members.Get(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "Beta", rec.String(domain.FieldTeam))
}

func TestTeamService_Delete_Cascade(t *testing.T) {
	svc, members, testStore := setupTestTeams(t)
	ctx := context.Background()

	saveMember(t, members, "111", "A", "Alpha", domain.StatusActive, "")
	saveMember(t, members, "222", "B", "Beta", domain.StatusActive, "")

	require.NoError(t, svc.Delete(ctx, "Alpha", true, false))

	_, err := testStore.Members.Get(ctx, "111")
	assert.Error(t, err, "cascade removes members of the deleted team")

	_, err = testStore.Members.Get(ctx, "222")
	assert.NoError(t, err, "members of other teams survive")
}
