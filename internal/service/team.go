package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/labdeskapp/labdesk-server/internal/domain"
	"github.com/labdeskapp/labdesk-server/internal/errors"
	"github.com/labdeskapp/labdesk-server/internal/normalize"
	"github.com/labdeskapp/labdesk-server/internal/store"
)

// TeamService derives team statistics from member records and manages the
// explicit team registry.
type TeamService struct {
	store   *store.Store
	logger  *slog.Logger
	members *MemberService
}

// NewTeamService creates a new team service.
func NewTeamService(store *store.Store, logger *slog.Logger, members *MemberService) *TeamService {
	return &TeamService{
		store:   store,
		logger:  logger,
		members: members,
	}
}

// DeriveTeamStatistics aggregates member records into per-team counters. A
// member listing N teams contributes to all N (fan-out, not exclusive
// assignment). Active members push the active counter, inactive the inactive
// counter, pending neither. A team is Ativa with two or more active members.
// Results sort by active count descending, then total descending.
func (s *TeamService) DeriveTeamStatistics(ctx context.Context) ([]domain.TeamStats, error) {
	records, err := s.members.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return aggregateTeams(records), nil
}

func aggregateTeams(records []domain.Record) []domain.TeamStats {
	type acc struct {
		stats    domain.TeamStats
		advisors map[string]bool
	}
	byTeam := make(map[string]*acc)

	for _, rec := range records {
		teams := domain.SplitTeams(rec.String(domain.FieldTeam))
		if len(teams) == 0 {
			continue
		}

		// Records saved through the API may carry raw status casing; the
		// counters only trust the normalized vocabulary.
		status := domain.NormalizeMemberStatus(rec.String(domain.FieldStatus))
		// The advisor field holds one name; multi-advisor splitting is a
		// presentation concern.
		advisor := strings.TrimSpace(rec.String(domain.FieldAdvisor))

		for _, team := range teams {
			a, ok := byTeam[team]
			if !ok {
				a = &acc{
					stats:    domain.TeamStats{Name: team},
					advisors: make(map[string]bool),
				}
				byTeam[team] = a
			}

			a.stats.Total++
			switch status {
			case domain.StatusActive:
				a.stats.ActiveMembers++
			case domain.StatusInactive:
				a.stats.InactiveMembers++
			}
			if advisor != "" {
				a.advisors[advisor] = true
			}
		}
	}

	stats := make([]domain.TeamStats, 0, len(byTeam))
	for _, a := range byTeam {
		if a.stats.ActiveMembers >= domain.ActiveMemberThreshold {
			a.stats.Status = domain.TeamStatusActive
		} else {
			a.stats.Status = domain.TeamStatusInactive
		}

		names := make([]string, 0, len(a.advisors))
		for name := range a.advisors {
			names = append(names, name)
		}
		sort.Strings(names)
		a.stats.Advisors = strings.Join(names, ", ")

		stats = append(stats, a.stats)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].ActiveMembers != stats[j].ActiveMembers {
			return stats[i].ActiveMembers > stats[j].ActiveMembers
		}
		return stats[i].Total > stats[j].Total
	})

	return stats
}

// List merges derived statistics with the explicit team registry. A
// registered team's status overrides the derived one when non-empty, and its
// advisor fills in only when no advisor was derived from members. Registered
// teams without members appear zeroed.
func (s *TeamService) List(ctx context.Context) ([]domain.TeamStats, error) {
	stats, err := s.DeriveTeamStatistics(ctx)
	if err != nil {
		return nil, err
	}

	registered, err := s.ListRegistered(ctx)
	if err != nil {
		return nil, err
	}

	bySlug := make(map[string]int, len(stats))
	for i, st := range stats {
		bySlug[domain.TeamSlug(st.Name)] = i
	}

	for _, team := range registered {
		if i, ok := bySlug[domain.TeamSlug(team.Name)]; ok {
			if team.Status != "" {
				stats[i].Status = team.Status
			}
			if stats[i].Advisors == "" {
				stats[i].Advisors = team.Advisor
			}
			continue
		}

		status := team.Status
		if status == "" {
			status = domain.TeamStatusInactive
		}
		stats = append(stats, domain.TeamStats{
			Name:     team.Name,
			Status:   status,
			Advisors: team.Advisor,
		})
	}

	return stats, nil
}

// ListRegistered returns the explicit team registry.
func (s *TeamService) ListRegistered(ctx context.Context) ([]*domain.Team, error) {
	var teams []*domain.Team
	for team, err := range s.store.Teams.List(ctx) {
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, nil
}

// Save registers a team, keyed by the slug of its normalized name.
func (s *TeamService) Save(ctx context.Context, team *domain.Team) (string, error) {
	team.Name = normalize.Basic(team.Name)
	if team.Name == "" {
		return "", errors.Validation("team name must not be empty")
	}

	team.Advisor = normalize.TitleIfText(team.Advisor)
	team.Status = domain.NormalizeTeamStatus(team.Status)
	if team.RegisteredAt == "" {
		team.RegisteredAt = normalize.Timestamp(time.Now())
	}

	slug := domain.TeamSlug(team.Name)
	if err := s.store.Teams.Put(ctx, slug, team); err != nil {
		return "", err
	}
	return slug, nil
}

// Delete removes a team from the registry. With cascade, the members of that
// team are deleted as well; with dissociate, their team field is rewritten to
// drop the affiliation. Cascade wins when both are set.
func (s *TeamService) Delete(ctx context.Context, name string, cascade, dissociate bool) error {
	slug := domain.TeamSlug(name)
	if err := s.store.Teams.Delete(ctx, slug); err != nil {
		return err
	}

	if !cascade && !dissociate {
		return nil
	}

	records, err := s.members.List(ctx, nil)
	if err != nil {
		return err
	}

	for _, rec := range records {
		teams := domain.SplitTeams(rec.String(domain.FieldTeam))
		remaining := teams[:0]
		member := false
		for _, t := range teams {
			if domain.TeamSlug(t) == slug {
				member = true
				continue
			}
			remaining = append(remaining, t)
		}
		if !member {
			continue
		}

		memberID := rec.String(domain.FieldTaxID)
		if cascade {
			if err := s.store.Members.Delete(ctx, memberID); err != nil {
				s.logger.Warn("cascade member delete failed", "id", memberID, "error", err)
			}
			continue
		}

		patch := domain.Record{domain.FieldTeam: domain.JoinTeams(remaining)}
		if err := s.store.Members.Set(ctx, memberID, patch, true); err != nil {
			s.logger.Warn("team dissociation failed", "id", memberID, "error", err)
		}
	}

	return nil
}
