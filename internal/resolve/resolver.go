// Package resolve turns scraped names into stored entity IDs, inserting on
// first sight and enriching sparse rows when a later scrape knows more.
package resolve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
)

// StoredTeam is a team row as the store currently holds it.
type StoredTeam struct {
	ID      int64
	Region  string
	LogoURL string
}

// StoredPlayer is a player row as the store currently holds it.
type StoredPlayer struct {
	ID     int64
	Region string
}

// StoredTournament is a tournament row as the store currently holds it.
type StoredTournament struct {
	ID        int64
	PrizePool *int64
	StartDate *time.Time
	EndDate   *time.Time
}

// EntityStore is the persistence surface the resolver works against. Find
// methods return (nil, nil) when no row matches.
type EntityStore interface {
	FindTeam(ctx context.Context, name string) (*StoredTeam, error)
	InsertTeam(ctx context.Context, name, region, logoURL string) (int64, error)
	UpdateTeamDetails(ctx context.Context, id int64, region, logoURL string) error

	FindPlayer(ctx context.Context, username string) (*StoredPlayer, error)
	InsertPlayer(ctx context.Context, username, email, region string, joinDate time.Time) (int64, error)
	UpdatePlayerRegion(ctx context.Context, id int64, region string) error

	FindTournament(ctx context.Context, name string) (*StoredTournament, error)
	InsertTournament(ctx context.Context, name string, prizePool *int64, start, end *time.Time) (int64, error)
	UpdateTournamentDetails(ctx context.Context, id int64, prizePool *int64, start, end *time.Time) error

	LinkTeamPlayer(ctx context.Context, teamID, playerID int64, joinDate time.Time) error
	LinkTournamentTeam(ctx context.Context, tournamentID, teamID int64) error
}

const (
	fallbackTeamName       = "Unknown Team"
	fallbackPlayerName     = "Unknown Player"
	fallbackTournamentName = "Unknown Tournament"
	unknownRegion          = "Unknown"
)

// Resolver caches entity IDs for the lifetime of one ingestion run so each
// name hits the store at most once per run.
type Resolver struct {
	store  EntityStore
	logger zerolog.Logger

	teams       map[string]int64
	players     map[string]int64
	tournaments map[string]int64
}

func NewResolver(store EntityStore, logger zerolog.Logger) *Resolver {
	return &Resolver{
		store:       store,
		logger:      logger,
		teams:       make(map[string]int64),
		players:     make(map[string]int64),
		tournaments: make(map[string]int64),
	}
}

// missing reports whether a stored text value counts as absent for
// enrichment purposes.
func missing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == unknownRegion
}

// Team resolves a team name to its stored ID, inserting the team on first
// sight. Region and logo on an existing row are only overwritten when the
// stored value is empty or "Unknown".
func (r *Resolver) Team(ctx context.Context, info domain.TeamInfo) (int64, error) {
	name := strings.TrimSpace(info.Name)
	if name == "" {
		name = fallbackTeamName
	}
	if id, ok := r.teams[name]; ok {
		return id, nil
	}

	stored, err := r.store.FindTeam(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("find team %q: %w", name, err)
	}
	if stored != nil {
		region, logo := "", ""
		if info.Region != "" && missing(stored.Region) {
			region = info.Region
		}
		if info.LogoURL != "" && missing(stored.LogoURL) {
			logo = info.LogoURL
		}
		if region != "" || logo != "" {
			if err := r.store.UpdateTeamDetails(ctx, stored.ID, region, logo); err != nil {
				return 0, fmt.Errorf("enrich team %q: %w", name, err)
			}
			r.logger.Debug().Str("team", name).Str("region", region).Msg("enriched team details")
		}
		r.teams[name] = stored.ID
		return stored.ID, nil
	}

	id, err := r.store.InsertTeam(ctx, name, info.Region, info.LogoURL)
	if err != nil {
		return 0, fmt.Errorf("insert team %q: %w", name, err)
	}
	r.teams[name] = id
	return id, nil
}

// Player resolves a player IGN to its stored ID. New players get a synthetic
// email and a region defaulting to "Unknown". When teamID is set and a join
// date is known the team/player link is recorded as well.
func (r *Resolver) Player(ctx context.Context, rec domain.PlayerStatRecord, teamID int64) (int64, error) {
	ign := strings.TrimSpace(rec.PlayerIGN)
	if ign == "" {
		ign = fallbackPlayerName
	}

	if id, ok := r.players[ign]; ok {
		r.linkTeam(ctx, teamID, id, rec.TeamJoinDate)
		return id, nil
	}

	stored, err := r.store.FindPlayer(ctx, ign)
	if err != nil {
		return 0, fmt.Errorf("find player %q: %w", ign, err)
	}
	if stored != nil {
		if rec.Region != "" && rec.Region != unknownRegion && missing(stored.Region) {
			if err := r.store.UpdatePlayerRegion(ctx, stored.ID, rec.Region); err != nil {
				return 0, fmt.Errorf("enrich player %q: %w", ign, err)
			}
			r.logger.Debug().Str("player", ign).Str("region", rec.Region).Msg("enriched player region")
		}
		r.players[ign] = stored.ID
		r.linkTeam(ctx, teamID, stored.ID, rec.TeamJoinDate)
		return stored.ID, nil
	}

	region := rec.Region
	if region == "" {
		region = unknownRegion
	}
	joinDate := time.Now()
	if rec.TeamJoinDate != nil {
		joinDate = *rec.TeamJoinDate
	}
	email := SynthesizeEmail(ign)

	id, err := r.store.InsertPlayer(ctx, ign, email, region, joinDate)
	if err != nil {
		return 0, fmt.Errorf("insert player %q: %w", ign, err)
	}
	r.players[ign] = id
	r.linkTeam(ctx, teamID, id, rec.TeamJoinDate)
	return id, nil
}

func (r *Resolver) linkTeam(ctx context.Context, teamID, playerID int64, joinDate *time.Time) {
	if teamID == 0 || joinDate == nil {
		return
	}
	if err := r.store.LinkTeamPlayer(ctx, teamID, playerID, *joinDate); err != nil {
		r.logger.Warn().Err(err).Int64("team_id", teamID).Int64("player_id", playerID).Msg("could not link player to team")
	}
}

// Tournament resolves a tournament name to its stored ID. Detail fields from
// a tournament-page scrape fill in whatever the stored row is missing.
func (r *Resolver) Tournament(ctx context.Context, name string, detail *domain.TournamentDetail) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallbackTournamentName
	}
	if id, ok := r.tournaments[name]; ok {
		return id, nil
	}

	stored, err := r.store.FindTournament(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("find tournament %q: %w", name, err)
	}
	if stored != nil {
		if detail != nil && (detail.PrizePool != nil || detail.StartDate != nil || detail.EndDate != nil) {
			if err := r.store.UpdateTournamentDetails(ctx, stored.ID, detail.PrizePool, detail.StartDate, detail.EndDate); err != nil {
				return 0, fmt.Errorf("enrich tournament %q: %w", name, err)
			}
		}
		r.tournaments[name] = stored.ID
		return stored.ID, nil
	}

	var prize *int64
	var start, end *time.Time
	if detail != nil {
		prize, start, end = detail.PrizePool, detail.StartDate, detail.EndDate
	}
	id, err := r.store.InsertTournament(ctx, name, prize, start, end)
	if err != nil {
		return 0, fmt.Errorf("insert tournament %q: %w", name, err)
	}
	r.tournaments[name] = id
	return id, nil
}

// LinkTournamentTeam records a tournament/team participation once.
func (r *Resolver) LinkTournamentTeam(ctx context.Context, tournamentID, teamID int64) error {
	return r.store.LinkTournamentTeam(ctx, tournamentID, teamID)
}

// SynthesizeEmail builds the placeholder address stored for players the site
// only identifies by IGN.
func SynthesizeEmail(ign string) string {
	return strings.ReplaceAll(strings.ToLower(ign), " ", "_") + "@vlr.gg"
}
