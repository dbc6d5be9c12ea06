// Package ingest orchestrates a scraping run: discover match URLs, fetch and
// extract each page, resolve entities and persist whole match graphs.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/config"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/constants"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/extract"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/refdata"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/repository"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/resolve"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/stats"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/vlr"
)

// ErrDuplicateMatch signals that the match is already stored and the skip
// policy kept the existing rows.
var ErrDuplicateMatch = errors.New("match already stored")

// Policy decides what happens when a scraped match already exists.
type Policy int

const (
	PolicySkip Policy = iota
	PolicyReplace
)

// Summary is the tally of one run.
type Summary struct {
	Pages    int
	Matches  int
	Inserted int
	Skipped  int
	Errors   int
}

type Ingestor struct {
	client    *vlr.Client
	discovery *vlr.Discovery
	extractor *extract.Extractor
	matches   *repository.MatchRepository
	entities  *repository.EntityRepository
	cfg       *config.Config
	logger    zerolog.Logger
}

func NewIngestor(
	client *vlr.Client,
	discovery *vlr.Discovery,
	extractor *extract.Extractor,
	matches *repository.MatchRepository,
	entities *repository.EntityRepository,
	cfg *config.Config,
	logger zerolog.Logger,
) *Ingestor {
	return &Ingestor{
		client:    client,
		discovery: discovery,
		extractor: extractor,
		matches:   matches,
		entities:  entities,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run scrapes every results page in [startPage, endPage], ingesting each
// discovered match serially with politeness delays. One failed match never
// aborts the run.
func (i *Ingestor) Run(ctx context.Context, startPage, endPage int, policy Policy) (Summary, error) {
	runID, err := gonanoid.New()
	if err != nil {
		return Summary{}, fmt.Errorf("generate run id: %w", err)
	}
	logger := i.logger.With().Str("run_id", runID).Logger()
	logger.Info().Int("start_page", startPage).Int("end_page", endPage).Msg("starting scraping run")

	resolver := resolve.NewResolver(i.entities, logger)
	seen := make(map[string]struct{})
	var summary Summary

	for page := startPage; page <= endPage; page++ {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		urls := i.discovery.ListMatchURLs(ctx, page)
		summary.Pages++
		logger.Info().Int("page", page).Int("matches", len(urls)).Msg("scanned results page")

		for _, url := range urls {
			if _, dup := seen[url]; dup {
				continue
			}
			seen[url] = struct{}{}
			summary.Matches++

			err := i.ingestOne(ctx, resolver, url, policy)
			switch {
			case errors.Is(err, ErrDuplicateMatch):
				summary.Skipped++
				logger.Info().Str("url", url).Msg("match already stored, skipped")
			case err != nil:
				summary.Errors++
				logger.Error().Err(err).Str("url", url).Msg("failed to ingest match")
				if !sleepCtx(ctx, constants.ErrorRetryWait) {
					return summary, ctx.Err()
				}
			default:
				summary.Inserted++
				logger.Info().Str("url", url).Msg("match ingested")
			}

			if !sleepCtx(ctx, i.cfg.MatchDelay) {
				return summary, ctx.Err()
			}
		}

		if !sleepCtx(ctx, constants.PageScanDelay) {
			return summary, ctx.Err()
		}
	}

	logger.Info().
		Int("inserted", summary.Inserted).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Msg("scraping run finished")
	return summary, nil
}

// IngestMatch scrapes and persists a single match page.
func (i *Ingestor) IngestMatch(ctx context.Context, url string, policy Policy) error {
	resolver := resolve.NewResolver(i.entities, i.logger)
	return i.ingestOne(ctx, resolver, url, policy)
}

func (i *Ingestor) ingestOne(ctx context.Context, resolver *resolve.Resolver, url string, policy Policy) error {
	data, err := i.scrapeMatch(ctx, url)
	if err != nil {
		return err
	}
	return i.persistMatch(ctx, resolver, data, policy)
}

// matchData is everything scraped for one match before entity resolution.
type matchData struct {
	Info       domain.MatchInfo
	Pair       domain.TeamPair
	Maps       []domain.MapRecord
	Stats      []domain.PlayerStatRecord
	Tournament *domain.TournamentDetail
}

func (i *Ingestor) scrapeMatch(ctx context.Context, url string) (*matchData, error) {
	markup, err := i.client.FetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch match page: %w", err)
	}
	page, err := vlr.NewPage(markup)
	if err != nil {
		return nil, fmt.Errorf("parse match page: %w", err)
	}
	doc := page.Document()

	data := &matchData{
		Info: i.extractor.MatchInfo(doc),
		Pair: i.extractor.Teams(doc),
		Maps: i.extractor.Maps(doc),
	}
	data.Stats = i.extractor.CollectPlayerStats(ctx, page, data.Pair.Team1.Name, data.Pair.Team2.Name, data.Maps)

	// The header's final score is declared, not derived; recount it from the
	// per-map results.
	data.Pair.Team1.Score, data.Pair.Team2.Score = mapWins(data.Maps)

	i.enrichTeams(ctx, data)
	i.enrichTournament(ctx, data)
	i.enrichPlayers(ctx, data)

	overall, err := stats.Aggregate(data.Stats)
	if err != nil {
		i.logger.Warn().Err(err).Str("url", url).Msg("could not aggregate overall stats")
	} else {
		data.Stats = append(data.Stats, overall...)
	}

	return data, nil
}

func (i *Ingestor) enrichTeams(ctx context.Context, data *matchData) {
	for _, team := range []*domain.TeamInfo{&data.Pair.Team1, &data.Pair.Team2} {
		if team.URL == "" {
			continue
		}
		if !sleepCtx(ctx, i.cfg.RequestDelay) {
			return
		}
		markup, err := i.client.FetchPage(ctx, team.URL)
		if err != nil {
			i.logger.Warn().Err(err).Str("team", team.Name).Msg("could not fetch team page")
			continue
		}
		page, err := vlr.NewPage(markup)
		if err != nil {
			i.logger.Warn().Err(err).Str("team", team.Name).Msg("could not parse team page")
			continue
		}
		team.Region, team.LogoURL = i.extractor.TeamPage(page.Document())
	}
}

func (i *Ingestor) enrichTournament(ctx context.Context, data *matchData) {
	if data.Info.TournamentURL == "" {
		return
	}
	if !sleepCtx(ctx, i.cfg.RequestDelay) {
		return
	}
	markup, err := i.client.FetchPage(ctx, data.Info.TournamentURL)
	if err != nil {
		i.logger.Warn().Err(err).Str("tournament", data.Info.TournamentName).Msg("could not fetch tournament page")
		return
	}
	page, err := vlr.NewPage(markup)
	if err != nil {
		i.logger.Warn().Err(err).Str("tournament", data.Info.TournamentName).Msg("could not parse tournament page")
		return
	}
	detail := i.extractor.TournamentPage(page.Document())
	data.Tournament = &detail
}

// enrichPlayers visits each distinct player page once and copies region and
// team join date onto every stat row of that player.
func (i *Ingestor) enrichPlayers(ctx context.Context, data *matchData) {
	type playerDetail struct {
		region   string
		joinDate *time.Time
	}
	details := make(map[string]playerDetail)

	for idx := range data.Stats {
		rec := &data.Stats[idx]
		if rec.PlayerURL == "" {
			continue
		}
		detail, visited := details[rec.PlayerURL]
		if !visited {
			if !sleepCtx(ctx, i.cfg.RequestDelay) {
				return
			}
			markup, err := i.client.FetchPage(ctx, rec.PlayerURL)
			if err != nil {
				i.logger.Warn().Err(err).Str("player", rec.PlayerIGN).Msg("could not fetch player page")
				details[rec.PlayerURL] = playerDetail{}
				continue
			}
			page, err := vlr.NewPage(markup)
			if err != nil {
				i.logger.Warn().Err(err).Str("player", rec.PlayerIGN).Msg("could not parse player page")
				details[rec.PlayerURL] = playerDetail{}
				continue
			}
			region, joinDate := i.extractor.PlayerPage(page.Document(), rec.TeamName)
			detail = playerDetail{region: region, joinDate: joinDate}
			details[rec.PlayerURL] = detail
		}
		if detail.region != "" {
			rec.Region = detail.region
		}
		rec.TeamJoinDate = detail.joinDate
	}
}

func (i *Ingestor) persistMatch(ctx context.Context, resolver *resolve.Resolver, data *matchData, policy Policy) error {
	team1ID, err := resolver.Team(ctx, data.Pair.Team1)
	if err != nil {
		return err
	}
	team2ID, err := resolver.Team(ctx, data.Pair.Team2)
	if err != nil {
		return err
	}

	tournamentID, err := resolver.Tournament(ctx, data.Info.TournamentName, data.Tournament)
	if err != nil {
		return err
	}
	for _, teamID := range []int64{team1ID, team2ID} {
		if err := resolver.LinkTournamentTeam(ctx, tournamentID, teamID); err != nil {
			i.logger.Warn().Err(err).Msg("could not link tournament team")
		}
	}
	if data.Tournament != nil {
		i.linkParticipants(ctx, resolver, tournamentID, data)
	}

	matchDate := data.Info.MatchDate
	if matchDate.IsZero() {
		matchDate = time.Now()
	}

	if existingID, found, err := i.matches.FindMatch(ctx, team1ID, team2ID, matchDate); err != nil {
		return err
	} else if found {
		if policy == PolicySkip {
			return ErrDuplicateMatch
		}
		if err := i.matches.DeleteMatchCascade(ctx, existingID); err != nil {
			return err
		}
	}

	graph := domain.MatchGraph{
		TournamentID: tournamentID,
		Team1ID:      team1ID,
		Team2ID:      team2ID,
		MatchDate:    matchDate,
		Mode:         "Competitive",
	}

	for _, m := range data.Maps {
		mapID, err := refdata.MapID(m.MapName)
		if err != nil {
			i.logger.Warn().Str("map", m.MapName).Msg("unknown map, skipping")
			continue
		}
		mapGraph := domain.MapGraph{
			MapID:      mapID,
			MapOrder:   m.MapOrder,
			Team1Score: m.Team1Score,
			Team2Score: m.Team2Score,
			Duration:   m.Duration,
			Rounds:     m.Rounds,
		}

		for _, rec := range data.Stats {
			if rec.MapName != m.MapName {
				continue
			}
			row, err := i.playerRow(ctx, resolver, rec, data.Pair, team1ID, team2ID)
			if err != nil {
				return err
			}
			mapGraph.Players = append(mapGraph.Players, row)
		}

		graph.Maps = append(graph.Maps, mapGraph)
	}

	matchID, err := i.matches.InsertMatchGraph(ctx, graph)
	if err != nil {
		return err
	}
	i.logger.Info().Int64("match_id", matchID).Int("maps", len(graph.Maps)).Msg("stored match graph")

	result1, result2 := matchResults(data.Pair.Team1.Score, data.Pair.Team2.Score)
	if err := i.matches.RecordTeamResult(ctx, team1ID, result1); err != nil {
		return err
	}
	return i.matches.RecordTeamResult(ctx, team2ID, result2)
}

func (i *Ingestor) linkParticipants(ctx context.Context, resolver *resolve.Resolver, tournamentID int64, data *matchData) {
	for _, name := range data.Tournament.TeamNames {
		if name == data.Pair.Team1.Name || name == data.Pair.Team2.Name {
			continue
		}
		teamID, err := resolver.Team(ctx, domain.TeamInfo{Name: name})
		if err != nil {
			i.logger.Warn().Err(err).Str("team", name).Msg("could not resolve participating team")
			continue
		}
		if err := resolver.LinkTournamentTeam(ctx, tournamentID, teamID); err != nil {
			i.logger.Warn().Err(err).Str("team", name).Msg("could not link participating team")
		}
	}
}

func (i *Ingestor) playerRow(ctx context.Context, resolver *resolve.Resolver, rec domain.PlayerStatRecord, pair domain.TeamPair, team1ID, team2ID int64) (domain.PlayerRow, error) {
	teamID := team1ID
	if rec.TeamName == pair.Team2.Name {
		teamID = team2ID
	}

	playerID, err := resolver.Player(ctx, rec, teamID)
	if err != nil {
		return domain.PlayerRow{}, err
	}

	row := domain.PlayerRow{
		PlayerID:    playerID,
		Kills:       intOrZero(rec.Kills),
		Deaths:      intOrZero(rec.Deaths),
		Assists:     intOrZero(rec.Assists),
		Score:       intOrZero(rec.ACS),
		ACS:         float64(intOrZero(rec.ACS)),
		ADR:         floatOrZero(rec.ADR),
		KAST:        floatOrZero(rec.KASTPercent),
		HSPercent:   floatOrZero(rec.HSPercent),
		FirstKills:  intOrZero(rec.FirstKills),
		FirstDeaths: intOrZero(rec.FirstDeaths),
		Rating:      floatOrZero(rec.Rating),
	}

	if rec.Agent != "" {
		agentID, err := refdata.AgentID(rec.Agent)
		if err != nil {
			i.logger.Warn().Str("agent", rec.Agent).Str("player", rec.PlayerIGN).Msg("unknown agent, storing NULL")
		} else {
			row.AgentID = &agentID
		}
	}

	return row, nil
}

// mapWins recounts each team's match score from the per-map results.
func mapWins(maps []domain.MapRecord) (team1, team2 int) {
	for _, m := range maps {
		switch {
		case m.Team1Score > m.Team2Score:
			team1++
		case m.Team2Score > m.Team1Score:
			team2++
		}
	}
	return team1, team2
}

// matchResults classifies both teams' outcomes. Equal scores leave both
// without a win or a loss.
func matchResults(team1Score, team2Score int) (repository.MatchResult, repository.MatchResult) {
	switch {
	case team1Score > team2Score:
		return repository.ResultWin, repository.ResultLoss
	case team2Score > team1Score:
		return repository.ResultLoss, repository.ResultWin
	}
	return repository.ResultTie, repository.ResultTie
}

// sleepCtx waits for the delay unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
