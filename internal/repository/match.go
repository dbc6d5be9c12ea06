package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
)

// MatchResult is a team's outcome for the whole match.
type MatchResult int

const (
	ResultLoss MatchResult = iota
	ResultWin
	ResultTie
)

// Totals is the store-wide summary printed after a run.
type Totals struct {
	Matches         int64
	Teams           int64
	TeamsWithRegion int64
}

// MatchRepository persists whole match graphs and answers duplicate checks.
type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{db: sqlDB, logger: logger}
}

// FindMatch looks for a stored match between the two teams on the same
// calendar day. A match counts only when both teams appear in its map stats,
// in either order.
func (r *MatchRepository) FindMatch(ctx context.Context, team1ID, team2ID int64, matchDate time.Time) (int64, bool, error) {
	var matchID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT m.match_id
		 FROM Matches m
		 JOIN MatchMaps mm ON mm.match_id = m.match_id
		 JOIN MatchStats ms ON ms.match_map_id = mm.match_map_id
		 WHERE date(m.match_date) = date(?)
		   AND ms.team_id IN (?, ?)
		 GROUP BY m.match_id
		 HAVING COUNT(DISTINCT ms.team_id) = 2
		 LIMIT 1`,
		matchDate, team1ID, team2ID,
	).Scan(&matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find match: %w", err)
	}
	return matchID, true, nil
}

// DeleteMatchCascade removes a match and every dependent row, children first.
func (r *MatchRepository) DeleteMatchCascade(ctx context.Context, matchID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	statements := []string{
		"DELETE FROM AdvancedStats WHERE match_id = ?",
		"DELETE FROM PlayerMatches WHERE match_id = ?",
		"DELETE FROM MatchRounds WHERE match_map_id IN (SELECT match_map_id FROM MatchMaps WHERE match_id = ?)",
		"DELETE FROM MatchStats WHERE match_map_id IN (SELECT match_map_id FROM MatchMaps WHERE match_id = ?)",
		"DELETE FROM MatchMaps WHERE match_id = ?",
		"DELETE FROM Matches WHERE match_id = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, matchID); err != nil {
			return fmt.Errorf("delete match %d: %w", matchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	r.logger.Info().Int64("match_id", matchID).Msg("deleted existing match data")
	return nil
}

// InsertMatchGraph writes the full match in one transaction: the match row,
// each map with its rounds and both teams' map stats, then every player's
// per-map rows. Nothing is visible unless the whole graph lands.
func (r *MatchRepository) InsertMatchGraph(ctx context.Context, graph domain.MatchGraph) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO Matches (match_date, tournament_id, mode, date_played) VALUES (?, ?, ?, ?)",
		graph.MatchDate, graph.TournamentID, graph.Mode, graph.MatchDate,
	)
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("match id: %w", err)
	}

	for _, m := range graph.Maps {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO MatchMaps (match_id, map_id, map_order, team1_score, team2_score, duration) VALUES (?, ?, ?, ?, ?, ?)",
			matchID, m.MapID, m.MapOrder, m.Team1Score, m.Team2Score, m.Duration,
		)
		if err != nil {
			return 0, fmt.Errorf("insert map %d: %w", m.MapOrder, err)
		}
		matchMapID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("map id: %w", err)
		}

		for _, round := range m.Rounds {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO MatchRounds (match_map_id, round_number, winner, win_method) VALUES (?, ?, ?, ?)",
				matchMapID, round.RoundNumber, winnerLabel(round.Winner), string(round.Method),
			); err != nil {
				return 0, fmt.Errorf("insert round %d: %w", round.RoundNumber, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO MatchStats (match_map_id, team_id, rounds_won, rounds_lost) VALUES (?, ?, ?, ?)",
			matchMapID, graph.Team1ID, m.Team1Score, m.Team2Score,
		); err != nil {
			return 0, fmt.Errorf("insert team1 map stats: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO MatchStats (match_map_id, team_id, rounds_won, rounds_lost) VALUES (?, ?, ?, ?)",
			matchMapID, graph.Team2ID, m.Team2Score, m.Team1Score,
		); err != nil {
			return 0, fmt.Errorf("insert team2 map stats: %w", err)
		}

		for _, p := range m.Players {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO PlayerMatches (player_id, match_id, match_map_id, agent_id, kills, deaths, assists, score) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				p.PlayerID, matchID, matchMapID, p.AgentID, p.Kills, p.Deaths, p.Assists, p.Score,
			); err != nil {
				return 0, fmt.Errorf("insert player match: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO AdvancedStats
				   (match_id, match_map_id, player_id, headshots, economy_rating, utility_used,
				    acs, adr, kast, hs_percent, first_kills, first_deaths, r2o)
				 VALUES (?, ?, ?, 0, 0, 0, ?, ?, ?, ?, ?, ?, ?)`,
				matchID, matchMapID, p.PlayerID,
				p.ACS, p.ADR, p.KAST, p.HSPercent, p.FirstKills, p.FirstDeaths, p.Rating,
			); err != nil {
				return 0, fmt.Errorf("insert advanced stats: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit match graph: %w", err)
	}
	return matchID, nil
}

// RecordTeamResult bumps a team's running counters once per match. A tie
// counts as played without touching wins or losses.
func (r *MatchRepository) RecordTeamResult(ctx context.Context, teamID int64, result MatchResult) error {
	won, lost := 0, 0
	switch result {
	case ResultWin:
		won = 1
	case ResultLoss:
		lost = 1
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO TeamStats (team_id, matches_played, matches_won, matches_lost)
		 VALUES (?, 1, ?, ?)
		 ON CONFLICT(team_id) DO UPDATE SET
		   matches_played = matches_played + 1,
		   matches_won = matches_won + excluded.matches_won,
		   matches_lost = matches_lost + excluded.matches_lost`,
		teamID, won, lost,
	); err != nil {
		return fmt.Errorf("record team result: %w", err)
	}
	return nil
}

// StoreTotals gathers the store-wide summary counts in parallel.
func (r *MatchRepository) StoreTotals(ctx context.Context) (Totals, error) {
	var totals Totals
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM Matches").Scan(&totals.Matches)
	})
	g.Go(func() error {
		return r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM Teams").Scan(&totals.Teams)
	})
	g.Go(func() error {
		return r.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM Teams WHERE region IS NOT NULL AND TRIM(region) != '' AND region != 'Unknown'",
		).Scan(&totals.TeamsWithRegion)
	})

	if err := g.Wait(); err != nil {
		return Totals{}, fmt.Errorf("store totals: %w", err)
	}
	return totals, nil
}

func winnerLabel(side domain.TeamSide) string {
	if side == domain.SideTeam2 {
		return "team2"
	}
	return "team1"
}
