// Package repository is the SQL persistence layer. All statements are
// parameterized; multi-statement writes run inside a transaction with
// rollback on any failure.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/resolve"
)

// EntityRepository persists teams, players and tournaments. It backs the
// resolver's EntityStore.
type EntityRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewEntityRepository(sqlDB *sql.DB, logger zerolog.Logger) *EntityRepository {
	return &EntityRepository{db: sqlDB, logger: logger}
}

func (r *EntityRepository) FindTeam(ctx context.Context, name string) (*resolve.StoredTeam, error) {
	var (
		team   resolve.StoredTeam
		region sql.NullString
		logo   sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT team_id, region, logo_url FROM Teams WHERE name = ?", name,
	).Scan(&team.ID, &region, &logo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query team: %w", err)
	}
	team.Region = region.String
	team.LogoURL = logo.String
	return &team, nil
}

func (r *EntityRepository) InsertTeam(ctx context.Context, name, region, logoURL string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO Teams (name, region, logo_url) VALUES (?, ?, ?)",
		name, nullIfEmpty(region), nullIfEmpty(logoURL),
	)
	if err != nil {
		return 0, fmt.Errorf("insert team: %w", err)
	}
	return res.LastInsertId()
}

// UpdateTeamDetails fills in region and logo. An empty argument leaves the
// stored column untouched.
func (r *EntityRepository) UpdateTeamDetails(ctx context.Context, id int64, region, logoURL string) error {
	var sets []string
	var args []any
	if region != "" {
		sets = append(sets, "region = ?")
		args = append(args, region)
	}
	if logoURL != "" {
		sets = append(sets, "logo_url = ?")
		args = append(args, logoURL)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := "UPDATE Teams SET " + strings.Join(sets, ", ") + " WHERE team_id = ?"
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team details: %w", err)
	}
	return nil
}

func (r *EntityRepository) FindPlayer(ctx context.Context, username string) (*resolve.StoredPlayer, error) {
	var (
		player resolve.StoredPlayer
		region sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT player_id, region FROM Players WHERE username = ?", username,
	).Scan(&player.ID, &region)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query player: %w", err)
	}
	player.Region = region.String
	return &player, nil
}

func (r *EntityRepository) InsertPlayer(ctx context.Context, username, email, region string, joinDate time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO Players (username, email, region, join_date) VALUES (?, ?, ?, ?)",
		username, email, region, joinDate,
	)
	if err != nil {
		return 0, fmt.Errorf("insert player: %w", err)
	}
	return res.LastInsertId()
}

func (r *EntityRepository) UpdatePlayerRegion(ctx context.Context, id int64, region string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE Players SET region = ? WHERE player_id = ?", region, id,
	); err != nil {
		return fmt.Errorf("update player region: %w", err)
	}
	return nil
}

func (r *EntityRepository) FindTournament(ctx context.Context, name string) (*resolve.StoredTournament, error) {
	var (
		tournament resolve.StoredTournament
		prize      sql.NullInt64
		start      sql.NullTime
		end        sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT tournament_id, prize_pool, start_date, end_date FROM Tournaments WHERE name = ?", name,
	).Scan(&tournament.ID, &prize, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query tournament: %w", err)
	}
	if prize.Valid {
		tournament.PrizePool = &prize.Int64
	}
	if start.Valid {
		tournament.StartDate = &start.Time
	}
	if end.Valid {
		tournament.EndDate = &end.Time
	}
	return &tournament, nil
}

func (r *EntityRepository) InsertTournament(ctx context.Context, name string, prizePool *int64, start, end *time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO Tournaments (name, prize_pool, start_date, end_date) VALUES (?, ?, ?, ?)",
		name, prizePool, start, end,
	)
	if err != nil {
		return 0, fmt.Errorf("insert tournament: %w", err)
	}
	return res.LastInsertId()
}

// UpdateTournamentDetails fills in whatever the caller learned from the event
// page. Nil arguments keep the stored values.
func (r *EntityRepository) UpdateTournamentDetails(ctx context.Context, id int64, prizePool *int64, start, end *time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE Tournaments
		 SET prize_pool = COALESCE(?, prize_pool),
		     start_date = COALESCE(?, start_date),
		     end_date = COALESCE(?, end_date)
		 WHERE tournament_id = ?`,
		prizePool, start, end, id,
	); err != nil {
		return fmt.Errorf("update tournament details: %w", err)
	}
	return nil
}

func (r *EntityRepository) LinkTeamPlayer(ctx context.Context, teamID, playerID int64, joinDate time.Time) error {
	if _, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO TeamPlayers (team_id, player_id, join_date) VALUES (?, ?, ?)",
		teamID, playerID, joinDate,
	); err != nil {
		return fmt.Errorf("link team player: %w", err)
	}
	return nil
}

func (r *EntityRepository) LinkTournamentTeam(ctx context.Context, tournamentID, teamID int64) error {
	if _, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO TournamentTeams (tournament_id, team_id) VALUES (?, ?)",
		tournamentID, teamID,
	); err != nil {
		return fmt.Errorf("link tournament team: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
