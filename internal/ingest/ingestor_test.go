package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/config"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/database"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/repository"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/resolve"
)

func TestMapWins(t *testing.T) {
	maps := []domain.MapRecord{
		{Team1Score: 13, Team2Score: 9},
		{Team1Score: 10, Team2Score: 13},
		{Team1Score: 13, Team2Score: 11},
		{Team1Score: 6, Team2Score: 6},
	}
	team1, team2 := mapWins(maps)
	if team1 != 2 || team2 != 1 {
		t.Fatalf("mapWins = %d/%d, want 2/1", team1, team2)
	}
}

func TestMatchResults(t *testing.T) {
	if w, l := matchResults(2, 1); w != repository.ResultWin || l != repository.ResultLoss {
		t.Fatalf("2-1 = %v/%v", w, l)
	}
	if l, w := matchResults(0, 2); l != repository.ResultLoss || w != repository.ResultWin {
		t.Fatalf("0-2 = %v/%v", l, w)
	}
	if a, b := matchResults(1, 1); a != repository.ResultTie || b != repository.ResultTie {
		t.Fatalf("1-1 = %v/%v", a, b)
	}
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func testIngestor(t *testing.T) *Ingestor {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &Ingestor{
		matches:  repository.NewMatchRepository(db, zerolog.Nop()),
		entities: repository.NewEntityRepository(db, zerolog.Nop()),
		cfg:      cfg,
		logger:   zerolog.Nop(),
	}
}

func testMatchData() *matchData {
	rec := domain.PlayerStatRecord{
		TeamName:  "Sentinels",
		PlayerIGN: "TenZ",
		MapName:   "Ascent",
		Agent:     "Jett",
		Kills:     intp(22),
		Deaths:    intp(14),
		Assists:   intp(4),
		ACS:       intp(270),
		Rating:    floatp(1.25),
	}
	return &matchData{
		Info: domain.MatchInfo{
			TournamentName: "Champions 2024",
			MatchDate:      time.Date(2024, 8, 25, 18, 0, 0, 0, time.UTC),
		},
		Pair: domain.TeamPair{
			Team1: domain.TeamInfo{Name: "Sentinels", Score: 1},
			Team2: domain.TeamInfo{Name: "Fnatic", Score: 0},
		},
		Maps: []domain.MapRecord{{
			MapOrder: 1, MapName: "Ascent",
			Team1Score: 13, Team2Score: 9, Duration: 2710,
		}},
		Stats: []domain.PlayerStatRecord{rec},
	}
}

func TestPersistMatchSkipsDuplicates(t *testing.T) {
	ing := testIngestor(t)
	ctx := context.Background()
	data := testMatchData()

	resolver := resolve.NewResolver(ing.entities, zerolog.Nop())
	if err := ing.persistMatch(ctx, resolver, data, PolicySkip); err != nil {
		t.Fatalf("first persist: %v", err)
	}

	// Same match again, fresh run.
	resolver = resolve.NewResolver(ing.entities, zerolog.Nop())
	err := ing.persistMatch(ctx, resolver, data, PolicySkip)
	if !errors.Is(err, ErrDuplicateMatch) {
		t.Fatalf("expected ErrDuplicateMatch, got %v", err)
	}

	totals, err := ing.matches.StoreTotals(ctx)
	if err != nil {
		t.Fatalf("store totals: %v", err)
	}
	if totals.Matches != 1 {
		t.Fatalf("expected 1 stored match, got %d", totals.Matches)
	}
}

func TestPersistMatchReplacePolicy(t *testing.T) {
	ing := testIngestor(t)
	ctx := context.Background()
	data := testMatchData()

	resolver := resolve.NewResolver(ing.entities, zerolog.Nop())
	if err := ing.persistMatch(ctx, resolver, data, PolicySkip); err != nil {
		t.Fatalf("first persist: %v", err)
	}

	data.Maps[0].Team2Score = 11
	resolver = resolve.NewResolver(ing.entities, zerolog.Nop())
	if err := ing.persistMatch(ctx, resolver, data, PolicyReplace); err != nil {
		t.Fatalf("replace persist: %v", err)
	}

	totals, err := ing.matches.StoreTotals(ctx)
	if err != nil {
		t.Fatalf("store totals: %v", err)
	}
	if totals.Matches != 1 {
		t.Fatalf("replace should leave a single match, got %d", totals.Matches)
	}
}

func TestPersistMatchSkipsUnknownMaps(t *testing.T) {
	ing := testIngestor(t)
	ctx := context.Background()
	data := testMatchData()
	data.Maps = append(data.Maps, domain.MapRecord{MapOrder: 2, MapName: "Not A Map"})

	resolver := resolve.NewResolver(ing.entities, zerolog.Nop())
	if err := ing.persistMatch(ctx, resolver, data, PolicySkip); err != nil {
		t.Fatalf("persist: %v", err)
	}
}

func TestSleepCtxHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if sleepCtx(ctx, time.Minute) {
		t.Fatalf("sleepCtx should report a cancelled context")
	}
	if !sleepCtx(context.Background(), time.Millisecond) {
		t.Fatalf("sleepCtx should complete a short sleep")
	}
}
