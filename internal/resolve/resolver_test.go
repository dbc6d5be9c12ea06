package resolve

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
)

type fakeStore struct {
	teams       map[string]*StoredTeam
	players     map[string]*StoredPlayer
	tournaments map[string]*StoredTournament

	teamInserts       int
	playerInserts     int
	tournamentInserts int
	teamUpdates       []string
	playerUpdates     []string
	teamLinks         int
	tournamentLinks   int

	insertedEmail  string
	insertedRegion string
	nextID         int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		teams:       make(map[string]*StoredTeam),
		players:     make(map[string]*StoredPlayer),
		tournaments: make(map[string]*StoredTournament),
	}
}

func (f *fakeStore) id() int64 { f.nextID++; return f.nextID }

func (f *fakeStore) FindTeam(_ context.Context, name string) (*StoredTeam, error) {
	return f.teams[name], nil
}

func (f *fakeStore) InsertTeam(_ context.Context, name, region, logoURL string) (int64, error) {
	f.teamInserts++
	t := &StoredTeam{ID: f.id(), Region: region, LogoURL: logoURL}
	f.teams[name] = t
	return t.ID, nil
}

func (f *fakeStore) UpdateTeamDetails(_ context.Context, id int64, region, logoURL string) error {
	f.teamUpdates = append(f.teamUpdates, region)
	for _, t := range f.teams {
		if t.ID == id {
			if region != "" {
				t.Region = region
			}
			if logoURL != "" {
				t.LogoURL = logoURL
			}
		}
	}
	return nil
}

func (f *fakeStore) FindPlayer(_ context.Context, username string) (*StoredPlayer, error) {
	return f.players[username], nil
}

func (f *fakeStore) InsertPlayer(_ context.Context, username, email, region string, _ time.Time) (int64, error) {
	f.playerInserts++
	f.insertedEmail = email
	f.insertedRegion = region
	p := &StoredPlayer{ID: f.id(), Region: region}
	f.players[username] = p
	return p.ID, nil
}

func (f *fakeStore) UpdatePlayerRegion(_ context.Context, id int64, region string) error {
	f.playerUpdates = append(f.playerUpdates, region)
	for _, p := range f.players {
		if p.ID == id {
			p.Region = region
		}
	}
	return nil
}

func (f *fakeStore) FindTournament(_ context.Context, name string) (*StoredTournament, error) {
	return f.tournaments[name], nil
}

func (f *fakeStore) InsertTournament(_ context.Context, name string, prizePool *int64, start, end *time.Time) (int64, error) {
	f.tournamentInserts++
	t := &StoredTournament{ID: f.id(), PrizePool: prizePool, StartDate: start, EndDate: end}
	f.tournaments[name] = t
	return t.ID, nil
}

func (f *fakeStore) UpdateTournamentDetails(_ context.Context, id int64, prizePool *int64, start, end *time.Time) error {
	for _, t := range f.tournaments {
		if t.ID == id {
			if prizePool != nil {
				t.PrizePool = prizePool
			}
			if start != nil {
				t.StartDate = start
			}
			if end != nil {
				t.EndDate = end
			}
		}
	}
	return nil
}

func (f *fakeStore) LinkTeamPlayer(_ context.Context, _, _ int64, _ time.Time) error {
	f.teamLinks++
	return nil
}

func (f *fakeStore) LinkTournamentTeam(_ context.Context, _, _ int64) error {
	f.tournamentLinks++
	return nil
}

func newResolver(store EntityStore) *Resolver {
	return NewResolver(store, zerolog.Nop())
}

func TestTeamResolvedOncePerRun(t *testing.T) {
	store := newFakeStore()
	r := newResolver(store)
	ctx := context.Background()

	first, err := r.Team(ctx, domain.TeamInfo{Name: "Sentinels", Region: "NA"})
	if err != nil {
		t.Fatalf("resolve team: %v", err)
	}
	second, err := r.Team(ctx, domain.TeamInfo{Name: "Sentinels"})
	if err != nil {
		t.Fatalf("resolve team again: %v", err)
	}
	if first != second {
		t.Fatalf("expected stable id, got %d then %d", first, second)
	}
	if store.teamInserts != 1 {
		t.Fatalf("expected 1 insert, got %d", store.teamInserts)
	}
}

func TestTeamEnrichmentOnlyFillsMissing(t *testing.T) {
	store := newFakeStore()
	store.teams["Fnatic"] = &StoredTeam{ID: 7, Region: "Unknown"}
	r := newResolver(store)

	if _, err := r.Team(context.Background(), domain.TeamInfo{Name: "Fnatic", Region: "EU"}); err != nil {
		t.Fatalf("resolve team: %v", err)
	}
	if len(store.teamUpdates) != 1 || store.teamUpdates[0] != "EU" {
		t.Fatalf("expected one enrichment with EU, got %v", store.teamUpdates)
	}

	// A later scrape claiming a different region must not clobber it.
	r2 := newResolver(store)
	if _, err := r2.Team(context.Background(), domain.TeamInfo{Name: "Fnatic", Region: "NA"}); err != nil {
		t.Fatalf("resolve team: %v", err)
	}
	if len(store.teamUpdates) != 1 {
		t.Fatalf("expected no further update, got %v", store.teamUpdates)
	}
	if store.teams["Fnatic"].Region != "EU" {
		t.Fatalf("stored region clobbered: %s", store.teams["Fnatic"].Region)
	}
}

func TestPlayerInsertSynthesizesIdentity(t *testing.T) {
	store := newFakeStore()
	r := newResolver(store)

	rec := domain.PlayerStatRecord{PlayerIGN: "Something Weird"}
	if _, err := r.Player(context.Background(), rec, 0); err != nil {
		t.Fatalf("resolve player: %v", err)
	}
	if store.insertedEmail != "something_weird@vlr.gg" {
		t.Fatalf("unexpected email: %s", store.insertedEmail)
	}
	if store.insertedRegion != "Unknown" {
		t.Fatalf("expected default region, got %s", store.insertedRegion)
	}
}

func TestPlayerRegionEnrichment(t *testing.T) {
	store := newFakeStore()
	store.players["TenZ"] = &StoredPlayer{ID: 3, Region: ""}
	r := newResolver(store)

	rec := domain.PlayerStatRecord{PlayerIGN: "TenZ", Region: "NA"}
	if _, err := r.Player(context.Background(), rec, 0); err != nil {
		t.Fatalf("resolve player: %v", err)
	}
	if len(store.playerUpdates) != 1 || store.playerUpdates[0] != "NA" {
		t.Fatalf("expected region update to NA, got %v", store.playerUpdates)
	}

	// An "Unknown" scrape never counts as new information.
	store2 := newFakeStore()
	store2.players["TenZ"] = &StoredPlayer{ID: 3, Region: ""}
	rec.Region = "Unknown"
	if _, err := newResolver(store2).Player(context.Background(), rec, 0); err != nil {
		t.Fatalf("resolve player: %v", err)
	}
	if len(store2.playerUpdates) != 0 {
		t.Fatalf("expected no update for Unknown region, got %v", store2.playerUpdates)
	}
}

func TestPlayerTeamLinkRequiresJoinDate(t *testing.T) {
	store := newFakeStore()
	r := newResolver(store)
	ctx := context.Background()

	rec := domain.PlayerStatRecord{PlayerIGN: "aspas"}
	if _, err := r.Player(ctx, rec, 5); err != nil {
		t.Fatalf("resolve player: %v", err)
	}
	if store.teamLinks != 0 {
		t.Fatalf("link recorded without join date")
	}

	join := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	rec.TeamJoinDate = &join
	if _, err := r.Player(ctx, rec, 5); err != nil {
		t.Fatalf("resolve player: %v", err)
	}
	if store.teamLinks != 1 {
		t.Fatalf("expected 1 link, got %d", store.teamLinks)
	}
	if store.playerInserts != 1 {
		t.Fatalf("expected cached player, got %d inserts", store.playerInserts)
	}
}

func TestTournamentFallbackName(t *testing.T) {
	store := newFakeStore()
	r := newResolver(store)

	id, err := r.Tournament(context.Background(), "  ", nil)
	if err != nil {
		t.Fatalf("resolve tournament: %v", err)
	}
	if store.tournamentInserts != 1 {
		t.Fatalf("expected insert, got %d", store.tournamentInserts)
	}
	if _, ok := store.tournaments["Unknown Tournament"]; !ok {
		t.Fatalf("fallback name not used")
	}
	again, err := r.Tournament(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("resolve tournament: %v", err)
	}
	if id != again {
		t.Fatalf("fallback tournament not cached: %d vs %d", id, again)
	}
}
