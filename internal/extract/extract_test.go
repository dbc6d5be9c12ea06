package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
)

func testExtractor() *Extractor {
	return New("https://www.vlr.gg", zerolog.Nop())
}

func makeDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	return doc
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"32:15", 1935},
		{"1:05", 65},
		{" 45:10 ", 2710},
		{"bogus", 0},
		{"12", 0},
		{"a:b", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := ParseDuration(c.in); got != c.want {
			t.Fatalf("ParseDuration(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestTournamentNameStyledLabel(t *testing.T) {
	doc := makeDoc(t, `
		<a class="match-header-event" href="/event/2097/valorant-champions-2024">
			<div>
				<div style="font-weight: 700;">Valorant Champions 2024</div>
				<div class="match-header-event-series">Grand Final</div>
			</div>
		</a>`)
	info := testExtractor().MatchInfo(doc)
	if info.TournamentName != "Valorant Champions 2024" {
		t.Fatalf("tournament name = %q", info.TournamentName)
	}
	if info.MatchStage != "Grand Final" {
		t.Fatalf("match stage = %q", info.MatchStage)
	}
	if info.TournamentURL != "https://www.vlr.gg/event/2097/valorant-champions-2024" {
		t.Fatalf("tournament url = %q", info.TournamentURL)
	}
}

func TestTournamentNameLinkTextStripsSubtitle(t *testing.T) {
	doc := makeDoc(t, `
		<a class="match-header-event" href="/event/2097/champions-tour">
			Champions Tour: Week 2
		</a>`)
	info := testExtractor().MatchInfo(doc)
	if info.TournamentName != "Champions Tour" {
		t.Fatalf("tournament name = %q", info.TournamentName)
	}
}

func TestTournamentNameSlugFallback(t *testing.T) {
	doc := makeDoc(t, `
		<a class="match-header-event" href="/event/2097/champions-tour-emea">x</a>`)
	info := testExtractor().MatchInfo(doc)
	if info.TournamentName != "Champions Tour Emea" {
		t.Fatalf("tournament name = %q", info.TournamentName)
	}
}

func TestTournamentLinkMustBeEventLink(t *testing.T) {
	doc := makeDoc(t, `
		<a class="match-header-event" href="/team/123/sentinels">Sentinels</a>`)
	info := testExtractor().MatchInfo(doc)
	if info.TournamentName != "" || info.TournamentURL != "" {
		t.Fatalf("non-event link should be ignored: %+v", info)
	}
}

func TestMatchDatePrefersEpochTimestamp(t *testing.T) {
	doc := makeDoc(t, `
		<div class="moment-tz-convert" data-utc-ts="1731507300000">Wednesday, November 13</div>`)
	got := matchDate(doc, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	want := time.UnixMilli(1731507300000)
	if !got.Equal(want) {
		t.Fatalf("matchDate = %v, want %v", got, want)
	}
}

func TestMatchDateTextFallbackInjectsYear(t *testing.T) {
	doc := makeDoc(t, `<div class="moment-tz-convert">Thursday, November 13</div>`)
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	got := matchDate(doc, now)
	want := time.Date(2025, 11, 13, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("matchDate = %v, want %v", got, want)
	}
}

func TestMatchDateUnparsableIsZero(t *testing.T) {
	doc := makeDoc(t, `<div class="moment-tz-convert">TBD</div>`)
	if got := matchDate(doc, time.Now()); !got.IsZero() {
		t.Fatalf("matchDate = %v, want zero", got)
	}
}

const teamsMarkup = `
	<a href="/team/2/sentinels">
		<div class="match-header-link-name">
			<div class="wf-title-med">Sentinels</div>
			<div class="match-header-link-name-elo">[1869]</div>
		</div>
	</a>
	<a href="/team/188/fnatic">
		<div class="match-header-link-name">
			Fnatic
			<div class="match-header-link-name-elo">[1790]</div>
		</div>
	</a>
	<div class="match-header-vs">
		<div class="match-header-vs-score">2</div>
		<div class="match-header-vs-score">vs</div>
	</div>`

func TestTeamsNameCascadeAndScores(t *testing.T) {
	pair := testExtractor().Teams(makeDoc(t, teamsMarkup))

	if pair.Team1.Name != "Sentinels" {
		t.Fatalf("team1 name = %q", pair.Team1.Name)
	}
	// No dedicated name element: the first text node wins over the elo div.
	if pair.Team2.Name != "Fnatic" {
		t.Fatalf("team2 name = %q", pair.Team2.Name)
	}
	if pair.Team1.URL != "https://www.vlr.gg/team/2/sentinels" {
		t.Fatalf("team1 url = %q", pair.Team1.URL)
	}
	if pair.Team1.Score != 2 {
		t.Fatalf("team1 score = %d", pair.Team1.Score)
	}
	if pair.Team2.Score != 0 {
		t.Fatalf("non-numeric score should be 0, got %d", pair.Team2.Score)
	}
}

const mapsMarkup = `
	<div class="vm-stats-game">
		<div class="map"><span>Ascent PICK</span></div>
		<div class="map-duration">45:10</div>
		<div class="score">13</div>
		<div class="score">9</div>
		<span class="mod-both">9 / 4</span>
		<span class="mod-both">3 / 9</span>
		<div class="vlr-rounds">
			<div class="rnd mod-t"><span class="rnd-sq" style="background-image: url(/img/vlr/game/round/elim.webp)"></span></div>
			<div class="rnd mod-ct"><span class="rnd-sq" style="background-image: url(/img/vlr/game/round/defuse.webp)"></span></div>
		</div>
	</div>
	<div class="vm-stats-game"><div class="map"></div></div>
	<div class="vm-stats-game">
		<div class="map"><span>Bind</span> DECIDER</div>
	</div>`

func TestMapsFiltersPlaceholdersAndNumbersInOrder(t *testing.T) {
	maps := testExtractor().Maps(makeDoc(t, mapsMarkup))

	if len(maps) != 2 {
		t.Fatalf("expected 2 played maps, got %d", len(maps))
	}
	first, second := maps[0], maps[1]

	if first.MapOrder != 1 || second.MapOrder != 2 {
		t.Fatalf("map order not 1..N: %d, %d", first.MapOrder, second.MapOrder)
	}
	if first.MapName != "Ascent" {
		t.Fatalf("map name = %q, want PICK stripped", first.MapName)
	}
	if first.PickType != "PICK" {
		t.Fatalf("pick type = %q", first.PickType)
	}
	if first.Duration != 2710 {
		t.Fatalf("duration = %d", first.Duration)
	}
	if first.Team1Score != 13 || first.Team2Score != 9 {
		t.Fatalf("scores = %d/%d", first.Team1Score, first.Team2Score)
	}
	if first.Team1Half1 == nil || *first.Team1Half1 != 9 || *first.Team1Half2 != 4 {
		t.Fatalf("team1 halves wrong: %+v", first)
	}
	if second.MapName != "Bind" || second.PickType != "DECIDER" {
		t.Fatalf("second map = %q/%q", second.MapName, second.PickType)
	}
}

func TestMapsRoundClassification(t *testing.T) {
	maps := testExtractor().Maps(makeDoc(t, mapsMarkup))
	rounds := maps[0].Rounds
	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	if rounds[0].RoundNumber != 1 || rounds[0].Winner != domain.SideTeam1 || rounds[0].Method != domain.WinElimination {
		t.Fatalf("round 1 = %+v", rounds[0])
	}
	if rounds[1].Winner != domain.SideTeam2 || rounds[1].Method != domain.WinDefuse {
		t.Fatalf("round 2 = %+v", rounds[1])
	}
}

func statRowMarkup(ign string) string {
	return `<tr>
		<td class="mod-player"><a href="/player/123/` + strings.ToLower(ign) + `"><div class="text-of">` + ign + `</div></a></td>
		<td class="mod-agents"><img title="Jett" src="/img/agents/jett.png"></td>
		<td class="mod-stat">1.25</td>
		<td class="mod-stat">270</td>
		<td class="mod-stat">22</td>
		<td class="mod-stat">
/
14
/
		</td>
		<td class="mod-stat">4</td>
		<td class="mod-stat">+8</td>
		<td class="mod-stat">74%</td>
		<td class="mod-stat">160.5</td>
		<td class="mod-stat">28%</td>
		<td class="mod-stat">3</td>
		<td class="mod-stat">1</td>
	</tr>`
}

func statTableMarkup(igns ...string) string {
	var b strings.Builder
	b.WriteString("<table><tbody>")
	for _, ign := range igns {
		b.WriteString(statRowMarkup(ign))
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func TestStatsTableFullRow(t *testing.T) {
	stats := testExtractor().StatsTable(statTableMarkup("TenZ"), "Sentinels", "Ascent")
	if len(stats) != 1 {
		t.Fatalf("expected 1 record, got %d", len(stats))
	}
	rec := stats[0]

	if rec.PlayerIGN != "TenZ" || rec.TeamName != "Sentinels" || rec.MapName != "Ascent" {
		t.Fatalf("identity fields wrong: %+v", rec)
	}
	if rec.PlayerURL != "https://www.vlr.gg/player/123/tenz" {
		t.Fatalf("player url = %q", rec.PlayerURL)
	}
	if rec.Agent != "Jett" {
		t.Fatalf("agent = %q", rec.Agent)
	}
	if *rec.Rating != 1.25 || *rec.ACS != 270 || *rec.Kills != 22 || *rec.Deaths != 14 || *rec.Assists != 4 {
		t.Fatalf("core stats wrong: %+v", rec)
	}
	if *rec.PlusMinus != 8 || *rec.KASTPercent != 74 || *rec.ADR != 160.5 || *rec.HSPercent != 28 {
		t.Fatalf("derived stats wrong: %+v", rec)
	}
	if *rec.FirstKills != 3 || *rec.FirstDeaths != 1 {
		t.Fatalf("fk/fd wrong: %+v", rec)
	}
}

func TestStatsTableShortRowKeepsIdentityOnly(t *testing.T) {
	markup := `<table><tbody><tr>
		<td class="mod-player"><a href="/player/9/yay"><div class="text-of">yay</div></a></td>
		<td class="mod-stat">1.10</td>
	</tr></tbody></table>`

	stats := testExtractor().StatsTable(markup, "C9", "Bind")
	if len(stats) != 1 {
		t.Fatalf("expected 1 record, got %d", len(stats))
	}
	rec := stats[0]
	if rec.PlayerIGN != "yay" {
		t.Fatalf("ign = %q", rec.PlayerIGN)
	}
	if rec.Rating == nil || *rec.Rating != 1.10 {
		t.Fatalf("rating = %v", rec.Rating)
	}
	if rec.ACS != nil || rec.Kills != nil || rec.Deaths != nil {
		t.Fatalf("numeric fields should be nil on a short row: %+v", rec)
	}
}

func TestStatsTableSkipsRowsWithoutPlayer(t *testing.T) {
	markup := `<table><tbody>
		<tr><td class="mod-stat">1.00</td></tr>
		<tr><td class="mod-player"></td></tr>
	</tbody></table>`
	if stats := testExtractor().StatsTable(markup, "T", "M"); len(stats) != 0 {
		t.Fatalf("expected no records, got %d", len(stats))
	}
}
