package domain

import (
	"time"
)

// TeamSide marks which side of the scoreboard a record belongs to.
type TeamSide int

const (
	SideTeam1 TeamSide = 1
	SideTeam2 TeamSide = 2
)

// WinMethod is how a round ended, inferred from the round marker style.
type WinMethod string

const (
	WinElimination WinMethod = "elimination"
	WinDefuse      WinMethod = "defuse"
	WinDetonation  WinMethod = "boom"
	WinTimeExpiry  WinMethod = "time"
	WinUnknown     WinMethod = ""
)

// MatchInfo is the match-level metadata pulled from a match page header.
type MatchInfo struct {
	TournamentName string
	TournamentURL  string
	MatchStage     string
	MatchDate      time.Time // zero when nothing on the page parsed
	PatchVersion   string
}

// TeamInfo is one side of the match header, before entity resolution.
type TeamInfo struct {
	Name    string
	URL     string
	Score   int
	Region  string
	LogoURL string
}

// TeamPair holds both sides in page order.
type TeamPair struct {
	Team1 TeamInfo
	Team2 TeamInfo
}

// RoundResult is one round inside a played map.
type RoundResult struct {
	RoundNumber int
	Winner      TeamSide
	Method      WinMethod
}

// MapRecord is one played map with its round-by-round outcome.
type MapRecord struct {
	MapOrder   int
	MapName    string
	PickType   string // "PICK", "DECIDER" or ""
	Team1Score int
	Team2Score int
	Duration   int // seconds
	Team1Half1 *int
	Team1Half2 *int
	Team2Half1 *int
	Team2Half2 *int
	Rounds     []RoundResult
}

// PlayerStatRecord is one row of a per-map stat table. Numeric fields are
// pointers: a field the page did not carry, or that failed to parse, stays nil.
type PlayerStatRecord struct {
	TeamName    string
	PlayerIGN   string
	PlayerURL   string
	MapName     string
	Agent       string
	Rating      *float64
	ACS         *int
	Kills       *int
	Deaths      *int
	Assists     *int
	PlusMinus   *int
	KASTPercent *float64
	ADR         *float64
	HSPercent   *float64
	FirstKills  *int
	FirstDeaths *int

	// Filled by the player-page sub-fetch.
	Region       string
	TeamJoinDate *time.Time
}

// OverallMapName is the synthetic map name carried by aggregated records.
const OverallMapName = "Overall"

// TournamentDetail is the extra data scraped from a tournament page.
type TournamentDetail struct {
	PrizePool *int64
	StartDate *time.Time
	EndDate   *time.Time
	TeamNames []string
}

// MatchGraph is everything persisted for one match, assembled after entity
// resolution and handed to the repository as a single transactional unit.
type MatchGraph struct {
	TournamentID int64
	Team1ID      int64
	Team2ID      int64
	MatchDate    time.Time
	Mode         string
	Maps         []MapGraph
}

// MapGraph is one map's slice of the match graph.
type MapGraph struct {
	MapID      int64
	MapOrder   int
	Team1Score int
	Team2Score int
	Duration   int
	Rounds     []RoundResult
	Players    []PlayerRow
}

// PlayerRow is one resolved per-player per-map stat row.
type PlayerRow struct {
	PlayerID    int64
	AgentID     *int64 // nil when the agent could not be resolved
	Kills       int
	Deaths      int
	Assists     int
	Score       int
	ACS         float64
	ADR         float64
	KAST        float64
	HSPercent   float64
	FirstKills  int
	FirstDeaths int
	Rating      float64
}
