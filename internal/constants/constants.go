package constants

import "time"

const (
	FetchTimeout   = 15 * time.Second
	RequestTimeout = 30 * time.Second

	// Politeness delays between external requests.
	RequestDelay   = 200 * time.Millisecond
	PageScanDelay  = 1 * time.Second
	MatchDelay     = 2 * time.Second
	ErrorRetryWait = 5 * time.Second
)

const (
	// Two-condition wait for stats-tab activation.
	TabWaitPollInterval = 100 * time.Millisecond
	TabWaitDeadline     = 10 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	// A stat row needs this many stat cells before numeric parsing is attempted.
	MinStatColumns = 11

	// Participating-teams list on a tournament page is capped at this.
	MaxTournamentTeams = 16
)

const (
	ShutdownTimeout = 5 * time.Second
)
