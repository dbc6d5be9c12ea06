package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	fxmodules "github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/fx"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/ingest"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/repository"
)

func main() {
	startPage, endPage, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n\n", err)
		usage()
		os.Exit(1)
	}

	fx.New(
		fxmodules.Module,
		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, ingestor *ingest.Ingestor, matches *repository.MatchRepository, db *sql.DB, logger zerolog.Logger) {
			runScraper(lc, shutdowner, ingestor, matches, db, logger, startPage, endPage)
		}),
	).Run()
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: scraper START_PAGE END_PAGE")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  scraper 1 1    # scrape results page 1")
	fmt.Fprintln(os.Stderr, "  scraper 1 3    # scrape results pages 1-3")
}

func parseArgs(args []string) (startPage, endPage int, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected exactly 2 arguments, got %d", len(args))
	}
	startPage, err = strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("page numbers must be integers")
	}
	endPage, err = strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("page numbers must be integers")
	}
	if startPage < 1 || startPage > endPage {
		return 0, 0, fmt.Errorf("START_PAGE must be >= 1 and <= END_PAGE")
	}
	return startPage, endPage, nil
}

func runScraper(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	ingestor *ingest.Ingestor,
	matches *repository.MatchRepository,
	db *sql.DB,
	logger zerolog.Logger,
	startPage, endPage int,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer shutdowner.Shutdown()

				ctx := context.Background()
				summary, err := ingestor.Run(ctx, startPage, endPage, ingest.PolicySkip)
				if err != nil {
					logger.Error().Err(err).Msg("scraping run aborted")
					return
				}

				fmt.Printf("\nRun summary\n")
				fmt.Printf("  pages scanned:   %d\n", summary.Pages)
				fmt.Printf("  matches found:   %d\n", summary.Matches)
				fmt.Printf("  inserted:        %d\n", summary.Inserted)
				fmt.Printf("  skipped:         %d\n", summary.Skipped)
				fmt.Printf("  errors:          %d\n", summary.Errors)

				totals, err := matches.StoreTotals(ctx)
				if err != nil {
					logger.Error().Err(err).Msg("could not read store totals")
					return
				}
				fmt.Printf("\nDatabase totals\n")
				fmt.Printf("  matches:           %d\n", totals.Matches)
				fmt.Printf("  teams:             %d\n", totals.Teams)
				fmt.Printf("  teams with region: %d\n", totals.TeamsWithRegion)
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			return nil
		},
	})
}
