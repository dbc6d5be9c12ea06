package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/constants"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
)

// StatsPage is the page collaborator the layout state machine drives. Tab
// activation and table visibility update asynchronously and independently on
// the live page, so each is observed separately.
type StatsPage interface {
	HasMapNav() bool
	SelectMapTab(ctx context.Context, index int) error
	ActiveTabName(ctx context.Context) (string, error)
	VisibleStatTables(ctx context.Context) ([]string, error)
}

// CollectPlayerStats reads the per-map stat tables for every played map.
// Single-map pages have no map nav and both tables are read directly.
// Multi-map pages require selecting each map's tab and then waiting until the
// tab bearing that map's name is active AND two stat tables are visible;
// reading on just one condition yields stale rows from the previous tab.
func (e *Extractor) CollectPlayerStats(ctx context.Context, page StatsPage, team1, team2 string, maps []domain.MapRecord) []domain.PlayerStatRecord {
	if !page.HasMapNav() {
		return e.collectSingleMap(ctx, page, team1, team2, maps)
	}
	return e.collectMultiMap(ctx, page, team1, team2, maps)
}

func (e *Extractor) collectSingleMap(ctx context.Context, page StatsPage, team1, team2 string, maps []domain.MapRecord) []domain.PlayerStatRecord {
	if len(maps) != 1 {
		e.logger.Warn().Int("maps", len(maps)).Msg("expected exactly one map on a single-map page")
	}
	mapName := "Unknown"
	if len(maps) > 0 {
		mapName = maps[0].MapName
	}

	tables, err := page.VisibleStatTables(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("failed to read stat tables")
		return nil
	}
	if len(tables) < 2 {
		e.logger.Warn().Int("tables", len(tables)).Msg("expected two visible stat tables")
		return nil
	}

	stats := e.StatsTable(tables[0], team1, mapName)
	stats = append(stats, e.StatsTable(tables[1], team2, mapName)...)
	return stats
}

func (e *Extractor) collectMultiMap(ctx context.Context, page StatsPage, team1, team2 string, maps []domain.MapRecord) []domain.PlayerStatRecord {
	var all []domain.PlayerStatRecord

	for i, m := range maps {
		// Tab 0 is the all-maps summary; map tabs start at 1.
		tabIndex := i + 1

		if err := page.SelectMapTab(ctx, tabIndex); err != nil {
			e.logger.Error().Err(err).Str("map", m.MapName).Msg("failed to select map tab")
			continue
		}

		tables, err := waitForMapTables(ctx, page, m.MapName)
		if err != nil {
			e.logger.Error().Err(err).Str("map", m.MapName).Msg("map tab never became readable")
			continue
		}

		all = append(all, e.StatsTable(tables[0], team1, m.MapName)...)
		all = append(all, e.StatsTable(tables[1], team2, m.MapName)...)
	}

	return all
}

// waitForMapTables polls until the active tab carries the map's name and at
// least two stat tables are visible, under a bounded deadline.
func waitForMapTables(ctx context.Context, page StatsPage, mapName string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.TabWaitDeadline)
	defer cancel()

	ticker := time.NewTicker(constants.TabWaitPollInterval)
	defer ticker.Stop()

	want := strings.ToLower(mapName)
	for {
		active, err := page.ActiveTabName(ctx)
		if err == nil && strings.Contains(strings.ToLower(active), want) {
			tables, err := page.VisibleStatTables(ctx)
			if err == nil && len(tables) >= 2 {
				return tables, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %q stat tables: %w", mapName, ctx.Err())
		case <-ticker.C:
		}
	}
}

// StatsTable parses one team's stat table. Rows without a resolvable player
// name are skipped; rows with fewer stat cells than the structured layout
// carries keep their identity fields and leave every numeric field nil.
func (e *Extractor) StatsTable(tableHTML, teamName, mapName string) []domain.PlayerStatRecord {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		e.logger.Warn().Err(err).Str("team", teamName).Msg("failed to parse stat table")
		return nil
	}

	tbody := doc.Find("table tbody").First()
	if tbody.Length() == 0 {
		return nil
	}

	var stats []domain.PlayerStatRecord
	tbody.Find("tr").Each(func(_ int, row *goquery.Selection) {
		record, ok := e.statRow(row, teamName, mapName)
		if ok {
			stats = append(stats, record)
		}
	})
	return stats
}

func (e *Extractor) statRow(row *goquery.Selection, teamName, mapName string) (domain.PlayerStatRecord, bool) {
	record := domain.PlayerStatRecord{TeamName: teamName, MapName: mapName}

	playerCell := row.Find("td.mod-player").First()
	if playerCell.Length() == 0 {
		return record, false
	}
	link := playerCell.Find("a").First()
	if link.Length() == 0 {
		return record, false
	}

	if nameDiv := link.Find("div.text-of").First(); nameDiv.Length() > 0 {
		record.PlayerIGN = strings.TrimSpace(nameDiv.Text())
	} else {
		record.PlayerIGN = firstLine(link.Text())
	}
	if record.PlayerIGN == "" {
		return record, false
	}
	if href, ok := link.Attr("href"); ok {
		record.PlayerURL = e.absoluteURL(href)
	}

	if agentCell := row.Find("td.mod-agents").First(); agentCell.Length() > 0 {
		if img := agentCell.Find("img").First(); img.Length() > 0 {
			title, _ := img.Attr("title")
			record.Agent = strings.TrimSpace(title)
		}
	}

	cells := row.Find("td.mod-stat")
	if cells.Length() > 0 {
		record.Rating = parseFloatField(cells.Eq(0).Text())
	}

	if cells.Length() >= constants.MinStatColumns {
		record.ACS = parseIntField(cells.Eq(1).Text())
		record.Kills = parseIntField(cells.Eq(2).Text())
		record.Deaths = parseDeaths(cells.Eq(3).Text())
		record.Assists = parseIntField(cells.Eq(4).Text())
		record.PlusMinus = parseIntField(strings.ReplaceAll(cells.Eq(5).Text(), "+", ""))
		record.KASTPercent = parseFloatField(strings.ReplaceAll(cells.Eq(6).Text(), "%", ""))
		record.ADR = parseFloatField(cells.Eq(7).Text())
		record.HSPercent = parseFloatField(strings.ReplaceAll(cells.Eq(8).Text(), "%", ""))
		record.FirstKills = parseIntField(cells.Eq(9).Text())
		record.FirstDeaths = parseIntField(cells.Eq(10).Text())
	}

	return record, true
}

// parseDeaths skips the "/" separators the deaths cell is wrapped in.
func parseDeaths(text string) *int {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "/" {
			continue
		}
		return parseIntField(line)
	}
	return nil
}
