package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
)

// Maps extracts the per-map records, in order of play. Containers without a
// resolvable map-name element are placeholder slots for unplayed maps in a
// best-of series and are filtered out before numbering, so map_order is
// always 1..N with no gaps.
func (e *Extractor) Maps(doc *goquery.Document) []domain.MapRecord {
	var valid []*goquery.Selection
	doc.Find("div.vm-stats-game").Each(func(_ int, container *goquery.Selection) {
		nameElem := container.Find("div.map").First()
		if nameElem.Length() > 0 && nameElem.Find("span").Length() > 0 {
			valid = append(valid, container)
		}
	})

	records := make([]domain.MapRecord, 0, len(valid))
	for idx, container := range valid {
		rec := domain.MapRecord{MapOrder: idx + 1}

		nameElem := container.Find("div.map").First()
		raw := nameElem.Find("span").First().Text()
		rec.MapName = cleanMapName(raw)

		full := nameElem.Text()
		switch {
		case strings.Contains(full, "PICK"):
			rec.PickType = "PICK"
		case strings.Contains(full, "DECIDER"):
			rec.PickType = "DECIDER"
		}

		if dur := container.Find("div.map-duration").First(); dur.Length() > 0 {
			rec.Duration = ParseDuration(dur.Text())
		}

		scores := container.Find("div.score")
		if scores.Length() >= 2 {
			rec.Team1Score = scoreOrZero(scores.Eq(0).Text())
			rec.Team2Score = scoreOrZero(scores.Eq(1).Text())
		}

		halves := container.Find("span.mod-both")
		if halves.Length() >= 2 {
			rec.Team1Half1, rec.Team1Half2 = parseHalves(halves.Eq(0).Text())
			rec.Team2Half1, rec.Team2Half2 = parseHalves(halves.Eq(1).Text())
		}

		rec.Rounds = extractRounds(container)
		records = append(records, rec)
	}

	return records
}

func cleanMapName(raw string) string {
	name := collapseSpaces(raw)
	name = strings.ReplaceAll(name, "PICK", "")
	name = strings.ReplaceAll(name, "DECIDER", "")
	return strings.TrimSpace(name)
}

func parseHalves(text string) (*int, *int) {
	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 2 {
		return nil, nil
	}
	first, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	second, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &first, &second
}

// extractRounds classifies each round's winner by its side marker and, when
// present, the win method from the marker's style attribute.
func extractRounds(container *goquery.Selection) []domain.RoundResult {
	roundsBlock := container.Find("div.vlr-rounds").First()
	if roundsBlock.Length() == 0 {
		return nil
	}

	var rounds []domain.RoundResult
	roundsBlock.Find("div.rnd").Each(func(i int, elem *goquery.Selection) {
		round := domain.RoundResult{RoundNumber: i + 1}

		switch {
		case elem.HasClass("mod-t"):
			round.Winner = domain.SideTeam1
		case elem.HasClass("mod-ct"):
			round.Winner = domain.SideTeam2
		}

		if sq := elem.Find("span.rnd-sq").First(); sq.Length() > 0 {
			style, _ := sq.Attr("style")
			round.Method = winMethod(style)
		}

		rounds = append(rounds, round)
	})
	return rounds
}

func winMethod(style string) domain.WinMethod {
	switch {
	case strings.Contains(style, "elim"):
		return domain.WinElimination
	case strings.Contains(style, "defuse"):
		return domain.WinDefuse
	case strings.Contains(style, "boom"):
		return domain.WinDetonation
	case strings.Contains(style, "time"):
		return domain.WinTimeExpiry
	}
	return domain.WinUnknown
}
