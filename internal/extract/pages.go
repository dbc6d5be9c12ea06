package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/constants"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
)

var (
	prizePattern     = regexp.MustCompile(`[\d,]+`)
	eventDatePattern = regexp.MustCompile(`([A-Z][a-z]{2}\s+\d+)\s*-\s*([A-Z][a-z]{2}\s+\d+),?\s*(\d{4})`)
	teamHrefPattern  = regexp.MustCompile(`^/team/\d+`)
)

// TeamPage pulls region and logo from a team's own page.
func (e *Extractor) TeamPage(doc *goquery.Document) (region, logoURL string) {
	if elem := doc.Find("div.team-header-country").First(); elem.Length() > 0 {
		region = collapseSpaces(elem.Text())
	}
	if img := doc.Find("img.team-header-logo").First(); img.Length() > 0 {
		src, _ := img.Attr("src")
		logoURL = e.absoluteURL(src)
	}
	return region, logoURL
}

// TournamentPage pulls prize pool, running dates and the participating-team
// names from an event page. Every field is best-effort.
func (e *Extractor) TournamentPage(doc *goquery.Document) domain.TournamentDetail {
	var detail domain.TournamentDetail

	if elem := doc.Find("div.event-prize").First(); elem.Length() > 0 {
		text := strings.ReplaceAll(elem.Text(), "$", "")
		if m := prizePattern.FindString(text); m != "" {
			if v, err := strconv.ParseInt(strings.ReplaceAll(m, ",", ""), 10, 64); err == nil {
				detail.PrizePool = &v
			}
		}
	}

	if elem := doc.Find("div.event-dates").First(); elem.Length() > 0 {
		if m := eventDatePattern.FindStringSubmatch(elem.Text()); m != nil {
			if start, err := time.Parse("Jan 2 2006", m[1]+" "+m[3]); err == nil {
				if end, err := time.Parse("Jan 2 2006", m[2]+" "+m[3]); err == nil {
					detail.StartDate = &start
					detail.EndDate = &end
				}
			}
		}
	}

	seen := make(map[string]struct{})
	doc.Find("a[href]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		if !teamHrefPattern.MatchString(href) {
			return true
		}
		name := collapseSpaces(link.Find("div.text-of").First().Text())
		if name == "" {
			return true
		}
		if _, dup := seen[name]; dup {
			return true
		}
		seen[name] = struct{}{}
		detail.TeamNames = append(detail.TeamNames, name)
		return len(detail.TeamNames) < constants.MaxTournamentTeams
	})

	return detail
}

// PlayerPage pulls a player's region and, when the page lists the given team
// in the player's history, the join date for that team.
func (e *Extractor) PlayerPage(doc *goquery.Document, teamName string) (region string, joinDate *time.Time) {
	region = "Unknown"
	if flag := doc.Find("div.ge-flag").First(); flag.Length() > 0 {
		if text := collapseSpaces(flag.Text()); text != "" {
			region = text
		}
	}

	doc.Find("div.wf-card").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("a[href^='/team/']").First()
		if link.Length() == 0 {
			return true
		}
		name := collapseSpaces(link.Find("div.text-of").First().Text())
		if name != teamName {
			return true
		}
		if elem := card.Find("div.player-summary-join-date").First(); elem.Length() > 0 {
			if t, err := time.Parse("Jan 2, 2006", collapseSpaces(elem.Text())); err == nil {
				joinDate = &t
			}
		}
		return false
	})

	return region, joinDate
}
