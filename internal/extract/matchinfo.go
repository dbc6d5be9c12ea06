package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
)

var patchPattern = regexp.MustCompile(`Patch\s+([\d.]+)`)

// MatchInfo extracts match-level metadata from the page header. The
// tournament name falls through a cascade: styled label on the event link,
// then the link's full text with any ":subtitle" stripped, then a title-cased
// slug from the event URL. An empty result is left for the caller to default.
func (e *Extractor) MatchInfo(doc *goquery.Document) domain.MatchInfo {
	var info domain.MatchInfo

	link := doc.Find("a.match-header-event").First()
	if link.Length() > 0 {
		href, _ := link.Attr("href")
		if href != "" && strings.Contains(href, "/event/") {
			info.TournamentURL = e.absoluteURL(href)
			info.TournamentName = tournamentName(link, href)
		}

		stage := link.Find("div.match-header-event-series").First()
		if stage.Length() > 0 {
			info.MatchStage = collapseSpaces(stage.Text())
		}
	}
	if info.TournamentName == "" {
		e.logger.Warn().Msg("no tournament information found on page")
	}

	info.MatchDate = matchDate(doc, time.Now())

	if header := doc.Find("div.match-header-date").First(); header.Length() > 0 {
		if m := patchPattern.FindStringSubmatch(header.Text()); m != nil {
			info.PatchVersion = m[1]
		}
	}

	return info
}

func tournamentName(link *goquery.Selection, href string) string {
	// Styled inline label first.
	var name string
	link.Find("div[style]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		style, _ := s.Attr("style")
		if strings.Contains(style, "font-weight: 700") {
			name = collapseSpaces(s.Text())
			return false
		}
		return true
	})
	if name != "" {
		return name
	}

	// Full link text, with any trailing ":subtitle" stripped.
	name = collapseSpaces(link.Text())
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = strings.TrimSpace(name[:idx])
	}
	if len(name) >= 3 {
		return name
	}

	// Title-cased slug from the event URL path.
	parts := strings.Split(strings.Trim(href, "/"), "/")
	if len(parts) >= 3 {
		return titleCaseSlug(parts[2])
	}
	return name
}

// matchDate prefers the machine-readable epoch-millisecond timestamp over the
// human-readable text. Day/month-only text gets the current year injected.
// Nothing parsable yields the zero time; the caller substitutes "now".
func matchDate(doc *goquery.Document, now time.Time) time.Time {
	elem := doc.Find("div.moment-tz-convert").First()
	if elem.Length() == 0 {
		return time.Time{}
	}

	if ts, ok := elem.Attr("data-utc-ts"); ok {
		if ms, err := strconv.ParseInt(strings.TrimSpace(ts), 10, 64); err == nil {
			return time.UnixMilli(ms)
		}
	}

	// Text fallback like "Thursday, November 13" with no year.
	text := collapseSpaces(elem.Text())
	if text == "" {
		return time.Time{}
	}
	parts := strings.SplitN(text, ",", 2)
	if len(parts) == 2 {
		withYear := strings.TrimSpace(parts[1]) + ", " + strconv.Itoa(now.Year())
		if t, err := time.Parse("January 2, 2006", withYear); err == nil {
			return t
		}
	}
	if t, err := time.Parse("January 2, 2006", text); err == nil {
		return t
	}
	return time.Time{}
}
