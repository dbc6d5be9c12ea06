package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/domain"
)

// Teams extracts both team identities and the declared final scores. The
// display name must be isolated from co-located region text: a dedicated name
// sub-element wins, then the first text node before any child markup, then the
// text truncated at the first line break. Non-numeric score text counts as 0.
func (e *Extractor) Teams(doc *goquery.Document) domain.TeamPair {
	var pair domain.TeamPair

	elements := doc.Find("div.match-header-link-name")
	for i := 0; i < elements.Length() && i < 2; i++ {
		elem := elements.Eq(i)
		info := domain.TeamInfo{Name: teamName(elem)}

		if link := elem.ParentsFiltered("a").First(); link.Length() > 0 {
			if href, ok := link.Attr("href"); ok {
				info.URL = e.absoluteURL(href)
			}
		}

		if i == 0 {
			pair.Team1 = info
		} else {
			pair.Team2 = info
		}
	}

	if container := doc.Find("div.match-header-vs").First(); container.Length() > 0 {
		scores := container.Find("div.match-header-vs-score")
		if scores.Length() >= 2 {
			pair.Team1.Score = scoreOrZero(scores.Eq(0).Text())
			pair.Team2.Score = scoreOrZero(scores.Eq(1).Text())
		}
	}

	return pair
}

func teamName(elem *goquery.Selection) string {
	if title := elem.Find("div.wf-title-med").First(); title.Length() > 0 {
		return strings.TrimSpace(title.Text())
	}

	// First text node before any child markup, so region text in child divs
	// is not picked up.
	var first string
	for _, node := range elem.Nodes {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.TextNode {
				if text := strings.TrimSpace(child.Data); text != "" {
					first = text
					break
				}
			}
		}
		if first != "" {
			break
		}
	}
	if first != "" {
		return first
	}

	return firstLine(elem.Text())
}

func scoreOrZero(text string) int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0
	}
	return v
}
