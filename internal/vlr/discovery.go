package vlr

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// Match links on a results listing look like /123456/team-a-vs-team-b/...
var matchHrefPattern = regexp.MustCompile(`^/\d+.*vs.*`)

// Discovery scrapes results-listing pages for candidate match URLs.
type Discovery struct {
	client *Client
	logger zerolog.Logger
}

func NewDiscovery(client *Client, logger zerolog.Logger) *Discovery {
	return &Discovery{client: client, logger: logger}
}

// ListMatchURLs returns the deduplicated match URLs found on one results page.
// A fetch or parse failure yields an empty list, never an error: a bad listing
// page must not abort a multi-page run.
func (d *Discovery) ListMatchURLs(ctx context.Context, pageNumber int) []string {
	url := fmt.Sprintf("%s/matches/results?page=%d", d.client.BaseURL(), pageNumber)

	markup, err := d.client.FetchPage(ctx, url)
	if err != nil {
		d.logger.Warn().Err(err).Int("page", pageNumber).Msg("failed to fetch results page")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		d.logger.Warn().Err(err).Int("page", pageNumber).Msg("failed to parse results page")
		return nil
	}

	seen := make(map[string]struct{})
	var urls []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !matchHrefPattern.MatchString(href) {
			return
		}
		full := d.client.BaseURL() + href
		if _, dup := seen[full]; dup {
			return
		}
		seen[full] = struct{}{}
		urls = append(urls, full)
	})

	d.logger.Debug().Int("page", pageNumber).Int("count", len(urls)).Msg("match links discovered")
	return urls
}
