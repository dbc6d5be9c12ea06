// Package extract turns raw match-page markup into structured records. All
// extractors are pure over the parsed document: no network access, no stored
// state. Field-level parse failures degrade to zero values or nil pointers,
// never to an aborted extraction.
package extract

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Extractor binds the site base URL (for absolutizing relative hrefs) and a
// logger for extraction warnings.
type Extractor struct {
	baseURL string
	logger  zerolog.Logger
}

func New(baseURL string, logger zerolog.Logger) *Extractor {
	return &Extractor{baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

func (e *Extractor) absoluteURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return e.baseURL + href
}

// collapseSpaces trims and collapses runs of whitespace to single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// firstLine returns the first non-empty trimmed line of a cell's text.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

func parseIntField(s string) *int {
	s = firstLine(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatField(s string) *float64 {
	s = firstLine(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseDuration converts an "M:SS" duration string to total seconds. Anything
// unparsable yields 0.
func ParseDuration(s string) int {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0
	}
	return minutes*60 + seconds
}

// titleCaseSlug turns a URL slug like "champions-tour-emea" into
// "Champions Tour Emea".
func titleCaseSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return collapseSpaces(strings.Join(words, " "))
}
