package vlr

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page adapts one fetched match page to the stats-page collaborator the
// extraction state machine drives. Multi-map pages ship every map's stat
// tables in the markup, keyed by game id; selecting a tab here just moves the
// cursor, so the two-condition wait resolves on the first poll. A live
// browser-backed collaborator satisfies the same interface with real latency.
type Page struct {
	doc      *goquery.Document
	selected *goquery.Selection // nav item for the currently selected map tab
}

func NewPage(markup string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse match page: %w", err)
	}
	return &Page{doc: doc}, nil
}

// Document exposes the parsed page for the pure extractors.
func (p *Page) Document() *goquery.Document { return p.doc }

func (p *Page) HasMapNav() bool {
	return p.doc.Find("div.vm-stats-gamesnav").Length() > 0
}

// SelectMapTab moves to the nav tab at index (1-based; tab 0 is the "All
// Maps" summary and is never selected).
func (p *Page) SelectMapTab(_ context.Context, index int) error {
	tabs := p.doc.Find("div.vm-stats-gamesnav-item")
	if index < 0 || index >= tabs.Length() {
		return fmt.Errorf("map tab index %d out of range (%d tabs)", index, tabs.Length())
	}
	p.selected = tabs.Eq(index)
	return nil
}

// ActiveTabName returns the visible text of the selected tab.
func (p *Page) ActiveTabName(_ context.Context) (string, error) {
	if p.selected == nil {
		return "", fmt.Errorf("no map tab selected")
	}
	return strings.Join(strings.Fields(p.selected.Text()), " "), nil
}

// VisibleStatTables returns the outer HTML of the stat tables for the
// selected map, or of every stat table on the page when there is no map nav.
func (p *Page) VisibleStatTables(_ context.Context) ([]string, error) {
	scope := p.doc.Selection
	if p.HasMapNav() {
		if p.selected == nil {
			return nil, fmt.Errorf("no map tab selected")
		}
		gameID, ok := p.selected.Attr("data-game-id")
		if !ok {
			return nil, fmt.Errorf("selected tab has no game id")
		}
		container := p.doc.Find(fmt.Sprintf("div.vm-stats-game[data-game-id=%q]", gameID))
		if container.Length() == 0 {
			return nil, fmt.Errorf("no stats container for game %s", gameID)
		}
		scope = container
	}

	var tables []string
	var htmlErr error
	scope.Find("table.wf-table-inset").Each(func(_ int, s *goquery.Selection) {
		outer, err := goquery.OuterHtml(s)
		if err != nil {
			htmlErr = err
			return
		}
		tables = append(tables, outer)
	})
	if htmlErr != nil {
		return nil, fmt.Errorf("render stat table: %w", htmlErr)
	}
	return tables, nil
}
