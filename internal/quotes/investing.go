package quotes

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"market-calendar/internal/api"
	"market-calendar/internal/expiry"
)

// InvestingPage maps one investing.com historical-data page to a sheet column.
type InvestingPage struct {
	URL    string
	Column string
}

// InvestingSource scrapes daily closes from investing.com historical-data
// tables. The site has no API for these series so we read the rendered table.
type InvestingSource struct {
	pages   []InvestingPage
	timeout time.Duration
	now     func() time.Time
}

// NewInvestingSource creates a scraper over the given pages.
func NewInvestingSource(pages []InvestingPage, timeout time.Duration) *InvestingSource {
	return &InvestingSource{pages: pages, timeout: timeout, now: time.Now}
}

func (s *InvestingSource) Name() string { return "investing" }

// historicalRow is one parsed row of the historical-data table.
type historicalRow struct {
	date  time.Time
	close float64
}

// Fetch visits each page and keeps the newest table row dated before today.
func (s *InvestingSource) Fetch(ctx context.Context) ([]Close, error) {
	today := expiry.DateOf(s.now().In(ist))
	var out []Close
	for _, page := range s.pages {
		row, err := s.scrapePage(ctx, page.URL, today)
		if err != nil {
			return nil, fmt.Errorf("investing %s: %w", page.URL, err)
		}
		out = append(out, Close{Column: page.Column, Date: row.date, Value: row.close})
	}
	return out, nil
}

func (s *InvestingSource) scrapePage(ctx context.Context, pageURL string, today time.Time) (historicalRow, error) {
	c := colly.NewCollector()
	c.SetRequestTimeout(s.timeout)

	var rows []historicalRow
	var scrapeErr error

	c.OnRequest(func(r *colly.Request) {
		for key, value := range api.BrowserHeaders() {
			r.Headers.Set(key, value)
		}
		select {
		case <-ctx.Done():
			r.Abort()
		default:
		}
	})

	c.OnHTML("table tbody tr", func(e *colly.HTMLElement) {
		if row, ok := parseHistoricalRow(e.DOM); ok {
			rows = append(rows, row)
		}
	})

	c.OnError(func(_ *colly.Response, err error) {
		scrapeErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return historicalRow{}, err
	}
	c.Wait()
	if scrapeErr != nil {
		return historicalRow{}, scrapeErr
	}
	return newestBefore(rows, today)
}

// parseHistoricalRow reads the date and close cells of one table row. Rows
// that do not look like "Aug 28, 2025" followed by a price are skipped.
func parseHistoricalRow(row *goquery.Selection) (historicalRow, bool) {
	cells := row.Find("td")
	if cells.Length() < 2 {
		return historicalRow{}, false
	}
	dateText := strings.TrimSpace(cells.Eq(0).Text())
	d, err := time.Parse("Jan 02, 2006", dateText)
	if err != nil {
		return historicalRow{}, false
	}
	priceText := strings.ReplaceAll(strings.TrimSpace(cells.Eq(1).Text()), ",", "")
	v, err := strconv.ParseFloat(priceText, 64)
	if err != nil {
		return historicalRow{}, false
	}
	return historicalRow{date: expiry.DateOf(d), close: v}, true
}

// newestBefore picks the most recent completed session from the parsed rows.
func newestBefore(rows []historicalRow, today time.Time) (historicalRow, error) {
	var best historicalRow
	found := false
	for _, r := range rows {
		if !r.date.Before(today) {
			continue
		}
		if !found || r.date.After(best.date) {
			best = r
			found = true
		}
	}
	if !found {
		return historicalRow{}, fmt.Errorf("no completed session row before %s", today.Format("2006-01-02"))
	}
	return best, nil
}
