package quotes

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"market-calendar/internal/api"
	"market-calendar/internal/expiry"
)

// YahooSymbol maps one Yahoo Finance ticker to a sheet column.
type YahooSymbol struct {
	Symbol string
	Column string
}

// YahooSource pulls daily closes from the Yahoo Finance chart API. It records
// the most recent completed session, never today's still-moving value.
type YahooSource struct {
	client  *api.Client
	symbols []YahooSymbol
	now     func() time.Time
}

// NewYahooSource creates a Yahoo chart source for the given symbols.
func NewYahooSource(client *api.Client, symbols []YahooSymbol) *YahooSource {
	return &YahooSource{client: client, symbols: symbols, now: time.Now}
}

func (s *YahooSource) Name() string { return "yahoo" }

// chartResponse is the slice of the chart API payload we care about.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch downloads a short daily history per symbol and keeps the last close
// dated before today in IST.
func (s *YahooSource) Fetch(ctx context.Context) ([]Close, error) {
	today := expiry.DateOf(s.now().In(ist))
	var out []Close
	for _, sym := range s.symbols {
		u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=7d",
			url.PathEscape(sym.Symbol))
		resp, err := s.client.GETWithRetry(ctx, u, nil, api.YahooFinanceHeaders())
		if err != nil {
			return nil, fmt.Errorf("yahoo %s: %w", sym.Symbol, err)
		}
		var payload chartResponse
		if err := resp.ParseJSON(&payload); err != nil {
			return nil, fmt.Errorf("yahoo %s: %w", sym.Symbol, err)
		}
		c, err := latestCompletedClose(&payload, today)
		if err != nil {
			return nil, fmt.Errorf("yahoo %s: %w", sym.Symbol, err)
		}
		c.Column = sym.Column
		out = append(out, c)
	}
	return out, nil
}

// latestCompletedClose walks the daily bars backwards and returns the newest
// one dated strictly before today.
func latestCompletedClose(payload *chartResponse, today time.Time) (Close, error) {
	if payload.Chart.Error != nil {
		return Close{}, fmt.Errorf("chart API error %s: %s",
			payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return Close{}, fmt.Errorf("chart API returned no result")
	}
	r := payload.Chart.Result[0]
	closes := r.Indicators.Quote[0].Close
	for i := len(r.Timestamp) - 1; i >= 0; i-- {
		d := expiry.DateOf(time.Unix(r.Timestamp[i], 0).In(ist))
		if !d.Before(today) {
			continue
		}
		if i < len(closes) && closes[i] != nil {
			return Close{Date: d, Value: *closes[i]}, nil
		}
	}
	return Close{}, fmt.Errorf("no completed daily close before %s", today.Format("2006-01-02"))
}
