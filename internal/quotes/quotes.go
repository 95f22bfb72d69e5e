package quotes

import (
	"context"
	"time"

	"market-calendar/internal/dataset"
	"market-calendar/internal/logger"
)

// Close is one fetched closing value destined for a sheet column.
type Close struct {
	Column string
	Date   time.Time
	Value  float64
}

// Source fetches closing values from one upstream provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Close, error)
}

// ist is the exchange timezone; "yesterday's close" is relative to it.
var ist = time.FixedZone("IST", 19800)

// Service runs every configured source and writes the results into the
// calendar sheet. Sources are best effort: a failed provider is logged and
// skipped so one flaky site never blocks the expiry run.
type Service struct {
	sources []Source
}

// NewService creates a quote service over the given sources.
func NewService(sources ...Source) *Service {
	return &Service{sources: sources}
}

// Apply fetches all sources and updates the sheet in place. It returns the
// number of cells written.
func (s *Service) Apply(ctx context.Context, t *dataset.Table) int {
	written := 0
	for _, src := range s.sources {
		op := logger.StartOperation(ctx, "quotes.fetch", "source", src.Name())
		closes, err := src.Fetch(op.GetContext())
		if err != nil {
			op.EndWithError(err)
			logger.Warn(ctx, "Quote source failed, skipping", "source", src.Name(), "error", err)
			continue
		}
		op.End()
		for _, c := range closes {
			t.SetClose(c.Date, c.Column, c.Value)
			written++
			logger.Info(ctx, "Close price updated",
				"source", src.Name(),
				"column", c.Column,
				"date", c.Date.Format("2006-01-02"),
				"close", c.Value)
		}
	}
	return written
}
