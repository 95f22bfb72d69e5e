package quotes

import (
	"context"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"market-calendar/internal/expiry"
)

// KiteSource reads index quotes from the Zerodha Kite API. It is optional and
// only wired when API credentials are configured. The quote's ohlc.close is
// the previous session's close, so values are recorded against the prior
// calendar day.
type KiteSource struct {
	kc      *kiteconnect.Client
	symbols map[string]string // "NSE:NIFTY 50" -> sheet column
	now     func() time.Time
}

// NewKiteSource creates a Kite quote source from API credentials.
func NewKiteSource(apiKey, accessToken string, symbols map[string]string) *KiteSource {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &KiteSource{kc: kc, symbols: symbols, now: time.Now}
}

func (s *KiteSource) Name() string { return "kite" }

// Fetch pulls quotes for all configured instruments in one call. The Kite
// client manages its own request timeout, so ctx is not threaded through.
func (s *KiteSource) Fetch(_ context.Context) ([]Close, error) {
	if len(s.symbols) == 0 {
		return nil, nil
	}
	instruments := make([]string, 0, len(s.symbols))
	for sym := range s.symbols {
		instruments = append(instruments, sym)
	}

	quotes, err := s.kc.GetQuote(instruments...)
	if err != nil {
		return nil, fmt.Errorf("kite quote: %w", err)
	}

	prev := expiry.DateOf(s.now().In(ist).AddDate(0, 0, -1))
	var out []Close
	for sym, column := range s.symbols {
		q, ok := quotes[sym]
		if !ok {
			return nil, fmt.Errorf("kite quote: no data for %s", sym)
		}
		if q.OHLC.Close == 0 {
			return nil, fmt.Errorf("kite quote: empty previous close for %s", sym)
		}
		out = append(out, Close{Column: column, Date: prev, Value: q.OHLC.Close})
	}
	return out, nil
}
