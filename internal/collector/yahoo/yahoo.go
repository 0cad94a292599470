package yahoo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/dkoster/smartdca/internal/core"
)

const baseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validSymbol matches stock/ETF symbols like AAPL, GLD, 0700.HK
var validSymbol = regexp.MustCompile(`^[A-Za-z0-9]{1,10}(\.[A-Za-z]{1,4})?$`)

// validateSymbol checks if a symbol has valid format
func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo fetches daily bars from the Yahoo Finance chart API
type Yahoo struct {
	client  *http.Client
	baseURL string
}

// New creates a new Yahoo provider
func New() *Yahoo {
	return &Yahoo{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// NewWithBaseURL creates a Yahoo provider with custom base URL (for testing)
func NewWithBaseURL(url string) *Yahoo {
	y := New()
	y.baseURL = url
	return y
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// FetchDaily fetches daily OHLCV bars, oldest first
func (y *Yahoo) FetchDaily(symbol string, start, end time.Time) ([]core.PriceBar, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?interval=1d&period1=%d&period2=%d",
		y.baseURL, symbol, start.Unix(), end.Unix())

	resp, err := y.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description)
	}

	if len(result.Chart.Result) == 0 {
		return nil, fmt.Errorf("no data for symbol: %s", symbol)
	}

	r := result.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no quote data for symbol: %s", symbol)
	}
	quotes := r.Indicators.Quote[0]

	bars := make([]core.PriceBar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quotes.Close) || quotes.Close[i] == nil || quotes.Open[i] == nil {
			continue // Skip missing data
		}
		volume := 0.0
		if quotes.Volume[i] != nil {
			volume = *quotes.Volume[i]
		}
		bars = append(bars, core.NewPriceBar(
			time.Unix(int64(ts), 0).UTC(),
			*quotes.Open[i],
			*quotes.High[i],
			*quotes.Low[i],
			*quotes.Close[i],
			volume,
		))
	}

	return bars, nil
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}
