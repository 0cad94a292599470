package kucoin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dkoster/smartdca/internal/core"
)

const baseURL = "https://api.kucoin.com"

// KuCoin fetches daily candles from the KuCoin public REST API.
// No API key is needed for market data.
type KuCoin struct {
	client  *http.Client
	baseURL string
}

// New creates a new KuCoin provider
func New() *KuCoin {
	return &KuCoin{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

// NewWithBaseURL creates a KuCoin provider with custom base URL (for testing)
func NewWithBaseURL(url string) *KuCoin {
	k := New()
	k.baseURL = url
	return k
}

func (k *KuCoin) Name() string {
	return "kucoin"
}

// NormalizeSymbol converts common spellings to KuCoin pair format:
// BTC -> BTC-USDT, BTC/USDT -> BTC-USDT, ETH-USD -> ETH-USDT.
func NormalizeSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	sep := ""
	switch {
	case strings.Contains(symbol, "/"):
		sep = "/"
	case strings.Contains(symbol, "-"):
		sep = "-"
	}

	if sep != "" {
		parts := strings.SplitN(symbol, sep, 2)
		base, quote := parts[0], parts[1]
		if quote == "USD" {
			quote = "USDT"
		}
		return base + "-" + quote
	}

	// Bare base currency defaults to the USDT pair
	return symbol + "-USDT"
}

// FetchDaily fetches daily OHLCV bars, oldest first
func (k *KuCoin) FetchDaily(symbol string, start, end time.Time) ([]core.PriceBar, error) {
	pair := NormalizeSymbol(symbol)
	url := fmt.Sprintf("%s/api/v1/market/candles?type=1day&symbol=%s&startAt=%d&endAt=%d",
		k.baseURL, pair, start.Unix(), end.Unix())

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching candles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result candlesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Code != "200000" {
		return nil, fmt.Errorf("kucoin error: code %s: %s", result.Code, result.Msg)
	}

	// KuCoin returns [time, open, close, high, low, volume, turnover] as
	// strings, newest first
	bars := make([]core.PriceBar, 0, len(result.Data))
	for _, candle := range result.Data {
		if len(candle) < 6 {
			continue
		}
		ts, err := strconv.ParseInt(candle[0], 10, 64)
		if err != nil {
			continue
		}
		open, err1 := strconv.ParseFloat(candle[1], 64)
		closePrice, err2 := strconv.ParseFloat(candle[2], 64)
		high, err3 := strconv.ParseFloat(candle[3], 64)
		low, err4 := strconv.ParseFloat(candle[4], 64)
		volume, err5 := strconv.ParseFloat(candle[5], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		bars = append(bars, core.NewPriceBar(time.Unix(ts, 0).UTC(), open, high, low, closePrice, volume))
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	return bars, nil
}

// KuCoin API response types
type candlesResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}
