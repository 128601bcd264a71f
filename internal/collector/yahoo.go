package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"FxSentinel/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooProvider implements Provider using the Yahoo Finance chart API.
type YahooProvider struct {
	BaseURL  string
	Interval string
	Range    string
	Client   *http.Client
	Limiter  *rate.Limiter
}

// NewYahooProvider creates a Yahoo Finance provider for one-minute FX bars.
func NewYahooProvider(proxyURL string) *YahooProvider {
	return &YahooProvider{
		BaseURL:  yahooBaseURL,
		Interval: "1m",
		Range:    "1d",
		Client:   newHTTPClient(proxyURL),
		Limiter:  rate.NewLimiter(rate.Limit(2), 4),
	}
}

func (f *YahooProvider) Name() string { return "yahoo" }

// yahooSymbol maps "EUR/USD" to the Yahoo FX ticker "EURUSD=X".
func yahooSymbol(pair string) (string, error) {
	base, quote, err := splitPair(pair)
	if err != nil {
		return "", err
	}
	return base + quote + "=X", nil
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(values []interface{}, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return toFloat(values[i])
}

func (f *YahooProvider) FetchSeries(ctx context.Context, pair string) (model.Series, error) {
	symbol, err := yahooSymbol(pair)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(symbol), f.Interval, f.Range)

	var chart yahooChart
	if err := getJSON(ctx, f.Client, f.Limiter, endpoint, &chart); err != nil {
		return nil, errors.Wrap(err, "yahoo")
	}
	if chart.Chart.Error != nil {
		return nil, errors.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errors.New("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make(model.Series, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bars
		}
		bars = append(bars, model.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
