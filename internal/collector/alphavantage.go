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

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageProvider implements Provider using the FX_INTRADAY endpoint.
type AlphaVantageProvider struct {
	BaseURL  string
	APIKey   string
	Interval string
	Client   *http.Client
	Limiter  *rate.Limiter
}

// NewAlphaVantageProvider creates a provider limited to 5 calls per minute.
func NewAlphaVantageProvider(apiKey, proxyURL string) *AlphaVantageProvider {
	return &AlphaVantageProvider{
		BaseURL:  alphaVantageBaseURL,
		APIKey:   apiKey,
		Interval: "1min",
		Client:   newHTTPClient(proxyURL),
		Limiter:  rate.NewLimiter(rate.Every(time.Minute/5), 5),
	}
}

func (f *AlphaVantageProvider) Name() string { return "alphavantage" }

func (f *AlphaVantageProvider) FetchSeries(ctx context.Context, pair string) (model.Series, error) {
	base, quote, err := splitPair(pair)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("function", "FX_INTRADAY")
	q.Set("from_symbol", base)
	q.Set("to_symbol", quote)
	q.Set("interval", f.Interval)
	q.Set("apikey", f.APIKey)
	endpoint := fmt.Sprintf("%s/query?%s", f.BaseURL, q.Encode())

	var raw map[string]interface{}
	if err := getJSON(ctx, f.Client, f.Limiter, endpoint, &raw); err != nil {
		return nil, errors.Wrap(err, "alphavantage")
	}
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if msg, ok := raw[key].(string); ok {
			return nil, errors.Errorf("alphavantage: %s", msg)
		}
	}

	seriesKey := fmt.Sprintf("Time Series FX (%s)", f.Interval)
	entries, ok := raw[seriesKey].(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("alphavantage: missing %q", seriesKey)
	}

	bars := make(model.Series, 0, len(entries))
	for stamp, v := range entries {
		fields, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		ts, err := time.ParseInLocation("2006-01-02 15:04:05", stamp, time.UTC)
		if err != nil {
			return nil, errors.Wrapf(err, "alphavantage timestamp %q", stamp)
		}
		bar, err := parseOHLC(ts,
			stringField(fields, "1. open"), stringField(fields, "2. high"),
			stringField(fields, "3. low"), stringField(fields, "4. close"))
		if err != nil {
			return nil, errors.Wrap(err, "alphavantage")
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
