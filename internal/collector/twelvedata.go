package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"FxSentinel/internal/model"
)

const twelveDataBaseURL = "https://api.twelvedata.com"

// TwelveDataProvider implements Provider using the Twelve Data time_series API.
type TwelveDataProvider struct {
	BaseURL    string
	APIKey     string
	Interval   string
	OutputSize int
	Client     *http.Client
	Limiter    *rate.Limiter
}

// NewTwelveDataProvider creates a provider limited to the free plan's 8 calls per minute.
func NewTwelveDataProvider(apiKey string, outputSize int, proxyURL string) *TwelveDataProvider {
	return &TwelveDataProvider{
		BaseURL:    twelveDataBaseURL,
		APIKey:     apiKey,
		Interval:   "1min",
		OutputSize: outputSize,
		Client:     newHTTPClient(proxyURL),
		Limiter:    rate.NewLimiter(rate.Every(time.Minute/8), 8),
	}
}

func (f *TwelveDataProvider) Name() string { return "twelvedata" }

type twelveDataResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
	} `json:"values"`
}

func (f *TwelveDataProvider) FetchSeries(ctx context.Context, pair string) (model.Series, error) {
	base, quote, err := splitPair(pair)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("symbol", base+"/"+quote)
	q.Set("interval", f.Interval)
	q.Set("outputsize", strconv.Itoa(f.OutputSize))
	q.Set("timezone", "UTC")
	q.Set("apikey", f.APIKey)
	endpoint := fmt.Sprintf("%s/time_series?%s", f.BaseURL, q.Encode())

	var resp twelveDataResponse
	if err := getJSON(ctx, f.Client, f.Limiter, endpoint, &resp); err != nil {
		return nil, errors.Wrap(err, "twelvedata")
	}
	if resp.Status == "error" {
		return nil, errors.Errorf("twelvedata api error %d: %s", resp.Code, resp.Message)
	}

	bars := make(model.Series, 0, len(resp.Values))
	for _, v := range resp.Values {
		ts, err := time.ParseInLocation("2006-01-02 15:04:05", v.Datetime, time.UTC)
		if err != nil {
			return nil, errors.Wrapf(err, "twelvedata datetime %q", v.Datetime)
		}
		bar, err := parseOHLC(ts, v.Open, v.High, v.Low, v.Close)
		if err != nil {
			return nil, errors.Wrap(err, "twelvedata")
		}
		bars = append(bars, bar)
	}
	// API returns newest first.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func parseOHLC(ts time.Time, open, high, low, close string) (model.Bar, error) {
	var vals [4]float64
	for i, s := range []string{open, high, low, close} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Bar{}, errors.Wrapf(err, "parse price %q", s)
		}
		vals[i] = v
	}
	return model.Bar{Time: ts, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}, nil
}
