package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"FxSentinel/internal/model"
)

const frankfurterBaseURL = "https://api.frankfurter.app"

// FrankfurterProvider is the last-resort provider: it returns the current
// reference rate as a single-bar series.
type FrankfurterProvider struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
	Now     func() time.Time
}

// NewFrankfurterProvider creates the current-rate provider.
func NewFrankfurterProvider(proxyURL string) *FrankfurterProvider {
	return &FrankfurterProvider{
		BaseURL: frankfurterBaseURL,
		Client:  newHTTPClient(proxyURL),
		Limiter: rate.NewLimiter(rate.Limit(5), 5),
		Now:     time.Now,
	}
}

func (f *FrankfurterProvider) Name() string { return "frankfurter" }

func (f *FrankfurterProvider) FetchSeries(ctx context.Context, pair string) (model.Series, error) {
	base, quote, err := splitPair(pair)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("from", base)
	q.Set("to", quote)
	endpoint := fmt.Sprintf("%s/latest?%s", f.BaseURL, q.Encode())

	var resp struct {
		Base  string             `json:"base"`
		Date  string             `json:"date"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := getJSON(ctx, f.Client, f.Limiter, endpoint, &resp); err != nil {
		return nil, errors.Wrap(err, "frankfurter")
	}
	px, ok := resp.Rates[quote]
	if !ok || px <= 0 {
		return nil, errors.Errorf("frankfurter: no %s rate for %s", quote, base)
	}
	return model.Series{{
		Time:  f.Now().UTC(),
		Open:  px,
		High:  px,
		Low:   px,
		Close: px,
	}}, nil
}
