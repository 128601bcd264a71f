package collector

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"FxSentinel/internal/model"
)

// Provider fetches an intraday price series for a pair such as "EUR/USD".
type Provider interface {
	FetchSeries(ctx context.Context, pair string) (model.Series, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// splitPair splits "EUR/USD" (or "EURUSD") into its currencies.
func splitPair(pair string) (base, quote string, err error) {
	p := strings.ToUpper(strings.TrimSpace(pair))
	if b, q, ok := strings.Cut(p, "/"); ok {
		base, quote = b, q
	} else if len(p) == 6 {
		base, quote = p[:3], p[3:]
	}
	if len(base) != 3 || len(quote) != 3 {
		return "", "", errors.Errorf("invalid pair %q", pair)
	}
	return base, quote, nil
}

// getJSON waits on the limiter, performs a GET and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, endpoint string, out interface{}) error {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "rate limiter")
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "new request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
