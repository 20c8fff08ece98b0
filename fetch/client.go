// Package fetch issues single-page GET requests to status providers and
// classifies transport failures for the retry layer. Each provider gets its
// own client so timeouts and transports never bleed across sources.
package fetch

import (
	"context"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const redirectLimit = 5

// Probe outcomes for the health surface.
const (
	ProbeOK          = "ok"
	ProbeTimeout     = "timeout"
	ProbeUnreachable = "unreachable"
)

// NewClient builds the HTTP client for one provider. The providers sit
// behind anti-bot CDNs, so the transport is wrapped to present browser-like
// requests. No cookies carry over between attempts.
func NewClient(timeout time.Duration) *resty.Client {
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(redirectLimit)).
		SetCookieJar(nil)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	return client
}

// Result is a completed HTTP exchange, whatever the status code. Non-200
// responses are results, not errors; the retry layer decides what to do
// with them.
type Result struct {
	StatusCode int
	Body       []byte
}

// Do issues a GET with the given headers. The context bounds the whole
// exchange and cancels it mid-flight.
func Do(ctx context.Context, client *resty.Client, url string, headers map[string]string) (*Result, error) {
	res, err := client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, Classify(err)
	}
	return &Result{StatusCode: res.StatusCode(), Body: res.Body()}, nil
}

// Probe reports whether a provider answers at all within the context
// deadline. Any HTTP response counts as reachable.
func Probe(ctx context.Context, client *resty.Client, url string, headers map[string]string) string {
	_, err := Do(ctx, client, url, headers)
	switch {
	case err == nil:
		return ProbeOK
	case IsTimeout(err):
		return ProbeTimeout
	default:
		return ProbeUnreachable
	}
}
