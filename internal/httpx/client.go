package httpx

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// throttled is a RoundTripper that waits on a token bucket before letting a
// request hit the upstream host. Waiting respects the request's context.
type throttled struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttled) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// NewClient returns an HTTP client with sensible connection timeouts, a 30
// second overall deadline, and outbound requests capped at rps per second.
// rps <= 0 disables throttling.
func NewClient(rps float64) *http.Client {
	var transport http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if rps > 0 {
		transport = &throttled{
			base:    transport,
			limiter: rate.NewLimiter(rate.Limit(rps), 1),
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// SpoofChromeHeaders sets a modern Chrome-like header set on the request.
func SpoofChromeHeaders(r *http.Request) {
	r.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36")
	r.Header.Set("Accept", "application/json, text/plain, */*")
	r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	r.Header.Set("Connection", "keep-alive")
}
