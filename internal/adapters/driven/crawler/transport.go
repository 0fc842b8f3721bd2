package crawler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
)

const maxRedirects = 5

// newPinnedClient builds an HTTP client whose transport dials only the
// addresses resolved at validation time. The request URL keeps the
// original hostname, so TLS SNI and the Host header are untouched; only
// the TCP dial target is rewritten. Redirects must stay on the
// validated host.
func newPinnedClient(seed *domain.ValidatedURL, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	allowed := make(map[string]bool, len(seed.ResolvedIPs)+1)
	allowed[strings.ToLower(seed.Hostname)] = true
	for _, ip := range seed.ResolvedIPs {
		allowed[strings.ToLower(ip)] = true
	}

	pinnedDial := func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid dial address %q: %w", addr, err)
		}
		if !allowed[strings.ToLower(host)] {
			return nil, fmt.Errorf("refusing to dial %q: not the validated host", host)
		}

		var lastErr error
		for _, ip := range seed.ResolvedIPs {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
			if err == nil {
				return conn, nil
			}
			lastErr = err
		}
		if lastErr == nil {
			lastErr = errors.New("no resolved addresses")
		}
		return nil, fmt.Errorf("dial %s: %w", seed.Hostname, lastErr)
	}

	transport := &http.Transport{
		DialContext:           pinnedDial,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			if !strings.EqualFold(req.URL.Hostname(), seed.Hostname) {
				return fmt.Errorf("cross-host redirect to %s refused", req.URL.Hostname())
			}
			return nil
		},
	}
}
