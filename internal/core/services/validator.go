package services

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/custodia-labs/sitedex-core/internal/core/domain"
	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven"
)

// Blocked ranges beyond what the net package classifies directly.
var (
	cgnatNet       *net.IPNet // 100.64.0.0/10 carrier-grade NAT
	v6UniqueLocal  *net.IPNet // fc00::/7
	v6LinkLocalNet *net.IPNet // fe80::/10
)

func init() {
	_, cgnatNet, _ = net.ParseCIDR("100.64.0.0/10")
	_, v6UniqueLocal, _ = net.ParseCIDR("fc00::/7")
	_, v6LinkLocalNet, _ = net.ParseCIDR("fe80::/10")
}

// URLValidator decides whether a seed URL is safe to crawl.
// It normalizes the URL, resolves the hostname through the injected
// resolver, and rejects anything that lands on a non-public address.
// Resolution happens exactly once; the resolved IP set is pinned into
// the returned ValidatedURL so every later fetch reuses it.
type URLValidator struct {
	resolver driven.Resolver
}

// NewURLValidator creates a new URLValidator
func NewURLValidator(resolver driven.Resolver) *URLValidator {
	return &URLValidator{resolver: resolver}
}

// Validate parses, normalizes, and resolves rawURL.
// Returns ErrInvalidURL for malformed or non-HTTP(S) input and
// ErrBlockedURL when any resolved address is private, loopback,
// link-local, CGNAT, unique-local, multicast, or unspecified.
func (v *URLValidator) Validate(ctx context.Context, rawURL string) (*domain.ValidatedURL, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, fmt.Errorf("%w: empty url", domain.ErrInvalidURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", domain.ErrInvalidURL, u.Scheme)
	}
	if u.User != nil {
		return nil, fmt.Errorf("%w: userinfo not allowed", domain.ErrInvalidURL)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return nil, fmt.Errorf("%w: missing host", domain.ErrInvalidURL)
	}

	ips, err := v.resolveHost(ctx, host)
	if err != nil {
		return nil, err
	}
	for _, ip := range ips {
		if IsBlockedIP(ip) {
			return nil, fmt.Errorf("%w: %s resolves to non-public address %s", domain.ErrBlockedURL, host, ip)
		}
	}

	normalized := normalizeURL(u, scheme, host)

	resolved := make([]string, len(ips))
	for i, ip := range ips {
		resolved[i] = ip.String()
	}

	return &domain.ValidatedURL{
		NormalizedURL: normalized,
		Hostname:      host,
		ResolvedIPs:   resolved,
	}, nil
}

// resolveHost returns the addresses for host. Literal IPs skip DNS but
// go through the same policy as resolved addresses.
func (v *URLValidator) resolveHost(ctx context.Context, host string) ([]net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		return []net.IP{ip}, nil
	}

	addrs, err := v.resolver.LookupHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("%w: hostname %s did not resolve", domain.ErrInvalidURL, host)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("%w: hostname %s did not resolve", domain.ErrInvalidURL, host)
	}

	ips := make([]net.IP, 0, len(addrs))
	for _, addr := range addrs {
		ip := net.ParseIP(addr)
		if ip == nil {
			return nil, fmt.Errorf("%w: resolver returned invalid address %q", domain.ErrInvalidURL, addr)
		}
		ips = append(ips, ip)
	}
	return ips, nil
}

// normalizeURL rebuilds the URL with lowercased scheme and host, the
// default port stripped, and the fragment removed. Path and query are
// preserved as given.
func normalizeURL(u *url.URL, scheme, host string) string {
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}

	clean := *u
	clean.Scheme = scheme
	switch {
	case port != "":
		clean.Host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		// IPv6 literal, re-bracket
		clean.Host = "[" + host + "]"
	default:
		clean.Host = host
	}
	clean.Fragment = ""
	clean.User = nil
	return clean.String()
}

// IsBlockedIP reports whether an address must never be crawled.
// IPv4-mapped IPv6 forms are unwrapped before classification.
func IsBlockedIP(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		ip = ip4
	}

	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
		return true
	}
	if cgnatNet.Contains(ip) {
		return true
	}
	if ip.To4() == nil && (v6UniqueLocal.Contains(ip) || v6LinkLocalNet.Contains(ip)) {
		return true
	}
	return false
}
