// Package httpclient fetches saved query responses over HTTP without letting
// a URL reach internal services.
package httpclient

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/teranos/resultviz/errors"
)

// DefaultMaxBytes caps a fetched document.
const DefaultMaxBytes = 64 << 20

// Options customizes a Fetcher. Zero values select the defaults.
type Options struct {
	AllowPrivate bool  // Permit loopback and private addresses
	MaxRedirects int   // Default 10
	MaxBytes     int64 // Default DefaultMaxBytes
}

// Fetcher is an HTTP GET client that refuses non-HTTP schemes and, unless
// allowed, private and loopback destinations, including after redirects and
// DNS resolution.
type Fetcher struct {
	client *http.Client
	opts   Options
}

// New creates a fetcher whose requests time out after timeout.
func New(timeout time.Duration, opts Options) *Fetcher {
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = 10
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	f := &Fetcher{opts: opts}

	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if !opts.AllowPrivate {
				host, _, err := net.SplitHostPort(addr)
				if err != nil {
					return nil, errors.Wrap(err, "invalid address")
				}
				ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
				if err != nil {
					return nil, errors.Wrapf(err, "failed to resolve host %q", host)
				}
				for _, ip := range ips {
					if isPrivate(ip) {
						return nil, errors.Newf("private IP address blocked: %s", ip)
					}
				}
			}
			return dialer.DialContext(ctx, network, addr)
		},
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     90 * time.Second,
	}

	f.client = &http.Client{
		Timeout:   timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= opts.MaxRedirects {
				return errors.Newf("stopped after %d redirects", opts.MaxRedirects)
			}
			if err := f.validate(req.URL); err != nil {
				return errors.Wrap(err, "redirect blocked")
			}
			return nil
		},
	}
	return f
}

// IsURL reports whether s names an http or https resource.
func IsURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch GETs rawURL and returns its body. Non-2xx statuses are errors.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}
	if err := f.validate(u); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", u.Redacted())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf("fetching %s returned %s", u.Redacted(), resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes+1))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", u.Redacted())
	}
	if int64(len(body)) > f.opts.MaxBytes {
		return nil, errors.Newf("response from %s exceeds %d bytes", u.Redacted(), f.opts.MaxBytes)
	}
	return body, nil
}

func (f *Fetcher) validate(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return errors.Newf("scheme %q not allowed (allowed: http, https)", u.Scheme)
	}
	// http://evil.com@localhost/ style confusion
	if u.User != nil {
		return errors.New("URL must not carry credentials")
	}
	hostname := u.Hostname()
	if hostname == "" {
		return errors.New("URL missing hostname")
	}
	if f.opts.AllowPrivate {
		return nil
	}
	if isLocalhost(hostname) {
		return errors.New("localhost access blocked")
	}
	if ip, err := netip.ParseAddr(hostname); err == nil && isPrivate(ip) {
		return errors.Newf("private IP address blocked: %s", hostname)
	}
	return nil
}

// isPrivate covers RFC 1918 and unique local ranges plus loopback,
// link-local, multicast, unspecified and the documentation prefix.
func isPrivate(ip netip.Addr) bool {
	ip = ip.Unmap()
	return ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified() ||
		documentation.Contains(ip) ||
		thisNetwork.Contains(ip)
}

var (
	documentation = netip.MustParsePrefix("2001:db8::/32")
	thisNetwork   = netip.MustParsePrefix("0.0.0.0/8")
)

func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" ||
		hostname == "localhost.localdomain" ||
		strings.HasSuffix(hostname, ".localhost")
}
