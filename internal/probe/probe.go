// Package probe runs the connectivity checks behind `devopsctl url`:
// DNS resolution, TCP reachability, TLS handshake and a timed HTTP GET.
package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aictl/pkg/types"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultTLSTimeout  = 5 * time.Second
	defaultHTTPTimeout = 10 * time.Second
	maxRedirects       = 10
)

// Prober holds the per-step timeouts. The zero value is not usable; call New.
type Prober struct {
	DialTimeout time.Duration
	TLSTimeout  time.Duration
	HTTPTimeout time.Duration
	// TLSConfig overrides certificate verification, e.g. pinned roots.
	// Nil means the system trust store.
	TLSConfig *tls.Config
	// Resolver defaults to net.DefaultResolver.
	Resolver *net.Resolver
}

// New returns a Prober with the default step timeouts.
func New() *Prober {
	return &Prober{
		DialTimeout: defaultDialTimeout,
		TLSTimeout:  defaultTLSTimeout,
		HTTPTimeout: defaultHTTPTimeout,
	}
}

// Normalize prepends https:// when the raw target has no scheme.
func Normalize(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// Run probes rawURL and returns the aggregated report. A non-nil error means
// the target could not even be parsed; individual check failures are
// recorded inside the report instead.
func (p *Prober) Run(ctx context.Context, rawURL string) (types.ProbeReport, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return types.ProbeReport{}, fmt.Errorf("parse url: %w", err)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return types.ProbeReport{}, fmt.Errorf("url %q has no hostname", rawURL)
	}
	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if ps := u.Port(); ps != "" {
		if n, err := strconv.Atoi(ps); err == nil {
			port = n
		}
	}

	report := types.ProbeReport{
		URL:      rawURL,
		Hostname: hostname,
		Port:     port,
		Scheme:   u.Scheme,
	}

	p.checkDNS(ctx, &report)
	p.checkTCP(ctx, &report)
	if u.Scheme == "https" {
		p.checkTLS(ctx, &report)
	}
	p.checkHTTP(ctx, &report)

	return report, nil
}

func (p *Prober) resolver() *net.Resolver {
	if p.Resolver != nil {
		return p.Resolver
	}
	return net.DefaultResolver
}

func (p *Prober) checkDNS(ctx context.Context, report *types.ProbeReport) {
	addrs, err := p.resolver().LookupHost(ctx, report.Hostname)
	if err != nil || len(addrs) == 0 {
		if err == nil {
			err = errors.New("no addresses returned")
		}
		report.DNS = types.DNSCheck{Error: err.Error()}
		report.Errors = append(report.Errors, fmt.Sprintf("DNS resolution failed: %v", err))
		return
	}
	report.DNS = types.DNSCheck{Success: true, IPAddress: addrs[0]}
}

func (p *Prober) checkTCP(ctx context.Context, report *types.ProbeReport) {
	d := net.Dialer{Timeout: p.DialTimeout}
	addr := net.JoinHostPort(report.Hostname, strconv.Itoa(report.Port))
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		report.TCP = types.CheckResult{Error: err.Error()}
		report.Errors = append(report.Errors, fmt.Sprintf("Port connection failed: %v", err))
		return
	}
	_ = conn.Close()
	report.TCP = types.CheckResult{Success: true}
}

func (p *Prober) checkTLS(ctx context.Context, report *types.ProbeReport) {
	cfg := &tls.Config{ServerName: report.Hostname}
	if p.TLSConfig != nil {
		cfg = p.TLSConfig.Clone()
		if cfg.ServerName == "" {
			cfg.ServerName = report.Hostname
		}
	}
	d := tls.Dialer{
		NetDialer: &net.Dialer{Timeout: p.TLSTimeout},
		Config:    cfg,
	}
	addr := net.JoinHostPort(report.Hostname, strconv.Itoa(report.Port))
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		report.TLS = &types.TLSCheck{Error: err.Error()}
		report.Errors = append(report.Errors, fmt.Sprintf("SSL certificate issue: %v", err))
		return
	}
	defer conn.Close()
	state := conn.(*tls.Conn).ConnectionState()
	check := &types.TLSCheck{Success: true}
	if len(state.PeerCertificates) > 0 {
		leaf := state.PeerCertificates[0]
		check.Subject = leaf.Subject.String()
		check.Issuer = leaf.Issuer.String()
		check.NotBefore = leaf.NotBefore
		check.NotAfter = leaf.NotAfter
	}
	report.TLS = check
}

func (p *Prober) checkHTTP(ctx context.Context, report *types.ProbeReport) {
	redirects := 0
	client := &http.Client{
		Timeout: p.HTTPTimeout,
		Transport: &http.Transport{
			TLSClientConfig: p.TLSConfig,
			Proxy:           http.ProxyFromEnvironment,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			redirects = len(via)
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, report.URL, nil)
	if err != nil {
		report.HTTP = types.HTTPCheck{Error: err.Error()}
		report.Errors = append(report.Errors, fmt.Sprintf("HTTP request failed: %v", err))
		return
	}

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		check := types.HTTPCheck{ResponseTimeMs: elapsed.Milliseconds()}
		var nerr net.Error
		switch {
		case errors.As(err, &nerr) && nerr.Timeout():
			check.Error = "request timeout"
			report.Errors = append(report.Errors, "Request timed out")
		default:
			check.Error = "connection error"
			report.Errors = append(report.Errors, fmt.Sprintf("Connection error: %v", err))
		}
		report.HTTP = check
		return
	}
	defer resp.Body.Close()

	report.HTTP = types.HTTPCheck{
		Success:        resp.StatusCode < 400,
		StatusCode:     resp.StatusCode,
		StatusText:     http.StatusText(resp.StatusCode),
		Redirects:      redirects,
		FinalURL:       resp.Request.URL.String(),
		ResponseTimeMs: elapsed.Milliseconds(),
	}
	if resp.StatusCode >= 400 {
		report.Errors = append(report.Errors, fmt.Sprintf("HTTP Error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}
}
