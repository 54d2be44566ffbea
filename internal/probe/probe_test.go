package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	if got := Normalize("example.com"); got != "https://example.com" {
		t.Fatalf("got %q", got)
	}
	if got := Normalize("http://example.com"); got != "http://example.com" {
		t.Fatalf("scheme should be preserved, got %q", got)
	}
	if got := Normalize("https://example.com"); got != "https://example.com" {
		t.Fatalf("scheme should be preserved, got %q", got)
	}
}

func TestRunHealthyHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	report, err := New().Run(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !report.DNS.Success {
		t.Fatalf("dns check failed: %+v", report.DNS)
	}
	if !report.TCP.Success {
		t.Fatalf("tcp check failed: %+v", report.TCP)
	}
	if report.TLS != nil {
		t.Fatalf("tls check should be skipped for http, got %+v", report.TLS)
	}
	if !report.HTTP.Success || report.HTTP.StatusCode != http.StatusOK {
		t.Fatalf("http check failed: %+v", report.HTTP)
	}
	if !report.Healthy() {
		t.Fatalf("expected healthy report, errors: %v", report.Errors)
	}
}

func TestRunHealthyTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())
	p := New()
	p.TLSConfig = &tls.Config{RootCAs: pool}

	report, err := p.Run(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Scheme != "https" {
		t.Fatalf("scheme=%q", report.Scheme)
	}
	if report.TLS == nil || !report.TLS.Success {
		t.Fatalf("tls check failed: %+v", report.TLS)
	}
	if report.TLS.NotAfter.IsZero() {
		t.Fatalf("certificate expiry missing: %+v", report.TLS)
	}
	if !report.DNS.Success || !report.TCP.Success || !report.HTTP.Success {
		t.Fatalf("expected all checks healthy: %+v", report)
	}
	if !report.Healthy() {
		t.Fatalf("expected healthy report, errors: %v", report.Errors)
	}
}

func TestRunClosedPort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := srv.URL
	srv.Close()

	report, err := New().Run(context.Background(), target)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.TCP.Success {
		t.Fatalf("tcp check should fail against closed port")
	}
	if report.HTTP.Success {
		t.Fatalf("http check should fail against closed port")
	}
	if report.Healthy() {
		t.Fatalf("expected unhealthy report")
	}
}

func TestRunHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	report, err := New().Run(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.HTTP.Success {
		t.Fatalf("http check should fail on 503")
	}
	if report.HTTP.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", report.HTTP.StatusCode)
	}
	found := false
	for _, e := range report.Errors {
		if strings.Contains(e, "HTTP Error 503") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an HTTP Error entry, got %v", report.Errors)
	}
}

func TestRunRedirectsCounted(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, srv.URL+"/final", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	report, err := New().Run(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.HTTP.Redirects != 1 {
		t.Fatalf("redirects=%d", report.HTTP.Redirects)
	}
	if !strings.HasSuffix(report.HTTP.FinalURL, "/final") {
		t.Fatalf("final url=%q", report.HTTP.FinalURL)
	}
}

func TestRunBadURL(t *testing.T) {
	if _, err := New().Run(context.Background(), "https://"); err == nil {
		t.Fatalf("expected error for url without hostname")
	}
	if _, err := New().Run(context.Background(), "http://[::1]:nope"); err == nil {
		t.Fatalf("expected parse error")
	}
}
