package report

import (
	"strings"
	"testing"
	"time"

	"aictl/pkg/types"
)

func healthyReport() types.ProbeReport {
	return types.ProbeReport{
		URL:      "https://example.com",
		Hostname: "example.com",
		Port:     443,
		Scheme:   "https",
		DNS:      types.DNSCheck{Success: true, IPAddress: "93.184.216.34"},
		TCP:      types.CheckResult{Success: true},
		TLS:      &types.TLSCheck{Success: true},
		HTTP:     types.HTTPCheck{Success: true, StatusCode: 200, StatusText: "OK", ResponseTimeMs: 120},
	}
}

func TestSummaryHealthy(t *testing.T) {
	s := Summary(healthyReport())
	for _, want := range []string{
		"[OK] DNS resolves to 93.184.216.34",
		"[OK] Port 443 is open",
		"[OK] SSL certificate is valid",
		"[OK] HTTP status 200 (OK)",
		"[OK] Response time 120ms (Good)",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "[FAIL]") {
		t.Fatalf("healthy summary should have no failures:\n%s", s)
	}
}

func TestSummaryPlainHTTP(t *testing.T) {
	r := healthyReport()
	r.Scheme = "http"
	r.Port = 80
	r.TLS = nil
	s := Summary(r)
	if !strings.Contains(s, "[n/a] SSL not applicable") {
		t.Fatalf("expected ssl n/a marker:\n%s", s)
	}
}

func TestSummaryFailures(t *testing.T) {
	r := types.ProbeReport{
		URL:    "https://down.example",
		Port:   443,
		Scheme: "https",
		DNS:    types.DNSCheck{Error: "no such host"},
		TCP:    types.CheckResult{Error: "connection refused"},
		TLS:    &types.TLSCheck{Error: "handshake failed"},
		HTTP:   types.HTTPCheck{Error: "connection error"},
		Errors: []string{"DNS resolution failed: no such host"},
	}
	s := Summary(r)
	for _, want := range []string{
		"[FAIL] DNS resolution failed",
		"[FAIL] Port 443 is closed or blocked",
		"[FAIL] SSL certificate issue detected",
		"[FAIL] HTTP request failed: connection error",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestURLPromptIncludesQuestion(t *testing.T) {
	p := URLPrompt(healthyReport(), "Why is this slow?")
	if !strings.Contains(p, "User Question: Why is this slow?") {
		t.Fatalf("prompt missing question:\n%s", p)
	}
	if !strings.Contains(p, "Test Results:") {
		t.Fatalf("prompt missing test results:\n%s", p)
	}
}

func TestURLPromptDiagnosis(t *testing.T) {
	r := healthyReport()
	r.Errors = []string{"HTTP Error 503: Service Unavailable"}
	p := URLPrompt(r, "")
	if !strings.Contains(p, "Root cause analysis") {
		t.Fatalf("diagnosis prompt missing instructions:\n%s", p)
	}
	if !strings.Contains(p, "HTTP Error 503") {
		t.Fatalf("prompt missing detected issue:\n%s", p)
	}
}

func TestURLFallbackDeterministic(t *testing.T) {
	r := healthyReport()
	a := URLFallback(r, "")
	b := URLFallback(r, "")
	if a != b {
		t.Fatalf("fallback output must be deterministic")
	}
	if !strings.Contains(a, "# URL Analysis Report") {
		t.Fatalf("missing header:\n%s", a)
	}
	if !strings.Contains(a, "**Priority: Low** - No critical issues") {
		t.Fatalf("healthy report should be low priority:\n%s", a)
	}
	if !strings.Contains(a, "No critical issues detected.") {
		t.Fatalf("missing issues section:\n%s", a)
	}
}

func TestURLFallbackPriorityEscalates(t *testing.T) {
	r := healthyReport()
	r.Errors = []string{"a", "b"}
	if !strings.Contains(URLFallback(r, ""), "Priority: Medium") {
		t.Fatalf("two errors should be medium priority")
	}
	r.Errors = []string{"a", "b", "c"}
	if !strings.Contains(URLFallback(r, ""), "Priority: High") {
		t.Fatalf("three errors should be high priority")
	}
}

func TestAnswerQuestionSecurity(t *testing.T) {
	r := healthyReport()
	ans := URLFallback(r, "Is this secure?")
	if !strings.Contains(ans, "certificate is valid") {
		t.Fatalf("expected positive security answer:\n%s", ans)
	}

	r.TLS = nil
	ans = URLFallback(r, "Is this secure?")
	if !strings.Contains(ans, "plain HTTP") {
		t.Fatalf("expected http warning:\n%s", ans)
	}
}

func TestAnswerQuestionPerformance(t *testing.T) {
	r := healthyReport()
	r.HTTP.ResponseTimeMs = 2500
	ans := URLFallback(r, "Why is this so slow?")
	if !strings.Contains(ans, "2500ms") {
		t.Fatalf("answer should cite the measured time:\n%s", ans)
	}
}

func TestAnswerQuestionErrors(t *testing.T) {
	r := healthyReport()
	r.Errors = []string{"HTTP Error 500: Internal Server Error"}
	ans := URLFallback(r, "Any problems with this endpoint?")
	if !strings.Contains(ans, "HTTP Error 500") {
		t.Fatalf("answer should list the issues:\n%s", ans)
	}
}

func TestHealthFallback(t *testing.T) {
	h := types.ClusterHealth{
		Namespace: "prod",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Services: []types.ServiceHealth{
			{Service: "api", Healthy: true, Running: 3, Desired: 3},
			{Service: "worker", Healthy: false, Running: 1, Desired: 2},
		},
	}
	out := HealthFallback(h)
	if !strings.Contains(out, "**api**: Healthy (3/3 running)") {
		t.Fatalf("missing healthy line:\n%s", out)
	}
	if !strings.Contains(out, "**worker**: Unhealthy (1/2 running)") {
		t.Fatalf("missing unhealthy line:\n%s", out)
	}
	if !strings.Contains(out, "2025-06-01T12:00:00Z") {
		t.Fatalf("missing snapshot timestamp:\n%s", out)
	}
}

func TestDeployFallbackStatuses(t *testing.T) {
	ready := DeployFallback(types.DeployCheck{Action: "pre-check", Status: types.DeployReady, Recommendation: "Safe to deploy"})
	if !strings.Contains(ready, "ready for deployment") {
		t.Fatalf("unexpected ready output:\n%s", ready)
	}
	partial := DeployFallback(types.DeployCheck{
		Action: "post-check", Status: types.DeployPartial,
		Recommendation: "Some services may need attention",
		Unhealthy:      []types.ServiceHealth{{Service: "worker", Running: 1, Desired: 2}},
	})
	if !strings.Contains(partial, "**worker**: 1/2 running") {
		t.Fatalf("partial output should list unhealthy services:\n%s", partial)
	}
}

func TestDeployPrompt(t *testing.T) {
	p := DeployPrompt(types.DeployCheck{Action: "pre-check", Status: types.DeployReady, Recommendation: "Safe to deploy", HealthyCount: 2, TotalCount: 2})
	if !strings.Contains(p, "Healthy services: 2/2") {
		t.Fatalf("prompt missing counts:\n%s", p)
	}
}
