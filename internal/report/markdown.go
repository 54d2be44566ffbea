package report

import (
	"fmt"
	"strings"

	"aictl/pkg/types"
)

const fallbackFooter = "\n---\n*Generated automatically. For AI-powered insights, ensure the analysis service is available.*\n"

// URLFallback renders the canned analysis used when the AI endpoint is
// unreachable. With a question it answers the question from probe data;
// otherwise it renders the full Markdown report.
func URLFallback(r types.ProbeReport, question string) string {
	if question != "" {
		return answerQuestion(r, question)
	}

	var b strings.Builder
	b.WriteString("# URL Analysis Report\n\n")
	fmt.Fprintf(&b, "**URL:** %s\n\n", r.URL)
	b.WriteString("## Test Results\n\n")
	for _, line := range checkLines(r) {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	b.WriteString("\n## Issues Found\n\n")
	if len(r.Errors) == 0 {
		b.WriteString("No critical issues detected.\n")
	} else {
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	b.WriteString(`
## Troubleshooting Steps

1. **Check connectivity** - Verify network access to the target
2. **Verify DNS** - Ensure domain resolution is working
3. **Test ports** - Confirm required ports are open
4. **Check SSL** - Validate certificate for HTTPS sites
5. **Service status** - Check if the target service is running

## Priority Assessment

`)
	b.WriteString(priorityLine(len(r.Errors)))
	b.WriteString(fallbackFooter)
	return b.String()
}

func priorityLine(errCount int) string {
	switch {
	case errCount == 0:
		return "**Priority: Low** - No critical issues\n"
	case errCount <= 2:
		return "**Priority: Medium** - Some issues detected\n"
	default:
		return "**Priority: High** - Multiple critical issues\n"
	}
}

// answerQuestion routes the user question to a canned answer derived from
// the probe data. It covers the recurring operator questions; anything else
// gets the general status answer.
func answerQuestion(r types.ProbeReport, question string) string {
	q := strings.ToLower(question)
	var b strings.Builder

	switch {
	case containsAny(q, "availability", "improve", "optimiz"):
		if r.HTTP.ResponseTimeMs > 1000 {
			fmt.Fprintf(&b, "The service is responding slowly (%dms), which can impact availability. Implement caching at multiple levels and consider a CDN to reduce latency. ", r.HTTP.ResponseTimeMs)
		} else if r.HTTP.StatusCode != 0 {
			fmt.Fprintf(&b, "The service is currently performing well with a response time of %dms. ", r.HTTP.ResponseTimeMs)
		}
		if r.TLS == nil {
			b.WriteString("The target is served over plain HTTP; upgrading to HTTPS improves both security and reliability. ")
		}
		if len(r.Errors) > 0 {
			fmt.Fprintf(&b, "Issues needing attention: %s. ", strings.Join(firstN(r.Errors, 2), "; "))
		}
		b.WriteString("To further enhance availability, run replicas across failure domains, add health checks with alerting, and load-balance traffic across the fleet.")

	case containsAny(q, "slow", "performance"):
		switch {
		case r.HTTP.ResponseTimeMs > 2000:
			fmt.Fprintf(&b, "The service is very slow (%dms). Check server load and resource utilization, add caching (application, database, CDN), and serve static content from edge locations.", r.HTTP.ResponseTimeMs)
		case r.HTTP.ResponseTimeMs > 1000:
			fmt.Fprintf(&b, "Response time is slow (%dms) and could be improved. Check server resources and introduce caching; a CDN helps for static assets.", r.HTTP.ResponseTimeMs)
		case r.HTTP.StatusCode != 0:
			fmt.Fprintf(&b, "The service is performing well with an acceptable response time of %dms. Further gains would come from caching and right-sized infrastructure.", r.HTTP.ResponseTimeMs)
		default:
			b.WriteString("Response time could not be measured; the service may be down or timing out. Check server logs and network connectivity.")
		}

	case containsAny(q, "secure", "security", "safe", "trust", "certificate"):
		switch {
		case r.TLS != nil && r.TLS.Success:
			b.WriteString("The target is properly secured: the TLS certificate is valid and connections are encrypted over HTTPS.")
		case r.TLS == nil:
			b.WriteString("The target uses plain HTTP, which is a critical security concern: traffic is unencrypted and open to interception. Obtain a certificate (Let's Encrypt is free), redirect HTTP to HTTPS, and add HSTS.")
		default:
			b.WriteString("TLS certificate issues were detected: the certificate may be expired, invalid, or misconfigured. Fix this first, since browsers will warn users away.")
		}

	case containsAny(q, "error", "issue", "problem"):
		if len(r.Errors) > 0 {
			b.WriteString("The connectivity analysis found issues that need attention:\n")
			for _, e := range firstN(r.Errors, 5) {
				fmt.Fprintf(&b, "  - %s\n", e)
			}
			b.WriteString("Check server logs, review the configuration, and verify the required services are running.")
		} else {
			b.WriteString("No critical issues were detected: DNS resolves, the port is open, and the service responds correctly.")
		}

	default:
		if r.HTTP.StatusCode == 200 {
			fmt.Fprintf(&b, "The target (%s) is online and accessible. ", r.Hostname)
		} else if r.HTTP.StatusCode != 0 {
			fmt.Fprintf(&b, "The target is returning HTTP status %d (%s). ", r.HTTP.StatusCode, r.HTTP.StatusText)
		} else {
			fmt.Fprintf(&b, "The target (%s) did not answer the HTTP check. ", r.Hostname)
		}
		b.WriteString("Monitor performance and availability, keep alerting in place, and review security posture regularly.")
		if r.TLS == nil {
			b.WriteString(" Upgrading to HTTPS would encrypt traffic between users and the service.")
		}
	}

	answer := strings.TrimSpace(b.String())
	if answer == "" {
		return "No specific answer could be derived from the available probe data."
	}
	return answer
}

// HealthFallback renders the canned namespace-health analysis.
func HealthFallback(h types.ClusterHealth) string {
	var b strings.Builder
	b.WriteString("# Service Health Analysis\n\n")
	fmt.Fprintf(&b, "**Namespace:** %s\n**Snapshot:** %s\n\n", h.Namespace, h.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	b.WriteString("## Service Health Status\n\n")
	for _, s := range h.Services {
		state := "Healthy"
		if !s.Healthy {
			state = "Unhealthy"
		}
		fmt.Fprintf(&b, "- **%s**: %s (%d/%d running)\n", s.Service, state, s.Running, s.Desired)
	}
	b.WriteString(`
## Health Recommendations

- Alert on replica availability and restart counts
- Check pod logs and events for degraded workloads
- Verify resource requests/limits match observed usage
- Tune readiness probes before scaling out
`)
	b.WriteString(fallbackFooter)
	return b.String()
}

// ArchitectureFallback renders the canned topology analysis.
func ArchitectureFallback(a types.ArchitectureReport) string {
	var b strings.Builder
	b.WriteString("# Architecture Analysis\n\n")
	fmt.Fprintf(&b, "**Namespace:** %s\n**Snapshot:** %s\n\n", a.Namespace, a.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	b.WriteString("## Infrastructure Overview\n\n### Deployments\n\n")
	for _, d := range a.Deployments {
		mark := markOK
		if d.Running != d.Desired {
			mark = markFail
		}
		fmt.Fprintf(&b, "- %s **%s** (%s): %d/%d running\n", mark, d.Name, d.Image, d.Running, d.Desired)
	}
	if len(a.Services) > 0 {
		b.WriteString("\n### Services\n\n")
		for _, s := range a.Services {
			fmt.Fprintf(&b, "- **%s** (%s)\n", s.Name, s.Type)
		}
	}
	b.WriteString(`
## Recommendations

- Run at least two replicas for anything user-facing
- Add horizontal autoscaling where load varies
- Review NetworkPolicies and least-privilege service accounts
- Monitor CPU/memory utilization and right-size requests
`)
	b.WriteString(fallbackFooter)
	return b.String()
}

// DeployFallback renders the canned pre/post deployment analysis.
func DeployFallback(d types.DeployCheck) string {
	var b strings.Builder
	b.WriteString("# Deployment Analysis\n\n")
	fmt.Fprintf(&b, "**Action:** %s\n**Status:** %s\n\n", d.Action, d.Status)
	fmt.Fprintf(&b, "**Recommendation:** %s\n\n## Next Steps\n\n", d.Recommendation)

	switch d.Status {
	case types.DeployReady:
		b.WriteString("All services are healthy; the namespace is ready for deployment.\n\n- Proceed with the deployment plan\n- Monitor service health during rollout\n- Keep a rollback path ready\n")
	case types.DeploySuccess:
		b.WriteString("All services are running correctly after the rollout.\n\n- Watch performance metrics and error rates\n- Verify user-facing functionality\n- Document the deployment\n")
	default:
		b.WriteString("Some services need attention before this deployment can be considered done.\n\n")
		for _, s := range d.Unhealthy {
			fmt.Fprintf(&b, "- **%s**: %d/%d running\n", s.Service, s.Running, s.Desired)
		}
		b.WriteString("\n- Check individual service health and logs\n- Verify configuration changes\n- Consider rolling back if the gap persists\n")
	}
	b.WriteString(fallbackFooter)
	return b.String()
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
