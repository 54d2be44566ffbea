// Package report turns probe and cluster data into model prompts and into
// the deterministic Markdown fallback used when the analysis service is
// unavailable.
package report

import (
	"fmt"
	"strings"

	"aictl/pkg/types"
)

// Analysis context identifiers sent to the proxy with each prompt.
const (
	ContextURL          = "url-analysis"
	ContextHealth       = "health-analysis"
	ContextArchitecture = "architecture-analysis"
	ContextDeployment   = "deployment-analysis"
)

const (
	markOK   = "[OK]"
	markFail = "[FAIL]"
	markWarn = "[WARN]"
	markSkip = "[n/a]"
)

// checkLines renders one line per probe check, shared by the CLI summary,
// the model prompt and the fallback report.
func checkLines(r types.ProbeReport) []string {
	var lines []string

	if r.DNS.Success {
		lines = append(lines, fmt.Sprintf("%s DNS resolves to %s", markOK, r.DNS.IPAddress))
	} else {
		lines = append(lines, fmt.Sprintf("%s DNS resolution failed", markFail))
	}

	if r.TCP.Success {
		lines = append(lines, fmt.Sprintf("%s Port %d is open", markOK, r.Port))
	} else {
		lines = append(lines, fmt.Sprintf("%s Port %d is closed or blocked", markFail, r.Port))
	}

	switch {
	case r.TLS == nil:
		lines = append(lines, fmt.Sprintf("%s SSL not applicable (plain HTTP)", markSkip))
	case r.TLS.Success:
		lines = append(lines, fmt.Sprintf("%s SSL certificate is valid", markOK))
	default:
		lines = append(lines, fmt.Sprintf("%s SSL certificate issue detected", markFail))
	}

	switch {
	case r.HTTP.StatusCode == 0:
		if r.HTTP.Error != "" {
			lines = append(lines, fmt.Sprintf("%s HTTP request failed: %s", markFail, r.HTTP.Error))
		}
	case r.HTTP.StatusCode < 300:
		lines = append(lines, fmt.Sprintf("%s HTTP status %d (OK)", markOK, r.HTTP.StatusCode))
	case r.HTTP.StatusCode < 400:
		lines = append(lines, fmt.Sprintf("%s HTTP status %d (Redirect)", markWarn, r.HTTP.StatusCode))
	default:
		lines = append(lines, fmt.Sprintf("%s HTTP status %d (Error)", markFail, r.HTTP.StatusCode))
	}

	if r.HTTP.StatusCode != 0 {
		ms := r.HTTP.ResponseTimeMs
		switch {
		case ms < 1000:
			lines = append(lines, fmt.Sprintf("%s Response time %dms (Good)", markOK, ms))
		case ms < 3000:
			lines = append(lines, fmt.Sprintf("%s Response time %dms (Slow)", markWarn, ms))
		default:
			lines = append(lines, fmt.Sprintf("%s Response time %dms (Very slow)", markFail, ms))
		}
	}

	return lines
}

// Summary renders the short per-check block printed by the CLI before the
// full analysis.
func Summary(r types.ProbeReport) string {
	var b strings.Builder
	for _, line := range checkLines(r) {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	return b.String()
}

// URLPrompt builds the model prompt for a URL probe, optionally focused on
// a user question.
func URLPrompt(r types.ProbeReport, question string) string {
	var b strings.Builder
	if question != "" {
		b.WriteString("Analyze this URL and answer the user's specific question:\n\n")
		fmt.Fprintf(&b, "URL: %s\nUser Question: %s\n\n", r.URL, question)
	} else {
		b.WriteString("Analyze this URL and diagnose the issues:\n\n")
		fmt.Fprintf(&b, "URL: %s\n\n", r.URL)
	}
	b.WriteString("Test Results:\n")
	for _, line := range checkLines(r) {
		b.WriteString(line + "\n")
	}
	if len(r.Errors) > 0 {
		b.WriteString("\nIssues detected:\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	if question != "" {
		b.WriteString("\nProvide a detailed answer to their question based on the connectivity data.\nFocus on their specific concern and provide actionable recommendations.\n")
	} else {
		b.WriteString("\nPlease provide:\n1. Root cause analysis of the issues\n2. Specific troubleshooting steps\n3. Priority level (Critical/High/Medium/Low)\n4. Estimated time to resolve\n5. Prevention recommendations\n\nBe concise and actionable.\n")
	}
	return b.String()
}

// HealthPrompt builds the model prompt for a namespace health snapshot.
func HealthPrompt(h types.ClusterHealth) string {
	var b strings.Builder
	b.WriteString("Analyze this Kubernetes service health:\n\n")
	fmt.Fprintf(&b, "Namespace: %s\n\nService Health:\n", h.Namespace)
	for _, s := range h.Services {
		state := "Healthy"
		if !s.Healthy {
			state = "Unhealthy"
		}
		fmt.Fprintf(&b, "- %s: %s (%d/%d running)\n", s.Service, state, s.Running, s.Desired)
	}
	b.WriteString("\nPlease provide:\n1. Health assessment\n2. Performance issues\n3. Scaling recommendations\n4. Monitoring suggestions\n5. Troubleshooting steps\n")
	return b.String()
}

// ArchitecturePrompt builds the model prompt for a namespace topology view.
func ArchitecturePrompt(a types.ArchitectureReport) string {
	var b strings.Builder
	b.WriteString("Analyze this Kubernetes architecture and provide recommendations:\n\n")
	fmt.Fprintf(&b, "Namespace: %s\nDeployments: %d\nServices: %d\n\nDeployment Details:\n", a.Namespace, len(a.Deployments), len(a.Services))
	for _, d := range a.Deployments {
		fmt.Fprintf(&b, "- %s (%s): %d/%d running\n", d.Name, d.Image, d.Running, d.Desired)
	}
	b.WriteString("\nPlease provide:\n1. Architecture assessment\n2. High availability analysis\n3. Security considerations\n4. Optimization recommendations\n5. Improvement suggestions\n")
	return b.String()
}

// DeployPrompt builds the model prompt for a pre/post deployment check.
func DeployPrompt(d types.DeployCheck) string {
	var b strings.Builder
	b.WriteString("Analyze this deployment status:\n\n")
	fmt.Fprintf(&b, "Action: %s\nStatus: %s\nRecommendation: %s\nHealthy services: %d/%d\n", d.Action, d.Status, d.Recommendation, d.HealthyCount, d.TotalCount)
	b.WriteString("\nPlease provide:\n1. Deployment assessment\n2. Risk analysis\n3. Next steps\n4. Rollback considerations if needed\n5. Monitoring recommendations\n")
	return b.String()
}
