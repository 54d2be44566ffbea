package devopsctl

import (
	"context"
	"fmt"
	"io"

	"k8s.io/client-go/kubernetes"

	"aictl/internal/infra"
	"aictl/internal/report"
)

// fnInfrastructure runs the read-only namespace analysis, either per-service
// health or the full topology view.
func fnInfrastructure(ctx context.Context, out io.Writer, cfg *Config, client kubernetes.Interface, typ, service string) error {
	if err := requireOneOf("type", typ, "health", "architecture"); err != nil {
		return err
	}
	checker := infra.NewChecker(client, cfg.Namespace)
	an := cfg.newAnalyzer()

	if typ == "architecture" {
		a, err := checker.Architecture(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Namespace %s: %d deployments, %d services\n\n", a.Namespace, len(a.Deployments), len(a.Services))
		text := an.Analyze(ctx, report.ArchitecturePrompt(a), report.ContextArchitecture, func() string {
			return report.ArchitectureFallback(a)
		})
		return emit(out, cfg.Output, text)
	}

	h, err := checker.Health(ctx, service)
	if err != nil {
		return err
	}
	for _, s := range h.Services {
		fmt.Fprintf(out, "  %s: %s (%d/%d running)\n", s.Service, s.Status, s.Running, s.Desired)
	}
	fmt.Fprintln(out)
	text := an.Analyze(ctx, report.HealthPrompt(h), report.ContextHealth, func() string {
		return report.HealthFallback(h)
	})
	return emit(out, cfg.Output, text)
}
