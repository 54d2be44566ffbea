package devopsctl

import (
	"context"
	"fmt"
	"io"

	"k8s.io/client-go/kubernetes"

	"aictl/internal/infra"
	"aictl/internal/report"
	"aictl/pkg/types"
)

// fnDeploy runs the pre- or post-deployment readiness check.
func fnDeploy(ctx context.Context, out io.Writer, cfg *Config, client kubernetes.Interface, action, service string) error {
	if err := requireOneOf("action", action, "pre-check", "post-check"); err != nil {
		return err
	}
	checker := infra.NewChecker(client, cfg.Namespace)

	var (
		check types.DeployCheck
		err   error
	)
	if action == "pre-check" {
		check, err = checker.PreCheck(ctx, service)
	} else {
		check, err = checker.PostCheck(ctx, service)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %s (%d/%d healthy, %.0f%%)\n", check.Action, check.Status, check.HealthyCount, check.TotalCount, check.HealthPercent)
	for _, s := range check.Unhealthy {
		fmt.Fprintf(out, "  unhealthy: %s (%d/%d running)\n", s.Service, s.Running, s.Desired)
	}
	fmt.Fprintln(out)

	an := cfg.newAnalyzer()
	text := an.Analyze(ctx, report.DeployPrompt(check), report.ContextDeployment, func() string {
		return report.DeployFallback(check)
	})
	return emit(out, cfg.Output, text)
}
