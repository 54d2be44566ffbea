package devopsctl

import (
	"context"
	"fmt"
	"io"

	"aictl/internal/probe"
	"aictl/internal/report"
)

// fnURL probes the target, prints the per-check summary and then the
// analysis. Probe failures surface as a non-zero exit after the analysis has
// been printed.
func fnURL(ctx context.Context, out io.Writer, cfg *Config, rawURL, question string) error {
	target := probe.Normalize(rawURL)
	fmt.Fprintf(out, "Checking %s\n\n", target)

	p := probe.New()
	r, err := p.Run(ctx, target)
	if err != nil {
		return err
	}
	fmt.Fprint(out, report.Summary(r))
	fmt.Fprintln(out)

	an := cfg.newAnalyzer()
	text := an.Analyze(ctx, report.URLPrompt(r, question), report.ContextURL, func() string {
		return report.URLFallback(r, question)
	})
	if err := emit(out, cfg.Output, text); err != nil {
		return err
	}

	if len(r.Errors) > 0 {
		return fmt.Errorf("detected %d connectivity issue(s)", len(r.Errors))
	}
	return nil
}
