// Package devopsctl implements the DevOps analysis CLI: URL connectivity
// probes, Kubernetes health and topology reads, and deployment checks, each
// followed by an AI analysis with a deterministic built-in fallback.
package devopsctl

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"aictl/internal/analyzer"
	"aictl/internal/infra"
)

// defaultTimeout bounds one analyze call against the proxy.
const defaultTimeout = 60

// Config carries the global flag values shared by every subcommand.
type Config struct {
	APIURL     string
	Namespace  string
	Kubeconfig string
	NoAI       bool
	Output     string
	TimeoutSec int
}

// NewRootCmd constructs the devopsctl command tree.
func NewRootCmd() *cobra.Command {
	cfg := &Config{}
	root := &cobra.Command{
		Use:           "devopsctl",
		Short:         "Analyze URLs, Kubernetes services and deployments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.APIURL, "api-url", envOr("DEVOPSCTL_API_URL", analyzer.DefaultBaseURL), "Analysis proxy base URL")
	root.PersistentFlags().StringVar(&cfg.Namespace, "namespace", envOr("DEVOPSCTL_NAMESPACE", "default"), "Kubernetes namespace")
	root.PersistentFlags().StringVar(&cfg.Kubeconfig, "kubeconfig", "", "Path to kubeconfig (defaults $KUBECONFIG or ~/.kube/config)")
	root.PersistentFlags().BoolVar(&cfg.NoAI, "no-ai", false, "Skip AI analysis, use the built-in report")
	root.PersistentFlags().StringVarP(&cfg.Output, "output", "o", "", "Also write the analysis to this file")
	root.PersistentFlags().IntVar(&cfg.TimeoutSec, "timeout", defaultTimeout, "Analysis request timeout in seconds")

	urlCmd := &cobra.Command{
		Use:     "url URL",
		Short:   "Probe a URL and analyze the results",
		Example: "  devopsctl url https://example.com\n  devopsctl url example.com -q \"why is it slow?\"",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, _ := cmd.Flags().GetString("question")
			return fnURL(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], question)
		},
	}
	urlCmd.Flags().StringP("question", "q", "", "Ask a specific question about the URL")

	infraCmd := &cobra.Command{
		Use:     "infrastructure",
		Short:   "Analyze Kubernetes service health or architecture",
		Example: "  devopsctl infrastructure --type health --namespace prod\n  devopsctl infrastructure --type architecture",
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, _ := cmd.Flags().GetString("type")
			service, _ := cmd.Flags().GetString("service")
			client, err := infra.NewClientset(cfg.Kubeconfig)
			if err != nil {
				return err
			}
			return fnInfrastructure(cmd.Context(), cmd.OutOrStdout(), cfg, client, typ, service)
		},
	}
	infraCmd.Flags().String("type", "health", "Analysis type: health|architecture")
	infraCmd.Flags().String("service", "", "Limit health analysis to one deployment")

	deployCmd := &cobra.Command{
		Use:     "deploy",
		Short:   "Check deployment readiness or outcome",
		Example: "  devopsctl deploy --action pre-check --namespace prod\n  devopsctl deploy --action post-check --service api",
		RunE: func(cmd *cobra.Command, args []string) error {
			action, _ := cmd.Flags().GetString("action")
			service, _ := cmd.Flags().GetString("service")
			client, err := infra.NewClientset(cfg.Kubeconfig)
			if err != nil {
				return err
			}
			return fnDeploy(cmd.Context(), cmd.OutOrStdout(), cfg, client, action, service)
		},
	}
	deployCmd.Flags().String("action", "", "Check to run: pre-check|post-check")
	deployCmd.Flags().String("service", "", "Limit the check to one deployment")

	root.AddCommand(urlCmd, infraCmd, deployCmd)
	return root
}

// newAnalyzer wires the AI client unless --no-ai disabled it.
func (cfg *Config) newAnalyzer() *analyzer.Analyzer {
	if cfg.NoAI {
		return analyzer.NewAnalyzer(nil)
	}
	return analyzer.NewAnalyzer(analyzer.New(cfg.APIURL, time.Duration(cfg.TimeoutSec)*time.Second))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireOneOf(flag, val string, allowed ...string) error {
	for _, a := range allowed {
		if val == a {
			return nil
		}
	}
	return fmt.Errorf("invalid --%s %q (expected one of %v)", flag, val, allowed)
}
