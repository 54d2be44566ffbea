// Package ollamactl implements the model-runner CLI: list the models a local
// Ollama server carries and run one-shot prompts against them.
package ollamactl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"aictl/internal/ollama"
	"aictl/pkg/types"
)

// defaultRunTimeout bounds one generation; local models can be slow on
// first load.
const defaultRunTimeout = 300

// NewRootCmd constructs the ollamactl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ollamactl",
		Short:         "Run prompts against a local Ollama server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("base-url", envOr("OLLAMA_BASE_URL", ollama.DefaultBaseURL), "Ollama server base URL")

	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List models available on the server",
		Example: "  ollamactl list",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("base-url")
			return fnList(cmd.Context(), cmd.OutOrStdout(), baseURL)
		},
	}

	runCmd := &cobra.Command{
		Use:     "run [PROMPT]",
		Short:   "Run one prompt and print the reply",
		Example: "  ollamactl run \"Explain CIDR notation\"\n  echo \"why is DNS slow\" | ollamactl run\n  ollamactl run --model mistral",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, _ := cmd.Flags().GetString("base-url")
			model, _ := cmd.Flags().GetString("model")
			timeout, _ := cmd.Flags().GetInt("timeout")
			verbose, _ := cmd.Flags().GetBool("verbose")
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			prompt, err := resolvePrompt(arg, os.Stdin, stdinIsTerminal(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return fnRun(cmd.Context(), cmd.OutOrStdout(), runOptions{
				baseURL: baseURL,
				model:   model,
				prompt:  prompt,
				timeout: time.Duration(timeout) * time.Second,
				verbose: verbose,
			})
		},
	}
	runCmd.Flags().String("model", "", "Model name (defaults to the first available model)")
	runCmd.Flags().Int("timeout", defaultRunTimeout, "Request timeout in seconds")
	runCmd.Flags().Bool("verbose", false, "Also print the full JSON reply")

	root.AddCommand(listCmd, runCmd)
	return root
}

func fnList(ctx context.Context, out io.Writer, baseURL string) error {
	client := ollama.New(baseURL, 0)
	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Fprintln(out, "No models found. Try: ollama pull llama3.1")
		return nil
	}
	fmt.Fprintln(out, "Available models:")
	for _, m := range models {
		fmt.Fprintf(out, " - %s\n", m.Name)
	}
	return nil
}

type runOptions struct {
	baseURL string
	model   string
	prompt  string
	timeout time.Duration
	verbose bool
}

func fnRun(ctx context.Context, out io.Writer, opts runOptions) error {
	if strings.TrimSpace(opts.prompt) == "" {
		return fmt.Errorf("prompt is empty")
	}
	client := ollama.New(opts.baseURL, opts.timeout)

	model := opts.model
	if model == "" {
		models, err := client.ListModels(ctx)
		if err != nil {
			return err
		}
		if len(models) == 0 {
			return fmt.Errorf("no models available (try: ollama pull llama3.1)")
		}
		model = models[0].Name
		fmt.Fprintf(out, "Using model: %s\n", model)
	}

	resp, err := client.Generate(ctx, types.GenerateRequest{Model: model, Prompt: opts.prompt})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, resp.Response)
	if opts.verbose {
		full, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(full))
	}
	return nil
}

// resolvePrompt picks the prompt from the argument, piped stdin, or an
// interactive one-line read, in that order.
func resolvePrompt(arg string, in io.Reader, interactive bool, out io.Writer) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if !interactive {
		b, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	fmt.Fprint(out, "Enter prompt: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
