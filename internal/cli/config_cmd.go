package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/dyike/CortexFX/config"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Show, validate and update the CortexFX configuration file",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), RenderConfig(a.cfg, a.mgr.Path()))
		},
	})

	var probe bool
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and, optionally, reach the model backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			// re-read so edits made since startup are checked too
			cfg, err := a.mgr.Reload()
			if err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			return validateConfig(cmd.Context(), cmd.OutOrStdout(), &cfg, probe)
		},
	}
	validateCmd.Flags().BoolVar(&probe, "probe", false, "Call the backend /models endpoint with the configured key")
	configCmd.AddCommand(validateCmd)

	configCmd.AddCommand(&cobra.Command{
		Use:     "set JSON",
		Short:   "Merge a JSON object into the configuration file",
		Example: `cortexfx config set '{"llm_provider":"deepseek","model":"deepseek-chat"}'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.mgr.UpdateFromJSON(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Configuration saved to "+a.mgr.Path()))
			return nil
		},
	})

	return configCmd
}

func validateConfig(ctx context.Context, w io.Writer, cfg *config.Config, probe bool) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}
	fmt.Fprintln(w, successStyle.Render("Configuration is valid"))

	if !cfg.ReasoningConfigured() {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("No API key for %s; analyses will use the heuristic", cfg.LLMProvider)))
		return nil
	}
	if !probe {
		return nil
	}
	if err := ProbeBackend(ctx, cfg); err != nil {
		return err
	}
	fmt.Fprintln(w, successStyle.Render("Backend reachable at "+cfg.ResolvedBackendURL()))
	return nil
}

// ProbeBackend checks that the model backend accepts the configured key by listing
// its models.
func ProbeBackend(ctx context.Context, cfg *config.Config) error {
	timeout := cfg.ReasoningTimeout
	if timeout <= 0 || timeout > 10*time.Second {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.ResolvedBackendURL()).
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey()).
		SetHeader("User-Agent", "CortexFX/"+Version)

	resp, err := client.R().SetContext(ctx).Get("/models")
	if err != nil {
		return fmt.Errorf("probe %s: %w", cfg.ResolvedBackendURL(), err)
	}
	if resp.IsError() {
		body := strings.TrimSpace(resp.String())
		if len(body) > 200 {
			body = body[:200]
		}
		return fmt.Errorf("probe %s: HTTP %d: %s", cfg.ResolvedBackendURL(), resp.StatusCode(), body)
	}
	return nil
}
