package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khrees2412/hireflow/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}
		cfg := application.Config

		cmd.Println(titleStyle.Render("Configuration"))
		printField(cmd, "Config File", application.ConfigPath)
		printField(cmd, "Database", cfg.DatabasePath)
		printField(cmd, "Shortlist Threshold", fmt.Sprintf("%d", cfg.Workflow.ShortlistThreshold))
		printField(cmd, "Willingness Window", fmt.Sprintf("%d days", cfg.Workflow.WillingnessDays))
		printField(cmd, "Store Timeout", cfg.Store.Timeout.String())
		printField(cmd, "Store Retries", fmt.Sprintf("%d (backoff %s)", cfg.Store.RetryAttempts, cfg.Store.RetryBackoff))
		printField(cmd, "Oracle Provider", cfg.Oracle.Provider)
		printField(cmd, "Oracle Model", cfg.Oracle.Model)
		printField(cmd, "Oracle Timeout", cfg.Oracle.Timeout.String())

		// Show if API keys are configured (but don't show the actual keys)
		printField(cmd, "OpenAI Key", configured(cfg.Oracle.OpenAIKey))
		printField(cmd, "Anthropic Key", configured(cfg.Oracle.AnthropicKey))
		printField(cmd, "Gemini Key", configured(cfg.Oracle.GeminiKey+cfg.Oracle.GeminiKeyFile))
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a configuration value",
	Example: `  hireflow config set workflow.shortlist_threshold 6
  hireflow config set oracle.provider openai
  hireflow config set oracle.openai_key sk-...
  hireflow config set oracle.gemini_key_file ~/.secrets/gemini`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		key := strings.ToLower(strings.TrimSpace(args[0]))
		valid := false
		for _, k := range config.Keys() {
			if k == key {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid key. Must be one of: %s", strings.Join(config.Keys(), ", "))
		}

		if err := config.Set(application.ConfigPath, key, args[1]); err != nil {
			return fmt.Errorf("error updating config: %w", err)
		}
		if _, err := config.Load(application.ConfigPath); err != nil {
			return fmt.Errorf("config saved but no longer valid: %w", err)
		}

		cmd.Println(successStyle.Render("✓ Configuration updated: " + key))
		return nil
	},
}

func configured(value string) string {
	if value != "" {
		return "✓ Configured"
	}
	return "✗ Not configured"
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)
}
