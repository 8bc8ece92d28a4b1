package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/khrees2412/hireflow/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "hireflow",
	Short: "Recruitment pipeline CLI",
	Long: `Hireflow tracks candidacies from application to hire.
It scores applicants against job postings, books interviews without double booking
recruiters, and records offers and acceptances against open vacancies.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		debug, _ := cmd.Flags().GetBool("debug")

		application, err := app.NewApp(cmd.Context(), app.Options{
			ConfigPath: configPath,
			JSONLogs:   jsonLogs,
			Debug:      debug,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		cmd.SetContext(app.WithApp(cmd.Context(), application))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.hireflow/config.yaml)")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format: text, json or yaml")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(exitCode(err))
	}
}

// run executes the command line and closes the App it built, whether or not the command failed
func run(ctx context.Context, args []string) (*app.App, error) {
	rootCmd.SetArgs(args)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if cmd == nil {
		return nil, err
	}

	application := app.FromContext(cmd.Context())
	if application == nil {
		return nil, err
	}
	if closeErr := application.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close app: %w", closeErr)
	}
	return application, err
}

// appFrom returns the App built by the root command
func appFrom(cmd *cobra.Command) (*app.App, error) {
	application := app.FromContext(cmd.Context())
	if application == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return application, nil
}
