package cmd

import (
	"context"
	"errors"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/khrees2412/hireflow/internal/workflow"
)

const (
	PromptAccept  = "Accept the offer"
	PromptDecline = "Decline the offer"
)

var errBothAnswers = errors.New("use only one of --accept or --decline")

var selectCmd = &cobra.Command{
	Use:   "select <candidacy-id>",
	Short: "Offer the position to a candidacy that passed both rounds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		recruiter, _ := cmd.Flags().GetString("recruiter")
		var res *workflow.Result
		err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
			res, err = application.Service.Select(ctx, workflow.SelectCommand{CandidacyID: args[0], RecruiterID: recruiter})
			return err
		})
		if err != nil {
			return err
		}
		return printResult(cmd, res, "Candidate selected")
	},
}

var confirmCmd = &cobra.Command{
	Use:   "confirm <candidacy-id>",
	Short: "Record the candidate's answer to an offer",
	Example: `  hireflow confirm 9b2e... --accept
  hireflow confirm 9b2e... --decline
  hireflow confirm 9b2e...            # asks interactively`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		accept, _ := cmd.Flags().GetBool("accept")
		decline, _ := cmd.Flags().GetBool("decline")
		switch {
		case accept && decline:
			return errBothAnswers
		case !accept && !decline:
			answer := promptui.Select{
				Label: "Candidate's answer",
				Items: []string{PromptAccept, PromptDecline},
			}
			_, selected, err := answer.Run()
			if err != nil {
				cmd.Println("Aborted.")
				return nil
			}
			accept = selected == PromptAccept
		}

		var res *workflow.Result
		err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
			res, err = application.Service.ConfirmWillingness(ctx, workflow.ConfirmCommand{CandidacyID: args[0], Accept: accept})
			return err
		})
		if err != nil {
			return err
		}

		headline := "Offer declined"
		if accept {
			headline = "Offer accepted"
		}
		if err := printResult(cmd, res, headline); err != nil {
			return err
		}
		if accept && res.Job != nil {
			format, _ := cmd.Flags().GetString("output")
			if format == "" || format == "text" {
				cmd.Printf("%s %d\n", labelStyle.Render("Vacancies left:"), res.Job.Vacancies)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(confirmCmd)

	selectCmd.Flags().String("recruiter", "", "Recruiter to notify (default: job owner)")

	confirmCmd.Flags().Bool("accept", false, "The candidate accepts")
	confirmCmd.Flags().Bool("decline", false, "The candidate declines")
}
