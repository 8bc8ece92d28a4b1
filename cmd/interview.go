package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/internal/workflow"
	"github.com/khrees2412/hireflow/pkg/models"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <candidacy-id>",
	Short: "Book an interview for a candidacy",
	Example: `  hireflow schedule 9b2e... --kind technical --recruiter r-1 --at "2025-01-10 14:00" --duration 60 \
    --platform meet --link https://meet.example.com/abc`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchedule(cmd, args[0], false)
	},
}

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule <candidacy-id>",
	Short: "Move the pending interview of a kind to a new slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchedule(cmd, args[0], true)
	},
}

var resultCmd = &cobra.Command{
	Use:   "result <candidacy-id>",
	Short: "Record the outcome of the pending interview",
	Example: `  hireflow result 9b2e... --kind technical --passed
  hireflow result 9b2e... --kind hr --failed --feedback "salary expectations"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		kind, err := kindFlag(cmd)
		if err != nil {
			return err
		}
		passed, _ := cmd.Flags().GetBool("passed")
		failed, _ := cmd.Flags().GetBool("failed")
		if passed == failed {
			return apperr.Validation("exactly one of --passed or --failed is required")
		}
		feedback, _ := cmd.Flags().GetString("feedback")

		var res *workflow.Result
		err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
			res, err = application.Service.RecordResult(ctx, workflow.RecordResultCommand{
				CandidacyID: args[0],
				Kind:        kind,
				Passed:      passed,
				Feedback:    feedback,
			})
			return err
		})
		if err != nil {
			return err
		}
		return printResult(cmd, res, fmt.Sprintf("%s interview result recorded", humanize(string(kind))))
	},
}

var showInterviewCmd = &cobra.Command{
	Use:   "interview <interview-id>",
	Short: "Show an interview slot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		iv, err := application.Service.GetInterview(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, iv, func() {
			printInterview(cmd, iv)
			printField(cmd, "Candidacy", iv.CandidacyID)
			printField(cmd, "Platform", iv.Platform)
		})
	},
}

func runSchedule(cmd *cobra.Command, candidacyID string, reschedule bool) error {
	application, err := appFrom(cmd)
	if err != nil {
		return err
	}

	kind, err := kindFlag(cmd)
	if err != nil {
		return err
	}
	at, _ := cmd.Flags().GetString("at")
	startsAt, err := parseTime(at)
	if err != nil {
		return err
	}
	recruiter, _ := cmd.Flags().GetString("recruiter")
	duration, _ := cmd.Flags().GetInt("duration")
	platform, _ := cmd.Flags().GetString("platform")
	link, _ := cmd.Flags().GetString("link")

	command := workflow.ScheduleCommand{
		CandidacyID:     candidacyID,
		RecruiterID:     recruiter,
		Kind:            kind,
		StartsAt:        startsAt,
		DurationMinutes: duration,
		Platform:        platform,
		Link:            link,
	}

	var res *workflow.Result
	err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
		if reschedule {
			res, err = application.Service.Reschedule(ctx, command)
		} else {
			res, err = application.Service.Schedule(ctx, command)
		}
		return err
	})
	if err != nil {
		return describeError(err)
	}

	headline := "Interview scheduled"
	if reschedule {
		headline = "Interview rescheduled"
	}
	return printResult(cmd, res, headline)
}

func kindFlag(cmd *cobra.Command) (models.InterviewKind, error) {
	raw, _ := cmd.Flags().GetString("kind")
	kind := models.InterviewKind(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.IsValid() {
		return "", apperr.Validation("--kind must be technical or hr, got %q", raw)
	}
	return kind, nil
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(rescheduleCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(showInterviewCmd)

	for _, c := range []*cobra.Command{scheduleCmd, rescheduleCmd} {
		c.Flags().String("kind", "technical", "Interview kind: technical or hr")
		c.Flags().String("recruiter", "", "Recruiter ID conducting the interview")
		c.Flags().String("at", "", "Start time (\"2006-01-02 15:04\" or RFC3339)")
		c.Flags().Int("duration", 60, "Duration in minutes")
		c.Flags().String("platform", "", "Meeting platform")
		c.Flags().String("link", "", "Meeting link")
		c.MarkFlagRequired("recruiter")
		c.MarkFlagRequired("at")
	}

	resultCmd.Flags().String("kind", "technical", "Interview kind: technical or hr")
	resultCmd.Flags().Bool("passed", false, "The candidate passed")
	resultCmd.Flags().Bool("failed", false, "The candidate failed")
	resultCmd.Flags().String("feedback", "", "Interview feedback")
}
