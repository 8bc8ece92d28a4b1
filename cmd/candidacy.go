package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khrees2412/hireflow/internal/workflow"
	"github.com/khrees2412/hireflow/pkg/models"
)

var applyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Submit a candidate to a job posting",
	Example: `  hireflow apply 6f1c... --candidate c-42 --name "Ada Lovelace" --experience 4 --skills python,react`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		candidate, _ := cmd.Flags().GetString("candidate")
		name, _ := cmd.Flags().GetString("name")
		experience, _ := cmd.Flags().GetInt("experience")
		skills, _ := cmd.Flags().GetString("skills")
		relevant, _ := cmd.Flags().GetString("relevant-experience")
		education, _ := cmd.Flags().GetString("education")
		projects, _ := cmd.Flags().GetString("projects")

		var res *workflow.Result
		err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
			res, err = application.Service.Apply(ctx, workflow.ApplyCommand{
				JobID:              args[0],
				CandidateID:        candidate,
				CandidateName:      name,
				ExperienceYears:    experience,
				Skills:             splitList(skills),
				RelevantExperience: relevant,
				Education:          education,
				Projects:           projects,
			})
			return err
		})
		if err != nil {
			return err
		}
		return printResult(cmd, res, "Application received")
	},
}

var candidacyCmd = &cobra.Command{
	Use:     "candidacy",
	Aliases: []string{"candidacies"},
	Short:   "Inspect candidacies",
}

var showCandidacyCmd = &cobra.Command{
	Use:   "show <candidacy-id>",
	Short: "Show a candidacy and its interviews",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		c, err := application.Service.GetCandidacy(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		interviews, err := application.Service.ListInterviews(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		view := struct {
			Candidacy  *models.Candidacy   `json:"candidacy" yaml:"candidacy"`
			Interviews []*models.Interview `json:"interviews" yaml:"interviews"`
		}{c, interviews}

		return render(cmd, view, func() {
			printCandidacy(cmd, c)
			if len(interviews) > 0 {
				cmd.Println(labelStyle.Render("\nInterviews:"))
				for _, iv := range interviews {
					printInterview(cmd, iv)
				}
			}
		})
	},
}

var listCandidaciesCmd = &cobra.Command{
	Use:   "list <job-id>",
	Short: "List the candidacies of a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		candidacies, err := application.Service.ListCandidacies(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if status != "" {
			filtered := []*models.Candidacy{}
			for _, c := range candidacies {
				if string(c.Status) == status {
					filtered = append(filtered, c)
				}
			}
			candidacies = filtered
		}

		return render(cmd, candidacies, func() {
			if len(candidacies) == 0 {
				cmd.Println("No candidacies found.")
				return
			}
			cmd.Println(titleStyle.Render("Candidacies"))
			for i, c := range candidacies {
				score := "-"
				if c.Score != nil {
					score = fmt.Sprintf("%d", *c.Score)
				}
				cmd.Printf("%s. %s %s %s\n", labelStyle.Render(fmt.Sprintf("%d", i+1)), c.CandidateName,
					statusLabel(c.Status), mutedStyle.Render("score "+score))
				cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), c.ID)
			}
		})
	},
}

var scoreCandidacyCmd = &cobra.Command{
	Use:   "score <candidacy-id>",
	Short: "Recompute the score of an applied candidacy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var res *workflow.Result
		err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
			res, err = application.Service.ScoreCandidacy(ctx, args[0])
			return err
		})
		if err != nil {
			return err
		}
		return printResult(cmd, res, "Candidacy scored")
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions <candidacy-id>",
	Short: "Draft interview questions for a candidacy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		questions, err := application.Service.InterviewQuestions(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, questions, func() {
			cmd.Println(titleStyle.Render("Interview Questions"))
			for i, q := range questions {
				cmd.Printf("%s %s\n", labelStyle.Render(fmt.Sprintf("%d.", i+1)), q)
			}
		})
	},
}

var shortlistCmd = &cobra.Command{
	Use:   "shortlist <candidacy-id>",
	Short: "Shortlist a candidacy whose score meets the threshold",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var res *workflow.Result
		err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
			res, err = application.Service.Shortlist(ctx, workflow.ShortlistCommand{CandidacyID: args[0]})
			return err
		})
		if err != nil {
			return err
		}
		return printResult(cmd, res, "Candidacy shortlisted")
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject <candidacy-id>",
	Short: "Reject a candidacy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		reason, _ := cmd.Flags().GetString("reason")
		var res *workflow.Result
		err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
			res, err = application.Service.Reject(ctx, workflow.RejectCommand{CandidacyID: args[0], Reason: reason})
			return err
		})
		if err != nil {
			return err
		}
		return printResult(cmd, res, "Candidacy rejected")
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(candidacyCmd)
	rootCmd.AddCommand(shortlistCmd)
	rootCmd.AddCommand(rejectCmd)
	candidacyCmd.AddCommand(showCandidacyCmd)
	candidacyCmd.AddCommand(listCandidaciesCmd)
	candidacyCmd.AddCommand(scoreCandidacyCmd)
	candidacyCmd.AddCommand(questionsCmd)

	applyCmd.Flags().String("candidate", "", "Candidate ID")
	applyCmd.Flags().String("name", "", "Candidate name")
	applyCmd.Flags().Int("experience", 0, "Total years of experience")
	applyCmd.Flags().String("skills", "", "Comma-separated primary skills")
	applyCmd.Flags().String("relevant-experience", "", "Relevant experience")
	applyCmd.Flags().String("education", "", "Education")
	applyCmd.Flags().String("projects", "", "Notable projects")
	applyCmd.MarkFlagRequired("candidate")
	applyCmd.MarkFlagRequired("name")
	applyCmd.MarkFlagRequired("skills")

	listCandidaciesCmd.Flags().String("status", "", "Only show candidacies in this status")

	rejectCmd.Flags().String("reason", "", "Reason shown to the candidate")
}
