package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/khrees2412/hireflow/internal/workflow"
	"github.com/khrees2412/hireflow/pkg/models"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage job postings",
	Long:  "Create, update, view, list and close job postings",
}

var createJobCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job posting",
	Example: `  hireflow job create --title "Frontend Engineer" --recruiter r-1 --skills python,react,node \
    --experience 3 --vacancies 1 --deadline "2025-02-01 18:00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		recruiter, _ := cmd.Flags().GetString("recruiter")
		team, _ := cmd.Flags().GetString("team")
		experience, _ := cmd.Flags().GetInt("experience")
		skills, _ := cmd.Flags().GetString("skills")
		relevant, _ := cmd.Flags().GetString("relevant-experience")
		location, _ := cmd.Flags().GetString("location")
		vacancies, _ := cmd.Flags().GetInt("vacancies")

		deadline, err := deadlineFlag(cmd)
		if err != nil {
			return err
		}

		var job *models.JobPosting
		err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
			job, err = application.Service.CreateJob(ctx, workflow.CreateJobCommand{
				Title:              title,
				Description:        description,
				RecruiterID:        recruiter,
				HiringTeam:         splitList(team),
				ExperienceYears:    experience,
				Skills:             splitList(skills),
				RelevantExperience: relevant,
				Location:           location,
				Vacancies:          vacancies,
				Deadline:           deadline,
			})
			return err
		})
		if err != nil {
			return err
		}

		return render(cmd, job, func() {
			cmd.Println(successStyle.Render("✓ Job created"))
			printJob(cmd, job)
		})
	},
}

var updateJobCmd = &cobra.Command{
	Use:   "update <job-id>",
	Short: "Update a job posting",
	Example: `  hireflow job update 6f1c... --vacancies 2
  hireflow job update 6f1c... --team r-2,r-3 --deadline "2025-03-01 18:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		update := workflow.UpdateJobCommand{JobID: args[0]}
		flags := cmd.Flags()
		if flags.Changed("title") {
			v, _ := flags.GetString("title")
			update.Title = &v
		}
		if flags.Changed("description") {
			v, _ := flags.GetString("description")
			update.Description = &v
		}
		if flags.Changed("team") {
			v, _ := flags.GetString("team")
			update.HiringTeam = append([]string{}, splitList(v)...)
		}
		if flags.Changed("experience") {
			v, _ := flags.GetInt("experience")
			update.ExperienceYears = &v
		}
		if flags.Changed("skills") {
			v, _ := flags.GetString("skills")
			update.Skills = append([]string{}, splitList(v)...)
		}
		if flags.Changed("relevant-experience") {
			v, _ := flags.GetString("relevant-experience")
			update.RelevantExperience = &v
		}
		if flags.Changed("location") {
			v, _ := flags.GetString("location")
			update.Location = &v
		}
		if flags.Changed("vacancies") {
			v, _ := flags.GetInt("vacancies")
			update.Vacancies = &v
		}
		if update.Deadline, err = deadlineFlag(cmd); err != nil {
			return err
		}

		var job *models.JobPosting
		err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
			job, err = application.Service.UpdateJob(ctx, update)
			return err
		})
		if err != nil {
			return err
		}

		return render(cmd, job, func() {
			cmd.Println(successStyle.Render("✓ Job updated"))
			printJob(cmd, job)
		})
	},
}

var showJobCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show details of a job posting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		job, err := application.Service.GetJob(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd, job, func() { printJob(cmd, job) })
	},
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List job postings",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		all, _ := cmd.Flags().GetBool("all")
		jobs, err := application.Service.ListJobs(cmd.Context(), all)
		if err != nil {
			return err
		}

		return render(cmd, jobs, func() {
			if len(jobs) == 0 {
				cmd.Println("No jobs found. Create one with 'hireflow job create'")
				return
			}

			cmd.Println(titleStyle.Render("Job Postings"))
			for i, job := range jobs {
				state := fmt.Sprintf("%d open", job.Vacancies)
				if job.Closed {
					state = "closed"
				}
				cmd.Printf("\n%s. %s %s\n", labelStyle.Render(fmt.Sprintf("%d", i+1)), job.Title, mutedStyle.Render("["+state+"]"))
				cmd.Printf("   %s %s\n", labelStyle.Render("ID:"), job.ID)
				cmd.Printf("   %s %s\n", labelStyle.Render("Recruiter:"), job.RecruiterID)
				cmd.Printf("   %s %s\n", labelStyle.Render("Created:"), job.CreatedAt.Local().Format("Jan 2, 2006"))
			}
		})
	},
}

var closeJobCmd = &cobra.Command{
	Use:   "close <job-id>",
	Short: "Close a job posting and every open candidacy under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		reason, _ := cmd.Flags().GetString("reason")
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("Close job %s and notify open candidates", args[0]),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				cmd.Println("Aborted.")
				return nil
			}
		}

		var res *workflow.Result
		err = application.Run(cmd.Context(), func(ctx context.Context) (err error) {
			res, err = application.Service.CloseJob(ctx, workflow.CloseJobCommand{JobID: args[0], Reason: reason})
			return err
		})
		if err != nil {
			return err
		}

		return render(cmd, res, func() {
			cmd.Println(successStyle.Render("✓ Job closed: " + res.Job.Title))
			cmd.Printf("%s %d\n", labelStyle.Render("Candidacies closed:"), len(res.Candidacies))
		})
	},
}

func deadlineFlag(cmd *cobra.Command) (*time.Time, error) {
	if !cmd.Flags().Changed("deadline") {
		return nil, nil
	}
	raw, _ := cmd.Flags().GetString("deadline")
	t, err := parseTime(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(createJobCmd)
	jobCmd.AddCommand(updateJobCmd)
	jobCmd.AddCommand(showJobCmd)
	jobCmd.AddCommand(listJobsCmd)
	jobCmd.AddCommand(closeJobCmd)

	for _, c := range []*cobra.Command{createJobCmd, updateJobCmd} {
		c.Flags().String("title", "", "Job title")
		c.Flags().String("description", "", "Job description")
		c.Flags().String("team", "", "Comma-separated recruiter IDs on the hiring team")
		c.Flags().Int("experience", 0, "Required years of experience")
		c.Flags().String("skills", "", "Comma-separated required skills")
		c.Flags().String("relevant-experience", "", "Relevant experience wanted")
		c.Flags().String("location", "", "Work location")
		c.Flags().Int("vacancies", 1, "Number of open positions")
		c.Flags().String("deadline", "", "Application deadline (\"2006-01-02 15:04\" or RFC3339)")
	}
	createJobCmd.Flags().String("recruiter", "", "Owning recruiter ID")
	createJobCmd.MarkFlagRequired("title")
	createJobCmd.MarkFlagRequired("recruiter")
	createJobCmd.MarkFlagRequired("skills")

	listJobsCmd.Flags().Bool("all", false, "Include closed jobs")

	closeJobCmd.Flags().String("reason", "", "Reason shown to candidates")
	closeJobCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
