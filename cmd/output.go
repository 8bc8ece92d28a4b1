package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/internal/workflow"
	"github.com/khrees2412/hireflow/pkg/models"
)

const timeLayout = "2006-01-02 15:04"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

var titleCaser = cases.Title(language.English)

// exitCode maps error kinds to distinct process exit codes
func exitCode(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return 2
	case apperr.KindNotFound:
		return 3
	case apperr.KindInvalidTransition:
		return 4
	case apperr.KindSchedulingConflict:
		return 5
	case apperr.KindInfrastructure:
		return 6
	default:
		return 1
	}
}

// render writes v as JSON or YAML, or calls text for the default format
func render(cmd *cobra.Command, v interface{}, text func()) error {
	format, _ := cmd.Flags().GetString("output")
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		text()
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func statusStyle(status models.Status) lipgloss.Style {
	switch status {
	case models.StatusHired:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	case models.StatusRejected, models.StatusOfferDeclined, models.StatusPositionClosed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	case models.StatusSelected, models.StatusHRPassed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	}
}

// humanize turns snake_case identifiers into title case labels
func humanize(value string) string {
	return titleCaser.String(strings.ReplaceAll(value, "_", " "))
}

func statusLabel(status models.Status) string {
	return statusStyle(status).Render(humanize(string(status)))
}

func printField(cmd *cobra.Command, label, value string) {
	if value == "" {
		return
	}
	cmd.Printf("%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}

// parseTime accepts "2006-01-02 15:04" in local time or RFC3339
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(timeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid time %q, use %q or RFC3339", value, timeLayout)
	}
	return t.UTC(), nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func printJob(cmd *cobra.Command, job *models.JobPosting) {
	cmd.Println(titleStyle.Render(job.Title))
	printField(cmd, "ID", job.ID)
	printField(cmd, "Recruiter", job.RecruiterID)
	printField(cmd, "Hiring Team", strings.Join(job.HiringTeam, ", "))
	printField(cmd, "Experience", fmt.Sprintf("%d years", job.ExperienceYears))
	printField(cmd, "Skills", strings.Join(job.Skills, ", "))
	printField(cmd, "Location", job.Location)
	printField(cmd, "Vacancies", fmt.Sprintf("%d", job.Vacancies))
	printField(cmd, "Deadline", formatTime(job.Deadline))
	if job.Closed {
		printField(cmd, "Closed", "yes")
		printField(cmd, "Close Reason", job.CloseReason)
	}
	if job.Description != "" {
		cmd.Println(labelStyle.Render("\nDescription:"))
		cmd.Println(job.Description)
	}
}

func printCandidacy(cmd *cobra.Command, c *models.Candidacy) {
	cmd.Println(titleStyle.Render(c.CandidateName))
	printField(cmd, "ID", c.ID)
	printField(cmd, "Job", c.JobID)
	printField(cmd, "Candidate", c.CandidateID)
	cmd.Printf("%s %s\n", labelStyle.Render("Status:"), statusLabel(c.Status))
	if c.Score != nil {
		printField(cmd, "Score", fmt.Sprintf("%d/10", *c.Score))
	}
	printField(cmd, "Experience", fmt.Sprintf("%d years", c.ExperienceYears))
	printField(cmd, "Skills", strings.Join(c.Skills, ", "))
	printField(cmd, "Applied", formatTime(&c.AppliedAt))
	printField(cmd, "Technical Interview", formatTime(c.TechnicalInterviewAt))
	printField(cmd, "HR Interview", formatTime(c.HRInterviewAt))
	printField(cmd, "Selected", formatTime(c.SelectedAt))
	printField(cmd, "Respond By", formatTime(c.WillingnessDeadline))
	printField(cmd, "Hired", formatTime(c.HiredAt))
	printField(cmd, "Reason", c.RejectionReason)
}

func printInterview(cmd *cobra.Command, iv *models.Interview) {
	state := "pending"
	switch {
	case iv.SupersededAt != nil:
		state = "superseded"
	case iv.Result != models.ResultUnset:
		state = string(iv.Result)
	}
	cmd.Printf("%s %s interview with %s, %s (%d min) %s\n",
		labelStyle.Render(humanize(string(iv.Kind))),
		iv.CandidateName,
		iv.CreatedBy,
		formatTime(&iv.StartsAt),
		iv.DurationMinutes,
		mutedStyle.Render("["+state+"]"))
	if iv.Link != "" {
		cmd.Printf("   %s %s\n", labelStyle.Render("Link:"), iv.Link)
	}
	if iv.Feedback != "" {
		cmd.Printf("   %s %s\n", labelStyle.Render("Feedback:"), iv.Feedback)
	}
}

func printNotification(cmd *cobra.Command, n *models.Notification) {
	marker := "•"
	if n.Read {
		marker = " "
	}
	cmd.Printf("%s %s %s\n", marker, labelStyle.Render(n.Title), mutedStyle.Render(n.CreatedAt.Local().Format("Jan 2 15:04")))
	cmd.Printf("   %s\n", n.Message)
	if n.InterviewLink != "" {
		cmd.Printf("   %s %s\n", labelStyle.Render("Link:"), n.InterviewLink)
	}
	cmd.Printf("   %s\n", mutedStyle.Render(n.ID))
}

// printResult renders a command result: the candidacy, then who was notified
func printResult(cmd *cobra.Command, res *workflow.Result, headline string) error {
	return render(cmd, res, func() {
		cmd.Println(successStyle.Render("✓ " + headline))
		if res.Candidacy != nil {
			printCandidacy(cmd, res.Candidacy)
		}
		if res.Interview != nil {
			cmd.Println()
			printInterview(cmd, res.Interview)
		}
		if len(res.Notifications) > 0 {
			recipients := make([]string, 0, len(res.Notifications))
			for _, n := range res.Notifications {
				recipients = append(recipients, n.RecipientID)
			}
			cmd.Printf("\n%s %s\n", labelStyle.Render("Notified:"), strings.Join(recipients, ", "))
		}
	})
}

// describeError adds the conflicting booking to scheduling errors
func describeError(err error) error {
	var conflict *apperr.ConflictError
	if errors.As(err, &conflict) && conflict.InterviewID != "" {
		return fmt.Errorf("%w (interview %s)", err, conflict.InterviewID)
	}
	return err
}
