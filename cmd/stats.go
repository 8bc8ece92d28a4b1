package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khrees2412/hireflow/pkg/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats <job-id>",
	Short: "View the pipeline of a job posting",
	Long:  "Count the candidacies of a job posting per lifecycle status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		stats, err := application.Service.PipelineStats(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		return render(cmd, stats, func() {
			cmd.Println(titleStyle.Render("Pipeline"))
			cmd.Printf("%s %d\n", labelStyle.Render("Candidacies:"), stats.Total)
			cmd.Printf("%s %d\n", labelStyle.Render("Vacancies left:"), stats.Vacancies)

			if stats.Total == 0 {
				cmd.Println("\nNo applications yet.")
				return
			}

			cmd.Printf("\n%s\n", labelStyle.Render("Status Breakdown"))
			for _, status := range models.AllStatuses {
				count := stats.ByStatus[status]
				if count == 0 {
					continue
				}
				percentage := float64(count) / float64(stats.Total) * 100
				cmd.Printf("  %s: %d (%.1f%%)\n", statusLabel(status), count, percentage)
			}

			hired := stats.ByStatus[models.StatusHired]
			offers := hired + stats.ByStatus[models.StatusSelected] + stats.ByStatus[models.StatusOfferDeclined]
			if offers > 0 {
				cmd.Printf("\n%s\n", labelStyle.Render("Offers"))
				cmd.Printf("  Acceptance Rate: %s\n", fmt.Sprintf("%.1f%%", float64(hired)/float64(offers)*100))
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
