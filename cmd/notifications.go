package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"inbox"},
	Short:   "Read notifications sent to a candidate or recruiter",
}

var listNotificationsCmd = &cobra.Command{
	Use:   "list <recipient-id>",
	Short: "List notifications for a recipient",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		unread, _ := cmd.Flags().GetBool("unread")
		items, err := application.Service.ListNotifications(cmd.Context(), args[0], unread)
		if err != nil {
			return err
		}

		return render(cmd, items, func() {
			if len(items) == 0 {
				cmd.Println("No notifications.")
				return
			}
			cmd.Println(titleStyle.Render("Notifications for " + args[0]))
			for _, n := range items {
				printNotification(cmd, n)
			}
		})
	},
}

var readNotificationCmd = &cobra.Command{
	Use:   "read <recipient-id> <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := appFrom(cmd)
		if err != nil {
			return err
		}

		err = application.Run(cmd.Context(), func(ctx context.Context) error {
			return application.Service.MarkNotificationRead(ctx, args[1], args[0])
		})
		if err != nil {
			return err
		}
		cmd.Println(successStyle.Render("✓ Marked as read"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(listNotificationsCmd)
	notificationsCmd.AddCommand(readNotificationCmd)

	listNotificationsCmd.Flags().Bool("unread", false, "Only unread notifications")
}
