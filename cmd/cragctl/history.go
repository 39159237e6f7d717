package main

import (
	"fmt"
	"io"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/spf13/cobra"
)

var (
	historyThread string
	historyForget bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or forget a conversation thread",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		threadID := domain.NormalizeThreadID(historyThread)
		c := newClient()

		if historyForget {
			if err := c.DeleteThread(cmd.Context(), threadID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "thread %s deleted\n", threadID)
			return nil
		}

		th, err := c.Thread(cmd.Context(), threadID)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), output, th, func(w io.Writer) { writeThread(w, th) })
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&historyThread, "thread", "t", "", "Conversation thread id (default thread when empty)")
	historyCmd.Flags().BoolVar(&historyForget, "forget", false, "Delete the thread instead of printing it")
}
