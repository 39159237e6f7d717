package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askThread    string
	askPlain     bool
	askStateless bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question",
	Long: `Ask a question. By default the answer is checked for grounding and
corrected once with extra retrieval when needed. --plain skips the check,
--stateless also skips conversation memory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if askPlain && askStateless {
			return fmt.Errorf("--plain and --stateless are mutually exclusive")
		}
		question := strings.Join(args, " ")
		c := newClient()
		out := cmd.OutOrStdout()

		if askStateless {
			ans, err := c.Ask(cmd.Context(), question)
			if err != nil {
				return err
			}
			return render(out, output, ans, func(w io.Writer) { writeRetrievedAnswer(w, ans) })
		}

		ask := c.Corrective
		if askPlain {
			ask = c.Chat
		}
		ans, err := ask(cmd.Context(), askThread, question)
		if err != nil {
			return err
		}
		return render(out, output, ans, func(w io.Writer) { writeAnswer(w, ans) })
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askThread, "thread", "t", "", "Conversation thread id (default thread when empty)")
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "Single pass answer without grounding evaluation")
	askCmd.Flags().BoolVar(&askStateless, "stateless", false, "Single pass answer without conversation memory")
}
