package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/spf13/cobra"
)

var (
	indexID    string
	indexTitle string
	indexURL   string
)

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Add a text file to the vector index",
	Long:  `Read a text file and add it to the server's vector index. The title defaults to the file name.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		title := indexTitle
		if title == "" {
			title = filepath.Base(args[0])
		}

		doc, err := newClient().IndexDocument(cmd.Context(), domain.Document{
			ID:      indexID,
			Title:   title,
			Content: string(content),
			URL:     indexURL,
		})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), output, doc, func(w io.Writer) {
			fmt.Fprintf(w, "indexed %s (%s)\n", doc.ID, doc.Title)
		})
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexID, "id", "", "Document id (generated when empty)")
	indexCmd.Flags().StringVar(&indexTitle, "title", "", "Document title")
	indexCmd.Flags().StringVar(&indexURL, "url", "", "Document URL")
}
