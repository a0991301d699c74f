package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/course-extractor/internal/catalog"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a summary of the exercises in a course corpus",
	Long: `Report scans the corpus like extract but writes nothing to disk. It prints
the number of exercises per part with the first few titles, the split by
difficulty, and how many exercises carry each optional field.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindScanFlags(cmd); err != nil {
			return err
		}
		progress := io.Discard
		if show, _ := cmd.Flags().GetBool("progress"); show {
			progress = os.Stderr
		}
		cat, err := scanCorpus(cmd.Context(), progress)
		if err != nil {
			return err
		}
		return catalog.WriteReport(os.Stdout, cat)
	},
}

func init() {
	addScanFlags(reportCmd)
	reportCmd.Flags().Bool("progress", false, "print per-document progress to stderr")

	rootCmd.AddCommand(reportCmd)
}
