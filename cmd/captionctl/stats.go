package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print image and caption counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := c.dataset.Service.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded images:   %d\n", stats.UploadedImages)
			fmt.Fprintf(out, "Captioned images:  %d\n", stats.CaptionedImages)
			fmt.Fprintf(out, "Total images:      %d\n", stats.TotalImages)
			fmt.Fprintf(out, "Uploaded records:  %d\n", stats.UploadedRecords)
			fmt.Fprintf(out, "Captioned records: %d\n", stats.CaptionedRecords)
			fmt.Fprintf(out, "Languages:         %d\n", stats.Languages)

			languages := make([]string, 0, len(stats.LanguageDistribution))
			for language := range stats.LanguageDistribution {
				languages = append(languages, language)
			}
			sort.Strings(languages)
			for _, language := range languages {
				fmt.Fprintf(out, "  %s: %d\n", language, stats.LanguageDistribution[language])
			}
			return nil
		},
	}
}
