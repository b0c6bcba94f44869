package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/captionset/backend/internal/models"
	"github.com/spf13/cobra"
)

func newByLanguageCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "by-language <name|code>",
		Short: "List captions written in one language",
		Long:  `List the caption rows of both tables written in one language, with the image each row points to.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := c.dataset.Service.RecordsByLanguage(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SOURCE\tTIMESTAMP\tIMAGE\tEXISTS\tCAPTION")
			for _, record := range records {
				path := c.imagePath(record.Source, record.Filename)
				_, statErr := os.Stat(path)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", record.Source, record.Timestamp, path, statErr == nil, record.Caption)
			}
			return tw.Flush()
		},
	}
}

func newLanguagesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages a caption can be written in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, language := range c.dataset.Service.Languages() {
				fmt.Fprintf(tw, "%s\t%s\n", language.Code, language.Name)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) imagePath(kind models.StoreKind, filename string) string {
	if kind == models.StoreKindCaptioned {
		return filepath.Join(c.cfg.Storage.CaptionedImagesDir(), filename)
	}
	return filepath.Join(c.cfg.Storage.UploadedImagesDir(), filename)
}
