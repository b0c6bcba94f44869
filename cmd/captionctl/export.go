package main

import (
	"fmt"
	"os"
	"time"

	"github.com/captionset/backend/internal/archive"
	"github.com/captionset/backend/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dataset zip archive",
		Long:  `Write both image folders and both metadata tables into one zip archive.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = archive.ArchiveName(time.Now())
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}

			if err := c.dataset.Service.BuildArchive(cmd.Context(), file); err != nil {
				file.Close()
				os.Remove(output)
				return err
			}
			if err := file.Close(); err != nil {
				os.Remove(output)
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			logger.Logger.Info("dataset exported", zap.String("path", output))
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default is image_dataset_<timestamp>.zip)")
	return cmd
}
