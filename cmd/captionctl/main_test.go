package main

import (
	"archive/zip"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/captionset/backend/internal/app"
	"github.com/captionset/backend/internal/config"
	"github.com/captionset/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// seedDataset uploads one Hindi image and captions it once in English
func seedDataset(t *testing.T) string {
	t.Helper()

	dataDir := t.TempDir()
	dataset := app.NewDataset(config.StorageConfig{DataDir: dataDir}, zap.NewNop())

	record, err := dataset.Service.UploadImage(context.Background(), services.UploadInput{
		OriginalName: "cat.png",
		Content:      strings.NewReader("png-bytes"),
		Caption:      "एक बिल्ली",
		Language:     "Hindi",
	})
	require.NoError(t, err)

	_, err = dataset.Service.CaptionImage(context.Background(), services.CaptionInput{
		Filename: record.Filename,
		Caption:  "a cat",
		Language: "English",
	})
	require.NoError(t, err)

	return dataDir
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatsCmd(t *testing.T) {
	dataDir := seedDataset(t)

	out, err := runCommand(t, "stats", "--data-dir", dataDir)
	require.NoError(t, err)

	assert.Contains(t, out, "Uploaded images:   1")
	assert.Contains(t, out, "Captioned images:  1")
	assert.Contains(t, out, "Total images:      2")
	assert.Contains(t, out, "Languages:         2")
	assert.Contains(t, out, "  English: 1")
	assert.Contains(t, out, "  Hindi: 1")
}

func TestExportCmd(t *testing.T) {
	dataDir := seedDataset(t)
	output := filepath.Join(t.TempDir(), "dataset.zip")

	out, err := runCommand(t, "export", "--data-dir", dataDir, "-o", output)
	require.NoError(t, err)
	assert.Equal(t, output+"\n", out)

	zr, err := zip.OpenReader(output)
	require.NoError(t, err)
	defer zr.Close()
	assert.Len(t, zr.File, 4)
}

func TestByLanguageCmd(t *testing.T) {
	dataDir := seedDataset(t)

	tests := []struct {
		name        string
		language    string
		contains    []string
		notContains []string
		expectedErr bool
	}{
		{
			name:        "by name",
			language:    "English",
			contains:    []string{"captioned", "a cat", "true"},
			notContains: []string{"एक बिल्ली"},
		},
		{
			name:     "by code",
			language: "hi",
			contains: []string{"uploaded", "एक बिल्ली", filepath.Join(dataDir, "uploaded_images")},
		},
		{
			name:        "unknown language",
			language:    "Klingon",
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, "by-language", tt.language, "--data-dir", dataDir)
			if tt.expectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestLanguagesCmd(t *testing.T) {
	out, err := runCommand(t, "languages", "--data-dir", t.TempDir())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 23)
	assert.Contains(t, out, "Hindi")
}
