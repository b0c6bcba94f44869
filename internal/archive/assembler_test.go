package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/captionset/backend/internal/models"
	"github.com/captionset/backend/internal/repositories"
	"github.com/captionset/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testDataset struct {
	root      string
	uploaded  Source
	captioned Source
	assembler *Assembler
}

// setupTestDataset creates both folders and both tables under a temporary directory
func setupTestDataset(t *testing.T) *testDataset {
	t.Helper()
	root := t.TempDir()
	logger := zap.NewNop()

	uploaded := Source{
		Folder:     UploadedFolder,
		TableName:  UploadedTable,
		Repository: storage.NewLocalStorage(filepath.Join(root, UploadedFolder)),
		Store:      repositories.NewMetadataRepository(filepath.Join(root, MetadataFolder, UploadedTable), logger),
	}
	captioned := Source{
		Folder:     CaptionedFolder,
		TableName:  CaptionedTable,
		Repository: storage.NewLocalStorage(filepath.Join(root, CaptionedFolder)),
		Store:      repositories.NewMetadataRepository(filepath.Join(root, MetadataFolder, CaptionedTable), logger),
	}

	return &testDataset{
		root:      root,
		uploaded:  uploaded,
		captioned: captioned,
		assembler: NewAssembler(uploaded, captioned, logger),
	}
}

func (d *testDataset) addImage(t *testing.T, folder, name, content string) {
	t.Helper()
	dir := filepath.Join(d.root, folder)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func (d *testDataset) addRecord(t *testing.T, src Source, filename string) {
	t.Helper()
	store := src.Store.(interface {
		Append(ctx context.Context, record *models.CaptionRecord) error
	})
	require.NoError(t, store.Append(context.Background(), &models.CaptionRecord{
		Filename:     filename,
		OriginalName: "orig-" + filename,
		Caption:      "caption, for " + filename,
		Language:     "Hindi",
		LanguageCode: "hi",
		Timestamp:    "2024-01-01 00:00:00",
		FileSize:     10,
	}))
}

// readArchive returns the archive entries keyed by name
func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		_, dup := entries[f.Name]
		require.False(t, dup, "duplicate entry %s", f.Name)

		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[f.Name] = content
	}
	return entries
}

func entryNames(entries map[string][]byte) []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestAssembler_Build_ThreeImagesTwoRows(t *testing.T) {
	d := setupTestDataset(t)
	d.addImage(t, UploadedFolder, "a.jpg", "aaa")
	d.addImage(t, UploadedFolder, "b.png", "bbb")
	d.addImage(t, CaptionedFolder, "a.jpg", "aaa")
	d.addRecord(t, d.uploaded, "a.jpg")
	d.addRecord(t, d.uploaded, "b.png")

	data, err := d.assembler.Build(context.Background())
	require.NoError(t, err)
	entries := readArchive(t, data)

	images := 0
	for name := range entries {
		if strings.HasPrefix(name, UploadedFolder+"/") || strings.HasPrefix(name, CaptionedFolder+"/") {
			images++
		}
	}
	assert.Equal(t, 3, images)
	assert.Equal(t, []byte("bbb"), entries["uploaded_images/b.png"])

	rows, err := csv.NewReader(bytes.NewReader(entries["metadata/image_metadata.csv"])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, repositories.MetadataHeader, rows[0])

	captionedRows, err := csv.NewReader(bytes.NewReader(entries["metadata/captioned_metadata.csv"])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, captionedRows, 1)
}

func TestAssembler_Build_EmptyDataset(t *testing.T) {
	d := setupTestDataset(t)

	data, err := d.assembler.Build(context.Background())
	require.NoError(t, err)
	entries := readArchive(t, data)

	assert.Equal(t, []string{"metadata/captioned_metadata.csv", "metadata/image_metadata.csv"}, entryNames(entries))
	assert.Equal(t, repositories.HeaderOnlyTable(), entries["metadata/image_metadata.csv"])
}

func TestAssembler_Build_NoCrossValidation(t *testing.T) {
	d := setupTestDataset(t)
	// image without a row
	d.addImage(t, UploadedFolder, "orphan.gif", "gif")
	// row without an image
	d.addRecord(t, d.captioned, "missing.jpg")

	data, err := d.assembler.Build(context.Background())
	require.NoError(t, err)
	entries := readArchive(t, data)

	assert.Contains(t, entries, "uploaded_images/orphan.gif")
	assert.Contains(t, string(entries["metadata/captioned_metadata.csv"]), "missing.jpg")
	assert.NotContains(t, entries, "captioned_images/missing.jpg")
}

func TestAssembler_Build_Idempotent(t *testing.T) {
	d := setupTestDataset(t)
	d.addImage(t, UploadedFolder, "a.jpg", "aaa")
	d.addImage(t, CaptionedFolder, "c.bmp", "ccc")
	d.addRecord(t, d.uploaded, "a.jpg")
	d.addRecord(t, d.captioned, "c.bmp")

	first, err := d.assembler.Build(context.Background())
	require.NoError(t, err)
	second, err := d.assembler.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, readArchive(t, first), readArchive(t, second))
}

func TestAssembler_Build_CorruptStore(t *testing.T) {
	d := setupTestDataset(t)
	path := filepath.Join(d.root, MetadataFolder, UploadedTable)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("filename,original_name,caption,language,language_code,timestamp,file_size\na,b,c,d,e,f\n"), 0644))

	data, err := d.assembler.Build(context.Background())

	assert.ErrorIs(t, err, models.ErrCorruptStore)
	assert.Nil(t, data)
}

func TestAssembler_Build_CanceledContext(t *testing.T) {
	d := setupTestDataset(t)
	d.addImage(t, UploadedFolder, "a.jpg", "aaa")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.assembler.Build(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestArchiveName(t *testing.T) {
	at := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

	assert.Equal(t, "image_dataset_20240305_140709.zip", ArchiveName(at))
}
