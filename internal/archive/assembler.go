// Package archive packages the stored images and metadata tables into a single zip file
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/captionset/backend/internal/models"
	"go.uber.org/zap"
)

const (
	// UploadedFolder is the archive folder holding uploaded images
	UploadedFolder = "uploaded_images"
	// CaptionedFolder is the archive folder holding captioned images
	CaptionedFolder = "captioned_images"
	// MetadataFolder is the archive folder holding the metadata tables
	MetadataFolder = "metadata"
	// UploadedTable is the file name of the uploaded-image metadata table
	UploadedTable = "image_metadata.csv"
	// CaptionedTable is the file name of the captioned-image metadata table
	CaptionedTable = "captioned_metadata.csv"
)

// ImageRepository is the read side of an image folder
type ImageRepository interface {
	List() ([]string, error)
	Read(filename string) ([]byte, error)
}

// MetadataStore is the read side of a metadata table
type MetadataStore interface {
	// Snapshot returns the parsed rows and the exact table bytes they were parsed from
	Snapshot(ctx context.Context) ([]models.CaptionRecord, []byte, error)
}

// Source is one image folder together with its metadata table
type Source struct {
	Folder     string
	TableName  string
	Repository ImageRepository
	Store      MetadataStore
}

// Assembler builds dataset archives
type Assembler struct {
	sources []Source
	logger  *zap.Logger
}

// NewAssembler creates an assembler over the uploaded and captioned sources
func NewAssembler(uploaded, captioned Source, logger *zap.Logger) *Assembler {
	return &Assembler{
		sources: []Source{uploaded, captioned},
		logger:  logger,
	}
}

// Build returns the archive as a byte slice
func (a *Assembler) Build(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.WriteTo(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo streams the archive to w.
//
// Every image file of each source is stored under its folder, and each metadata table is stored
// under metadata/ exactly as it is on disk. Rows and files are not cross-checked: an image without
// a row and a row without an image are both exported.
// A store that fails to parse aborts the export with models.ErrCorruptStore.
func (a *Assembler) WriteTo(ctx context.Context, w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, src := range a.sources {
		if err := a.writeImages(ctx, zw, src); err != nil {
			zw.Close()
			return err
		}
	}

	for _, src := range a.sources {
		if err := a.writeTable(ctx, zw, src); err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

func (a *Assembler) writeImages(ctx context.Context, zw *zip.Writer, src Source) error {
	names, err := src.Repository.List()
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", src.Folder, err)
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := src.Repository.Read(name)
		if err != nil {
			return fmt.Errorf("failed to read %s/%s: %w", src.Folder, name, err)
		}
		if err := writeEntry(zw, path.Join(src.Folder, name), data); err != nil {
			return err
		}
	}

	a.logger.Debug("archived image folder", zap.String("folder", src.Folder), zap.Int("files", len(names)))
	return nil
}

func (a *Assembler) writeTable(ctx context.Context, zw *zip.Writer, src Source) error {
	records, data, err := src.Store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src.TableName, err)
	}
	if err := writeEntry(zw, path.Join(MetadataFolder, src.TableName), data); err != nil {
		return err
	}

	a.logger.Debug("archived metadata table", zap.String("table", src.TableName), zap.Int("rows", len(records)))
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", name, err)
	}
	return nil
}

// ArchiveName returns the download file name for an archive built at t
func ArchiveName(t time.Time) string {
	return fmt.Sprintf("image_dataset_%s.zip", t.Format("20060102_150405"))
}
