package repositories

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/captionset/backend/internal/models"
	"go.uber.org/zap"
)

// MetadataHeader is the fixed column order of every metadata file
var MetadataHeader = []string{
	"filename",
	"original_name",
	"caption",
	"language",
	"language_code",
	"timestamp",
	"file_size",
}

// metadataRepository is an append-only table of caption records kept in a CSV file.
// Appends are serialized and reads never observe a partially written row.
type metadataRepository struct {
	path   string
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewMetadataRepository creates a metadata repository backed by the CSV file at path.
// The file is created on first append.
func NewMetadataRepository(path string, logger *zap.Logger) *metadataRepository {
	return &metadataRepository{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file location
func (r *metadataRepository) Path() string {
	return r.path
}

// Append writes record as a new row, creating the file with a header row if needed.
// The row is flushed and synced to disk before Append returns.
// Line breaks in text fields are stored as LF; record is updated in place so it equals what ReadAll returns.
func (r *metadataRepository) Append(ctx context.Context, record *models.CaptionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	normalizeRecord(record)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create metadata folder: %w: %w", models.ErrWrite, err)
	}

	file, err := os.OpenFile(r.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open metadata file: %w: %w", models.ErrWrite, err)
	}

	err = r.writeRow(file, record)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close metadata file: %w: %w", models.ErrWrite, closeErr)
	}
	if err != nil {
		r.logger.Error("failed to append metadata row", zap.String("path", r.path), zap.Error(err))
		return err
	}

	return nil
}

func (r *metadataRepository) writeRow(file *os.File, record *models.CaptionRecord) error {
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat metadata file: %w: %w", models.ErrWrite, err)
	}

	writer := csv.NewWriter(file)
	if info.Size() == 0 {
		if err := writer.Write(MetadataHeader); err != nil {
			return fmt.Errorf("failed to write metadata header: %w: %w", models.ErrWrite, err)
		}
	}
	if err := writer.Write(encodeRecord(record)); err != nil {
		return fmt.Errorf("failed to write metadata row: %w: %w", models.ErrWrite, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush metadata row: %w: %w", models.ErrWrite, err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync metadata file: %w: %w", models.ErrWrite, err)
	}
	return nil
}

// ReadAll parses the file top to bottom, preserving insertion order.
// A file that does not exist yet yields an empty slice.
func (r *metadataRepository) ReadAll(ctx context.Context) ([]models.CaptionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.CaptionRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	records, err := r.parse(file)
	if err != nil {
		r.logger.Error("failed to read metadata file", zap.String("path", r.path), zap.Error(err))
		return nil, err
	}
	return records, nil
}

func (r *metadataRepository) parse(src io.Reader) ([]models.CaptionRecord, error) {
	reader := csv.NewReader(src)
	// field counts are checked against the header below to report the offending line
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []models.CaptionRecord{}, nil
	}
	if err != nil {
		return nil, &models.CorruptStoreError{Path: r.path, Line: 1, Err: err}
	}
	columns, err := columnIndex(header)
	if err != nil {
		return nil, &models.CorruptStoreError{Path: r.path, Line: 1, Err: err}
	}

	records := []models.CaptionRecord{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.StartLine
			}
			return nil, &models.CorruptStoreError{Path: r.path, Line: line, Err: err}
		}

		line, _ := reader.FieldPos(0)
		if len(row) != len(header) {
			return nil, &models.CorruptStoreError{
				Path:     r.path,
				Line:     line,
				Expected: len(header),
				Got:      len(row),
			}
		}

		record, err := decodeRecord(row, columns)
		if err != nil {
			return nil, &models.CorruptStoreError{Path: r.path, Line: line, Err: err}
		}
		records = append(records, record)
	}

	return records, nil
}

// Count returns the number of data rows
func (r *metadataRepository) Count(ctx context.Context) (int, error) {
	records, err := r.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Snapshot returns the parsed rows together with the exact file bytes they were parsed from.
// Both come from one read under the read lock, so the bytes never hold a row that was not validated.
// A file that does not exist yet is rendered as a header-only table.
func (r *metadataRepository) Snapshot(ctx context.Context) ([]models.CaptionRecord, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0) {
		data = HeaderOnlyTable()
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	records, err := r.parse(bytes.NewReader(data))
	if err != nil {
		r.logger.Error("failed to read metadata file", zap.String("path", r.path), zap.Error(err))
		return nil, nil, err
	}
	return records, data, nil
}

// HeaderOnlyTable renders an empty metadata table
func HeaderOnlyTable() []byte {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write(MetadataHeader)
	writer.Flush()
	return buf.Bytes()
}

func columnIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, name := range MetadataHeader {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return columns, nil
}

func normalizeRecord(record *models.CaptionRecord) {
	record.Filename = models.NormalizeNewlines(record.Filename)
	record.OriginalName = models.NormalizeNewlines(record.OriginalName)
	record.Caption = models.NormalizeNewlines(record.Caption)
	record.Language = models.NormalizeNewlines(record.Language)
	record.LanguageCode = models.NormalizeNewlines(record.LanguageCode)
	record.Timestamp = models.NormalizeNewlines(record.Timestamp)
}

func encodeRecord(record *models.CaptionRecord) []string {
	fileSize := ""
	if record.FileSize > 0 {
		fileSize = strconv.FormatInt(record.FileSize, 10)
	}
	return []string{
		record.Filename,
		record.OriginalName,
		record.Caption,
		record.Language,
		record.LanguageCode,
		record.Timestamp,
		fileSize,
	}
}

func decodeRecord(row []string, columns map[string]int) (models.CaptionRecord, error) {
	record := models.CaptionRecord{
		Filename:     row[columns["filename"]],
		OriginalName: row[columns["original_name"]],
		Caption:      row[columns["caption"]],
		Language:     row[columns["language"]],
		LanguageCode: row[columns["language_code"]],
		Timestamp:    row[columns["timestamp"]],
	}

	if raw := row[columns["file_size"]]; raw != "" {
		size, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.CaptionRecord{}, fmt.Errorf("invalid file_size %q", raw)
		}
		record.FileSize = size
	}

	return record, nil
}
