package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/captionset/backend/internal/models"
	"github.com/captionset/backend/internal/storage"
	"go.uber.org/zap"
)

// ImageStorage defines the interface for one image folder
type ImageStorage interface {
	// Store writes the content of r under filename and returns the number of bytes written
	Store(filename string, r io.Reader) (int64, error)

	// Open opens a file for reading; models.ErrNotFound if it is absent
	Open(filename string) (*os.File, error)

	// Exists reports whether filename is present
	Exists(filename string) bool

	// List returns the names of all files in the folder
	List() ([]string, error)

	// Delete removes a file
	Delete(filename string) error
}

// MetadataRepository defines the interface for one append-only metadata table
type MetadataRepository interface {
	Append(ctx context.Context, record *models.CaptionRecord) error
	ReadAll(ctx context.Context) ([]models.CaptionRecord, error)
	Count(ctx context.Context) (int, error)
}

// ArchiveBuilder streams a dataset archive
type ArchiveBuilder interface {
	WriteTo(ctx context.Context, w io.Writer) error
}

// Stores pairs an image folder with its metadata table
type Stores struct {
	Images   ImageStorage
	Metadata MetadataRepository
}

// UploadInput is an image uploaded together with its first caption
type UploadInput struct {
	OriginalName string
	Content      io.Reader
	Caption      string
	Language     string
}

// CaptionInput is a new caption for an already uploaded image
type CaptionInput struct {
	Filename string
	Caption  string
	Language string
}

// datasetService handles business logic for collecting and exporting captions
type datasetService struct {
	uploaded  Stores
	captioned Stores
	archive   ArchiveBuilder
	logger    *zap.Logger
	now       func() time.Time
}

// NewDatasetService creates a new dataset service
func NewDatasetService(uploaded, captioned Stores, archive ArchiveBuilder, logger *zap.Logger) *datasetService {
	return &datasetService{
		uploaded:  uploaded,
		captioned: captioned,
		archive:   archive,
		logger:    logger,
		now:       time.Now,
	}
}

// Languages returns the recognized caption languages in display order
func (s *datasetService) Languages() []models.Language {
	return models.Languages
}

// UploadImage stores a new image in the uploaded folder and records its caption.
//
// The stored file is removed again if its metadata row cannot be written.
func (s *datasetService) UploadImage(ctx context.Context, input UploadInput) (*models.CaptionRecord, error) {
	caption, language, err := validateCaption(input.Caption, input.Language)
	if err != nil {
		return nil, err
	}
	if !models.IsAcceptedImage(input.OriginalName) {
		return nil, &models.ValidationError{
			Field:   "file",
			Message: "unsupported image format, expected one of png, jpg, jpeg, gif, bmp",
		}
	}
	if input.Content == nil {
		return nil, &models.ValidationError{Field: "file", Message: "file is required"}
	}

	filename := storage.GenerateFileName(input.OriginalName)

	size, err := s.uploaded.Images.Store(filename, input.Content)
	if err != nil {
		s.logger.Error("failed to store uploaded image", zap.String("filename", filename), zap.Error(err))
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	record := &models.CaptionRecord{
		Filename:     filename,
		OriginalName: input.OriginalName,
		Caption:      caption,
		Language:     language.Name,
		LanguageCode: language.Code,
		Timestamp:    models.FormatTimestamp(s.now()),
		FileSize:     size,
	}

	if err := s.uploaded.Metadata.Append(ctx, record); err != nil {
		if delErr := s.uploaded.Images.Delete(filename); delErr != nil {
			s.logger.Warn("failed to remove image after metadata failure", zap.String("filename", filename), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	s.logger.Info("image uploaded",
		zap.String("filename", filename),
		zap.String("original_name", input.OriginalName),
		zap.String("language", language.Code),
		zap.Int64("size", size),
	)
	return record, nil
}

// RandomImage picks one uploaded image uniformly at random.
// Returns models.ErrEmptyRepository when nothing has been uploaded yet.
func (s *datasetService) RandomImage(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return storage.PickRandom(s.uploaded.Images, nil)
}

// CaptionImage records an additional caption for an uploaded image.
//
// The image is copied into the captioned folder the first time it is captioned; later captions only
// add rows. The uploaded copy is never modified.
func (s *datasetService) CaptionImage(ctx context.Context, input CaptionInput) (*models.CaptionRecord, error) {
	caption, language, err := validateCaption(input.Caption, input.Language)
	if err != nil {
		return nil, err
	}
	if !s.uploaded.Images.Exists(input.Filename) {
		return nil, fmt.Errorf("image %s: %w", input.Filename, models.ErrNotFound)
	}

	if !s.captioned.Images.Exists(input.Filename) {
		if err := s.copyToCaptioned(input.Filename); err != nil {
			s.logger.Error("failed to copy image to captioned folder", zap.String("filename", input.Filename), zap.Error(err))
			return nil, err
		}
	}

	record := &models.CaptionRecord{
		Filename:     input.Filename,
		Caption:      caption,
		Language:     language.Name,
		LanguageCode: language.Code,
		Timestamp:    models.FormatTimestamp(s.now()),
	}
	if err := s.captioned.Metadata.Append(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	s.logger.Info("image captioned", zap.String("filename", input.Filename), zap.String("language", language.Code))
	return record, nil
}

func (s *datasetService) copyToCaptioned(filename string) error {
	src, err := s.uploaded.Images.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	if _, err := s.captioned.Images.Store(filename, src); err != nil {
		return fmt.Errorf("failed to copy image: %w", err)
	}
	return nil
}

// OpenImage opens a stored image of the given kind for display
func (s *datasetService) OpenImage(kind models.StoreKind, filename string) (*os.File, error) {
	stores, err := s.stores(kind)
	if err != nil {
		return nil, err
	}
	return stores.Images.Open(filename)
}

// ListRecords returns every row of one metadata table in insertion order
func (s *datasetService) ListRecords(ctx context.Context, kind models.StoreKind) ([]models.CaptionRecord, error) {
	stores, err := s.stores(kind)
	if err != nil {
		return nil, err
	}
	records, err := stores.Metadata.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s metadata: %w", kind, err)
	}
	return records, nil
}

// RecordsByLanguage returns the rows of both tables written in the given language.
// language may be a language name or its code.
func (s *datasetService) RecordsByLanguage(ctx context.Context, language string) ([]models.SourcedRecord, error) {
	lang, ok := models.ResolveLanguage(language)
	if !ok {
		return nil, &models.ValidationError{Field: "language", Message: fmt.Sprintf("unsupported language %q", language)}
	}

	result := []models.SourcedRecord{}
	for _, kind := range models.StoreKinds {
		records, err := s.ListRecords(ctx, kind)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			if record.LanguageCode == lang.Code || strings.EqualFold(record.Language, lang.Name) {
				result = append(result, models.SourcedRecord{CaptionRecord: record, Source: kind})
			}
		}
	}
	return result, nil
}

// Stats aggregates image and record counts over both folders and tables
func (s *datasetService) Stats(ctx context.Context) (*models.DatasetStats, error) {
	stats := &models.DatasetStats{LanguageDistribution: map[string]int{}}

	for _, kind := range models.StoreKinds {
		stores, err := s.stores(kind)
		if err != nil {
			return nil, err
		}

		images, err := countImages(stores.Images)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s images: %w", kind, err)
		}
		records, err := s.ListRecords(ctx, kind)
		if err != nil {
			return nil, err
		}

		switch kind {
		case models.StoreKindUploaded:
			stats.UploadedImages = images
			stats.UploadedRecords = len(records)
		case models.StoreKindCaptioned:
			stats.CaptionedImages = images
			stats.CaptionedRecords = len(records)
		}

		for _, record := range records {
			stats.LanguageDistribution[record.Language]++
		}
	}

	stats.TotalImages = stats.UploadedImages + stats.CaptionedImages
	stats.Languages = len(stats.LanguageDistribution)
	return stats, nil
}

// BuildArchive writes the complete dataset archive to w
func (s *datasetService) BuildArchive(ctx context.Context, w io.Writer) error {
	if err := s.archive.WriteTo(ctx, w); err != nil {
		s.logger.Error("failed to build dataset archive", zap.Error(err))
		return fmt.Errorf("failed to build archive: %w", err)
	}
	return nil
}

func (s *datasetService) stores(kind models.StoreKind) (Stores, error) {
	switch kind {
	case models.StoreKindUploaded:
		return s.uploaded, nil
	case models.StoreKindCaptioned:
		return s.captioned, nil
	default:
		return Stores{}, &models.ValidationError{Field: "kind", Message: fmt.Sprintf("invalid image kind %q", kind)}
	}
}

func countImages(images ImageStorage) (int, error) {
	names, err := images.List()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, name := range names {
		if models.IsAcceptedImage(name) {
			count++
		}
	}
	return count, nil
}

// validateCaption checks the caption text and resolves the language by name or code.
// The caption is returned with its line breaks normalized to LF, the form the metadata tables keep.
func validateCaption(caption, language string) (string, models.Language, error) {
	caption = models.NormalizeNewlines(caption)
	if strings.TrimSpace(caption) == "" {
		return "", models.Language{}, &models.ValidationError{Field: "caption", Message: "caption is required"}
	}
	lang, ok := models.ResolveLanguage(language)
	if !ok {
		return "", models.Language{}, &models.ValidationError{Field: "language", Message: fmt.Sprintf("unsupported language %q", language)}
	}
	return caption, lang, nil
}
