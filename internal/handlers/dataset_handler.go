package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/captionset/backend/internal/archive"
	"github.com/captionset/backend/internal/models"
	"github.com/captionset/backend/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxMultipartMemory = 32 << 20 // 32MB kept in memory, the rest spills to disk

// DatasetService is the interface that wraps methods for caption collection and export.
type DatasetService interface {
	// Method Languages returns the recognized caption languages in display order.
	Languages() []models.Language
	// Method UploadImage stores an uploaded image and appends its caption row to the uploaded table.
	//
	// "input" carries the original file name, the image content, the caption and a language name or code.
	// A *models.ValidationError is returned for rejected input, models.ErrWrite for storage failures.
	UploadImage(ctx context.Context, input services.UploadInput) (*models.CaptionRecord, error)
	// Method RandomImage picks one uploaded image uniformly at random.
	//
	// models.ErrEmptyRepository is returned when nothing has been uploaded yet.
	RandomImage(ctx context.Context) (string, error)
	// Method CaptionImage appends a caption row for an uploaded image to the captioned table.
	//
	// models.ErrNotFound is returned when the image does not exist in the uploaded folder.
	CaptionImage(ctx context.Context, input services.CaptionInput) (*models.CaptionRecord, error)
	// Method OpenImage opens a stored image of the given kind ("uploaded" or "captioned").
	OpenImage(kind models.StoreKind, filename string) (*os.File, error)
	// Method ListRecords returns every row of one metadata table in insertion order.
	ListRecords(ctx context.Context, kind models.StoreKind) ([]models.CaptionRecord, error)
	// Method RecordsByLanguage returns the rows of both tables written in a language (name or code).
	RecordsByLanguage(ctx context.Context, language string) ([]models.SourcedRecord, error)
	// Method Stats aggregates image and record counts.
	Stats(ctx context.Context) (*models.DatasetStats, error)
	// Method BuildArchive writes the dataset zip archive to "w".
	BuildArchive(ctx context.Context, w io.Writer) error
}

// CaptionRequest is the body of POST /api/v1/captions
type CaptionRequest struct {
	Filename string `json:"filename"`
	Caption  string `json:"caption"`
	Language string `json:"language"`
}

// RandomImageResponse is the body returned by GET /api/v1/images/random
type RandomImageResponse struct {
	Filename string `json:"filename"`
}

// DatasetHandler handles caption dataset HTTP requests
type DatasetHandler struct {
	BaseHandler
	service DatasetService
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(svc DatasetService, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{
		BaseHandler: BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers all dataset handler routes
func (h *DatasetHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/languages", h.GetLanguages)
		r.Route("/images", func(r chi.Router) {
			r.Post("/", h.UploadImage)
			r.Get("/random", h.GetRandomImage)
			r.Get("/{kind}/{filename}", h.GetImage)
		})
		r.Post("/captions", h.CaptionImage)
		r.Route("/records", func(r chi.Router) {
			r.Get("/", h.GetRecordsByLanguage)
			r.Get("/{kind}", h.GetRecords)
		})
		r.Get("/stats", h.GetStats)
		r.Get("/dataset/archive", h.DownloadArchive)
	})
}

// GetLanguages handles GET /api/v1/languages
// @Summary List caption languages
// @Description Get the closed set of languages a caption can be written in
// @Tags languages
// @Produce json
// @Success 200 {array} models.Language
// @Router /api/v1/languages [get]
func (h *DatasetHandler) GetLanguages(w http.ResponseWriter, r *http.Request) {
	h.RespondJSON(w, http.StatusOK, h.service.Languages())
}

// UploadImage handles POST /api/v1/images
// @Summary Upload and caption an image
// @Description Store an image (png, jpg, jpeg, gif, bmp) together with its first caption
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Param caption formData string true "Caption text"
// @Param language formData string true "Language name or code"
// @Success 201 {object} models.CaptionRecord
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/images [post]
func (h *DatasetHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.Logger.Info("failed to parse multipart form", zap.Error(err))
		h.RespondError(w, http.StatusBadRequest, "failed to parse request")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		h.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	record, err := h.service.UploadImage(r.Context(), services.UploadInput{
		OriginalName: fileHeader.Filename,
		Content:      file,
		Caption:      r.FormValue("caption"),
		Language:     r.FormValue("language"),
	})
	if err != nil {
		h.respondServiceError(w, err, "failed to save image")
		return
	}

	h.RespondJSON(w, http.StatusCreated, record)
}

// GetRandomImage handles GET /api/v1/images/random
// @Summary Pick a random uploaded image
// @Description Pick one uploaded image uniformly at random for secondary captioning
// @Tags images
// @Produce json
// @Success 200 {object} RandomImageResponse
// @Failure 404 {object} map[string]string "No images available yet"
// @Failure 500 {object} map[string]string
// @Router /api/v1/images/random [get]
func (h *DatasetHandler) GetRandomImage(w http.ResponseWriter, r *http.Request) {
	filename, err := h.service.RandomImage(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "failed to pick image")
		return
	}

	h.RespondJSON(w, http.StatusOK, RandomImageResponse{Filename: filename})
}

// GetImage handles GET /api/v1/images/{kind}/{filename}
// @Summary Download a stored image
// @Tags images
// @Produce application/octet-stream
// @Param kind path string true "uploaded or captioned"
// @Param filename path string true "Stored file name"
// @Success 200 "Image content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/images/{kind}/{filename} [get]
func (h *DatasetHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	kind := models.StoreKind(chi.URLParam(r, "kind"))
	filename := chi.URLParam(r, "filename")

	file, err := h.service.OpenImage(kind, filename)
	if err != nil {
		h.respondServiceError(w, err, "failed to open image")
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		h.Logger.Error("failed to get file info", zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "failed to open image")
		return
	}

	http.ServeContent(w, r, filename, info.ModTime(), file)
}

// CaptionImage handles POST /api/v1/captions
// @Summary Caption an uploaded image
// @Description Add a caption for an already uploaded image, usually one picked by /images/random
// @Tags captions
// @Accept json
// @Produce json
// @Param request body CaptionRequest true "Caption"
// @Success 201 {object} models.CaptionRecord
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/captions [post]
func (h *DatasetHandler) CaptionImage(w http.ResponseWriter, r *http.Request) {
	var req CaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filename == "" {
		h.RespondError(w, http.StatusBadRequest, "filename is required")
		return
	}

	record, err := h.service.CaptionImage(r.Context(), services.CaptionInput{
		Filename: req.Filename,
		Caption:  req.Caption,
		Language: req.Language,
	})
	if err != nil {
		h.respondServiceError(w, err, "failed to save caption")
		return
	}

	h.RespondJSON(w, http.StatusCreated, record)
}

// GetRecords handles GET /api/v1/records/{kind}
// @Summary List metadata rows
// @Tags records
// @Produce json
// @Param kind path string true "uploaded or captioned"
// @Success 200 {array} models.CaptionRecord
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/records/{kind} [get]
func (h *DatasetHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	kind := models.StoreKind(chi.URLParam(r, "kind"))

	records, err := h.service.ListRecords(r.Context(), kind)
	if err != nil {
		h.respondServiceError(w, err, "failed to read metadata")
		return
	}

	h.RespondJSON(w, http.StatusOK, records)
}

// GetRecordsByLanguage handles GET /api/v1/records?language=
// @Summary List rows of one language
// @Description List rows of both tables written in the given language
// @Tags records
// @Produce json
// @Param language query string true "Language name or code"
// @Success 200 {array} models.SourcedRecord
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/records [get]
func (h *DatasetHandler) GetRecordsByLanguage(w http.ResponseWriter, r *http.Request) {
	language := r.URL.Query().Get("language")
	if language == "" {
		h.RespondError(w, http.StatusBadRequest, "language parameter is required")
		return
	}

	records, err := h.service.RecordsByLanguage(r.Context(), language)
	if err != nil {
		h.respondServiceError(w, err, "failed to read metadata")
		return
	}

	h.RespondJSON(w, http.StatusOK, records)
}

// GetStats handles GET /api/v1/stats
// @Summary Dataset statistics
// @Tags stats
// @Produce json
// @Success 200 {object} models.DatasetStats
// @Failure 500 {object} map[string]string
// @Router /api/v1/stats [get]
func (h *DatasetHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.respondServiceError(w, err, "failed to compute statistics")
		return
	}

	h.RespondJSON(w, http.StatusOK, stats)
}

// DownloadArchive handles GET /api/v1/dataset/archive
// @Summary Download the dataset
// @Description Download every image and both metadata tables as a zip archive
// @Tags dataset
// @Produce application/zip
// @Success 200 "Zip archive"
// @Failure 500 {object} map[string]string
// @Router /api/v1/dataset/archive [get]
func (h *DatasetHandler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.service.BuildArchive(r.Context(), &buf); err != nil {
		h.respondServiceError(w, err, "failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+archive.ArchiveName(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Error("failed to write archive to response", zap.Error(err))
	}
}

// respondServiceError maps service errors to HTTP responses
func (h *DatasetHandler) respondServiceError(w http.ResponseWriter, err error, message string) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		h.RespondError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, models.ErrEmptyRepository):
		h.RespondError(w, http.StatusNotFound, "no images available yet")
	case errors.Is(err, models.ErrNotFound):
		h.RespondError(w, http.StatusNotFound, "image not found")
	case errors.Is(err, models.ErrCorruptStore):
		h.Logger.Error(message, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, "metadata store is corrupt")
	default:
		h.Logger.Error(message, zap.Error(err))
		h.RespondError(w, http.StatusInternalServerError, message)
	}
}
