// Package app wires storage, metadata tables, the archive assembler and the HTTP router together.
package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/captionset/backend/internal/archive"
	"github.com/captionset/backend/internal/config"
	"github.com/captionset/backend/internal/handlers"
	"github.com/captionset/backend/internal/middleware"
	"github.com/captionset/backend/internal/repositories"
	"github.com/captionset/backend/internal/services"
	"github.com/captionset/backend/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Dataset groups the components that operate on one data directory
type Dataset struct {
	Service handlers.DatasetService
}

// NewDataset builds the dataset components rooted at cfg.DataDir
func NewDataset(cfg config.StorageConfig, logger *zap.Logger) *Dataset {
	uploadedImages := storage.NewLocalStorage(cfg.UploadedImagesDir())
	captionedImages := storage.NewLocalStorage(cfg.CaptionedImagesDir())

	uploadedTable := repositories.NewMetadataRepository(cfg.UploadedMetadataPath(), logger)
	captionedTable := repositories.NewMetadataRepository(cfg.CaptionedMetadataPath(), logger)

	assembler := archive.NewAssembler(
		archive.Source{
			Folder:     archive.UploadedFolder,
			TableName:  archive.UploadedTable,
			Repository: uploadedImages,
			Store:      uploadedTable,
		},
		archive.Source{
			Folder:     archive.CaptionedFolder,
			TableName:  archive.CaptionedTable,
			Repository: captionedImages,
			Store:      captionedTable,
		},
		logger,
	)

	service := services.NewDatasetService(
		services.Stores{Images: uploadedImages, Metadata: uploadedTable},
		services.Stores{Images: captionedImages, Metadata: captionedTable},
		assembler,
		logger,
	)

	return &Dataset{Service: service}
}

// NewRouter builds the HTTP router with the shared middleware chain
func NewRouter(cfg *config.Config, svc handlers.DatasetService, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))
	r.Use(middleware.RequestSizeLimit(cfg.MaxUploadSize()))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Get("/health", handlers.HealthHandler)

	handlers.NewDatasetHandler(svc, logger).RegisterRoutes(r)

	return r
}
