package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/firstclassrl/pixel-pdf-service/assets"
	apperrors "github.com/firstclassrl/pixel-pdf-service/errors"
	"github.com/firstclassrl/pixel-pdf-service/models"
	"github.com/firstclassrl/pixel-pdf-service/notify"
	"github.com/firstclassrl/pixel-pdf-service/repository"
	"github.com/firstclassrl/pixel-pdf-service/storage"
	"github.com/firstclassrl/pixel-pdf-service/utils"
)

// InlineFileName is the attachment name used when streaming the PDF back.
const InlineFileName = "listino.pdf"

var (
	rendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_renders_total",
			Help: "Total price-list PDF renders by outcome",
		},
		[]string{"outcome"},
	)

	renderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pdf_render_duration_seconds",
			Help:    "End-to-end PDF render duration",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
	)

	imageFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pdf_image_resolution_failures_total",
			Help: "Product image placeholders that failed every candidate",
		},
	)
)

// PDFService runs the full pipeline: build the document, render it through
// the browser, validate the artifact, and deliver it inline or via upload.
type PDFService struct {
	renderer      Renderer
	store         storage.Storage                // nil when no storage backend is configured
	notifier      *notify.WebhookNotifier        // nil when no webhook endpoint is configured
	renderLog     repository.RenderLogRepository // nil when auditing is disabled
	logo          *assets.Logo
	assetBaseURL  string
	defaultBucket string
	logger        *slog.Logger
}

// NewPDFService wires the pipeline. store, notifier and renderLog are
// optional; a nil store makes upload-mode requests fail fast.
func NewPDFService(
	renderer Renderer,
	store storage.Storage,
	notifier *notify.WebhookNotifier,
	renderLog repository.RenderLogRepository,
	logo *assets.Logo,
	assetBaseURL string,
	defaultBucket string,
	logger *slog.Logger,
) *PDFService {
	return &PDFService{
		renderer:      renderer,
		store:         store,
		notifier:      notifier,
		renderLog:     renderLog,
		logo:          logo,
		assetBaseURL:  assetBaseURL,
		defaultBucket: defaultBucket,
		logger:        logger,
	}
}

// Generate renders a price list into a validated PDF artifact.
func (s *PDFService) Generate(ctx context.Context, req *models.GenerateRequest) (*models.RenderResult, error) {
	started := time.Now()

	html, err := BuildPriceListHTML(req.PriceListData, BuildOptions{
		PrintByCategory:   req.PrintByCategory,
		GroupedByCategory: req.GroupedByCategory,
		CategoryOrder:     req.CategoryOrder,
		AssetBaseURL:      s.assetBaseURL,
		Logo:              s.logo,
	})
	if err != nil {
		rendersTotal.WithLabelValues("build_error").Inc()
		return nil, apperrors.Pipeline("DOCUMENT_BUILD_FAILED", "failed to build price list document", err)
	}

	output, err := s.renderer.Render(ctx, html)
	if err != nil {
		rendersTotal.WithLabelValues("render_error").Inc()
		return nil, pipelineError(err)
	}

	if err := ValidatePDF(output.PDF); err != nil {
		rendersTotal.WithLabelValues("invalid_output").Inc()
		return nil, pipelineError(err)
	}

	elapsed := time.Since(started)
	renderDuration.Observe(elapsed.Seconds())
	rendersTotal.WithLabelValues("success").Inc()
	if failed := models.CountImageFailures(output.Images); failed > 0 {
		imageFailuresTotal.Add(float64(failed))
	}

	s.logger.Info("pdf generated",
		slog.String("price_list", req.PriceListData.Name),
		slog.Int("items", len(req.PriceListData.Items)),
		slog.Int("bytes", len(output.PDF)),
		slog.Duration("duration", elapsed),
	)

	return &models.RenderResult{
		PDF:      output.PDF,
		FileName: InlineFileName,
		Images:   output.Images,
	}, nil
}

// GenerateAndUpload renders the price list and uploads the validated PDF to
// the given bucket, then best-effort notifies the webhook and writes the
// audit record. Storage must be configured before any rendering work starts.
func (s *PDFService) GenerateAndUpload(ctx context.Context, req *models.GenerateUploadRequest) (*models.UploadResult, error) {
	if s.store == nil {
		return nil, apperrors.NotConfigured("storage credentials are not configured for upload mode")
	}

	started := time.Now()
	result, err := s.Generate(ctx, &req.GenerateRequest)
	if err != nil {
		return nil, err
	}

	bucket := req.BucketName
	if bucket == "" {
		bucket = s.defaultBucket
	}

	fileName := utils.BuildPDFFileName(req.PriceListData.Name, time.Now().UTC())
	obj, err := s.store.Upload(ctx, bucket, fileName, result.PDF, "application/pdf")
	if err != nil {
		rendersTotal.WithLabelValues("upload_error").Inc()
		return nil, apperrors.Pipeline("STORAGE_UPLOAD_FAILED", "failed to store the generated pdf",
			fmt.Errorf("%w: %v", ErrUploadFailed, err))
	}
	if obj.PublicURL == "" {
		return nil, apperrors.Pipeline("PUBLIC_URL_MISSING", "uploaded pdf has no public url", ErrPublicURLUnavailable)
	}

	s.notifyWebhook(ctx, req, obj)
	s.audit(ctx, &repository.RenderLogEntry{
		PriceListName: req.PriceListData.Name,
		FileName:      fileName,
		Destination:   "upload",
		Bucket:        obj.Bucket,
		FileSize:      int(obj.Size),
		DurationMs:    time.Since(started).Milliseconds(),
		FailedImages:  models.CountImageFailures(result.Images),
		CreatedAt:     time.Now().UTC(),
	})

	return &models.UploadResult{
		Success:    true,
		PdfURL:     obj.PublicURL,
		FileName:   fileName,
		FileSize:   int(obj.Size),
		BucketName: obj.Bucket,
	}, nil
}

// notifyWebhook posts the upload notification when the caller supplied a
// recipient and a webhook endpoint is configured. Failures are logged and
// swallowed: the PDF is already durably stored.
func (s *PDFService) notifyWebhook(ctx context.Context, req *models.GenerateUploadRequest, obj *storage.Object) {
	if req.Email == "" {
		return
	}
	if s.notifier == nil {
		s.logger.Debug("webhook endpoint not configured, skipping notification")
		return
	}

	notification := &notify.Notification{
		PdfURL:        obj.PublicURL,
		FileName:      obj.Name,
		PriceListName: req.PriceListData.Name,
		Recipient:     req.Email,
		Subject:       req.Subject,
		Body:          req.Body,
	}
	if req.PriceListData.Customer != nil {
		notification.CustomerName = req.PriceListData.Customer.CompanyName
	}

	if err := s.notifier.Notify(ctx, notification); err != nil {
		s.logger.Warn("webhook notification failed",
			slog.String("recipient", req.Email),
			slog.String("error", err.Error()),
		)
	}
}

// audit records the delivery when the render log is enabled. Best effort.
func (s *PDFService) audit(ctx context.Context, entry *repository.RenderLogEntry) {
	if s.renderLog == nil {
		return
	}
	if err := s.renderLog.Insert(ctx, entry); err != nil {
		s.logger.Warn("render log insert failed", slog.String("error", err.Error()))
	}
}

// pipelineError maps a stage sentinel to the sanitized AppError returned to
// HTTP clients. Full details stay in the wrapped error for logs.
func pipelineError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, ErrBrowserLaunch):
		return apperrors.Pipeline("BROWSER_LAUNCH_FAILED", "headless browser failed to start", err)
	case errors.Is(err, ErrContentLoad):
		return apperrors.Pipeline("CONTENT_LOAD_FAILED", "document failed to load in the browser", err)
	case errors.Is(err, ErrImageResolution):
		return apperrors.Pipeline("IMAGE_RESOLUTION_FAILED", "image resolution could not run to completion", err)
	case errors.Is(err, ErrPDFCapture):
		return apperrors.Pipeline("PDF_CAPTURE_FAILED", "pdf capture failed", err)
	case errors.Is(err, ErrEmptyOutput):
		return apperrors.Pipeline("EMPTY_PDF_OUTPUT", "pdf output was empty", err)
	case errors.Is(err, ErrInvalidSignature):
		return apperrors.Pipeline("INVALID_PDF_SIGNATURE", "pdf output failed signature validation", err)
	default:
		return apperrors.Pipeline("PDF_GENERATION_FAILED", "pdf generation failed", err)
	}
}
