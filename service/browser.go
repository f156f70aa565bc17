package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/firstclassrl/pixel-pdf-service/models"
)

// Per-stage time budgets of the browser lifecycle.
const (
	launchTimeout      = 30 * time.Second
	contentLoadTimeout = 15 * time.Second
	settleDelay        = 500 * time.Millisecond
)

// A4 landscape dimensions and margins in inches (PrintToPDF speaks inches).
const (
	paperWidthInches  = 11.69
	paperHeightInches = 8.27
	marginInches      = 0.394 // 10mm
)

// Renderer turns a built HTML document into PDF bytes. Abstracted so the
// delivery pipeline can be tested without a browser.
type Renderer interface {
	Render(ctx context.Context, html string) (*RenderOutput, error)
}

// RenderOutput is the raw capture result: PDF bytes plus per-image
// resolution diagnostics.
type RenderOutput struct {
	PDF    []byte
	Images []models.ImageLoadOutcome
}

// BrowserRenderer drives one isolated headless Chrome process per render.
// No pooling or reuse across requests: the process is acquired at the start
// of a render and torn down on every exit path.
type BrowserRenderer struct {
	chromePath string
	logger     *slog.Logger
}

// NewBrowserRenderer creates a renderer using the given Chrome binary, or
// auto-detection when the path is empty.
func NewBrowserRenderer(chromePath string, logger *slog.Logger) *BrowserRenderer {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	return &BrowserRenderer{chromePath: chromePath, logger: logger}
}

// detectChromePath checks common Chrome/Chromium install locations. An empty
// result lets chromedp fall back to its own lookup.
func detectChromePath() string {
	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Render loads the document into a fresh page, resolves images, and captures
// the PDF. Stages run strictly in sequence, each under its own timeout; any
// failure before capture is fatal and wraps the stage's sentinel error. The
// browser is always released before returning.
func (r *BrowserRenderer) Render(ctx context.Context, html string) (*RenderOutput, error) {
	tmpFile, err := os.CreateTemp("", "pricelist-*.html")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp document: %v", ErrContentLoad, err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(html); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("%w: write temp document: %v", ErrContentLoad, err)
	}
	if err := tmpFile.Close(); err != nil {
		return nil, fmt.Errorf("%w: close temp document: %v", ErrContentLoad, err)
	}

	// Minimal-privilege flag set for restricted and containerized hosts.
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("single-process", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Launching: an empty Run starts the browser process.
	if err := runStage(browserCtx, launchTimeout); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	// PageOpen -> ContentLoaded.
	if err := runStage(browserCtx, contentLoadTimeout,
		chromedp.Navigate("file://"+tmpPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentLoad, err)
	}

	// ImagesSettled: the in-page resolver bounds itself by the global sweep
	// deadline; the stage timeout adds slack for evaluation overhead.
	var outcomes []models.ImageLoadOutcome
	if err := runStage(browserCtx, globalSweepTimeout+5*time.Second,
		chromedp.Evaluate(buildImageResolverScript(), &outcomes,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			},
		),
		chromedp.Sleep(settleDelay),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageResolution, err)
	}
	r.logImageOutcomes(outcomes)

	// PdfCaptured: backgrounds are not printed to keep output vector-only,
	// and the page's own CSS page size wins over the paper parameters.
	var pdf []byte
	if err := runStage(browserCtx, contentLoadTimeout,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var captureErr error
			pdf, _, captureErr = page.PrintToPDF().
				WithLandscape(true).
				WithPaperWidth(paperWidthInches).
				WithPaperHeight(paperHeightInches).
				WithMarginTop(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				WithMarginRight(marginInches).
				WithPrintBackground(false).
				WithPreferCSSPageSize(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			return captureErr
		}),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFCapture, err)
	}

	return &RenderOutput{PDF: pdf, Images: outcomes}, nil
}

// runStage executes the given actions under a stage-scoped timeout.
func runStage(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return chromedp.Run(stageCtx, actions...)
}

func (r *BrowserRenderer) logImageOutcomes(outcomes []models.ImageLoadOutcome) {
	failed := models.CountImageFailures(outcomes)
	if failed == 0 {
		r.logger.Debug("image resolution complete", slog.Int("placeholders", len(outcomes)))
		return
	}
	for _, o := range outcomes {
		if o.Success {
			continue
		}
		r.logger.Warn("product image unresolved",
			slog.String("product_id", o.ProductID),
			slog.String("product_code", o.ProductCode),
			slog.String("reason", o.Reason),
			slog.Int("attempts", len(o.Attempts)),
		)
	}
}
