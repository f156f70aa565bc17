//go:build integration

package service

// These tests drive a real headless Chrome and need a Chromium binary on the
// host. Run with: go test -tags integration ./service/

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firstclassrl/pixel-pdf-service/models"
)

const integrationTimeout = 90 * time.Second

func requireChrome(t *testing.T) {
	t.Helper()
	if detectChromePath() == "" {
		t.Skip("no Chrome/Chromium binary found on this host")
	}
}

// tinyPNG returns a minimal valid PNG so successful candidates produce an
// image with non-zero natural dimensions.
func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func findOutcome(t *testing.T, outcomes []models.ImageLoadOutcome, productCode string) models.ImageLoadOutcome {
	t.Helper()
	for _, o := range outcomes {
		if o.ProductCode == productCode {
			return o
		}
	}
	t.Fatalf("no outcome for product %q in %+v", productCode, outcomes)
	return models.ImageLoadOutcome{}
}

// Ordered fallback through the candidate list: the pre-assigned first
// candidate fails fast, the second succeeds, the remaining conventional
// candidates are never attempted, and the captured PDF validates.
func TestRenderResolvesImagesFromCandidates(t *testing.T) {
	requireChrome(t)

	img := tinyPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products/prod-1/main.webp" {
			w.Header().Set("Content-Type", "image/png")
			w.Write(img)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	doc := samplePriceList()
	html, err := BuildPriceListHTML(doc, BuildOptions{AssetBaseURL: srv.URL + "/products"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	out, err := NewBrowserRenderer("", testLogger()).Render(ctx, html)
	require.NoError(t, err)
	require.NoError(t, ValidatePDF(out.PDF))

	resolved := findOutcome(t, out.Images, "FA-100")
	assert.True(t, resolved.Success)
	assert.Empty(t, resolved.Reason)
	require.Len(t, resolved.Attempts, 2)
	assert.True(t, strings.HasSuffix(resolved.Attempts[0].URL, "/prod-1/thumb.webp"))
	assert.Equal(t, "error", resolved.Attempts[0].Status)
	assert.True(t, strings.HasSuffix(resolved.Attempts[1].URL, "/prod-1/main.webp"))
	assert.Equal(t, "success", resolved.Attempts[1].Status)

	// The failing pre-assigned src is retried deterministically and reports
	// error well inside the per-candidate budget instead of timing out.
	assert.Less(t, resolved.Attempts[0].ElapsedMs, 4000)

	assert.Equal(t, 1, models.CountImageFailures(out.Images))
	failed := findOutcome(t, out.Images, "IG-200")
	assert.False(t, failed.Success)
	assert.Equal(t, models.ReasonAllFailed, failed.Reason)
	require.Len(t, failed.Attempts, 4)
}

// A document whose products have no image sources at all still renders to a
// valid PDF, with a diagnostic no-sources outcome per product.
func TestRenderEmptyCandidateDocument(t *testing.T) {
	requireChrome(t)

	doc := samplePriceList()
	for i := range doc.Items {
		doc.Items[i].Product.ID = ""
	}

	html, err := BuildPriceListHTML(doc, BuildOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	out, err := NewBrowserRenderer("", testLogger()).Render(ctx, html)
	require.NoError(t, err)
	require.NoError(t, ValidatePDF(out.PDF))

	require.Len(t, out.Images, len(doc.Items))
	for _, o := range out.Images {
		assert.False(t, o.Success)
		assert.Equal(t, models.ReasonNoSources, o.Reason)
		assert.Empty(t, o.Attempts)
	}
}

// The global deadline short-circuits a queue whose serial worst case would
// exceed it: the sweep stops near the global budget, the interrupted
// placeholder reports global-timeout, exactly one sentinel outcome is
// appended, and remaining placeholders fall back without outcome entries.
func TestImageResolverGlobalDeadline(t *testing.T) {
	requireChrome(t)

	const (
		perCandidate = 400 * time.Millisecond
		global       = 700 * time.Millisecond
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never answers within the per-candidate budget.
		time.Sleep(2 * time.Second)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	slow := srv.URL + "/img.png"
	page := `<!DOCTYPE html><html><body>
		<img data-candidates='["` + slow + `?a1","` + slow + `?a2","` + slow + `?a3"]' data-product-id="p1" data-product-code="C1">
		<div class="no-photo hidden">N/A</div>
		<img data-candidates='["` + slow + `?b1","` + slow + `?b2","` + slow + `?b3"]' data-product-id="p2" data-product-code="C2">
		<div class="no-photo hidden">N/A</div>
	</body></html>`

	path := filepath.Join(t.TempDir(), "sweep.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), integrationTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p := detectChromePath(); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	require.NoError(t, chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+path),
		chromedp.WaitReady("body", chromedp.ByQuery),
	))

	var outcomes []models.ImageLoadOutcome
	started := time.Now()
	require.NoError(t, chromedp.Run(browserCtx,
		chromedp.Evaluate(renderImageResolverScript(perCandidate, global), &outcomes,
			func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
				return p.WithAwaitPromise(true)
			},
		),
	))
	elapsed := time.Since(started)

	// Sweep duration is bounded by the global deadline plus one in-flight
	// candidate, far below the serial sum of all per-candidate budgets.
	serialWorstCase := 2 * 3 * perCandidate
	assert.Less(t, elapsed, serialWorstCase)

	// Interrupted placeholder plus the sentinel; the second placeholder is
	// absent from diagnostics.
	require.Len(t, outcomes, 2)

	interrupted := outcomes[0]
	assert.Equal(t, "C1", interrupted.ProductCode)
	assert.False(t, interrupted.Success)
	assert.Equal(t, models.ReasonGlobalTimeout, interrupted.Reason)
	assert.NotEmpty(t, interrupted.Attempts)

	sentinel := outcomes[1]
	assert.Empty(t, sentinel.ProductID)
	assert.Empty(t, sentinel.ProductCode)
	assert.Equal(t, models.ReasonGlobalTimeout, sentinel.Reason)
	assert.Empty(t, sentinel.Attempts)

	// The sentinel never counts as a product image failure.
	assert.Equal(t, 1, models.CountImageFailures(outcomes))
}
