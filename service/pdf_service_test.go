package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/firstclassrl/pixel-pdf-service/errors"
	"github.com/firstclassrl/pixel-pdf-service/httpclient"
	"github.com/firstclassrl/pixel-pdf-service/models"
	"github.com/firstclassrl/pixel-pdf-service/notify"
	"github.com/firstclassrl/pixel-pdf-service/repository"
	"github.com/firstclassrl/pixel-pdf-service/storage"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Render(ctx context.Context, html string) (*RenderOutput, error) {
	args := m.Called(ctx, html)
	if out := args.Get(0); out != nil {
		return out.(*RenderOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (*storage.Object, error) {
	args := m.Called(ctx, bucket, name, data, contentType)
	if obj := args.Get(0); obj != nil {
		return obj.(*storage.Object), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockRenderLog struct {
	mock.Mock
}

func (m *mockRenderLog) Insert(ctx context.Context, entry *repository.RenderLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validPDF() []byte {
	return []byte("%PDF-1.7 fake document body")
}

func generateRequest() *models.GenerateRequest {
	return &models.GenerateRequest{
		PriceListData: samplePriceList(),
	}
}

func uploadRequest() *models.GenerateUploadRequest {
	return &models.GenerateUploadRequest{
		GenerateRequest: *generateRequest(),
		UploadToBucket:  true,
		BucketName:      "pdfs",
	}
}

func TestGenerateSuccess(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything, mock.MatchedBy(func(html string) bool {
		return len(html) > 0
	})).Return(&RenderOutput{PDF: validPDF()}, nil)

	svc := NewPDFService(renderer, nil, nil, nil, nil, "", "pdfs", testLogger())
	result, err := svc.Generate(context.Background(), generateRequest())

	require.NoError(t, err)
	assert.Equal(t, validPDF(), result.PDF)
	assert.Equal(t, InlineFileName, result.FileName)
	renderer.AssertExpectations(t)
}

func TestGenerateRenderError(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything).
		Return(nil, errors.Join(ErrBrowserLaunch, errors.New("chrome not found")))

	svc := NewPDFService(renderer, nil, nil, nil, nil, "", "pdfs", testLogger())
	_, err := svc.Generate(context.Background(), generateRequest())

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "BROWSER_LAUNCH_FAILED", appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestGenerateInvalidOutput(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything).
		Return(&RenderOutput{PDF: []byte("<html>login required</html>")}, nil)

	svc := NewPDFService(renderer, nil, nil, nil, nil, "", "pdfs", testLogger())
	_, err := svc.Generate(context.Background(), generateRequest())

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_PDF_SIGNATURE", appErr.Code)
}

func TestGenerateAndUploadRequiresStorage(t *testing.T) {
	renderer := new(mockRenderer)

	svc := NewPDFService(renderer, nil, nil, nil, nil, "", "pdfs", testLogger())
	_, err := svc.GenerateAndUpload(context.Background(), uploadRequest())

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_CONFIGURED", appErr.Code)

	// Fail fast: the browser must never be launched.
	renderer.AssertNotCalled(t, "Render")
}

func TestGenerateAndUploadSuccess(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything).Return(&RenderOutput{PDF: validPDF()}, nil)

	store := new(mockStorage)
	store.On("Upload", mock.Anything, "pdfs", mock.MatchedBy(func(name string) bool {
		return len(name) > len(".pdf")
	}), validPDF(), "application/pdf").Return(&storage.Object{
		Bucket:    "pdfs",
		Name:      "Listino_Farmacie_Nord_20250314_103000.pdf",
		PublicURL: "https://storage.example.com/pdfs/listino.pdf",
		Size:      int64(len(validPDF())),
	}, nil)

	renderLog := new(mockRenderLog)
	renderLog.On("Insert", mock.Anything, mock.MatchedBy(func(e *repository.RenderLogEntry) bool {
		return e.Destination == "upload" && e.Bucket == "pdfs" && e.FileSize == len(validPDF())
	})).Return(nil)

	svc := NewPDFService(renderer, store, nil, renderLog, nil, "", "pdfs", testLogger())
	result, err := svc.GenerateAndUpload(context.Background(), uploadRequest())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "https://storage.example.com/pdfs/listino.pdf", result.PdfURL)
	assert.Equal(t, "pdfs", result.BucketName)
	assert.Equal(t, len(validPDF()), result.FileSize)
	store.AssertExpectations(t)
	renderLog.AssertExpectations(t)
}

func TestGenerateAndUploadDefaultBucket(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything).Return(&RenderOutput{PDF: validPDF()}, nil)

	store := new(mockStorage)
	store.On("Upload", mock.Anything, "pdfs", mock.Anything, mock.Anything, mock.Anything).
		Return(&storage.Object{
			Bucket:    "pdfs",
			Name:      "x.pdf",
			PublicURL: "https://storage.example.com/pdfs/x.pdf",
			Size:      10,
		}, nil)

	svc := NewPDFService(renderer, store, nil, nil, nil, "", "pdfs", testLogger())
	req := uploadRequest()
	req.BucketName = ""

	result, err := svc.GenerateAndUpload(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "pdfs", result.BucketName)
	store.AssertExpectations(t)
}

func TestGenerateAndUploadStorageFailure(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything).Return(&RenderOutput{PDF: validPDF()}, nil)

	store := new(mockStorage)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("bucket does not exist"))

	svc := NewPDFService(renderer, store, nil, nil, nil, "", "pdfs", testLogger())
	result, err := svc.GenerateAndUpload(context.Background(), uploadRequest())

	require.Error(t, err)
	assert.Nil(t, result)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "STORAGE_UPLOAD_FAILED", appErr.Code)
	assert.ErrorIs(t, appErr.Err, ErrUploadFailed)
}

func TestGenerateAndUploadMissingPublicURL(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything).Return(&RenderOutput{PDF: validPDF()}, nil)

	store := new(mockStorage)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&storage.Object{Bucket: "pdfs", Name: "x.pdf"}, nil)

	svc := NewPDFService(renderer, store, nil, nil, nil, "", "pdfs", testLogger())
	_, err := svc.GenerateAndUpload(context.Background(), uploadRequest())

	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PUBLIC_URL_MISSING", appErr.Code)
}

func TestGenerateAndUploadWebhookFailureIsNotFatal(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything).Return(&RenderOutput{PDF: validPDF()}, nil)

	store := new(mockStorage)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&storage.Object{
			Bucket:    "pdfs",
			Name:      "x.pdf",
			PublicURL: "https://storage.example.com/pdfs/x.pdf",
			Size:      10,
		}, nil)

	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer webhook.Close()

	breaker := httpclient.NewBreakerClient(
		httpclient.New(httpclient.Config{Timeout: httpclient.DefaultConfig().Timeout}),
		httpclient.DefaultBreakerConfig("test-webhook"),
		testLogger(),
	)
	notifier := notify.NewWebhookNotifier(webhook.URL, breaker, testLogger())

	svc := NewPDFService(renderer, store, notifier, nil, nil, "", "pdfs", testLogger())
	req := uploadRequest()
	req.Email = "cliente@example.com"

	result, err := svc.GenerateAndUpload(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestGenerateAndUploadAuditFailureIsNotFatal(t *testing.T) {
	renderer := new(mockRenderer)
	renderer.On("Render", mock.Anything, mock.Anything).Return(&RenderOutput{PDF: validPDF()}, nil)

	store := new(mockStorage)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&storage.Object{
			Bucket:    "pdfs",
			Name:      "x.pdf",
			PublicURL: "https://storage.example.com/pdfs/x.pdf",
			Size:      10,
		}, nil)

	renderLog := new(mockRenderLog)
	renderLog.On("Insert", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	svc := NewPDFService(renderer, store, nil, renderLog, nil, "", "pdfs", testLogger())
	result, err := svc.GenerateAndUpload(context.Background(), uploadRequest())

	require.NoError(t, err)
	assert.True(t, result.Success)
}
