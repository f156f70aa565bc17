package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/firstclassrl/pixel-pdf-service/errors"
	"github.com/firstclassrl/pixel-pdf-service/logger"
	"github.com/firstclassrl/pixel-pdf-service/models"
	"github.com/firstclassrl/pixel-pdf-service/validator"
)

// PDFGenerator is the pipeline surface the controller depends on.
type PDFGenerator interface {
	Generate(ctx context.Context, req *models.GenerateRequest) (*models.RenderResult, error)
	GenerateAndUpload(ctx context.Context, req *models.GenerateUploadRequest) (*models.UploadResult, error)
}

// PDFController handles HTTP requests for price-list PDF generation.
type PDFController struct {
	generator PDFGenerator
}

// NewPDFController creates a new PDFController.
func NewPDFController(generator PDFGenerator) *PDFController {
	return &PDFController{generator: generator}
}

// GeneratePDF handles POST /generate-pdf. The response body is the PDF
// itself, streamed as an attachment.
func (c *PDFController) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, apperrors.InvalidInput(invalidRequestMessage(err)))
		return
	}
	if err := checkPriceList(&req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := c.generator.Generate(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writePDF(w, result)
}

// GeneratePDFAndUpload handles POST /generate-pdf-and-upload. When
// uploadToBucket is false the request degrades to inline generation.
func (c *PDFController) GeneratePDFAndUpload(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateUploadRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		writeError(w, r, apperrors.InvalidInput(invalidRequestMessage(err)))
		return
	}
	if err := checkPriceList(&req.GenerateRequest); err != nil {
		writeError(w, r, err)
		return
	}

	if !req.UploadToBucket {
		result, err := c.generator.Generate(r.Context(), &req.GenerateRequest)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writePDF(w, result)
		return
	}

	result, err := c.generator.GenerateAndUpload(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode upload response",
			slog.String("error", err.Error()))
	}
}

// checkPriceList enforces the minimal document shape: a price list with at
// least one item.
func checkPriceList(req *models.GenerateRequest) error {
	if req.PriceListData == nil {
		return apperrors.InvalidInput("priceListData is required")
	}
	if len(req.PriceListData.Items) == 0 {
		return apperrors.InvalidInput("priceListData must contain at least one item")
	}
	return nil
}

func invalidRequestMessage(err error) string {
	var verr *validator.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	return "invalid request body"
}

func writePDF(w http.ResponseWriter, result *models.RenderResult) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.PDF)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(result.PDF)
}

// errorResponse is the JSON envelope for every failed request. Stack traces
// and wrapped causes stay out of it.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Name    string `json:"name"`
	Code    string `json:"code"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	resp := errorResponse{
		Error:   http.StatusText(status),
		Message: "an internal error occurred",
		Name:    "PDFServiceError",
		Code:    "INTERNAL_ERROR",
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Code = appErr.Code
	}

	l := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		l.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("code", resp.Code),
			slog.String("error", err.Error()),
		)
	} else {
		l.Warn("request rejected",
			slog.String("path", r.URL.Path),
			slog.String("code", resp.Code),
			slog.String("error", err.Error()),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
