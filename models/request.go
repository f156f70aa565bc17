package models

// GenerateRequest is the body of POST /generate-pdf.
type GenerateRequest struct {
	PriceListData *PriceList `json:"priceListData" validate:"required"`

	// PrintByCategory switches the document layout to category sections.
	// It only takes effect when both GroupedByCategory and a non-empty
	// CategoryOrder are supplied; otherwise rendering falls back to the
	// flat, insertion-ordered row list.
	PrintByCategory   bool                       `json:"printByCategory"`
	GroupedByCategory map[string][]PriceListItem `json:"groupedByCategory"`
	CategoryOrder     []string                   `json:"categoryOrder"`
}

// GenerateUploadRequest is the body of POST /generate-pdf-and-upload.
type GenerateUploadRequest struct {
	GenerateRequest

	UploadToBucket bool   `json:"uploadToBucket"`
	BucketName     string `json:"bucketName"`

	// Optional notification fields. When Email is set and a webhook
	// endpoint is configured, a notification is posted after the upload.
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RenderResult is the outcome of an inline render: the validated PDF bytes
// plus image-resolution diagnostics.
type RenderResult struct {
	PDF      []byte
	FileName string
	Images   []ImageLoadOutcome
}

// UploadResult is the JSON success payload of an upload-mode request.
type UploadResult struct {
	Success    bool   `json:"success"`
	PdfURL     string `json:"pdfUrl"`
	FileName   string `json:"fileName"`
	FileSize   int    `json:"fileSize"`
	BucketName string `json:"bucketName"`
}
