package service

import "errors"

// Pipeline stage errors. Every fatal failure of the rendering pipeline wraps
// one of these, so the HTTP layer can map it to a machine-readable code
// without parsing messages.
var (
	ErrBrowserLaunch        = errors.New("browser launch failed")
	ErrContentLoad          = errors.New("content load failed")
	ErrImageResolution      = errors.New("image resolution failed")
	ErrPDFCapture           = errors.New("pdf capture failed")
	ErrEmptyOutput          = errors.New("pdf output is empty")
	ErrInvalidSignature     = errors.New("pdf output has an invalid signature")
	ErrUploadFailed         = errors.New("pdf upload failed")
	ErrPublicURLUnavailable = errors.New("no public url for uploaded pdf")
)
