package service

import (
	"bytes"
	"fmt"
)

// pdfSignature is the magic prefix every well-formed PDF starts with.
var pdfSignature = []byte("%PDF")

// ValidatePDF checks that the captured byte stream is a plausible PDF: it
// must be non-empty and start with the %PDF signature. A failing artifact is
// never delivered or stored.
func ValidatePDF(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyOutput
	}
	if len(data) < len(pdfSignature) || !bytes.HasPrefix(data, pdfSignature) {
		return fmt.Errorf("%w: got %q", ErrInvalidSignature, previewBytes(data, 8))
	}
	return nil
}

func previewBytes(data []byte, n int) []byte {
	if len(data) < n {
		n = len(data)
	}
	return data[:n]
}
