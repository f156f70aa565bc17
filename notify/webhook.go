package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/firstclassrl/pixel-pdf-service/httpclient"
)

// Notification is the JSON payload posted to the webhook endpoint after a
// successful upload. Field names are part of the external contract.
type Notification struct {
	PdfURL        string `json:"pdfUrl"`
	FileName      string `json:"fileName"`
	PriceListName string `json:"priceListName"`
	CustomerName  string `json:"customerName,omitempty"`
	Recipient     string `json:"recipient"`
	Subject       string `json:"subject,omitempty"`
	Body          string `json:"body,omitempty"`
}

// WebhookNotifier posts upload notifications to a configured endpoint. The
// call is best effort: the caller logs a returned error and carries on, since
// the PDF is already durably stored by the time a notification goes out.
type WebhookNotifier struct {
	url    string
	client *httpclient.BreakerClient
	logger *slog.Logger
}

// NewWebhookNotifier creates a notifier for the given endpoint.
func NewWebhookNotifier(url string, client *httpclient.BreakerClient, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{url: url, client: client, logger: logger}
}

// Notify posts the notification. Any network error or non-2xx status is
// returned for logging; it must never fail the originating request.
func (n *WebhookNotifier) Notify(ctx context.Context, notification *Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	n.logger.Info("webhook notified",
		slog.String("recipient", notification.Recipient),
		slog.String("pdf_url", notification.PdfURL),
	)
	return nil
}
