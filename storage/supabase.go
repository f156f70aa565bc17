package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/firstclassrl/pixel-pdf-service/httpclient"
)

// SupabaseStorage uploads objects to Supabase Storage buckets over its REST
// API using the service-role key.
type SupabaseStorage struct {
	baseURL    string
	serviceKey string
	client     *httpclient.Client
	logger     *slog.Logger
}

// NewSupabaseStorage creates a Supabase-backed storage client.
func NewSupabaseStorage(baseURL, serviceKey string, client *httpclient.Client, logger *slog.Logger) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     client,
		logger:     logger,
	}
}

// Upload stores the object with upsert disabled, so a name collision fails
// instead of replacing the stored file. The public URL follows the bucket's
// public-object convention.
func (s *SupabaseStorage) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (*Object, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, url.PathEscape(bucket), url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("upload to bucket %s: %w", bucket, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return nil, fmt.Errorf("%w: %s/%s", ErrObjectExists, bucket, name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("upload to bucket %s: status %d: %s", bucket, resp.StatusCode, string(body))
	}

	obj := &Object{
		Bucket:    bucket,
		Name:      name,
		PublicURL: fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, url.PathEscape(bucket), url.PathEscape(name)),
		Size:      int64(len(data)),
	}

	s.logger.Info("pdf uploaded",
		slog.String("bucket", bucket),
		slog.String("object", name),
		slog.Int64("size", obj.Size),
	)
	return obj, nil
}
