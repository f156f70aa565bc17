package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveStorage stores PDFs on Google Drive, mapping buckets to folders. Kept
// as the fallback backend for deployments without a Supabase project.
type DriveStorage struct {
	client       *drive.Service
	parentFolder string
	logger       *slog.Logger
}

// NewDriveStorage creates a Drive-backed storage client from a Service
// Account credentials file. parentFolderID optionally roots all bucket
// folders under one Drive folder.
func NewDriveStorage(ctx context.Context, credentialsPath, parentFolderID string, logger *slog.Logger) (*DriveStorage, error) {
	client, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveStorage{client: client, parentFolder: parentFolderID, logger: logger}, nil
}

// Upload stores the object in the folder named after the bucket, creating the
// folder on first use. An object with the same name in the folder fails the
// upload. The uploaded file is made publicly readable and addressed through
// Drive's direct-download URL.
func (d *DriveStorage) Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (*Object, error) {
	folderID, err := d.ensureFolder(ctx, bucket)
	if err != nil {
		return nil, err
	}

	existing, err := d.client.Files.List().
		Context(ctx).
		Q(fmt.Sprintf("'%s' in parents and name = '%s' and trashed=false", folderID, escapeDriveQuery(name))).
		Fields("files(id)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("check existing object: %w", err)
	}
	if len(existing.Files) > 0 {
		return nil, fmt.Errorf("%w: %s/%s", ErrObjectExists, bucket, name)
	}

	file := &drive.File{
		Name:     name,
		Parents:  []string{folderID},
		MimeType: contentType,
	}
	created, err := d.client.Files.Create(file).
		Context(ctx).
		Media(bytes.NewReader(data), googleapi.ContentType(contentType)).
		Fields("id").
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload to drive folder %s: %w", bucket, err)
	}

	_, err = d.client.Permissions.Create(created.Id, &drive.Permission{
		Role: "reader",
		Type: "anyone",
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("grant public access: %w", err)
	}

	obj := &Object{
		Bucket:    bucket,
		Name:      name,
		PublicURL: fmt.Sprintf("https://drive.google.com/uc?id=%s", created.Id),
		Size:      int64(len(data)),
	}

	d.logger.Info("pdf uploaded to drive",
		slog.String("folder", bucket),
		slog.String("object", name),
		slog.String("file_id", created.Id),
	)
	return obj, nil
}

// ensureFolder resolves the folder named after the bucket, creating it when
// absent.
func (d *DriveStorage) ensureFolder(ctx context.Context, bucket string) (string, error) {
	query := fmt.Sprintf("mimeType = 'application/vnd.google-apps.folder' and name = '%s' and trashed=false", escapeDriveQuery(bucket))
	if d.parentFolder != "" {
		query += fmt.Sprintf(" and '%s' in parents", d.parentFolder)
	}

	r, err := d.client.Files.List().Context(ctx).Q(query).Fields("files(id)").Do()
	if err != nil {
		return "", fmt.Errorf("lookup bucket folder %s: %w", bucket, err)
	}
	if len(r.Files) > 0 {
		return r.Files[0].Id, nil
	}

	folder := &drive.File{
		Name:     bucket,
		MimeType: "application/vnd.google-apps.folder",
	}
	if d.parentFolder != "" {
		folder.Parents = []string{d.parentFolder}
	}
	created, err := d.client.Files.Create(folder).Context(ctx).Fields("id").Do()
	if err != nil {
		return "", fmt.Errorf("create bucket folder %s: %w", bucket, err)
	}
	return created.Id, nil
}

func escapeDriveQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
