package storage

import (
	"context"
	"errors"
)

// ErrObjectExists is returned when an upload would overwrite an existing
// object. Uploads must fail rather than silently clobber.
var ErrObjectExists = errors.New("object already exists")

// Object describes a stored PDF and where to reach it.
type Object struct {
	Bucket    string
	Name      string
	PublicURL string
	Size      int64
}

// Storage is the object store the delivery pipeline uploads validated PDFs
// to. Implementations must never overwrite an existing object and must return
// a usable public URL on success.
type Storage interface {
	Upload(ctx context.Context, bucket, name string, data []byte, contentType string) (*Object, error)
}
