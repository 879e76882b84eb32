// Package core defines the object storage abstraction shared by the input
// document source and the output publisher.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a concrete blob storage backend implementation.
type Driver string

const (
	// DriverFilesystem reads and writes a local directory tree. Plain files
	// (such as an unpacked game install) are readable without sidecars.
	DriverFilesystem Driver = "fs"
	// DriverS3 represents an S3 / MinIO compatible bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps objects in process memory (tests).
	DriverMemory Driver = "memory"
)

// PutOptions specifies optional parameters for Put.
type PutOptions struct {
	ContentType string            // MIME type, optional
	Metadata    map[string]string // User metadata (small, flat key-value)
	Overwrite   bool              // replace an existing object instead of failing with ErrExists
}

// SignedURLOptions holds options for generating a pre-signed URL.
type SignedURLOptions struct {
	Method string        // only GET is supported
	Expiry time.Duration // default 15m
}

// Info describes a stored blob.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size_bytes"`
	ContentType  string            `json:"content_type,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"last_modified"`
}

// Reader is the read side of a Store. Document discovery only needs this.
type Reader interface {
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]Info, error)
}

// Store provides a thin S3-like abstraction. List returns keys in ascending
// order.
type Store interface {
	Reader
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Head(ctx context.Context, key string) (Info, error)
	Delete(ctx context.Context, key string) (bool, error)
	PresignURL(ctx context.Context, key string, opts SignedURLOptions) (string, error)
	Driver() Driver
}

var (
	// ErrUnsupported is returned when an optional capability is not available.
	ErrUnsupported = errors.New("blobstore: unsupported operation")
	// ErrNotFound is returned by Get and Head for a missing key.
	ErrNotFound = errors.New("blobstore: not found")
	// ErrExists is returned by Put when the key exists and Overwrite is unset.
	ErrExists = errors.New("blobstore: already exists")
)
