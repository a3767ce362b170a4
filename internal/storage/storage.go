// Package storage keeps withdrawal payout receipts in an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyKey = errors.New("storage: object key is empty")

// Object describes a stored receipt. Size is -1 when unknown.
type Object struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
	Metadata    map[string]string
}

// Storage is the receipt store.
type Storage interface {
	// Upload streams r under obj.Key and returns what the backend recorded.
	Upload(ctx context.Context, obj Object, r io.Reader) (Object, error)
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// SignedURL returns a download URL valid for expiry.
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ReceiptKey files a receipt under its withdrawal order number with a random
// name that keeps the lower-cased extension of the uploaded file.
func ReceiptKey(orderNumber, filename string) string {
	return path.Join("receipts", orderNumber, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}
