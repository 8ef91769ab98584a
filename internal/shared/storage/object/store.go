package object

import (
	"context"
	"io"
)

// ObjectStore holds uploaded resume documents for the duration of one
// request; the handler deletes the object once the analysis response is
// produced.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
