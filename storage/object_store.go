package storage

import (
	"context"
	"io"
)

type StoredObject struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	ETag     string `json:"etag,omitempty"`
}

// ObjectStore keeps exported snapshots under stable keys.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (*StoredObject, error)

	Delete(ctx context.Context, key string) error

	PublicURL(key string) string
}
