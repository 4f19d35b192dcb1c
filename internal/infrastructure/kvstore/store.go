// Package kvstore provides the blob store backends behind ledger.BlobStore:
// an in-process map, a SQL table through GORM (sqlite or postgres), Redis,
// and any S3-compatible object store.
package kvstore

import (
	"bytes"
	"errors"
	"io"

	"github.com/ministock/backend/internal/domain/ledger"
)

// Store is a ledger.BlobStore that owns a connection.
type Store interface {
	ledger.BlobStore
	io.Closer
}

// ErrEmptyKey is returned for operations on an empty key.
var ErrEmptyKey = errors.New("kvstore: key is required")

// clone detaches stored bytes from caller-owned slices.
func clone(b []byte) []byte {
	return bytes.Clone(b)
}
