package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/ministock/backend/internal/domain/ledger"
	"go.uber.org/zap"
)

// blobReader decodes persisted lists leniently: a malformed blob is an empty
// list and each element is decoded and validated on its own, so one bad
// record never hides the rest.
type blobReader struct {
	store    ledger.BlobStore
	validate *validator.Validate
	logger   *zap.Logger
}

func (r *blobReader) raw(ctx context.Context, key string) ([]json.RawMessage, bool, error) {
	data, found, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !found {
		return nil, false, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		r.logger.Warn("ignoring malformed blob",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, true, nil
	}
	return elems, true, nil
}

func decodeList[T any](ctx context.Context, r *blobReader, key string) ([]T, bool, error) {
	elems, found, err := r.raw(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	out := make([]T, 0, len(elems))
	for i, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			r.logger.Warn("skipping undecodable record",
				zap.String("key", key),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		if err := r.validate.Struct(v); err != nil {
			r.logger.Warn("skipping invalid record",
				zap.String("key", key),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		out = append(out, v)
	}
	return out, true, nil
}

func writeList[T any](ctx context.Context, store ledger.BlobStore, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// recordID extracts the "id" field of a raw record.
func recordID(elem json.RawMessage) string {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(elem, &head); err != nil {
		return ""
	}
	return head.ID
}
