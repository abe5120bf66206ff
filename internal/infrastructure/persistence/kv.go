package persistence

import (
	"context"
	"errors"
)

// KV — абстрактное долговечное хранилище ключ-значение. Put атомарен: либо
// становятся долговечными все пары, либо ни одна.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	Put(ctx context.Context, pairs map[string][]byte) error
}

var ErrKeyNotFound = errors.New("key not found")
