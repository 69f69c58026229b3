package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/repositories"
)

var errDiskFull = errors.New("disk full")

// flakyStore wraps a MemoryStore and fails writes on demand
type flakyStore struct {
	*storage.MemoryStore
	failPut    bool
	failDelete bool
	failGlobal bool
}

func (f *flakyStore) Put(ctx context.Context, key string, doc []byte) error {
	if f.failPut {
		return errDiskFull
	}
	return f.MemoryStore.Put(ctx, key, doc)
}

func (f *flakyStore) Delete(ctx context.Context, key string) error {
	if f.failDelete {
		return errDiskFull
	}
	return f.MemoryStore.Delete(ctx, key)
}

func (f *flakyStore) PutGlobal(ctx context.Context, doc []byte) error {
	if f.failGlobal {
		return errDiskFull
	}
	return f.MemoryStore.PutGlobal(ctx, doc)
}

var fixedNow = time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T) (*Store, *flakyStore) {
	t.Helper()
	backend := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	s := NewStore(
		repositories.NewInvoiceRepo(backend),
		repositories.NewGlobalRepo(backend),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	)
	require.NoError(t, s.Load(context.Background()))
	return s, backend
}
