package assistant

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/repositories"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
)

var fixedNow = time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)

type fakeProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	system  string
	user    string
	release chan struct{}
}

func (f *fakeProvider) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.system = systemPrompt
	f.user = userMessage
	return f.reply, f.err
}

func (f *fakeProvider) GetProviderName() string { return "fake" }

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestStore(t *testing.T) *services.Store {
	t.Helper()
	backend := storage.NewMemoryStore()
	n := 0
	s := services.NewStore(
		repositories.NewInvoiceRepo(backend),
		repositories.NewGlobalRepo(backend),
		services.WithClock(func() time.Time { return fixedNow }),
		services.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	require.NoError(t, s.Load(context.Background()))
	return s
}

// newTestDispatcher returns a dispatcher with credentials configured
func newTestDispatcher(t *testing.T, p *fakeProvider) (*Dispatcher, *services.Store) {
	t.Helper()
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.UpdateCompanySettings(ctx, "apiKey", "test-key"))
	require.NoError(t, store.UpdateCompanySettings(ctx, "aiModel", "gemini-2.0-flash"))

	factory := func(apiKey, model string) (llm.LLMProvider, error) {
		return p, nil
	}
	return NewDispatcher(store, factory), store
}
