package invoicing

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/assistant"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/repositories"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

const logoFetchTimeout = 10 * time.Second

// Module is the wired invoicing core shared by the API server and the CLI
type Module struct {
	Storage    storage.Store
	Store      *services.Store
	Exports    *export.Service
	Logos      *export.LogoLoader
	Dispatcher *assistant.Dispatcher
}

// New opens the configured storage backend and loads the persisted state
func New(ctx context.Context, cfg *config.Config) (*Module, error) {
	backend, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	locale, err := language.Parse(cfg.Locale)
	if err != nil {
		utils.LogWarn("invalid APP_LOCALE, using en-US", map[string]interface{}{"locale": cfg.Locale})
		locale = language.AmericanEnglish
	}

	store := services.NewStore(
		repositories.NewInvoiceRepo(backend),
		repositories.NewGlobalRepo(backend),
		services.WithLocale(locale),
	)
	if err := store.Load(ctx); err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to load invoicing data: %w", err)
	}

	logos := export.NewLogoLoader(logoFetchTimeout)
	return &Module{
		Storage:    backend,
		Store:      store,
		Exports:    export.NewService(logos),
		Logos:      logos,
		Dispatcher: assistant.NewDispatcher(store, assistant.DefaultProviderFactory(llm.ProviderType(cfg.LLMProvider))),
	}, nil
}

func (m *Module) Close() error {
	return m.Storage.Close()
}
