package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

// ErrInvoiceNotFound is returned by Get when no document exists for the id
var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceRepo interface {
	Save(ctx context.Context, inv models.Invoice) error
	Get(ctx context.Context, id string) (*models.Invoice, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Invoice, error)
}

type invoiceRepo struct {
	store storage.Store
}

func NewInvoiceRepo(store storage.Store) InvoiceRepo {
	return &invoiceRepo{store: store}
}

func (r *invoiceRepo) Save(ctx context.Context, inv models.Invoice) error {
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode invoice: %w", err)
	}
	return r.store.Put(ctx, inv.ID, data)
}

func (r *invoiceRepo) Get(ctx context.Context, id string) (*models.Invoice, error) {
	data, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}

	var inv models.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("failed to decode invoice %s: %w", id, err)
	}
	return &inv, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

// List decodes every stored invoice. Documents that fail to decode are
// skipped so one corrupt file does not hide the rest.
func (r *invoiceRepo) List(ctx context.Context) ([]models.Invoice, error) {
	docs, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	invoices := make([]models.Invoice, 0, len(docs))
	for i, doc := range docs {
		var inv models.Invoice
		if err := json.Unmarshal(doc, &inv); err != nil || inv.ID == "" {
			utils.LogWarn("skipping unreadable invoice document", map[string]interface{}{
				"store": r.store.Name(),
				"index": i,
				"error": fmt.Sprint(err),
			})
			continue
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}
