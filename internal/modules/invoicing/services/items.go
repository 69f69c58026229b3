package services

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

// AddItem appends a line item to the active invoice. Quantity defaults to 1.
func (s *Store) AddItem(ctx context.Context, req models.AddItemRequest) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		return models.LineItem{}, err
	}

	item := models.LineItem{
		ID:          s.newID(),
		Description: req.Description,
		Quantity:    models.Number(req.Quantity),
		Price:       models.Number(req.Price),
		Category:    req.Category,
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	s.active.Items = append(s.active.Items, item)
	return item, nil
}

// AddProductItem adds a saved product as a line item, carrying its category
func (s *Store) AddProductItem(ctx context.Context, productID string, quantity float64) (models.LineItem, error) {
	s.mu.Lock()
	p, ok := lo.Find(s.products, func(p models.Product) bool { return p.ID == productID })
	s.mu.Unlock()
	if !ok {
		return models.LineItem{}, productNotFound(productID)
	}

	return s.AddItem(ctx, models.AddItemRequest{
		Description: p.Label(),
		Quantity:    quantity,
		Price:       p.Price.Float(),
		Category:    p.Category,
	})
}

// UpdateItem patches one field of a line item, keeping the rest and the item order
func (s *Store) UpdateItem(id, field string, value interface{}) (models.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(s.active.Items, func(it models.LineItem) bool { return it.ID == id })
	if !ok {
		return models.LineItem{}, ierr.NewErrorf("line item %s not found", id).
			WithHint("That line item no longer exists.").
			Mark(ierr.ErrNotFound)
	}

	item := s.active.Items[idx]
	var err error
	switch field {
	case "description":
		item.Description, err = cast.ToStringE(value)
	case "quantity":
		var f float64
		f, err = cast.ToFloat64E(value)
		item.Quantity = models.Number(f)
	case "price":
		var f float64
		f, err = cast.ToFloat64E(value)
		item.Price = models.Number(f)
	case "category":
		item.Category, err = cast.ToStringE(value)
	default:
		return models.LineItem{}, unknownField("line item", field)
	}
	if err != nil {
		return models.LineItem{}, invalidValue(field, err)
	}

	s.active.Items[idx] = item
	return item, nil
}

// RemoveItem drops a line item from the active invoice
func (s *Store) RemoveItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !lo.ContainsBy(s.active.Items, func(it models.LineItem) bool { return it.ID == id }) {
		return ierr.NewErrorf("line item %s not found", id).
			WithHint("That line item no longer exists.").
			Mark(ierr.ErrNotFound)
	}
	s.active.Items = lo.Reject(s.active.Items, func(it models.LineItem, _ int) bool { return it.ID == id })
	return nil
}

// UpdateClient patches one field of the active invoice's client snapshot
func (s *Store) UpdateClient(ctx context.Context, field string, value interface{}) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		return models.Client{}, err
	}

	str, err := cast.ToStringE(value)
	if err != nil {
		return models.Client{}, invalidValue(field, err)
	}

	c := s.active.Client
	switch field {
	case "name":
		c.Name = str
	case "email":
		c.Email = str
	case "phone":
		c.Phone = str
	case "address":
		c.Address = str
	case "gstin":
		c.GSTIN = strings.ToUpper(str)
	default:
		return models.Client{}, unknownField("client", field)
	}

	s.active.Client = c
	return c, nil
}

// SelectClient copies a client into the active invoice. Later edits to the
// saved client do not reach the invoice.
func (s *Store) SelectClient(ctx context.Context, client models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		return err
	}
	s.active.Client = client
	return nil
}

// SelectClientByID copies a saved client into the active invoice
func (s *Store) SelectClientByID(ctx context.Context, id string) (models.Client, error) {
	s.mu.Lock()
	c, ok := lo.Find(s.clients, func(c models.Client) bool { return c.ID == id })
	s.mu.Unlock()
	if !ok {
		return models.Client{}, clientNotFound(id)
	}
	return c, s.SelectClient(ctx, c)
}

// UpdateSettings patches a top-level field of the active invoice
func (s *Store) UpdateSettings(ctx context.Context, field string, value interface{}) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		return models.Invoice{}, err
	}

	inv := s.active
	var err error
	switch field {
	case "id":
		var id string
		id, err = cast.ToStringE(value)
		if err == nil {
			if verr := storage.ValidateKey(id); verr != nil {
				return models.Invoice{}, ierr.WithError(verr).
					WithHint("Invoice number cannot be empty or contain slashes.").
					Mark(ierr.ErrValidation)
			}
		}
		inv.ID = id
	case "date":
		inv.Date, err = cast.ToStringE(value)
	case "dueDate":
		inv.DueDate, err = cast.ToStringE(value)
	case "notes":
		inv.Notes, err = cast.ToStringE(value)
	case "currency":
		var code string
		code, err = cast.ToStringE(value)
		inv.Currency = strings.ToUpper(strings.TrimSpace(code))
	case "taxRate":
		var f float64
		f, err = cast.ToFloat64E(value)
		inv.TaxRate = models.Number(f)
	case "discountRate":
		var f float64
		f, err = cast.ToFloat64E(value)
		inv.DiscountRate = models.Number(f)
	default:
		return models.Invoice{}, unknownField("invoice", field)
	}
	if err != nil {
		return models.Invoice{}, invalidValue(field, err)
	}

	s.active = inv
	return s.active.Clone(), nil
}

// InvoiceDraft is the content applied to a freshly created invoice
type InvoiceDraft struct {
	Client models.Client
	Items  []models.LineItem
	Notes  string
}

// StartInvoice creates a new active invoice and fills it from draft in one
// step. Empty items or notes keep the blank invoice defaults.
func (s *Store) StartInvoice(ctx context.Context, draft InvoiceDraft) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, persistErr := s.createNewInvoiceLocked(ctx)

	s.active.Client = draft.Client
	if len(draft.Items) > 0 {
		items := make([]models.LineItem, len(draft.Items))
		for i, it := range draft.Items {
			if it.ID == "" {
				it.ID = s.newID()
			}
			items[i] = it
		}
		s.active.Items = items
	}
	if draft.Notes != "" {
		s.active.Notes = draft.Notes
	}
	return s.active.Clone(), persistErr
}

func unknownField(kind, field string) error {
	return ierr.NewErrorf("unknown %s field %q", kind, field).
		WithHintf("Unknown %s field %q.", kind, field).
		Mark(ierr.ErrValidation)
}

func invalidValue(field string, err error) error {
	return ierr.WithError(err).
		WithHintf("Invalid value for %s.", field).
		Mark(ierr.ErrValidation)
}
