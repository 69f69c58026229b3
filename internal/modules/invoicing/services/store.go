package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/text/language"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/repositories"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

// SaveResult reports the outcome of an invoice save
type SaveResult struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message"`
	Invoice models.Invoice `json:"invoice"`
}

// Store owns the in-memory invoicing state for a session and keeps it in
// sync with the document store. All methods are safe for concurrent use;
// persistence writes happen while the lock is held so writes to the same
// document never interleave.
type Store struct {
	mu sync.Mutex

	invoiceRepo repositories.InvoiceRepo
	globalRepo  repositories.GlobalRepo

	now    func() time.Time
	newID  func() string
	locale language.Tag

	active    models.Invoice
	hasActive bool
	invoices  []models.Invoice
	clients   []models.Client
	products  []models.Product
	settings  models.CompanySettings
}

type Option func(*Store)

// WithClock overrides time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the uuid generator used for items, clients and products
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLocale sets the locale used for currency formatting
func WithLocale(tag language.Tag) Option {
	return func(s *Store) { s.locale = tag }
}

func NewStore(invoiceRepo repositories.InvoiceRepo, globalRepo repositories.GlobalRepo, opts ...Option) *Store {
	s := &Store{
		invoiceRepo: invoiceRepo,
		globalRepo:  globalRepo,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
		locale:      language.AmericanEnglish,
		settings:    models.DefaultCompanySettings(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the global document and every invoice into memory. Records
// written before ids existed get one assigned here.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, found, err := s.globalRepo.Load(ctx)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Could not read saved settings.").
			Mark(ierr.ErrPersistence)
	}

	migrated := false
	if found {
		s.clients = data.Clients
		s.products = data.Products
		if data.CompanySettings != nil {
			s.settings = *data.CompanySettings
		}
		for i := range s.clients {
			if s.clients[i].ID == "" {
				s.clients[i].ID = s.newID()
				migrated = true
			}
		}
		for i := range s.products {
			if s.products[i].ID == "" {
				s.products[i].ID = s.newID()
				migrated = true
			}
		}
	}

	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Could not read saved invoices.").
			Mark(ierr.ErrPersistence)
	}
	s.invoices = invoices

	utils.LogInfo("invoicing state loaded", map[string]interface{}{
		"invoices": len(s.invoices),
		"clients":  len(s.clients),
		"products": len(s.products),
	})

	if migrated {
		if err := s.persistGlobalLocked(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ensureActiveLocked creates the first active invoice lazily so read-only
// sessions do not consume an invoice number.
func (s *Store) ensureActiveLocked(ctx context.Context) error {
	if s.hasActive {
		return nil
	}
	_, err := s.createNewInvoiceLocked(ctx)
	return err
}

// ActiveInvoice returns a copy of the invoice being edited
func (s *Store) ActiveInvoice(ctx context.Context) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.ensureActiveLocked(ctx)
	return s.active.Clone(), err
}

// CreateNewInvoice replaces the active invoice with a blank one and
// allocates the next invoice number.
func (s *Store) CreateNewInvoice(ctx context.Context) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createNewInvoiceLocked(ctx)
}

func (s *Store) createNewInvoiceLocked(ctx context.Context) (models.Invoice, error) {
	id, persistErr := s.allocateInvoiceNumberLocked(ctx)

	s.active = models.Invoice{
		ID:      id,
		Date:    s.now().Format("2006-01-02"),
		DueDate: "",
		Status:  models.StatusNew,
		Client:  models.Client{},
		Items: []models.LineItem{
			{ID: s.newID(), Description: "", Quantity: 1, Price: 0},
		},
		TaxRate:      models.DefaultTaxRate,
		DiscountRate: 0,
		Currency:     models.DefaultCurrency,
		Notes:        models.DefaultNotes,
	}
	s.hasActive = true
	// the invoice exists in memory even if the counter could not be saved
	return s.active.Clone(), persistErr
}

// LoadInvoice makes a copy of inv the active invoice
func (s *Store) LoadInvoice(inv models.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = inv.Clone()
	s.hasActive = true
}

// LoadInvoiceByID loads a persisted invoice from the in-memory list
func (s *Store) LoadInvoiceByID(id string) (models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := lo.Find(s.invoices, func(i models.Invoice) bool { return i.ID == id })
	if !ok {
		return models.Invoice{}, ierr.NewErrorf("invoice %s not found", id).
			WithHintf("Invoice %s does not exist.", id).
			Mark(ierr.ErrNotFound)
	}
	s.active = inv.Clone()
	s.hasActive = true
	return s.active.Clone(), nil
}

// SaveDraft persists the active invoice with status "draft"
func (s *Store) SaveDraft(ctx context.Context) SaveResult {
	return s.saveActive(ctx, models.StatusDraft)
}

// SaveInvoiceFinal persists the active invoice with status "saved"
func (s *Store) SaveInvoiceFinal(ctx context.Context) SaveResult {
	return s.saveActive(ctx, models.StatusSaved)
}

func (s *Store) saveActive(ctx context.Context, status models.InvoiceStatus) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureActiveLocked(ctx); err != nil {
		utils.LogWarn("invoice counter not persisted", map[string]interface{}{"error": err.Error()})
	}

	inv := s.active.Clone()
	inv.Status = status

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		utils.LogError("failed to save invoice", err, map[string]interface{}{
			"invoice_id": inv.ID,
			"status":     status,
		})
		return SaveResult{
			OK:      false,
			Message: fmt.Sprintf("Failed to save invoice %s: %v", inv.ID, err),
			Invoice: s.active.Clone(),
		}
	}

	s.active = inv
	s.upsertLocked(inv)

	msg := "Invoice saved successfully!"
	if status == models.StatusDraft {
		msg = "Draft saved successfully!"
	}
	return SaveResult{OK: true, Message: msg, Invoice: inv.Clone()}
}

// upsertLocked replaces the invoice with the same id or prepends it
func (s *Store) upsertLocked(inv models.Invoice) {
	_, idx, ok := lo.FindIndexOf(s.invoices, func(i models.Invoice) bool { return i.ID == inv.ID })
	if ok {
		s.invoices[idx] = inv.Clone()
		return
	}
	s.invoices = append([]models.Invoice{inv.Clone()}, s.invoices...)
}

// DeleteInvoice removes an invoice from storage and memory. Deleting the
// active invoice starts a fresh one.
func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		utils.LogError("failed to delete invoice", err, map[string]interface{}{"invoice_id": id})
		return ierr.WithError(err).
			WithHintf("Failed to delete invoice %s.", id).
			Mark(ierr.ErrPersistence)
	}

	s.invoices = lo.Reject(s.invoices, func(i models.Invoice, _ int) bool { return i.ID == id })

	if s.active.ID == id {
		if _, err := s.createNewInvoiceLocked(ctx); err != nil {
			utils.LogWarn("invoice counter not persisted", map[string]interface{}{"error": err.Error()})
		}
	}
	return nil
}

// Invoices returns every persisted invoice, drafts and saved
func (s *Store) Invoices() []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneInvoices(s.invoices)
}

// Drafts returns invoices with status "draft"
func (s *Store) Drafts() []models.Invoice {
	return s.byStatus(models.StatusDraft)
}

// History returns invoices with status "saved"
func (s *Store) History() []models.Invoice {
	return s.byStatus(models.StatusSaved)
}

func (s *Store) byStatus(status models.InvoiceStatus) []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneInvoices(lo.Filter(s.invoices, func(i models.Invoice, _ int) bool {
		return i.Status == status
	}))
}

// InvoicesForClient matches the embedded client name case-insensitively
func (s *Store) InvoicesForClient(name string) []models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.ToLower(strings.TrimSpace(name))
	return cloneInvoices(lo.Filter(s.invoices, func(i models.Invoice, _ int) bool {
		return name != "" && strings.ToLower(strings.TrimSpace(i.Client.Name)) == name
	}))
}

// Totals computes totals for the active invoice
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.ensureActiveLocked(ctx)
	return ComputeTotals(s.active, s.settings), err
}

// FormatCurrency formats amount in the active invoice's currency
func (s *Store) FormatCurrency(amount float64) string {
	s.mu.Lock()
	code := s.active.Currency
	s.mu.Unlock()

	if code == "" {
		code = models.DefaultCurrency
	}
	return FormatCurrency(amount, code, s.locale)
}

// Locale is the tag used for currency formatting
func (s *Store) Locale() language.Tag {
	return s.locale
}

// Now is the store clock
func (s *Store) Now() time.Time {
	return s.now()
}

func cloneInvoices(in []models.Invoice) []models.Invoice {
	out := make([]models.Invoice, len(in))
	for i, inv := range in {
		out[i] = inv.Clone()
	}
	return out
}
