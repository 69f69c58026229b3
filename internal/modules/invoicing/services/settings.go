package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/utils"
)

// FormatInvoiceNumber builds ids like INV-20240105-007
func FormatInvoiceNumber(prefix, date string, n int) string {
	if prefix == "" {
		prefix = models.DefaultInvoicePrefix
	}
	if n < 1 {
		n = 1
	}
	return fmt.Sprintf("%s-%s-%03d", prefix, strings.ReplaceAll(date, "-", ""), n)
}

// AllocateInvoiceNumber formats the next invoice id and commits the counter
// increment in the same step.
func (s *Store) AllocateInvoiceNumber(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allocateInvoiceNumberLocked(ctx)
}

func (s *Store) allocateInvoiceNumberLocked(ctx context.Context) (string, error) {
	next := s.settings.NextInvoiceNumber
	if next < 1 {
		next = 1
	}
	id := FormatInvoiceNumber(s.settings.InvoicePrefix, s.now().Format("2006-01-02"), next)
	s.settings.NextInvoiceNumber = next + 1
	return id, s.persistGlobalLocked(ctx)
}

// CompanySettings returns the current settings
func (s *Store) CompanySettings() models.CompanySettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// ReplaceCompanySettings overwrites the whole settings record
func (s *Store) ReplaceCompanySettings(ctx context.Context, settings models.CompanySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.persistGlobalLocked(ctx)
}

// UpdateCompanySettings patches one settings field by its JSON name
func (s *Store) UpdateCompanySettings(ctx context.Context, field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	if err := patchSettings(&next, field, value); err != nil {
		return err
	}
	s.settings = next
	return s.persistGlobalLocked(ctx)
}

func patchSettings(cs *models.CompanySettings, field string, value interface{}) error {
	var err error
	switch field {
	case "name":
		cs.Name, err = cast.ToStringE(value)
	case "logo":
		cs.Logo, err = cast.ToStringE(value)
	case "address":
		cs.Address, err = cast.ToStringE(value)
	case "phone":
		cs.Phone, err = cast.ToStringE(value)
	case "email":
		cs.Email, err = cast.ToStringE(value)
	case "showInPreview":
		cs.ShowInPreview, err = cast.ToBoolE(value)
	case "enableGST":
		cs.EnableGST, err = cast.ToBoolE(value)
	case "enableTax":
		cs.EnableTax, err = cast.ToBoolE(value)
	case "enableDiscount":
		cs.EnableDiscount, err = cast.ToBoolE(value)
	case "enableAI":
		cs.EnableAI, err = cast.ToBoolE(value)
	case "invoicePrefix":
		cs.InvoicePrefix, err = cast.ToStringE(value)
		cs.InvoicePrefix = strings.TrimSpace(cs.InvoicePrefix)
	case "nextInvoiceNumber":
		var n int
		n, err = cast.ToIntE(value)
		if err == nil && n < 1 {
			return ierr.NewError("next invoice number must be positive").
				WithHint("Next invoice number must be at least 1.").
				Mark(ierr.ErrValidation)
		}
		cs.NextInvoiceNumber = n
	case "apiKey":
		cs.APIKey, err = cast.ToStringE(value)
	case "aiModel":
		cs.AIModel, err = cast.ToStringE(value)
	default:
		return ierr.NewErrorf("unknown settings field %q", field).
			WithHintf("Unknown settings field %q.", field).
			Mark(ierr.ErrValidation)
	}
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Invalid value for %s.", field).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// persistGlobalLocked rewrites the whole global document. Memory keeps the
// new state even when the write fails; the error is logged and returned.
func (s *Store) persistGlobalLocked(ctx context.Context) error {
	settings := s.settings
	data := models.GlobalData{
		Clients:         append([]models.Client(nil), s.clients...),
		Products:        append([]models.Product(nil), s.products...),
		CompanySettings: &settings,
	}
	if data.Clients == nil {
		data.Clients = []models.Client{}
	}
	if data.Products == nil {
		data.Products = []models.Product{}
	}

	if err := s.globalRepo.Save(ctx, data); err != nil {
		utils.LogError("failed to save global data", err, nil)
		return ierr.WithError(err).
			WithHint("Changes are kept for this session but could not be saved to disk.").
			Mark(ierr.ErrPersistence)
	}
	return nil
}
