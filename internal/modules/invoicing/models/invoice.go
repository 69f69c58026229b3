package models

import (
	"strings"
)

// InvoiceStatus is the lifecycle tag of an invoice
type InvoiceStatus string

const (
	StatusNew   InvoiceStatus = "new"
	StatusDraft InvoiceStatus = "draft"
	StatusSaved InvoiceStatus = "saved"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusNew, StatusDraft, StatusSaved:
		return true
	}
	return false
}

// Client is stored in the global document and copied by value into invoices
type Client struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=1000"`
	GSTIN   string `json:"gstin,omitempty" validate:"max=20"`
}

// HasContact reports whether any contact detail is present
func (c Client) HasContact() bool {
	return strings.TrimSpace(c.Email) != "" ||
		strings.TrimSpace(c.Phone) != "" ||
		strings.TrimSpace(c.Address) != ""
}

// LineItem is a single row on an invoice
type LineItem struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    Number `json:"quantity"`
	Price       Number `json:"price"`
	Category    string `json:"category,omitempty"`
}

// Amount is quantity times unit price
func (li LineItem) Amount() float64 {
	return li.Quantity.Float() * li.Price.Float()
}

// Invoice is both the editable document and its persisted form
type Invoice struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	DueDate      string        `json:"dueDate"`
	Status       InvoiceStatus `json:"status"`
	Client       Client        `json:"client"`
	Items        []LineItem    `json:"items"`
	TaxRate      Number        `json:"taxRate"`
	DiscountRate Number        `json:"discountRate"`
	Currency     string        `json:"currency"`
	Notes        string        `json:"notes"`
}

// Clone returns a copy that shares no slices with the receiver
func (inv Invoice) Clone() Invoice {
	out := inv
	if inv.Items != nil {
		out.Items = make([]LineItem, len(inv.Items))
		copy(out.Items, inv.Items)
	}
	return out
}

// DateOnly returns the YYYY-MM-DD part of the invoice date
func (inv Invoice) DateOnly() string {
	if i := strings.IndexByte(inv.Date, 'T'); i >= 0 {
		return inv.Date[:i]
	}
	return inv.Date
}

// ItemSummary joins item descriptions for one-line listings
func (inv Invoice) ItemSummary() string {
	parts := make([]string, 0, len(inv.Items))
	for _, it := range inv.Items {
		parts = append(parts, it.Description)
	}
	return strings.Join(parts, "; ")
}

// AddItemRequest represents a line item creation request
type AddItemRequest struct {
	Description string  `json:"description" validate:"max=500"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty" validate:"max=100"`
}

// FieldPatch is a single field-level update ({"field": "...", "value": ...})
type FieldPatch struct {
	Field string      `json:"field" validate:"required"`
	Value interface{} `json:"value"`
}
