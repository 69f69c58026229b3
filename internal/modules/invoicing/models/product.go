package models

import "strings"

// Product represents a catalog entry. The editor uses Description as the
// display name; assistant-created products also carry Name.
type Product struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty" validate:"max=200"`
	Description string `json:"description" validate:"max=1000"`
	Price       Number `json:"price"`
	Category    string `json:"category,omitempty" validate:"max=100"`
}

// Label is the name shown in lists and on invoice lines
func (p Product) Label() string {
	if strings.TrimSpace(p.Description) != "" {
		return p.Description
	}
	return p.Name
}

// Matches reports whether s names this product (case-insensitive)
func (p Product) Matches(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return false
	}
	return strings.ToLower(p.Name) == s || strings.ToLower(p.Description) == s
}

// ProductRequest represents product create/update request
type ProductRequest struct {
	Name        string  `json:"name,omitempty" validate:"max=200"`
	Description string  `json:"description" validate:"required_without=Name,max=1000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category,omitempty" validate:"max=100"`
}
