package services

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

// Clients returns the saved clients
func (s *Store) Clients() []models.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Client{}, s.clients...)
}

// FindClientByName matches the name case-insensitively
func (s *Store) FindClientByName(name string) (models.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.ToLower(strings.TrimSpace(name))
	return lo.Find(s.clients, func(c models.Client) bool {
		return name != "" && strings.ToLower(strings.TrimSpace(c.Name)) == name
	})
}

// AddClient appends a client with a fresh id
func (s *Store) AddClient(ctx context.Context, c models.Client) (models.Client, error) {
	if err := validateClient(c); err != nil {
		return models.Client{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.newID()
	c.Name = strings.TrimSpace(c.Name)
	s.clients = append(s.clients, c)
	return c, s.persistGlobalLocked(ctx)
}

// EditClient replaces the client with the given id
func (s *Store) EditClient(ctx context.Context, id string, c models.Client) (models.Client, error) {
	if err := validateClient(c); err != nil {
		return models.Client{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(s.clients, func(x models.Client) bool { return x.ID == id })
	if !ok {
		return models.Client{}, clientNotFound(id)
	}

	c.ID = id
	c.Name = strings.TrimSpace(c.Name)
	s.clients[idx] = c
	return c, s.persistGlobalLocked(ctx)
}

// DeleteClient removes a saved client. Invoices keep their snapshot.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !lo.ContainsBy(s.clients, func(c models.Client) bool { return c.ID == id }) {
		return clientNotFound(id)
	}
	s.clients = lo.Reject(s.clients, func(c models.Client, _ int) bool { return c.ID == id })
	return s.persistGlobalLocked(ctx)
}

// SaveClientFromInvoice stores the active invoice's client when it has a
// name that is not saved yet. It reports whether a client was added.
func (s *Store) SaveClientFromInvoice(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.active.Client
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return false, nil
	}
	exists := lo.ContainsBy(s.clients, func(x models.Client) bool {
		return strings.EqualFold(strings.TrimSpace(x.Name), name)
	})
	if exists {
		return false, nil
	}

	c.ID = s.newID()
	c.Name = name
	s.clients = append(s.clients, c)
	return true, s.persistGlobalLocked(ctx)
}

// Products returns the saved products
func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product{}, s.products...)
}

// FindProductByName matches name or description case-insensitively
func (s *Store) FindProductByName(name string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo.Find(s.products, func(p models.Product) bool { return p.Matches(name) })
}

// AddProduct appends a product with a fresh id
func (s *Store) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.newID()
	s.products = append(s.products, p)
	return p, s.persistGlobalLocked(ctx)
}

// EditProduct replaces the product with the given id
func (s *Store) EditProduct(ctx context.Context, id string, p models.Product) (models.Product, error) {
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, idx, ok := lo.FindIndexOf(s.products, func(x models.Product) bool { return x.ID == id })
	if !ok {
		return models.Product{}, productNotFound(id)
	}

	p.ID = id
	s.products[idx] = p
	return p, s.persistGlobalLocked(ctx)
}

// DeleteProduct removes a saved product
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !lo.ContainsBy(s.products, func(p models.Product) bool { return p.ID == id }) {
		return productNotFound(id)
	}
	s.products = lo.Reject(s.products, func(p models.Product, _ int) bool { return p.ID == id })
	return s.persistGlobalLocked(ctx)
}

// ProductCategories lists the distinct non-empty categories, sorted
func (s *Store) ProductCategories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := lo.Uniq(lo.FilterMap(s.products, func(p models.Product, _ int) (string, bool) {
		c := strings.TrimSpace(p.Category)
		return c, c != ""
	}))
	sort.Strings(cats)
	return cats
}

func validateClient(c models.Client) error {
	if strings.TrimSpace(c.Name) == "" {
		return ierr.NewError("client name is empty").
			WithHint("Client name is required.").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func validateProduct(p models.Product) error {
	if strings.TrimSpace(p.Label()) == "" {
		return ierr.NewError("product name is empty").
			WithHint("Product name is required.").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func clientNotFound(id string) error {
	return ierr.NewErrorf("client %s not found", id).
		WithHint("That client no longer exists.").
		Mark(ierr.ErrNotFound)
}

func productNotFound(id string) error {
	return ierr.NewErrorf("product %s not found", id).
		WithHint("That product no longer exists.").
		Mark(ierr.ErrNotFound)
}
