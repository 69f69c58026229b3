package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/storage"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
)

type GlobalRepo interface {
	// Load returns found=false when nothing has been saved yet
	Load(ctx context.Context) (data models.GlobalData, found bool, err error)
	Save(ctx context.Context, data models.GlobalData) error
}

type globalRepo struct {
	store storage.Store
}

func NewGlobalRepo(store storage.Store) GlobalRepo {
	return &globalRepo{store: store}
}

func (r *globalRepo) Load(ctx context.Context) (models.GlobalData, bool, error) {
	var data models.GlobalData

	raw, err := r.store.GetGlobal(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return data, false, nil
		}
		return data, false, err
	}

	// missing settings fields keep their defaults
	defaults := models.DefaultCompanySettings()
	data.CompanySettings = &defaults
	if err := json.Unmarshal(raw, &data); err != nil {
		return models.GlobalData{}, false, fmt.Errorf("failed to decode global data: %w", err)
	}
	if data.CompanySettings == nil {
		data.CompanySettings = &defaults
	}
	return data, true, nil
}

func (r *globalRepo) Save(ctx context.Context, data models.GlobalData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode global data: %w", err)
	}
	return r.store.PutGlobal(ctx, raw)
}
