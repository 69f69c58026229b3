package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is the row layout shared by the postgres migrations
type Document struct {
	Kind      string         `gorm:"primaryKey;type:varchar(32)"`
	Key       string         `gorm:"primaryKey;type:varchar(255)"`
	Body      datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (Document) TableName() string {
	return "documents"
}

// PostgresStore keeps documents in a jsonb table. The schema is owned by
// cmd/migrate, not created here.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PostgresStore) put(ctx context.Context, kind, key string, doc []byte) error {
	row := Document{Kind: kind, Key: key, Body: datatypes.JSON(doc), UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write %s %s: %w", kind, key, err)
	}
	return nil
}

func (s *PostgresStore) get(ctx context.Context, kind, key string) ([]byte, error) {
	var row Document
	err := s.db.WithContext(ctx).Where("kind = ? AND key = ?", kind, key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s %s: %w", kind, key, err)
	}
	return []byte(row.Body), nil
}

func (s *PostgresStore) Put(ctx context.Context, key string, doc []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return s.put(ctx, kindInvoice, key, doc)
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.get(ctx, kindInvoice, key)
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).
		Where("kind = ? AND key = ?", kindInvoice, key).
		Delete(&Document{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([][]byte, error) {
	var rows []Document
	err := s.db.WithContext(ctx).
		Where("kind = ?", kindInvoice).
		Order("key ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	docs := make([][]byte, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, []byte(r.Body))
	}
	return docs, nil
}

func (s *PostgresStore) GetGlobal(ctx context.Context) ([]byte, error) {
	return s.get(ctx, kindGlobal, globalKey)
}

func (s *PostgresStore) PutGlobal(ctx context.Context, doc []byte) error {
	return s.put(ctx, kindGlobal, globalKey, doc)
}
