package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"causelist/models"
	"causelist/pkg/segment"
)

// Gorm stores results as documents and cases rows.
type Gorm struct {
	db     *gorm.DB
	logger *zap.Logger
}

// OpenPostgres connects to dsn and, when migrate is set, creates the tables.
func OpenPostgres(dsn string, migrate bool, logger *zap.Logger) (*Gorm, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	g := NewGorm(db, logger)
	if migrate {
		if err := g.Migrate(); err != nil {
			return nil, closeWith(g, err)
		}
	}
	return g, nil
}

// closeWith releases g's connections and returns err, joined with any
// close failure.
func closeWith(g *Gorm, err error) error {
	if cerr := g.Close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// NewGorm wraps an open gorm handle.
func NewGorm(db *gorm.DB, logger *zap.Logger) *Gorm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gorm{db: db, logger: logger}
}

// Migrate creates or updates the documents and cases tables. Each model is
// migrated on its own so one failure does not block the other.
func (g *Gorm) Migrate() error {
	var errs []error
	for _, m := range []any{&models.Document{}, &models.Case{}} {
		if err := g.db.AutoMigrate(m); err != nil {
			g.logger.Warn("migration warning", zap.String("model", fmt.Sprintf("%T", m)), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (g *Gorm) Get(ctx context.Context, key string) (*Result, error) {
	var doc models.Document
	err := g.db.WithContext(ctx).
		Preload("Cases", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Where("doc_key = ?", key).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return documentResult(&doc), nil
}

func (g *Gorm) Put(ctx context.Context, r *Result) error {
	if err := validate(r); err != nil {
		return err
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		err := tx.Where("doc_key = ?", r.Key).First(&doc).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			if err := tx.Where("document_id = ?", doc.ID).Delete(&models.Case{}).Error; err != nil {
				return err
			}
		}
		doc.Key, doc.FileHash, doc.Engine = r.Key, r.FileHash, r.Engine
		doc.Pages, doc.RawText, doc.ExtractionTime = r.Pages, r.RawText, r.ExtractionTime
		if !r.CreatedAt.IsZero() && doc.ID == 0 {
			doc.CreatedAt = r.CreatedAt
		}
		doc.Cases = nil
		if err := tx.Save(&doc).Error; err != nil {
			return err
		}
		rows := caseRows(doc.ID, r.Cases)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func caseRows(docID uint, cases *segment.Cases) []models.Case {
	mains := cases.Mains()
	rows := make([]models.Case, 0, len(mains))
	for i, m := range mains {
		rows = append(rows, models.Case{DocumentID: docID, Serial: m, Position: i, Content: cases.Text(m)})
	}
	return rows
}

func documentResult(doc *models.Document) *Result {
	cases := segment.NewCases()
	for _, c := range doc.Cases {
		cases.Set(c.Serial, c.Content)
	}
	return &Result{
		Key:            doc.Key,
		FileHash:       doc.FileHash,
		Engine:         doc.Engine,
		Pages:          doc.Pages,
		RawText:        doc.RawText,
		Cases:          cases,
		ExtractionTime: doc.ExtractionTime,
		CreatedAt:      doc.CreatedAt,
	}
}
