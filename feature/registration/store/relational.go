package store

import (
	"context"
	"errors"
	"time"

	"course-registry/core/reconcile"
	"course-registry/feature/registration/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const batchSize = 100

// Relational is the primary store. The database assigns ids.
type Relational struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewRelational creates a Relational store over db.
func NewRelational(db *gorm.DB, logger *zap.Logger) *Relational {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relational{
		db:     db,
		logger: logger.With(zap.String("adapter", "relational")),
		now:    time.Now,
	}
}

func (s *Relational) Name() string { return "relational" }

// Migrate creates or updates the registrations table.
func (s *Relational) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&models.RegistrationRow{})
}

func (s *Relational) List(ctx context.Context) ([]models.Registration, error) {
	var rows []models.RegistrationRow
	if err := s.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, reconcile.Unavailable(s.Name(), "list", err)
	}

	records := make([]models.Registration, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.ToRegistration())
	}
	return records, nil
}

func (s *Relational) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.RegistrationRow{}).Count(&n).Error; err != nil {
		return 0, reconcile.Unavailable(s.Name(), "count", err)
	}
	return int(n), nil
}

// Append inserts r and returns it with the database id. A record whose id is
// already stored for the same email is returned as stored.
func (s *Relational) Append(ctx context.Context, r models.Registration) (models.Registration, error) {
	db := s.db.WithContext(ctx)

	if r.ID != 0 {
		var existing models.RegistrationRow
		err := db.Where("id = ? AND email = ?", r.ID, r.Email).Take(&existing).Error
		if err == nil {
			return existing.ToRegistration(), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Registration{}, reconcile.Unavailable(s.Name(), "append", err)
		}
	}

	row := s.newRow(r)
	if err := db.Create(&row).Error; err != nil {
		return models.Registration{}, reconcile.Unavailable(s.Name(), "append", err)
	}
	return row.ToRegistration(), nil
}

// ReplaceAll deletes every row and inserts records in one transaction. Ids
// are reassigned by the database in slice order.
func (s *Relational) ReplaceAll(ctx context.Context, records []models.Registration) error {
	rows := make([]models.RegistrationRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, s.newRow(r))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.RegistrationRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, batchSize).Error
	})
	if err != nil {
		return reconcile.Unavailable(s.Name(), "replace_all", err)
	}
	return nil
}

func (s *Relational) Clear(ctx context.Context) (int, error) {
	res := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.RegistrationRow{})
	if res.Error != nil {
		return 0, reconcile.Unavailable(s.Name(), "clear", res.Error)
	}
	s.logger.Info("Cleared registrations", zap.Int64("rows", res.RowsAffected))
	return int(res.RowsAffected), nil
}

func (s *Relational) newRow(r models.Registration) models.RegistrationRow {
	row := models.ToRow(r)
	row.ID = 0
	if row.CreatedAt.IsZero() {
		row.CreatedAt = models.Stamp(s.now())
	}
	if row.Interests == nil {
		row.Interests = []string{}
	}
	return row
}
