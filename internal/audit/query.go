package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/smart-spa/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Query filters the audit trail. Zero fields do not filter. To is an
// inclusive calendar day.
type Query struct {
	SalonID *uint
	Action  string
	Entity  string
	From    *time.Time
	To      *time.Time

	Page  int
	Limit int
}

// Normalized clamps paging into range.
func (q Query) Normalized() Query {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > MaxPageSize {
		q.Limit = DefaultPageSize
	}
	return q
}

func (q Query) filters(db *gorm.DB) *gorm.DB {
	if q.SalonID != nil {
		db = db.Where("salon_id = ?", *q.SalonID)
	}
	if q.Action != "" {
		db = db.Where("action = ?", q.Action)
	}
	if q.Entity != "" {
		db = db.Where("entity = ?", q.Entity)
	}
	if q.From != nil {
		db = db.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("created_at < ?", q.To.Add(24*time.Hour))
	}
	return db
}

// List returns one page of audit rows, newest first, and the total match count.
func (l *Logger) List(ctx context.Context, q Query) ([]models.AuditLog, int64, error) {
	q = q.Normalized()

	base := l.db.WithContext(ctx).Model(&models.AuditLog{}).Scopes(q.filters)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := []models.AuditLog{}
	err := base.
		Order("created_at DESC").
		Order("id DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
