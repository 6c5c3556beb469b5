package remote

import (
	"context"
	"fmt"

	"event-sync/core/events"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EventStat is one row of the event_stats table.
type EventStat struct {
	Name  string `gorm:"column:name;primaryKey;size:64" json:"name"`
	Total int64  `gorm:"column:total;not null" json:"total"`
}

// TableName overrides the table name used by GORM.
func (EventStat) TableName() string {
	return "event_stats"
}

// GormBackend persists remote counts through GORM.
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend wraps an open database connection.
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

// Migrate creates or updates the event_stats table.
func (b *GormBackend) Migrate(ctx context.Context) error {
	if err := b.db.WithContext(ctx).AutoMigrate(&EventStat{}); err != nil {
		return fmt.Errorf("failed to migrate event_stats: %w", err)
	}
	return nil
}

// Add upserts the row for name, incrementing total in place so concurrent
// adds never overwrite each other.
func (b *GormBackend) Add(ctx context.Context, name events.Name, delta int64) error {
	row := EventStat{Name: string(name), Total: delta}
	err := b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total": gorm.Expr("total + ?", delta),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to add to %s: %w", name, err)
	}
	return nil
}

func (b *GormBackend) Count(ctx context.Context, name events.Name) (int64, error) {
	var rows []EventStat
	if err := b.db.WithContext(ctx).Where("name = ?", string(name)).Limit(1).Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (b *GormBackend) Reset(ctx context.Context) error {
	err := b.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&EventStat{}).Error
	if err != nil {
		return fmt.Errorf("failed to reset event_stats: %w", err)
	}
	return nil
}

// List returns every stored row ordered by name.
func (b *GormBackend) List(ctx context.Context) ([]EventStat, error) {
	var rows []EventStat
	if err := b.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list event_stats: %w", err)
	}
	return rows, nil
}
