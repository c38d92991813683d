package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"conduit/internal/middleware"

	"gorm.io/gorm"
)

// SchemaMigration is one row of the applied-migration history.
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName keeps the history in the conventional table.
func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// migrationHistory tracks which embedded migrations have been applied.
type migrationHistory struct {
	db *gorm.DB
}

func (h migrationHistory) applied(ctx context.Context) ([]int, error) {
	var versions []int
	err := h.db.WithContext(ctx).
		Model(&SchemaMigration{}).
		Order("version ASC").
		Pluck("version", &versions).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || missingTableError(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("read migration history: %w", err)
	}
	return versions, nil
}

// missingTableError recognizes a first run against an empty database for
// both postgres and sqlite.
func missingTableError(err error) bool {
	msg := err.Error()
	if strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist") {
		return true
	}
	return strings.Contains(msg, "no such table")
}

func (h migrationHistory) record(ctx context.Context, m Migration) error {
	if err := h.db.WithContext(ctx).Exec(m.UpScript).Error; err != nil {
		return fmt.Errorf("apply migration %s: %w", m, err)
	}
	row := SchemaMigration{Version: m.Version, Name: m.Name}
	if err := h.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("record migration %s in history: %w", m, err)
	}
	middleware.Logger.Info("Migration applied", slog.Int("version", m.Version), slog.String("name", m.Name))
	return nil
}

func (h migrationHistory) forget(ctx context.Context, version int) error {
	if err := h.db.WithContext(ctx).Where("version = ?", version).Delete(&SchemaMigration{}).Error; err != nil {
		return fmt.Errorf("remove migration %d from history: %w", version, err)
	}
	middleware.Logger.Info("Migration rolled back", slog.Int("version", version))
	return nil
}

// RunMigrations ensures the history table exists and applies every embedded
// migration that is not recorded yet, in version order.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	history := migrationHistory{db: db}
	applied, err := history.applied(ctx)
	if err != nil {
		return err
	}
	if err := checkHistoryKnown(applied, migrations); err != nil {
		return err
	}

	appliedSet := make(map[int]bool, len(applied))
	for _, v := range applied {
		appliedSet[v] = true
	}

	for _, m := range migrations {
		if appliedSet[m.Version] {
			continue
		}
		middleware.Logger.Info("Applying migration", slog.Int("version", m.Version), slog.String("name", m.Name))
		if err := history.record(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// checkHistoryKnown refuses to run against a database whose history records
// versions this build does not carry; that usually means the binary is older
// than the schema.
func checkHistoryKnown(applied []int, known []Migration) error {
	knownSet := make(map[int]struct{}, len(known))
	for _, m := range known {
		knownSet[m.Version] = struct{}{}
	}

	var unknown []int
	for _, version := range applied {
		if _, ok := knownSet[version]; !ok {
			unknown = append(unknown, version)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Ints(unknown)
	parts := make([]string, 0, len(unknown))
	for _, version := range unknown {
		parts = append(parts, fmt.Sprintf("%06d", version))
	}
	return fmt.Errorf("migration history records versions this build does not know: %s", strings.Join(parts, ", "))
}

// RollbackMigration reverts one applied migration by version number.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("no migration with version %d", version)
	}

	history := migrationHistory{db: db}
	applied, err := history.applied(ctx)
	if err != nil {
		return err
	}

	isApplied := false
	for _, v := range applied {
		if v == version {
			isApplied = true
			break
		}
	}
	if !isApplied {
		return fmt.Errorf("migration %s was never applied", m)
	}

	middleware.Logger.Info("Rolling back migration", slog.Int("version", version), slog.String("name", m.Name))
	if err := db.WithContext(ctx).Exec(m.DownScript).Error; err != nil {
		return fmt.Errorf("run down script for %s: %w", m, err)
	}
	return history.forget(ctx, version)
}
