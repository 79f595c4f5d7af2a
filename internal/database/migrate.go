package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"folio/internal/middleware"

	"gorm.io/gorm"
)

// Migration is one versioned SQL schema change.
type Migration struct {
	Version    int
	Name       string
	UpScript   string
	DownScript string
}

func (m Migration) String() string {
	return fmt.Sprintf("%06d_%s", m.Version, m.Name)
}

// MigrationLog represents a record of an applied migration in the database.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

//go:embed migrations/*.sql
var migrationFS embed.FS

// LoadMigrations reads paired NNNNNN_name.up.sql / .down.sql files from fsys, sorted by version.
func LoadMigrations(fsys embed.FS, dir string) ([]Migration, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		base := strings.TrimSuffix(name, ".up.sql")
		versionPart, label, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected NNNNNN_name.up.sql", name)
		}
		version, err := strconv.Atoi(versionPart)
		if err != nil {
			return nil, fmt.Errorf("migration %s: invalid version: %w", name, err)
		}

		up, err := fsys.ReadFile(path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read up migration %s: %w", name, err)
		}
		down, err := fsys.ReadFile(path.Join(dir, base+".down.sql"))
		if err != nil {
			return nil, fmt.Errorf("failed to read down migration %s: %w", base, err)
		}

		out = append(out, Migration{
			Version:    version,
			Name:       label,
			UpScript:   string(up),
			DownScript: string(down),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// RunMigrations applies every embedded migration not yet recorded in migration_logs.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	migrations, err := LoadMigrations(migrationFS, "migrations")
	if err != nil {
		return err
	}
	return applyMigrations(ctx, db, migrations)
}

// RollbackLast reverts the most recently applied embedded migration with its down script.
// It returns nil, nil when nothing has been applied.
func RollbackLast(ctx context.Context, db *gorm.DB) (*Migration, error) {
	migrations, err := LoadMigrations(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	return rollbackLast(ctx, db, migrations)
}

func appliedVersions(ctx context.Context, db *gorm.DB) ([]int, error) {
	if err := db.WithContext(ctx).AutoMigrate(&MigrationLog{}); err != nil {
		return nil, fmt.Errorf("failed to ensure migration logs table: %w", err)
	}

	var applied []int
	if err := db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &applied).Error; err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return applied, nil
}

func applyMigrations(ctx context.Context, db *gorm.DB, migrations []Migration) error {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	if err := validateAppliedVersions(applied, migrations); err != nil {
		return err
	}

	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range migrations {
		if done[m.Version] {
			continue
		}
		middleware.Logger.InfoContext(ctx, "Applying migration", slog.String("migration", m.String()))
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.UpScript).Error; err != nil {
				return err
			}
			return tx.Create(&MigrationLog{Version: m.Version, Name: m.Name}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m, err)
		}
	}

	return nil
}

func rollbackLast(ctx context.Context, db *gorm.DB, migrations []Migration) (*Migration, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(applied) == 0 {
		return nil, nil
	}
	if err := validateAppliedVersions(applied, migrations); err != nil {
		return nil, err
	}

	version := applied[len(applied)-1]
	var m Migration
	for _, candidate := range migrations {
		if candidate.Version == version {
			m = candidate
			break
		}
	}

	middleware.Logger.InfoContext(ctx, "Rolling back migration", slog.String("migration", m.String()))
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return err
		}
		return tx.Delete(&MigrationLog{}, "version = ?", m.Version).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to roll back migration %s: %w", m, err)
	}
	return &m, nil
}

func validateAppliedVersions(applied []int, registered []Migration) error {
	known := make(map[int]struct{}, len(registered))
	for _, m := range registered {
		known[m.Version] = struct{}{}
	}

	var unknown []string
	for _, version := range applied {
		if _, ok := known[version]; !ok {
			unknown = append(unknown, fmt.Sprintf("%06d", version))
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return errors.New("migration_logs contains versions not present in code: " + strings.Join(unknown, ", "))
}
