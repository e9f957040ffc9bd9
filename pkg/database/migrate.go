package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	"jadwal-kuliah/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrMigrationDirty 上次迁移中断，表结构（含排课唯一索引）可能不完整
var ErrMigrationDirty = errors.New("数据库迁移处于 dirty 状态，需人工修复后再启动")

// RunMigrations 执行内嵌的排课表结构与默认时间段迁移
// cfg.Enabled 为 false 时只检查版本、不执行迁移
func RunMigrations(db *sql.DB, cfg *config.MigrateConfig, logger *zap.Logger) error {
	m, err := newMigrator(db, cfg.Table)
	if err != nil {
		return err
	}

	if cfg.Enabled {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("执行迁移失败: %w", err)
		}
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Warn("数据库尚未迁移", zap.String("table", cfg.Table), zap.Bool("enabled", cfg.Enabled))
		return nil
	case err != nil:
		return fmt.Errorf("读取迁移版本失败: %w", err)
	case dirty:
		return fmt.Errorf("%w (version=%d)", ErrMigrationDirty, version)
	}

	logger.Info("数据库迁移完成",
		zap.Uint("version", version),
		zap.String("table", cfg.Table),
		zap.Bool("applied", cfg.Enabled),
	)
	return nil
}

func newMigrator(db *sql.DB, table string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("加载迁移文件失败: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: table})
	if err != nil {
		return nil, fmt.Errorf("创建迁移驱动失败: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("初始化迁移实例失败: %w", err)
	}
	return m, nil
}
