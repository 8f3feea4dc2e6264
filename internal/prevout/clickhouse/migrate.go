package clickhouse

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/clickhouse"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrator applies the utxo_transaction_outputs schema the lookup reads from.
// Deployments next to the indexer already have it; standalone ones run it once.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator uses the embedded schema, or the migration files in dir when it is set.
func NewMigrator(dsn, dir string) (*Migrator, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}
	dsn = withMultiStatement(dsn)

	var (
		m   *migrate.Migrate
		err error
	)
	if dir != "" {
		m, err = migrate.New("file://"+dir, dsn)
	} else {
		source, srcErr := iofs.New(migrations, "migrations")
		if srcErr != nil {
			return nil, fmt.Errorf("open embedded migrations: %w", srcErr)
		}
		m, err = migrate.NewWithSourceInstance("iofs", source, dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("init migrate: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies pending migrations. It reports whether anything changed.
func (m *Migrator) Up() (bool, error) {
	return changed(m.m.Up())
}

// Down reverts every migration.
func (m *Migrator) Down() (bool, error) {
	return changed(m.m.Down())
}

func (m *Migrator) Close() error {
	sourceErr, dbErr := m.m.Close()
	return errors.Join(sourceErr, dbErr)
}

func changed(err error) (bool, error) {
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

// withMultiStatement lets one migration file hold several statements.
func withMultiStatement(dsn string) string {
	if strings.Contains(dsn, "x-multi-statement=") {
		return dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + "x-multi-statement=true"
}
