package pg

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending goose migration found in dir.
func Migrate(cfg Config, dir string) error {
	return runGoose(cfg, dir, goose.Up)
}

// Rollback reverts the most recent migration.
func Rollback(cfg Config, dir string) error {
	return runGoose(cfg, dir, goose.Down)
}

func runGoose(cfg Config, dir string, op func(db *sql.DB, dir string, opts ...goose.OptionsFunc) error) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose dialect")
	}

	db, err := newSqlConnection(cfg)
	if err != nil {
		return errors.Wrap(err, "open postgres")
	}
	defer db.Close()

	if err = op(db, dir); err != nil {
		return errors.Wrapf(err, "goose %s", dir)
	}
	return nil
}
