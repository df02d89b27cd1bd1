package store

import (
	"embed"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationLogger adapts logrus to migrate.Logger.
type migrationLogger struct {
	logger  logrus.FieldLogger
	verbose bool
}

func (l migrationLogger) Printf(format string, v ...any) {
	l.logger.Infof(format, v...)
}

func (l migrationLogger) Verbose() bool {
	return l.verbose
}

// Migrate applies the embedded schema migrations. A zero version means
// "latest".
func (s *Store) Migrate(version uint, verbose bool) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to open embedded migrations")
	}

	driver, err := migratemysql.WithInstance(s.db.DB, &migratemysql.Config{})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, "mysql", driver)
	if err != nil {
		s.logger.WithError(err).Error("Failed to create migrate instance")
		return pkgerrors.Wrap(err, "failed to create migrate instance")
	}
	m.Log = migrationLogger{logger: s.logger, verbose: verbose}

	start := time.Now()
	if version != 0 {
		err = m.Migrate(version)
	} else {
		err = m.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		s.logger.Info("No new migrations to apply")
		return nil
	}
	if err != nil {
		current, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			s.logger.WithError(verr).Error("Failed to get current migration version")
		}
		s.logger.WithError(err).Errorf("Failed to apply migrations. Database version is dirty=%t at version %d", dirty, current)
		return pkgerrors.Wrap(err, "failed to apply migrations")
	}

	s.logger.Infof("Database migrations completed in %v", time.Since(start))
	return nil
}
