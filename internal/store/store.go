package store

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/hunterjsb/pokebot/internal/config"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memoryDSN is the shared in-memory SQLite database
const memoryDSN = "file::memory:?cache=shared"

// Store persists profiles, collections and quests
type Store struct {
	DB     *gorm.DB
	Logger zerolog.Logger

	// Driver is the dialect actually in use after any fallback
	Driver string

	now func() time.Time
}

// Open connects to the configured backend and migrates the schema.
// A failing Postgres connection falls back to the SQLite file.
func Open(cfg config.DBConfig, log zerolog.Logger) (*Store, error) {
	s := &Store{
		Logger: log.With().Str("component", "store").Logger(),
		now:    time.Now,
	}

	var err error
	switch cfg.Driver {
	case "postgres":
		s.DB, err = s.openPostgres(cfg)
		if err == nil {
			err = ping(s.DB)
		}
		if err != nil {
			s.Logger.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
			s.DB, err = s.openSqlite(cfg.SqlitePath)
		}
	case "memory":
		s.DB, err = s.openSqlite("")
	default:
		s.DB, err = s.openSqlite(cfg.SqlitePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s.Driver = s.DB.Dialector.Name()

	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Ping()
}

func (s *Store) openPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
	)

	s.Logger.Debug().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Connecting to Postgres DB")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// openSqlite opens the SQLite file at path, or the shared in-memory
// database when path is empty
func (s *Store) openSqlite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = memoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if path == "" {
		s.Logger.Info().Msg("Using local SQLite DB in memory")
	} else {
		s.Logger.Info().Str("path", path).Msg("Using local SQLite DB")
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA foreign_keys = ON;",
	}
	if path != "" {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL;")
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// Migrate creates or updates every table
func (s *Store) Migrate() error {
	s.Logger.Debug().Msg("Migrating schema")
	if err := s.DB.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
