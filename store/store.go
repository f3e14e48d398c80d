// Package store persists finished ride tests with gorm
// Postgres is tried first; a SQLite file, or memory when no path is set, is the fallback.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lixenwraith/coaster/config"
	"github.com/lixenwraith/coaster/ride"
)

// MemoryPath opens a private in-memory SQLite database
const MemoryPath = "file::memory:"

// ErrNotConnected is returned by operations on a manager without a database
var ErrNotConnected = errors.New("store not connected")

// Manager handles the database connection and test run queries
type Manager struct {
	DB *gorm.DB
	// Local is set when the SQLite fallback is in use
	Local bool

	log zerolog.Logger
}

// NewManager creates an unconnected manager
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{log: log.With().Str("component", "store").Logger()}
}

// Connect establishes a database connection, falling back to SQLite if Postgres fails, then migrates
func (m *Manager) Connect(cfg config.DBConfig) error {
	db, err := m.openPostgres(cfg)
	if err != nil {
		m.log.Error().Err(err).Msg("Failed to connect to Postgres DB, trying SQLite")
		return m.OpenSQLite(cfg.SqlitePath)
	}
	m.DB = db
	m.Local = false
	m.log.Info().Str("host", cfg.Host).Msg("Connected to database")
	return m.migrate()
}

func (m *Manager) openPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
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
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	return db, nil
}

// OpenSQLite connects to a SQLite file, an empty path uses memory
func (m *Manager) OpenSQLite(path string) error {
	if path == "" {
		path = MemoryPath
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to get local SQLite DB: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	// a second connection to :memory: would see an empty database
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	m.DB = db
	m.Local = true
	m.log.Info().Str("path", path).Msg("Using local SQLite DB")
	return m.migrate()
}

func (m *Manager) migrate() error {
	if err := m.DB.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// SaveResult stores a finished test
func (m *Manager) SaveResult(ctx context.Context, res ride.TestResult) (TestRun, error) {
	if m.DB == nil {
		return TestRun{}, ErrNotConnected
	}
	run, err := NewTestRun(res)
	if err != nil {
		return run, fmt.Errorf("encoding test result: %w", err)
	}
	if err := m.DB.WithContext(ctx).Create(&run).Error; err != nil {
		return run, fmt.Errorf("saving test run of ride %d: %w", res.Ride, err)
	}
	m.log.Debug().Uint16("ride", run.RideID).Uint("id", run.ID).Msg("test run saved")
	return run, nil
}

// Runs returns the test runs of a ride, newest first, at most limit (0 for all)
func (m *Manager) Runs(ctx context.Context, id ride.ID, limit int) ([]TestRun, error) {
	if m.DB == nil {
		return nil, ErrNotConnected
	}
	var runs []TestRun
	q := m.DB.WithContext(ctx).Where("ride_id = ?", uint16(id)).Order("finished desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("loading test runs of ride %d: %w", id, err)
	}
	return runs, nil
}

// Close releases the connection
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	sqlDB, err := m.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
