// Package sqlite implements the persistent store module backing the
// conversation history, user profiles, and the raw-event audit log. It
// uses modernc.org/sqlite (pure Go, no CGO) with WAL mode.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/YiFeiChang/Smart-Farm-Steward/internal/core"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/cron"
	"github.com/YiFeiChang/Smart-Farm-Steward/internal/store"
	"gopkg.in/yaml.v3"

	_ "modernc.org/sqlite" // SQLite driver registration
)

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ store.HistoryStore = (*historyStore)(nil)
	_ store.ProfileStore = (*profileStore)(nil)
	_ store.EventLog     = (*eventLog)(nil)
	_ core.Configurable  = (*Module)(nil)
	_ core.Provisioner   = (*Module)(nil)
	_ core.Validator     = (*Module)(nil)
	_ core.Starter       = (*Module)(nil)
	_ core.Stopper       = (*Module)(nil)
)

// Module provides the HistoryStore, ProfileStore, and EventLog services
// backed by a single SQLite database, plus the event retention job.
type Module struct {
	config    Config
	db        *sql.DB
	logger    *slog.Logger
	history   *historyStore
	profiles  *profileStore
	events    *eventLog
	scheduler *cron.Scheduler
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  "store.sqlite",
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("sqlite: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.logger = ctx.Logger

	if m.config.Path == "" {
		m.config.Path = filepath.Join(ctx.DataDir, defaultDBFile)
	}

	if dir := filepath.Dir(m.config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", m.config.Path)
	if err != nil {
		return fmt.Errorf("sqlite: open %s: %w", m.config.Path, err)
	}

	// SQLite handles one writer at a time; limit pool to 1 connection
	// so PRAGMAs apply consistently.
	db.SetMaxOpenConns(1)

	if m.config.walEnabled() {
		if _, err := db.ExecContext(context.TODO(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return fmt.Errorf("sqlite: enable WAL: %w", err)
		}
	}

	if _, err := db.ExecContext(context.TODO(), fmt.Sprintf("PRAGMA busy_timeout=%d", m.config.BusyTimeout)); err != nil {
		_ = db.Close()
		return fmt.Errorf("sqlite: set busy_timeout: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return err
	}

	m.db = db
	m.history = &historyStore{db: db}
	m.profiles = &profileStore{db: db}
	m.events = &eventLog{db: db}

	m.scheduler = cron.NewScheduler(ctx.Logger)
	if err := m.scheduler.RegisterJob(&cron.EventLogRetentionJob{
		Events:       m.events,
		Retention:    m.config.EventRetention,
		Logger:       ctx.Logger,
		ScheduleExpr: m.config.RetentionSchedule,
	}); err != nil {
		_ = db.Close()
		return err
	}

	ctx.RegisterService("store.history", m.history)
	ctx.RegisterService("store.profiles", m.profiles)
	ctx.RegisterService("store.events", m.events)

	m.logger.Info("sqlite store module provisioned",
		"path", m.config.Path,
		"wal", m.config.walEnabled(),
	)

	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	if err := m.config.validate(); err != nil {
		return err
	}

	if err := m.db.PingContext(context.TODO()); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}

	return nil
}

// Start implements core.Starter. It begins the event retention schedule.
func (m *Module) Start() error {
	return m.scheduler.Start()
}

// Stop implements core.Stopper.
func (m *Module) Stop(ctx context.Context) error {
	m.logger.Info("sqlite store module stopping")
	if m.scheduler != nil {
		_ = m.scheduler.Stop(ctx)
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// History returns the HistoryStore implementation.
func (m *Module) History() store.HistoryStore {
	return m.history
}

// Profiles returns the ProfileStore implementation.
func (m *Module) Profiles() store.ProfileStore {
	return m.profiles
}

// Events returns the EventLog implementation.
func (m *Module) Events() store.EventLog {
	return m.events
}
