// Package sqlite provides a SQLite implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/storage"

	_ "modernc.org/sqlite"
)

// Store is a SQLite implementation of storage.Store.
type Store struct {
	db *sql.DB
}

// NewMemoryStore creates an in-memory SQLite store.
func NewMemoryStore() (*Store, error) {
	return newStore(":memory:", 1)
}

// NewFileStore creates a file-based SQLite store.
func NewFileStore(path string) (*Store, error) {
	return newStore(path, 0)
}

func newStore(dsn string, maxConns int) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to :memory: opens its own database
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Panel methods

func (s *Store) SavePanel(ctx context.Context, panel *domain.Panel) error {
	optionsJSON, err := json.Marshal(panel.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}
	fieldJSON, err := json.Marshal(panel.Field)
	if err != nil {
		return fmt.Errorf("failed to marshal field: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO panels (id, title, theme, options, field, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, panel.ID, panel.Title, panel.Theme, string(optionsJSON), string(fieldJSON), panel.CreatedAt, panel.UpdatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPanel(row rowScanner) (*domain.Panel, error) {
	var panel domain.Panel
	var theme sql.NullString
	var optionsJSON, fieldJSON string
	if err := row.Scan(&panel.ID, &panel.Title, &theme, &optionsJSON, &fieldJSON, &panel.CreatedAt, &panel.UpdatedAt); err != nil {
		return nil, err
	}
	panel.Theme = theme.String
	if err := json.Unmarshal([]byte(optionsJSON), &panel.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	if err := json.Unmarshal([]byte(fieldJSON), &panel.Field); err != nil {
		return nil, fmt.Errorf("failed to unmarshal field: %w", err)
	}
	return &panel, nil
}

func (s *Store) GetPanel(ctx context.Context, id string) (*domain.Panel, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, theme, options, field, created_at, updated_at FROM panels WHERE id = ?
	`, id)
	panel, err := scanPanel(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "panel", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return panel, nil
}

func (s *Store) ListPanels(ctx context.Context) ([]*domain.Panel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, theme, options, field, created_at, updated_at FROM panels ORDER BY title, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var panels []*domain.Panel
	for rows.Next() {
		panel, err := scanPanel(rows)
		if err != nil {
			return nil, err
		}
		panels = append(panels, panel)
	}
	return panels, rows.Err()
}

// DeletePanel removes the panel together with its readings and cached renders.
func (s *Store) DeletePanel(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM panels WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound{Resource: "panel", ID: id}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM readings WHERE panel_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM render_cache WHERE panel_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// Device methods

func (s *Store) SaveDevice(ctx context.Context, device *storage.Device) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO devices (id, ip, name, type, created_at, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
	`, device.ID, device.IP, device.Name, device.Type, device.CreatedAt, device.LastSeen)
	return err
}

func (s *Store) GetDevice(ctx context.Context, id string) (*storage.Device, error) {
	var device storage.Device
	err := s.db.QueryRowContext(ctx, `
		SELECT id, ip, name, type, created_at, last_seen FROM devices WHERE id = ?
	`, id).Scan(&device.ID, &device.IP, &device.Name, &device.Type, &device.CreatedAt, &device.LastSeen)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "device", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (s *Store) GetDevices(ctx context.Context) ([]*storage.Device, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ip, name, type, created_at, last_seen FROM devices ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []*storage.Device
	for rows.Next() {
		var device storage.Device
		if err := rows.Scan(&device.ID, &device.IP, &device.Name, &device.Type, &device.CreatedAt, &device.LastSeen); err != nil {
			return nil, err
		}
		devices = append(devices, &device)
	}
	return devices, rows.Err()
}

func (s *Store) DeleteDevice(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	return err
}

// Reading methods

func (s *Store) StoreReadings(ctx context.Context, panelID string, readings []domain.Reading) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO readings (panel_id, timestamp, value)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range readings {
		if _, err := stmt.ExecContext(ctx, panelID, r.Timestamp.UTC(), r.Value); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *Store) LatestReading(ctx context.Context, panelID string) (*domain.Reading, error) {
	var r domain.Reading
	err := s.db.QueryRowContext(ctx, `
		SELECT timestamp, value FROM readings
		WHERE panel_id = ?
		ORDER BY timestamp DESC LIMIT 1
	`, panelID).Scan(&r.Timestamp, &r.Value)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "reading", ID: panelID}
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) QueryHistory(ctx context.Context, panelID string, since, until time.Time) ([]domain.Reading, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, value FROM readings
		WHERE panel_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, panelID, since.UTC(), until.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []domain.Reading
	for rows.Next() {
		var r domain.Reading
		if err := rows.Scan(&r.Timestamp, &r.Value); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

func (s *Store) DeleteOldReadings(ctx context.Context, panelID string, before time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM readings WHERE panel_id = ? AND timestamp < ?
	`, panelID, before.UTC())
	return err
}

// Render cache methods

func (s *Store) CacheRender(ctx context.Context, render *storage.CachedRender) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO render_cache (key, format, panel_id, data, generated_at)
		VALUES (?, ?, ?, ?, ?)
	`, render.Key, render.Format, render.PanelID, render.Data, render.GeneratedAt)
	return err
}

func (s *Store) GetCachedRender(ctx context.Context, key, format string) (*storage.CachedRender, error) {
	render := storage.CachedRender{Key: key, Format: format}
	err := s.db.QueryRowContext(ctx, `
		SELECT panel_id, data, generated_at FROM render_cache WHERE key = ? AND format = ?
	`, key, format).Scan(&render.PanelID, &render.Data, &render.GeneratedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound{Resource: "render", ID: key + "." + format}
	}
	if err != nil {
		return nil, err
	}
	return &render, nil
}

// InvalidateRenders drops every cached render of a panel and reports how many were removed.
func (s *Store) InvalidateRenders(ctx context.Context, panelID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM render_cache WHERE panel_id = ?", panelID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Config methods

func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", storage.ErrNotFound{Resource: "config", ID: key}
	}
	return value, err
}

func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO config (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now())
	return err
}

func (s *Store) DeleteConfig(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM config WHERE key = ?", key)
	return err
}

// Verify interface compliance
var _ storage.Store = (*Store)(nil)
