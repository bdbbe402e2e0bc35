// Package storage provides storage abstractions for gauge panels, their
// readings and rendered output.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jwulff/gauge-go/internal/domain"
)

// Store is the interface for persistent storage.
type Store interface {
	// Panels
	SavePanel(ctx context.Context, panel *domain.Panel) error
	GetPanel(ctx context.Context, id string) (*domain.Panel, error)
	ListPanels(ctx context.Context) ([]*domain.Panel, error)
	DeletePanel(ctx context.Context, id string) error

	// Readings
	StoreReadings(ctx context.Context, panelID string, readings []domain.Reading) error
	LatestReading(ctx context.Context, panelID string) (*domain.Reading, error)
	QueryHistory(ctx context.Context, panelID string, since, until time.Time) ([]domain.Reading, error)
	DeleteOldReadings(ctx context.Context, panelID string, before time.Time) error

	// Render cache
	CacheRender(ctx context.Context, render *CachedRender) error
	GetCachedRender(ctx context.Context, key, format string) (*CachedRender, error)
	InvalidateRenders(ctx context.Context, panelID string) (int64, error)

	// Configuration
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
	DeleteConfig(ctx context.Context, key string) error

	// Device management
	SaveDevice(ctx context.Context, device *Device) error
	GetDevice(ctx context.Context, id string) (*Device, error)
	GetDevices(ctx context.Context) ([]*Device, error)
	DeleteDevice(ctx context.Context, id string) error

	// Lifecycle
	Close() error
}

// CachedRender is one rendered panel output, keyed by the layout hash it was
// produced from.
type CachedRender struct {
	Key         string
	PanelID     string
	Format      string // "svg" or "png"
	Data        []byte
	GeneratedAt time.Time
}

// Device represents a stored Pixoo device.
type Device struct {
	ID        string
	IP        string
	Name      string
	Type      string
	CreatedAt time.Time
	LastSeen  time.Time
}

// NewDevice creates a new device record.
func NewDevice(id, ip, name, deviceType string) *Device {
	now := time.Now()
	return &Device{
		ID:        id,
		IP:        ip,
		Name:      name,
		Type:      deviceType,
		CreatedAt: now,
		LastSeen:  now,
	}
}

// ErrNotFound is returned when a record is not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e ErrNotFound) Error() string {
	return e.Resource + " not found: " + e.ID
}

// IsNotFound checks if an error, or any error it wraps, is a not found error.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
