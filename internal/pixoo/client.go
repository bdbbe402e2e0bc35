package pixoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jwulff/gauge-go/internal/domain"
)

// DefaultPort is the default Pixoo HTTP API port.
const DefaultPort = 80

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 5 * time.Second

// Config holds the connection settings of one device.
type Config struct {
	IP         string        `koanf:"ip"`
	Port       int           `koanf:"port"`
	Timeout    time.Duration `koanf:"timeout"`
	Brightness int           `koanf:"brightness"` // 0 leaves the device setting alone
}

// ApplyDefaults applies default values to zero fields.
func (c *Config) ApplyDefaults() {
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// Client is an HTTP client for communicating with Pixoo devices.
type Client struct {
	IP         string
	Port       int
	HTTPClient *http.Client
	Logger     *zap.Logger
	testURL    string // For testing with httptest
}

// NewClient creates a new Pixoo client with default settings.
func NewClient(ip string) *Client {
	return NewClientWithPort(ip, DefaultPort)
}

// NewClientWithPort creates a new Pixoo client with a custom port.
func NewClientWithPort(ip string, port int) *Client {
	return &Client{
		IP:   ip,
		Port: port,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		Logger: zap.NewNop(),
	}
}

// NewClientFromConfig creates a client from configuration.
func NewClientFromConfig(cfg Config, logger *zap.Logger) *Client {
	cfg.ApplyDefaults()
	c := NewClientWithPort(cfg.IP, cfg.Port)
	c.HTTPClient.Timeout = cfg.Timeout
	if logger != nil {
		c.Logger = logger.Named("pixoo")
	}
	return c
}

// Endpoint returns the full API endpoint URL.
func (c *Client) Endpoint() string {
	if c.testURL != "" {
		return c.testURL
	}
	return fmt.Sprintf("http://%s:%d/post", c.IP, c.Port)
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// sendCommand sends a command to the Pixoo device.
func (c *Client) sendCommand(ctx context.Context, command any) ([]byte, error) {
	data, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}
	if _, err := ParseResponse(body); err != nil {
		return nil, err
	}

	c.logger().Debug("command sent",
		zap.String("endpoint", c.Endpoint()),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))
	return body, nil
}

// SendFrame sends a frame to the Pixoo device.
func (c *Client) SendFrame(ctx context.Context, frame *domain.Frame) error {
	return c.SendFrameWithOptions(ctx, frame, nil)
}

// SendFrameWithOptions sends a frame with custom options.
func (c *Client) SendFrameWithOptions(ctx context.Context, frame *domain.Frame, opts *FrameCommandOptions) error {
	if err := ValidateFrame(frame); err != nil {
		return fmt.Errorf("failed to send frame: %w", err)
	}
	cmd := CreatePixooFrameCommand(frame, opts)
	if _, err := c.sendCommand(ctx, cmd); err != nil {
		return fmt.Errorf("failed to send frame: %w", err)
	}
	return nil
}

// SendAnimation resets the device's picture counter and uploads frames as
// one looping animation.
func (c *Client) SendAnimation(ctx context.Context, frames []*domain.Frame, opts *FrameCommandOptions) error {
	cmds, err := CreateAnimationCommands(frames, opts)
	if err != nil {
		return fmt.Errorf("failed to build animation: %w", err)
	}
	if err := c.ResetAnimation(ctx); err != nil {
		return err
	}
	for _, cmd := range cmds {
		if _, err := c.sendCommand(ctx, cmd); err != nil {
			return fmt.Errorf("failed to send animation frame %d: %w", cmd.PicOffset, err)
		}
	}
	c.logger().Info("animation sent", zap.Int("frames", len(cmds)))
	return nil
}

// ResetAnimation resets the device's HTTP picture ID counter.
func (c *Client) ResetAnimation(ctx context.Context) error {
	if _, err := c.sendCommand(ctx, CreateResetGifIDCommand()); err != nil {
		return fmt.Errorf("failed to reset animation: %w", err)
	}
	return nil
}

// GetDeviceTime queries the device time.
func (c *Client) GetDeviceTime(ctx context.Context) ([]byte, error) {
	cmd := CreateDeviceTimeCommand()
	return c.sendCommand(ctx, cmd)
}

// SetBrightness sets the display brightness (0-100).
func (c *Client) SetBrightness(ctx context.Context, brightness int) error {
	cmd := CreateBrightnessCommand(brightness)
	if _, err := c.sendCommand(ctx, cmd); err != nil {
		return fmt.Errorf("failed to set brightness: %w", err)
	}
	return nil
}

// IsReachable checks if the device is reachable.
func (c *Client) IsReachable(ctx context.Context) bool {
	_, err := c.GetDeviceTime(ctx)
	if err != nil {
		c.logger().Debug("device unreachable", zap.String("ip", c.IP), zap.Error(err))
	}
	return err == nil
}
