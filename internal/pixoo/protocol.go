// Package pixoo pushes rendered gauge frames to a Divoom Pixoo LED panel.
//
// The Pixoo has a local HTTP API at port 80.
// Endpoint: POST http://<ip>/post
//
// Frame format:
// - square, 16, 32 or 64 pixels per side
// - RGB (3 bytes per pixel)
// - Base64 encoded
// - a 64x64 frame is 12,288 bytes raw, ~16KB base64
//
// An animation is a series of Draw/SendHttpGif commands sharing a PicID, one
// per frame, each carrying its PicOffset.
package pixoo

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/jwulff/gauge-go/internal/domain"
)

// Command names.
const (
	CommandSendGif       = "Draw/SendHttpGif"
	CommandResetGifID    = "Draw/ResetHttpGifId"
	CommandGetGifID      = "Draw/GetHttpGifId"
	CommandDeviceTime    = "Device/GetDeviceTime"
	CommandSetBrightness = "Channel/SetBrightness"
)

// MaxAnimationFrames is the most frames the device accepts in one animation.
const MaxAnimationFrames = 40

// Defaults for frame commands.
const (
	DefaultPicID = 1
	DefaultSpeed = 1000 // ms per frame
)

// PixooCommand represents a Pixoo API command without parameters.
type PixooCommand struct {
	Command string `json:"Command"`
}

// FrameCommand represents a Draw/SendHttpGif command.
type FrameCommand struct {
	Command   string `json:"Command"`
	PicNum    int    `json:"PicNum"`
	PicWidth  int    `json:"PicWidth"`
	PicOffset int    `json:"PicOffset"`
	PicID     int    `json:"PicID"`
	PicSpeed  int    `json:"PicSpeed"`
	PicData   string `json:"PicData"`
}

// BrightnessCommand represents a Channel/SetBrightness command.
type BrightnessCommand struct {
	Command    string `json:"Command"`
	Brightness int    `json:"Brightness"`
}

// Response is the common envelope of device replies.
type Response struct {
	ErrorCode int `json:"error_code"`
}

// FrameCommandOptions configures frame command parameters.
type FrameCommandOptions struct {
	PicID int
	Speed int
}

func (o *FrameCommandOptions) resolve() (picID, speed int) {
	picID, speed = DefaultPicID, DefaultSpeed
	if o == nil {
		return picID, speed
	}
	if o.PicID > 0 {
		picID = o.PicID
	}
	if o.Speed > 0 {
		speed = o.Speed
	}
	return picID, speed
}

// ValidateFrame checks that the frame has a size the device can show.
func ValidateFrame(frame *domain.Frame) error {
	if frame == nil {
		return fmt.Errorf("frame is nil")
	}
	if frame.Width != frame.Height {
		return fmt.Errorf("frame must be square, got %dx%d", frame.Width, frame.Height)
	}
	switch frame.Width {
	case 16, 32, 64:
	default:
		return fmt.Errorf("unsupported frame size %d, want 16, 32 or 64", frame.Width)
	}
	if len(frame.Pixels) != frame.Width*frame.Height*domain.BytesPerPixel {
		return fmt.Errorf("pixel data size mismatch: expected %d, got %d",
			frame.Width*frame.Height*domain.BytesPerPixel, len(frame.Pixels))
	}
	return nil
}

// EncodeFrameToBase64 encodes frame pixels to base64 for Pixoo API.
func EncodeFrameToBase64(frame *domain.Frame) string {
	return base64.StdEncoding.EncodeToString(frame.Pixels)
}

// DecodeBase64ToFrame decodes base64 to a frame.
func DecodeBase64ToFrame(encoded string, width, height int) (*domain.Frame, error) {
	pixels, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	expectedSize := width * height * domain.BytesPerPixel
	if len(pixels) != expectedSize {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", expectedSize, len(pixels))
	}

	return &domain.Frame{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}, nil
}

// CreatePixooFrameCommand creates a single-frame Draw/SendHttpGif command.
func CreatePixooFrameCommand(frame *domain.Frame, opts *FrameCommandOptions) FrameCommand {
	picID, speed := opts.resolve()
	return FrameCommand{
		Command:   CommandSendGif,
		PicNum:    1,
		PicWidth:  frame.Width,
		PicOffset: 0,
		PicID:     picID,
		PicSpeed:  speed,
		PicData:   EncodeFrameToBase64(frame),
	}
}

// CreateAnimationCommands creates one Draw/SendHttpGif command per frame.
// All frames must share a size.
func CreateAnimationCommands(frames []*domain.Frame, opts *FrameCommandOptions) ([]FrameCommand, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("animation has no frames")
	}
	if len(frames) > MaxAnimationFrames {
		return nil, fmt.Errorf("animation has %d frames, max %d", len(frames), MaxAnimationFrames)
	}
	picID, speed := opts.resolve()

	cmds := make([]FrameCommand, len(frames))
	for i, f := range frames {
		if err := ValidateFrame(f); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if f.Width != frames[0].Width {
			return nil, fmt.Errorf("frame %d: size %d differs from first frame %d", i, f.Width, frames[0].Width)
		}
		cmds[i] = FrameCommand{
			Command:   CommandSendGif,
			PicNum:    len(frames),
			PicWidth:  f.Width,
			PicOffset: i,
			PicID:     picID,
			PicSpeed:  speed,
			PicData:   EncodeFrameToBase64(f),
		}
	}
	return cmds, nil
}

// CreateDeviceTimeCommand creates a Device/GetDeviceTime command.
func CreateDeviceTimeCommand() PixooCommand {
	return PixooCommand{Command: CommandDeviceTime}
}

// CreateResetGifIDCommand creates a Draw/ResetHttpGifId command.
func CreateResetGifIDCommand() PixooCommand {
	return PixooCommand{Command: CommandResetGifID}
}

// CreateBrightnessCommand creates a Channel/SetBrightness command.
func CreateBrightnessCommand(brightness int) BrightnessCommand {
	// Clamp to 0-100
	if brightness < 0 {
		brightness = 0
	}
	if brightness > 100 {
		brightness = 100
	}

	return BrightnessCommand{
		Command:    CommandSetBrightness,
		Brightness: brightness,
	}
}

// ParseResponse decodes a device reply and turns a non-zero error_code into an error.
func ParseResponse(body []byte) (Response, error) {
	var resp Response
	if len(body) == 0 {
		return resp, nil
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.ErrorCode != 0 {
		return resp, fmt.Errorf("device returned error_code %d", resp.ErrorCode)
	}
	return resp, nil
}
