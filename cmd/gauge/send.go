package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/pixoo"
	"github.com/jwulff/gauge-go/internal/render"
)

var (
	sendFlags   gaugeFlags
	sendWatch   time.Duration
	sendAnimate int
	sendSpeed   int
)

// sendCmd pushes a gauge frame to a Pixoo panel
var sendCmd = &cobra.Command{
	Use:   "send [ip|device-id]",
	Short: "Send the gauge frame to a Pixoo LED panel",
	Long: `Renders the gauge at 64x64 and pushes it to a Pixoo panel. The target is
an IP address, the ID of a stored device, or pixoo.ip from the config.

With --animate the bar sweeps up from the bottom of the range over N frames.
With --watch the frame is re-sent on every interval using the panel's latest
reading, until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		target := ""
		if len(args) == 1 {
			target = args[0]
		}
		ip, err := resolveDeviceIP(ctx, target)
		if err != nil {
			return err
		}

		pcfg := cfg.Pixoo
		pcfg.IP = ip
		client := pixoo.NewClientFromConfig(pcfg, logger)

		reachCtx, cancel := context.WithTimeout(ctx, client.HTTPClient.Timeout)
		reachable := client.IsReachable(reachCtx)
		cancel()
		if !reachable {
			return fmt.Errorf("cannot reach Pixoo at %s, make sure the IP is correct and the device is powered on", ip)
		}

		if pcfg.Brightness > 0 {
			if err := client.SetBrightness(ctx, pcfg.Brightness); err != nil {
				return err
			}
		}

		if err := sendOnce(ctx, cmd, client); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Frame sent to %s\n", ip)
		if sendWatch <= 0 {
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Watching, updates every %s. Press Ctrl+C to stop.\n", sendWatch)
		ticker := time.NewTicker(sendWatch)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				fmt.Fprintln(cmd.OutOrStdout(), "Stopping...")
				return nil
			case <-ticker.C:
				if err := sendOnce(ctx, cmd, client); err != nil {
					logger.Warn("failed to send frame", zap.Error(err))
					continue
				}
				logger.Info("frame sent", zap.String("ip", ip))
			}
		}
	},
}

func init() {
	sendFlags.register(sendCmd)
	sendCmd.Flags().DurationVar(&sendWatch, "watch", 0, "re-send on this interval until interrupted")
	sendCmd.Flags().IntVar(&sendAnimate, "animate", 0, fmt.Sprintf("sweep the bar up over N frames (max %d)", pixoo.MaxAnimationFrames))
	sendCmd.Flags().IntVar(&sendSpeed, "speed", 50, "animation frame duration in ms")
}

// resolveDeviceIP turns an IP, a stored device ID or "" into an address.
func resolveDeviceIP(ctx context.Context, target string) (string, error) {
	if target == "" {
		if cfg.Pixoo.IP == "" {
			return "", fmt.Errorf("no device given and pixoo.ip is not configured")
		}
		return cfg.Pixoo.IP, nil
	}
	if net.ParseIP(target) != nil {
		return target, nil
	}

	store, err := openStore()
	if err != nil {
		return "", err
	}
	defer store.Close()

	device, err := store.GetDevice(ctx, target)
	if err != nil {
		return "", err
	}
	device.LastSeen = time.Now()
	if err := store.SaveDevice(ctx, device); err != nil {
		logger.Warn("failed to update device", zap.String("device", device.ID), zap.Error(err))
	}
	return device.IP, nil
}

// sendOnce renders the current gauge and sends it as a frame or animation.
func sendOnce(ctx context.Context, cmd *cobra.Command, client *pixoo.Client) error {
	panel, value, err := sendFlags.resolve(ctx, cmd)
	if err != nil {
		return err
	}
	th, err := panelTheme(panel)
	if err != nil {
		return err
	}

	if sendAnimate <= 1 {
		data := render.ComposerData{Panel: panel, Value: value, Theme: th}
		return client.SendFrame(ctx, render.ComposeFrame(data))
	}

	frames := animationFrames(panel, value, sendAnimate, func(v float64) *domain.Frame {
		return render.ComposeFrame(render.ComposerData{Panel: panel, Value: v, Theme: th})
	})
	return client.SendAnimation(ctx, frames, &pixoo.FrameCommandOptions{Speed: sendSpeed})
}

// animationFrames renders n frames sweeping from the bottom of the range up
// to value. The last frame always shows value itself.
func animationFrames(panel *domain.Panel, value float64, n int, frame func(float64) *domain.Frame) []*domain.Frame {
	if n > pixoo.MaxAnimationFrames {
		n = pixoo.MaxAnimationFrames
	}
	start := panel.Field.Min
	if value < start {
		start = value
	}
	frames := make([]*domain.Frame, n)
	for i := range frames {
		t := float64(i+1) / float64(n)
		v := start + (value-start)*t
		if i == n-1 {
			v = value
		}
		frames[i] = frame(v)
	}
	return frames
}

