package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/render"
)

var (
	renderFlags  gaugeFlags
	renderFormat string
	renderOutput string

	layoutFlags gaugeFlags

	previewFlags gaugeFlags
)

// renderCmd writes a gauge as SVG or PNG
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a gauge to SVG or PNG",
	Example: `  gauge render --value 72 --unit % --gradient --color-mode continuous-GrYlRd -o cpu.svg
  gauge render --panel <id> --format png --width 64 --height 64 -o panel.png`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := renderFormat
		if format == "" {
			format = formatFromPath(renderOutput, cfg.Render.Format)
		}

		l, err := renderFlags.buildLayout(cmd)
		if err != nil {
			return err
		}

		out, closeOut, err := openOutput(cmd.OutOrStdout(), renderOutput)
		if err != nil {
			return err
		}
		defer closeOut()

		switch format {
		case "svg":
			err = render.RenderSVG(out, l)
		case "png":
			err = render.EncodePNG(out, render.RenderFrame(l))
		default:
			return fmt.Errorf("unknown format %q, want svg or png", format)
		}
		if err != nil {
			return err
		}
		logger.Debug("rendered", zap.String("format", format), zap.String("output", renderOutput))
		return nil
	},
}

// layoutCmd prints the computed layout
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the computed gauge layout as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := layoutFlags.buildLayout(cmd)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	},
}

// previewCmd shows the LED frame in the terminal
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show an ASCII preview of the 64x64 LED frame",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if previewFlags.width <= 0 {
			previewFlags.width = render.DisplayWidth
		}
		if previewFlags.height <= 0 {
			previewFlags.height = render.DisplayHeight
		}
		l, err := previewFlags.buildLayout(cmd)
		if err != nil {
			return err
		}
		frame := render.RenderFrame(l)

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%dx%d Frame Preview:\n\n", frame.Width, frame.Height)
		printFrameASCII(w, frame)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Legend: █=bright ▓=medium ▒=dim ░=faint ·=very dim (space)=off")
		return nil
	},
}

func init() {
	renderFlags.register(renderCmd)
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "svg or png (default from the output extension, then config)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file (default stdout)")

	layoutFlags.register(layoutCmd)
	previewFlags.register(previewCmd)
}

// formatFromPath picks the format from a file extension.
func formatFromPath(path, fallback string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".png"):
		return "png"
	case strings.HasSuffix(strings.ToLower(path), ".svg"):
		return "svg"
	default:
		return fallback
	}
}

// openOutput opens path for writing, or returns stdout for "" and "-".
func openOutput(stdout io.Writer, path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

// printFrameASCII renders the frame as ASCII art
func printFrameASCII(out io.Writer, frame *domain.Frame) {
	w := bufio.NewWriter(out)
	defer w.Flush()

	// Top border
	fmt.Fprint(w, "  ┌")
	fmt.Fprint(w, strings.Repeat("─", frame.Width))
	fmt.Fprintln(w, "┐")

	for y := 0; y < frame.Height; y++ {
		fmt.Fprintf(w, "%2d│", y)
		for x := 0; x < frame.Width; x++ {
			pixel := frame.GetPixel(x, y)
			if pixel == nil {
				fmt.Fprint(w, " ")
				continue
			}
			fmt.Fprint(w, shade(*pixel))
		}
		fmt.Fprintln(w, "│")
	}

	// Bottom border
	fmt.Fprint(w, "  └")
	fmt.Fprint(w, strings.Repeat("─", frame.Width))
	fmt.Fprintln(w, "┘")
}

// shade maps a pixel's brightness to a block character.
func shade(pixel domain.RGB) string {
	brightness := (int(pixel.R) + int(pixel.G) + int(pixel.B)) / 3

	switch {
	case brightness > 200:
		return "█"
	case brightness > 150:
		return "▓"
	case brightness > 100:
		return "▒"
	case brightness > 50:
		return "░"
	case brightness > 10:
		return "·"
	default:
		return " "
	}
}
