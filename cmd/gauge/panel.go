package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/gauge"
	"github.com/jwulff/gauge-go/internal/storage"
)

var (
	panelFlags     gaugeFlags
	panelTitle     string
	panelThemeName string
)

// panelCmd groups the stored panel commands
var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Manage stored panels",
}

var panelAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Store a new panel",
	Example: `  gauge panel add --title "CPU" --unit % --gradient --color-mode continuous-GrYlRd
  gauge panel add --title "Battery" --shape circle --max 100 --thresholds-bar`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := panelFlags.panel(uuid.NewString(), panelTitle)
		p.Theme = panelThemeName
		if err := p.Validate(); err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SavePanel(cmd.Context(), p); err != nil {
			return fmt.Errorf("failed to save panel: %w", err)
		}
		logger.Info("panel created", zap.String("panel", p.ID))
		fmt.Fprintln(cmd.OutOrStdout(), p.ID)
		return nil
	},
}

var panelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored panels with their latest reading",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		panels, err := store.ListPanels(ctx)
		if err != nil {
			return err
		}
		if len(panels) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No panels stored.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tSHAPE\tRANGE\tLATEST\tUPDATED")
		for _, p := range panels {
			latest := "-"
			r, err := store.LatestReading(ctx, p.ID)
			switch {
			case err == nil:
				latest = gauge.FormatValue(r.Value, p.Field.Decimals, p.Field.Unit) + " (" + humanize.Time(r.Timestamp) + ")"
			case !storage.IsNotFound(err):
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s..%s\t%s\t%s\n",
				p.ID, p.Title, p.Options.Shape,
				humanize.Ftoa(p.Field.Min), humanize.Ftoa(p.Field.Max),
				latest, humanize.Time(p.UpdatedAt))
		}
		return tw.Flush()
	},
}

var panelRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a stored panel with its readings and cached renders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeletePanel(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted panel %s\n", args[0])
		return nil
	},
}

var panelSetCmd = &cobra.Command{
	Use:   "set <id> <value>",
	Short: "Record a reading for a stored panel",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", args[1], err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		if _, err := store.GetPanel(ctx, args[0]); err != nil {
			return err
		}
		if err := store.StoreReadings(ctx, args[0], []domain.Reading{domain.NewReading(value)}); err != nil {
			return err
		}
		logger.Debug("reading stored", zap.String("panel", args[0]), zap.Float64("value", value))
		return nil
	},
}

func init() {
	panelFlags.registerPanel(panelAddCmd)
	panelAddCmd.Flags().StringVar(&panelTitle, "title", "", "panel title")
	panelAddCmd.Flags().StringVar(&panelThemeName, "panel-theme", "", "theme stored with the panel")
	_ = panelAddCmd.MarkFlagRequired("title")

	panelCmd.AddCommand(panelAddCmd, panelListCmd, panelRmCmd, panelSetCmd)
}
