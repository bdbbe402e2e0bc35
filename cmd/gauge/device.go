package main

import (
	"fmt"
	"net"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jwulff/gauge-go/internal/storage"
)

var (
	deviceName string
	deviceType string
)

// deviceCmd groups the stored Pixoo device commands
var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Manage stored Pixoo devices",
}

var deviceAddCmd = &cobra.Command{
	Use:   "add <id> <ip>",
	Short: "Store a Pixoo device under an ID usable by send",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, ip := args[0], args[1]
		if net.ParseIP(ip) == nil {
			return fmt.Errorf("invalid IP address %q", ip)
		}
		name := deviceName
		if name == "" {
			name = id
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveDevice(cmd.Context(), storage.NewDevice(id, ip, name, deviceType)); err != nil {
			return fmt.Errorf("failed to save device: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored device %s at %s\n", id, ip)
		return nil
	},
}

var deviceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored devices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		devices, err := store.GetDevices(cmd.Context())
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No devices stored.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tIP\tTYPE\tLAST SEEN")
		for _, d := range devices {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.IP, d.Type, humanize.Time(d.LastSeen))
		}
		return tw.Flush()
	},
}

var deviceRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a stored device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		return store.DeleteDevice(cmd.Context(), args[0])
	},
}

func init() {
	deviceAddCmd.Flags().StringVar(&deviceName, "name", "", "display name (default the ID)")
	deviceAddCmd.Flags().StringVar(&deviceType, "type", "pixoo64", "device model")

	deviceCmd.AddCommand(deviceAddCmd, deviceListCmd, deviceRmCmd)
}
