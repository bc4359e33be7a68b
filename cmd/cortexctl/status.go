package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cortexwear/cortexd/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	GroupID: "device",
	Aliases: []string{"stats"},
	Short:   "Show daemon state, disk space, and BLE link status",
	RunE:    runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, err := client()
	if err != nil {
		return err
	}

	health, err := c.Health(version)
	if err != nil {
		return err
	}

	raw, err := c.RunCommand("status", nil)
	if err != nil {
		return err
	}

	_, payload, _ := strings.Cut(raw, ":status:")
	var st struct {
		AppState     string  `json:"app_state"`
		UptimeS      float64 `json:"uptime_s"`
		DiskFreeGB   float64 `json:"disk_free_gb"`
		BLEConnected bool    `json:"ble_connected"`
		NotesTotal   int     `json:"notes_total"`
		FilesTotal   int     `json:"files_total"`
	}
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return fmt.Errorf("parsing status response: %w", err)
	}

	if jsonOutput {
		fmt.Println(payload)
		return nil
	}

	fmt.Println(ui.RenderStatusBox(ui.StatusViewModel{
		AppState:     st.AppState,
		UptimeS:      st.UptimeS,
		DiskFreeGB:   st.DiskFreeGB,
		BLEConnected: st.BLEConnected,
		ServerVer:    health.ServerVersion,
		ClientOK:     health.ClientCompatible,
		NoteCount:    st.NotesTotal,
		FileCount:    st.FilesTotal,
	}))
	return nil
}

var pingCmd = &cobra.Command{
	Use:     "ping",
	GroupID: "device",
	Short:   "Check whether cortexd is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		resp, err := c.RunCommand("ping", nil)
		if err != nil {
			return err
		}
		fmt.Println(strconv.Quote(resp))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
