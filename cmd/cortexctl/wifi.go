package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cortexwear/cortexd/internal/ui"
)

var wifiCmd = &cobra.Command{
	Use:     "wifi",
	GroupID: "device",
	Short:   "Inspect or change the wearable's wifi connection",
}

var wifiStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the wearable's current wifi connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		raw, err := c.RunCommand("wifi_status", nil)
		if err != nil {
			return err
		}
		return printCutJSON(raw, ":wifi_status:")
	},
}

var wifiScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List wifi networks visible to the wearable",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		raw, err := c.RunCommand("wifi_scan", nil)
		if err != nil {
			return err
		}
		return printCutJSON(raw, ":wifi_scan:")
	},
}

var wifiConfigPassword string

var wifiConfigCmd = &cobra.Command{
	Use:   "connect <ssid>",
	Short: "Join a wifi network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := wifiConfigPassword
		if password == "" {
			password = ui.Prompt(fmt.Sprintf("Password for %q", args[0]), "")
		}
		c, err := client()
		if err != nil {
			return err
		}
		raw, err := c.RunCommand("wifi_config", map[string]any{
			"ssid":     args[0],
			"password": password,
		})
		if err != nil {
			return err
		}
		return printCutJSON(raw, ":wifi_config:")
	},
}

func init() {
	wifiConfigCmd.Flags().StringVar(&wifiConfigPassword, "password", "", "wifi passphrase")
	wifiCmd.AddCommand(wifiStatusCmd, wifiScanCmd, wifiConfigCmd)
	rootCmd.AddCommand(wifiCmd)
}

// printCutJSON extracts the payload after the given response tag and either
// prints it raw (--json) or pretty-indents it for terminal reading.
func printCutJSON(raw, tag string) error {
	_, payload, ok := strings.Cut(raw, tag)
	if !ok {
		fmt.Println(raw)
		return nil
	}
	if jsonOutput {
		fmt.Println(payload)
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		fmt.Println(payload)
		return nil
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(payload)
		return nil
	}
	fmt.Println(string(pretty))
	return nil
}
