package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cortexwear/cortexd/internal/config"
	"github.com/cortexwear/cortexd/internal/transport/ble"
	"github.com/cortexwear/cortexd/internal/ui"
)

var pairForget bool

var pairCmd = &cobra.Command{
	Use:     "pair",
	GroupID: "device",
	Short:   "Show the wearable this machine's cortexd is paired with",
	RunE:    runPair,
}

func init() {
	pairCmd.Flags().BoolVar(&pairForget, "forget", false, "clear the pairing cache so cortexd rescans for a wearable")
	rootCmd.AddCommand(pairCmd)
}

func runPair(cmd *cobra.Command, args []string) error {
	cachePath := config.GetString("ble.pairing-cache")
	cache := ble.LoadPairingCache(cachePath)

	if pairForget && cache.Address != "" {
		if !ui.PromptYesNo(fmt.Sprintf("Forget paired device %s (%s)?", cache.Address, cache.Name), false) {
			fmt.Println("kept existing pairing.")
			return nil
		}
		if err := ble.SavePairingCache(cachePath, ble.PairingCache{}); err != nil {
			return fmt.Errorf("clearing pairing cache: %w", err)
		}
		cache = ble.PairingCache{}
		fmt.Println("pairing cache cleared; cortexd will rescan on its next connect attempt.")
	}

	var warnings []string
	if cache.Address == "" {
		warnings = append(warnings, "no device has paired yet; power on the wearable and keep cortexd running")
	}

	c, err := client()
	if err != nil {
		warnings = append(warnings, err.Error())
	}

	httpAddr := resolveServerAddr(config.GetString("http.addr"))
	tokenSaved := false
	if c != nil {
		if _, herr := c.Health(version); herr == nil {
			tokenSaved = true
		} else {
			warnings = append(warnings, "cortexd is not responding on "+httpAddr)
		}
	}

	res := ui.PairResult{
		DeviceAddress: cache.Address,
		ServiceUUID:   config.GetString("ble.service-uuid"),
		HTTPAddr:      httpAddr,
		Subscribed:    cache.Address != "",
		DiscoverSent:  cache.Address != "",
		TokenSaved:    tokenSaved,
		CachePath:     cachePath,
		Warnings:      warnings,
		QuickstartCommands: []string{
			"cortexctl status",
			"cortexctl context",
			"cortexctl note \"first memory\"",
		},
	}

	fmt.Println(ui.RenderPairReport(res, ui.GetWidth()))
	return nil
}
