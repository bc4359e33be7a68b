// Command cortexctl is the operator CLI for cortexd: it talks to the
// daemon's HTTP API over the same bearer-token protocol a paired phone
// would use, so every subcommand here works equally well next to the
// daemon or over the LAN.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cortexwear/cortexd/internal/config"
)

// version is stamped at build time via -ldflags.
var version = "v0.0.0-dev"

var (
	serverAddr string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "cortexctl",
	Short:         "Operate and query the cortexd wearable recorder daemon",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: "device", Title: "Device:"},
		&cobra.Group{ID: "data", Title: "Knowledge store:"},
	)
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "", "cortexd HTTP address (default from config, e.g. http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit raw JSON instead of styled output")
}

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, "cortexctl: "+err.Error())
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cortexctl: "+err.Error())
		os.Exit(1)
	}
}

// client builds an apiClient from the --server flag, falling back to the
// shared config's http.addr (with the wildcard bind address rewritten to
// loopback, since cortexctl usually runs next to the daemon).
func client() (*apiClient, error) {
	addr := serverAddr
	if addr == "" {
		addr = resolveServerAddr(config.GetString("http.addr"))
	}
	return newAPIClient(addr, config.GetString("http.token-file"))
}

func resolveServerAddr(configAddr string) string {
	if configAddr == "" {
		configAddr = ":8080"
	}
	if configAddr[0] == ':' {
		return "http://127.0.0.1" + configAddr
	}
	return "http://" + configAddr
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
