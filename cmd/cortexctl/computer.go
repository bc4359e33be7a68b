package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	computerCPU   string
	computerGPU   string
	computerRAMGB float64
	computerNotes string
)

var computerCmd = &cobra.Command{
	Use:     "computer [hostname]",
	GroupID: "data",
	Short:   "Register this (or a named) machine with the knowledge store",
	RunE: func(cmd *cobra.Command, args []string) error {
		hostname := ""
		if len(args) > 0 {
			hostname = args[0]
		} else {
			hostname, _ = os.Hostname()
		}
		c, err := client()
		if err != nil {
			return err
		}
		resp, err := c.RunCommand("computer_reg", map[string]any{
			"hostname": hostname,
			"os":       runtime.GOOS,
			"cpu":      computerCPU,
			"gpu":      computerGPU,
			"ram_gb":   computerRAMGB,
			"notes":    computerNotes,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp)
		return nil
	},
}

func init() {
	computerCmd.Flags().StringVar(&computerCPU, "cpu", "", "CPU description")
	computerCmd.Flags().StringVar(&computerGPU, "gpu", "", "GPU description")
	computerCmd.Flags().Float64Var(&computerRAMGB, "ram-gb", 0, "installed RAM in GB")
	computerCmd.Flags().StringVar(&computerNotes, "notes", "", "free-form notes")
	rootCmd.AddCommand(computerCmd)
}
