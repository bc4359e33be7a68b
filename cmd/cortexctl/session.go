package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	sessionAIPlatform string
	sessionHostname   string
	sessionOSInfo     string
)

var sessionStartCmd = &cobra.Command{
	Use:     "session-start",
	GroupID: "data",
	Short:   "Start a recording session and mark it active on the daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		hostname := sessionHostname
		if hostname == "" {
			hostname, _ = os.Hostname()
		}
		resp, err := c.RunCommand("session_start", map[string]any{
			"ai_platform": sessionAIPlatform,
			"hostname":    hostname,
			"os_info":     sessionOSInfo,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp)
		return nil
	},
}

var (
	sessionEndID       string
	sessionEndSummary  string
	sessionEndProjects string
)

var sessionEndCmd = &cobra.Command{
	Use:     "session-end",
	GroupID: "data",
	Short:   "End a session (the active one, unless --id is given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		resp, err := c.RunCommand("session_end", map[string]any{
			"session_id": sessionEndID,
			"summary":    sessionEndSummary,
			"projects":   sessionEndProjects,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp)
		return nil
	},
}

func init() {
	sessionStartCmd.Flags().StringVar(&sessionAIPlatform, "platform", "", "assistant/platform name driving this session")
	sessionStartCmd.Flags().StringVar(&sessionHostname, "hostname", "", "override the reported hostname")
	sessionStartCmd.Flags().StringVar(&sessionOSInfo, "os-info", "", "free-form OS description")

	sessionEndCmd.Flags().StringVar(&sessionEndID, "id", "", "session id to end (defaults to the daemon's active session)")
	sessionEndCmd.Flags().StringVar(&sessionEndSummary, "summary", "", "summary of what happened in the session")
	sessionEndCmd.Flags().StringVar(&sessionEndProjects, "projects", "", "comma-separated project tags touched")

	rootCmd.AddCommand(sessionStartCmd)
	rootCmd.AddCommand(sessionEndCmd)
}
