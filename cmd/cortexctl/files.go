package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cortexwear/cortexd/internal/ui"
)

var filesCmd = &cobra.Command{
	Use:     "files",
	GroupID: "data",
	Short:   "List, upload, download, or delete recorder files",
}

var filesListCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "List files in a category (recordings, notes, logs, or uploads)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		entries, err := c.ListFiles(args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println(ui.RenderNoResults("files", args[0], []string{"check the category name"}, ui.GetWidth()))
			return nil
		}
		records := make([]ui.Record, 0, len(entries))
		for _, e := range entries {
			records = append(records, ui.Record{ID: e.MTime, Summary: fmt.Sprintf("%s (%d bytes)", e.Name, e.Size)})
		}
		fmt.Println(ui.RenderRecordsTable("files", args[0], records, nil, ui.GetWidth()))
		return nil
	},
}

var filesDownloadDest string

var filesDownloadCmd = &cobra.Command{
	Use:   "download <category> <name>",
	Short: "Download a file from the daemon",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		dest := filesDownloadDest
		if dest == "" {
			dest = filepath.Base(args[1])
		}
		n, err := c.DownloadFile(args[0], args[1], dest)
		if err != nil {
			return err
		}
		fmt.Printf("downloaded %d bytes to %s\n", n, dest)
		return nil
	},
}

var filesUploadName string

var filesUploadCmd = &cobra.Command{
	Use:   "upload <local-path>",
	Short: "Upload a local file into the daemon's uploads directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		name := filesUploadName
		if name == "" {
			name = filepath.Base(args[0])
		}
		if err := c.UploadFile(args[0], name); err != nil {
			return err
		}
		fmt.Printf("uploaded %s as %s\n", args[0], name)
		return nil
	},
}

var (
	filesRegisterCategory    string
	filesRegisterDescription string
	filesRegisterTags        string
	filesRegisterProject     string
)

var filesRegisterCmd = &cobra.Command{
	Use:   "register <filename> <size-bytes>",
	Short: "Register a file already dropped into a watched directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var size int64
		if _, err := fmt.Sscanf(args[1], "%d", &size); err != nil {
			return fmt.Errorf("invalid size %q: %w", args[1], err)
		}
		c, err := client()
		if err != nil {
			return err
		}
		resp, err := c.RunCommand("file_register", map[string]any{
			"filename":    args[0],
			"category":    filesRegisterCategory,
			"description": filesRegisterDescription,
			"tags":        filesRegisterTags,
			"project":     filesRegisterProject,
			"size_bytes":  size,
		})
		if err != nil {
			return err
		}
		fmt.Println(resp)
		return nil
	},
}

var filesDeleteCmd = &cobra.Command{
	Use:   "delete <category> <name>",
	Short: "Delete a file the daemon is tracking",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := client()
		if err != nil {
			return err
		}
		if err := c.DeleteFile(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("deleted %s/%s\n", args[0], args[1])
		return nil
	},
}

func init() {
	filesDownloadCmd.Flags().StringVar(&filesDownloadDest, "out", "", "local destination path (defaults to the remote filename)")
	filesUploadCmd.Flags().StringVar(&filesUploadName, "as", "", "remote filename (defaults to the local basename)")
	filesRegisterCmd.Flags().StringVar(&filesRegisterCategory, "category", "uploads", "recordings, notes, logs, or uploads")
	filesRegisterCmd.Flags().StringVar(&filesRegisterDescription, "description", "", "one-line description")
	filesRegisterCmd.Flags().StringVar(&filesRegisterTags, "tags", "", "comma-separated tags")
	filesRegisterCmd.Flags().StringVar(&filesRegisterProject, "project", "", "project tag")
	filesCmd.AddCommand(filesListCmd, filesDownloadCmd, filesUploadCmd, filesRegisterCmd, filesDeleteCmd)
	rootCmd.AddCommand(filesCmd)
}
