package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dogpound/glizzy/pkg/id"
)

var exportCmd = &cobra.Command{
	Use:   "export [dest]",
	Short: "Copy the datastore file for backup or offline analysis",
	Long: `Copy the SQLite datastore to dest. With no dest a timestamped
file name is generated in the current directory.

Example:
  glizzy export backups/hotdog-data.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dest := fmt.Sprintf("hotdog-export-%s.db", id.New())
	if len(args) == 1 {
		dest = args[0]
	}

	src, err := os.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open datastore: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	n, err := io.Copy(out, src)
	if err != nil {
		return fmt.Errorf("copy datastore: %w", err)
	}

	fmt.Printf("exported %d bytes to %s\n", n, dest)
	return nil
}
