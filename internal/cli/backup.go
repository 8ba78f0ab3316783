package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"freeclaim/internal/backup"
	"freeclaim/internal/config"
)

var backupDest string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive the data directory (ledger, claim log, config) to the backup destination",
	RunE:  runBackup,
}

var restoreCmd = &cobra.Command{
	Use:   "restore <archive.zip>",
	Short: "Restore the data directory from a backup archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	backupCmd.Flags().StringVar(&backupDest, "dest", "", "backup destination folder (remembered in config)")
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
}

func runBackup(cmd *cobra.Command, args []string) error {
	dir, err := resolveDataDir()
	if err != nil {
		return err
	}

	cfgPath, err := config.EnsureUserConfig(dir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	dest := cfg.Backup.Path
	if backupDest != "" {
		dest = backupDest
	}
	if dest == "" {
		return errors.New("no backup destination: pass --dest or set backup.path in config.yml")
	}

	archive, err := backup.Create(dir, dest)
	if err != nil {
		return err
	}
	fmt.Printf("Backup written to %s\n", archive)

	// Remember a destination given on the command line.
	if backupDest != "" && backupDest != cfg.Backup.Path {
		cfg.Backup.Path = backupDest
		if err := config.SaveAtomic(cfgPath, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not remember backup destination: %v\n", err)
		}
	}

	if last, err := backup.Latest(dest); err == nil {
		fmt.Printf("Latest backup: %s\n", last.Format("2006-01-02 15:04"))
	}
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	dir, err := resolveDataDir()
	if err != nil {
		return err
	}

	fmt.Printf("Restoring will OVERWRITE the current claim history and config in %s.\n", dir)
	fmt.Print("Proceed? (y/N): ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if !strings.EqualFold(strings.TrimSpace(line), "y") {
		fmt.Println("Restore cancelled.")
		return nil
	}

	if err := backup.Restore(args[0], dir); err != nil {
		return err
	}
	fmt.Printf("Restored %s into %s\n", args[0], dir)
	return nil
}
