package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "freeclaim",
	Short: "Freeclaim - find and claim free storefront games",
	Long: `Freeclaim checks Epic, Steam, GOG and Ubisoft for games currently
offered at zero cost, filters out everything you already claimed, and
opens the remaining offer pages in your browser so you can claim them.

Claim history lives in a plain text file in the data directory; a game
recorded there is never offered again.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Scraper diagnostics are noise unless asked for.
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("freeclaim v1.0.0")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: ~/Documents/Freeclaim)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostics")

	rootCmd.AddCommand(versionCmd)
}

func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, "Documents", "Freeclaim"), nil
}

const ledgerFile = "claimed_games.txt"

func ledgerPath(dir string) string { return filepath.Join(dir, ledgerFile) }
func dbPath(dir string) string     { return filepath.Join(dir, "freeclaim.db") }
