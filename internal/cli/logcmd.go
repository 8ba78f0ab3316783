package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"freeclaim/internal/store"
)

var (
	logClear bool
	logLimit int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the claim log (what was opened, when, from where)",
	RunE:  runLog,
}

func init() {
	logCmd.Flags().BoolVar(&logClear, "clear", false, "delete the whole claim log")
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 50, "max entries to show")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	dir, err := resolveDataDir()
	if err != nil {
		return err
	}

	if _, err := os.Stat(dbPath(dir)); errors.Is(err, os.ErrNotExist) {
		fmt.Println("The claim log is empty. Enable claim_log in config.yml and run a claim first.")
		return nil
	}

	db, err := store.Open(dbPath(dir))
	if err != nil {
		return fmt.Errorf("open claim log: %w", err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return err
	}

	if logClear {
		if err := store.ClearClaims(cmd.Context(), db.Pool); err != nil {
			return err
		}
		fmt.Println("Claim log cleared.")
		return nil
	}

	claims, err := store.ListClaims(cmd.Context(), db.Pool, "newest", logLimit)
	if err != nil {
		return err
	}
	if len(claims) == 0 {
		fmt.Println("The claim log is empty.")
		return nil
	}

	for _, c := range claims {
		fmt.Printf("[%s] %-40s %s (%s)\n",
			c.ClaimedAt.Local().Format("2006-01-02 15:04"), c.Title, c.URL, c.Source)
	}
	return nil
}
