package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"freeclaim/internal/ledger"
)

var librarySort string

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "List every game claimed so far",
	RunE:  runLibrary,
}

func init() {
	libraryCmd.Flags().StringVar(&librarySort, "sort", "alpha", "view order: alpha | newest | oldest")
	rootCmd.AddCommand(libraryCmd)
}

func runLibrary(cmd *cobra.Command, args []string) error {
	dir, err := resolveDataDir()
	if err != nil {
		return err
	}

	led, err := ledger.Load(ledgerPath(dir))
	if err != nil {
		return err
	}

	titles := led.Titles() // file order = oldest first
	if len(titles) == 0 {
		fmt.Println("No games claimed yet.")
		return nil
	}

	var view string
	switch librarySort {
	case "alpha":
		view = "alphabetical (A-Z)"
		sort.Strings(titles) // ledger entries are already case-folded
	case "newest":
		view = "recently claimed first"
		for i, j := 0, len(titles)-1; i < j; i, j = i+1, j-1 {
			titles[i], titles[j] = titles[j], titles[i]
		}
	case "oldest":
		view = "oldest first"
	default:
		return fmt.Errorf("unknown sort %q (want alpha, newest or oldest)", librarySort)
	}

	fmt.Printf("Claimed games, %s:\n", view)
	for i, t := range titles {
		fmt.Printf("%d. %s\n", i+1, t)
	}
	return nil
}
