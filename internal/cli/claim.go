package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"freeclaim/internal/browser"
	"freeclaim/internal/config"
	"freeclaim/internal/domain"
	"freeclaim/internal/ledger"
	"freeclaim/internal/scrape"
	"freeclaim/internal/scrape/epic"
	"freeclaim/internal/scrape/gog"
	"freeclaim/internal/scrape/steam"
	"freeclaim/internal/scrape/types"
	"freeclaim/internal/scrape/ubisoft"
	"freeclaim/internal/scrape/util"
	"freeclaim/internal/session"
	"freeclaim/internal/store"
)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Check every storefront and open unclaimed free games",
	RunE:  runClaim,
}

func init() {
	rootCmd.AddCommand(claimCmd)
}

func runClaim(cmd *cobra.Command, args []string) error {
	dir, err := resolveDataDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	// One run at a time; interleaved ledger appends would corrupt history.
	lock := flock.New(filepath.Join(dir, ".freeclaim.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire data dir lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another freeclaim run is using %s", dir)
	}
	defer func() { _ = lock.Unlock() }()

	cfgPath, err := config.EnsureUserConfig(dir)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	led, err := ledger.Load(ledgerPath(dir))
	if err != nil {
		// Fail open: previously claimed titles may resurface this run.
		fmt.Fprintf(os.Stderr, "warning: could not read claim history (%v); treating it as empty\n", err)
		led = ledger.New(ledgerPath(dir))
	}

	client := util.NewClient(cfg.Timeout(), cfg.HTTP.UserAgent,
		util.NewHostLimiter(cfg.HTTP.HostReqPerSec, cfg.HTTP.HostBurst))

	// Construction order is reconciliation priority.
	var fetchers []types.Fetcher
	if cfg.Sources.Epic.Enabled {
		fetchers = append(fetchers, epic.New(cfg.Sources.Epic.URL, client, led))
	}
	if cfg.Sources.Steam.Enabled {
		fetchers = append(fetchers, steam.New(cfg.Sources.Steam.URL, client))
	}
	if cfg.Sources.GOG.Enabled {
		fetchers = append(fetchers, gog.New(cfg.Sources.GOG.URL, client))
	}
	if cfg.Sources.Ubisoft.Enabled {
		fetchers = append(fetchers, ubisoft.New(cfg.Sources.Ubisoft.URL, client))
	}

	fmt.Printf("Checking %d storefront(s) for free games... %s\n",
		len(fetchers), time.Now().Format("2006-01-02 15:04:05"))

	results := scrape.RunAll(cmd.Context(), fetchers, cfg.Timeout()+10*time.Second)
	offers := scrape.Reconcile(led, results)

	grouped := session.BySource(offers)
	for _, src := range domain.Sources {
		list := grouped[src]
		if len(list) == 0 {
			fmt.Printf("\nNo new freebies on %s right now.\n", src.DisplayName())
			continue
		}
		fmt.Printf("\n%s:\n", src.DisplayName())
		for _, o := range list {
			fmt.Printf("- %s: %s\n", o.Title, o.URL)
		}
	}

	opener := browser.New(cfg.Browser.Name, cfg.Browser.Path)
	sess := session.New(offers, cfg.Claim.BatchSize, opener)

	var commitOnce sync.Once
	commit := func() {
		commitOnce.Do(func() { commitClaims(dir, cfg, led, sess.Claimed(), offers) })
	}

	// Interrupt mid-session: tabs already opened stay claimed.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\ninterrupted; saving games opened so far")
		commit()
		os.Exit(1)
	}()

	ev := sess.Start()
	if ev.Type == session.EventNothingNew {
		fmt.Println("\nNo new games today. Check again soon.")
		return nil
	}

	fmt.Printf("\nFound %d unclaimed free game(s). Press ENTER to open the next batch, or type 'no' to skip.\n", len(offers))

	reader := bufio.NewReader(os.Stdin)
	for !sess.Done() {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			line = "no" // stdin closed: skip the rest, keep what was opened
		}
		for _, ev := range sess.Submit(line) {
			renderEvent(ev)
		}
	}

	commit()
	return nil
}

func renderEvent(ev session.Event) {
	switch ev.Type {
	case session.EventSkipped:
		fmt.Println("Okay, skipped this time.")
	case session.EventOpened:
		fmt.Printf("Opening %d game(s)...\n", len(ev.Offers))
		for _, o := range ev.Offers {
			fmt.Printf("  %s\n", o.Title)
		}
		if ev.Remaining > 0 {
			fmt.Printf("%d more remaining. Press ENTER for the next batch, or type 'no' to stop.\n", ev.Remaining)
		}
	case session.EventCompleted:
		fmt.Println("All done opening.")
	}
}

// commitClaims writes the session's accumulator to the ledger and, when
// the claim log is enabled, mirrors it into the store with URLs and
// sources. Failures warn; opened tabs are not undone by a bad disk.
func commitClaims(dir string, cfg config.Config, led *ledger.Ledger, titles []string, offers []domain.Offer) {
	if len(titles) == 0 {
		return
	}

	if err := led.Commit(titles); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save claim history: %v\n", err)
	} else {
		fmt.Printf("Saved %d newly claimed game(s).\n", len(titles))
	}

	if !cfg.ClaimLog.Enabled {
		return
	}

	byKey := make(map[string]domain.Offer, len(offers))
	for _, o := range offers {
		byKey[o.Key()] = o
	}
	now := time.Now().UTC()
	claims := make([]store.Claim, 0, len(titles))
	for _, t := range titles {
		o := byKey[t]
		claims = append(claims, store.Claim{
			Title:     o.Title,
			URL:       o.URL,
			Source:    o.Source.String(),
			ClaimedAt: now,
		})
	}

	db, err := store.Open(dbPath(dir))
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: claim log unavailable: %v\n", err)
		return
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		fmt.Fprintf(os.Stderr, "warning: claim log migration: %v\n", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.RecordClaims(ctx, db.Pool, claims); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write claim log: %v\n", err)
	}
}
