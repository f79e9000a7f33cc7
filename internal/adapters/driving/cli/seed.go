package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/pharmadex/labelseed/internal/adapters/driven/config/file"
	"github.com/pharmadex/labelseed/internal/adapters/driven/storage/memory"
	"github.com/pharmadex/labelseed/internal/adapters/driven/storage/postgres"
	"github.com/pharmadex/labelseed/internal/core/domain"
	"github.com/pharmadex/labelseed/internal/core/ports/driven"
	"github.com/pharmadex/labelseed/internal/core/ports/driving"
	"github.com/pharmadex/labelseed/internal/core/services"
	"github.com/pharmadex/labelseed/internal/parser"
	"github.com/pharmadex/labelseed/internal/transformer"
)

var (
	seedBatchSize  int
	seedResumeFrom int
	seedNoIndexes  bool
	seedNoProgress bool
	seedDryRun     bool
	seedConfigPath string
)

var seedCmd = &cobra.Command{
	Use:   "seed <labels-file>",
	Short: "Ingest a drug-label file into the database",
	Long: `Streams the given FDA label JSON file, transforms each document
into a canonical drug record, and loads the records into PostgreSQL in
batches. Reruns over the same file update existing rows instead of
duplicating them.

An interrupted run prints the offset of the last consumed document;
pass it back with --resume-from to continue where it stopped.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedBatchSize, "batch-size", 0, "records per load transaction (overrides config)")
	seedCmd.Flags().IntVar(&seedResumeFrom, "resume-from", 0, "skip this many source documents before loading")
	seedCmd.Flags().BoolVar(&seedNoIndexes, "no-indexes", false, "skip index creation after loading")
	seedCmd.Flags().BoolVar(&seedNoProgress, "no-progress", false, "disable progress reporting")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "run the pipeline without touching the database")
	seedCmd.Flags().StringVar(&seedConfigPath, "config", "", "path to a TOML config file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := configfile.Load(seedConfigPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	batchSize := cfg.Seeder.BatchSize
	if seedBatchSize > 0 {
		batchSize = seedBatchSize
	}

	source, err := parser.Open(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store driven.DrugStore
	if seedDryRun {
		cmd.Println("Dry run: records stay in memory, the database is untouched.")
		store = memory.NewDrugStore()
	} else {
		store, err = postgres.NewStore(ctx, postgres.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			Database: cfg.Database.Database,
		})
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
	}
	defer store.Close()

	svc := services.NewSeedService(source, transformer.New(), store, services.SeedOptions{
		BatchSize:     batchSize,
		ResumeFrom:    seedResumeFrom,
		CreateIndexes: !seedNoIndexes,
		CountTotal:    !seedNoProgress,
	})

	cmd.Printf("Seeding from %s...\n", args[0])

	report, err := seedWithProgress(ctx, cmd, svc)
	if report != nil {
		cmd.Println(renderReport(report))
		if report.Interrupted {
			cmd.Printf("Interrupted. Resume with --resume-from %d\n", report.LastOffset)
		}
	}
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	return nil
}

// seedWithProgress runs the ingestion while displaying progress updates.
func seedWithProgress(ctx context.Context, cmd *cobra.Command, seeder driving.Seeder) (*domain.RunReport, error) {
	type result struct {
		report *domain.RunReport
		err    error
	}

	resCh := make(chan result, 1)
	go func() {
		report, err := seeder.Run(ctx)
		resCh <- result{report, err}
	}()

	if seedNoProgress {
		res := <-resCh
		return res.report, res.err
	}

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case res := <-resCh:
			if res.report != nil && res.report.LastOffset > 0 {
				cmd.Printf("\rProcessed %d documents (%d errors)\n",
					res.report.LastOffset, res.report.Stats.Errors)
			}
			return res.report, res.err
		case <-ticker.C:
			status := seeder.Status()
			if status.Consumed > lastCount {
				if status.Total > 0 {
					cmd.Printf("\rProcessing... %d/%d documents", status.Consumed, status.Total)
				} else {
					cmd.Printf("\rProcessing... %d documents", status.Consumed)
				}
				lastCount = status.Consumed
			}
		}
	}
}
