package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/pipeline"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/anthropic"
)

var (
	analyzeInput   string
	analyzeOutput  string
	analyzeStart   int
	analyzeCount   int
	analyzeDelay   time.Duration
	analyzeOffline bool
	analyzeDryRun  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a company list with Claude",
	Long: `Reads a company list (CSV or XLSX), sends each row to Claude with a fixed
analysis prompt, and writes structured results to the output CSV. The output
is rewritten after every row, so an interrupted run keeps all completed rows.

Failed rows never abort the run; re-run them later with --start/--count.

Examples:
  # Dry run: parse input only, no API calls
  prospect-cli analyze --input companies.csv --dry-run

  # Offline full pipeline (no API key needed)
  prospect-cli analyze --input companies.csv --offline

  # Re-run rows 40-49 after fixing an earlier failure
  prospect-cli analyze --input companies.csv --start 40 --count 10`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		companies, err := pipeline.LoadCompanies(analyzeInput)
		if err != nil {
			return eris.Wrap(err, "analyze: load input")
		}
		zap.L().Info("analyze: loaded input", zap.Int("companies", len(companies)))

		companies, err = sliceWindow(companies, analyzeStart, analyzeCount)
		if err != nil {
			return err
		}

		if analyzeDryRun {
			return printCompaniesJSON(companies)
		}

		var client anthropic.Client
		if analyzeOffline {
			client = &pipeline.StubAnthropicClient{}
		} else {
			if cfg.Anthropic.Key == "" {
				return eris.New("analyze: PROSPECT_ANTHROPIC_KEY is not set; set it or use --offline")
			}
			client = anthropic.NewClient(cfg.Anthropic.Key)
		}

		journal, err := openJournal(ctx)
		if err != nil {
			return err
		}
		if journal != nil {
			defer journal.Close() //nolint:errcheck
		}

		output := analyzeOutput
		if output == "" {
			output = cfg.Run.Output
		}
		delay := analyzeDelay
		if !cmd.Flags().Changed("delay") {
			delay = cfg.Run.Delay
		}

		runner := pipeline.NewRunner(client, journal, cfg.Anthropic, delay)
		results, err := runner.Run(ctx, companies, output)
		if err != nil {
			return eris.Wrap(err, "analyze: run")
		}

		var succeeded, failed int
		for i := range results {
			if results[i].Failed() {
				failed++
			} else {
				succeeded++
			}
		}
		zap.L().Info("analyze: run complete",
			zap.Int("total", len(results)),
			zap.Int("succeeded", succeeded),
			zap.Int("failed", failed),
			zap.String("output", output),
		)

		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "path to company list (.csv or .xlsx, required)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "output CSV path (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeStart, "start", 0, "starting row offset")
	analyzeCmd.Flags().IntVar(&analyzeCount, "count", 0, "number of rows to process (0 = all remaining)")
	analyzeCmd.Flags().DurationVar(&analyzeDelay, "delay", time.Second, "pause between requests")
	analyzeCmd.Flags().BoolVar(&analyzeOffline, "offline", false, "use the stub client (no API key needed)")
	analyzeCmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "parse input and print companies, skip the pipeline")
	_ = analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}

// sliceWindow applies the start offset and row count to the loaded companies.
func sliceWindow(companies []model.Company, start, count int) ([]model.Company, error) {
	if start < 0 || count < 0 {
		return nil, eris.New("analyze: --start and --count must be non-negative")
	}
	if start >= len(companies) {
		return nil, eris.Errorf("analyze: start offset %d is beyond the last row (%d rows loaded)", start, len(companies))
	}
	companies = companies[start:]
	if count > 0 && count < len(companies) {
		companies = companies[:count]
	}
	return companies, nil
}

// openJournal opens and migrates the run journal when one is configured.
func openJournal(ctx context.Context) (*store.SQLiteStore, error) {
	if cfg.Store.Path == "" {
		return nil, nil
	}
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "analyze: open journal")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "analyze: migrate journal")
	}
	return st, nil
}

// printCompaniesJSON prints parsed companies as indented JSON.
func printCompaniesJSON(companies []model.Company) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(companies)
}
