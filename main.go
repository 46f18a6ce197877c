package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/phonebill-converter/internal/config"
	"github.com/insightdelivered/phonebill-converter/internal/converter"
	"github.com/insightdelivered/phonebill-converter/internal/report"
	"github.com/insightdelivered/phonebill-converter/internal/store"
	"github.com/insightdelivered/phonebill-converter/internal/writer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile     string
		outputPath  string
		withSources bool
	)

	cmd := &cobra.Command{
		Use:   "phonebill-converter [flags] <bill.pdf> [bill2.pdf ...]",
		Short: "Convert phone bill PDFs into CSV usage reports",
		Long: `Phone Bill PDF to CSV Converter
by Insight Delivered (QEA AutoLens)

Reads itemized telephone bills, collects the calls, text messages and
service summaries of every phone number on them, and writes one report
across all documents to standard output.

Report types:
  inline   - one row per voice or sms group: number, service, group, minutes or count
  grouped  - one row per number: sms count and price, call duration and price

Examples:
  # Convert one bill
  phonebill-converter bill.pdf

  # Per-number totals over a quarter, written to a file
  phonebill-converter --report=grouped -o q1.csv jan.pdf feb.pdf mar.pdf

  # Per-token diagnostics on stderr
  PHONEBILL_DEBUG=true phonebill-converter bill.pdf`,
		Version:      version,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{ConfigFile: cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Debug)

			builder, err := report.New(cfg.Report)
			if err != nil {
				return err
			}

			db, err := openStore(cfg.DB)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}

			runID := uuid.NewString()
			conv := converter.New(converter.Options{Config: cfg, Logger: logger, Store: db})
			table, failures := conv.Run(runID, args, builder)

			w := &writer.CSVWriter{IncludeSources: withSources}
			if outputPath != "" {
				err = w.WriteToFile(outputPath, table)
			} else {
				err = w.Write(cmd.OutOrStdout(), table)
			}
			if err != nil {
				return fmt.Errorf("CSV write failed: %w", err)
			}

			logger.Info("conversion finished",
				"run", runID,
				"report", builder.Type(),
				"documents", len(args),
				"skipped", len(failures),
				"rows", len(table.Rows),
			)
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./phonebill.yaml or ~/.phonebill/phonebill.yaml)")
	pf.Bool("debug", false, "log every token the parser sees (also PHONEBILL_DEBUG)")
	pf.Int("year", config.Default().Year, "year used for dates printed without one")
	pf.Bool("strict", false, "abort a document on a date without a preceding record kind")
	pf.String("encoding", config.Default().Encoding, "charset of undecodable PDF strings: cp1250 or utf-8")
	pf.String("source", config.Default().Source, "text source: auto, library or raw")
	pf.String("db", "", "SQLite file that receives every parsed call and message")

	f := cmd.Flags()
	f.String("report", config.Default().Report, "report type: inline or grouped")
	f.StringVarP(&outputPath, "output", "o", "", "write the CSV to this file instead of stdout")
	f.BoolVar(&withSources, "sources", false, "prefix the CSV with one '# Source' line per document")

	cmd.AddCommand(newServeCmd(), newDumpCmd(), newVersionCmd())
	return cmd
}

// newLogger returns a text logger; debug enables per-token trace lines.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func openStore(path string) (*store.DB, error) {
	if path == "" {
		return nil, nil
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
