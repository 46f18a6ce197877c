package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/phonebill-converter/internal/config"
	"github.com/insightdelivered/phonebill-converter/internal/converter"
	"github.com/insightdelivered/phonebill-converter/internal/models"
)

// dumpDocument is the YAML view of one parsed document.
type dumpDocument struct {
	Source       string              `yaml:"source"`
	Error        string              `yaml:"error,omitempty"`
	Tokens       int                 `yaml:"tokens"`
	Unrecognized int                 `yaml:"unrecognized"`
	Numbers      []*models.Number    `yaml:"numbers,omitempty"`
	Trace        []models.TokenTrace `yaml:"trace,omitempty"`
}

func newDumpCmd() *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "dump <bill.pdf> [bill2.pdf ...]",
		Short: "Print the parsed accounts of each document as YAML",
		Long: `Parse each document and print every account with its calls, messages
and service groups as YAML. With --trace, the classification of every
token is included.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(config.Options{ConfigFile: cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Debug)

			runID := uuid.NewString()
			conv := converter.New(converter.Options{Config: cfg, Logger: logger})

			docs := make([]dumpDocument, 0, len(args))
			for _, path := range args {
				res, err := conv.Document(runID, path, trace)
				if err != nil {
					docs = append(docs, dumpDocument{Source: path, Error: err.Error()})
					continue
				}
				docs = append(docs, dumpDocument{
					Source:       path,
					Tokens:       res.Tokens,
					Unrecognized: res.Unrecognized,
					Numbers:      res.Book.Numbers,
					Trace:        res.Trace,
				})
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(docs); err != nil {
				return fmt.Errorf("YAML encoding failed: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().BoolVar(&trace, "trace", false, "include the per-token classification trace")
	return cmd
}
