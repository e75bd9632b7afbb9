package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emichr/RSpace-NTNU-workshop/experiment"
	"github.com/emichr/RSpace-NTNU-workshop/ledger"
)

func experimentCmd() *cobra.Command {
	var (
		ignore      []string
		maxFilesize float64
		location    int64
		tags        []string
		noSubdirs   bool
		ledgerPath  string
	)

	cmd := &cobra.Command{
		Use:   "experiment <directory>",
		Short: "Upload an experiment directory and create a summary document",
		Long: `Walks the experiment directory, uploads each file to the gallery
(subject to the size limit and the ignore list), and creates one summary
document listing every file, its upload outcome, and its content converted
to HTML where the format is recognized (.md, .json).

Individual upload or conversion failures are recorded in the summary and do
not abort the run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := loadFileConfig(flagConfig)
			if err != nil {
				return fatal(cmd, err)
			}

			// Flag values override the config file.
			if !cmd.Flags().Changed("max-filesize") && cfg.MaxFileSizeMB > 0 {
				maxFilesize = cfg.MaxFileSizeMB
			}
			if len(ignore) == 0 {
				ignore = cfg.SkipSuffixes
			}
			if len(tags) == 0 {
				tags = cfg.Tags
			}
			if location == 0 {
				location = cfg.FolderID
			}
			if ledgerPath == "" {
				ledgerPath = cfg.Ledger
			}

			client, err := newClient(cfg, logger)
			if err != nil {
				return fatal(cmd, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pipe := experiment.New(client, experiment.Config{
				MaxFileSizeMB: maxFilesize,
				SkipSuffixes:  ignore,
				SkipSubdirs:   noSubdirs,
				FolderID:      location,
				Tags:          tags,
				Logger:        logger,
			})

			started := time.Now()
			report, err := pipe.Run(ctx, args[0])
			if err != nil {
				return fatal(cmd, err)
			}
			finished := time.Now()

			fmt.Fprintf(cmd.OutOrStdout(),
				"Created document %q (ID %d): %d/%d files uploaded\n",
				report.DocumentName, report.DocumentID, report.Uploaded(), len(report.Outcomes))

			if ledgerPath != "" {
				recordRun(ctx, logger, ledgerPath, report, started, finished)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "file suffixes to skip entirely (e.g. .tif,.raw)")
	cmd.Flags().Float64Var(&maxFilesize, "max-filesize", 2.0, "maximum individual file size to upload, in MB")
	cmd.Flags().Int64Var(&location, "location", 0, "ID of the folder or notebook to put the document in")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "tags for the summary document (API is always added)")
	cmd.Flags().BoolVar(&noSubdirs, "no-subdirs", false, "do not descend into subdirectories")
	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "record the run in a local SQLite ledger at this path")

	return cmd
}

// recordRun appends the run to the local ledger. Ledger failures are logged
// and swallowed: the document already exists on the server, the audit trail
// must not turn a successful run into a failed one.
func recordRun(ctx context.Context, logger *slog.Logger, path string, report *experiment.Report, started, finished time.Time) {
	l, err := ledger.Open(path)
	if err != nil {
		logger.Warn("ledger unavailable", "path", path, "error", err)
		return
	}
	defer l.Close()
	if err := l.RecordRun(ctx, report, started, finished); err != nil {
		logger.Warn("ledger write failed", "path", path, "error", err)
	}
}
