package main

import (
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/emichr/RSpace-NTNU-workshop/experiment"
)

func mcpCmd() *cobra.Command {
	var (
		ignore      []string
		maxFilesize float64
		location    int64
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the ingestion pipeline as MCP tools over stdio",
		Long: `Exposes experiment_ingest, experiment_scan, and eln_list_documents as
Model Context Protocol tools so that agent frontends can drive the ELN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := loadFileConfig(flagConfig)
			if err != nil {
				return fatal(cmd, err)
			}
			if maxFilesize <= 0 {
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

			client, err := newClient(cfg, logger)
			if err != nil {
				return fatal(cmd, err)
			}

			pipe := experiment.New(client, experiment.Config{
				MaxFileSizeMB: maxFilesize,
				SkipSuffixes:  ignore,
				FolderID:      location,
				Tags:          tags,
				Logger:        logger,
			})

			srv := mcp.NewServer(&mcp.Implementation{
				Name:    "rspace-eln",
				Version: version,
			}, nil)
			pipe.RegisterMCP(srv)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("MCP server on stdio")
			if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
				return fatal(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "file suffixes the ingest tool skips")
	cmd.Flags().Float64Var(&maxFilesize, "max-filesize", 0, "maximum individual file size to upload, in MB")
	cmd.Flags().Int64Var(&location, "location", 0, "default folder or notebook ID for summary documents")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "default tags for summary documents")

	return cmd
}
